package consult

import (
	"context"
	"sync"

	"github.com/vitalis-health/vitalis/internal/types"
	"github.com/vitalis-health/vitalis/pkg/Logger"
	"github.com/vitalis-health/vitalis/pkg/assistant/router"
)

type ConsultService interface {
	Respond(ctx context.Context, conversationID string, message string) (*types.ConsultReply, error)
	History(ctx context.Context, conversationID string) ([]types.Turn, error)
}

type consultService struct {
	mux    *router.Mux
	store  ContextStore
	logger *Logger.Logger

	// keyed mutex table: appends for one conversation id never interleave,
	// different ids proceed in parallel
	mu        sync.Mutex
	convLocks map[string]*sync.Mutex
}

func New(mux *router.Mux, store ContextStore, logger *Logger.Logger) ConsultService {
	return &consultService{
		mux:       mux,
		store:     store,
		logger:    logger,
		convLocks: make(map[string]*sync.Mutex),
	}
}

// Respond implements ConsultService. Side effects are strictly ordered: the
// performance window is updated inside Dispatch before the context append,
// so a crash between the two can skip a context append but never leaves
// stale routing data.
func (c *consultService) Respond(ctx context.Context, conversationID string, message string) (*types.ConsultReply, error) {
	lk := c.lockFor(conversationID)
	lk.Lock()
	defer lk.Unlock()

	history, err := c.store.History(ctx, conversationID)
	if err != nil {
		// context is best-effort; answer with what we have
		c.logger.Warnf("context fetch failed for %s: %v", conversationID, err)
		history = nil
	}

	userTurn := types.NewUserTurn(message)
	msgs := types.TurnsToContractMessages(append(history, userTurn))

	res, err := c.mux.Dispatch(ctx, msgs)
	if err != nil {
		return nil, err
	}

	reply := types.NewAssistantTurn(res.Text, res.Backend.Name)
	if err := c.store.Append(ctx, conversationID, userTurn, reply); err != nil {
		c.logger.Errorf("context append failed for %s: %v", conversationID, err)
	}

	return &types.ConsultReply{
		ConversationID: conversationID,
		Reply:          res.Text,
		ModelUsed:      res.Backend.Name,
		LatencyMs:      res.Latency.Milliseconds(),
		Attempts:       res.Attempts,
	}, nil
}

// History implements ConsultService.
func (c *consultService) History(ctx context.Context, conversationID string) ([]types.Turn, error) {
	return c.store.History(ctx, conversationID)
}

func (c *consultService) lockFor(conversationID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lk, ok := c.convLocks[conversationID]
	if !ok {
		lk = &sync.Mutex{}
		c.convLocks[conversationID] = lk
	}
	return lk
}
