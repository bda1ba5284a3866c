package conversation

import (
	"context"
	"sync"

	"github.com/vitalis-health/vitalis/internal/types"
)

// MemoryContextStore is the in-process context store. Used when no redis is
// configured and by tests.
type MemoryContextStore struct {
	mu       sync.RWMutex
	maxTurns int
	convos   map[string][]types.Turn
}

func NewMemoryContextStore(maxTurns int) *MemoryContextStore {
	return &MemoryContextStore{
		maxTurns: maxTurns,
		convos:   make(map[string][]types.Turn),
	}
}

// Append implements consult.ContextStore. The conversation is created lazily
// on first append and truncated oldest-first to maxTurns on every write.
func (m *MemoryContextStore) Append(ctx context.Context, conversationID string, turns ...types.Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := append(m.convos[conversationID], turns...)
	if len(history) > m.maxTurns {
		history = history[len(history)-m.maxTurns:]
	}
	m.convos[conversationID] = history
	return nil
}

// History implements consult.ContextStore. Unknown ids read as empty.
func (m *MemoryContextStore) History(ctx context.Context, conversationID string) ([]types.Turn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := m.convos[conversationID]
	out := make([]types.Turn, len(history))
	copy(out, history)
	return out, nil
}
