package consult

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/vitalis-health/vitalis/internal/config"
	"github.com/vitalis-health/vitalis/internal/repository/conversation"
	"github.com/vitalis-health/vitalis/pkg/Logger"
	"github.com/vitalis-health/vitalis/pkg/assistant/adapters"
	"github.com/vitalis-health/vitalis/pkg/assistant/router"
)

type scriptedAdapter struct {
	seenMsgs [][]adapters.ContractMessage
	reply    string
	err      error
}

func (s *scriptedAdapter) Invoke(ctx context.Context, model string, msgs []adapters.ContractMessage) (string, error) {
	s.seenMsgs = append(s.seenMsgs, msgs)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTestService(t *testing.T, precision, fast adapters.ContractAdapter, maxTurns int) (ConsultService, *conversation.MemoryContextStore) {
	t.Helper()

	reg, err := router.NewRegistry([]router.BackendDescriptor{
		{Name: "deepseek-r1", Role: router.Precision, Provider: "openai", Timeout: time.Second, Priority: 1},
		{Name: "qwen-turbo", Role: router.Fast, Provider: "openai", Timeout: time.Second, Priority: 2},
	})
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}

	cfg := config.RouterConfig{
		WindowSize:             10,
		MinSamples:             3,
		DegradeTimeoutRate:     0.3,
		DegradeAvgLatency:      120 * time.Second,
		UnavailableTimeoutRate: 0.6,
		PrecisionFirst:         true,
	}
	tracker := router.NewTracker(cfg, reg)
	policy := router.NewPolicy(reg, tracker, true)

	mux, err := router.New(reg, tracker, policy, map[string]adapters.ContractAdapter{
		"deepseek-r1": precision,
		"qwen-turbo":  fast,
	}, Logger.New(true))
	if err != nil {
		t.Fatalf("Failed to build mux: %v", err)
	}

	store := conversation.NewMemoryContextStore(maxTurns)
	return New(mux, store, Logger.New(true)), store
}

func TestRespondAppendsBothTurnsInOrder(t *testing.T) {
	ad := &scriptedAdapter{reply: "roughly two liters a day"}
	svc, _ := newTestService(t, ad, &scriptedAdapter{reply: "unused"}, 10)

	reply, err := svc.Respond(context.Background(), "c-1", "How much water should I drink?")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if reply.Reply != "roughly two liters a day" {
		t.Errorf("Expected model reply, got %q", reply.Reply)
	}
	if reply.ModelUsed != "deepseek-r1" {
		t.Errorf("Expected deepseek-r1, got %s", reply.ModelUsed)
	}
	if reply.Attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", reply.Attempts)
	}

	turns, err := svc.History(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("Expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != adapters.USER || turns[0].Content != "How much water should I drink?" {
		t.Errorf("Expected user turn first, got %+v", turns[0])
	}
	if turns[1].Role != adapters.ASSISTANT || turns[1].Content != "roughly two liters a day" {
		t.Errorf("Expected assistant turn second, got %+v", turns[1])
	}
	if turns[1].Model != "deepseek-r1" {
		t.Errorf("Expected assistant turn tagged with its backend, got %q", turns[1].Model)
	}
}

func TestRespondSendsBoundedHistory(t *testing.T) {
	ad := &scriptedAdapter{reply: "ok"}
	svc, _ := newTestService(t, ad, &scriptedAdapter{reply: "unused"}, 4)

	for i := 0; i < 4; i++ {
		if _, err := svc.Respond(context.Background(), "c-1", fmt.Sprintf("question %d", i)); err != nil {
			t.Fatalf("Respond %d failed: %v", i, err)
		}
	}

	// First call carries just the new message
	if got := len(ad.seenMsgs[0]); got != 1 {
		t.Errorf("Expected 1 message on first call, got %d", got)
	}
	// Second call: 2 stored turns + the new message
	if got := len(ad.seenMsgs[1]); got != 3 {
		t.Errorf("Expected 3 messages on second call, got %d", got)
	}
	// By the fourth call the store has been truncated to maxTurns
	if got := len(ad.seenMsgs[3]); got != 5 {
		t.Errorf("Expected 5 messages on fourth call (4 kept turns + new), got %d", got)
	}
}

func TestRespondKeepsConversationsIsolated(t *testing.T) {
	ad := &scriptedAdapter{reply: "ok"}
	svc, _ := newTestService(t, ad, &scriptedAdapter{reply: "unused"}, 10)

	if _, err := svc.Respond(context.Background(), "c-1", "first"); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if _, err := svc.Respond(context.Background(), "c-2", "second"); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	// The second conversation must not see the first one's turns
	if got := len(ad.seenMsgs[1]); got != 1 {
		t.Errorf("Expected fresh conversation to carry 1 message, got %d", got)
	}
}

func TestRespondDoesNotAppendOnDispatchFailure(t *testing.T) {
	broken := &scriptedAdapter{err: errors.New("upstream down")}
	svc, _ := newTestService(t, broken, broken, 10)

	_, err := svc.Respond(context.Background(), "c-1", "hello")
	if !errors.Is(err, router.ErrBackend) {
		t.Fatalf("Expected ErrBackend, got %v", err)
	}

	turns, err := svc.History(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("Expected no turns after failed dispatch, got %d", len(turns))
	}
}

func TestRespondFallsBackToAlternate(t *testing.T) {
	broken := &scriptedAdapter{err: errors.New("upstream down")}
	fast := &scriptedAdapter{reply: "fast answer"}
	svc, _ := newTestService(t, broken, fast, 10)

	reply, err := svc.Respond(context.Background(), "c-1", "hello")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if reply.ModelUsed != "qwen-turbo" {
		t.Errorf("Expected fallback backend, got %s", reply.ModelUsed)
	}
	if reply.Attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", reply.Attempts)
	}
}
