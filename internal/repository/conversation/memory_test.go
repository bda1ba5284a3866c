package conversation

import (
	"context"
	"fmt"
	"testing"

	"github.com/vitalis-health/vitalis/internal/types"
)

func TestMemoryStoreUnknownConversationReadsEmpty(t *testing.T) {
	store := NewMemoryContextStore(10)

	turns, err := store.History(context.Background(), "nope")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("Expected empty history, got %d turns", len(turns))
	}
}

func TestMemoryStoreTruncatesOldestFirst(t *testing.T) {
	store := NewMemoryContextStore(4)

	for i := 0; i < 6; i++ {
		turn := types.NewUserTurn(fmt.Sprintf("message %d", i))
		if err := store.Append(context.Background(), "c-1", turn); err != nil {
			t.Fatalf("Append %d failed: %v", i, err)
		}
	}

	turns, err := store.History(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(turns) != 4 {
		t.Fatalf("Expected history capped at 4, got %d", len(turns))
	}
	// The two oldest messages are gone
	if turns[0].Content != "message 2" {
		t.Errorf("Expected oldest kept turn to be message 2, got %q", turns[0].Content)
	}
	if turns[3].Content != "message 5" {
		t.Errorf("Expected newest turn to be message 5, got %q", turns[3].Content)
	}
}

func TestMemoryStorePairAppendStaysAtomic(t *testing.T) {
	store := NewMemoryContextStore(10)

	user := types.NewUserTurn("question")
	assistant := types.NewAssistantTurn("answer", "qwen-turbo")
	if err := store.Append(context.Background(), "c-1", user, assistant); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	turns, err := store.History(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("Expected 2 turns, got %d", len(turns))
	}
	if turns[0].Content != "question" || turns[1].Content != "answer" {
		t.Errorf("Expected question then answer, got %q then %q", turns[0].Content, turns[1].Content)
	}
}

func TestMemoryStoreHistoryReturnsCopy(t *testing.T) {
	store := NewMemoryContextStore(10)

	if err := store.Append(context.Background(), "c-1", types.NewUserTurn("original")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	turns, _ := store.History(context.Background(), "c-1")
	turns[0].Content = "mutated"

	fresh, _ := store.History(context.Background(), "c-1")
	if fresh[0].Content != "original" {
		t.Error("Mutating a returned history should not change the store")
	}
}

func TestMemoryStoreConversationsAreIndependent(t *testing.T) {
	store := NewMemoryContextStore(2)

	_ = store.Append(context.Background(), "c-1", types.NewUserTurn("a"), types.NewUserTurn("b"))
	_ = store.Append(context.Background(), "c-2", types.NewUserTurn("x"))

	one, _ := store.History(context.Background(), "c-1")
	two, _ := store.History(context.Background(), "c-2")
	if len(one) != 2 || len(two) != 1 {
		t.Errorf("Expected independent histories, got %d and %d", len(one), len(two))
	}
}
