package consult

import (
	"context"

	"github.com/vitalis-health/vitalis/internal/types"
)

// ContextStore keeps the bounded per-conversation history. History returns
// an empty slice for an unknown id, never an error; Append enforces the
// oldest-first truncation on every write. Whole-conversation eviction (TTL,
// capacity) is the store implementation's concern.
type ContextStore interface {
	Append(ctx context.Context, conversationID string, turns ...types.Turn) error
	History(ctx context.Context, conversationID string) ([]types.Turn, error)
}
