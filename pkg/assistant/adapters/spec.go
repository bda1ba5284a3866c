package adapters

import (
	"context"
)

// ContractAdapter is the backend invocation collaborator. The router treats
// implementations as opaque: a message list goes in under a deadline-bearing
// context, text or an error comes out. Implementations must honor ctx
// cancellation; the router abandons the call once the deadline passes.
type ContractAdapter interface {
	Invoke(ctx context.Context, model string, msgs []ContractMessage) (string, error)
}
