package router

import (
	"github.com/looplab/fsm"
)

// Tier is the live health classification of a backend.
type Tier string

const (
	TierHealthy     Tier = "healthy"
	TierDegraded    Tier = "degraded"
	TierUnavailable Tier = "unavailable"
)

const (
	evDegrade  = "degrade"
	evCollapse = "collapse"
	evRecover  = "recover"
)

// newTierMachine builds the per-backend health state machine. Backends start
// Healthy (optimistic start: an empty window reads as neutral metrics).
// There is no cool-down on recover: a backend whose window falls back under
// the thresholds is used again on the very next request.
func newTierMachine() *fsm.FSM {
	return fsm.NewFSM(
		string(TierHealthy),
		fsm.Events{
			{Name: evDegrade, Src: []string{string(TierHealthy)}, Dst: string(TierDegraded)},
			{Name: evCollapse, Src: []string{string(TierDegraded)}, Dst: string(TierUnavailable)},
			{Name: evRecover, Src: []string{string(TierDegraded), string(TierUnavailable)}, Dst: string(TierHealthy)},
		},
		fsm.Callbacks{},
	)
}
