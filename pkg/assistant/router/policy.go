package router

// Policy decides which backend a request should try first and which one is
// left as the single-retry alternate. Healthy backends win; Degraded ones
// remain usable as a last resort; Unavailable backends are skipped entirely.
type Policy struct {
	registry       *Registry
	tracker        *Tracker
	precisionFirst bool
}

// Selection is one routing decision: a primary backend to try, plus an
// optional alternate for the single retry.
type Selection struct {
	Primary   BackendDescriptor
	Alternate *BackendDescriptor
}

func NewPolicy(registry *Registry, tracker *Tracker, precisionFirst bool) *Policy {
	return &Policy{
		registry:       registry,
		tracker:        tracker,
		precisionFirst: precisionFirst,
	}
}

// Select picks the backend order for one request. Preference is
// precision-first by default (favors answer quality) and can be flipped to
// fast-first via configuration.
func (p *Policy) Select() (Selection, error) {
	order := p.preferenceOrder()

	primaryIdx := -1
	for i, b := range order {
		if p.tracker.Tier(b.Name) == TierHealthy {
			primaryIdx = i
			break
		}
	}
	if primaryIdx == -1 {
		// no Healthy backend: degrade gracefully onto the best non-dead one
		for i, b := range order {
			if p.tracker.Tier(b.Name) != TierUnavailable {
				primaryIdx = i
				break
			}
		}
	}
	if primaryIdx == -1 {
		return Selection{}, ErrAllBackendsUnavailable
	}

	sel := Selection{Primary: order[primaryIdx]}
	for i, b := range order {
		if i == primaryIdx || p.tracker.Tier(b.Name) == TierUnavailable {
			continue
		}
		alt := b
		sel.Alternate = &alt
		break
	}
	return sel, nil
}

// preferenceOrder lists all backends: preferred role first, then the other,
// each role's backends kept in priority order.
func (p *Policy) preferenceOrder() []BackendDescriptor {
	roles := []Role{Precision, Fast}
	if !p.precisionFirst {
		roles = []Role{Fast, Precision}
	}

	var order []BackendDescriptor
	for _, role := range roles {
		for _, b := range p.registry.List() {
			if b.Role == role {
				order = append(order, b)
			}
		}
	}
	return order
}
