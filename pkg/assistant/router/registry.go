package router

import (
	"fmt"
	"sort"
	"time"
)

type Role string

const (
	Precision Role = "precision"
	Fast      Role = "fast"
)

// BackendDescriptor is the static catalog entry for one model backend.
// Immutable after registration; built once at process start.
type BackendDescriptor struct {
	Name     string        `json:"name"`
	Role     Role          `json:"role"`
	Provider string        `json:"provider"`
	Timeout  time.Duration `json:"timeout"`
	Priority int           `json:"priority"`
}

// Registry is the read-only backend catalog. No locking: it never changes
// after New.
type Registry struct {
	backends []BackendDescriptor
	byRole   map[Role]BackendDescriptor
}

func NewRegistry(backends []BackendDescriptor) (*Registry, error) {
	if len(backends) == 0 {
		return nil, fmt.Errorf("%w: empty backend catalog", ErrNotConfigured)
	}

	ordered := make([]BackendDescriptor, len(backends))
	copy(ordered, backends)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	byRole := make(map[Role]BackendDescriptor)
	for _, b := range ordered {
		switch b.Role {
		case Precision, Fast:
		default:
			return nil, fmt.Errorf("%w: backend %s has unknown role %q", ErrNotConfigured, b.Name, b.Role)
		}
		if b.Timeout <= 0 {
			return nil, fmt.Errorf("%w: backend %s has no timeout", ErrNotConfigured, b.Name)
		}
		if prev, ok := byRole[b.Role]; ok {
			if prev.Priority == b.Priority {
				return nil, fmt.Errorf("%w: backends %s and %s share priority %d for role %s",
					ErrNotConfigured, prev.Name, b.Name, b.Priority, b.Role)
			}
			// first by priority stays default-first for the role
			continue
		}
		byRole[b.Role] = b
	}

	for _, role := range []Role{Precision, Fast} {
		if _, ok := byRole[role]; !ok {
			return nil, fmt.Errorf("%w: no backend registered for role %s", ErrNotConfigured, role)
		}
	}

	return &Registry{
		backends: ordered,
		byRole:   byRole,
	}, nil
}

// List returns all backends in priority order.
func (r *Registry) List() []BackendDescriptor {
	out := make([]BackendDescriptor, len(r.backends))
	copy(out, r.backends)
	return out
}

// Get returns the default-first backend registered for a role.
func (r *Registry) Get(role Role) (BackendDescriptor, error) {
	b, ok := r.byRole[role]
	if !ok {
		return BackendDescriptor{}, fmt.Errorf("%w: no backend for role %s", ErrNotConfigured, role)
	}
	return b, nil
}
