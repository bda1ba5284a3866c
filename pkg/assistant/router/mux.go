package router

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vitalis-health/vitalis/pkg/Logger"
	"github.com/vitalis-health/vitalis/pkg/assistant/adapters"
)

// Mux is the dispatch engine: it asks the policy for a backend, issues the
// call under that backend's deadline, records the outcome, and retries once
// on the alternate when the primary times out or errors. A request makes at
// most two backend attempts.
type Mux struct {
	registry *Registry
	tracker  *Tracker
	policy   *Policy
	adapters map[string]adapters.ContractAdapter
	logger   *Logger.Logger
}

// DispatchResult is a successful routed response.
type DispatchResult struct {
	Text     string
	Backend  BackendDescriptor
	Latency  time.Duration
	Attempts int
}

func New(
	registry *Registry,
	tracker *Tracker,
	policy *Policy,
	adapterMap map[string]adapters.ContractAdapter,
	logger *Logger.Logger,
) (*Mux, error) {
	for _, b := range registry.List() {
		if _, ok := adapterMap[b.Name]; !ok {
			return nil, fmt.Errorf("%w: no adapter for backend %s", ErrNotConfigured, b.Name)
		}
	}
	return &Mux{
		registry: registry,
		tracker:  tracker,
		policy:   policy,
		adapters: adapterMap,
		logger:   logger,
	}, nil
}

// Dispatch routes one outbound message list. When no backend is usable it
// returns ErrAllBackendsUnavailable without touching the network.
func (m *Mux) Dispatch(ctx context.Context, msgs []adapters.ContractMessage) (*DispatchResult, error) {
	sel, err := m.policy.Select()
	if err != nil {
		return nil, err
	}

	res, err := m.attempt(ctx, sel.Primary, msgs)
	if err == nil {
		res.Attempts = 1
		return res, nil
	}
	if ctx.Err() != nil || sel.Alternate == nil {
		return nil, err
	}
	if !errors.Is(err, ErrTimeout) && !errors.Is(err, ErrBackend) {
		return nil, err
	}

	m.logger.Warnf("backend %s failed (%v), retrying once on %s", sel.Primary.Name, err, sel.Alternate.Name)
	res, err = m.attempt(ctx, *sel.Alternate, msgs)
	if err != nil {
		return nil, err
	}
	res.Attempts = 2
	return res, nil
}

type callResult struct {
	text string
	err  error
}

// attempt issues a single backend call under the backend's own deadline and
// records the outcome. A call that outlives its deadline is abandoned: its
// late reply, if any, dies with the buffered channel and is never recorded.
func (m *Mux) attempt(ctx context.Context, backend BackendDescriptor, msgs []adapters.ContractMessage) (*DispatchResult, error) {
	ad := m.adapters[backend.Name]

	cctx, cancel := context.WithTimeout(ctx, backend.Timeout)
	defer cancel()

	start := time.Now()
	ch := make(chan callResult, 1)
	go func() {
		text, err := ad.Invoke(cctx, backend.Name, msgs)
		ch <- callResult{text: text, err: err}
	}()

	select {
	case r := <-ch:
		elapsed := time.Since(start)
		if r.err != nil {
			if ctx.Err() != nil {
				// caller went away; not the backend's fault, don't record
				return nil, ctx.Err()
			}
			if errors.Is(r.err, context.DeadlineExceeded) {
				m.tracker.Record(backend.Name, elapsed, Timeout)
				return nil, fmt.Errorf("%w: %s after %v", ErrTimeout, backend.Name, backend.Timeout)
			}
			m.tracker.Record(backend.Name, elapsed, Error)
			return nil, fmt.Errorf("%w: %s: %v", ErrBackend, backend.Name, r.err)
		}
		m.tracker.Record(backend.Name, elapsed, Success)
		m.logger.Debugf("backend %s answered in %v", backend.Name, elapsed)
		return &DispatchResult{Text: r.text, Backend: backend, Latency: elapsed}, nil

	case <-cctx.Done():
		if ctx.Err() != nil {
			// caller went away; not the backend's fault, don't record
			return nil, ctx.Err()
		}
		elapsed := time.Since(start)
		m.tracker.Record(backend.Name, elapsed, Timeout)
		return nil, fmt.Errorf("%w: %s after %v", ErrTimeout, backend.Name, backend.Timeout)
	}
}
