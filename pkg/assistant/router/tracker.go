package router

import (
	"context"
	"encoding/binary"
	"sync"
	"time"

	"github.com/looplab/fsm"
	"github.com/smallnest/ringbuffer"
	"github.com/vitalis-health/vitalis/internal/config"
)

// Result classifies one completed (or abandoned) backend call.
type Result uint8

const (
	Success Result = iota
	Timeout
	Error
)

// Snapshot holds derived health signals for one backend, computed on read
// over the current window so they can never go stale. An empty window reads
// as neutral metrics (zero rates), which keeps fresh backends Healthy.
type Snapshot struct {
	AvgLatency  time.Duration `json:"avgLatency"`
	TimeoutRate float64       `json:"timeoutRate"`
	ErrorRate   float64       `json:"errorRate"`
	SampleCount int           `json:"sampleCount"`
}

// outcomeSize is the fixed wire size of one window record:
// 8 bytes latency (microseconds, little endian) + 1 byte result.
const outcomeSize = 9

// Tracker keeps a rolling window of call outcomes per backend and drives the
// backend's tier machine transactionally with every window mutation. Each
// backend has its own lock so recording against backend A never blocks
// progress on backend B.
type Tracker struct {
	cfg     config.RouterConfig
	windows map[string]*backendWindow
}

type backendWindow struct {
	mu      sync.Mutex
	rb      *ringbuffer.RingBuffer
	machine *fsm.FSM
}

func NewTracker(cfg config.RouterConfig, registry *Registry) *Tracker {
	windows := make(map[string]*backendWindow)
	for _, b := range registry.List() {
		windows[b.Name] = &backendWindow{
			// Non-blocking ring: eviction is handled explicitly below
			rb:      ringbuffer.New(cfg.WindowSize * outcomeSize).SetBlocking(false),
			machine: newTierMachine(),
		}
	}
	return &Tracker{
		cfg:     cfg,
		windows: windows,
	}
}

// Record appends one outcome to the backend's window, evicting the oldest
// entry once the window is full, then re-evaluates the backend tier under
// the same lock. Unknown backends are ignored.
func (t *Tracker) Record(backend string, latency time.Duration, result Result) {
	w, ok := t.windows[backend]
	if !ok {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.rb.Free() < outcomeSize {
		// drop exactly one record off the front
		evicted := make([]byte, outcomeSize)
		if n, err := w.rb.Read(evicted); err != nil || n != outcomeSize {
			// a torn ring can only come from a code bug; start over
			w.rb.Reset()
		}
	}

	record := make([]byte, outcomeSize)
	binary.LittleEndian.PutUint64(record[:8], uint64(latency.Microseconds()))
	record[8] = byte(result)
	w.rb.Write(record)

	t.evaluateLocked(w, t.snapshotLocked(w))
}

// Snapshot computes the derived metrics for one backend over its current
// window. Unknown backends read as empty.
func (t *Tracker) Snapshot(backend string) Snapshot {
	w, ok := t.windows[backend]
	if !ok {
		return Snapshot{}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return t.snapshotLocked(w)
}

// Tier reports the backend's current health classification.
func (t *Tracker) Tier(backend string) Tier {
	w, ok := t.windows[backend]
	if !ok {
		return TierUnavailable
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return Tier(w.machine.Current())
}

func (t *Tracker) snapshotLocked(w *backendWindow) Snapshot {
	buf := w.rb.Bytes(nil)
	sampleCount := len(buf) / outcomeSize
	if sampleCount == 0 {
		return Snapshot{}
	}

	var timeouts, errorsN, completed int
	var latencySum time.Duration
	for i := 0; i < sampleCount; i++ {
		record := buf[i*outcomeSize : (i+1)*outcomeSize]
		latency := time.Duration(binary.LittleEndian.Uint64(record[:8])) * time.Microsecond
		switch Result(record[8]) {
		case Timeout:
			// abandoned call: counts toward the rate, not the mean
			timeouts++
		case Error:
			errorsN++
			completed++
			latencySum += latency
		default:
			completed++
			latencySum += latency
		}
	}

	snap := Snapshot{
		TimeoutRate: float64(timeouts) / float64(sampleCount),
		ErrorRate:   float64(errorsN) / float64(sampleCount),
		SampleCount: sampleCount,
	}
	if completed > 0 {
		snap.AvgLatency = latencySum / time.Duration(completed)
	}
	return snap
}

// evaluateLocked drives the tier machine from the fresh snapshot. Tier is a
// pure function of the current window under the configured thresholds;
// degradation only kicks in once minSamples outcomes exist so sparse data
// cannot flap the tier.
func (t *Tracker) evaluateLocked(w *backendWindow, snap Snapshot) {
	breaching := snap.SampleCount >= t.cfg.MinSamples &&
		(snap.TimeoutRate > t.cfg.DegradeTimeoutRate || snap.AvgLatency > t.cfg.DegradeAvgLatency)

	ctx := context.Background()
	switch Tier(w.machine.Current()) {
	case TierHealthy:
		if breaching {
			w.machine.Event(ctx, evDegrade)
		}
	case TierDegraded:
		if !breaching {
			w.machine.Event(ctx, evRecover)
			return
		}
		if snap.SampleCount >= t.cfg.WindowSize && snap.TimeoutRate > t.cfg.UnavailableTimeoutRate {
			w.machine.Event(ctx, evCollapse)
		}
	case TierUnavailable:
		if !breaching {
			w.machine.Event(ctx, evRecover)
		}
	}
}
