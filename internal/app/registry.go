package app

import (
	"sync"

	"github.com/dkeye/Meet/internal/core"
	"github.com/rs/zerolog/log"
)

// ObserverRegistry holds the two independent subscription sets:
// lifecycle observers and telemetry observers. Fan-out copies the set
// under the read lock and invokes callbacks on the snapshot, so
// membership may change at any time, including from inside an
// observer's own callback. A fan-out already in flight when Remove
// returns may still deliver to the removed observer once; every
// fan-out that starts afterwards will not.
type ObserverRegistry struct {
	mu        sync.RWMutex
	lifecycle map[core.SessionObserver]struct{}
	telemetry map[core.TelemetryObserver]struct{}
}

func NewObserverRegistry() *ObserverRegistry {
	return &ObserverRegistry{
		lifecycle: make(map[core.SessionObserver]struct{}),
		telemetry: make(map[core.TelemetryObserver]struct{}),
	}
}

func (r *ObserverRegistry) AddLifecycle(o core.SessionObserver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lifecycle[o] = struct{}{}
	log.Debug().Str("module", "app.registry").Int("lifecycle", len(r.lifecycle)).Msg("lifecycle observer added")
}

func (r *ObserverRegistry) RemoveLifecycle(o core.SessionObserver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lifecycle, o)
}

func (r *ObserverRegistry) AddTelemetry(o core.TelemetryObserver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.telemetry[o] = struct{}{}
	log.Debug().Str("module", "app.registry").Int("telemetry", len(r.telemetry)).Msg("telemetry observer added")
}

func (r *ObserverRegistry) RemoveTelemetry(o core.TelemetryObserver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.telemetry, o)
}

// NotifyLifecycle invokes fn for every lifecycle observer subscribed at
// the start of the call. Callbacks run outside the lock.
func (r *ObserverRegistry) NotifyLifecycle(fn func(core.SessionObserver)) {
	r.mu.RLock()
	snapshot := make([]core.SessionObserver, 0, len(r.lifecycle))
	for o := range r.lifecycle {
		snapshot = append(snapshot, o)
	}
	r.mu.RUnlock()

	for _, o := range snapshot {
		fn(o)
	}
}

// NotifyTelemetry invokes fn for every telemetry observer subscribed at
// the start of the call. Callbacks run outside the lock.
func (r *ObserverRegistry) NotifyTelemetry(fn func(core.TelemetryObserver)) {
	r.mu.RLock()
	snapshot := make([]core.TelemetryObserver, 0, len(r.telemetry))
	for o := range r.telemetry {
		snapshot = append(snapshot, o)
	}
	r.mu.RUnlock()

	for _, o := range snapshot {
		fn(o)
	}
}
