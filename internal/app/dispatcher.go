package app

import (
	"sync"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog/log"
)

// Dispatcher consumes raw engine callbacks and turns them into typed,
// deduplicated observer notifications. It implements core.EngineSink;
// the engine may call it from any goroutine. Observers are only ever
// invoked on the executor's delivery goroutine.
type Dispatcher struct {
	registry *ObserverRegistry
	exec     *Executor

	mu           sync.Mutex
	lastState    core.ConnectionState
	lastStatus   domain.StatusCode
	reconnecting bool
}

var _ core.EngineSink = (*Dispatcher)(nil)

func NewDispatcher(registry *ObserverRegistry, exec *Executor) *Dispatcher {
	return &Dispatcher{
		registry:   registry,
		exec:       exec,
		lastState:  core.StateInit,
		lastStatus: domain.StatusOK,
	}
}

// LastState reports the dedup pair for the status surface.
func (d *Dispatcher) LastState() (core.ConnectionState, domain.StatusCode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastState, d.lastStatus
}

// OnStateChange applies the dedup discipline and maps the new
// (state, status) pair to at most one lifecycle notification.
// Unknown state codes and repeats of the current pair are discarded
// without touching the stored pair.
func (d *Dispatcher) OnStateChange(stateCode, statusCode int) {
	state := core.StateFromCode(stateCode)
	if state == core.StateUnknown {
		stateDropsTotal.WithLabelValues("unknown_state").Inc()
		log.Warn().Str("module", "app.dispatcher").Int("state_code", stateCode).Msg("unknown state code, dropped")
		return
	}
	status := domain.DecodeStatus(statusCode)

	d.mu.Lock()
	if state == d.lastState && status == d.lastStatus {
		d.mu.Unlock()
		stateDropsTotal.WithLabelValues("duplicate").Inc()
		return
	}
	prev := d.lastState
	d.lastState = state
	d.lastStatus = status

	var rec bool
	switch state {
	case core.StateConnecting:
		// The engine re-enters Connecting from an established session
		// when it reconnects; that is the only reconnect signal we get.
		rec = prev == core.StateConnected || prev == core.StatePoor || prev == core.StateRecovered
		d.reconnecting = rec
	case core.StateConnected:
		rec = d.reconnecting
		d.reconnecting = false
	}
	d.mu.Unlock()

	log.Info().Str("module", "app.dispatcher").
		Str("state", state.String()).Str("status", status.String()).
		Msg("state transition")

	switch state {
	case core.StateConnecting:
		d.NotifyConnecting(rec)
	case core.StateConnected:
		d.NotifyStarted(rec)
	case core.StateDisconnecting:
		// Recorded for dedup; observers hear about the stop when the
		// engine reaches Disconnected.
	case core.StateDisconnected:
		d.notifyStopped(domain.SessionStatus{Code: status})
	case core.StateReconnectCancelled:
		d.notifyLifecycle("reconnect_cancelled", func(o core.SessionObserver) { o.OnReconnectCancelled() })
	case core.StatePoor:
		d.notifyLifecycle("connection_poor", func(o core.SessionObserver) { o.OnConnectionBecamePoor() })
	case core.StateRecovered:
		d.notifyLifecycle("connection_recovered", func(o core.SessionObserver) { o.OnConnectionRecovered() })
	}
}

// OnVolumeChange zips the parallel attendee/level arrays into a fresh
// map and delivers it as one notification. A nil array means the engine
// had nothing coherent to report; the event is discarded. Mismatched
// lengths truncate to the shorter side.
func (d *Dispatcher) OnVolumeChange(attendeeIDs []string, volumes []int) {
	if attendeeIDs == nil || volumes == nil {
		return
	}
	n := len(attendeeIDs)
	if len(volumes) != n {
		log.Warn().Str("module", "app.dispatcher").Int("ids", n).Int("values", len(volumes)).Msg("volume array length mismatch")
		n = min(n, len(volumes))
	}
	m := make(map[domain.AttendeeID]domain.VolumeLevel, n)
	for i := 0; i < n; i++ {
		m[domain.AttendeeID(attendeeIDs[i])] = domain.DecodeVolume(volumes[i])
	}
	d.notifyTelemetry("volume", func(o core.TelemetryObserver) { o.OnVolumeChange(m) })
}

// OnSignalStrengthChange mirrors OnVolumeChange for signal strengths.
func (d *Dispatcher) OnSignalStrengthChange(attendeeIDs []string, strengths []int) {
	if attendeeIDs == nil || strengths == nil {
		return
	}
	n := len(attendeeIDs)
	if len(strengths) != n {
		log.Warn().Str("module", "app.dispatcher").Int("ids", n).Int("values", len(strengths)).Msg("signal array length mismatch")
		n = min(n, len(strengths))
	}
	m := make(map[domain.AttendeeID]domain.SignalStrength, n)
	for i := 0; i < n; i++ {
		m[domain.AttendeeID(attendeeIDs[i])] = domain.DecodeSignalStrength(strengths[i])
	}
	d.notifyTelemetry("signal_strength", func(o core.TelemetryObserver) { o.OnSignalStrengthChange(m) })
}

// NotifyConnecting and NotifyStarted are also driven directly by the
// controller's start path, outside the engine state-change route.

func (d *Dispatcher) NotifyConnecting(reconnecting bool) {
	d.notifyLifecycle("connecting", func(o core.SessionObserver) { o.OnSessionConnecting(reconnecting) })
}

func (d *Dispatcher) NotifyStarted(reconnecting bool) {
	d.notifyLifecycle("started", func(o core.SessionObserver) { o.OnSessionStarted(reconnecting) })
}

func (d *Dispatcher) notifyStopped(status domain.SessionStatus) {
	d.notifyLifecycle("stopped", func(o core.SessionObserver) { o.OnSessionStopped(status) })
}

func (d *Dispatcher) notifyLifecycle(event string, fn func(core.SessionObserver)) {
	err := d.exec.Submit(func() {
		d.registry.NotifyLifecycle(fn)
		eventsDispatched.WithLabelValues(event).Inc()
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.dispatcher").Str("event", event).Msg("lifecycle event dropped")
	}
}

// notifyTelemetry sheds its event once the delivery backlog reaches
// half capacity, so the remaining queue stays available for lifecycle
// events. Telemetry is periodic and superseded by the next sample;
// lifecycle events are not.
func (d *Dispatcher) notifyTelemetry(event string, fn func(core.TelemetryObserver)) {
	if d.exec.Backlog() >= d.exec.Capacity()/2 {
		telemetryDropsTotal.WithLabelValues(event).Inc()
		log.Debug().Str("module", "app.dispatcher").Str("event", event).Msg("telemetry shed under backlog")
		return
	}
	err := d.exec.Submit(func() {
		d.registry.NotifyTelemetry(fn)
		eventsDispatched.WithLabelValues(event).Inc()
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.dispatcher").Str("event", event).Msg("telemetry event dropped")
	}
}
