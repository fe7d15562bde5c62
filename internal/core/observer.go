package core

import "github.com/dkeye/Meet/internal/domain"

// SessionObserver hears connection lifecycle transitions. All methods
// are invoked on the dispatcher's delivery goroutine, never concurrently
// with each other.
type SessionObserver interface {
	OnSessionConnecting(reconnecting bool)
	OnSessionStarted(reconnecting bool)
	OnSessionStopped(status domain.SessionStatus)
	OnReconnectCancelled()
	OnConnectionRecovered()
	OnConnectionBecamePoor()
}

// TelemetryObserver hears per-attendee realtime updates. The maps are
// rebuilt for every callback; observers may keep them without copying.
type TelemetryObserver interface {
	OnVolumeChange(volumes map[domain.AttendeeID]domain.VolumeLevel)
	OnSignalStrengthChange(strengths map[domain.AttendeeID]domain.SignalStrength)
}
