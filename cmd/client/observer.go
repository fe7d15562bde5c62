package main

import (
	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog/log"
)

// logObserver is the default subscriber: it just narrates the session
// into the log so a headless client is observable out of the box.
type logObserver struct{}

func (o *logObserver) OnSessionConnecting(reconnecting bool) {
	log.Info().Str("module", "client").Bool("reconnecting", reconnecting).Msg("session connecting")
}

func (o *logObserver) OnSessionStarted(reconnecting bool) {
	log.Info().Str("module", "client").Bool("reconnecting", reconnecting).Msg("session started")
}

func (o *logObserver) OnSessionStopped(status domain.SessionStatus) {
	log.Info().Str("module", "client").Str("status", status.String()).Msg("session stopped")
}

func (o *logObserver) OnReconnectCancelled() {
	log.Info().Str("module", "client").Msg("reconnect cancelled")
}

func (o *logObserver) OnConnectionRecovered() {
	log.Info().Str("module", "client").Msg("connection recovered")
}

func (o *logObserver) OnConnectionBecamePoor() {
	log.Warn().Str("module", "client").Msg("connection became poor")
}

func (o *logObserver) OnVolumeChange(volumes map[domain.AttendeeID]domain.VolumeLevel) {
	for id, level := range volumes {
		log.Debug().Str("module", "client").Str("attendee", string(id)).Str("volume", level.String()).Msg("volume")
	}
}

func (o *logObserver) OnSignalStrengthChange(strengths map[domain.AttendeeID]domain.SignalStrength) {
	for id, level := range strengths {
		log.Debug().Str("module", "client").Str("attendee", string(id)).Str("signal", level.String()).Msg("signal strength")
	}
}
