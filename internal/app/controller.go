package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkeye/Meet/internal/core"
	"github.com/looplab/fsm"
	"github.com/rs/zerolog/log"
)

// Lifecycle phase names for the controller's guard machine.
const (
	phaseIdle     = "idle"
	phaseStarting = "starting"
	phaseStarted  = "started"
	phaseStopped  = "stopped"
)

// ControllerConfig carries the static session parameters the controller
// derives wire parameters from.
type ControllerConfig struct {
	PortOffset        int
	SignalingTemplate string
	Transport         int
	SendCodec         int
	RecvCodec         int
}

// SessionController owns one engine handle for its lifetime and drives
// it through configure/start/stop/mute/route. Lifecycle calls must be
// serialized by the caller conceptually; the fsm rejects overlapping
// Start/Stop loudly instead of racing the handle.
type SessionController struct {
	engine     core.AudioEngine
	platform   core.DevicePlatform
	dispatcher *Dispatcher
	exec       *Executor
	cfg        ControllerConfig

	mu    sync.Mutex
	phase *fsm.FSM
}

func NewSessionController(
	engine core.AudioEngine,
	platform core.DevicePlatform,
	dispatcher *Dispatcher,
	exec *Executor,
	cfg ControllerConfig,
) *SessionController {
	return &SessionController{
		engine:     engine,
		platform:   platform,
		dispatcher: dispatcher,
		exec:       exec,
		cfg:        cfg,
		phase: fsm.NewFSM(
			phaseIdle,
			fsm.Events{
				{Name: "start", Src: []string{phaseIdle, phaseStopped}, Dst: phaseStarting},
				{Name: "started", Src: []string{phaseStarting}, Dst: phaseStarted},
				{Name: "stop", Src: []string{phaseStarting, phaseStarted}, Dst: phaseStopped},
			}, nil,
		),
	}
}

// Phase reports the controller lifecycle phase for the status surface.
func (c *SessionController) Phase() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase.Current()
}

// ConfigureHardware probes the platform and pushes the audio
// configuration to the engine: native rate as both hardware and I/O
// rate, probed buffer sizes, speakerphone mic routing, and both
// optional processing modules off. The engine forgets all of it across
// sessions, so Start reapplies this on every call; reapplying is
// harmless.
func (c *SessionController) ConfigureHardware() {
	hw := ProbeHardware(c.platform)
	log.Info().Str("module", "app.controller").
		Int("sample_rate", hw.SampleRate).
		Int("mic_frames", hw.MicBufferFrames).
		Int("spk_frames", hw.SpeakerBufferFrames).
		Msg("applying hardware config")

	c.check("set_hardware_sample_rate", c.engine.SetHardwareSampleRate(hw.SampleRate))
	c.check("set_io_sample_rate", c.engine.SetIOSampleRate(hw.SampleRate))
	c.check("set_mic_buffer", c.engine.SetMicBufferFrames(hw.MicBufferFrames))
	c.check("set_speaker_buffer", c.engine.SetSpeakerBufferFrames(hw.SpeakerBufferFrames))
	c.check("set_mic_route", c.engine.SetMicRoute(core.MicRouteSpeakerphone))
	c.check("set_noise_suppression", c.engine.SetNoiseSuppression(core.ProcessingNone))
	c.check("set_echo_cancellation", c.engine.SetEchoCancellation(core.ProcessingNone))
}

// Start resolves the session parameters, notifies connecting, and
// schedules the engine start on the delivery executor. The returned
// error only reports lifecycle misuse (overlapping Start); an engine
// start failure never surfaces here — observers see the notification
// stream, and a failed engine start still raises started, matching the
// documented contract.
func (c *SessionController) Start(audioHostURL, meetingID, attendeeID, joinToken string) error {
	c.mu.Lock()
	if err := c.phase.Event(context.Background(), "start"); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("start session: %w", err)
	}
	c.mu.Unlock()

	endpoint := ResolveEndpoint(audioHostURL, c.cfg.PortOffset)
	signalingURL := DeriveSignalingURL(c.cfg.SignalingTemplate, endpoint.Host, meetingID)

	c.ConfigureHardware()

	params := core.SessionParameters{
		Endpoint:         endpoint,
		MeetingID:        meetingID,
		AttendeeID:       attendeeID,
		JoinToken:        joinToken,
		SignalingURL:     signalingURL,
		Transport:        c.cfg.Transport,
		SendCodec:        c.cfg.SendCodec,
		RecvCodec:        c.cfg.RecvCodec,
		MicEnabled:       false,
		SpeakerEnabled:   false,
		PresenterEnabled: true,
		AppInfo:          nil,
	}

	log.Info().Str("module", "app.controller").
		Str("host", endpoint.Host).Int("port", endpoint.Port).
		Str("signaling_url", signalingURL).Str("meeting", meetingID).
		Msg("starting session")

	c.dispatcher.NotifyConnecting(false)

	err := c.exec.Submit(func() {
		rc := c.engine.StartSession(params)
		if rc != core.EngineOK {
			engineFailures.WithLabelValues("start_session").Inc()
			log.Error().Str("module", "app.controller").Int("rc", rc).Msg("engine start failed")
		} else {
			log.Info().Str("module", "app.controller").Msg("engine start succeeded")
		}
		c.mu.Lock()
		if err := c.phase.Event(context.Background(), "started"); err != nil {
			// Stop raced the start; the phase machine already moved on.
			log.Warn().Err(err).Str("module", "app.controller").Msg("phase transition skipped")
		}
		c.mu.Unlock()
		c.dispatcher.NotifyStarted(false)
	})
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	return nil
}

// Stop invokes the engine's stop primitive. No notification is raised
// here; the stop travels back through the engine's own state-change
// callback route.
func (c *SessionController) Stop() error {
	c.mu.Lock()
	if err := c.phase.Event(context.Background(), "stop"); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("stop session: %w", err)
	}
	c.mu.Unlock()

	if rc := c.engine.StopSession(); rc != core.EngineOK {
		engineFailures.WithLabelValues("stop_session").Inc()
		log.Error().Str("module", "app.controller").Int("rc", rc).Msg("engine stop failed")
	}
	return nil
}

// Route reports the engine's current audio route.
func (c *SessionController) Route() int {
	return c.engine.Route()
}

// SetRoute switches the audio route, skipping the engine call when the
// requested route is already active.
func (c *SessionController) SetRoute(route int) bool {
	if c.engine.Route() == route {
		return true
	}
	rc := c.engine.SetRoute(route)
	if rc != core.EngineOK {
		engineFailures.WithLabelValues("set_route").Inc()
		log.Error().Str("module", "app.controller").Int("route", route).Int("rc", rc).Msg("set route failed")
	}
	return rc == core.EngineOK
}

// SetMute toggles mic mute.
func (c *SessionController) SetMute(muted bool) bool {
	rc := c.engine.SetMicMute(muted)
	if rc != core.EngineOK {
		engineFailures.WithLabelValues("set_mic_mute").Inc()
		log.Error().Str("module", "app.controller").Bool("muted", muted).Int("rc", rc).Msg("set mute failed")
	}
	return rc == core.EngineOK
}

func (c *SessionController) check(op string, rc int) {
	if rc != core.EngineOK {
		engineFailures.WithLabelValues(op).Inc()
		log.Error().Str("module", "app.controller").Str("op", op).Int("rc", rc).Msg("engine call failed")
	}
}
