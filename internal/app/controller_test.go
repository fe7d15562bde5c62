package app

import (
	"sync"
	"testing"
	"time"

	"github.com/dkeye/Meet/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEngine records every call in order and answers with configurable
// result codes.
type stubEngine struct {
	mu      sync.Mutex
	calls   []string
	params  []core.SessionParameters
	route   int
	startRC int
	rc      map[string]int
}

func newStubEngine() *stubEngine {
	return &stubEngine{rc: map[string]int{}}
}

func (e *stubEngine) record(op string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, op)
	return e.rc[op] // zero value is EngineOK
}

func (e *stubEngine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.calls))
	copy(out, e.calls)
	return out
}

func (e *stubEngine) SetHardwareSampleRate(hz int) int         { return e.record("hw_rate") }
func (e *stubEngine) SetIOSampleRate(hz int) int               { return e.record("io_rate") }
func (e *stubEngine) SetMicBufferFrames(frames int) int        { return e.record("mic_buf") }
func (e *stubEngine) SetSpeakerBufferFrames(frames int) int    { return e.record("spk_buf") }
func (e *stubEngine) SetMicRoute(route core.MicRoute) int      { return e.record("mic_route") }
func (e *stubEngine) SetNoiseSuppression(core.ProcessingMode) int {
	return e.record("noise")
}
func (e *stubEngine) SetEchoCancellation(core.ProcessingMode) int {
	return e.record("echo")
}

func (e *stubEngine) StartSession(p core.SessionParameters) int {
	e.mu.Lock()
	e.calls = append(e.calls, "start_session")
	e.params = append(e.params, p)
	rc := e.startRC
	e.mu.Unlock()
	return rc
}

func (e *stubEngine) StopSession() int { return e.record("stop_session") }

func (e *stubEngine) Route() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, "route")
	return e.route
}

func (e *stubEngine) SetRoute(route int) int {
	rc := e.record("set_route")
	if rc == core.EngineOK {
		e.mu.Lock()
		e.route = route
		e.mu.Unlock()
	}
	return rc
}

func (e *stubEngine) SetMicMute(muted bool) int { return e.record("set_mute") }

type controllerFixture struct {
	*dispatcherFixture
	engine *stubEngine
	ctrl   *SessionController
}

func newControllerFixture(t *testing.T) *controllerFixture {
	t.Helper()

	df := newDispatcherFixture(t)
	eng := newStubEngine()
	ctrl := NewSessionController(eng, &fakePlatform{rate: 48000, inBytes: 3840, outBytes: 3840}, df.dispatcher, df.exec, ControllerConfig{
		PortOffset:        200,
		SignalingTemplate: "wss://signal.%s/calls/%s",
	})
	return &controllerFixture{dispatcherFixture: df, engine: eng, ctrl: ctrl}
}

func TestControllerConfigureHardware(t *testing.T) {
	f := newControllerFixture(t)

	f.ctrl.ConfigureHardware()

	assert.Equal(t, []string{
		"hw_rate", "io_rate", "mic_buf", "spk_buf", "mic_route", "noise", "echo",
	}, f.engine.Calls())
}

func TestControllerStartEndToEnd(t *testing.T) {
	f := newControllerFixture(t)

	require.NoError(t, f.ctrl.Start("cell1.m3.turn.example.com:7200", "meeting1", "attendeeA", "tok"))
	f.flush(t)

	events := f.rec.Events()
	require.GreaterOrEqual(t, len(events), 2)
	assert.Equal(t, "connecting", events[0])
	assert.Equal(t, "started", events[1])

	require.Len(t, f.engine.params, 1)
	p := f.engine.params[0]
	assert.Equal(t, "cell1.m3.turn.example.com", p.Endpoint.Host)
	assert.Equal(t, 7000, p.Endpoint.Port)
	assert.Equal(t, "wss://signal.turn.example.com/calls/meeting1", p.SignalingURL)
	assert.Equal(t, "meeting1", p.MeetingID)
	assert.Equal(t, "attendeeA", p.AttendeeID)
	assert.Equal(t, "tok", p.JoinToken)
	assert.False(t, p.MicEnabled)
	assert.False(t, p.SpeakerEnabled)
	assert.True(t, p.PresenterEnabled)
	assert.Nil(t, p.AppInfo)

	// Hardware config was reapplied before the start.
	calls := f.engine.Calls()
	assert.Contains(t, calls, "hw_rate")
	assert.Equal(t, "start_session", calls[len(calls)-1])
	assert.Equal(t, "started", f.ctrl.Phase())
}

func TestControllerStartNotifiesStartedOnEngineFailure(t *testing.T) {
	f := newControllerFixture(t)
	f.engine.startRC = core.EngineErr

	require.NoError(t, f.ctrl.Start("turn.example.com:7200", "m", "a", "t"))
	f.flush(t)

	// Documented contract: a failed engine start still raises started.
	assert.Equal(t, []string{"connecting", "started"}, f.rec.Events())
}

func TestControllerRejectsOverlappingStart(t *testing.T) {
	f := newControllerFixture(t)

	require.NoError(t, f.ctrl.Start("turn.example.com:7200", "m", "a", "t"))
	assert.Error(t, f.ctrl.Start("turn.example.com:7200", "m", "a", "t"))
}

func TestControllerStopRequiresSession(t *testing.T) {
	f := newControllerFixture(t)

	assert.Error(t, f.ctrl.Stop())
	assert.NotContains(t, f.engine.Calls(), "stop_session")
}

func TestControllerStopRaisesNoNotification(t *testing.T) {
	f := newControllerFixture(t)

	require.NoError(t, f.ctrl.Start("turn.example.com:7200", "m", "a", "t"))
	f.flush(t)
	before := len(f.rec.Events())

	require.NoError(t, f.ctrl.Stop())
	f.flush(t)

	assert.Contains(t, f.engine.Calls(), "stop_session")
	assert.Len(t, f.rec.Events(), before)
}

func TestControllerStartAgainAfterStop(t *testing.T) {
	f := newControllerFixture(t)

	require.NoError(t, f.ctrl.Start("turn.example.com:7200", "m", "a", "t"))
	f.flush(t)
	require.NoError(t, f.ctrl.Stop())
	require.NoError(t, f.ctrl.Start("turn.example.com:7200", "m", "a", "t"))
	f.flush(t)
}

func TestControllerSetRouteShortCircuits(t *testing.T) {
	f := newControllerFixture(t)
	f.engine.route = 3

	assert.True(t, f.ctrl.SetRoute(3))
	assert.NotContains(t, f.engine.Calls(), "set_route")

	assert.True(t, f.ctrl.SetRoute(1))
	assert.Contains(t, f.engine.Calls(), "set_route")
	assert.Equal(t, 1, f.ctrl.Route())
}

func TestControllerSetRouteFailure(t *testing.T) {
	f := newControllerFixture(t)
	f.engine.rc["set_route"] = core.EngineErr

	assert.False(t, f.ctrl.SetRoute(2))
}

func TestControllerSetMute(t *testing.T) {
	f := newControllerFixture(t)

	assert.True(t, f.ctrl.SetMute(true))

	f.engine.rc["set_mute"] = core.EngineErr
	assert.False(t, f.ctrl.SetMute(false))
}

func TestControllerStartEventOrderIsPromptCausal(t *testing.T) {
	f := newControllerFixture(t)

	require.NoError(t, f.ctrl.Start("turn.example.com:7200", "m", "a", "t"))

	// The connecting event is enqueued before Start returns; the engine
	// call itself happens later on the delivery goroutine.
	deadline := time.Now().Add(time.Second)
	for {
		events := f.rec.Events()
		if len(events) >= 2 {
			assert.Equal(t, []string{"connecting", "started"}, events[:2])
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("started notification never arrived")
		}
		time.Sleep(time.Millisecond)
	}
}
