package core

import "github.com/dkeye/Meet/internal/domain"

// EngineOK is the engine's single success sentinel; every other
// result code means failure.
const (
	EngineOK  = 0
	EngineErr = 1
)

// Fixed defaults handed to the engine on session start. Transport and
// codec selection stay with the engine; zero means engine-negotiated.
const (
	TransportDefault = 0
	CodecDefault     = 0
)

// ConnectionState mirrors the engine's wire-level session state codes.
type ConnectionState int

const (
	StateInit ConnectionState = iota
	StateConnecting
	StateConnected
	StateDisconnecting
	StateDisconnected
	StateReconnectCancelled
	StatePoor
	StateRecovered
	StateUnknown
)

func (s ConnectionState) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnecting:
		return "disconnecting"
	case StateDisconnected:
		return "disconnected"
	case StateReconnectCancelled:
		return "reconnect_cancelled"
	case StatePoor:
		return "poor"
	case StateRecovered:
		return "recovered"
	default:
		return "unknown"
	}
}

// StateFromCode maps a raw engine state code onto ConnectionState.
// Codes outside the known range decode to StateUnknown.
func StateFromCode(code int) ConnectionState {
	if code < int(StateInit) || code >= int(StateUnknown) {
		return StateUnknown
	}
	return ConnectionState(code)
}

// MicRoute selects which physical microphone path the engine captures from.
type MicRoute int

const (
	MicRouteDefault MicRoute = iota
	MicRouteSpeakerphone
	MicRouteHeadset
)

// ProcessingMode names an optional audio processing module configuration.
type ProcessingMode string

const ProcessingNone ProcessingMode = "none"

// SessionParameters is everything the engine needs to establish one
// session. Built once per start call and never mutated afterwards.
type SessionParameters struct {
	Endpoint         domain.SessionEndpoint
	MeetingID        string
	AttendeeID       string
	JoinToken        string
	SignalingURL     string
	Transport        int
	SendCodec        int
	RecvCodec        int
	MicEnabled       bool
	SpeakerEnabled   bool
	PresenterEnabled bool
	// AppInfo is the auxiliary parameter slot; the controller always
	// passes nil.
	AppInfo any
}

// AudioEngine is the boundary to the native real-time audio engine.
// Every call returns the engine's result code; EngineOK means success.
// Owned by exactly one controller for its lifetime; the adapter never
// shares the underlying handle.
type AudioEngine interface {
	SetHardwareSampleRate(hz int) int
	SetIOSampleRate(hz int) int
	SetMicBufferFrames(frames int) int
	SetSpeakerBufferFrames(frames int) int
	SetMicRoute(route MicRoute) int
	SetNoiseSuppression(mode ProcessingMode) int
	SetEchoCancellation(mode ProcessingMode) int

	StartSession(p SessionParameters) int
	StopSession() int

	Route() int
	SetRoute(route int) int
	SetMicMute(muted bool) int
}

// EngineSink receives raw engine callbacks. Calls may arrive on any
// goroutine the engine chooses; implementations marshal delivery
// themselves.
type EngineSink interface {
	OnStateChange(stateCode, statusCode int)
	OnVolumeChange(attendeeIDs []string, volumes []int)
	OnSignalStrengthChange(attendeeIDs []string, strengths []int)
}
