package domain

// StatusCode qualifies a connection state transition reported by the engine.
type StatusCode int

const (
	StatusOK StatusCode = iota
	StatusLeft
	StatusJoinedFromAnotherDevice
	StatusAudioDisconnected
	StatusAuthenticationRejected
	StatusCallEnded
	StatusInternalError
	StatusUnknown
)

func (c StatusCode) String() string {
	switch c {
	case StatusOK:
		return "ok"
	case StatusLeft:
		return "left"
	case StatusJoinedFromAnotherDevice:
		return "joined_from_another_device"
	case StatusAudioDisconnected:
		return "audio_disconnected"
	case StatusAuthenticationRejected:
		return "authentication_rejected"
	case StatusCallEnded:
		return "call_ended"
	case StatusInternalError:
		return "internal_error"
	default:
		return "unknown"
	}
}

// DecodeStatus maps a raw engine status code to a known code,
// folding anything out of range into StatusUnknown.
func DecodeStatus(raw int) StatusCode {
	if raw < int(StatusOK) || raw >= int(StatusUnknown) {
		return StatusUnknown
	}
	return StatusCode(raw)
}

// SessionStatus is the structured status carried by a stopped notification.
type SessionStatus struct {
	Code StatusCode `json:"code"`
}

func (s SessionStatus) String() string { return s.Code.String() }
