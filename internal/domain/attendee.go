// Package domain contains session entities without logic, just meta-data.
package domain

// AttendeeID identifies a meeting participant as reported by the backend.
type AttendeeID string

// VolumeLevel is the coarse speaking level the engine reports per attendee.
type VolumeLevel int

const (
	VolumeMuted       VolumeLevel = -1
	VolumeNotSpeaking VolumeLevel = 0
	VolumeLow         VolumeLevel = 1
	VolumeMedium      VolumeLevel = 2
	VolumeHigh        VolumeLevel = 3
)

func (v VolumeLevel) String() string {
	switch v {
	case VolumeMuted:
		return "muted"
	case VolumeNotSpeaking:
		return "not_speaking"
	case VolumeLow:
		return "low"
	case VolumeMedium:
		return "medium"
	case VolumeHigh:
		return "high"
	default:
		return "unknown"
	}
}

// DecodeVolume clamps a raw engine level into the known range.
func DecodeVolume(raw int) VolumeLevel {
	if raw < int(VolumeMuted) {
		return VolumeMuted
	}
	if raw > int(VolumeHigh) {
		return VolumeHigh
	}
	return VolumeLevel(raw)
}

// SignalStrength is the coarse connection quality the engine reports per attendee.
type SignalStrength int

const (
	SignalNone SignalStrength = 0
	SignalLow  SignalStrength = 1
	SignalHigh SignalStrength = 2
)

func (s SignalStrength) String() string {
	switch s {
	case SignalNone:
		return "none"
	case SignalLow:
		return "low"
	case SignalHigh:
		return "high"
	default:
		return "unknown"
	}
}

// DecodeSignalStrength clamps a raw engine level into the known range.
func DecodeSignalStrength(raw int) SignalStrength {
	if raw < int(SignalNone) {
		return SignalNone
	}
	if raw > int(SignalHigh) {
		return SignalHigh
	}
	return SignalStrength(raw)
}
