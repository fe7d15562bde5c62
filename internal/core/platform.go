package core

// DevicePlatform is the boundary to the native audio hardware subsystem.
// Queries only, no mutation; buffer sizes are reported in bytes for
// mono 16-bit PCM at the given rate.
type DevicePlatform interface {
	OutputSampleRate() int
	MinInputBufferBytes(sampleRate int) int
	MinOutputBufferBytes(sampleRate int) int
}

// HardwareConfig is the probed audio configuration pushed to the engine
// before every session start. Buffer sizes are in samples (frames),
// not bytes.
type HardwareConfig struct {
	SampleRate          int
	MicBufferFrames     int
	SpeakerBufferFrames int
}
