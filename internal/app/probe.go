package app

import "github.com/dkeye/Meet/internal/core"

// bytesPerSample is fixed by the 16-bit PCM format the engine runs on.
// Changing bit depth means changing this divisor.
const bytesPerSample = 2

// ProbeHardware queries the platform for its native output sample rate
// and the minimum mono 16-bit buffer sizes at that rate, converting the
// byte-granularity results to frames. Cheap, side-effect free, safe to
// call on every session start.
func ProbeHardware(p core.DevicePlatform) core.HardwareConfig {
	rate := p.OutputSampleRate()
	return core.HardwareConfig{
		SampleRate:          rate,
		MicBufferFrames:     p.MinInputBufferBytes(rate) / bytesPerSample,
		SpeakerBufferFrames: p.MinOutputBufferBytes(rate) / bytesPerSample,
	}
}
