// Package platform provides the default core.DevicePlatform: fixed
// 48 kHz output with double-period 10 ms minimum buffers, the common
// answer on devices without a queryable audio HAL.
package platform

import "github.com/dkeye/Meet/internal/core"

const (
	defaultSampleRate = 48000
	bytesPerSample    = 2 // mono 16-bit PCM
	periods           = 2
)

type Default struct {
	sampleRate int
}

var _ core.DevicePlatform = (*Default)(nil)

func NewDefault() *Default {
	return &Default{sampleRate: defaultSampleRate}
}

func (p *Default) OutputSampleRate() int { return p.sampleRate }

// MinInputBufferBytes reports the smallest workable capture buffer:
// two 10 ms periods of mono 16-bit samples at the given rate.
func (p *Default) MinInputBufferBytes(sampleRate int) int {
	return periods * (sampleRate / 100) * bytesPerSample
}

func (p *Default) MinOutputBufferBytes(sampleRate int) int {
	return periods * (sampleRate / 100) * bytesPerSample
}
