package app

import (
	"testing"

	"github.com/dkeye/Meet/internal/core"
	"github.com/stretchr/testify/assert"
)

type fakePlatform struct {
	rate     int
	inBytes  int
	outBytes int
}

func (p *fakePlatform) OutputSampleRate() int            { return p.rate }
func (p *fakePlatform) MinInputBufferBytes(rate int) int { return p.inBytes }
func (p *fakePlatform) MinOutputBufferBytes(rate int) int {
	return p.outBytes
}

func TestProbeHardwareHalvesBytesToFrames(t *testing.T) {
	p := &fakePlatform{rate: 48000, inBytes: 3840, outBytes: 7680}

	got := ProbeHardware(p)

	assert.Equal(t, core.HardwareConfig{
		SampleRate:          48000,
		MicBufferFrames:     1920,
		SpeakerBufferFrames: 3840,
	}, got)
}

func TestProbeHardwareRepeatable(t *testing.T) {
	p := &fakePlatform{rate: 44100, inBytes: 1764, outBytes: 1764}

	first := ProbeHardware(p)
	second := ProbeHardware(p)

	assert.Equal(t, first, second)
}
