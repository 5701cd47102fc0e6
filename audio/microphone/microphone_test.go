package microphone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMicrophoneReadReturnsWrittenSamples(t *testing.T) {
	m := New(44100, NullInputDevice{})
	m.enabled = true
	m.onSamples([]int16{1, 2, 3, 4})
	dst := make([]int16, 4)
	n := m.Read(dst)
	require.Equal(t, 4, n)
	assert.Equal(t, []int16{1, 2, 3, 4}, dst)
}

func TestMicrophoneDisabledDropsSamples(t *testing.T) {
	m := New(44100, NullInputDevice{})
	m.onSamples([]int16{1, 2, 3, 4})
	assert.Equal(t, 0, m.QueueDepth())
}

func TestAnalyzerMagnitudesMatchesWindowSize(t *testing.T) {
	a := NewAnalyzer(64)
	samples := make([]int16, 256)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 1000
		} else {
			samples[i] = -1000
		}
	}
	a.Feed(samples)
	mags := a.Magnitudes()
	assert.Len(t, mags, 64)
	for _, m := range mags {
		assert.GreaterOrEqual(t, m, float32(0))
	}
}
