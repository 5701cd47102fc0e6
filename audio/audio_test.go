package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingBufferFIFOOrder(t *testing.T) {
	rb := NewRingBuffer(8)
	rb.Write([]int16{1, 2, 3, 4})
	dst := make([]int16, 4)
	n := rb.Read(dst)
	require.Equal(t, 4, n)
	assert.Equal(t, []int16{1, 2, 3, 4}, dst)
}

func TestRingBufferDropsOldestOnOverflow(t *testing.T) {
	rb := NewRingBuffer(4)
	rb.Write([]int16{1, 2, 3, 4})
	rb.Write([]int16{5, 6}) // overflow drops {1,2}
	dst := make([]int16, 4)
	n := rb.Read(dst)
	require.Equal(t, 4, n)
	assert.Equal(t, []int16{3, 4, 5, 6}, dst)
}

func TestRingBufferReadShortWhenUnderfilled(t *testing.T) {
	rb := NewRingBuffer(8)
	rb.Write([]int16{1, 2})
	dst := make([]int16, 4)
	n := rb.Read(dst)
	assert.Equal(t, 2, n)
}

func TestLinearResamplerUpsamples(t *testing.T) {
	r := NewLinearResampler()
	src := []int16{0, 0, 1000, 1000}
	dst := make([]int16, 8)
	r.Resample(src, 2, dst, 4)
	assert.Equal(t, int16(0), dst[0])
}

func TestSincResamplerProducesBoundedOutput(t *testing.T) {
	r := NewSincResampler(16)
	src := make([]int16, 200)
	for i := range src {
		if i%2 == 0 {
			src[i] = 5000
		} else {
			src[i] = -5000
		}
	}
	dst := make([]int16, 200)
	r.Resample(src, 100, dst, 100)
	for _, v := range dst {
		assert.LessOrEqual(t, v, int16(32767))
		assert.GreaterOrEqual(t, v, int16(-32768))
	}
}

func TestAudioWriteThenOnReadyRoundTrips(t *testing.T) {
	a := New(Config{SampleRate: 44100, OutputSampleRate: 44100}, NullOutputDevice{})
	a.Write([]int16{100, 200, 300, 400})
	dst := make([]int16, 4)
	n := a.OnReady(dst)
	assert.Equal(t, 2, n)
}

func TestAudioDisabledWriteIsNoop(t *testing.T) {
	a := New(Config{SampleRate: 44100, OutputSampleRate: 44100}, NullOutputDevice{})
	a.SetEnabled(false)
	a.Write([]int16{100, 200})
	assert.Equal(t, 0, a.QueueDepth())
}

func TestAudioOnReadyHoldsLastSampleOnUnderrun(t *testing.T) {
	a := New(Config{SampleRate: 44100, OutputSampleRate: 44100}, NullOutputDevice{})
	a.Write([]int16{10, 20})
	dst := make([]int16, 4)
	a.OnReady(dst)
	assert.Equal(t, int16(10), dst[2])
	assert.Equal(t, int16(20), dst[3])
	assert.Equal(t, int64(1), a.UnderrunCount())
}

func TestAudioDriftMultiplierStaysClamped(t *testing.T) {
	a := New(Config{SampleRate: 44100, OutputSampleRate: 44100}, NullOutputDevice{})
	big := make([]int16, 8000)
	for i := 0; i < 50; i++ {
		a.Write(big)
	}
	m := a.Multiplier()
	assert.LessOrEqual(t, m, 1.05)
	assert.GreaterOrEqual(t, m, 0.95)
}
