// Package microphone provides the host's own input audio stream: an OS
// microphone collaborator writes PCM, the core pulls batches out of a ring
// buffer through the host's GET_MICROPHONE_INTERFACE vtable, and a spectral
// Analyzer can expose FFT magnitude data for diagnostics.
package microphone

import (
	"math"
	"sync"

	"github.com/mjibson/go-dsp/fft"

	"github.com/retrocore/hostruntime/audio"
)

// InputDevice is the OS microphone collaborator: opens a mono int16 capture
// stream and pushes samples to push as they arrive.
type InputDevice interface {
	Open(sampleRate int, push PushFunc) error
	Start() error
	Stop() error
	Close() error
}

// PushFunc delivers a batch of mono int16 samples captured by the device.
type PushFunc func(samples []int16)

// NullInputDevice never produces samples; used when mic support is
// disabled or unavailable.
type NullInputDevice struct{}

func (NullInputDevice) Open(int, PushFunc) error { return nil }
func (NullInputDevice) Start() error { return nil }
func (NullInputDevice) Stop() error { return nil }
func (NullInputDevice) Close() error { return nil }

// Microphone owns the mic ring buffer and exposes the pull API the core
// reads through the environment's microphone vtable.
type Microphone struct {
	mu sync.Mutex
	rb *audio.RingBuffer
	device InputDevice

	sampleRate int
	enabled bool
}

const defaultCapacity = 44100 // ~1s of mono samples at CD-quality rate

// New constructs a Microphone over device, which must deliver mono int16
// samples at sampleRate.
func New(sampleRate int, device InputDevice) *Microphone {
	return &Microphone{
		rb: audio.NewRingBuffer(defaultCapacity),
		device: device,
		sampleRate: sampleRate,
	}
}

// Start opens and starts the capture device, routing its samples into the
// ring buffer.
func (m *Microphone) Start() error {
	if err := m.device.Open(m.sampleRate, m.onSamples); err != nil {
		return err
	}
	m.mu.Lock()
	m.enabled = true
	m.mu.Unlock()
	return m.device.Start()
}

// Stop stops and closes the capture device.
func (m *Microphone) Stop() error {
	m.mu.Lock()
	m.enabled = false
	m.mu.Unlock()
	if err := m.device.Stop(); err != nil {
		return err
	}
	return m.device.Close()
}

func (m *Microphone) onSamples(samples []int16) {
	m.mu.Lock()
	enabled := m.enabled
	m.mu.Unlock()
	if !enabled {
		return
	}
	m.rb.Write(samples)
}

// Read implements the core-facing pull API: copy up to len(dst) queued mono
// samples, returning how many were available.
func (m *Microphone) Read(dst []int16) int {
	return m.rb.Read(dst)
}

// SampleRate reports the capture rate reported to the core.
func (m *Microphone) SampleRate() int { return m.sampleRate }

// QueueDepth returns the number of samples currently buffered.
func (m *Microphone) QueueDepth() int { return m.rb.Len() }

// Analyzer computes FFT magnitude spectra over a rolling history of mono
// samples, for diagnostics/visualization collaborators (not part of the
// core-facing vtable).
type Analyzer struct {
	mu sync.Mutex
	history []float32
	pos int
	window []float64
}

// NewAnalyzer builds an Analyzer with a history buffer large enough to hold
// at least fftSize samples, rounded up to 4x for a smoother rolling window.
func NewAnalyzer(fftSize int) *Analyzer {
	if fftSize <= 0 {
		fftSize = 512
	}
	return &Analyzer{
		history: make([]float32, fftSize*4),
		window: hanningWindow(fftSize),
	}
}

// Feed appends newly captured samples (converted to [-1, 1] float32) to the
// rolling history.
func (a *Analyzer) Feed(samples []int16) {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := len(a.history)
	for _, s := range samples {
		a.history[a.pos] = float32(s) / 32768.0
		a.pos = (a.pos + 1) % n
	}
}

// Magnitudes returns the FFT magnitude spectrum of the most recent
// len(window) samples in history, Hanning-windowed before transform.
func (a *Analyzer) Magnitudes() []float32 {
	a.mu.Lock()
	fftSize := len(a.window)
	n := len(a.history)
	samples := make([]float64, fftSize)
	for i := 0; i < fftSize; i++ {
		idx := (a.pos - fftSize + i + n) % n
		samples[i] = float64(a.history[idx]) * a.window[i]
	}
	a.mu.Unlock()

	result := fft.FFTReal(samples)
	mags := make([]float32, fftSize)
	for i, c := range result {
		mags[i] = float32(math.Hypot(real(c), imag(c)))
	}
	return mags
}

func hanningWindow(size int) []float64 {
	w := make([]float64, size)
	if size == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}
	return w
}
