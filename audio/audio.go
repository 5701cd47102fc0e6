package audio

import (
	"sync"
)

// driftKp/driftKi are the proportional/integral gains of the drift
// compensator that steers the ring buffer's fill level toward half
// capacity.
const (
	driftKp = 0.5
	driftKi = 0.1
)

// Config configures an Audio instance at resume time.
type Config struct {
	SampleRate int // core's native sample rate
	OutputSampleRate int // device's preferred sample rate
	LowLatency bool
	UseSinc bool
	SincTaps int
}

// Audio is the producer/consumer owner between the core's batch callback
// and the device audio stream.
type Audio struct {
	mu sync.Mutex

	cfg Config
	rb *RingBuffer

	resampler Resampler
	device OutputDevice
	enabled bool

	multiplier float64 // current drift-compensation multiplier, clamped [0.95, 1.05]
	integral float64

	lastSample [2]int16 // held for underrun fill
	underrunCount int64
}

const defaultLatencyMs = 100
const lowLatencyMs = 23 // ~1024 frames at 44.1kHz

// New constructs an Audio instance. capacity is chosen from cfg per
// output_sample_rate * latency_ms / 1000 * 2 (stereo samples).
func New(cfg Config, device OutputDevice) *Audio {
	latencyMs := defaultLatencyMs
	capacityFrames := 1024
	if cfg.LowLatency {
		latencyMs = lowLatencyMs
		capacityFrames = 1024
	}
	capacity := cfg.OutputSampleRate * latencyMs / 1000 * 2
	if capacity < capacityFrames*2 {
		capacity = capacityFrames * 2
	}

	var resampler Resampler
	if cfg.UseSinc {
		taps := cfg.SincTaps
		if taps == 0 {
			taps = 32
		}
		resampler = NewSincResampler(taps)
	} else {
		resampler = NewLinearResampler()
	}

	a := &Audio{
		cfg: cfg,
		rb: NewRingBuffer(capacity),
		resampler: resampler,
		device: device,
		enabled: true,
		multiplier: 1.0,
	}
	return a
}

// Start opens and starts the device stream, wiring OnReady as its pull
// callback.
func (a *Audio) Start() error {
	if err := a.device.Open(a.cfg.OutputSampleRate, 2, a.OnReady); err != nil {
		return err
	}
	return a.device.Start()
}

// Stop stops and closes the device stream.
func (a *Audio) Stop() error {
	if err := a.device.Stop(); err != nil {
		return err
	}
	return a.device.Close()
}

// SetEnabled enables/disables audio. Disabled: Write is a cheap no-op and
// OnReady returns silence.
func (a *Audio) SetEnabled(enabled bool) {
	a.mu.Lock()
	a.enabled = enabled
	if !enabled {
		a.rb.Reset()
	}
	a.mu.Unlock()
}

// Write resamples and enqueues core-produced interleaved stereo PCM. Called
// from the core thread inside the audio-batch callback.
func (a *Audio) Write(frames []int16) {
	a.mu.Lock()
	enabled := a.enabled
	mult := a.multiplier
	a.mu.Unlock()
	if !enabled || len(frames) == 0 {
		return
	}

	srcFrames := len(frames) / 2
	effectiveSrcRate := float64(a.cfg.SampleRate) * mult
	dstFrames := int(float64(srcFrames) * float64(a.cfg.OutputSampleRate) / effectiveSrcRate)
	if dstFrames <= 0 {
		return
	}

	dst := make([]int16, dstFrames*2)
	a.resampler.Resample(frames, srcFrames, dst, dstFrames)
	a.rb.Write(dst)

	a.updateDrift()
}

// updateDrift observes the current fill level and recomputes the
// drift-compensation multiplier PI controller.
func (a *Audio) updateDrift() {
	capacity := float64(a.rb.Capacity())
	target := capacity / 2
	fill := float64(a.rb.Len())
	err := (fill - target) / capacity

	a.mu.Lock()
	a.integral += err
	m := 1 + driftKp*err + driftKi*a.integral
	if m < 0.95 {
		m = 0.95
	}
	if m > 1.05 {
		m = 1.05
	}
	a.multiplier = m
	a.mu.Unlock()
}

// Multiplier returns the current drift-compensation multiplier.
func (a *Audio) Multiplier() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.multiplier
}

// ApplyTimeStretch biases the drift multiplier by FPSSync's wall-clock
// stretch factor, so produced audio tracks consumed audio over long
// windows even when the core thread ticks slightly off-rate.
func (a *Audio) ApplyTimeStretch(stretch float64) {
	a.mu.Lock()
	a.multiplier *= stretch
	if a.multiplier < 0.95 {
		a.multiplier = 0.95
	}
	if a.multiplier > 1.05 {
		a.multiplier = 1.05
	}
	a.mu.Unlock()
}

// OnReady is the device callback's pull function (realtime, device thread):
// copy num_frames*2 samples from the ring buffer; on underrun, hold the
// last sample (or silence) for the remainder.
func (a *Audio) OnReady(dst []int16) int {
	a.mu.Lock()
	enabled := a.enabled
	a.mu.Unlock()
	if !enabled {
		for i := range dst {
			dst[i] = 0
		}
		return len(dst) / 2
	}

	n := a.rb.Read(dst) // sample count (interleaved stereo), not frame count
	if n > 0 {
		a.lastSample[0] = dst[n-2]
		a.lastSample[1] = dst[n-1]
	}
	if n < len(dst) {
		a.underrunCount++
		for i := n; i < len(dst); i += 2 {
			dst[i] = a.lastSample[0]
			dst[i+1] = a.lastSample[1]
		}
	}
	return len(dst) / 2
}

// QueueDepth returns the ring buffer's current fill level in samples.
func (a *Audio) QueueDepth() int { return a.rb.Len() }

// UnderrunCount returns the number of OnReady calls that had to fall back
// to the held-sample fill policy. Underruns are diagnostics, never errors.
func (a *Audio) UnderrunCount() int64 { return a.underrunCount }
