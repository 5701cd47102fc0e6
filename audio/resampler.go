package audio

import "math"

// Resampler rate-converts interleaved stereo int16 PCM. src/dst frame
// counts are stereo frame counts (two int16 samples per frame); both slices
// are pre-sized by the caller to srcFrames*2 / dstFrames*2.
type Resampler interface {
	Resample(src []int16, srcFrames int, dst []int16, dstFrames int)
}

// LinearResampler performs straightforward linear interpolation between
// neighboring stereo frames. Always available; cheap; the default.
type LinearResampler struct{}

// NewLinearResampler constructs a LinearResampler.
func NewLinearResampler() *LinearResampler { return &LinearResampler{} }

// Resample implements Resampler.
func (LinearResampler) Resample(src []int16, srcFrames int, dst []int16, dstFrames int) {
	if srcFrames <= 0 || dstFrames <= 0 {
		return
	}
	ratio := float64(srcFrames) / float64(dstFrames)
	for i := 0; i < dstFrames; i++ {
		srcPos := float64(i) * ratio
		i0 := int(srcPos)
		if i0 >= srcFrames-1 {
			i0 = srcFrames - 2
			if i0 < 0 {
				i0 = 0
			}
		}
		i1 := i0 + 1
		if i1 >= srcFrames {
			i1 = srcFrames - 1
		}
		frac := srcPos - float64(i0)

		for ch := 0; ch < 2; ch++ {
			a := float64(src[i0*2+ch])
			b := float64(src[i1*2+ch])
			v := a + (b-a)*frac
			dst[i*2+ch] = clampInt16(v)
		}
	}
}

func clampInt16(v float64) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// SincResampler performs windowed-sinc interpolation with a configurable
// tap count, trading CPU for accuracy. Preferred over Linear when the host
// has CPU budget to spare.
type SincResampler struct {
	taps int
}

// NewSincResampler constructs a SincResampler with the given (odd-preferred)
// tap count; a typical value is 32.
func NewSincResampler(taps int) *SincResampler {
	if taps < 2 {
		taps = 2
	}
	return &SincResampler{taps: taps}
}

// Resample implements Resampler using a Hann-windowed sinc kernel
// recomputed per output sample (band-limited interpolation).
func (s *SincResampler) Resample(src []int16, srcFrames int, dst []int16, dstFrames int) {
	if srcFrames <= 0 || dstFrames <= 0 {
		return
	}
	ratio := float64(srcFrames) / float64(dstFrames)
	half := s.taps / 2

	for i := 0; i < dstFrames; i++ {
		center := float64(i) * ratio

		for ch := 0; ch < 2; ch++ {
			var acc, wsum float64
			lo := int(center) - half
			hi := int(center) + half
			for j := lo; j <= hi; j++ {
				if j < 0 || j >= srcFrames {
					continue
				}
				x := center - float64(j)
				w := sincKernel(x, float64(half)) * hannWindow(x, float64(half))
				acc += w * float64(src[j*2+ch])
				wsum += w
			}
			v := acc
			if wsum != 0 {
				v = acc / wsum
			}
			dst[i*2+ch] = clampInt16(v)
		}
	}
}

func sincKernel(x, halfWidth float64) float64 {
	if x == 0 {
		return 1
	}
	if math.Abs(x) > halfWidth {
		return 0
	}
	piX := math.Pi * x
	return math.Sin(piX) / piX
}

func hannWindow(x, halfWidth float64) float64 {
	if halfWidth == 0 {
		return 1
	}
	t := x / halfWidth
	if t < -1 || t > 1 {
		return 0
	}
	return 0.5 * (1 + math.Cos(math.Pi*t))
}
