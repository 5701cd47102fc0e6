package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGaussianKernelNormalizedAndSymmetric(t *testing.T) {
	k := gaussianKernel(blurTaps, float64(blurTaps)/3)
	var sum float32
	for _, v := range k {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-4)
	for i := 0; i < blurTaps/2; i++ {
		assert.InDelta(t, k[i], k[blurTaps-1-i], 1e-6)
	}
}

func TestUniformIndexName(t *testing.T) {
	assert.Equal(t, "u_kernel[0]", uniformIndexName("u_kernel", 0))
	assert.Equal(t, "u_kernel[6]", uniformIndexName("u_kernel", 6))
}
