package video

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/retrocore/hostruntime/environment"
)

func TestWidenORGB1555ProducesRGB565Layout(t *testing.T) {
	ir := &ImageRenderer{}
	// 0RRRRRGGGGGBBBBB = R=31,G=0,B=0 -> pure red.
	px := uint16(31<<10) | uint16(0<<5) | 0
	data := []byte{byte(px), byte(px >> 8)}
	ir.widenORGB1555(data, 1, 1, 2)
	out := uint16(data[0]) | uint16(data[1])<<8
	r565 := (out >> 11) & 0x1F
	g565 := (out >> 5) & 0x3F
	b565 := out & 0x1F
	assert.Equal(t, uint16(31), r565)
	assert.Equal(t, uint16(0), g565)
	assert.Equal(t, uint16(0), b565)
}

func TestSwizzleXRGB8888SwapsRedAndBlue(t *testing.T) {
	ir := &ImageRenderer{}
	data := []byte{0x10, 0x20, 0x30, 0xFF} // B=0x10 G=0x20 R=0x30 X=0xFF
	ir.swizzleXRGB8888(data, 1, 1, 4)
	assert.Equal(t, byte(0x30), data[0])
	assert.Equal(t, byte(0x20), data[1])
	assert.Equal(t, byte(0x10), data[2])
	assert.Equal(t, byte(0xFF), data[3])
}

func TestBytesPerPixelForFormats(t *testing.T) {
	assert.Equal(t, 2, bytesPerPixelFor(environment.PixelFormatRGB565))
	assert.Equal(t, 2, bytesPerPixelFor(environment.PixelFormatORGB1555))
	assert.Equal(t, 4, bytesPerPixelFor(environment.PixelFormatXRGB8888))
}
