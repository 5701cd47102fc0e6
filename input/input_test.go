package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDPadAxesExactlyTristate(t *testing.T) {
	in := New()
	in.SetDPad(0, 5, -5)
	assert.Equal(t, int16(1), in.GetState(0, DeviceJoypad, 0, ButtonRight))
	assert.Equal(t, int16(0), in.GetState(0, DeviceJoypad, 0, ButtonLeft))
	assert.Equal(t, int16(1), in.GetState(0, DeviceJoypad, 0, ButtonUp))
	assert.Equal(t, int16(0), in.GetState(0, DeviceJoypad, 0, ButtonDown))
}

func TestButtonMembership(t *testing.T) {
	in := New()
	in.SetButton(0, ButtonA, true)
	assert.Equal(t, int16(1), in.GetState(0, DeviceJoypad, 0, ButtonA))
	assert.Equal(t, int16(0), in.GetState(0, DeviceJoypad, 0, ButtonB))
}

func TestAnalogSaturatesAtI16Max(t *testing.T) {
	in := New()
	in.SetAnalog(0, AnalogLeft, 2.0, -2.0)
	assert.Equal(t, int16(0x7FFF), in.GetState(0, DeviceAnalog, AnalogLeft, AnalogX))
	assert.Equal(t, int16(-0x7FFF), in.GetState(0, DeviceAnalog, AnalogLeft, AnalogY))
}

func TestTouchStateAndSentinel(t *testing.T) {
	in := New()
	in.SetTouch(0, 0.75, 0.25, true)
	assert.Equal(t, int16(1), in.GetState(0, DevicePointer, 0, PointerPressed))
	in.SetTouch(0, 0, 0, false)
	assert.Equal(t, int16(0), in.GetState(0, DevicePointer, 0, PointerPressed))
}

func TestUnknownPortReturnsZero(t *testing.T) {
	in := New()
	assert.Equal(t, int16(0), in.GetState(99, DeviceJoypad, 0, ButtonA))
}

func TestTranslateSwapsAAndBConventions(t *testing.T) {
	id, ok := Translate(KeyCode(0))
	assert.True(t, ok)
	assert.Equal(t, ButtonB, id)

	_, ok = Translate(KeyCode(999))
	assert.False(t, ok)
}
