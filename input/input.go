// Package input aggregates per-port gamepad/touch state written from the
// embedder thread and read from the core thread during the core's
// input-poll/input-state callbacks. Each field is its own atomic rather
// than the whole port being guarded by one lock; readers may observe values
// one frame stale, and reads across fields may be torn.
package input

import (
	"sync/atomic"
)

// Core-ABI device ids (RETRO_DEVICE_*).
const (
	DeviceNone = 0
	DeviceJoypad = 1
	DeviceAnalog = 5
	DevicePointer = 6
)

// Core-ABI joypad button ids (RETRO_DEVICE_ID_JOYPAD_*).
const (
	ButtonB = 0
	ButtonY = 1
	ButtonSelect = 2
	ButtonStart = 3
	ButtonUp = 4
	ButtonDown = 5
	ButtonLeft = 6
	ButtonRight = 7
	ButtonA = 8
	ButtonX = 9
	ButtonL = 10
	ButtonR = 11
	ButtonL2 = 12
	ButtonR2 = 13
	ButtonL3 = 14
	ButtonR3 = 15
)

// Core-ABI analog indices/ids.
const (
	AnalogLeft = 0
	AnalogRight = 1
	AnalogX = 0
	AnalogY = 1
)

// Core-ABI pointer ids.
const (
	PointerX = 0
	PointerY = 1
	PointerPressed = 2
)

// Embedder motion-event sources.
const (
	MotionDpad = 0
	MotionAnalogLeft = 1
	MotionAnalogRight = 2
)

const maxPorts = 8
const maxButtons = 16

// touchSentinel is the "no touch" value for pointer x/y, matching
// [-1,1]^2-scaled sentinel used by RETRO_DEVICE_POINTER.
const touchSentinel = -0x8000

// portState holds one controller port's state as independent atomics so
// concurrent embedder writes and core reads never need a shared lock.
type portState struct {
	buttons [maxButtons]atomic.Bool
	dpadX atomic.Int32
	dpadY atomic.Int32
	analogLX atomic.Int32
	analogLY atomic.Int32
	analogRX atomic.Int32
	analogRY atomic.Int32
	touchX atomic.Int32
	touchY atomic.Int32
	touchPressed atomic.Bool
}

// Input owns every port's state and answers the core's get_input_state
// queries.
type Input struct {
	ports [maxPorts]portState
}

// New constructs an Input with all ports zeroed.
func New() *Input {
	return &Input{}
}

func (in *Input) port(p int) *portState {
	if p < 0 || p >= maxPorts {
		return nil
	}
	return &in.ports[p]
}

// SetButton records a JOYPAD button's pressed state, called from the
// embedder thread on key events.
func (in *Input) SetButton(port, buttonID int, pressed bool) {
	ps := in.port(port)
	if ps == nil || buttonID < 0 || buttonID >= maxButtons {
		return
	}
	ps.buttons[buttonID].Store(pressed)
}

// SetDPad records the dpad axis state; x and y must each be in {-1,0,1}.
func (in *Input) SetDPad(port int, x, y int) {
	ps := in.port(port)
	if ps == nil {
		return
	}
	ps.dpadX.Store(int32(clampAxis(x)))
	ps.dpadY.Store(int32(clampAxis(y)))
}

// SetAnalog records an analog stick's position in [-1,1]; values are
// stored pre-scaled to the core's i16 range so reads never touch floats.
func (in *Input) SetAnalog(port, stick int, x, y float32) {
	ps := in.port(port)
	if ps == nil {
		return
	}
	lx, ly := scaleAnalog(x), scaleAnalog(y)
	if stick == AnalogLeft {
		ps.analogLX.Store(lx)
		ps.analogLY.Store(ly)
	} else {
		ps.analogRX.Store(lx)
		ps.analogRY.Store(ly)
	}
}

// SetTouch records an absolute touch position in [0,1]^2 scaled to the
// core's [-0x7FFF, 0x7FFF] range, or clears it when pressed is false.
func (in *Input) SetTouch(port int, x, y float32, pressed bool) {
	ps := in.port(port)
	if ps == nil {
		return
	}
	ps.touchPressed.Store(pressed)
	if !pressed {
		ps.touchX.Store(touchSentinel)
		ps.touchY.Store(touchSentinel)
		return
	}
	ps.touchX.Store(int32((x*2 - 1) * 0x7FFF))
	ps.touchY.Store(int32((y*2 - 1) * 0x7FFF))
}

// GetState answers one get_input_state query. Unknown
// device/port combinations return 0.
func (in *Input) GetState(port, device, index, id int) int16 {
	ps := in.port(port)
	if ps == nil {
		return 0
	}
	switch device {
	case DeviceJoypad:
		// The four directions answer from either the dpad axes or a direct
		// button press; embedders may deliver them as whichever they have.
		switch id {
		case ButtonUp:
			return orPressed(boolToAxisUp(ps.dpadY.Load()), &ps.buttons[ButtonUp])
		case ButtonDown:
			return orPressed(boolToAxisDown(ps.dpadY.Load()), &ps.buttons[ButtonDown])
		case ButtonLeft:
			return orPressed(axisNegative(ps.dpadX.Load()), &ps.buttons[ButtonLeft])
		case ButtonRight:
			return orPressed(axisPositive(ps.dpadX.Load()), &ps.buttons[ButtonRight])
		default:
			if id >= 0 && id < maxButtons && ps.buttons[id].Load() {
				return 1
			}
			return 0
		}
	case DeviceAnalog:
		switch index {
		case AnalogLeft:
			if id == AnalogX {
				return int16(ps.analogLX.Load())
			}
			return int16(ps.analogLY.Load())
		case AnalogRight:
			if id == AnalogX {
				return int16(ps.analogRX.Load())
			}
			return int16(ps.analogRY.Load())
		}
		return 0
	case DevicePointer:
		switch id {
		case PointerX:
			return int16(ps.touchX.Load())
		case PointerY:
			return int16(ps.touchY.Load())
		case PointerPressed:
			if ps.touchPressed.Load() {
				return 1
			}
			return 0
		}
		return 0
	default:
		return 0
	}
}

func clampAxis(v int) int {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

func scaleAnalog(v float32) int32 {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	return int32(v * 0x7FFF)
}

func boolToAxisUp(y int32) int16 {
	if y < 0 {
		return 1
	}
	return 0
}

func boolToAxisDown(y int32) int16 {
	if y > 0 {
		return 1
	}
	return 0
}

func axisNegative(x int32) int16 {
	if x < 0 {
		return 1
	}
	return 0
}

func axisPositive(x int32) int16 {
	if x > 0 {
		return 1
	}
	return 0
}

func orPressed(axis int16, button *atomic.Bool) int16 {
	if axis != 0 || button.Load() {
		return 1
	}
	return 0
}
