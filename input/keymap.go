package input

// KeyCode is a host (OS/embedder) key or gamepad button identifier, e.g. a
// GLFW key constant or Android keycode. The host translates these to
// core-ABI button ids via Translate before calling SetButton.
type KeyCode int

// translationTable maps host key codes to core-ABI JOYPAD button ids.
// A<->B and X<->Y are swapped relative to a naive "same letter" mapping
// because Nintendo's face-button convention (B bottom, A right) is mirrored
// from the layout most device keymaps label "A"/"B" by position.
var translationTable = map[KeyCode]int{
	KeyCode(0): ButtonB, // host "A" (bottom face button) -> core B
	KeyCode(1): ButtonA, // host "B" (right face button) -> core A
	KeyCode(2): ButtonY, // host "X" (left face button) -> core Y
	KeyCode(3): ButtonX, // host "Y" (top face button) -> core X
	KeyCode(4): ButtonSelect,
	KeyCode(5): ButtonStart,
	KeyCode(6): ButtonL,
	KeyCode(7): ButtonR,
	KeyCode(8): ButtonL2,
	KeyCode(9): ButtonR2,
	KeyCode(10): ButtonL3,
	KeyCode(11): ButtonR3,
	KeyCode(12): ButtonUp,
	KeyCode(13): ButtonDown,
	KeyCode(14): ButtonLeft,
	KeyCode(15): ButtonRight,
}

// Translate maps a host key code to a core-ABI JOYPAD button id. ok is
// false for unrecognized codes, so the caller can fall through to
// app-level handling instead of misrouting the event.
func Translate(code KeyCode) (buttonID int, ok bool) {
	id, ok := translationTable[code]
	return id, ok
}
