// Package rumble bridges Environment's per-port rumble state to an
// embedder haptics callback, emitting only on transitions.
package rumble

import (
	"github.com/retrocore/hostruntime/environment"
)

// Callback receives a rumble event for one port: weak/strong are scaled to
// [0, 1] from the core's 16-bit magnitudes.
type Callback func(port int, weak, strong float32)

// Bridge diffs Environment.RumbleStates against the last-seen snapshot each
// frame and emits only on change.
type Bridge struct {
	env *environment.Environment
	lastSeen [4]environment.RumbleState
	enabled bool
	emit Callback
}

// New constructs a Bridge bound to env, delivering transitions to emit.
func New(env *environment.Environment, emit Callback) *Bridge {
	return &Bridge{env: env, emit: emit, enabled: true}
}

// SetEnabled toggles rumble delivery. Disabled: both the read and the
// emission are skipped.
func (b *Bridge) SetEnabled(enabled bool) {
	b.enabled = enabled
}

// Tick reads the current rumble states and emits one callback per port
// whose state changed since the last Tick.
func (b *Bridge) Tick() {
	if !b.enabled {
		return
	}
	current := b.env.RumbleStates()
	for port, state := range current {
		if state != b.lastSeen[port] {
			b.lastSeen[port] = state
			b.emit(port, scale(state.Weak), scale(state.Strong))
		}
	}
}

func scale(v uint16) float32 {
	return float32(v) / 0xFFFF
}
