package rumble

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/retrocore/hostruntime/environment"
)

func TestTickEmitsOnlyOnTransition(t *testing.T) {
	env := environment.New()
	var events []int
	b := New(env, func(port int, weak, strong float32) {
		events = append(events, port)
	})

	b.Tick() // all zero -> zero, no transition
	assert.Empty(t, events)

	env.RecordRumble(0, 1000, 0)
	b.Tick()
	assert.Equal(t, []int{0}, events)

	b.Tick() // unchanged since last tick
	assert.Equal(t, []int{0}, events)

	env.RecordRumble(0, 1000, 500)
	b.Tick()
	assert.Equal(t, []int{0, 0}, events)
}

func TestDisabledSkipsReadAndEmission(t *testing.T) {
	env := environment.New()
	var called bool
	b := New(env, func(int, float32, float32) { called = true })
	b.SetEnabled(false)

	env.RecordRumble(0, 1000, 1000)
	b.Tick()
	assert.False(t, called)
}

func TestEmitOrderIsWeakThenStrong(t *testing.T) {
	env := environment.New()
	var gotWeak, gotStrong float32
	b := New(env, func(_ int, weak, strong float32) {
		gotWeak, gotStrong = weak, strong
	})

	env.RecordRumble(0, 0xFFFF, 0x8000)
	b.Tick()
	assert.InDelta(t, 0.5, gotWeak, 1e-3)
	assert.InDelta(t, 1.0, gotStrong, 1e-3)
}

func TestScaleNormalizesToUnitRange(t *testing.T) {
	assert.InDelta(t, 1.0, scale(0xFFFF), 1e-4)
	assert.Equal(t, float32(0), scale(0))
}
