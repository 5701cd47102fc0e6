package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaultValue(t *testing.T) {
	cases := []struct {
		description string
		want        string
	}{
		{"Region; Auto|NTSC|PAL", "Auto"},
		{"Crop Left Border; disabled|enabled", "disabled"},
		{"no semicolon here", ""},
		{"desc; onlydefault", "onlydefault"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, parseDefaultValue(c.description))
	}
}

func TestVariableOverrideAndDirtyFlag(t *testing.T) {
	e := New()
	e.SetVariables([]Variable{{Key: "k", Description: "desc; v0|v1|v2"}})

	v, ok := e.GetVariable("k")
	require.True(t, ok)
	assert.Equal(t, "v0", v)

	e.ApplyOverrides(map[string]string{"k": "v1"})
	v, ok = e.GetVariable("k")
	require.True(t, ok)
	assert.Equal(t, "v1", v)

	assert.False(t, e.GetVariableUpdate())

	e.UpdateVariable("k", "v2")
	assert.True(t, e.GetVariableUpdate())
	// Dirty flag clears after being observed.
	assert.False(t, e.GetVariableUpdate())

	v, ok = e.GetVariable("k")
	require.True(t, ok)
	assert.Equal(t, "v2", v)
}

func TestHandleUnknownCommandReturnsFalse(t *testing.T) {
	e := New()
	ok := e.Handle(&RawCall{Cmd: Command(9999)})
	assert.False(t, ok)
}

func TestHandleGetCanDupe(t *testing.T) {
	e := New()
	var out bool
	ok := e.Handle(&RawCall{Cmd: CmdGetCanDupe, BoolOut: &out})
	assert.True(t, ok)
	assert.True(t, out)
}

func TestHandleSystemDirectoryUnconfigured(t *testing.T) {
	e := New()
	var out string
	ok := e.Handle(&RawCall{Cmd: CmdGetSystemDirectory, StringOut: &out})
	assert.False(t, ok)
}

func TestRotationQuarterTurns(t *testing.T) {
	e := New()
	e.SetRotationQuarterTurns(1)
	assert.InDelta(t, 1.5707963, e.Rotation(), 1e-4)
	assert.True(t, e.ConsumeRotationUpdated())
	assert.False(t, e.ConsumeRotationUpdated())
}

func TestRumbleStatesSnapshot(t *testing.T) {
	e := New()
	e.RecordRumble(1, 100, 200)
	states := e.RumbleStates()
	assert.Equal(t, uint16(100), states[1].Strong)
	assert.Equal(t, uint16(200), states[1].Weak)
	// out-of-range port is ignored, not a panic
	e.RecordRumble(9, 1, 1)
}

func TestRecordRumbleEffectKeepsOtherChannel(t *testing.T) {
	e := New()
	e.RecordRumbleEffect(0, true, 800)
	e.RecordRumbleEffect(0, false, 300)
	states := e.RumbleStates()
	assert.Equal(t, uint16(800), states[0].Strong)
	assert.Equal(t, uint16(300), states[0].Weak)

	e.RecordRumbleEffect(0, true, 0)
	states = e.RumbleStates()
	assert.Equal(t, uint16(0), states[0].Strong)
	assert.Equal(t, uint16(300), states[0].Weak)
}

func TestLanguageFallback(t *testing.T) {
	assert.Equal(t, languageTable["fr"], languageFor("fr"))
	assert.Equal(t, languageEnglish, languageFor("xx"))
}
