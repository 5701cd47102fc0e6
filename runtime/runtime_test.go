package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/retrocore/hostruntime/environment"
)

func TestErrorCodesAreStable(t *testing.T) {
	// Embedder bindings switch on these integers; they are wire values.
	assert.Equal(t, ErrorCode(-1), ErrCodeGeneric)
	assert.Equal(t, ErrorCode(0), ErrCodeLoadLibrary)
	assert.Equal(t, ErrorCode(1), ErrCodeLoadGame)
	assert.Equal(t, ErrorCode(2), ErrCodeGLNotCompatible)
	assert.Equal(t, ErrorCode(3), ErrCodeSerialization)
	assert.Equal(t, ErrorCode(4), ErrCodeCheat)
}

func TestErrorWrapsAndNames(t *testing.T) {
	err := newError(ErrCodeSerialization, "state size %d", 16)
	assert.Contains(t, err.Error(), "Serialization")
	assert.Contains(t, err.Error(), "16")
	assert.Equal(t, ErrCodeSerialization, err.Code)
}

func TestOperationsRejectWrongState(t *testing.T) {
	r := New()
	assert.Error(t, r.Resume())
	assert.Error(t, r.Pause())
	assert.Error(t, r.Step())
	_, err := r.Serialize()
	assert.Error(t, err)

	var typed *Error
	assert.ErrorAs(t, r.Step(), &typed)
	assert.Equal(t, ErrCodeGeneric, typed.Code)
}

func TestDestroyBeforeCreateIsNoop(t *testing.T) {
	r := New()
	assert.NoError(t, r.Destroy())
	assert.Equal(t, StateUninit, r.State())
}

func TestAxisSignAppliesDeadzone(t *testing.T) {
	assert.Equal(t, 0, axisSign(0.3))
	assert.Equal(t, 1, axisSign(0.9))
	assert.Equal(t, -1, axisSign(-0.6))
	assert.Equal(t, 0, axisSign(0))
}

func TestOverridesFromKeepsLastValuePerKey(t *testing.T) {
	m := overridesFrom([]environment.Variable{
		{Key: "region", Value: "ntsc"},
		{Key: "region", Value: "pal"},
	})
	assert.Equal(t, "pal", m["region"])
}
