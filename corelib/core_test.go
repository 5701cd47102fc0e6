package corelib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadLibraryErrorMessage(t *testing.T) {
	err := &LoadLibraryError{Path: "/tmp/core.so", Msg: "missing symbol \"retro_run\""}
	assert.Contains(t, err.Error(), "/tmp/core.so")
	assert.Contains(t, err.Error(), "retro_run")
}

func TestOpenMissingFileFails(t *testing.T) {
	_, err := Open("/nonexistent/path/to/core.so")
	assert.Error(t, err)
}

func TestRequiredSymbolsListIsStable(t *testing.T) {
	assert.Contains(t, requiredSymbols, "retro_run")
	assert.Contains(t, requiredSymbols, "retro_set_environment")
	assert.Len(t, requiredSymbols, 23)
}
