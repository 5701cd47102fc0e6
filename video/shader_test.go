package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupPresetKnownNames(t *testing.T) {
	for _, name := range []string{"default", "crt", "lcd", "sharp-bilinear"} {
		p := LookupPreset(Config{Preset: name})
		assert.Equal(t, name, p.Name)
		assert.NotEmpty(t, p.Passes)
	}
}

func TestLookupPresetUnknownFallsBackToDefault(t *testing.T) {
	p := LookupPreset(Config{Preset: "not-a-real-preset"})
	assert.Equal(t, "default", p.Name)
}

func TestLookupPresetEmptyFallsBackToDefault(t *testing.T) {
	p := LookupPreset(Config{})
	assert.Equal(t, "default", p.Name)
}
