//go:build !linux

package headless

import (
	"fmt"

	"github.com/retrocore/hostruntime/graphics"
)

// New is unsupported off Linux; the devsurface window is the only surface
// available there.
func New(width, height int) (graphics.Context, error) {
	return nil, fmt.Errorf("headless: EGL offscreen rendering is only supported on linux")
}
