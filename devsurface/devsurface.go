// Package devsurface is a GLFW-backed implementation of the
// embedder-provided surface: it supplies runtime.Config.GLProcAddress and
// the surface/swap/poll loop around
// Runtime.OnSurfaceCreated/Resume/Step, for the cmd driver and for any
// desktop embedder that has no windowing layer of its own.
package devsurface

import (
	"log"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Surface owns the GLFW window and GL context a core host renders into; it
// implements graphics.Context. This is the only package in the repo that
// imports glfw.
type Surface struct {
	window *glfw.Window
	title  string
}

// New creates and initializes a GLFW window of the given size with a
// desktop-GL 4.1 core-profile context current on the calling (and, per
// glfw's requirement, OS-locked) thread.
func New(width, height int, title string) (*Surface, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, err
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}

	win.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return nil, err
	}
	log.Printf("devsurface: OpenGL Version %s", gl.GoStr(gl.GetString(gl.VERSION)))

	return &Surface{window: win, title: title}, nil
}

// Shutdown terminates the GLFW context. Safe to call once, at process exit.
func (s *Surface) Shutdown() {
	glfw.Terminate()
}

// MakeCurrent binds the window's GL context to the calling thread.
func (s *Surface) MakeCurrent() {
	s.window.MakeContextCurrent()
}

// ShouldClose reports whether the user has requested the window close.
func (s *Surface) ShouldClose() bool {
	return s.window.ShouldClose()
}

// EndFrame swaps buffers and polls for window/input events.
func (s *Surface) EndFrame() {
	s.window.SwapBuffers()
	glfw.PollEvents()
}

// FramebufferSize returns the current drawable size, for
// Runtime.OnSurfaceChanged on resize.
func (s *Surface) FramebufferSize() (int, int) {
	return s.window.GetFramebufferSize()
}

// ProcAddress satisfies runtime.Config.GLProcAddress and
// environment.HwRenderContext.GetProcAddress: it resolves a GL function
// name to its address via GLFW's loader, the way a core's SET_HW_RENDER
// negotiation requires.
func (s *Surface) ProcAddress(name string) uintptr {
	return uintptr(glfw.GetProcAddress(name))
}

// KeyFunc receives a host key code (the space input.Translate understands)
// and its pressed state.
type KeyFunc func(code int, pressed bool)

// SetKeyCallback routes keyboard events to fn, dropping auto-repeats and
// keys outside the gamepad mapping.
func (s *Surface) SetKeyCallback(fn KeyFunc) {
	s.window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Repeat {
			return
		}
		code, ok := hostKeyCode(key)
		if !ok {
			return
		}
		fn(code, action == glfw.Press)
	})
}

// hostKeyCode maps the keyboard to a gamepad layout: Z/X/A/S are the face
// buttons by position, Q/W and E/R the shoulders and triggers, arrows the
// d-pad, Enter/Backspace start/select.
func hostKeyCode(key glfw.Key) (int, bool) {
	switch key {
	case glfw.KeyZ:
		return 0, true
	case glfw.KeyX:
		return 1, true
	case glfw.KeyA:
		return 2, true
	case glfw.KeyS:
		return 3, true
	case glfw.KeyBackspace:
		return 4, true
	case glfw.KeyEnter:
		return 5, true
	case glfw.KeyQ:
		return 6, true
	case glfw.KeyW:
		return 7, true
	case glfw.KeyE:
		return 8, true
	case glfw.KeyR:
		return 9, true
	case glfw.KeyUp:
		return 12, true
	case glfw.KeyDown:
		return 13, true
	case glfw.KeyLeft:
		return 14, true
	case glfw.KeyRight:
		return 15, true
	}
	return 0, false
}

// Time returns seconds elapsed since GLFW was initialized, usable as the
// host's wall-clock source for fpssync.FPSSync.Wait pacing.
func (s *Surface) Time() float64 {
	return glfw.GetTime()
}
