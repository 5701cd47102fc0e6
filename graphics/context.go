// Package graphics defines the drawing-surface abstraction the host
// renders into. A Context is either a visible window (devsurface) or an
// offscreen EGL pbuffer (headless); the driver picks one at startup and
// everything downstream sees only this interface.
package graphics

// Context is a GL drawing surface with a current-able context.
type Context interface {
	// MakeCurrent binds the context to the calling OS thread.
	MakeCurrent()

	// EndFrame presents the rendered frame: buffer swap plus event poll for
	// a window, a flush for an offscreen surface.
	EndFrame()

	// ShouldClose reports whether the surface wants the host loop to end
	// (window close request); offscreen surfaces never do.
	ShouldClose() bool

	// FramebufferSize returns the drawable size in pixels.
	FramebufferSize() (int, int)

	// ProcAddress resolves a GL function name to its address, as a core's
	// hardware-render negotiation requires.
	ProcAddress(name string) uintptr

	// Shutdown releases the surface and its context.
	Shutdown()
}
