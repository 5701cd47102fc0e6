//go:build linux

// Package headless provides an offscreen EGL pbuffer surface for running
// the host without a display server: CI capture runs, frame-recorder
// sessions and soak tests drive the full video pipeline against it.
package headless

import (
	"fmt"
	"log"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/retrocore/hostruntime/graphics"
)

/*
#cgo LDFLAGS: -lEGL -lGLESv2
#include <stdlib.h>
#include <EGL/egl.h>
#include <EGL/eglext.h>

// EGL's device-enumeration entry points are extensions resolved at runtime;
// cgo cannot call the resulting function pointers directly, so these
// wrappers hold and invoke them.
static PFNEGLQUERYDEVICESEXTPROC eglQueryDevicesEXT_ptr = NULL;
static PFNEGLGETPLATFORMDISPLAYEXTPROC eglGetPlatformDisplayEXT_ptr = NULL;

static void resolve_egl_extensions() {
    eglQueryDevicesEXT_ptr = (PFNEGLQUERYDEVICESEXTPROC) eglGetProcAddress("eglQueryDevicesEXT");
    eglGetPlatformDisplayEXT_ptr = (PFNEGLGETPLATFORMDISPLAYEXTPROC) eglGetProcAddress("eglGetPlatformDisplayEXT");
}

static EGLDisplay platform_display(EGLenum platform, void *native_display, const EGLint *attrib_list) {
    if (eglGetPlatformDisplayEXT_ptr) {
        return eglGetPlatformDisplayEXT_ptr(platform, native_display, attrib_list);
    }
    return EGL_NO_DISPLAY;
}

static EGLBoolean query_devices(EGLint max_devices, EGLDeviceEXT *devices, EGLint *num_devices) {
    if (eglQueryDevicesEXT_ptr) {
        return eglQueryDevicesEXT_ptr(max_devices, devices, num_devices);
    }
    return EGL_FALSE;
}

static void *egl_proc_address(const char *name) {
    return (void *)eglGetProcAddress(name);
}
*/
import "C"

// Surface is an offscreen pbuffer-backed graphics.Context.
type Surface struct {
	display C.EGLDisplay
	context C.EGLContext
	surface C.EGLSurface

	width, height int
}

// displayForDevice prefers explicit device enumeration (the only route
// that works inside a GPU container with no display server), falling back
// to the default display.
func displayForDevice() (C.EGLDisplay, error) {
	C.resolve_egl_extensions()

	var numDevices C.EGLint
	if C.query_devices(0, nil, &numDevices) == C.EGL_FALSE || numDevices == 0 {
		display := C.eglGetDisplay(C.EGLNativeDisplayType(C.EGL_DEFAULT_DISPLAY))
		if display == C.EGLDisplay(C.EGL_NO_DISPLAY) {
			return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("headless: no EGL devices and no default display")
		}
		return display, nil
	}

	devices := make([]C.EGLDeviceEXT, numDevices)
	if C.query_devices(numDevices, &devices[0], &numDevices) == C.EGL_FALSE {
		return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("headless: eglQueryDevicesEXT failed")
	}

	for i := 0; i < int(numDevices); i++ {
		display := C.platform_display(C.EGL_PLATFORM_DEVICE_EXT, unsafe.Pointer(devices[i]), nil)
		if display != C.EGLDisplay(C.EGL_NO_DISPLAY) {
			return display, nil
		}
	}

	return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("headless: no EGL device yields a display")
}

// New creates an offscreen EGL context with a width x height pbuffer and
// makes it current on the calling thread.
func New(width, height int) (graphics.Context, error) {
	s := &Surface{width: width, height: height}

	var err error
	s.display, err = displayForDevice()
	if err != nil {
		return nil, err
	}

	var major, minor C.EGLint
	if C.eglInitialize(s.display, &major, &minor) == C.EGL_FALSE {
		return nil, fmt.Errorf("headless: eglInitialize failed")
	}
	log.Printf("headless: EGL %d.%d", major, minor)

	configAttribs := []C.EGLint{
		C.EGL_SURFACE_TYPE, C.EGL_PBUFFER_BIT,
		C.EGL_RED_SIZE, 8,
		C.EGL_GREEN_SIZE, 8,
		C.EGL_BLUE_SIZE, 8,
		C.EGL_ALPHA_SIZE, 8,
		C.EGL_DEPTH_SIZE, 24,
		C.EGL_RENDERABLE_TYPE, C.EGL_OPENGL_ES3_BIT,
		C.EGL_NONE,
	}
	var config C.EGLConfig
	var numConfig C.EGLint
	if C.eglChooseConfig(s.display, &configAttribs[0], &config, 1, &numConfig) == C.EGL_FALSE || numConfig == 0 {
		return nil, fmt.Errorf("headless: no matching EGL config")
	}

	pbufferAttribs := []C.EGLint{
		C.EGL_WIDTH, C.EGLint(width),
		C.EGL_HEIGHT, C.EGLint(height),
		C.EGL_NONE,
	}
	s.surface = C.eglCreatePbufferSurface(s.display, config, &pbufferAttribs[0])
	if s.surface == C.EGLSurface(C.EGL_NO_SURFACE) {
		return nil, fmt.Errorf("headless: eglCreatePbufferSurface failed")
	}

	contextAttribs := []C.EGLint{
		C.EGL_CONTEXT_CLIENT_VERSION, 3,
		C.EGL_NONE,
	}
	s.context = C.eglCreateContext(s.display, config, C.EGLContext(C.EGL_NO_CONTEXT), &contextAttribs[0])
	if s.context == C.EGLContext(C.EGL_NO_CONTEXT) {
		return nil, fmt.Errorf("headless: eglCreateContext failed")
	}

	s.MakeCurrent()

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("headless: GL init: %w", err)
	}
	return s, nil
}

// MakeCurrent binds the pbuffer context to the calling thread.
func (s *Surface) MakeCurrent() {
	C.eglMakeCurrent(s.display, s.surface, s.surface, s.context)
}

// EndFrame swaps the (invisible) pbuffer, which flushes the GL pipeline.
func (s *Surface) EndFrame() {
	C.eglSwapBuffers(s.display, s.surface)
}

// ShouldClose never triggers for an offscreen surface; the driver bounds
// the run itself (frame count, duration, signal).
func (s *Surface) ShouldClose() bool { return false }

// FramebufferSize returns the pbuffer dimensions.
func (s *Surface) FramebufferSize() (int, int) { return s.width, s.height }

// ProcAddress resolves a GL symbol through EGL.
func (s *Surface) ProcAddress(name string) uintptr {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return uintptr(C.egl_proc_address(cname))
}

// Shutdown unbinds and destroys the context, surface and display.
func (s *Surface) Shutdown() {
	if s.display == C.EGLDisplay(C.EGL_NO_DISPLAY) {
		return
	}
	C.eglMakeCurrent(s.display, C.EGLSurface(C.EGL_NO_SURFACE), C.EGLSurface(C.EGL_NO_SURFACE), C.EGLContext(C.EGL_NO_CONTEXT))
	if s.context != C.EGLContext(C.EGL_NO_CONTEXT) {
		C.eglDestroyContext(s.display, s.context)
	}
	if s.surface != C.EGLSurface(C.EGL_NO_SURFACE) {
		C.eglDestroySurface(s.display, s.surface)
	}
	C.eglTerminate(s.display)
	s.display = C.EGLDisplay(C.EGL_NO_DISPLAY)
}
