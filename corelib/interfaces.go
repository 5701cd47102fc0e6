package corelib

/*
#include <stddef.h>
#include <stdint.h>
#include <stdarg.h>
#include <stdio.h>
#include <stdbool.h>

extern bool goRumbleSetState(unsigned port, unsigned effect, unsigned short strength);
extern void goLogCallback(unsigned level, char *msg);

extern void *goVFSOpen(char *path, unsigned mode, unsigned hints);
extern int goVFSClose(void *stream);
extern int64_t goVFSSize(void *stream);
extern int64_t goVFSTell(void *stream);
extern int64_t goVFSSeek(void *stream, int64_t offset, int whence);
extern int64_t goVFSRead(void *stream, void *buf, uint64_t len);
extern int64_t goVFSWrite(void *stream, void *buf, uint64_t len);
extern int goVFSFlush(void *stream);
extern int goVFSRemove(char *path);
extern int goVFSRename(char *oldPath, char *newPath);
extern int64_t goVFSTruncate(void *stream, int64_t length);

extern uintptr_t goGetCurrentFramebuffer(void);
extern void *goGetProcAddress(char *sym);

extern void *goMicOpen(unsigned rate);
extern void goMicClose(void *mic);
extern bool goMicGetParams(void *mic, unsigned *rate);
extern bool goMicSetState(void *mic, bool state);
extern bool goMicGetState(void *mic);
extern int goMicRead(void *mic, void *frames, size_t num_frames);

struct retro_microphone_params {
 unsigned rate;
};

static void *mic_open_trampoline(const struct retro_microphone_params *params) {
 unsigned rate = params ? params->rate : 0;
 return goMicOpen(rate);
}

static bool mic_get_params_trampoline(void *mic, struct retro_microphone_params *params) {
 unsigned rate = 0;
 if (!goMicGetParams(mic, &rate)) {
  return false;
 }
 if (params) {
  params->rate = rate;
 }
 return true;
}

static bool rumble_trampoline(unsigned port, unsigned effect, unsigned short strength) {
 return goRumbleSetState(port, effect, strength);
}

static void log_trampoline(unsigned level, const char *fmt,...) {
 char buf[4096];
 va_list args;
 va_start(args, fmt);
 vsnprintf(buf, sizeof(buf), fmt, args);
 va_end(args);
 goLogCallback(level, buf);
}

static void *rumble_set_state_ptr(void) { return (void *)rumble_trampoline; }
static void *log_callback_ptr(void) { return (void *)log_trampoline; }

static void *vfs_open_ptr(void) { return (void *)goVFSOpen; }
static void *vfs_close_ptr(void) { return (void *)goVFSClose; }
static void *vfs_size_ptr(void) { return (void *)goVFSSize; }
static void *vfs_tell_ptr(void) { return (void *)goVFSTell; }
static void *vfs_seek_ptr(void) { return (void *)goVFSSeek; }
static void *vfs_read_ptr(void) { return (void *)goVFSRead; }
static void *vfs_write_ptr(void) { return (void *)goVFSWrite; }
static void *vfs_flush_ptr(void) { return (void *)goVFSFlush; }
static void *vfs_remove_ptr(void) { return (void *)goVFSRemove; }
static void *vfs_rename_ptr(void) { return (void *)goVFSRename; }
static void *vfs_truncate_ptr(void) { return (void *)goVFSTruncate; }

static void *get_current_framebuffer_ptr(void) { return (void *)goGetCurrentFramebuffer; }
static void *get_proc_address_ptr(void) { return (void *)goGetProcAddress; }

static void *mic_open_ptr(void) { return (void *)mic_open_trampoline; }
static void *mic_close_ptr(void) { return (void *)goMicClose; }
static void *mic_get_params_ptr(void) { return (void *)mic_get_params_trampoline; }
static void *mic_set_state_ptr(void) { return (void *)goMicSetState; }
static void *mic_get_state_ptr(void) { return (void *)goMicGetState; }
static void *mic_read_ptr(void) { return (void *)goMicRead; }
*/
import "C"

import (
	"sync"
	"unsafe"
)

// InterfaceDispatcher routes the optional interface callbacks a core obtains
// through RETRO_ENVIRONMENT_GET_*_INTERFACE (rumble, logging, VFS and
// microphone) and the SET_HW_RENDER callbacks. These are separate from
// Dispatcher because, unlike the six fixed core-ABI callbacks, a core only
// calls through them if it actually negotiated the interface, and runtime
// installs them independently of the six-callback handshake.
type InterfaceDispatcher struct {
	RumbleSetState func(port, effect uint32, strength uint16) bool
	Log func(level uint32, message string)

	VFSOpen func(path string, mode, hints uint32) uint64
	VFSClose func(handle uint64) int
	VFSSize func(handle uint64) int64
	VFSTell func(handle uint64) int64
	VFSSeek func(handle uint64, offset int64, whence int) int64
	VFSRead func(handle uint64, buf []byte) int64
	VFSWrite func(handle uint64, buf []byte) int64
	VFSFlush func(handle uint64) int
	VFSRemove func(path string) int
	VFSRename func(oldPath, newPath string) int
	VFSTruncate func(handle uint64, length int64) int64

	// GetCurrentFramebuffer and GetProcAddress back the hardware-render
	// negotiation: the first returns the FBO the core must render into, the
	// second resolves GL symbols through the embedder's windowing layer.
	GetCurrentFramebuffer func() uintptr
	GetProcAddress func(sym string) uintptr

	MicOpen func(rate uint32) uint64
	MicClose func(handle uint64)
	MicGetParams func(handle uint64) (uint32, bool)
	MicSetState func(handle uint64, on bool) bool
	MicGetState func(handle uint64) bool
	MicRead func(handle uint64, dst []int16) int
}

var (
	ifaceMu sync.Mutex
	iface *InterfaceDispatcher
)

// InstallInterfaces registers d as the active optional-interface target.
func InstallInterfaces(d *InterfaceDispatcher) {
	ifaceMu.Lock()
	iface = d
	ifaceMu.Unlock()
}

// ClearInterfaces removes the active interface dispatcher.
func ClearInterfaces() {
	ifaceMu.Lock()
	iface = nil
	ifaceMu.Unlock()
}

func activeInterfaces() *InterfaceDispatcher {
	ifaceMu.Lock()
	defer ifaceMu.Unlock()
	return iface
}

// RumbleSetStatePtr, LogCallbackPtr and the VFS*Ptr functions return the C
// function pointers that fill the retro_rumble_interface,
// retro_log_callback and retro_vfs_interface structs runtime builds when
// answering the matching GET_*_INTERFACE environment calls.
func RumbleSetStatePtr() unsafe.Pointer { return C.rumble_set_state_ptr() }
func LogCallbackPtr() unsafe.Pointer { return C.log_callback_ptr() }

func VFSOpenPtr() unsafe.Pointer { return C.vfs_open_ptr() }
func VFSClosePtr() unsafe.Pointer { return C.vfs_close_ptr() }
func VFSSizePtr() unsafe.Pointer { return C.vfs_size_ptr() }
func VFSTellPtr() unsafe.Pointer { return C.vfs_tell_ptr() }
func VFSSeekPtr() unsafe.Pointer { return C.vfs_seek_ptr() }
func VFSReadPtr() unsafe.Pointer { return C.vfs_read_ptr() }
func VFSWritePtr() unsafe.Pointer { return C.vfs_write_ptr() }
func VFSFlushPtr() unsafe.Pointer { return C.vfs_flush_ptr() }
func VFSRemovePtr() unsafe.Pointer { return C.vfs_remove_ptr() }
func VFSRenamePtr() unsafe.Pointer { return C.vfs_rename_ptr() }
func VFSTruncatePtr() unsafe.Pointer { return C.vfs_truncate_ptr() }

func GetCurrentFramebufferPtr() unsafe.Pointer { return C.get_current_framebuffer_ptr() }
func GetProcAddressPtr() unsafe.Pointer { return C.get_proc_address_ptr() }

func MicOpenPtr() unsafe.Pointer { return C.mic_open_ptr() }
func MicClosePtr() unsafe.Pointer { return C.mic_close_ptr() }
func MicGetParamsPtr() unsafe.Pointer { return C.mic_get_params_ptr() }
func MicSetStatePtr() unsafe.Pointer { return C.mic_set_state_ptr() }
func MicGetStatePtr() unsafe.Pointer { return C.mic_get_state_ptr() }
func MicReadPtr() unsafe.Pointer { return C.mic_read_ptr() }

//export goRumbleSetState
func goRumbleSetState(port, effect C.uint, strength C.ushort) C.bool {
	d := activeInterfaces()
	if d == nil || d.RumbleSetState == nil {
		return false
	}
	return C.bool(d.RumbleSetState(uint32(port), uint32(effect), uint16(strength)))
}

//export goLogCallback
func goLogCallback(level C.uint, msg *C.char) {
	d := activeInterfaces()
	if d == nil || d.Log == nil {
		return
	}
	d.Log(uint32(level), C.GoString(msg))
}

//export goVFSOpen
func goVFSOpen(path *C.char, mode, hints C.uint) unsafe.Pointer {
	d := activeInterfaces()
	if d == nil || d.VFSOpen == nil {
		return nil
	}
	id := d.VFSOpen(C.GoString(path), uint32(mode), uint32(hints))
	if id == 0 {
		return nil
	}
	return unsafe.Pointer(uintptr(id))
}

//export goVFSClose
func goVFSClose(stream unsafe.Pointer) C.int {
	d := activeInterfaces()
	if d == nil || d.VFSClose == nil {
		return -1
	}
	return C.int(d.VFSClose(uint64(uintptr(stream))))
}

//export goVFSSize
func goVFSSize(stream unsafe.Pointer) C.int64_t {
	d := activeInterfaces()
	if d == nil || d.VFSSize == nil {
		return -1
	}
	return C.int64_t(d.VFSSize(uint64(uintptr(stream))))
}

//export goVFSTell
func goVFSTell(stream unsafe.Pointer) C.int64_t {
	d := activeInterfaces()
	if d == nil || d.VFSTell == nil {
		return -1
	}
	return C.int64_t(d.VFSTell(uint64(uintptr(stream))))
}

//export goVFSSeek
func goVFSSeek(stream unsafe.Pointer, offset C.int64_t, whence C.int) C.int64_t {
	d := activeInterfaces()
	if d == nil || d.VFSSeek == nil {
		return -1
	}
	return C.int64_t(d.VFSSeek(uint64(uintptr(stream)), int64(offset), int(whence)))
}

//export goVFSRead
func goVFSRead(stream unsafe.Pointer, buf unsafe.Pointer, length C.uint64_t) C.int64_t {
	d := activeInterfaces()
	if d == nil || d.VFSRead == nil || length == 0 {
		return 0
	}
	slice := unsafe.Slice((*byte)(buf), int(length))
	return C.int64_t(d.VFSRead(uint64(uintptr(stream)), slice))
}

//export goVFSWrite
func goVFSWrite(stream unsafe.Pointer, buf unsafe.Pointer, length C.uint64_t) C.int64_t {
	d := activeInterfaces()
	if d == nil || d.VFSWrite == nil || length == 0 {
		return 0
	}
	slice := unsafe.Slice((*byte)(buf), int(length))
	return C.int64_t(d.VFSWrite(uint64(uintptr(stream)), slice))
}

//export goVFSFlush
func goVFSFlush(stream unsafe.Pointer) C.int {
	d := activeInterfaces()
	if d == nil || d.VFSFlush == nil {
		return -1
	}
	return C.int(d.VFSFlush(uint64(uintptr(stream))))
}

//export goVFSRemove
func goVFSRemove(path *C.char) C.int {
	d := activeInterfaces()
	if d == nil || d.VFSRemove == nil {
		return -1
	}
	return C.int(d.VFSRemove(C.GoString(path)))
}

//export goVFSRename
func goVFSRename(oldPath, newPath *C.char) C.int {
	d := activeInterfaces()
	if d == nil || d.VFSRename == nil {
		return -1
	}
	return C.int(d.VFSRename(C.GoString(oldPath), C.GoString(newPath)))
}

//export goVFSTruncate
func goVFSTruncate(stream unsafe.Pointer, length C.int64_t) C.int64_t {
	d := activeInterfaces()
	if d == nil || d.VFSTruncate == nil {
		return -1
	}
	return C.int64_t(d.VFSTruncate(uint64(uintptr(stream)), int64(length)))
}

//export goGetCurrentFramebuffer
func goGetCurrentFramebuffer() C.uintptr_t {
	d := activeInterfaces()
	if d == nil || d.GetCurrentFramebuffer == nil {
		return 0
	}
	return C.uintptr_t(d.GetCurrentFramebuffer())
}

//export goGetProcAddress
func goGetProcAddress(sym *C.char) unsafe.Pointer {
	d := activeInterfaces()
	if d == nil || d.GetProcAddress == nil || sym == nil {
		return nil
	}
	return unsafe.Pointer(d.GetProcAddress(C.GoString(sym)))
}

//export goMicOpen
func goMicOpen(rate C.uint) unsafe.Pointer {
	d := activeInterfaces()
	if d == nil || d.MicOpen == nil {
		return nil
	}
	id := d.MicOpen(uint32(rate))
	if id == 0 {
		return nil
	}
	return unsafe.Pointer(uintptr(id))
}

//export goMicClose
func goMicClose(mic unsafe.Pointer) {
	d := activeInterfaces()
	if d == nil || d.MicClose == nil {
		return
	}
	d.MicClose(uint64(uintptr(mic)))
}

//export goMicGetParams
func goMicGetParams(mic unsafe.Pointer, rate *C.uint) C.bool {
	d := activeInterfaces()
	if d == nil || d.MicGetParams == nil {
		return false
	}
	r, ok := d.MicGetParams(uint64(uintptr(mic)))
	if !ok {
		return false
	}
	if rate != nil {
		*rate = C.uint(r)
	}
	return true
}

//export goMicSetState
func goMicSetState(mic unsafe.Pointer, state C.bool) C.bool {
	d := activeInterfaces()
	if d == nil || d.MicSetState == nil {
		return false
	}
	return C.bool(d.MicSetState(uint64(uintptr(mic)), bool(state)))
}

//export goMicGetState
func goMicGetState(mic unsafe.Pointer) C.bool {
	d := activeInterfaces()
	if d == nil || d.MicGetState == nil {
		return false
	}
	return C.bool(d.MicGetState(uint64(uintptr(mic))))
}

//export goMicRead
func goMicRead(mic, frames unsafe.Pointer, numFrames C.size_t) C.int {
	d := activeInterfaces()
	if d == nil || d.MicRead == nil || numFrames == 0 || frames == nil {
		return -1
	}
	dst := unsafe.Slice((*int16)(frames), int(numFrames))
	return C.int(d.MicRead(uint64(uintptr(mic)), dst))
}
