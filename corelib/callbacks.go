package corelib

/*
#include <stddef.h>

extern int goEnvironmentCallback(unsigned cmd, void *data);
extern void goVideoRefreshCallback(void *data, unsigned width, unsigned height, size_t pitch);
extern void goAudioSampleCallback(short left, short right);
extern size_t goAudioSampleBatchCallback(short *data, size_t frames);
extern void goInputPollCallback(void);
extern short goInputStateCallback(unsigned port, unsigned device, unsigned index, unsigned id);

static void *environment_callback_ptr(void) { return (void *)goEnvironmentCallback; }
static void *video_refresh_callback_ptr(void) { return (void *)goVideoRefreshCallback; }
static void *audio_sample_callback_ptr(void) { return (void *)goAudioSampleCallback; }
static void *audio_sample_batch_callback_ptr(void) { return (void *)goAudioSampleBatchCallback; }
static void *input_poll_callback_ptr(void) { return (void *)goInputPollCallback; }
static void *input_state_callback_ptr(void) { return (void *)goInputStateCallback; }
*/
import "C"

import (
	"sync"
	"unsafe"
)

// Dispatcher routes the core's six callbacks to the runtime package. The
// core ABI gives none of these callbacks a user-data pointer (same
// constraint environment.Environment documents), so exactly one Dispatcher
// can be installed at a time, matching the "one active core per process"
// model assumes.
type Dispatcher struct {
	Environment func(cmd uint32, data unsafe.Pointer) bool
	VideoRefresh func(data unsafe.Pointer, width, height uint32, pitch uintptr)
	AudioSample func(left, right int16)
	AudioSampleBatch func(data unsafe.Pointer, frames uintptr) uintptr
	InputPoll func()
	InputState func(port, device, index uint32, id uint32) int16
}

var (
	dispatchMu sync.Mutex
	dispatch *Dispatcher
)

// Install registers d as the active callback target. Only the core thread
// calls Install/Clear, around create/destroy.
func Install(d *Dispatcher) {
	dispatchMu.Lock()
	dispatch = d
	dispatchMu.Unlock()
}

// Clear removes the active dispatcher, e.g. on destroy.
func Clear() {
	dispatchMu.Lock()
	dispatch = nil
	dispatchMu.Unlock()
}

func active() *Dispatcher {
	dispatchMu.Lock()
	defer dispatchMu.Unlock()
	return dispatch
}

// EnvironmentPtr returns the C function pointer to hand retro_set_environment.
func EnvironmentPtr() unsafe.Pointer { return C.environment_callback_ptr() }

// VideoRefreshPtr returns the C function pointer to hand retro_set_video_refresh.
func VideoRefreshPtr() unsafe.Pointer { return C.video_refresh_callback_ptr() }

// AudioSamplePtr returns the C function pointer to hand retro_set_audio_sample.
func AudioSamplePtr() unsafe.Pointer { return C.audio_sample_callback_ptr() }

// AudioSampleBatchPtr returns the C function pointer to hand retro_set_audio_sample_batch.
func AudioSampleBatchPtr() unsafe.Pointer { return C.audio_sample_batch_callback_ptr() }

// InputPollPtr returns the C function pointer to hand retro_set_input_poll.
func InputPollPtr() unsafe.Pointer { return C.input_poll_callback_ptr() }

// InputStatePtr returns the C function pointer to hand retro_set_input_state.
func InputStatePtr() unsafe.Pointer { return C.input_state_callback_ptr() }

//export goEnvironmentCallback
func goEnvironmentCallback(cmd C.uint, data unsafe.Pointer) C.int {
	d := active()
	if d == nil || d.Environment == nil {
		return 0
	}
	if d.Environment(uint32(cmd), data) {
		return 1
	}
	return 0
}

//export goVideoRefreshCallback
func goVideoRefreshCallback(data unsafe.Pointer, width, height C.unsigned, pitch C.size_t) {
	d := active()
	if d == nil || d.VideoRefresh == nil {
		return
	}
	d.VideoRefresh(data, uint32(width), uint32(height), uintptr(pitch))
}

//export goAudioSampleCallback
func goAudioSampleCallback(left, right C.short) {
	d := active()
	if d == nil || d.AudioSample == nil {
		return
	}
	d.AudioSample(int16(left), int16(right))
}

//export goAudioSampleBatchCallback
func goAudioSampleBatchCallback(data *C.short, frames C.size_t) C.size_t {
	d := active()
	if d == nil || d.AudioSampleBatch == nil {
		return 0
	}
	n := d.AudioSampleBatch(unsafe.Pointer(data), uintptr(frames))
	return C.size_t(n)
}

//export goInputPollCallback
func goInputPollCallback() {
	d := active()
	if d == nil || d.InputPoll == nil {
		return
	}
	d.InputPoll()
}

//export goInputStateCallback
func goInputStateCallback(port, device, index, id C.unsigned) C.short {
	d := active()
	if d == nil || d.InputState == nil {
		return 0
	}
	return C.short(d.InputState(uint32(port), uint32(device), uint32(index), uint32(id)))
}
