package corelib

/*
#include <stdint.h>
#include <stdlib.h>
#include <string.h>

// Minimal re-statement of the subset of the core ABI this host calls
// through. These mirror the well-known retro_* function pointer shapes; the
// full struct layouts (retro_system_info, retro_system_av_info,...) are
// opaque byte blobs from Go's point of view and get interpreted by the
// runtime package through C struct overlays, not here.

typedef void (*retro_init_t)(void);
typedef void (*retro_deinit_t)(void);
typedef unsigned (*retro_api_version_t)(void);
typedef void (*retro_get_system_info_t)(void *info);
typedef void (*retro_get_system_av_info_t)(void *info);
typedef void (*retro_set_controller_port_device_t)(unsigned port, unsigned device);
typedef void (*retro_reset_t)(void);
typedef void (*retro_run_t)(void);
typedef size_t (*retro_serialize_size_t)(void);
typedef int (*retro_serialize_t)(void *data, size_t size);
typedef int (*retro_unserialize_t)(const void *data, size_t size);
typedef void (*retro_cheat_reset_t)(void);
typedef void (*retro_cheat_set_t)(unsigned index, int enabled, const char *code);
typedef size_t (*retro_get_memory_size_t)(unsigned id);
typedef void *(*retro_get_memory_data_t)(unsigned id);
typedef int (*retro_load_game_t)(const void *game);
typedef void (*retro_unload_game_t)(void);
typedef void (*retro_set_environment_t)(void *cb);
typedef void (*retro_set_video_refresh_t)(void *cb);
typedef void (*retro_set_audio_sample_t)(void *cb);
typedef void (*retro_set_audio_sample_batch_t)(void *cb);
typedef void (*retro_set_input_poll_t)(void *cb);
typedef void (*retro_set_input_state_t)(void *cb);

static void call_retro_init(void *fn) { ((retro_init_t)fn)(); }
static void call_retro_deinit(void *fn) { ((retro_deinit_t)fn)(); }
static unsigned call_retro_api_version(void *fn) { return ((retro_api_version_t)fn)(); }
static void call_retro_get_system_info(void *fn, void *info) { ((retro_get_system_info_t)fn)(info); }
static void call_retro_get_system_av_info(void *fn, void *info) { ((retro_get_system_av_info_t)fn)(info); }
static void call_retro_set_controller_port_device(void *fn, unsigned port, unsigned device) {
 ((retro_set_controller_port_device_t)fn)(port, device);
}
static void call_retro_reset(void *fn) { ((retro_reset_t)fn)(); }
static void call_retro_run(void *fn) { ((retro_run_t)fn)(); }
static size_t call_retro_serialize_size(void *fn) { return ((retro_serialize_size_t)fn)(); }
static int call_retro_serialize(void *fn, void *data, size_t size) { return ((retro_serialize_t)fn)(data, size); }
static int call_retro_unserialize(void *fn, const void *data, size_t size) { return ((retro_unserialize_t)fn)(data, size); }
static void call_retro_cheat_reset(void *fn) { ((retro_cheat_reset_t)fn)(); }
static void call_retro_cheat_set(void *fn, unsigned index, int enabled, const char *code) {
 ((retro_cheat_set_t)fn)(index, enabled, code);
}
static size_t call_retro_get_memory_size(void *fn, unsigned id) { return ((retro_get_memory_size_t)fn)(id); }
static void *call_retro_get_memory_data(void *fn, unsigned id) { return ((retro_get_memory_data_t)fn)(id); }
static int call_retro_load_game(void *fn, const void *game) { return ((retro_load_game_t)fn)(game); }
static void call_retro_unload_game(void *fn) { ((retro_unload_game_t)fn)(); }
static void call_retro_set_environment(void *fn, void *cb) { ((retro_set_environment_t)fn)(cb); }
static void call_retro_set_video_refresh(void *fn, void *cb) { ((retro_set_video_refresh_t)fn)(cb); }
static void call_retro_set_audio_sample(void *fn, void *cb) { ((retro_set_audio_sample_t)fn)(cb); }
static void call_retro_set_audio_sample_batch(void *fn, void *cb) { ((retro_set_audio_sample_batch_t)fn)(cb); }
static void call_retro_set_input_poll(void *fn, void *cb) { ((retro_set_input_poll_t)fn)(cb); }
static void call_retro_set_input_state(void *fn, void *cb) { ((retro_set_input_state_t)fn)(cb); }
*/
import "C"

import "unsafe"

// ABI exposes the bound symbols as typed Go methods, so every other package
// in this module calls retro_* functions through Go signatures. Methods that
// exchange C structs, memory regions or callback addresses (GetSystemInfo,
// GetSystemAVInfo, GetMemoryData, LoadGame, the Set* callback setters) still
// take or return unsafe.Pointer.
type ABI struct {
	syms *Symbols
}

// NewABI wraps a Core's bound symbols.
func NewABI(c *Core) *ABI {
	return &ABI{syms: c.Symbols()}
}

func (a *ABI) Init() { C.call_retro_init(a.syms.Addr("retro_init")) }
func (a *ABI) Deinit() { C.call_retro_deinit(a.syms.Addr("retro_deinit")) }

func (a *ABI) APIVersion() uint32 {
	return uint32(C.call_retro_api_version(a.syms.Addr("retro_api_version")))
}

// GetSystemInfo fills a caller-provided C-layout buffer; runtime owns the
// struct overlay for retro_system_info.
func (a *ABI) GetSystemInfo(info unsafe.Pointer) {
	C.call_retro_get_system_info(a.syms.Addr("retro_get_system_info"), info)
}

func (a *ABI) GetSystemAVInfo(info unsafe.Pointer) {
	C.call_retro_get_system_av_info(a.syms.Addr("retro_get_system_av_info"), info)
}

func (a *ABI) SetControllerPortDevice(port, device uint32) {
	C.call_retro_set_controller_port_device(a.syms.Addr("retro_set_controller_port_device"), C.unsigned(port), C.unsigned(device))
}

func (a *ABI) Reset() { C.call_retro_reset(a.syms.Addr("retro_reset")) }
func (a *ABI) Run() { C.call_retro_run(a.syms.Addr("retro_run")) }

func (a *ABI) SerializeSize() uint {
	return uint(C.call_retro_serialize_size(a.syms.Addr("retro_serialize_size")))
}

func (a *ABI) Serialize(buf []byte) bool {
	if len(buf) == 0 {
		return C.call_retro_serialize(a.syms.Addr("retro_serialize"), nil, 0) != 0
	}
	return C.call_retro_serialize(a.syms.Addr("retro_serialize"), unsafe.Pointer(&buf[0]), C.size_t(len(buf))) != 0
}

func (a *ABI) Unserialize(buf []byte) bool {
	if len(buf) == 0 {
		return C.call_retro_unserialize(a.syms.Addr("retro_unserialize"), nil, 0) != 0
	}
	return C.call_retro_unserialize(a.syms.Addr("retro_unserialize"), unsafe.Pointer(&buf[0]), C.size_t(len(buf))) != 0
}

func (a *ABI) CheatReset() { C.call_retro_cheat_reset(a.syms.Addr("retro_cheat_reset")) }

func (a *ABI) CheatSet(index uint32, enabled bool, code string) {
	ccode := C.CString(code)
	defer C.free(unsafe.Pointer(ccode))
	cenabled := C.int(0)
	if enabled {
		cenabled = 1
	}
	C.call_retro_cheat_set(a.syms.Addr("retro_cheat_set"), C.unsigned(index), cenabled, ccode)
}

func (a *ABI) GetMemorySize(id uint32) uint {
	return uint(C.call_retro_get_memory_size(a.syms.Addr("retro_get_memory_size"), C.unsigned(id)))
}

func (a *ABI) GetMemoryData(id uint32) unsafe.Pointer {
	return C.call_retro_get_memory_data(a.syms.Addr("retro_get_memory_data"), C.unsigned(id))
}

func (a *ABI) LoadGame(game unsafe.Pointer) bool {
	return C.call_retro_load_game(a.syms.Addr("retro_load_game"), game) != 0
}

func (a *ABI) UnloadGame() { C.call_retro_unload_game(a.syms.Addr("retro_unload_game")) }

func (a *ABI) SetEnvironment(cb unsafe.Pointer) {
	C.call_retro_set_environment(a.syms.Addr("retro_set_environment"), cb)
}
func (a *ABI) SetVideoRefresh(cb unsafe.Pointer) {
	C.call_retro_set_video_refresh(a.syms.Addr("retro_set_video_refresh"), cb)
}
func (a *ABI) SetAudioSample(cb unsafe.Pointer) {
	C.call_retro_set_audio_sample(a.syms.Addr("retro_set_audio_sample"), cb)
}
func (a *ABI) SetAudioSampleBatch(cb unsafe.Pointer) {
	C.call_retro_set_audio_sample_batch(a.syms.Addr("retro_set_audio_sample_batch"), cb)
}
func (a *ABI) SetInputPoll(cb unsafe.Pointer) {
	C.call_retro_set_input_poll(a.syms.Addr("retro_set_input_poll"), cb)
}
func (a *ABI) SetInputState(cb unsafe.Pointer) {
	C.call_retro_set_input_state(a.syms.Addr("retro_set_input_state"), cb)
}

// MemoryRegionID mirrors the well-known RETRO_MEMORY_* ids used by
// GetMemorySize/GetMemoryData.
type MemoryRegionID uint32

const (
	MemorySaveRAM MemoryRegionID = 0
	MemoryRTC MemoryRegionID = 1
	MemorySystemRAM MemoryRegionID = 2
	MemoryVideoRAM MemoryRegionID = 3
)
