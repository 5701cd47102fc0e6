package runtime

/*
#include <stdint.h>
#include <stdbool.h>
#include <stdlib.h>
#include <string.h>

struct retro_variable {
	const char *key;
	const char *value;
};

struct retro_game_geometry {
	unsigned base_width;
	unsigned base_height;
	unsigned max_width;
	unsigned max_height;
	float aspect_ratio;
};

struct retro_hw_render_callback {
	unsigned context_type;
	void *context_reset;
	void *get_current_framebuffer;
	void *get_proc_address;
	bool depth;
	bool stencil;
	bool bottom_left_origin;
	unsigned version_major;
	unsigned version_minor;
	bool cache_context;
	void *context_destroy;
	bool debug_context;
};

struct retro_rumble_interface {
	void *set_rumble_state;
};

struct retro_log_callback {
	void *log;
};

struct retro_vfs_interface {
	void *get_path;
	void *open;
	void *close;
	void *size;
	void *tell;
	void *seek;
	void *read;
	void *write;
	void *flush;
	void *remove;
	void *rename;
	void *truncate;
};

struct retro_microphone_interface {
	unsigned interface_version;
	void *open_mic;
	void *close_mic;
	void *get_params;
	void *set_mic_state;
	void *get_mic_state;
	void *read_mic;
};

struct retro_controller_description {
	const char *desc;
	unsigned id;
};

struct retro_controller_info {
	const struct retro_controller_description *types;
	unsigned num_types;
};

struct retro_disk_control_callback {
	void *set_eject_state;
	void *get_eject_state;
	void *get_image_index;
	void *set_image_index;
	void *get_num_images;
	void *replace_image_index;
	void *add_image_index;
};

typedef bool (*retro_set_eject_state_t)(bool ejected);
typedef bool (*retro_get_eject_state_t)(void);
typedef unsigned (*retro_get_image_index_t)(void);
typedef bool (*retro_set_image_index_t)(unsigned index);
typedef unsigned (*retro_get_num_images_t)(void);
typedef bool (*retro_replace_image_index_t)(unsigned index, const char *path);

static bool call_set_eject_state(void *fn, bool ejected) { return ((retro_set_eject_state_t)fn)(ejected); }
static bool call_get_eject_state(void *fn) { return ((retro_get_eject_state_t)fn)(); }
static unsigned call_get_image_index(void *fn) { return ((retro_get_image_index_t)fn)(); }
static bool call_set_image_index(void *fn, unsigned index) { return ((retro_set_image_index_t)fn)(index); }
static unsigned call_get_num_images(void *fn) { return ((retro_get_num_images_t)fn)(); }
static bool call_replace_image_index(void *fn, unsigned index, const char *path) {
 return ((retro_replace_image_index_t)fn)(index, path);
}

typedef void (*void_fn_t)(void);
static void call_void_fn(void *fn) { ((void_fn_t)fn)(); }
*/
import "C"

import (
	"unsafe"

	"github.com/retrocore/hostruntime/corelib"
	"github.com/retrocore/hostruntime/environment"
)

// envTranslator turns the raw (cmd, data) pair corelib's Dispatcher.Environment
// hands us into calls on environment.Environment, building a RawCall for the
// plain-data commands and filling C vtable structs in place for the
// GET_*_INTERFACE commands that hand the core a set of host function
// pointers.
type envTranslator struct {
	rt *Runtime
}

func (t *envTranslator) handle(cmd uint32, data unsafe.Pointer) bool {
	env := t.rt.env
	switch environment.Command(cmd) {
	case environment.CmdGetCanDupe:
		var b bool
		ok := env.Handle(&environment.RawCall{Cmd: environment.CmdGetCanDupe, BoolOut: &b})
		if data != nil {
			*(*C.bool)(data) = C.bool(b)
		}
		return ok

	case environment.CmdGetSystemDirectory:
		var s string
		ok := env.Handle(&environment.RawCall{Cmd: environment.CmdGetSystemDirectory, StringOut: &s})
		if ok && data != nil {
			writeCString(data, s)
		}
		return ok

	case environment.CmdGetSaveDirectory:
		var s string
		ok := env.Handle(&environment.RawCall{Cmd: environment.CmdGetSaveDirectory, StringOut: &s})
		if ok && data != nil {
			writeCString(data, s)
		}
		return ok

	case environment.CmdSetPixelFormat:
		if data == nil {
			return false
		}
		pf := environment.PixelFormat(*(*C.uint)(data))
		return env.Handle(&environment.RawCall{Cmd: environment.CmdSetPixelFormat, PixelFormatIn: &pf})

	case environment.CmdSetHWRender:
		if data == nil {
			return false
		}
		return t.handleSetHWRender((*C.struct_retro_hw_render_callback)(data))

	case environment.CmdSetVariables:
		vars := readVariables(data)
		return env.Handle(&environment.RawCall{Cmd: environment.CmdSetVariables, VariablesIn: vars})

	case environment.CmdGetVariable:
		if data == nil {
			return false
		}
		v := (*C.struct_retro_variable)(data)
		key := C.GoString(v.key)
		var out string
		ok := env.Handle(&environment.RawCall{Cmd: environment.CmdGetVariable, VariableKeyIn: key, VariableValueOut: &out})
		if ok {
			v.value = C.CString(out) // leaked per call, matches the core-ABI convention of host-owned static/arena strings
		}
		return ok

	case environment.CmdGetVariableUpdate:
		var b bool
		ok := env.Handle(&environment.RawCall{Cmd: environment.CmdGetVariableUpdate, BoolOut: &b})
		if data != nil {
			*(*C.bool)(data) = C.bool(b)
		}
		return ok

	case environment.CmdSetSupportNoGame:
		return true

	case environment.CmdSetDiskControlInterface:
		if data == nil {
			return false
		}
		dc := t.wrapDiskControl((*C.struct_retro_disk_control_callback)(data))
		return env.Handle(&environment.RawCall{Cmd: environment.CmdSetDiskControlInterface, DiskControlIn: dc})

	case environment.CmdGetLogInterface:
		ok := env.Handle(&environment.RawCall{Cmd: environment.CmdGetLogInterface})
		if ok && data != nil {
			lc := (*C.struct_retro_log_callback)(data)
			lc.log = corelib.LogCallbackPtr()
		}
		return ok

	case environment.CmdGetRumbleInterface:
		ok := env.Handle(&environment.RawCall{Cmd: environment.CmdGetRumbleInterface})
		if ok && data != nil {
			ri := (*C.struct_retro_rumble_interface)(data)
			ri.set_rumble_state = corelib.RumbleSetStatePtr()
		}
		return ok

	case environment.CmdGetLanguage:
		var lang int
		ok := env.Handle(&environment.RawCall{Cmd: environment.CmdGetLanguage, LanguageOut: &lang})
		if data != nil {
			*(*C.uint)(data) = C.uint(lang)
		}
		return ok

	case environment.CmdGetVFSInterface:
		var version int
		ok := env.Handle(&environment.RawCall{Cmd: environment.CmdGetVFSInterface, VFSVersionOut: &version})
		if ok && data != nil {
			vi := (*C.struct_retro_vfs_interface)(data)
			vi.open = corelib.VFSOpenPtr()
			vi.close = corelib.VFSClosePtr()
			vi.size = corelib.VFSSizePtr()
			vi.tell = corelib.VFSTellPtr()
			vi.seek = corelib.VFSSeekPtr()
			vi.read = corelib.VFSReadPtr()
			vi.write = corelib.VFSWritePtr()
			vi.flush = corelib.VFSFlushPtr()
			vi.remove = corelib.VFSRemovePtr()
			vi.rename = corelib.VFSRenamePtr()
			vi.truncate = corelib.VFSTruncatePtr()
		}
		return ok

	case environment.CmdGetMicrophoneInterface:
		var has bool
		ok := env.Handle(&environment.RawCall{Cmd: environment.CmdGetMicrophoneInterface, MicInterfaceOut: &has})
		if ok && data != nil {
			mi := (*C.struct_retro_microphone_interface)(data)
			mi.interface_version = 1
			mi.open_mic = corelib.MicOpenPtr()
			mi.close_mic = corelib.MicClosePtr()
			mi.get_params = corelib.MicGetParamsPtr()
			mi.set_mic_state = corelib.MicSetStatePtr()
			mi.get_mic_state = corelib.MicGetStatePtr()
			mi.read_mic = corelib.MicReadPtr()
		}
		return ok

	case environment.CmdSetGeometry:
		if data == nil {
			return false
		}
		g := (*C.struct_retro_game_geometry)(data)
		geom := environment.GameGeometry{
			BaseWidth: uint32(g.base_width),
			BaseHeight: uint32(g.base_height),
			AspectRatio: float32(g.aspect_ratio),
		}
		return env.Handle(&environment.RawCall{Cmd: environment.CmdSetGeometry, GeometryIn: &geom})

	case environment.CmdSetRotation:
		if data == nil {
			return false
		}
		qt := uint32(*(*C.uint)(data))
		return env.Handle(&environment.RawCall{Cmd: environment.CmdSetRotation, RotationIn: &qt})

	case environment.CmdSetInputDescriptors, environment.CmdSetControllerInfo:
		descs := readControllerInfo(data)
		return env.Handle(&environment.RawCall{Cmd: environment.Command(cmd), ControllersIn: descs})

	default:
		return false
	}
}

func (t *envTranslator) handleSetHWRender(hw *C.struct_retro_hw_render_callback) bool {
	ctx := &environment.HwRenderContext{
		UseDepth: bool(hw.depth),
		UseStencil: bool(hw.stencil),
		BottomLeftOrigin: bool(hw.bottom_left_origin),
	}
	// The host fills its side of the negotiation in place: the FBO query
	// and GL symbol resolver the core calls while rendering.
	hw.get_current_framebuffer = corelib.GetCurrentFramebufferPtr()
	hw.get_proc_address = corelib.GetProcAddressPtr()
	if hw.context_reset != nil {
		fn := hw.context_reset
		ctx.OnContextReset = func() { C.call_void_fn(fn) }
	}
	if hw.context_destroy != nil {
		fn := hw.context_destroy
		ctx.OnContextDestroy = func() { C.call_void_fn(fn) }
	}
	if t.rt.cfg.GLProcAddress != nil {
		ctx.GetProcAddress = t.rt.cfg.GLProcAddress
	}
	return t.rt.env.Handle(&environment.RawCall{Cmd: environment.CmdSetHWRender, HWRenderIn: ctx})
}

func (t *envTranslator) wrapDiskControl(dc *C.struct_retro_disk_control_callback) *environment.DiskControlCallback {
	out := &environment.DiskControlCallback{}
	if dc.set_eject_state != nil {
		fn := dc.set_eject_state
		out.SetEjectState = func(ejected bool) bool { return bool(C.call_set_eject_state(fn, C.bool(ejected))) }
	}
	if dc.get_eject_state != nil {
		fn := dc.get_eject_state
		out.GetEjectState = func() bool { return bool(C.call_get_eject_state(fn)) }
	}
	if dc.get_image_index != nil {
		fn := dc.get_image_index
		out.GetImageIndex = func() uint32 { return uint32(C.call_get_image_index(fn)) }
	}
	if dc.set_image_index != nil {
		fn := dc.set_image_index
		out.SetImageIndex = func(index uint32) bool { return bool(C.call_set_image_index(fn, C.uint(index))) }
	}
	if dc.get_num_images != nil {
		fn := dc.get_num_images
		out.GetNumImages = func() uint32 { return uint32(C.call_get_num_images(fn)) }
	}
	if dc.replace_image_index != nil {
		fn := dc.replace_image_index
		out.ReplaceImage = func(index uint32, path string, meta bool) bool {
			cpath := C.CString(path)
			defer C.free(unsafe.Pointer(cpath))
			return bool(C.call_replace_image_index(fn, C.uint(index), cpath))
		}
	}
	return out
}

func writeCString(dst unsafe.Pointer, s string) {
	*(**C.char)(dst) = C.CString(s) // caller-owned, matches retro_get_*_directory's "host owns the string" convention
}

func readVariables(data unsafe.Pointer) []environment.Variable {
	if data == nil {
		return nil
	}
	var out []environment.Variable
	base := (*C.struct_retro_variable)(data)
	for i := 0; ; i++ {
		v := (*C.struct_retro_variable)(unsafe.Pointer(uintptr(unsafe.Pointer(base)) + uintptr(i)*unsafe.Sizeof(*base)))
		if v.key == nil {
			break
		}
		out = append(out, environment.Variable{
			Key: C.GoString(v.key),
			Description: C.GoString(v.value),
		})
	}
	return out
}

func readControllerInfo(data unsafe.Pointer) [][]environment.ControllerDescriptor {
	if data == nil {
		return nil
	}
	var out [][]environment.ControllerDescriptor
	base := (*C.struct_retro_controller_info)(data)
	for i := 0; ; i++ {
		ci := (*C.struct_retro_controller_info)(unsafe.Pointer(uintptr(unsafe.Pointer(base)) + uintptr(i)*unsafe.Sizeof(*base)))
		if ci.types == nil && ci.num_types == 0 {
			break
		}
		port := make([]environment.ControllerDescriptor, 0, int(ci.num_types))
		for j := 0; j < int(ci.num_types); j++ {
			d := (*C.struct_retro_controller_description)(unsafe.Pointer(
				uintptr(unsafe.Pointer(ci.types)) + uintptr(j)*unsafe.Sizeof(*ci.types)))
			port = append(port, environment.ControllerDescriptor{ID: uint32(d.id), Description: C.GoString(d.desc)})
		}
		out = append(out, port)
		if i > 64 {
			break // runaway guard against a malformed non-terminated array
		}
	}
	return out
}
