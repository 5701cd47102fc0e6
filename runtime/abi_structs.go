package runtime

/*
#include <stdint.h>
#include <stdbool.h>
#include <stdlib.h>
#include <string.h>

// Byte-exact layouts of the core-ABI structs this host must overlay.
// corelib treats these as opaque blobs (see corelib/abi.go); this package
// is where they get interpreted, per that file's doc comment.

struct retro_system_info {
	const char *library_name;
	const char *library_version;
	const char *valid_extensions;
	bool need_fullpath;
	bool block_extract;
};

struct retro_game_geometry {
	unsigned base_width;
	unsigned base_height;
	unsigned max_width;
	unsigned max_height;
	float aspect_ratio;
};

struct retro_system_timing {
	double fps;
	double sample_rate;
};

struct retro_system_av_info {
	struct retro_game_geometry geometry;
	struct retro_system_timing timing;
};

struct retro_game_info {
	const char *path;
	const void *data;
	size_t size;
	const char *meta;
};

static void alloc_system_info(struct retro_system_info **out) {
	*out = (struct retro_system_info *)calloc(1, sizeof(struct retro_system_info));
}

static void alloc_av_info(struct retro_system_av_info **out) {
	*out = (struct retro_system_av_info *)calloc(1, sizeof(struct retro_system_av_info));
}

static void fill_game_info(struct retro_game_info *gi, const char *path, const void *data, size_t size) {
	gi->path = path;
	gi->data = data;
	gi->size = size;
	gi->meta = NULL;
}
*/
import "C"

import (
	"unsafe"
)

// systemInfo is the Go-side view of retro_get_system_info's output.
type systemInfo struct {
	LibraryName    string
	LibraryVersion string
	ValidExtensions string
	NeedFullpath   bool
	BlockExtract   bool
}

// avInfo is the Go-side view of retro_get_system_av_info's output.
type avInfo struct {
	BaseWidth, BaseHeight, MaxWidth, MaxHeight uint32
	AspectRatio                                float32
	FPS, SampleRate                            float64
}

func readSystemInfo(abi abiGetter) systemInfo {
	var cinfo *C.struct_retro_system_info
	C.alloc_system_info(&cinfo)
	defer C.free(unsafe.Pointer(cinfo))
	abi.GetSystemInfo(unsafe.Pointer(cinfo))

	return systemInfo{
		LibraryName:     cGoString(cinfo.library_name),
		LibraryVersion:  cGoString(cinfo.library_version),
		ValidExtensions: cGoString(cinfo.valid_extensions),
		NeedFullpath:    bool(cinfo.need_fullpath),
		BlockExtract:    bool(cinfo.block_extract),
	}
}

func readAVInfo(abi abiGetter) avInfo {
	var cinfo *C.struct_retro_system_av_info
	C.alloc_av_info(&cinfo)
	defer C.free(unsafe.Pointer(cinfo))
	abi.GetSystemAVInfo(unsafe.Pointer(cinfo))

	return avInfo{
		BaseWidth:   uint32(cinfo.geometry.base_width),
		BaseHeight:  uint32(cinfo.geometry.base_height),
		MaxWidth:    uint32(cinfo.geometry.max_width),
		MaxHeight:   uint32(cinfo.geometry.max_height),
		AspectRatio: float32(cinfo.geometry.aspect_ratio),
		FPS:         float64(cinfo.timing.fps),
		SampleRate:  float64(cinfo.timing.sample_rate),
	}
}

// buildGameInfo constructs a retro_game_info blob for retro_load_game. The
// returned free func must be called once the core's LoadGame call returns.
func buildGameInfo(path string, data []byte) (ptr unsafe.Pointer, free func()) {
	var cpath *C.char
	if path != "" {
		cpath = C.CString(path)
	}
	var cdata unsafe.Pointer
	if len(data) > 0 {
		cdata = C.CBytes(data)
	}
	gi := (*C.struct_retro_game_info)(C.calloc(1, C.size_t(unsafe.Sizeof(C.struct_retro_game_info{}))))
	C.fill_game_info(gi, cpath, cdata, C.size_t(len(data)))

	return unsafe.Pointer(gi), func() {
		if cpath != nil {
			C.free(unsafe.Pointer(cpath))
		}
		if cdata != nil {
			C.free(cdata)
		}
		C.free(unsafe.Pointer(gi))
	}
}

func cGoString(s *C.char) string {
	if s == nil {
		return ""
	}
	return C.GoString(s)
}

// abiGetter is the narrow slice of corelib.ABI this file needs, so tests
// can substitute a fake without linking the real cgo core loader.
type abiGetter interface {
	GetSystemInfo(unsafe.Pointer)
	GetSystemAVInfo(unsafe.Pointer)
}
