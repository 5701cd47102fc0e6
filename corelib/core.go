// Package corelib dlopens a core shared object implementing the core ABI
// and binds its fixed symbol table to Go function values.
//
// The C preamble only carries the small helpers Go can't express directly
// (calling a function pointer obtained at runtime); everything else goes
// through dlopen/dlsym/dlclose.
package corelib

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>

static void *core_dlopen(const char *path) {
 return dlopen(path, RTLD_NOW | RTLD_LOCAL);
}

static void *core_dlsym(void *handle, const char *name) {
 return dlsym(handle, name);
}

static int core_dlclose(void *handle) {
 return dlclose(handle);
}
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"
)

// requiredSymbols is the fixed set of exports a core must provide. A
// missing symbol is fatal.
var requiredSymbols = []string{
	"retro_init",
	"retro_deinit",
	"retro_api_version",
	"retro_get_system_info",
	"retro_get_system_av_info",
	"retro_set_controller_port_device",
	"retro_reset",
	"retro_run",
	"retro_serialize_size",
	"retro_serialize",
	"retro_unserialize",
	"retro_cheat_reset",
	"retro_cheat_set",
	"retro_get_memory_size",
	"retro_get_memory_data",
	"retro_load_game",
	"retro_unload_game",
	"retro_set_video_refresh",
	"retro_set_environment",
	"retro_set_audio_sample",
	"retro_set_audio_sample_batch",
	"retro_set_input_poll",
	"retro_set_input_state",
}

// Symbols is the flat struct of bound function-pointer addresses. Symbols
// itself does not know the C signatures beyond their address; ABI (abi.go)
// casts these through cgo call shims with the correct argument types.
type Symbols struct {
	addrs map[string]unsafe.Pointer
}

// Addr returns the bound address for a required symbol. Panics if name was
// not in requiredSymbols — that is a programmer error in the caller, not a
// runtime condition, since Open already validated the full set.
func (s *Symbols) Addr(name string) unsafe.Pointer {
	addr, ok := s.addrs[name]
	if !ok {
		panic(fmt.Sprintf("corelib: symbol %q was never requested from Open", name))
	}
	return addr
}

// Core is a loaded, symbol-bound core shared object.
type Core struct {
	mu sync.Mutex
	handle unsafe.Pointer
	path string
	syms *Symbols
}

// LoadLibraryError reports that dlopen or symbol binding failed; callers
// map this to the runtime's typed LoadLibrary error.
type LoadLibraryError struct {
	Path string
	Msg string
}

func (e *LoadLibraryError) Error() string {
	return fmt.Sprintf("corelib: failed to load %q: %s", e.Path, e.Msg)
}

// Open dlopens the shared object at path and binds every symbol in
// requiredSymbols. A missing symbol closes the handle and returns
// LoadLibraryError.
func Open(path string) (*Core, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	handle := C.core_dlopen(cpath)
	if handle == nil {
		return nil, &LoadLibraryError{Path: path, Msg: "dlopen failed"}
	}

	syms := &Symbols{addrs: make(map[string]unsafe.Pointer, len(requiredSymbols))}
	for _, name := range requiredSymbols {
		cname := C.CString(name)
		addr := C.core_dlsym(handle, cname)
		C.free(unsafe.Pointer(cname))
		if addr == nil {
			C.core_dlclose(handle)
			return nil, &LoadLibraryError{Path: path, Msg: fmt.Sprintf("missing symbol %q", name)}
		}
		syms.addrs[name] = unsafe.Pointer(addr)
	}

	return &Core{handle: handle, path: path, syms: syms}, nil
}

// Symbols returns the bound symbol table.
func (c *Core) Symbols() *Symbols {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.syms
}

// Path returns the shared-object path this Core was opened from.
func (c *Core) Path() string {
	return c.path
}

// Close idempotently unloads the core's shared object handle.
func (c *Core) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == nil {
		return nil
	}
	if C.core_dlclose(c.handle) != 0 {
		return fmt.Errorf("corelib: dlclose failed for %q", c.path)
	}
	c.handle = nil
	c.syms = nil
	return nil
}
