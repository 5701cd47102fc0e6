// Package vfs implements the core-ABI virtual filesystem interface
// (version 2): registered in-memory files are served by duplicating an
// already-open handle; everything else falls through to the native
// filesystem.
package vfs

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// VfsFile is a file the embedder has handed the runtime directly (e.g. a
// content URI already resolved to an fd). Go's *os.File plays the role the
// C interface splits across fd and FILE*.
type VfsFile struct {
	Path string
	File *os.File
	Size int64
}

// Handle is an open VFS file handle, returned to the core as an opaque
// pointer-sized id.
type Handle struct {
	id uint64
	file *os.File
	size int64
	origPath string
	owned bool // true if VFS opened this file and must Close it itself
}

const (
	modeRead = 0
	modeWrite = 1
	modeReadWrite = 2
)

// VFS is the process-wide VFS vtable backing implementation.
type VFS struct {
	mu sync.Mutex
	registry map[string]*VfsFile
	handles map[uint64]*Handle
	nextID uint64
}

// New constructs an empty VFS.
func New() *VFS {
	return &VFS{
		registry: make(map[string]*VfsFile),
		handles: make(map[uint64]*Handle),
	}
}

// Register makes path resolvable against an already-open file instead of
// the native filesystem; used for embedder-supplied virtual files.
func (v *VFS) Register(vf *VfsFile) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.registry[vf.Path] = vf
}

// Open implements the VFS vtable's open(path, mode, hints). If path
// matches a registered VfsFile, its fd is duplicated and reopened in
// binary read mode; otherwise the native filesystem is used directly.
func (v *VFS) Open(path string, mode int) (uint64, error) {
	v.mu.Lock()
	vf, registered := v.registry[path]
	v.mu.Unlock()

	if registered {
		dup, err := dupFile(vf.File)
		if err != nil {
			return 0, fmt.Errorf("vfs: dup registered file %q: %w", path, err)
		}
		return v.newHandle(dup, vf.Size, path, true), nil
	}

	flag := os.O_RDONLY
	switch mode {
	case modeWrite:
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case modeReadWrite:
		flag = os.O_RDWR | os.O_CREATE
	}
	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return 0, err
	}
	info, err := f.Stat()
	var size int64
	if err == nil {
		size = info.Size()
	}
	return v.newHandle(f, size, path, true), nil
}

func (v *VFS) newHandle(f *os.File, size int64, path string, owned bool) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nextID++
	id := v.nextID
	v.handles[id] = &Handle{id: id, file: f, size: size, origPath: path, owned: owned}
	return id
}

func (v *VFS) get(id uint64) (*Handle, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	h, ok := v.handles[id]
	return h, ok
}

// Close implements the VFS vtable's close(handle).
func (v *VFS) Close(id uint64) error {
	v.mu.Lock()
	h, ok := v.handles[id]
	if ok {
		delete(v.handles, id)
	}
	v.mu.Unlock()
	if !ok {
		return fmt.Errorf("vfs: unknown handle %d", id)
	}
	if h.owned {
		return h.file.Close()
	}
	return nil
}

// Size implements the VFS vtable's size(handle).
func (v *VFS) Size(id uint64) (int64, error) {
	h, ok := v.get(id)
	if !ok {
		return 0, fmt.Errorf("vfs: unknown handle %d", id)
	}
	return h.size, nil
}

// Tell implements the VFS vtable's tell(handle).
func (v *VFS) Tell(id uint64) (int64, error) {
	h, ok := v.get(id)
	if !ok {
		return 0, fmt.Errorf("vfs: unknown handle %d", id)
	}
	return h.file.Seek(0, io.SeekCurrent)
}

// Seek implements the VFS vtable's seek(handle, offset, whence).
func (v *VFS) Seek(id uint64, offset int64, whence int) (int64, error) {
	h, ok := v.get(id)
	if !ok {
		return 0, fmt.Errorf("vfs: unknown handle %d", id)
	}
	return h.file.Seek(offset, whence)
}

// Read implements the VFS vtable's read(handle, buf).
func (v *VFS) Read(id uint64, buf []byte) (int, error) {
	h, ok := v.get(id)
	if !ok {
		return 0, fmt.Errorf("vfs: unknown handle %d", id)
	}
	return h.file.Read(buf)
}

// Write implements the VFS vtable's write(handle, buf).
func (v *VFS) Write(id uint64, buf []byte) (int, error) {
	h, ok := v.get(id)
	if !ok {
		return 0, fmt.Errorf("vfs: unknown handle %d", id)
	}
	n, err := h.file.Write(buf)
	if pos, serr := h.file.Seek(0, io.SeekCurrent); serr == nil && pos > h.size {
		h.size = pos
	}
	return n, err
}

// Flush implements the VFS vtable's flush(handle).
func (v *VFS) Flush(id uint64) error {
	h, ok := v.get(id)
	if !ok {
		return fmt.Errorf("vfs: unknown handle %d", id)
	}
	return h.file.Sync()
}

// Remove implements the VFS vtable's remove(path); always delegates to the
// native filesystem, registered virtual files are not removable.
func (v *VFS) Remove(path string) error { return os.Remove(path) }

// Rename implements the VFS vtable's rename(oldPath, newPath).
func (v *VFS) Rename(oldPath, newPath string) error { return os.Rename(oldPath, newPath) }

// Truncate implements the VFS vtable's truncate(handle, length).
func (v *VFS) Truncate(id uint64, length int64) error {
	h, ok := v.get(id)
	if !ok {
		return fmt.Errorf("vfs: unknown handle %d", id)
	}
	if err := h.file.Truncate(length); err != nil {
		return err
	}
	h.size = length
	return nil
}

func dupFile(f *os.File) (*os.File, error) {
	fd, err := dupFD(int(f.Fd()))
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(fd), f.Name()), nil
}
