package vfs

import "syscall"

// dupFD duplicates a file descriptor via the dup(2) syscall, matching
// "dup its fd" registered-file open path.
func dupFD(fd int) (int, error) {
	return syscall.Dup(fd)
}
