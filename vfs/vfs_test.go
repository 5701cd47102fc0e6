package vfs

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRegisteredFileDupsAndReads(t *testing.T) {
	tmp, err := os.CreateTemp(t.TempDir(), "vfs-reg-*")
	require.NoError(t, err)
	_, err = tmp.WriteString("hello")
	require.NoError(t, err)
	require.NoError(t, tmp.Sync())
	_, err = tmp.Seek(0, 0)
	require.NoError(t, err)

	v := New()
	v.Register(&VfsFile{Path: "game.rom", File: tmp, Size: 5})

	id, err := v.Open("game.rom", modeRead)
	require.NoError(t, err)

	size, err := v.Size(id)
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	buf := make([]byte, 5)
	n, err := v.Read(id, buf)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(buf))

	require.NoError(t, v.Close(id))

	// Original still usable: Close on the dup must not close the original fd.
	_, err = tmp.Seek(0, 0)
	assert.NoError(t, err)
}

func TestOpenNativeFallbackForUnregisteredPath(t *testing.T) {
	path := t.TempDir() + "/native.sav"
	v := New()

	id, err := v.Open(path, modeReadWrite)
	require.NoError(t, err)
	n, err := v.Write(id, []byte("state"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	require.NoError(t, v.Flush(id))
	require.NoError(t, v.Close(id))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "state", string(data))
}

func TestCloseUnknownHandleErrors(t *testing.T) {
	v := New()
	err := v.Close(12345)
	assert.Error(t, err)
}
