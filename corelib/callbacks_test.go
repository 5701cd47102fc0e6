package corelib

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherRoutesEnvironmentCallback(t *testing.T) {
	var gotCmd uint32
	Install(&Dispatcher{
		Environment: func(cmd uint32, data unsafe.Pointer) bool {
			gotCmd = cmd
			return true
		},
	})
	defer Clear()

	ok := goEnvironmentCallback(7, nil)
	assert.Equal(t, int32(1), int32(ok))
	assert.Equal(t, uint32(7), gotCmd)
}

func TestNoDispatcherInstalledReturnsZeroValue(t *testing.T) {
	Clear()
	ok := goEnvironmentCallback(1, nil)
	assert.Equal(t, int32(0), int32(ok))

	n := goAudioSampleBatchCallback(nil, 10)
	assert.Equal(t, uint64(0), uint64(n))
}

func TestInputStateCallbackRoutesAllFields(t *testing.T) {
	var gotPort, gotDevice, gotIndex, gotID uint32
	Install(&Dispatcher{
		InputState: func(port, device, index, id uint32) int16 {
			gotPort, gotDevice, gotIndex, gotID = port, device, index, id
			return 42
		},
	})
	defer Clear()

	v := goInputStateCallback(1, 2, 3, 4)
	assert.Equal(t, int16(42), int16(v))
	assert.Equal(t, uint32(1), gotPort)
	assert.Equal(t, uint32(2), gotDevice)
	assert.Equal(t, uint32(3), gotIndex)
	assert.Equal(t, uint32(4), gotID)
}

func TestMicCallbacksRouteThroughInterfaces(t *testing.T) {
	var openedRate uint32
	var readHandle uint64
	InstallInterfaces(&InterfaceDispatcher{
		MicOpen: func(rate uint32) uint64 {
			openedRate = rate
			return 1
		},
		MicGetState: func(handle uint64) bool { return handle == 1 },
		MicRead: func(handle uint64, dst []int16) int {
			readHandle = handle
			for i := range dst {
				dst[i] = 7
			}
			return len(dst)
		},
	})
	defer ClearInterfaces()

	mic := goMicOpen(48000)
	assert.NotNil(t, mic)
	assert.Equal(t, uint32(48000), openedRate)
	assert.True(t, bool(goMicGetState(mic)))

	var buf [4]int16
	n := goMicRead(mic, unsafe.Pointer(&buf[0]), 4)
	assert.Equal(t, int32(4), int32(n))
	assert.Equal(t, uint64(1), readHandle)
	assert.Equal(t, int16(7), buf[0])
}
