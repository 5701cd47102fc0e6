package runtime

import (
	"github.com/retrocore/hostruntime/audio"
	"github.com/retrocore/hostruntime/audio/microphone"
	"github.com/retrocore/hostruntime/environment"
)

// GLESVersion selects the GL context flavor a Renderer is built for.
type GLESVersion int

const (
	GLES2 GLESVersion = iota
	GLES3
	GLDesktop
)

// Config is the Runtime.Create argument bundle.
type Config struct {
	GLESVersion GLESVersion
	CorePath string
	SystemDir string
	SavesDir string
	Variables []environment.Variable
	ShaderConfig string // preset name, see video.Config.Preset
	RefreshRate float64
	LowLatencyAudio bool
	EnableVFS bool
	EnableMic bool
	SkipDupFrames bool
	Ambient bool
	Language string

	// GLProcAddress resolves a GL function name to its address; supplied by
	// the embedder's windowing layer (see devsurface) and forwarded into a
	// core's SET_HW_RENDER negotiation.
	GLProcAddress func(name string) uintptr

	// AudioDevice and MicDevice are the OS audio collaborators; nil selects
	// the null device (headless/test use).
	AudioDevice audio.OutputDevice
	MicDevice microphone.InputDevice

	// OnRefreshAspectRatio is invoked from Step after the core changes its
	// geometry or rotation, so the embedder can recompute its own layout.
	OnRefreshAspectRatio func()

	// OnRumbleEvent receives normalized per-port (weak, strong) rumble
	// transitions while rumble delivery is enabled.
	OnRumbleEvent func(port int, weak, strong float32)
}
