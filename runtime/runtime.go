// Package runtime is the embedder-facing façade: it owns a
// loaded core, the negotiated Environment, and every device-facing
// collaborator (Video, Audio, Input, VFS, Rumble, FPSSync), and drives them
// through the Uninit -> Created -> GameLoaded <-> Running <-> Paused ->
// Destroyed lifecycle.
package runtime

import (
	"log"
	"sync"
	"time"
	"unsafe"

	"github.com/retrocore/hostruntime/audio"
	"github.com/retrocore/hostruntime/audio/microphone"
	"github.com/retrocore/hostruntime/corelib"
	"github.com/retrocore/hostruntime/environment"
	"github.com/retrocore/hostruntime/fpssync"
	"github.com/retrocore/hostruntime/input"
	"github.com/retrocore/hostruntime/rumble"
	"github.com/retrocore/hostruntime/vfs"
	"github.com/retrocore/hostruntime/video"
)

// Runtime is the single active core-host instance for this process. The
// core ABI's callback-with-no-userdata constraint (documented in
// environment.Environment and corelib.Dispatcher) means only one Runtime
// can be Running at a time. Create checks only this Runtime's own state; it
// does not detect another live Runtime.
type Runtime struct {
	state State
	cfg   Config

	// runMu serializes every call into the core: retro_run, retro_serialize,
	// retro_unserialize, retro_cheat_*, retro_reset, retro_load_game and
	// retro_unload_game are mutually exclusive under it.
	runMu sync.Mutex

	core *corelib.Core
	abi *corelib.ABI
	env *environment.Environment

	fps *fpssync.FPSSync
	aud *audio.Audio
	vid *video.Video
	in *input.Input
	vfsys *vfs.VFS
	rum *rumble.Bridge
	mic *microphone.Microphone

	av avInfo

	micOpen   bool
	micActive bool

	translator *envTranslator
}

// New constructs an unstarted Runtime. Create must be called before any
// other operation.
func New() *Runtime {
	return &Runtime{state: StateUninit}
}

func (r *Runtime) requireState(op string, allowed ...State) error {
	for _, s := range allowed {
		if r.state == s {
			return nil
		}
	}
	return invalidState(op, r.state)
}

// Create loads the core shared object, negotiates its environment, and
// wires every collaborator. On success the Runtime is in StateCreated.
func (r *Runtime) Create(cfg Config) error {
	if err := r.requireState("Create", StateUninit); err != nil {
		return err
	}

	core, err := corelib.Open(cfg.CorePath)
	if err != nil {
		return newError(ErrCodeLoadLibrary, "%v", err)
	}

	r.cfg = cfg
	r.core = core
	r.abi = corelib.NewABI(core)
	r.env = environment.Reset(cfg.SystemDir, cfg.SavesDir, cfg.EnableVFS, cfg.EnableMic, cfg.Language)
	r.env.SetLogFunc(func(level int, format string, args ...any) {
		log.Printf("[%s] "+format, append([]any{logLevelName(level)}, args...)...)
	})
	r.env.ApplyOverrides(overridesFrom(cfg.Variables))

	r.in = input.New()
	if cfg.EnableVFS {
		r.vfsys = vfs.New()
	}

	device := cfg.AudioDevice
	if device == nil {
		device = audio.NullOutputDevice{}
	}
	r.aud = audio.New(audio.Config{
		SampleRate: 44100,
		OutputSampleRate: 44100,
		LowLatency: cfg.LowLatencyAudio,
	}, device)

	if cfg.EnableMic {
		micDevice := cfg.MicDevice
		if micDevice == nil {
			micDevice = microphone.NullInputDevice{}
		}
		r.mic = microphone.New(44100, micDevice)
	}

	sink := cfg.OnRumbleEvent
	if sink == nil {
		sink = func(port int, weak, strong float32) {}
	}
	r.rum = rumble.New(r.env, sink)

	r.translator = &envTranslator{rt: r}

	// The core ABI requires every callback to be registered before
	// retro_init: cores negotiate pixel format, HW render and variables
	// from inside retro_init/retro_load_game, both of which run before any
	// surface exists. Audio is already built above; the video callbacks
	// tolerate Video, which appears later, being nil until then.
	r.installDispatchers()

	r.abi.Init()
	info := readSystemInfo(r.abi)
	r.env.Log(0, "runtime: loaded core %s %s", info.LibraryName, info.LibraryVersion)

	r.state = StateCreated
	return nil
}

// logLevelName maps core-ABI log levels (0=debug..3=error) to printable
// names.
func logLevelName(level int) string {
	switch level {
	case 0:
		return "debug"
	case 1:
		return "info"
	case 2:
		return "warn"
	case 3:
		return "error"
	default:
		return "log"
	}
}

func overridesFrom(vars []environment.Variable) map[string]string {
	out := make(map[string]string, len(vars))
	for _, v := range vars {
		out[v.Key] = v.Value
	}
	return out
}

func (r *Runtime) installDispatchers() {
	corelib.Install(&corelib.Dispatcher{
		Environment: r.translator.handle,
		VideoRefresh: r.onVideoRefresh,
		AudioSample: r.onAudioSample,
		AudioSampleBatch: r.onAudioSampleBatch,
		InputPoll: func() {},
		InputState: r.onInputState,
	})
	corelib.InstallInterfaces(&corelib.InterfaceDispatcher{
		RumbleSetState: r.onRumbleSetState,
		GetCurrentFramebuffer: r.onGetCurrentFramebuffer,
		GetProcAddress: r.cfg.GLProcAddress,
		Log: r.onLogMessage,
		VFSOpen: r.onVFSOpen,
		VFSClose: r.onVFSClose,
		VFSSize: r.onVFSSize,
		VFSTell: r.onVFSTell,
		VFSSeek: r.onVFSSeek,
		VFSRead: r.onVFSRead,
		VFSWrite: r.onVFSWrite,
		VFSFlush: r.onVFSFlush,
		VFSRemove: r.onVFSRemove,
		VFSRename: r.onVFSRename,
		VFSTruncate: r.onVFSTruncate,
		MicOpen: r.onMicOpen,
		MicClose: r.onMicClose,
		MicGetParams: r.onMicGetParams,
		MicSetState: r.onMicSetState,
		MicGetState: r.onMicGetState,
		MicRead: r.onMicRead,
	})

	r.abi.SetEnvironment(corelib.EnvironmentPtr())
	r.abi.SetVideoRefresh(corelib.VideoRefreshPtr())
	r.abi.SetAudioSample(corelib.AudioSamplePtr())
	r.abi.SetAudioSampleBatch(corelib.AudioSampleBatchPtr())
	r.abi.SetInputPoll(corelib.InputPollPtr())
	r.abi.SetInputState(corelib.InputStatePtr())
}

// onVideoRefresh adapts corelib's raw (pointer, width, height, pitch)
// callback shape to Video.OnNewFrame's []byte view. A nil data pointer (a
// duplicate frame) or a zero pitch leaves the view nil, and the SW path
// then skips the upload; Video's FramebufferRenderer path treats
// OnNewFrame as a no-op whatever the data, since the core rendered directly
// into the negotiated HW framebuffer.
func (r *Runtime) onVideoRefresh(data unsafe.Pointer, width, height uint32, pitch uintptr) {
	if r.vid == nil {
		return
	}
	var buf []byte
	if data != nil && pitch > 0 && height > 0 {
		buf = unsafe.Slice((*byte)(data), int(pitch)*int(height))
	}
	r.vid.OnNewFrame(buf, int(width), int(height), int(pitch), r.env.PixelFormat())
}

func (r *Runtime) onAudioSample(left, right int16) { r.aud.Write([]int16{left, right}) }

func (r *Runtime) onAudioSampleBatch(data unsafe.Pointer, frames uintptr) uintptr {
	if frames == 0 || data == nil {
		return 0
	}
	samples := unsafe.Slice((*int16)(data), int(frames)*2)
	r.aud.Write(samples)
	return frames
}
func (r *Runtime) onInputState(port, device, index, id uint32) int16 {
	return r.in.GetState(int(port), int(device), int(index), int(id))
}
// onRumbleSetState handles the core's set_rumble_state: effect 0 is the
// strong motor, effect 1 the weak one.
func (r *Runtime) onRumbleSetState(port, effect uint32, strength uint16) bool {
	r.env.RecordRumbleEffect(int(port), effect == 0, strength)
	return true
}

// onGetCurrentFramebuffer answers the hardware-render FBO query; the id is
// stable across retro_run calls until surface loss.
func (r *Runtime) onGetCurrentFramebuffer() uintptr {
	if r.vid == nil {
		return 0
	}
	return uintptr(r.vid.FramebufferID())
}

func (r *Runtime) onLogMessage(level uint32, message string) {
	r.env.Log(int(level), "%s", message)
}

func (r *Runtime) onVFSOpen(path string, mode, hints uint32) uint64 {
	if r.vfsys == nil {
		return 0
	}
	id, err := r.vfsys.Open(path, int(mode))
	if err != nil {
		return 0
	}
	return id
}
func (r *Runtime) onVFSClose(h uint64) int {
	if r.vfsys == nil || r.vfsys.Close(h) != nil {
		return -1
	}
	return 0
}
func (r *Runtime) onVFSSize(h uint64) int64 {
	if r.vfsys == nil {
		return -1
	}
	n, err := r.vfsys.Size(h)
	if err != nil {
		return -1
	}
	return n
}
func (r *Runtime) onVFSTell(h uint64) int64 {
	if r.vfsys == nil {
		return -1
	}
	n, err := r.vfsys.Tell(h)
	if err != nil {
		return -1
	}
	return n
}
func (r *Runtime) onVFSSeek(h uint64, offset int64, whence int) int64 {
	if r.vfsys == nil {
		return -1
	}
	n, err := r.vfsys.Seek(h, offset, whence)
	if err != nil {
		return -1
	}
	return n
}
func (r *Runtime) onVFSRead(h uint64, buf []byte) int64 {
	if r.vfsys == nil {
		return -1
	}
	n, err := r.vfsys.Read(h, buf)
	if err != nil && n == 0 {
		return -1
	}
	return int64(n)
}
func (r *Runtime) onVFSWrite(h uint64, buf []byte) int64 {
	if r.vfsys == nil {
		return -1
	}
	n, err := r.vfsys.Write(h, buf)
	if err != nil && n == 0 {
		return -1
	}
	return int64(n)
}
func (r *Runtime) onVFSFlush(h uint64) int {
	if r.vfsys == nil || r.vfsys.Flush(h) != nil {
		return -1
	}
	return 0
}
func (r *Runtime) onVFSRemove(path string) int {
	if r.vfsys == nil || r.vfsys.Remove(path) != nil {
		return -1
	}
	return 0
}
func (r *Runtime) onVFSRename(oldPath, newPath string) int {
	if r.vfsys == nil || r.vfsys.Rename(oldPath, newPath) != nil {
		return -1
	}
	return 0
}
func (r *Runtime) onVFSTruncate(h uint64, length int64) int64 {
	if r.vfsys == nil || r.vfsys.Truncate(h, length) != nil {
		return -1
	}
	return length
}

// The microphone vtable models a single capture handle: cores open at most
// one mic, so handle 1 is the only id ever issued. State transitions map
// onto Microphone.Start/Stop; reads drain its ring buffer.
const micHandle = 1

func (r *Runtime) onMicOpen(rate uint32) uint64 {
	if r.mic == nil || r.micOpen {
		return 0
	}
	r.micOpen = true
	return micHandle
}

func (r *Runtime) onMicClose(h uint64) {
	if r.mic == nil || h != micHandle {
		return
	}
	if r.micActive {
		if err := r.mic.Stop(); err != nil {
			r.env.Log(2, "runtime: mic stop failed: %v", err)
		}
		r.micActive = false
	}
	r.micOpen = false
}

func (r *Runtime) onMicGetParams(h uint64) (uint32, bool) {
	if r.mic == nil || h != micHandle || !r.micOpen {
		return 0, false
	}
	return uint32(r.mic.SampleRate()), true
}

func (r *Runtime) onMicSetState(h uint64, on bool) bool {
	if r.mic == nil || h != micHandle || !r.micOpen || on == r.micActive {
		return r.mic != nil && h == micHandle && r.micOpen
	}
	if on {
		if err := r.mic.Start(); err != nil {
			r.env.Log(3, "runtime: mic start failed: %v", err)
			return false
		}
	} else if err := r.mic.Stop(); err != nil {
		r.env.Log(2, "runtime: mic stop failed: %v", err)
	}
	r.micActive = on
	return true
}

func (r *Runtime) onMicGetState(h uint64) bool {
	return r.mic != nil && h == micHandle && r.micActive
}

func (r *Runtime) onMicRead(h uint64, dst []int16) int {
	if r.mic == nil || h != micHandle || !r.micOpen {
		return -1
	}
	return r.mic.Read(dst)
}

// loadGame shares the post-load sequence across the three LoadGameFrom*
// entry points: call retro_load_game, read back AV info, seed FPSSync and
// Environment's geometry.
func (r *Runtime) loadGame(path string, data []byte) error {
	if err := r.requireState("LoadGame", StateCreated); err != nil {
		return err
	}

	ptr, free := buildGameInfo(path, data)
	defer free()

	r.runMu.Lock()
	ok := r.abi.LoadGame(ptr)
	r.runMu.Unlock()
	if !ok {
		return newError(ErrCodeLoadGame, "core rejected %q", path)
	}

	r.av = readAVInfo(r.abi)
	r.env.SetGeometry(environment.GameGeometry{
		BaseWidth: r.av.BaseWidth,
		BaseHeight: r.av.BaseHeight,
		AspectRatio: r.av.AspectRatio,
	})

	refreshHz := r.cfg.RefreshRate
	if refreshHz <= 0 {
		refreshHz = r.av.FPS
	}
	r.fps = fpssync.New(r.av.FPS, refreshHz)

	r.aud.Stop()
	r.aud = audio.New(audio.Config{
		SampleRate: int(r.av.SampleRate),
		OutputSampleRate: int(r.av.SampleRate),
		LowLatency: r.cfg.LowLatencyAudio,
	}, r.cfg.AudioDeviceOrNull())

	r.state = StateGameLoaded
	return nil
}

// LoadGameFromPath loads a game from a path on the native (or VFS-registered)
// filesystem.
func (r *Runtime) LoadGameFromPath(path string) error {
	return r.loadGame(path, nil)
}

// LoadGameFromBytes loads a game already resident in memory.
func (r *Runtime) LoadGameFromBytes(path string, data []byte) error {
	return r.loadGame(path, data)
}

// LoadGameFromVirtualFiles registers embedder-supplied virtual files with
// the VFS before loading, for cores that must read auxiliary content
// (BIOS, companion data) through retro_vfs rather than retro_game_info.
func (r *Runtime) LoadGameFromVirtualFiles(path string, files []vfs.VfsFile) error {
	if r.vfsys == nil {
		return newError(ErrCodeGeneric, "LoadGameFromVirtualFiles: VFS not enabled")
	}
	for i := range files {
		r.vfsys.Register(&files[i])
	}
	return r.loadGame(path, nil)
}

// OnSurfaceCreated builds the GL-dependent Video pipeline against a newly
// available GL context and replays the core's context-reset callback. Must
// be called with the GL context current on the calling goroutine. The
// shader dialect follows Config.GLESVersion.
func (r *Runtime) OnSurfaceCreated(screenW, screenH int) error {
	if err := r.requireState("OnSurfaceCreated", StateGameLoaded, StatePaused); err != nil {
		return err
	}
	hw := r.env.HWRender() != nil
	useDepth := hw && r.env.HWRender().UseDepth
	useStencil := hw && r.env.HWRender().UseStencil
	isGLES := r.cfg.GLESVersion != GLDesktop

	vid, err := video.New(hw, screenW, screenH, isGLES, r.cfg.Ambient, useDepth, useStencil)
	if err != nil {
		return newError(ErrCodeGLNotCompatible, "%v", err)
	}
	if r.vid != nil {
		r.vid.Destroy()
	}
	r.vid = vid
	if r.cfg.ShaderConfig != "" {
		r.vid.SetShaderConfig(video.Config{Preset: r.cfg.ShaderConfig})
	}

	r.applyLayoutFromEnvironment()
	r.vid.SetSkipDuplicateFrames(r.cfg.SkipDupFrames)

	if hw && r.env.HWRender().OnContextReset != nil {
		r.env.HWRender().OnContextReset()
	}
	return nil
}

// OnSurfaceChanged forwards a screen-size change to Video's layout.
func (r *Runtime) OnSurfaceChanged(screenW, screenH int) {
	if r.vid != nil {
		r.vid.UpdateScreenSize(screenW, screenH)
	}
}

// Resume transitions GameLoaded/Paused into Running and opens the device
// audio stream.
func (r *Runtime) Resume() error {
	if err := r.requireState("Resume", StateGameLoaded, StatePaused); err != nil {
		return err
	}
	if err := r.aud.Start(); err != nil {
		r.env.Log(3, "runtime: audio start failed: %v", err)
	}
	r.state = StateRunning
	return nil
}

// Pause transitions Running into Paused and closes the device audio stream;
// Step rejects until Resume.
func (r *Runtime) Pause() error {
	if err := r.requireState("Pause", StateRunning); err != nil {
		return err
	}
	if err := r.aud.Stop(); err != nil {
		r.env.Log(3, "runtime: audio stop failed: %v", err)
	}
	r.state = StatePaused
	return nil
}

// Step runs one host tick: advances the core by FPSSync's frame count,
// ticks the rumble bridge, renders the current frame and paces to the next
// tick.
func (r *Runtime) Step() error {
	if err := r.requireState("Step", StateRunning); err != nil {
		return err
	}

	start := time.Now()
	n := r.fps.AdvanceFrames()
	r.runMu.Lock()
	for i := 0; i < n; i++ {
		r.abi.Run()
	}
	r.runMu.Unlock()
	r.rum.Tick()
	r.aud.ApplyTimeStretch(r.fps.TimeStretchFactor())

	geometryChanged := r.env.ConsumeGeometryUpdated()
	rotationChanged := r.env.ConsumeRotationUpdated()
	if geometryChanged || rotationChanged {
		r.applyLayoutFromEnvironment()
		if r.cfg.OnRefreshAspectRatio != nil {
			r.cfg.OnRefreshAspectRatio()
		}
	}

	if r.vid != nil {
		bottomLeftOrigin := r.env.HWRender() != nil && r.env.HWRender().BottomLeftOrigin
		if err := r.vid.RenderFrame(bottomLeftOrigin); err != nil {
			return newError(ErrCodeGLNotCompatible, "%v", err)
		}
	}

	elapsed := time.Since(start)
	ideal := time.Duration(float64(time.Second) * float64(n) / r.av.FPS)
	r.fps.UpdateTimeStretch(elapsed, ideal)
	r.fps.Wait()
	return nil
}

// applyLayoutFromEnvironment pushes the core's current geometry and rotation
// into Video's layout. Geometry, rotation, screen size and viewport each
// recompute the foreground quad independently, so update order is
// irrelevant.
func (r *Runtime) applyLayoutFromEnvironment() {
	if r.vid == nil {
		return
	}
	if a := r.GetAspectRatio(); a > 0 {
		r.vid.SetContentAspect(float64(a))
	}
	r.vid.SetRotationRadians(float64(r.env.Rotation()))
}

// RefreshAspectRatio re-derives the layout from the current negotiated
// geometry and rotation, for embedders that drive aspect recomputation
// themselves.
func (r *Runtime) RefreshAspectRatio() {
	r.applyLayoutFromEnvironment()
}

// Reset issues retro_reset, serialized against retro_run.
func (r *Runtime) Reset() error {
	if err := r.requireState("Reset", StateGameLoaded, StateRunning, StatePaused); err != nil {
		return err
	}
	r.runMu.Lock()
	r.abi.Reset()
	r.runMu.Unlock()
	return nil
}

// AvailableDisks returns the number of disk images the core's disk-control
// interface exposes, or 0 if the core never installed one.
func (r *Runtime) AvailableDisks() uint32 {
	dc := r.env.DiskControl()
	if dc == nil || dc.GetNumImages == nil {
		return 0
	}
	return dc.GetNumImages()
}

// CurrentDisk returns the index of the inserted disk image, or 0 without a
// disk-control interface.
func (r *Runtime) CurrentDisk() uint32 {
	dc := r.env.DiskControl()
	if dc == nil || dc.GetImageIndex == nil {
		return 0
	}
	return dc.GetImageIndex()
}

// ChangeDisk ejects the virtual tray, switches to the image at index and
// closes the tray again, the sequence multi-disk cores expect.
func (r *Runtime) ChangeDisk(index uint32) error {
	dc := r.env.DiskControl()
	if dc == nil || dc.SetImageIndex == nil {
		return newError(ErrCodeGeneric, "ChangeDisk: core has no disk control interface")
	}
	r.runMu.Lock()
	defer r.runMu.Unlock()
	if dc.SetEjectState != nil {
		dc.SetEjectState(true)
	}
	ok := dc.SetImageIndex(index)
	if dc.SetEjectState != nil {
		dc.SetEjectState(false)
	}
	if !ok {
		return newError(ErrCodeGeneric, "ChangeDisk: core rejected image %d", index)
	}
	return nil
}

// Destroy tears down every collaborator and unloads the core. Idempotent
// past the first call in any non-Uninit state.
func (r *Runtime) Destroy() error {
	if r.state == StateDestroyed || r.state == StateUninit {
		return nil
	}
	if r.env != nil && r.env.HWRender() != nil && r.env.HWRender().OnContextDestroy != nil {
		r.env.HWRender().OnContextDestroy()
	}
	corelib.Clear()
	corelib.ClearInterfaces()

	if r.aud != nil {
		r.aud.Stop()
	}
	if r.mic != nil {
		r.mic.Stop()
	}
	if r.vid != nil {
		r.vid.Destroy()
	}
	if r.abi != nil {
		r.runMu.Lock()
		r.abi.UnloadGame()
		r.abi.Deinit()
		r.runMu.Unlock()
	}
	if r.core != nil {
		r.core.Close()
	}
	r.state = StateDestroyed
	return nil
}

// Serialize writes the core's save-state into a freshly sized buffer.
func (r *Runtime) Serialize() ([]byte, error) {
	if err := r.requireState("Serialize", StateGameLoaded, StateRunning, StatePaused); err != nil {
		return nil, err
	}
	r.runMu.Lock()
	defer r.runMu.Unlock()
	size := r.abi.SerializeSize()
	if size == 0 {
		return nil, newError(ErrCodeSerialization, "core reports zero-size state")
	}
	buf := make([]byte, size)
	if !r.abi.Serialize(buf) {
		return nil, newError(ErrCodeSerialization, "retro_serialize failed")
	}
	return buf, nil
}

// Unserialize restores a save-state previously produced by Serialize.
func (r *Runtime) Unserialize(buf []byte) error {
	if err := r.requireState("Unserialize", StateGameLoaded, StateRunning, StatePaused); err != nil {
		return err
	}
	r.runMu.Lock()
	ok := r.abi.Unserialize(buf)
	r.runMu.Unlock()
	if !ok {
		return newError(ErrCodeSerialization, "retro_unserialize failed")
	}
	return nil
}

// SerializeSRAM reads the core's battery-backed save RAM region.
func (r *Runtime) SerializeSRAM() ([]byte, error) {
	if err := r.requireState("SerializeSRAM", StateGameLoaded, StateRunning, StatePaused); err != nil {
		return nil, err
	}
	size := r.abi.GetMemorySize(uint32(corelib.MemorySaveRAM))
	if size == 0 {
		return nil, nil
	}
	ptr := r.abi.GetMemoryData(uint32(corelib.MemorySaveRAM))
	if ptr == nil {
		return nil, newError(ErrCodeSerialization, "core reports SRAM size but returned a null pointer")
	}
	return cBytesCopy(ptr, int(size)), nil
}

// UnserializeSRAM writes data into the core's battery-backed save RAM
// region, truncated to the core's reported size.
func (r *Runtime) UnserializeSRAM(data []byte) error {
	if err := r.requireState("UnserializeSRAM", StateGameLoaded, StateRunning, StatePaused); err != nil {
		return err
	}
	size := r.abi.GetMemorySize(uint32(corelib.MemorySaveRAM))
	if size == 0 {
		return nil
	}
	ptr := r.abi.GetMemoryData(uint32(corelib.MemorySaveRAM))
	if ptr == nil {
		return newError(ErrCodeSerialization, "core reports SRAM size but returned a null pointer")
	}
	copyIntoCBuffer(ptr, data, int(size))
	return nil
}

// SetCheat forwards a single cheat entry to the core.
func (r *Runtime) SetCheat(index uint32, enabled bool, code string) error {
	if err := r.requireState("SetCheat", StateGameLoaded, StateRunning, StatePaused); err != nil {
		return err
	}
	r.runMu.Lock()
	r.abi.CheatSet(index, enabled, code)
	r.runMu.Unlock()
	return nil
}

// ResetCheats clears every previously applied cheat.
func (r *Runtime) ResetCheats() error {
	if err := r.requireState("ResetCheats", StateGameLoaded, StateRunning, StatePaused); err != nil {
		return err
	}
	r.runMu.Lock()
	r.abi.CheatReset()
	r.runMu.Unlock()
	return nil
}

// SetControllerType negotiates a controller type for a port.
func (r *Runtime) SetControllerType(port, deviceID uint32) error {
	if err := r.requireState("SetControllerType", StateGameLoaded, StateRunning, StatePaused); err != nil {
		return err
	}
	r.abi.SetControllerPortDevice(port, deviceID)
	return nil
}

// SetFrameSpeed sets the fast-forward multiplier.
func (r *Runtime) SetFrameSpeed(n int) { r.fps.SetFrameSpeed(n) }

// SetAudioEnabled mutes/unmutes audio output without stopping the device.
func (r *Runtime) SetAudioEnabled(enabled bool) { r.aud.SetEnabled(enabled) }

// SetRumbleEnabled toggles rumble delivery.
func (r *Runtime) SetRumbleEnabled(enabled bool) { r.rum.SetEnabled(enabled) }

// SetShaderConfig changes the active shader preset, applied on the next
// Step's RenderFrame call.
func (r *Runtime) SetShaderConfig(preset string) {
	if r.vid != nil {
		r.vid.SetShaderConfig(video.Config{Preset: preset})
	}
}

// UpdateVariable sets a core variable's value, observed by the core on its
// next GET_VARIABLE_UPDATE poll.
func (r *Runtime) UpdateVariable(key, value string) { r.env.UpdateVariable(key, value) }

// GetVariables returns the current core variable table.
func (r *Runtime) GetVariables() []environment.Variable { return r.env.Variables() }

// GetControllers returns the core-published controller descriptor table.
func (r *Runtime) GetControllers() [][]environment.ControllerDescriptor { return r.env.Controllers() }

// GetAspectRatio returns the negotiated content aspect ratio, falling back
// to width/height when the core never set one explicitly.
func (r *Runtime) GetAspectRatio() float32 {
	g := r.env.Geometry()
	if g.AspectRatio > 0 {
		return g.AspectRatio
	}
	if g.BaseHeight == 0 {
		return 0
	}
	return float32(g.BaseWidth) / float32(g.BaseHeight)
}

// SetViewport updates the sub-rectangle of the screen Video draws into.
func (r *Runtime) SetViewport(rect video.Rect) {
	if r.vid != nil {
		r.vid.UpdateViewport(rect)
	}
}

// OnKeyEvent translates a platform key code to a joypad button and records
// its pressed state for port.
func (r *Runtime) OnKeyEvent(port int, code input.KeyCode, pressed bool) {
	if buttonID, ok := input.Translate(code); ok {
		r.in.SetButton(port, buttonID, pressed)
	}
}

// OnMotionEvent records a motion source's position: the d-pad collapses to
// sign per axis, analog sticks keep their full range.
func (r *Runtime) OnMotionEvent(port, source int, x, y float32) {
	switch source {
	case input.MotionDpad:
		r.in.SetDPad(port, axisSign(x), axisSign(y))
	case input.MotionAnalogLeft:
		r.in.SetAnalog(port, input.AnalogLeft, x, y)
	case input.MotionAnalogRight:
		r.in.SetAnalog(port, input.AnalogRight, x, y)
	}
}

func axisSign(v float32) int {
	const deadzone = 0.5
	switch {
	case v <= -deadzone:
		return -1
	case v >= deadzone:
		return 1
	default:
		return 0
	}
}

// OnTouchEvent records an absolute touch position and, if Video is active,
// returns the touch mapped into normalized content UV space.
func (r *Runtime) OnTouchEvent(port int, x, y float32, pressed bool) (float64, float64) {
	r.in.SetTouch(port, x, y, pressed)
	if r.vid == nil {
		return -10, -10
	}
	return r.vid.GetRelativePosition(float64(x), float64(y))
}

// CaptureRGBA reads back the presented frame as tightly packed RGBA for a
// video.FrameRecorder; returns nil before OnSurfaceCreated.
func (r *Runtime) CaptureRGBA() (pixels []byte, w, h int) {
	if r.vid == nil {
		return nil, 0, 0
	}
	w, h = r.vid.ScreenSize()
	return r.vid.ReadRGBA(), w, h
}

// State returns the current lifecycle state.
func (r *Runtime) State() State { return r.state }

// AudioDeviceOrNull returns cfg.AudioDevice, or the null device if unset;
// used when a loaded game rebuilds Audio at the core's negotiated sample
// rate.
func (cfg Config) AudioDeviceOrNull() audio.OutputDevice {
	if cfg.AudioDevice != nil {
		return cfg.AudioDevice
	}
	return audio.NullOutputDevice{}
}

// cBytesCopy copies n bytes out of a core-owned buffer into a new Go slice.
func cBytesCopy(ptr unsafe.Pointer, n int) []byte {
	if ptr == nil || n <= 0 {
		return nil
	}
	src := unsafe.Slice((*byte)(ptr), n)
	out := make([]byte, n)
	copy(out, src)
	return out
}

// copyIntoCBuffer writes data into a core-owned buffer, truncated to cap
// bytes.
func copyIntoCBuffer(ptr unsafe.Pointer, data []byte, cap int) {
	if ptr == nil || cap <= 0 {
		return
	}
	n := len(data)
	if n > cap {
		n = cap
	}
	dst := unsafe.Slice((*byte)(ptr), cap)
	copy(dst, data[:n])
}
