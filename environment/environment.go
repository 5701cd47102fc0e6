// Package environment implements the single core-ABI environment callback
// that a loaded core uses to negotiate optional features with its host.
//
// The core ABI gives the environment callback no user-data pointer, so a
// loaded core can only ever address one environment at a time. Environment
// is therefore a process-wide singleton with a Reset-on-Create lifecycle.
// rumble.Bridge holds a *Environment and reads only its RumbleStates
// snapshot; there is no narrower interface type between them. Video and
// Audio do not hold the Environment at all.
package environment

import (
	"strings"
	"sync"
)

// Command is a core-ABI RETRO_ENVIRONMENT_* command code.
type Command int32

// Numeric values follow the well-known libretro environment command
// numbering so cores see the ABI they expect.
const (
	CmdGetOverscan Command = 2
	CmdGetCanDupe Command = 3
	CmdSetRotation Command = 1
	CmdGetSystemDirectory Command = 9
	CmdSetPixelFormat Command = 10
	CmdSetInputDescriptors Command = 11
	CmdSetHWRender Command = 14
	CmdGetVariable Command = 15
	CmdSetVariables Command = 16
	CmdGetVariableUpdate Command = 17
	CmdSetSupportNoGame Command = 18
	CmdSetDiskControlInterface Command = 13
	CmdGetLogInterface Command = 27
	CmdGetRumbleInterface Command = 23
	CmdGetSaveDirectory Command = 31
	CmdSetControllerInfo Command = 35
	CmdSetGeometry Command = 37
	CmdGetLanguage Command = 39
	CmdGetVFSInterface Command = 45 | 0x10000
	CmdGetMicrophoneInterface Command = 75 | 0x10000
)

// PixelFormat enumerates the software-renderer upload formats a core may
// negotiate via SET_PIXEL_FORMAT.
type PixelFormat int

const (
	PixelFormatRGB565 PixelFormat = iota
	PixelFormatXRGB8888
	PixelFormatORGB1555
)

// Variable is {key, value, description} tuple.
type Variable struct {
	Key string
	Value string
	Description string
}

// ControllerDescriptor is {id, description} tuple.
type ControllerDescriptor struct {
	ID uint32
	Description string
}

// RumbleState is {strong, weak} pair.
type RumbleState struct {
	Strong uint16
	Weak uint16
}

// GameGeometry is {base_width, base_height, aspect_ratio} tuple.
type GameGeometry struct {
	BaseWidth uint32
	BaseHeight uint32
	AspectRatio float32
}

// HwRenderContext captures a SET_HW_RENDER negotiation.
type HwRenderContext struct {
	UseDepth bool
	UseStencil bool
	BottomLeftOrigin bool
	OnContextReset func()
	OnContextDestroy func()
	GetProcAddress func(name string) uintptr
}

// DiskControlCallback mirrors the core-supplied disk-swap vtable.
type DiskControlCallback struct {
	SetEjectState func(ejected bool) bool
	GetEjectState func() bool
	GetImageIndex func() uint32
	SetImageIndex func(index uint32) bool
	GetNumImages func() uint32
	ReplaceImage func(index uint32, path string, meta bool) bool
}

var languageTable = map[string]int{
	"en": 0,
	"jp": 1,
	"fr": 2,
	"es": 3,
	"de": 4,
	"it": 5,
	"nl": 6,
	"pt_br": 7,
	"pt_pt": 8,
	"ru": 9,
	"ko": 10,
	"zh_tw": 11,
	"zh_cn": 12,
	"eo": 13,
	"pl": 14,
}

const languageEnglish = 0

// Environment is the process-wide core-ABI negotiation singleton. It is
// guarded by a single mutex: the core thread mutates it from inside the
// environment callback, and the embedder mutates it via UpdateVariable.
type Environment struct {
	mu sync.Mutex

	pixelFormat PixelFormat
	variables map[string]*Variable
	variablesDirty bool

	hwRender *HwRenderContext
	rumble [4]RumbleState

	geometry GameGeometry
	geometryUpdated bool

	rotation float32
	rotationUpdated bool

	systemDir string
	savesDir string

	diskControl *DiskControlCallback

	vfsEnabled bool
	micEnabled bool

	controllers [][]ControllerDescriptor

	language int

	logFn func(level int, format string, args ...any)
}

var (
	globalMu sync.Mutex
	global *Environment
)

// Global returns the process-wide Environment, creating it on first use.
func Global() *Environment {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		global = New()
	}
	return global
}

// New constructs a fresh Environment. Runtime.Create calls this (via Reset)
// once per create/destroy cycle so a prior core's negotiated state never
// leaks into the next core.
func New() *Environment {
	return &Environment{
		variables: make(map[string]*Variable),
		language: languageEnglish,
	}
}

// Reset reinitializes the global singleton; called from Runtime.Create.
func Reset(systemDir, savesDir string, vfsEnabled, micEnabled bool, locale string) *Environment {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = New()
	global.systemDir = systemDir
	global.savesDir = savesDir
	global.vfsEnabled = vfsEnabled
	global.micEnabled = micEnabled
	global.language = languageFor(locale)
	return global
}

func languageFor(locale string) int {
	if v, ok := languageTable[locale]; ok {
		return v
	}
	return languageEnglish
}

// SetLogFunc installs the host log sink invoked for GET_LOG_INTERFACE.
func (e *Environment) SetLogFunc(fn func(level int, format string, args ...any)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logFn = fn
}

// SetPixelFormat records the sw-renderer pixel format. Returns false for an
// unsupported format, matching RETRO_ENVIRONMENT_SET_PIXEL_FORMAT semantics.
func (e *Environment) SetPixelFormat(pf PixelFormat) bool {
	switch pf {
	case PixelFormatRGB565, PixelFormatXRGB8888, PixelFormatORGB1555:
		e.mu.Lock()
		e.pixelFormat = pf
		e.mu.Unlock()
		return true
	default:
		return false
	}
}

// PixelFormat returns the negotiated sw pixel format.
func (e *Environment) PixelFormat() PixelFormat {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pixelFormat
}

// SetHWRender records a SET_HW_RENDER negotiation.
func (e *Environment) SetHWRender(ctx *HwRenderContext) {
	e.mu.Lock()
	e.hwRender = ctx
	e.mu.Unlock()
}

// HWRender returns the negotiated hardware-render context, or nil if the
// core never called SET_HW_RENDER.
func (e *Environment) HWRender() *HwRenderContext {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hwRender
}

// SetVariables clears and replaces the variable table from a
// RETRO_ENVIRONMENT_SET_VARIABLES call. Each description has the form
// "human text; default|alt1|alt2"; the text before the first "|" after the
// first "; " is the default value.
func (e *Environment) SetVariables(vars []Variable) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.variables = make(map[string]*Variable, len(vars))
	for _, v := range vars {
		def := parseDefaultValue(v.Description)
		e.variables[v.Key] = &Variable{Key: v.Key, Value: def, Description: v.Description}
	}
}

// parseDefaultValue extracts the default value from a SET_VARIABLES
// description string: the text after the first "; " up to the first "|".
func parseDefaultValue(description string) string {
	_, rest, found := strings.Cut(description, "; ")
	if !found {
		return ""
	}
	if idx := strings.IndexByte(rest, '|'); idx >= 0 {
		return rest[:idx]
	}
	return rest
}

// ApplyOverrides applies embedder-provided initial variable values on top of
// core-published defaults, as Create does.
func (e *Environment) ApplyOverrides(overrides map[string]string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for k, v := range overrides {
		if existing, ok := e.variables[k]; ok {
			existing.Value = v
		} else {
			e.variables[k] = &Variable{Key: k, Value: v}
		}
	}
}

// GetVariable looks up a variable by key, returning ok=false if unknown.
func (e *Environment) GetVariable(key string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.variables[key]
	if !ok {
		return "", false
	}
	return v.Value, true
}

// GetVariableUpdate returns and clears the dirty flag.
func (e *Environment) GetVariableUpdate() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	dirty := e.variablesDirty
	e.variablesDirty = false
	return dirty
}

// UpdateVariable is the embedder-facing mutation; it sets the dirty flag the
// core observes on its next GET_VARIABLE_UPDATE poll.
func (e *Environment) UpdateVariable(key, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if v, ok := e.variables[key]; ok {
		v.Value = value
	} else {
		e.variables[key] = &Variable{Key: key, Value: value}
	}
	e.variablesDirty = true
}

// Variables returns a snapshot of the current variable table.
func (e *Environment) Variables() []Variable {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Variable, 0, len(e.variables))
	for _, v := range e.variables {
		out = append(out, *v)
	}
	return out
}

// SetGeometry updates base_width/base_height/aspect_ratio and marks the
// geometry-updated flag for Runtime.step to notice.
func (e *Environment) SetGeometry(g GameGeometry) {
	e.mu.Lock()
	e.geometry = g
	e.geometryUpdated = true
	e.mu.Unlock()
}

// Geometry returns the current geometry.
func (e *Environment) Geometry() GameGeometry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.geometry
}

// ConsumeGeometryUpdated returns and clears the geometry-updated flag.
func (e *Environment) ConsumeGeometryUpdated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := e.geometryUpdated
	e.geometryUpdated = false
	return v
}

// SetRotationQuarterTurns converts a quarter-turn index (0..3) to radians and
// marks rotation-updated.
func (e *Environment) SetRotationQuarterTurns(quarterTurns uint32) {
	e.mu.Lock()
	e.rotation = float32(quarterTurns%4) * (3.14159265 / 2)
	e.rotationUpdated = true
	e.mu.Unlock()
}

// Rotation returns the current rotation in radians.
func (e *Environment) Rotation() float32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rotation
}

// ConsumeRotationUpdated returns and clears the rotation-updated flag.
func (e *Environment) ConsumeRotationUpdated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := e.rotationUpdated
	e.rotationUpdated = false
	return v
}

// SystemDirectory and SaveDirectory back GET_SYSTEM_DIRECTORY /
// GET_SAVE_DIRECTORY; ok is false when the host was not configured with one.
func (e *Environment) SystemDirectory() (string, bool) {
	return e.systemDir, e.systemDir != ""
}

func (e *Environment) SaveDirectory() (string, bool) {
	return e.savesDir, e.savesDir != ""
}

// SetDiskControlInterface retains the core's disk-swap vtable.
func (e *Environment) SetDiskControlInterface(cb *DiskControlCallback) {
	e.mu.Lock()
	e.diskControl = cb
	e.mu.Unlock()
}

// DiskControl returns the retained disk-swap vtable, or nil.
func (e *Environment) DiskControl() *DiskControlCallback {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.diskControl
}

// RecordRumble stores the last-seen (strong, weak) pair for a port; it
// never blocks.
func (e *Environment) RecordRumble(port int, strong, weak uint16) {
	if port < 0 || port >= len(e.rumble) {
		return
	}
	e.mu.Lock()
	e.rumble[port] = RumbleState{Strong: strong, Weak: weak}
	e.mu.Unlock()
}

// RecordRumbleEffect stores one channel's magnitude, leaving the port's
// other channel at its last-seen value; the core sets strong and weak
// through separate set_rumble_state calls.
func (e *Environment) RecordRumbleEffect(port int, strong bool, strength uint16) {
	if port < 0 || port >= len(e.rumble) {
		return
	}
	e.mu.Lock()
	if strong {
		e.rumble[port].Strong = strength
	} else {
		e.rumble[port].Weak = strength
	}
	e.mu.Unlock()
}

// RumbleStates returns a snapshot of all four ports' last-seen rumble
// states. rumble.Bridge calls it through its *Environment each frame.
func (e *Environment) RumbleStates() [4]RumbleState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rumble
}

// VFSEnabled and MicEnabled report whether those optional interfaces were
// configured at Create time.
func (e *Environment) VFSEnabled() bool { return e.vfsEnabled }
func (e *Environment) MicEnabled() bool { return e.micEnabled }

// Language returns the negotiated RETRO_LANGUAGE_* enum value.
func (e *Environment) Language() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.language
}

// SetControllers ingests SET_CONTROLLER_INFO data for the embedder's UI.
func (e *Environment) SetControllers(descriptors [][]ControllerDescriptor) {
	e.mu.Lock()
	e.controllers = descriptors
	e.mu.Unlock()
}

// Controllers returns the ingested controller descriptor table.
func (e *Environment) Controllers() [][]ControllerDescriptor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.controllers
}

// Log forwards to the installed host log sink, or is a silent no-op if none
// was installed (mirrors GET_LOG_INTERFACE being optional).
func (e *Environment) Log(level int, format string, args ...any) {
	e.mu.Lock()
	fn := e.logFn
	e.mu.Unlock()
	if fn != nil {
		fn(level, format, args...)
	}
}
