package environment

// RawCall is what Core passes to Environment.Handle: the command code and a
// set of typed accessors over the opaque `data` pointer the core ABI hands
// the host. Package runtime's envTranslator converts the raw
// `unsafe.Pointer` into one of these typed views before calling in, so no
// raw pointer crosses this boundary.
type RawCall struct {
	Cmd Command

	// Populated depending on Cmd; only the field relevant to Cmd is read.
	BoolOut *bool
	StringOut *string
	PixelFormatIn *PixelFormat
	HWRenderIn *HwRenderContext
	VariablesIn []Variable
	VariableKeyIn string
	VariableValueOut *string
	GeometryIn *GameGeometry
	RotationIn *uint32
	DiskControlIn *DiskControlCallback
	ControllersIn [][]ControllerDescriptor
	LanguageOut *int
	VFSVersionOut *int
	MicInterfaceOut *bool
}

// Handle dispatches a single environment-callback invocation. It returns
// whether the core's requested feature is supported, matching the core-ABI
// convention that every command returns a bool. An unrecognized command
// returns false without allocating, open question.
func (e *Environment) Handle(call *RawCall) bool {
	switch call.Cmd {
	case CmdGetCanDupe:
		if call.BoolOut != nil {
			*call.BoolOut = true
		}
		return true

	case CmdGetSystemDirectory:
		dir, ok := e.SystemDirectory()
		if ok && call.StringOut != nil {
			*call.StringOut = dir
		}
		return ok

	case CmdGetSaveDirectory:
		dir, ok := e.SaveDirectory()
		if ok && call.StringOut != nil {
			*call.StringOut = dir
		}
		return ok

	case CmdSetPixelFormat:
		if call.PixelFormatIn == nil {
			return false
		}
		return e.SetPixelFormat(*call.PixelFormatIn)

	case CmdSetHWRender:
		if call.HWRenderIn == nil {
			return false
		}
		e.SetHWRender(call.HWRenderIn)
		return true

	case CmdSetVariables:
		e.SetVariables(call.VariablesIn)
		return true

	case CmdGetVariable:
		v, ok := e.GetVariable(call.VariableKeyIn)
		if ok && call.VariableValueOut != nil {
			*call.VariableValueOut = v
		}
		return ok

	case CmdGetVariableUpdate:
		dirty := e.GetVariableUpdate()
		if call.BoolOut != nil {
			*call.BoolOut = dirty
		}
		return dirty

	case CmdSetGeometry:
		if call.GeometryIn == nil {
			return false
		}
		e.SetGeometry(*call.GeometryIn)
		return true

	case CmdSetRotation:
		if call.RotationIn == nil {
			return false
		}
		e.SetRotationQuarterTurns(*call.RotationIn)
		return true

	case CmdSetDiskControlInterface:
		e.SetDiskControlInterface(call.DiskControlIn)
		return true

	case CmdGetRumbleInterface:
		// The vtable is filled in by package runtime; its set_rumble_state
		// callback lands in RecordRumbleEffect.
		return true

	case CmdGetLogInterface:
		return true

	case CmdGetLanguage:
		if call.LanguageOut != nil {
			*call.LanguageOut = e.Language()
		}
		return true

	case CmdGetVFSInterface:
		if !e.VFSEnabled() {
			return false
		}
		if call.VFSVersionOut != nil {
			*call.VFSVersionOut = 2
		}
		return true

	case CmdGetMicrophoneInterface:
		if !e.MicEnabled() {
			return false
		}
		if call.MicInterfaceOut != nil {
			*call.MicInterfaceOut = true
		}
		return true

	case CmdSetInputDescriptors, CmdSetControllerInfo:
		if len(call.ControllersIn) > 0 {
			e.SetControllers(call.ControllersIn)
		}
		return true

	default:
		return false
	}
}
