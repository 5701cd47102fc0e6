package video

import (
	"context"
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	gst "github.com/richinsley/goshadertranslator"
)

// vertexShaderSource is the fullscreen-quad vertex shader shared by every
// pass: each one draws the same two-triangle quad.
const vertexShaderSource = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
	frag_uv = in_vert * 0.5 + 0.5;
 gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const passthroughFragmentSource = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() {
 fragColor = texture(u_texture, frag_uv);
}
`

// crtFragmentSource renders a mild scanline + vignette CRT emulation pass.
const crtFragmentSource = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
uniform vec2 u_resolution;
void main() {
 vec4 c = texture(u_texture, frag_uv);
 float scanline = 0.92 + 0.08 * sin(frag_uv.y * u_resolution.y * 3.14159);
 vec2 v = frag_uv - 0.5;
 float vignette = 1.0 - dot(v, v) * 0.35;
 fragColor = vec4(c.rgb * scanline * vignette, c.a);
}
`

// lcdFragmentSource emulates LCD subpixel separation via a coarse RGB mask.
const lcdFragmentSource = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
uniform vec2 u_resolution;
void main() {
 vec4 c = texture(u_texture, frag_uv);
 float cell = mod(floor(frag_uv.x * u_resolution.x), 3.0);
 vec3 mask = vec3(1.0);
 if (cell < 1.0) { mask = vec3(1.1, 0.9, 0.9); }
 else if (cell < 2.0) { mask = vec3(0.9, 1.1, 0.9); }
 else { mask = vec3(0.9, 0.9, 1.1); }
 fragColor = vec4(c.rgb * mask, c.a);
}
`

// sharpBilinearFragmentSource snaps the sampling grid to the nearest
// integer-scaled texel before a final bilinear pass, the standard
// "sharp-bilinear" look used by libretro shader presets.
const sharpBilinearFragmentSource = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
uniform vec2 u_sourceSize;
uniform vec2 u_resolution;
void main() {
 vec2 scale = max(floor(u_resolution / u_sourceSize), vec2(1.0));
 vec2 texel = frag_uv * u_sourceSize;
 vec2 snapped = (floor(texel * scale) + 0.5) / scale;
 fragColor = texture(u_texture, snapped / u_sourceSize);
}
`

// Pass describes one step of a shader chain: a fragment shader and the
// scale factor (relative to the chain's base size) of its output FBO.
// Video builds its chains with the screen size as the base.
type Pass struct {
	Name string
	FragmentSource string
	Scale float32
}

// Preset is a named, ordered shader pass chain.
type Preset struct {
	Name string
	Passes []Pass
}

var builtinPresets = map[string]Preset{
	"default": {Name: "default", Passes: []Pass{
		{Name: "blit", FragmentSource: passthroughFragmentSource, Scale: 1},
	}},
	"crt": {Name: "crt", Passes: []Pass{
		{Name: "crt", FragmentSource: crtFragmentSource, Scale: 1},
	}},
	"lcd": {Name: "lcd", Passes: []Pass{
		{Name: "lcd", FragmentSource: lcdFragmentSource, Scale: 1},
	}},
	"sharp-bilinear": {Name: "sharp-bilinear", Passes: []Pass{
		{Name: "prescale", FragmentSource: sharpBilinearFragmentSource, Scale: 1},
	}},
}

// Config selects a preset by name; an unknown name falls back to default.
type Config struct {
	Preset string
}

// LookupPreset resolves a shader config to a concrete Preset, defaulting to
// "default" for unknown or empty names.
func LookupPreset(cfg Config) Preset {
	if p, ok := builtinPresets[cfg.Preset]; ok {
		return p
	}
	return builtinPresets["default"]
}

// compiledPass is a Pass's linked GL program plus an intermediate FBO sized
// by Scale relative to the chain's base dimensions.
type compiledPass struct {
	pass Pass
	program uint32
	fbo uint32
	texture uint32
	w, h int
}

// Chain owns the compiled GL programs and intermediate FBOs for one
// Preset, rebuilt whenever set_shader_config changes the preset or the
// base content size changes.
type Chain struct {
	preset Preset
	passes []compiledPass
	baseW int
	baseH int
	isGLES bool
	quadVAO uint32
}

// Manager compiles Chains from Presets, passing every fragment shader
// through goshadertranslator: to ESSL when targeting GLES, GLSL 330
// otherwise.
type Manager struct {
	translator *gst.ShaderTranslator
	isGLES bool
	quadVAO uint32
	blit uint32
}

// NewManager constructs a Manager. quadVAO is the shared fullscreen-quad
// vertex array every pass draws with.
func NewManager(isGLES bool, quadVAO uint32) (*Manager, error) {
	t, err := gst.NewShaderTranslator(context.Background())
	if err != nil {
		return nil, fmt.Errorf("shader translator init: %w", err)
	}
	blit, err := newProgram(vertexShaderSource, passthroughFragmentSource)
	if err != nil {
		return nil, fmt.Errorf("compiling blit program: %w", err)
	}
	return &Manager{translator: t, isGLES: isGLES, quadVAO: quadVAO, blit: blit}, nil
}

// blitProgram returns the plain textured-quad program used to draw the
// final foreground quad.
func (m *Manager) blitProgram() uint32 { return m.blit }

// Build compiles cfg's preset into a Chain sized for (baseW, baseH).
func (m *Manager) Build(cfg Config, baseW, baseH int) (*Chain, error) {
	preset := LookupPreset(cfg)
	c := &Chain{preset: preset, baseW: baseW, baseH: baseH, isGLES: m.isGLES, quadVAO: m.quadVAO}

	for _, p := range preset.Passes {
		program, err := m.compile(p.FragmentSource)
		if err != nil {
			return nil, fmt.Errorf("compiling pass %q: %w", p.Name, err)
		}
		cp := compiledPass{pass: p, program: program}
		cp.w = maxInt(1, int(float32(baseW)*p.Scale))
		cp.h = maxInt(1, int(float32(baseH)*p.Scale))
		cp.fbo, cp.texture = newPassFBO(cp.w, cp.h)
		c.passes = append(c.passes, cp)
	}
	return c, nil
}

func (m *Manager) compile(fragSource string) (uint32, error) {
	outputFormat := gst.OutputFormatGLSL330
	if m.isGLES {
		outputFormat = gst.OutputFormatESSL
	}
	translated, err := m.translator.TranslateShader(fragSource, "fragment", gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return 0, fmt.Errorf("fragment shader translation: %w", err)
	}
	return newProgram(vertexShaderSource, translated.Code)
}

// Destroy releases the chain's intermediate FBOs and programs.
func (c *Chain) Destroy() {
	for _, p := range c.passes {
		gl.DeleteProgram(p.program)
		gl.DeleteFramebuffers(1, &p.fbo)
		gl.DeleteTextures(1, &p.texture)
	}
	c.passes = nil
}

// Render runs the chain's passes in order, sampling inputTexture for the
// first pass and each pass's own output for the next. Every pass renders
// into its own FBO; the returned texture is the last pass's output, which
// the caller composites onto the screen with the layout's foreground quad.
// Leaves the framebuffer binding and viewport dirty.
func (c *Chain) Render(inputTexture uint32, sourceW, sourceH int) uint32 {
	current := inputTexture
	for _, p := range c.passes {
		gl.BindFramebuffer(gl.FRAMEBUFFER, p.fbo)
		gl.Viewport(0, 0, int32(p.w), int32(p.h))
		gl.UseProgram(p.program)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, current)
		setUniformIfPresent(p.program, "u_texture", func(loc int32) { gl.Uniform1i(loc, 0) })
		setUniformIfPresent(p.program, "u_resolution", func(loc int32) {
			gl.Uniform2f(loc, float32(c.baseW), float32(c.baseH))
		})
		setUniformIfPresent(p.program, "u_sourceSize", func(loc int32) {
			gl.Uniform2f(loc, float32(sourceW), float32(sourceH))
		})
		gl.BindVertexArray(c.quadVAO)
		gl.DrawArrays(gl.TRIANGLES, 0, 6)
		current = p.texture
	}
	return current
}

func setUniformIfPresent(program uint32, name string, set func(loc int32)) {
	loc := gl.GetUniformLocation(program, gl.Str(name+"\x00"))
	if loc >= 0 {
		set(loc)
	}
}

func newPassFBO(w, h int) (fbo, texture uint32) {
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, texture, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return fbo, texture
}

func newProgram(vertexSource, fragmentSource string) (uint32, error) {
	vs, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("link program: %s", log)
	}
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		return 0, fmt.Errorf("compile shader: %s", logText)
	}
	return shader, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
