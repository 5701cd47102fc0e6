// Package video implements the host's video pipeline: a software- or
// hardware-path Renderer, a multi-pass shader Chain, aspect/rotation
// Layout, and a temporally-smoothed ambient Background, composed by Video.
package video

import (
	"hash/fnv"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/retrocore/hostruntime/environment"
)

// Video owns the active Renderer, the shader Chain, the Layout and the
// optional ambient Background, and drives render_frame.
type Video struct {
	renderer Renderer
	layout *Layout
	manager *Manager
	chain *Chain
	bg *Background
	quadVAO uint32
	quadVBO uint32
	fgVAO uint32
	fgVBO uint32

	ambient bool
	contentW int
	contentH int
	shaderConfig Config
	dirty bool

	skipDup bool
	lastFrameHash uint64
}

// New constructs Video. hw selects the hardware FBO-exposing renderer path
// (decided by the core's SET_HW_RENDER negotiation); otherwise the
// software pixel-upload path is used.
func New(hw bool, screenW, screenH int, isGLES bool, ambient bool, useDepth, useStencil bool) (*Video, error) {
	v := &Video{
		layout: NewLayout(screenW, screenH, 4.0/3.0),
		ambient: ambient,
	}

	// Two quads: a static fullscreen one for shader passes and the
	// background, and a dynamic one re-uploaded per frame with the layout's
	// foreground geometry.
	gl.GenVertexArrays(1, &v.quadVAO)
	gl.GenBuffers(1, &v.quadVBO)
	gl.BindVertexArray(v.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, v.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))

	gl.GenVertexArrays(1, &v.fgVAO)
	gl.GenBuffers(1, &v.fgVBO)
	gl.BindVertexArray(v.fgVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, v.fgVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	if hw {
		fr, err := NewFramebufferRenderer(screenW, screenH, useDepth, useStencil)
		if err != nil {
			return nil, err
		}
		v.renderer = fr
	} else {
		v.renderer = NewImageRenderer()
	}

	manager, err := NewManager(isGLES, v.quadVAO)
	if err != nil {
		return nil, err
	}
	v.manager = manager

	chain, err := manager.Build(Config{Preset: "default"}, screenW, screenH)
	if err != nil {
		return nil, err
	}
	v.chain = chain
	v.shaderConfig = Config{Preset: "default"}

	if ambient {
		bg, err := NewBackground(v.quadVAO)
		if err != nil {
			return nil, err
		}
		v.bg = bg
	}

	return v, nil
}

var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

// OnNewFrame handles the core's video-refresh callback: for the SW path
// this uploads pixels; for the HW path it's a no-op since the core already
// rendered into FramebufferID. Also records the frame size, which the chain
// receives as its source size, and marks the chain for rebuild when that
// size changes; the rebuilt chain is sized from the screen.
func (v *Video) OnNewFrame(data []byte, width, height, pitch int, format environment.PixelFormat) {
	if width > 0 && height > 0 && (width != v.contentW || height != v.contentH) {
		v.contentW, v.contentH = width, height
		v.layout.SetContentAspect(float64(width) / float64(height))
		v.dirty = true
	}
	if v.skipDup && data != nil {
		h := fnv.New64a()
		h.Write(data)
		sum := h.Sum64()
		if sum == v.lastFrameHash {
			return
		}
		v.lastFrameHash = sum
	}
	v.renderer.OnNewFrame(data, width, height, pitch, format)
}

// SetSkipDuplicateFrames toggles hashing of software frames so byte-identical
// consecutive frames skip the texture upload. HW-path frames are never
// hashed; the core signals a duplicate there by passing a null data pointer.
func (v *Video) SetSkipDuplicateFrames(skip bool) {
	v.skipDup = skip
	v.lastFrameHash = 0
}

// SetContentAspect overrides the layout's content aspect ratio; used when
// the core negotiates an explicit aspect instead of the frame's pixel ratio.
func (v *Video) SetContentAspect(aspect float64) {
	v.layout.SetContentAspect(aspect)
}

// SetRotationRadians forwards a rotation given in radians, quantized to the
// nearest quarter turn.
func (v *Video) SetRotationRadians(rad float64) {
	quarter := int(rad/(3.14159265/2) + 0.5)
	v.layout.SetRotation(Rotation(((quarter % 4) + 4) % 4))
}

// FramebufferID exposes the HW path's FBO id to the core via
// get_current_framebuffer.
func (v *Video) FramebufferID() uint32 { return v.renderer.FramebufferID() }

// UpdateScreenSize implements on_surface_changed's forward target.
func (v *Video) UpdateScreenSize(w, h int) {
	v.layout.SetScreenSize(w, h)
}

// UpdateViewport updates the sub-rectangle of the screen Video draws into.
func (v *Video) UpdateViewport(r Rect) {
	v.layout.SetViewport(r)
}

// SetRotation forwards a SET_ROTATION negotiation to the layout.
func (v *Video) SetRotation(quarterTurns int) {
	v.layout.SetRotation(Rotation(quarterTurns % 4))
}

// GetRelativePosition maps a touch point to normalized content UV, or the
// out-of-bounds sentinel.
func (v *Video) GetRelativePosition(x, y float64) (float64, float64) {
	return v.layout.GetRelativePosition(x, y)
}

// SetShaderConfig rebuilds the shader chain on the next RenderFrame call;
// never applied mid-frame.
func (v *Video) SetShaderConfig(cfg Config) {
	v.shaderConfig = cfg
	v.dirty = true
}

// RenderFrame runs the shader chain over the renderer's current texture,
// then binds and clears the default framebuffer, composites the ambient
// background (if enabled) and draws the final foreground quad with the
// layout's rotation/aspect-correct transform.
func (v *Video) RenderFrame(bottomLeftOrigin bool) error {
	if v.dirty {
		if err := v.rebuildChain(); err != nil {
			return err
		}
		v.dirty = false
	}

	// Run the shader passes into their FBOs first; they leave the
	// framebuffer binding and viewport dirty, so the screen is bound after.
	finalTex := v.chain.Render(v.renderer.Texture(), v.contentW, v.contentH)

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(v.layout.screenW), int32(v.layout.screenH))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if v.ambient && v.bg != nil {
		v.bg.Update(finalTex)
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, int32(v.layout.screenW), int32(v.layout.screenH))
		v.drawBackground()
	}

	v.drawForeground(finalTex, bottomLeftOrigin)
	return nil
}

func (v *Video) rebuildChain() error {
	if v.chain != nil {
		v.chain.Destroy()
	}
	chain, err := v.manager.Build(v.shaderConfig, v.layout.screenW, v.layout.screenH)
	if err != nil {
		return err
	}
	v.chain = chain
	return nil
}

// drawBackground paints the ambient backdrop across the whole screen,
// anchored to the foreground quad's bounding rect so the mirrored edge
// extension leaks outward from the letterbox.
func (v *Video) drawBackground() {
	v.bg.Draw(v.foregroundBoundsUV())
}

// foregroundBoundsUV converts the layout's pixel-space bounding rect (y
// down from the top) into GL screen UV space (v up from the bottom).
func (v *Video) foregroundBoundsUV() [4]float32 {
	minX, minY, maxX, maxY := v.layout.Bounds()
	w := float64(v.layout.screenW)
	h := float64(v.layout.screenH)
	if w <= 0 || h <= 0 {
		return [4]float32{0, 0, 1, 1}
	}
	return [4]float32{
		float32(minX / w),
		float32(1 - maxY/h),
		float32(maxX / w),
		float32(1 - minY/h),
	}
}

func (v *Video) drawForeground(texture uint32, bottomLeftOrigin bool) {
	gl.UseProgram(v.manager.blitProgram())
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	q := v.layout.Quad()
	if !bottomLeftOrigin {
		q = flipY(q)
	}
	v.uploadQuad(q)
	gl.BindVertexArray(v.fgVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

func flipY(q Quad) Quad {
	out := q
	for i := 1; i < len(out); i += 2 {
		out[i] = -out[i]
	}
	return out
}

// uploadQuad streams the rotated/flipped foreground quad into the dynamic
// vertex buffer backing fgVAO for this frame's final draw.
func (v *Video) uploadQuad(q Quad) {
	gl.BindBuffer(gl.ARRAY_BUFFER, v.fgVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(q)*4, gl.Ptr(&q[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// ReadRGBA reads back the default framebuffer as tightly packed RGBA8, for
// optional capture via a FrameRecorder. A synchronous glReadPixels is enough
// here; capture is diagnostic, not the steady-state render path.
func (v *Video) ReadRGBA() []byte {
	w, h := v.layout.screenW, v.layout.screenH
	buf := make([]byte, w*h*4)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(buf))
	return buf
}

// ScreenSize returns the layout's current screen dimensions.
func (v *Video) ScreenSize() (int, int) { return v.layout.screenW, v.layout.screenH }

// Destroy releases all GL resources owned by Video.
func (v *Video) Destroy() {
	if v.chain != nil {
		v.chain.Destroy()
	}
	if v.bg != nil {
		v.bg.Destroy()
	}
	v.renderer.Destroy()
	gl.DeleteVertexArrays(1, &v.quadVAO)
	gl.DeleteVertexArrays(1, &v.fgVAO)
	gl.DeleteBuffers(1, &v.quadVBO)
	gl.DeleteBuffers(1, &v.fgVBO)
}
