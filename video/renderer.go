package video

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/retrocore/hostruntime/environment"
)

// Renderer is the small sw-vs-hw dispatch trait: a handful of methods
// picked once at create/surface-created time instead of a branching type
// switch scattered through Video.
type Renderer interface {
	// OnNewFrame hands the core's video-refresh callback payload to the
	// renderer. For the SW path data holds raw pixels; for the HW path
	// data is nil (the core already rendered into the FBO this renderer
	// exposed via FramebufferID).
	OnNewFrame(data []byte, width, height, pitch int, format environment.PixelFormat)
	// Texture returns the GL texture holding the most recent frame,
	// suitable for sampling by a shader chain's first pass.
	Texture() uint32
	// FramebufferID exposes the FBO hardware-accelerated cores should
	// render into; zero for the SW path.
	FramebufferID() uint32
	Destroy()
}

// ImageRenderer is the software path: it owns a single GL texture,
// recreated whenever the frame size changes, and uploads CPU pixel buffers,
// format-converting as needed.
type ImageRenderer struct {
	texture uint32
	width, height int
	scratch []byte // ORGB1555->RGB565 / XRGB8888 swizzle scratch space
}

// NewImageRenderer constructs an ImageRenderer with no texture allocated
// yet; the first OnNewFrame call allocates it.
func NewImageRenderer() *ImageRenderer {
	ir := &ImageRenderer{}
	gl.GenTextures(1, &ir.texture)
	return ir
}

// OnNewFrame implements Renderer. ORGB1555 is rewritten in place widening
// the 5-bit green channel to 6 bits to match RGB565's layout; XRGB8888 has
// its R/B channels swapped in CPU for GLES2 targets lacking texture
// swizzle support.
func (ir *ImageRenderer) OnNewFrame(data []byte, width, height, pitch int, format environment.PixelFormat) {
	if data == nil || width <= 0 || height <= 0 {
		return
	}
	if width != ir.width || height != ir.height {
		ir.width, ir.height = width, height
		gl.BindTexture(gl.TEXTURE_2D, ir.texture)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	}

	var internalFormat int32
	var glFormat, glType uint32
	switch format {
	case environment.PixelFormatRGB565:
		internalFormat, glFormat, glType = gl.RGB565, gl.RGB, gl.UNSIGNED_SHORT_5_6_5
	case environment.PixelFormatORGB1555:
		ir.widenORGB1555(data, width, height, pitch)
		internalFormat, glFormat, glType = gl.RGB565, gl.RGB, gl.UNSIGNED_SHORT_5_6_5
	default: // XRGB8888
		ir.swizzleXRGB8888(data, width, height, pitch)
		internalFormat, glFormat, glType = gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE
	}

	bytesPerPixel := bytesPerPixelFor(format)
	rowLength := pitch / bytesPerPixel
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(rowLength))
	gl.BindTexture(gl.TEXTURE_2D, ir.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, int32(width), int32(height), 0, glFormat, glType, gl.Ptr(data))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func bytesPerPixelFor(format environment.PixelFormat) int {
	if format == environment.PixelFormatXRGB8888 {
		return 4
	}
	return 2
}

// widenORGB1555 rewrites 0RGB1555 pixels in place into RGB565 layout,
// widening the missing low green bit by repeating the top bit.
func (ir *ImageRenderer) widenORGB1555(data []byte, width, height, pitch int) {
	for y := 0; y < height; y++ {
		row := data[y*pitch : y*pitch+width*2]
		for x := 0; x < width; x++ {
			px := uint16(row[x*2]) | uint16(row[x*2+1])<<8
			r := (px >> 10) & 0x1F
			g := (px >> 5) & 0x1F
			b := px & 0x1F
			g6 := (g << 1) | (g >> 4)
			out := (r << 11) | (g6 << 5) | b
			row[x*2] = byte(out)
			row[x*2+1] = byte(out >> 8)
		}
	}
}

// swizzleXRGB8888 swaps the R and B byte lanes of each 0xAARRGGBB-ordered
// little-endian pixel (stored BB GG RR XX in memory), producing RGBA8 byte
// order in place.
func (ir *ImageRenderer) swizzleXRGB8888(data []byte, width, height, pitch int) {
	for y := 0; y < height; y++ {
		row := data[y*pitch : y*pitch+width*4]
		for x := 0; x < width; x++ {
			b := row[x*4]
			r := row[x*4+2]
			row[x*4] = r
			row[x*4+2] = b
		}
	}
}

// Texture implements Renderer.
func (ir *ImageRenderer) Texture() uint32 { return ir.texture }

// FramebufferID implements Renderer; the SW path has no FBO for the core.
func (ir *ImageRenderer) FramebufferID() uint32 { return 0 }

// Destroy implements Renderer.
func (ir *ImageRenderer) Destroy() {
	gl.DeleteTextures(1, &ir.texture)
}

// FramebufferRenderer is the hardware path: it owns a color texture (and
// an optional depth/stencil renderbuffer) bound to an FBO the core renders
// into directly via SET_HW_RENDER's get_current_framebuffer.
type FramebufferRenderer struct {
	fbo uint32
	textureID uint32
	depthRenderbuffer uint32
	width, height int
	useDepth bool
	useStencil bool
}

// NewFramebufferRenderer allocates the FBO, color texture and (if
// requested) a depth/stencil renderbuffer at (width, height).
func NewFramebufferRenderer(width, height int, useDepth, useStencil bool) (*FramebufferRenderer, error) {
	fr := &FramebufferRenderer{width: width, height: height, useDepth: useDepth, useStencil: useStencil}
	gl.GenFramebuffers(1, &fr.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fr.fbo)

	gl.GenTextures(1, &fr.textureID)
	gl.BindTexture(gl.TEXTURE_2D, fr.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fr.textureID, 0)

	if useDepth || useStencil {
		gl.GenRenderbuffers(1, &fr.depthRenderbuffer)
		gl.BindRenderbuffer(gl.RENDERBUFFER, fr.depthRenderbuffer)
		storage := uint32(gl.DEPTH_COMPONENT16)
		attachment := uint32(gl.DEPTH_ATTACHMENT)
		if useStencil {
			storage = gl.DEPTH24_STENCIL8
			attachment = gl.DEPTH_STENCIL_ATTACHMENT
		}
		gl.RenderbufferStorage(gl.RENDERBUFFER, storage, int32(width), int32(height))
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, attachment, gl.RENDERBUFFER, fr.depthRenderbuffer)
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return fr, nil
}

// OnNewFrame implements Renderer as a no-op: the core has already rendered
// directly into this renderer's FBO.
func (fr *FramebufferRenderer) OnNewFrame([]byte, int, int, int, environment.PixelFormat) {}

// Texture implements Renderer.
func (fr *FramebufferRenderer) Texture() uint32 { return fr.textureID }

// FramebufferID implements Renderer.
func (fr *FramebufferRenderer) FramebufferID() uint32 { return fr.fbo }

// Resize reallocates the color/depth attachments for a new size, called
// when the surface's framebuffer size changes.
func (fr *FramebufferRenderer) Resize(width, height int) {
	fr.width, fr.height = width, height
	gl.BindTexture(gl.TEXTURE_2D, fr.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	if fr.depthRenderbuffer != 0 {
		gl.BindRenderbuffer(gl.RENDERBUFFER, fr.depthRenderbuffer)
		storage := uint32(gl.DEPTH_COMPONENT16)
		if fr.useStencil {
			storage = gl.DEPTH24_STENCIL8
		}
		gl.RenderbufferStorage(gl.RENDERBUFFER, storage, int32(width), int32(height))
	}
}

// Destroy implements Renderer.
func (fr *FramebufferRenderer) Destroy() {
	gl.DeleteFramebuffers(1, &fr.fbo)
	gl.DeleteTextures(1, &fr.textureID)
	if fr.depthRenderbuffer != 0 {
		gl.DeleteRenderbuffers(1, &fr.depthRenderbuffer)
	}
}
