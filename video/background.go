package video

import (
	"math"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// backgroundSize is the ping-pong FBO side length: a tiny backdrop that
// gets magnified and blurred on display.
const backgroundSize = 8

// backgroundBlendCoeff is the temporal-smoothing blend weight applied to
// each new frame.
const backgroundBlendCoeff = 0.1

const blurTaps = 7

// Background renders a temporally-smoothed, blurred, mirrored
// edge-extended ambient backdrop behind the foreground content quad,
// accumulating each frame into a tiny ping-pong FBO pair before blurring.
type Background struct {
	fbos [2]uint32
	textures [2]uint32
	current int

	blurProgram uint32
	blendProgram uint32
	displayProgram uint32
	quadVAO uint32
	kernel [blurTaps]float32
	brightnessFactor float32
}

// NewBackground allocates the ping-pong FBOs and compiles the blend/blur
// programs. quadVAO is the shared fullscreen-quad vertex array.
func NewBackground(quadVAO uint32) (*Background, error) {
	b := &Background{quadVAO: quadVAO, brightnessFactor: 1.15}
	for i := 0; i < 2; i++ {
		b.fbos[i], b.textures[i] = newPassFBO(backgroundSize, backgroundSize)
		// Mirrored wrap is what makes the edge extension work: Draw's UV
		// remap samples past [0,1] outside the foreground rect, and the
		// sampler reflects the content outward instead of clamping or
		// tiling it.
		gl.BindTexture(gl.TEXTURE_2D, b.textures[i])
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.MIRRORED_REPEAT)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.MIRRORED_REPEAT)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	b.kernel = gaussianKernel(blurTaps, float64(blurTaps)/3)

	var err error
	b.blendProgram, err = newProgram(vertexShaderSource, backgroundBlendFragmentSource)
	if err != nil {
		return nil, err
	}
	b.blurProgram, err = newProgram(vertexShaderSource, backgroundBlurFragmentSource)
	if err != nil {
		return nil, err
	}
	b.displayProgram, err = newProgram(vertexShaderSource, backgroundDisplayFragmentSource)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Destroy releases the background's GL objects.
func (b *Background) Destroy() {
	gl.DeleteFramebuffers(2, &b.fbos[0])
	gl.DeleteTextures(2, &b.textures[0])
	gl.DeleteProgram(b.blendProgram)
	gl.DeleteProgram(b.blurProgram)
	gl.DeleteProgram(b.displayProgram)
}

// Update blends frameTexture into the current ping-pong buffer, then runs
// two separable Gaussian blur passes (horizontal then vertical) into the
// other buffer, leaving that buffer as current.
func (b *Background) Update(frameTexture uint32) {
	prev := b.textures[b.current]
	next := 1 - b.current

	gl.BindFramebuffer(gl.FRAMEBUFFER, b.fbos[next])
	gl.Viewport(0, 0, backgroundSize, backgroundSize)
	gl.UseProgram(b.blendProgram)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, frameTexture)
	setUniformIfPresent(b.blendProgram, "u_newFrame", func(loc int32) { gl.Uniform1i(loc, 0) })
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, prev)
	setUniformIfPresent(b.blendProgram, "u_prevFrame", func(loc int32) { gl.Uniform1i(loc, 1) })
	setUniformIfPresent(b.blendProgram, "u_blend", func(loc int32) { gl.Uniform1f(loc, backgroundBlendCoeff) })
	gl.BindVertexArray(b.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)

	// The separable blur ping-pongs between the two buffers so no pass ever
	// samples the texture it is rendering into: horizontal reads the fresh
	// blend out of next into the other buffer, vertical reads it back.
	b.blurPass(b.textures[next], b.fbos[b.current], [2]float32{1, 0})
	b.blurPass(b.textures[b.current], b.fbos[next], [2]float32{0, 1})

	b.current = next
}

// blurPass runs one separable blur pass from srcTexture into dstFBO.
func (b *Background) blurPass(srcTexture, dstFBO uint32, direction [2]float32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, dstFBO)
	gl.Viewport(0, 0, backgroundSize, backgroundSize)
	gl.UseProgram(b.blurProgram)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, srcTexture)
	setUniformIfPresent(b.blurProgram, "u_texture", func(loc int32) { gl.Uniform1i(loc, 0) })
	setUniformIfPresent(b.blurProgram, "u_direction", func(loc int32) { gl.Uniform2f(loc, direction[0], direction[1]) })
	setUniformIfPresent(b.blurProgram, "u_texelSize", func(loc int32) {
		gl.Uniform2f(loc, 1.0/backgroundSize, 1.0/backgroundSize)
	})
	for i, w := range b.kernel {
		setUniformIfPresent(b.blurProgram, uniformIndexName("u_kernel", i), func(loc int32) { gl.Uniform1f(loc, w) })
	}
	setUniformIfPresent(b.blurProgram, "u_brightness", func(loc int32) { gl.Uniform1f(loc, b.brightnessFactor) })
	gl.BindVertexArray(b.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

// Texture returns the current backdrop texture to sample when drawing the
// background behind the foreground quad.
func (b *Background) Texture() uint32 { return b.textures[b.current] }

// Draw fills the screen with the backdrop. bounds is the foreground quad's
// bounding rect in screen UV space (minU, minV, maxU, maxV): the rect maps
// onto the backdrop's [0,1] texture range, so everything outside it samples
// beyond the edge and the mirrored wrap extends the content past the
// letterbox. The same rect drives the soft shadow hugging the foreground.
func (b *Background) Draw(bounds [4]float32) {
	gl.UseProgram(b.displayProgram)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, b.textures[b.current])
	setUniformIfPresent(b.displayProgram, "u_texture", func(loc int32) { gl.Uniform1i(loc, 0) })
	setUniformIfPresent(b.displayProgram, "u_bounds", func(loc int32) {
		gl.Uniform4f(loc, bounds[0], bounds[1], bounds[2], bounds[3])
	})
	gl.BindVertexArray(b.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

func uniformIndexName(base string, i int) string {
	const digits = "0123456789"
	if i < 10 {
		return base + "[" + string(digits[i]) + "]"
	}
	return base
}

// gaussianKernel builds a normalized, odd-length 1D Gaussian kernel.
func gaussianKernel(taps int, sigma float64) [blurTaps]float32 {
	var k [blurTaps]float32
	half := taps / 2
	var sum float64
	vals := make([]float64, taps)
	for i := 0; i < taps; i++ {
		x := float64(i - half)
		v := math.Exp(-(x * x) / (2 * sigma * sigma))
		vals[i] = v
		sum += v
	}
	for i, v := range vals {
		k[i] = float32(v / sum)
	}
	return k
}

const backgroundDisplayFragmentSource = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
uniform vec4 u_bounds;
void main() {
 vec2 size = max(u_bounds.zw - u_bounds.xy, vec2(0.001));
 vec2 uv = (frag_uv - u_bounds.xy) / size;
 vec4 c = texture(u_texture, uv);
 vec2 d = max(max(u_bounds.xy - frag_uv, frag_uv - u_bounds.zw), vec2(0.0));
 float shadow = mix(0.45, 1.0, smoothstep(0.0, 0.06, length(d)));
 fragColor = vec4(c.rgb * shadow, c.a);
}
`

const backgroundBlendFragmentSource = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_newFrame;
uniform sampler2D u_prevFrame;
uniform float u_blend;
void main() {
 vec4 n = texture(u_newFrame, frag_uv);
 vec4 p = texture(u_prevFrame, frag_uv);
 fragColor = mix(p, n, u_blend);
}
`

const backgroundBlurFragmentSource = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
uniform vec2 u_direction;
uniform vec2 u_texelSize;
uniform float u_kernel[7];
uniform float u_brightness;
void main() {
 vec4 sum = vec4(0.0);
 for (int i = 0; i < 7; i++) {
 float offset = float(i - 3);
 vec2 uv = frag_uv + u_direction * u_texelSize * offset;
 sum += texture(u_texture, uv) * u_kernel[i];
 }
 fragColor = vec4(sum.rgb * u_brightness, sum.a);
}
`
