package video

import "math"

// Rect is an axis-aligned viewport sub-rectangle in pixels.
type Rect struct {
	X, Y, W, H int
}

// Rotation is a quarter-turn count, the same units as the index
// environment.SetRotationQuarterTurns takes (environment.Rotation itself
// reports radians).
type Rotation int

const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

// Quad is a 6-vertex (two-triangle) clip-space quad, position-only: each
// vertex is an (x, y) pair in [-1, 1] clip space.
type Quad [12]float32

// Layout computes the foreground content quad from screen size, content
// aspect ratio, rotation and viewport sub-rect. The four are independent
// inputs; any update recomputes the full quad, so update order never
// matters.
type Layout struct {
	screenW, screenH int
	contentAspect float64
	rotation Rotation
	viewport Rect

	quad Quad
	bounds [4]float64
}

// NewLayout constructs a Layout and computes its initial quad.
func NewLayout(screenW, screenH int, contentAspect float64) *Layout {
	l := &Layout{
		screenW: screenW,
		screenH: screenH,
		contentAspect: contentAspect,
		viewport: Rect{0, 0, screenW, screenH},
	}
	l.recompute()
	return l
}

// SetScreenSize updates the screen dimensions and recomputes the quad.
func (l *Layout) SetScreenSize(w, h int) {
	l.screenW, l.screenH = w, h
	if l.viewport == (Rect{}) {
		l.viewport = Rect{0, 0, w, h}
	}
	l.recompute()
}

// SetContentAspect updates the content's aspect ratio and recomputes.
func (l *Layout) SetContentAspect(aspect float64) {
	if aspect <= 0 {
		aspect = 1
	}
	l.contentAspect = aspect
	l.recompute()
}

// SetRotation updates the rotation and recomputes.
func (l *Layout) SetRotation(r Rotation) {
	l.rotation = r
	l.recompute()
}

// SetViewport updates the viewport sub-rect and recomputes.
func (l *Layout) SetViewport(r Rect) {
	l.viewport = r
	l.recompute()
}

// Quad returns the current foreground quad in clip space.
func (l *Layout) Quad() Quad { return l.quad }

// Bounds returns the bounding axis-aligned rect (in pixels, relative to the
// full screen) of the rotated, letterboxed content.
func (l *Layout) Bounds() (minX, minY, maxX, maxY float64) {
	return l.bounds[0], l.bounds[1], l.bounds[2], l.bounds[3]
}

func (l *Layout) recompute() {
	vp := l.viewport
	if vp.W <= 0 || vp.H <= 0 {
		vp = Rect{0, 0, l.screenW, l.screenH}
	}
	aspect := l.contentAspect
	if aspect <= 0 {
		aspect = 1
	}

	// Letterbox: fit content aspect inside the viewport, then account for
	// a 90/270 rotation swapping which screen axis the content's width
	// maps to.
	effectiveAspect := aspect
	if l.rotation == Rotation90 || l.rotation == Rotation270 {
		effectiveAspect = 1 / aspect
	}

	vpAspect := float64(vp.W) / float64(vp.H)
	var contentW, contentH float64
	if effectiveAspect > vpAspect {
		contentW = float64(vp.W)
		contentH = contentW / effectiveAspect
	} else {
		contentH = float64(vp.H)
		contentW = contentH * effectiveAspect
	}

	centerX := float64(vp.X) + float64(vp.W)/2
	centerY := float64(vp.Y) + float64(vp.H)/2

	// contentW/contentH are already the on-screen extents (effectiveAspect
	// accounts for the rotation), so they give the bounding AABB directly.
	halfW, halfH := contentW/2, contentH/2
	l.bounds = [4]float64{centerX - halfW, centerY - halfH, centerX + halfW, centerY + halfH}

	// Build the quad in the content's own (unrotated) frame, whose width and
	// height are the on-screen extents swapped for odd quarter-turns, then
	// rotate each corner by rotation*90deg about the center, then convert to
	// clip space.
	hw, hh := contentW/2, contentH/2
	if l.rotation == Rotation90 || l.rotation == Rotation270 {
		hw, hh = hh, hw
	}
	corners := [4][2]float64{
		{-hw, hh}, {-hw, -hh}, {hw, -hh}, {hw, hh},
	}
	theta := float64(l.rotation) * math.Pi / 2
	sin, cos := math.Sin(theta), math.Cos(theta)
	for i, c := range corners {
		rx := c[0]*cos - c[1]*sin
		ry := c[0]*sin + c[1]*cos
		px := centerX + rx
		py := centerY + ry
		corners[i] = [2]float64{
			px/float64(l.screenW)*2 - 1,
			1 - py/float64(l.screenH)*2,
		}
	}
	// Two triangles: (0,1,2) and (0,2,3), matching quadVertices' winding.
	idx := [6]int{0, 1, 2, 0, 2, 3}
	for i, ci := range idx {
		l.quad[i*2] = float32(corners[ci][0])
		l.quad[i*2+1] = float32(corners[ci][1])
	}
}

// GetRelativePosition maps a touch point in screen pixels to normalized
// (u, v) content coordinates in [0,1]^2, or the sentinel (-10, -10) if the
// touch lies outside the content's bounding rect.
func (l *Layout) GetRelativePosition(touchX, touchY float64) (float64, float64) {
	minX, minY, maxX, maxY := l.bounds[0], l.bounds[1], l.bounds[2], l.bounds[3]
	if touchX < minX || touchX > maxX || touchY < minY || touchY > maxY {
		return -10, -10
	}
	u := (touchX - minX) / (maxX - minX)
	v := (touchY - minY) / (maxY - minY)
	return u, v
}
