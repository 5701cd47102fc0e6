package video

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func aabbFromQuad(q Quad, screenW, screenH int) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for i := 0; i < 6; i++ {
		x := (float64(q[i*2]) + 1) / 2 * float64(screenW)
		y := (1 - float64(q[i*2+1])) / 2 * float64(screenH)
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return
}

func TestLayoutQuadInsideViewportAndPreservesAspect(t *testing.T) {
	rotations := []Rotation{Rotation0, Rotation90, Rotation180, Rotation270}
	aspects := []float64{4.0 / 3.0, 16.0 / 9.0, 1.0, 0.5}
	for _, r := range rotations {
		for _, a := range aspects {
			l := NewLayout(1920, 1080, a)
			l.SetRotation(r)

			minX, minY, maxX, maxY := aabbFromQuad(l.Quad(), 1920, 1080)
			assert.GreaterOrEqual(t, minX, -1e-3)
			assert.GreaterOrEqual(t, minY, -1e-3)
			assert.LessOrEqual(t, maxX, 1920+1e-3)
			assert.LessOrEqual(t, maxY, 1080+1e-3)

			w, h := maxX-minX, maxY-minY
			gotAspect := w / h
			wantAspect := a
			if r == Rotation90 || r == Rotation270 {
				wantAspect = 1 / a
			}
			assert.InDelta(t, wantAspect, gotAspect, 1e-3)
		}
	}
}

func TestLayoutUpdateOrderIndependent(t *testing.T) {
	a := NewLayout(800, 600, 16.0/9.0)
	a.SetRotation(Rotation90)
	a.SetContentAspect(4.0 / 3.0)
	a.SetScreenSize(1024, 768)

	b := NewLayout(800, 600, 16.0/9.0)
	b.SetScreenSize(1024, 768)
	b.SetContentAspect(4.0 / 3.0)
	b.SetRotation(Rotation90)

	assert.Equal(t, a.Quad(), b.Quad())
}

func TestGetRelativePositionInsideAndOutside(t *testing.T) {
	l := NewLayout(800, 600, 4.0/3.0)
	minX, minY, maxX, maxY := l.Bounds()
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	u, v := l.GetRelativePosition(cx, cy)
	assert.InDelta(t, 0.5, u, 1e-6)
	assert.InDelta(t, 0.5, v, 1e-6)

	u, v = l.GetRelativePosition(-100, -100)
	assert.Equal(t, -10.0, u)
	assert.Equal(t, -10.0, v)
}

func TestForegroundBoundsUVFlipsVertically(t *testing.T) {
	// 4:3 content on a 16:9 screen pillarboxes horizontally and spans the
	// full height.
	v := &Video{layout: NewLayout(1920, 1080, 4.0/3.0)}
	b := v.foregroundBoundsUV()
	assert.InDelta(t, 0.125, float64(b[0]), 1e-3)
	assert.InDelta(t, 0.0, float64(b[1]), 1e-3)
	assert.InDelta(t, 0.875, float64(b[2]), 1e-3)
	assert.InDelta(t, 1.0, float64(b[3]), 1e-3)
}
