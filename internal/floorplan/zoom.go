package floorplan

import (
	"fmt"
	"math"
)

const (
	DefaultMinScale     = 0.1
	DefaultMaxScale     = 4.0
	DefaultInitialScale = 0.9
)

// Transform is a pan/zoom transform: p' = K*p + (X, Y).
type Transform struct {
	X, Y, K float64
}

// Identity is the transform that leaves content untouched.
var Identity = Transform{K: 1}

func (t Transform) String() string {
	return fmt.Sprintf("translate(%s,%s) scale(%s)", formatNumber(t.X), formatNumber(t.Y), formatNumber(t.K))
}

// Apply maps a content point into viewport space.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t.K*x + t.X, t.K*y + t.Y
}

// ApplyRect maps a content rectangle into viewport space.
func (t Transform) ApplyRect(r Rect) Rect {
	if r.Empty() {
		return r
	}
	var out Rect
	out = out.Add(t.Apply(r.MinX, r.MinY))
	out = out.Add(t.Apply(r.MaxX, r.MaxY))
	return out
}

// Viewport tracks the pan/zoom transform within a scale range.
type Viewport struct {
	MinScale float64
	MaxScale float64
	t        Transform
}

func NewViewport(minScale, maxScale float64) *Viewport {
	if minScale <= 0 {
		minScale = DefaultMinScale
	}
	if maxScale <= 0 {
		maxScale = DefaultMaxScale
	}
	if maxScale < minScale {
		maxScale = minScale
	}
	return &Viewport{MinScale: minScale, MaxScale: maxScale, t: Identity}
}

func (v *Viewport) Transform() Transform {
	return v.t
}

func (v *Viewport) clamp(k float64) float64 {
	return math.Max(v.MinScale, math.Min(v.MaxScale, k))
}

// Fit scales content about the centre of vb so that it keeps a margin of
// (1-scale)/2 on every side.
func (v *Viewport) Fit(vb ViewBox, scale float64) Transform {
	k := v.clamp(scale)
	cx := vb.MinX + vb.Width/2
	cy := vb.MinY + vb.Height/2
	v.t = Transform{X: cx * (1 - k), Y: cy * (1 - k), K: k}
	return v.t
}

// Pan translates by (dx, dy) in viewport units.
func (v *Viewport) Pan(dx, dy float64) Transform {
	v.t.X += dx
	v.t.Y += dy
	return v.t
}

// ZoomAt multiplies the scale by factor, keeping the viewport point
// (cx, cy) fixed. The scale is clamped to [MinScale, MaxScale].
func (v *Viewport) ZoomAt(factor, cx, cy float64) Transform {
	if factor <= 0 {
		return v.t
	}
	k := v.clamp(v.t.K * factor)
	ratio := k / v.t.K
	v.t = Transform{
		X: cx - (cx-v.t.X)*ratio,
		Y: cy - (cy-v.t.Y)*ratio,
		K: k,
	}
	return v.t
}

// Set replaces the transform, clamping its scale.
func (v *Viewport) Set(t Transform) Transform {
	t.K = v.clamp(t.K)
	v.t = t
	return v.t
}
