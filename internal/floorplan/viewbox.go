package floorplan

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ViewBox is an SVG viewBox: the user-space rectangle mapped onto the viewport.
type ViewBox struct {
	MinX, MinY, Width, Height float64
}

// DefaultViewBox is used when the artwork has no viewBox and its bounds
// cannot be computed.
var DefaultViewBox = ViewBox{MinX: 0, MinY: 0, Width: 1000, Height: 1000}

// ParseViewBox parses "minx miny width height" with space or comma separators.
func ParseViewBox(s string) (ViewBox, error) {
	nums, err := parseNumberList(s)
	if err != nil {
		return ViewBox{}, fmt.Errorf("invalid viewBox %q: %w", s, err)
	}
	if len(nums) != 4 {
		return ViewBox{}, fmt.Errorf("invalid viewBox %q: want 4 numbers, got %d", s, len(nums))
	}
	vb := ViewBox{MinX: nums[0], MinY: nums[1], Width: nums[2], Height: nums[3]}
	if vb.Width <= 0 || vb.Height <= 0 {
		return ViewBox{}, fmt.Errorf("invalid viewBox %q: width and height must be positive", s)
	}
	return vb, nil
}

func (v ViewBox) String() string {
	return fmt.Sprintf("%s %s %s %s", formatNumber(v.MinX), formatNumber(v.MinY), formatNumber(v.Width), formatNumber(v.Height))
}

// Rect returns the viewBox as a bounding rectangle.
func (v ViewBox) Rect() Rect {
	return Rect{MinX: v.MinX, MinY: v.MinY, MaxX: v.MinX + v.Width, MaxY: v.MinY + v.Height, valid: true}
}

// Rect is an axis-aligned bounding box. The zero value is empty.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
	valid                  bool
}

func (r Rect) Empty() bool {
	return !r.valid
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Add extends the rectangle to include the point.
func (r Rect) Add(x, y float64) Rect {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return r
	}
	if !r.valid {
		return Rect{MinX: x, MinY: y, MaxX: x, MaxY: y, valid: true}
	}
	r.MinX = math.Min(r.MinX, x)
	r.MinY = math.Min(r.MinY, y)
	r.MaxX = math.Max(r.MaxX, x)
	r.MaxY = math.Max(r.MaxY, y)
	return r
}

// Union returns the smallest rectangle containing both.
func (r Rect) Union(o Rect) Rect {
	if o.Empty() {
		return r
	}
	return r.Add(o.MinX, o.MinY).Add(o.MaxX, o.MaxY)
}

// Contains reports whether o lies within r, allowing a small tolerance.
func (r Rect) Contains(o Rect) bool {
	const eps = 1e-9
	return o.MinX >= r.MinX-eps && o.MinY >= r.MinY-eps && o.MaxX <= r.MaxX+eps && o.MaxY <= r.MaxY+eps
}

// ViewBox converts the bounds into a viewBox. Degenerate extents get a
// minimum size of one unit.
func (r Rect) ViewBox() ViewBox {
	w, h := r.Width(), r.Height()
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return ViewBox{MinX: r.MinX, MinY: r.MinY, Width: w, Height: h}
}

func formatNumber(f float64) string {
	f = math.Round(f*10000) / 10000
	if f == 0 {
		f = 0 // normalise -0
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// parseLength reads a plain or px-suffixed length. Percentages and other
// units are rejected.
func parseLength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseNumberList splits an SVG number list such as "0,0 10 -5.5e1".
func parseNumberList(s string) ([]float64, error) {
	sc := newNumberScanner(s)
	var out []float64
	for {
		sc.skipSeparators()
		if sc.done() {
			return out, nil
		}
		f, ok := sc.number()
		if !ok {
			return nil, fmt.Errorf("unexpected %q at offset %d", sc.s[sc.pos], sc.pos)
		}
		out = append(out, f)
	}
}
