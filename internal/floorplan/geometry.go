package floorplan

import (
	"math"
	"strings"

	"golang.org/x/net/html"
)

// matrix is an SVG affine transform [a c e; b d f; 0 0 1].
type matrix struct {
	a, b, c, d, e, f float64
}

var identity = matrix{a: 1, d: 1}

func (m matrix) mul(o matrix) matrix {
	return matrix{
		a: m.a*o.a + m.c*o.b,
		b: m.b*o.a + m.d*o.b,
		c: m.a*o.c + m.c*o.d,
		d: m.b*o.c + m.d*o.d,
		e: m.a*o.e + m.c*o.f + m.e,
		f: m.b*o.e + m.d*o.f + m.f,
	}
}

func (m matrix) apply(x, y float64) (float64, float64) {
	return m.a*x + m.c*y + m.e, m.b*x + m.d*y + m.f
}

// parseTransform parses a transform attribute. Unknown functions are
// ignored; a malformed list yields the transforms parsed so far.
func parseTransform(s string) matrix {
	m := identity
	rest := strings.TrimSpace(s)
	for rest != "" {
		open := strings.IndexByte(rest, '(')
		closeIdx := strings.IndexByte(rest, ')')
		if open < 0 || closeIdx < open {
			break
		}
		name := strings.TrimSpace(strings.Trim(rest[:open], " ,\t\n"))
		args, err := parseNumberList(rest[open+1 : closeIdx])
		rest = strings.TrimSpace(strings.TrimLeft(rest[closeIdx+1:], " ,\t\n"))
		if err != nil {
			break
		}
		m = m.mul(transformFunc(name, args))
	}
	return m
}

func transformFunc(name string, args []float64) matrix {
	switch name {
	case "translate":
		if len(args) == 1 {
			return matrix{a: 1, d: 1, e: args[0]}
		}
		if len(args) >= 2 {
			return matrix{a: 1, d: 1, e: args[0], f: args[1]}
		}
	case "scale":
		if len(args) == 1 {
			return matrix{a: args[0], d: args[0]}
		}
		if len(args) >= 2 {
			return matrix{a: args[0], d: args[1]}
		}
	case "matrix":
		if len(args) == 6 {
			return matrix{a: args[0], b: args[1], c: args[2], d: args[3], e: args[4], f: args[5]}
		}
	case "rotate":
		if len(args) >= 1 {
			rad := args[0] * math.Pi / 180
			cos, sin := math.Cos(rad), math.Sin(rad)
			rot := matrix{a: cos, b: sin, c: -sin, d: cos}
			if len(args) == 3 {
				cx, cy := args[1], args[2]
				return matrix{a: 1, d: 1, e: cx, f: cy}.mul(rot).mul(matrix{a: 1, d: 1, e: -cx, f: -cy})
			}
			return rot
		}
	case "skewX":
		if len(args) == 1 {
			return matrix{a: 1, d: 1, c: math.Tan(args[0] * math.Pi / 180)}
		}
	case "skewY":
		if len(args) == 1 {
			return matrix{a: 1, d: 1, b: math.Tan(args[0] * math.Pi / 180)}
		}
	}
	return identity
}

// nonRendered elements never contribute to the drawn bounds.
var nonRendered = map[string]bool{
	"defs": true, "clipPath": true, "mask": true, "symbol": true, "marker": true,
	"pattern": true, "linearGradient": true, "radialGradient": true, "filter": true,
	"title": true, "desc": true, "metadata": true, "style": true, "script": true,
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func lengthAttr(n *html.Node, key string) float64 {
	v, ok := attr(n, key)
	if !ok {
		return 0
	}
	f, _ := parseLength(v)
	return f
}

// contentBounds returns the bounds of everything drawn under n, in n's
// user space. n's own transform is not applied.
func contentBounds(n *html.Node) Rect {
	var r Rect
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r = r.Union(elementBounds(c, identity))
	}
	return r
}

// elementBounds returns the bounds of n and its subtree under the
// accumulated transform m.
func elementBounds(n *html.Node, m matrix) Rect {
	if n.Type != html.ElementNode || nonRendered[n.Data] {
		return Rect{}
	}
	if t, ok := attr(n, "transform"); ok {
		m = m.mul(parseTransform(t))
	}

	var r Rect
	addPoint := func(x, y float64) {
		tx, ty := m.apply(x, y)
		r = r.Add(tx, ty)
	}
	addBox := func(x, y, w, h float64) {
		if w < 0 || h < 0 {
			return
		}
		addPoint(x, y)
		addPoint(x+w, y)
		addPoint(x, y+h)
		addPoint(x+w, y+h)
	}

	switch n.Data {
	case "rect", "image", "use", "foreignObject":
		w, h := lengthAttr(n, "width"), lengthAttr(n, "height")
		if w > 0 || h > 0 {
			addBox(lengthAttr(n, "x"), lengthAttr(n, "y"), w, h)
		}
	case "circle":
		cx, cy, rad := lengthAttr(n, "cx"), lengthAttr(n, "cy"), lengthAttr(n, "r")
		addBox(cx-rad, cy-rad, 2*rad, 2*rad)
	case "ellipse":
		cx, cy := lengthAttr(n, "cx"), lengthAttr(n, "cy")
		rx, ry := lengthAttr(n, "rx"), lengthAttr(n, "ry")
		addBox(cx-rx, cy-ry, 2*rx, 2*ry)
	case "line":
		addPoint(lengthAttr(n, "x1"), lengthAttr(n, "y1"))
		addPoint(lengthAttr(n, "x2"), lengthAttr(n, "y2"))
	case "polyline", "polygon":
		if pts, ok := attr(n, "points"); ok {
			if nums, err := parseNumberList(pts); err == nil {
				for i := 0; i+1 < len(nums); i += 2 {
					addPoint(nums[i], nums[i+1])
				}
			}
		}
	case "path":
		if d, ok := attr(n, "d"); ok {
			for _, p := range pathPoints(d) {
				addPoint(p[0], p[1])
			}
		}
	case "text":
		x, xok := attr(n, "x")
		y, yok := attr(n, "y")
		if xok || yok {
			fx, _ := firstNumber(x)
			fy, _ := firstNumber(y)
			addPoint(fx, fy)
		}
	}

	if n.Data == "use" || n.Data == "image" || n.Data == "foreignObject" {
		return r
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r = r.Union(elementBounds(c, m))
	}
	return r
}

func firstNumber(s string) (float64, bool) {
	nums, err := parseNumberList(s)
	if err != nil || len(nums) == 0 {
		return 0, false
	}
	return nums[0], true
}

// ancestorMatrix accumulates the transforms of n's ancestors up to, but
// excluding, root.
func ancestorMatrix(n, root *html.Node) matrix {
	var chain []*html.Node
	for p := n.Parent; p != nil && p != root; p = p.Parent {
		chain = append(chain, p)
	}
	m := identity
	for i := len(chain) - 1; i >= 0; i-- {
		if t, ok := attr(chain[i], "transform"); ok {
			m = m.mul(parseTransform(t))
		}
	}
	return m
}

// pathPoints returns the end and control points of path data. Control
// points make the box conservative for curves; arcs contribute their end
// points and the extremes of their radii around the chord midpoint.
func pathPoints(d string) [][2]float64 {
	sc := newNumberScanner(d)
	var pts [][2]float64
	var cx, cy, sx, sy float64
	var cmd byte

	add := func(x, y float64) { pts = append(pts, [2]float64{x, y}) }

	for {
		sc.skipSeparators()
		if sc.done() {
			return pts
		}
		ch := sc.s[sc.pos]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') {
			cmd = ch
			sc.pos++
			if cmd == 'Z' || cmd == 'z' {
				cx, cy = sx, sy
				continue
			}
		} else if cmd == 0 {
			return pts
		}

		rel := cmd >= 'a' && cmd <= 'z'
		abs := func(x, y float64) (float64, float64) {
			if rel {
				return cx + x, cy + y
			}
			return x, y
		}

		switch cmd {
		case 'M', 'm':
			v, ok := sc.numbers(2)
			if !ok {
				return pts
			}
			cx, cy = abs(v[0], v[1])
			sx, sy = cx, cy
			add(cx, cy)
			// subsequent pairs are implicit lineto
			if cmd == 'M' {
				cmd = 'L'
			} else {
				cmd = 'l'
			}
		case 'L', 'l', 'T', 't':
			v, ok := sc.numbers(2)
			if !ok {
				return pts
			}
			cx, cy = abs(v[0], v[1])
			add(cx, cy)
		case 'H', 'h':
			v, ok := sc.numbers(1)
			if !ok {
				return pts
			}
			if rel {
				cx += v[0]
			} else {
				cx = v[0]
			}
			add(cx, cy)
		case 'V', 'v':
			v, ok := sc.numbers(1)
			if !ok {
				return pts
			}
			if rel {
				cy += v[0]
			} else {
				cy = v[0]
			}
			add(cx, cy)
		case 'C', 'c':
			v, ok := sc.numbers(6)
			if !ok {
				return pts
			}
			x1, y1 := abs(v[0], v[1])
			x2, y2 := abs(v[2], v[3])
			x, y := abs(v[4], v[5])
			add(x1, y1)
			add(x2, y2)
			add(x, y)
			cx, cy = x, y
		case 'S', 's', 'Q', 'q':
			v, ok := sc.numbers(4)
			if !ok {
				return pts
			}
			x1, y1 := abs(v[0], v[1])
			x, y := abs(v[2], v[3])
			add(x1, y1)
			add(x, y)
			cx, cy = x, y
		case 'A', 'a':
			r, ok := sc.numbers(3)
			if !ok {
				return pts
			}
			if _, ok := sc.flag(); !ok {
				return pts
			}
			if _, ok := sc.flag(); !ok {
				return pts
			}
			v, ok := sc.numbers(2)
			if !ok {
				return pts
			}
			x, y := abs(v[0], v[1])
			rx, ry := math.Abs(r[0]), math.Abs(r[1])
			mx, my := (cx+x)/2, (cy+y)/2
			add(mx-rx, my-ry)
			add(mx+rx, my+ry)
			add(x, y)
			cx, cy = x, y
		default:
			return pts
		}
	}
}
