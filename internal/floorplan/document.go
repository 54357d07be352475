package floorplan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/beesaferoot/seatctl/internal/models"
)

const (
	svgNamespace = "http://www.w3.org/2000/svg"

	BackgroundLayerID  = "background-layer"
	InteractiveLayerID = "interactive-layer"
)

// ErrNoSVGRoot is returned when the fetched text has no <svg> element.
var ErrNoSVGRoot = errors.New("no svg root element found")

// Document is a composed floor plan: the imported artwork in a background
// group and the live room/seat markup in an interactive group. Both groups
// share the root's coordinate space and always carry the same transform.
type Document struct {
	root        *html.Node
	background  *html.Node
	interactive *html.Node

	viewBox         ViewBox
	artwork         ViewBox
	computedViewBox bool
	anchors         map[string]Rect
	transform       Transform

	placeholder bool
	message     string
}

// Parse imports SVG text as the background of a new document. A missing
// viewBox is computed from the drawn content, then from width/height, and
// finally falls back to DefaultViewBox.
func Parse(text string) (*Document, error) {
	gdoc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse svg: %w", err)
	}
	sel := gdoc.Find("svg").First()
	if sel.Length() == 0 {
		return nil, ErrNoSVGRoot
	}
	root := sel.Get(0)
	if root.Parent != nil {
		root.Parent.RemoveChild(root)
	}

	d := &Document{root: root, transform: Identity}
	d.viewBox, d.computedViewBox = resolveViewBox(root)
	d.artwork = d.viewBox
	d.anchors = collectAnchors(root)

	d.background = newElement("g", html.Attribute{Key: "id", Val: BackgroundLayerID}, html.Attribute{Key: "class", Val: "floorplan-background"})
	for c := root.FirstChild; c != nil; {
		next := c.NextSibling
		root.RemoveChild(c)
		d.background.AppendChild(c)
		c = next
	}
	d.interactive = newElement("g", html.Attribute{Key: "id", Val: InteractiveLayerID}, html.Attribute{Key: "class", Val: "floorplan-interactive"})
	root.AppendChild(d.background)
	root.AppendChild(d.interactive)

	setAttr(root, "xmlns", svgNamespace)
	setAttr(root, "viewBox", d.viewBox.String())
	setAttr(root, "preserveAspectRatio", "xMidYMid meet")
	setAttr(root, "width", "100%")
	setAttr(root, "height", "100%")
	d.SetTransform(Identity)
	return d, nil
}

func resolveViewBox(root *html.Node) (ViewBox, bool) {
	if v, ok := attr(root, "viewBox"); ok {
		if vb, err := ParseViewBox(v); err == nil {
			return vb, false
		}
	}
	if bounds := contentBounds(root); !bounds.Empty() {
		return bounds.ViewBox(), true
	}
	w, wok := parseLength(attrOrEmpty(root, "width"))
	h, hok := parseLength(attrOrEmpty(root, "height"))
	if wok && hok && w > 0 && h > 0 {
		return ViewBox{Width: w, Height: h}, true
	}
	return DefaultViewBox, true
}

func attrOrEmpty(n *html.Node, key string) string {
	v, _ := attr(n, key)
	return v
}

// Placeholder builds a visible error document in place of artwork that
// could not be parsed.
func Placeholder(message string) *Document {
	vb := ViewBox{Width: 400, Height: 120}
	root := newElement("svg",
		html.Attribute{Key: "xmlns", Val: svgNamespace},
		html.Attribute{Key: "viewBox", Val: vb.String()},
		html.Attribute{Key: "class", Val: "floorplan-error"},
		html.Attribute{Key: "width", Val: "100%"},
		html.Attribute{Key: "height", Val: "100%"},
	)
	root.AppendChild(newElement("rect",
		html.Attribute{Key: "x", Val: "0"},
		html.Attribute{Key: "y", Val: "0"},
		html.Attribute{Key: "width", Val: "400"},
		html.Attribute{Key: "height", Val: "120"},
		html.Attribute{Key: "fill", Val: "#fdecea"},
	))
	text := newElement("text",
		html.Attribute{Key: "x", Val: "200"},
		html.Attribute{Key: "y", Val: "64"},
		html.Attribute{Key: "text-anchor", Val: "middle"},
		html.Attribute{Key: "fill", Val: "#d32f2f"},
	)
	text.AppendChild(&html.Node{Type: html.TextNode, Data: message})
	root.AppendChild(text)

	return &Document{root: root, viewBox: vb, artwork: vb, transform: Identity, placeholder: true, message: message}
}

func newElement(name string, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: name, Namespace: "svg", Attr: attrs}
}

// ViewBox returns the root viewBox.
func (d *Document) ViewBox() ViewBox { return d.viewBox }

// ComputedViewBox reports whether the viewBox was derived rather than read
// from the artwork.
func (d *Document) ComputedViewBox() bool { return d.computedViewBox }

// IsPlaceholder reports whether the document is an error placeholder.
func (d *Document) IsPlaceholder() bool { return d.placeholder }

// Message returns the placeholder message.
func (d *Document) Message() string { return d.message }

func (d *Document) Transform() Transform { return d.transform }

// LayerTransforms returns the transform attributes of the background and
// interactive groups.
func (d *Document) LayerTransforms() (background, interactive string) {
	if d.background != nil {
		background, _ = attr(d.background, "transform")
	}
	if d.interactive != nil {
		interactive, _ = attr(d.interactive, "transform")
	}
	return background, interactive
}

// SetTransform writes t to both layers in one step.
func (d *Document) SetTransform(t Transform) {
	d.transform = t
	if d.placeholder {
		return
	}
	s := t.String()
	setAttr(d.background, "transform", s)
	setAttr(d.interactive, "transform", s)
}

// SetFloor rebuilds the interactive layer from floor. Seats anchored in the
// artwork are drawn over their anchors; the rest are laid out in a legend
// below the artwork and the viewBox grows to include it.
func (d *Document) SetFloor(floor *models.Floor) {
	if d.placeholder {
		return
	}
	for c := d.interactive.FirstChild; c != nil; {
		next := c.NextSibling
		d.interactive.RemoveChild(c)
		c = next
	}
	legend := buildInteractive(d.interactive, floor, d.anchors, d.artwork.Rect())

	vb := d.artwork
	if !legend.Empty() {
		vb = d.artwork.Rect().Union(legend).ViewBox()
	}
	d.viewBox = vb
	setAttr(d.root, "viewBox", vb.String())
}

// WriteTo renders the document as standalone SVG markup.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return 0, fmt.Errorf("failed to render svg: %w", err)
	}
	return buf.WriteTo(w)
}

func (d *Document) String() string {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Bytes renders the document.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil
	}
	return buf.Bytes()
}
