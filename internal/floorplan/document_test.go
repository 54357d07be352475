package floorplan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beesaferoot/seatctl/internal/models"
)

func TestParseViewBox(t *testing.T) {
	vb, err := ParseViewBox("0,0 1200 800")
	require.NoError(t, err)
	assert.Equal(t, ViewBox{Width: 1200, Height: 800}, vb)
	assert.Equal(t, "0 0 1200 800", vb.String())

	_, err = ParseViewBox("0 0 100")
	assert.Error(t, err)
	_, err = ParseViewBox("0 0 -1 10")
	assert.Error(t, err)
	_, err = ParseViewBox("a b c d")
	assert.Error(t, err)
}

func TestParse_KeepsDeclaredViewBox(t *testing.T) {
	doc, err := Parse(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 100"><rect x="10" y="10" width="20" height="20"/></svg>`)
	require.NoError(t, err)

	assert.Equal(t, ViewBox{Width: 200, Height: 100}, doc.ViewBox())
	assert.False(t, doc.ComputedViewBox())

	out := doc.String()
	assert.Contains(t, out, `id="background-layer"`)
	assert.Contains(t, out, `id="interactive-layer"`)
	assert.Contains(t, out, `viewBox="0 0 200 100"`)
	assert.Contains(t, out, "<rect")
	assert.Less(t, strings.Index(out, "background-layer"), strings.Index(out, "<rect"))
}

func TestParse_ComputesViewBoxFromContent(t *testing.T) {
	text := `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg">
  <g transform="translate(100,50)"><rect x="0" y="0" width="200" height="100"/></g>
  <circle cx="50" cy="50" r="10"/>
  <defs><rect x="-1000" y="-1000" width="10" height="10"/></defs>
</svg>`
	doc, err := Parse(text)
	require.NoError(t, err)
	require.True(t, doc.ComputedViewBox())
	assert.Equal(t, ViewBox{MinX: 40, MinY: 40, Width: 260, Height: 110}, doc.ViewBox())

	vp := NewViewport(DefaultMinScale, DefaultMaxScale)
	doc = Compose(text, nil, vp, DefaultInitialScale)
	tr := doc.Transform()
	assert.InDelta(t, 0.9, tr.K, 1e-9)
	assert.InDelta(t, 17, tr.X, 1e-9)
	assert.InDelta(t, 9.5, tr.Y, 1e-9)

	content := Rect{}.Add(40, 40).Add(300, 150)
	assert.True(t, doc.ViewBox().Rect().Contains(tr.ApplyRect(content)), "content clipped at initial scale")
}

func TestParse_ViewBoxFallbacks(t *testing.T) {
	doc, err := Parse(`<svg width="300px" height="200"></svg>`)
	require.NoError(t, err)
	assert.Equal(t, ViewBox{Width: 300, Height: 200}, doc.ViewBox())

	doc, err = Parse(`<svg></svg>`)
	require.NoError(t, err)
	assert.Equal(t, DefaultViewBox, doc.ViewBox())
	assert.True(t, doc.ComputedViewBox())
}

func TestParse_NoSVGRoot(t *testing.T) {
	_, err := Parse("<p>not a floor plan</p>")
	assert.ErrorIs(t, err, ErrNoSVGRoot)

	doc := Compose("", nil, NewViewport(0, 0), DefaultInitialScale)
	assert.True(t, doc.IsPlaceholder())
	assert.Contains(t, doc.String(), "floorplan-error")
	assert.Contains(t, doc.Message(), "unavailable")
}

func TestSetTransform_WritesBothLayers(t *testing.T) {
	doc, err := Parse(`<svg viewBox="0 0 10 10"><rect width="10" height="10"/></svg>`)
	require.NoError(t, err)

	doc.SetTransform(Transform{X: 12.5, Y: -3, K: 1.5})
	bg, fg := doc.LayerTransforms()
	assert.Equal(t, "translate(12.5,-3) scale(1.5)", bg)
	assert.Equal(t, bg, fg)
}

func TestSetFloor_AnchorsAndLegend(t *testing.T) {
	text := `<svg viewBox="0 0 200 200">
  <g transform="translate(10,0)"><rect data-seat-id="11" x="100" y="100" width="20" height="20"/></g>
  <rect id="seat-101-2" x="0" y="0" width="10" height="10"/>
</svg>`
	doc, err := Parse(text)
	require.NoError(t, err)

	floor := &models.Floor{FloorNumber: 1, Rooms: []*models.Room{
		{ID: 1, RoomNumber: "101", Name: "Office", Seats: []*models.Seat{
			{ID: 11, SeatNumber: "101-1", Occupied: true, Employees: []models.EmployeeRef{{ID: 5, FullName: "Emma Anderson"}}},
			{ID: 12, SeatNumber: "101-2"},
			{ID: 13, SeatNumber: "101-3"},
		}},
	}}
	doc.SetFloor(floor)
	out := doc.String()

	assert.Contains(t, out, `data-room-number="101"`)
	assert.Contains(t, out, `class="seat seat-occupied" data-seat-id="11"`)
	assert.Contains(t, out, `cx="120" cy="110"`)
	assert.Contains(t, out, `cx="5" cy="5"`)
	assert.Contains(t, out, `data-seat-id="13"`)
	assert.Contains(t, out, "101-1: Emma Anderson")

	// seat 13 has no anchor and lands in the legend below the artwork
	assert.Greater(t, doc.ViewBox().Height, 200.0)

	doc.SetFloor(&models.Floor{FloorNumber: 1})
	assert.NotContains(t, doc.String(), `data-seat-id="13"`)
	assert.Equal(t, ViewBox{Width: 200, Height: 200}, doc.ViewBox())
}

func TestPathPoints(t *testing.T) {
	assert.Equal(t, [][2]float64{{10, 10}, {30, 10}, {30, 40}}, pathPoints("M10 10 h 20 v 30 z"))
	assert.Equal(t, [][2]float64{{5, 5}, {15, 5}, {15, 15}}, pathPoints("m 5 5 10 0 l 0 10"))

	doc, err := Parse(`<svg><path d="M0,0 C 10,20 30,40 50,0"/></svg>`)
	require.NoError(t, err)
	r := elementBounds(doc.background, identity)
	assert.Equal(t, Rect{}.Add(0, 0).Add(50, 40), r)
}

func TestParseTransform(t *testing.T) {
	m := parseTransform("translate(10,20) scale(2)")
	x, y := m.apply(1, 1)
	assert.InDelta(t, 12, x, 1e-9)
	assert.InDelta(t, 22, y, 1e-9)

	m = parseTransform("rotate(90)")
	x, y = m.apply(1, 0)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 1, y, 1e-9)
}
