package floorplan

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/beesaferoot/seatctl/internal/models"
)

const (
	seatRadius     = 8.0
	seatPitch      = 24.0
	seatsPerLine   = 6
	roomPadding    = 12.0
	roomLabelSpace = 18.0
	roomGap        = 16.0
	roomsPerRow    = 4
	legendGap      = 40.0

	occupiedFill = "#e57373"
	freeFill     = "#81c784"
)

// Anchor keys: artwork elements mark seat positions with data-seat-id,
// data-seat-number or an id of the form "seat-<number>".
func seatIDKey(id int64) string      { return "id:" + strconv.FormatInt(id, 10) }
func seatNumberKey(num string) string { return "num:" + num }

// collectAnchors records the bounds, in root user space, of every artwork
// element that marks a seat position.
func collectAnchors(root *html.Node) map[string]Rect {
	anchors := make(map[string]Rect)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n != root {
			if nonRendered[n.Data] {
				return
			}
			var keys []string
			if v, ok := attr(n, "data-seat-id"); ok {
				keys = append(keys, "id:"+strings.TrimSpace(v))
			}
			if v, ok := attr(n, "data-seat-number"); ok {
				keys = append(keys, seatNumberKey(strings.TrimSpace(v)))
			}
			if v, ok := attr(n, "id"); ok && strings.HasPrefix(v, "seat-") {
				keys = append(keys, seatNumberKey(strings.TrimPrefix(v, "seat-")))
			}
			if len(keys) > 0 {
				bounds := elementBounds(n, ancestorMatrix(n, root))
				if !bounds.Empty() {
					for _, k := range keys {
						anchors[k] = bounds
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return anchors
}

func lookupAnchor(anchors map[string]Rect, seat *models.Seat) (Rect, bool) {
	if r, ok := anchors[seatIDKey(seat.ID)]; ok {
		return r, true
	}
	if r, ok := anchors[seatNumberKey(seat.SeatNumber)]; ok {
		return r, true
	}
	return Rect{}, false
}

// buildInteractive fills layer with one group per room and returns the
// bounds of the legend holding seats without an anchor.
func buildInteractive(layer *html.Node, floor *models.Floor, anchors map[string]Rect, artwork Rect) Rect {
	if floor == nil {
		return Rect{}
	}

	var legend Rect
	slot := 0
	rowTop := artwork.MaxY + legendGap
	rowHeight := 0.0

	for _, room := range floor.Rooms {
		group := newElement("g",
			html.Attribute{Key: "class", Val: "room"},
			html.Attribute{Key: "data-room-id", Val: strconv.FormatInt(room.ID, 10)},
			html.Attribute{Key: "data-room-number", Val: room.RoomNumber},
		)
		layer.AppendChild(group)

		var loose []*models.Seat
		for _, seat := range room.Seats {
			if r, ok := lookupAnchor(anchors, seat); ok {
				cx := (r.MinX + r.MaxX) / 2
				cy := (r.MinY + r.MaxY) / 2
				group.AppendChild(seatMarker(room, seat, cx, cy))
				continue
			}
			loose = append(loose, seat)
		}
		if len(loose) == 0 {
			continue
		}

		col := slot % roomsPerRow
		if col == 0 && slot > 0 {
			rowTop += rowHeight + roomGap
			rowHeight = 0
		}
		slot++

		lines := int(math.Ceil(float64(len(loose)) / seatsPerLine))
		width := 2*roomPadding + seatsPerLine*seatPitch
		height := roomLabelSpace + 2*roomPadding + float64(lines)*seatPitch
		x := artwork.MinX + float64(col)*(width+roomGap)
		y := rowTop
		rowHeight = math.Max(rowHeight, height)

		group.AppendChild(newElement("rect",
			html.Attribute{Key: "class", Val: "room-box"},
			html.Attribute{Key: "x", Val: formatNumber(x)},
			html.Attribute{Key: "y", Val: formatNumber(y)},
			html.Attribute{Key: "width", Val: formatNumber(width)},
			html.Attribute{Key: "height", Val: formatNumber(height)},
			html.Attribute{Key: "fill", Val: "none"},
			html.Attribute{Key: "stroke", Val: "#90a4ae"},
		))
		label := newElement("text",
			html.Attribute{Key: "class", Val: "room-label"},
			html.Attribute{Key: "x", Val: formatNumber(x + roomPadding)},
			html.Attribute{Key: "y", Val: formatNumber(y + roomPadding + roomLabelSpace/2)},
		)
		label.AppendChild(&html.Node{Type: html.TextNode, Data: roomTitle(room)})
		group.AppendChild(label)

		for i, seat := range loose {
			cx := x + roomPadding + float64(i%seatsPerLine)*seatPitch + seatPitch/2
			cy := y + roomPadding + roomLabelSpace + float64(i/seatsPerLine)*seatPitch + seatPitch/2
			group.AppendChild(seatMarker(room, seat, cx, cy))
		}

		legend = legend.Add(x, y).Add(x+width, y+height)
	}
	return legend
}

func roomTitle(room *models.Room) string {
	if room.Name == "" || room.Name == room.RoomNumber {
		return room.RoomNumber
	}
	return fmt.Sprintf("%s %s", room.RoomNumber, room.Name)
}

func seatMarker(room *models.Room, seat *models.Seat, cx, cy float64) *html.Node {
	class, fill := "seat seat-free", freeFill
	if seat.Occupied {
		class, fill = "seat seat-occupied", occupiedFill
	}
	marker := newElement("circle",
		html.Attribute{Key: "class", Val: class},
		html.Attribute{Key: "data-seat-id", Val: strconv.FormatInt(seat.ID, 10)},
		html.Attribute{Key: "data-seat-number", Val: seat.SeatNumber},
		html.Attribute{Key: "data-room-id", Val: strconv.FormatInt(room.ID, 10)},
		html.Attribute{Key: "cx", Val: formatNumber(cx)},
		html.Attribute{Key: "cy", Val: formatNumber(cy)},
		html.Attribute{Key: "r", Val: formatNumber(seatRadius)},
		html.Attribute{Key: "fill", Val: fill},
	)
	title := newElement("title")
	title.AppendChild(&html.Node{Type: html.TextNode, Data: seatTitle(seat)})
	marker.AppendChild(title)
	return marker
}

func seatTitle(seat *models.Seat) string {
	if len(seat.Employees) == 0 {
		return seat.SeatNumber + ": free"
	}
	names := make([]string, len(seat.Employees))
	for i, e := range seat.Employees {
		names[i] = e.FullName
	}
	return seat.SeatNumber + ": " + strings.Join(names, ", ")
}
