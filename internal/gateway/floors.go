package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/beesaferoot/seatctl/internal/models"
)

const svgContentType = "image/svg+xml"

// ListFloors returns all floors. The list is never nil on success.
func (c *Client) ListFloors(ctx context.Context) ([]*models.Floor, error) {
	var floors []*models.Floor
	if err := c.doJSON(ctx, call{resource: "floors", method: http.MethodGet, path: "/floors"}, &floors); err != nil {
		return nil, err
	}
	if floors == nil {
		floors = []*models.Floor{}
	}
	return floors, nil
}

// GetFloor returns one floor with its rooms and seats.
func (c *Client) GetFloor(ctx context.Context, floorNumber int) (*models.Floor, error) {
	var floor models.Floor
	path := fmt.Sprintf("/floors/%d", floorNumber)
	if err := c.doJSON(ctx, call{resource: "floors", method: http.MethodGet, path: path}, &floor); err != nil {
		return nil, err
	}
	return &floor, nil
}

// GetFloorSVG returns the background artwork of a floor as SVG text.
func (c *Client) GetFloorSVG(ctx context.Context, floorNumber int) (string, error) {
	path := fmt.Sprintf("/floors/%d/svg", floorNumber)
	body, err := c.do(ctx, call{resource: "floors", method: http.MethodGet, path: path, accept: svgContentType})
	if err != nil {
		return "", err
	}
	text := string(body)
	if strings.TrimSpace(text) == "" {
		return "", &Error{Kind: KindMalformed, Method: http.MethodGet, Path: path, Message: "received empty SVG content from server"}
	}
	return text, nil
}
