package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/beesaferoot/seatctl/internal/models"
)

// GetSeat returns a seat with its room and floor back-references.
func (c *Client) GetSeat(ctx context.Context, id int64) (*models.Seat, error) {
	var seat models.Seat
	path := fmt.Sprintf("/seats/%d", id)
	if err := c.doJSON(ctx, call{resource: "seats", method: http.MethodGet, path: path}, &seat); err != nil {
		return nil, err
	}
	return &seat, nil
}
