package gateway

import (
	"context"
	"net/http"

	"github.com/beesaferoot/seatctl/internal/models"
)

// GetStats returns the dashboard aggregates.
func (c *Client) GetStats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	if err := c.doJSON(ctx, call{resource: "stats", method: http.MethodGet, path: "/stats"}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
