package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/beesaferoot/seatctl/internal/gateway"
	"github.com/beesaferoot/seatctl/internal/models"
	"github.com/beesaferoot/seatctl/internal/report"
)

const barWidth = 30

func StatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the occupancy dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}

			stats, floors, err := loadDashboard(cmd.Context(), a.client)
			if err != nil {
				return err
			}

			printDashboard(cmd.OutOrStdout(), report.NewDashboard(*stats), floors)
			return nil
		},
	}
}

// loadDashboard fetches the aggregate stats and the detailed floor tree
// concurrently.
func loadDashboard(ctx context.Context, client *gateway.Client) (*models.Stats, []*models.Floor, error) {
	var (
		stats  *models.Stats
		floors []*models.Floor
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = client.GetStats(ctx)
		if err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		list, err := client.ListFloors(ctx)
		if err != nil {
			return fmt.Errorf("failed to list floors: %w", err)
		}
		floors, err = fetchFloorDetails(ctx, client, list)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return stats, floors, nil
}

func printDashboard(out io.Writer, d *report.Dashboard, floors []*models.Floor) {
	s := d.Stats
	fmt.Fprintf(out, "%-16s %d\n", "Employees:", s.TotalEmployees)
	fmt.Fprintf(out, "%-16s %d\n", "Floors:", s.TotalFloors)
	fmt.Fprintf(out, "%-16s %d\n", "Offices:", s.TotalOffices)
	fmt.Fprintf(out, "%-16s %d\n", "Seats:", s.TotalSeats)
	fmt.Fprintf(out, "%-16s %.1f%%\n", "Occupancy:", s.OccupancyRate)

	if len(d.Floors) > 0 {
		fmt.Fprintln(out, "\nOffices per floor")
		for _, n := range d.Floors {
			fmt.Fprintf(out, "  %-6d %-5d %s\n", n, d.OfficesOn(n), report.Bar(d.OfficesOn(n), d.MaxOffices, barWidth))
		}
		fmt.Fprintln(out, "\nSeats per floor")
		for _, n := range d.Floors {
			fmt.Fprintf(out, "  %-6d %-5d %s\n", n, d.SeatsOn(n), report.Bar(d.SeatsOn(n), d.MaxSeats, barWidth))
		}
	}

	rows, total := report.Occupancy(floors)
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%-8s  %-24s  %-6s  %-6s  %-8s  %-9s\n", "Floor", "Name", "Rooms", "Seats", "Occupied", "Occupancy")
	for _, o := range rows {
		fmt.Fprintf(out, "%-8d  %-24s  %-6d  %-6d  %-8d  %8.1f%%\n", o.FloorNumber, o.Name, o.Rooms, o.Seats, o.Occupied, o.Rate()*100)
	}
	fmt.Fprintf(out, "%-8s  %-24s  %-6d  %-6d  %-8d  %8.1f%%\n", "Total", "", total.Rooms, total.Seats, total.Occupied, total.Rate()*100)
}
