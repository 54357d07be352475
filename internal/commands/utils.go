package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/beesaferoot/seatctl/internal/cache"
	"github.com/beesaferoot/seatctl/internal/config"
	"github.com/beesaferoot/seatctl/internal/gateway"
	"github.com/beesaferoot/seatctl/internal/models"
)

// detailFetchLimit caps concurrent GET /floors/{n} calls.
const detailFetchLimit = 4

type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	client   *gateway.Client
}

// getApp reads the environment, applies the global flag overrides and
// builds the API client.
func getApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("api-url"); v != "" {
		cfg.APIURL = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}

	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %v", err)
	}

	reg := prometheus.NewRegistry()
	client := gateway.New(cfg.APIURL,
		gateway.WithLogger(logger),
		gateway.WithTimeout(cfg.Timeout),
		gateway.WithMetrics(gateway.NewMetrics(reg)),
	)
	return &app{cfg: cfg, logger: logger, registry: reg, client: client}, nil
}

// getCache opens the snapshot cache and brings its schema up to date.
func getCache(a *app) (*cache.Cache, error) {
	c, err := cache.Open(a.cfg.CacheDSN, a.logger)
	if err != nil {
		return nil, err
	}
	if err := c.Migrate(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// fetchFloorDetails loads every listed floor with its rooms and seats.
// The result keeps the order of floors.
func fetchFloorDetails(ctx context.Context, client *gateway.Client, floors []*models.Floor) ([]*models.Floor, error) {
	details := make([]*models.Floor, len(floors))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(detailFetchLimit)
	for i, f := range floors {
		g.Go(func() error {
			floor, err := client.GetFloor(ctx, f.FloorNumber)
			if err != nil {
				return fmt.Errorf("failed to load floor %d: %w", f.FloorNumber, err)
			}
			floor.Rooms = models.SortRooms(floor.Rooms)
			details[i] = floor
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return details, nil
}

func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, arg)
	}
	return id, nil
}

func parseFloorNumber(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid floor number %q", arg)
	}
	return n, nil
}

// confirm asks a yes/no question on the command's input. Anything but
// y or yes is a no.
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func employeeNames(employees []models.EmployeeRef) string {
	if len(employees) == 0 {
		return "-"
	}
	names := make([]string, len(employees))
	for i, e := range employees {
		names[i] = e.FullName
	}
	return strings.Join(names, ", ")
}

func seatStatus(s *models.Seat) string {
	if s.Occupied {
		return "Occupied"
	}
	return "Free"
}

func printFloors(out io.Writer, floors []*models.Floor) {
	if len(floors) == 0 {
		fmt.Fprintln(out, "No floors found.")
		return
	}
	fmt.Fprintf(out, "%-8s  %-24s  %-6s  %-6s  %-8s\n", "Floor", "Name", "Rooms", "Seats", "Occupied")
	for _, f := range floors {
		fmt.Fprintf(out, "%-8d  %-24s  %-6d  %-6d  %-8d\n", f.FloorNumber, f.Name, len(f.Rooms), f.SeatCount(), f.OccupiedCount())
	}
}

func printSeats(out io.Writer, floor *models.Floor) {
	fmt.Fprintf(out, "%-8s  %-20s  %-10s  %-9s  %s\n", "Room", "Name", "Seat", "Status", "Employees")
	for _, r := range floor.Rooms {
		if len(r.Seats) == 0 {
			fmt.Fprintf(out, "%-8s  %-20s  %-10s  %-9s  %s\n", r.RoomNumber, r.Name, "-", "-", "-")
			continue
		}
		for _, s := range r.Seats {
			fmt.Fprintf(out, "%-8s  %-20s  %-10s  %-9s  %s\n", r.RoomNumber, r.Name, s.SeatNumber, seatStatus(s), employeeNames(s.Employees))
		}
	}
}
