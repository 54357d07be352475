package commands

import (
	"github.com/spf13/cobra"
)

func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "seatctl",
		Short:         "Office seat management client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("api-url", "", "Base URL of the seat API (overrides SEATCTL_API_URL)")
	cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides SEATCTL_LOG_LEVEL)")

	cmd.AddCommand(
		FloorsCmd(),
		FloorCmd(),
		PlanCmd(),
		ToggleCmd(),
		FindCmd(),
		SeatCmd(),
		EmployeesCmd(),
		AssignCmd(),
		UnassignCmd(),
		StatsCmd(),
		ReportCmd(),
		CacheCmd(),
		ServeCmd(),
	)

	return cmd
}
