package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/seatctl/internal/report"
)

func ReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report [file.xlsx]",
		Short: "Export floors, seats and stats to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Clean(args[0])
			if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
				return fmt.Errorf("report file must end in .xlsx, got %s", path)
			}

			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			stats, floors, err := loadDashboard(cmd.Context(), a.client)
			if err != nil {
				return err
			}

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %v", path, err)
			}
			if err := report.WriteXLSX(f, floors, stats); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %v", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote report for %d floors to %s\n", len(floors), path)
			return nil
		},
	}
}
