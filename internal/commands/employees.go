package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/beesaferoot/seatctl/internal/listing"
	"github.com/beesaferoot/seatctl/internal/models"
)

func EmployeesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employees",
		Short: "Search and manage employees",
	}

	cmd.AddCommand(
		EmployeeSearchCmd(),
		EmployeeGetCmd(),
		EmployeeCreateCmd(),
		EmployeeUpdateCmd(),
		EmployeeDeleteCmd(),
		EmployeeSeatsCmd(),
	)

	return cmd
}

func EmployeeSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search employees by name or occupation",
		Long:  `Searches employees page by page. By default one page is shown; --rows keeps loading until that many rows are filled and --all loads every page. With --interactive each line read from stdin is treated as the current search box text and the search runs once typing settles.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageSize, _ := cmd.Flags().GetInt("page-size")
			rows, _ := cmd.Flags().GetInt("rows")
			all, _ := cmd.Flags().GetBool("all")
			interactive, _ := cmd.Flags().GetBool("interactive")

			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			if pageSize <= 0 {
				pageSize = a.cfg.PageSize
			}
			pager := listing.NewPager(a.client, pageSize, a.logger)
			out := cmd.OutOrStdout()

			if interactive {
				return interactiveSearch(cmd, a, pager)
			}

			term := ""
			if len(args) == 1 {
				term = strings.TrimSpace(args[0])
			}
			pager.Reset(term)

			ctx := cmd.Context()
			switch {
			case all:
				for pager.HasMore() {
					if _, err := pager.NextPage(ctx); err != nil {
						return err
					}
				}
			case rows > 0:
				err = pager.Fill(ctx, func() listing.Viewport {
					return listing.Viewport{ClientHeight: float64(rows), ContentHeight: float64(pager.Len())}
				})
				if err != nil {
					return err
				}
			default:
				if _, err := pager.NextPage(ctx); err != nil {
					return err
				}
			}

			printEmployees(out, pager.Items())
			fmt.Fprintf(out, "\nShowing %d of %d employees.\n", pager.Len(), pager.Total())
			if pager.HasMore() {
				fmt.Fprintln(out, "More results available, use --all or --rows to load them.")
			}
			return nil
		},
	}

	cmd.Flags().Int("page-size", 0, "Employees per page (default SEATCTL_PAGE_SIZE)")
	cmd.Flags().Int("rows", 0, "Keep loading pages until this many rows are shown")
	cmd.Flags().Bool("all", false, "Load every page")
	cmd.Flags().Bool("interactive", false, "Read search text line by line from stdin")

	return cmd
}

func interactiveSearch(cmd *cobra.Command, a *app, pager *listing.Pager) error {
	out := cmd.OutOrStdout()
	var mu sync.Mutex

	search := listing.NewSearch(cmd.Context(), pager, clockwork.NewRealClock(), a.cfg.Debounce, func(r listing.Result) {
		mu.Lock()
		defer mu.Unlock()
		if r.Err != nil {
			fmt.Fprintf(out, "Search %q failed: %v\n", r.Term, r.Err)
			return
		}
		fmt.Fprintf(out, "Results for %q (%d of %d):\n", r.Term, len(r.Items), r.Total)
		printEmployees(out, r.Items)
	})
	defer search.Stop()

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		search.Input(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %v", err)
	}
	search.Flush()
	return nil
}

func printEmployees(out io.Writer, employees []models.Employee) {
	if len(employees) == 0 {
		fmt.Fprintln(out, "No employees found.")
		return
	}
	fmt.Fprintf(out, "%-8s  %-30s  %-24s\n", "ID", "Name", "Occupation")
	for _, e := range employees {
		fmt.Fprintf(out, "%-8d  %-30s  %-24s\n", e.ID, e.FullName, e.Occupation)
	}
}
