package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/seatctl/internal/models"
	"github.com/beesaferoot/seatctl/internal/workflow"
)

func EmployeeGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "employee")
			if err != nil {
				return err
			}

			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			employee, err := a.client.GetEmployee(cmd.Context(), id)
			if err != nil {
				return err
			}

			printEmployee(cmd.OutOrStdout(), employee)
			return nil
		},
	}
}

func EmployeeCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an employee",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			occupation, _ := cmd.Flags().GetString("occupation")

			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			employee, err := a.client.CreateEmployee(cmd.Context(), models.EmployeeInput{FullName: name, Occupation: occupation})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created employee %d: %s\n", employee.ID, employee.FullName)
			return nil
		},
	}

	cmd.Flags().String("name", "", "Full name")
	cmd.Flags().String("occupation", "", "Occupation")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("occupation")

	return cmd
}

func EmployeeUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update an employee",
		Long:  `Updates the name and/or occupation of an employee. Fields that are not given keep their current value.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			occupation, _ := cmd.Flags().GetString("occupation")

			id, err := parseID(args[0], "employee")
			if err != nil {
				return err
			}
			if name == "" && occupation == "" {
				return fmt.Errorf("nothing to update, pass --name or --occupation")
			}

			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			current, err := a.client.GetEmployee(ctx, id)
			if err != nil {
				return err
			}
			in := models.EmployeeInput{FullName: current.FullName, Occupation: current.Occupation}
			if name != "" {
				in.FullName = name
			}
			if occupation != "" {
				in.Occupation = occupation
			}

			employee, err := a.client.UpdateEmployee(ctx, id, in)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated employee %d: %s (%s)\n", employee.ID, employee.FullName, employee.Occupation)
			return nil
		},
	}

	cmd.Flags().String("name", "", "New full name")
	cmd.Flags().String("occupation", "", "New occupation")

	return cmd
}

func EmployeeDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")

			id, err := parseID(args[0], "employee")
			if err != nil {
				return err
			}

			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			employee, err := a.client.GetEmployee(ctx, id)
			if err != nil {
				return err
			}
			if !yes && !confirm(cmd, fmt.Sprintf("Delete employee %d (%s)?", employee.ID, employee.FullName)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err := a.client.DeleteEmployee(ctx, id); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted employee %d.\n", id)
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func EmployeeSeatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seats [id]",
		Short: "List the seats assigned to an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "employee")
			if err != nil {
				return err
			}

			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			seats, err := workflow.EmployeeSeats(cmd.Context(), a.client, id)
			if err != nil {
				return err
			}

			printSeatList(cmd.OutOrStdout(), seats)
			return nil
		},
	}
}

func printEmployee(out io.Writer, e *models.Employee) {
	fmt.Fprintf(out, "%-12s %d\n", "ID:", e.ID)
	fmt.Fprintf(out, "%-12s %s\n", "Name:", e.FullName)
	fmt.Fprintf(out, "%-12s %s\n", "Occupation:", e.Occupation)
	if e.CreatedAt != nil {
		fmt.Fprintf(out, "%-12s %s\n", "Created:", e.CreatedAt.Format(time.RFC3339))
	}
	if len(e.Seats) > 0 {
		fmt.Fprintln(out)
		printSeatList(out, e.Seats)
	}
}

func printSeatList(out io.Writer, seats []*models.Seat) {
	if len(seats) == 0 {
		fmt.Fprintln(out, "No seats assigned.")
		return
	}
	fmt.Fprintf(out, "%-8s  %-10s  %-8s  %-6s\n", "Seat ID", "Seat", "Room", "Floor")
	for _, s := range seats {
		room, floor := "-", "-"
		if s.Room != nil {
			room = s.Room.RoomNumber
			if s.Room.Floor != nil {
				floor = fmt.Sprint(s.Room.Floor.FloorNumber)
			}
		}
		fmt.Fprintf(out, "%-8d  %-10s  %-8s  %-6s\n", s.ID, s.SeatNumber, room, floor)
	}
}
