package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/beesaferoot/seatctl/internal/models"
)

// SearchEmployees lists employees whose name or occupation matches search.
// page is zero-based.
func (c *Client) SearchEmployees(ctx context.Context, search string, page, size int) (*models.Page[models.Employee], error) {
	if page < 0 {
		return nil, &Error{Kind: KindInvalid, Method: http.MethodGet, Path: "/employees/search", Message: "page must not be negative"}
	}
	if size <= 0 {
		return nil, &Error{Kind: KindInvalid, Method: http.MethodGet, Path: "/employees/search", Message: "size must be positive"}
	}

	var result models.Page[models.Employee]
	err := c.doJSON(ctx, call{
		resource: "employees",
		method:   http.MethodGet,
		path:     "/employees/search",
		query: map[string]string{
			"search": search,
			"page":   strconv.Itoa(page),
			"size":   strconv.Itoa(size),
		},
	}, &result)
	if err != nil {
		return nil, err
	}
	if result.Content == nil {
		result.Content = []models.Employee{}
	}
	return &result, nil
}

func (c *Client) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	var employee models.Employee
	path := fmt.Sprintf("/employees/%d", id)
	if err := c.doJSON(ctx, call{resource: "employees", method: http.MethodGet, path: path}, &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (c *Client) CreateEmployee(ctx context.Context, in models.EmployeeInput) (*models.Employee, error) {
	if err := c.validateInput(http.MethodPost, "/employees", in); err != nil {
		return nil, err
	}
	var employee models.Employee
	if err := c.doJSON(ctx, call{resource: "employees", method: http.MethodPost, path: "/employees", body: in}, &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (c *Client) UpdateEmployee(ctx context.Context, id int64, in models.EmployeeInput) (*models.Employee, error) {
	path := fmt.Sprintf("/employees/%d", id)
	if err := c.validateInput(http.MethodPut, path, in); err != nil {
		return nil, err
	}
	var employee models.Employee
	if err := c.doJSON(ctx, call{resource: "employees", method: http.MethodPut, path: path, body: in}, &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (c *Client) DeleteEmployee(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/employees/%d", id)
	return c.doJSON(ctx, call{resource: "employees", method: http.MethodDelete, path: path}, nil)
}

// EmployeeSeats lists the seats assigned to an employee.
func (c *Client) EmployeeSeats(ctx context.Context, id int64) ([]*models.Seat, error) {
	var seats []*models.Seat
	path := fmt.Sprintf("/employees/%d/seats", id)
	if err := c.doJSON(ctx, call{resource: "employees", method: http.MethodGet, path: path}, &seats); err != nil {
		return nil, err
	}
	if seats == nil {
		seats = []*models.Seat{}
	}
	return seats, nil
}

func (c *Client) AssignSeat(ctx context.Context, employeeID, seatID int64) error {
	path := fmt.Sprintf("/employees/%d/assign-seat/%d", employeeID, seatID)
	return c.doJSON(ctx, call{resource: "employees", method: http.MethodPut, path: path}, nil)
}

func (c *Client) UnassignSeat(ctx context.Context, employeeID, seatID int64) error {
	path := fmt.Sprintf("/employees/%d/unassign-seat/%d", employeeID, seatID)
	return c.doJSON(ctx, call{resource: "employees", method: http.MethodDelete, path: path}, nil)
}

func (c *Client) validateInput(method, path string, in models.EmployeeInput) error {
	if err := c.validate.Struct(in); err != nil {
		return &Error{Kind: KindInvalid, Method: method, Path: path, Message: err.Error(), Err: err}
	}
	return nil
}
