package models

// Employee is a person who can be assigned seats.
type Employee struct {
	ID         int64      `json:"id"`
	FullName   string     `json:"fullName"`
	Occupation string     `json:"occupation"`
	CreatedAt  *Timestamp `json:"createdAt,omitempty"`
	Seats      []*Seat    `json:"seats,omitempty"`
}

// Ref returns the shallow reference stored on seats.
func (e *Employee) Ref() EmployeeRef {
	return EmployeeRef{ID: e.ID, FullName: e.FullName, Occupation: e.Occupation, CreatedAt: e.CreatedAt}
}

// EmployeeInput is the payload for creating or updating an employee.
type EmployeeInput struct {
	FullName   string `json:"fullName" validate:"required,min=2,max=120"`
	Occupation string `json:"occupation" validate:"required,max=120"`
}

// Page is one page of a paginated listing. CurrentPage is zero-based.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	CurrentPage   int `json:"currentPage"`
	Size          int `json:"size"`
}

// HasMore reports whether a page after this one exists.
func (p *Page[T]) HasMore() bool {
	return p.CurrentPage+1 < p.TotalPages
}
