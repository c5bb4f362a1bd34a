package models

import "time"

// Position identifies the station role an employee can be rostered for.
type Position string

const (
	PositionCashier   Position = "CASHIER"
	PositionForecourt Position = "FORECOURT"
)

// Valid reports whether the position is one of the known station roles.
func (p Position) Valid() bool {
	return p == PositionCashier || p == PositionForecourt
}

// Positions lists every known position in roster order.
func Positions() []Position {
	return []Position{PositionCashier, PositionForecourt}
}

// Employee represents a station staff record.
type Employee struct {
	ID        string     `db:"id" json:"id"`
	FullName  string     `db:"full_name" json:"full_name"`
	Position  Position   `db:"position" json:"position"`
	Phone     *string    `db:"phone" json:"phone,omitempty"`
	Email     *string    `db:"email" json:"email,omitempty"`
	HireDate  *time.Time `db:"hire_date" json:"hire_date,omitempty"`
	Active    bool       `db:"active" json:"active"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// EmployeeFilter captures filtering options for listing employees.
type EmployeeFilter struct {
	Search    string
	Position  *Position
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
