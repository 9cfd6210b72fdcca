package dto

import (
	"time"

	"github.com/orgwise/orgchart-service/internal/domain"
)

// PersonRequest payload for creating a person.
type PersonRequest struct {
	Name       string  `json:"name"`
	Email      *string `json:"email"`
	EmployeeID *string `json:"employee_id"`
	HireDate   *string `json:"hire_date"`
	Status     string  `json:"status"`
	Flags      *string `json:"flags"`
}

// PersonUpdateRequest payload; omitted fields stay unchanged.
type PersonUpdateRequest struct {
	Email      *string `json:"email"`
	EmployeeID *string `json:"employee_id"`
	HireDate   *string `json:"hire_date"`
	Status     *string `json:"status"`
	Flags      *string `json:"flags"`
}

// TerminateRequest payload for terminating an employee.
type TerminateRequest struct {
	Date *string `json:"date"`
}

// AliasRequest payload for adding an alias.
type AliasRequest struct {
	Alias string  `json:"alias"`
	Flags *string `json:"flags"`
}

// PersonResponse representation.
type PersonResponse struct {
	ID         int64               `json:"id"`
	Name       string              `json:"name"`
	Email      *string             `json:"email"`
	EmployeeID *string             `json:"employee_id"`
	HireDate   *string             `json:"hire_date"`
	Status     domain.PersonStatus `json:"status"`
	Flags      *string             `json:"flags"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// AliasResponse representation shared by person and function aliases.
type AliasResponse struct {
	ID        int64     `json:"id"`
	Owner     string    `json:"owner"`
	Alias     string    `json:"alias"`
	Flags     *string   `json:"flags"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileResponse bundles a person with their roles.
type ProfileResponse struct {
	Person            PersonResponse `json:"person"`
	ActiveRoles       []RoleResponse `json:"active_roles"`
	DirectReports     []RoleResponse `json:"direct_reports"`
	DirectReportCount int            `json:"direct_report_count"`
}
