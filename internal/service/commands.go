package service

import (
	"strings"
	"time"

	"github.com/orgwise/orgchart-service/internal/domain"
)

// CreatePersonCommand creates a person. Status defaults to ACTIVE.
type CreatePersonCommand struct {
	Name       string              `json:"name" validate:"required"`
	Email      *string             `json:"email" validate:"omitempty,contains=@"`
	EmployeeID *string             `json:"employee_id"`
	HireDate   *time.Time          `json:"hire_date"`
	Status     domain.PersonStatus `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE TERMINATED"`
	Flags      *string             `json:"flags"`
}

func (c *CreatePersonCommand) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = trimOptional(c.Email)
	c.EmployeeID = trimOptional(c.EmployeeID)
	c.Flags = trimOptional(c.Flags)
	c.Status = domain.PersonStatus(strings.ToUpper(strings.TrimSpace(string(c.Status))))
}

// UpdatePersonCommand changes the provided fields of a person; nil leaves a
// field untouched.
type UpdatePersonCommand struct {
	Name       string               `json:"name" validate:"required"`
	Email      *string              `json:"email" validate:"omitempty,contains=@"`
	EmployeeID *string              `json:"employee_id"`
	HireDate   *time.Time           `json:"hire_date"`
	Status     *domain.PersonStatus `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE TERMINATED"`
	Flags      *string              `json:"flags"`
}

func (c *UpdatePersonCommand) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = trimOptional(c.Email)
	c.EmployeeID = trimOptional(c.EmployeeID)
	c.Flags = trimOptional(c.Flags)
	if c.Status != nil {
		s := domain.PersonStatus(strings.ToUpper(strings.TrimSpace(string(*c.Status))))
		c.Status = &s
	}
}

// TerminateEmployeeCommand ends every role of a person and terminates them.
type TerminateEmployeeCommand struct {
	Name string     `json:"name" validate:"required"`
	Date *time.Time `json:"date"`
}

// CreateFunctionCommand creates a function, optionally under a parent.
type CreateFunctionCommand struct {
	Name      string  `json:"name" validate:"required"`
	ReportsTo *string `json:"reports_to"`
	Flags     *string `json:"flags"`
}

func (c *CreateFunctionCommand) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.ReportsTo = trimOptional(c.ReportsTo)
	c.Flags = trimOptional(c.Flags)
}

// UpdateFunctionCommand replaces the parent and flags of a function. A nil
// ReportsTo makes the function a root.
type UpdateFunctionCommand struct {
	Name      string  `json:"name" validate:"required"`
	ReportsTo *string `json:"reports_to"`
	Flags     *string `json:"flags"`
}

func (c *UpdateFunctionCommand) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.ReportsTo = trimOptional(c.ReportsTo)
	c.Flags = trimOptional(c.Flags)
}

// ReorganizeFunctionCommand moves a function under a new parent.
type ReorganizeFunctionCommand struct {
	Name      string  `json:"name" validate:"required"`
	NewParent *string `json:"new_parent"`
}

// JobTitleCommand creates or replaces a job title.
type JobTitleCommand struct {
	Name  string  `json:"name" validate:"required"`
	Level *int    `json:"level" validate:"omitempty,gte=0"`
	Flags *string `json:"flags"`
}

func (c *JobTitleCommand) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Flags = trimOptional(c.Flags)
}

// CreateRoleCommand assigns a person to a function. Percentage defaults to 1.0
// and StartDate to today.
type CreateRoleCommand struct {
	PersonName         string     `json:"person_name" validate:"required"`
	FunctionName       string     `json:"function_name" validate:"required"`
	OrganizationalUnit *string    `json:"organizational_unit"`
	JobTitleName       *string    `json:"job_title_name"`
	Percentage         *float64   `json:"percentage"`
	AdInterim          bool       `json:"ad_interim"`
	ReportsTo          *string    `json:"reports_to"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	Flags              *string    `json:"flags"`
}

func (c *CreateRoleCommand) normalize() {
	c.PersonName = strings.TrimSpace(c.PersonName)
	c.FunctionName = strings.TrimSpace(c.FunctionName)
	c.OrganizationalUnit = trimOptional(c.OrganizationalUnit)
	c.JobTitleName = trimOptional(c.JobTitleName)
	c.ReportsTo = trimOptional(c.ReportsTo)
	c.Flags = trimOptional(c.Flags)
}

// UpdateRoleCommand changes non-temporal fields of an active role; nil leaves
// a field untouched.
type UpdateRoleCommand struct {
	ID                 int64    `json:"id" validate:"required,gt=0"`
	OrganizationalUnit *string  `json:"organizational_unit"`
	JobTitleName       *string  `json:"job_title_name"`
	Percentage         *float64 `json:"percentage"`
	AdInterim          *bool    `json:"ad_interim"`
	ReportsTo          *string  `json:"reports_to"`
	Flags              *string  `json:"flags"`
}

func (c *UpdateRoleCommand) normalize() {
	c.OrganizationalUnit = trimOptional(c.OrganizationalUnit)
	c.JobTitleName = trimOptional(c.JobTitleName)
	c.ReportsTo = trimOptional(c.ReportsTo)
	c.Flags = trimOptional(c.Flags)
}

// EndRoleCommand ends a role at Date, or today.
type EndRoleCommand struct {
	ID   int64      `json:"id" validate:"required,gt=0"`
	Date *time.Time `json:"date"`
}

// TransferRoleCommand hands a role over to another person.
type TransferRoleCommand struct {
	RoleID        int64      `json:"role_id" validate:"required,gt=0"`
	NewPersonName string     `json:"new_person_name" validate:"required"`
	Date          *time.Time `json:"date"`
}

// BulkChangeManagerCommand repoints every active report of OldManager.
type BulkChangeManagerCommand struct {
	OldManager string `json:"old_manager" validate:"required"`
	NewManager string `json:"new_manager" validate:"required"`
}

// AliasCommand adds or removes an alias of a person or function.
type AliasCommand struct {
	Owner string  `json:"owner" validate:"required"`
	Alias string  `json:"alias" validate:"required"`
	Flags *string `json:"flags"`
}

func (c *AliasCommand) normalize() {
	c.Owner = strings.TrimSpace(c.Owner)
	c.Alias = strings.TrimSpace(c.Alias)
	c.Flags = trimOptional(c.Flags)
}

// RoleListFilter narrows ListRoles.
type RoleListFilter struct {
	PersonName   string `query:"person"`
	FunctionName string `query:"function"`
	JobTitleName string `query:"job_title"`
	ReportsTo    string `query:"reports_to"`
	ActiveOnly   bool   `query:"active"`
	InterimOnly  bool   `query:"interim"`
}

// trimOptional trims v and turns blank strings into nil.
func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
