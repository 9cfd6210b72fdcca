package domain

import "time"

// PersonStatus represents lifecycle states for a person.
type PersonStatus string

const (
	PersonStatusActive     PersonStatus = "ACTIVE"
	PersonStatusInactive   PersonStatus = "INACTIVE"
	PersonStatusTerminated PersonStatus = "TERMINATED"
)

// Valid reports whether s is one of the known statuses.
func (s PersonStatus) Valid() bool {
	switch s {
	case PersonStatusActive, PersonStatusInactive, PersonStatusTerminated:
		return true
	}
	return false
}

// Person is an employee identified by a unique name.
type Person struct {
	ID         int64
	Name       string
	Email      *string
	EmployeeID *string
	HireDate   *time.Time
	Status     PersonStatus
	Flags      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
