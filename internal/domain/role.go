package domain

import "time"

// RoleState is derived from a role's end date.
type RoleState string

const (
	RoleStateActive RoleState = "ACTIVE"
	RoleStateEnded  RoleState = "ENDED"
)

// Role assigns a person to a function for a dated period.
type Role struct {
	ID                 int64
	PersonName         string
	FunctionName       string
	OrganizationalUnit *string
	JobTitleName       *string
	Percentage         float64
	AdInterim          bool
	ReportsTo          *string
	StartDate          time.Time
	EndDate            *time.Time
	Flags              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Active reports whether the role has not been ended.
func (r Role) Active() bool {
	return r.EndDate == nil
}

// State returns the lifecycle state of the role.
func (r Role) State() RoleState {
	if r.Active() {
		return RoleStateActive
	}
	return RoleStateEnded
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
