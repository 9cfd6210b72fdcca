package domain

import "time"

// Function is a position or department node in the reporting hierarchy.
type Function struct {
	ID        int64
	Name      string
	ReportsTo *string
	Flags     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRoot reports whether the function has no structural parent.
func (f Function) IsRoot() bool {
	return f.ReportsTo == nil
}

// FunctionDependencies counts the live data referencing a function.
type FunctionDependencies struct {
	SubFunctions int `json:"sub_functions"`
	ActiveRoles  int `json:"active_roles"`
}

// Blocking reports whether the function may not be deleted.
func (d FunctionDependencies) Blocking() bool {
	return d.SubFunctions > 0 || d.ActiveRoles > 0
}
