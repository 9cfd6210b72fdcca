package domain

import "time"

// JobTitle is a named title with an optional seniority level.
type JobTitle struct {
	ID        int64
	Name      string
	Level     *int
	Flags     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
