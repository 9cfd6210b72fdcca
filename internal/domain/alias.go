package domain

import "time"

// PersonAlias is an alternative name used when searching persons.
type PersonAlias struct {
	ID         int64
	PersonName string
	Alias      string
	Flags      *string
	CreatedAt  time.Time
}

// FunctionAlias is an alternative name for a function.
type FunctionAlias struct {
	ID           int64
	FunctionName string
	Alias        string
	Flags        *string
	CreatedAt    time.Time
}
