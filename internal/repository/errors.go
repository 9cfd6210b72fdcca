package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors shared by every storage backend. ErrConstraint reports a
// CHECK constraint rejected the row.
var (
	ErrNotFound   = errors.New("repository: not found")
	ErrDuplicate  = errors.New("repository: duplicate key")
	ErrConstraint = errors.New("repository: constraint violated")
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	case pgCheckViolation:
		return fmt.Errorf("%w: %s", ErrConstraint, pgErr.ConstraintName)
	default:
		return err
	}
}
