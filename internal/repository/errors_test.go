package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapPgError(t *testing.T) {
	assert.NoError(t, mapPgError(nil))
	assert.ErrorIs(t, mapPgError(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, mapPgError(fmt.Errorf("scan: %w", pgx.ErrNoRows)), ErrNotFound)

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "persons_name_key"}
	err := mapPgError(dup)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Contains(t, err.Error(), "persons_name_key")

	check := &pgconn.PgError{Code: "23514", ConstraintName: "roles_end_after_start"}
	assert.ErrorIs(t, mapPgError(check), ErrConstraint)

	other := errors.New("boom")
	assert.Equal(t, other, mapPgError(other))
}
