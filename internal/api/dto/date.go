package dto

import (
	"strings"
	"time"

	apperrors "github.com/orgwise/orgchart-service/pkg/util/errorutil"
)

// ParseDate parses an optional YYYY-MM-DD value. Blank strings are nil.
func ParseDate(field string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(*value))
	if err != nil {
		return nil, apperrors.NewValidationError(
			field+" must be a date formatted as YYYY-MM-DD",
			map[string]any{field: *value},
		)
	}
	return &t, nil
}

// FormatDate renders an optional date as YYYY-MM-DD.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}
