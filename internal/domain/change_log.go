package domain

import "time"

// ChangeLogEntry is a row of the externally maintained change table.
type ChangeLogEntry struct {
	ID         int64          `json:"id"`
	EntityType string         `json:"entity_type"`
	EntityName string         `json:"entity_name"`
	Action     string         `json:"action"`
	ChangedBy  *string        `json:"changed_by,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	ChangedAt  time.Time      `json:"changed_at"`
}
