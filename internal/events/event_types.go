package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPersonCreated     EventType = "person_created"
	EventPersonUpdated     EventType = "person_updated"
	EventPersonDeleted     EventType = "person_deleted"
	EventPersonTerminated  EventType = "person_terminated"
	EventFunctionCreated   EventType = "function_created"
	EventFunctionUpdated   EventType = "function_updated"
	EventFunctionMoved     EventType = "function_moved"
	EventFunctionDeleted   EventType = "function_deleted"
	EventJobTitleChanged   EventType = "job_title_changed"
	EventRoleCreated       EventType = "role_created"
	EventRoleUpdated       EventType = "role_updated"
	EventRoleEnded         EventType = "role_ended"
	EventRoleTransferred   EventType = "role_transferred"
	EventManagerReassigned EventType = "manager_reassigned"
	EventAliasChanged      EventType = "alias_changed"
)

// AllEventTypes lists every event the service emits.
func AllEventTypes() []EventType {
	return []EventType{
		EventPersonCreated, EventPersonUpdated, EventPersonDeleted, EventPersonTerminated,
		EventFunctionCreated, EventFunctionUpdated, EventFunctionMoved, EventFunctionDeleted,
		EventJobTitleChanged,
		EventRoleCreated, EventRoleUpdated, EventRoleEnded, EventRoleTransferred,
		EventManagerReassigned, EventAliasChanged,
	}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	EntityType string    `json:"entity_type"`
	EntityName string    `json:"entity_name"`
	Actor      string    `json:"actor,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Payload    any       `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, entityType, entityName string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EntityType: entityType,
		EntityName: entityName,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
}

// FunctionMovedPayload payload.
type FunctionMovedPayload struct {
	OldParent *string `json:"old_parent,omitempty"`
	NewParent *string `json:"new_parent,omitempty"`
}

// RoleTransferredPayload payload.
type RoleTransferredPayload struct {
	SourceRoleID int64  `json:"source_role_id"`
	NewRoleID    int64  `json:"new_role_id"`
	FromPerson   string `json:"from_person"`
	ToPerson     string `json:"to_person"`
	Date         string `json:"date"`
}

// ManagerReassignedPayload payload.
type ManagerReassignedPayload struct {
	OldManager string `json:"old_manager"`
	NewManager string `json:"new_manager"`
	Count      int64  `json:"count"`
}

// PersonTerminatedPayload payload.
type PersonTerminatedPayload struct {
	RolesEnded    int64 `json:"roles_ended"`
	StatusUpdated bool  `json:"status_updated"`
}
