package dto

import (
	"time"

	"github.com/orgwise/orgchart-service/internal/domain"
)

// FunctionRequest payload for creating a function.
type FunctionRequest struct {
	Name      string  `json:"name"`
	ReportsTo *string `json:"reports_to"`
	Flags     *string `json:"flags"`
}

// FunctionUpdateRequest payload. reports_to null makes the function a root.
type FunctionUpdateRequest struct {
	ReportsTo *string `json:"reports_to"`
	Flags     *string `json:"flags"`
}

// MoveFunctionRequest payload for reorganizing.
type MoveFunctionRequest struct {
	NewParent *string `json:"new_parent"`
}

// FunctionResponse representation.
type FunctionResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ReportsTo *string   `json:"reports_to"`
	Flags     *string   `json:"flags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FunctionDetailsResponse representation.
type FunctionDetailsResponse struct {
	Function     FunctionResponse            `json:"function"`
	ActiveRoles  []RoleResponse              `json:"active_roles"`
	Headcount    int                         `json:"headcount"`
	Dependencies domain.FunctionDependencies `json:"dependencies"`
	Aliases      []AliasResponse             `json:"aliases"`
	SubFunctions []string                    `json:"sub_functions"`
}
