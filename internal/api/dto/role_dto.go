package dto

import "time"

// RoleRequest payload for creating a role.
type RoleRequest struct {
	PersonName         string   `json:"person_name"`
	FunctionName       string   `json:"function_name"`
	OrganizationalUnit *string  `json:"organizational_unit"`
	JobTitleName       *string  `json:"job_title_name"`
	Percentage         *float64 `json:"percentage"`
	AdInterim          bool     `json:"ad_interim"`
	ReportsTo          *string  `json:"reports_to"`
	StartDate          *string  `json:"start_date"`
	EndDate            *string  `json:"end_date"`
	Flags              *string  `json:"flags"`
}

// RoleUpdateRequest payload; omitted fields stay unchanged.
type RoleUpdateRequest struct {
	OrganizationalUnit *string  `json:"organizational_unit"`
	JobTitleName       *string  `json:"job_title_name"`
	Percentage         *float64 `json:"percentage"`
	AdInterim          *bool    `json:"ad_interim"`
	ReportsTo          *string  `json:"reports_to"`
	Flags              *string  `json:"flags"`
}

// EndRoleRequest payload.
type EndRoleRequest struct {
	Date *string `json:"date"`
}

// TransferRoleRequest payload.
type TransferRoleRequest struct {
	NewPersonName string  `json:"new_person_name"`
	Date          *string `json:"date"`
}

// ReassignManagerRequest payload for the bulk manager change.
type ReassignManagerRequest struct {
	OldManager string `json:"old_manager"`
	NewManager string `json:"new_manager"`
}

// RoleResponse representation.
type RoleResponse struct {
	ID                 int64     `json:"id"`
	PersonName         string    `json:"person_name"`
	FunctionName       string    `json:"function_name"`
	OrganizationalUnit *string   `json:"organizational_unit"`
	JobTitleName       *string   `json:"job_title_name"`
	Percentage         float64   `json:"percentage"`
	AdInterim          bool      `json:"ad_interim"`
	ReportsTo          *string   `json:"reports_to"`
	StartDate          string    `json:"start_date"`
	EndDate            *string   `json:"end_date"`
	State              string    `json:"state"`
	Flags              *string   `json:"flags"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// JobTitleRequest payload for creating or replacing a job title.
type JobTitleRequest struct {
	Name  string  `json:"name"`
	Level *int    `json:"level"`
	Flags *string `json:"flags"`
}

// JobTitleResponse representation.
type JobTitleResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Level     *int      `json:"level"`
	Flags     *string   `json:"flags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DashboardResponse representation.
type DashboardResponse struct {
	Stats         any            `json:"stats"`
	RecentChanges any            `json:"recent_changes"`
	InterimRoles  []RoleResponse `json:"interim_roles"`
}
