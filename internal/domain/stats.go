package domain

// Stats holds the headline organization counters.
type Stats struct {
	TotalPersons     int `json:"total_persons"`
	TotalFunctions   int `json:"total_functions"`
	TotalRoles       int `json:"total_roles"`
	InterimRoles     int `json:"interim_roles"`
	MultiRolePersons int `json:"multi_role_persons"`
}

// FunctionHeadcount counts active roles per function.
type FunctionHeadcount struct {
	FunctionName string `json:"function_name"`
	RoleCount    int    `json:"role_count"`
}

// JobTitleUsage counts active roles per job title.
type JobTitleUsage struct {
	JobTitleName string `json:"job_title_name"`
	RoleCount    int    `json:"role_count"`
}

// MultiRolePerson is a person holding more than one active role.
type MultiRolePerson struct {
	PersonName string   `json:"person_name"`
	RoleCount  int      `json:"role_count"`
	Functions  []string `json:"functions"`
}

// DetailedStats is the admin dashboard aggregate payload.
type DetailedStats struct {
	Stats
	FunctionsByHeadcount []FunctionHeadcount `json:"functions_by_headcount"`
	TopJobTitles         []JobTitleUsage     `json:"top_job_titles"`
	MultiRoleDetails     []MultiRolePerson   `json:"multi_role_details"`
}
