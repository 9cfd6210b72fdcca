package domain

// PathSeparator joins function names in materialized hierarchy paths.
const PathSeparator = " > "

// OrgChartNode is a read-only projection of a function and one of its active role holders.
type OrgChartNode struct {
	FunctionName       string  `json:"function_name"`
	Level              int     `json:"level"`
	Path               string  `json:"path"`
	PersonName         *string `json:"person_name,omitempty"`
	JobTitleName       *string `json:"job_title_name,omitempty"`
	OrganizationalUnit *string `json:"organizational_unit,omitempty"`
	AdInterim          bool    `json:"ad_interim"`
	ReportsTo          *string `json:"reports_to,omitempty"`
	PersonReportsTo    *string `json:"person_reports_to,omitempty"`
}

// FunctionTreeNode is a read-only projection of the function hierarchy.
type FunctionTreeNode struct {
	Name      string  `json:"name"`
	ReportsTo *string `json:"reports_to,omitempty"`
	Level     int     `json:"level"`
	Path      string  `json:"path"`
	Headcount int     `json:"headcount"`
}
