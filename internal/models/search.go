package models

// SearchOption holds the transient filters of a catalog search dialog.
// Credits of zero means unset.
type SearchOption struct {
	Query   string   `json:"query"`
	Grades  []int    `json:"grades"`
	Days    []string `json:"days"`
	Periods []int    `json:"periods"`
	Majors  []string `json:"majors"`
	Credits int      `json:"credits,omitempty"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	LastPage   int `json:"last_page"`
}
