package submission

import "time"

// Row mirrors a user_submissions record. Everything beyond the name is
// optional free-form camp intake data.
type Row struct {
	ID          string         `json:"id,omitempty"`
	CreatedAt   *time.Time     `json:"created_at,omitempty"`
	CreatedBy   *string        `json:"created_by,omitempty"`
	Name        string         `json:"name"`
	Email       *string        `json:"email,omitempty"`
	Phone       *string        `json:"phone,omitempty"`
	Institution *string        `json:"institution,omitempty"`
	Notes       *string        `json:"notes,omitempty"`
	Payload     map[string]any `json:"payload,omitempty"`
}

// ListQuery carries the clamped list parameters. Sort is a whitelisted
// "column.direction" pair; Search matches name, email and institution.
type ListQuery struct {
	Limit  int
	Offset int
	Search string
	Sort   string
}

// ListResult is the paging envelope returned to clients.
type ListResult struct {
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Total  int    `json:"total"`
	Items  []*Row `json:"items"`
}
