// Package audit defines the append-only activity trail written alongside
// patient record mutations.
package audit

import "context"

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Entry is one recorded action, in the audit_events column naming.
type Entry struct {
	UserID       string `json:"user_id"`
	Action       Action `json:"action"`
	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id,omitempty"`
	RequestID    string `json:"request_id,omitempty"`
	IPAddress    string `json:"ip_address,omitempty"`
}

type Repository interface {
	Create(ctx context.Context, entry *Entry) error
}
