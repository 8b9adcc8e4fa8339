package repository

import (
	"context"

	"github.com/dentara/api/internal/domain/audit"
	"github.com/dentara/api/internal/platform"
)

// AuditRepository writes audit entries with a service-role client rather
// than a caller-scoped one: the trail must record actions even when the
// actor's own row visibility would hide the target table.
type AuditRepository struct {
	client *platform.Client
}

func NewAuditRepository(client *platform.Client) *AuditRepository {
	return &AuditRepository{client: client}
}

func (r *AuditRepository) Create(ctx context.Context, entry *audit.Entry) error {
	return r.client.Insert(ctx, "audit_events", entry, nil)
}
