package patient

import (
	"context"
	"time"

	"github.com/dentara/api/internal/domain/history"
	"github.com/dentara/api/internal/domain/visit"
)

type Repository interface {
	// CreateWithInitials invokes the platform's atomic creation procedure:
	// either all three records (patient, medical history, initial visit)
	// are created or none are. Returns the created patient row.
	CreateWithInitials(ctx context.Context, p *Candidate, mh *history.Row, v *visit.Row) (*Row, error)

	// GetByID returns ErrPatientNotFound on a lookup miss.
	GetByID(ctx context.Context, id string) (*Row, error)

	// List returns patient rows newest first.
	List(ctx context.Context, limit, offset int) ([]*Row, error)

	// Update applies a partial column patch. Returns ErrPatientNotFound
	// when the id matches nothing.
	Update(ctx context.Context, id string, patch map[string]any) (*Row, error)

	// Delete removes the patient and returns the deleted row.
	Delete(ctx context.Context, id string) (*Row, error)

	// HasMedicalHistory reports whether any medical history row exists.
	HasMedicalHistory(ctx context.Context, patientID string) (bool, error)

	// LastVisitAt returns the most recent visit timestamp, nil when the
	// patient has no visits.
	LastVisitAt(ctx context.Context, patientID string) (*time.Time, error)
}
