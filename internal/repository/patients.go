// Package repository implements the domain repository interfaces against
// the platform data API. All table access rides the per-request client, so
// row visibility is whatever the caller's row-level security grants.
package repository

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/dentara/api/internal/domain/history"
	"github.com/dentara/api/internal/domain/patient"
	"github.com/dentara/api/internal/domain/visit"
	"github.com/dentara/api/internal/platform"
)

type PatientRepository struct {
	client *platform.Client
}

func NewPatientRepository(client *platform.Client) *PatientRepository {
	return &PatientRepository{client: client}
}

// CreateWithInitials calls the platform's atomic procedure. All three rows
// are created in one transaction on the platform side; any failure there
// surfaces verbatim and nothing is written.
func (r *PatientRepository) CreateWithInitials(ctx context.Context, p *patient.Candidate, mh *history.Row, v *visit.Row) (*patient.Row, error) {
	args := map[string]any{
		"p_patient": p,
		"p_medhist": mh,
		"p_visit":   v,
	}
	var row patient.Row
	if err := r.client.RPC(ctx, "create_patient_with_initials", args, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *PatientRepository) GetByID(ctx context.Context, id string) (*patient.Row, error) {
	q := url.Values{}
	q.Set("id", "eq."+id)
	q.Set("select", "*")

	var row patient.Row
	if err := r.client.SelectSingle(ctx, "patients", q, &row); err != nil {
		return nil, translateNotFound(err, patient.ErrPatientNotFound)
	}
	return &row, nil
}

func (r *PatientRepository) List(ctx context.Context, limit, offset int) ([]*patient.Row, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var rows []*patient.Row
	if err := r.client.Select(ctx, "patients", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PatientRepository) Update(ctx context.Context, id string, patch map[string]any) (*patient.Row, error) {
	q := url.Values{}
	q.Set("id", "eq."+id)

	var row patient.Row
	if err := r.client.Update(ctx, "patients", q, patch, &row); err != nil {
		return nil, translateNotFound(err, patient.ErrPatientNotFound)
	}
	return &row, nil
}

func (r *PatientRepository) Delete(ctx context.Context, id string) (*patient.Row, error) {
	q := url.Values{}
	q.Set("id", "eq."+id)

	var row patient.Row
	if err := r.client.Delete(ctx, "patients", q, &row); err != nil {
		return nil, translateNotFound(err, patient.ErrPatientNotFound)
	}
	return &row, nil
}

func (r *PatientRepository) HasMedicalHistory(ctx context.Context, patientID string) (bool, error) {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("patient_id", "eq."+patientID)
	q.Set("limit", "1")

	var rows []struct {
		ID string `json:"id"`
	}
	if err := r.client.Select(ctx, "medical_histories", q, &rows); err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

func (r *PatientRepository) LastVisitAt(ctx context.Context, patientID string) (*time.Time, error) {
	q := url.Values{}
	q.Set("select", "visit_at")
	q.Set("patient_id", "eq."+patientID)
	q.Set("order", "visit_at.desc")
	q.Set("limit", "1")

	var rows []struct {
		VisitAt *time.Time `json:"visit_at"`
	}
	if err := r.client.Select(ctx, "visits", q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].VisitAt, nil
}

// translateNotFound maps the platform's lookup-miss sentinel onto the
// domain's; everything else passes through.
func translateNotFound(err, domainErr error) error {
	if errors.Is(err, platform.ErrNotFound) {
		return domainErr
	}
	return err
}
