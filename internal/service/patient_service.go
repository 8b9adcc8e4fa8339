package service

import (
	"context"
	"fmt"
	"mime"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dentara/api/internal/domain/audit"
	"github.com/dentara/api/internal/domain/patient"
	"github.com/dentara/api/internal/intake"
	"github.com/dentara/api/pkg/metrics"
)

// PhotoStore is the blob-store slice the patient flows need.
// *platform.Client satisfies it.
type PhotoStore interface {
	UploadObject(ctx context.Context, bucket, objectPath string, data []byte, contentType string) error
}

// PhotoResolver classifies stored photo references and applies the
// sign-on-the-way-out policy. *photo.Resolver satisfies it.
type PhotoResolver interface {
	PathFromURL(urlOrPath string) (string, bool)
	Outbound(ctx context.Context, stored *string) *string
}

// PhotoUpload is an image received with a request, already size- and
// type-checked by the handler.
type PhotoUpload struct {
	Data        []byte
	ContentType string
}

// Actor identifies the caller for audit purposes.
type Actor struct {
	UserID    string
	RequestID string
	IP        string
}

// PatientService orchestrates patient record flows. It is constructed per
// request around a caller-scoped repository and resolver; the audit
// service, collector, and logger are shared process-wide.
type PatientService struct {
	repo            patient.Repository
	store           PhotoStore
	resolver        PhotoResolver
	auditSvc        *AuditService
	collector       *metrics.Collector
	log             *zap.Logger
	bucket          string
	signConcurrency int
}

func NewPatientService(
	repo patient.Repository,
	store PhotoStore,
	resolver PhotoResolver,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
	bucket string,
	signConcurrency int,
) *PatientService {
	if signConcurrency < 1 {
		signConcurrency = 1
	}
	return &PatientService{
		repo:            repo,
		store:           store,
		resolver:        resolver,
		auditSvc:        auditSvc,
		collector:       collector,
		log:             log,
		bucket:          bucket,
		signConcurrency: signConcurrency,
	}
}

// Create runs the atomic patient creation flow: upload the photo binary if
// one came with the request, reshape the submission into the three
// candidates, fail fast on missing required fields, then invoke the
// platform's all-or-nothing procedure. The returned row's photo reference
// is a fresh signed URL, never the raw object path.
func (s *PatientService) Create(ctx context.Context, sub *intake.Submission, upload *PhotoUpload, actor Actor) (*patient.Row, error) {
	uploadedPath, err := s.uploadPhoto(ctx, upload, actor.UserID, "")
	if err != nil {
		return nil, err
	}

	candidate, mh, v := intake.BuildCreate(sub, uploadedPath, s.resolver)

	var missing []string
	if candidate.FirstName == "" {
		missing = append(missing, "firstName")
	}
	if candidate.LastName == "" {
		missing = append(missing, "lastName")
	}
	if candidate.DOB == nil {
		missing = append(missing, "dob")
	}
	if candidate.Gender == "" {
		missing = append(missing, "gender")
	}
	if candidate.Phone == "" {
		missing = append(missing, "phone")
	}
	if v.ChiefComplaint == nil {
		missing = append(missing, "chiefComplaint")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	row, err := s.repo.CreateWithInitials(ctx, candidate, mh, v)
	if err != nil {
		return nil, err
	}

	if s.collector != nil {
		s.collector.PatientsCreatedTotal.Inc()
	}
	s.audit(actor, audit.ActionCreate, "patient", row.ID)
	s.log.Info("patient created",
		zap.String("patient_id", row.ID),
		zap.String("created_by", actor.UserID),
	)

	row.PhotoURL = s.resolver.Outbound(ctx, row.PhotoURL)
	return row, nil
}

// Get fetches one patient with its quick meta summary.
func (s *PatientService) Get(ctx context.Context, id string, actor Actor) (*patient.Row, *patient.Meta, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	hasHistory, err := s.repo.HasMedicalHistory(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	lastVisit, err := s.repo.LastVisitAt(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	s.audit(actor, audit.ActionRead, "patient", id)

	row.PhotoURL = s.resolver.Outbound(ctx, row.PhotoURL)
	return row, &patient.Meta{HasMedicalHistory: hasHistory, LastVisitAt: lastVisit}, nil
}

// List returns patient rows newest first with fresh signed photo URLs.
// Signing fans out concurrently under a fixed ceiling; one row's signing
// failure degrades only that row.
func (s *PatientService) List(ctx context.Context, limit, offset int, actor Actor) ([]*patient.Row, error) {
	rows, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	s.signPhotos(ctx, rows)
	s.audit(actor, audit.ActionRead, "patient", "")
	return rows, nil
}

// Update applies a partial profile patch. A request with no recognized
// fields is rejected before touching the store.
func (s *PatientService) Update(ctx context.Context, id string, payload *intake.ProfilePayload, upload *PhotoUpload, actor Actor) (*patient.Row, error) {
	uploadedPath, err := s.uploadPhoto(ctx, upload, actor.UserID, id)
	if err != nil {
		return nil, err
	}

	patch := intake.BuildPatch(payload, uploadedPath, s.resolver)
	if len(patch) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	row, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.audit(actor, audit.ActionUpdate, "patient", id)

	row.PhotoURL = s.resolver.Outbound(ctx, row.PhotoURL)
	return row, nil
}

// UpdatePhoto replaces only the photo reference, from an uploaded binary
// or a client-supplied URL. One of the two must be present.
func (s *PatientService) UpdatePhoto(ctx context.Context, id string, photoURL *string, upload *PhotoUpload, actor Actor) (*patient.Row, error) {
	reference := photoURL
	if upload != nil {
		path, err := s.uploadPhoto(ctx, upload, actor.UserID, id)
		if err != nil {
			return nil, err
		}
		reference = &path
	}
	if reference == nil || strings.TrimSpace(*reference) == "" {
		return nil, ErrPhotoRequired
	}

	stored := *reference
	if path, ok := s.resolver.PathFromURL(stored); ok {
		stored = path
	}

	row, err := s.repo.Update(ctx, id, map[string]any{"photo_url": stored})
	if err != nil {
		return nil, err
	}

	s.audit(actor, audit.ActionUpdate, "patient_photo", id)

	row.PhotoURL = s.resolver.Outbound(ctx, row.PhotoURL)
	return row, nil
}

func (s *PatientService) Delete(ctx context.Context, id string, actor Actor) error {
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit(actor, audit.ActionDelete, "patient", id)
	s.log.Info("patient deleted",
		zap.String("patient_id", id),
		zap.String("deleted_by", actor.UserID),
	)
	return nil
}

// uploadPhoto pushes an image to the bucket under the caller's prefix and
// returns the object path, or "" when there was nothing to upload.
func (s *PatientService) uploadPhoto(ctx context.Context, upload *PhotoUpload, userID, patientID string) (string, error) {
	if upload == nil {
		return "", nil
	}

	folder := "patients"
	if patientID != "" {
		folder = "patients/" + patientID
	}
	objectPath := fmt.Sprintf("%s/%s/%s.%s", userID, folder, uuid.NewString(), extensionFor(upload.ContentType))

	if err := s.store.UploadObject(ctx, s.bucket, objectPath, upload.Data, upload.ContentType); err != nil {
		return "", err
	}
	if s.collector != nil {
		s.collector.PhotoUploadsTotal.Inc()
	}
	return objectPath, nil
}

// signPhotos resolves every row's photo reference concurrently, bounded so
// a large page cannot flood the blob store with signing requests. Row
// order is untouched; each goroutine writes only its own row.
func (s *PatientService) signPhotos(ctx context.Context, rows []*patient.Row) {
	sem := make(chan struct{}, s.signConcurrency)
	var wg sync.WaitGroup

	for _, row := range rows {
		if row.PhotoURL == nil {
			continue
		}
		wg.Add(1)
		go func(r *patient.Row) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			r.PhotoURL = s.resolver.Outbound(ctx, r.PhotoURL)
		}(row)
	}
	wg.Wait()
}

func (s *PatientService) audit(actor Actor, action audit.Action, resourceType, resourceID string) {
	s.auditSvc.RecordAsync(&audit.Entry{
		UserID:       actor.UserID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		RequestID:    actor.RequestID,
		IPAddress:    actor.IP,
	})
}

// extensionFor picks a filename extension for an image content type,
// falling back to a generic one rather than failing the upload.
func extensionFor(contentType string) string {
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return "bin"
	}
	return strings.TrimPrefix(exts[0], ".")
}
