package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/dentara/api/internal/domain/audit"
	"github.com/dentara/api/internal/domain/submission"
)

const (
	submissionListDefaultLimit = 50
	submissionListMaxLimit     = 200
)

// SubmissionService handles the camp outreach submission flows. Like
// PatientService it wraps a caller-scoped repository per request.
type SubmissionService struct {
	repo     submission.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewSubmissionService(repo submission.Repository, auditSvc *AuditService, log *zap.Logger) *SubmissionService {
	return &SubmissionService{repo: repo, auditSvc: auditSvc, log: log}
}

func (s *SubmissionService) Create(ctx context.Context, row *submission.Row, actor Actor) (*submission.Row, error) {
	row.Name = strings.TrimSpace(row.Name)
	if row.Name == "" {
		return nil, ErrNameRequired
	}

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, err
	}

	s.auditSvc.RecordAsync(&audit.Entry{
		UserID:       actor.UserID,
		Action:       audit.ActionCreate,
		ResourceType: "camp_submission",
		ResourceID:   created.ID,
		RequestID:    actor.RequestID,
		IPAddress:    actor.IP,
	})
	return created, nil
}

func (s *SubmissionService) Get(ctx context.Context, id string) (*submission.Row, error) {
	return s.repo.GetByID(ctx, id)
}

// List clamps paging to sane bounds before hitting the store.
func (s *SubmissionService) List(ctx context.Context, q submission.ListQuery) (*submission.ListResult, error) {
	if q.Limit <= 0 {
		q.Limit = submissionListDefaultLimit
	}
	if q.Limit > submissionListMaxLimit {
		q.Limit = submissionListMaxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return s.repo.List(ctx, q)
}

// Update applies a partial patch. The name can change but cannot be
// blanked out.
func (s *SubmissionService) Update(ctx context.Context, id string, patch map[string]any, actor Actor) (*submission.Row, error) {
	if len(patch) == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	if name, present := patch["name"]; present {
		str, _ := name.(string)
		if strings.TrimSpace(str) == "" {
			return nil, ErrNameRequired
		}
		patch["name"] = strings.TrimSpace(str)
	}

	row, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.auditSvc.RecordAsync(&audit.Entry{
		UserID:       actor.UserID,
		Action:       audit.ActionUpdate,
		ResourceType: "camp_submission",
		ResourceID:   id,
		RequestID:    actor.RequestID,
		IPAddress:    actor.IP,
	})
	return row, nil
}

func (s *SubmissionService) Delete(ctx context.Context, id string, actor Actor) error {
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.RecordAsync(&audit.Entry{
		UserID:       actor.UserID,
		Action:       audit.ActionDelete,
		ResourceType: "camp_submission",
		ResourceID:   id,
		RequestID:    actor.RequestID,
		IPAddress:    actor.IP,
	})
	s.log.Info("camp submission deleted", zap.String("submission_id", id))
	return nil
}
