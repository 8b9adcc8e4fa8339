package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dentara/api/internal/domain/submission"
)

type fakeSubmissionRepo struct {
	created *submission.Row
	listQ   submission.ListQuery
	patch   map[string]any
}

func (f *fakeSubmissionRepo) Create(_ context.Context, row *submission.Row) (*submission.Row, error) {
	f.created = row
	return row, nil
}

func (f *fakeSubmissionRepo) GetByID(_ context.Context, id string) (*submission.Row, error) {
	return &submission.Row{ID: id}, nil
}

func (f *fakeSubmissionRepo) List(_ context.Context, q submission.ListQuery) (*submission.ListResult, error) {
	f.listQ = q
	return &submission.ListResult{Limit: q.Limit, Offset: q.Offset, Items: []*submission.Row{}}, nil
}

func (f *fakeSubmissionRepo) Update(_ context.Context, id string, patch map[string]any) (*submission.Row, error) {
	f.patch = patch
	return &submission.Row{ID: id}, nil
}

func (f *fakeSubmissionRepo) Delete(_ context.Context, id string) (*submission.Row, error) {
	return &submission.Row{ID: id}, nil
}

func newTestSubmissionService(repo *fakeSubmissionRepo) *SubmissionService {
	return NewSubmissionService(repo, NewAuditService(nil, nil, zap.NewNop()), zap.NewNop())
}

func TestSubmissionCreateRequiresName(t *testing.T) {
	svc := newTestSubmissionService(&fakeSubmissionRepo{})

	_, err := svc.Create(context.Background(), &submission.Row{Name: "   "}, Actor{UserID: "u1"})
	require.ErrorIs(t, err, ErrNameRequired)
}

func TestSubmissionCreateTrimsName(t *testing.T) {
	repo := &fakeSubmissionRepo{}
	svc := newTestSubmissionService(repo)

	_, err := svc.Create(context.Background(), &submission.Row{Name: "  Camp A  "}, Actor{UserID: "u1"})
	require.NoError(t, err)
	require.Equal(t, "Camp A", repo.created.Name)
}

func TestSubmissionListClampsPaging(t *testing.T) {
	repo := &fakeSubmissionRepo{}
	svc := newTestSubmissionService(repo)

	_, err := svc.List(context.Background(), submission.ListQuery{Limit: 10_000, Offset: -5})
	require.NoError(t, err)
	require.Equal(t, submissionListMaxLimit, repo.listQ.Limit)
	require.Equal(t, 0, repo.listQ.Offset)

	_, err = svc.List(context.Background(), submission.ListQuery{})
	require.NoError(t, err)
	require.Equal(t, submissionListDefaultLimit, repo.listQ.Limit)
}

func TestSubmissionUpdateCannotBlankName(t *testing.T) {
	svc := newTestSubmissionService(&fakeSubmissionRepo{})

	_, err := svc.Update(context.Background(), "s-1", map[string]any{"name": "  "}, Actor{UserID: "u1"})
	require.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Update(context.Background(), "s-1", map[string]any{}, Actor{UserID: "u1"})
	require.ErrorIs(t, err, ErrNoFieldsToUpdate)
}
