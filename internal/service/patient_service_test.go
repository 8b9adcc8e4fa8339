package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dentara/api/internal/domain/history"
	"github.com/dentara/api/internal/domain/patient"
	"github.com/dentara/api/internal/domain/visit"
	"github.com/dentara/api/internal/intake"
)

type fakePatientRepo struct {
	createdCandidate *patient.Candidate
	createdHistory   *history.Row
	createdVisit     *visit.Row
	created          *patient.Row
	rows             []*patient.Row
	patches          map[string]any
	hasHistory       bool
	lastVisit        *time.Time
	err              error
}

func (f *fakePatientRepo) CreateWithInitials(_ context.Context, p *patient.Candidate, mh *history.Row, v *visit.Row) (*patient.Row, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.createdCandidate, f.createdHistory, f.createdVisit = p, mh, v
	return f.created, nil
}

func (f *fakePatientRepo) GetByID(_ context.Context, id string) (*patient.Row, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.created, nil
}

func (f *fakePatientRepo) List(_ context.Context, limit, offset int) ([]*patient.Row, error) {
	return f.rows, f.err
}

func (f *fakePatientRepo) Update(_ context.Context, id string, patch map[string]any) (*patient.Row, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.patches = patch
	return f.created, nil
}

func (f *fakePatientRepo) Delete(_ context.Context, id string) (*patient.Row, error) {
	return f.created, f.err
}

func (f *fakePatientRepo) HasMedicalHistory(_ context.Context, id string) (bool, error) {
	return f.hasHistory, nil
}

func (f *fakePatientRepo) LastVisitAt(_ context.Context, id string) (*time.Time, error) {
	return f.lastVisit, nil
}

type fakeStore struct {
	bucket      string
	objectPath  string
	contentType string
	uploads     int
}

func (f *fakeStore) UploadObject(_ context.Context, bucket, objectPath string, data []byte, contentType string) error {
	f.bucket, f.objectPath, f.contentType = bucket, objectPath, contentType
	f.uploads++
	return nil
}

// fakeResolver treats non-URL strings as bucket paths and signs them by
// prefixing; external URLs pass through Outbound untouched.
type fakeResolver struct {
	signs atomic.Int64
}

func (f *fakeResolver) PathFromURL(s string) (string, bool) {
	if strings.HasPrefix(s, "http") {
		return "", false
	}
	return strings.TrimLeft(s, "/"), true
}

func (f *fakeResolver) Outbound(_ context.Context, stored *string) *string {
	if stored == nil {
		return nil
	}
	if _, ok := f.PathFromURL(*stored); !ok {
		return stored
	}
	f.signs.Add(1)
	signed := "https://signed.example.com/" + *stored
	return &signed
}

func newTestPatientService(repo *fakePatientRepo, store *fakeStore) (*PatientService, *fakeResolver) {
	resolver := &fakeResolver{}
	auditSvc := NewAuditService(nil, nil, zap.NewNop())
	svc := NewPatientService(repo, store, resolver, auditSvc, nil, zap.NewNop(), "patient-photos", 4)
	return svc, resolver
}

func decodeCreateSubmission(t *testing.T, raw string) *intake.Submission {
	t.Helper()
	var sub intake.Submission
	require.NoError(t, json.Unmarshal([]byte(raw), &sub))
	return &sub
}

const completeSubmission = `{
	"firstName": "Asha", "lastName": "Patel", "dob": "1990-05-01",
	"gender": "female", "phone": "9999999999",
	"initialVisit": {"chiefComplaint": "toothache"}
}`

func TestCreateValidationNamesMissingFields(t *testing.T) {
	repo := &fakePatientRepo{}
	svc, _ := newTestPatientService(repo, &fakeStore{})

	sub := decodeCreateSubmission(t, `{"firstName": "Asha", "lastName": "Patel", "dob": "1990-05-01"}`)
	_, err := svc.Create(context.Background(), sub, nil, Actor{UserID: "u1"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.ElementsMatch(t, []string{"gender", "phone", "chiefComplaint"}, verr.Fields)
	require.Nil(t, repo.createdCandidate, "no write may be attempted on validation failure")
}

func TestCreateMissingChiefComplaintOnly(t *testing.T) {
	repo := &fakePatientRepo{}
	svc, _ := newTestPatientService(repo, &fakeStore{})

	sub := decodeCreateSubmission(t, `{
		"firstName": "Asha", "lastName": "Patel", "dob": "1990-05-01",
		"gender": "female", "phone": "9999999999"
	}`)
	_, err := svc.Create(context.Background(), sub, nil, Actor{UserID: "u1"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, []string{"chiefComplaint"}, verr.Fields)
	require.Nil(t, repo.createdCandidate)
}

func TestCreateReturnsSignedPhoto(t *testing.T) {
	path := "u1/patients/f.png"
	repo := &fakePatientRepo{created: &patient.Row{ID: "p-1", PhotoURL: &path}}
	svc, _ := newTestPatientService(repo, &fakeStore{})

	sub := decodeCreateSubmission(t, completeSubmission)
	row, err := svc.Create(context.Background(), sub, nil, Actor{UserID: "u1"})

	require.NoError(t, err)
	require.NotNil(t, row.PhotoURL)
	require.Equal(t, "https://signed.example.com/u1/patients/f.png", *row.PhotoURL)
}

func TestCreateUploadsBinaryBeforeWrite(t *testing.T) {
	repo := &fakePatientRepo{created: &patient.Row{ID: "p-1"}}
	store := &fakeStore{}
	svc, _ := newTestPatientService(repo, store)

	sub := decodeCreateSubmission(t, completeSubmission)
	upload := &PhotoUpload{Data: []byte("img"), ContentType: "image/png"}
	_, err := svc.Create(context.Background(), sub, upload, Actor{UserID: "u1"})

	require.NoError(t, err)
	require.Equal(t, 1, store.uploads)
	require.Equal(t, "patient-photos", store.bucket)
	require.True(t, strings.HasPrefix(store.objectPath, "u1/patients/"))
	require.True(t, strings.HasSuffix(store.objectPath, ".png"))

	require.NotNil(t, repo.createdCandidate.PhotoURL)
	require.Equal(t, store.objectPath, *repo.createdCandidate.PhotoURL)
}

func TestGetReturnsMeta(t *testing.T) {
	visitAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	repo := &fakePatientRepo{
		created:    &patient.Row{ID: "p-1"},
		hasHistory: true,
		lastVisit:  &visitAt,
	}
	svc, _ := newTestPatientService(repo, &fakeStore{})

	row, meta, err := svc.Get(context.Background(), "p-1", Actor{UserID: "u1"})

	require.NoError(t, err)
	require.Equal(t, "p-1", row.ID)
	require.True(t, meta.HasMedicalHistory)
	require.Equal(t, &visitAt, meta.LastVisitAt)
}

func TestListSignsEveryBucketPathPreservingOrder(t *testing.T) {
	paths := []string{"u1/a.png", "u1/b.png", "u1/c.png"}
	external := "https://cdn.example.com/x.jpg"
	rows := []*patient.Row{
		{ID: "p-1", PhotoURL: &paths[0]},
		{ID: "p-2", PhotoURL: &external},
		{ID: "p-3", PhotoURL: nil},
		{ID: "p-4", PhotoURL: &paths[1]},
		{ID: "p-5", PhotoURL: &paths[2]},
	}
	repo := &fakePatientRepo{rows: rows}
	svc, resolver := newTestPatientService(repo, &fakeStore{})

	got, err := svc.List(context.Background(), 100, 0, Actor{UserID: "u1"})

	require.NoError(t, err)
	require.Len(t, got, 5)
	require.Equal(t, []string{"p-1", "p-2", "p-3", "p-4", "p-5"},
		[]string{got[0].ID, got[1].ID, got[2].ID, got[3].ID, got[4].ID})
	require.Equal(t, int64(3), resolver.signs.Load())
	require.Equal(t, "https://signed.example.com/u1/a.png", *got[0].PhotoURL)
	require.Equal(t, external, *got[1].PhotoURL, "external URL never rewritten")
	require.Nil(t, got[2].PhotoURL)
}

func TestUpdateRejectsEmptyPatch(t *testing.T) {
	svc, _ := newTestPatientService(&fakePatientRepo{}, &fakeStore{})

	_, err := svc.Update(context.Background(), "p-1", &intake.ProfilePayload{}, nil, Actor{UserID: "u1"})
	require.ErrorIs(t, err, ErrNoFieldsToUpdate)
}

func TestUpdatePhotoRequiresInput(t *testing.T) {
	svc, _ := newTestPatientService(&fakePatientRepo{}, &fakeStore{})

	_, err := svc.UpdatePhoto(context.Background(), "p-1", nil, nil, Actor{UserID: "u1"})
	require.ErrorIs(t, err, ErrPhotoRequired)
}

func TestUpdatePhotoStoresPathForBucketURL(t *testing.T) {
	repo := &fakePatientRepo{created: &patient.Row{ID: "p-1"}}
	svc, _ := newTestPatientService(repo, &fakeStore{})

	ref := "/u1/patients/p-1/f.png"
	_, err := svc.UpdatePhoto(context.Background(), "p-1", &ref, nil, Actor{UserID: "u1"})

	require.NoError(t, err)
	require.Equal(t, map[string]any{"photo_url": "u1/patients/p-1/f.png"}, repo.patches)
}

func TestUpdatePhotoUploadScopedToPatientFolder(t *testing.T) {
	repo := &fakePatientRepo{created: &patient.Row{ID: "p-1"}}
	store := &fakeStore{}
	svc, _ := newTestPatientService(repo, store)

	upload := &PhotoUpload{Data: []byte("img"), ContentType: "image/jpeg"}
	_, err := svc.UpdatePhoto(context.Background(), "p-1", nil, upload, Actor{UserID: "u1"})

	require.NoError(t, err)
	require.True(t, strings.HasPrefix(store.objectPath, "u1/patients/p-1/"))
}
