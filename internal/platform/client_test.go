package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dentara/api/internal/config"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.PlatformConfig{
		URL:     srv.URL,
		AnonKey: "anon-key",
		Timeout: 5 * time.Second,
	}
	return New(cfg, "Bearer caller-token", zap.NewNop())
}

type row struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
}

func TestSelectSingleFound(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/v1/patients", r.URL.Path)
		require.Equal(t, "eq.p1", r.URL.Query().Get("id"))
		require.Equal(t, "anon-key", r.Header.Get("apikey"))
		require.Equal(t, "Bearer caller-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]row{{ID: "p1", FirstName: "Asha"}})
	}))

	var out row
	q := url.Values{"id": {"eq.p1"}, "select": {"*"}}
	err := c.SelectSingle(context.Background(), "patients", q, &out)
	require.NoError(t, err)
	require.Equal(t, "Asha", out.FirstName)
}

func TestSelectSingleNotFound(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	var out row
	err := c.SelectSingle(context.Background(), "patients", url.Values{"id": {"eq.missing"}}, &out)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateNotFound(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		w.Write([]byte(`[]`))
	}))

	var out row
	err := c.Update(context.Background(), "patients", url.Values{"id": {"eq.missing"}}, map[string]any{"phone": "123"}, &out)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestErrorMessagePassedThroughVerbatim(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"duplicate key value violates unique constraint"}`))
	}))

	err := c.Insert(context.Background(), "patients", map[string]any{}, &row{})
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, http.StatusConflict, perr.Status)
	require.Equal(t, "duplicate key value violates unique constraint", perr.Message)
}

func TestRPCArrayAndBareResults(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/v1/rpc/create_patient_with_initials", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]row{{ID: "p9"}})
	}))

	var out row
	err := c.RPC(context.Background(), "create_patient_with_initials", map[string]any{}, &out)
	require.NoError(t, err)
	require.Equal(t, "p9", out.ID)

	c2 := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(row{ID: "p10"})
	}))
	var out2 row
	err = c2.RPC(context.Background(), "create_patient_with_initials", map[string]any{}, &out2)
	require.NoError(t, err)
	require.Equal(t, "p10", out2.ID)
}

func TestSelectWithCount(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "count=exact", r.Header.Get("Prefer"))
		w.Header().Set("Content-Range", "0-1/57")
		_ = json.NewEncoder(w).Encode([]row{{ID: "a"}, {ID: "b"}})
	}))

	var out []row
	total, err := c.SelectWithCount(context.Background(), "user_submissions", url.Values{}, &out)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, int64(57), total)
}

func TestParseContentRangeTotal(t *testing.T) {
	require.Equal(t, int64(57), parseContentRangeTotal("0-24/57"))
	require.Equal(t, int64(-1), parseContentRangeTotal("0-24/*"))
	require.Equal(t, int64(-1), parseContentRangeTotal(""))
}
