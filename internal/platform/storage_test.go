package platform

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUploadObject(t *testing.T) {
	var gotPath, gotUpsert, gotContentType string
	var gotBody []byte
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUpsert = r.Header.Get("x-upsert")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"Key":"patient-photos/u1/patients/f.jpg"}`))
	}))

	err := c.UploadObject(context.Background(), "patient-photos", "u1/patients/f.jpg", []byte("jpegbytes"), "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, "/storage/v1/object/patient-photos/u1/patients/f.jpg", gotPath)
	require.Equal(t, "false", gotUpsert)
	require.Equal(t, "image/jpeg", gotContentType)
	require.Equal(t, "jpegbytes", string(gotBody))
}

func TestUploadObjectNoOverwrite(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"The resource already exists"}`))
	}))

	err := c.UploadObject(context.Background(), "patient-photos", "u1/patients/f.jpg", []byte("x"), "image/png")
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "The resource already exists", perr.Message)
}

func TestCreateSignedURLRelativeResponse(t *testing.T) {
	var base string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/storage/v1/object/sign/patient-photos/u1/patients/f.jpg", r.URL.Path)
		w.Write([]byte(`{"signedURL":"/object/sign/patient-photos/u1/patients/f.jpg?token=abc"}`))
	}))
	base = c.BaseURL()

	signed, err := c.CreateSignedURL(context.Background(), "patient-photos", "u1/patients/f.jpg", 3600)
	require.NoError(t, err)
	require.Equal(t, base+"/storage/v1/object/sign/patient-photos/u1/patients/f.jpg?token=abc", signed)
}

func TestCreateSignedURLFailure(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Object not found"}`))
	}))

	_, err := c.CreateSignedURL(context.Background(), "patient-photos", "missing.jpg", 3600)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "Object not found", perr.Message)
}
