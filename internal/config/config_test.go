package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon-key")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "dentara-api", cfg.App.Name)
	require.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	require.Equal(t, "patient-photos", cfg.Storage.Bucket)
	require.Equal(t, 3600, cfg.Storage.SignTTLSeconds)
	require.Equal(t, 8, cfg.Storage.SignConcurrency)
	require.Equal(t, int64(7*1024*1024), cfg.Storage.MaxUploadBytes)
	require.Equal(t, 30*time.Second, cfg.Platform.Timeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon-key")
	t.Setenv("PATIENT_BUCKET", "clinic-photos")
	t.Setenv("PHOTO_SIGN_TTL_SECONDS", "600")
	t.Setenv("PHOTO_SIGN_CONCURRENCY", "4")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "clinic-photos", cfg.Storage.Bucket)
	require.Equal(t, 600, cfg.Storage.SignTTLSeconds)
	require.Equal(t, 4, cfg.Storage.SignConcurrency)
	require.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadMissingPlatformURL(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "anon-key")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "SUPABASE_URL is required")
}

func TestLoadJWTSecretRequiredOutsideDevelopment(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon-key")
	t.Setenv("SUPABASE_JWT_SECRET", "")
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "SUPABASE_JWT_SECRET is required")
}
