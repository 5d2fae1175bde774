package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "disk", cfg.Asset.Backend)
	assert.Equal(t, int64(5<<20), cfg.Asset.MaxBytes)
	assert.Equal(t, uint(1), cfg.FallbackUserID)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoad_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=9090\nFRONTEND_BASE_URL=https://app.example/\n"), 0o600))
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Cleanup(func() {
		os.Unsetenv("PORT")
		os.Unsetenv("FRONTEND_BASE_URL")
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://app.example/", cfg.FrontendBaseURL)
}

func TestLoad_PostgresNeedsDSN(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_DSN")
}

func TestLoad_UnknownAssetBackend(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("ASSET_BACKEND", "ftp")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestConfig_WarnsOnDerivedBaseURLInProd(t *testing.T) {
	cfg := &Config{Env: EnvProd}
	require.Len(t, cfg.Warnings(), 1)
	assert.Contains(t, cfg.Warnings()[0], "PUBLIC_BASE_URL")

	cfg.PublicBaseURL = "https://api.example"
	assert.Empty(t, cfg.Warnings())

	assert.Empty(t, (&Config{Env: EnvLocal}).Warnings())
}
