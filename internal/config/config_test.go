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
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.APIURL)
	assert.Equal(t, 300*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, "seatctl.db", cfg.CacheDSN)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SEATCTL_API_URL", "http://api.test/api")
	t.Setenv("SEATCTL_DEBOUNCE", "50ms")
	t.Setenv("SEATCTL_PAGE_SIZE", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://api.test/api", cfg.APIURL)
	assert.Equal(t, 50*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 5, cfg.PageSize)
}

func TestLoad_InvalidPageSize(t *testing.T) {
	t.Setenv("SEATCTL_PAGE_SIZE", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadEnv_SkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("SEATCTL_LISTEN=:9999\n"), 0644))
	t.Setenv("SEATCTL_LISTEN", "")
	require.NoError(t, os.Unsetenv("SEATCTL_LISTEN"))

	err := LoadEnv(filepath.Join(dir, "missing.env"), path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", os.Getenv("SEATCTL_LISTEN"))
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug", "json")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	logger, err = NewLogger("bogus", "console")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
