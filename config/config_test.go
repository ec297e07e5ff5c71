package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	settings, err := LoadSettings("")
	require.NoError(t, err)

	assert.Equal(t, int64(15000), settings.Shipping.BaseFee)
	assert.Equal(t, 15*time.Second, settings.Stream.Heartbeat)
	assert.Equal(t, int64(256), settings.Stream.ReplaySize)
	assert.Equal(t, []string{"http://localhost:3000"}, settings.CORS.AllowedOrigins)
}

func TestLoadSettings_OverlayFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := []byte("shipping:\n  per_km_fee: 7000\nstream:\n  heartbeat: 5s\ncors:\n  allowed_origins: [\"https://foodweb.vn\"]\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	settings, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, int64(7000), settings.Shipping.PerKmFee)
	assert.Equal(t, int64(15000), settings.Shipping.BaseFee)
	assert.Equal(t, 5*time.Second, settings.Stream.Heartbeat)
	assert.Equal(t, []string{"https://foodweb.vn"}, settings.CORS.AllowedOrigins)
}

func TestLoadSettings_MissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnv_MissingFileIsIgnored(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestLoadEnv_DoesNotOverrideExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FOODWEB_TEST_A=file\nFOODWEB_TEST_B=file\n"), 0o600))
	t.Setenv("FOODWEB_TEST_A", "env")

	require.NoError(t, LoadEnv(path))
	t.Cleanup(func() { os.Unsetenv("FOODWEB_TEST_B") })

	assert.Equal(t, "env", os.Getenv("FOODWEB_TEST_A"))
	assert.Equal(t, "file", os.Getenv("FOODWEB_TEST_B"))
}

func TestGetEnv(t *testing.T) {
	t.Setenv("FOODWEB_TEST_PORT", "9000")
	assert.Equal(t, "9000", GetEnv("FOODWEB_TEST_PORT", "8080"))
	assert.Equal(t, "8080", GetEnv("FOODWEB_TEST_UNSET", "8080"))
}
