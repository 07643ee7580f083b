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
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "fixture", cfg.Provider.Name)
	assert.Equal(t, "test", cfg.Amadeus.Env)
	assert.Equal(t, 30*time.Second, cfg.Amadeus.TimeoutDuration())
	assert.Equal(t, 1, cfg.Sweep.Workers)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}, cfg.Sweep.RetryDelays())
	assert.Equal(t, 30.0, cfg.Airports.RadiusMiles)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FLIGHTFINDER_PROVIDER_NAME", "amadeus")
	t.Setenv("FLIGHTFINDER_AMADEUS_API_KEY", "key")
	t.Setenv("FLIGHTFINDER_AMADEUS_API_SECRET", "secret")
	t.Setenv("FLIGHTFINDER_AMADEUS_ENV", "prod")
	t.Setenv("FLIGHTFINDER_SWEEP_WORKERS", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "amadeus", cfg.Provider.Name)
	assert.Equal(t, "key", cfg.Amadeus.APIKey)
	assert.Equal(t, "prod", cfg.Amadeus.Env)
	assert.Equal(t, 4, cfg.Sweep.Workers)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "config.yaml"), []byte(`
server:
  port: 9191
sweep:
  tolerate_failures: true
  retry_delays_ms: [50]
airports:
  radius_miles: 45
`), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.True(t, cfg.Sweep.TolerateFailures)
	assert.Equal(t, []time.Duration{50 * time.Millisecond}, cfg.Sweep.RetryDelays())
	assert.Equal(t, 45.0, cfg.Airports.RadiusMiles)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FLIGHTFINDER_LOG_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("FLIGHTFINDER_LOG_LEVEL") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ValidationCollectsErrors(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FLIGHTFINDER_PROVIDER_NAME", "amadeus")
	t.Setenv("FLIGHTFINDER_AMADEUS_ENV", "staging")
	t.Setenv("FLIGHTFINDER_SERVER_PORT", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be 1-65535")
	assert.Contains(t, err.Error(), "amadeus.api_key is required")
	assert.Contains(t, err.Error(), "amadeus.api_secret is required")
	assert.Contains(t, err.Error(), `amadeus.env must be test or prod, got "staging"`)
}

func TestValidate_UnknownProvider(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FLIGHTFINDER_PROVIDER_NAME", "skyscanner")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `provider.name must be amadeus or fixture, got "skyscanner"`)
}
