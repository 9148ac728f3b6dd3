package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsAndEnv(t *testing.T) {
	chdir(t, t.TempDir()) // no stray .env
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_CATALOG_TTL", "30s")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "workout_composer", cfg.Database.Name)
	assert.Equal(t, "test-secret", cfg.JWT.Secret)
	assert.Equal(t, 30*time.Second, cfg.Redis.CatalogTTL)
	assert.Equal(t, "development", cfg.Log.Mode)
	assert.True(t, cfg.S3.UseSSL)
}

func TestLoadConfigFileIsOverriddenByEnv(t *testing.T) {
	chdir(t, t.TempDir())
	dir := t.TempDir()
	yaml := []byte(`
server:
  address: ":9090"
database:
  name: from_file
jwt:
  secret: file-secret
presets:
  path: ./presets.yaml
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("DATABASE_NAME", "from_env")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "from_env", cfg.Database.Name)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, "./presets.yaml", cfg.Presets.Path)
}

func TestLoadConfigReadsDotEnv(t *testing.T) {
	wd := t.TempDir()
	chdir(t, wd)
	require.NoError(t, os.WriteFile(filepath.Join(wd, ".env"), []byte("JWT_SECRET=dotenv-secret\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("JWT_SECRET") })

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "dotenv-secret", cfg.JWT.Secret)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}

// chdir switches the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
