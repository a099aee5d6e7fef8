package tokenauth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"JWT_ACCESS_SECRET",
	"JWT_REFRESH_SECRET",
	"JWT_ACCESS_SECRET_FILE",
	"JWT_REFRESH_SECRET_FILE",
	"TOKENAUTH_PRODUCTION",
	"TOKENAUTH_MIN_SECRET_LENGTH",
	"TOKENAUTH_AUDIT_ENABLED",
	"TOKENAUTH_AUDIT_BUFFER",
	"TOKENAUTH_AUDIT_DROP_IF_FULL",
	"TOKENAUTH_AUDIT_EMIT_VERIFIED",
	"TOKENAUTH_METRICS_ENABLED",
	"TOKENAUTH_LATENCY_HISTOGRAMS",
}

// clearEnv unsets every variable LoadConfig reads and restores them when
// the test ends.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAccessSecret, cfg.Token.AccessSecret)
	assert.Equal(t, DefaultRefreshSecret, cfg.Token.RefreshSecret)
	assert.Equal(t, "15m", cfg.Token.AccessExpiry)
	assert.Equal(t, "7d", cfg.Token.RefreshExpiry)
	assert.False(t, cfg.Security.ProductionMode)
	assert.Equal(t, DefaultMinSecretLength, cfg.Security.MinSecretLength)
	assert.False(t, cfg.Audit.Enabled)
	assert.Equal(t, 1024, cfg.Audit.BufferSize)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_ACCESS_SECRET", strongSecret("access"))
	t.Setenv("JWT_REFRESH_SECRET", strongSecret("refresh"))
	t.Setenv("TOKENAUTH_PRODUCTION", "true")
	t.Setenv("TOKENAUTH_AUDIT_ENABLED", "true")
	t.Setenv("TOKENAUTH_AUDIT_BUFFER", "16")
	t.Setenv("TOKENAUTH_LATENCY_HISTOGRAMS", "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, strongSecret("access"), cfg.Token.AccessSecret)
	assert.Equal(t, strongSecret("refresh"), cfg.Token.RefreshSecret)
	assert.True(t, cfg.Security.ProductionMode)
	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, 16, cfg.Audit.BufferSize)
	assert.True(t, cfg.Metrics.EnableLatencyHistograms)
}

func TestLoadConfigProductionRequiresSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOKENAUTH_PRODUCTION", "true")

	_, err := LoadConfig("")
	assert.ErrorIs(t, err, ErrInsecureSecret)
}

func TestLoadConfigRejectsBadValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOKENAUTH_AUDIT_BUFFER", "lots")

	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfigReadsDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "JWT_ACCESS_SECRET=from-dotenv-access\nJWT_REFRESH_SECRET=from-dotenv-refresh\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv-access", cfg.Token.AccessSecret)
	assert.Equal(t, "from-dotenv-refresh", cfg.Token.RefreshSecret)
}

func TestLoadConfigEnvironmentWinsOverDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_ACCESS_SECRET", "from-process")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_ACCESS_SECRET=from-dotenv\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-process", cfg.Token.AccessSecret)
}

func TestLoadConfigMissingDotEnvIsIgnored(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestLoadConfigSecretFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	accessPath := filepath.Join(dir, "access")
	refreshPath := filepath.Join(dir, "refresh")
	require.NoError(t, os.WriteFile(accessPath, []byte(strongSecret("file-access")+"\n"), 0o600))
	require.NoError(t, os.WriteFile(refreshPath, []byte("  "+strongSecret("file-refresh")+"  \n"), 0o600))

	t.Setenv("JWT_ACCESS_SECRET", "overridden")
	t.Setenv("JWT_ACCESS_SECRET_FILE", accessPath)
	t.Setenv("JWT_REFRESH_SECRET_FILE", refreshPath)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, strongSecret("file-access"), cfg.Token.AccessSecret)
	assert.Equal(t, strongSecret("file-refresh"), cfg.Token.RefreshSecret)
}

func TestLoadConfigSecretFileErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JWT_ACCESS_SECRET_FILE", filepath.Join(t.TempDir(), "nope"))
		_, err := LoadConfig("")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("empty", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "empty")
		require.NoError(t, os.WriteFile(path, []byte("\n"), 0o600))
		t.Setenv("JWT_REFRESH_SECRET_FILE", path)
		_, err := LoadConfig("")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}
