package config

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GCP_SECRET_ID", "TARGET_AUDIENCE", "AWS_REGION", "TOKEN_URI", "REMOTE_TIMEOUT",
		"LOG_LEVEL", "RUN_ADDR", "SKILL_MODE", "METRICS_PATH", "SKILL_CONFIG", "AWS_LAMBDA_RUNTIME_API",
	} {
		t.Setenv(k, "")
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(old)) })
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ModeHTTP, cfg.Server.Mode)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, DefaultTokenURI, cfg.Skill.TokenURI)
	assert.Empty(t, cfg.Skill.SecretID)
	assert.Empty(t, cfg.Skill.TargetAudience)
}

func TestLoadLayers(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "skill.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
log:
  level: debug
skill:
  secret_id: from-file
  target_audience: https://example.test/fn
  remote_timeout: 3s
`), 0o600))

	t.Setenv("GCP_SECRET_ID", "from-env")

	cfg, err := Load(path, func(c *Config) {
		c.Server.Addr = ":9100"
		c.Skill.SecretID = "from-flag"
	})
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "from-env", cfg.Skill.SecretID)
	assert.Equal(t, "https://example.test/fn", cfg.Skill.TargetAudience)
	assert.Equal(t, 3*time.Second, cfg.Skill.RemoteTimeout)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadBadRemoteTimeout(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("REMOTE_TIMEOUT", "eight seconds")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REMOTE_TIMEOUT")
}

func TestLoadRemoteTimeoutFromEnv(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("REMOTE_TIMEOUT", "2s")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Skill.RemoteTimeout)
}

func TestLambdaModeDetection(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("AWS_LAMBDA_RUNTIME_API", "127.0.0.1:9001")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ModeLambda, cfg.Server.Mode)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.Server.Mode = "grpc"
	cfg.Log.Level = "chatty"
	cfg.Skill.RemoteTimeout = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.mode")
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "remote_timeout")
}
