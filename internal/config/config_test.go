package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigContent = `
[development]
host = "localhost"
port = 8080
log_level = "trace"
log_to_stdout = true
sqlite_path = "memopad.db"
companion_base_url = "https://openrouter.ai/api/v1"
companion_model = "deepseek/deepseek-chat"
static_dir_path = "./frontend/dist"
prometheus_metrics_host = "localhost"
prometheus_metrics_port = "2112"

[production]
host = ""
port = 9000
log_level = "debug"
logs_path = "/var/log/memopad/service.log"
sentry_enabled = true
sqlite_path = "/var/lib/memopad/memopad.db"
companion_base_url = "https://openrouter.ai/api/v1"
companion_model = "deepseek/deepseek-chat"
static_dir_path = "/var/www/memopad"
prometheus_metrics_host = "localhost"
prometheus_metrics_port = "2112"
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigContent), 0o600))
	return path
}

func TestLoad_Development(t *testing.T) {
	cfg, err := Load("development", writeTestConfig(t))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "memopad.db", cfg.SQLitePath)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.CompanionBaseURL)
	assert.True(t, cfg.LogToStdout)
	assert.False(t, cfg.SentryEnabled)
}

func TestLoad_Production(t *testing.T) {
	cfg, err := Load("prod", writeTestConfig(t))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "/var/lib/memopad/memopad.db", cfg.SQLitePath)
	assert.True(t, cfg.SentryEnabled)
}

func TestLoad_UnknownEnv(t *testing.T) {
	cfg, err := Load("staging", writeTestConfig(t))
	require.Error(t, err)
	assert.Nil(t, cfg)
}
