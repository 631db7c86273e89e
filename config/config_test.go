package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mit.edu/dsg/planval/schema"
	"mit.edu/dsg/planval/validate"
)

func writeAndLoad(t *testing.T, content string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planval.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return Load(path)
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := writeAndLoad(t, `
validation:
  supported_versions: ">= 0.30.0"
  collision_policy: error
  check_functions: false
extensions:
  allowed_origins:
    - https://github.com
logging:
  level: debug
  format: console
metrics:
  enabled: true
`)
	require.NoError(t, err)

	c, err := cfg.Constraints()
	require.NoError(t, err)
	assert.True(t, c.Check(semver.MustParse("0.31.0")))
	assert.False(t, c.Check(semver.MustParse("0.29.0")))

	p, err := cfg.Collision()
	require.NoError(t, err)
	assert.Equal(t, schema.CollisionReject, p)
	assert.False(t, cfg.FunctionsChecked())
	assert.Equal(t, []string{"https://github.com"}, cfg.Extensions.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestDefaults(t *testing.T) {
	for name, load := range map[string]func(t *testing.T) (*Config, error){
		"default":    func(*testing.T) (*Config, error) { return Default(), nil },
		"empty file": func(t *testing.T) (*Config, error) { return writeAndLoad(t, "") },
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := load(t)
			require.NoError(t, err)
			assert.Equal(t, DefaultSupportedVersions, cfg.Validation.SupportedVersions)
			assert.Equal(t, validate.DefaultSupportedVersions, cfg.Validation.SupportedVersions)
			assert.Equal(t, DefaultCollisionPolicy, cfg.Validation.CollisionPolicy)
			assert.True(t, cfg.FunctionsChecked())
			assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
			assert.Equal(t, DefaultLogFormat, cfg.Logging.Format)
			assert.Empty(t, cfg.Extensions.AllowedOrigins)
			assert.False(t, cfg.Metrics.Enabled)
		})
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("PLANVAL_TEST_ORIGIN", "https://extensions.example.org")
	cfg, err := writeAndLoad(t, `
extensions:
  allowed_origins: ["${PLANVAL_TEST_ORIGIN}"]
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://extensions.example.org"}, cfg.Extensions.AllowedOrigins)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad yaml", "validation: [", "parse config"},
		{"bad versions", "validation: {supported_versions: \"not a range\"}", "validation.supported_versions"},
		{"bad policy", "validation: {collision_policy: merge}", "validation.collision_policy"},
		{"relative origin", "extensions: {allowed_origins: [/x]}", "extensions.allowed_origins[0]"},
		{"bad level", "logging: {level: loud}", "logging.level"},
		{"bad format", "logging: {format: xml}", "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := writeAndLoad(t, tt.content)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "read config"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggingConfig{Level: "warn", Format: "json"}, &buf)
	logger.Info().Msg("dropped")
	logger.Warn().Str("plan", "q1").Msg("kept")
	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"plan":"q1"`)
	assert.Contains(t, out, `"level":"warn"`)

	buf.Reset()
	logger = NewLogger(LoggingConfig{Level: "info", Format: "console"}, &buf)
	logger.Info().Str("plan", "q1").Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "plan=q1")
}
