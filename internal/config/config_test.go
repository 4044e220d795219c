package config

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weznn/Blockchain-BasedAutomotiveDamageTrackingSystem3DAdvancedModel/internal/ledger"
)

// unsetenv clears keys for the duration of the test and restores them afterwards.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		old, had := os.LookupEnv(key)
		os.Unsetenv(key)
		t.Cleanup(func() {
			if had {
				os.Setenv(key, old)
			} else {
				os.Unsetenv(key)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetenv(t, "LOG_LEVEL", "LOG_FORMAT", "LEDGER_DIGEST")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ledger.SHA256, cfg.Digest)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LEDGER_DIGEST", "SHA3-256")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ledger.SHA3_256, cfg.Digest)
}

func TestLoad_FromDotEnv(t *testing.T) {
	unsetenv(t, "LOG_LEVEL", "LOG_FORMAT", "LEDGER_DIGEST")

	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("LOG_LEVEL=warn\nLEDGER_DIGEST=blake2b-256\n"), 0o600))

	cfg, err := Load(file)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ledger.BLAKE2b256, cfg.Digest)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"level", "LOG_LEVEL", "loud"},
		{"format", "LOG_FORMAT", "xml"},
		{"digest", "LEDGER_DIGEST", "md5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetenv(t, "LOG_LEVEL", "LOG_FORMAT", "LEDGER_DIGEST")
			t.Setenv(tt.key, tt.value)

			cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.NoError(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_OverrideReplacesInvalidDigest(t *testing.T) {
	unsetenv(t, "LOG_LEVEL", "LOG_FORMAT", "LEDGER_DIGEST")
	t.Setenv("LEDGER_DIGEST", "md5")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.ErrorIs(t, cfg.Validate(), ledger.ErrUnknownDigest)

	cfg.DigestName = "blake2b-256"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ledger.BLAKE2b256, cfg.Digest)
}

func TestConfigureLogger(t *testing.T) {
	logger := log.New()
	cfg := &Config{LogLevel: "debug", LogFormat: "json", Digest: ledger.SHA256}
	require.NoError(t, cfg.ConfigureLogger(logger))
	assert.Equal(t, log.DebugLevel, logger.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, logger.Formatter)

	cfg.LogFormat = "text"
	require.NoError(t, cfg.ConfigureLogger(logger))
	assert.IsType(t, &log.TextFormatter{}, logger.Formatter)

	cfg.LogLevel = "nope"
	assert.Error(t, cfg.ConfigureLogger(logger))
}
