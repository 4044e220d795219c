package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/weznn/Blockchain-BasedAutomotiveDamageTrackingSystem3DAdvancedModel/internal/ledger"
)

// Config holds runtime settings for the ledger driver.
type Config struct {
	LogLevel   string
	LogFormat  string
	DigestName string

	// Digest is resolved from DigestName by Validate.
	Digest ledger.Digest
}

// Load reads an optional .env file and then the environment.
// Variables already set in the environment take precedence over the file.
// Values are not checked here; callers apply their overrides and then call
// Validate.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	return &Config{
		LogLevel:   getenv("LOG_LEVEL", "info"),
		LogFormat:  getenv("LOG_FORMAT", "text"),
		DigestName: getenv("LEDGER_DIGEST", string(ledger.SHA256)),
	}, nil
}

// Validate checks the log settings and resolves Digest.
func (c *Config) Validate() error {
	digest, err := ledger.ParseDigest(c.DigestName)
	if err != nil {
		return fmt.Errorf("invalid LEDGER_DIGEST: %w", err)
	}
	c.Digest = digest

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q: must be text or json", c.LogFormat)
	}
	return nil
}

// ConfigureLogger applies level and format to logger.
func (c *Config) ConfigureLogger(logger *log.Logger) error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(level)

	if strings.ToLower(c.LogFormat) == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
