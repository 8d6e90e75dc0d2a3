package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
)

// envFiles are loaded from the config file's directory, first match wins per key.
var envFiles = []string{".env", ".env.local"}

// Load reads, expands, normalizes, defaults and validates a configuration file.
// Relative content, output and static directories resolve against the
// config file's directory.
func Load(configPath string) (*Config, error) {
	dir := filepath.Dir(configPath)
	loadEnvFiles(dir)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").WithPath(configPath).Build()
		}
		return nil, errors.FileSystemError("failed to read config file").WithCause(err).WithPath(configPath).Build()
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, err
	}
	cfg.resolvePaths(dir)
	return cfg, nil
}

// Parse decodes YAML configuration bytes, then normalizes, applies defaults
// and validates. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.ConfigError("failed to parse configuration").WithCause(err).Build()
	}

	if err := normalize(&cfg); err != nil {
		return nil, errors.ConfigError("invalid configuration").WithCause(err).Build()
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, errors.ConfigError("configuration validation failed").WithCause(err).Build()
	}
	return &cfg, nil
}

// normalize canonicalizes enumerated fields before defaults are applied.
func normalize(c *Config) error {
	fp, err := NormalizeFailurePolicy(string(c.Build.FailurePolicy))
	if err != nil {
		return fmt.Errorf("build.failure_policy: %w", err)
	}
	c.Build.FailurePolicy = fp
	c.Logging.Level = NormalizeLogLevel(string(c.Logging.Level))
	c.Logging.Format = NormalizeLogFormat(string(c.Logging.Format))
	c.DefaultDateType = strings.ToLower(strings.TrimSpace(c.DefaultDateType))
	c.Explorer.Comparator = strings.ToLower(strings.TrimSpace(c.Explorer.Comparator))
	c.Tags.Order = strings.ToLower(strings.TrimSpace(c.Tags.Order))
	c.BaseURL = strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(c.BaseURL, "https://"), "http://"), "/")
	return nil
}

func (c *Config) resolvePaths(base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	c.ContentDir = abs(c.ContentDir)
	c.OutputDir = abs(c.OutputDir)
	c.StaticDir = abs(c.StaticDir)
	c.Metrics.Textfile = abs(c.Metrics.Textfile)
}

// loadEnvFiles loads KEY=VALUE files without overriding the process environment.
func loadEnvFiles(dir string) {
	for _, name := range envFiles {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			slog.Warn("Failed to load env file", slog.String("path", p), slog.Any("error", err))
			continue
		}
		slog.Debug("Loaded environment variables", slog.String("path", p))
	}
}
