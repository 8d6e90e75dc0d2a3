package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
)

const exampleHeader = `# docgraph site configuration.
# Environment variables (${VAR}) are expanded; .env files next to this file are loaded first.
`

// Marshal renders c as YAML.
func Marshal(c *Config) ([]byte, error) {
	body, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return body, nil
}

// WriteExample writes the default configuration to path. An existing file is
// only replaced when force is set.
func WriteExample(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithPath(path).Build()
	}
	body, err := Marshal(Default())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append([]byte(exampleHeader), body...), 0o600); err != nil {
		return errors.FileSystemError("failed to write configuration").WithCause(err).WithPath(path).Build()
	}
	return nil
}
