package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/docgraph/internal/config"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/frontmatter"
	"git.home.luguber.info/inful/docgraph/internal/frontmatterops"
)

const welcomeBody = `# Welcome

This is the home page of your new site. Link other notes with [[wikilinks]],
tag them with #tags, and run ` + "`docgraph watch`" + ` to preview changes.
`

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	return RunInit(root.Config, i.Force, time.Now(), os.Stdout)
}

// RunInit writes the default configuration to configPath and, when the
// content directory does not exist yet, a starter index note next to it.
func RunInit(configPath string, force bool, now time.Time, out io.Writer) error {
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", configPath)
	if err := config.WriteExample(configPath, force); err != nil {
		return err
	}

	contentDir := filepath.Join(filepath.Dir(configPath), config.Default().ContentDir)
	if _, err := os.Stat(contentDir); err == nil {
		_, _ = fmt.Fprintf(out, "Keeping existing content in %s\n", contentDir)
		return nil
	}
	index := filepath.Join(contentDir, "index.md")
	if err := writeStarterNote(index, now); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Created %s\n", index)
	return nil
}

func writeStarterNote(path string, now time.Time) error {
	fields := map[string]any{
		"title":   "Welcome",
		"created": now.Format(time.DateOnly),
		"tags":    []string{"start"},
	}
	uid, _, err := frontmatterops.EnsureUID(fields)
	if err != nil {
		return err
	}
	if _, err := frontmatterops.EnsureUIDAlias(fields, uid); err != nil {
		return err
	}
	content, err := frontmatter.Compose(fields, []byte(welcomeBody))
	if err != nil {
		return errors.DocumentError("failed to compose starter note").WithCause(err).WithPath(path).Build()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.FileSystemError("failed to create content directory").WithCause(err).WithPath(filepath.Dir(path)).Build()
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return errors.FileSystemError("failed to write starter note").WithCause(err).WithPath(path).Build()
	}
	return nil
}
