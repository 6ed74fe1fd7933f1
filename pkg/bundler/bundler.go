package bundler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	_log "github.com/sirupsen/logrus"
)

var log = _log.WithField("at", "bundler")

// ErrNoEntryPoint is returned when a script has no index file on disk.
var ErrNoEntryPoint = errors.New("no entry point")

var entryCandidates = []string{
	"%s/index.ts",
	"%s/index.js",
	"%s.ts",
	"%s.js",
}

// BuildError carries the bundler diagnostics of a failed build.
type BuildError struct {
	Name     string
	Messages []string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build of %s failed:\n%s", e.Name, strings.Join(e.Messages, "\n"))
}

// Bundler builds page scripts from a source directory. Every call to Build
// runs esbuild again so edits show up on the next page load.
type Bundler struct {
	root string
}

func New(root string) (*Bundler, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("error resolving scripts dir '%s': %w", root, err)
	}
	return &Bundler{root: abs}, nil
}

// Root is the absolute scripts directory.
func (b *Bundler) Root() string {
	return b.root
}

// EntryPoint resolves the file esbuild starts from for name.
func (b *Bundler) EntryPoint(name string) (string, error) {
	for _, pattern := range entryCandidates {
		candidate := filepath.Join(b.root, filepath.FromSlash(fmt.Sprintf(pattern, name)))
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w for script '%s' in %s", ErrNoEntryPoint, name, b.root)
}

// Build bundles, minifies and inlines a sourcemap for the named script.
func (b *Bundler) Build(name string) ([]byte, error) {
	entry, err := b.EntryPoint(name)
	if err != nil {
		return nil, err
	}

	result := api.Build(api.BuildOptions{
		EntryPoints:       []string{entry},
		AbsWorkingDir:     b.root,
		Bundle:            true,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		Sourcemap:         api.SourceMapInline,
		Target:            api.ES2015,
		Write:             false,
		LogLevel:          api.LogLevelSilent,
	})

	if len(result.Errors) > 0 {
		return nil, &BuildError{
			Name: name,
			Messages: api.FormatMessages(result.Errors, api.FormatMessagesOptions{
				Kind: api.ErrorMessage,
			}),
		}
	}
	for _, w := range result.Warnings {
		log.WithField("script", name).Warn(strings.TrimSpace(w.Text))
	}
	if len(result.OutputFiles) == 0 {
		return nil, &BuildError{Name: name, Messages: []string{"no output produced"}}
	}

	return result.OutputFiles[0].Contents, nil
}
