// Package builder runs the compilation pipeline over a whole source tree:
// it discovers prompt documents, compiles each on a bounded worker pool, and
// writes one artifact per document. Documents share no state, so failures
// are collected per file and never abort sibling compilations.
package builder

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/grovetools/rulegen/pkg/compiler"
	"github.com/grovetools/rulegen/pkg/config"
)

// Result records the outcome of compiling one source document.
type Result struct {
	Source string
	Output string
	Err    error
}

// Builder compiles every prompt document under a configured source tree.
type Builder struct {
	logger *logrus.Logger
}

// New creates a new builder instance.
func New(logger *logrus.Logger) *Builder {
	return &Builder{logger: logger}
}

// Build discovers source documents under baseDir per cfg, compiles them in
// parallel, and writes the artifacts. It returns one Result per document and
// a non-nil error if any document failed, so callers can exit non-zero while
// still reporting every failure.
func (b *Builder) Build(cfg *config.Config, baseDir string) ([]Result, error) {
	sourceDir := filepath.Join(baseDir, cfg.SourceDir)
	sources, err := b.discover(sourceDir, cfg.FragmentDir)
	if err != nil {
		return nil, fmt.Errorf("failed to discover prompt sources: %w", err)
	}
	if len(sources) == 0 {
		b.logger.Warnf("No prompt documents found under %s", sourceDir)
		return nil, nil
	}

	outputDir := filepath.Join(baseDir, cfg.OutputDir)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	results := make([]Result, len(sources))
	var g errgroup.Group
	g.SetLimit(cfg.Workers)

	for i, source := range sources {
		i, source := i, source
		g.Go(func() error {
			name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)) + cfg.Extension
			output := filepath.Join(outputDir, name)
			results[i] = Result{Source: source, Output: output, Err: b.compileOne(source, output)}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures land in results

	var failures []error
	for _, r := range results {
		if r.Err != nil {
			b.logger.WithError(r.Err).Errorf("Failed to compile %s", r.Source)
			failures = append(failures, r.Err)
			continue
		}
		b.logger.Infof("Compiled %s -> %s", r.Source, r.Output)
	}
	if len(failures) > 0 {
		return results, fmt.Errorf("%d of %d documents failed: %w", len(failures), len(results), errors.Join(failures...))
	}
	return results, nil
}

// compileOne runs one full pipeline instance. Each document gets its own
// compiler so include caches stay document-scoped.
func (b *Builder) compileOne(source, output string) error {
	artifact, err := compiler.New(b.logger).Compile(source)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, artifact, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	return nil
}

// discover walks sourceDir collecting .xml prompt documents in deterministic
// order, skipping the fragment subtree and hidden directories.
func (b *Builder) discover(sourceDir, fragmentDir string) ([]string, error) {
	var sources []string
	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != sourceDir && (d.Name() == fragmentDir || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".xml") {
			sources = append(sources, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(sources)
	return sources, nil
}
