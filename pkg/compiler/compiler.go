// Package compiler wires the pipeline stages together: load and compose the
// source tree, map it onto the section model, render and assemble the final
// artifact. One Compiler serves one compilation run; the include cache it
// carries never crosses runs.
package compiler

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/rulegen/pkg/assemble"
	"github.com/grovetools/rulegen/pkg/loader"
	"github.com/grovetools/rulegen/pkg/mapper"
)

// Compiler transforms one prompt source document into its markdown artifact.
type Compiler struct {
	logger *logrus.Logger
	loader *loader.Loader
	mapper *mapper.Mapper
}

// New creates a compiler with a fresh include cache.
func New(logger *logrus.Logger) *Compiler {
	return &Compiler{
		logger: logger,
		loader: loader.New(logger),
		mapper: mapper.New(logger),
	}
}

// Compile runs the full pipeline for the document at path. It either returns
// the complete artifact or an error carrying the source path; no partial
// output is ever produced.
func (c *Compiler) Compile(path string) ([]byte, error) {
	c.logger.Debugf("Compiling %s", path)

	tree, err := c.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	doc, err := c.mapper.Map(tree, path)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}
	out, err := assemble.Document(doc)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", path, err)
	}
	return out, nil
}
