package model

import (
	"errors"
	"fmt"
)

// Error categories. Every typed error in the pipeline unwraps to one of
// these so callers can classify failures with errors.Is without knowing
// the concrete type.
var (
	// ErrStructural covers malformed sources and unresolved or circular
	// includes.
	ErrStructural = errors.New("structural error")
	// ErrSchema covers missing required elements and unrecognized section
	// kinds.
	ErrSchema = errors.New("schema error")
)

// MissingRequiredElementError reports a document that lacks a required
// top-level element.
type MissingRequiredElementError struct {
	Element string
	Source  string
}

func (e *MissingRequiredElementError) Error() string {
	return fmt.Sprintf("%s: missing required element <%s>", e.Source, e.Element)
}

func (e *MissingRequiredElementError) Unwrap() error { return ErrSchema }

// UnknownSectionKindError reports a content element (or section value)
// outside the closed vocabulary.
type UnknownSectionKindError struct {
	Kind   string
	Source string
}

func (e *UnknownSectionKindError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("unknown section kind %q", e.Kind)
	}
	return fmt.Sprintf("%s: unknown section kind %q", e.Source, e.Kind)
}

func (e *UnknownSectionKindError) Unwrap() error { return ErrSchema }
