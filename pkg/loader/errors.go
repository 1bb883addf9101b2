package loader

import (
	"fmt"
	"strings"

	"github.com/grovetools/rulegen/pkg/model"
)

// MalformedDocumentError reports a source file that could not be parsed as
// XML at all.
type MalformedDocumentError struct {
	Path string
	Err  error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("%s: malformed document: %v", e.Path, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error { return model.ErrStructural }

// UnresolvedIncludeError reports an include directive whose target fragment
// could not be located.
type UnresolvedIncludeError struct {
	Fragment     string
	ReferencedBy string
	Err          error
}

func (e *UnresolvedIncludeError) Error() string {
	return fmt.Sprintf("%s: cannot resolve include %q: %v", e.ReferencedBy, e.Fragment, e.Err)
}

func (e *UnresolvedIncludeError) Unwrap() error { return model.ErrStructural }

// CircularIncludeError reports an include chain that revisits a document
// already on the current resolution path. Cycle holds the canonical paths
// from the root document through the repeated one.
type CircularIncludeError struct {
	Cycle []string
}

func (e *CircularIncludeError) Error() string {
	return fmt.Sprintf("circular include: %s", strings.Join(e.Cycle, " -> "))
}

func (e *CircularIncludeError) Unwrap() error { return model.ErrStructural }
