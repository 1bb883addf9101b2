// Package loader parses prompt source XML into a generic element tree and
// resolves <include> directives into one composed document. Composition is
// complete before the mapper ever sees the tree: a loaded document contains
// no outstanding includes.
package loader

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/sirupsen/logrus"
)

const includeElement = "include"

// Element is one node of the parsed XML tree. Text accumulates all character
// data directly inside the element; for verbatim code elements it is kept
// byte-for-byte, for everything else the mapper collapses it later.
type Element struct {
	Name     string
	Attrs    map[string]string
	Text     string
	Children []*Element
}

// Attr returns the named attribute or the empty string.
func (e *Element) Attr(name string) string {
	return e.Attrs[name]
}

// Find returns the first direct child with the given name, or nil.
func (e *Element) Find(name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// FindAll returns all direct children with the given name, in document order.
func (e *Element) FindAll(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func (e *Element) clone() *Element {
	c := &Element{Name: e.Name, Text: e.Text}
	if len(e.Attrs) > 0 {
		c.Attrs = make(map[string]string, len(e.Attrs))
		for k, v := range e.Attrs {
			c.Attrs[k] = v
		}
	}
	if len(e.Children) > 0 {
		c.Children = make([]*Element, len(e.Children))
		for i, child := range e.Children {
			c.Children[i] = child.clone()
		}
	}
	return c
}

// Loader reads and composes prompt documents. Parsed files are cached by
// canonical path for the lifetime of the Loader, which is scoped to one
// compilation run; every splice point receives an independent copy of the
// cached tree.
type Loader struct {
	logger *logrus.Logger
	cache  map[string]*Element
}

// New creates a new loader instance.
func New(logger *logrus.Logger) *Loader {
	return &Loader{
		logger: logger,
		cache:  make(map[string]*Element),
	}
}

// Load parses the document at path and resolves every include directive,
// returning the composed tree.
func (l *Loader) Load(path string) (*Element, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	root, err := l.parseFile(abs)
	if err != nil {
		return nil, err
	}
	doc := root.clone()
	if err := l.resolve(doc, abs, []string{abs}); err != nil {
		return nil, err
	}
	return doc, nil
}

// parseFile returns the cached parse of a file, reading it on first use.
// The cached tree is never handed out directly; callers clone it.
func (l *Loader) parseFile(path string) (*Element, error) {
	if cached, ok := l.cache[path]; ok {
		l.logger.Debugf("Using cached parse of %s", path)
		return cached, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	root, err := parse(f)
	if err != nil {
		return nil, &MalformedDocumentError{Path: path, Err: err}
	}
	l.cache[path] = root
	return root, nil
}

// resolve replaces every <include> under el with the spliced content of its
// target fragment. stack holds the canonical paths of the documents
// currently being composed, outermost first.
func (l *Loader) resolve(el *Element, source string, stack []string) error {
	var resolved []*Element
	for _, child := range el.Children {
		if child.Name != includeElement {
			if err := l.resolve(child, source, stack); err != nil {
				return err
			}
			resolved = append(resolved, child)
			continue
		}

		src := child.Attr("src")
		if src == "" {
			return &MalformedDocumentError{
				Path: source,
				Err:  errors.New("include directive has no src attribute"),
			}
		}
		target := src
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(source), target)
		}
		target = filepath.Clean(target)

		if slices.Contains(stack, target) {
			return &CircularIncludeError{Cycle: append(slices.Clone(stack), target)}
		}

		fragment, err := l.parseFile(target)
		if err != nil {
			var malformed *MalformedDocumentError
			if errors.As(err, &malformed) {
				return err
			}
			return &UnresolvedIncludeError{Fragment: src, ReferencedBy: source, Err: err}
		}
		l.logger.Debugf("Splicing %s into %s", target, source)

		spliced := fragment.clone()
		if err := l.resolve(spliced, target, append(slices.Clone(stack), target)); err != nil {
			return err
		}
		if spliced.Name == "fragment" {
			resolved = append(resolved, spliced.Children...)
		} else {
			resolved = append(resolved, spliced)
		}
	}
	el.Children = resolved
	return nil
}

// parse builds an Element tree from raw XML.
func parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	var stack []*Element
	var root *Element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				el.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					el.Attrs[a.Name.Local] = a.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, errors.New("document contains no root element")
	}
	return root, nil
}
