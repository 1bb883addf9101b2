// Package assemble produces the final markdown artifact for a prompt
// document: the fixed frontmatter block, the header area, the optional table
// of contents, and the rendered body with canonical separators.
package assemble

import (
	"fmt"
	"strings"

	"github.com/grovetools/rulegen/pkg/model"
	"github.com/grovetools/rulegen/pkg/render"
)

// Document assembles the complete artifact for doc. Adjacent blocks are
// separated by exactly one blank line; the artifact ends with a single
// newline and no trailing blank line.
func Document(doc *model.PromptDocument) ([]byte, error) {
	blocks := []string{
		frontmatter(doc.Metadata),
		"# " + doc.Title,
	}
	if doc.Role != "" {
		blocks = append(blocks, doc.Role)
	}
	if doc.Description != "" {
		blocks = append(blocks, doc.Description)
	}
	if doc.TOC.Requested() {
		blocks = append(blocks, tableOfContents(doc))
	}
	for _, section := range doc.Sections {
		fragment, err := render.Section(section)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, fragment)
	}
	return []byte(strings.Join(blocks, "\n\n") + "\n"), nil
}

// frontmatter emits the three keys in fixed order. A missing value renders
// as an empty string, never an omitted key.
func frontmatter(m model.Metadata) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "description: %s\n", m.Description)
	fmt.Fprintf(&b, "globs: %s\n", m.Globs)
	fmt.Fprintf(&b, "alwaysApply: %s\n", m.AlwaysApply)
	b.WriteString("---")
	return b.String()
}

// tableOfContents builds the TOC block. Auto-generation enumerates rule
// sections in document order; an explicit entry list is emitted verbatim.
// An auto TOC over a document with no rule sections is the bare heading,
// which is valid.
func tableOfContents(doc *model.PromptDocument) string {
	var entries []string
	if doc.TOC.Auto {
		for _, section := range doc.Sections {
			if rule, ok := section.(*model.RuleSection); ok {
				entries = append(entries, fmt.Sprintf("Rule %d: %s", rule.Number, rule.Title))
			}
		}
	} else {
		entries = doc.TOC.Entries
	}

	var b strings.Builder
	b.WriteString("## Table of Contents")
	for i, entry := range entries {
		if i == 0 {
			b.WriteString("\n\n")
		} else {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(entry)
	}
	return b.String()
}
