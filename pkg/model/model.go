// Package model defines the in-memory representation of a prompt document:
// the document header, its metadata, and the closed set of content section
// kinds that the renderer knows how to emit.
package model

// PromptDocument is the fully mapped form of one prompt source file.
// It is constructed once per compilation run and never mutated afterwards.
type PromptDocument struct {
	SourcePath  string
	Metadata    Metadata
	Title       string
	Role        string
	Description string
	TOC         TOCConfig
	Sections    []ContentSection
}

// Metadata carries the three frontmatter values. Values are kept as the
// authored strings; a missing value stays empty and still renders its key.
type Metadata struct {
	Description string
	Globs       string
	AlwaysApply string
}

// TOCConfig describes the table-of-contents request for a document.
// Auto enumerates rule sections in document order; Entries, when set,
// is an explicit authored list. Both empty means no TOC is emitted.
type TOCConfig struct {
	Auto    bool
	Entries []string
}

// Requested reports whether the document asked for a TOC at all.
func (t TOCConfig) Requested() bool {
	return t.Auto || len(t.Entries) > 0
}

// ContentSection is the closed union of section kinds. The marker method
// restricts implementations to this package so rendering can dispatch with
// an exhaustive type switch.
type ContentSection interface {
	section()
}

// RuleSection is a numbered guideline with optional notes and a good/bad
// example pair. Numbers must be unique within a document but need not be
// contiguous.
type RuleSection struct {
	Number      int
	Title       string
	Subtitle    string
	Description string
	Notes       []Note
	Good        *CodeExample
	Bad         *CodeExample
}

// Note is a term/description pair rendered as a bullet under a rule.
type Note struct {
	Term        string
	Description string
}

// CodeExample is a verbatim code block with an optional language tag.
// Content is the raw authored text; trimming happens at render time.
type CodeExample struct {
	Language string
	Content  string
}

// TemplateSection carries one verbatim body block.
type TemplateSection struct {
	Title       string
	Description string
	Body        string
}

// QuestionSection lists answer options for a question put to the assistant.
type QuestionSection struct {
	Title       string
	Subtitle    string
	Description string
	Options     []Option
}

// Option is one answer choice with an optional elaboration.
type Option struct {
	Text        string
	Description string
}

// WorkflowSection describes an ordered multi-step procedure.
type WorkflowSection struct {
	Title       string
	Subtitle    string
	Description string
	Steps       []Step
}

// Step is one numbered workflow step with an optional code block.
type Step struct {
	Number      int
	Title       string
	Description string
	Code        *CodeExample
}

// InstructionSection is a bulleted list of directives with an optional
// restrictions sub-block.
type InstructionSection struct {
	Title        string
	Description  string
	Restrictions *Restrictions
	Rules        []string
}

// OutputRequirementsSection mirrors InstructionSection but describes the
// expected shape of the assistant's output rather than its behavior.
type OutputRequirementsSection struct {
	Title        string
	Description  string
	Restrictions *Restrictions
	Rules        []string
}

// Restrictions is a nested block of constraints under an instruction or
// output-requirements section.
type Restrictions struct {
	Description string
	Items       []string
}

func (*RuleSection) section()               {}
func (*TemplateSection) section()           {}
func (*QuestionSection) section()           {}
func (*WorkflowSection) section()           {}
func (*InstructionSection) section()        {}
func (*OutputRequirementsSection) section() {}
