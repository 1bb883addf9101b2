// Package mapper walks a composed element tree and produces the typed
// PromptDocument the renderer consumes. All dual legacy/modern source shapes
// are canonicalized here so later stages never branch on how a document was
// authored.
package mapper

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/rulegen/pkg/loader"
	"github.com/grovetools/rulegen/pkg/model"
	"github.com/grovetools/rulegen/pkg/normalize"
)

// Mapper converts composed trees into prompt documents.
type Mapper struct {
	logger *logrus.Logger
}

// New creates a new mapper instance.
func New(logger *logrus.Logger) *Mapper {
	return &Mapper{logger: logger}
}

// Map builds a PromptDocument from the composed tree of the document at
// sourcePath. The metadata and header elements are required; unknown
// elements outside the content area are ignored, unknown section kinds
// inside it fail.
func (m *Mapper) Map(root *loader.Element, sourcePath string) (*model.PromptDocument, error) {
	doc := &model.PromptDocument{SourcePath: sourcePath}

	meta := root.Find("metadata")
	if meta == nil {
		return nil, &model.MissingRequiredElementError{Element: "metadata", Source: sourcePath}
	}
	doc.Metadata = model.Metadata{
		Description: meta.Attr("description"),
		Globs:       meta.Attr("globs"),
		AlwaysApply: meta.Attr("alwaysApply"),
	}

	header := root.Find("header")
	if header == nil {
		return nil, &model.MissingRequiredElementError{Element: "header", Source: sourcePath}
	}
	title := header.Find("title")
	if title == nil {
		return nil, &model.MissingRequiredElementError{Element: "header/title", Source: sourcePath}
	}
	doc.Title = normalize.Text(title.Text)
	if role := header.Find("role"); role != nil {
		doc.Role = normalize.Text(role.Text)
	}
	if desc := header.Find("description"); desc != nil {
		doc.Description = normalize.Text(desc.Text)
	}
	if toc := header.Find("toc"); toc != nil {
		doc.TOC.Auto = toc.Attr("auto") == "true"
		for _, entry := range toc.FindAll("entry") {
			doc.TOC.Entries = append(doc.TOC.Entries, normalize.Text(entry.Text))
		}
	}

	content := root.Find("content")
	if content != nil {
		seen := make(map[int]bool)
		for _, el := range content.Children {
			section, err := m.mapSection(el, sourcePath)
			if err != nil {
				return nil, err
			}
			if rule, ok := section.(*model.RuleSection); ok {
				if seen[rule.Number] {
					return nil, fmt.Errorf("%s: duplicate rule number %d: %w", sourcePath, rule.Number, model.ErrSchema)
				}
				seen[rule.Number] = true
			}
			doc.Sections = append(doc.Sections, section)
		}
	}
	m.logger.Debugf("Mapped %s: %d sections", sourcePath, len(doc.Sections))

	return doc, nil
}

func (m *Mapper) mapSection(el *loader.Element, source string) (model.ContentSection, error) {
	switch el.Name {
	case "rule":
		return m.mapRule(el, source)
	case "template":
		return m.mapTemplate(el), nil
	case "question":
		return m.mapQuestion(el), nil
	case "workflow":
		return m.mapWorkflow(el, source)
	case "instruction":
		s := m.mapInstruction(el)
		return &model.InstructionSection{
			Title:        s.Title,
			Description:  s.Description,
			Restrictions: s.Restrictions,
			Rules:        s.Rules,
		}, nil
	case "output-requirements":
		s := m.mapInstruction(el)
		return &model.OutputRequirementsSection{
			Title:        s.Title,
			Description:  s.Description,
			Restrictions: s.Restrictions,
			Rules:        s.Rules,
		}, nil
	default:
		return nil, &model.UnknownSectionKindError{Kind: el.Name, Source: source}
	}
}

func (m *Mapper) mapRule(el *loader.Element, source string) (*model.RuleSection, error) {
	number, err := strconv.Atoi(el.Attr("number"))
	if err != nil {
		return nil, fmt.Errorf("%s: rule has invalid number %q: %w", source, el.Attr("number"), model.ErrSchema)
	}
	rule := &model.RuleSection{
		Number:      number,
		Title:       childText(el, "title"),
		Subtitle:    childText(el, "subtitle"),
		Description: childText(el, "description"),
	}
	for _, note := range el.FindAll("note") {
		rule.Notes = append(rule.Notes, model.Note{
			Term:        note.Attr("term"),
			Description: normalize.Text(note.Text),
		})
	}
	rule.Good = mapCode(el.Find("good"))
	rule.Bad = mapCode(el.Find("bad"))
	return rule, nil
}

func (m *Mapper) mapTemplate(el *loader.Element) *model.TemplateSection {
	section := &model.TemplateSection{
		Title:       childText(el, "title"),
		Description: childText(el, "description"),
	}
	if body := el.Find("body"); body != nil {
		// Verbatim: only the render-time code trimming applies.
		section.Body = body.Text
	}
	return section
}

func (m *Mapper) mapQuestion(el *loader.Element) *model.QuestionSection {
	section := &model.QuestionSection{
		Title:       childText(el, "title"),
		Subtitle:    childText(el, "subtitle"),
		Description: childText(el, "description"),
	}
	for _, opt := range el.FindAll("option") {
		section.Options = append(section.Options, model.Option{
			Text:        normalize.Text(opt.Text),
			Description: opt.Attr("description"),
		})
	}
	return section
}

func (m *Mapper) mapWorkflow(el *loader.Element, source string) (*model.WorkflowSection, error) {
	section := &model.WorkflowSection{
		Title:       childText(el, "title"),
		Subtitle:    childText(el, "subtitle"),
		Description: childText(el, "description"),
	}
	for _, stepEl := range el.FindAll("step") {
		number, err := strconv.Atoi(stepEl.Attr("number"))
		if err != nil {
			return nil, fmt.Errorf("%s: step has invalid number %q: %w", source, stepEl.Attr("number"), model.ErrSchema)
		}
		section.Steps = append(section.Steps, model.Step{
			Number:      number,
			Title:       stepEl.Attr("title"),
			Description: normalize.Text(stepEl.Text),
			Code:        mapCode(stepEl.Find("code")),
		})
	}
	return section, nil
}

// instructionParts is the shared shape of the two directive-list kinds.
type instructionParts struct {
	Title        string
	Description  string
	Restrictions *model.Restrictions
	Rules        []string
}

func (m *Mapper) mapInstruction(el *loader.Element) instructionParts {
	parts := instructionParts{
		Title:       canonicalTitle(el),
		Description: childText(el, "description"),
	}
	if r := el.Find("restrictions"); r != nil {
		restrictions := &model.Restrictions{
			Description: childText(r, "description"),
		}
		for _, item := range r.FindAll("restriction") {
			restrictions.Items = append(restrictions.Items, normalize.Text(item.Text))
		}
		parts.Restrictions = restrictions
	}
	for _, rule := range el.FindAll("rule") {
		parts.Rules = append(parts.Rules, normalize.Text(rule.Text))
	}
	return parts
}

// canonicalTitle resolves the dual title shapes: the modern nested
// <header><title> form wins; the legacy direct <title> child is the
// fallback.
func canonicalTitle(el *loader.Element) string {
	if header := el.Find("header"); header != nil {
		if title := header.Find("title"); title != nil {
			return normalize.Text(title.Text)
		}
	}
	return childText(el, "title")
}

func mapCode(el *loader.Element) *model.CodeExample {
	if el == nil {
		return nil
	}
	return &model.CodeExample{
		Language: el.Attr("language"),
		Content:  el.Text,
	}
}

func childText(el *loader.Element, name string) string {
	if c := el.Find(name); c != nil {
		return normalize.Text(c.Text)
	}
	return ""
}
