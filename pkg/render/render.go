// Package render converts content sections into their canonical markdown
// fragments. One render function exists per section kind, dispatched by an
// exhaustive type switch; fragments carry no trailing newline, the assembler
// owns inter-section separation.
package render

import (
	"fmt"
	"strings"

	"github.com/grovetools/rulegen/pkg/model"
	"github.com/grovetools/rulegen/pkg/normalize"
)

// Section renders one content section to its markdown fragment. Rendering is
// deterministic: the same section value always yields byte-identical text.
func Section(sec model.ContentSection) (string, error) {
	switch s := sec.(type) {
	case *model.RuleSection:
		return renderRule(s), nil
	case *model.TemplateSection:
		return renderTemplate(s), nil
	case *model.QuestionSection:
		return renderQuestion(s), nil
	case *model.WorkflowSection:
		return renderWorkflow(s), nil
	case *model.InstructionSection:
		return renderDirectives(s.Title, s.Description, s.Restrictions, s.Rules), nil
	case *model.OutputRequirementsSection:
		return renderDirectives(s.Title, s.Description, s.Restrictions, s.Rules), nil
	default:
		return "", &model.UnknownSectionKindError{Kind: fmt.Sprintf("%T", sec)}
	}
}

func renderRule(s *model.RuleSection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Rule %d: %s\n\n", s.Number, s.Title)
	fmt.Fprintf(&b, "Title: %s\n", s.Subtitle)
	fmt.Fprintf(&b, "Description: %s", s.Description)

	if len(s.Notes) > 0 {
		b.WriteString("\n\nNotes:")
		for _, note := range s.Notes {
			fmt.Fprintf(&b, "\n- **%s**: %s", note.Term, note.Description)
		}
	}
	if s.Good != nil {
		b.WriteString("\n\nGood example:\n")
		b.WriteString(fence(s.Good))
	}
	if s.Bad != nil {
		b.WriteString("\n\nBad example:\n")
		b.WriteString(fence(s.Bad))
	}
	return b.String()
}

func renderTemplate(s *model.TemplateSection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", s.Title)
	if s.Description != "" {
		b.WriteString(s.Description)
		b.WriteString("\n\n")
	}
	b.WriteString(normalize.Code(s.Body))
	return b.String()
}

func renderQuestion(s *model.QuestionSection) string {
	var b strings.Builder
	b.WriteString(heading(s.Title, s.Subtitle))
	if s.Description != "" {
		b.WriteString("\n\n")
		b.WriteString(s.Description)
	}
	for i, opt := range s.Options {
		if i == 0 {
			b.WriteString("\n\n")
		} else {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(opt.Text)
		if opt.Description != "" {
			fmt.Fprintf(&b, ": %s", opt.Description)
		}
	}
	return b.String()
}

func renderWorkflow(s *model.WorkflowSection) string {
	var b strings.Builder
	b.WriteString(heading(s.Title, s.Subtitle))
	if s.Description != "" {
		b.WriteString("\n\n")
		b.WriteString(s.Description)
	}
	for _, step := range s.Steps {
		fmt.Fprintf(&b, "\n\n### Step %d: %s\n\n", step.Number, step.Title)
		b.WriteString(step.Description)
		if step.Code != nil {
			b.WriteString("\n\n")
			b.WriteString(fence(step.Code))
		}
	}
	return b.String()
}

// renderDirectives handles the shared layout of instruction and
// output-requirements sections.
func renderDirectives(title, description string, restrictions *model.Restrictions, rules []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s", title)

	hasBody := restrictions != nil || len(rules) > 0
	if description != "" {
		b.WriteString("\n\n")
		b.WriteString(description)
		if hasBody {
			b.WriteString(descriptionSeparator(description))
		}
	} else if hasBody {
		b.WriteString("\n\n")
	}

	if restrictions != nil {
		blocks := []string{"### Restrictions"}
		if restrictions.Description != "" {
			blocks = append(blocks, restrictions.Description)
		}
		if len(restrictions.Items) > 0 {
			blocks = append(blocks, bullets(restrictions.Items))
		}
		b.WriteString(strings.Join(blocks, "\n\n"))
		if len(rules) > 0 {
			b.WriteString("\n\n")
		}
	}
	b.WriteString(bullets(rules))
	return b.String()
}

func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}

// descriptionSeparator implements the trailing-colon heuristic: a
// description ending in ':' introduces the list that follows, so only a
// single newline separates them; anything else gets a blank line. The rule
// couples formatting to incidental punctuation in authored text and is
// preserved as-is for output compatibility.
func descriptionSeparator(description string) string {
	if strings.HasSuffix(description, ":") {
		return "\n"
	}
	return "\n\n"
}

// fence wraps a code example in a fenced block labeled with its language
// tag, empty if none. Content is trimmed per the code normalization rule.
func fence(code *model.CodeExample) string {
	return fmt.Sprintf("```%s\n%s\n```", code.Language, normalize.Code(code.Content))
}

// heading emits an H2 with an optional ": subtitle" suffix.
func heading(title, subtitle string) string {
	if subtitle != "" {
		return fmt.Sprintf("## %s: %s", title, subtitle)
	}
	return "## " + title
}
