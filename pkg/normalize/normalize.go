// Package normalize holds the two text canonicalization rules shared by the
// mapper and the renderer: whitespace-run collapsing for captured leaf text
// and the trimming rule for verbatim code blocks.
package normalize

import "strings"

// Code canonicalizes verbatim code-block content:
//
//  1. trailing horizontal whitespace is stripped from every line,
//  2. a single leading newline is then removed (two or more are kept),
//  3. a single trailing newline is removed under the same condition.
//
// Line stripping runs first, so a whitespace-only boundary line settles in a
// single pass. Applying Code to its own output is a no-op. Leading
// indentation and blank interior lines are preserved.
func Code(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	s = strings.Join(lines, "\n")
	if strings.HasPrefix(s, "\n") && !strings.HasPrefix(s, "\n\n") {
		s = s[1:]
	}
	if strings.HasSuffix(s, "\n") && !strings.HasSuffix(s, "\n\n") {
		s = s[:len(s)-1]
	}
	return s
}

// Text collapses internal whitespace runs (including newlines) to single
// spaces and trims both ends. Authored indentation and line wrapping inside
// XML elements therefore never leak into rendered output.
func Text(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
