// Package report converts flattened narrative text into titled sections and
// renders them as a paginated PDF document.
package report

import "strings"

// DocumentTitle is the fixed report title. The parser never treats it as a
// section boundary and the renderer draws it in the page header.
const DocumentTitle = "FINANCIAL ANALYSIS REPORT"

// Section is one titled block of report body lines.
type Section struct {
	Title string   // boundary line, colon retained
	Body  []string // non-empty lines in order
}

// ParseSections splits flat narrative text into sections using heuristic
// boundary detection: a line is a section boundary iff it ends with ":",
// is longer than 3 characters, and is not the document title. The title
// line and separator rows ("====...") are skipped as header decoration.
//
// The heuristics are lossy on purpose: text before the first boundary has
// no section to belong to and is discarded, and the title/body distinction
// cannot be reversed back into the original flat text.
func ParseSections(text string) []Section {
	var sections []Section
	var title string
	var body []string

	flush := func() {
		if title != "" && len(body) > 0 {
			sections = append(sections, Section{Title: title, Body: body})
		}
		body = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case isBoundary(trimmed):
			flush()
			title = trimmed

		case trimmed == DocumentTitle || strings.HasPrefix(trimmed, "===="):
			// Header decoration, already consumed by the renderer.

		case trimmed != "":
			body = append(body, trimmed)
		}
	}
	flush()

	return sections
}

func isBoundary(line string) bool {
	return strings.HasSuffix(line, ":") && len(line) > 3 && line != DocumentTitle
}
