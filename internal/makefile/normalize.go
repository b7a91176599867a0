package makefile

import "strings"

// Line is one logical line of a Makefile: comments and blank lines removed,
// backslash continuations joined.
type Line struct {
	// Number is the 1-based source line the logical line starts on.
	Number int `json:"number"`

	// Raw is the joined text before whitespace collapsing. Only the recipe
	// prefix test looks at it, since collapsing strips a leading tab.
	Raw string `json:"-"`

	// Text is Raw with every whitespace run collapsed to a single space and
	// the ends trimmed.
	Text string `json:"text"`
}

// collapseSpace collapses whitespace runs to one space and trims both ends.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// isElided reports whether a raw line is blank or a comment.
func isElided(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

// continuation reports whether raw ends with a line-continuation backslash
// (trailing blanks ignored) and returns the fragment without it.
func continuation(raw string) (string, bool) {
	trimmed := strings.TrimRight(raw, " \t\r")
	if !strings.HasSuffix(trimmed, `\`) {
		return raw, false
	}
	return trimmed[:len(trimmed)-1], true
}

// Normalize turns raw source lines (no trailing newlines, index i is source
// line i+1) into logical lines. Fragments of a continued line are
// concatenated with no separator. A continuation still pending at the end of
// input is dropped; the returned anomaly reports it, and is nil otherwise.
func Normalize(raw []string) ([]Line, *Error) {
	var (
		lines     []Line
		fragments strings.Builder
		pending   bool
		startLine int
	)

	for i, r := range raw {
		if isElided(r) {
			continue
		}
		if !pending {
			startLine = i + 1
		}

		if frag, ok := continuation(r); ok {
			fragments.WriteString(frag)
			pending = true
			continue
		}

		joined := r
		if pending {
			fragments.WriteString(r)
			joined = fragments.String()
			fragments.Reset()
			pending = false
		}
		lines = append(lines, Line{
			Number: startLine,
			Raw:    joined,
			Text:   collapseSpace(joined),
		})
	}

	if pending {
		return lines, anomaly("", startLine, "line continuation at end of input discarded: %q", collapseSpace(fragments.String()))
	}
	return lines, nil
}
