package makefile

import "strings"

// FormatLines renders the logical lines, one per line.
func (m *Makefile) FormatLines() string {
	texts := make([]string, len(m.lines))
	for i, l := range m.lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n")
}

// FormatVariables renders "[NAME] = 'value'" lines in name order.
func (m *Makefile) FormatVariables() string {
	var b strings.Builder
	for i, name := range m.VariableNames() {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("[" + name + "] = '" + m.vars[name] + "'")
	}
	return b.String()
}

// FormatRules renders one block per rule, blocks separated by a blank line.
func (m *Makefile) FormatRules() string {
	blocks := make([]string, len(m.rules))
	for i, r := range m.rules {
		blocks[i] = formatRule(r)
	}
	return strings.Join(blocks, "\n\n")
}

func formatRule(r Rule) string {
	var b strings.Builder
	b.WriteString("target = '" + r.Target + "'")
	if r.Deps != "" {
		b.WriteString("\ndeps = '" + r.Deps + "'")
	}
	if len(r.Commands) > 0 {
		b.WriteString("\ncommands:")
		for _, c := range r.Commands {
			b.WriteString("\n - '" + c + "'")
		}
	}
	return b.String()
}
