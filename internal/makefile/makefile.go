// Package makefile parses Makefile text into variables, rules and the .PHONY
// set. It does not expand variable references, evaluate functions, follow
// include directives or run anything.
package makefile

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"sort"
	"strings"
)

// maxLineSize bounds a single source line.
const maxLineSize = 1 << 20

// Makefile is the parsed model of one Makefile. It is immutable once Parse
// returns; accessors hand out copies.
type Makefile struct {
	path      string
	lines     []Line
	vars      map[string]string
	rules     []Rule
	phony     string
	anomalies []*Error
}

// ParseFile reads path fully and parses it. An unreadable file yields an
// *Error of kind SourceUnreadable.
func ParseFile(path string) (*Makefile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: SourceUnreadable, Path: path, Detail: "failed to open", Err: err}
	}
	return Parse(path, bytes.NewReader(data))
}

// Parse parses Makefile text from r. path is used for diagnostics only.
func Parse(path string, r io.Reader) (*Makefile, error) {
	raw, err := readLines(r)
	if err != nil {
		return nil, &Error{Kind: SourceUnreadable, Path: path, Detail: "failed to read", Err: err}
	}

	lines, dangling := Normalize(raw)
	x := newExtractor(path, lines)
	x.resolveRecipePrefix()
	x.extractVariables()
	x.extractRules()
	rules, phony, phonyAnomalies := resolvePhony(path, x.rules)

	m := &Makefile{
		path:  path,
		lines: lines,
		vars:  x.vars,
		rules: rules,
		phony: phony,
	}
	if dangling != nil {
		dangling.Path = path
		m.anomalies = append(m.anomalies, dangling)
	}
	m.anomalies = append(m.anomalies, x.anomalies...)
	m.anomalies = append(m.anomalies, phonyAnomalies...)
	sort.SliceStable(m.anomalies, func(i, j int) bool {
		return m.anomalies[i].Line < m.anomalies[j].Line
	})
	return m, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// Path returns the path the model was parsed from.
func (m *Makefile) Path() string { return m.path }

// Lines returns the logical lines after normalization.
func (m *Makefile) Lines() []Line {
	return append([]Line(nil), m.lines...)
}

// Variables returns a copy of the variable mapping.
func (m *Makefile) Variables() map[string]string {
	out := make(map[string]string, len(m.vars))
	for k, v := range m.vars {
		out[k] = v
	}
	return out
}

// VariableNames returns the defined variable names in lexical order.
func (m *Makefile) VariableNames() []string {
	names := make([]string, 0, len(m.vars))
	for k := range m.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Variable looks up one variable.
func (m *Makefile) Variable(name string) (string, bool) {
	v, ok := m.vars[name]
	return v, ok
}

// RecipePrefix returns the recipe prefix the parse used.
func (m *Makefile) RecipePrefix() string {
	return RecipePrefix(m.vars)
}

// Rules returns the rules in source order, .PHONY excluded.
func (m *Makefile) Rules() []Rule {
	out := make([]Rule, len(m.rules))
	for i, r := range m.rules {
		r.Commands = append([]string(nil), r.Commands...)
		out[i] = r
	}
	return out
}

// Rule returns the first rule naming target among its targets.
func (m *Makefile) Rule(target string) (Rule, bool) {
	for _, r := range m.rules {
		for _, t := range r.Targets() {
			if t == target {
				r.Commands = append([]string(nil), r.Commands...)
				return r, true
			}
		}
	}
	return Rule{}, false
}

// Phony returns the .PHONY dependency text, empty when none was declared.
func (m *Makefile) Phony() string { return m.phony }

// PhonyTargets returns the .PHONY names split on whitespace.
func (m *Makefile) PhonyTargets() []string {
	return strings.Fields(m.phony)
}

// IsPhony reports whether name was declared in .PHONY.
func (m *Makefile) IsPhony(name string) bool {
	for _, p := range m.PhonyTargets() {
		if p == name {
			return true
		}
	}
	return false
}

// Anomalies returns the non-fatal diagnostics of the parse, ordered by line.
func (m *Makefile) Anomalies() []*Error {
	return append([]*Error(nil), m.anomalies...)
}
