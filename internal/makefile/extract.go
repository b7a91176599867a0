package makefile

import "strings"

// Rule is a target with its dependency text and recipe commands.
type Rule struct {
	Target   string   `json:"target"`
	Deps     string   `json:"deps,omitempty"`
	Commands []string `json:"commands,omitempty"`
	Line     int      `json:"line"`
}

// Targets splits Target on whitespace, for headers naming several targets.
func (r Rule) Targets() []string {
	return strings.Fields(r.Target)
}

// walkState is the rule pass position: between rules, or capturing the
// recipe lines of the rule just opened.
type walkState int

const (
	expectHeaderOrVar walkState = iota
	inCommandWindow
)

type extractor struct {
	path      string
	lines     []Line
	vars      map[string]string
	rules     []Rule
	anomalies []*Error

	// prefix is the final recipe prefix; both passes classify with it.
	prefix string
	// prefixLines holds the indexes of the .RECIPEPREFIX assignments found
	// by resolveRecipePrefix.
	prefixLines map[int]bool
}

func newExtractor(path string, lines []Line) *extractor {
	return &extractor{
		path:        path,
		lines:       lines,
		vars:        make(map[string]string),
		prefix:      DefaultRecipePrefix,
		prefixLines: make(map[int]bool),
	}
}

func (x *extractor) report(line int, format string, args ...any) {
	x.anomalies = append(x.anomalies, anomaly(x.path, line, format, args...))
}

// resolveRecipePrefix finds the .RECIPEPREFIX assignments and the prefix
// they leave in effect. Each candidate line is classified against the prefix
// defined above it, since that is the only value it can be tested against.
func (x *extractor) resolveRecipePrefix() {
	seen := make(map[string]string)
	for i, l := range x.lines {
		switch Classify(l, seen) {
		case VariableAssign, VariableAppend:
		default:
			continue
		}
		a, ok := ParseAssignment(l.Text)
		if !ok || a.Name != RecipePrefixVar {
			continue
		}
		assign(seen, a)
		x.prefixLines[i] = true
	}
	x.prefix = RecipePrefix(seen)
}

// classify returns the kind of line i under the final recipe prefix. The
// .RECIPEPREFIX assignments themselves keep the kind resolveRecipePrefix
// gave them.
func (x *extractor) classify(i int) Kind {
	if x.prefixLines[i] {
		return VariableAssign
	}
	return Classify(x.lines[i], map[string]string{RecipePrefixVar: x.prefix})
}

// extractVariables applies every assignment in source order.
func (x *extractor) extractVariables() {
	for i, l := range x.lines {
		switch x.classify(i) {
		case VariableAssign, VariableAppend:
			x.applyAssignment(i, l)
		}
	}
}

func (x *extractor) applyAssignment(i int, l Line) {
	a, ok := ParseAssignment(l.Text)
	if !ok {
		return
	}
	if a.Name == "" {
		x.report(l.Number, "assignment with no variable name: %q", l.Text)
		return
	}
	if a.Name == RecipePrefixVar && !x.prefixLines[i] {
		// Only a recipe line under the prefix above it reads this way.
		x.report(l.Number, "%s assignment inside a recipe ignored: %q", RecipePrefixVar, l.Text)
		return
	}
	assign(x.vars, a)
}

// assign applies a to vars according to its operator.
func assign(vars map[string]string, a Assignment) {
	switch a.Op {
	case OpAppend:
		vars[a.Name] += a.Value
	case OpConditional:
		if _, exists := vars[a.Name]; !exists {
			vars[a.Name] = a.Value
		}
	default:
		vars[a.Name] = a.Value
	}
}

// extractRules walks the lines once more. Classification matches
// extractVariables line for line, so a line is never both a variable and a
// command.
func (x *extractor) extractRules() {
	state := expectHeaderOrVar
	var current *Rule

	for i := 0; i < len(x.lines); {
		l := x.lines[i]
		kind := x.classify(i)

		if state == inCommandWindow {
			if kind == RecipeCommand {
				if current != nil {
					current.Commands = append(current.Commands, x.recipeText(l))
				}
				i++
				continue
			}
			x.closeRule(current)
			current = nil
			state = expectHeaderOrVar
			continue // l is examined again as a potential header
		}

		switch kind {
		case RuleHeader:
			current = x.openRule(l)
			state = inCommandWindow
		case VariableAssign, VariableAppend:
			// applied by extractVariables
		case RecipeCommand:
			x.report(l.Number, "recipe command outside of a rule: %q", l.Text)
		default:
			x.report(l.Number, "unrecognized line: %q", l.Text)
		}
		i++
	}

	if state == inCommandWindow {
		x.closeRule(current)
	}
}

// openRule starts a rule from its header. A header with no target is
// reported and returns nil; its recipe lines are still consumed so they do
// not surface as stray commands. Text after ';' is always the first command,
// even when empty.
func (x *extractor) openRule(l Line) *Rule {
	h, ok := ParseHeader(l.Text)
	if !ok {
		x.report(l.Number, "malformed rule header: %q", l.Text)
		return nil
	}
	if h.Target == "" {
		x.report(l.Number, "rule with no target: %q", l.Text)
		return nil
	}
	r := &Rule{Target: h.Target, Deps: h.Deps, Line: l.Number}
	if h.Inline {
		r.Commands = append(r.Commands, h.Command)
	}
	return r
}

func (x *extractor) closeRule(r *Rule) {
	if r != nil {
		x.rules = append(x.rules, *r)
	}
}

// recipeText strips the recipe prefix from a command line and collapses its
// whitespace.
func (x *extractor) recipeText(l Line) string {
	return collapseSpace(strings.TrimPrefix(l.Raw, x.prefix))
}
