package makefile

import (
	"fmt"
	"strings"
)

// RecipePrefixVar is the reserved variable that overrides the recipe prefix.
const RecipePrefixVar = ".RECIPEPREFIX"

// DefaultRecipePrefix marks recipe lines when .RECIPEPREFIX is unset.
const DefaultRecipePrefix = "\t"

// Kind is the classification of a logical line.
type Kind int

const (
	Unclassified Kind = iota
	VariableAssign
	VariableAppend
	RuleHeader
	RecipeCommand
)

func (k Kind) String() string {
	switch k {
	case Unclassified:
		return "unclassified"
	case VariableAssign:
		return "variable-assign"
	case VariableAppend:
		return "variable-append"
	case RuleHeader:
		return "rule-header"
	case RecipeCommand:
		return "recipe-command"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// AssignOp is the operator of a variable line.
type AssignOp string

const (
	OpRecursive   AssignOp = "="
	OpSimple      AssignOp = ":="
	OpConditional AssignOp = "?="
	OpAppend      AssignOp = "+="
)

// separator is the leftmost operator found in a normalized line.
type separator struct {
	kind       Kind
	op         AssignOp
	nameEnd    int // end of the name (or target) part
	valueStart int // start of the value (or dependency) part
}

// scanSeparator finds the leftmost '=', ':' or "+=" in text. A '+' that does
// not start "+=" is ordinary text.
func scanSeparator(text string) (separator, bool) {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '=':
			if i > 0 && text[i-1] == '?' {
				return separator{kind: VariableAssign, op: OpConditional, nameEnd: i - 1, valueStart: i + 1}, true
			}
			return separator{kind: VariableAssign, op: OpRecursive, nameEnd: i, valueStart: i + 1}, true
		case ':':
			if strings.HasPrefix(text[i:], ":=") {
				return separator{kind: VariableAssign, op: OpSimple, nameEnd: i, valueStart: i + 2}, true
			}
			if strings.HasPrefix(text[i:], "::=") {
				return separator{kind: VariableAssign, op: OpSimple, nameEnd: i, valueStart: i + 3}, true
			}
			return separator{kind: RuleHeader, nameEnd: i, valueStart: i + 1}, true
		case '+':
			if strings.HasPrefix(text[i:], "+=") {
				return separator{kind: VariableAppend, op: OpAppend, nameEnd: i, valueStart: i + 2}, true
			}
		}
	}
	return separator{}, false
}

// RecipePrefix returns the recipe prefix in effect for vars.
func RecipePrefix(vars map[string]string) string {
	if p, ok := vars[RecipePrefixVar]; ok && p != "" {
		return p
	}
	return DefaultRecipePrefix
}

// Classify decides what a logical line is, given the variables known so
// far. The recipe prefix test runs first so that a command containing ':'
// or '=' is never mistaken for a header or an assignment.
func Classify(l Line, vars map[string]string) Kind {
	if strings.HasPrefix(l.Raw, RecipePrefix(vars)) {
		return RecipeCommand
	}
	sep, ok := scanSeparator(l.Text)
	if !ok {
		return Unclassified
	}
	return sep.kind
}

// Assignment is a parsed variable line.
type Assignment struct {
	Name  string
	Op    AssignOp
	Value string
}

// ParseAssignment splits a variable line at its operator. ok is false when
// text is not an assignment or append.
func ParseAssignment(text string) (a Assignment, ok bool) {
	sep, found := scanSeparator(text)
	if !found || (sep.kind != VariableAssign && sep.kind != VariableAppend) {
		return Assignment{}, false
	}
	return Assignment{
		Name:  strings.TrimSpace(text[:sep.nameEnd]),
		Op:    sep.op,
		Value: strings.TrimSpace(text[sep.valueStart:]),
	}, true
}

// Header is a parsed "target: deps[; command]" line.
type Header struct {
	Target  string
	Deps    string
	Command string // inline command after ';'
	Inline  bool   // the header has a ';', so Command is a recipe line
}

// ParseHeader splits a rule header at its first ':' and the remainder at its
// first ';'.
func ParseHeader(text string) (h Header, ok bool) {
	sep, found := scanSeparator(text)
	if !found || sep.kind != RuleHeader {
		return Header{}, false
	}
	h.Target = strings.TrimSpace(text[:sep.nameEnd])
	rest := text[sep.valueStart:]
	if deps, cmd, hasCmd := strings.Cut(rest, ";"); hasCmd {
		h.Deps = strings.TrimSpace(deps)
		h.Command = strings.TrimSpace(cmd)
		h.Inline = true
	} else {
		h.Deps = strings.TrimSpace(rest)
	}
	return h, true
}
