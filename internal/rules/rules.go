// Package rules loads a JSON rule set and checks parsed Makefiles against it.
package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dusk-indust/makecheck/internal/makefile"
)

// Model is the read-only view of a parsed Makefile that checks run against.
type Model interface {
	Path() string
	Variables() map[string]string
	Rules() []makefile.Rule
	PhonyTargets() []string
	Anomalies() []*makefile.Error
}

// RuleSet is the content of a RULES file.
type RuleSet struct {
	// RequiredTargets must each be named by some rule.
	RequiredTargets []string `json:"requiredTargets,omitempty"`

	// RequiredVariables must each be defined.
	RequiredVariables []string `json:"requiredVariables,omitempty"`

	// PhonyTargets must each be declared in .PHONY.
	PhonyTargets []string `json:"phonyTargets,omitempty"`

	// ForbidAnomalies turns every parse anomaly into a violation.
	ForbidAnomalies bool `json:"forbidAnomalies,omitempty"`
}

// LoadError reports a RULES file that cannot be read or is not valid JSON.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("rules %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads and decodes the rule set at path. Unknown keys are rejected so
// that a misspelled rule does not silently pass.
func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("failed to open: %w", err)}
	}
	rs, err := Decode(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return rs, nil
}

// Decode parses a rule set from JSON.
func Decode(data []byte) (*RuleSet, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var rs RuleSet
	if err := dec.Decode(&rs); err != nil {
		return nil, fmt.Errorf("not a valid JSON rule set: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("not a valid JSON rule set: trailing data after object")
	}
	return &rs, nil
}

// Violation is one failed check.
type Violation struct {
	Path    string `json:"path"`
	Check   string `json:"check"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: [%s] %s", v.Path, v.Check, v.Message)
}

// Check names, as reported in Violation.Check.
const (
	CheckRequiredTarget   = "required-target"
	CheckRequiredVariable = "required-variable"
	CheckPhonyTarget      = "phony-target"
	CheckNoAnomalies      = "no-anomalies"
)

// Check evaluates rs against m. Violations come back grouped by check, in
// rule-set order.
func (rs *RuleSet) Check(m Model) []Violation {
	var out []Violation
	add := func(check, subject, format string, args ...any) {
		out = append(out, Violation{
			Path:    m.Path(),
			Check:   check,
			Subject: subject,
			Message: fmt.Sprintf(format, args...),
		})
	}

	targets := make(map[string]bool)
	for _, r := range m.Rules() {
		for _, t := range r.Targets() {
			targets[t] = true
		}
	}
	for _, t := range rs.RequiredTargets {
		if !targets[t] {
			add(CheckRequiredTarget, t, "no rule defines target %q", t)
		}
	}

	vars := m.Variables()
	for _, name := range rs.RequiredVariables {
		if _, ok := vars[name]; !ok {
			add(CheckRequiredVariable, name, "variable %q is not defined", name)
		}
	}

	phony := make(map[string]bool)
	for _, p := range m.PhonyTargets() {
		phony[p] = true
	}
	for _, t := range rs.PhonyTargets {
		if !phony[t] {
			add(CheckPhonyTarget, t, "target %q is not declared in %s", t, makefile.PhonyTarget)
		}
	}

	if rs.ForbidAnomalies {
		for _, a := range m.Anomalies() {
			add(CheckNoAnomalies, fmt.Sprintf("line %d", a.Line), "%s", a.Detail)
		}
	}
	return out
}
