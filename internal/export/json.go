package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dusk-indust/makecheck/internal/makefile"
	"github.com/dusk-indust/makecheck/internal/scan"
)

// Report is the top-level JSON export structure.
type Report struct {
	ExportedAt string           `json:"exportedAt"`
	Makefiles  []MakefileExport `json:"makefiles"`
}

// MakefileExport is the parsed model of one Makefile, or the error that
// prevented parsing it.
type MakefileExport struct {
	Path         string           `json:"path"`
	Error        string           `json:"error,omitempty"`
	RecipePrefix string           `json:"recipePrefix,omitempty"`
	Variables    []VariableExport `json:"variables,omitempty"`
	Rules        []makefile.Rule  `json:"rules,omitempty"`
	Phony        []string         `json:"phony,omitempty"`
	Anomalies    []AnomalyExport  `json:"anomalies,omitempty"`
	Stats        map[string]int   `json:"stats,omitempty"`
}

// VariableExport is one name/value pair; a slice keeps the output in name
// order.
type VariableExport struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AnomalyExport is a non-fatal parse diagnostic.
type AnomalyExport struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// FromMakefile builds the export of a parsed Makefile.
func FromMakefile(m *makefile.Makefile) MakefileExport {
	vars := m.Variables()
	out := MakefileExport{
		Path:         m.Path(),
		RecipePrefix: m.RecipePrefix(),
		Rules:        m.Rules(),
		Phony:        m.PhonyTargets(),
		Stats: map[string]int{
			"lines":     len(m.Lines()),
			"variables": len(vars),
			"rules":     len(m.Rules()),
		},
	}
	for _, name := range m.VariableNames() {
		out.Variables = append(out.Variables, VariableExport{Name: name, Value: vars[name]})
	}
	for _, a := range m.Anomalies() {
		out.Anomalies = append(out.Anomalies, AnomalyExport{Line: a.Line, Message: a.Detail})
	}
	return out
}

// FromResults builds a report from scan results, preserving their order.
func FromResults(results []scan.Result) *Report {
	report := &Report{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Makefiles:  make([]MakefileExport, 0, len(results)),
	}
	for _, r := range results {
		if r.Err != nil {
			report.Makefiles = append(report.Makefiles, MakefileExport{Path: r.Path, Error: r.Err.Error()})
			continue
		}
		report.Makefiles = append(report.Makefiles, FromMakefile(r.Makefile))
	}
	return report
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = w.Write(append(out, '\n'))
	return err
}
