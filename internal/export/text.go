package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/dusk-indust/makecheck/internal/makefile"
)

// WriteText writes the verbose banner report of a parsed Makefile: its
// normalized text, variables and rules, then the .PHONY set when one was
// declared.
func WriteText(w io.Writer, m *makefile.Makefile) error {
	var sb strings.Builder
	section := func(name, body string) {
		fmt.Fprintf(&sb, "=== Makefile %s begin ===\n%s\n=== Makefile %s end ===\n", name, body, name)
	}

	section("text", m.FormatLines())
	section("variable", m.FormatVariables())
	section("rules", m.FormatRules())
	if m.Phony() != "" {
		section(".PHONY", m.Phony())
	}
	for _, a := range m.Anomalies() {
		fmt.Fprintf(&sb, "warning: %v\n", a)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
