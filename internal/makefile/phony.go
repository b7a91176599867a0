package makefile

import "strings"

// PhonyTarget is the pseudo-target whose prerequisites are the phony names.
const PhonyTarget = ".PHONY"

// resolvePhony removes every .PHONY rule from rules and returns the union of
// their dependency names in source order, duplicates dropped.
func resolvePhony(path string, rules []Rule) (kept []Rule, phony string, anomalies []*Error) {
	var (
		names []string
		seen  = make(map[string]bool)
	)
	kept = make([]Rule, 0, len(rules))

	for _, r := range rules {
		if r.Target != PhonyTarget {
			kept = append(kept, r)
			continue
		}
		fields := strings.Fields(r.Deps)
		if len(fields) == 0 {
			anomalies = append(anomalies, anomaly(path, r.Line, "%s declares no targets", PhonyTarget))
		}
		if len(r.Commands) > 0 {
			anomalies = append(anomalies, anomaly(path, r.Line, "%s has %d recipe command(s), ignored", PhonyTarget, len(r.Commands)))
		}
		for _, name := range fields {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return kept, strings.Join(names, " "), anomalies
}
