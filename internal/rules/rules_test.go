package rules

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dusk-indust/makecheck/internal/makefile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src ...string) *makefile.Makefile {
	t.Helper()
	m, err := makefile.Parse("Makefile", strings.NewReader(strings.Join(src, "\n")))
	require.NoError(t, err)
	return m
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "RULES")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	rs, err := Load(filepath.Join("..", "..", "testdata", "fixtures", "project", "RULES"))
	require.NoError(t, err)
	assert.Equal(t, []string{"all", "clean"}, rs.RequiredTargets)
	assert.Equal(t, []string{"CC", "CFLAGS"}, rs.RequiredVariables)
	assert.Equal(t, []string{"all", "clean"}, rs.PhonyTargets)
	assert.False(t, rs.ForbidAnomalies)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "RULES")
		_, err := Load(path)
		require.Error(t, err)
		var le *LoadError
		require.True(t, errors.As(err, &le))
		assert.Equal(t, path, le.Path)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	tests := map[string]string{
		"invalid json":  `{"requiredTargets": [}`,
		"unknown key":   `{"requiredTarget": ["all"]}`,
		"wrong type":    `{"requiredTargets": "all"}`,
		"trailing data": `{} {}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, content)
			_, err := Load(path)
			require.Error(t, err)
			var le *LoadError
			require.True(t, errors.As(err, &le))
			assert.Contains(t, err.Error(), "not a valid JSON rule set")
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestCheck_Passes(t *testing.T) {
	m := parse(t,
		"CC = gcc",
		".PHONY: all clean",
		"all: app",
		"app: main.o",
		"\t$(CC) -o app main.o",
		"clean:",
		"\trm -f app",
	)
	rs := &RuleSet{
		RequiredTargets:   []string{"all", "clean", "app"},
		RequiredVariables: []string{"CC"},
		PhonyTargets:      []string{"all", "clean"},
		ForbidAnomalies:   true,
	}
	assert.Empty(t, rs.Check(m))
}

func TestCheck_Violations(t *testing.T) {
	m := parse(t,
		".PHONY: all",
		"all: app",
		"\techo all",
		"install",
		"clean:",
	)
	rs := &RuleSet{
		RequiredTargets:   []string{"all", "test"},
		RequiredVariables: []string{"CC"},
		PhonyTargets:      []string{"all", "clean"},
		ForbidAnomalies:   true,
	}

	vs := rs.Check(m)
	require.Len(t, vs, 4)

	assert.Equal(t, CheckRequiredTarget, vs[0].Check)
	assert.Equal(t, "test", vs[0].Subject)
	assert.Equal(t, CheckRequiredVariable, vs[1].Check)
	assert.Equal(t, "CC", vs[1].Subject)
	assert.Equal(t, CheckPhonyTarget, vs[2].Check)
	assert.Equal(t, "clean", vs[2].Subject)
	assert.Equal(t, CheckNoAnomalies, vs[3].Check)
	assert.Equal(t, "line 4", vs[3].Subject)

	for _, v := range vs {
		assert.Equal(t, "Makefile", v.Path)
	}
	assert.Equal(t, `Makefile: [required-target] no rule defines target "test"`, vs[0].String())
}

func TestCheck_EmptyRuleSet(t *testing.T) {
	m := parse(t, "garbage line")
	assert.Empty(t, (&RuleSet{}).Check(m), "anomalies are only violations when forbidden")
}
