package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dusk-indust/makecheck/internal/makefile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureRoot() string {
	return filepath.Join("..", "..", "testdata", "fixtures", "project")
}

func TestIsMakefile(t *testing.T) {
	for _, name := range []string{"Makefile", "makefile", "GNUmakefile", "rules.mk"} {
		assert.True(t, IsMakefile(name), name)
	}
	for _, name := range []string{"README", "Makefile.bak", "mk", "main.go"} {
		assert.False(t, IsMakefile(name), name)
	}
}

func TestDiscover(t *testing.T) {
	root := fixtureRoot()
	paths, err := Discover(root, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "Makefile"),
		filepath.Join(root, "docs", "build.mk"),
		filepath.Join(root, "lib", "Makefile"),
	}, paths, "vendor is excluded by default")
}

func TestDiscover_ExtraExcludes(t *testing.T) {
	root := fixtureRoot()
	paths, err := Discover(root, Options{ExcludeDirs: []string{"lib", "docs"}})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "Makefile")}, paths)
}

func TestDiscover_FileRoot(t *testing.T) {
	path := filepath.Join(fixtureRoot(), "Makefile")
	paths, err := Discover(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, paths)
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRun(t *testing.T) {
	results, err := Run(context.Background(), fixtureRoot(), Options{Concurrency: 2})
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, r := range results {
		require.NoError(t, r.Err, r.Path)
		require.NotNil(t, r.Makefile, r.Path)
	}

	assert.Equal(t, "all clean", results[0].Makefile.Phony())

	docs := results[1].Makefile
	require.Len(t, docs.Anomalies(), 1, "include is not supported")
	assert.Equal(t, 3, docs.Anomalies()[0].Line)

	lib := results[2].Makefile
	assert.Equal(t, ">", lib.RecipePrefix())
}

func TestParseAll_IndependentFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "Makefile")
	require.NoError(t, os.WriteFile(good, []byte("all:\n\techo ok\n"), 0o644))
	missing := filepath.Join(dir, "gone.mk")

	results, err := ParseAll(context.Background(), []string{missing, good}, Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, missing, results[0].Path)
	assert.Nil(t, results[0].Makefile)
	assert.True(t, errors.Is(results[0].Err, makefile.ErrSourceUnreadable))

	assert.Equal(t, good, results[1].Path)
	require.NoError(t, results[1].Err)
	assert.Len(t, results[1].Makefile.Rules(), 1)
}

func TestParseAll_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ParseAll(ctx, []string{filepath.Join(fixtureRoot(), "Makefile")}, Options{Concurrency: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
