package collector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCollectFindsWorkflowsAndDependabot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".github/workflows/ci.yml"), "on: push\n")
	writeFile(t, filepath.Join(root, ".github/workflows/release.yaml"), "on: push\n")
	writeFile(t, filepath.Join(root, ".github/dependabot.yml"), "version: 2\n")

	docs, err := Collect(root)
	require.NoError(t, err)

	var paths []string
	for _, d := range docs {
		paths = append(paths, d.Path)
	}
	assert.Contains(t, paths, ".github/workflows/ci.yml")
	assert.Contains(t, paths, ".github/workflows/release.yaml")
	assert.Contains(t, paths, ".github/dependabot.yml")
}

func TestCollectFindsNestedActionDefinitions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "action.yml"), "runs:\n  using: composite\n")
	writeFile(t, filepath.Join(root, "subdir/action.yaml"), "runs:\n  using: docker\n")

	docs, err := Collect(root)
	require.NoError(t, err)

	kinds := map[string]Kind{}
	for _, d := range docs {
		kinds[d.Path] = d.Kind
	}
	assert.Equal(t, KindAction, kinds["action.yml"])
	assert.Equal(t, KindAction, kinds["subdir/action.yaml"])
}

func TestCollectHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "vendor\n")
	writeFile(t, filepath.Join(root, "vendor/action.yml"), "runs:\n  using: composite\n")
	writeFile(t, filepath.Join(root, "action.yml"), "runs:\n  using: composite\n")

	docs, err := Collect(root)
	require.NoError(t, err)

	var paths []string
	for _, d := range docs {
		paths = append(paths, d.Path)
	}
	assert.Contains(t, paths, "action.yml")
	assert.NotContains(t, paths, "vendor/action.yml")
}

func TestCollectDeduplicatesOverlappingGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "action.yml"), "runs:\n  using: composite\n")

	docs, err := Collect(root)
	require.NoError(t, err)

	count := 0
	for _, d := range docs {
		if d.Path == "action.yml" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
