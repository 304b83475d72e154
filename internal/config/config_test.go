package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/audit/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadParsesPersonaAndThresholds(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "persona: pedantic\nmin-severity: medium\nmin-confidence: high\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, audit.PersonaPedantic, cfg.Filter.Requested)
	assert.Equal(t, audit.Medium, cfg.Filter.MinSeverity)
	assert.Equal(t, audit.ConfidenceHigh, cfg.Filter.MinConfidence)
}

func TestLoadRejectsUnknownPersona(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "persona: omniscient\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadBuildsSuppressionConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ""+
		"rules:\n"+
		"  unpinned-uses:\n"+
		"    disable: true\n"+
		"  artipacked:\n"+
		"    ignore:\n"+
		"      - ci.yml:12\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Suppression.Disabled["unpinned-uses"])
	require.Len(t, cfg.Suppression.LocationIgnores["artipacked"], 1)
	assert.Equal(t, "ci.yml", cfg.Suppression.LocationIgnores["artipacked"][0].File)
	assert.Equal(t, 12, cfg.Suppression.LocationIgnores["artipacked"][0].Line)
}

func TestLoadWiresForbiddenUsesPolicy(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ""+
		"forbidden-uses:\n"+
		"  - pattern: \"evil/*\"\n"+
		"    policy: deny\n")

	_, err := Load(path)
	require.NoError(t, err)
	require.Len(t, rules.ForbiddenUsesPolicy, 1)
	assert.Equal(t, rules.PolicyDeny, rules.ForbiddenUsesPolicy[0].Policy)
	rules.ForbiddenUsesPolicy = nil
}

func TestLoadRejectsUnknownPolicy(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ""+
		"pin-policy:\n"+
		"  - pattern: \"*\"\n"+
		"    policy: bogus\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDiscoverFindsConfigInAncestor(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "persona: pedantic\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, ok := Discover(nested)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, FileName), found)
}

func TestDiscoverStopsAtGitRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	nested := filepath.Join(root, "sub")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	_, ok := Discover(nested)
	assert.False(t, ok)
}
