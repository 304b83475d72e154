package yamlmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleMapping(t *testing.T) {
	src := []byte("name: CI\non:\n  push:\n    branches: [main]\n")
	tree, err := Parse(src)
	require.NoError(t, err)
	require.Equal(t, KindMapping, tree.Root.Kind)

	name, ok := tree.Root.MapGet("name")
	require.True(t, ok)
	assert.Equal(t, "CI", name.ScalarValue)

	on, ok := tree.Root.MapGet("on")
	require.True(t, ok)
	assert.Equal(t, KindMapping, on.Kind)

	push, ok := on.MapGet("push")
	require.True(t, ok)
	branches, ok := push.MapGet("branches")
	require.True(t, ok)
	require.Equal(t, KindSequence, branches.Kind)
	require.Len(t, branches.Items, 1)
	assert.Equal(t, "main", branches.Items[0].ScalarValue)
}

func TestParseInvalidYAMLReturnsParseError(t *testing.T) {
	src := []byte("name: [unterminated\n")
	_, err := Parse(src)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestAliasIsResolvedToPhysicalCopy(t *testing.T) {
	src := []byte("defaults: &d\n  shell: bash\njobs:\n  build:\n    defaults: *d\n")
	tree, err := Parse(src)
	require.NoError(t, err)
	assert.True(t, tree.HasAnchors)

	jobs, _ := tree.Root.MapGet("jobs")
	build, _ := jobs.MapGet("build")
	defaults, ok := build.MapGet("defaults")
	require.True(t, ok)
	shell, ok := defaults.MapGet("shell")
	require.True(t, ok)
	assert.Equal(t, "bash", shell.ScalarValue)
	assert.Equal(t, "d", defaults.AliasOf)
}

func TestScanCommentsIgnoresHashInsideQuotes(t *testing.T) {
	src := []byte("name: \"a # not a comment\"\n# real comment\nfoo: bar # trailing\n")
	comments := scanComments(src)
	require.Len(t, comments, 2)
	assert.Equal(t, "real comment", comments[0].Body)
	assert.Equal(t, "trailing", comments[1].Body)
}

func TestLineIndexRoundTrips(t *testing.T) {
	src := []byte("abc\ndefgh\nij\n")
	li := NewLineIndex(src)
	off := li.Offset(2, 3)
	line, col := li.LineCol(off)
	assert.Equal(t, 2, line)
	assert.Equal(t, 3, col)
}
