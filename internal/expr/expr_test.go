package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMemberAccess(t *testing.T) {
	n, err := Parse("github.event.issue.title")
	require.NoError(t, err)
	path := NormalizePath(n)
	assert.Equal(t, []string{"github", "event", "issue", "title"}, path)
}

func TestParseCallAndComparison(t *testing.T) {
	n, err := Parse("contains('refs/heads/main refs/heads/develop', github.ref)")
	require.NoError(t, err)
	call, ok := n.(*Call)
	require.True(t, ok)
	assert.Equal(t, "contains", call.Name)
	assert.True(t, IsUnsoundContains(call))
}

func TestParsePrecedence(t *testing.T) {
	n, err := Parse("a == 1 && b == 2 || c")
	require.NoError(t, err)
	top, ok := n.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "||", top.Op)
}

func TestParseIndexAndSplat(t *testing.T) {
	n, err := Parse("steps.*.outputs.result")
	require.NoError(t, err)
	path := NormalizePath(n)
	assert.Equal(t, []string{"steps", "*", "outputs", "result"}, path)
}

func TestContextTableAlwaysSafe(t *testing.T) {
	table := DefaultContextTable()
	n, err := Parse("github.run_id")
	require.NoError(t, err)
	assert.Equal(t, SafetyAlwaysSafe, table.Classify(NormalizePath(n)))
}

func TestContextTableAlwaysDangerous(t *testing.T) {
	table := DefaultContextTable()
	n, err := Parse("github.event.issue.title")
	require.NoError(t, err)
	assert.Equal(t, SafetyAlwaysDangerous, table.Classify(NormalizePath(n)))
}

func TestContextTableConditionalWithSplat(t *testing.T) {
	table := DefaultContextTable()
	n, err := Parse("steps.build.outputs.version")
	require.NoError(t, err)
	assert.Equal(t, SafetyConditional, table.Classify(NormalizePath(n)))
}

func TestIsStaticValueWithStaticEnvBinding(t *testing.T) {
	env := NewEnvironment(map[string]string{"X": "fixed-value"})
	assert.True(t, IsStaticValue("${{ env.X }}", env))
}

func TestIsStaticValueFollowsChainedBindings(t *testing.T) {
	env := NewEnvironment(map[string]string{
		"A": "${{ env.B }}",
		"B": "literal",
	})
	assert.True(t, IsStaticValue("${{ env.A }}", env))
}

func TestIsStaticValueFalseForUnresolvedContext(t *testing.T) {
	env := NewEnvironment(map[string]string{})
	assert.False(t, IsStaticValue("${{ inputs.unbound }}", env))
}

func TestDetectObfuscationRoundTripJSON(t *testing.T) {
	n, err := Parse("fromJSON(toJSON(matrix))")
	require.NoError(t, err)
	obs := DetectObfuscation(n)
	require.Len(t, obs, 1)
	assert.Equal(t, ObfuscationRoundTripJSON, obs[0].Kind)
}

func TestDetectObfuscationComputedIndex(t *testing.T) {
	n, err := Parse("a[b.c]")
	require.NoError(t, err)
	obs := DetectObfuscation(n)
	require.Len(t, obs, 1)
	assert.Equal(t, ObfuscationComputedIndex, obs[0].Kind)
}

func TestDetectObfuscationRedundantPath(t *testing.T) {
	n, err := Parse("'./foo/bar'")
	require.NoError(t, err)
	obs := DetectObfuscation(n)
	require.Len(t, obs, 1)
	assert.Equal(t, ObfuscationRedundantPath, obs[0].Kind)
}

func TestIsUnsoundConditionBareString(t *testing.T) {
	assert.True(t, IsUnsoundCondition("foo"))
}

func TestIsUnsoundConditionFalseStringLiteral(t *testing.T) {
	assert.True(t, IsUnsoundCondition("${{ 'false' }}"))
}

func TestIsUnsoundConditionNormalExpressionIsSound(t *testing.T) {
	assert.False(t, IsUnsoundCondition("${{ github.event_name == 'push' }}"))
}
