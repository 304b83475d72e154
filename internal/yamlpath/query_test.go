package yamlpath

import (
	"testing"

	"github.com/octoguard/octoguard/internal/yamlmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWorkflow = `
name: CI
jobs:
  build:
    steps:
      - uses: actions/checkout@v4
      - run: echo hi
      - uses: actions/setup-go@v5
`

func TestQueryResolvesNestedRoute(t *testing.T) {
	tree, err := yamlmodel.Parse([]byte(sampleWorkflow))
	require.NoError(t, err)

	route := Route{Key("jobs"), Key("build"), Key("steps"), Index(0), Key("uses")}
	node, ok := Query(tree.Root, route)
	require.True(t, ok)
	assert.Equal(t, "actions/checkout@v4", node.ScalarValue)
}

func TestQueryMissingComponentReturnsFalse(t *testing.T) {
	tree, err := yamlmodel.Parse([]byte(sampleWorkflow))
	require.NoError(t, err)

	_, ok := Query(tree.Root, Route{Key("jobs"), Key("nope")})
	assert.False(t, ok)
}

func TestFindKeyFindsAllUsesInOrder(t *testing.T) {
	tree, err := yamlmodel.Parse([]byte(sampleWorkflow))
	require.NoError(t, err)

	matches := FindKey(tree.Root, "uses")
	require.Len(t, matches, 2)
	assert.Equal(t, "actions/checkout@v4", matches[0].Node.ScalarValue)
	assert.Equal(t, "actions/setup-go@v5", matches[1].Node.ScalarValue)
	assert.Equal(t, "jobs.build.steps[0].uses", matches[0].Route.String())
}

func TestRouteStringFormatsIndices(t *testing.T) {
	r := Route{Key("jobs"), Key("build"), Key("steps"), Index(2), Key("with")}
	assert.Equal(t, "jobs.build.steps[2].with", r.String())
}
