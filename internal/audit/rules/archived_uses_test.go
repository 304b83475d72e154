package rules

import (
	"context"
	"testing"

	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/registry"
	"github.com/octoguard/octoguard/internal/schema/workflow"
	"github.com/octoguard/octoguard/internal/yamlmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecodeWorkflow(t *testing.T, src string) (*yamlmodel.Tree, *workflow.Workflow) {
	t.Helper()
	tree, err := yamlmodel.Parse([]byte(src))
	require.NoError(t, err)
	w, err := workflow.Decode(tree)
	require.NoError(t, err)
	return tree, w
}

func newRuleContext(tree *yamlmodel.Tree, src string, w *workflow.Workflow) audit.Context {
	key := audit.InputKey{Kind: "local", Path: "workflow.yml"}
	input := &audit.Input{Key: key, Tree: tree, Text: []byte(src)}
	builder := audit.NewFindingBuilder(map[audit.InputKey]*audit.Input{key: input}, audit.NewConfig(), audit.Filter{Requested: audit.PersonaPedantic})
	return audit.Context{
		Ctx:      context.Background(),
		Input:    input,
		Decoded:  w,
		Builder:  builder,
		Resolver: registry.OfflineResolver{},
	}
}

func TestArchivedUsesFlagsKnownArchivedRepo(t *testing.T) {
	src := "jobs:\n  build:\n    steps:\n      - uses: actions-rs/toolchain@v1\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	findings := archivedUsesAudit{}.Check(c)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Description, "actions-rs/toolchain")
}

func TestArchivedUsesIgnoresActiveRepo(t *testing.T) {
	src := "jobs:\n  build:\n    steps:\n      - uses: actions/checkout@v4\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	assert.Empty(t, archivedUsesAudit{}.Check(c))
}

func TestArchivedUsesIgnoresDockerAndLocalRefs(t *testing.T) {
	src := "jobs:\n  build:\n    steps:\n      - uses: docker://alpine:3.18\n      - uses: ./.github/actions/local\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	assert.Empty(t, archivedUsesAudit{}.Check(c))
}

func TestArchivedUsesIsCaseInsensitive(t *testing.T) {
	src := "jobs:\n  build:\n    steps:\n      - uses: Actions-RS/Toolchain@v1\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	assert.Len(t, archivedUsesAudit{}.Check(c), 1)
}
