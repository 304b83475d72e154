package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnsoundContainsFlagsStringLiteralHaystack(t *testing.T) {
	src := "jobs:\n  build:\n    if: ${{ contains('refs/heads/release', github.ref_name) }}\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Len(t, unsoundContainsAudit{}.Check(c), 1)
}

func TestUnsoundContainsIgnoresArrayHaystack(t *testing.T) {
	src := "jobs:\n  build:\n    if: ${{ contains(github.event.issue.labels.*.name, 'bug') }}\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Empty(t, unsoundContainsAudit{}.Check(c))
}
