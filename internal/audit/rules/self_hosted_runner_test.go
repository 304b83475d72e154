package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelfHostedRunnerFlagsExplicitLabel(t *testing.T) {
	src := "jobs:\n  build:\n    runs-on: self-hosted\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Len(t, selfHostedRunnerAudit{}.Check(c), 1)
}

func TestSelfHostedRunnerFlagsCustomLabel(t *testing.T) {
	src := "jobs:\n  build:\n    runs-on: [gpu-box]\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Len(t, selfHostedRunnerAudit{}.Check(c), 1)
}

func TestSelfHostedRunnerIgnoresStandardLabel(t *testing.T) {
	src := "jobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Empty(t, selfHostedRunnerAudit{}.Check(c))
}

func TestSelfHostedRunnerIgnoresExpressionLabel(t *testing.T) {
	src := "jobs:\n  build:\n    runs-on: ${{ matrix.os }}\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Empty(t, selfHostedRunnerAudit{}.Check(c))
}
