package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConcurrencyLimitsFlagsPullRequestWithoutGroup(t *testing.T) {
	src := "on: pull_request\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Len(t, concurrencyLimitsAudit{}.Check(c), 1)
}

func TestConcurrencyLimitsIgnoresWhenGroupDeclared(t *testing.T) {
	src := "on: pull_request\nconcurrency:\n  group: ${{ github.workflow }}-${{ github.ref }}\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Empty(t, concurrencyLimitsAudit{}.Check(c))
}

func TestConcurrencyLimitsIgnoresNonPullRequestTrigger(t *testing.T) {
	src := "on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Empty(t, concurrencyLimitsAudit{}.Check(c))
}
