package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBotConditionsFlagsJobGateOnBotActor(t *testing.T) {
	src := "on: pull_request_target\njobs:\n  build:\n    if: github.actor == 'dependabot[bot]'\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Len(t, botConditionsAudit{}.Check(c), 1)
}

func TestBotConditionsFlagsStepGateOnTriggeringActor(t *testing.T) {
	src := "on: workflow_run\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - if: github.triggering_actor == 'renovate[bot]'\n        run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Len(t, botConditionsAudit{}.Check(c), 1)
}

func TestBotConditionsIgnoresWithoutDangerousTrigger(t *testing.T) {
	src := "on: push\njobs:\n  build:\n    if: github.actor == 'dependabot[bot]'\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Empty(t, botConditionsAudit{}.Check(c))
}

func TestBotConditionsIgnoresUnrelatedCondition(t *testing.T) {
	src := "on: pull_request_target\njobs:\n  build:\n    if: github.ref == 'refs/heads/main'\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Empty(t, botConditionsAudit{}.Check(c))
}
