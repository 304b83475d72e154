package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsecureCommandsFlagsWorkflowLevelEnv(t *testing.T) {
	src := "env:\n  ACTIONS_ALLOW_UNSECURE_COMMANDS: true\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Len(t, insecureCommandsAudit{}.Check(c), 1)
}

func TestInsecureCommandsFlagsStepLevelEnv(t *testing.T) {
	src := "jobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n        env:\n          ACTIONS_ALLOW_UNSECURE_COMMANDS: true\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Len(t, insecureCommandsAudit{}.Check(c), 1)
}

func TestInsecureCommandsIgnoresFalseValue(t *testing.T) {
	src := "env:\n  ACTIONS_ALLOW_UNSECURE_COMMANDS: false\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Empty(t, insecureCommandsAudit{}.Check(c))
}

func TestInsecureCommandsIgnoresAbsentEnv(t *testing.T) {
	src := "jobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Empty(t, insecureCommandsAudit{}.Check(c))
}
