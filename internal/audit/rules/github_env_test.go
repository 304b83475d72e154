package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGithubEnvFlagsWriteUnderDangerousTrigger(t *testing.T) {
	src := "on: pull_request_target\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo \"NAME=$VALUE\" >> $GITHUB_ENV\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Len(t, githubEnvAudit{}.Check(c), 1)
}

func TestGithubEnvFlagsGithubPathWrite(t *testing.T) {
	src := "on: workflow_run\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo \"$DIR\" >> \"$GITHUB_PATH\"\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Len(t, githubEnvAudit{}.Check(c), 1)
}

func TestGithubEnvIgnoresWithoutDangerousTrigger(t *testing.T) {
	src := "on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo \"NAME=$VALUE\" >> $GITHUB_ENV\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Empty(t, githubEnvAudit{}.Check(c))
}

func TestGithubEnvIgnoresUnrelatedRunStep(t *testing.T) {
	src := "on: pull_request_target\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Empty(t, githubEnvAudit{}.Check(c))
}
