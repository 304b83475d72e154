package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMisfeatureFlagsSetOutput(t *testing.T) {
	src := "jobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo \"::set-output name=foo::bar\"\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	findings := misfeatureAudit{}.Check(c)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Description, "set-output")
}

func TestMisfeatureFlagsSaveState(t *testing.T) {
	src := "jobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo \"::save-state name=foo::bar\"\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	findings := misfeatureAudit{}.Check(c)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Description, "save-state")
}

func TestMisfeatureIgnoresModernOutputWrite(t *testing.T) {
	src := "jobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo \"foo=bar\" >> \"$GITHUB_OUTPUT\"\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	assert.Empty(t, misfeatureAudit{}.Check(c))
}
