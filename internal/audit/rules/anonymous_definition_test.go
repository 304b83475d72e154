package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymousDefinitionFlagsUnnamedReusableWorkflow(t *testing.T) {
	src := "on:\n  workflow_call:\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	assert.Len(t, anonymousDefinitionAudit{}.Check(c), 1)
}

func TestAnonymousDefinitionIgnoresNamedReusableWorkflow(t *testing.T) {
	src := "name: My Reusable Workflow\non:\n  workflow_call:\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	assert.Empty(t, anonymousDefinitionAudit{}.Check(c))
}

func TestAnonymousDefinitionIgnoresNonReusableWorkflow(t *testing.T) {
	src := "on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	assert.Empty(t, anonymousDefinitionAudit{}.Check(c))
}
