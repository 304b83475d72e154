package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaViolationFlagsJobMissingRunsOnAndUses(t *testing.T) {
	src := "on: push\njobs:\n  build:\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	findings := schemaViolationAudit{}.Check(c)
	require.NotEmpty(t, findings)
	assert.Equal(t, "informational", findings[0].Severity.String())
	assert.Equal(t, "low", findings[0].Confidence.String())
}

func TestSchemaViolationIgnoresWellFormedWorkflow(t *testing.T) {
	src := "on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	assert.Empty(t, schemaViolationAudit{}.Check(c))
}
