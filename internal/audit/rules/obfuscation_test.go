package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObfuscationFlagsRoundTripJSON(t *testing.T) {
	src := "jobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - if: ${{ fromJSON(toJSON(matrix)) }}\n        run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	findings := obfuscationAudit{}.Check(c)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Description, "round-trips")
}

func TestObfuscationFlagsComputedIndex(t *testing.T) {
	src := "jobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - if: ${{ matrix[github.ref] }}\n        run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	findings := obfuscationAudit{}.Check(c)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Description, "indexes")
}

func TestObfuscationIgnoresPlainExpression(t *testing.T) {
	src := "jobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - if: ${{ github.ref == 'refs/heads/main' }}\n        run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	assert.Empty(t, obfuscationAudit{}.Check(c))
}
