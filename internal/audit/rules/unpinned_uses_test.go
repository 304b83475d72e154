package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnpinnedUsesFlagsMutableRefUnderHashPinPolicy(t *testing.T) {
	src := "jobs:\n  build:\n    steps:\n      - uses: some-org/some-action@v1\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	findings := unpinnedUsesAudit{}.Check(c)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Description, "mutable ref")
}

func TestUnpinnedUsesFlagsNoRefAtAll(t *testing.T) {
	src := "jobs:\n  build:\n    steps:\n      - uses: some-org/some-action\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	findings := unpinnedUsesAudit{}.Check(c)
	require.Len(t, findings, 1)
	assert.Equal(t, "high", findings[0].Severity.String())
}

func TestUnpinnedUsesIgnoresShaPin(t *testing.T) {
	src := "jobs:\n  build:\n    steps:\n      - uses: some-org/some-action@0123456789012345678901234567890123456789\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	assert.Empty(t, unpinnedUsesAudit{}.Check(c))
}

func TestUnpinnedUsesAllowsRefPinForFirstPartyOrg(t *testing.T) {
	src := "jobs:\n  build:\n    steps:\n      - uses: actions/checkout@v4\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	assert.Empty(t, unpinnedUsesAudit{}.Check(c))
}

func TestSetPinPolicyRestoresDefaultOnEmptySlice(t *testing.T) {
	SetPinPolicy([]PatternRule{{Pattern: "*", Policy: PolicyRefPin}})
	t.Cleanup(func() { SetPinPolicy(nil) })

	src := "jobs:\n  build:\n    steps:\n      - uses: some-org/some-action@v1\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)
	assert.Empty(t, unpinnedUsesAudit{}.Check(c))

	SetPinPolicy(nil)
	findings := unpinnedUsesAudit{}.Check(c)
	require.Len(t, findings, 1)
}
