package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtipackedFlagsPlainCheckoutAsMedium(t *testing.T) {
	src := "jobs:\n  build:\n    steps:\n      - uses: actions/checkout@v4\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	findings := artipackedAudit{}.Check(c)
	require.Len(t, findings, 1)
	assert.Equal(t, "medium", findings[0].Severity.String())
	assert.NotEmpty(t, findings[0].Fixes)
}

func TestArtipackedDowngradesToLowOnCheckoutV6(t *testing.T) {
	src := "jobs:\n  build:\n    steps:\n      - uses: actions/checkout@v6\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	findings := artipackedAudit{}.Check(c)
	require.Len(t, findings, 1)
	assert.Equal(t, "low", findings[0].Severity.String())
}

func TestArtipackedEscalatesToHighOnDangerousUpload(t *testing.T) {
	src := "jobs:\n  build:\n    steps:\n      - uses: actions/checkout@v4\n      - uses: actions/upload-artifact@v4\n        with:\n          path: .\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	findings := artipackedAudit{}.Check(c)
	require.Len(t, findings, 1)
	assert.Equal(t, "high", findings[0].Severity.String())
}

func TestArtipackedIgnoresCheckoutWithPersistCredentialsFalse(t *testing.T) {
	src := "jobs:\n  build:\n    steps:\n      - uses: actions/checkout@v4\n        with:\n          persist-credentials: false\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	assert.Empty(t, artipackedAudit{}.Check(c))
}

func TestArtipackedIgnoresSafeUploadPath(t *testing.T) {
	src := "jobs:\n  build:\n    steps:\n      - uses: actions/checkout@v4\n      - uses: actions/upload-artifact@v4\n        with:\n          path: dist/\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	findings := artipackedAudit{}.Check(c)
	require.Len(t, findings, 1)
	assert.Equal(t, "medium", findings[0].Severity.String())
}
