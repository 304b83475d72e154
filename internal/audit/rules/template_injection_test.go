package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateInjectionFlagsDangerousRunInterpolation(t *testing.T) {
	src := "jobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo ${{ github.event.issue.title }}\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	findings := templateInjectionAudit{}.Check(c)
	require.Len(t, findings, 1)
	assert.Equal(t, "high", findings[0].Severity.String())
	assert.NotEmpty(t, findings[0].Fixes)
}

func TestTemplateInjectionFlagsDangerousSinkInput(t *testing.T) {
	src := "jobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - uses: actions/github-script@v7\n        with:\n          script: ${{ github.event.issue.title }}\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	findings := templateInjectionAudit{}.Check(c)
	require.Len(t, findings, 1)
}

func TestTemplateInjectionIgnoresSafeContext(t *testing.T) {
	src := "jobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo ${{ github.run_id }}\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	assert.Empty(t, templateInjectionAudit{}.Check(c))
}
