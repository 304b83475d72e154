package rules

import (
	"context"
	"testing"

	"github.com/octoguard/octoguard/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdvisoryResolver struct {
	registry.OfflineResolver
	advisories []registry.Advisory
}

func (f fakeAdvisoryResolver) AdvisoriesFor(context.Context, string) []registry.Advisory {
	return f.advisories
}

func TestKnownVulnerableActionsFlagsMatchedAdvisory(t *testing.T) {
	src := "jobs:\n  build:\n    steps:\n      - uses: some-org/some-action@v1\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)
	c.Resolver = fakeAdvisoryResolver{advisories: []registry.Advisory{
		{ID: "GHSA-xxxx-yyyy-zzzz", Summary: "arbitrary code execution", Severity: "critical"},
	}}

	findings := knownVulnerableActionsAudit{}.Check(c)
	require.Len(t, findings, 1)
	assert.Equal(t, "high", findings[0].Severity.String())
	assert.Contains(t, findings[0].Description, "GHSA-xxxx-yyyy-zzzz")
}

func TestKnownVulnerableActionsIgnoresNoAdvisories(t *testing.T) {
	src := "jobs:\n  build:\n    steps:\n      - uses: some-org/some-action@v1\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)
	c.Resolver = fakeAdvisoryResolver{}

	assert.Empty(t, knownVulnerableActionsAudit{}.Check(c))
}
