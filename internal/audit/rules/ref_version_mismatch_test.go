package rules

import (
	"context"
	"testing"

	"github.com/octoguard/octoguard/internal/registry"
	"github.com/stretchr/testify/require"
)

type fakeTagsResolver struct {
	registry.OfflineResolver
	tags  []registry.TagRef
	known bool
}

func (f fakeTagsResolver) TagsFor(context.Context, string, string) ([]registry.TagRef, bool) {
	return f.tags, f.known
}

func TestRefVersionMismatchFlagsMismatchedComment(t *testing.T) {
	sha := "0123456789012345678901234567890123456789"
	src := "jobs:\n  build:\n    steps:\n      - uses: some-org/some-action@" + sha + " # v4.0.0\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)
	c.Resolver = fakeTagsResolver{known: true, tags: []registry.TagRef{{Name: "v5.0.0", SHA: sha}}}

	require.Len(t, refVersionMismatchAudit{}.Check(c), 1)
}

func TestRefVersionMismatchIgnoresMatchingComment(t *testing.T) {
	sha := "0123456789012345678901234567890123456789"
	src := "jobs:\n  build:\n    steps:\n      - uses: some-org/some-action@" + sha + " # v5.0.0\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)
	c.Resolver = fakeTagsResolver{known: true, tags: []registry.TagRef{{Name: "v5.0.0", SHA: sha}}}

	require.Empty(t, refVersionMismatchAudit{}.Check(c))
}

func TestRefVersionMismatchIgnoresWithoutComment(t *testing.T) {
	sha := "0123456789012345678901234567890123456789"
	src := "jobs:\n  build:\n    steps:\n      - uses: some-org/some-action@" + sha + "\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)
	c.Resolver = fakeTagsResolver{known: true, tags: []registry.TagRef{{Name: "v5.0.0", SHA: sha}}}

	require.Empty(t, refVersionMismatchAudit{}.Check(c))
}

func TestRefVersionMismatchIgnoresNonShaRef(t *testing.T) {
	src := "jobs:\n  build:\n    steps:\n      - uses: actions/checkout@v4 # v5.0.0\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)
	c.Resolver = fakeTagsResolver{known: true}

	require.Empty(t, refVersionMismatchAudit{}.Check(c))
}
