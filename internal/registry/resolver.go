// Package registry resolves "uses:" chains into fetched action/workflow
// definitions and exposes the ref/tag/branch/advisory lookups the online
// audits need. RefResolver is the abstract interface audits depend on;
// GitHubResolver is its concrete implementation, directly generalizing the
// teacher's githubclient package.
package registry

import (
	"context"

	"github.com/octoguard/octoguard/internal/schema"
)

// FetchedDefinition is a remotely resolved action or reusable workflow
// definition as raw text; callers parse it themselves (see
// ExtractNestedUses).
type FetchedDefinition struct {
	Owner, Repo, Subpath, Ref string
	RawText                   []byte
}

// TagRef pairs a tag name with the commit SHA it points to.
type TagRef struct {
	Name string
	SHA  string
}

// BranchRef pairs a branch name with its head commit SHA.
type BranchRef struct {
	Name string
	SHA  string
}

// Advisory is one known vulnerability affecting an action, keyed by the
// action's owner/repo slug.
type Advisory struct {
	ID             string
	Summary        string
	AffectedRange  string
	Severity       string
}

// RefResolver is the abstract interface audits depend on. Offline runs, and
// tests, supply a stub implementation; online runs use GitHubResolver.
type RefResolver interface {
	ResolveUses(ctx context.Context, u schema.Uses) (*FetchedDefinition, bool)
	TagsFor(ctx context.Context, owner, repo string) ([]TagRef, bool)
	BranchesFor(ctx context.Context, owner, repo string) ([]BranchRef, bool)
	CommitInRepo(ctx context.Context, owner, repo, sha string) (bool, bool)
	AdvisoriesFor(ctx context.Context, slug string) []Advisory
	LatestRef(ctx context.Context, owner, repo string) (tag, sha string, ok bool)
}

// OfflineResolver is a RefResolver that never makes a remote call; every
// method reports "no result", matching "Offline: all online
// methods return None."
type OfflineResolver struct{}

func (OfflineResolver) ResolveUses(context.Context, schema.Uses) (*FetchedDefinition, bool) {
	return nil, false
}
func (OfflineResolver) TagsFor(context.Context, string, string) ([]TagRef, bool) { return nil, false }
func (OfflineResolver) BranchesFor(context.Context, string, string) ([]BranchRef, bool) {
	return nil, false
}
func (OfflineResolver) CommitInRepo(context.Context, string, string, string) (bool, bool) {
	return false, false
}
func (OfflineResolver) AdvisoriesFor(context.Context, string) []Advisory { return nil }
func (OfflineResolver) LatestRef(context.Context, string, string) (string, string, bool) {
	return "", "", false
}
