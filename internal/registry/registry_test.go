package registry

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/octoguard/octoguard/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	calls int32
	defs  map[string]*FetchedDefinition
}

func (s *stubResolver) ResolveUses(_ context.Context, u schema.Uses) (*FetchedDefinition, bool) {
	atomic.AddInt32(&s.calls, 1)
	def, ok := s.defs[u.Slug()+"@"+u.Ref]
	return def, ok
}
func (s *stubResolver) TagsFor(context.Context, string, string) ([]TagRef, bool) { return nil, false }
func (s *stubResolver) BranchesFor(context.Context, string, string) ([]BranchRef, bool) {
	return nil, false
}
func (s *stubResolver) CommitInRepo(context.Context, string, string, string) (bool, bool) {
	return false, false
}
func (s *stubResolver) AdvisoriesFor(context.Context, string) []Advisory { return nil }
func (s *stubResolver) LatestRef(context.Context, string, string) (string, string, bool) {
	return "", "", false
}

func TestCachingResolverCoalescesRepeatedLookups(t *testing.T) {
	stub := &stubResolver{defs: map[string]*FetchedDefinition{
		"actions/checkout@v4": {Owner: "actions", Repo: "checkout", Ref: "v4"},
	}}
	cache := NewCachingResolver(stub)

	u, ok := schema.ParseUses("actions/checkout@v4")
	require.True(t, ok)

	for i := 0; i < 5; i++ {
		def, found := cache.ResolveUses(context.Background(), u)
		require.True(t, found)
		assert.Equal(t, "checkout", def.Repo)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&stub.calls))
}

func TestRegistryBreaksCycles(t *testing.T) {
	stub := &stubResolver{defs: map[string]*FetchedDefinition{
		"a/a@main": {Owner: "a", Repo: "a", Ref: "main", RawText: []byte(
			"name: a\nruns:\n  using: composite\n  steps:\n    - uses: b/b@main\n")},
		"b/b@main": {Owner: "b", Repo: "b", Ref: "main", RawText: []byte(
			"name: b\nruns:\n  using: composite\n  steps:\n    - uses: a/a@main\n")},
	}}
	reg := NewRegistry(stub, "github.com")

	u, ok := schema.ParseUses("a/a@main")
	require.True(t, ok)

	defs := reg.ResolveChain(context.Background(), u)
	require.Len(t, defs, 2, "a and b are each fetched once; the back-edge to a is dropped as an opaque leaf")
	assert.Equal(t, int32(2), atomic.LoadInt32(&stub.calls))
}

func TestRegistryCapsResolutionDepth(t *testing.T) {
	stub := &stubResolver{defs: map[string]*FetchedDefinition{}}
	for i := 0; i < maxResolutionDepth+4; i++ {
		from := chainRepoName(i)
		to := chainRepoName(i + 1)
		stub.defs["c/"+from+"@main"] = &FetchedDefinition{Owner: "c", Repo: from, Ref: "main", RawText: []byte(
			"name: " + from + "\nruns:\n  using: composite\n  steps:\n    - uses: c/" + to + "@main\n")}
	}
	reg := NewRegistry(stub, "github.com")

	u, ok := schema.ParseUses("c/" + chainRepoName(0) + "@main")
	require.True(t, ok)

	defs := reg.ResolveChain(context.Background(), u)
	assert.LessOrEqual(t, len(defs), maxResolutionDepth+1)
}

func chainRepoName(i int) string {
	return "r" + string(rune('a'+i))
}

func TestOfflineResolverReturnsNoResults(t *testing.T) {
	var r RefResolver = OfflineResolver{}
	u, _ := schema.ParseUses("actions/checkout@v4")
	_, ok := r.ResolveUses(context.Background(), u)
	assert.False(t, ok)
}
