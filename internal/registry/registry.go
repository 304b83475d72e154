package registry

import (
	"context"
	"fmt"

	"github.com/octoguard/octoguard/internal/ghlog"
	"github.com/octoguard/octoguard/internal/schema"
	"github.com/octoguard/octoguard/internal/schema/action"
	"github.com/octoguard/octoguard/internal/yamlmodel"
)

// maxResolutionDepth caps recursive composite-action resolution, per
// cyclic-action-reference note.
const maxResolutionDepth = 8

// visitKey identifies one node in the resolution graph: composite action A
// can reference action B which references A, so cycles must be broken by a
// visited set keyed on the full (host, owner, repo, ref, subpath) tuple.
type visitKey struct {
	host, owner, repo, ref, subpath string
}

// Registry is the top-level entry point audits use to follow "uses:"
// chains. It wraps a CachingResolver and adds cycle detection across
// recursive composite-action resolution.
type Registry struct {
	resolver *CachingResolver
	host     string
}

// NewRegistry builds a Registry over resolver, identifying the GitHub host
// (github.com, or a GitHub Enterprise hostname) cycle keys are scoped to.
func NewRegistry(resolver RefResolver, host string) *Registry {
	if host == "" {
		host = "github.com"
	}
	return &Registry{resolver: NewCachingResolver(resolver), host: host}
}

// ResolveChain recursively resolves u and, if it is a composite action,
// every "uses:" it references in turn, stopping at depth maxResolutionDepth
// or at a previously visited node (treated as an opaque leaf, breaking the
// cycle rather than erroring).
func (r *Registry) ResolveChain(ctx context.Context, u schema.Uses) []*FetchedDefinition {
	visited := map[visitKey]bool{}
	var out []*FetchedDefinition
	r.resolveChain(ctx, u, visited, 0, &out)
	return out
}

func (r *Registry) resolveChain(ctx context.Context, u schema.Uses, visited map[visitKey]bool, depth int, out *[]*FetchedDefinition) {
	if depth > maxResolutionDepth {
		ghlog.Logger.Debug("resolution depth cap reached", "owner", u.Owner, "repo", u.Repo, "depth", depth)
		return
	}
	key := visitKey{host: r.host, owner: lower(u.Owner), repo: lower(u.Repo), ref: u.Ref, subpath: u.Subpath}
	if visited[key] {
		return
	}
	visited[key] = true

	def, ok := r.resolver.ResolveUses(ctx, u)
	if !ok {
		return
	}
	*out = append(*out, def)

	for _, nested := range ExtractNestedUses(def.RawText) {
		r.resolveChain(ctx, nested, visited, depth+1, out)
	}
}

// ExtractNestedUses scans a fetched action definition for further "uses:"
// references it depends on: only composite actions nest further "uses:"
// sites (JavaScript and Docker actions bottom out in runtime code this
// module does not execute), so a malformed or non-composite definition
// yields no nested references rather than an error. Exported so audits can
// inspect one link of a resolved chain without redoing the decode
// themselves.
func ExtractNestedUses(raw []byte) []schema.Uses {
	tree, err := yamlmodel.Parse(raw)
	if err != nil {
		return nil
	}
	def, err := action.Decode(tree)
	if err != nil || def.RunsKind != action.RunsComposite {
		return nil
	}
	var out []schema.Uses
	for _, step := range def.Steps {
		if step.Uses != nil {
			out = append(out, step.Uses.Value)
		}
	}
	return out
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// String renders a visitKey for debug logging.
func (k visitKey) String() string {
	return fmt.Sprintf("%s/%s/%s@%s/%s", k.host, k.owner, k.repo, k.ref, k.subpath)
}
