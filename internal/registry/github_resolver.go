package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/esacteksab/httpcache"
	"github.com/esacteksab/httpcache/diskcache"
	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/octoguard/octoguard/internal/ghlog"
	"github.com/octoguard/octoguard/internal/schema"
)

// shaLength is the length of a full Git SHA-1 hash, as used by the
// teacher's githubclient.SHALength.
const shaLength = 40

// GitHubResolver is the online RefResolver backed by the GitHub REST API,
// generalizing the teacher's githubclient package: NewClient's
// token-and-cache wiring becomes newHTTPClient; ResolveRefToSHA's
// verify-SHA/resolve-tag/resolve-branch cascade becomes TagsFor/
// BranchesFor/CommitInRepo; GetLatestActionRef becomes LatestRef.
type GitHubResolver struct {
	client *github.Client
}

// NewGitHubResolver builds a resolver authenticated with token (may be
// empty for unauthenticated, rate-limited access) and caching HTTP
// responses under cacheDir.
func NewGitHubResolver(token, cacheDir string) (*GitHubResolver, error) {
	httpClient, err := newHTTPClient(token, cacheDir)
	if err != nil {
		return nil, err
	}
	return &GitHubResolver{client: github.NewClient(httpClient)}, nil
}

// NewGitHubResolverWithHost builds a resolver against a GitHub Enterprise
// hostname rather than github.com.
func NewGitHubResolverWithHost(token, cacheDir, hostname string) (*GitHubResolver, error) {
	r, err := NewGitHubResolver(token, cacheDir)
	if err != nil {
		return nil, err
	}
	if hostname == "" || hostname == "github.com" {
		return r, nil
	}
	client, err := r.client.WithEnterpriseURLs(
		fmt.Sprintf("https://%s/api/v3/", hostname),
		fmt.Sprintf("https://%s/api/uploads/", hostname),
	)
	if err != nil {
		return nil, fmt.Errorf("configure enterprise host %q: %w", hostname, err)
	}
	r.client = client
	return r, nil
}

func newHTTPClient(token, cacheDir string) (*http.Client, error) {
	if cacheDir == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("get user cache directory: %w", err)
		}
		cacheDir = filepath.Join(dir, "octoguard")
	}
	if err := os.MkdirAll(cacheDir, 0o750); err != nil {
		return nil, fmt.Errorf("create cache directory %q: %w", cacheDir, err)
	}

	cache := diskcache.New(cacheDir)
	cacheTransport := httpcache.NewTransport(cache)

	if token == "" {
		ghlog.Logger.Warn("no GitHub token found, using unauthenticated requests (lower rate limit)")
		return &http.Client{Transport: cacheTransport}, nil
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	authTransport := &oauth2.Transport{
		Base:   cacheTransport,
		Source: oauth2.ReuseTokenSource(nil, ts),
	}
	return &http.Client{Transport: authTransport}, nil
}

// ResolveUses fetches the raw definition a Uses reference points at.
// Local and Docker references never resolve remotely.
func (r *GitHubResolver) ResolveUses(ctx context.Context, u schema.Uses) (*FetchedDefinition, bool) {
	if u.Kind == schema.UsesLocal || u.Kind == schema.UsesDocker {
		return nil, false
	}
	path := "action.yml"
	if u.Subpath != "" {
		path = u.Subpath
	}
	content, _, resp, err := r.client.Repositories.GetContents(
		ctx, u.Owner, u.Repo, path, &github.RepositoryContentGetOptions{Ref: u.Ref},
	)
	if err != nil || resp == nil || resp.StatusCode != http.StatusOK || content == nil {
		return nil, false
	}
	text, err := content.GetContent()
	if err != nil {
		return nil, false
	}
	return &FetchedDefinition{
		Owner: u.Owner, Repo: u.Repo, Subpath: u.Subpath, Ref: u.Ref,
		RawText: []byte(text),
	}, true
}

// TagsFor lists a repository's tags with their commit SHAs.
func (r *GitHubResolver) TagsFor(ctx context.Context, owner, repo string) ([]TagRef, bool) {
	tags, _, err := r.client.Repositories.ListTags(ctx, owner, repo, &github.ListOptions{PerPage: 100})
	if err != nil {
		return nil, false
	}
	out := make([]TagRef, 0, len(tags))
	for _, t := range tags {
		if t.Name == nil || t.Commit == nil || t.Commit.SHA == nil {
			continue
		}
		out = append(out, TagRef{Name: *t.Name, SHA: *t.Commit.SHA})
	}
	return out, true
}

// BranchesFor lists a repository's branches with their head SHAs.
func (r *GitHubResolver) BranchesFor(ctx context.Context, owner, repo string) ([]BranchRef, bool) {
	branches, _, err := r.client.Repositories.ListBranches(ctx, owner, repo, &github.BranchListOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	})
	if err != nil {
		return nil, false
	}
	out := make([]BranchRef, 0, len(branches))
	for _, b := range branches {
		if b.Name == nil || b.Commit == nil || b.Commit.SHA == nil {
			continue
		}
		out = append(out, BranchRef{Name: *b.Name, SHA: *b.Commit.SHA})
	}
	return out, true
}

// CommitInRepo reports whether sha is reachable in owner/repo's own commit
// history (not just somewhere in its fork network) — the check
// impostor-commit depends on.
func (r *GitHubResolver) CommitInRepo(ctx context.Context, owner, repo, sha string) (bool, bool) {
	if len(sha) != shaLength || !isHexString(sha) {
		return false, true
	}
	_, resp, err := r.client.Git.GetCommit(ctx, owner, repo, sha)
	if err != nil {
		if isNotFoundError(err, resp) {
			return false, true
		}
		return false, false
	}
	return true, true
}

// AdvisoriesFor cross-references a repository slug against GitHub's global
// security advisory database.
func (r *GitHubResolver) AdvisoriesFor(ctx context.Context, slug string) []Advisory {
	parts := strings.SplitN(slug, "/", 2)
	if len(parts) != 2 {
		return nil
	}
	advisories, _, err := r.client.SecurityAdvisories.ListGlobalSecurityAdvisories(
		ctx, &github.ListGlobalSecurityAdvisoriesOptions{Affects: github.Ptr(slug)},
	)
	if err != nil {
		ghlog.Logger.Warn("advisory lookup failed", "slug", slug, "error", err)
		return nil
	}
	out := make([]Advisory, 0, len(advisories))
	for _, a := range advisories {
		adv := Advisory{Severity: a.GetSeverity(), Summary: a.GetSummary()}
		if a.GHSAID != nil {
			adv.ID = *a.GHSAID
		}
		out = append(out, adv)
	}
	return out
}

// LatestRef returns the most recent release tag (falling back to the most
// recent plain tag) and its commit SHA.
func (r *GitHubResolver) LatestRef(ctx context.Context, owner, repo string) (string, string, bool) {
	release, _, err := r.client.Repositories.GetLatestRelease(ctx, owner, repo)
	if err == nil && release != nil && release.TagName != nil {
		if sha, ok := r.resolveTagSHA(ctx, owner, repo, *release.TagName); ok {
			return *release.TagName, sha, true
		}
	}

	tags, _, err := r.client.Repositories.ListTags(ctx, owner, repo, &github.ListOptions{PerPage: 10})
	if err != nil || len(tags) == 0 {
		return "", "", false
	}
	latest := tags[0]
	if latest.Name == nil || latest.Commit == nil || latest.Commit.SHA == nil {
		return "", "", false
	}
	return *latest.Name, *latest.Commit.SHA, true
}

func (r *GitHubResolver) resolveTagSHA(ctx context.Context, owner, repo, tag string) (string, bool) {
	gitRef, resp, err := r.client.Git.GetRef(ctx, owner, repo, "refs/tags/"+tag)
	if err != nil || resp == nil || resp.StatusCode != http.StatusOK {
		return "", false
	}
	if gitRef == nil || gitRef.Object == nil || gitRef.Object.SHA == nil {
		return "", false
	}
	return *gitRef.Object.SHA, true
}

func isNotFoundError(err error, resp *github.Response) bool {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		return resp != nil && resp.StatusCode == http.StatusNotFound
	}
	return false
}

func isHexString(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
