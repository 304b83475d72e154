package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/registry"
	"github.com/octoguard/octoguard/internal/schema/workflow"
)

func init() { audit.Register(staleActionRefsAudit{}) }

// staleActionRefsAudit is an online audit: a uses: pinned to a commit SHA
// that no longer corresponds to any branch or tag head (the history was
// rewritten, or the SHA was a one-off release candidate) can no longer be
// verified against the action's current source at all.
type staleActionRefsAudit struct{}

func (staleActionRefsAudit) ID() string       { return "stale-action-refs" }
func (staleActionRefsAudit) Kind() audit.Kind { return audit.KindWorkflow }

func (staleActionRefsAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	forEachUses(w, func(ref usesRef) {
		u := ref.uses
		if !u.PinnedToSHA() {
			return
		}
		tags, tagsKnown := c.Resolver.TagsFor(c.Ctx, u.Owner, u.Repo)
		branches, branchesKnown := c.Resolver.BranchesFor(c.Ctx, u.Owner, u.Repo)
		if !tagsKnown || !branchesKnown {
			return
		}
		if shaIsLiveHead(tags, branches, u.Ref) {
			return
		}
		findings = append(findings, audit.RawFinding{
			Description: u.Owner + "/" + u.Repo + "@" + u.Ref + " is not the current head of any tag or branch",
			Severity:    audit.Low,
			Confidence:  audit.ConfidenceLow,
			Persona:     audit.PersonaPedantic,
			Locations:   []audit.SymbolicLocation{primary(c.Input.Key, ref.route)},
		})
	})
	return findings
}

func shaIsLiveHead(tags []registry.TagRef, branches []registry.BranchRef, sha string) bool {
	for _, t := range tags {
		if t.SHA == sha {
			return true
		}
	}
	for _, b := range branches {
		if b.SHA == sha {
			return true
		}
	}
	return false
}
