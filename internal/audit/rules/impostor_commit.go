package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema/workflow"
)

func init() { audit.Register(impostorCommitAudit{}) }

// impostorCommitAudit is an online audit: it flags uses: references pinned
// to a 40-hex commit SHA that does not actually belong to the referenced
// repository, the telltale sign of a forged-commit supply-chain attack
// (the action's ref: changes what code a victim fetches after the fact
// while the visible SHA appears pinned).
type impostorCommitAudit struct{}

func (impostorCommitAudit) ID() string       { return "impostor-commit" }
func (impostorCommitAudit) Kind() audit.Kind { return audit.KindWorkflow }

func (impostorCommitAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	forEachUses(w, func(ref usesRef) {
		u := ref.uses
		if !u.PinnedToSHA() {
			return
		}
		inRepo, known := c.Resolver.CommitInRepo(c.Ctx, u.Owner, u.Repo, u.Ref)
		if !known || inRepo {
			return
		}
		findings = append(findings, audit.RawFinding{
			Description: u.Owner + "/" + u.Repo + "@" + u.Ref + " is not a commit reachable from that repository",
			URL:         "https://www.chainguard.dev/unchained/what-the-fork-imposter-commits-in-github-actions-and-ci-cd",
			Severity:    audit.High,
			Confidence:  audit.ConfidenceHigh,
			Persona:     audit.PersonaRegular,
			Locations:   []audit.SymbolicLocation{primary(c.Input.Key, ref.route)},
		})
	})
	return findings
}
