package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/registry"
	"github.com/octoguard/octoguard/internal/schema/workflow"
)

func init() { audit.Register(refConfusionAudit{}) }

// refConfusionAudit is an online audit: GitHub resolves a "uses: owner/repo@ref"
// tag ref before a branch ref of the same name, so a repository that has
// both lets an attacker who can push branches (but not tags) shadow a
// legitimate tag by pushing a same-named branch, if the consumer's mental
// model assumed the tag always wins at fetch time on their fork.
type refConfusionAudit struct{}

func (refConfusionAudit) ID() string       { return "ref-confusion" }
func (refConfusionAudit) Kind() audit.Kind { return audit.KindWorkflow }

func (refConfusionAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	forEachUses(w, func(ref usesRef) {
		u := ref.uses
		if u.Ref == "" || u.PinnedToSHA() {
			return
		}
		tags, tagsKnown := c.Resolver.TagsFor(c.Ctx, u.Owner, u.Repo)
		branches, branchesKnown := c.Resolver.BranchesFor(c.Ctx, u.Owner, u.Repo)
		if !tagsKnown || !branchesKnown {
			return
		}
		if !hasRefName(tags, u.Ref) || !hasBranchName(branches, u.Ref) {
			return
		}
		findings = append(findings, audit.RawFinding{
			Description: u.Owner + "/" + u.Repo + "@" + u.Ref + " names both a tag and a branch; GitHub's resolution order is not guaranteed stable",
			URL:         "https://docs.unit42.paloaltonetworks.com/github-actions-worm-dependencies/",
			Severity:    audit.Medium,
			Confidence:  audit.ConfidenceMedium,
			Persona:     audit.PersonaRegular,
			Locations:   []audit.SymbolicLocation{primary(c.Input.Key, ref.route)},
		})
	})
	return findings
}

func hasRefName(tags []registry.TagRef, name string) bool {
	for _, t := range tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

func hasBranchName(branches []registry.BranchRef, name string) bool {
	for _, b := range branches {
		if b.Name == name {
			return true
		}
	}
	return false
}
