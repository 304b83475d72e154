package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema"
	"github.com/octoguard/octoguard/internal/schema/action"
	"github.com/octoguard/octoguard/internal/schema/workflow"
)

func init() {
	audit.Register(unpinnedUsesAudit{})
	audit.Register(unpinnedUsesActionAudit{})
}

// defaultPinPolicy is the built-in policy applied absent an
// octoguard.yml override: hash-pin everywhere except the documented
// first-party orgs, which receive ref-pin (their release process and
// branch-protection are trusted to keep a moving tag honest).
var defaultPinPolicy = []PatternRule{
	{Pattern: "actions/*", Policy: PolicyRefPin},
	{Pattern: "github/*", Policy: PolicyRefPin},
	{Pattern: "*", Policy: PolicyHashPin},
}

// SetPinPolicy replaces the active pin policy, called once by config.Load
// with octoguard.yml's top-level pin-policy: list before a run starts. An
// empty rules slice restores the built-in default.
func SetPinPolicy(rules []PatternRule) {
	if len(rules) == 0 {
		rules = []PatternRule{
			{Pattern: "actions/*", Policy: PolicyRefPin},
			{Pattern: "github/*", Policy: PolicyRefPin},
			{Pattern: "*", Policy: PolicyHashPin},
		}
	}
	defaultPinPolicy = rules
}

type unpinnedUsesAudit struct{}

func (unpinnedUsesAudit) ID() string       { return "unpinned-uses" }
func (unpinnedUsesAudit) Kind() audit.Kind { return audit.KindWorkflow }

func (unpinnedUsesAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding
	forEachUses(w, func(ref usesRef) { findings = append(findings, unpinnedUsesFindings(c, ref)...) })
	return findings
}

// unpinnedUsesActionAudit is unpinned-uses' composite-action counterpart:
// a composite action's steps carry their own "uses:" sites, invisible to
// the workflow-level audit above because action.yml is decoded and
// audited as its own document, never inlined into the calling workflow.
type unpinnedUsesActionAudit struct{}

func (unpinnedUsesActionAudit) ID() string       { return "unpinned-uses" }
func (unpinnedUsesActionAudit) Kind() audit.Kind { return audit.KindAction }

func (unpinnedUsesActionAudit) Check(c audit.Context) []audit.RawFinding {
	a := c.Decoded.(*action.Action)
	var findings []audit.RawFinding
	forEachActionUses(a, func(ref usesRef) { findings = append(findings, unpinnedUsesFindings(c, ref)...) })
	return findings
}

func unpinnedUsesFindings(c audit.Context, ref usesRef) []audit.RawFinding {
	u := ref.uses
	if u.Kind != schema.UsesRepository && u.Kind != schema.UsesReusableWorkflow {
		return nil
	}
	policy, _ := MatchPolicy(defaultPinPolicy, u.Owner, u.Repo, u.Subpath, u.Ref)

	switch {
	case u.Unpinned():
		return []audit.RawFinding{{
			Description: u.Slug() + " carries no ref at all, resolving to whatever the default branch points to at run time",
			Severity:    audit.High,
			Confidence:  audit.ConfidenceHigh,
			Persona:     audit.PersonaRegular,
			Locations:   []audit.SymbolicLocation{primary(c.Input.Key, ref.route)},
		}}
	case policy == PolicyHashPin && !u.PinnedToSHA():
		return []audit.RawFinding{{
			Description: u.Slug() + "@" + u.Ref + " is pinned to a mutable ref; policy requires a commit SHA",
			URL:         "https://docs.github.com/en/actions/security-guides/security-hardening-for-github-actions#using-third-party-actions",
			Severity:    audit.Medium,
			Confidence:  audit.ConfidenceHigh,
			Persona:     audit.PersonaRegular,
			Locations:   []audit.SymbolicLocation{primary(c.Input.Key, ref.route)},
		}}
	}
	return nil
}
