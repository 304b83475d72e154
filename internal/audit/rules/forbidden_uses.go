package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema/workflow"
)

func init() { audit.Register(forbiddenUsesAudit{}) }

// ForbiddenUsesPolicy is populated from octoguard.yml before a run; left
// empty the audit produces no findings (opt-in).
var ForbiddenUsesPolicy []PatternRule

type forbiddenUsesAudit struct{}

func (forbiddenUsesAudit) ID() string       { return "forbidden-uses" }
func (forbiddenUsesAudit) Kind() audit.Kind { return audit.KindWorkflow }

// Check applies the configured allow/deny pattern list (same grammar as
// unpinned-uses's pin policy) against every uses: reference, flagging any
// match whose policy is "deny".
func (forbiddenUsesAudit) Check(c audit.Context) []audit.RawFinding {
	if len(ForbiddenUsesPolicy) == 0 {
		return nil
	}
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	forEachUses(w, func(ref usesRef) {
		u := ref.uses
		policy, ok := MatchPolicy(ForbiddenUsesPolicy, u.Owner, u.Repo, u.Subpath, u.Ref)
		if !ok || policy != PolicyDeny {
			return
		}
		findings = append(findings, audit.RawFinding{
			Description: u.Slug() + " matches a forbidden uses: pattern",
			Severity:    audit.High,
			Confidence:  audit.ConfidenceHigh,
			Persona:     audit.PersonaRegular,
			Locations:   []audit.SymbolicLocation{primary(c.Input.Key, ref.route)},
		})
	})
	return findings
}
