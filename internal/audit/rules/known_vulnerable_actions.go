package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema/workflow"
)

func init() { audit.Register(knownVulnerableActionsAudit{}) }

// knownVulnerableActionsAudit is an online audit: it cross-references every
// uses: against the resolver's advisory feed, flagging one finding per
// matched advisory.
type knownVulnerableActionsAudit struct{}

func (knownVulnerableActionsAudit) ID() string       { return "known-vulnerable-actions" }
func (knownVulnerableActionsAudit) Kind() audit.Kind { return audit.KindWorkflow }

func (knownVulnerableActionsAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	forEachUses(w, func(ref usesRef) {
		for _, adv := range c.Resolver.AdvisoriesFor(c.Ctx, ref.uses.Slug()) {
			findings = append(findings, audit.RawFinding{
				Description: ref.uses.Slug() + " is affected by " + adv.ID + ": " + adv.Summary,
				URL:         "https://github.com/advisories/" + adv.ID,
				Severity:    advisorySeverity(adv.Severity),
				Confidence:  audit.ConfidenceHigh,
				Persona:     audit.PersonaRegular,
				Locations:   []audit.SymbolicLocation{primary(c.Input.Key, ref.route)},
			})
		}
	})
	return findings
}

func advisorySeverity(s string) audit.Severity {
	switch s {
	case "critical", "high":
		return audit.High
	case "moderate", "medium":
		return audit.Medium
	case "low":
		return audit.Low
	default:
		return audit.Medium
	}
}
