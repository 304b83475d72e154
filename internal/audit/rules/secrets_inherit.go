package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema/workflow"
)

func init() { audit.Register(secretsInheritAudit{}) }

type secretsInheritAudit struct{}

func (secretsInheritAudit) ID() string       { return "secrets-inherit" }
func (secretsInheritAudit) Kind() audit.Kind { return audit.KindWorkflow }

// Check flags a reusable-workflow job call with secrets: inherit, which
// hands the entire caller's secret set to the callee instead of the
// specific secrets the callee actually declares.
func (secretsInheritAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	for _, job := range w.Jobs {
		if job.Uses == nil || !job.SecretsInherit {
			continue
		}
		findings = append(findings, audit.RawFinding{
			Description: "job " + job.ID + " passes secrets: inherit to " + job.Uses.Value.Slug() + ", exposing every caller secret to the callee",
			URL:         "https://docs.github.com/en/actions/sharing-automations/reusing-workflows#using-inputs-and-secrets-in-a-reusable-workflow",
			Severity:    audit.Low,
			Confidence:  audit.ConfidenceHigh,
			Persona:     audit.PersonaRegular,
			Locations:   []audit.SymbolicLocation{primary(c.Input.Key, job.Route)},
		})
	}
	return findings
}
