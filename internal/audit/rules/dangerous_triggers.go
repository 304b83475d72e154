package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema/workflow"
)

func init() { audit.Register(dangerousTriggersAudit{}) }

type dangerousTriggersAudit struct{}

func (dangerousTriggersAudit) ID() string       { return "dangerous-triggers" }
func (dangerousTriggersAudit) Kind() audit.Kind { return audit.KindWorkflow }

// dangerousTriggerNames run with elevated privilege (pull_request_target)
// or a separate workflow_run context, both of which let untrusted code
// execute against write-scoped secrets if the workflow isn't careful about
// what it checks out.
var dangerousTriggerNames = map[string]bool{
	"pull_request_target": true,
	"workflow_run":        true,
}

func (dangerousTriggersAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding
	for _, t := range w.On {
		if !dangerousTriggerNames[t.Name] {
			continue
		}
		findings = append(findings, audit.RawFinding{
			Description: "workflow triggers on " + t.Name + ", which runs with access to secrets against untrusted input",
			URL:         "https://securitylab.github.com/resources/github-actions-preventing-pwn-requests/",
			Severity:    audit.Medium,
			Confidence:  audit.ConfidenceHigh,
			Persona:     audit.PersonaRegular,
			Locations:   []audit.SymbolicLocation{primary(c.Input.Key, t.Route)},
		})
	}
	return findings
}
