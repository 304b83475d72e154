package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema/workflow"
	"github.com/octoguard/octoguard/internal/yamlpath"
)

func init() { audit.Register(anonymousDefinitionAudit{}) }

type anonymousDefinitionAudit struct{}

func (anonymousDefinitionAudit) ID() string       { return "anonymous-definition" }
func (anonymousDefinitionAudit) Kind() audit.Kind { return audit.KindWorkflow }

// Check flags a reusable workflow (one with an on: workflow_call trigger)
// that declares no top-level name:. The Actions UI renders every run of
// such a workflow only by its file path, so a caller three repos away has
// no human-readable label to tell one reusable workflow's runs apart from
// another's in their own run history.
func (anonymousDefinitionAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	if !w.HasTrigger("workflow_call") || w.Name != "" {
		return nil
	}
	return []audit.RawFinding{{
		Description: "reusable workflow declares no name:, so its runs show up unlabeled in a caller's run history",
		Severity:    audit.Informational,
		Confidence:  audit.ConfidenceMedium,
		Persona:     audit.PersonaPedantic,
		Locations:   []audit.SymbolicLocation{primary(c.Input.Key, yamlpath.Route{})},
	}}
}
