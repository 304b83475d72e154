package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema/workflow"
	"github.com/octoguard/octoguard/internal/yamlpath"
)

func init() { audit.Register(concurrencyLimitsAudit{}) }

type concurrencyLimitsAudit struct{}

func (concurrencyLimitsAudit) ID() string       { return "concurrency-limits" }
func (concurrencyLimitsAudit) Kind() audit.Kind { return audit.KindWorkflow }

// Check flags a workflow triggered on pull_request/pull_request_target
// that declares no top-level concurrency: group, letting an attacker queue
// unbounded concurrent runs by pushing many commits to the same PR (cost
// exhaustion rather than a direct code-execution risk).
func (concurrencyLimitsAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	if w.Concurrency != nil {
		return nil
	}
	if !w.HasTrigger("pull_request") && !w.HasTrigger("pull_request_target") {
		return nil
	}
	return []audit.RawFinding{{
		Description: "workflow triggers on pull requests but declares no concurrency: group to cancel superseded runs",
		Severity:    audit.Informational,
		Confidence:  audit.ConfidenceMedium,
		Persona:     audit.PersonaPedantic,
		Locations:   []audit.SymbolicLocation{primary(c.Input.Key, yamlpath.Route{})},
	}}
}
