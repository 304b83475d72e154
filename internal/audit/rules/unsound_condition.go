package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/expr"
	"github.com/octoguard/octoguard/internal/schema/action"
	"github.com/octoguard/octoguard/internal/schema/workflow"
	"github.com/octoguard/octoguard/internal/yamlpath"
)

func init() {
	audit.Register(unsoundConditionAudit{})
	audit.Register(unsoundConditionActionAudit{})
}

type unsoundConditionAudit struct{}

func (unsoundConditionAudit) ID() string       { return "unsound-condition" }
func (unsoundConditionAudit) Kind() audit.Kind { return audit.KindWorkflow }

// Check flags job/step if: values that always evaluate truthy regardless
// of runtime state, a common mistake when a condition is written as a bare
// string instead of a ${{ }}-wrapped comparison.
func (unsoundConditionAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	for _, job := range w.Jobs {
		if job.If != nil && expr.IsUnsoundCondition(job.If.Value) {
			findings = append(findings, unsoundConditionFinding(c, job.If.Value, job.If.Route))
		}
		for _, step := range job.Steps {
			if step.If != nil && expr.IsUnsoundCondition(step.If.Value) {
				findings = append(findings, unsoundConditionFinding(c, step.If.Value, step.If.Route))
			}
		}
	}
	return findings
}

// unsoundConditionActionAudit covers a composite step's own if:, the only
// conditional a composite action carries (there is no job-level if: since
// action.yml has no concept of a job).
type unsoundConditionActionAudit struct{}

func (unsoundConditionActionAudit) ID() string       { return "unsound-condition" }
func (unsoundConditionActionAudit) Kind() audit.Kind { return audit.KindAction }

func (unsoundConditionActionAudit) Check(c audit.Context) []audit.RawFinding {
	a := c.Decoded.(*action.Action)
	var findings []audit.RawFinding
	for _, step := range a.Steps {
		if step.If != nil && expr.IsUnsoundCondition(step.If.Value) {
			findings = append(findings, unsoundConditionFinding(c, step.If.Value, step.If.Route))
		}
	}
	return findings
}

func unsoundConditionFinding(c audit.Context, value string, route yamlpath.Route) audit.RawFinding {
	return audit.RawFinding{
		Description: "if: \"" + value + "\" always evaluates truthy, regardless of runtime state",
		URL:         "https://docs.github.com/en/actions/writing-workflows/choosing-when-your-workflow-runs/using-conditions-to-control-job-execution",
		Severity:    audit.Low,
		Confidence:  audit.ConfidenceHigh,
		Persona:     audit.PersonaRegular,
		Locations:   []audit.SymbolicLocation{primary(c.Input.Key, route)},
	}
}
