package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema"
	"github.com/octoguard/octoguard/internal/schema/workflow"
)

func init() { audit.Register(superfluousActionsAudit{}) }

// superfluousActionsAudit flags a job that invokes the same action (by
// owner/repo, ignoring ref and subpath) more than once: usually a
// copy-pasted step nobody pruned, since the action's side effects (like
// actions/checkout laying down the worktree) don't compose by repetition.
type superfluousActionsAudit struct{}

func (superfluousActionsAudit) ID() string       { return "superfluous-actions" }
func (superfluousActionsAudit) Kind() audit.Kind { return audit.KindWorkflow }

func (superfluousActionsAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	for _, job := range w.Jobs {
		seen := make(map[string]bool)
		for _, step := range job.Steps {
			if step.Uses == nil {
				continue
			}
			u := step.Uses.Value
			if u.Kind != schema.UsesRepository {
				continue
			}
			if seen[u.Slug()] {
				findings = append(findings, audit.RawFinding{
					Description: u.Slug() + " is invoked more than once in job " + job.ID,
					Severity:    audit.Informational,
					Confidence:  audit.ConfidenceLow,
					Persona:     audit.PersonaPedantic,
					Locations:   []audit.SymbolicLocation{primary(c.Input.Key, step.Uses.Route)},
				})
				continue
			}
			seen[u.Slug()] = true
		}
	}
	return findings
}
