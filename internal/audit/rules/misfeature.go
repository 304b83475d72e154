package rules

import (
	"regexp"

	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema/workflow"
)

func init() { audit.Register(misfeatureAudit{}) }

// deprecatedWorkflowCommandPattern matches the ::set-output and ::save-state
// workflow commands GitHub deprecated in favor of the GITHUB_OUTPUT and
// GITHUB_STATE environment files, after a 2022 advisory showed untrusted
// step output could forge further commands through them.
var deprecatedWorkflowCommandPattern = regexp.MustCompile(`(?m)^\s*echo\s+["']?::(set-output|save-state)\b`)

type misfeatureAudit struct{}

func (misfeatureAudit) ID() string       { return "misfeature" }
func (misfeatureAudit) Kind() audit.Kind { return audit.KindWorkflow }

func (misfeatureAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	for _, job := range w.Jobs {
		for _, step := range job.Steps {
			if step.Run == nil {
				continue
			}
			m := deprecatedWorkflowCommandPattern.FindStringSubmatch(step.Run.Value)
			if m == nil {
				continue
			}
			findings = append(findings, audit.RawFinding{
				Description: "uses the deprecated ::" + m[1] + " workflow command; write to $GITHUB_OUTPUT / $GITHUB_STATE instead",
				URL:         "https://github.blog/changelog/2022-10-11-github-actions-deprecating-save-state-and-set-output-commands/",
				Severity:    audit.Low,
				Confidence:  audit.ConfidenceMedium,
				Persona:     audit.PersonaRegular,
				Locations:   []audit.SymbolicLocation{primary(c.Input.Key, step.Run.Route)},
			})
		}
	}
	return findings
}
