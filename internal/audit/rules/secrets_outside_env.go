package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/expr"
	"github.com/octoguard/octoguard/internal/schema/workflow"
)

func init() { audit.Register(secretsOutsideEnvAudit{}) }

// secretsOutsideEnvAudit flags a run: script that interpolates
// ${{ secrets.* }} directly rather than through an env: entry: the literal
// secret value is substituted straight into the script text GitHub Actions
// generates, so it appears verbatim in the step's temporary script file and
// in any tracing of the runner's process arguments, instead of only
// existing as an environment variable's value.
type secretsOutsideEnvAudit struct{}

func (secretsOutsideEnvAudit) ID() string       { return "secrets-outside-env" }
func (secretsOutsideEnvAudit) Kind() audit.Kind { return audit.KindWorkflow }

func (secretsOutsideEnvAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	for _, job := range w.Jobs {
		for _, step := range job.Steps {
			if step.Run == nil {
				continue
			}
			found := false
			for _, span := range scanExpressionSpans(step.Run.Value) {
				if referencesSecrets(span.body) {
					found = true
					break
				}
			}
			if !found {
				continue
			}
			findings = append(findings, audit.RawFinding{
				Description: "run: interpolates a secret directly; assign it to env: first and reference the environment variable instead",
				Severity:    audit.Low,
				Confidence:  audit.ConfidenceMedium,
				Persona:     audit.PersonaRegular,
				Locations:   []audit.SymbolicLocation{primary(c.Input.Key, step.Run.Route)},
			})
		}
	}
	return findings
}

func referencesSecrets(body string) bool {
	node, err := expr.Parse(body)
	if err != nil {
		return false
	}
	path := expr.NormalizePath(node)
	return len(path) > 0 && path[0] == "secrets"
}
