package rules

import (
	"strings"

	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema/workflow"
)

func init() { audit.Register(githubEnvAudit{}) }

type githubEnvAudit struct{}

func (githubEnvAudit) ID() string       { return "github-env" }
func (githubEnvAudit) Kind() audit.Kind { return audit.KindWorkflow }

// Check flags run: steps that append to $GITHUB_ENV or $GITHUB_PATH in a
// workflow that also carries a dangerous trigger (pull_request_target,
// workflow_run): a step earlier in the same job that derives the appended
// value from untrusted input can smuggle a variable into every later step,
// including ones the attacker never touches directly.
func (githubEnvAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	if !hasDangerousTrigger(w) {
		return nil
	}

	var findings []audit.RawFinding
	for _, job := range w.Jobs {
		for _, step := range job.Steps {
			if step.Run == nil {
				continue
			}
			target, ok := writesGithubEnvFile(step.Run.Value)
			if !ok {
				continue
			}
			findings = append(findings, audit.RawFinding{
				Description: "writes to " + target + " in a workflow triggered by " + dangerousTriggerName(w) + ", letting untrusted input persist into later steps' environment",
				URL:         "https://securitylab.github.com/resources/github-actions-preventing-pwn-requests/",
				Severity:    audit.Medium,
				Confidence:  audit.ConfidenceMedium,
				Persona:     audit.PersonaRegular,
				Locations:   []audit.SymbolicLocation{primary(c.Input.Key, step.Run.Route)},
			})
		}
	}
	return findings
}

func hasDangerousTrigger(w *workflow.Workflow) bool {
	for _, t := range w.On {
		if dangerousTriggerNames[t.Name] {
			return true
		}
	}
	return false
}

func dangerousTriggerName(w *workflow.Workflow) string {
	for _, t := range w.On {
		if dangerousTriggerNames[t.Name] {
			return t.Name
		}
	}
	return ""
}

func writesGithubEnvFile(run string) (string, bool) {
	switch {
	case strings.Contains(run, `>> "$GITHUB_ENV"`) || strings.Contains(run, `>>$GITHUB_ENV`) || strings.Contains(run, ">> $GITHUB_ENV"):
		return "$GITHUB_ENV", true
	case strings.Contains(run, `>> "$GITHUB_PATH"`) || strings.Contains(run, `>>$GITHUB_PATH`) || strings.Contains(run, ">> $GITHUB_PATH"):
		return "$GITHUB_PATH", true
	default:
		return "", false
	}
}
