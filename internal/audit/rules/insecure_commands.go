package rules

import (
	"strings"

	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema/action"
	"github.com/octoguard/octoguard/internal/schema/workflow"
	"github.com/octoguard/octoguard/internal/yamlpath"
)

func init() {
	audit.Register(insecureCommandsAudit{})
	audit.Register(insecureCommandsActionAudit{})
}

type insecureCommandsAudit struct{}

func (insecureCommandsAudit) ID() string       { return "insecure-commands" }
func (insecureCommandsAudit) Kind() audit.Kind { return audit.KindWorkflow }

// Check flags ACTIONS_ALLOW_UNSECURE_COMMANDS: true wherever it is set:
// workflow env, job env, or step env. GitHub disabled the ::set-env::/
// ::add-path:: workflow commands by default after a command-injection
// advisory; this opt-back-in reopens that hole.
func (insecureCommandsAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	if v, ok := w.Env["ACTIONS_ALLOW_UNSECURE_COMMANDS"]; ok && strings.EqualFold(v.Value, "true") {
		findings = append(findings, insecureCommandsFinding(c, v.Route))
	}
	for _, job := range w.Jobs {
		if v, ok := job.Env["ACTIONS_ALLOW_UNSECURE_COMMANDS"]; ok && strings.EqualFold(v.Value, "true") {
			findings = append(findings, insecureCommandsFinding(c, v.Route))
		}
		for _, step := range job.Steps {
			if v, ok := step.Env["ACTIONS_ALLOW_UNSECURE_COMMANDS"]; ok && strings.EqualFold(v.Value, "true") {
				findings = append(findings, insecureCommandsFinding(c, v.Route))
			}
		}
	}
	return findings
}

// insecureCommandsActionAudit covers a composite step's own env: block, the
// only place the opt-back-in variable can appear in an action.yml.
type insecureCommandsActionAudit struct{}

func (insecureCommandsActionAudit) ID() string       { return "insecure-commands" }
func (insecureCommandsActionAudit) Kind() audit.Kind { return audit.KindAction }

func (insecureCommandsActionAudit) Check(c audit.Context) []audit.RawFinding {
	a := c.Decoded.(*action.Action)
	var findings []audit.RawFinding
	for _, step := range a.Steps {
		if v, ok := step.Env["ACTIONS_ALLOW_UNSECURE_COMMANDS"]; ok && strings.EqualFold(v.Value, "true") {
			findings = append(findings, insecureCommandsFinding(c, v.Route))
		}
	}
	return findings
}

func insecureCommandsFinding(c audit.Context, route yamlpath.Route) audit.RawFinding {
	return audit.RawFinding{
		Description: "ACTIONS_ALLOW_UNSECURE_COMMANDS: true re-enables the deprecated, command-injection-prone ::set-env::/::add-path:: workflow commands",
		URL:         "https://github.blog/changelog/2020-10-01-github-actions-deprecating-set-env-and-add-path-commands/",
		Severity:    audit.High,
		Confidence:  audit.ConfidenceHigh,
		Persona:     audit.PersonaRegular,
		Locations:   []audit.SymbolicLocation{primary(c.Input.Key, route)},
	}
}
