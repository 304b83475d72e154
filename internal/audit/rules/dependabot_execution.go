package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema/dependabot"
)

func init() { audit.Register(dependabotExecutionAudit{}) }

// dependabotExecutionAudit flags a github-actions ecosystem entry in
// dependabot.yml: Dependabot's own update PRs for GitHub Actions are
// themselves workflow-modifying automation, so this repository's other
// audits should also run against Dependabot's proposed changes rather than
// assuming only human-authored PRs touch workflow files.
type dependabotExecutionAudit struct{}

func (dependabotExecutionAudit) ID() string       { return "dependabot-execution" }
func (dependabotExecutionAudit) Kind() audit.Kind { return audit.KindDependabot }

func (dependabotExecutionAudit) Check(c audit.Context) []audit.RawFinding {
	cfg := c.Decoded.(*dependabot.Config)
	var findings []audit.RawFinding

	for _, u := range cfg.Updates {
		if u.PackageEcosystem != "github-actions" {
			continue
		}
		findings = append(findings, audit.RawFinding{
			Description: "dependabot.yml tracks the github-actions ecosystem; its update PRs modify workflow files and deserve the same scrutiny as human-authored ones",
			Severity:    audit.Informational,
			Confidence:  audit.ConfidenceHigh,
			Persona:     audit.PersonaPedantic,
			Locations:   []audit.SymbolicLocation{primary(c.Input.Key, u.Route)},
		})
	}
	return findings
}
