package rules

import (
	"strings"

	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema/workflow"
	"github.com/octoguard/octoguard/internal/yamlpath"
)

func init() { audit.Register(botConditionsAudit{}) }

// botActorNames are bot identities commonly used in if: gates to skip
// privileged steps for automated PRs; github.actor/github.triggering_actor
// are both strings an attacker fully controls when the trigger lets them
// supply a PR from a fork, so a gate keyed only on actor name is bypassable
// by renaming a bot-like account.
var botActorNames = []string{"dependabot[bot]", "renovate[bot]", "github-actions[bot]"}

type botConditionsAudit struct{}

func (botConditionsAudit) ID() string       { return "bot-conditions" }
func (botConditionsAudit) Kind() audit.Kind { return audit.KindWorkflow }

func (botConditionsAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	if !hasDangerousTrigger(w) {
		return nil
	}

	var findings []audit.RawFinding
	for _, job := range w.Jobs {
		if job.If != nil && conditionsOnBotActor(job.If.Value) {
			findings = append(findings, botConditionFinding(c, job.If.Route))
		}
		for _, step := range job.Steps {
			if step.If != nil && conditionsOnBotActor(step.If.Value) {
				findings = append(findings, botConditionFinding(c, step.If.Route))
			}
		}
	}
	return findings
}

func botConditionFinding(c audit.Context, route yamlpath.Route) audit.RawFinding {
	return audit.RawFinding{
		Description: "if: gates on github.actor/github.triggering_actor naming a bot account, which an attacker-controlled fork PR can spoof",
		URL:         "https://docs.github.com/en/actions/security-guides/security-hardening-for-github-actions#potential-impact-of-a-compromised-runner",
		Severity:    audit.Medium,
		Confidence:  audit.ConfidenceMedium,
		Persona:     audit.PersonaRegular,
		Locations:   []audit.SymbolicLocation{primary(c.Input.Key, route)},
	}
}

func conditionsOnBotActor(expr string) bool {
	if !strings.Contains(expr, "github.actor") && !strings.Contains(expr, "github.triggering_actor") {
		return false
	}
	for _, name := range botActorNames {
		if strings.Contains(expr, name) {
			return true
		}
	}
	return false
}
