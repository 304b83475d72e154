package rules

import (
	"strings"

	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema/workflow"
	"github.com/octoguard/octoguard/internal/yamlmodel"
)

func init() { audit.Register(selfHostedRunnerAudit{}) }

// standardRunnerLabels are GitHub-hosted runner labels; anything outside
// this set (and "self-hosted" itself) is assumed to be a self-hosted label.
var standardRunnerLabels = map[string]bool{
	"ubuntu-latest": true, "ubuntu-24.04": true, "ubuntu-22.04": true, "ubuntu-20.04": true,
	"windows-latest": true, "windows-2025": true, "windows-2022": true, "windows-2019": true,
	"macos-latest": true, "macos-15": true, "macos-14": true, "macos-13": true, "macos-12": true,
	"ubuntu-latest-4-cores": true, "ubuntu-latest-8-cores": true, "ubuntu-latest-16-cores": true,
}

type selfHostedRunnerAudit struct{}

func (selfHostedRunnerAudit) ID() string       { return "self-hosted-runner" }
func (selfHostedRunnerAudit) Kind() audit.Kind { return audit.KindWorkflow }

// Check flags runs-on: values naming "self-hosted" or a label outside the
// known GitHub-hosted set. Gated to pedantic/auditor personas: self-hosted
// runners are routine in many organizations, so flagging them at the
// default persona would be noisy.
func (selfHostedRunnerAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	for _, job := range w.Jobs {
		label, ok := selfHostedLabel(job.RunsOn)
		if !ok {
			continue
		}
		findings = append(findings, audit.RawFinding{
			Description: "job " + job.ID + " runs on self-hosted runner label " + label,
			URL:         "https://docs.github.com/en/actions/hosting-your-own-runners/managing-self-hosted-runners/security-hardening-for-self-hosted-runners",
			Severity:    audit.Informational,
			Confidence:  audit.ConfidenceMedium,
			Persona:     audit.PersonaPedantic,
			Locations:   []audit.SymbolicLocation{primary(c.Input.Key, job.Route)},
		})
	}
	return findings
}

func selfHostedLabel(n *yamlmodel.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	var labels []string
	switch n.Kind {
	case yamlmodel.KindScalar:
		labels = []string{n.ScalarValue}
	case yamlmodel.KindSequence:
		for _, item := range n.Items {
			if item.Kind == yamlmodel.KindScalar {
				labels = append(labels, item.ScalarValue)
			}
		}
	default:
		return "", false
	}
	for _, l := range labels {
		if strings.EqualFold(l, "self-hosted") {
			return l, true
		}
		if !standardRunnerLabels[l] && !strings.Contains(l, "${{") {
			return l, true
		}
	}
	return "", false
}
