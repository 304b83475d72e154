package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema/dependabot"
)

func init() { audit.Register(dependabotCooldownAudit{}) }

type dependabotCooldownAudit struct{}

func (dependabotCooldownAudit) ID() string       { return "dependabot-cooldown" }
func (dependabotCooldownAudit) Kind() audit.Kind { return audit.KindDependabot }

// Check flags an update entry with no cooldown: block on an ecosystem that
// supports it: a freshly published release has had no time for the
// community to notice a compromised or malicious version before Dependabot
// proposes bumping to it.
func (dependabotCooldownAudit) Check(c audit.Context) []audit.RawFinding {
	cfg := c.Decoded.(*dependabot.Config)
	var findings []audit.RawFinding

	for _, u := range cfg.Updates {
		if !dependabot.CooldownCapableEcosystems[u.PackageEcosystem] {
			continue
		}
		if u.Cooldown != nil {
			continue
		}
		findings = append(findings, audit.RawFinding{
			Description: u.PackageEcosystem + " update entry has no cooldown: block, so freshly published releases are proposed immediately",
			URL:         "https://docs.github.com/en/code-security/dependabot/dependabot-version-updates/reducing-the-risk-of-malicious-updates",
			Severity:    audit.Low,
			Confidence:  audit.ConfidenceMedium,
			Persona:     audit.PersonaRegular,
			Locations:   []audit.SymbolicLocation{primary(c.Input.Key, u.Route)},
		})
	}
	return findings
}
