package rules

import (
	"regexp"

	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema"
	"github.com/octoguard/octoguard/internal/schema/workflow"
)

func init() { audit.Register(useTrustedPublishingAudit{}) }

type publishPattern struct {
	tool string
	re   *regexp.Regexp
}

// publishPatterns match run: invocations of package-manager publish
// commands that accept a manual API-token credential, each of which has a
// registry-native OIDC trusted-publisher alternative that needs no
// long-lived secret at all.
var publishPatterns = []publishPattern{
	{"twine", regexp.MustCompile(`\btwine\s+upload\b`)},
	{"uv publish", regexp.MustCompile(`\buv\s+publish\b`)},
	{"poetry publish", regexp.MustCompile(`\bpoetry\s+publish\b`)},
	{"cargo publish", regexp.MustCompile(`\bcargo\s+publish\b`)},
	{"gem push", regexp.MustCompile(`\bgem\s+push\b`)},
	{"dotnet nuget push", regexp.MustCompile(`\bdotnet\s+nuget\s+push\b`)},
	{"npm publish", regexp.MustCompile(`\bnpm\s+publish\b`)},
}

// manualTokenEnvPattern recognizes an env var name suggesting a manually
// supplied publishing credential (PYPI_TOKEN, NPM_TOKEN, etc.) rather than
// an OIDC-issued short-lived one.
var manualTokenEnvPattern = regexp.MustCompile(`(?i)(TOKEN|API_KEY|PASSWORD)$`)

func (useTrustedPublishingAudit) ID() string       { return "use-trusted-publishing" }
func (useTrustedPublishingAudit) Kind() audit.Kind { return audit.KindWorkflow }

type useTrustedPublishingAudit struct{}

func (useTrustedPublishingAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	for _, job := range w.Jobs {
		for _, step := range job.Steps {
			if step.Run == nil {
				continue
			}
			tool, ok := matchesPublishPattern(step.Run.Value)
			if !ok {
				continue
			}
			if !hasManualTokenEnv(step.Env) && !hasManualTokenEnv(job.Env) {
				continue
			}
			findings = append(findings, audit.RawFinding{
				Description: "publishes with " + tool + " using a manually supplied token instead of OIDC trusted publishing",
				URL:         "https://docs.pypi.org/trusted-publishers/",
				Severity:    audit.Low,
				Confidence:  audit.ConfidenceMedium,
				Persona:     audit.PersonaRegular,
				Locations:   []audit.SymbolicLocation{primary(c.Input.Key, step.Run.Route)},
			})
		}
	}
	return findings
}

func matchesPublishPattern(run string) (string, bool) {
	for _, p := range publishPatterns {
		if p.re.MatchString(run) {
			return p.tool, true
		}
	}
	return "", false
}

func hasManualTokenEnv(env map[string]schema.Spanned[string]) bool {
	for name := range env {
		if manualTokenEnvPattern.MatchString(name) {
			return true
		}
	}
	return false
}
