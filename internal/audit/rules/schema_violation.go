package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema"
)

func init() { audit.Register(schemaViolationAudit{}) }

// schemaViolationAudit is the advisory companion to the typed workflow
// decoder: a workflow can decode cleanly into workflow.Workflow (every
// field octoguard's own audits care about) while still missing a
// GitHub-required shape the typed decoder doesn't itself enforce, e.g. a
// job with neither runs-on: nor a reusable uses:. These never block an
// audit run and always report at the lowest severity/confidence and
// pedantic persona, since a shape octoguard's own decoder already
// tolerates is, by construction, not something any other audit here acts
// on.
type schemaViolationAudit struct{}

func (schemaViolationAudit) ID() string       { return "schema-violation" }
func (schemaViolationAudit) Kind() audit.Kind { return audit.KindWorkflow }

func (schemaViolationAudit) Check(c audit.Context) []audit.RawFinding {
	violations, err := schema.ValidateAgainstGitHubSchema(schema.GitHubWorkflowSchema, c.Input.Text)
	if err != nil {
		return nil
	}

	findings := make([]audit.RawFinding, 0, len(violations))
	for _, v := range violations {
		desc := "workflow does not match GitHub's published schema: " + v.Message
		if v.Pointer != "" {
			desc = "at " + v.Pointer + ": " + desc
		}
		findings = append(findings, audit.RawFinding{
			Description: desc,
			Severity:    audit.Informational,
			Confidence:  audit.ConfidenceLow,
			Persona:     audit.PersonaPedantic,
			Locations:   []audit.SymbolicLocation{primary(c.Input.Key, nil)},
		})
	}
	return findings
}
