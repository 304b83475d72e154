package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/expr"
	"github.com/octoguard/octoguard/internal/schema/workflow"
	"github.com/octoguard/octoguard/internal/yamlpath"
)

func init() { audit.Register(overprovisionedSecretsAudit{}) }

type overprovisionedSecretsAudit struct{}

func (overprovisionedSecretsAudit) ID() string       { return "overprovisioned-secrets" }
func (overprovisionedSecretsAudit) Kind() audit.Kind { return audit.KindWorkflow }

// Check flags any expression taking toJSON(secrets) or indexing
// secrets[...] with a non-literal key: both expose the full secret set to
// whatever step evaluates the expression, rather than the one secret the
// step actually needs.
func (overprovisionedSecretsAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	walkExpressions(w, func(body string, route yamlpath.Route) {
		node, err := expr.Parse(body)
		if err != nil {
			return
		}
		if overprovisionsSecrets(node) {
			findings = append(findings, audit.RawFinding{
				Description: "expression ${{ " + body + " }} exposes the entire secrets context instead of one named secret",
				URL:         "https://docs.github.com/en/actions/security-guides/security-hardening-for-github-actions#using-secrets",
				Severity:    audit.Medium,
				Confidence:  audit.ConfidenceMedium,
				Persona:     audit.PersonaRegular,
				Locations:   []audit.SymbolicLocation{primary(c.Input.Key, route)},
			})
		}
	})
	return findings
}

func overprovisionsSecrets(n expr.Node) bool {
	found := false
	var walk func(expr.Node)
	walk = func(node expr.Node) {
		if node == nil || found {
			return
		}
		switch v := node.(type) {
		case *expr.Call:
			if v.Name == "toJSON" && len(v.Args) == 1 {
				if path := expr.NormalizePath(v.Args[0]); len(path) == 1 && path[0] == "secrets" {
					found = true
					return
				}
			}
			for _, a := range v.Args {
				walk(a)
			}
		case *expr.Index:
			if path := expr.NormalizePath(v.Target); len(path) == 1 && path[0] == "secrets" {
				if _, ok := v.Key.(*expr.StringLit); !ok {
					found = true
					return
				}
			}
			walk(v.Target)
			walk(v.Key)
		case *expr.Member:
			walk(v.Target)
		case *expr.Unary:
			walk(v.Operand)
		case *expr.Binary:
			walk(v.Left)
			walk(v.Right)
		case *expr.Splat:
			walk(v.Target)
		}
	}
	walk(n)
	return found
}
