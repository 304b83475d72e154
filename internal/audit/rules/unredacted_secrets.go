package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/expr"
	"github.com/octoguard/octoguard/internal/schema/workflow"
	"github.com/octoguard/octoguard/internal/yamlpath"
)

func init() { audit.Register(unredactedSecretsAudit{}) }

type unredactedSecretsAudit struct{}

func (unredactedSecretsAudit) ID() string       { return "unredacted-secrets" }
func (unredactedSecretsAudit) Kind() audit.Kind { return audit.KindWorkflow }

// Check flags fromJSON(secrets.X).field: the runner only knows to redact
// the literal string value of secrets.X in logs, not any sub-field reached
// after parsing it as JSON, so that sub-field's value can leak in plain
// text.
func (unredactedSecretsAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	walkExpressions(w, func(body string, route yamlpath.Route) {
		node, err := expr.Parse(body)
		if err != nil {
			return
		}
		if !unredactsSecretField(node) {
			return
		}
		findings = append(findings, audit.RawFinding{
			Description: "expression ${{ " + body + " }} reads a sub-field of fromJSON(secrets.X); the runner cannot redact it from logs",
			URL:         "https://docs.github.com/en/actions/security-guides/security-hardening-for-github-actions#using-secrets",
			Severity:    audit.Medium,
			Confidence:  audit.ConfidenceMedium,
			Persona:     audit.PersonaRegular,
			Locations:   []audit.SymbolicLocation{primary(c.Input.Key, route)},
		})
	})
	return findings
}

// unredactsSecretField reports whether n is (or contains) a Member access
// on a fromJSON(secrets.*) call result.
func unredactsSecretField(n expr.Node) bool {
	found := false
	var walk func(expr.Node)
	walk = func(node expr.Node) {
		if node == nil || found {
			return
		}
		if m, ok := node.(*expr.Member); ok {
			if call, ok := m.Target.(*expr.Call); ok && call.Name == "fromJSON" && len(call.Args) == 1 {
				if path := expr.NormalizePath(call.Args[0]); len(path) > 0 && path[0] == "secrets" {
					found = true
					return
				}
			}
			walk(m.Target)
			return
		}
		switch v := node.(type) {
		case *expr.Call:
			for _, a := range v.Args {
				walk(a)
			}
		case *expr.Index:
			walk(v.Target)
			walk(v.Key)
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
