package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/expr"
	"github.com/octoguard/octoguard/internal/schema/workflow"
	"github.com/octoguard/octoguard/internal/yamlpath"
)

func init() { audit.Register(obfuscationAudit{}) }

type obfuscationAudit struct{}

func (obfuscationAudit) ID() string       { return "obfuscation" }
func (obfuscationAudit) Kind() audit.Kind { return audit.KindWorkflow }

func (obfuscationAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	walkExpressions(w, func(body string, route yamlpath.Route) {
		node, err := expr.Parse(body)
		if err != nil {
			return
		}
		for _, o := range expr.DetectObfuscation(node) {
			findings = append(findings, audit.RawFinding{
				Description: "expression ${{ " + body + " }} " + obfuscationDescription(o.Kind),
				Severity:    audit.Low,
				Confidence:  audit.ConfidenceMedium,
				Persona:     audit.PersonaPedantic,
				Locations:   []audit.SymbolicLocation{primary(c.Input.Key, route)},
			})
		}
	})
	return findings
}

func obfuscationDescription(k expr.ObfuscationKind) string {
	switch k {
	case expr.ObfuscationRoundTripJSON:
		return "round-trips a value through toJSON/fromJSON for no decodable reason, a pattern used to defeat simple pattern-matching review"
	case expr.ObfuscationConstantFormat:
		return "uses format() to assemble an otherwise-constant string, obscuring its value from a quick read"
	case expr.ObfuscationComputedIndex:
		return "indexes a context with a computed key instead of a literal, obscuring which value is actually read"
	case expr.ObfuscationRedundantPath:
		return "contains a redundant path segment that serves no purpose but to obscure the literal value"
	default:
		return "matches a known obfuscation pattern"
	}
}
