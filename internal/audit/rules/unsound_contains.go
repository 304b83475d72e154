package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/expr"
	"github.com/octoguard/octoguard/internal/schema/action"
	"github.com/octoguard/octoguard/internal/schema/workflow"
	"github.com/octoguard/octoguard/internal/yamlpath"
)

func init() {
	audit.Register(unsoundContainsAudit{})
	audit.Register(unsoundContainsActionAudit{})
}

type unsoundContainsAudit struct{}

func (unsoundContainsAudit) ID() string       { return "unsound-contains" }
func (unsoundContainsAudit) Kind() audit.Kind { return audit.KindWorkflow }

// Check flags contains(<string literal>, x) calls: GitHub's contains()
// treats a string first argument as a substring haystack, so
// contains('refs/heads/release', branch) is true for branch="elea" as much
// as "release", which is rarely the intended check.
func (unsoundContainsAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding
	walkExpressions(w, func(body string, route yamlpath.Route) {
		findings = append(findings, unsoundContainsFindings(c, body, route)...)
	})
	return findings
}

// unsoundContainsActionAudit covers the same contains() misuse inside a
// composite action's run:/if:/with:/env: expressions.
type unsoundContainsActionAudit struct{}

func (unsoundContainsActionAudit) ID() string       { return "unsound-contains" }
func (unsoundContainsActionAudit) Kind() audit.Kind { return audit.KindAction }

func (unsoundContainsActionAudit) Check(c audit.Context) []audit.RawFinding {
	a := c.Decoded.(*action.Action)
	var findings []audit.RawFinding
	walkActionExpressions(a, func(body string, route yamlpath.Route) {
		findings = append(findings, unsoundContainsFindings(c, body, route)...)
	})
	return findings
}

func unsoundContainsFindings(c audit.Context, body string, route yamlpath.Route) []audit.RawFinding {
	node, err := expr.Parse(body)
	if err != nil {
		return nil
	}
	var findings []audit.RawFinding
	findContainsCalls(node, func(call *expr.Call) {
		if expr.IsUnsoundContains(call) {
			findings = append(findings, audit.RawFinding{
				Description: "contains() in ${{ " + body + " }} matches its first argument as a substring, not a set membership test",
				Severity:    audit.Low,
				Confidence:  audit.ConfidenceMedium,
				Persona:     audit.PersonaRegular,
				Locations:   []audit.SymbolicLocation{primary(c.Input.Key, route)},
			})
		}
	})
	return findings
}

func findContainsCalls(n expr.Node, fn func(*expr.Call)) {
	if n == nil {
		return
	}
	switch v := n.(type) {
	case *expr.Call:
		fn(v)
		for _, a := range v.Args {
			findContainsCalls(a, fn)
		}
	case *expr.Member:
		findContainsCalls(v.Target, fn)
	case *expr.Index:
		findContainsCalls(v.Target, fn)
		findContainsCalls(v.Key, fn)
	case *expr.Unary:
		findContainsCalls(v.Operand, fn)
	case *expr.Binary:
		findContainsCalls(v.Left, fn)
		findContainsCalls(v.Right, fn)
	case *expr.Splat:
		findContainsCalls(v.Target, fn)
	}
}
