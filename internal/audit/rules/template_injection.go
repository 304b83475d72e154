package rules

import (
	"strings"

	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/expr"
	"github.com/octoguard/octoguard/internal/fixer"
	"github.com/octoguard/octoguard/internal/schema"
	"github.com/octoguard/octoguard/internal/schema/action"
	"github.com/octoguard/octoguard/internal/schema/workflow"
	"github.com/octoguard/octoguard/internal/yamlmodel"
	"github.com/octoguard/octoguard/internal/yamlpath"
)

func init() {
	audit.Register(templateInjectionAudit{})
	audit.Register(templateInjectionActionAudit{})
}

type templateInjectionAudit struct{}

func (templateInjectionAudit) ID() string       { return "template-injection" }
func (templateInjectionAudit) Kind() audit.Kind { return audit.KindWorkflow }

// exprSpan is one "${{ … }}" occurrence located by byte offset within a
// larger raw source slice, so a finding's fix can splice at exactly that
// offset rather than the decoded scalar's own (possibly re-indented)
// string form.
type exprSpan struct {
	start, end int
	body       string
}

func scanExpressionSpans(text string) []exprSpan {
	var out []exprSpan
	i := 0
	for {
		start := strings.Index(text[i:], "${{")
		if start < 0 {
			break
		}
		start += i
		end := strings.Index(text[start:], "}}")
		if end < 0 {
			break
		}
		end += start
		out = append(out, exprSpan{start: start, end: end + 2, body: strings.TrimSpace(text[start+3 : end])})
		i = end + 2
	}
	return out
}

// Check walks every run: script and every known code-injection with: input,
// classifying each "${{ }}" expression by context safety and local
// dataflow. An expression is flagged unless the context table calls it
// always-safe, or it resolves (through the step/job/workflow env chain) to
// a value with no attacker-reachable context path at all.
func (templateInjectionAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	workflowEnv := spannedStrings(w.Env)
	for _, job := range w.Jobs {
		jobEnv := spannedStrings(job.Env)
		for _, step := range job.Steps {
			stepEnv := spannedStrings(step.Env)
			env := expr.NewEnvironment(stepEnv, jobEnv, workflowEnv)

			if step.Run != nil {
				findings = append(findings, checkRunInjection(c, w.Tree.Root, step.Route, step.Run.Route, step.Shell, env)...)
			}
			if step.Uses != nil {
				slug := step.Uses.Value.Slug()
				for name, v := range step.With {
					if !isCodeInjectionSink(slug, name) {
						continue
					}
					findings = append(findings, checkSinkExpressions(c, v.Value, v.Route, env)...)
				}
			}
		}
	}
	return findings
}

// templateInjectionActionAudit covers the same injection surface inside a
// composite action's own steps. A composite step has no job/workflow env
// layer wrapping it (action.yml has neither concept), so its dataflow
// environment is just its own env: block.
type templateInjectionActionAudit struct{}

func (templateInjectionActionAudit) ID() string       { return "template-injection" }
func (templateInjectionActionAudit) Kind() audit.Kind { return audit.KindAction }

func (templateInjectionActionAudit) Check(c audit.Context) []audit.RawFinding {
	a := c.Decoded.(*action.Action)
	if a.RunsKind != action.RunsComposite {
		return nil
	}
	var findings []audit.RawFinding
	for _, step := range a.Steps {
		env := expr.NewEnvironment(spannedStrings(step.Env))
		if step.Run != nil {
			findings = append(findings, checkRunInjection(c, a.Tree.Root, step.Route, step.Run.Route, step.Shell, env)...)
		}
		if step.Uses != nil {
			slug := step.Uses.Value.Slug()
			for name, v := range step.With {
				if !isCodeInjectionSink(slug, name) {
					continue
				}
				findings = append(findings, checkSinkExpressions(c, v.Value, v.Route, env)...)
			}
		}
	}
	return findings
}

func spannedStrings(m map[string]schema.Spanned[string]) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v.Value
	}
	return out
}

// classifyExpression reports whether body is dangerous and, if so, the
// severity to report it at.
func classifyExpression(body string, env *expr.Environment) (audit.Severity, bool) {
	node, err := expr.Parse(body)
	if err != nil {
		return 0, false
	}
	path := expr.NormalizePath(node)
	safety := expr.DefaultContextTable().Classify(path)
	if safety == expr.SafetyAlwaysSafe {
		return 0, false
	}
	if expr.IsStaticValue("${{ "+body+" }}", env) {
		return 0, false
	}
	switch safety {
	case expr.SafetyAlwaysDangerous:
		return audit.High, true
	case expr.SafetyConditional:
		return audit.Medium, true
	default:
		return audit.Low, true
	}
}

func checkSinkExpressions(c audit.Context, value string, route yamlpath.Route, env *expr.Environment) []audit.RawFinding {
	var findings []audit.RawFinding
	for _, body := range expr.ExtractExpressions(value) {
		severity, dangerous := classifyExpression(body, env)
		if !dangerous {
			continue
		}
		findings = append(findings, audit.RawFinding{
			Description: "expression ${{ " + body + " }} expands untrusted input into an interpreted sink",
			URL:         "https://securitylab.github.com/resources/github-actions-untrusted-input/",
			Severity:    severity,
			Confidence:  audit.ConfidenceMedium,
			Persona:     audit.PersonaRegular,
			Locations:   []audit.SymbolicLocation{primary(c.Input.Key, route)},
		})
	}
	return findings
}

// checkRunInjection scans one step's run: script for dangerous
// expressions. It takes the step's own route and its run: field's route
// rather than a concrete *workflow.Step so the same logic covers both a
// workflow step and a composite action step, which share this shape but
// not a common Go type.
func checkRunInjection(c audit.Context, root *yamlmodel.Node, stepRoute, runRoute yamlpath.Route, stepShell string, env *expr.Environment) []audit.RawFinding {
	node, ok := yamlpath.Query(root, runRoute)
	if !ok || node.Kind != yamlmodel.KindScalar {
		return nil
	}
	raw := string(c.Input.Text[node.UnquotedSpan.Start:node.UnquotedSpan.End])
	shell := defaultShellFor(stepShell)

	var findings []audit.RawFinding
	for _, span := range scanExpressionSpans(raw) {
		severity, dangerous := classifyExpression(span.body, env)
		if !dangerous {
			continue
		}

		var fixes []fixer.Patch
		if isPosixShell(shell) || isPowershell(shell) {
			varName := envVarName(strings.Split(span.body, "."))
			absStart := node.UnquotedSpan.Start + span.start
			absEnd := node.UnquotedSpan.Start + span.end
			fixes = []fixer.Patch{templateInjectionFix(root, stepRoute, shell, varName, span.body, absStart, absEnd)}
		}

		findings = append(findings, audit.RawFinding{
			Description: "run: interpolates ${{ " + span.body + " }} directly into the shell command",
			URL:         "https://securitylab.github.com/resources/github-actions-untrusted-input/",
			Severity:    severity,
			Confidence:  audit.ConfidenceHigh,
			Persona:     audit.PersonaRegular,
			Locations:   []audit.SymbolicLocation{primary(c.Input.Key, runRoute)},
			Fixes:       fixes,
		})
	}
	return findings
}

// templateInjectionFix replaces the expression at [replaceStart, replaceEnd)
// with a shell-appropriate variable reference and adds the matching
// env: entry carrying the original expression, so the value still reaches
// the script but only ever as data, never as interpolated script text.
func templateInjectionFix(root *yamlmodel.Node, stepRoute yamlpath.Route, shell, varName, exprBody string, replaceStart, replaceEnd int) fixer.Patch {
	envPatch := insertStepSubMappingKeyFix(root, stepRoute, "env", varName, "${{ "+exprBody+" }}")

	varRef := "${" + varName + "}"
	if isPowershell(shell) {
		varRef = "${env:" + varName + "}"
	}

	edits := make([]fixer.Edit, 0, len(envPatch.Edits)+1)
	edits = append(edits, fixer.Edit{Kind: fixer.EditReplace, Start: replaceStart, End: replaceEnd, Text: varRef})
	edits = append(edits, envPatch.Edits...)
	return fixer.Patch{Safety: fixer.Safe, Edits: edits}
}
