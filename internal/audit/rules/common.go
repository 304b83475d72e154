package rules

import (
	"strings"

	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/expr"
	"github.com/octoguard/octoguard/internal/schema"
	"github.com/octoguard/octoguard/internal/schema/action"
	"github.com/octoguard/octoguard/internal/schema/workflow"
	"github.com/octoguard/octoguard/internal/yamlpath"
)

// primary builds the one required Primary location for a finding pointing
// at route within the input the audit is currently checking.
func primary(input audit.InputKey, route yamlpath.Route) audit.SymbolicLocation {
	return audit.SymbolicLocation{Input: input, Route: route, Kind: audit.Primary}
}

// related builds a secondary, rendered location with an explanatory
// annotation.
func related(input audit.InputKey, route yamlpath.Route, annotation string) audit.SymbolicLocation {
	return audit.SymbolicLocation{Input: input, Route: route, Annotation: annotation, Kind: audit.Related}
}

// defaultShellFor returns the shell a step runs under absent an explicit
// shell: override, matching GitHub's own default (bash on Linux/macOS
// runners, the overwhelming majority case this module can determine
// without resolving the job's runs-on to a concrete OS).
func defaultShellFor(stepShell string) string {
	if stepShell != "" {
		return stepShell
	}
	return "bash"
}

// isPosixShell reports whether shell is a POSIX-family shell, which uses
// ${VAR} interpolation syntax (as opposed to PowerShell's ${env:VAR} or
// cmd's %VAR%).
func isPosixShell(shell string) bool {
	s := strings.ToLower(shell)
	return s == "bash" || s == "sh" || s == "zsh"
}

func isPowershell(shell string) bool {
	s := strings.ToLower(shell)
	return s == "pwsh" || s == "powershell"
}

// usesRef pairs a parsed uses: reference with the route it was found at,
// regardless of whether it came from a job's reusable-workflow call or a
// step.
type usesRef struct {
	route yamlpath.Route
	uses  schema.Uses
}

// forEachUses visits every uses: reference in the workflow: job-level
// reusable-workflow calls and every step's uses:.
func forEachUses(w *workflow.Workflow, fn func(usesRef)) {
	for _, job := range w.Jobs {
		if job.Uses != nil {
			fn(usesRef{route: job.Uses.Route, uses: job.Uses.Value})
		}
		for _, step := range job.Steps {
			if step.Uses != nil {
				fn(usesRef{route: step.Uses.Route, uses: step.Uses.Value})
			}
		}
	}
}

// walkExpressions visits every "${{ … }}" body found anywhere in the
// workflow's expression-bearing fields (run:, if:, with:, env: at
// workflow/job/step scope), along with the route of the field it came
// from, regardless of which audit is doing the looking.
func walkExpressions(w *workflow.Workflow, fn func(body string, route yamlpath.Route)) {
	visitSpanned := func(sp *schema.Spanned[string]) {
		if sp == nil {
			return
		}
		for _, body := range expr.ExtractExpressions(sp.Value) {
			fn(body, sp.Route)
		}
	}
	visitEnvMap := func(m map[string]schema.Spanned[string]) {
		for _, sp := range m {
			for _, body := range expr.ExtractExpressions(sp.Value) {
				fn(body, sp.Route)
			}
		}
	}
	visitWithMap := visitEnvMap

	visitEnvMap(w.Env)
	for _, job := range w.Jobs {
		visitSpanned(job.If)
		visitEnvMap(job.Env)
		for _, step := range job.Steps {
			visitSpanned(step.Run)
			visitSpanned(step.If)
			visitEnvMap(step.Env)
			visitWithMap(step.With)
		}
	}
}

// envVarName derives a SCREAMING_SNAKE_CASE environment variable name from
// a context path like ["github","event","issue","title"], dropping the
// leading "github"/"github.event" segments every always-dangerous context
// path shares so the name reflects the part that actually varies
// (["github","event","issue","title"] -> ISSUE_TITLE, ["github","ref_name"]
// -> REF_NAME).
func envVarName(path []string) string {
	path = stripGithubEventPrefix(path)
	parts := make([]string, 0, len(path))
	for _, p := range path {
		if p == "*" {
			continue
		}
		parts = append(parts, strings.ToUpper(p))
	}
	if len(parts) == 0 {
		return "EXPR"
	}
	return strings.Join(parts, "_")
}

func stripGithubEventPrefix(path []string) []string {
	if len(path) > 0 && path[0] == "github" {
		path = path[1:]
		if len(path) > 0 && path[0] == "event" {
			path = path[1:]
		}
	}
	return path
}

// forEachActionUses visits every uses: reference in a composite action's
// steps. JavaScript and Docker actions carry no Steps, so they contribute
// nothing here — there is no second "uses:" site to generalize over below
// a non-composite runs:.
func forEachActionUses(a *action.Action, fn func(usesRef)) {
	for _, step := range a.Steps {
		if step.Uses != nil {
			fn(usesRef{route: step.Uses.Route, uses: step.Uses.Value})
		}
	}
}

// walkActionExpressions is walkExpressions' composite-action counterpart:
// a composite step has no job/workflow scope wrapping it, only its own
// run:, if:, with: and env:.
func walkActionExpressions(a *action.Action, fn func(body string, route yamlpath.Route)) {
	visitSpanned := func(sp *schema.Spanned[string]) {
		if sp == nil {
			return
		}
		for _, body := range expr.ExtractExpressions(sp.Value) {
			fn(body, sp.Route)
		}
	}
	visitMap := func(m map[string]schema.Spanned[string]) {
		for _, sp := range m {
			for _, body := range expr.ExtractExpressions(sp.Value) {
				fn(body, sp.Route)
			}
		}
	}
	for _, step := range a.Steps {
		visitSpanned(step.Run)
		visitSpanned(step.If)
		visitMap(step.Env)
		visitMap(step.With)
	}
}
