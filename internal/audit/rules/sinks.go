package rules

import "strings"

// sink is one (uses-pattern, input-name) pair known to feed an expression's
// expansion into code that executes, per the "Polymorphism over sinks"
// design note: each action's inputs that constitute injection sinks form a
// static table, joined against expression dataflow by template-injection.
type sink struct {
	usesPattern string
	inputName   string
}

// codeInjectionSinks is not exhaustive; it covers the commonly cited
// actions whose documented inputs are interpolated into a shell or
// interpreter rather than passed as a literal argument.
var codeInjectionSinks = []sink{
	{"azure/cli", "inlineScript"},
	{"actions/github-script", "script"},
	{"actions/ai-inference", "prompt"},
	{"nick-fields/retry", "command"},
	{"andstor/file-existence-action", "files"},
	{"mathiasvr/command-output", "run"},
}

// isCodeInjectionSink reports whether inputName, for a step whose uses:
// matches usesSlug (owner/repo, case-insensitive), is a known sink.
func isCodeInjectionSink(usesSlug, inputName string) bool {
	for _, s := range codeInjectionSinks {
		if strings.EqualFold(s.usesPattern, usesSlug) && strings.EqualFold(s.inputName, inputName) {
			return true
		}
	}
	return false
}
