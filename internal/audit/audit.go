package audit

import (
	"context"

	"github.com/octoguard/octoguard/internal/registry"
)

// Kind identifies which schema layer an Audit inspects, so the runner only
// invokes an audit against inputs it actually knows how to read.
type Kind int

const (
	KindWorkflow Kind = iota
	KindAction
	KindDependabot
)

// Context carries everything an Audit needs to inspect one input: the
// decoded document (type-asserted by the audit itself per its Kind), the
// raw input, a Registry-backed lookup for "uses:" chains, and a builder
// pre-wired with suppression config and the invoker's filter.
type Context struct {
	Ctx      context.Context
	Input    *Input
	Decoded  any
	Builder  *FindingBuilder
	Resolver registry.RefResolver
	Registry *registry.Registry
}

// Audit is one named rule. Check inspects a Context and returns the raw
// findings it produced (pre-suppression, pre-filter); the runner passes
// each through Context.Builder before keeping it. Returning an empty slice
// is not an error; Check itself never signals failure — audits are pure,
// always-succeeding inspections.
type Audit interface {
	ID() string
	Kind() Kind
	Check(c Context) []RawFinding
}

// ruleRegistry is the process-wide set of audits, populated by each rule
// file's init(), mirroring how the teacher registers cobra subcommands in
// their own init() functions.
var ruleRegistry []Audit

// Register adds an audit to the process-wide registry. Rule files call this
// from their own init().
func Register(a Audit) {
	ruleRegistry = append(ruleRegistry, a)
}

// All returns every registered audit, in registration order.
func All() []Audit {
	out := make([]Audit, len(ruleRegistry))
	copy(out, ruleRegistry)
	return out
}

// ForKind returns every registered audit whose Kind matches k.
func ForKind(k Kind) []Audit {
	var out []Audit
	for _, a := range ruleRegistry {
		if a.Kind() == k {
			out = append(out, a)
		}
	}
	return out
}
