// Package schema holds the span-preserving building blocks shared by the
// workflow, action, and dependabot schema views: the generic Spanned
// wrapper and the Uses reference parser. It generalizes the teacher's flat
// parser.Workflow/Job/Step structs (parser/parser.go), which already carry
// `any`-typed fields for GitHub's polymorphic on:/permissions:/if: shapes,
// into typed accessors that keep the defining yamlpath.Route alongside
// every decoded value.
package schema

import "github.com/octoguard/octoguard/internal/yamlpath"

// Spanned pairs a decoded value with the Route it was defined at. Findings
// carry the Route, never the Value, so that locations stay reproducible
// across re-parses of identical text.
type Spanned[T any] struct {
	Value T
	Route yamlpath.Route
}

// NewSpanned constructs a Spanned value.
func NewSpanned[T any](v T, route yamlpath.Route) Spanned[T] {
	return Spanned[T]{Value: v, Route: route}
}
