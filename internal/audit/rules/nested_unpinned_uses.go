package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/registry"
	"github.com/octoguard/octoguard/internal/schema"
	"github.com/octoguard/octoguard/internal/schema/workflow"
)

func init() { audit.Register(nestedUnpinnedUsesAudit{}) }

// nestedUnpinnedUsesAudit follows a workflow's SHA-pinned "uses:" through
// the registry's composite-action resolution chain and flags a
// transitively-called action that itself calls out to a mutable ref: the
// workflow's own pin is honest, but it still inherits whatever that
// dependency's dependency resolves to at run time. Offline runs (and any
// run whose resolver can't fetch the definition) see no chain and report
// nothing here rather than guessing.
type nestedUnpinnedUsesAudit struct{}

func (nestedUnpinnedUsesAudit) ID() string       { return "nested-unpinned-uses" }
func (nestedUnpinnedUsesAudit) Kind() audit.Kind { return audit.KindWorkflow }

func (nestedUnpinnedUsesAudit) Check(c audit.Context) []audit.RawFinding {
	if c.Registry == nil {
		return nil
	}
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding
	seen := map[string]bool{}

	forEachUses(w, func(ref usesRef) {
		u := ref.uses
		if u.Kind != schema.UsesRepository || !u.PinnedToSHA() {
			return
		}
		chain := c.Registry.ResolveChain(c.Ctx, u)
		for _, def := range chain {
			for _, nested := range registry.ExtractNestedUses(def.RawText) {
				if nested.Kind != schema.UsesRepository || nested.PinnedToSHA() {
					continue
				}
				key := u.Slug() + "@" + u.Ref + ">" + nested.Slug() + "@" + nested.Ref
				if seen[key] {
					continue
				}
				seen[key] = true
				findings = append(findings, audit.RawFinding{
					Description: u.Slug() + "@" + u.Ref + " transitively calls " + nested.Slug() + "@" + nested.Ref + " on a mutable ref, outside this workflow's own hash pin",
					URL:         "https://docs.github.com/en/actions/security-guides/security-hardening-for-github-actions#using-third-party-actions",
					Severity:    audit.Medium,
					Confidence:  audit.ConfidenceLow,
					Persona:     audit.PersonaPedantic,
					Locations:   []audit.SymbolicLocation{primary(c.Input.Key, ref.route)},
				})
			}
		}
	})
	return findings
}
