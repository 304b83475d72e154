package audit

import (
	"context"

	"github.com/octoguard/octoguard/internal/ghlog"
	"github.com/octoguard/octoguard/internal/registry"
	"github.com/octoguard/octoguard/internal/schema/action"
	"github.com/octoguard/octoguard/internal/schema/dependabot"
	"github.com/octoguard/octoguard/internal/schema/workflow"
	"github.com/sourcegraph/conc/pool"
)

// DocumentKind identifies which schema decoder an input requires, decided
// by the collector from the input's path (a workflow under
// .github/workflows/, an action.yml, or dependabot.yml).
type DocumentKind = Kind

const (
	DocWorkflow   = KindWorkflow
	DocAction     = KindAction
	DocDependabot = KindDependabot
)

// Document pairs one ingested Input with the decoder it needs.
type Document struct {
	Input *Input
	Kind  DocumentKind
}

// RunResult is one input's outcome: its findings, or a decode error if the
// document could not be parsed into its schema type (a malformed workflow
// still gets reported, just without audit coverage).
type RunResult struct {
	Input    *Input
	Findings []Finding
	Err      error
}

// maxConcurrentInputs bounds how many documents are audited at once,
// mirroring the teacher-adjacent gh-aw forks' use of conc's pool.Pool for
// bounded fan-out over independent per-file work.
const maxConcurrentInputs = 8

// Run audits every document concurrently (one goroutine per input, audits
// within one input run sequentially) and returns a deterministically sorted
// finding list plus any per-input decode errors. resolver backs the
// online audits' registry lookups; pass registry.OfflineResolver{} for an
// offline run.
func Run(ctx context.Context, docs []Document, config Config, filter Filter, resolver registry.RefResolver) ([]Finding, []error) {
	if resolver == nil {
		resolver = registry.OfflineResolver{}
	}
	reg := registry.NewRegistry(resolver, "")
	inputs := make(map[InputKey]*Input, len(docs))
	for _, d := range docs {
		inputs[d.Input.Key] = d.Input
	}

	p := pool.NewWithResults[RunResult]().WithMaxGoroutines(maxConcurrentInputs)
	for _, d := range docs {
		d := d
		p.Go(func() RunResult {
			return runOne(ctx, d, inputs, config, filter, resolver, reg)
		})
	}
	results := p.Wait()

	var findings []Finding
	var errs []error
	for _, r := range results {
		findings = append(findings, r.Findings...)
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	SortFindings(findings)
	return findings, errs
}

func runOne(ctx context.Context, d Document, inputs map[InputKey]*Input, config Config, filter Filter, resolver registry.RefResolver, reg *registry.Registry) RunResult {
	decoded, err := decode(d)
	if err != nil {
		ghlog.Logger.Warn("decode failed", "input", d.Input.Key.Path, "error", err)
		return RunResult{Input: d.Input, Err: err}
	}

	builder := NewFindingBuilder(inputs, config, filter)
	auditCtx := Context{Ctx: ctx, Input: d.Input, Decoded: decoded, Builder: builder, Resolver: resolver, Registry: reg}

	var findings []Finding
	for _, a := range ForKind(d.Kind) {
		for _, raw := range a.Check(auditCtx) {
			raw.AuditID = a.ID()
			if finding, ok := builder.Build(raw); ok {
				findings = append(findings, finding)
			}
		}
	}
	return RunResult{Input: d.Input, Findings: findings}
}

func decode(d Document) (any, error) {
	tree := d.Input.Tree
	switch d.Kind {
	case DocAction:
		return action.Decode(tree)
	case DocDependabot:
		return dependabot.Decode(tree)
	default:
		return workflow.Decode(tree)
	}
}
