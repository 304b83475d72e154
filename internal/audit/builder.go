package audit

import (
	"github.com/octoguard/octoguard/internal/fixer"
	"github.com/octoguard/octoguard/internal/yamlmodel"
	"github.com/octoguard/octoguard/internal/yamlpath"
)

// Input is one ingested document: its tree plus the raw bytes the tree was
// parsed from, keyed so a finding's locations can reference any input a run
// is considering (a workflow and, through registry resolution, the action
// definitions it calls).
type Input struct {
	Key  InputKey
	Tree *yamlmodel.Tree
	Text []byte
}

// Filter is the invoker's visibility gate: findings below MinSeverity or
// MinConfidence, or gated behind a Persona stricter than Requested, are
// dropped by FindingBuilder.Build.
type Filter struct {
	Requested     Persona
	MinSeverity   Severity
	MinConfidence Confidence
}

// RawFinding is what an Audit implementation assembles before it has been
// resolved to concrete spans or passed through suppression/filtering.
type RawFinding struct {
	AuditID     string
	Description string
	URL         string
	Severity    Severity
	Confidence  Confidence
	Persona     Persona
	Locations   []SymbolicLocation
	Fixes       []fixer.Patch
}

// FindingBuilder implements the four-step finding construction contract:
// resolve routes to spans, collect in-span comments, check suppression,
// then apply the invoker's severity/confidence/persona filters.
type FindingBuilder struct {
	inputs map[InputKey]*Input
	config Config
	filter Filter
}

// NewFindingBuilder builds a FindingBuilder over the set of ingested inputs
// an audit run considers.
func NewFindingBuilder(inputs map[InputKey]*Input, config Config, filter Filter) *FindingBuilder {
	return &FindingBuilder{inputs: inputs, config: config, filter: filter}
}

// Build resolves raw into a Finding, or returns ok=false if it is dropped by
// a disabled rule or by the invoker's filters.
func (b *FindingBuilder) Build(raw RawFinding) (Finding, bool) {
	if b.config.disables(raw.AuditID) {
		return Finding{}, false
	}

	locations := make([]ConcreteLocation, 0, len(raw.Locations))
	for _, sym := range raw.Locations {
		loc, ok := b.resolve(sym)
		if !ok {
			if sym.Kind == Primary {
				return Finding{}, false
			}
			continue
		}
		locations = append(locations, loc)
	}
	if len(locations) == 0 {
		return Finding{}, false
	}

	finding := Finding{
		AuditID:     raw.AuditID,
		Description: raw.Description,
		URL:         raw.URL,
		Severity:    raw.Severity,
		Confidence:  raw.Confidence,
		Persona:     raw.Persona,
		Locations:   locations,
		Fixes:       raw.Fixes,
	}

	if primary, ok := finding.Primary(); ok {
		ignored := b.config.ignores(raw.AuditID, primary.Symbolic.Input.Path, primary.StartRow, primary.StartCol)
		if !ignored {
			if input, ok := b.inputs[primary.Symbolic.Input]; ok {
				ignored = inlineSuppressed(input.Tree.Comments, locations, primary.Symbolic.Input, raw.AuditID)
			}
		}
		finding.Ignored = ignored
	}

	if !b.filter.Requested.Visible(raw.Persona) {
		return Finding{}, false
	}
	if raw.Severity < b.filter.MinSeverity {
		return Finding{}, false
	}
	if raw.Confidence < b.filter.MinConfidence {
		return Finding{}, false
	}

	return finding, true
}

func (b *FindingBuilder) resolve(sym SymbolicLocation) (ConcreteLocation, bool) {
	input, ok := b.inputs[sym.Input]
	if !ok {
		return ConcreteLocation{}, false
	}
	node, ok := yamlpath.Query(input.Tree.Root, sym.Route)
	if !ok {
		return ConcreteLocation{}, false
	}

	startRow, startCol := input.Tree.Lines.LineCol(node.FullSpan.Start)
	endRow, endCol := input.Tree.Lines.LineCol(node.FullSpan.End)

	loc := ConcreteLocation{
		Symbolic:  sym,
		StartRow:  startRow,
		StartCol:  startCol,
		EndRow:    endRow,
		EndCol:    endCol,
		ByteStart: node.FullSpan.Start,
		ByteEnd:   node.FullSpan.End,
	}
	if node.FullSpan.Start >= 0 && node.FullSpan.Start <= node.FullSpan.End && node.FullSpan.End <= len(input.Text) {
		loc.QuotedFeature = string(input.Text[node.FullSpan.Start:node.FullSpan.End])
	}
	for _, c := range input.Tree.Comments {
		if c.Line >= startRow && c.Line <= endRow {
			loc.CommentsInSpan = append(loc.CommentsInSpan, c.Body)
		}
	}
	return loc, true
}
