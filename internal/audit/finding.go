// Package audit implements the finding model and the framework that
// audits register into: the Finding/Location types, the FindingBuilder's
// route-to-span-to-suppression-to-filter pipeline, inline-comment and
// config-file suppression, and per-input concurrent audit execution.
package audit

import (
	"github.com/octoguard/octoguard/internal/fixer"
	"github.com/octoguard/octoguard/internal/yamlpath"
)

// Severity is a finding's risk level.
type Severity int

const (
	Informational Severity = iota
	Low
	Medium
	High
)

func (s Severity) String() string {
	switch s {
	case Informational:
		return "informational"
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// ParseSeverity parses a CLI-facing severity name.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "informational":
		return Informational, true
	case "low":
		return Low, true
	case "medium":
		return Medium, true
	case "high":
		return High, true
	default:
		return 0, false
	}
}

// Confidence is how sure the audit is that a finding is a true positive.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceLow:
		return "low"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParseConfidence parses a CLI-facing confidence name.
func ParseConfidence(s string) (Confidence, bool) {
	switch s {
	case "low":
		return ConfidenceLow, true
	case "medium":
		return ConfidenceMedium, true
	case "high":
		return ConfidenceHigh, true
	default:
		return 0, false
	}
}

// Persona is the verbosity posture a finding is gated behind.
type Persona int

const (
	PersonaRegular Persona = iota
	PersonaPedantic
	PersonaAuditor
)

// ParsePersona parses a CLI-facing persona name.
func ParsePersona(s string) (Persona, bool) {
	switch s {
	case "regular":
		return PersonaRegular, true
	case "pedantic":
		return PersonaPedantic, true
	case "auditor":
		return PersonaAuditor, true
	default:
		return 0, false
	}
}

// Visible reports whether a finding gated at required is visible to an
// invocation running at persona requested.
func (requested Persona) Visible(required Persona) bool {
	return requested >= required
}

// LocationKind discriminates how a location participates in rendering and
// in suppression-comment scope.
type LocationKind int

const (
	// Primary is the one location every finding must have exactly one of;
	// renderers anchor on it.
	Primary LocationKind = iota
	// Related locations render as secondary context.
	Related
	// Hidden locations never render but extend the span an inline ignore
	// comment applies over.
	Hidden
)

// InputKey identifies which input a finding or location belongs to, stable
// across a run so findings sort consistently with input discovery order.
type InputKey struct {
	// Kind is "local" or "remote", matching JSON-v1 input
	// key contract.
	Kind string
	Path string // local path, or "owner/repo@ref" for remote
}

// SymbolicLocation is a finding location before resolution to concrete
// spans: a route into a specific input's tree.
type SymbolicLocation struct {
	Input      InputKey
	Route      yamlpath.Route
	Annotation string
	Kind       LocationKind
}

// ConcreteLocation is a SymbolicLocation resolved to byte/row/col spans,
// detached from the input's lifetime so it can outlive the input for
// batched renderers.
type ConcreteLocation struct {
	Symbolic SymbolicLocation

	StartRow, StartCol int
	EndRow, EndCol     int
	ByteStart, ByteEnd int

	QuotedFeature  string
	CommentsInSpan []string
}

// Finding is the canonical analysis output.
type Finding struct {
	AuditID     string
	Description string
	URL         string
	Severity    Severity
	Confidence  Confidence
	Persona     Persona

	Locations []ConcreteLocation
	Ignored   bool
	Fixes     []fixer.Patch
}

// Primary returns the finding's one required Primary location.
func (f Finding) Primary() (ConcreteLocation, bool) {
	for _, loc := range f.Locations {
		if loc.Symbolic.Kind == Primary {
			return loc, true
		}
	}
	return ConcreteLocation{}, false
}
