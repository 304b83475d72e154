// Package render serializes findings into one of the formats octoguard
// supports: cargo-style plain text, JSON-v1, SARIF 2.1.0, and GitHub
// workflow-command annotations. Each renderer is a pure function from a
// finding set to bytes, per the teacher's own stateless-writer style in
// utils.LogRateLimitStatus.
package render

import (
	"io"

	"github.com/octoguard/octoguard/internal/audit"
)

// Options configures a render pass; renderers ignore fields they have no
// use for.
type Options struct {
	ShowAuditURLs bool
	Color         bool
	// RunID correlates one invocation's output across formats/tools; the
	// SARIF renderer surfaces it as run.automationDetails.guid so CI
	// systems that merge SARIF uploads from multiple octoguard runs can
	// tell them apart. Empty is valid — the SARIF renderer then omits
	// automationDetails entirely.
	RunID string
}

// Renderer writes a finding set to w in one output format.
type Renderer interface {
	Render(w io.Writer, findings []audit.Finding, opts Options) error
}

// Format names the supported renderer, matching the CLI's --format values.
type Format string

const (
	FormatPlain  Format = "plain"
	FormatJSON   Format = "json"
	FormatJSONv1 Format = "json-v1"
	FormatSARIF  Format = "sarif"
	FormatGitHub Format = "github"
)

// ForFormat resolves the CLI-facing format name to its Renderer.
func ForFormat(f Format) (Renderer, bool) {
	switch f {
	case FormatPlain:
		return PlainRenderer{}, true
	case FormatJSON, FormatJSONv1:
		return JSONv1Renderer{}, true
	case FormatSARIF:
		return SARIFRenderer{}, true
	case FormatGitHub:
		return GitHubRenderer{}, true
	default:
		return nil, false
	}
}

// HighestSeverity returns the highest severity among visible (non-ignored)
// findings, used by the CLI to pick an exit code.
func HighestSeverity(findings []audit.Finding) (audit.Severity, bool) {
	highest := audit.Informational
	found := false
	for _, f := range findings {
		if f.Ignored {
			continue
		}
		if !found || f.Severity > highest {
			highest = f.Severity
			found = true
		}
	}
	return highest, found
}
