package render

import (
	"fmt"
	"io"

	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/ghlog"
)

// PlainRenderer prints cargo-style diagnostics: a severity-colored header
// line, the primary location, a source excerpt, and related locations,
// reusing ghlog.SeverityStyle the way the teacher colors its own log
// levels.
type PlainRenderer struct{}

func (PlainRenderer) Render(w io.Writer, findings []audit.Finding, opts Options) error {
	counts := map[audit.Severity]int{}
	suppressed := 0

	for _, f := range findings {
		if f.Ignored {
			suppressed++
			continue
		}
		counts[f.Severity]++

		primary, ok := f.Primary()
		if !ok {
			continue
		}
		style := ghlog.SeverityStyle(f.Severity.String())
		header := style.Render(f.Severity.String())

		fmt.Fprintf(w, "%s[%s]: %s\n", header, f.AuditID, f.Description)
		fmt.Fprintf(w, "  --> %s:%d:%d\n", primary.Symbolic.Input.Path, primary.StartRow, primary.StartCol)
		if primary.QuotedFeature != "" {
			fmt.Fprintf(w, "  | %s\n", primary.QuotedFeature)
		}
		for _, loc := range f.Locations {
			if loc.Symbolic.Kind != audit.Related {
				continue
			}
			fmt.Fprintf(w, "  note: %s:%d:%d %s\n", loc.Symbolic.Input.Path, loc.StartRow, loc.StartCol, loc.Symbolic.Annotation)
		}
		if opts.ShowAuditURLs && f.URL != "" {
			fmt.Fprintf(w, "  = help: %s\n", f.URL)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%d findings: %d high, %d medium, %d low, %d informational (%d suppressed)\n",
		counts[audit.High]+counts[audit.Medium]+counts[audit.Low]+counts[audit.Informational],
		counts[audit.High], counts[audit.Medium], counts[audit.Low], counts[audit.Informational], suppressed)
	return nil
}
