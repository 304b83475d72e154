package render

import (
	"fmt"
	"io"

	"github.com/octoguard/octoguard/internal/audit"
)

// githubAnnotationCap is the maximum number of workflow-command
// annotations GitHub Actions renders per step; findings beyond it still
// count toward the exit code but are not individually annotated.
const githubAnnotationCap = 10

// GitHubRenderer emits `::error::`/`::warning::`/`::notice::` workflow
// commands, capped at the first 10 visible findings; anything past the
// cap is summarized in a trailing notice rather than silently dropped.
type GitHubRenderer struct{}

func githubCommand(s audit.Severity) string {
	switch s {
	case audit.High, audit.Medium:
		return "error"
	case audit.Low:
		return "warning"
	default:
		return "notice"
	}
}

func escapeGitHubProperty(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\r':
			out = append(out, '%', '0', 'D')
		case '\n':
			out = append(out, '%', '0', 'A')
		case ':':
			out = append(out, '%', '3', 'A')
		case ',':
			out = append(out, '%', '2', 'C')
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}

func escapeGitHubMessage(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\r':
			out = append(out, '%', '0', 'D')
		case '\n':
			out = append(out, '%', '0', 'A')
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}

func (GitHubRenderer) Render(w io.Writer, findings []audit.Finding, _ Options) error {
	annotated := 0
	remaining := 0

	for _, f := range findings {
		if f.Ignored {
			continue
		}
		primary, ok := f.Primary()
		if !ok {
			continue
		}
		if annotated >= githubAnnotationCap {
			remaining++
			continue
		}
		fmt.Fprintf(w, "::%s file=%s,line=%d,col=%d,title=%s::%s\n",
			githubCommand(f.Severity),
			escapeGitHubProperty(primary.Symbolic.Input.Path),
			primary.StartRow, primary.StartCol,
			escapeGitHubProperty(f.AuditID),
			escapeGitHubMessage(f.Description))
		annotated++
	}

	if remaining > 0 {
		fmt.Fprintf(w, "::notice::%d additional finding(s) exceeded the annotation cap; see the full report for details\n", remaining)
	}
	return nil
}
