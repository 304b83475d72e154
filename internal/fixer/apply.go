package fixer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/octoguard/octoguard/internal/yamlmodel"
)

// ApplyError reports a patch that could not be applied safely.
type ApplyError struct {
	Reason string
}

func (e *ApplyError) Error() string { return e.Reason }

// Apply splices every edit in patches into original, bottom-up by
// descending start offset so earlier edits never invalidate the byte
// offsets later ones were computed against — the same ordering
// requirement the teacher's line-based applyUpdatesToLines gets for free
// by keying on line number instead of byte offset. The result is
// re-parsed to confirm it is still valid YAML; if it is not, Apply returns
// an error and leaves original's bytes out of the result entirely rather
// than writing a corrupted file.
func Apply(original []byte, patches []Patch) ([]byte, error) {
	edits := make([]Edit, 0)
	for _, p := range patches {
		edits = append(edits, p.Edits...)
	}
	if len(edits) == 0 {
		return original, nil
	}

	sort.Slice(edits, func(i, j int) bool { return edits[i].Start > edits[j].Start })

	for i := 1; i < len(edits); i++ {
		prev, cur := edits[i-1], edits[i]
		if cur.End > prev.Start {
			return nil, &ApplyError{Reason: fmt.Sprintf("overlapping edits at byte %d", cur.Start)}
		}
	}

	out := append([]byte(nil), original...)
	for _, e := range edits {
		if e.Start < 0 || e.End > len(out) || e.Start > e.End {
			return nil, &ApplyError{Reason: fmt.Sprintf("edit out of range [%d,%d) in %d-byte input", e.Start, e.End, len(out))}
		}
		text := e.Text
		if e.Kind == EditInsert && e.IndentHint != "" {
			text = indentLines(text, e.IndentHint)
		}
		var next []byte
		next = append(next, out[:e.Start]...)
		next = append(next, []byte(text)...)
		next = append(next, out[e.End:]...)
		out = next
	}

	if _, err := yamlmodel.Parse(out); err != nil {
		return nil, &ApplyError{Reason: fmt.Sprintf("patched document is not valid YAML: %v", err)}
	}
	return out, nil
}

// indentLines prefixes every line after the first in text with hint, so a
// multi-line insertion (e.g. a new mapping key plus a nested block) lines
// up with its siblings.
func indentLines(text, hint string) string {
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = hint + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
