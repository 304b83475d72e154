package audit

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/octoguard/octoguard/internal/yamlmodel"
)

// inlineMarker is the prefix an ignore comment body must start with,
// matched case sensitively.
const inlineMarker = "octoguard: ignore"

// LocationIgnore is one parsed entry from a rules.<id>.ignore list: a
// filename (basename-compared) and an optional line/column narrowing it to
// one finding rather than every finding the rule produces in that file.
type LocationIgnore struct {
	File string
	Line int // 0 if unspecified
	Col  int // 0 if unspecified
}

// ParseLocationIgnore parses one of the three accepted forms:
// "filename:line:col", "filename:line", "filename".
func ParseLocationIgnore(entry string) LocationIgnore {
	parts := strings.Split(entry, ":")
	li := LocationIgnore{File: parts[0]}
	if len(parts) > 1 {
		li.Line, _ = strconv.Atoi(parts[1])
	}
	if len(parts) > 2 {
		li.Col, _ = strconv.Atoi(parts[2])
	}
	return li
}

func (li LocationIgnore) matches(path string, line, col int) bool {
	if filepath.Base(li.File) != filepath.Base(path) {
		return false
	}
	if li.Line != 0 && li.Line != line {
		return false
	}
	if li.Col != 0 && li.Col != col {
		return false
	}
	return true
}

// Config is the suppression configuration loaded from octoguard.yml's
// rules.<id> block: disable drops a rule's findings before they are ever
// built. A rule ID present in Ignored marks every finding that rule
// produces as Ignored rather than dropped; LocationIgnores narrows that
// to specific files, or specific file/line/col triples.
type Config struct {
	Disabled        map[string]bool
	Ignored         map[string]bool
	LocationIgnores map[string][]LocationIgnore
}

// NewConfig builds an empty suppression configuration.
func NewConfig() Config {
	return Config{
		Disabled:        map[string]bool{},
		Ignored:         map[string]bool{},
		LocationIgnores: map[string][]LocationIgnore{},
	}
}

func (c Config) disables(auditID string) bool { return c.Disabled[auditID] }

func (c Config) ignores(auditID, path string, line, col int) bool {
	if c.Ignored[auditID] {
		return true
	}
	for _, li := range c.LocationIgnores[auditID] {
		if li.matches(path, line, col) {
			return true
		}
	}
	return false
}

// inlineSuppressed reports whether a `# octoguard: ignore[...]` comment
// applies to auditID anywhere within any of the finding's locations' row
// ranges (plus the line immediately above each range's start, matching the
// convention of linters that support trailing and leading suppression
// comments alike). This scans every resolved location belonging to the
// same input the comments came from, not only Primary — Hidden locations
// never render but still extend the span an inline ignore comment applies
// across, and this loop covers them for free once a rule attaches one.
func inlineSuppressed(comments []yamlmodel.Comment, locations []ConcreteLocation, input InputKey, auditID string) bool {
	for _, c := range comments {
		ids, ok := parseIgnoreComment(c.Body)
		if !ok {
			continue
		}
		if len(ids) > 0 && !containsID(ids, auditID) {
			continue
		}
		for _, loc := range locations {
			if loc.Symbolic.Input != input {
				continue
			}
			if c.Line >= loc.StartRow-1 && c.Line <= loc.EndRow {
				return true
			}
		}
	}
	return false
}

func containsID(ids []string, auditID string) bool {
	for _, id := range ids {
		if id == auditID {
			return true
		}
	}
	return false
}

// parseIgnoreComment recognizes "octoguard: ignore" and
// "octoguard: ignore[id,id2]" comment bodies. An empty id list suppresses
// every audit at that location.
func parseIgnoreComment(body string) ([]string, bool) {
	body = strings.TrimSpace(body)
	if !strings.HasPrefix(body, inlineMarker) {
		return nil, false
	}
	rest := strings.TrimSpace(body[len(inlineMarker):])
	if rest == "" {
		return nil, true
	}
	if !strings.HasPrefix(rest, "[") || !strings.HasSuffix(rest, "]") {
		return nil, false
	}
	inner := rest[1 : len(rest)-1]
	var ids []string
	for _, part := range strings.Split(inner, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			ids = append(ids, part)
		}
	}
	return ids, true
}
