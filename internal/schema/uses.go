package schema

import (
	"regexp"
	"strings"
)

// UsesKind discriminates the four shapes a "uses:" value can take.
type UsesKind int

const (
	UsesRepository UsesKind = iota
	UsesDocker
	UsesLocal
	UsesReusableWorkflow
)

// NoRef marks a Uses reference that carries no pin at all (e.g. "actions/checkout"
// with no "@ref" suffix, which GitHub resolves to the repository's default
// branch at run time).
const NoRef = ""

// Uses is the structured form of a "uses:" string, generalizing the
// teacher's ParseActionReference (which already distinguishes
// github/docker/local) into the four variants this module requires, adding
// a dedicated reusable-workflow variant and case-insensitive owner/repo
// comparison.
type Uses struct {
	Kind UsesKind

	// Repository / ReusableWorkflow / Local
	Owner   string
	Repo    string
	Subpath string // path within the repo, empty for the repo root
	Ref     string // branch, tag, or 40-hex SHA; NoRef if absent

	// Docker
	Image string
	Tag   string

	// Local
	Path string

	Raw string
}

// Unpinned reports whether a Repository or ReusableWorkflow reference has no
// ref at all.
func (u Uses) Unpinned() bool {
	return (u.Kind == UsesRepository || u.Kind == UsesReusableWorkflow) && u.Ref == NoRef
}

var shaPattern = regexp.MustCompile(`^[0-9a-fA-F]{40}$`)

// PinnedToSHA reports whether Ref is a full 40-hex commit SHA.
func (u Uses) PinnedToSHA() bool {
	return shaPattern.MatchString(u.Ref)
}

// Slug returns the lowercase "owner/repo" identity used for case-insensitive
// comparisons against registry and advisory data.
func (u Uses) Slug() string {
	return strings.ToLower(u.Owner) + "/" + strings.ToLower(u.Repo)
}

// ParseUses parses a raw "uses:" string into its structured form. Reusable
// workflow references are distinguished by a ".yml"/".yaml" subpath
// component, per GitHub's own convention (an action reference never ends in
// a YAML file).
func ParseUses(raw string) (Uses, bool) {
	if raw == "" {
		return Uses{}, false
	}

	if strings.HasPrefix(raw, "./") || strings.HasPrefix(raw, "../") {
		return Uses{Kind: UsesLocal, Path: raw, Raw: raw}, true
	}

	if strings.HasPrefix(raw, "docker://") {
		full := strings.TrimPrefix(raw, "docker://")
		parts := strings.SplitN(full, ":", 2)
		tag := "latest"
		if len(parts) > 1 {
			tag = parts[1]
		}
		return Uses{Kind: UsesDocker, Image: parts[0], Tag: tag, Raw: raw}, true
	}

	parts := strings.SplitN(raw, "@", 2)
	repoPath := parts[0]
	ref := NoRef
	if len(parts) > 1 {
		ref = parts[1]
	}

	segments := strings.Split(repoPath, "/")
	if len(segments) < 2 {
		return Uses{}, false
	}
	owner := segments[0]
	repo := segments[1]
	subpath := strings.Join(segments[2:], "/")

	kind := UsesRepository
	if strings.HasSuffix(subpath, ".yml") || strings.HasSuffix(subpath, ".yaml") {
		kind = UsesReusableWorkflow
	}

	return Uses{
		Kind:    kind,
		Owner:   owner,
		Repo:    repo,
		Subpath: subpath,
		Ref:     ref,
		Raw:     raw,
	}, true
}
