package rules

import (
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema/workflow"
	"github.com/octoguard/octoguard/internal/yamlpath"
)

func init() { audit.Register(refVersionMismatchAudit{}) }

// versionCommentPattern recovers a human-readable version token from a
// trailing comment like "uses: actions/checkout@a1b2c3 # v4.1.1".
var versionCommentPattern = regexp.MustCompile(`\bv?(\d+(?:\.\d+){0,2})\b`)

// refVersionMismatchAudit is an online audit: a uses: pinned to a commit
// SHA is cross-referenced against the repository's tags to find which
// released version that commit actually corresponds to, then compared
// against the version named in a trailing source comment — a common
// manual-pinning mistake is updating the comment but not re-resolving the
// SHA, or the reverse.
type refVersionMismatchAudit struct{}

func (refVersionMismatchAudit) ID() string       { return "ref-version-mismatch" }
func (refVersionMismatchAudit) Kind() audit.Kind { return audit.KindWorkflow }

func (refVersionMismatchAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	forEachUses(w, func(ref usesRef) {
		u := ref.uses
		if !u.PinnedToSHA() {
			return
		}
		commentVersion, ok := trailingVersionComment(c, ref.route)
		if !ok {
			return
		}
		tags, known := c.Resolver.TagsFor(c.Ctx, u.Owner, u.Repo)
		if !known {
			return
		}
		for _, t := range tags {
			if t.SHA != u.Ref {
				continue
			}
			tagVersion, err := semver.NewVersion(t.Name)
			if err != nil {
				return
			}
			if tagVersion.Major() != commentVersion.Major() ||
				tagVersion.Minor() != commentVersion.Minor() {
				findings = append(findings, audit.RawFinding{
					Description: u.Owner + "/" + u.Repo + "@" + u.Ref + " actually resolves to " + t.Name + ", not the version its trailing comment claims",
					Severity:    audit.Medium,
					Confidence:  audit.ConfidenceMedium,
					Persona:     audit.PersonaRegular,
					Locations:   []audit.SymbolicLocation{primary(c.Input.Key, ref.route)},
				})
			}
			return
		}
	})
	return findings
}

func trailingVersionComment(c audit.Context, route yamlpath.Route) (*semver.Version, bool) {
	node, ok := yamlpath.Query(c.Input.Tree.Root, route)
	if !ok {
		return nil, false
	}
	for _, cm := range c.Input.Tree.Comments {
		if cm.Line != node.Line {
			continue
		}
		m := versionCommentPattern.FindStringSubmatch(cm.Body)
		if m == nil {
			continue
		}
		v, err := semver.NewVersion(m[1])
		if err != nil {
			continue
		}
		return v, true
	}
	return nil, false
}
