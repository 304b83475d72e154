package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema/workflow"
	"github.com/octoguard/octoguard/internal/yamlmodel"
	"github.com/octoguard/octoguard/internal/yamlpath"
)

func init() { audit.Register(undocumentedPermissionsAudit{}) }

// undocumentedPermissionsAudit is a pedantic-persona companion to
// excessive-permissions: it doesn't re-judge whether a scoped permissions:
// block is too broad, only whether a write grant carries any comment at all
// explaining why that scope is needed, so a future reviewer isn't left to
// reverse-engineer the reason from the jobs below it.
type undocumentedPermissionsAudit struct{}

func (undocumentedPermissionsAudit) ID() string       { return "undocumented-permissions" }
func (undocumentedPermissionsAudit) Kind() audit.Kind { return audit.KindWorkflow }

func (undocumentedPermissionsAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	check := func(label string, p *workflow.Permissions) {
		if p == nil || p.Absent || p.Blanket || !grantsWrite(p) {
			return
		}
		if hasNearbyComment(c.Input.Tree, p.Route) {
			return
		}
		findings = append(findings, audit.RawFinding{
			Description: label + " grants a write scope with no comment explaining why it's needed",
			Severity:    audit.Informational,
			Confidence:  audit.ConfidenceLow,
			Persona:     audit.PersonaPedantic,
			Locations:   []audit.SymbolicLocation{primary(c.Input.Key, p.Route)},
		})
	}

	check("top-level permissions:", w.Permissions)
	for _, job := range w.Jobs {
		check("job "+job.ID+"'s permissions:", job.Permissions)
	}
	return findings
}

// hasNearbyComment reports whether a comment sits on the permissions key's
// own line or on the line directly above it.
func hasNearbyComment(tree *yamlmodel.Tree, route yamlpath.Route) bool {
	node, ok := yamlpath.Query(tree.Root, route)
	if !ok {
		return false
	}
	line := node.Line
	if n := len(route); n > 0 && !route[n-1].IsIndex() {
		if parent, ok := yamlpath.Query(tree.Root, route[:n-1]); ok {
			if key, ok := parent.MapKeyNode(route[n-1].Key); ok {
				line = key.Line
			}
		}
	}
	for _, cm := range tree.Comments {
		if cm.Line == line || cm.Line == line-1 {
			return true
		}
	}
	return false
}
