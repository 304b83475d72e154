package rules

import (
	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema/workflow"
)

func init() { audit.Register(excessivePermissionsAudit{}) }

type excessivePermissionsAudit struct{}

func (excessivePermissionsAudit) ID() string       { return "excessive-permissions" }
func (excessivePermissionsAudit) Kind() audit.Kind { return audit.KindWorkflow }

// Check flags the workflow-level permissions: block when it's absent (the
// broad legacy default applies) or a blanket write-all/read-all grant, then
// separately checks each job's own permissions: block for the same blanket
// grant. A single-job workflow's job-level permissions are the same grant
// as its workflow-level ones, so job-level checking is skipped in that case
// to avoid reporting the same over-grant twice.
func (excessivePermissionsAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	if w.Permissions != nil {
		if w.Permissions.Absent {
			findings = append(findings, audit.RawFinding{
				Description: "no top-level permissions: block; the default grant is broad read-write access for classic repositories",
				URL:         "https://docs.github.com/en/actions/security-guides/automatic-token-authentication",
				Severity:    audit.Low,
				Confidence:  audit.ConfidenceMedium,
				Persona:     audit.PersonaRegular,
				Locations:   []audit.SymbolicLocation{primary(c.Input.Key, w.Permissions.Route)},
			})
		} else if w.Permissions.Blanket && w.Permissions.Scopes["contents"] != workflow.PermissionNone {
			grant := "read-all grants every scope read access"
			if grantsWrite(w.Permissions) {
				grant = "write-all grants every scope write access"
			}
			findings = append(findings, audit.RawFinding{
				Description: "top-level permissions: " + grant,
				Severity:    audit.Medium,
				Confidence:  audit.ConfidenceHigh,
				Persona:     audit.PersonaRegular,
				Locations:   []audit.SymbolicLocation{primary(c.Input.Key, w.Permissions.Route)},
			})
		}
	}

	if len(w.Jobs) <= 1 {
		return findings
	}
	for _, job := range w.Jobs {
		if job.Permissions == nil || !job.Permissions.Blanket || job.Permissions.Scopes["contents"] == workflow.PermissionNone {
			continue
		}
		grant := "read-all grants every scope read access"
		if grantsWrite(job.Permissions) {
			grant = "write-all grants every scope write access"
		}
		findings = append(findings, audit.RawFinding{
			Description: "job " + job.ID + "'s permissions: " + grant,
			Severity:    audit.Medium,
			Confidence:  audit.ConfidenceHigh,
			Persona:     audit.PersonaRegular,
			Locations:   []audit.SymbolicLocation{primary(c.Input.Key, job.Permissions.Route)},
		})
	}
	return findings
}

func grantsWrite(p *workflow.Permissions) bool {
	for _, lvl := range p.Scopes {
		if lvl == workflow.PermissionWrite {
			return true
		}
	}
	return false
}
