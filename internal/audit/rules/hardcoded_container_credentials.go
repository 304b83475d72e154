package rules

import (
	"strings"

	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema/workflow"
)

func init() { audit.Register(hardcodedContainerCredentialsAudit{}) }

type hardcodedContainerCredentialsAudit struct{}

func (hardcodedContainerCredentialsAudit) ID() string       { return "hardcoded-container-credentials" }
func (hardcodedContainerCredentialsAudit) Kind() audit.Kind { return audit.KindWorkflow }

// Check flags a container: or services.<name>: credentials.password that is
// a string literal rather than a ${{ secrets.* }} expression.
func (hardcodedContainerCredentialsAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	for _, job := range w.Jobs {
		if job.Container != nil {
			findings = append(findings, checkContainerCredentials(c, "container", job.Container)...)
		}
		for name, svc := range job.Services {
			findings = append(findings, checkContainerCredentials(c, "service "+name, svc)...)
		}
	}
	return findings
}

func checkContainerCredentials(c audit.Context, label string, cont *workflow.Container) []audit.RawFinding {
	if cont.Credentials == nil {
		return nil
	}
	pw := cont.Credentials.Password
	if pw.Value == "" || strings.Contains(pw.Value, "${{") {
		return nil
	}
	return []audit.RawFinding{{
		Description: label + "'s credentials.password is a string literal instead of a ${{ secrets.* }} expression",
		Severity:    audit.High,
		Confidence:  audit.ConfidenceHigh,
		Persona:     audit.PersonaRegular,
		Locations:   []audit.SymbolicLocation{primary(c.Input.Key, pw.Route)},
	}}
}
