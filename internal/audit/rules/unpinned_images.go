package rules

import (
	"strings"

	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema"
	"github.com/octoguard/octoguard/internal/schema/workflow"
)

func init() { audit.Register(unpinnedImagesAudit{}) }

type unpinnedImagesAudit struct{}

func (unpinnedImagesAudit) ID() string       { return "unpinned-images" }
func (unpinnedImagesAudit) Kind() audit.Kind { return audit.KindWorkflow }

// Check flags a docker:// action reference, a job container, or a service
// container whose image is pinned by a mutable tag rather than a
// sha256 digest: whoever controls that tag can swap the image contents out
// from under a pinned workflow, the same risk unpinned-uses addresses for
// repository references.
func (unpinnedImagesAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	forEachUses(w, func(ref usesRef) {
		if ref.uses.Kind != schema.UsesDocker {
			return
		}
		if isDigestPinned(ref.uses) {
			return
		}
		findings = append(findings, audit.RawFinding{
			Description: "docker://" + ref.uses.Image + " is pinned by a mutable tag; whoever controls that tag controls the image contents",
			Severity:    audit.Medium,
			Confidence:  audit.ConfidenceHigh,
			Persona:     audit.PersonaRegular,
			Locations:   []audit.SymbolicLocation{primary(c.Input.Key, ref.route)},
		})
	})

	for _, job := range w.Jobs {
		if job.Container != nil && !isDigestPinnedImage(job.Container.Image.Value) {
			findings = append(findings, audit.RawFinding{
				Description: job.Container.Image.Value + " is pinned by a mutable tag; whoever controls that tag controls the image contents",
				Severity:    audit.Medium,
				Confidence:  audit.ConfidenceHigh,
				Persona:     audit.PersonaRegular,
				Locations:   []audit.SymbolicLocation{primary(c.Input.Key, job.Container.Image.Route)},
			})
		}
		for _, svc := range job.Services {
			if isDigestPinnedImage(svc.Image.Value) {
				continue
			}
			findings = append(findings, audit.RawFinding{
				Description: svc.Image.Value + " is pinned by a mutable tag; whoever controls that tag controls the image contents",
				Severity:    audit.Medium,
				Confidence:  audit.ConfidenceHigh,
				Persona:     audit.PersonaRegular,
				Locations:   []audit.SymbolicLocation{primary(c.Input.Key, svc.Image.Route)},
			})
		}
	}
	return findings
}

func isDigestPinned(u schema.Uses) bool {
	return strings.Contains(u.Image, "@sha256")
}

func isDigestPinnedImage(image string) bool {
	return strings.Contains(image, "@sha256")
}
