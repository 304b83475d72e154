package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/fixer"
	"github.com/octoguard/octoguard/internal/schema/workflow"
)

// checkoutVersionPattern extracts the major version from a checkout ref
// like "v4" or "v4.1.2".
var checkoutVersionPattern = regexp.MustCompile(`^v?(\d+)`)

func init() { audit.Register(artipackedAudit{}) }

type artipackedAudit struct{}

func (artipackedAudit) ID() string       { return "artipacked" }
func (artipackedAudit) Kind() audit.Kind { return audit.KindWorkflow }

// Check flags actions/checkout steps that retain credentials
// (persist-credentials: false missing) when a later step in the same job
// uploads the workspace via actions/upload-artifact, or stands alone as a
// lower-severity finding when no such upload is present. Grounded on
// sisakulint's ArtipackedRule (pkg/core/artipacked.go): same two-condition
// detection and version-aware severity split at checkout v6 (which moved
// the credential file out of .git/config into $RUNNER_TEMP).
func (artipackedAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	for _, job := range w.Jobs {
		type checkoutInfo struct {
			step     *workflow.Step
			version  int
			uploaded bool
		}
		var checkouts []checkoutInfo

		for _, step := range job.Steps {
			if step.Uses == nil {
				continue
			}
			slug := step.Uses.Value.Slug()
			if slug == "actions/checkout" {
				if persistsCredentials(step) {
					continue
				}
				checkouts = append(checkouts, checkoutInfo{step: step, version: checkoutMajorVersion(step.Uses.Value.Ref)})
			} else if slug == "actions/upload-artifact" {
				if path, ok := step.With["path"]; ok && isDangerousUploadPath(path.Value) {
					for i := range checkouts {
						checkouts[i].uploaded = true
					}
				}
			}
		}

		for _, info := range checkouts {
			severity := audit.Medium
			credLocation := ".git/config"
			if info.version >= 6 {
				credLocation = "$RUNNER_TEMP"
				severity = audit.Low
			}
			if info.uploaded {
				if info.version >= 6 {
					severity = audit.Medium
				} else {
					severity = audit.High
				}
			}

			fix := insertStepSubMappingKeyFix(w.Tree.Root, info.step.Route, "with", "persist-credentials", "false")

			findings = append(findings, audit.RawFinding{
				Description: "actions/checkout persists credentials to " + credLocation + " without persist-credentials: false",
				URL:         "https://unit42.paloaltonetworks.com/github-repo-artifacts-leak-tokens/",
				Severity:    severity,
				Confidence:  audit.ConfidenceHigh,
				Persona:     audit.PersonaRegular,
				Locations:   []audit.SymbolicLocation{primary(c.Input.Key, info.step.Uses.Route)},
				Fixes:       []fixer.Patch{fix},
			})
		}
	}
	return findings
}

func persistsCredentials(step *workflow.Step) bool {
	v, ok := step.With["persist-credentials"]
	return ok && strings.EqualFold(strings.TrimSpace(v.Value), "false")
}

func checkoutMajorVersion(ref string) int {
	m := checkoutVersionPattern.FindStringSubmatch(ref)
	if len(m) < 2 {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

func isDangerousUploadPath(path string) bool {
	path = strings.TrimSpace(path)
	switch {
	case path == "" || path == "." || path == "./":
		return path != ""
	case path == ".." || strings.HasPrefix(path, "../"):
		return true
	case strings.Contains(path, "github.workspace") || strings.Contains(path, "GITHUB_WORKSPACE"):
		return true
	case path == "*" || path == "**" || path == "**/*" || path == "./**" || path == "./**/*":
		return true
	default:
		return false
	}
}
