package rules

import (
	"strings"

	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema"
	"github.com/octoguard/octoguard/internal/schema/workflow"
)

func init() { audit.Register(archivedUsesAudit{}) }

// archivedRepos is a curated allowlist of action repositories known to be
// archived (read-only on GitHub): no further commits, so no security patch
// will ever land, regardless of how the uses: reference is pinned.
// Grounded on zizmor's archived-action-repos.txt, the same source
// sisakulint's ArchivedUsesRule draws its list from.
var archivedRepos = buildArchivedRepoSet([]string{
	"actions/upload-release-asset",
	"actions/create-release",
	"actions/setup-ruby",
	"actions/setup-elixir",
	"actions/setup-haskell",
	"actions-rs/cargo",
	"actions-rs/grcov",
	"actions-rs/audit-check",
	"actions-rs/toolchain",
	"actions-rs/tarpaulin",
	"actions-rs/clippy-check",
	"actions-rs/install",
	"actions-rs/components-nightly",
	"aslafy-z/conventional-pr-title-action",
	"azure/appconfiguration-sync",
	"azure/appservice-actions",
	"azure/azure-resource-login-action",
	"azure/container-actions",
	"azure/container-scan",
	"azure/get-keyvault-secrets",
	"azure/k8s-actions",
	"azure/manage-azure-policy",
	"azure/webapps-container-deploy",
	"cedrickring/golang-action",
	"cirrus-actions/rebase",
	"crazy-max/ghaction-docker-buildx",
	"gradle/gradle-build-action",
	"grafana/k6-action",
	"helaili/jekyll-action",
	"jakejarvis/s3-sync-action",
	"jakejarvis/hugo-build-action",
	"marvinpinto/actions",
	"marvinpinto/action-automatic-releases",
	"paambaati/codeclimate-action",
	"repo-sync/pull-request",
	"repo-sync/repo-sync",
	"semgrep/semgrep-action",
	"sonarsource/sonarcloud-github-action",
	"technote-space/get-diff-action",
	"8398a7/action-slack",
})

func buildArchivedRepoSet(repos []string) map[string]bool {
	out := make(map[string]bool, len(repos))
	for _, r := range repos {
		out[strings.ToLower(r)] = true
	}
	return out
}

type archivedUsesAudit struct{}

func (archivedUsesAudit) ID() string       { return "archived-uses" }
func (archivedUsesAudit) Kind() audit.Kind { return audit.KindWorkflow }

func (archivedUsesAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	var findings []audit.RawFinding

	forEachUses(w, func(ref usesRef) {
		if ref.uses.Kind != schema.UsesRepository && ref.uses.Kind != schema.UsesReusableWorkflow {
			return
		}
		if !archivedRepos[ref.uses.Slug()] {
			return
		}
		findings = append(findings, audit.RawFinding{
			Description: ref.uses.Slug() + " is archived; it will never receive another security patch",
			URL:         "https://github.com/" + ref.uses.Owner + "/" + ref.uses.Repo,
			Severity:    audit.Low,
			Confidence:  audit.ConfidenceHigh,
			Persona:     audit.PersonaRegular,
			Locations:   []audit.SymbolicLocation{primary(c.Input.Key, ref.route)},
		})
	})
	return findings
}
