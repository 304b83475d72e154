package render

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/octoguard/octoguard/internal/audit"
	_ "github.com/octoguard/octoguard/internal/audit/rules"
	"github.com/octoguard/octoguard/internal/registry"
	"github.com/octoguard/octoguard/internal/schema/workflow"
	"github.com/octoguard/octoguard/internal/yamlmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFindings(t *testing.T) []audit.Finding {
	t.Helper()
	src := "jobs:\n  build:\n    steps:\n      - uses: some-org/some-action@v1\n"
	tree, err := yamlmodel.Parse([]byte(src))
	require.NoError(t, err)
	w, err := workflow.Decode(tree)
	require.NoError(t, err)

	var unpinned audit.Audit
	for _, a := range audit.ForKind(audit.KindWorkflow) {
		if a.ID() == "unpinned-uses" {
			unpinned = a
		}
	}
	require.NotNil(t, unpinned, "unpinned-uses audit must be registered")

	key := audit.InputKey{Kind: "local", Path: "ci.yml"}
	input := &audit.Input{Key: key, Tree: tree, Text: []byte(src)}
	builder := audit.NewFindingBuilder(map[audit.InputKey]*audit.Input{key: input}, audit.NewConfig(), audit.Filter{Requested: audit.PersonaAuditor})
	c := audit.Context{Ctx: context.Background(), Input: input, Decoded: w, Builder: builder, Resolver: registry.OfflineResolver{}}

	raw := unpinned.Check(c)
	require.NotEmpty(t, raw)

	var findings []audit.Finding
	for _, r := range raw {
		r.AuditID = unpinned.ID()
		f, ok := builder.Build(r)
		require.True(t, ok)
		findings = append(findings, f)
	}
	require.NotEmpty(t, findings)
	return findings
}

func TestPlainRendererIncludesLocationAndSummary(t *testing.T) {
	findings := sampleFindings(t)
	var buf bytes.Buffer
	require.NoError(t, PlainRenderer{}.Render(&buf, findings, Options{}))

	out := buf.String()
	assert.Contains(t, out, "unpinned-uses")
	assert.Contains(t, out, "ci.yml:")
	assert.Contains(t, out, "findings:")
}

func TestJSONv1RendererUsesZeroBasedRows(t *testing.T) {
	findings := sampleFindings(t)
	var buf bytes.Buffer
	require.NoError(t, JSONv1Renderer{}.Render(&buf, findings, Options{}))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.NotEmpty(t, decoded)
	locs := decoded[0]["locations"].([]any)
	require.NotEmpty(t, locs)
	loc := locs[0].(map[string]any)

	oneBasedRow, ok := findings[0].Primary()
	require.True(t, ok)
	assert.Equal(t, float64(oneBasedRow.StartRow-1), loc["start_row"])
}

func TestSARIFRendererEmitsOneRuleAndResult(t *testing.T) {
	findings := sampleFindings(t)
	var buf bytes.Buffer
	require.NoError(t, SARIFRenderer{}.Render(&buf, findings, Options{}))

	out := buf.String()
	assert.Contains(t, out, `"ruleId": "unpinned-uses"`)
	assert.Contains(t, out, `"security"`)
	assert.NotContains(t, out, "automationDetails")
}

func TestSARIFRendererEmitsAutomationGUIDWhenRunIDSet(t *testing.T) {
	findings := sampleFindings(t)
	var buf bytes.Buffer
	require.NoError(t, SARIFRenderer{}.Render(&buf, findings, Options{RunID: "11111111-1111-1111-1111-111111111111"}))

	out := buf.String()
	assert.Contains(t, out, `"automationDetails"`)
	assert.Contains(t, out, `"guid": "11111111-1111-1111-1111-111111111111"`)
}

func TestGitHubRendererEmitsWorkflowCommand(t *testing.T) {
	findings := sampleFindings(t)
	var buf bytes.Buffer
	require.NoError(t, GitHubRenderer{}.Render(&buf, findings, Options{}))

	out := buf.String()
	assert.Contains(t, out, "::error file=ci.yml")
}

func TestGitHubRendererCapsAnnotationsAtTen(t *testing.T) {
	base := sampleFindings(t)[0]
	findings := make([]audit.Finding, 0, 12)
	for i := 0; i < 12; i++ {
		findings = append(findings, base)
	}
	var buf bytes.Buffer
	require.NoError(t, GitHubRenderer{}.Render(&buf, findings, Options{}))

	assert.Contains(t, buf.String(), "2 additional finding(s)")
}
