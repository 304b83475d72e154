package render

import (
	"encoding/json"
	"io"

	"github.com/octoguard/octoguard/internal/audit"
)

// SARIFRenderer emits SARIF 2.1.0: one run, one ReportingDescriptor per
// audit that produced a finding (tagged "security"), one Result per
// finding with a physicalLocation whose URI is the input's path as
// collected (relative to the scanned directory).
type SARIFRenderer struct{}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool              `json:"tool"`
	Results           []sarifResult          `json:"results"`
	AutomationDetails *sarifAutomationDetail `json:"automationDetails,omitempty"`
}

type sarifAutomationDetail struct {
	GUID string `json:"guid"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string          `json:"name"`
	InformationURI string          `json:"informationUri,omitempty"`
	Rules          []sarifRule     `json:"rules"`
	rulesSeen      map[string]bool `json:"-"`
}

type sarifRule struct {
	ID               string              `json:"id"`
	ShortDescription sarifText           `json:"shortDescription"`
	HelpURI          string              `json:"helpUri,omitempty"`
	Properties       sarifRuleProperties `json:"properties"`
}

type sarifRuleProperties struct {
	Tags []string `json:"tags"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string           `json:"ruleId"`
	Level     string           `json:"level"`
	Message   sarifText        `json:"message"`
	Locations []sarifResultLoc `json:"locations"`
}

type sarifResultLoc struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
}

func sarifLevel(s audit.Severity) string {
	switch s {
	case audit.High:
		return "error"
	case audit.Medium:
		return "warning"
	default:
		return "note"
	}
}

func (SARIFRenderer) Render(w io.Writer, findings []audit.Finding, opts Options) error {
	driver := sarifDriver{
		Name:           "octoguard",
		InformationURI: "https://github.com/octoguard/octoguard",
		rulesSeen:      map[string]bool{},
	}
	var results []sarifResult

	for _, f := range findings {
		if !driver.rulesSeen[f.AuditID] {
			driver.rulesSeen[f.AuditID] = true
			driver.Rules = append(driver.Rules, sarifRule{
				ID:               f.AuditID,
				ShortDescription: sarifText{Text: f.Description},
				HelpURI:          f.URL,
				Properties:       sarifRuleProperties{Tags: []string{"security"}},
			})
		}

		primary, ok := f.Primary()
		if !ok {
			continue
		}
		results = append(results, sarifResult{
			RuleID:  f.AuditID,
			Level:   sarifLevel(f.Severity),
			Message: sarifText{Text: f.Description},
			Locations: []sarifResultLoc{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: primary.Symbolic.Input.Path},
					Region: sarifRegion{
						StartLine:   primary.StartRow,
						StartColumn: primary.StartCol,
						EndLine:     primary.EndRow,
						EndColumn:   primary.EndCol,
					},
				},
			}},
		})
	}

	run := sarifRun{Tool: sarifTool{Driver: driver}, Results: results}
	if opts.RunID != "" {
		run.AutomationDetails = &sarifAutomationDetail{GUID: opts.RunID}
	}

	doc := sarifLog{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
