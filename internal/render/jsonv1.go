package render

import (
	"encoding/json"
	"io"

	"github.com/octoguard/octoguard/internal/audit"
)

// JSONv1Renderer emits the stable JSON-v1 contract: 0-based rows (the one
// documented exception to every other renderer's 1-based convention), full
// location detail, and every field a downstream consumer needs without
// re-parsing the original workflow.
type JSONv1Renderer struct{}

type jsonLocationV1 struct {
	InputKind string `json:"input_kind"`
	InputPath string `json:"input_path"`

	StartRow int `json:"start_row"`
	StartCol int `json:"start_col"`
	EndRow   int `json:"end_row"`
	EndCol   int `json:"end_col"`

	ByteStart int `json:"byte_start"`
	ByteEnd   int `json:"byte_end"`

	Kind           string   `json:"kind"`
	Annotation     string   `json:"annotation,omitempty"`
	QuotedFeature  string   `json:"quoted_feature,omitempty"`
	CommentsInSpan []string `json:"comments_in_span,omitempty"`
}

type jsonFindingV1 struct {
	AuditID     string           `json:"audit_id"`
	Description string           `json:"description"`
	URL         string           `json:"url,omitempty"`
	Severity    string           `json:"severity"`
	Confidence  string           `json:"confidence"`
	Persona     string           `json:"persona"`
	Ignored     bool             `json:"ignored"`
	Locations   []jsonLocationV1 `json:"locations"`
}

func personaName(p audit.Persona) string {
	switch p {
	case audit.PersonaPedantic:
		return "pedantic"
	case audit.PersonaAuditor:
		return "auditor"
	default:
		return "regular"
	}
}

func locationKindName(k audit.LocationKind) string {
	switch k {
	case audit.Related:
		return "related"
	case audit.Hidden:
		return "hidden"
	default:
		return "primary"
	}
}

func (JSONv1Renderer) Render(w io.Writer, findings []audit.Finding, _ Options) error {
	out := make([]jsonFindingV1, 0, len(findings))
	for _, f := range findings {
		locs := make([]jsonLocationV1, 0, len(f.Locations))
		for _, loc := range f.Locations {
			locs = append(locs, jsonLocationV1{
				InputKind:      loc.Symbolic.Input.Kind,
				InputPath:      loc.Symbolic.Input.Path,
				StartRow:       loc.StartRow - 1,
				StartCol:       loc.StartCol - 1,
				EndRow:         loc.EndRow - 1,
				EndCol:         loc.EndCol - 1,
				ByteStart:      loc.ByteStart,
				ByteEnd:        loc.ByteEnd,
				Kind:           locationKindName(loc.Symbolic.Kind),
				Annotation:     loc.Symbolic.Annotation,
				QuotedFeature:  loc.QuotedFeature,
				CommentsInSpan: loc.CommentsInSpan,
			})
		}
		out = append(out, jsonFindingV1{
			AuditID:     f.AuditID,
			Description: f.Description,
			URL:         f.URL,
			Severity:    f.Severity.String(),
			Confidence:  f.Confidence.String(),
			Persona:     personaName(f.Persona),
			Ignored:     f.Ignored,
			Locations:   locs,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
