// Package workflow is the typed schema view over a parsed workflow YAML
// tree. It generalizes the teacher's parser.Workflow/Job/Step structs
// (parser/parser.go), which already model on:/permissions:/if: as `any`
// fields, into span-preserving accessors: every decoded value keeps the
// yamlpath.Route it was defined at, so audits can build findings that point
// at the exact source location rather than the reparsed value.
package workflow

import (
	"github.com/octoguard/octoguard/internal/schema"
	"github.com/octoguard/octoguard/internal/yamlmodel"
	"github.com/octoguard/octoguard/internal/yamlpath"
)

// PermissionLevel is one scope's access grant.
type PermissionLevel string

const (
	PermissionNone  PermissionLevel = "none"
	PermissionRead  PermissionLevel = "read"
	PermissionWrite PermissionLevel = "write"
)

// Permissions is the normalized form of a workflow or job's `permissions:`
// block: blanket grant (read-all/write-all/none, expressed as an implicit
// scope->level map applied to every known scope), explicit empty mapping
// (equivalent to none for every scope), or per-scope mapping.
type Permissions struct {
	// Blanket is true when permissions: was a bare scalar (read-all,
	// write-all) rather than a mapping.
	Blanket bool
	// Absent is true when no permissions: key was present at all — GitHub's
	// broad legacy default applies, which excessive-permissions treats as
	// risk-bearing.
	Absent bool
	Scopes map[string]PermissionLevel
	Route  yamlpath.Route
}

// Trigger is one normalized `on:` event with its filter mapping (e.g.
// branches/paths/types), regardless of whether the source used scalar,
// sequence, or mapping form.
type Trigger struct {
	Name   string
	Filter *yamlmodel.Node // nil if the trigger carried no filter body
	Route  yamlpath.Route
}

// Container models `container:` or a `services.<name>:` entry.
type Container struct {
	Image       schema.Spanned[string]
	Credentials *Credentials
	Route       yamlpath.Route
}

// Credentials is a container or service's `credentials:` block.
type Credentials struct {
	Username schema.Spanned[string]
	Password schema.Spanned[string]
}

// Strategy models a job's `strategy:` block.
type Strategy struct {
	Matrix      *yamlmodel.Node
	FailFast    bool
	HasFailFast bool
	MaxParallel int
	Route       yamlpath.Route
}

// Step is one entry of a job's `steps:` sequence. At most one of Run or
// Uses is set (enforced during decode — see decode.go).
type Step struct {
	ID    string
	Name  string
	Run   *schema.Spanned[string]
	Uses  *schema.Spanned[schema.Uses]
	Shell string
	If    *schema.Spanned[string]
	With  map[string]schema.Spanned[string]
	Env   map[string]schema.Spanned[string]
	Route yamlpath.Route
}

// Job is one entry of `jobs:`.
type Job struct {
	ID     string
	Name   string
	RunsOn *yamlmodel.Node

	// Uses is set when this job is a reusable-workflow call rather than a
	// step sequence.
	Uses *schema.Spanned[schema.Uses]
	Steps []*Step

	Permissions *Permissions
	Env         map[string]schema.Spanned[string]
	If          *schema.Spanned[string]
	Needs       []string
	Strategy    *Strategy
	Container   *Container
	Services    map[string]*Container
	SecretsInherit bool
	Secrets        map[string]schema.Spanned[string]

	Route yamlpath.Route
}

// Workflow is the top-level decoded document.
type Workflow struct {
	Name        string
	On          []Trigger
	Permissions *Permissions
	Env         map[string]schema.Spanned[string]
	Jobs        []*Job // preserves document order
	Concurrency *yamlmodel.Node

	Tree *yamlmodel.Tree
}

// JobByID looks up a job by its mapping key.
func (w *Workflow) JobByID(id string) (*Job, bool) {
	for _, j := range w.Jobs {
		if j.ID == id {
			return j, true
		}
	}
	return nil, false
}

// HasTrigger reports whether the workflow declares a trigger with the given
// name, case-insensitively.
func (w *Workflow) HasTrigger(name string) bool {
	for _, t := range w.On {
		if equalFoldASCII(t.Name, name) {
			return true
		}
	}
	return false
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
