package expr

import "strings"

// Safety classifies a dotted context path's risk.
type Safety int

const (
	// SafetyUnknown is returned for paths the table has no opinion on; like
	// conditionally dangerous paths they fall through to dataflow, and
	// template-injection reports them at Low rather than Medium severity.
	SafetyUnknown Safety = iota
	SafetyAlwaysSafe
	SafetyAlwaysDangerous
	SafetyConditional
)

// segment is one node of the context trie. "*" children match any single
// dotted segment or a bracket index, the "splat class" used for entries like
// github.event.*.
type segment struct {
	children map[string]*segment
	safety   Safety
	terminal bool
}

func newSegment() *segment {
	return &segment{children: map[string]*segment{}}
}

// ContextTable is the finite-state transducer over dotted context paths.
// It is small and static, so a literal trie walk satisfies the contract
// without a generated-FSA dependency.
type ContextTable struct {
	root *segment
}

// splat is the wildcard path component matching any concrete segment,
// including numeric bracket indices normalized by NormalizePath.
const splat = "*"

var defaultTable *ContextTable

func init() {
	defaultTable = buildDefaultTable()
}

// DefaultContextTable returns the process-wide safety table, authoritative
//: "treat the table as authoritative and surface mismatches
// as bug reports" rather than growing it by guesswork.
func DefaultContextTable() *ContextTable { return defaultTable }

func buildDefaultTable() *ContextTable {
	t := &ContextTable{root: newSegment()}

	alwaysSafe := []string{
		"github.run_id",
		"github.run_number",
		"github.run_attempt",
		"github.job",
		"github.action_path",
		"github.server_url",
		"github.repositoryUrl",
		"runner.temp",
		"runner.tool_cache",
		"github.event.merge_group.base_sha",
		"github.event.pull_request.base.sha",
		"github.event.pull_request.head.sha",
		"github.event.pull_request.head.repo.fork",
		"github.event.workflow_run.pull_requests.*.base.repo.id",
	}
	alwaysDangerous := []string{
		"github.event.issue.title",
		"github.event.issue.body",
		"github.event.pull_request.title",
		"github.event.pull_request.body",
		"github.event.pull_request.head.ref",
		"github.event.comment.body",
		"github.ref_name",
		"github.head_ref",
		"github.event.changes.new_discussion.labels.*.name",
	}
	conditional := []string{
		"env.*",
		"inputs.*",
		"matrix.*",
		"steps.*.outputs.*",
		"needs.*.outputs.*",
	}

	for _, p := range alwaysSafe {
		t.insert(p, SafetyAlwaysSafe)
	}
	for _, p := range alwaysDangerous {
		t.insert(p, SafetyAlwaysDangerous)
	}
	for _, p := range conditional {
		t.insert(p, SafetyConditional)
	}
	return t
}

func (t *ContextTable) insert(path string, safety Safety) {
	segs := strings.Split(path, ".")
	cur := t.root
	for _, s := range segs {
		next, ok := cur.children[s]
		if !ok {
			next = newSegment()
			cur.children[s] = next
		}
		cur = next
	}
	cur.safety = safety
	cur.terminal = true
}

// Classify looks up the safety of a dotted context path, e.g.
// "github.event.issue.title" or "steps.build.outputs.version".
// NormalizePath should be applied first if the path came from an AST with
// bracket indexing.
func (t *ContextTable) Classify(path []string) Safety {
	cur := t.root
	for _, s := range path {
		next, ok := cur.children[s]
		if !ok {
			next, ok = cur.children[splat]
			if !ok {
				return SafetyUnknown
			}
		}
		cur = next
	}
	if cur.terminal {
		return cur.safety
	}
	return SafetyUnknown
}

// NormalizePath flattens a Member/Index/Splat chain into dotted segments,
// normalizing bracket indices (numeric or computed) and ".*" splats into
// the "*" wildcard segment the table keys on.
func NormalizePath(n Node) []string {
	switch v := n.(type) {
	case *Ident:
		return []string{v.Name}
	case *Member:
		return append(NormalizePath(v.Target), v.Name)
	case *Index:
		return append(NormalizePath(v.Target), splat)
	case *Splat:
		return append(NormalizePath(v.Target), splat)
	default:
		return nil
	}
}
