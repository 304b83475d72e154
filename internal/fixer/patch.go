// Package fixer implements the text-preserving auto-fix engine: a patch
// model of byte-range edits and an applier that splices them into the
// original source bottom-up, generalizing the teacher's own
// applyUpdatesToLines (which already rewrites a specific uses: line while
// preserving indentation and the "- " prefix) from whole-line replacement
// to arbitrary byte-range Replace/Insert edits.
package fixer

// Safety classifies how confident a patch is in not changing behavior.
type Safety int

const (
	// Safe edits are mechanical and behavior-preserving (e.g. adding
	// persist-credentials: false).
	Safe Safety = iota
	// Unsafe edits may alter behavior and require explicit opt-in.
	Unsafe
)

// EditKind discriminates the two supported edit operations.
type EditKind int

const (
	EditReplace EditKind = iota
	EditInsert
)

// Edit is one atomic change to an input's raw bytes. Replace substitutes
// the bytes in [Start, End) with Text. Insert splices Text at Offset
// (Start == End == Offset), optionally indented to match IndentHint
// (sibling indentation, for inserting new mapping keys).
type Edit struct {
	Kind       EditKind
	Start, End int
	Text       string
	IndentHint string
}

// Patch is an ordered list of edits belonging to exactly one input.
type Patch struct {
	Edits  []Edit
	Safety Safety
}

// Start returns the lowest byte offset touched by the patch, or 0 for a
// patch with no edits.
func (p Patch) Start() int {
	if len(p.Edits) == 0 {
		return 0
	}
	start := p.Edits[0].Start
	for _, e := range p.Edits[1:] {
		if e.Start < start {
			start = e.Start
		}
	}
	return start
}
