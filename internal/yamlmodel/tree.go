// Package yamlmodel parses GitHub Actions YAML documents (workflows,
// composite actions, Dependabot config) into a tree that preserves
// byte-accurate source spans, the way the teacher's parser package parses
// workflow YAML into a *yaml.Node for span-aware rewriting, generalized from
// "one mutable node tree per file" into "an immutable Tree plus a line
// index plus a comment index".
package yamlmodel

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind identifies the shape of a Node.
type Kind int

const (
	// KindScalar is a leaf value: string, int, float, bool, or null.
	KindScalar Kind = iota
	KindMapping
	KindSequence
)

// Span is a byte range within an Input's raw text, end-exclusive.
type Span struct {
	Start int
	End   int
}

// Empty reports whether the span carries no extent.
func (s Span) Empty() bool { return s.Start >= s.End }

// Node is one element of the parsed tree. A mapping's keys and values are
// separate nodes (Keys and Values), each carrying its own spans.
type Node struct {
	Kind Kind

	// Scalar fields.
	ScalarValue string
	Tag         string // yaml.v3 resolved tag, e.g. "!!str", "!!int"

	// Mapping fields: parallel slices, Keys[i] maps to Values[i].
	Keys   []*Node
	Values []*Node

	// Sequence field.
	Items []*Node

	// FullSpan starts at the node's own position, so it includes a quoted
	// scalar's quotes or a block scalar's indicator; a value node's span
	// does not include its mapping key or the "key: " prefix.
	FullSpan Span
	// UnquotedSpan excludes quote characters for quoted scalars; equal to
	// FullSpan for everything else. Used by the expression scanner, which
	// must not trip over a literal `${{` appearing inside quote chars.
	UnquotedSpan Span

	// Anchor is the anchor name this node was defined under, if any.
	Anchor string
	// AliasOf is set when this node is a physical copy substituted for an
	// `*alias` reference; it names the anchor it was copied from.
	AliasOf string

	Line, Column int // 1-based, from yaml.v3

	raw *yaml.Node
}

// IsNull reports whether a scalar node is YAML null.
func (n *Node) IsNull() bool {
	return n != nil && n.Kind == KindScalar && n.Tag == "!!null"
}

// MapGet returns the value node for a string key in a mapping node, and
// whether it was found. Case-sensitive; schema callers fold case themselves
// where GitHub itself matches case-insensitively (trigger names, shells).
func (n *Node) MapGet(key string) (*Node, bool) {
	if n == nil || n.Kind != KindMapping {
		return nil, false
	}
	for i, k := range n.Keys {
		if k.ScalarValue == key {
			return n.Values[i], true
		}
	}
	return nil, false
}

// MapKeyNode returns the key node for a string key in a mapping, used when a
// finding should point at the key itself (e.g. a trigger name) rather than
// its value.
func (n *Node) MapKeyNode(key string) (*Node, bool) {
	if n == nil || n.Kind != KindMapping {
		return nil, false
	}
	for _, k := range n.Keys {
		if k.ScalarValue == key {
			return k, true
		}
	}
	return nil, false
}

// Tree is a parsed YAML document plus the indexes needed to resolve spans
// and comments.
type Tree struct {
	Root     *Node
	Lines    *LineIndex
	Comments []Comment
	// HasAnchors is true if any anchor or alias was encountered; the CLI's
	// ingest step (cmd/octoguard) logs a warning for such inputs.
	HasAnchors bool
}

// ParseError describes a syntactic YAML failure with a best-effort span.
type ParseError struct {
	Message string
	Span    Span
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("yaml parse error: %s", e.Message)
}

// Parse builds a Tree from raw document bytes.
func Parse(text []byte) (*Tree, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(text, &root); err != nil {
		return nil, &ParseError{Message: err.Error()}
	}

	lines := NewLineIndex(text)
	b := &builder{text: text, lines: lines, anchors: map[string]*Node{}}

	var top *Node
	if len(root.Content) > 0 {
		top = b.build(root.Content[0])
	} else {
		top = &Node{Kind: KindMapping}
	}

	return &Tree{
		Root:       top,
		Lines:      lines,
		Comments:   scanComments(text),
		HasAnchors: b.sawAnchor,
	}, nil
}

type builder struct {
	text      []byte
	lines     *LineIndex
	anchors   map[string]*Node
	sawAnchor bool
	depth     int
}

const maxAliasDepth = 32

func (b *builder) build(n *yaml.Node) *Node {
	if n == nil {
		return nil
	}

	if n.Kind == yaml.AliasNode {
		b.sawAnchor = true
		if b.depth > maxAliasDepth || n.Alias == nil {
			return &Node{Kind: KindScalar, Tag: "!!null"}
		}
		b.depth++
		clone := b.build(n.Alias)
		b.depth--
		if clone != nil {
			clone.AliasOf = n.Alias.Anchor
		}
		return clone
	}

	out := &Node{
		Line:   n.Line,
		Column: n.Column,
		Anchor: n.Anchor,
		Tag:    n.Tag,
	}
	if n.Anchor != "" {
		b.sawAnchor = true
	}

	out.FullSpan, out.UnquotedSpan = b.spanFor(n)

	switch n.Kind {
	case yaml.ScalarNode:
		out.Kind = KindScalar
		out.ScalarValue = n.Value
	case yaml.MappingNode:
		out.Kind = KindMapping
		for i := 0; i+1 < len(n.Content); i += 2 {
			out.Keys = append(out.Keys, b.build(n.Content[i]))
			out.Values = append(out.Values, b.build(n.Content[i+1]))
		}
	case yaml.SequenceNode:
		out.Kind = KindSequence
		for _, item := range n.Content {
			out.Items = append(out.Items, b.build(item))
		}
	case yaml.DocumentNode:
		if len(n.Content) > 0 {
			return b.build(n.Content[0])
		}
		out.Kind = KindMapping
	}
	out.raw = n
	return out
}
