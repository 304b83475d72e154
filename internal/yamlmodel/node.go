package yamlmodel

import "gopkg.in/yaml.v3"

// spanFor computes the FullSpan and UnquotedSpan of a yaml.v3 node using its
// Line/Column start and, for scalars, the node's rendered Value length
// adjusted for quoting style. yaml.v3 does not expose an end position, so
// scalar ends are derived from content length rather than re-scanned from
// source; mapping/sequence ends are derived from their last child's end,
// falling back to the start position for empty collections.
func (b *builder) spanFor(n *yaml.Node) (full, unquoted Span) {
	start := b.lines.Offset(n.Line, n.Column)

	switch n.Kind {
	case yaml.ScalarNode:
		return b.scalarSpan(n, start)
	case yaml.MappingNode:
		end := start
		if len(n.Content) > 0 {
			last := n.Content[len(n.Content)-1]
			f, _ := b.spanFor(last)
			end = f.End
		}
		s := Span{Start: start, End: end}
		return s, s
	case yaml.SequenceNode:
		end := start
		if len(n.Content) > 0 {
			last := n.Content[len(n.Content)-1]
			f, _ := b.spanFor(last)
			end = f.End
		}
		s := Span{Start: start, End: end}
		return s, s
	default:
		s := Span{Start: start, End: start}
		return s, s
	}
}

func (b *builder) scalarSpan(n *yaml.Node, start int) (full, unquoted Span) {
	switch n.Style {
	case yaml.DoubleQuotedStyle, yaml.SingleQuotedStyle:
		// Opening quote sits at start; the body begins one byte later.
		// We don't re-scan for the closing quote (escapes make that
		// ambiguous); approximate using the decoded value length plus the
		// two quote bytes, which is exact for the common unescaped case
		// and only imprecise for scalars containing escape sequences,
		// where callers should prefer UnquotedSpan's start and re-derive
		// length from source lookups instead of trusting the end byte.
		bodyStart := start + 1
		bodyEnd := bodyStart + len(n.Value)
		full = Span{Start: start, End: bodyEnd + 1}
		unquoted = Span{Start: bodyStart, End: bodyEnd}
	case yaml.LiteralStyle, yaml.FoldedStyle:
		full = Span{Start: start, End: start + len(n.Value)}
		unquoted = full
	default:
		full = Span{Start: start, End: start + len(n.Value)}
		unquoted = full
	}
	return full, unquoted
}
