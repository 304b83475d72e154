package expr

import "strings"

// ObfuscationKind identifies one recognized obfuscation pattern.
type ObfuscationKind int

const (
	ObfuscationRoundTripJSON ObfuscationKind = iota
	ObfuscationConstantFormat
	ObfuscationComputedIndex
	ObfuscationRedundantPath
)

// Obfuscation is one flagged pattern with the node span that triggered it.
type Obfuscation struct {
	Kind ObfuscationKind
	Sp   Span
}

// DetectObfuscation walks an expression AST looking for known obfuscation
// patterns: fromJSON(toJSON(x)), format('constant', …constants), computed
// indices (a[b.c]), and redundant path segments in string literals.
func DetectObfuscation(n Node) []Obfuscation {
	var out []Obfuscation
	var walk func(Node)
	walk = func(node Node) {
		if node == nil {
			return
		}
		switch v := node.(type) {
		case *Call:
			if strings.EqualFold(v.Name, "fromJSON") && len(v.Args) == 1 {
				if inner, ok := v.Args[0].(*Call); ok && strings.EqualFold(inner.Name, "toJSON") {
					out = append(out, Obfuscation{Kind: ObfuscationRoundTripJSON, Sp: v.Sp})
				}
			}
			if strings.EqualFold(v.Name, "format") && len(v.Args) > 0 {
				if allConstant(v.Args) {
					out = append(out, Obfuscation{Kind: ObfuscationConstantFormat, Sp: v.Sp})
				}
			}
			for _, arg := range v.Args {
				walk(arg)
			}
		case *Index:
			if !isConstantIndex(v.Key) {
				out = append(out, Obfuscation{Kind: ObfuscationComputedIndex, Sp: v.Sp})
			}
			walk(v.Target)
			walk(v.Key)
		case *Member:
			walk(v.Target)
		case *Splat:
			walk(v.Target)
		case *Unary:
			walk(v.Operand)
		case *Binary:
			walk(v.Left)
			walk(v.Right)
		case *StringLit:
			if hasRedundantPathSegment(v.Value) {
				out = append(out, Obfuscation{Kind: ObfuscationRedundantPath, Sp: v.Sp})
			}
		}
	}
	walk(n)
	return out
}

func allConstant(nodes []Node) bool {
	for _, n := range nodes {
		switch n.(type) {
		case *StringLit, *NumberLit, *BoolLit, *NullLit:
		default:
			return false
		}
	}
	return true
}

func isConstantIndex(n Node) bool {
	switch n.(type) {
	case *StringLit, *NumberLit:
		return true
	default:
		return false
	}
}

func hasRedundantPathSegment(s string) bool {
	if !strings.Contains(s, "/") {
		return false
	}
	switch {
	case strings.HasPrefix(s, "./"):
		return true
	case strings.Contains(s, "//"):
		return true
	case strings.Contains(s, "/./"):
		return true
	case strings.Contains(s, "/../") || strings.HasSuffix(s, "/.."):
		return true
	}
	return false
}

// IsUnsoundContains reports whether a Call node is an unsound contains()
// invocation: the first argument is a scalar literal rather than an actual
// sequence, admitting substring bypasses.
// contains(fromJSON('[…]'), x) and contains(<sequence expr>, x) are sound.
func IsUnsoundContains(call *Call) bool {
	if !strings.EqualFold(call.Name, "contains") || len(call.Args) != 2 {
		return false
	}
	switch call.Args[0].(type) {
	case *StringLit:
		return true
	default:
		return false
	}
}

// IsUnsoundCondition reports whether a raw `if:` field value always
// evaluates truthy regardless of runtime state: a bare non-empty constant
// string without "${{ }}" wrapping (GitHub treats it as a literal string,
// which is truthy unless empty), or an expression that itself reduces to
// a non-empty string/true literal, e.g. "${{ 'false' }}" — the string
// "false" is still a non-empty string and thus truthy.
func IsUnsoundCondition(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return false
	}
	exprs := ExtractExpressions(trimmed)
	if len(exprs) == 0 {
		// No "${{ }}" wrapping at all: GitHub treats the whole string as
		// a literal if: condition, which is truthy whenever non-empty.
		return true
	}
	isWholeBody := len(exprs) == 1 &&
		strings.HasPrefix(trimmed, "${{") && strings.HasSuffix(trimmed, "}}")
	if isWholeBody {
		node, err := Parse(exprs[0])
		if err != nil {
			return false
		}
		return isAlwaysTruthyLiteral(node)
	}
	return false
}

func isAlwaysTruthyLiteral(n Node) bool {
	switch v := n.(type) {
	case *StringLit:
		return v.Value != ""
	case *BoolLit:
		return v.Value
	case *NumberLit:
		return v.Text != "0"
	default:
		return false
	}
}
