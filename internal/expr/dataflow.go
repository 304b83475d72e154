package expr

import "strings"

// maxDataflowDepth bounds fixed-point recursion when resolving env/with
// chains that reference each other, to guard against cyclic definitions.
const maxDataflowDepth = 8

// Environment is the ordered stack of lexically containing scopes at one
// expansion site: innermost first (step env, then job env, then workflow
// env; or step with, or reusable-workflow inputs, depending on the
// context root being resolved).
type Environment struct {
	scopes []map[string]string
}

// NewEnvironment builds an Environment from innermost to outermost scope.
func NewEnvironment(scopes ...map[string]string) *Environment {
	return &Environment{scopes: scopes}
}

// Lookup finds the nearest binding for name, walking from the innermost
// scope outward — the usual shadowing rule.
func (e *Environment) Lookup(name string) (string, bool) {
	for _, scope := range e.scopes {
		if v, ok := scope[name]; ok {
			return v, true
		}
	}
	return "", false
}

// ExtractExpressions finds every "${{ … }}" body within text, in order.
func ExtractExpressions(text string) []string {
	var out []string
	i := 0
	for {
		start := strings.Index(text[i:], "${{")
		if start < 0 {
			break
		}
		start += i
		end := strings.Index(text[start:], "}}")
		if end < 0 {
			break
		}
		end += start
		out = append(out, strings.TrimSpace(text[start+3:end]))
		i = end + 2
	}
	return out
}

// IsStaticValue reports whether value is "static": it
// contains no template expressions, or every expression it contains is
// itself static by recursive application of this same rule, up to
// maxDataflowDepth. A binding whose RHS cannot be parsed is treated
// conservatively as non-static.
func IsStaticValue(value string, env *Environment) bool {
	return isStaticValueAt(value, env, 0)
}

func isStaticValueAt(value string, env *Environment, depth int) bool {
	exprs := ExtractExpressions(value)
	if len(exprs) == 0 {
		return true
	}
	if depth >= maxDataflowDepth {
		return false
	}
	for _, body := range exprs {
		node, err := Parse(body)
		if err != nil {
			return false
		}
		if !isStaticExpr(node, env, depth) {
			return false
		}
	}
	return true
}

// isStaticExpr determines whether an already-parsed expression resolves
// to a statically known value: string/number/bool/null literals are
// trivially static; a context path is static iff it resolves through env
// to a binding that is itself static.
func isStaticExpr(n Node, env *Environment, depth int) bool {
	switch v := n.(type) {
	case *StringLit, *NumberLit, *BoolLit, *NullLit:
		return true
	case *Ident:
		return isStaticContextPath([]string{v.Name}, env, depth)
	case *Member:
		path := NormalizePath(v)
		return isStaticContextPath(path, env, depth)
	case *Call:
		if v.Name != "format" {
			return false
		}
		for _, arg := range v.Args {
			if !isStaticExpr(arg, env, depth) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func isStaticContextPath(path []string, env *Environment, depth int) bool {
	if len(path) != 2 {
		return false
	}
	root, name := path[0], path[1]
	if root != "env" && root != "inputs" {
		return false
	}
	binding, ok := env.Lookup(name)
	if !ok {
		return false
	}
	return isStaticValueAt(binding, env, depth+1)
}
