// Package yamlpath resolves explicit, structural routes into a parsed
// yamlmodel.Tree. It generalizes the teacher's cmd/root.go recursive walk
// (findUpdatesInNodes, which descends any yaml.Node looking specifically
// for "uses:" entries) into a reusable "give me the node at this route"
// primitive that every schema and audit package can share.
package yamlpath

import "fmt"

// Component is one step of a Route: either a mapping key or a sequence
// index.
type Component struct {
	Key      string
	Index    uint
	isIndex  bool
}

// Key builds a mapping-key route component.
func Key(k string) Component { return Component{Key: k} }

// Index builds a sequence-index route component.
func Index(i uint) Component { return Component{Index: i, isIndex: true} }

// IsIndex reports whether this component is a sequence index rather than a
// mapping key.
func (c Component) IsIndex() bool { return c.isIndex }

func (c Component) String() string {
	if c.isIndex {
		return fmt.Sprintf("[%d]", c.Index)
	}
	return c.Key
}

// Route is a sequence of Components identifying one node relative to a
// tree's root, e.g. Route{Key("jobs"), Key("build"), Key("steps"), Index(0),
// Key("uses")}.
type Route []Component

func (r Route) String() string {
	s := ""
	for i, c := range r {
		if c.IsIndex() {
			s += c.String()
		} else if i == 0 {
			s += c.String()
		} else {
			s += "." + c.String()
		}
	}
	return s
}

// Append returns a new Route with additional components, leaving the
// receiver untouched.
func (r Route) Append(c ...Component) Route {
	out := make(Route, 0, len(r)+len(c))
	out = append(out, r...)
	out = append(out, c...)
	return out
}
