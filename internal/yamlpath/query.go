package yamlpath

import "github.com/octoguard/octoguard/internal/yamlmodel"

// Query resolves a Route against a root node, returning the node it points
// to and whether every component along the way existed.
func Query(root *yamlmodel.Node, route Route) (*yamlmodel.Node, bool) {
	cur := root
	for _, c := range route {
		if cur == nil {
			return nil, false
		}
		if c.IsIndex() {
			if cur.Kind != yamlmodel.KindSequence || int(c.Index) >= len(cur.Items) {
				return nil, false
			}
			cur = cur.Items[c.Index]
			continue
		}
		next, ok := cur.MapGet(c.Key)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, cur != nil
}

// Matcher is a predicate used by Find to select nodes during a full-tree
// walk, the way the teacher's findUpdatesInNodes hardcodes "key == uses".
type Matcher func(route Route, node *yamlmodel.Node) bool

// Match is one (Route, Node) pair produced by Find.
type Match struct {
	Route Route
	Node  *yamlmodel.Node
}

// Find walks the entire tree rooted at root, depth-first, calling match at
// every node and collecting the ones it accepts. Order is deterministic:
// mapping keys are visited in source (document) order, sequence items in
// index order.
func Find(root *yamlmodel.Node, match Matcher) []Match {
	var out []Match
	var walk func(route Route, n *yamlmodel.Node)
	walk = func(route Route, n *yamlmodel.Node) {
		if n == nil {
			return
		}
		if match(route, n) {
			out = append(out, Match{Route: route, Node: n})
		}
		switch n.Kind {
		case yamlmodel.KindMapping:
			for i, k := range n.Keys {
				walk(route.Append(Key(k.ScalarValue)), n.Values[i])
			}
		case yamlmodel.KindSequence:
			for i, item := range n.Items {
				walk(route.Append(Index(uint(i))), item)
			}
		}
	}
	walk(nil, root)
	return out
}

// FindKey returns every node reachable under a mapping key named name,
// anywhere in the tree, paired with its route. Used by audits that look for
// a shape regardless of surrounding structure, e.g. every "uses:" value.
func FindKey(root *yamlmodel.Node, name string) []Match {
	return Find(root, func(route Route, node *yamlmodel.Node) bool {
		return len(route) > 0 && !route[len(route)-1].IsIndex() && route[len(route)-1].Key == name
	})
}
