package expr

// Node is any expression AST node. Every concrete node embeds its Span so
// an audit can build a finding that cites a sub-expression rather than the
// entire `${{ … }}` body.
type Node interface {
	span() Span
}

// Ident is a bare identifier or context root, e.g. "github", "secrets".
type Ident struct {
	Name string
	Sp   Span
}

func (n *Ident) span() Span { return n.Sp }

// NumberLit, StringLit, BoolLit, NullLit are literal leaves.
type NumberLit struct {
	Text string
	Sp   Span
}

func (n *NumberLit) span() Span { return n.Sp }

type StringLit struct {
	Value string
	Sp    Span
}

func (n *StringLit) span() Span { return n.Sp }

type BoolLit struct {
	Value bool
	Sp    Span
}

func (n *BoolLit) span() Span { return n.Sp }

type NullLit struct{ Sp Span }

func (n *NullLit) span() Span { return n.Sp }

// Member is dotted property access: Target.Name (e.g. "github.event").
type Member struct {
	Target Node
	Name   string
	Sp     Span
}

func (n *Member) span() Span { return n.Sp }

// Splat is ".*" applied to Target, producing a "collection" typed value
//.
type Splat struct {
	Target Node
	Sp     Span
}

func (n *Splat) span() Span { return n.Sp }

// Index is bracket indexing: Target[Key], where Key may itself be an
// arbitrary expression (computed indices like a[b.c] are flagged by the
// obfuscation detector).
type Index struct {
	Target Node
	Key    Node
	Sp     Span
}

func (n *Index) span() Span { return n.Sp }

// Call is a function application, e.g. contains(a, b).
type Call struct {
	Name string
	Args []Node
	Sp   Span
}

func (n *Call) span() Span { return n.Sp }

// Unary is a prefix operator, currently only "!".
type Unary struct {
	Op      string
	Operand Node
	Sp      Span
}

func (n *Unary) span() Span { return n.Sp }

// Binary is an infix operator: ==, !=, <, <=, >, >=, &&, ||.
type Binary struct {
	Op    string
	Left  Node
	Right Node
	Sp    Span
}

func (n *Binary) span() Span { return n.Sp }

// Span returns a node's byte span relative to the expression body.
func NodeSpan(n Node) Span { return n.span() }
