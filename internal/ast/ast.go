package ast

import (
	"fmt"
	"strings"

	"regexkit/internal/token"
)

type Kind int

const (
	KindEmpty   Kind = iota // success marker
	KindGroup               // fixed ordered sequence
	KindCatalog             // accumulated repetitions
	KindWrapper             // one token
	KindSet                 // [...] / [^...]
	KindRange               // a-z inside a set
	KindKleene              // * + ?
)

// Node is the closed set of parse tree variants. Children lists the direct
// child nodes in order; leaves return nil. Nodes hold no parent links.
type Node interface {
	Kind() Kind
	Children() []Node
	String() string
}

type empty struct{}

// Empty is returned by optional productions that did not match.
var Empty Node = empty{}

func (empty) Kind() Kind       { return KindEmpty }
func (empty) Children() []Node { return nil }
func (empty) String() string   { return "Empty" }

// Group is an immutable ordered sequence; items are numbered from 1.
type Group struct {
	nodes []Node
}

func NewGroup(nodes ...Node) *Group {
	return &Group{nodes: append([]Node(nil), nodes...)}
}

func (g *Group) Kind() Kind       { return KindGroup }
func (g *Group) Len() int         { return len(g.nodes) }
func (g *Group) Children() []Node { return append([]Node(nil), g.nodes...) }

// Item returns the i-th node, counting from 1.
func (g *Group) Item(i int) Node { return g.nodes[i-1] }

// Select projects the group onto the given 1-based indices.
func (g *Group) Select(idx ...int) *Group {
	out := make([]Node, 0, len(idx))
	for _, i := range idx {
		out = append(out, g.nodes[i-1])
	}
	return &Group{nodes: out}
}

func (g *Group) String() string { return "Group(" + join(g.nodes) + ")" }

// Catalog collects repetition results. It grows with Add and has no projection.
type Catalog struct {
	nodes []Node
}

func NewCatalog(nodes ...Node) *Catalog {
	return &Catalog{nodes: append([]Node(nil), nodes...)}
}

func (c *Catalog) Kind() Kind       { return KindCatalog }
func (c *Catalog) Len() int         { return len(c.nodes) }
func (c *Catalog) Add(n Node)       { c.nodes = append(c.nodes, n) }
func (c *Catalog) Item(i int) Node  { return c.nodes[i-1] }
func (c *Catalog) Children() []Node { return append([]Node(nil), c.nodes...) }
func (c *Catalog) String() string   { return "Catalog(" + join(c.nodes) + ")" }

// Wrapper is a leaf holding a single token.
type Wrapper struct {
	Token token.Token
}

func Wrap(t token.Token) *Wrapper { return &Wrapper{Token: t} }

func (w *Wrapper) Kind() Kind       { return KindWrapper }
func (w *Wrapper) Children() []Node { return nil }
func (w *Wrapper) String() string   { return "Wrapper(" + w.Token.String() + ")" }

type Set struct {
	Positive bool
	Items    *Catalog
}

func (s *Set) Kind() Kind       { return KindSet }
func (s *Set) Children() []Node { return []Node{s.Items} }

func (s *Set) String() string {
	sign := "+"
	if !s.Positive {
		sign = "-"
	}
	return "Set(" + sign + s.Items.String() + ")"
}

type Range struct {
	From, To Node
}

func (r *Range) Kind() Kind       { return KindRange }
func (r *Range) Children() []Node { return []Node{r.From, r.To} }
func (r *Range) String() string   { return fmt.Sprintf("Range(%s, %s)", r.From, r.To) }

type Repetition int

const (
	ZeroOrMore Repetition = iota
	OneOrMore
	Optional
)

func (r Repetition) String() string {
	switch r {
	case ZeroOrMore:
		return "*"
	case OneOrMore:
		return "+"
	case Optional:
		return "?"
	}
	return fmt.Sprintf("Repetition(%d)", int(r))
}

type Kleene struct {
	Child Node
	Rep   Repetition
}

func (k *Kleene) Kind() Kind       { return KindKleene }
func (k *Kleene) Children() []Node { return []Node{k.Child} }
func (k *Kleene) String() string   { return fmt.Sprintf("Kleene(%s, %s)", k.Rep, k.Child) }

func join(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, ", ")
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the children of that node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// Leaves returns the tokens of all Wrapper nodes under n in order.
func Leaves(n Node) []token.Token {
	var out []token.Token
	Walk(n, func(n Node) bool {
		if w, ok := n.(*Wrapper); ok {
			out = append(out, w.Token)
		}
		return true
	})
	return out
}
