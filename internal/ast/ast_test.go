package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regexkit/internal/source"
	"regexkit/internal/token"
)

func leaf(src *source.Source, i int) *Wrapper {
	return Wrap(token.New(token.Character, src.Text()[i:i+1], src.Pos(i)))
}

func TestGroupSelect(t *testing.T) {
	src := source.New("abc")
	g := NewGroup(leaf(src, 0), leaf(src, 1), leaf(src, 2))

	assert.Equal(t, 3, g.Len())
	assert.Equal(t, "b", g.Item(2).(*Wrapper).Token.Value)

	sel := g.Select(1, 3)
	require.Equal(t, 2, sel.Len())
	assert.Equal(t, "a", sel.Item(1).(*Wrapper).Token.Value)
	assert.Equal(t, "c", sel.Item(2).(*Wrapper).Token.Value)
}

func TestGroupImmutable(t *testing.T) {
	src := source.New("ab")
	in := []Node{leaf(src, 0)}
	g := NewGroup(in...)
	in[0] = leaf(src, 1)
	kids := g.Children()
	kids[0] = Empty

	assert.Equal(t, "a", g.Item(1).(*Wrapper).Token.Value)
}

func TestCatalogAdd(t *testing.T) {
	src := source.New("ab")
	c := NewCatalog()
	c.Add(leaf(src, 0))
	c.Add(leaf(src, 1))
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "b", c.Item(2).(*Wrapper).Token.Value)
}

func TestWalkAndLeaves(t *testing.T) {
	src := source.New("a-zx")
	set := &Set{
		Positive: false,
		Items: NewCatalog(
			&Range{From: leaf(src, 0), To: leaf(src, 2)},
			leaf(src, 3),
		),
	}
	root := NewGroup(NewCatalog(&Kleene{Child: set, Rep: OneOrMore}))

	var kinds []Kind
	Walk(root, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})
	assert.Equal(t, []Kind{
		KindGroup, KindCatalog, KindKleene, KindSet, KindCatalog,
		KindRange, KindWrapper, KindWrapper, KindWrapper,
	}, kinds)

	var values []string
	for _, tok := range Leaves(root) {
		values = append(values, tok.Value)
	}
	assert.Equal(t, []string{"a", "z", "x"}, values)

	assert.Contains(t, root.String(), "Kleene(+, Set(-Catalog(Range(")
}

func TestWalkSkip(t *testing.T) {
	src := source.New("a")
	root := NewGroup(&Kleene{Child: leaf(src, 0), Rep: Optional})
	n := 0
	Walk(root, func(Node) bool {
		n++
		return false
	})
	assert.Equal(t, 1, n)
}
