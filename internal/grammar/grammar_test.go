package grammar

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regexkit/internal/ast"
	"regexkit/internal/peg"
	"regexkit/internal/source"
	"regexkit/internal/token"
)

type sliceSource struct {
	toks []token.Token
	i    int
}

func (s *sliceSource) Next() token.Token {
	t := s.toks[s.i]
	if s.i < len(s.toks)-1 {
		s.i++
	}
	return t
}

func mustParse(t *testing.T, pattern string) ast.Node {
	t.Helper()
	n, err := ParseString(pattern)
	require.NoErrorf(t, err, "parse %q", pattern)
	return n
}

func TestTwoCharacters(t *testing.T) {
	src := source.New("ab")
	stream := &sliceSource{toks: []token.Token{
		token.New(token.Character, "a", src.Pos(0)),
		token.New(token.Character, "b", src.Pos(1)),
		token.New(token.EOF, "", src.Pos(2)),
	}}
	n, err := Parse(stream)
	require.NoError(t, err)

	g, ok := n.(*ast.Group)
	require.True(t, ok)
	require.Equal(t, 1, g.Len())

	leaves := ast.Leaves(g)
	require.Len(t, leaves, 2)
	assert.Equal(t, "a", leaves[0].Value)
	assert.Equal(t, "b", leaves[1].Value)
}

func TestAlternativesAreFlat(t *testing.T) {
	n := mustParse(t, "a|b|c")
	g := n.(*ast.Group)
	require.Equal(t, 3, g.Len())
	for i, want := range []string{"a", "b", "c"} {
		c, ok := g.Item(i + 1).(*ast.Catalog)
		require.True(t, ok)
		require.Equal(t, 1, c.Len())
		assert.Equal(t, want, c.Item(1).(*ast.Wrapper).Token.Value)
	}
}

func TestShapes(t *testing.T) {
	n := mustParse(t, "(a|b)*")
	k := n.(*ast.Group).Item(1).(*ast.Catalog).Item(1).(*ast.Kleene)
	assert.Equal(t, ast.ZeroOrMore, k.Rep)
	assert.Equal(t, 2, k.Child.(*ast.Group).Len())

	n = mustParse(t, "[^0-9x]?")
	k = n.(*ast.Group).Item(1).(*ast.Catalog).Item(1).(*ast.Kleene)
	assert.Equal(t, ast.Optional, k.Rep)
	set := k.Child.(*ast.Set)
	assert.False(t, set.Positive)
	require.Equal(t, 2, set.Items.Len())
	r := set.Items.Item(1).(*ast.Range)
	assert.Equal(t, "0", r.From.(*ast.Wrapper).Token.Value)
	assert.Equal(t, "9", r.To.(*ast.Wrapper).Token.Value)

	n = mustParse(t, "[a-z]+")
	k = n.(*ast.Group).Item(1).(*ast.Catalog).Item(1).(*ast.Kleene)
	assert.Equal(t, ast.OneOrMore, k.Rep)
	assert.True(t, k.Child.(*ast.Set).Positive)
}

func TestSetEdges(t *testing.T) {
	// '-' at the end and metacharacters inside a set are members
	n := mustParse(t, "[a-]")
	set := n.(*ast.Group).Item(1).(*ast.Catalog).Item(1).(*ast.Set)
	require.Equal(t, 2, set.Items.Len())
	assert.Equal(t, "-", set.Items.Item(2).(*ast.Wrapper).Token.Value)

	n = mustParse(t, "[.*(]")
	set = n.(*ast.Group).Item(1).(*ast.Catalog).Item(1).(*ast.Set)
	assert.Equal(t, 3, set.Items.Len())

	n = mustParse(t, `[a\]]`)
	set = n.(*ast.Group).Item(1).(*ast.Catalog).Item(1).(*ast.Set)
	assert.Equal(t, `\]`, set.Items.Item(2).(*ast.Wrapper).Token.Value)
}

func TestRejects(t *testing.T) {
	for _, pattern := range []string{
		"", "a||b", "|a", "a|", "[]", "[^]", "[a]]", "(a", "a)", "()",
		"*a", "a**", "a-b", "[a",
	} {
		_, err := ParseString(pattern)
		assert.Truef(t, errors.Is(err, ErrNoMatch), "%q: %v", pattern, err)
	}
}

func TestTrailingBackslashIsLexError(t *testing.T) {
	n, err := ParseString(`ab\`)
	require.Error(t, err)
	assert.Nil(t, n)
	assert.False(t, errors.Is(err, ErrNoMatch), "%v", err)
}

func TestRoundTrip(t *testing.T) {
	for _, pattern := range []string{
		"(a|b)*", "[a-z]+", "[^0-9]?", "ab", "a.b$", `\*\(x\)`, "((a))",
		"[a-]", "[.*]", "a|bc*|[^x-z]", "(ab|a)*c", "x(y(z|w)+)?", "é+",
	} {
		first := mustParse(t, pattern)
		out := Format(first)
		assert.Equal(t, pattern, out)
		second := mustParse(t, out)
		assert.Equal(t, first.String(), second.String())
	}
}

func TestDeterministic(t *testing.T) {
	const pattern = "(a|b|c)*[^d-f]+x?|y"
	a := mustParse(t, pattern)
	b := mustParse(t, pattern)
	c, err := ParseString(pattern, peg.WithoutMemo())
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, a.String(), c.String())
}

func TestParseTwiceWithOneParser(t *testing.T) {
	p := NewParser(&sliceSource{toks: mustTokens(t, "a|b")})
	a, err := p.Parse()
	require.NoError(t, err)
	b, err := p.Parse()
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Positive(t, p.Stats().Hits)
}

func mustTokens(t *testing.T, pattern string) []token.Token {
	t.Helper()
	src := source.New(pattern)
	var out []token.Token
	for i, r := range pattern {
		typ := token.Character
		if r == '|' {
			typ = token.Metacharacter
		}
		out = append(out, token.New(typ, string(r), src.Pos(i)))
	}
	return append(out, token.New(token.EOF, "", src.Pos(len(pattern))))
}

// shape is a parse tree with token positions dropped.
type shape struct {
	Kind     ast.Kind
	Value    string
	Positive bool
	Rep      ast.Repetition
	Kids     []shape
}

func shapeOf(n ast.Node) shape {
	s := shape{Kind: n.Kind()}
	switch n := n.(type) {
	case *ast.Wrapper:
		s.Value = n.Token.Value
	case *ast.Set:
		s.Positive = n.Positive
	case *ast.Kleene:
		s.Rep = n.Rep
	}
	for _, c := range n.Children() {
		s.Kids = append(s.Kids, shapeOf(c))
	}
	return s
}

type generator struct {
	rnd *rand.Rand
	src *source.Source
}

func (g *generator) leaf(typ token.Type, v string) ast.Node {
	return ast.Wrap(token.New(typ, v, g.src.Pos(0)))
}

func (g *generator) char() ast.Node {
	chars := []string{"a", "b", "c", `\*`, `\|`}
	return g.leaf(token.Character, chars[g.rnd.Intn(len(chars))])
}

func (g *generator) re(depth int) ast.Node {
	alts := make([]ast.Node, 1+g.rnd.Intn(3))
	for i := range alts {
		items := ast.NewCatalog()
		for j := 0; j < 1+g.rnd.Intn(3); j++ {
			items.Add(g.basic(depth))
		}
		alts[i] = items
	}
	return ast.NewGroup(alts...)
}

func (g *generator) basic(depth int) ast.Node {
	e := g.elementary(depth)
	if r := g.rnd.Intn(5); r < 3 {
		return &ast.Kleene{Child: e, Rep: ast.Repetition(r)}
	}
	return e
}

func (g *generator) elementary(depth int) ast.Node {
	switch g.rnd.Intn(5) {
	case 0:
		if depth > 0 {
			return g.re(depth - 1)
		}
		return g.char()
	case 1:
		return g.leaf(token.Metacharacter, ".")
	case 2:
		items := ast.NewCatalog()
		for j := 0; j < 1+g.rnd.Intn(3); j++ {
			if g.rnd.Intn(2) == 0 {
				items.Add(&ast.Range{From: g.char(), To: g.char()})
			} else {
				items.Add(g.char())
			}
		}
		return &ast.Set{Positive: g.rnd.Intn(2) == 0, Items: items}
	default:
		return g.char()
	}
}

func TestRoundTripGenerated(t *testing.T) {
	g := &generator{rnd: rand.New(rand.NewSource(7)), src: source.New("x")}
	for i := 0; i < 100; i++ {
		want := g.re(2)
		pattern := Format(want)
		got, err := ParseString(pattern)
		require.NoErrorf(t, err, "parse %q", pattern)
		if diff := cmp.Diff(shapeOf(want), shapeOf(got)); diff != "" {
			t.Fatalf("round trip of %q (-want +got):\n%s", pattern, diff)
		}
	}
}
