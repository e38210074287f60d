package grammar

import (
	"strings"

	"regexkit/internal/ast"
)

// Format writes a parse tree back out in regex syntax.
// Format(ParseString(s)) == s for every s the grammar accepts.
func Format(n ast.Node) string {
	var b strings.Builder
	formatRE(&b, n)
	return b.String()
}

func formatRE(b *strings.Builder, n ast.Node) {
	g, ok := n.(*ast.Group)
	if !ok {
		formatConcat(b, n)
		return
	}
	for i, alt := range g.Children() {
		if i > 0 {
			b.WriteByte('|')
		}
		formatConcat(b, alt)
	}
}

func formatConcat(b *strings.Builder, n ast.Node) {
	c, ok := n.(*ast.Catalog)
	if !ok {
		formatBasic(b, n)
		return
	}
	for _, item := range c.Children() {
		formatBasic(b, item)
	}
}

func formatBasic(b *strings.Builder, n ast.Node) {
	k, ok := n.(*ast.Kleene)
	if !ok {
		formatElementary(b, n)
		return
	}
	formatElementary(b, k.Child)
	b.WriteString(k.Rep.String())
}

func formatElementary(b *strings.Builder, n ast.Node) {
	switch n := n.(type) {
	case *ast.Wrapper:
		b.WriteString(n.Token.Value)
	case *ast.Set:
		b.WriteByte('[')
		if !n.Positive {
			b.WriteByte('^')
		}
		for _, item := range n.Items.Children() {
			formatElementary(b, item)
		}
		b.WriteByte(']')
	case *ast.Range:
		formatElementary(b, n.From)
		b.WriteByte('-')
		formatElementary(b, n.To)
	case *ast.Group, *ast.Catalog, *ast.Kleene:
		b.WriteByte('(')
		formatRE(b, n)
		b.WriteByte(')')
	}
}
