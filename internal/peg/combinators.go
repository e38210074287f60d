package peg

import (
	"regexkit/internal/ast"
	"regexkit/internal/token"
)

// MatchType consumes one token of type t.
func MatchType(t token.Type) Production {
	return func(p *Parser) ast.Node {
		if p.Peek().Type != t {
			return nil
		}
		return ast.Wrap(p.next())
	}
}

// MatchValue consumes one non-EOF token whose literal text is v.
func MatchValue(v string) Production {
	return func(p *Parser) ast.Node {
		tok := p.Peek()
		if tok.Type == token.EOF || tok.Value != v {
			return nil
		}
		return ast.Wrap(p.next())
	}
}

// MatchAny consumes any token except EOF.
func MatchAny() Production {
	return func(p *Parser) ast.Node {
		if p.Peek().Type == token.EOF {
			return nil
		}
		return ast.Wrap(p.next())
	}
}

// Sequence matches every production in order and yields their Group.
func Sequence(ps ...Production) Production {
	return func(p *Parser) ast.Node {
		start := p.Mark()
		nodes := make([]ast.Node, 0, len(ps))
		for _, f := range ps {
			n := f(p)
			if n == nil {
				p.Reset(start)
				return nil
			}
			nodes = append(nodes, n)
		}
		return ast.NewGroup(nodes...)
	}
}

// Choice returns the first production that matches.
func Choice(ps ...Production) Production {
	return func(p *Parser) ast.Node {
		start := p.Mark()
		for _, f := range ps {
			if n := f(p); n != nil {
				return n
			}
			p.Reset(start)
		}
		return nil
	}
}

// Optional never fails; a miss yields ast.Empty.
func Optional(f Production) Production {
	return func(p *Parser) ast.Node {
		start := p.Mark()
		if n := f(p); n != nil {
			return n
		}
		p.Reset(start)
		return ast.Empty
	}
}

// Lookahead succeeds with f's result when f matches, without consuming input.
func Lookahead(f Production) Production {
	return func(p *Parser) ast.Node {
		start := p.Mark()
		n := f(p)
		p.Reset(start)
		return n
	}
}

// NotAhead succeeds with ast.Empty when f does not match. It never consumes input.
func NotAhead(f Production) Production {
	return func(p *Parser) ast.Node {
		start := p.Mark()
		n := f(p)
		p.Reset(start)
		if n != nil {
			return nil
		}
		return ast.Empty
	}
}

func repeat(p *Parser, f Production, c *ast.Catalog) *ast.Catalog {
	for {
		start := p.Mark()
		n := f(p)
		if n == nil {
			p.Reset(start)
			return c
		}
		c.Add(n)
		// A match that consumed nothing would repeat forever.
		if p.Mark() == start {
			return c
		}
	}
}

// OneOrMore greedily repeats f and fails if it never matched.
func OneOrMore(f Production) Production {
	return func(p *Parser) ast.Node {
		first := f(p)
		if first == nil {
			return nil
		}
		return repeat(p, f, ast.NewCatalog(first))
	}
}

// ZeroOrMore greedily repeats f; it never fails.
func ZeroOrMore(f Production) Production {
	return func(p *Parser) ast.Node {
		return repeat(p, f, ast.NewCatalog())
	}
}

// SeparatedOneOrMore matches f (sep f)*. A separator not followed by f is
// left unconsumed.
func SeparatedOneOrMore(f, sep Production) Production {
	return func(p *Parser) ast.Node {
		start := p.Mark()
		first := f(p)
		if first == nil {
			p.Reset(start)
			return nil
		}
		return separated(p, f, sep, ast.NewCatalog(first))
	}
}

// SeparatedZeroOrMore is SeparatedOneOrMore that yields an empty Catalog
// instead of failing.
func SeparatedZeroOrMore(f, sep Production) Production {
	return func(p *Parser) ast.Node {
		start := p.Mark()
		first := f(p)
		if first == nil {
			p.Reset(start)
			return ast.NewCatalog()
		}
		return separated(p, f, sep, ast.NewCatalog(first))
	}
}

func separated(p *Parser, f, sep Production, c *ast.Catalog) *ast.Catalog {
	for {
		before := p.Mark()
		if sep(p) == nil {
			p.Reset(before)
			return c
		}
		n := f(p)
		if n == nil {
			p.Reset(before)
			return c
		}
		c.Add(n)
	}
}
