// Package grammar instantiates the regex grammar on top of the peg engine:
//
//	RE            := RE '|' concatenation / concatenation
//	concatenation := concatenation basic-RE / basic-RE
//	basic-RE      := elementary-RE ('*' | '+' | '?')?
//	elementary-RE := group | '.' | '$' | char-set | CHARACTER
//	group         := '(' RE ')'
//	char-set      := '[' '^'? set-items ']'
//	set-items     := (range | set-char)+
//	range         := set-char '-' set-char
//	set-char      := !']' <any token but EOF>
//
// RE yields a Group of alternatives, each alternative a Catalog of basic-REs.
package grammar

import (
	"errors"
	"fmt"

	"regexkit/internal/ast"
	"regexkit/internal/lexer"
	"regexkit/internal/peg"
	"regexkit/internal/source"
	"regexkit/internal/token"
)

var ErrNoMatch = errors.New("grammar: input is not a regular expression")

const (
	RuleRE            peg.RuleID = "RE"
	RuleConcatenation peg.RuleID = "concatenation"
	RuleBasic         peg.RuleID = "basic-RE"
	RuleElementary    peg.RuleID = "elementary-RE"
	RuleGroup         peg.RuleID = "group"
	RuleCharSet       peg.RuleID = "char-set"
	RuleSetItems      peg.RuleID = "set-items"
	RuleRange         peg.RuleID = "range"
	RuleSetChar       peg.RuleID = "set-char"
)

var repetitions = map[string]ast.Repetition{
	"*": ast.ZeroOrMore,
	"+": ast.OneOrMore,
	"?": ast.Optional,
}

func re(p *peg.Parser) ast.Node {
	return p.Memo(RuleRE, true, func(p *peg.Parser) ast.Node {
		if n := peg.Sequence(re, peg.MatchValue("|"), concatenation)(p); n != nil {
			g := n.(*ast.Group)
			alts := g.Item(1).(*ast.Group).Children()
			return ast.NewGroup(append(alts, g.Item(3))...)
		}
		if n := concatenation(p); n != nil {
			return ast.NewGroup(n)
		}
		return nil
	})
}

func concatenation(p *peg.Parser) ast.Node {
	return p.Memo(RuleConcatenation, true, func(p *peg.Parser) ast.Node {
		if n := peg.Sequence(concatenation, basic)(p); n != nil {
			g := n.(*ast.Group)
			items := g.Item(1).(*ast.Catalog).Children()
			return ast.NewCatalog(append(items, g.Item(2))...)
		}
		if n := basic(p); n != nil {
			return ast.NewCatalog(n)
		}
		return nil
	})
}

var quantifier = peg.Optional(peg.Choice(
	peg.MatchValue("*"),
	peg.MatchValue("+"),
	peg.MatchValue("?"),
))

func basic(p *peg.Parser) ast.Node {
	return p.Memo(RuleBasic, false, func(p *peg.Parser) ast.Node {
		n := peg.Sequence(elementary, quantifier)(p)
		if n == nil {
			return nil
		}
		g := n.(*ast.Group)
		w, ok := g.Item(2).(*ast.Wrapper)
		if !ok {
			return g.Item(1)
		}
		return &ast.Kleene{Child: g.Item(1), Rep: repetitions[w.Token.Value]}
	})
}

func elementary(p *peg.Parser) ast.Node {
	return p.Memo(RuleElementary, false, peg.Choice(
		group,
		peg.MatchValue("."),
		peg.MatchValue("$"),
		charSet,
		peg.MatchType(token.Character),
	))
}

func group(p *peg.Parser) ast.Node {
	return p.Memo(RuleGroup, false, func(p *peg.Parser) ast.Node {
		n := peg.Sequence(peg.MatchValue("("), re, peg.MatchValue(")"))(p)
		if n == nil {
			return nil
		}
		return n.(*ast.Group).Item(2)
	})
}

func charSet(p *peg.Parser) ast.Node {
	return p.Memo(RuleCharSet, false, func(p *peg.Parser) ast.Node {
		n := peg.Sequence(
			peg.MatchValue("["),
			peg.Optional(peg.MatchValue("^")),
			setItems,
			peg.MatchValue("]"),
		)(p)
		if n == nil {
			return nil
		}
		g := n.(*ast.Group)
		return &ast.Set{Positive: g.Item(2) == ast.Empty, Items: g.Item(3).(*ast.Catalog)}
	})
}

func setItems(p *peg.Parser) ast.Node {
	return p.Memo(RuleSetItems, false, peg.OneOrMore(peg.Choice(rangeItem, setChar)))
}

func rangeItem(p *peg.Parser) ast.Node {
	return p.Memo(RuleRange, false, func(p *peg.Parser) ast.Node {
		n := peg.Sequence(setChar, peg.MatchValue("-"), setChar)(p)
		if n == nil {
			return nil
		}
		g := n.(*ast.Group)
		return &ast.Range{From: g.Item(1), To: g.Item(3)}
	})
}

func setChar(p *peg.Parser) ast.Node {
	return p.Memo(RuleSetChar, false, func(p *peg.Parser) ast.Node {
		n := peg.Sequence(peg.NotAhead(peg.MatchValue("]")), peg.MatchAny())(p)
		if n == nil {
			return nil
		}
		return n.(*ast.Group).Item(2)
	})
}

// Parser parses one token stream.
type Parser struct {
	p *peg.Parser
}

func NewParser(src peg.TokenSource, opts ...peg.Option) *Parser {
	return &Parser{p: peg.New(src, opts...)}
}

// Parse recognizes RE followed by EOF. There is no partial result.
func (p *Parser) Parse() (ast.Node, error) {
	p.p.Reset(0)
	n := peg.Sequence(re, peg.MatchType(token.EOF))(p.p)
	if n == nil {
		return nil, ErrNoMatch
	}
	return n.(*ast.Group).Item(1), nil
}

func (p *Parser) Stats() peg.Stats { return p.p.Stats() }

func Parse(src peg.TokenSource, opts ...peg.Option) (ast.Node, error) {
	return NewParser(src, opts...).Parse()
}

// ParseString tokenizes and parses pattern.
func ParseString(pattern string, opts ...peg.Option) (ast.Node, error) {
	stream := lexer.Tokenize(source.New(pattern))
	n, err := Parse(stream, opts...)
	if lerr := stream.Err(); lerr != nil {
		return nil, lerr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, pattern)
	}
	return n, nil
}
