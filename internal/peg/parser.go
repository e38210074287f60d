// Package peg is a memoizing backtracking parser over a token stream.
//
// Productions report failure by returning a nil node and leave the cursor
// where they found it. Results are memoized per (position, rule), and rules
// marked left-recursive are grown from a failing seed until they stop
// consuming more input.
package peg

import (
	"regexkit/internal/ast"
	"regexkit/internal/logutil"
	"regexkit/internal/token"
)

// TokenSource yields tokens in order and ends with an EOF token.
type TokenSource interface {
	Next() token.Token
}

// RuleID names a production in the memo table.
type RuleID string

// Production recognizes input at the cursor. A nil result is a failure.
type Production func(p *Parser) ast.Node

type memoKey struct {
	pos  int
	rule RuleID
}

type memoEntry struct {
	node ast.Node
	end  int
}

type Stats struct {
	Hits       int // memo replays
	Misses     int // rule evaluations
	Iterations int // left-recursion growth rounds
}

type Option func(*Parser)

// WithoutMemo disables replay for rules that are not left-recursive.
// Results stay the same; only the amount of work changes.
func WithoutMemo() Option {
	return func(p *Parser) { p.noMemo = true }
}

// Parser owns the cursor, the token buffer and the memo table. It is not
// safe for concurrent use.
type Parser struct {
	src    TokenSource
	tokens []token.Token
	pos    int
	memo   map[memoKey]memoEntry
	noMemo bool
	stats  Stats
}

func New(src TokenSource, opts ...Option) *Parser {
	p := &Parser{src: src, memo: make(map[memoKey]memoEntry)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) Mark() int     { return p.pos }
func (p *Parser) Reset(pos int) { p.pos = pos }
func (p *Parser) Stats() Stats  { return p.stats }
func (p *Parser) Buffered() int { return len(p.tokens) }

// Peek returns the token at the cursor without consuming it. The source is
// read at most once per position and never past EOF.
func (p *Parser) Peek() token.Token {
	for len(p.tokens) <= p.pos {
		if n := len(p.tokens); n > 0 && p.tokens[n-1].Type == token.EOF {
			return p.tokens[n-1]
		}
		p.tokens = append(p.tokens, p.src.Next())
	}
	return p.tokens[p.pos]
}

func (p *Parser) next() token.Token {
	t := p.Peek()
	p.pos++
	return t
}

// Memo runs body at the cursor through the memo table.
func (p *Parser) Memo(id RuleID, leftRecursive bool, body Production) ast.Node {
	start := p.pos
	key := memoKey{pos: start, rule: id}
	if e, ok := p.memo[key]; ok && (leftRecursive || !p.noMemo) {
		p.stats.Hits++
		p.pos = e.end
		return e.node
	}
	p.stats.Misses++

	if !leftRecursive {
		n := body(p)
		if n == nil {
			p.pos = start
		}
		p.memo[key] = memoEntry{node: n, end: p.pos}
		return n
	}

	// Seed with a failure, then re-run the body while it keeps growing.
	var best ast.Node
	end := start
	p.memo[key] = memoEntry{node: nil, end: start}
	for round := 1; ; round++ {
		p.pos = start
		n := body(p)
		p.stats.Iterations++
		if n == nil || (best != nil && p.pos <= end) {
			break
		}
		best, end = n, p.pos
		p.memo[key] = memoEntry{node: best, end: end}
		if logutil.TraceEnabled() {
			logutil.Trace("left recursion grew", "rule", string(id), "start", start, "end", end, "round", round)
		}
	}
	p.pos = end
	return best
}

// Rule wraps body as a memoized production.
func Rule(id RuleID, leftRecursive bool, body Production) Production {
	return func(p *Parser) ast.Node { return p.Memo(id, leftRecursive, body) }
}
