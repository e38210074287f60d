// Package compile turns regular expressions into automata with the Thompson
// construction. Patterns always match whole strings.
package compile

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"regexkit/internal/ast"
	"regexkit/internal/envconfig"
	"regexkit/internal/fsm"
	"regexkit/internal/grammar"
	"regexkit/internal/token"
)

var (
	ErrEmptySet = errors.New("compile: character range is empty")
	ErrBadRange = errors.New("compile: range bounds must be single characters")
	ErrUniverse = errors.New("compile: unknown universe")
)

// Universe returns the symbols that '.' and negated sets range over.
func Universe(name string) ([]rune, error) {
	var hi rune
	switch name {
	case "ascii":
		hi = 0x7f
	case "latin1":
		hi = 0xff
	default:
		return nil, fmt.Errorf("%w: %q", ErrUniverse, name)
	}
	u := make([]rune, 0, hi+1)
	for r := rune(0); r <= hi; r++ {
		u = append(u, r)
	}
	return u, nil
}

type config struct {
	universe []rune
}

type Option func(*config)

// WithUniverse sets the symbols matched by '.' and negated sets. The default
// comes from REGEXKIT_UNIVERSE.
func WithUniverse(universe []rune) Option {
	return func(c *config) { c.universe = universe }
}

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	if c.universe == nil {
		u, err := Universe(envconfig.Universe)
		if err != nil {
			u, _ = Universe("ascii")
		}
		c.universe = u
	}
	return c
}

// CompileNFA parses pattern and builds an automaton for it.
func CompileNFA(pattern string, opts ...Option) (*fsm.NFA, error) {
	n, err := grammar.ParseString(pattern)
	if err != nil {
		return nil, err
	}
	nfa, err := Build(n, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, pattern)
	}
	slog.Debug("compile: built nfa", "pattern", pattern, "states", len(nfa.States()))
	return nfa, nil
}

// CompileDFA is CompileNFA followed by the subset construction.
func CompileDFA(pattern string, opts ...Option) (*fsm.DFA, error) {
	nfa, err := CompileNFA(pattern, opts...)
	if err != nil {
		return nil, err
	}
	return fsm.FromNFA(nfa), nil
}

// Build runs the Thompson construction over a parse tree. The result has one
// final state and no transitions out of it.
func Build(n ast.Node, opts ...Option) (*fsm.NFA, error) {
	b := &builder{cfg: newConfig(opts), alphabet: make(map[rune]struct{})}
	f, err := b.build(n)
	if err != nil {
		return nil, err
	}
	states := make([]fsm.State, b.next)
	for i := range states {
		states[i] = fsm.State(i)
	}
	alphabet := make([]rune, 0, len(b.alphabet))
	for r := range b.alphabet {
		alphabet = append(alphabet, r)
	}
	return fsm.NewNFA(states, alphabet, b.transitions, f.start, []fsm.State{f.end})
}

// frag is a piece of automaton with one entry and one exit.
type frag struct {
	start, end fsm.State
}

type builder struct {
	cfg         config
	next        fsm.State
	transitions []fsm.Transition
	alphabet    map[rune]struct{}
}

func (b *builder) state() fsm.State {
	b.next++
	return b.next - 1
}

func (b *builder) edge(from fsm.State, symbol rune, to fsm.State) {
	if symbol != fsm.Epsilon {
		b.alphabet[symbol] = struct{}{}
	}
	b.transitions = append(b.transitions, fsm.Transition{From: from, Symbol: symbol, To: to})
}

func (b *builder) empty() frag {
	s, e := b.state(), b.state()
	b.edge(s, fsm.Epsilon, e)
	return frag{s, e}
}

func (b *builder) symbols(runes []rune) frag {
	s, e := b.state(), b.state()
	for _, r := range runes {
		b.edge(s, r, e)
	}
	return frag{s, e}
}

func (b *builder) build(n ast.Node) (frag, error) {
	switch n := n.(type) {
	case *ast.Group:
		return b.alternation(n.Children())
	case *ast.Catalog:
		return b.concatenation(n.Children())
	case *ast.Kleene:
		return b.repetition(n)
	case *ast.Set:
		runes, err := b.set(n)
		if err != nil {
			return frag{}, err
		}
		return b.symbols(runes), nil
	case *ast.Wrapper:
		if n.Token.Type == token.Metacharacter {
			switch n.Token.Value {
			case ".":
				return b.symbols(b.cfg.universe), nil
			case "$":
				return b.empty(), nil
			}
		}
		return b.symbols(b.literal(n.Token)), nil
	case *ast.Range:
		return frag{}, fmt.Errorf("%w: range outside a set", ErrBadRange)
	default:
		return b.empty(), nil
	}
}

func (b *builder) alternation(alts []ast.Node) (frag, error) {
	if len(alts) == 1 {
		return b.build(alts[0])
	}
	s, e := b.state(), b.state()
	for _, alt := range alts {
		f, err := b.build(alt)
		if err != nil {
			return frag{}, err
		}
		b.edge(s, fsm.Epsilon, f.start)
		b.edge(f.end, fsm.Epsilon, e)
	}
	return frag{s, e}, nil
}

func (b *builder) concatenation(items []ast.Node) (frag, error) {
	if len(items) == 0 {
		return b.empty(), nil
	}
	first, err := b.build(items[0])
	if err != nil {
		return frag{}, err
	}
	end := first.end
	for _, item := range items[1:] {
		f, err := b.build(item)
		if err != nil {
			return frag{}, err
		}
		b.edge(end, fsm.Epsilon, f.start)
		end = f.end
	}
	return frag{first.start, end}, nil
}

func (b *builder) repetition(k *ast.Kleene) (frag, error) {
	s := b.state()
	body, err := b.build(k.Child)
	if err != nil {
		return frag{}, err
	}
	e := b.state()
	b.edge(s, fsm.Epsilon, body.start)
	b.edge(body.end, fsm.Epsilon, e)
	switch k.Rep {
	case ast.ZeroOrMore:
		b.edge(body.end, fsm.Epsilon, body.start)
		b.edge(s, fsm.Epsilon, e)
	case ast.OneOrMore:
		b.edge(body.end, fsm.Epsilon, body.start)
	case ast.Optional:
		b.edge(s, fsm.Epsilon, e)
	}
	return frag{s, e}, nil
}

// set returns the members of a bracket expression, ascending.
func (b *builder) set(s *ast.Set) ([]rune, error) {
	members := make(map[rune]bool)
	for _, item := range s.Items.Children() {
		switch item := item.(type) {
		case *ast.Range:
			from, okFrom := char(item.From)
			to, okTo := char(item.To)
			if !okFrom || !okTo {
				return nil, ErrBadRange
			}
			if from > to {
				return nil, fmt.Errorf("%w: %c-%c", ErrEmptySet, from, to)
			}
			for r := from; r <= to; r++ {
				members[r] = true
			}
		case *ast.Wrapper:
			for _, r := range b.literal(item.Token) {
				members[r] = true
			}
		}
	}

	var out []rune
	if s.Positive {
		// members outside the universe still count
		for r := range members {
			out = append(out, r)
		}
		slices.Sort(out)
		return out, nil
	}
	for _, r := range b.cfg.universe {
		if !members[r] {
			out = append(out, r)
		}
	}
	return out, nil
}

func char(n ast.Node) (rune, bool) {
	w, ok := n.(*ast.Wrapper)
	if !ok {
		return 0, false
	}
	return w.Token.Char()
}

// literal returns the runes a single token stands for: one rune, or the
// members of a class escape within the universe.
func (b *builder) literal(t token.Token) []rune {
	if t.IsClass() {
		return b.class(t.Value[1])
	}
	r, ok := t.Char()
	if !ok {
		return nil
	}
	return []rune{r}
}

func (b *builder) class(c byte) []rune {
	var in func(rune) bool
	switch c {
	case 'd', 'D':
		in = func(r rune) bool { return r >= '0' && r <= '9' }
	case 'w', 'W':
		in = func(r rune) bool {
			return r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
		}
	case 's', 'S':
		in = func(r rune) bool {
			switch r {
			case ' ', '\t', '\n', '\r', '\f', '\v':
				return true
			}
			return false
		}
	}
	negated := c == 'D' || c == 'W' || c == 'S'
	var out []rune
	for _, r := range b.cfg.universe {
		if in(r) != negated {
			out = append(out, r)
		}
	}
	return out
}
