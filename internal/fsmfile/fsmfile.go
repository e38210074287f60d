// Package fsmfile reads and writes automata in a small text format:
//
//	// comment
//	nfa
//	states 0 1 2;
//	alphabet 'a';
//	start 0;
//	final 2;
//	0 'a' -> 1
//	1 eps -> 2
//
// The first word is nfa or dfa. Symbols are Go rune literals and eps marks an
// Epsilon move. Invalid moves are dropped when the automaton is built, the
// same as the fsm constructors do.
package fsmfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	plexer "github.com/alecthomas/participle/v2/lexer"

	"regexkit/internal/fsm"
)

var ErrSymbol = errors.New("fsmfile: symbol must be a single quoted character")

type Definition struct {
	Kind     string   `parser:"@('nfa' | 'dfa')"`
	States   []int    `parser:"'states' @Int* ';'"`
	Alphabet []string `parser:"'alphabet' @Char* ';'"`
	Start    int      `parser:"'start' @Int ';'"`
	Finals   []int    `parser:"'final' @Int* ';'"`
	Moves    []*Move  `parser:"@@*"`
}

type Move struct {
	Pos plexer.Position

	From    int     `parser:"@Int"`
	Symbol  *string `parser:"( @Char"`
	Epsilon bool    `parser:"| @'eps' )"`
	To      int     `parser:"'->' @Int"`
}

var parser = participle.MustBuild[Definition](
	participle.Lexer(mustDefinition()),
)

func Parse(name string, data []byte) (*Definition, error) {
	def, err := parser.ParseBytes(name, data)
	if err != nil {
		return nil, fmt.Errorf("fsmfile: %w", err)
	}
	return def, nil
}

func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}

func symbol(lit string) (rune, error) {
	s, err := strconv.Unquote(lit)
	if err != nil || len([]rune(s)) != 1 {
		return 0, fmt.Errorf("%w: %s", ErrSymbol, lit)
	}
	return []rune(s)[0], nil
}

func states(ids []int) []fsm.State {
	out := make([]fsm.State, len(ids))
	for i, q := range ids {
		out[i] = fsm.State(q)
	}
	return out
}

func (d *Definition) components() ([]rune, []fsm.Transition, error) {
	alphabet := make([]rune, 0, len(d.Alphabet))
	for _, lit := range d.Alphabet {
		r, err := symbol(lit)
		if err != nil {
			return nil, nil, err
		}
		alphabet = append(alphabet, r)
	}
	transitions := make([]fsm.Transition, 0, len(d.Moves))
	for _, m := range d.Moves {
		r := fsm.Epsilon
		if !m.Epsilon {
			var err error
			if r, err = symbol(*m.Symbol); err != nil {
				return nil, nil, fmt.Errorf("%s: %w", m.Pos, err)
			}
		}
		transitions = append(transitions, fsm.Transition{From: fsm.State(m.From), Symbol: r, To: fsm.State(m.To)})
	}
	return alphabet, transitions, nil
}

// NFA builds the definition as a nondeterministic automaton, whatever its
// declared kind.
func (d *Definition) NFA() (*fsm.NFA, error) {
	alphabet, transitions, err := d.components()
	if err != nil {
		return nil, err
	}
	return fsm.NewNFA(states(d.States), alphabet, transitions, fsm.State(d.Start), states(d.Finals))
}

// DFA builds a dfa definition directly and converts an nfa definition with
// the subset construction.
func (d *Definition) DFA() (*fsm.DFA, error) {
	if d.Kind == "nfa" {
		n, err := d.NFA()
		if err != nil {
			return nil, err
		}
		return fsm.FromNFA(n), nil
	}
	alphabet, transitions, err := d.components()
	if err != nil {
		return nil, err
	}
	return fsm.NewDFA(states(d.States), alphabet, transitions, fsm.State(d.Start), states(d.Finals))
}

// Automaton builds the definition as its declared kind.
func (d *Definition) Automaton() (fsm.Automaton, error) {
	if d.Kind == "nfa" {
		n, err := d.NFA()
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	m, err := d.DFA()
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Write prints a in the format Parse reads. kind is "nfa" or "dfa".
func Write(w io.Writer, kind string, a fsm.Automaton) error {
	var b strings.Builder
	b.WriteString(kind + "\n")
	b.WriteString("states")
	for _, q := range a.States() {
		fmt.Fprintf(&b, " %d", q)
	}
	b.WriteString(";\nalphabet")
	for _, r := range a.Alphabet() {
		b.WriteString(" " + strconv.QuoteRuneToASCII(r))
	}
	fmt.Fprintf(&b, ";\nstart %d;\nfinal", a.Initial())
	for _, q := range a.Finals() {
		fmt.Fprintf(&b, " %d", q)
	}
	b.WriteString(";\n")
	for _, t := range a.Transitions() {
		sym := "eps"
		if t.Symbol != fsm.Epsilon {
			sym = strconv.QuoteRuneToASCII(t.Symbol)
		}
		fmt.Fprintf(&b, "%d %s -> %d\n", t.From, sym, t.To)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
