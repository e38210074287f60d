package fsm

import (
	"log/slog"
)

// DFA is a deterministic automaton: every (state, symbol) pair has at most
// one transition. The constructor drops unreachable and dead states and merges
// indistinguishable ones, so a DFA is always minimal. It is never modified
// after construction.
type DFA struct {
	states   map[State]struct{}
	alphabet map[rune]struct{}
	delta    map[State]map[rune]State
	initial  State
	finals   map[State]struct{}
}

// NewDFA builds and minimizes an automaton. Invalid transitions and finals are
// dropped as in NewNFA; Epsilon is never a valid DFA symbol. When two
// transitions share a (state, symbol) pair the first one wins.
func NewDFA(states []State, alphabet []rune, transitions []Transition, initial State, finals []State) (*DFA, error) {
	d := &DFA{
		states:   toSet(states),
		alphabet: make(map[rune]struct{}, len(alphabet)),
		delta:    make(map[State]map[rune]State),
		initial:  initial,
		finals:   make(map[State]struct{}),
	}
	if _, ok := d.states[initial]; !ok {
		return nil, ErrInitialState
	}
	for _, r := range alphabet {
		if r != Epsilon {
			d.alphabet[r] = struct{}{}
		}
	}
	dropped := 0
	for _, t := range transitions {
		if !d.valid(t) {
			dropped++
			continue
		}
		if _, dup := d.delta[t.From][t.Symbol]; dup {
			dropped++
			continue
		}
		d.set(t.From, t.Symbol, t.To)
	}
	for _, q := range finals {
		if _, ok := d.states[q]; ok {
			d.finals[q] = struct{}{}
		}
	}
	if dropped > 0 {
		slog.Debug("dfa: dropped transitions", "count", dropped)
	}

	d.minimize()
	return d, nil
}

func (d *DFA) valid(t Transition) bool {
	if _, ok := d.states[t.From]; !ok {
		return false
	}
	if _, ok := d.states[t.To]; !ok {
		return false
	}
	_, ok := d.alphabet[t.Symbol]
	return ok
}

func (d *DFA) set(from State, symbol rune, to State) {
	row, ok := d.delta[from]
	if !ok {
		row = make(map[rune]State)
		d.delta[from] = row
	}
	row[symbol] = to
}

// Next returns the destination of q on symbol.
func (d *DFA) Next(q State, symbol rune) (State, bool) {
	to, ok := d.delta[q][symbol]
	return to, ok
}

func (d *DFA) Contains(text string) bool {
	q := d.initial
	for _, r := range text {
		next, ok := d.delta[q][r]
		if !ok {
			return false
		}
		q = next
	}
	return d.IsFinal(q)
}

func (d *DFA) IsFinal(q State) bool {
	_, ok := d.finals[q]
	return ok
}

// Minimize rebuilds the automaton through NewDFA. A DFA is already minimal, so
// the result has the same states and transitions.
func (d *DFA) Minimize() *DFA {
	m, err := NewDFA(d.States(), d.Alphabet(), d.Transitions(), d.initial, d.Finals())
	if err != nil {
		panic(err) // initial is always a state
	}
	return m
}

func (d *DFA) States() []State  { return keys(d.states) }
func (d *DFA) Alphabet() []rune { return keys(d.alphabet) }
func (d *DFA) Initial() State   { return d.initial }
func (d *DFA) Finals() []State  { return keys(d.finals) }

func (d *DFA) Transitions() []Transition {
	var ts []Transition
	for from, row := range d.delta {
		for symbol, to := range row {
			ts = append(ts, Transition{From: from, Symbol: symbol, To: to})
		}
	}
	sortTransitions(ts)
	return ts
}

func (d *DFA) String() string { return describe(d) }
