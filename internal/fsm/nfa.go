package fsm

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

// NFA is a nondeterministic automaton. Several transitions may share a
// (state, symbol) pair and Epsilon moves are allowed. It is not safe for
// concurrent use.
type NFA struct {
	states   map[State]struct{}
	alphabet map[rune]struct{}
	out      map[State][]Transition
	initial  State
	finals   map[State]struct{}
}

// NewNFA builds an automaton from the given components. Transitions whose
// endpoints are not states, or whose symbol is neither Epsilon nor in the
// alphabet, are dropped. So are final states that are not states.
func NewNFA(states []State, alphabet []rune, transitions []Transition, initial State, finals []State) (*NFA, error) {
	n := &NFA{
		states:   toSet(states),
		alphabet: make(map[rune]struct{}, len(alphabet)),
		out:      make(map[State][]Transition),
		initial:  initial,
		finals:   make(map[State]struct{}),
	}
	if _, ok := n.states[initial]; !ok {
		return nil, ErrInitialState
	}
	for _, r := range alphabet {
		if r != Epsilon {
			n.alphabet[r] = struct{}{}
		}
	}

	seen := make(map[Transition]struct{}, len(transitions))
	for _, t := range transitions {
		if !n.valid(t) {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		n.out[t.From] = append(n.out[t.From], t)
	}
	for _, q := range finals {
		if _, ok := n.states[q]; ok {
			n.finals[q] = struct{}{}
		}
	}
	return n, nil
}

func (n *NFA) valid(t Transition) bool {
	if _, ok := n.states[t.From]; !ok {
		return false
	}
	if _, ok := n.states[t.To]; !ok {
		return false
	}
	if t.Symbol == Epsilon {
		return true
	}
	_, ok := n.alphabet[t.Symbol]
	return ok
}

// Closure returns every state reachable from the given ones through Epsilon
// moves, the given ones included, in ascending order. Epsilon cycles are fine.
func (n *NFA) Closure(states ...State) []State {
	set := newStateSet()
	queue := linkedlistqueue.New()
	for _, q := range states {
		if !set.Contains(q) {
			set.Add(q)
			queue.Enqueue(q)
		}
	}
	for !queue.Empty() {
		v, _ := queue.Dequeue()
		for _, t := range n.out[v.(State)] {
			if t.Symbol == Epsilon && !set.Contains(t.To) {
				set.Add(t.To)
				queue.Enqueue(t.To)
			}
		}
	}
	return setStates(set)
}

// Contains reports whether some path from the initial state spells text and
// ends in a final state. The search backtracks over every matching move, so
// highly ambiguous automata take exponential time; convert with FromNFA for
// repeated matching.
func (n *NFA) Contains(text string) bool {
	return n.accepts(n.initial, []rune(text))
}

func (n *NFA) accepts(q State, rest []rune) bool {
	closure := n.Closure(q)
	if len(rest) == 0 {
		for _, s := range closure {
			if n.IsFinal(s) {
				return true
			}
		}
		return false
	}
	for _, s := range closure {
		for _, t := range n.out[s] {
			if t.Symbol == rest[0] && n.accepts(t.To, rest[1:]) {
				return true
			}
		}
	}
	return false
}

func (n *NFA) IsFinal(q State) bool {
	_, ok := n.finals[q]
	return ok
}

func (n *NFA) States() []State  { return keys(n.states) }
func (n *NFA) Alphabet() []rune { return keys(n.alphabet) }
func (n *NFA) Initial() State   { return n.initial }
func (n *NFA) Finals() []State  { return keys(n.finals) }

// Transitions returns the stored transitions ordered by state, symbol and
// destination. Epsilon moves sort before every symbol.
func (n *NFA) Transitions() []Transition {
	var ts []Transition
	for _, out := range n.out {
		ts = append(ts, out...)
	}
	sortTransitions(ts)
	return ts
}

// moves returns the destinations of q on symbol in insertion order.
func (n *NFA) moves(q State, symbol rune) []State {
	var to []State
	for _, t := range n.out[q] {
		if t.Symbol == symbol {
			to = append(to, t.To)
		}
	}
	return to
}

func (n *NFA) String() string { return describe(n) }
