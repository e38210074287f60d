package fsm

import (
	"slices"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

// sink stands for the implicit rejecting state that missing transitions go to.
const sink State = -1

func (d *DFA) step(q State, a rune) State {
	if q == sink {
		return sink
	}
	if to, ok := d.delta[q][a]; ok {
		return to
	}
	return sink
}

func unionRunes(a, b []rune) []rune {
	out := append(slices.Clone(a), b...)
	slices.Sort(out)
	return slices.Compact(out)
}

// Complement accepts every string over d's alphabet plus extra that d
// rejects. Missing transitions are completed with a rejecting sink first.
func Complement(d *DFA, extra ...rune) *DFA {
	alphabet := unionRunes(d.Alphabet(), extra)
	states := d.States()
	trap := states[len(states)-1] + 1
	all := append(states, trap)

	var transitions []Transition
	for _, q := range all {
		for _, a := range alphabet {
			to := d.step(q, a)
			if q == trap || to == sink {
				to = trap
			}
			transitions = append(transitions, Transition{From: q, Symbol: a, To: to})
		}
	}
	finals := []State{trap}
	for _, q := range states {
		if !d.IsFinal(q) {
			finals = append(finals, q)
		}
	}
	c, err := NewDFA(all, alphabet, transitions, d.initial, finals)
	if err != nil {
		panic(err)
	}
	return c
}

// Intersect accepts the strings both a and b accept.
func Intersect(a, b *DFA) *DFA {
	return Product(a, b, func(x, y bool) bool { return x && y })
}

// Union accepts the strings a or b accepts.
func Union(a, b *DFA) *DFA {
	return Product(a, b, func(x, y bool) bool { return x || y })
}

type pair struct{ p, q State }

// Product runs a and b in lockstep over the union of their alphabets. A pair
// state is final when op holds for the finality of its components.
func Product(a, b *DFA, op func(inA, inB bool) bool) *DFA {
	alphabet := unionRunes(a.Alphabet(), b.Alphabet())
	ids := map[pair]State{}
	var order []pair
	id := func(p pair) (State, bool) {
		if s, ok := ids[p]; ok {
			return s, false
		}
		s := State(len(order))
		ids[p] = s
		order = append(order, p)
		return s, true
	}

	start, _ := id(pair{a.initial, b.initial})
	queue := linkedlistqueue.New()
	queue.Enqueue(pair{a.initial, b.initial})
	var transitions []Transition
	for !queue.Empty() {
		v, _ := queue.Dequeue()
		cur := v.(pair)
		from := ids[cur]
		for _, c := range alphabet {
			next := pair{a.step(cur.p, c), b.step(cur.q, c)}
			if next.p == sink && next.q == sink {
				continue
			}
			to, fresh := id(next)
			if fresh {
				queue.Enqueue(next)
			}
			transitions = append(transitions, Transition{From: from, Symbol: c, To: to})
		}
	}

	states := make([]State, len(order))
	var finals []State
	for i, p := range order {
		states[i] = State(i)
		if op(p.p != sink && a.IsFinal(p.p), p.q != sink && b.IsFinal(p.q)) {
			finals = append(finals, State(i))
		}
	}
	d, err := NewDFA(states, alphabet, transitions, start, finals)
	if err != nil {
		panic(err)
	}
	return d
}

// Reverse returns an automaton for the reversed language of d. Every
// transition is flipped, a fresh initial state has Epsilon moves to d's
// finals, and d's initial state becomes the only final.
func Reverse(d *DFA) *NFA {
	states := d.States()
	initial := states[len(states)-1] + 1
	var transitions []Transition
	for _, q := range d.Finals() {
		transitions = append(transitions, Transition{From: initial, Symbol: Epsilon, To: q})
	}
	for _, t := range d.Transitions() {
		transitions = append(transitions, Transition{From: t.To, Symbol: t.Symbol, To: t.From})
	}
	n, err := NewNFA(append(states, initial), d.Alphabet(), transitions, initial, []State{d.initial})
	if err != nil {
		panic(err)
	}
	return n
}
