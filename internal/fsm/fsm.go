// Package fsm holds finite automata over runes: nondeterministic automata with
// epsilon moves, and deterministic automata that prune and minimize themselves
// when they are built.
//
// Both kinds are built once from loosely validated data. A missing initial
// state is the only error; dangling transitions, unknown symbols and final
// states outside the state set are dropped.
package fsm

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

var ErrInitialState = errors.New("fsm: initial state is not in the state set")

// State identifies an automaton state. States carry no payload.
type State int

// Epsilon is the symbol of a transition that consumes no input.
const Epsilon rune = -1

type Transition struct {
	From   State
	Symbol rune
	To     State
}

func (t Transition) String() string {
	return fmt.Sprintf("(%d, %s, %d)", t.From, symbolString(t.Symbol), t.To)
}

func symbolString(r rune) string {
	if r == Epsilon {
		return "ε"
	}
	return strconv.QuoteRune(r)
}

// Automaton is the read-only view shared by NFA and DFA.
type Automaton interface {
	States() []State
	Alphabet() []rune
	Transitions() []Transition
	Initial() State
	Finals() []State
	Contains(text string) bool
}

func stateComparator(a, b interface{}) int {
	return utils.IntComparator(int(a.(State)), int(b.(State)))
}

// newStateSet returns an ordered set of states. Iteration is ascending.
func newStateSet(states ...State) *treeset.Set {
	s := treeset.NewWith(stateComparator)
	for _, q := range states {
		s.Add(q)
	}
	return s
}

func setStates(s *treeset.Set) []State {
	out := make([]State, 0, s.Size())
	for _, v := range s.Values() {
		out = append(out, v.(State))
	}
	return out
}

// setKey is the canonical text of an ordered state set.
func setKey(states []State) string {
	var b strings.Builder
	for i, q := range states {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(q)))
	}
	return b.String()
}

func keys[K State | rune](m map[K]struct{}) []K {
	out := make([]K, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func toSet[K State | rune](items []K) map[K]struct{} {
	m := make(map[K]struct{}, len(items))
	for _, k := range items {
		m[k] = struct{}{}
	}
	return m
}

func sortTransitions(ts []Transition) {
	slices.SortFunc(ts, func(a, b Transition) int {
		if a.From != b.From {
			return int(a.From) - int(b.From)
		}
		if a.Symbol != b.Symbol {
			return int(a.Symbol) - int(b.Symbol)
		}
		return int(a.To) - int(b.To)
	})
}

// describe renders the five components of an automaton.
func describe(a Automaton) string {
	var b strings.Builder
	b.WriteString("M = <Q, Σ, Δ, q0, F>:\n")
	fmt.Fprintf(&b, "    Q = {%s}\n", joinStates(a.States()))
	syms := make([]string, 0)
	for _, r := range a.Alphabet() {
		syms = append(syms, symbolString(r))
	}
	fmt.Fprintf(&b, "    Σ = {%s}\n", strings.Join(syms, ", "))
	ts := make([]string, 0)
	for _, t := range a.Transitions() {
		ts = append(ts, t.String())
	}
	fmt.Fprintf(&b, "    Δ = {%s}\n", strings.Join(ts, ",\n         "))
	fmt.Fprintf(&b, "    q0 = %d\n", a.Initial())
	fmt.Fprintf(&b, "    F = {%s}", joinStates(a.Finals()))
	return b.String()
}

func joinStates(states []State) string {
	parts := make([]string, len(states))
	for i, q := range states {
		parts[i] = strconv.Itoa(int(q))
	}
	return strings.Join(parts, ", ")
}
