package fsm

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"

	"regexkit/internal/logutil"
)

// subsets numbers state sets in discovery order. Sets are compared by their
// canonical key, so each distinct set is hashed once.
type subsets struct {
	ids     map[string]State
	members [][]State
}

// intern returns the id of set, assigning the next one if set is new.
func (s *subsets) intern(set []State) (State, bool) {
	key := setKey(set)
	if id, ok := s.ids[key]; ok {
		return id, false
	}
	id := State(len(s.members))
	s.ids[key] = id
	s.members = append(s.members, set)
	return id, true
}

// FromNFA converts n with the subset construction and minimizes the result.
// DFA state i stands for the i-th distinct epsilon-closed set of NFA states
// found by a breadth-first walk from the closure of n's initial state.
func FromNFA(n *NFA) *DFA {
	sets := &subsets{ids: make(map[string]State)}
	start, _ := sets.intern(n.Closure(n.initial))

	queue := linkedlistqueue.New()
	queue.Enqueue(start)
	var transitions []Transition
	symbols := n.Alphabet()
	for !queue.Empty() {
		v, _ := queue.Dequeue()
		from := v.(State)
		for _, a := range symbols {
			dest := newStateSet()
			for _, q := range sets.members[from] {
				for _, to := range n.moves(q, a) {
					dest.Add(to)
				}
			}
			if dest.Empty() {
				continue
			}
			to, fresh := sets.intern(n.Closure(setStates(dest)...))
			if fresh {
				queue.Enqueue(to)
			}
			transitions = append(transitions, Transition{From: from, Symbol: a, To: to})
		}
	}

	states := make([]State, len(sets.members))
	var finals []State
	for i, members := range sets.members {
		states[i] = State(i)
		for _, q := range members {
			if n.IsFinal(q) {
				finals = append(finals, State(i))
				break
			}
		}
	}
	if logutil.TraceEnabled() {
		logutil.Trace("subset construction", "nfa_states", len(n.states), "dfa_states", len(states))
	}

	d, err := NewDFA(states, symbols, transitions, start, finals)
	if err != nil {
		panic(err) // start is state 0
	}
	return d
}
