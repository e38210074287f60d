package fsm

import (
	"log/slog"

	"github.com/emirpasic/gods/queues/linkedlistqueue"

	"regexkit/internal/logutil"
)

// minimize runs the normalization pipeline in order: unreachable states,
// dead states, then indistinguishable states.
func (d *DFA) minimize() {
	before := len(d.states)
	unreachable := d.pruneUnreachable()
	dead := d.pruneDead()
	merged := d.refine()
	if unreachable+dead+merged > 0 {
		slog.Debug("dfa: minimized", "states", before, "unreachable", unreachable, "dead", dead, "merged", merged)
	}
}

// removeStates deletes the given states along with every transition and
// final mark that mentions them.
func (d *DFA) removeStates(drop map[State]struct{}) {
	for q := range drop {
		delete(d.states, q)
		delete(d.finals, q)
		delete(d.delta, q)
	}
	for from, row := range d.delta {
		for symbol, to := range row {
			if _, gone := drop[to]; gone {
				delete(row, symbol)
			}
		}
		if len(row) == 0 {
			delete(d.delta, from)
		}
	}
}

// pruneUnreachable drops states that no path from the initial state visits.
func (d *DFA) pruneUnreachable() int {
	seen := map[State]struct{}{d.initial: {}}
	queue := linkedlistqueue.New()
	queue.Enqueue(d.initial)
	for !queue.Empty() {
		v, _ := queue.Dequeue()
		for _, to := range d.delta[v.(State)] {
			if _, ok := seen[to]; !ok {
				seen[to] = struct{}{}
				queue.Enqueue(to)
			}
		}
	}

	drop := make(map[State]struct{})
	for q := range d.states {
		if _, ok := seen[q]; !ok {
			drop[q] = struct{}{}
		}
	}
	d.removeStates(drop)
	return len(drop)
}

// pruneDead drops states with no path to a final state. Liveness is found by
// walking transitions backwards from the finals, which also settles cycles of
// dead states. The initial state stays even when it is dead; it then has no
// transitions and the automaton accepts nothing.
func (d *DFA) pruneDead() int {
	reverse := make(map[State][]State)
	for from, row := range d.delta {
		for _, to := range row {
			reverse[to] = append(reverse[to], from)
		}
	}

	live := make(map[State]struct{}, len(d.finals))
	queue := linkedlistqueue.New()
	for q := range d.finals {
		live[q] = struct{}{}
		queue.Enqueue(q)
	}
	for !queue.Empty() {
		v, _ := queue.Dequeue()
		for _, from := range reverse[v.(State)] {
			if _, ok := live[from]; !ok {
				live[from] = struct{}{}
				queue.Enqueue(from)
			}
		}
	}

	drop := make(map[State]struct{})
	for q := range d.states {
		if _, ok := live[q]; !ok {
			drop[q] = struct{}{}
		}
	}
	if _, ok := drop[d.initial]; ok {
		delete(drop, d.initial)
		delete(d.delta, d.initial)
	}
	d.removeStates(drop)
	return len(drop)
}

type splitter struct {
	block  []State
	symbol rune
}

// refine merges indistinguishable states. Blocks start as {finals, others}
// and are split against queued (block, symbol) splitters until stable. Each
// block collapses onto its smallest state.
func (d *DFA) refine() int {
	if len(d.states) < 2 {
		return 0
	}
	var finals, others []State
	for _, q := range keys(d.states) {
		if d.IsFinal(q) {
			finals = append(finals, q)
		} else {
			others = append(others, q)
		}
	}
	var blocks [][]State
	for _, b := range [][]State{finals, others} {
		if len(b) > 0 {
			blocks = append(blocks, b)
		}
	}

	symbols := keys(d.alphabet)
	work := linkedlistqueue.New()
	enqueue := func(block []State) {
		for _, a := range symbols {
			work.Enqueue(splitter{block: block, symbol: a})
		}
	}
	for _, b := range blocks {
		enqueue(b)
	}

	rounds := 0
	for !work.Empty() {
		v, _ := work.Dequeue()
		s := v.(splitter)
		target := toSet(s.block)
		rounds++

		// halves appended in this pass are already uniform against s
		for i, n := 0, len(blocks); i < n; i++ {
			var in, out []State
			for _, q := range blocks[i] {
				if to, ok := d.delta[q][s.symbol]; ok {
					if _, hit := target[to]; hit {
						in = append(in, q)
						continue
					}
				}
				out = append(out, q)
			}
			if len(in) == 0 || len(out) == 0 {
				continue
			}
			blocks[i] = in
			blocks = append(blocks, out)
			enqueue(in)
			enqueue(out)
		}
	}
	if logutil.TraceEnabled() {
		logutil.Trace("dfa: refinement settled", "blocks", len(blocks), "splitters", rounds)
	}

	merged := len(d.states) - len(blocks)
	if merged == 0 {
		return 0
	}

	// blocks stay in ascending order, so b[0] is the smallest member
	rep := make(map[State]State, len(d.states))
	for _, b := range blocks {
		for _, q := range b {
			rep[q] = b[0]
		}
	}

	old := d.delta
	from := keys(d.states)
	d.delta = make(map[State]map[rune]State)
	for _, q := range from {
		for _, a := range symbols {
			to, ok := old[q][a]
			if !ok {
				continue
			}
			if _, dup := d.delta[rep[q]][a]; dup {
				continue
			}
			d.set(rep[q], a, rep[to])
		}
	}

	states := make(map[State]struct{}, len(blocks))
	finalReps := make(map[State]struct{})
	for _, q := range from {
		states[rep[q]] = struct{}{}
		if d.IsFinal(q) {
			finalReps[rep[q]] = struct{}{}
		}
	}
	d.states, d.finals = states, finalReps
	d.initial = rep[d.initial]
	return merged
}
