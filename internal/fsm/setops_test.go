package fsm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// evenA accepts strings over {a, b} with an even number of a's.
func evenA(t *testing.T) *DFA {
	t.Helper()
	return mustDFA(t, []State{0, 1}, []rune{'a', 'b'},
		[]Transition{{0, 'a', 1}, {0, 'b', 0}, {1, 'a', 0}, {1, 'b', 1}}, 0, []State{0})
}

// someB accepts a*b+. It is partial: the final state has no move on a.
func someB(t *testing.T) *DFA {
	t.Helper()
	return mustDFA(t, []State{0, 1}, []rune{'a', 'b'},
		[]Transition{{0, 'a', 0}, {0, 'b', 1}, {1, 'b', 1}}, 0, []State{1})
}

func isEvenA(s string) bool { return strings.Count(s, "a")%2 == 0 }

func isSomeB(s string) bool {
	rest := strings.TrimLeft(s, "a")
	return rest != "" && strings.Trim(rest, "b") == ""
}

func TestSetOperations(t *testing.T) {
	a, b := evenA(t), someB(t)
	inter, union := Intersect(a, b), Union(a, b)
	notA, notB := Complement(a), Complement(b)
	revB := Reverse(b)

	for _, s := range allStrings([]rune{'a', 'b'}, 5) {
		assert.Equal(t, isSomeB(s), b.Contains(s), "someB %q", s)
		assert.Equal(t, isEvenA(s) && isSomeB(s), inter.Contains(s), "intersect %q", s)
		assert.Equal(t, isEvenA(s) || isSomeB(s), union.Contains(s), "union %q", s)
		assert.Equal(t, !isEvenA(s), notA.Contains(s), "complement %q", s)
		assert.Equal(t, !isSomeB(s), notB.Contains(s), "complement partial %q", s)

		rev := []rune(s)
		for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
			rev[i], rev[j] = rev[j], rev[i]
		}
		assert.Equal(t, isSomeB(string(rev)), revB.Contains(s), "reverse %q", s)
	}
}

func TestComplementWidensAlphabet(t *testing.T) {
	c := Complement(evenA(t), 'c')
	assert.Equal(t, []rune{'a', 'b', 'c'}, c.Alphabet())
	assert.True(t, c.Contains("c"))
	assert.True(t, c.Contains("a"))
	assert.False(t, c.Contains("aa"))
	assert.False(t, c.Contains("d"))
}

func TestIntersectDisjoint(t *testing.T) {
	onlyA := mustDFA(t, []State{0, 1}, []rune{'a'}, []Transition{{0, 'a', 1}}, 0, []State{1})
	onlyB := mustDFA(t, []State{0, 1}, []rune{'b'}, []Transition{{0, 'b', 1}}, 0, []State{1})
	d := Intersect(onlyA, onlyB)
	assert.Len(t, d.States(), 1)
	assert.Empty(t, d.Finals())
	assert.True(t, Union(onlyA, onlyB).Contains("b"))
}
