package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToRegexp(t *testing.T) {
	tests := []struct {
		name string
		dfa  *DFA
		want string
	}{
		{"empty language", mustDFA(t, []State{0}, []rune{'a'}, nil, 0, nil), ""},
		{"empty string", mustDFA(t, []State{0}, []rune{'a'}, nil, 0, []State{0}), "$"},
		{"star", mustDFA(t, []State{0}, []rune{'a'}, []Transition{{0, 'a', 0}}, 0, []State{0}), "a*"},
		{"escaped", mustDFA(t, []State{0, 1}, []rune{'*'}, []Transition{{0, '*', 1}}, 0, []State{1}), `\*`},
		{"alternatives", mustDFA(t, []State{0, 1}, []rune{'a', 'b'}, []Transition{{0, 'a', 1}, {0, 'b', 1}}, 0, []State{1}), "(a|b)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToRegexp(tt.dfa))
		})
	}
}

func TestHasTopLevelAlt(t *testing.T) {
	assert.True(t, hasTopLevelAlt("a|b"))
	assert.False(t, hasTopLevelAlt("(a|b)c"))
	assert.False(t, hasTopLevelAlt(`a\|b`))
	assert.False(t, hasTopLevelAlt("[|]"))
}
