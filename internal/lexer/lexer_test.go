package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regexkit/internal/token"
)

func TestTokens(t *testing.T) {
	toks, err := All(`a\*[^0-9]|(b)?.$é`)
	require.NoError(t, err)

	tests := []struct {
		expectedType  token.Type
		expectedValue string
	}{
		{token.Character, "a"},
		{token.Character, `\*`},
		{token.Metacharacter, "["},
		{token.Metacharacter, "^"},
		{token.Character, "0"},
		{token.Metacharacter, "-"},
		{token.Character, "9"},
		{token.Metacharacter, "]"},
		{token.Metacharacter, "|"},
		{token.Metacharacter, "("},
		{token.Character, "b"},
		{token.Metacharacter, ")"},
		{token.Metacharacter, "?"},
		{token.Metacharacter, "."},
		{token.Metacharacter, "$"},
		{token.Character, "é"},
		{token.EOF, ""},
	}
	require.Len(t, toks, len(tests))
	for i, tt := range tests {
		assert.Equalf(t, tt.expectedType, toks[i].Type, "token %d", i)
		assert.Equalf(t, tt.expectedValue, toks[i].Value, "token %d", i)
	}
}

func TestSpans(t *testing.T) {
	toks, err := All(`a\+b`)
	require.NoError(t, err)
	require.Len(t, toks, 4)

	assert.Equal(t, 1, toks[1].Start.Index)
	assert.Equal(t, 2, toks[1].End.Index)
	assert.Equal(t, 3, toks[2].Start.Index)
	assert.Equal(t, 4, toks[3].Start.Index)
}

func TestNextPastEOF(t *testing.T) {
	s := TokenizeString("x")
	assert.Equal(t, token.Character, s.Next().Type)
	for i := 0; i < 3; i++ {
		assert.Equal(t, token.EOF, s.Next().Type)
	}
	assert.NoError(t, s.Err())
}

func TestTrailingBackslash(t *testing.T) {
	s := TokenizeString(`a\`)
	assert.Equal(t, token.Character, s.Next().Type)
	end := s.Next()
	assert.Equal(t, token.EOF, end.Type)
	assert.Equal(t, 2, end.Start.Index)
	assert.Error(t, s.Err())
	assert.Equal(t, token.EOF, s.Next().Type)

	toks, err := All(`a\`)
	assert.Error(t, err)
	assert.Len(t, toks, 2)

	toks, err = All(`\\`)
	require.NoError(t, err)
	r, ok := toks[0].Char()
	assert.True(t, ok)
	assert.Equal(t, '\\', r)
}

func TestNewlineEscape(t *testing.T) {
	toks, err := All("\\\n")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, token.Character, toks[0].Type)
	assert.Equal(t, "\\\n", toks[0].Value)
	assert.Equal(t, 1, toks[0].End.Index)
}
