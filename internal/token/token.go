package token

import (
	"fmt"
	"unicode/utf8"

	"regexkit/internal/source"
)

type Type int

const (
	EOF Type = iota
	Character
	Metacharacter
)

func (t Type) String() string {
	switch t {
	case EOF:
		return "EOF"
	case Character:
		return "CHARACTER"
	case Metacharacter:
		return "METACHARACTER"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Token is a typed slice of the source. End is inclusive: Start + len(Value) - 1.
type Token struct {
	Type  Type
	Value string
	Start source.Position
	End   source.Position
}

func New(typ Type, value string, start source.Position) Token {
	return Token{Type: typ, Value: value, Start: start, End: start.Advance(len(value) - 1)}
}

// IsClass reports whether the token is a class escape such as \d or \W.
func (t Token) IsClass() bool {
	if len(t.Value) != 2 || t.Value[0] != '\\' {
		return false
	}
	switch t.Value[1] {
	case 'd', 'D', 'w', 'W', 's', 'S':
		return true
	}
	return false
}

// Char returns the single rune a token stands for. Escapes denote the escaped
// rune, except the control escapes \t \n \r \f. Class escapes and EOF report false.
func (t Token) Char() (rune, bool) {
	if t.Type == EOF || t.Value == "" || t.IsClass() {
		return 0, false
	}
	if t.Value[0] == '\\' && len(t.Value) > 1 {
		r, _ := utf8.DecodeRuneInString(t.Value[1:])
		switch r {
		case 't':
			return '\t', true
		case 'n':
			return '\n', true
		case 'r':
			return '\r', true
		case 'f':
			return '\f', true
		}
		return r, true
	}
	r, _ := utf8.DecodeRuneInString(t.Value)
	return r, true
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%s) @ %s..%s", t.Type, t.Value, t.Start, t.End)
}
