package lexer

import (
	"fmt"

	plexer "github.com/alecthomas/participle/v2/lexer"

	"regexkit/internal/source"
	"regexkit/internal/token"
)

// Rules are tried in order: an escape always yields a character,
// the metacharacters keep their syntax role, anything else is a literal.
// A backslash with nothing after it matches no rule.
var definition = plexer.MustSimple([]plexer.SimpleRule{
	{Name: "Escape", Pattern: `\\(?s:.)`},
	{Name: "Meta", Pattern: `[*+?|()\[\]^.$-]`},
	{Name: "Char", Pattern: `[^\\]`},
})

var kinds = func() map[plexer.TokenType]token.Type {
	sym := definition.Symbols()
	return map[plexer.TokenType]token.Type{
		sym["EOF"]:    token.EOF,
		sym["Escape"]: token.Character,
		sym["Meta"]:   token.Metacharacter,
		sym["Char"]:   token.Character,
	}
}()

// Stream is a forward-only token sequence over a source. It ends with
// exactly one EOF token; reading past it keeps returning that token.
// A Stream is meant for a single consumer.
type Stream struct {
	src  *source.Source
	lex  plexer.Lexer
	eof  *token.Token
	err  error
	read int
}

func Tokenize(src *source.Source) *Stream {
	s := &Stream{src: src}
	lex, err := definition.LexString("", src.Text())
	if err != nil {
		s.fail(err)
		return s
	}
	s.lex = lex
	return s
}

// TokenizeString is Tokenize over a fresh source.
func TokenizeString(pattern string) *Stream {
	return Tokenize(source.New(pattern))
}

func (s *Stream) fail(err error) {
	s.err = err
	eof := token.New(token.EOF, "", s.src.Pos(s.src.Len()))
	s.eof = &eof
}

func (s *Stream) Next() token.Token {
	if s.eof != nil {
		return *s.eof
	}
	t, err := s.lex.Next()
	if err != nil {
		s.fail(fmt.Errorf("lexer: token %d: %w", s.read, err))
		return *s.eof
	}
	s.read++
	tok := token.New(kinds[t.Type], t.Value, s.src.Pos(t.Pos.Offset))
	if t.EOF() {
		s.eof = &tok
	}
	return tok
}

// Err reports a lexing failure; the stream ends early with EOF when set.
func (s *Stream) Err() error { return s.err }

// All drains a fresh stream over pattern, EOF included.
func All(pattern string) ([]token.Token, error) {
	s := TokenizeString(pattern)
	var out []token.Token
	for {
		t := s.Next()
		out = append(out, t)
		if t.Type == token.EOF {
			return out, s.Err()
		}
	}
}
