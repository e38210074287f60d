package fsmfile

import (
	"fmt"
	"io"

	plexer "github.com/alecthomas/participle/v2/lexer"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

const (
	tokIdent plexer.TokenType = -(iota + 2)
	tokInt
	tokChar
	tokArrow
	tokPunct
)

// definition adapts a compiled lexmachine scanner to participle.
type definition struct {
	lexer *lexmachine.Lexer
}

func newDefinition() (*definition, error) {
	l := lexmachine.NewLexer()
	l.Add([]byte(`[ \t\n\r]+`), skip)
	l.Add([]byte(`//[^\n]*`), skip)
	l.Add([]byte(`->`), tokAction(tokArrow))
	l.Add([]byte(`;`), tokAction(tokPunct))
	l.Add([]byte(`'([^'\\]|\\.)+'`), tokAction(tokChar))
	l.Add([]byte(`0|[1-9][0-9]*`), tokAction(tokInt))
	l.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*`), tokAction(tokIdent))
	if err := l.Compile(); err != nil {
		return nil, err
	}
	return &definition{lexer: l}, nil
}

func mustDefinition() *definition {
	d, err := newDefinition()
	if err != nil {
		panic(err)
	}
	return d
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func tokAction(typ plexer.TokenType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return plexer.Token{
			Type:  typ,
			Value: string(m.Bytes),
			Pos: plexer.Position{
				Offset: m.TC,
				Line:   m.StartLine,
				Column: m.StartColumn,
			},
		}, nil
	}
}

// Symbols must not read package variables: participle calls it while the
// package-level parser is being built.
func (d *definition) Symbols() map[string]plexer.TokenType {
	return map[string]plexer.TokenType{
		"EOF":   plexer.EOF,
		"Ident": tokIdent,
		"Int":   tokInt,
		"Char":  tokChar,
		"Arrow": tokArrow,
		"Punct": tokPunct,
	}
}

func (d *definition) Lex(filename string, r io.Reader) (plexer.Lexer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return d.LexBytes(filename, data)
}

func (d *definition) LexString(filename string, input string) (plexer.Lexer, error) {
	return d.LexBytes(filename, []byte(input))
}

func (d *definition) LexBytes(filename string, input []byte) (plexer.Lexer, error) {
	scanner, err := d.lexer.Scanner(input)
	if err != nil {
		return nil, err
	}
	end := plexer.Position{Filename: filename, Line: 1, Column: 1}
	end.Advance(string(input))
	return &scan{filename: filename, scanner: scanner, end: end}, nil
}

type scan struct {
	filename string
	scanner  *lexmachine.Scanner
	end      plexer.Position
}

func (s *scan) Next() (plexer.Token, error) {
	tok, err, eof := s.scanner.Next()
	if eof {
		return plexer.EOFToken(s.end), nil
	}
	if err != nil {
		return plexer.Token{}, fmt.Errorf("%s: %w", s.filename, err)
	}
	t := tok.(plexer.Token)
	t.Pos.Filename = s.filename
	return t, nil
}
