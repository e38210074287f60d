package source

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/emirpasic/gods/maps/treemap"
)

var ErrOutOfRange = errors.New("source: index out of range")

// Source is an immutable text with a sorted index of newline offsets.
// Offsets, lines and columns are counted in bytes; lines and columns start at 1.
type Source struct {
	text     string
	newlines *treemap.Map // newline offset -> number of the line that follows it
}

func New(text string) *Source {
	nl := treemap.NewWithIntComparator()
	line := 1
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			line++
			nl.Put(i, line)
		}
	}
	return &Source{text: text, newlines: nl}
}

func (s *Source) Text() string { return s.text }
func (s *Source) Len() int     { return len(s.text) }

// Lines returns the number of lines, counting a trailing empty line.
func (s *Source) Lines() int { return s.newlines.Size() + 1 }

// lastNewline returns the offset of the last newline strictly before i
// and the line number that follows it.
func (s *Source) lastNewline(i int) (offset, line int, ok bool) {
	if i == 0 {
		return 0, 1, false
	}
	k, v := s.newlines.Floor(i - 1)
	if k == nil {
		return 0, 1, false
	}
	return k.(int), v.(int), true
}

func (s *Source) check(i int) error {
	if i < 0 || i > len(s.text) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrOutOfRange, i, len(s.text))
	}
	return nil
}

// Line returns the 1-based line holding index i. A newline byte belongs to
// the line it terminates. i == Len() is allowed and denotes end of input.
func (s *Source) Line(i int) (int, error) {
	if err := s.check(i); err != nil {
		return 0, err
	}
	_, line, _ := s.lastNewline(i)
	return line, nil
}

// Column returns the 1-based column of index i.
func (s *Source) Column(i int) (int, error) {
	if err := s.check(i); err != nil {
		return 0, err
	}
	off, _, ok := s.lastNewline(i)
	if !ok {
		return i + 1, nil
	}
	return i - off, nil
}

// Index is the inverse of Line/Column.
func (s *Source) Index(line, col int) (int, error) {
	var i int
	if line <= 1 {
		i = col - 1
	} else {
		var found bool
		for _, k := range s.newlines.Keys() {
			off := k.(int)
			if v, _ := s.newlines.Get(off); v.(int) == line {
				i, found = off+col, true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: line %d", ErrOutOfRange, line)
		}
	}
	if err := s.check(i); err != nil {
		return 0, err
	}
	return i, nil
}

// At returns the rune starting at byte index i.
func (s *Source) At(i int) (rune, error) {
	if i < 0 || i >= len(s.text) {
		return utf8.RuneError, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, i, len(s.text))
	}
	r, _ := utf8.DecodeRuneInString(s.text[i:])
	return r, nil
}

// Pos returns the position of index i in s.
func (s *Source) Pos(i int) Position { return Position{Source: s, Index: i} }
