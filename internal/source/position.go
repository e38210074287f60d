package source

import "fmt"

// Position is an index into a Source.
type Position struct {
	Source *Source
	Index  int
}

func (p Position) Advance(n int) Position { return Position{Source: p.Source, Index: p.Index + n} }
func (p Position) Retreat(n int) Position { return Position{Source: p.Source, Index: p.Index - n} }

// Compare orders positions by index: negative, zero or positive.
func (p Position) Compare(q Position) int { return p.Index - q.Index }

func (p Position) AtEnd() bool { return p.Source == nil || p.Index >= p.Source.Len() }

// Line and Column return 0 for positions outside their source.
func (p Position) Line() int {
	if p.Source == nil {
		return 0
	}
	l, err := p.Source.Line(p.Index)
	if err != nil {
		return 0
	}
	return l
}

func (p Position) Column() int {
	if p.Source == nil {
		return 0
	}
	c, err := p.Source.Column(p.Index)
	if err != nil {
		return 0
	}
	return c
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Line(), p.Column())
}
