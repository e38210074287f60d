package fsm

import (
	"strings"
)

// ToRegexp turns d into an equivalent regular expression by state
// elimination. The empty string is written as $. It returns "" when d accepts
// nothing.
func ToRegexp(d *DFA) string {
	states := d.States()
	index := make(map[State]int, len(states))
	for i, q := range states {
		index[q] = i
	}
	start, accept := len(states), len(states)+1

	// edges[i][j] is the expression labeling i -> j; absent means no edge
	edges := make(map[int]map[int]string)
	add := func(i, j int, re string) {
		row, ok := edges[i]
		if !ok {
			row = make(map[int]string)
			edges[i] = row
		}
		if old, ok := row[j]; ok && old != re {
			row[j] = old + "|" + re
			return
		}
		row[j] = re
	}

	for _, t := range d.Transitions() {
		add(index[t.From], index[t.To], escapeRune(t.Symbol))
	}
	add(start, index[d.initial], "$")
	for _, q := range d.Finals() {
		add(index[q], accept, "$")
	}

	for k := range states {
		var star string
		if loop, ok := edges[k][k]; ok {
			star = starred(loop)
		}
		for i := 0; i <= accept; i++ {
			rik, ok := edges[i][k]
			if !ok || i == k {
				continue
			}
			for j := 0; j <= accept; j++ {
				rkj, ok := edges[k][j]
				if !ok || j == k {
					continue
				}
				add(i, j, concat(rik, star, rkj))
			}
		}
		for _, row := range edges {
			delete(row, k)
		}
		delete(edges, k)
	}

	return edges[start][accept]
}

func escapeRune(r rune) string {
	switch r {
	case '*', '+', '?', '|', '(', ')', '[', ']', '.', '$', '^', '-', '\\':
		return `\` + string(r)
	}
	return string(r)
}

// concat joins expressions, dropping redundant $ and bracketing
// alternations.
func concat(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		if p == "" || p == "$" {
			continue
		}
		if hasTopLevelAlt(p) {
			p = "(" + p + ")"
		}
		b.WriteString(p)
	}
	if b.Len() == 0 {
		return "$"
	}
	return b.String()
}

func starred(re string) string {
	if isAtom(re) {
		return re + "*"
	}
	return "(" + re + ")*"
}

// isAtom reports whether re is a single element that a quantifier can follow.
func isAtom(re string) bool {
	n := len([]rune(re))
	switch {
	case n == 1:
		return true
	case n == 2 && re[0] == '\\':
		return true
	}
	return false
}

// hasTopLevelAlt reports whether re contains a | outside parentheses,
// brackets and escapes.
func hasTopLevelAlt(re string) bool {
	depth, inSet := 0, false
	for i := 0; i < len(re); i++ {
		switch c := re[i]; {
		case c == '\\':
			i++
		case inSet:
			if c == ']' {
				inSet = false
			}
		case c == '[':
			inSet = true
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == '|' && depth == 0:
			return true
		}
	}
	return false
}
