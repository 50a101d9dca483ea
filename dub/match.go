package dub

import (
	"fmt"
	"strconv"
	"strings"
)

type matchItem struct {
	level   int
	matcher matcher
}

type matcher interface {
	match(i int) bool
	String() string
}

type rangeMatch struct {
	start, end int
}

func (r rangeMatch) match(i int) bool {
	return (i >= r.start || r.start == -1) && (i <= r.end || r.end == -1)
}

func (r rangeMatch) String() string {
	if r == matchAll {
		return "*"
	}
	return fmt.Sprintf("%d:%d", r.start, r.end)
}

var matchAll = rangeMatch{-1, -1}

type listMatch []int

func (l listMatch) match(i int) bool {
	for _, k := range l {
		if k == i {
			return true
		}
	}
	return false
}

func (l listMatch) String() string {
	s := make([]string, len(l))
	for i, n := range l {
		s[i] = strconv.Itoa(n)
	}
	return strings.Join(s, ",")
}

// String formats the expression the way it is typed, e.g. '1,3/*.
func (m MatchExpr) String() string {
	var b strings.Builder
	b.WriteByte('\'')
	level := 0
	for i, item := range m.matchers {
		if i > 0 {
			b.WriteString(strings.Repeat("/", item.level-level))
		}
		level = item.level
		b.WriteString(item.matcher.String())
	}
	return b.String()
}

// EvalMatchExpr returns one bar of steps in the given time signature, with 1 on every
// step selected by expr. stepSize is the note value of a step, e.g. 16 for 16th notes.
//
// Each level of the expression is separated by a slash and selects notes relative to
// their parent: in '2,4/* the first level picks beats 2 and 4 and the second level picks
// all 8th notes within them.
func EvalMatchExpr(expr MatchExpr, numerator, denominator, stepSize int) ([]int, error) {
	if numerator < 1 || denominator < 1 || stepSize%denominator != 0 {
		return nil, fmt.Errorf("invalid time signature %d/%d for step size %d", numerator, denominator, stepSize)
	}
	seq := make([]int, (stepSize/denominator)*numerator)
	last := len(expr.matchers) - 1

	// Deeper levels go first: they set the steps, their parents clear the ones outside
	// the notes they select.
	for i := last; i >= 0; i-- {
		item := expr.matchers[i]
		notes := denominator << item.level // notes per bar of the level's note value
		if notes > stepSize {
			return nil, fmt.Errorf("can't match on %d notes with step size %d", notes, stepSize)
		}
		skip := stepSize / notes
		perBeat := notes / denominator

		for step, n := 0, 0; step < len(seq); step, n = step+skip, n+1 {
			// number notes within their beat, e.g. 16th notes are 1 to 4, except at the
			// top level where beats are numbered across the bar
			num := n + 1
			if perBeat > 1 {
				num = n%perBeat + 1
			}
			switch {
			case !item.matcher.match(num):
				for k := step; k < step+skip; k++ {
					seq[k] = 0
				}
			case i == last:
				seq[step] = 1
			}
		}
	}
	return seq, nil
}
