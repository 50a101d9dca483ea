package dub

import (
	"reflect"
	"testing"
)

func TestEvalMatchExpr(t *testing.T) {
	type test struct {
		input    string
		num, den int
		stepSize int
		expect   []int
	}
	tests := []test{
		{
			input:    "2,4/*",
			num:      4,
			den:      4,
			stepSize: 16,
			expect:   []int{0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 0, 1, 0, 1, 0},
		},
		{
			input:    "1:4",
			num:      4,
			den:      4,
			stepSize: 16,
			expect:   []int{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0},
		},
		{
			input:    "1:2//1:4",
			num:      4,
			den:      4,
			stepSize: 16,
			expect:   []int{1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			input:    "*//3,4",
			num:      4,
			den:      4,
			stepSize: 16,
			expect:   []int{0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1},
		},
		{
			input:    "*/2",
			num:      4,
			den:      4,
			stepSize: 16,
			expect:   []int{0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0},
		},
		{
			input:    "5",
			num:      5,
			den:      4,
			stepSize: 16,
			expect:   []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0},
		},
		{
			input:    "*",
			num:      7,
			den:      8,
			stepSize: 16,
			expect:   []int{1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0},
		},
		{
			input:    "*/2",
			num:      7,
			den:      8,
			stepSize: 16,
			expect:   []int{0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1},
		},
		{
			input:    "*",
			num:      4,
			den:      4,
			stepSize: 32,
			expect: []int{
				1, 0, 0, 0, 0, 0, 0, 0,
				1, 0, 0, 0, 0, 0, 0, 0,
				1, 0, 0, 0, 0, 0, 0, 0,
				1, 0, 0, 0, 0, 0, 0, 0,
			},
		},
	}
	for _, test := range tests {
		input := "a '" + test.input // make the input a valid dub command
		command, err := Parse(input)
		if err != nil {
			t.Error(err)
			continue
		}
		expr := command.Args[0].(MatchExpr)
		got, err := EvalMatchExpr(expr, test.num, test.den, test.stepSize)
		if err != nil {
			t.Errorf("%s: %v", test.input, err)
			continue
		}
		if !reflect.DeepEqual(test.expect, got) {
			t.Errorf("%s: seq mismatch:\nwant %v\ngot: %v", test.input, test.expect, got)
		}
	}
}

func TestEvalMatchExprErrors(t *testing.T) {
	command, err := Parse("a '*///*")
	if err != nil {
		t.Fatal(err)
	}
	expr := command.Args[0].(MatchExpr)
	if _, err := EvalMatchExpr(expr, 4, 4, 16); err == nil {
		t.Errorf("want error when matching 32nd notes with 16th note steps")
	}
	if _, err := EvalMatchExpr(expr, 4, 3, 16); err == nil {
		t.Errorf("want error for a denominator that does not divide the step size")
	}
}

func TestMatchExprString(t *testing.T) {
	for _, input := range []string{"'*", "'2,4/*", "'1:2//1:4", "'*///3"} {
		command, err := Parse("a " + input)
		if err != nil {
			t.Fatal(err)
		}
		if got := command.Args[0].(MatchExpr).String(); input != got {
			t.Errorf("want %s, got %s", input, got)
		}
	}
}
