package tool

import (
	"context"
	"strings"
	"testing"

	contractx "github.com/patcharaw/multitool-agent/agent/contract"
)

func TestIsArithmetic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want bool
	}{
		{"2+3", true},
		{"  12 * (3 + 4) ", true},
		{"2 ^ 10", true},
		{"3.5 / 0.5", true},
		{"", false},
		{"   ", false},
		{"what is 2+3?", false},
		{"price of AAPL", false},
		{"2 % 3", false},
	}
	for _, tt := range tests {
		if got := IsArithmetic(tt.text); got != tt.want {
			t.Errorf("IsArithmetic(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestCalculatorEvaluates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expression string
		want       float64
	}{
		{"2+3", 5},
		{"10 - 4 - 3", 3},
		{"12 * (3 + 4)", 84},
		{"10 / 4", 2.5},
		{"2^10", 1024},
		{"2^3^2", 512}, // right-associative
		{"-3 + 5", 2},
		{"3.5 * 2", 7},
		{"((1 + 2) * (3 + 4))", 21},
	}
	for _, tt := range tests {
		res := executeCalculator(context.Background(), map[string]any{"expression": tt.expression})
		if !res.OK() {
			t.Errorf("%q: unexpected failure %+v", tt.expression, res.Failure)
			continue
		}
		out, ok := res.Data.(CalcOutput)
		if !ok {
			t.Errorf("%q: data = %T, want CalcOutput", tt.expression, res.Data)
			continue
		}
		if out.Result != tt.want {
			t.Errorf("%q = %v, want %v", tt.expression, out.Result, tt.want)
		}
		if out.Expression != tt.expression {
			t.Errorf("%q: echoed expression = %q", tt.expression, out.Expression)
		}
	}
}

func TestCalculatorRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing expression", map[string]any{}},
		{"empty expression", map[string]any{"expression": "   "}},
		{"non-string expression", map[string]any{"expression": 7}},
		{"dangling operator", map[string]any{"expression": "2+"}},
		{"unbalanced parens", map[string]any{"expression": "(1 + 2"}},
		{"stray close paren", map[string]any{"expression": "1 + 2)"}},
		{"letters", map[string]any{"expression": "two plus two"}},
		{"modulo", map[string]any{"expression": "7 % 3"}},
		{"division by zero", map[string]any{"expression": "1 / 0"}},
		{"double dot", map[string]any{"expression": "1..5 + 2"}},
		{"overflow to infinity", map[string]any{"expression": "9^9999"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := executeCalculator(context.Background(), tt.args)
			if res.OK() {
				t.Fatalf("got success %+v, want invalid input failure", res.Data)
			}
			if res.Failure.Kind != contractx.FailureInvalidInput {
				t.Fatalf("kind = %q, want invalid_input", res.Failure.Kind)
			}
			if strings.TrimSpace(res.Failure.Message) == "" {
				t.Fatal("failure message is empty")
			}
		})
	}
}
