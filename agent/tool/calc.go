package tool

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	contractx "github.com/patcharaw/multitool-agent/agent/contract"
)

// Accepts digits, whitespace, decimal points, the four basic operators,
// exponentiation, and parentheses. Anything else never reaches the
// evaluator.
var calcExpressionPattern = regexp.MustCompile(`^[\d\s\+\-\*/\^\(\)\.]+$`)

// CalcOutput is the normalized shape of one calculator evaluation.
type CalcOutput struct {
	Expression string  `json:"expression"`
	Result     float64 `json:"result"`
}

// IsArithmetic reports whether text is purely an arithmetic expression.
// The orchestrator uses it to route obvious math straight to the
// calculator without a reasoning call.
func IsArithmetic(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	return calcExpressionPattern.MatchString(text)
}

// executeCalculator is the one pure adapter: no network, no side effects.
func executeCalculator(_ context.Context, args map[string]any) contractx.ToolResult {
	expression, ok := stringArg(args, "expression")
	if !ok {
		return contractx.Fail(ToolCalculator, contractx.FailureInvalidInput, "expression is required")
	}

	if err := checkExpression(expression); err != nil {
		return contractx.Fail(ToolCalculator, contractx.FailureInvalidInput, "%s", err.Error())
	}

	result, err := evalExpression(expression)
	if err != nil {
		return contractx.Fail(ToolCalculator, contractx.FailureInvalidInput, "%s", err.Error())
	}
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return contractx.Fail(ToolCalculator, contractx.FailureInvalidInput, "expression does not evaluate to a finite number")
	}

	return contractx.Succeed(ToolCalculator, CalcOutput{
		Expression: expression,
		Result:     result,
	})
}

func checkExpression(expression string) error {
	if !calcExpressionPattern.MatchString(expression) {
		return fmt.Errorf("expression contains invalid characters, only numbers, + - * / ^ and parentheses are allowed")
	}

	depth := 0
	for _, ch := range expression {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return fmt.Errorf("expression has unbalanced parentheses")
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("expression has unbalanced parentheses")
	}
	return nil
}

func evalExpression(expression string) (float64, error) {
	p := &exprParser{input: expression}
	value, err := p.parseSum()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.hasNext() {
		return 0, fmt.Errorf("unexpected token at position %d", p.pos)
	}
	return value, nil
}

// exprParser is a small recursive-descent parser over the restricted
// grammar: sum -> product -> power -> unary -> primary.
type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) parseSum() (float64, error) {
	left, err := p.parseProduct()
	if err != nil {
		return 0, err
	}

	for {
		p.skipSpaces()
		switch {
		case p.match('+'):
			right, err := p.parseProduct()
			if err != nil {
				return 0, err
			}
			left += right
		case p.match('-'):
			right, err := p.parseProduct()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseProduct() (float64, error) {
	left, err := p.parsePower()
	if err != nil {
		return 0, err
	}

	for {
		p.skipSpaces()
		switch {
		case p.match('*'):
			right, err := p.parsePower()
			if err != nil {
				return 0, err
			}
			left *= right
		case p.match('/'):
			right, err := p.parsePower()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parsePower() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}

	p.skipSpaces()
	// Right-associative.
	if p.match('^') {
		right, err := p.parsePower()
		if err != nil {
			return 0, err
		}
		return math.Pow(left, right), nil
	}
	return left, nil
}

func (p *exprParser) parseUnary() (float64, error) {
	p.skipSpaces()
	if p.match('+') {
		return p.parseUnary()
	}
	if p.match('-') {
		value, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return -value, nil
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (float64, error) {
	p.skipSpaces()
	if p.match('(') {
		value, err := p.parseSum()
		if err != nil {
			return 0, err
		}
		p.skipSpaces()
		if !p.match(')') {
			return 0, fmt.Errorf("missing closing parenthesis at position %d", p.pos)
		}
		return value, nil
	}
	return p.parseNumber()
}

func (p *exprParser) parseNumber() (float64, error) {
	p.skipSpaces()
	start := p.pos
	hasDigit := false
	hasDot := false

	for p.hasNext() {
		ch := p.peek()
		switch {
		case ch >= '0' && ch <= '9':
			hasDigit = true
			p.pos++
		case ch == '.':
			if hasDot {
				return 0, fmt.Errorf("invalid number format at position %d", p.pos)
			}
			hasDot = true
			p.pos++
		default:
			goto done
		}
	}

done:
	if !hasDigit {
		return 0, fmt.Errorf("expected number at position %d", start)
	}

	raw := p.input[start:p.pos]
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", raw, err)
	}
	return value, nil
}

func (p *exprParser) skipSpaces() {
	for p.hasNext() && p.peek() == ' ' {
		p.pos++
	}
}

func (p *exprParser) hasNext() bool {
	return p.pos < len(p.input)
}

func (p *exprParser) peek() byte {
	return p.input[p.pos]
}

func (p *exprParser) match(expected byte) bool {
	if p.hasNext() && p.peek() == expected {
		p.pos++
		return true
	}
	return false
}
