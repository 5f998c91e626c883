// 5 Oct 2026

// Package formula evaluates the scoring formula. The formula is a
// string typed in by the user, so it is parsed with a real expression
// parser and only a tiny arithmetic language is accepted: numbers,
// the variables a, b, ka and kb, + - * /, unary minus and parentheses.
// Anything else is refused before it is ever evaluated.
package formula

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// Default is the standard scoring formula.
//   - a: frequency of the base in the ingroup (consensus)
//   - b: frequency of the base in the outgroup (aspecificity)
const Default = "1 - (ka*0.5)*(1-a) - (kb*0.1)*b"

var (
	ErrFormula = errors.New("formula error")
	ErrArith   = errors.New("arithmetic error")
)

// Bindings are the values of the four variables.
type Bindings struct {
	A, B   float64
	Ka, Kb float64
}

type evalFn func(*Bindings) (float64, error)

// Formula is a parsed expression, ready to be evaluated many times.
type Formula struct {
	src  string
	eval evalFn
}

// String gives back the expression as it was given to Compile.
func (f *Formula) String() string { return f.src }

// atKs lets people write @ka and @kb, the old spelling.
var atKs = strings.NewReplacer("@ka", "ka", "@kb", "kb")

// Compile parses an expression and checks it only uses what we allow.
func Compile(src string) (*Formula, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("empty expression: %w", ErrFormula)
	}
	tree, err := parser.Parse(atKs.Replace(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormula, err)
	}
	fn, err := build(tree.Node)
	if err != nil {
		return nil, fmt.Errorf("\"%s\": %w", src, err)
	}
	return &Formula{src: src, eval: fn}, nil
}

// Eval evaluates a compiled formula. A result which is not a finite
// number is an error.
func (f *Formula) Eval(b Bindings) (float64, error) {
	x, err := f.eval(&b)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("result %v: %w", x, ErrArith)
	}
	return x, nil
}

// Eval parses and evaluates an expression in one go.
func Eval(src string, b Bindings) (float64, error) {
	f, err := Compile(src)
	if err != nil {
		return 0, err
	}
	return f.Eval(b)
}

// variable returns the function which fetches a bound variable.
func variable(name string) (evalFn, error) {
	switch name {
	case "a":
		return func(b *Bindings) (float64, error) { return b.A, nil }, nil
	case "b":
		return func(b *Bindings) (float64, error) { return b.B, nil }, nil
	case "ka":
		return func(b *Bindings) (float64, error) { return b.Ka, nil }, nil
	case "kb":
		return func(b *Bindings) (float64, error) { return b.Kb, nil }, nil
	}
	return nil, fmt.Errorf("undefined variable \"%s\": %w", name, ErrFormula)
}

func constant(x float64) evalFn {
	return func(*Bindings) (float64, error) { return x, nil }
}

// build walks the syntax tree and turns every node into a closure.
// Nodes we do not know are refused.
func build(node ast.Node) (evalFn, error) {
	switch n := node.(type) {
	case *ast.IntegerNode:
		return constant(float64(n.Value)), nil
	case *ast.FloatNode:
		return constant(n.Value), nil
	case *ast.IdentifierNode:
		return variable(n.Value)
	case *ast.UnaryNode:
		return buildUnary(n)
	case *ast.BinaryNode:
		return buildBinary(n)
	}
	return nil, fmt.Errorf("\"%v\" is not allowed: %w", node, ErrFormula)
}

func buildUnary(n *ast.UnaryNode) (evalFn, error) {
	x, err := build(n.Node)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case "+":
		return x, nil
	case "-":
		return func(b *Bindings) (float64, error) {
			v, err := x(b)
			return -v, err
		}, nil
	}
	return nil, fmt.Errorf("operator \"%s\" is not allowed: %w", n.Operator, ErrFormula)
}

func buildBinary(n *ast.BinaryNode) (evalFn, error) {
	var op func(x, y float64) (float64, error)
	switch n.Operator {
	case "+":
		op = func(x, y float64) (float64, error) { return x + y, nil }
	case "-":
		op = func(x, y float64) (float64, error) { return x - y, nil }
	case "*":
		op = func(x, y float64) (float64, error) { return x * y, nil }
	case "/":
		op = func(x, y float64) (float64, error) {
			if y == 0 {
				return 0, fmt.Errorf("division by zero: %w", ErrArith)
			}
			return x / y, nil
		}
	default:
		return nil, fmt.Errorf("operator \"%s\" is not allowed: %w", n.Operator, ErrFormula)
	}
	left, err := build(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := build(n.Right)
	if err != nil {
		return nil, err
	}
	return func(b *Bindings) (float64, error) {
		x, err := left(b)
		if err != nil {
			return 0, err
		}
		y, err := right(b)
		if err != nil {
			return 0, err
		}
		return op(x, y)
	}, nil
}
