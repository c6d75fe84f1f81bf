package expr

import (
	"fmt"
	"strings"
)

// Render produces the canonical text of an expression: single spaces around
// infix operators, no space after unary operators or around subscripts, and
// only the parentheses that precedence requires. Rendering a parsed
// rendering is a fixed point, which is what makes the text usable as a key
// for alias detection and cross-path step merging.
func Render(e Expr) string {
	switch n := e.(type) {
	case *Ident:
		return n.Name
	case *Number:
		return n.Raw
	case *Unary:
		return n.Op + renderOperand(n.X, unaryPrec, false)
	case *Binary:
		prec := renderBinaryPrec(n.Op)
		return renderOperand(n.X, prec, false) + " " + n.Op + " " + renderOperand(n.Y, prec, true)
	case *Call:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = Render(a)
		}
		return n.Func + "(" + strings.Join(args, ", ") + ")"
	case *Index:
		return renderOperand(n.X, postfixPrec, false) + "[" + Render(n.Key) + "]"
	}
	panic(fmt.Sprintf("expr: unknown node %T", e))
}

const (
	unaryPrec   = 4
	postfixPrec = 5
)

func renderBinaryPrec(op string) int {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=":
		return 1
	case "+", "-":
		return 2
	}
	return 3
}

// renderOperand parenthesizes a child when its precedence is lower than the
// parent's, or equal on the right-hand side of a left-associative operator.
func renderOperand(e Expr, parentPrec int, rightSide bool) string {
	childPrec := postfixPrec + 1
	switch n := e.(type) {
	case *Binary:
		childPrec = renderBinaryPrec(n.Op)
	case *Unary:
		childPrec = unaryPrec
	}
	text := Render(e)
	if childPrec < parentPrec || (rightSide && childPrec == parentPrec) {
		return "(" + text + ")"
	}
	return text
}

// Idents returns every distinct identifier referenced by the expression, in
// first-encounter order. Function names are not identifiers in this grammar.
func Idents(e Expr) []string {
	var names []string
	seen := make(map[string]struct{})
	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case *Ident:
			if _, ok := seen[n.Name]; !ok {
				seen[n.Name] = struct{}{}
				names = append(names, n.Name)
			}
		case *Number:
		case *Unary:
			walk(n.X)
		case *Binary:
			walk(n.X)
			walk(n.Y)
		case *Call:
			for _, a := range n.Args {
				walk(a)
			}
		case *Index:
			walk(n.X)
			walk(n.Key)
		}
	}
	walk(e)
	return names
}

// Substitute returns a copy of the expression with every identifier found in
// repl renamed to its mapped value. The input expression is not modified.
func Substitute(e Expr, repl map[string]string) Expr {
	switch n := e.(type) {
	case *Ident:
		if to, ok := repl[n.Name]; ok {
			return &Ident{Name: to}
		}
		return &Ident{Name: n.Name}
	case *Number:
		return &Number{Raw: n.Raw}
	case *Unary:
		return &Unary{Op: n.Op, X: Substitute(n.X, repl)}
	case *Binary:
		return &Binary{Op: n.Op, X: Substitute(n.X, repl), Y: Substitute(n.Y, repl)}
	case *Call:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = Substitute(a, repl)
		}
		return &Call{Func: n.Func, Args: args}
	case *Index:
		return &Index{X: Substitute(n.X, repl), Key: Substitute(n.Key, repl)}
	}
	panic(fmt.Sprintf("expr: unknown node %T", e))
}
