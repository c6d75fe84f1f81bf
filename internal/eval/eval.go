// Package eval evaluates reasoning paths over a factual assignment of
// parameter values, and verifies that a simplified path still computes the
// same return values as the path it was derived from.
//
// Values are cty values throughout, so number arithmetic is arbitrary
// precision and the call table plugs straight into the cty function stdlib.
package eval

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/akarpov/reasonpath/internal/expr"
	"github.com/akarpov/reasonpath/internal/path"
)

// Expression evaluates a single expression against a scope of named values.
func Expression(e expr.Expr, scope map[string]cty.Value) (cty.Value, error) {
	switch n := e.(type) {
	case *expr.Ident:
		v, ok := scope[n.Name]
		if !ok {
			return cty.NilVal, fmt.Errorf("undefined name %q", n.Name)
		}
		return v, nil

	case *expr.Number:
		v, err := cty.ParseNumberVal(n.Raw)
		if err != nil {
			return cty.NilVal, fmt.Errorf("bad number literal %q: %w", n.Raw, err)
		}
		return v, nil

	case *expr.Unary:
		x, err := Expression(n.X, scope)
		if err != nil {
			return cty.NilVal, err
		}
		switch n.Op {
		case "-":
			if err := requireNumber(x, n.Op); err != nil {
				return cty.NilVal, err
			}
			return x.Negate(), nil
		case "!":
			if x.Type() != cty.Bool {
				return cty.NilVal, fmt.Errorf("operator ! needs a boolean operand, got %s", x.Type().FriendlyName())
			}
			return x.Not(), nil
		}
		return cty.NilVal, fmt.Errorf("unsupported unary operator %q", n.Op)

	case *expr.Binary:
		x, err := Expression(n.X, scope)
		if err != nil {
			return cty.NilVal, err
		}
		y, err := Expression(n.Y, scope)
		if err != nil {
			return cty.NilVal, err
		}
		return binary(n.Op, x, y)

	case *expr.Call:
		fn, ok := calls[n.Func]
		if !ok {
			return cty.NilVal, fmt.Errorf("unknown function %q", n.Func)
		}
		args := make([]cty.Value, len(n.Args))
		for i, a := range n.Args {
			v, err := Expression(a, scope)
			if err != nil {
				return cty.NilVal, err
			}
			args[i] = v
		}
		out, err := fn.Call(args)
		if err != nil {
			return cty.NilVal, fmt.Errorf("call to %s failed: %w", n.Func, err)
		}
		return out, nil

	case *expr.Index:
		coll, err := Expression(n.X, scope)
		if err != nil {
			return cty.NilVal, err
		}
		key, err := Expression(n.Key, scope)
		if err != nil {
			return cty.NilVal, err
		}
		if !coll.CanIterateElements() {
			return cty.NilVal, fmt.Errorf("cannot index a %s value", coll.Type().FriendlyName())
		}
		if coll.HasIndex(key).False() {
			return cty.NilVal, fmt.Errorf("index %s out of range", key.GoString())
		}
		return coll.Index(key), nil
	}
	return cty.NilVal, fmt.Errorf("unsupported expression node %T", e)
}

func binary(op string, x, y cty.Value) (cty.Value, error) {
	switch op {
	case "==":
		return x.Equals(y), nil
	case "!=":
		return x.Equals(y).Not(), nil
	}
	if err := requireNumber(x, op); err != nil {
		return cty.NilVal, err
	}
	if err := requireNumber(y, op); err != nil {
		return cty.NilVal, err
	}
	switch op {
	case "+":
		return x.Add(y), nil
	case "-":
		return x.Subtract(y), nil
	case "*":
		return x.Multiply(y), nil
	case "/":
		if y.RawEquals(cty.Zero) {
			return cty.NilVal, fmt.Errorf("division by zero")
		}
		return x.Divide(y), nil
	case "%":
		if y.RawEquals(cty.Zero) {
			return cty.NilVal, fmt.Errorf("modulo by zero")
		}
		return x.Modulo(y), nil
	case "<":
		return x.LessThan(y), nil
	case "<=":
		return x.LessThanOrEqualTo(y), nil
	case ">":
		return x.GreaterThan(y), nil
	case ">=":
		return x.GreaterThanOrEqualTo(y), nil
	}
	return cty.NilVal, fmt.Errorf("unsupported operator %q", op)
}

func requireNumber(v cty.Value, op string) error {
	if v.Type() != cty.Number {
		return fmt.Errorf("operator %s needs number operands, got %s", op, v.Type().FriendlyName())
	}
	return nil
}

// Run evaluates every step of the path in order against the given parameter
// binding and returns the value of each declared return variable.
func Run(p *path.Path, binding map[string]cty.Value) (map[string]cty.Value, error) {
	scope := make(map[string]cty.Value, len(binding)+p.Len())
	for name, v := range binding {
		scope[name] = v
	}
	for _, s := range p.Steps() {
		e, err := expr.ParseExpression(s.Expression)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", s.StepID, s.Variable, err)
		}
		v, err := Expression(e, scope)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", s.StepID, s.Variable, err)
		}
		scope[s.Variable] = v
	}

	out := make(map[string]cty.Value, len(p.ReturnVars()))
	for _, rv := range p.ReturnVars() {
		v, ok := scope[rv]
		if !ok {
			return nil, fmt.Errorf("return variable %q is never defined", rv)
		}
		out[rv] = v
	}
	return out, nil
}

// NumberBinding converts a plain name-to-float assignment into a cty binding.
func NumberBinding(assignment map[string]float64) map[string]cty.Value {
	binding := make(map[string]cty.Value, len(assignment))
	for name, v := range assignment {
		binding[name] = cty.NumberFloatVal(v)
	}
	return binding
}
