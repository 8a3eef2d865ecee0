package peitho

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Evaluator walks an expression tree. It keeps no state between calls: the
// environment is passed down explicitly and changes to it travel back up as
// StateValue results.
type Evaluator struct {
	out    io.Writer
	logger *slog.Logger
}

func NewEvaluator(out io.Writer) *Evaluator {
	return &Evaluator{
		out:    out,
		logger: slog.Default(),
	}
}

func (ev *Evaluator) WithLogger(logger *slog.Logger) *Evaluator {
	ev.logger = logger
	return ev
}

// Evaluate runs expr with an evaluator printing to stdout.
func Evaluate(expr Expr, env *Environment) (Value, error) {
	return NewEvaluator(os.Stdout).Evaluate(expr, env)
}

func (ev *Evaluator) Evaluate(expr Expr, env *Environment) (Value, error) {
	switch e := expr.(type) {
	case *EmptyExpr:
		return UnitValue{}, nil
	case *Primitive:
		return ev.primitive(e)
	case *BinaryExpr:
		return ev.binary(e, env)
	case *CompareExpr:
		return ev.compare(e, env)
	case *UnaryExpr:
		return ev.unary(e, env)
	case *IfExpr:
		cond, err := ev.Evaluate(e.Condition, env)
		if err != nil {
			return nil, err
		}

		b, ok := cond.(BooleanValue)
		if !ok {
			return nil, invalidValues("If", cond)
		}

		if b {
			return ev.Evaluate(e.Then, env)
		}

		return ev.Evaluate(e.Else, env)
	case *LetExpr:
		scope := env
		if scope == nil {
			scope = NewEnvironment()
		}

		for _, b := range e.Bindings {
			scope = scope.Set(b.Name, b.Value)
		}

		return ev.Evaluate(e.Scope, scope)
	case *UseExpr:
		stored, ok := env.Get(e.Name)
		if !ok {
			return nil, &UndefinedVariableError{Name: e.Name}
		}

		// Bindings hold expressions, so they see the environment of the use site.
		return ev.Evaluate(stored, env)
	case *AssignExpr:
		return ev.assign(e, env)
	case *ForExpr:
		return ev.loop(e, env)
	case *PrintExpr:
		return ev.print(e, env)
	case *ChainExpr:
		left, err := ev.Evaluate(e.Left, env)
		if err != nil {
			return nil, err
		}

		if s, ok := left.(StateValue); ok {
			return ev.Evaluate(e.Right, s.Env)
		}

		return ev.Evaluate(e.Right, env)
	case *DeriveStateExpr:
		if _, err := ev.Evaluate(e.Expr, env); err != nil {
			return nil, err
		}

		return StateValue{Env: env}, nil
	case *GroupExpr:
		return ev.Evaluate(e.Inner, env)
	}

	return nil, fmt.Errorf("cannot evaluate expression of type %T", expr)
}

func (ev *Evaluator) primitive(p *Primitive) (Value, error) {
	switch p.Typ {
	case PrimitiveInteger:
		return IntegerValue(p.Int), nil
	case PrimitiveString:
		return StringValue(p.Str), nil
	case PrimitiveBoolean:
		return BooleanValue(p.Bool), nil
	case PrimitiveFloat:
		return FloatValue(p.Float), nil
	}

	return nil, invalidValues("Invalid primitive value, Placeholder")
}

func (ev *Evaluator) operands(left, right Expr, env *Environment) (Value, Value, error) {
	l, err := ev.Evaluate(left, env)
	if err != nil {
		return nil, nil, err
	}

	r, err := ev.Evaluate(right, env)
	if err != nil {
		return nil, nil, err
	}

	return l, r, nil
}

func (ev *Evaluator) binary(e *BinaryExpr, env *Environment) (Value, error) {
	l, r, err := ev.operands(e.Left, e.Right, env)
	if err != nil {
		return nil, err
	}

	li, lok := l.(IntegerValue)
	ri, rok := r.(IntegerValue)
	if !lok || !rok {
		return nil, invalidValues(e.Operation.Name(), l, r)
	}

	switch e.Operation {
	case BinarySum:
		return li + ri, nil
	case BinarySubtract:
		return li - ri, nil
	case BinaryProduct:
		return li * ri, nil
	case BinaryDivide:
		if ri == 0 {
			return nil, invalidValues("Division with 0", r)
		}

		return FloatValue(float64(li) / float64(ri)), nil
	}

	return nil, invalidValues(e.Operation.Name(), l, r)
}

func (ev *Evaluator) compare(e *CompareExpr, env *Environment) (Value, error) {
	l, r, err := ev.operands(e.Left, e.Right, env)
	if err != nil {
		return nil, err
	}

	li, lok := l.(IntegerValue)
	ri, rok := r.(IntegerValue)
	if !lok || !rok {
		return nil, invalidValues("Compare", l, r)
	}

	switch e.Operand {
	case OperandEquals:
		return BooleanValue(li == ri), nil
	case OperandLessThan:
		return BooleanValue(li < ri), nil
	case OperandGreaterThan:
		return BooleanValue(li > ri), nil
	}

	return nil, &InvalidOperandError{Operand: e.Operand}
}

func (ev *Evaluator) unary(e *UnaryExpr, env *Environment) (Value, error) {
	v, err := ev.Evaluate(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch v := v.(type) {
	case IntegerValue:
		switch e.Operand {
		case OperandNegate:
			return -v, nil
		case OperandNot:
			return BooleanValue(v == 0), nil
		}
	case BooleanValue:
		if e.Operand == OperandNot {
			return !v, nil
		}
	default:
		return nil, invalidValues("Unary", v)
	}

	return nil, &InvalidOperandError{Operand: e.Operand}
}

func (ev *Evaluator) assign(e *AssignExpr, env *Environment) (Value, error) {
	if env == nil {
		return nil, &UndefinedVariableError{Name: e.Name}
	}

	v, err := ev.Evaluate(e.Value, env)
	if err != nil {
		return nil, err
	}

	lit, ok := literal(v)
	if !ok {
		return nil, invalidValues("Assign", v)
	}

	return StateValue{Env: env.Set(e.Name, lit)}, nil
}

// loop runs the body once per integer of the inclusive range. A StateValue
// produced by the body is carried into the next iteration, anything else
// leaves the carried environment as it was.
func (ev *Evaluator) loop(e *ForExpr, env *Environment) (Value, error) {
	from, to, err := ev.operands(e.From, e.To, env)
	if err != nil {
		return nil, err
	}

	fi, fok := from.(IntegerValue)
	ti, tok := to.(IntegerValue)
	if !fok || !tok {
		return nil, invalidValues("For", from, to)
	}

	ev.logger.Debug("for loop",
		slog.String("variable", e.Variable),
		slog.Int("from", int(fi)),
		slog.Int("to", int(ti)))

	carry := env
	for i := int64(fi); i <= int64(ti); i++ {
		scope := carry.Set(e.Variable, NewInteger(int32(i)))

		result, err := ev.Evaluate(e.Body, scope)
		if err != nil {
			return nil, err
		}

		if s, ok := result.(StateValue); ok {
			carry = s.Env
		}
	}

	return UnitValue{}, nil
}

func (ev *Evaluator) print(e *PrintExpr, env *Environment) (Value, error) {
	v, err := ev.Evaluate(e.Expr, env)
	if err != nil {
		return nil, err
	}

	text := v.String()
	if s, ok := v.(StateValue); ok {
		text, err = ev.listing(s.Env, env)
		if err != nil {
			return nil, err
		}
	}

	if _, err := fmt.Fprintln(ev.out, text); err != nil {
		return nil, fmt.Errorf("print: %w", err)
	}

	return UnitValue{}, nil
}

// listing renders every binding of state, evaluated against the caller's
// environment.
func (ev *Evaluator) listing(state, caller *Environment) (string, error) {
	var lines []string
	err := state.Each(func(name string, expr Expr) error {
		v, err := ev.Evaluate(expr, caller)
		if err != nil {
			return err
		}

		lines = append(lines, name+" = "+v.String())
		return nil
	})
	if err != nil {
		return "", err
	}

	return strings.Join(lines, "\n"), nil
}
