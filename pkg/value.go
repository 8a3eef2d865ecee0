package peitho

import (
	"fmt"
	"strconv"
)

// Value is the result of evaluating an expression.
type Value interface {
	fmt.Stringer
	value()
}

type StringValue string
type IntegerValue int32
type FloatValue float64
type BooleanValue bool
type UnitValue struct{}

// StateValue carries an environment snapshot out of an evaluation so that
// Chain and For can hand it to whatever runs next. Env may be nil.
type StateValue struct {
	Env *Environment
}

func (v StringValue) String() string  { return string(v) }
func (v IntegerValue) String() string { return strconv.FormatInt(int64(v), 10) }
func (v FloatValue) String() string   { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v BooleanValue) String() string { return strconv.FormatBool(bool(v)) }
func (UnitValue) String() string      { return "" }

func (v StateValue) String() string {
	return fmt.Sprintf("State(%d bindings)", v.Env.Len())
}

func (StringValue) value()  {}
func (IntegerValue) value() {}
func (FloatValue) value()   {}
func (BooleanValue) value() {}
func (UnitValue) value()    {}
func (StateValue) value()   {}

// describe renders a value with its kind, for error messages.
func describe(v Value) string {
	switch v := v.(type) {
	case StringValue:
		return fmt.Sprintf("String(%q)", string(v))
	case IntegerValue:
		return fmt.Sprintf("Integer(%s)", v)
	case FloatValue:
		return fmt.Sprintf("Float(%s)", v)
	case BooleanValue:
		return fmt.Sprintf("Boolean(%s)", v)
	case UnitValue:
		return "Unit"
	case StateValue:
		return v.String()
	case nil:
		return "None"
	}

	return fmt.Sprintf("%v", v)
}

// literal turns a value back into an expression, as Assign stores values and
// not the expressions that produced them.
func literal(v Value) (Expr, bool) {
	switch v := v.(type) {
	case IntegerValue:
		return NewInteger(int32(v)), true
	case StringValue:
		return NewString(string(v)), true
	case BooleanValue:
		return NewBoolean(bool(v)), true
	case FloatValue:
		return NewFloat(float64(v)), true
	}

	return nil, false
}
