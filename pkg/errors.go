package peitho

import (
	"fmt"
	"strings"
)

// ScanError is reported by the lexer when it cannot continue. The tokens read
// before the failure are still handed back to the caller.
type ScanError struct {
	Line    int
	Message string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("[%d] Error: %s", e.Line, e.Message)
}

type ParseError struct {
	Line     int
	Expected string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: expected %s", e.Line, e.Expected)
}

type InvalidOperandError struct {
	Operand Operand
}

func (e *InvalidOperandError) Error() string {
	return fmt.Sprintf("invalid operand: %s", e.Operand)
}

type InvalidValuesError struct {
	Label  string
	Values []Value
}

func (e *InvalidValuesError) Error() string {
	vals := make([]string, 0, len(e.Values))
	for _, v := range e.Values {
		vals = append(vals, describe(v))
	}

	return fmt.Sprintf("invalid values for %s: [%s]", e.Label, strings.Join(vals, ", "))
}

type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable: %s", e.Name)
}

func invalidValues(label string, values ...Value) error {
	return &InvalidValuesError{Label: label, Values: values}
}
