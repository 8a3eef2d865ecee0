package peitho

import (
	"strconv"
	"strings"
)

// Format renders expr as an s-expression, one node per parenthesised form.
func Format(expr Expr) string {
	var sb strings.Builder
	format(&sb, expr)
	return sb.String()
}

func format(sb *strings.Builder, expr Expr) {
	form := func(name string, children ...Expr) {
		sb.WriteString("(" + name)
		for _, c := range children {
			sb.WriteByte(' ')
			format(sb, c)
		}
		sb.WriteByte(')')
	}

	switch e := expr.(type) {
	case nil:
		sb.WriteString("nil")
	case *Primitive:
		switch e.Typ {
		case PrimitiveInteger:
			sb.WriteString(strconv.FormatInt(int64(e.Int), 10))
		case PrimitiveFloat:
			sb.WriteString(FloatValue(e.Float).String())
		case PrimitiveString:
			sb.WriteString(strconv.Quote(e.Str))
		case PrimitiveBoolean:
			sb.WriteString(strconv.FormatBool(e.Bool))
		default:
			sb.WriteString("_")
		}
	case *BinaryExpr:
		form(e.Operation.Name(), e.Left, e.Right)
	case *CompareExpr:
		form(e.Operand.String(), e.Left, e.Right)
	case *UnaryExpr:
		form(e.Operand.String(), e.Right)
	case *IfExpr:
		form("If", e.Condition, e.Then, e.Else)
	case *LetExpr:
		sb.WriteString("(Let (")
		for i, b := range e.Bindings {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString("(" + b.Name + " ")
			format(sb, b.Value)
			sb.WriteByte(')')
		}
		sb.WriteString(") ")
		format(sb, e.Scope)
		sb.WriteByte(')')
	case *UseExpr:
		sb.WriteString(e.Name)
	case *AssignExpr:
		form("Assign "+e.Name, e.Value)
	case *ForExpr:
		form("For "+e.Variable, e.From, e.To, e.Body)
	case *PrintExpr:
		form("Print", e.Expr)
	case *ChainExpr:
		form("Chain", e.Left, e.Right)
	case *DeriveStateExpr:
		form("DeriveState", e.Expr)
	case *GroupExpr:
		form("Group", e.Inner)
	case *EmptyExpr:
		sb.WriteString("()")
	}
}
