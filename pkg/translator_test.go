package peitho

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func use(name string) *UseExpr { return &UseExpr{Name: name} }

func TestTranslator(t *testing.T) {
	cases := []struct {
		source string
		expect Expr
	}{
		{
			"",
			&EmptyExpr{},
		},
		{
			"print 1",
			&PrintExpr{Expr: NewInteger(1)},
		},
		{
			"print \"hello\"",
			&PrintExpr{Expr: NewString("hello")},
		},
		{
			"print - 2 1",
			&PrintExpr{Expr: &BinaryExpr{Operation: BinarySubtract, Left: NewInteger(1), Right: NewInteger(2)}},
		},
		{
			"print + * 2 3 1",
			&PrintExpr{Expr: &BinaryExpr{
				Operation: BinarySum,
				Left:      NewInteger(1),
				Right:     &BinaryExpr{Operation: BinaryProduct, Left: NewInteger(3), Right: NewInteger(2)},
			}},
		},
		{
			"print / 6 3",
			&PrintExpr{Expr: &BinaryExpr{Operation: BinaryDivide, Left: NewInteger(6), Right: NewInteger(3)}},
		},
		{
			"print > 2 1",
			&PrintExpr{Expr: &CompareExpr{Left: NewInteger(2), Operand: OperandGreaterThan, Right: NewInteger(1)}},
		},
		{
			"print >= 2 1",
			&PrintExpr{Expr: &UnaryExpr{
				Operand: OperandNot,
				Right:   &CompareExpr{Left: NewInteger(2), Operand: OperandLessThan, Right: NewInteger(1)},
			}},
		},
		{
			"print != a b",
			&PrintExpr{Expr: &UnaryExpr{
				Operand: OperandNot,
				Right:   &CompareExpr{Left: use("a"), Operand: OperandEquals, Right: use("b")},
			}},
		},
		{
			"print - 5",
			&PrintExpr{Expr: &UnaryExpr{Operand: OperandNegate, Right: NewInteger(5)}},
		},
		{
			"print ! true",
			&PrintExpr{Expr: &UnaryExpr{Operand: OperandNot, Right: NewBoolean(true)}},
		},
		{
			"let x = 1\nprint x",
			&LetExpr{
				Bindings: []Binding{{Name: "x", Value: NewInteger(1)}},
				Scope:    &PrintExpr{Expr: use("x")},
			},
		},
		{
			"let x = 1, y = + x 1",
			&LetExpr{
				Bindings: []Binding{
					{Name: "x", Value: NewInteger(1)},
					{Name: "y", Value: &BinaryExpr{Operation: BinarySum, Left: NewInteger(1), Right: use("x")}},
				},
				Scope: &EmptyExpr{},
			},
		},
		{
			"print 1\nprint 2",
			&ChainExpr{
				Left:  &PrintExpr{Expr: NewInteger(1)},
				Right: &ChainExpr{Left: &PrintExpr{Expr: NewInteger(2)}, Right: &EmptyExpr{}},
			},
		},
		{
			"x = 5",
			&AssignExpr{Name: "x", Value: NewInteger(5)},
		},
		{
			"x = 5\nprint x",
			&ChainExpr{
				Left:  &AssignExpr{Name: "x", Value: NewInteger(5)},
				Right: &ChainExpr{Left: &PrintExpr{Expr: use("x")}, Right: &EmptyExpr{}},
			},
		},
		{
			"if ( > x 1 ) { print x } else { print 0 }",
			&IfExpr{
				Condition: &CompareExpr{Left: use("x"), Operand: OperandGreaterThan, Right: NewInteger(1)},
				Then:      &PrintExpr{Expr: use("x")},
				Else:      &PrintExpr{Expr: NewInteger(0)},
			},
		},
		{
			"if (true) print 1",
			&IfExpr{
				Condition: NewBoolean(true),
				Then:      &PrintExpr{Expr: NewInteger(1)},
				Else:      &EmptyExpr{},
			},
		},
		{
			"if (true) { print 1 }\nelse { print 2 }",
			&IfExpr{
				Condition: NewBoolean(true),
				Then:      &PrintExpr{Expr: NewInteger(1)},
				Else:      &PrintExpr{Expr: NewInteger(2)},
			},
		},
		{
			"if (true) { print 1 }\n\nelse print 2",
			&IfExpr{
				Condition: NewBoolean(true),
				Then:      &PrintExpr{Expr: NewInteger(1)},
				Else:      &PrintExpr{Expr: NewInteger(2)},
			},
		},
		{
			"if (true) { print 1 }\nprint 2",
			&ChainExpr{
				Left: &IfExpr{
					Condition: NewBoolean(true),
					Then:      &PrintExpr{Expr: NewInteger(1)},
					Else:      &EmptyExpr{},
				},
				Right: &ChainExpr{Left: &PrintExpr{Expr: NewInteger(2)}, Right: &EmptyExpr{}},
			},
		},
		{
			"if (false) print 1 else if (true) print 2 else print 3",
			&IfExpr{
				Condition: NewBoolean(false),
				Then:      &PrintExpr{Expr: NewInteger(1)},
				Else: &IfExpr{
					Condition: NewBoolean(true),
					Then:      &PrintExpr{Expr: NewInteger(2)},
					Else:      &PrintExpr{Expr: NewInteger(3)},
				},
			},
		},
		{
			"for i in [0..3] { print i }",
			&ForExpr{
				Variable: "i",
				From:     NewInteger(0),
				To:       &BinaryExpr{Operation: BinarySubtract, Left: NewInteger(3), Right: NewInteger(1)},
				Body:     &PrintExpr{Expr: use("i")},
			},
		},
		{
			"for i in [0..=3] { print i }",
			&ForExpr{
				Variable: "i",
				From:     NewInteger(0),
				To:       NewInteger(3),
				Body:     &PrintExpr{Expr: use("i")},
			},
		},
		{
			"( ( 1 ) )",
			&GroupExpr{Inner: &GroupExpr{Inner: NewInteger(1)}},
		},
		{
			"print ( ( 1 ) )",
			&PrintExpr{Expr: NewInteger(1)},
		},
		{
			"print + ( * 2 3 ) 1",
			&PrintExpr{Expr: &BinaryExpr{
				Operation: BinarySum,
				Left:      NewInteger(1),
				Right:     &BinaryExpr{Operation: BinaryProduct, Left: NewInteger(3), Right: NewInteger(2)},
			}},
		},
		{
			", print 1",
			&ChainExpr{Left: &EmptyExpr{}, Right: &PrintExpr{Expr: NewInteger(1)}},
		},
	}

	for _, c := range cases {
		tokens, err := Scan(c.source)
		require.NoError(t, err, c.source)

		expr, err := Translate(tokens)
		require.NoError(t, err, c.source)
		assert.Equal(t, c.expect, expr, c.source)
	}
}

func TestTranslatorHandBuiltTokens(t *testing.T) {
	tokens := []Token{
		tok(TokenPrint, "print", 1),
		tok(TokenMinus, "-", 1),
		tok(TokenNumber, "2", 1),
		tok(TokenNumber, "1", 1),
	}

	expr, err := Translate(tokens)
	require.NoError(t, err)

	v, err := NewEvaluator(io.Discard).Evaluate(expr.(*PrintExpr).Expr, nil)
	require.NoError(t, err)
	assert.Equal(t, IntegerValue(-1), v)
}

func TestTranslatorErrors(t *testing.T) {
	cases := []struct {
		source string
		line   int
	}{
		{")", 1},
		{"print 1\n}", 2},
		{"if x print 1", 1},
		{"print ( 1", 1},
		{"print 99999999999", 1},
		{"else print 1", 1},
		{"for i [0..1] {}", 1},
		{"for i in [0 1] {}", 1},
		{"for i in [0..1] print i", 1},
		{"let = 1", 1},
		{"let x 1", 1},
		{"let x =\nprint x", 1},
		{"print +", 1},
	}

	for _, c := range cases {
		tokens, err := Scan(c.source)
		require.NoError(t, err, c.source)

		expr, err := Translate(tokens)
		assert.Nil(t, expr, c.source)

		var parseErr *ParseError
		if assert.ErrorAs(t, err, &parseErr, c.source) {
			assert.Equal(t, c.line, parseErr.Line, c.source)
		}
	}
}
