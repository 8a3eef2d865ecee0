package peitho

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpreterRunReader(t *testing.T) {
	cases := []struct {
		source string
		expect string
	}{
		{
			"print 1\nprint 2\n",
			"1\n2\n",
		},
		{
			"let x = 3\nprint * x x",
			"9\n",
		},
		{
			"let name = \"world\"\nif (== 1 1) { print name } else { print 0 }",
			"world\n",
		},
		{
			"for i in [1..4] { print i }",
			"1\n2\n3\n",
		},
		{
			"// squares\nlet n = 2\nn = * n n\nprint n\nn = * n n\nprint n",
			"4\n16\n",
		},
		{
			"let a = 1, b = 2\nprint + a b",
			"3\n",
		},
		{
			"if (true) {\n print 1\n}\nelse {\n print 2\n}\n",
			"1\n",
		},
		{
			"if (false) {\n print 1\n}\nelse {\n print 2\n}\nprint 3",
			"2\n3\n",
		},
	}

	for _, c := range cases {
		var out bytes.Buffer
		_, err := NewInterpreter(&out).RunReader(strings.NewReader(c.source))
		require.NoError(t, err, c.source)
		assert.Equal(t, c.expect, out.String(), c.source)
	}
}

func TestInterpreterTopLevelAssignment(t *testing.T) {
	var out bytes.Buffer
	_, err := NewInterpreter(&out).RunReader(strings.NewReader("x = 1\nprint x"))
	require.NoError(t, err)
	assert.Equal(t, "1\n", out.String())

	// Without an environment there is nothing for the assignment to extend.
	_, err = Interpret(&AssignExpr{Name: "x", Value: NewInteger(1)}, nil)

	var undefined *UndefinedVariableError
	require.ErrorAs(t, err, &undefined)
	assert.Equal(t, "x", undefined.Name)
}

func TestInterpreterRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.pt")
	require.NoError(t, os.WriteFile(path, []byte("print \"from file\""), 0o644))

	var out bytes.Buffer
	_, err := NewInterpreter(&out).Run(path)
	require.NoError(t, err)
	assert.Equal(t, "from file\n", out.String())

	_, err = NewInterpreter(&out).Run(filepath.Join(t.TempDir(), "missing.pt"))
	assert.Error(t, err)
}

func TestInterpreterFailsFast(t *testing.T) {
	var out bytes.Buffer
	_, err := NewInterpreter(&out).RunReader(strings.NewReader("print 1\nprint missing\nprint 2"))

	var undefined *UndefinedVariableError
	require.ErrorAs(t, err, &undefined)
	assert.Equal(t, "1\n", out.String())
}

func TestMustInterpret(t *testing.T) {
	assert.Equal(t, IntegerValue(3), MustInterpret(sum(NewInteger(1), NewInteger(2)), nil))

	assert.Panics(t, func() {
		MustInterpret(use("nope"), nil)
	})
}

func TestFormat(t *testing.T) {
	tokens, err := Scan("let x = 1\nfor i in [0..2] { print - i x }")
	require.NoError(t, err)

	expr, err := Translate(tokens)
	require.NoError(t, err)

	assert.Equal(t, "(Let ((x 1)) (For i 0 (Subtract 2 1) (Print (Subtract x i))))", Format(expr))
	assert.Equal(t, "(Chain (Assign y 1.5) \"s\")", Format(&ChainExpr{Left: &AssignExpr{Name: "y", Value: NewFloat(1.5)}, Right: NewString("s")}))
}
