package peitho

import (
	"strings"
	"testing"

	"github.com/olgam4/peitho/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tok(typ TokenType, lexeme string, line int) Token {
	return Token{Typ: typ, Lexeme: lexeme, Literal: lexeme, Line: line}
}

func TestLexer(t *testing.T) {
	cases := []struct {
		data   string
		fail   bool
		expect []Token
	}{
		{
			"let x = 1",
			false,
			[]Token{
				tok(TokenLet, "let", 1),
				tok(TokenIdentifier, "x", 1),
				tok(TokenEqual, "=", 1),
				tok(TokenNumber, "1", 1),
			},
		},
		{
			"//this is a comment\n",
			false,
			[]Token{
				tok(TokenEOL, "\n", 1),
			},
		},
		{
			"print + 1 2 // trailing\nprint x",
			false,
			[]Token{
				tok(TokenPrint, "print", 1),
				tok(TokenPlus, "+", 1),
				tok(TokenNumber, "1", 1),
				tok(TokenNumber, "2", 1),
				tok(TokenEOL, "\n", 1),
				tok(TokenPrint, "print", 2),
				tok(TokenIdentifier, "x", 2),
			},
		},
		{
			"for i in [0..=10] {}",
			false,
			[]Token{
				tok(TokenFor, "for", 1),
				tok(TokenIdentifier, "i", 1),
				tok(TokenIn, "in", 1),
				tok(TokenOpenBracket, "[", 1),
				tok(TokenNumber, "0", 1),
				tok(TokenDotDotEqual, "..=", 1),
				tok(TokenNumber, "10", 1),
				tok(TokenCloseBracket, "]", 1),
				tok(TokenOpenCurly, "{", 1),
				tok(TokenCloseCurly, "}", 1),
			},
		},
		{
			"[1..3]",
			false,
			[]Token{
				tok(TokenOpenBracket, "[", 1),
				tok(TokenNumber, "1", 1),
				tok(TokenDotDot, "..", 1),
				tok(TokenNumber, "3", 1),
				tok(TokenCloseBracket, "]", 1),
			},
		},
		{
			"!= ! == >= <= < > . ,",
			false,
			[]Token{
				tok(TokenBangEqual, "!=", 1),
				tok(TokenBang, "!", 1),
				tok(TokenEqualEqual, "==", 1),
				tok(TokenGreaterEqual, ">=", 1),
				tok(TokenLessEqual, "<=", 1),
				tok(TokenLess, "<", 1),
				tok(TokenGreater, ">", 1),
				tok(TokenDot, ".", 1),
				tok(TokenComma, ",", 1),
			},
		},
		{
			"únicódeShouldBeVàlid = true",
			false,
			[]Token{
				tok(TokenIdentifier, "únicódeShouldBeVàlid", 1),
				tok(TokenEqual, "=", 1),
				tok(TokenTrue, "true", 1),
			},
		},
		{
			"\"\"",
			false,
			[]Token{
				tok(TokenString, "", 1),
			},
		},
		{
			"\"two\nlines\" x",
			false,
			[]Token{
				tok(TokenString, "two\nlines", 1),
				tok(TokenIdentifier, "x", 2),
			},
		},
		{
			"\"unclosed string",
			true,
			nil,
		},
		{
			"let a = 1 @",
			true,
			[]Token{
				tok(TokenLet, "let", 1),
				tok(TokenIdentifier, "a", 1),
				tok(TokenEqual, "=", 1),
				tok(TokenNumber, "1", 1),
			},
		},
	}

	for _, c := range cases {
		toks, err := NewLexer(strings.NewReader(c.data)).RunBlocking()
		if c.fail {
			assert.Error(t, err, c.data)
		} else {
			assert.NoError(t, err, c.data)
		}

		assert.Equal(t, c.expect, toks, c.data)
	}
}

func TestLexerScanError(t *testing.T) {
	_, err := Scan("print 1\nprint @")
	require.Error(t, err)

	var scanErr *ScanError
	require.ErrorAs(t, err, &scanErr)
	assert.Equal(t, 2, scanErr.Line)
	assert.Equal(t, "[2] Error: unexpected character '@'", err.Error())
}

// Use a package-level variable to avoid compiler optimisation
var benchResult []Token

func benchmarkLexer(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		// Setup
		b.StopTimer()
		data := test.GetRandomTokens(size)
		l := NewLexer(strings.NewReader(data))

		var err error
		b.StartTimer()

		benchResult, err = l.RunBlocking()
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLexer100(b *testing.B) {
	benchmarkLexer(100, b)
}

func BenchmarkLexer1000(b *testing.B) {
	benchmarkLexer(1000, b)
}

func BenchmarkLexer10000(b *testing.B) {
	benchmarkLexer(10000, b)
}

func BenchmarkLexer100000(b *testing.B) {
	benchmarkLexer(100000, b)
}
