package peitho

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenType uint64
type stateFunc func(l *Lexer) stateFunc

const (
	EOF rune = 0

	TokenError TokenType = iota
	TokenEOF
	TokenEOL

	TokenNumber
	TokenString
	TokenIdentifier

	// Keywords
	TokenPrint
	TokenIf
	TokenElse
	TokenTrue
	TokenFalse
	TokenLet
	TokenFor
	TokenIn

	// Operators and delimiters
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenBang
	TokenBangEqual
	TokenEqual
	TokenEqualEqual
	TokenGreater
	TokenGreaterEqual
	TokenLess
	TokenLessEqual
	TokenComma
	TokenDot
	TokenDotDot
	TokenDotDotEqual
	TokenOpenParentheses
	TokenCloseParentheses
	TokenOpenCurly
	TokenCloseCurly
	TokenOpenBracket
	TokenCloseBracket
)

var tokenNames = map[TokenType]string{
	TokenError:            "Error",
	TokenEOF:              "EOF",
	TokenEOL:              "EOL",
	TokenNumber:           "Number",
	TokenString:           "String",
	TokenIdentifier:       "Identifier",
	TokenPrint:            "Print",
	TokenIf:               "If",
	TokenElse:             "Else",
	TokenTrue:             "True",
	TokenFalse:            "False",
	TokenLet:              "Let",
	TokenFor:              "For",
	TokenIn:               "In",
	TokenPlus:             "Plus",
	TokenMinus:            "Minus",
	TokenStar:             "Star",
	TokenSlash:            "Slash",
	TokenBang:             "Bang",
	TokenBangEqual:        "BangEqual",
	TokenEqual:            "Equal",
	TokenEqualEqual:       "EqualEqual",
	TokenGreater:          "Greater",
	TokenGreaterEqual:     "GreaterEqual",
	TokenLess:             "Less",
	TokenLessEqual:        "LessEqual",
	TokenComma:            "Comma",
	TokenDot:              "Dot",
	TokenDotDot:           "DotDot",
	TokenDotDotEqual:      "DotDotEqual",
	TokenOpenParentheses:  "OpenParentheses",
	TokenCloseParentheses: "CloseParentheses",
	TokenOpenCurly:        "OpenCurly",
	TokenCloseCurly:       "CloseCurly",
	TokenOpenBracket:      "OpenBracket",
	TokenCloseBracket:     "CloseBracket",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}

	return fmt.Sprintf("TokenType(%d)", uint64(t))
}

var keywordTable = map[string]TokenType{
	"print": TokenPrint,
	"if":    TokenIf,
	"else":  TokenElse,
	"true":  TokenTrue,
	"false": TokenFalse,
	"let":   TokenLet,
	"for":   TokenFor,
	"in":    TokenIn,
}

var operatorTable = map[string]TokenType{
	"+":   TokenPlus,
	"-":   TokenMinus,
	"*":   TokenStar,
	"/":   TokenSlash,
	"!":   TokenBang,
	"!=":  TokenBangEqual,
	"=":   TokenEqual,
	"==":  TokenEqualEqual,
	">":   TokenGreater,
	">=":  TokenGreaterEqual,
	"<":   TokenLess,
	"<=":  TokenLessEqual,
	",":   TokenComma,
	".":   TokenDot,
	"..":  TokenDotDot,
	"..=": TokenDotDotEqual,
	"(":   TokenOpenParentheses,
	")":   TokenCloseParentheses,
	"{":   TokenOpenCurly,
	"}":   TokenCloseCurly,
	"[":   TokenOpenBracket,
	"]":   TokenCloseBracket,
}

// Token is a single lexical unit. Lexeme is the text as scanned and Literal
// the value it denotes.
type Token struct {
	Typ     TokenType
	Lexeme  string
	Literal string
	Line    int
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%s %q", t.Line, t.Typ, t.Lexeme)
}

func (t Token) isValid() bool {
	return t.Typ != TokenError && t.Typ != TokenEOF
}

type Lexer struct {
	reader *bufio.Reader
	done   chan Token
	line   int
}

func NewLexer(reader io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(reader),
		done:   make(chan Token),
		line:   1,
	}
}

// Scan tokenizes a whole source string. On a scanning error the tokens read so
// far are returned together with a *ScanError.
func Scan(source string) ([]Token, error) {
	return NewLexer(strings.NewReader(source)).RunBlocking()
}

func (l *Lexer) Chan() chan Token {
	return l.done
}

func (l *Lexer) Run() {
	for state := defaultState; state != nil; {
		state = state(l)
	}

	close(l.done)
}

func (l *Lexer) RunBlocking() ([]Token, error) {
	go l.Run()

	var tokens []Token
	for t := range l.Chan() {
		switch t.Typ {
		case TokenEOF:
			return tokens, nil
		case TokenError:
			return tokens, &ScanError{Line: t.Line, Message: t.Lexeme}
		}

		tokens = append(tokens, t)
	}

	return tokens, nil
}

func defaultState(l *Lexer) stateFunc {
	for {
		switch r := l.peek(); {
		case r == EOF:
			return l.emmitValue(TokenEOF, "")
		case r == '\n':
			l.next()
			l.emmitValue(TokenEOL, "\n")
			l.line++
			continue
		case unicode.IsSpace(r):
			l.next()
			continue
		case '0' <= r && r <= '9':
			return numberState
		case r == '"':
			return stringState
		case unicode.IsLetter(r) || r == '_':
			return identifierState
		default:
			return operatorState
		}
	}
}

func numberState(l *Lexer) stateFunc {
	var num strings.Builder
	for r := l.peek(); '0' <= r && r <= '9'; r = l.peek() {
		num.WriteRune(l.next())
	}

	return l.emmitValue(TokenNumber, num.String())
}

func stringState(l *Lexer) stateFunc {
	l.next() // Skip the leading double-quote
	start := l.line

	var str strings.Builder
	for r := l.next(); r != '"'; r = l.next() {
		if r == EOF {
			l.line = start
			return l.errorf("unterminated string: %s", str.String())
		}

		if r == '\n' {
			l.line++
		}

		str.WriteRune(r)
	}

	end := l.line
	l.line = start
	l.emmitValue(TokenString, str.String())
	l.line = end

	return defaultState
}

func identifierState(l *Lexer) stateFunc {
	var id strings.Builder
	for r := l.peek(); unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'; r = l.peek() {
		id.WriteRune(l.next())
	}

	if t, ok := keywordTable[id.String()]; ok {
		return l.emmitValue(t, id.String())
	}

	return l.emmitValue(TokenIdentifier, id.String())
}

func operatorState(l *Lexer) stateFunc {
	r := l.next()
	if strings.ContainsRune("!=<>./", r) { // Some operators can be two runes
		op := string(r) + string(l.peek())
		if op == "//" {
			return lineCommentState
		}

		if tok, ok := operatorTable[op]; ok {
			l.next() // Skip

			if tok == TokenDotDot && l.peek() == '=' {
				l.next()
				return l.emmitValue(TokenDotDotEqual, "..=")
			}

			return l.emmitValue(tok, op)
		}
	}

	if tok, ok := operatorTable[string(r)]; ok {
		return l.emmitValue(tok, string(r))
	}

	return l.errorf("unexpected character '%c'", r)
}

func lineCommentState(l *Lexer) stateFunc {
	for r := l.peek(); r != '\n' && r != EOF; r = l.peek() {
		l.next()
	}

	return defaultState
}

func (l *Lexer) errorf(format string, args ...interface{}) stateFunc {
	msg := fmt.Sprintf(format, args...)
	l.done <- Token{
		Typ:     TokenError,
		Lexeme:  msg,
		Literal: msg,
		Line:    l.line,
	}

	return nil
}

func (l *Lexer) emmitValue(t TokenType, val string) stateFunc {
	l.done <- Token{
		Typ:     t,
		Lexeme:  val,
		Literal: val,
		Line:    l.line,
	}

	if t == TokenEOF {
		return nil
	}

	return defaultState
}

func (l *Lexer) peek() rune {
	r := l.next()
	if r != EOF {
		_ = l.reader.UnreadRune()
	}

	return r
}

func (l *Lexer) next() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return EOF
		}

		return utf8.RuneError
	}

	return r
}
