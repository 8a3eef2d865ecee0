package peitho

import (
	"log/slog"
	"strconv"
)

// Translator turns a flat token sequence into an expression tree. It walks the
// tokens with a single cursor; delimited sub-slices get their own translator.
// A sub-slice is first tried as a single operand and translated again as a
// statement sequence when that operand does not cover it.
//
// Statements that do not name what follows them are translated as
// Chain{statement, placeholder} and the continuation is spliced in afterwards.
// let and line breaks name their remainder explicitly.
type Translator struct {
	tokens []Token
	pos    int
	logger *slog.Logger
}

func NewTranslator(tokens []Token) *Translator {
	return &Translator{
		tokens: tokens,
		logger: slog.Default(),
	}
}

func Translate(tokens []Token) (Expr, error) {
	return NewTranslator(tokens).Run()
}

func (t *Translator) WithLogger(logger *slog.Logger) *Translator {
	t.logger = logger
	return t
}

func (t *Translator) Run() (Expr, error) {
	return t.sequence()
}

func (t *Translator) sub(tokens []Token) *Translator {
	return &Translator{
		tokens: tokens,
		logger: t.logger,
	}
}

func (t *Translator) atEnd() bool {
	return t.pos >= len(t.tokens)
}

func (t *Translator) peek() Token {
	return t.peekAt(0)
}

func (t *Translator) peekAt(offset int) Token {
	if i := t.pos + offset; i < len(t.tokens) {
		return t.tokens[i]
	}

	line := 1
	if len(t.tokens) > 0 {
		line = t.tokens[len(t.tokens)-1].Line
	}

	return Token{Typ: TokenEOF, Line: line}
}

func (t *Translator) next() Token {
	tok := t.peek()
	if !t.atEnd() {
		t.pos++
	}

	return tok
}

func (t *Translator) check(typ TokenType) bool {
	return t.peek().Typ == typ
}

func (t *Translator) expect(typ TokenType, what string) (Token, error) {
	tok := t.next()
	if tok.Typ != typ {
		return tok, t.errorf(tok, what)
	}

	return tok, nil
}

func (t *Translator) errorf(tok Token, expected string) error {
	return &ParseError{Line: tok.Line, Expected: expected}
}

func (t *Translator) sequence() (Expr, error) {
	if t.atEnd() {
		return &EmptyExpr{}, nil
	}

	head, complete, err := t.statement()
	if err != nil {
		return nil, err
	}

	if complete || t.atEnd() {
		return head, nil
	}

	rest, err := t.sequence()
	if err != nil {
		return nil, err
	}

	return Splice(&ChainExpr{Left: head, Right: NewPlaceholder()}, rest), nil
}

// statement translates the construct rooted at the current token. complete
// reports whether the result already holds everything up to the end.
func (t *Translator) statement() (expr Expr, complete bool, err error) {
	tok := t.peek()
	t.logger.Debug("translate statement",
		slog.String("token", tok.Typ.String()),
		slog.Int("line", tok.Line))

	switch tok.Typ {
	case TokenEOL:
		t.next()
		cont, err := t.sequence()
		if err != nil {
			return nil, true, err
		}

		return &ChainExpr{Left: cont, Right: &EmptyExpr{}}, true, nil
	case TokenLet:
		expr, err := t.let()
		return expr, true, err
	case TokenPrint:
		expr, err := t.print()
		return expr, false, err
	case TokenIf:
		expr, err := t.ifStmt()
		return expr, false, err
	case TokenFor:
		expr, err := t.forStmt()
		return expr, false, err
	case TokenIdentifier:
		if t.peekAt(1).Typ == TokenEqual {
			expr, err := t.assign()
			return expr, false, err
		}
	case TokenOpenParentheses, TokenOpenCurly, TokenOpenBracket:
		inner, err := t.group()
		if err != nil {
			return nil, false, err
		}

		block, err := t.sub(inner).Run()
		if err != nil {
			return nil, false, err
		}

		return &GroupExpr{Inner: block}, false, nil
	case TokenCloseParentheses, TokenCloseCurly, TokenCloseBracket:
		return nil, false, t.errorf(tok, "matching opening delimiter for '"+tok.Lexeme+"'")
	case TokenElse:
		return nil, false, t.errorf(tok, "'if' before 'else'")
	}

	if startsOperand(tok.Typ) {
		expr, err := t.operand()
		return expr, false, err
	}

	t.next() // Unrecognized tokens translate to nothing
	return &EmptyExpr{}, false, nil
}

func (t *Translator) let() (Expr, error) {
	t.next() // let keyword

	var bindings []Binding
	for {
		name, err := t.expect(TokenIdentifier, "variable name after 'let'")
		if err != nil {
			return nil, err
		}

		if _, err := t.expect(TokenEqual, "'=' after '"+name.Lexeme+"'"); err != nil {
			return nil, err
		}

		valueTokens := t.collectUntil(TokenEOL, TokenComma)
		if len(valueTokens) == 0 {
			return nil, t.errorf(name, "value for '"+name.Lexeme+"'")
		}

		value, err := t.expression(valueTokens)
		if err != nil {
			return nil, err
		}

		bindings = append(bindings, Binding{Name: name.Lexeme, Value: value})

		if !t.check(TokenComma) {
			break
		}

		t.next() // Skip the comma
	}

	if t.check(TokenEOL) {
		t.next()
	}

	scope, err := t.sequence()
	if err != nil {
		return nil, err
	}

	return &LetExpr{
		Bindings: bindings,
		Scope:    scope,
	}, nil
}

func (t *Translator) print() (Expr, error) {
	t.next() // print keyword

	value, err := t.expression(t.collectUntil(TokenEOL))
	if err != nil {
		return nil, err
	}

	return &PrintExpr{Expr: value}, nil
}

func (t *Translator) assign() (Expr, error) {
	name := t.next()
	t.next() // Skip =

	valueTokens := t.collectUntil(TokenEOL)
	if len(valueTokens) == 0 {
		return nil, t.errorf(name, "value assigned to '"+name.Lexeme+"'")
	}

	value, err := t.expression(valueTokens)
	if err != nil {
		return nil, err
	}

	return &AssignExpr{
		Name:  name.Lexeme,
		Value: value,
	}, nil
}

// if ( <condition> ) <then> [else <else>]
// Branches are either a block or the rest of the line.
func (t *Translator) ifStmt() (Expr, error) {
	start := t.next() // if keyword

	if !t.check(TokenOpenParentheses) {
		return nil, t.errorf(start, "'(' after 'if'")
	}

	condTokens, err := t.group()
	if err != nil {
		return nil, err
	}

	condition, err := t.expression(condTokens)
	if err != nil {
		return nil, err
	}

	block := t.check(TokenOpenCurly)
	then, err := t.branch(TokenEOL, TokenElse)
	if err != nil {
		return nil, err
	}

	if block {
		t.skipLinesBefore(TokenElse)
	}

	var otherwise Expr = &EmptyExpr{}
	if t.check(TokenElse) {
		t.next()

		otherwise, err = t.branch(TokenEOL)
		if err != nil {
			return nil, err
		}
	}

	return &IfExpr{
		Condition: condition,
		Then:      then,
		Else:      otherwise,
	}, nil
}

// skipLinesBefore consumes line breaks only when typ follows them.
func (t *Translator) skipLinesBefore(typ TokenType) {
	n := 0
	for t.peekAt(n).Typ == TokenEOL {
		n++
	}

	if n > 0 && t.peekAt(n).Typ == typ {
		t.pos += n
	}
}

func (t *Translator) branch(stops ...TokenType) (Expr, error) {
	var tokens []Token
	if t.check(TokenOpenCurly) {
		inner, err := t.group()
		if err != nil {
			return nil, err
		}

		tokens = inner
	} else {
		tokens = t.collectUntil(stops...)
	}

	return t.sub(tokens).Run()
}

// for <name> in [ <from> ..|..= <to> ] { <body> }
func (t *Translator) forStmt() (Expr, error) {
	t.next() // for keyword

	name, err := t.expect(TokenIdentifier, "loop variable after 'for'")
	if err != nil {
		return nil, err
	}

	if _, err := t.expect(TokenIn, "'in' after '"+name.Lexeme+"'"); err != nil {
		return nil, err
	}

	if !t.check(TokenOpenBracket) {
		return nil, t.errorf(t.peek(), "'[' to open the range")
	}

	rangeTokens, err := t.group()
	if err != nil {
		return nil, err
	}

	split, inclusive := -1, false
	depth := 0
	for i, tok := range rangeTokens {
		if isOpener(tok.Typ) {
			depth++
		} else if isCloser(tok.Typ) {
			depth--
		} else if depth == 0 && (tok.Typ == TokenDotDot || tok.Typ == TokenDotDotEqual) {
			split, inclusive = i, tok.Typ == TokenDotDotEqual
			break
		}
	}

	if split < 0 {
		return nil, t.errorf(name, "'..' or '..=' in range")
	}

	from, err := t.expression(rangeTokens[:split])
	if err != nil {
		return nil, err
	}

	to, err := t.expression(rangeTokens[split+1:])
	if err != nil {
		return nil, err
	}

	if !inclusive {
		to = &BinaryExpr{
			Operation: BinarySubtract,
			Left:      to,
			Right:     NewInteger(1),
		}
	}

	if !t.check(TokenOpenCurly) {
		return nil, t.errorf(t.peek(), "'{' to open the loop body")
	}

	bodyTokens, err := t.group()
	if err != nil {
		return nil, err
	}

	body, err := t.sub(bodyTokens).Run()
	if err != nil {
		return nil, err
	}

	return &ForExpr{
		Variable: name.Lexeme,
		From:     from,
		To:       to,
		Body:     body,
	}, nil
}

// expression translates a slice that holds a single operand when it can, and
// falls back to a statement sequence otherwise.
func (t *Translator) expression(tokens []Token) (Expr, error) {
	if len(tokens) == 0 {
		return &EmptyExpr{}, nil
	}

	if startsOperand(tokens[0].Typ) {
		sub := t.sub(tokens)
		expr, err := sub.operand()
		if err != nil {
			return nil, err
		}

		if sub.atEnd() {
			return expr, nil
		}
	}

	return t.sub(tokens).Run()
}

// operand reads one prefix-notation operand. The first operand after + * -
// becomes the right-hand side, the second the left-hand side; / and the
// comparisons keep encounter order.
func (t *Translator) operand() (Expr, error) {
	tok := t.peek()
	switch tok.Typ {
	case TokenOpenParentheses, TokenOpenCurly, TokenOpenBracket:
		inner, err := t.group()
		if err != nil {
			return nil, err
		}

		return t.expression(inner)
	}

	t.next()
	switch tok.Typ {
	case TokenNumber:
		v, err := strconv.ParseInt(tok.Lexeme, 10, 32)
		if err != nil {
			return nil, t.errorf(tok, "32-bit integer literal, got "+tok.Lexeme)
		}

		return NewInteger(int32(v)), nil
	case TokenString:
		return NewString(tok.Literal), nil
	case TokenTrue:
		return NewBoolean(true), nil
	case TokenFalse:
		return NewBoolean(false), nil
	case TokenIdentifier:
		return &UseExpr{Name: tok.Lexeme}, nil
	case TokenPlus:
		return t.reversedBinary(BinarySum)
	case TokenStar:
		return t.reversedBinary(BinaryProduct)
	case TokenMinus:
		right, err := t.operand()
		if err != nil {
			return nil, err
		}

		if !startsOperand(t.peek().Typ) {
			return &UnaryExpr{Operand: OperandNegate, Right: right}, nil
		}

		left, err := t.operand()
		if err != nil {
			return nil, err
		}

		return &BinaryExpr{Operation: BinarySubtract, Left: left, Right: right}, nil
	case TokenSlash:
		left, right, err := t.operands()
		if err != nil {
			return nil, err
		}

		return &BinaryExpr{Operation: BinaryDivide, Left: left, Right: right}, nil
	case TokenGreater:
		return t.compare(OperandGreaterThan, false)
	case TokenLess:
		return t.compare(OperandLessThan, false)
	case TokenEqualEqual:
		return t.compare(OperandEquals, false)
	case TokenGreaterEqual:
		return t.compare(OperandLessThan, true)
	case TokenLessEqual:
		return t.compare(OperandGreaterThan, true)
	case TokenBangEqual:
		return t.compare(OperandEquals, true)
	case TokenBang:
		right, err := t.operand()
		if err != nil {
			return nil, err
		}

		return &UnaryExpr{Operand: OperandNot, Right: right}, nil
	}

	return nil, t.errorf(tok, "operand")
}

// operands reads two operands in encounter order.
func (t *Translator) operands() (first, second Expr, err error) {
	if first, err = t.operand(); err != nil {
		return nil, nil, err
	}

	if second, err = t.operand(); err != nil {
		return nil, nil, err
	}

	return first, second, nil
}

func (t *Translator) reversedBinary(op BinaryOp) (Expr, error) {
	right, left, err := t.operands()
	if err != nil {
		return nil, err
	}

	return &BinaryExpr{Operation: op, Left: left, Right: right}, nil
}

func (t *Translator) compare(op Operand, negate bool) (Expr, error) {
	left, right, err := t.operands()
	if err != nil {
		return nil, err
	}

	var expr Expr = &CompareExpr{Left: left, Operand: op, Right: right}
	if negate {
		expr = &UnaryExpr{Operand: OperandNot, Right: expr}
	}

	return expr, nil
}

// group consumes an opening delimiter and everything up to its matching
// closer, and returns the tokens in between. Only delimiters of the same
// family count towards the nesting depth.
func (t *Translator) group() ([]Token, error) {
	open := t.next()
	closer := closerOf(open.Typ)

	depth := 1
	start := t.pos
	for !t.atEnd() {
		tok := t.next()
		switch tok.Typ {
		case open.Typ:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return t.tokens[start : t.pos-1], nil
			}
		}
	}

	return nil, t.errorf(t.peek(), "closing delimiter for '"+open.Lexeme+"' opened on line "+strconv.Itoa(open.Line))
}

// collectUntil consumes tokens up to, not including, the first stop token
// that is outside of any delimiter pair.
func (t *Translator) collectUntil(stops ...TokenType) []Token {
	start := t.pos
	depth := 0

	for !t.atEnd() {
		tok := t.peek()
		if depth == 0 {
			for _, s := range stops {
				if tok.Typ == s {
					return t.tokens[start:t.pos]
				}
			}
		}

		if isOpener(tok.Typ) {
			depth++
		} else if isCloser(tok.Typ) && depth > 0 {
			depth--
		}

		t.next()
	}

	return t.tokens[start:t.pos]
}

func startsOperand(typ TokenType) bool {
	switch typ {
	case TokenNumber, TokenString, TokenTrue, TokenFalse, TokenIdentifier,
		TokenPlus, TokenMinus, TokenStar, TokenSlash,
		TokenGreater, TokenGreaterEqual, TokenLess, TokenLessEqual,
		TokenEqualEqual, TokenBangEqual, TokenBang,
		TokenOpenParentheses, TokenOpenCurly, TokenOpenBracket:
		return true
	}

	return false
}

func isOpener(typ TokenType) bool {
	return typ == TokenOpenParentheses || typ == TokenOpenCurly || typ == TokenOpenBracket
}

func isCloser(typ TokenType) bool {
	return typ == TokenCloseParentheses || typ == TokenCloseCurly || typ == TokenCloseBracket
}

func closerOf(typ TokenType) TokenType {
	switch typ {
	case TokenOpenParentheses:
		return TokenCloseParentheses
	case TokenOpenCurly:
		return TokenCloseCurly
	default:
		return TokenCloseBracket
	}
}
