package peitho

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Session evaluates input one line at a time, carrying the environment left
// by each line into the next one.
type Session struct {
	env    *Environment
	eval   *Evaluator
	errs   io.Writer
	logger *slog.Logger
}

func NewSession(out, errs io.Writer) *Session {
	return &Session{
		env:    NewEnvironment(),
		eval:   NewEvaluator(out),
		errs:   errs,
		logger: slog.Default(),
	}
}

func (s *Session) WithLogger(logger *slog.Logger) *Session {
	s.logger = logger
	s.eval.WithLogger(logger)
	return s
}

// Env returns the environment the next line will see.
func (s *Session) Env() *Environment {
	return s.env
}

// Eval runs one line. Errors are written to the error sink and leave the
// environment untouched.
func (s *Session) Eval(line string) Value {
	expr, err := s.translate(line)
	if err == nil {
		var v Value
		v, err = s.eval.Evaluate(&ChainExpr{Left: expr, Right: &DeriveStateExpr{Expr: &EmptyExpr{}}}, s.env)
		if err == nil {
			// The trailing DeriveState makes every successful line a state.
			state, _ := v.(StateValue)
			s.env = state.Env

			s.logger.Debug("line evaluated", slog.Int("bindings", s.env.Len()))
			return v
		}
	}

	fmt.Fprintln(s.errs, err)
	return UnitValue{}
}

func (s *Session) translate(line string) (Expr, error) {
	tokens, err := NewLexer(strings.NewReader(line)).RunBlocking()
	if err != nil {
		return nil, err
	}

	return NewTranslator(tokens).WithLogger(s.logger).Run()
}
