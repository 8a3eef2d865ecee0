package peitho

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Interpreter runs whole programs. Every error is fatal to the run.
type Interpreter struct {
	out    io.Writer
	logger *slog.Logger
}

func NewInterpreter(out io.Writer) *Interpreter {
	return &Interpreter{
		out:    out,
		logger: slog.Default(),
	}
}

func (i *Interpreter) WithLogger(logger *slog.Logger) *Interpreter {
	i.logger = logger
	return i
}

// Run interprets the file at filename.
func (i *Interpreter) Run(filename string) (Value, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("unable to open file %s: %w", filename, err)
	}
	defer f.Close()

	return i.RunReader(f)
}

func (i *Interpreter) RunReader(reader io.Reader) (Value, error) {
	expr, err := i.Parse(reader)
	if err != nil {
		return nil, err
	}

	return i.Interpret(expr, NewEnvironment())
}

// Parse scans and translates a program without running it.
func (i *Interpreter) Parse(reader io.Reader) (Expr, error) {
	tokens, err := NewLexer(reader).RunBlocking()
	if err != nil {
		return nil, err
	}

	i.logger.Debug("scanned", slog.Int("tokens", len(tokens)))
	return NewTranslator(tokens).WithLogger(i.logger).Run()
}

func (i *Interpreter) Interpret(expr Expr, env *Environment) (Value, error) {
	return NewEvaluator(i.out).WithLogger(i.logger).Evaluate(expr, env)
}

// Interpret evaluates expr against env, printing to stdout.
func Interpret(expr Expr, env *Environment) (Value, error) {
	return NewInterpreter(os.Stdout).Interpret(expr, env)
}

// MustInterpret is like Interpret but panics with the evaluation error.
func MustInterpret(expr Expr, env *Environment) Value {
	v, err := Interpret(expr, env)
	if err != nil {
		panic(err)
	}

	return v
}
