package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"

	peitho "github.com/olgam4/peitho/pkg"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	dumpTokens := flag.Bool("tokens", false, "print the scanned tokens and exit")
	dumpAST := flag.Bool("ast", false, "print the translated expression tree and exit")
	dumpIR := flag.Bool("ir", false, "print the LLVM IR of the program and exit")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	cfg, err := peitho.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level, _ := cfg.Level()
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var errs io.Writer = os.Stderr
	if cfg.Color {
		errs = redWriter{os.Stderr}
	}

	if flag.NArg() == 0 {
		os.Exit(repl(cfg, errs, logger))
	}

	filename := flag.Arg(0)
	switch {
	case *dumpTokens:
		err = printTokens(filename)
	case *dumpAST:
		err = printAST(filename, logger)
	case *dumpIR:
		err = printIR(filename, logger)
	default:
		_, err = peitho.NewInterpreter(os.Stdout).WithLogger(logger).Run(filename)
	}

	if err != nil {
		printError(errs, err)
		os.Exit(1)
	}
}

func parse(filename string, logger *slog.Logger) (peitho.Expr, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return peitho.NewInterpreter(io.Discard).WithLogger(logger).Parse(f)
}

func printTokens(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	tokens, err := peitho.NewLexer(f).RunBlocking()
	for _, t := range tokens {
		fmt.Println(t)
	}

	return err
}

func printAST(filename string, logger *slog.Logger) error {
	expr, err := parse(filename, logger)
	if err != nil {
		return err
	}

	fmt.Println(peitho.Format(expr))
	return nil
}

func printIR(filename string, logger *slog.Logger) error {
	expr, err := parse(filename, logger)
	if err != nil {
		return err
	}

	mod, err := peitho.Lower(expr)
	if err != nil {
		return err
	}

	fmt.Println(mod)
	return nil
}

func repl(cfg peitho.Config, errs io.Writer, logger *slog.Logger) int {
	fmt.Println("peitho REPL. Ctrl+C cancels input, Ctrl+D exits. Type :quit to exit.")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if cfg.History != "" {
		if f, err := os.Open(cfg.History); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}

		defer func() {
			if f, err := os.Create(cfg.History); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	session := peitho.NewSession(os.Stdout, errs).WithLogger(logger)
	for {
		line, err := ln.Prompt(cfg.Prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Println()
			return 0
		}

		switch strings.TrimSpace(line) {
		case "":
			continue
		case ":quit":
			return 0
		}

		session.Eval(line)
		ln.AppendHistory(line)
	}
}

func printError(w io.Writer, err error) {
	var (
		scanErr      *peitho.ScanError
		parseErr     *peitho.ParseError
		operandErr   *peitho.InvalidOperandError
		valuesErr    *peitho.InvalidValuesError
		undefinedErr *peitho.UndefinedVariableError
		loweringErr  *peitho.LoweringError
	)

	switch {
	case errors.As(err, &scanErr):
		fmt.Fprintln(w, scanErr)
	case errors.As(err, &parseErr):
		fmt.Fprintln(w, "Parse error at line", parseErr.Line, "expected", parseErr.Expected)
	case errors.As(err, &operandErr):
		fmt.Fprintln(w, "Invalid operand:", operandErr.Operand)
	case errors.As(err, &valuesErr):
		fmt.Fprintln(w, "Invalid values:", valuesErr)
	case errors.As(err, &undefinedErr):
		fmt.Fprintln(w, "Undefined value:", undefinedErr.Name)
	case errors.As(err, &loweringErr):
		fmt.Fprintln(w, "Cannot compile:", loweringErr.Construct, "-", loweringErr.Reason)
	default:
		fmt.Fprintln(w, err)
	}
}

type redWriter struct {
	w io.Writer
}

func (r redWriter) Write(p []byte) (int, error) {
	text := strings.TrimSuffix(string(p), "\n")
	if _, err := fmt.Fprintf(r.w, "\x1b[31m%s\x1b[0m\n", text); err != nil {
		return 0, err
	}

	return len(p), nil
}
