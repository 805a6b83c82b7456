// Command golox is the Lox interpreter CLI entry point.
//
// Usage:
//
//	golox run <file>       execute a Lox script
//	golox tokenize <file>  print the token stream
//	golox parse <file>     print a single expression as a parenthesized tree
//	golox evaluate <file>  evaluate a single expression and print the result
//	golox <file>           shorthand for run
//	golox                  interactive REPL
//
// Exit codes follow the classic Lox convention: 65 for static (scan, parse,
// resolution) errors, 70 for runtime errors.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/loxkit/golox/pkg/evaluator"
	"github.com/loxkit/golox/pkg/formatter"
	"github.com/loxkit/golox/pkg/parser"
	"github.com/loxkit/golox/pkg/runtime"
)

const (
	exitUsage   = 64
	exitStatic  = 65
	exitRuntime = 70

	historyFile = ".golox_history"
	prompt      = "> "
)

func main() {
	if len(os.Args) < 2 {
		os.Exit(cmdRepl())
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(requireFile(cmd)))
	case "tokenize":
		os.Exit(cmdTokenize(requireFile(cmd)))
	case "parse":
		os.Exit(cmdParse(requireFile(cmd)))
	case "evaluate":
		os.Exit(cmdEvaluate(requireFile(cmd)))
	case "help", "--help", "-h":
		usage(os.Stdout)
		os.Exit(0)
	default:
		// "golox script.lox" is shorthand for run.
		if !strings.HasPrefix(cmd, "-") {
			os.Exit(cmdRun(readFile(cmd)))
		}
		usage(os.Stderr)
		os.Exit(exitUsage)
	}
}

func usage(w *os.File) {
	fmt.Fprintln(w, "usage: golox [run|tokenize|parse|evaluate] <file>")
	fmt.Fprintln(w, "       golox            (interactive REPL)")
}

func requireFile(cmd string) string {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "usage: golox %s <file>\n", cmd)
		os.Exit(exitUsage)
	}
	return readFile(os.Args[2])
}

func readFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read file %s\n", path)
		os.Exit(exitUsage)
	}
	return string(data)
}

func cmdRun(source string) int {
	rt := runtime.New()
	if err := rt.Run(source); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		var diagErr *runtime.DiagnosticError
		if errors.As(err, &diagErr) {
			return exitStatic
		}
		return exitRuntime
	}
	return 0
}

func cmdTokenize(source string) int {
	rt := runtime.New()
	tokens, diags := rt.Tokenize(source)
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.String())
	}
	for _, tok := range tokens {
		fmt.Println(tok.String())
	}
	if len(diags) > 0 {
		return exitStatic
	}
	return 0
}

func cmdParse(source string) int {
	expr, diags := parser.ParseExpression(source)
	if len(diags) > 0 {
		for _, d := range diags {
			fmt.Fprintln(os.Stderr, d.String())
		}
		return exitStatic
	}
	fmt.Println(formatter.Format(expr))
	return 0
}

func cmdEvaluate(source string) int {
	rt := runtime.New()
	value, err := rt.EvaluateExpression(source)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		var diagErr *runtime.DiagnosticError
		if errors.As(err, &diagErr) {
			return exitStatic
		}
		return exitRuntime
	}
	fmt.Println(evaluator.Stringify(value))
	return 0
}

// cmdRepl runs an interactive session. The runtime (and its global
// environment) persists across lines, so definitions accumulate.
func cmdRepl() int {
	fmt.Println("golox REPL. Ctrl+D or :quit to exit.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	rt := runtime.New()

	for {
		line, err := ln.Prompt(prompt)
		if err != nil {
			// io.EOF on Ctrl+D, liner.ErrPromptAborted on Ctrl+C.
			fmt.Println()
			return 0
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if trimmed == ":quit" {
			return 0
		}
		ln.AppendHistory(line)

		// Bare expressions are re-run as print statements for convenience.
		src := line
		if !strings.HasSuffix(trimmed, ";") && !strings.HasSuffix(trimmed, "}") {
			src = "print " + trimmed + ";"
		}

		if err := rt.Run(src); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
		}
	}
}
