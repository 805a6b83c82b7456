// Package runtime provides the top-level golox pipeline orchestrator:
// scan -> parse -> resolve -> interpret.
package runtime

import (
	"io"
	"os"

	"github.com/loxkit/golox/pkg/ast"
	"github.com/loxkit/golox/pkg/diagnostics"
	"github.com/loxkit/golox/pkg/evaluator"
	"github.com/loxkit/golox/pkg/lexer"
	"github.com/loxkit/golox/pkg/parser"
	"github.com/loxkit/golox/pkg/resolver"
	"github.com/loxkit/golox/pkg/stdlib"
)

// Runtime wires together all golox components for program execution. The
// interpreter (and so the global environment) persists across Run calls,
// which is what makes the REPL's session state work.
//
// nextID is the NodeID allocation cursor threaded through every parse in
// the session. The interpreter merges resolution tables across Run calls,
// so IDs must stay unique for the Runtime's lifetime or a later line's
// entries would clobber an earlier line's.
type Runtime struct {
	stdout io.Writer
	interp *evaluator.Interpreter
	nextID ast.NodeID
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithStdout redirects print output, primarily for tests.
func WithStdout(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.stdout = w
	}
}

// New creates a Runtime with the default natives registered.
func New(opts ...Option) *Runtime {
	rt := &Runtime{stdout: os.Stdout}
	for _, opt := range opts {
		opt(rt)
	}
	rt.interp = evaluator.NewInterpreter(rt.stdout)
	stdlib.RegisterDefaults(rt.interp.Globals())
	return rt
}

// Run parses, resolves, and executes a Lox program. Static errors come back
// as a *DiagnosticError; the first runtime error halts execution and is
// returned as a *evaluator.RuntimeError.
func (rt *Runtime) Run(source string) error {
	stmts, next, diags := parser.ParseFrom(source, rt.nextID)
	rt.nextID = next
	if len(diags) > 0 {
		return &DiagnosticError{Diagnostics: diags}
	}

	locals, rDiags := resolver.Resolve(stmts)
	if len(rDiags) > 0 {
		return &DiagnosticError{Diagnostics: rDiags}
	}

	return rt.interp.Interpret(stmts, locals)
}

// Check parses and resolves a program without executing it.
func (rt *Runtime) Check(source string) []diagnostics.Diagnostic {
	stmts, diags := parser.Parse(source)
	if len(diags) > 0 {
		return diags
	}
	_, rDiags := resolver.Resolve(stmts)
	return rDiags
}

// Tokenize scans source into tokens. Tokens scanned before any lexical
// error are still returned alongside the diagnostics.
func (rt *Runtime) Tokenize(source string) ([]lexer.Token, []diagnostics.Diagnostic) {
	return lexer.Scan(source)
}

// EvaluateExpression parses and evaluates a single expression with
// dynamic-walk variable lookups (no resolution pass). This is the one
// supported mode without a resolution table.
func (rt *Runtime) EvaluateExpression(source string) (evaluator.Value, error) {
	expr, next, diags := parser.ParseExpressionFrom(source, rt.nextID)
	rt.nextID = next
	if len(diags) > 0 {
		return nil, &DiagnosticError{Diagnostics: diags}
	}
	return rt.interp.Evaluate(expr)
}

// DiagnosticError wraps static diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	return diagnostics.Format(e.Diagnostics)
}
