package runtime_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/loxkit/golox/pkg/evaluator"
	"github.com/loxkit/golox/pkg/runtime"
)

func newRuntime() (*runtime.Runtime, *bytes.Buffer) {
	var buf bytes.Buffer
	return runtime.New(runtime.WithStdout(&buf)), &buf
}

func TestRunProgram(t *testing.T) {
	rt, out := newRuntime()
	if err := rt.Run(`print "hi"; print 1 + 2;`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "hi\n3\n" {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestRunStaticError(t *testing.T) {
	rt, out := newRuntime()
	err := rt.Run(`return 1;`)
	var de *runtime.DiagnosticError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DiagnosticError, got %T: %v", err, err)
	}
	if !strings.Contains(de.Error(), "Can't return from top-level code.") {
		t.Errorf("unexpected diagnostics: %q", de.Error())
	}
	if out.Len() != 0 {
		t.Errorf("static errors must not produce output, got %q", out.String())
	}
}

func TestRunRuntimeError(t *testing.T) {
	rt, _ := newRuntime()
	err := rt.Run(`print nil + 1;`)
	var rte *evaluator.RuntimeError
	if !errors.As(err, &rte) {
		t.Fatalf("expected *RuntimeError, got %T: %v", err, err)
	}
}

// Local scopes keep resolving correctly across Run calls: NodeIDs are
// allocated from one session-wide sequence, so a later line's resolution
// entries never rebind an earlier line's nodes. A function whose body has
// locals must still run after an unrelated line that also introduced
// locals.
func TestSessionLocalsAcrossRuns(t *testing.T) {
	rt, out := newRuntime()
	lines := []string{
		`fun f() { var a = 1; print a; }`,
		`{ var x = 2; { print x; } }`,
		`f();`,
	}
	for _, line := range lines {
		if err := rt.Run(line); err != nil {
			t.Fatalf("line %q: unexpected error: %v", line, err)
		}
	}
	if out.String() != "2\n1\n" {
		t.Errorf("unexpected output: %q", out.String())
	}
}

// A closure defined on one line keeps its captured environment working when
// invoked on later lines, even after intervening lines created their own
// local scopes.
func TestClosureSurvivesLaterRuns(t *testing.T) {
	rt, out := newRuntime()
	lines := []string{
		`fun make() { var i = 0; fun inc() { i = i + 1; return i; } return inc; }`,
		`var c = make();`,
		`{ var pad = "pad"; print pad; }`,
		`print c();`,
		`print c();`,
	}
	for _, line := range lines {
		if err := rt.Run(line); err != nil {
			t.Fatalf("line %q: unexpected error: %v", line, err)
		}
	}
	if out.String() != "pad\n1\n2\n" {
		t.Errorf("unexpected output: %q", out.String())
	}
}

// Global state persists across Run calls within one Runtime. The REPL
// depends on this.
func TestStatePersistsAcrossRuns(t *testing.T) {
	rt, out := newRuntime()
	if err := rt.Run(`var count = 1;`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := rt.Run(`count = count + 1; print count;`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "2\n" {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestCheckReportsWithoutExecuting(t *testing.T) {
	rt, out := newRuntime()
	diags := rt.Check(`print this;`)
	if len(diags) == 0 {
		t.Fatal("expected diagnostics")
	}
	if out.Len() != 0 {
		t.Errorf("check must not execute, got output %q", out.String())
	}
	if diags := rt.Check(`print 1;`); len(diags) != 0 {
		t.Errorf("clean program produced diagnostics: %v", diags)
	}
}

func TestEvaluateExpression(t *testing.T) {
	rt, _ := newRuntime()
	if err := rt.Run(`var x = 20;`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	val, err := rt.EvaluateExpression(`x * 2 + 2`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	num, ok := val.(evaluator.Number)
	if !ok || num.Value != 42 {
		t.Errorf("expected 42, got %#v", val)
	}
}

func TestEvaluateExpressionParseError(t *testing.T) {
	rt, _ := newRuntime()
	_, err := rt.EvaluateExpression(`1 +`)
	var de *runtime.DiagnosticError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DiagnosticError, got %T: %v", err, err)
	}
}

func TestTokenize(t *testing.T) {
	rt, _ := newRuntime()
	tokens, diags := rt.Tokenize(`var x = 1;`)
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	// var, x, =, 1, ;, EOF
	if len(tokens) != 6 {
		t.Errorf("expected 6 tokens, got %d", len(tokens))
	}
}
