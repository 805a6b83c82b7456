package evaluator

import (
	"strings"
	"testing"

	"github.com/loxkit/golox/pkg/lexer"
)

func ident(name string) lexer.Token {
	return lexer.Token{Type: lexer.TokIdentifier, Lexeme: name, Line: 1}
}

func TestDefineAndGet(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("a", Number{Value: 1})
	got, err := env.Get(ident("a"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (Number{Value: 1}) {
		t.Errorf("expected 1, got %#v", got)
	}
}

func TestGetWalksEnclosing(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("a", String{Value: "outer"})
	inner := NewEnvironment(outer)
	got, err := inner.Get(ident("a"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (String{Value: "outer"}) {
		t.Errorf("expected outer binding, got %#v", got)
	}
}

func TestGetUndefined(t *testing.T) {
	env := NewEnvironment(nil)
	_, err := env.Get(ident("ghost"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "Undefined variable 'ghost'.") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestAssignWalksEnclosing(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("a", Number{Value: 1})
	inner := NewEnvironment(outer)
	if err := inner.Assign(ident("a"), Number{Value: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := outer.Get(ident("a"))
	if got != (Number{Value: 2}) {
		t.Errorf("assignment did not reach the outer binding: %#v", got)
	}
}

func TestAssignUndefined(t *testing.T) {
	env := NewEnvironment(nil)
	err := env.Assign(ident("ghost"), Nil{})
	if err == nil || !strings.Contains(err.Error(), "Undefined variable 'ghost'.") {
		t.Errorf("expected undefined-variable error, got %v", err)
	}
}

func TestShadowing(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("a", String{Value: "outer"})
	inner := NewEnvironment(outer)
	inner.Define("a", String{Value: "inner"})

	got, _ := inner.Get(ident("a"))
	if got != (String{Value: "inner"}) {
		t.Errorf("inner read should see the shadow, got %#v", got)
	}
	got, _ = outer.Get(ident("a"))
	if got != (String{Value: "outer"}) {
		t.Errorf("outer binding should be untouched, got %#v", got)
	}
}

func TestGetAtExactHop(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", String{Value: "global"})
	mid := NewEnvironment(global)
	mid.Define("a", String{Value: "mid"})
	leaf := NewEnvironment(mid)

	if got := leaf.GetAt(1, "a"); got != (String{Value: "mid"}) {
		t.Errorf("distance 1 should land on mid, got %#v", got)
	}
	if got := leaf.GetAt(2, "a"); got != (String{Value: "global"}) {
		t.Errorf("distance 2 should land on global, got %#v", got)
	}
}

// GetAt trusts the resolver: a miss at the resolved distance means the
// resolver and the environment chain disagree, and that is a bug, not a
// recoverable condition. It must not fall back to outer scopes.
func TestGetAtMissPanics(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", Number{Value: 1})
	leaf := NewEnvironment(global)

	defer func() {
		if recover() == nil {
			t.Error("expected GetAt to panic on a miss at the resolved distance")
		}
	}()
	// 'a' lives at distance 1, not 0. No fallback.
	leaf.GetAt(0, "a")
}

func TestAssignAtMissPanics(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", Number{Value: 1})
	leaf := NewEnvironment(global)

	defer func() {
		if recover() == nil {
			t.Error("expected AssignAt to panic on a miss at the resolved distance")
		}
	}()
	leaf.AssignAt(0, ident("a"), Number{Value: 2})
}

func TestAncestorBeyondChainPanics(t *testing.T) {
	env := NewEnvironment(nil)
	defer func() {
		if recover() == nil {
			t.Error("expected panic when distance exceeds the chain")
		}
	}()
	env.GetAt(3, "a")
}
