// Package resolver implements the static resolution pass over the Lox AST.
//
// The resolver walks the tree once, before execution, and computes for every
// variable-reference-like node the number of enclosing scopes between the
// reference and the scope declaring the name. References it cannot find in
// any lexical scope are left out of the table and treated as global at run
// time. It never evaluates anything and never touches the environment chain.
package resolver

import (
	"fmt"

	"github.com/loxkit/golox/pkg/ast"
	"github.com/loxkit/golox/pkg/diagnostics"
	"github.com/loxkit/golox/pkg/lexer"
)

type functionType int

const (
	fnNone functionType = iota
	fnFunction
	fnInitializer
	fnMethod
)

type classType int

const (
	clNone classType = iota
	clClass
	clSubclass
)

type resolver struct {
	// scopes is the stack of lexical scope frames, innermost last. Each
	// frame maps a local name to whether its initializer has finished
	// resolving. Only block scopes are tracked; globals are not.
	scopes          []map[string]bool
	locals          map[ast.NodeID]int
	diags           []diagnostics.Diagnostic
	currentFunction functionType
	currentClass    classType
}

// Resolve analyzes a program and returns its resolution table. Static errors
// (self-referential initializers, duplicate declarations, misplaced return/
// this/super) are returned as diagnostics; if any are present the program
// must not be executed.
func Resolve(stmts []ast.Stmt) (map[ast.NodeID]int, []diagnostics.Diagnostic) {
	r := &resolver{locals: make(map[ast.NodeID]int)}
	r.resolveStmts(stmts)
	return r.locals, r.diags
}

func (r *resolver) addError(tok lexer.Token, message string) {
	where := fmt.Sprintf(" at '%s'", tok.Lexeme)
	r.diags = append(r.diags, diagnostics.MakeDiag(diagnostics.EResolve, tok.Line, where, message))
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare inserts the name into the innermost scope marked not-ready, so a
// reference inside its own initializer can be rejected. Re-declaring a name
// already present in the same frame is a static error; shadowing across
// nested frames is allowed.
func (r *resolver) declare(name lexer.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.addError(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *resolver) define(name lexer.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal searches the scope stack from innermost to outermost and
// records the hop count for the first frame containing the name. If no frame
// contains it, nothing is recorded and the reference is global at run time.
func (r *resolver) resolveLocal(id ast.NodeID, name lexer.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[id] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *resolver) resolveStmts(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
}

func (r *resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()

	case *ast.Var:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)

	case *ast.Function:
		// The function's own name is defined in the enclosing scope before
		// its body resolves, so it can recursively refer to itself.
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, fnFunction)

	case *ast.Expression:
		r.resolveExpr(s.Expression)

	case *ast.Print:
		r.resolveExpr(s.Expression)

	case *ast.If:
		// Resolution is conservative: unlike execution, both branches are
		// walked, since either could run.
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.ThenBranch)
		if s.ElseBranch != nil {
			r.resolveStmt(s.ElseBranch)
		}

	case *ast.While:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)

	case *ast.Return:
		if r.currentFunction == fnNone {
			r.addError(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunction == fnInitializer {
				r.addError(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}

	case *ast.Class:
		r.resolveClass(s)

	default:
		panic(fmt.Sprintf("resolver: unsupported statement type %T", stmt))
	}
}

func (r *resolver) resolveClass(s *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = clClass
	defer func() { r.currentClass = enclosingClass }()

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.addError(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = clSubclass
		r.resolveExpr(s.Superclass)

		// Implicit frame binding "super" for all the class's methods.
		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
		defer r.endScope()
	}

	// Implicit frame binding "this", one scope closer than "super".
	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range s.Methods {
		declaration := fnMethod
		if method.Name.Lexeme == "init" {
			declaration = fnInitializer
		}
		r.resolveFunction(method, declaration)
	}

	r.endScope()
}

// resolveFunction resolves a function body right away, independent of any
// call-time environment: resolution only cares about lexical nesting.
func (r *resolver) resolveFunction(fn *ast.Function, typ functionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = typ
	defer func() { r.currentFunction = enclosingFunction }()

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()
}

func (r *resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.NumberLiteral, *ast.StringLiteral, *ast.BoolLiteral, *ast.NilLiteral:
		// Literals mention no variables and have no subexpressions.

	case *ast.Variable:
		if len(r.scopes) > 0 {
			if ready, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !ready {
				r.addError(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e.ID, e.Name)

	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e.ID, e.Name)

	case *ast.Unary:
		r.resolveExpr(e.Right)

	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Grouping:
		r.resolveExpr(e.Expression)

	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}

	case *ast.Get:
		// Property names are looked up dynamically; only the object
		// expression resolves.
		r.resolveExpr(e.Object)

	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ast.This:
		if r.currentClass == clNone {
			r.addError(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e.ID, e.Keyword)

	case *ast.Super:
		switch r.currentClass {
		case clNone:
			r.addError(e.Keyword, "Can't use 'super' outside of a class.")
		case clClass:
			r.addError(e.Keyword, "Can't use 'super' in a class with no superclass.")
		default:
			r.resolveLocal(e.ID, e.Keyword)
		}

	default:
		panic(fmt.Sprintf("resolver: unsupported expression type %T", expr))
	}
}
