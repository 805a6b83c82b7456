package evaluator

import (
	"fmt"
	"io"

	"github.com/loxkit/golox/pkg/ast"
	"github.com/loxkit/golox/pkg/lexer"
)

// RuntimeError is an error raised during evaluation. It carries the token at
// the point of failure and renders in the "<message>\n[line <N>]" form the
// runner reports to stderr.
type RuntimeError struct {
	Token   lexer.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

// Interpreter executes statements and evaluates expressions against a chain
// of environments. It consults the resolution table produced by the resolver
// for O(1)-hop variable lookups; references absent from the table are global.
//
// When no resolution table has been supplied (the single-expression evaluate
// mode and similar REPL-style uses), variable lookups fall back to a dynamic
// walk of the environment chain instead.
type Interpreter struct {
	globals *Environment
	locals  map[ast.NodeID]int
	stdout  io.Writer
}

// NewInterpreter creates an interpreter whose print output goes to stdout.
// The global environment is empty; callers register natives via Globals.
func NewInterpreter(stdout io.Writer) *Interpreter {
	return &Interpreter{
		globals: NewEnvironment(nil),
		stdout:  stdout,
	}
}

// Globals returns the global environment, which lives for the interpreter's
// whole lifetime.
func (in *Interpreter) Globals() *Environment {
	return in.globals
}

// Interpret executes top-level statements in order, merging locals into the
// interpreter's resolution table first. Execution halts at the first runtime
// error, which is returned; remaining statements do not run.
//
// Callers making repeated calls (a REPL session) must allocate NodeIDs from
// one sequence across all their parses (parser.ParseFrom): the merge is
// keyed by NodeID, and a reused ID would rebind an earlier node's distance,
// breaking retained closures.
func (in *Interpreter) Interpret(stmts []ast.Stmt, locals map[ast.NodeID]int) error {
	if in.locals == nil {
		in.locals = make(map[ast.NodeID]int, len(locals))
	}
	for id, d := range locals {
		in.locals[id] = d
	}

	for _, stmt := range stmts {
		if err := in.execute(stmt, in.globals); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate evaluates a single expression against the global environment
// using dynamic-walk lookups. It must not be mixed with Interpret on the
// same Interpreter: once a resolution table exists, lookups are resolved.
func (in *Interpreter) Evaluate(expr ast.Expr) (Value, error) {
	return in.evalExpr(expr, in.globals)
}

// --- statement execution ---

func (in *Interpreter) execute(stmt ast.Stmt, env *Environment) error {
	switch s := stmt.(type) {
	case *ast.Expression:
		_, err := in.evalExpr(s.Expression, env)
		return err

	case *ast.Print:
		v, err := in.evalExpr(s.Expression, env)
		if err != nil {
			return err
		}
		fmt.Fprintln(in.stdout, Stringify(v))
		return nil

	case *ast.Var:
		var value Value = Nil{}
		if s.Initializer != nil {
			v, err := in.evalExpr(s.Initializer, env)
			if err != nil {
				return err
			}
			value = v
		}
		env.Define(s.Name.Lexeme, value)
		return nil

	case *ast.Block:
		return in.executeBlock(s.Statements, NewEnvironment(env))

	case *ast.If:
		cond, err := in.evalExpr(s.Condition, env)
		if err != nil {
			return err
		}
		if Truthiness(cond) {
			return in.execute(s.ThenBranch, env)
		}
		if s.ElseBranch != nil {
			return in.execute(s.ElseBranch, env)
		}
		return nil

	case *ast.While:
		for {
			cond, err := in.evalExpr(s.Condition, env)
			if err != nil {
				return err
			}
			if !Truthiness(cond) {
				return nil
			}
			if err := in.execute(s.Body, env); err != nil {
				return err
			}
		}

	case *ast.Function:
		fn := NewFunction(s, env, false)
		env.Define(s.Name.Lexeme, fn)
		return nil

	case *ast.Return:
		var value Value = Nil{}
		if s.Value != nil {
			v, err := in.evalExpr(s.Value, env)
			if err != nil {
				return err
			}
			value = v
		}
		return &returnSignal{value: value}

	case *ast.Class:
		return in.executeClass(s, env)

	default:
		panic(fmt.Sprintf("evaluator: unsupported statement type %T", stmt))
	}
}

// executeBlock runs statements with env as the active environment. Callers
// own env's lifetime; a propagated error or return signal unwinds without
// leaking the block's environment into the caller's scope.
func (in *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) error {
	for _, stmt := range stmts {
		if err := in.execute(stmt, env); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) executeClass(s *ast.Class, env *Environment) error {
	var superclass *Class
	if s.Superclass != nil {
		sv, err := in.evalExpr(s.Superclass, env)
		if err != nil {
			return err
		}
		sc, ok := sv.(*Class)
		if !ok {
			return &RuntimeError{
				Token:   s.Superclass.Name,
				Message: "Superclass must be a class.",
			}
		}
		superclass = sc
	}

	// Pre-declare the name so methods can reference their own class.
	env.Define(s.Name.Lexeme, Nil{})

	methodEnv := env
	if superclass != nil {
		methodEnv = NewEnvironment(env)
		methodEnv.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = NewFunction(m, methodEnv, m.Name.Lexeme == "init")
	}

	class := &Class{Name: s.Name.Lexeme, Superclass: superclass, Methods: methods}
	return env.Assign(s.Name, class)
}

// --- expression evaluation ---

func (in *Interpreter) evalExpr(expr ast.Expr, env *Environment) (Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return Number{Value: e.Value}, nil

	case *ast.StringLiteral:
		return String{Value: e.Value}, nil

	case *ast.BoolLiteral:
		return Boolean{Value: e.Value}, nil

	case *ast.NilLiteral:
		return Nil{}, nil

	case *ast.Grouping:
		return in.evalExpr(e.Expression, env)

	case *ast.Unary:
		return in.evalUnary(e, env)

	case *ast.Binary:
		return in.evalBinary(e, env)

	case *ast.Logical:
		return in.evalLogical(e, env)

	case *ast.Variable:
		return in.lookUpVariable(e.Name, e.ID, env)

	case *ast.Assign:
		return in.evalAssign(e, env)

	case *ast.Call:
		return in.evalCall(e, env)

	case *ast.Get:
		return in.evalGet(e, env)

	case *ast.Set:
		return in.evalSet(e, env)

	case *ast.This:
		return in.lookUpVariable(e.Keyword, e.ID, env)

	case *ast.Super:
		return in.evalSuper(e, env)

	default:
		panic(fmt.Sprintf("evaluator: unsupported expression type %T", expr))
	}
}

// lookUpVariable resolves a variable reference. With a resolution table, an
// entry gives the exact hop count and a missing entry means global; without
// one, the environment chain is walked dynamically.
func (in *Interpreter) lookUpVariable(name lexer.Token, id ast.NodeID, env *Environment) (Value, error) {
	if in.locals == nil {
		return env.Get(name)
	}
	if distance, ok := in.locals[id]; ok {
		return env.GetAt(distance, name.Lexeme), nil
	}
	return in.globals.Get(name)
}

func (in *Interpreter) evalAssign(e *ast.Assign, env *Environment) (Value, error) {
	value, err := in.evalExpr(e.Value, env)
	if err != nil {
		return nil, err
	}

	if in.locals == nil {
		if err := env.Assign(e.Name, value); err != nil {
			return nil, err
		}
		return value, nil
	}

	if distance, ok := in.locals[e.ID]; ok {
		env.AssignAt(distance, e.Name, value)
		return value, nil
	}
	if err := in.globals.Assign(e.Name, value); err != nil {
		return nil, err
	}
	return value, nil
}

func (in *Interpreter) evalUnary(e *ast.Unary, env *Environment) (Value, error) {
	right, err := in.evalExpr(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Op.Type {
	case lexer.TokBang:
		return Boolean{Value: !Truthiness(right)}, nil
	case lexer.TokMinus:
		n, ok := right.(Number)
		if !ok {
			return nil, &RuntimeError{Token: e.Op, Message: "Operand must be a number."}
		}
		return Number{Value: -n.Value}, nil
	}
	panic("evaluator: unexpected unary operator " + e.Op.Lexeme)
}

func (in *Interpreter) evalBinary(e *ast.Binary, env *Environment) (Value, error) {
	left, err := in.evalExpr(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := in.evalExpr(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Op.Type {
	case lexer.TokEqualEqual:
		return Boolean{Value: Equal(left, right)}, nil
	case lexer.TokBangEqual:
		return Boolean{Value: !Equal(left, right)}, nil
	case lexer.TokPlus:
		if ln, ok := left.(Number); ok {
			if rn, ok := right.(Number); ok {
				return Number{Value: ln.Value + rn.Value}, nil
			}
		}
		if ls, ok := left.(String); ok {
			if rs, ok := right.(String); ok {
				return String{Value: ls.Value + rs.Value}, nil
			}
		}
		return nil, &RuntimeError{Token: e.Op, Message: "Operands must be two numbers or two strings."}
	}

	ln, lok := left.(Number)
	rn, rok := right.(Number)
	if !lok || !rok {
		return nil, &RuntimeError{Token: e.Op, Message: "Operands must be numbers."}
	}

	switch e.Op.Type {
	case lexer.TokMinus:
		return Number{Value: ln.Value - rn.Value}, nil
	case lexer.TokStar:
		return Number{Value: ln.Value * rn.Value}, nil
	case lexer.TokSlash:
		return Number{Value: ln.Value / rn.Value}, nil
	case lexer.TokGreater:
		return Boolean{Value: ln.Value > rn.Value}, nil
	case lexer.TokGreaterEqual:
		return Boolean{Value: ln.Value >= rn.Value}, nil
	case lexer.TokLess:
		return Boolean{Value: ln.Value < rn.Value}, nil
	case lexer.TokLessEqual:
		return Boolean{Value: ln.Value <= rn.Value}, nil
	}
	panic("evaluator: unexpected binary operator " + e.Op.Lexeme)
}

// evalLogical short-circuits: the left operand's value is returned as-is
// when it decides the result, so the operator yields a value of appropriate
// truthiness, not necessarily a Boolean.
func (in *Interpreter) evalLogical(e *ast.Logical, env *Environment) (Value, error) {
	left, err := in.evalExpr(e.Left, env)
	if err != nil {
		return nil, err
	}

	if e.Op.Type == lexer.TokOr {
		if Truthiness(left) {
			return left, nil
		}
	} else {
		if !Truthiness(left) {
			return left, nil
		}
	}
	return in.evalExpr(e.Right, env)
}

func (in *Interpreter) evalCall(e *ast.Call, env *Environment) (Value, error) {
	callee, err := in.evalExpr(e.Callee, env)
	if err != nil {
		return nil, err
	}

	args := make([]Value, 0, len(e.Args))
	for _, argExpr := range e.Args {
		arg, err := in.evalExpr(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	callable, ok := callee.(Callable)
	if !ok {
		return nil, &RuntimeError{Token: e.Paren, Message: "Can only call functions and classes."}
	}
	if len(args) != callable.Arity() {
		return nil, &RuntimeError{
			Token:   e.Paren,
			Message: fmt.Sprintf("Expected %d arguments but got %d.", callable.Arity(), len(args)),
		}
	}
	return callable.Call(in, args)
}

func (in *Interpreter) evalGet(e *ast.Get, env *Environment) (Value, error) {
	object, err := in.evalExpr(e.Object, env)
	if err != nil {
		return nil, err
	}
	instance, ok := object.(*Instance)
	if !ok {
		return nil, &RuntimeError{Token: e.Name, Message: "Only instances have properties."}
	}
	return instance.Get(e.Name)
}

func (in *Interpreter) evalSet(e *ast.Set, env *Environment) (Value, error) {
	object, err := in.evalExpr(e.Object, env)
	if err != nil {
		return nil, err
	}
	instance, ok := object.(*Instance)
	if !ok {
		return nil, &RuntimeError{Token: e.Name, Message: "Only instances have fields."}
	}
	value, err := in.evalExpr(e.Value, env)
	if err != nil {
		return nil, err
	}
	instance.Set(e.Name, value)
	return value, nil
}

// evalSuper resolves against the lexical superclass of the method's defining
// class, never the instance's dynamic class. "this" lives one scope closer
// than "super", which is what lets an overriding method call its parent's
// implementation without recursing into itself.
func (in *Interpreter) evalSuper(e *ast.Super, env *Environment) (Value, error) {
	distance, ok := in.locals[e.ID]
	if !ok {
		return nil, &RuntimeError{Token: e.Keyword, Message: "Can't use 'super' outside of a class."}
	}

	superclass := env.GetAt(distance, "super").(*Class)
	object := env.GetAt(distance-1, "this").(*Instance)

	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		return nil, &RuntimeError{
			Token:   e.Method,
			Message: "Undefined property '" + e.Method.Lexeme + "'.",
		}
	}
	return method.Bind(object), nil
}
