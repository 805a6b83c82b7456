package evaluator

import "github.com/loxkit/golox/pkg/ast"

// Function is a user-defined function: a declaration paired with the
// environment that was active at its declaration site. Functions are
// immutable after construction; Bind returns a new Function rather than
// mutating the receiver.
type Function struct {
	declaration   *ast.Function
	closure       *Environment
	isInitializer bool
}

func (*Function) loxValue() {}

// NewFunction creates a function value closing over env.
func NewFunction(declaration *ast.Function, closure *Environment, isInitializer bool) *Function {
	return &Function{
		declaration:   declaration,
		closure:       closure,
		isInitializer: isInitializer,
	}
}

func (f *Function) Arity() int {
	return len(f.declaration.Params)
}

// Call executes the function body in a fresh environment enclosed by the
// captured closure. A return statement unwinds to exactly this boundary; a
// body that completes normally yields nil. Initializers always yield the
// bound instance, even after a bare return.
func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.closure)
	for i, param := range f.declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	if err := in.executeBlock(f.declaration.Body, env); err != nil {
		ret, ok := err.(*returnSignal)
		if !ok {
			return nil, err
		}
		if f.isInitializer {
			return f.closure.GetAt(0, "this"), nil
		}
		return ret.value, nil
	}

	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}
	return Nil{}, nil
}

// Bind produces a new function whose closure is a fresh environment defining
// "this" as the given instance. Every property access on an instance yields
// a fresh bound value closing over that specific instance.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnvironment(f.closure)
	env.Define("this", instance)
	return NewFunction(f.declaration, env, f.isInitializer)
}

func (f *Function) String() string {
	return "<fn " + f.declaration.Name.Lexeme + ">"
}

// returnSignal carries a return value up to the nearest enclosing function
// call boundary. It is threaded through error returns but is control flow,
// not a failure.
type returnSignal struct {
	value Value
}

func (*returnSignal) Error() string {
	return "return outside of function call"
}
