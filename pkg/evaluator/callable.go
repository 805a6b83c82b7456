package evaluator

// Callable is implemented by every value that can appear as a call target:
// user-defined functions, native functions, and classes.
type Callable interface {
	Arity() int
	Call(in *Interpreter, args []Value) (Value, error)
}

// NativeFunction is a built-in function implemented in Go with a fixed arity.
type NativeFunction struct {
	name  string
	arity int
	fn    func(args []Value) (Value, error)
}

func (*NativeFunction) loxValue() {}

// NewNative wraps a Go function as a Lox native function value.
func NewNative(name string, arity int, fn func(args []Value) (Value, error)) *NativeFunction {
	return &NativeFunction{name: name, arity: arity, fn: fn}
}

func (n *NativeFunction) Arity() int {
	return n.arity
}

func (n *NativeFunction) Call(_ *Interpreter, args []Value) (Value, error) {
	return n.fn(args)
}

func (n *NativeFunction) String() string {
	return "<native fn>"
}
