package evaluator

import (
	"fmt"

	"github.com/loxkit/golox/pkg/lexer"
)

// Environment is a mutable scope frame mapping names to values, chained to
// an optional enclosing frame. Children share their parent by reference: a
// closure's captured environment keeps the whole chain alive after the call
// frame that created it has returned.
type Environment struct {
	values    map[string]Value
	enclosing *Environment
}

// NewEnvironment creates an environment nested inside enclosing.
// Pass nil for the global scope.
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{
		values:    make(map[string]Value),
		enclosing: enclosing,
	}
}

// Define binds a name in this scope only, overwriting any previous binding
// of the same name. It never touches the enclosing chain.
func (e *Environment) Define(name string, v Value) {
	e.values[name] = v
}

// Get walks outward through the enclosing chain until a scope contains name.
// It fails with a RuntimeError if the chain is exhausted.
func (e *Environment) Get(name lexer.Token) (Value, error) {
	if v, ok := e.values[name.Lexeme]; ok {
		return v, nil
	}
	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}
	return nil, &RuntimeError{
		Token:   name,
		Message: "Undefined variable '" + name.Lexeme + "'.",
	}
}

// GetAt jumps exactly distance hops outward and performs a direct lookup in
// that scope. It never falls further outward on a miss: a miss at the
// resolved scope means the resolution table is wrong, which is a contract
// violation, not a recoverable runtime condition.
func (e *Environment) GetAt(distance int, name string) Value {
	scope := e.ancestor(distance)
	v, ok := scope.values[name]
	if !ok {
		panic(fmt.Sprintf("environment: no binding for '%s' at resolved distance %d", name, distance))
	}
	return v
}

// Assign rebinds an existing name, walking outward through the chain. Unlike
// Define, it never creates a binding: assigning an undefined name is a
// RuntimeError.
func (e *Environment) Assign(name lexer.Token, v Value) error {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = v
		return nil
	}
	if e.enclosing != nil {
		return e.enclosing.Assign(name, v)
	}
	return &RuntimeError{
		Token:   name,
		Message: "Undefined variable '" + name.Lexeme + "'.",
	}
}

// AssignAt rebinds name exactly distance hops outward, with the same
// no-fallback contract as GetAt.
func (e *Environment) AssignAt(distance int, name lexer.Token, v Value) {
	scope := e.ancestor(distance)
	if _, ok := scope.values[name.Lexeme]; !ok {
		panic(fmt.Sprintf("environment: no binding for '%s' at resolved distance %d", name.Lexeme, distance))
	}
	scope.values[name.Lexeme] = v
}

func (e *Environment) ancestor(distance int) *Environment {
	scope := e
	for i := 0; i < distance; i++ {
		if scope.enclosing == nil {
			panic(fmt.Sprintf("environment: resolved distance %d exceeds chain length %d", distance, i))
		}
		scope = scope.enclosing
	}
	return scope
}
