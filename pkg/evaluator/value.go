// Package evaluator implements the Lox tree-walking runtime: the value
// model, the environment chain, and the interpreter itself.
package evaluator

import "strconv"

// Value is the interface for all Lox runtime values.
// Use the sealed marker method to restrict implementations to this package.
type Value interface {
	loxValue() // sealed marker
}

// Nil represents the nil value.
type Nil struct{}

func (Nil) loxValue() {}

// Boolean represents a boolean value.
type Boolean struct {
	Value bool
}

func (Boolean) loxValue() {}

// Number represents a numeric value. Lox uses double-precision floats even
// for integer values.
type Number struct {
	Value float64
}

func (Number) loxValue() {}

// String represents a string value.
type String struct {
	Value string
}

func (String) loxValue() {}

// Truthiness returns the boolean interpretation of a Lox value.
// nil and false are falsy; everything else (including 0 and "") is truthy.
func Truthiness(v Value) bool {
	switch val := v.(type) {
	case Nil:
		return false
	case Boolean:
		return val.Value
	default:
		return true
	}
}

// Equal implements Lox structural equality. Primitives compare by value with
// no cross-type coercion; functions, classes, and instances compare by
// reference identity.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av.Value == bv.Value
	case Number:
		bv, ok := b.(Number)
		return ok && av.Value == bv.Value
	case String:
		bv, ok := b.(String)
		return ok && av.Value == bv.Value
	default:
		// *Function, *NativeFunction, *Class, *Instance: pointer identity.
		return a == b
	}
}

// Stringify renders a value's canonical string form, as used by print.
func Stringify(v Value) string {
	switch val := v.(type) {
	case Nil:
		return "nil"
	case Boolean:
		return strconv.FormatBool(val.Value)
	case Number:
		return strconv.FormatFloat(val.Value, 'f', -1, 64)
	case String:
		return val.Value
	case *Function:
		return val.String()
	case *NativeFunction:
		return val.String()
	case *Class:
		return val.String()
	case *Instance:
		return val.String()
	default:
		return "<unknown>"
	}
}
