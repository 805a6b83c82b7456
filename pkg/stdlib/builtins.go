// Package stdlib registers the native functions available to Lox programs.
package stdlib

import (
	"time"

	"github.com/loxkit/golox/pkg/evaluator"
)

// RegisterDefaults defines the default natives in the given global
// environment. The only built-in is clock, a zero-argument function
// returning the current wall-clock time in seconds.
func RegisterDefaults(globals *evaluator.Environment) {
	globals.Define("clock", evaluator.NewNative("clock", 0, func(_ []evaluator.Value) (evaluator.Value, error) {
		return evaluator.Number{Value: float64(time.Now().UnixNano()) / 1e9}, nil
	}))
}
