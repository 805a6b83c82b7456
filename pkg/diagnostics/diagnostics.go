// Package diagnostics defines Lox diagnostic types for scan/parse/resolve errors.
package diagnostics

import (
	"fmt"
	"strings"
)

// Diagnostic code constants.
const (
	EScan    = "E_SCAN"
	EParse   = "E_PARSE"
	EResolve = "E_RESOLVE"
)

// Diagnostic represents a scan, parse, or resolution error.
// Where is rendered directly after "Error" and is either empty,
// " at end", or " at 'lexeme'".
type Diagnostic struct {
	Code    string
	Line    int
	Where   string
	Message string
}

// MakeDiag creates a new Diagnostic.
func MakeDiag(code string, line int, where, message string) Diagnostic {
	return Diagnostic{
		Code:    code,
		Line:    line,
		Where:   where,
		Message: message,
	}
}

// String renders the diagnostic in the canonical reporting form,
// e.g. [line 3] Error at 'a': Already a variable with this name in this scope.
func (d Diagnostic) String() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// Format renders a slice of diagnostics, one per line.
func Format(diags []Diagnostic) string {
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = d.String()
	}
	return strings.Join(parts, "\n")
}
