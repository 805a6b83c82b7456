// Package formatter renders Lox expressions as parenthesized trees,
// e.g. (* (- 123.0) (group 45.67)). Used by the parse command and in
// parser tests to assert tree shape.
package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/loxkit/golox/pkg/ast"
)

// Format renders an expression tree.
func Format(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return formatNumber(e.Value)
	case *ast.StringLiteral:
		return e.Value
	case *ast.BoolLiteral:
		return strconv.FormatBool(e.Value)
	case *ast.NilLiteral:
		return "nil"
	case *ast.Grouping:
		return parenthesize("group", e.Expression)
	case *ast.Unary:
		return parenthesize(e.Op.Lexeme, e.Right)
	case *ast.Binary:
		return parenthesize(e.Op.Lexeme, e.Left, e.Right)
	case *ast.Logical:
		return parenthesize(e.Op.Lexeme, e.Left, e.Right)
	case *ast.Variable:
		return e.Name.Lexeme
	case *ast.Assign:
		return parenthesize("= "+e.Name.Lexeme, e.Value)
	case *ast.Call:
		return parenthesize("call", append([]ast.Expr{e.Callee}, e.Args...)...)
	case *ast.Get:
		return parenthesize("."+e.Name.Lexeme, e.Object)
	case *ast.Set:
		return parenthesize("set ."+e.Name.Lexeme, e.Object, e.Value)
	case *ast.This:
		return "this"
	case *ast.Super:
		return "(super " + e.Method.Lexeme + ")"
	default:
		return fmt.Sprintf("<unknown %T>", expr)
	}
}

// formatNumber always includes a fractional part, matching the literal form
// in tokenize output: 123 prints as 123.0.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func parenthesize(name string, exprs ...ast.Expr) string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(name)
	for _, expr := range exprs {
		sb.WriteByte(' ')
		sb.WriteString(Format(expr))
	}
	sb.WriteByte(')')
	return sb.String()
}
