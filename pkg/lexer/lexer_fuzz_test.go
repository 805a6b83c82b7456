package lexer

import (
	"testing"
)

// FuzzScan feeds random inputs to the scanner to catch panics.
// The scanner should never panic — invalid input becomes diagnostics.
func FuzzScan(f *testing.F) {
	// Seed corpus with valid tokens and edge cases
	seeds := []string{
		// Keywords
		`and class else false fun for if nil or`,
		`print return super this true var while`,
		// Literals
		`42 3.14 0 1234.5678`,
		`"hello" "multi
line"`,
		// Operators
		`( ) { } , . - + ; / *`,
		`! != = == > >= < <=`,
		// Identifiers
		`x foo bar_baz _private camelCase`,
		// Comments
		`// this is a comment`,
		// Realistic programs
		`var x = 42;`,
		`fun fib(n) { if (n <= 1) return n; return fib(n - 1) + fib(n - 2); }`,
		`class A < B { init() { super.init(); this.x = 1; } }`,
		// Edge cases
		``,
		`   `,
		"\t\n\r",
		`"unterminated`,
		`"""`,
		`@#$^&`,
		`123.`,
		`.5`,
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, source string) {
		tokens, _ := Scan(source)
		if len(tokens) == 0 {
			t.Fatal("scan returned no tokens")
		}
		if tokens[len(tokens)-1].Type != TokEOF {
			t.Errorf("last token is %v, want EOF", tokens[len(tokens)-1].Type)
		}
		for _, tok := range tokens {
			if tok.Line < 1 {
				t.Errorf("token %v has line %d", tok.Type, tok.Line)
			}
		}
	})
}
