package lexer

import (
	"strings"
	"testing"
)

// helper to scan and fail on any diagnostic
func mustScan(t *testing.T, source string) []Token {
	t.Helper()
	tokens, diags := Scan(source)
	if len(diags) > 0 {
		t.Fatalf("unexpected scan errors: %v", diags)
	}
	return tokens
}

// helper that strips the trailing EOF for easier assertions
func mustScanNoEOF(t *testing.T, source string) []Token {
	t.Helper()
	tokens := mustScan(t, source)
	if len(tokens) == 0 {
		t.Fatal("expected at least one token (EOF)")
	}
	if tokens[len(tokens)-1].Type != TokEOF {
		t.Fatal("last token is not EOF")
	}
	return tokens[:len(tokens)-1]
}

// ---------------------------------------------------------------------------
// Test: empty input produces only EOF
// ---------------------------------------------------------------------------
func TestEmptyInput(t *testing.T) {
	tokens := mustScan(t, "")
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token (EOF), got %d", len(tokens))
	}
	if tokens[0].Type != TokEOF {
		t.Errorf("expected TokEOF, got %v", tokens[0].Type)
	}
}

// ---------------------------------------------------------------------------
// Test: all keywords
// ---------------------------------------------------------------------------
func TestKeywords(t *testing.T) {
	tests := []struct {
		keyword  string
		expected TokenType
	}{
		{"and", TokAnd},
		{"class", TokClass},
		{"else", TokElse},
		{"false", TokFalse},
		{"for", TokFor},
		{"fun", TokFun},
		{"if", TokIf},
		{"nil", TokNil},
		{"or", TokOr},
		{"print", TokPrint},
		{"return", TokReturn},
		{"super", TokSuper},
		{"this", TokThis},
		{"true", TokTrue},
		{"var", TokVar},
		{"while", TokWhile},
	}
	for _, tc := range tests {
		tokens := mustScanNoEOF(t, tc.keyword)
		if len(tokens) != 1 {
			t.Fatalf("%q: expected 1 token, got %d", tc.keyword, len(tokens))
		}
		if tokens[0].Type != tc.expected {
			t.Errorf("%q: expected %v, got %v", tc.keyword, tc.expected, tokens[0].Type)
		}
	}
}

// ---------------------------------------------------------------------------
// Test: single- and double-character operators
// ---------------------------------------------------------------------------
func TestOperators(t *testing.T) {
	tokens := mustScanNoEOF(t, "( ) { } , . - + ; / * ! != = == > >= < <=")
	expected := []TokenType{
		TokLeftParen, TokRightParen, TokLeftBrace, TokRightBrace,
		TokComma, TokDot, TokMinus, TokPlus, TokSemicolon, TokSlash, TokStar,
		TokBang, TokBangEqual, TokEqual, TokEqualEqual,
		TokGreater, TokGreaterEqual, TokLess, TokLessEqual,
	}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, typ := range expected {
		if tokens[i].Type != typ {
			t.Errorf("token %d: expected %v, got %v", i, typ, tokens[i].Type)
		}
	}
}

// ---------------------------------------------------------------------------
// Test: number literals carry float64 values
// ---------------------------------------------------------------------------
func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		source   string
		expected float64
	}{
		{"0", 0},
		{"42", 42},
		{"3.14", 3.14},
		{"1234.5678", 1234.5678},
	}
	for _, tc := range tests {
		tokens := mustScanNoEOF(t, tc.source)
		if len(tokens) != 1 || tokens[0].Type != TokNumber {
			t.Fatalf("%q: expected a single number token, got %v", tc.source, tokens)
		}
		got, ok := tokens[0].Literal.(float64)
		if !ok || got != tc.expected {
			t.Errorf("%q: expected literal %v, got %v", tc.source, tc.expected, tokens[0].Literal)
		}
	}
}

// A dot not followed by a digit is not part of the number.
func TestNumberNoTrailingDot(t *testing.T) {
	tokens := mustScanNoEOF(t, "123.")
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0].Type != TokNumber || tokens[1].Type != TokDot {
		t.Errorf("expected NUMBER then DOT, got %v then %v", tokens[0].Type, tokens[1].Type)
	}
}

// ---------------------------------------------------------------------------
// Test: string literals strip quotes and may span lines
// ---------------------------------------------------------------------------
func TestStringLiterals(t *testing.T) {
	tokens := mustScanNoEOF(t, `"hello world"`)
	if len(tokens) != 1 || tokens[0].Type != TokString {
		t.Fatalf("expected a single string token, got %v", tokens)
	}
	if got := tokens[0].Literal.(string); got != "hello world" {
		t.Errorf("expected literal %q, got %q", "hello world", got)
	}

	tokens = mustScanNoEOF(t, "\"multi\nline\"")
	if tokens[0].Literal.(string) != "multi\nline" {
		t.Errorf("multiline string literal mangled: %q", tokens[0].Literal)
	}
	if tokens[0].Line != 2 {
		t.Errorf("expected string token on line 2, got %d", tokens[0].Line)
	}
}

func TestUnterminatedString(t *testing.T) {
	_, diags := Scan(`"never closed`)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if !strings.Contains(diags[0].Message, "Unterminated string.") {
		t.Errorf("unexpected message: %q", diags[0].Message)
	}
}

// ---------------------------------------------------------------------------
// Test: comments and whitespace are skipped, lines are counted
// ---------------------------------------------------------------------------
func TestCommentsAndLines(t *testing.T) {
	source := "// leading comment\nvar x = 1; // trailing\nprint x;"
	tokens := mustScanNoEOF(t, source)
	if tokens[0].Type != TokVar || tokens[0].Line != 2 {
		t.Errorf("expected 'var' on line 2, got %v on line %d", tokens[0].Type, tokens[0].Line)
	}
	last := tokens[len(tokens)-1]
	if last.Line != 3 {
		t.Errorf("expected last token on line 3, got %d", last.Line)
	}
}

// ---------------------------------------------------------------------------
// Test: unexpected characters produce diagnostics but scanning continues
// ---------------------------------------------------------------------------
func TestUnexpectedCharacter(t *testing.T) {
	tokens, diags := Scan("@ var")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if !strings.Contains(diags[0].Message, "Unexpected character") {
		t.Errorf("unexpected message: %q", diags[0].Message)
	}
	// The scanner recovers and still tokenizes the rest.
	if len(tokens) != 2 || tokens[0].Type != TokVar {
		t.Errorf("expected recovery to produce 'var' + EOF, got %v", tokens)
	}
}

// ---------------------------------------------------------------------------
// Test: token String renders "TYPE lexeme literal"
// ---------------------------------------------------------------------------
func TestTokenString(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{"(", "LEFT_PAREN ( null"},
		{"foo", "IDENTIFIER foo null"},
		{`"bar"`, `STRING "bar" bar`},
		{"1234", "NUMBER 1234 1234.0"},
		{"2.5", "NUMBER 2.5 2.5"},
	}
	for _, tc := range tests {
		tokens := mustScanNoEOF(t, tc.source)
		if got := tokens[0].String(); got != tc.expected {
			t.Errorf("%q: expected %q, got %q", tc.source, tc.expected, got)
		}
	}
}
