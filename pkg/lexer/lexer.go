// Package lexer implements the Lox tokenizer.
package lexer

import (
	"fmt"
	"strconv"

	"github.com/loxkit/golox/pkg/diagnostics"
)

// TokenType identifies the type of a lexer token.
type TokenType int

const (
	// Single-character tokens
	TokLeftParen TokenType = iota
	TokRightParen
	TokLeftBrace
	TokRightBrace
	TokComma
	TokDot
	TokMinus
	TokPlus
	TokSemicolon
	TokSlash
	TokStar

	// One or two character tokens
	TokBang
	TokBangEqual
	TokEqual
	TokEqualEqual
	TokGreater
	TokGreaterEqual
	TokLess
	TokLessEqual

	// Literals
	TokIdentifier
	TokString
	TokNumber

	// Keywords
	TokAnd
	TokClass
	TokElse
	TokFalse
	TokFun
	TokFor
	TokIf
	TokNil
	TokOr
	TokPrint
	TokReturn
	TokSuper
	TokThis
	TokTrue
	TokVar
	TokWhile

	TokEOF
)

var tokenNames = map[TokenType]string{
	TokLeftParen:    "LEFT_PAREN",
	TokRightParen:   "RIGHT_PAREN",
	TokLeftBrace:    "LEFT_BRACE",
	TokRightBrace:   "RIGHT_BRACE",
	TokComma:        "COMMA",
	TokDot:          "DOT",
	TokMinus:        "MINUS",
	TokPlus:         "PLUS",
	TokSemicolon:    "SEMICOLON",
	TokSlash:        "SLASH",
	TokStar:         "STAR",
	TokBang:         "BANG",
	TokBangEqual:    "BANG_EQUAL",
	TokEqual:        "EQUAL",
	TokEqualEqual:   "EQUAL_EQUAL",
	TokGreater:      "GREATER",
	TokGreaterEqual: "GREATER_EQUAL",
	TokLess:         "LESS",
	TokLessEqual:    "LESS_EQUAL",
	TokIdentifier:   "IDENTIFIER",
	TokString:       "STRING",
	TokNumber:       "NUMBER",
	TokAnd:          "AND",
	TokClass:        "CLASS",
	TokElse:         "ELSE",
	TokFalse:        "FALSE",
	TokFun:          "FUN",
	TokFor:          "FOR",
	TokIf:           "IF",
	TokNil:          "NIL",
	TokOr:           "OR",
	TokPrint:        "PRINT",
	TokReturn:       "RETURN",
	TokSuper:        "SUPER",
	TokThis:         "THIS",
	TokTrue:         "TRUE",
	TokVar:          "VAR",
	TokWhile:        "WHILE",
	TokEOF:          "EOF",
}

// String returns the canonical uppercase name of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

var keywords = map[string]TokenType{
	"and":    TokAnd,
	"class":  TokClass,
	"else":   TokElse,
	"false":  TokFalse,
	"fun":    TokFun,
	"for":    TokFor,
	"if":     TokIf,
	"nil":    TokNil,
	"or":     TokOr,
	"print":  TokPrint,
	"return": TokReturn,
	"super":  TokSuper,
	"this":   TokThis,
	"true":   TokTrue,
	"var":    TokVar,
	"while":  TokWhile,
}

// Token represents a single lexer token. Tokens are immutable once produced;
// AST nodes carry them only for identifier text and diagnostics.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any // string for TokString, float64 for TokNumber, else nil
	Line    int
}

// String renders the token in "TYPE lexeme literal" form, the format
// emitted by the tokenize command.
func (t Token) String() string {
	literal := "null"
	switch v := t.Literal.(type) {
	case string:
		literal = v
	case float64:
		literal = formatNumberLiteral(v)
	}
	return fmt.Sprintf("%s %s %s", t.Type, t.Lexeme, literal)
}

// formatNumberLiteral renders a number literal with at least one fractional
// digit, so 1234 scans as "1234.0" while 45.67 stays "45.67".
func formatNumberLiteral(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	for _, c := range s {
		if c == '.' {
			return s
		}
	}
	return s + ".0"
}

type scanner struct {
	source  string
	tokens  []Token
	diags   []diagnostics.Diagnostic
	start   int
	current int
	line    int
}

// Scan tokenizes source into a slice of tokens ending in an EOF marker.
// Lexical errors are reported as diagnostics; scanning continues past them
// so that all errors in a file surface in one pass.
func Scan(source string) ([]Token, []diagnostics.Diagnostic) {
	s := &scanner{source: source, line: 1}
	for !s.atEnd() {
		s.start = s.current
		s.scanToken()
	}
	s.tokens = append(s.tokens, Token{Type: TokEOF, Line: s.line})
	return s.tokens, s.diags
}

func (s *scanner) atEnd() bool {
	return s.current >= len(s.source)
}

func (s *scanner) scanToken() {
	c := s.advance()
	switch c {
	case '(':
		s.addToken(TokLeftParen)
	case ')':
		s.addToken(TokRightParen)
	case '{':
		s.addToken(TokLeftBrace)
	case '}':
		s.addToken(TokRightBrace)
	case ',':
		s.addToken(TokComma)
	case '.':
		s.addToken(TokDot)
	case '-':
		s.addToken(TokMinus)
	case '+':
		s.addToken(TokPlus)
	case ';':
		s.addToken(TokSemicolon)
	case '*':
		s.addToken(TokStar)
	case '!':
		if s.match('=') {
			s.addToken(TokBangEqual)
		} else {
			s.addToken(TokBang)
		}
	case '=':
		if s.match('=') {
			s.addToken(TokEqualEqual)
		} else {
			s.addToken(TokEqual)
		}
	case '<':
		if s.match('=') {
			s.addToken(TokLessEqual)
		} else {
			s.addToken(TokLess)
		}
	case '>':
		if s.match('=') {
			s.addToken(TokGreaterEqual)
		} else {
			s.addToken(TokGreater)
		}
	case '/':
		if s.match('/') {
			// Comment runs to end of line.
			for !s.atEnd() && s.peek() != '\n' {
				s.advance()
			}
		} else {
			s.addToken(TokSlash)
		}
	case ' ', '\r', '\t':
		// skip whitespace
	case '\n':
		s.line++
	case '"':
		s.scanString()
	default:
		if isDigit(c) {
			s.scanNumber()
		} else if isAlpha(c) {
			s.scanIdentifier()
		} else {
			s.addError(fmt.Sprintf("Unexpected character: %c", c))
		}
	}
}

func (s *scanner) scanString() {
	for !s.atEnd() && s.peek() != '"' {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}

	if s.atEnd() {
		s.addError("Unterminated string.")
		return
	}

	s.advance() // closing quote

	value := s.source[s.start+1 : s.current-1]
	s.addTokenLiteral(TokString, value)
}

func (s *scanner) scanNumber() {
	for isDigit(s.peek()) {
		s.advance()
	}

	// Fractional part, only if a digit follows the dot.
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	value, err := strconv.ParseFloat(s.source[s.start:s.current], 64)
	if err != nil {
		s.addError("Invalid number literal.")
		return
	}
	s.addTokenLiteral(TokNumber, value)
}

func (s *scanner) scanIdentifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}

	text := s.source[s.start:s.current]
	typ, ok := keywords[text]
	if !ok {
		typ = TokIdentifier
	}
	s.addToken(typ)
}

func (s *scanner) advance() byte {
	c := s.source[s.current]
	s.current++
	return c
}

func (s *scanner) match(expected byte) bool {
	if s.atEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return 0
	}
	return s.source[s.current+1]
}

func (s *scanner) addToken(typ TokenType) {
	s.addTokenLiteral(typ, nil)
}

func (s *scanner) addTokenLiteral(typ TokenType, literal any) {
	s.tokens = append(s.tokens, Token{
		Type:    typ,
		Lexeme:  s.source[s.start:s.current],
		Literal: literal,
		Line:    s.line,
	})
}

func (s *scanner) addError(msg string) {
	s.diags = append(s.diags, diagnostics.MakeDiag(diagnostics.EScan, s.line, "", msg))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
