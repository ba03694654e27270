package sqlshape

import (
	"strings"
	"unicode"
)

// lexer tokenizes SQL input just far enough for shape recognition: it
// understands strings, quoted identifiers, comments, and numbers so that
// structural tokens (FROM, parens, placeholders) are never found inside
// literals.
type lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
}

func newLexer(input string) *lexer {
	l := &lexer{input: input}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

// peekChar returns the next character without advancing.
func (l *lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// nextToken returns the next token from the input.
func (l *lexer) nextToken() Token {
	l.skipWhitespaceAndComments()

	start := l.pos
	switch l.ch {
	case 0:
		return Token{Type: TOKEN_EOF, Pos: start}
	case '(':
		l.readChar()
		return Token{Type: TOKEN_LPAREN, Literal: "(", Pos: start}
	case ')':
		l.readChar()
		return Token{Type: TOKEN_RPAREN, Literal: ")", Pos: start}
	case ';':
		l.readChar()
		return Token{Type: TOKEN_SEMICOLON, Literal: ";", Pos: start}
	case '?':
		l.readChar()
		return Token{Type: TOKEN_QMARK, Literal: "?", Pos: start}
	case '\'':
		lit, ok := l.readString()
		if !ok {
			return Token{Type: TOKEN_ILLEGAL, Literal: lit, Pos: start}
		}
		return Token{Type: TOKEN_STRING, Literal: lit, Pos: start}
	case '"':
		lit, ok := l.readQuotedIdentifier()
		if !ok {
			return Token{Type: TOKEN_ILLEGAL, Literal: lit, Pos: start}
		}
		return Token{Type: TOKEN_IDENT, Literal: lit, Pos: start}
	default:
		switch {
		case isLetter(l.ch) || l.ch == '_':
			literal := l.readIdentifier()
			return Token{Type: lookupKeyword(strings.ToLower(literal)), Literal: literal, Pos: start}
		case isDigit(l.ch):
			return Token{Type: TOKEN_NUMBER, Literal: l.readNumber(), Pos: start}
		default:
			lit := string(l.ch)
			l.readChar()
			return Token{Type: TOKEN_SYMBOL, Literal: lit, Pos: start}
		}
	}
}

// skipWhitespaceAndComments skips whitespace and SQL comments.
func (l *lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}
		// Line comment (-- ...)
		if l.ch == '-' && l.peekChar() == '-' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		// Block comment (/* ... */)
		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar() // skip /
			l.readChar() // skip *
			for l.ch != 0 {
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar() // skip *
					l.readChar() // skip /
					break
				}
				l.readChar()
			}
			continue
		}
		break
	}
}

// readString reads a single-quoted string literal, handling '' escapes.
// Reports false when the closing quote is missing.
func (l *lexer) readString() (string, bool) {
	l.readChar() // skip opening quote
	var result strings.Builder
	for {
		switch {
		case l.ch == 0:
			return result.String(), false
		case l.ch == '\'':
			if l.peekChar() == '\'' {
				result.WriteByte('\'')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			return result.String(), true
		default:
			result.WriteByte(l.ch)
			l.readChar()
		}
	}
}

// readQuotedIdentifier reads a double-quoted identifier, handling "" escapes.
// Reports false when the closing quote is missing.
func (l *lexer) readQuotedIdentifier() (string, bool) {
	l.readChar() // skip opening quote
	var result strings.Builder
	for {
		switch {
		case l.ch == 0:
			return result.String(), false
		case l.ch == '"':
			if l.peekChar() == '"' {
				result.WriteByte('"')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			return result.String(), true
		default:
			result.WriteByte(l.ch)
			l.readChar()
		}
	}
}

// readIdentifier reads an unquoted identifier.
func (l *lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // skip .
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch))
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
