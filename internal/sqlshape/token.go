package sqlshape

// TokenType represents the type of a lexical token.
type TokenType int

// TOKEN_EOF and friends enumerate the token types the recognizer needs.
// Anything that is not structurally significant for shape recognition is
// collapsed into TOKEN_SYMBOL.
const (
	TOKEN_EOF     TokenType = iota // end of input
	TOKEN_ILLEGAL                  // unexpected or unterminated input

	TOKEN_IDENT  // identifier (plain or double-quoted)
	TOKEN_NUMBER // 123, 45.67, 1e10
	TOKEN_STRING // 'hello'

	TOKEN_LPAREN    // (
	TOKEN_RPAREN    // )
	TOKEN_SEMICOLON // ;
	TOKEN_QMARK     // ? placeholder
	TOKEN_SYMBOL    // any other operator or punctuation

	// Keywords the recognizer must see through.
	TOKEN_SELECT
	TOKEN_FROM
	TOKEN_WITH
	TOKEN_UNION
	TOKEN_EXCEPT
	TOKEN_INTERSECT
)

// Token is one lexical token plus its byte offset in the input, so callers
// can slice the original text at token boundaries.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}

var keywords = map[string]TokenType{
	"select":    TOKEN_SELECT,
	"from":      TOKEN_FROM,
	"with":      TOKEN_WITH,
	"union":     TOKEN_UNION,
	"except":    TOKEN_EXCEPT,
	"intersect": TOKEN_INTERSECT,
}

// lookupKeyword maps a lowercased identifier to its keyword token type, or
// TOKEN_IDENT if it is not a recognized keyword.
func lookupKeyword(lower string) TokenType {
	if t, ok := keywords[lower]; ok {
		return t
	}
	return TOKEN_IDENT
}
