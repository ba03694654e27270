// Package sqlshape provides a minimal, explicitly scoped SQL shape
// recognizer for the disclosure-control pipeline.
//
// It is deliberately not a SQL parser. It tokenizes just far enough to keep
// structural decisions out of string literals, quoted identifiers, and
// comments, and supports exactly two operations: deriving the
// count-equivalent of a plain SELECT query (for the minimum-size pre-check)
// and rewriting ? placeholders to $1..$n (for drivers with numbered
// parameters). Query shapes outside its scope are rejected with an error
// rather than transformed on a best-effort basis.
package sqlshape

import (
	"fmt"
	"strconv"
	"strings"
)

// CountEquivalent derives the counting form of a SELECT query: the select
// list is replaced with COUNT(*) AS count when the query has a top-level
// FROM clause, otherwise the whole query is wrapped as a subquery. A single
// trailing semicolon is tolerated.
//
// Out-of-scope shapes (non-SELECT statements, WITH queries, top-level set
// operations, multiple statements, malformed input) return an error; the
// caller treats that as an execution failure, never as a reason to fall
// back to text surgery.
func CountEquivalent(query string) (string, error) {
	toks, err := tokenize(query)
	if err != nil {
		return "", err
	}
	if len(toks) == 0 {
		return "", fmt.Errorf("size pre-check: empty query")
	}

	end, err := statementEnd(toks, len(query))
	if err != nil {
		return "", err
	}

	switch toks[0].Type {
	case TOKEN_SELECT:
	case TOKEN_WITH:
		return "", fmt.Errorf("size pre-check does not support WITH queries")
	default:
		return "", fmt.Errorf("size pre-check supports only SELECT queries")
	}

	depth := 0
	fromPos := -1
	for _, tok := range toks {
		if tok.Pos >= end {
			break
		}
		switch tok.Type {
		case TOKEN_LPAREN:
			depth++
		case TOKEN_RPAREN:
			depth--
			if depth < 0 {
				return "", fmt.Errorf("size pre-check: unbalanced parentheses")
			}
		case TOKEN_UNION, TOKEN_EXCEPT, TOKEN_INTERSECT:
			if depth == 0 {
				return "", fmt.Errorf("size pre-check does not support top-level set operations")
			}
		case TOKEN_FROM:
			if depth == 0 && fromPos < 0 {
				fromPos = tok.Pos
			}
		}
	}
	if depth != 0 {
		return "", fmt.Errorf("size pre-check: unbalanced parentheses")
	}

	if fromPos >= 0 {
		return "SELECT COUNT(*) AS count " + query[fromPos:end], nil
	}
	return "SELECT COUNT(*) AS count FROM (" + strings.TrimSpace(query[:end]) + ") AS subquery", nil
}

// RewritePositional rewrites ? placeholders to $1..$n for drivers that use
// numbered parameters. Placeholders inside string literals, quoted
// identifiers, and comments are left untouched.
func RewritePositional(query string) (string, error) {
	toks, err := tokenize(query)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	last, n := 0, 0
	for _, tok := range toks {
		if tok.Type != TOKEN_QMARK {
			continue
		}
		n++
		b.WriteString(query[last:tok.Pos])
		b.WriteString("$" + strconv.Itoa(n))
		last = tok.Pos + 1
	}
	if n == 0 {
		return query, nil
	}
	b.WriteString(query[last:])
	return b.String(), nil
}

// tokenize runs the lexer over the whole input, failing on malformed
// literals.
func tokenize(query string) ([]Token, error) {
	l := newLexer(query)
	var toks []Token
	for {
		tok := l.nextToken()
		if tok.Type == TOKEN_EOF {
			return toks, nil
		}
		if tok.Type == TOKEN_ILLEGAL {
			return nil, fmt.Errorf("malformed query near offset %d: unterminated literal", tok.Pos)
		}
		toks = append(toks, tok)
	}
}

// statementEnd returns the byte offset where the single statement ends,
// tolerating one trailing semicolon and rejecting anything after it.
func statementEnd(toks []Token, inputLen int) (int, error) {
	for i, tok := range toks {
		if tok.Type != TOKEN_SEMICOLON {
			continue
		}
		if i != len(toks)-1 {
			return 0, fmt.Errorf("size pre-check requires a single statement")
		}
		return tok.Pos, nil
	}
	return inputLen, nil
}
