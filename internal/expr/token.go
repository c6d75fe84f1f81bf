package expr

import "fmt"

// tokenType identifies the kind of a lexical token.
type tokenType int

const (
	tokEOF tokenType = iota
	tokTerm          // statement terminator: newline or ';'

	// Literals and identifiers.
	tokIdent
	tokNumber

	// Punctuation.
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
	tokComma

	// Operators.
	tokAssign // '='
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokBang
	tokEq // '=='
	tokNotEq
	tokLess
	tokLessEq
	tokGreater
	tokGreaterEq

	// Keywords.
	tokFunc
	tokReturn
)

// keywords maps reserved words to their token types.
var keywords = map[string]tokenType{
	"func":   tokFunc,
	"return": tokReturn,
}

// token is a single lexical token with its source position.
type token struct {
	typ    tokenType
	lexeme string
	line   int // 1-based
	col    int // 1-based
}

func (t token) String() string {
	return fmt.Sprintf("%q@%d:%d", t.lexeme, t.line, t.col)
}
