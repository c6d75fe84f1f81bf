package expr

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseError reports that source text does not conform to the restricted
// grammar. It is fatal to the extraction of the one computation it occurred
// in; batch processing continues past it.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

func errorf(line, col int, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

// lexer scans source text into a token stream.
type lexer struct {
	src  string
	cur  int // byte offset of the next rune
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

// scan tokenizes the entire source. Consecutive terminators are collapsed
// into one tokTerm so that blank lines carry no meaning.
func (l *lexer) scan() ([]token, error) {
	var tokens []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if tok.typ == tokTerm && len(tokens) > 0 && tokens[len(tokens)-1].typ == tokTerm {
			continue
		}
		tokens = append(tokens, tok)
		if tok.typ == tokEOF {
			return tokens, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()

	line, col := l.line, l.col
	if l.cur >= len(l.src) {
		return token{typ: tokEOF, line: line, col: col}, nil
	}

	r, size := utf8.DecodeRuneInString(l.src[l.cur:])
	switch {
	case r == '\n' || r == ';':
		l.advance(size)
		return token{typ: tokTerm, lexeme: string(r), line: line, col: col}, nil
	case isIdentStart(r):
		return l.scanIdent(line, col), nil
	case unicode.IsDigit(r):
		return l.scanNumber(line, col)
	}

	// Operators and punctuation, longest match first.
	rest := l.src[l.cur:]
	two := map[string]tokenType{
		"==": tokEq, "!=": tokNotEq, "<=": tokLessEq, ">=": tokGreaterEq,
	}
	for lit, typ := range two {
		if strings.HasPrefix(rest, lit) {
			l.advance(2)
			return token{typ: typ, lexeme: lit, line: line, col: col}, nil
		}
	}

	one := map[rune]tokenType{
		'(': tokLParen, ')': tokRParen, '[': tokLBracket, ']': tokRBracket,
		'{': tokLBrace, '}': tokRBrace, ',': tokComma, '=': tokAssign,
		'+': tokPlus, '-': tokMinus, '*': tokStar, '/': tokSlash,
		'%': tokPercent, '!': tokBang, '<': tokLess, '>': tokGreater,
	}
	if typ, ok := one[r]; ok {
		l.advance(size)
		return token{typ: typ, lexeme: string(r), line: line, col: col}, nil
	}

	return token{}, errorf(line, col, "unexpected character %q", r)
}

// skipSpace consumes horizontal whitespace and line comments. Newlines are
// significant (statement terminators) and are left in place.
func (l *lexer) skipSpace() {
	for l.cur < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.cur:])
		switch {
		case r == ' ' || r == '\t' || r == '\r':
			l.advance(size)
		case r == '/' && strings.HasPrefix(l.src[l.cur:], "//"):
			for l.cur < len(l.src) && l.src[l.cur] != '\n' {
				l.advance(1)
			}
		default:
			return
		}
	}
}

func (l *lexer) scanIdent(line, col int) token {
	start := l.cur
	for l.cur < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.cur:])
		if !isIdentStart(r) && !unicode.IsDigit(r) {
			break
		}
		l.advance(size)
	}
	lexeme := l.src[start:l.cur]
	typ := tokIdent
	if kw, ok := keywords[lexeme]; ok {
		typ = kw
	}
	return token{typ: typ, lexeme: lexeme, line: line, col: col}
}

func (l *lexer) scanNumber(line, col int) (token, error) {
	start := l.cur
	l.digits()
	if l.cur < len(l.src) && l.src[l.cur] == '.' {
		l.advance(1)
		if n := l.digits(); n == 0 {
			return token{}, errorf(l.line, l.col, "malformed number literal")
		}
	}
	if l.cur < len(l.src) && (l.src[l.cur] == 'e' || l.src[l.cur] == 'E') {
		l.advance(1)
		if l.cur < len(l.src) && (l.src[l.cur] == '+' || l.src[l.cur] == '-') {
			l.advance(1)
		}
		if n := l.digits(); n == 0 {
			return token{}, errorf(l.line, l.col, "malformed exponent in number literal")
		}
	}
	return token{typ: tokNumber, lexeme: l.src[start:l.cur], line: line, col: col}, nil
}

func (l *lexer) digits() int {
	n := 0
	for l.cur < len(l.src) && l.src[l.cur] >= '0' && l.src[l.cur] <= '9' {
		l.advance(1)
		n++
	}
	return n
}

func (l *lexer) advance(size int) {
	if l.src[l.cur] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.cur += size
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
