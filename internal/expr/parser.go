package expr

import "strings"

// binaryPrec returns the binding power of an infix operator token, or 0 if
// the token is not an infix operator. Comparisons bind loosest, then
// additive, then multiplicative operators.
func binaryPrec(t tokenType) int {
	switch t {
	case tokEq, tokNotEq, tokLess, tokLessEq, tokGreater, tokGreaterEq:
		return 1
	case tokPlus, tokMinus:
		return 2
	case tokStar, tokSlash, tokPercent:
		return 3
	}
	return 0
}

type parser struct {
	toks []token
	pos  int
}

// ParseExpression parses a single expression from src. Trailing input other
// than terminators is an error.
func ParseExpression(src string) (Expr, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	p.skipTerms()
	e, err := p.parseExpr(1)
	if err != nil {
		return nil, err
	}
	p.skipTerms()
	if tok := p.peek(); tok.typ != tokEOF {
		return nil, errorf(tok.line, tok.col, "unexpected %q after expression", tok.lexeme)
	}
	return e, nil
}

// ParseProgram parses a full computation: either a bare statement sequence,
// or a `func name(params) { ... }` wrapper around one.
func ParseProgram(src string) (*Program, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	p.skipTerms()

	prog := &Program{}
	end := tokEOF
	if p.peek().typ == tokFunc {
		if err := p.parseHeader(prog); err != nil {
			return nil, err
		}
		end = tokRBrace
	}

	for {
		p.skipTerms()
		if p.peek().typ == end || p.peek().typ == tokEOF {
			break
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}

	if prog.HasHeader {
		if tok := p.peek(); tok.typ != tokRBrace {
			return nil, errorf(tok.line, tok.col, "expected '}' to close func body")
		}
		p.advance()
	}
	p.skipTerms()
	if tok := p.peek(); tok.typ != tokEOF {
		return nil, errorf(tok.line, tok.col, "unexpected %q after computation", tok.lexeme)
	}
	return prog, nil
}

func newParser(src string) (*parser, error) {
	toks, err := newLexer(src).scan()
	if err != nil {
		return nil, err
	}
	return &parser{toks: toks}, nil
}

// parseHeader consumes `func name(a, b) {`.
func (p *parser) parseHeader(prog *Program) error {
	p.advance() // func
	name, err := p.expect(tokIdent, "function name")
	if err != nil {
		return err
	}
	prog.Name = name.lexeme
	prog.HasHeader = true

	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return err
	}
	for p.peek().typ != tokRParen {
		param, err := p.expect(tokIdent, "parameter name")
		if err != nil {
			return err
		}
		prog.Params = append(prog.Params, param.lexeme)
		if p.peek().typ == tokComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return err
	}
	p.skipTerms()
	if _, err := p.expect(tokLBrace, "'{' to open func body"); err != nil {
		return err
	}
	return nil
}

func (p *parser) parseStmt() (Stmt, error) {
	tok := p.peek()
	switch {
	case tok.typ == tokReturn:
		return p.parseReturn()
	case tok.typ == tokIdent && p.peekAt(1).typ == tokAssign:
		return p.parseAssign()
	}
	return p.skipBad(), nil
}

// parseAssign handles a committed `ident = expr` statement. A right-hand
// side that fails to parse fails the whole computation.
func (p *parser) parseAssign() (Stmt, error) {
	name := p.peek()
	p.advance() // ident
	p.advance() // '='
	rhs, err := p.parseExpr(1)
	if err != nil {
		return nil, err
	}
	if !p.atStmtEnd() {
		tok := p.peek()
		return nil, errorf(tok.line, tok.col, "unexpected %q after assignment to %q", tok.lexeme, name.lexeme)
	}
	return &AssignStmt{Name: name.lexeme, RHS: rhs}, nil
}

// parseReturn collects `return ident`. Bare returns and returns of compound
// expressions are not part of the restricted grammar; they parse but yield a
// BadStmt so the caller can skip them.
func (p *parser) parseReturn() (Stmt, error) {
	ret := p.peek()
	p.advance()
	if p.atStmtEnd() {
		return &BadStmt{Text: "return", Line: ret.line}, nil
	}
	e, err := p.parseExpr(1)
	if err != nil {
		return nil, err
	}
	if !p.atStmtEnd() {
		tok := p.peek()
		return nil, errorf(tok.line, tok.col, "unexpected %q after return value", tok.lexeme)
	}
	if id, ok := e.(*Ident); ok {
		return &ReturnStmt{Target: id.Name}, nil
	}
	return &BadStmt{Text: "return " + Render(e), Line: ret.line}, nil
}

// skipBad consumes a statement outside the restricted grammar, through the
// next terminator. A brace-delimited block (e.g. a control-flow construct)
// is swallowed whole, including its body.
func (p *parser) skipBad() *BadStmt {
	start := p.peek()
	var parts []string
	depth := 0
	for {
		tok := p.peek()
		switch tok.typ {
		case tokEOF:
			return &BadStmt{Text: strings.Join(parts, " "), Line: start.line}
		case tokTerm:
			if depth == 0 {
				return &BadStmt{Text: strings.Join(parts, " "), Line: start.line}
			}
			p.advance()
			continue
		case tokLBrace:
			depth++
		case tokRBrace:
			if depth == 0 {
				// Closing brace of an enclosing func body; leave it.
				return &BadStmt{Text: strings.Join(parts, " "), Line: start.line}
			}
			depth--
			if depth == 0 {
				p.advance()
				return &BadStmt{Text: strings.Join(parts, " ") + " }", Line: start.line}
			}
		}
		parts = append(parts, tok.lexeme)
		p.advance()
	}
}

// parseExpr is the Pratt expression loop: a unary operand followed by infix
// operators of at least minPrec, associating left.
func (p *parser) parseExpr(minPrec int) (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		prec := binaryPrec(p.peek().typ)
		if prec < minPrec {
			return left, nil
		}
		op := p.peek().lexeme
		p.advance()
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, X: left, Y: right}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	tok := p.peek()
	if tok.typ == tokMinus || tok.typ == tokBang {
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: tok.lexeme, X: x}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tokLBracket {
		p.advance()
		key, err := p.parseExpr(1)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRBracket, "']'"); err != nil {
			return nil, err
		}
		e = &Index{X: e, Key: key}
	}
	return e, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	switch tok.typ {
	case tokIdent:
		p.advance()
		if p.peek().typ != tokLParen {
			return &Ident{Name: tok.lexeme}, nil
		}
		p.advance()
		call := &Call{Func: tok.lexeme}
		for p.peek().typ != tokRParen {
			arg, err := p.parseExpr(1)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if p.peek().typ == tokComma {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(tokRParen, "')' to close call arguments"); err != nil {
			return nil, err
		}
		return call, nil
	case tokNumber:
		p.advance()
		return &Number{Raw: tok.lexeme}, nil
	case tokLParen:
		p.advance()
		e, err := p.parseExpr(1)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, errorf(tok.line, tok.col, "unexpected %q in expression", tok.lexeme)
}

func (p *parser) peek() token { return p.peekAt(0) }

func (p *parser) advance() { p.pos++ }

func (p *parser) skipTerms() {
	for p.peek().typ == tokTerm {
		p.advance()
	}
}

func (p *parser) peekAt(off int) token {
	i := p.pos + off
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF, the scanner always appends one
	}
	return p.toks[i]
}

// atStmtEnd reports whether the cursor sits on a statement boundary.
func (p *parser) atStmtEnd() bool {
	switch p.peek().typ {
	case tokTerm, tokEOF, tokRBrace:
		return true
	}
	return false
}

func (p *parser) expect(typ tokenType, what string) (token, error) {
	tok := p.peek()
	if tok.typ != typ {
		return token{}, errorf(tok.line, tok.col, "expected %s, found %q", what, tok.lexeme)
	}
	p.advance()
	return tok, nil
}
