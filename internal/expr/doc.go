// Package expr implements the restricted computation language: a lexer, a
// Pratt parser, a closed AST for the supported constructs, and a canonical
// renderer whose output is independent of the original whitespace and
// parenthesization.
//
// The language covers short straight-line computations only:
//
//	func solution(a, b) {
//	    x = a + b
//	    y = x * 2
//	    return y
//	}
//
// Statements are single-target assignments and single-identifier returns,
// separated by newlines or semicolons. The func wrapper is optional; when it
// is absent the caller supplies the parameter names. Anything else (control
// flow, multi-target or subscript assignment, return of a compound
// expression) is represented as a BadStmt and skipped by consumers, not
// treated as an error. Only a lexical error or a malformed committed
// statement fails the parse as a whole.
package expr
