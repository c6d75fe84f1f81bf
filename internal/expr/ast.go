package expr

// Expr is the closed set of expression nodes in the restricted grammar.
// Consumers dispatch with an exhaustive type switch; there is deliberately no
// open-ended Visit mechanism.
type Expr interface {
	exprNode()
}

// Ident is a bare reference to a variable or parameter.
type Ident struct {
	Name string
}

// Number is a numeric literal. The raw lexeme is preserved so rendering does
// not reformat what the author wrote.
type Number struct {
	Raw string
}

// Unary applies a prefix operator ('-' or '!') to an operand.
type Unary struct {
	Op string
	X  Expr
}

// Binary applies an infix operator to two operands.
type Binary struct {
	Op string
	X  Expr
	Y  Expr
}

// Call invokes a named function with positional arguments.
type Call struct {
	Func string
	Args []Expr
}

// Index subscripts a collection with a key expression.
type Index struct {
	X   Expr
	Key Expr
}

func (*Ident) exprNode()  {}
func (*Number) exprNode() {}
func (*Unary) exprNode()  {}
func (*Binary) exprNode() {}
func (*Call) exprNode()   {}
func (*Index) exprNode()  {}

// Stmt is the closed set of statement nodes.
type Stmt interface {
	stmtNode()
}

// AssignStmt binds the value of RHS to a single identifier.
type AssignStmt struct {
	Name string
	RHS  Expr
}

// ReturnStmt declares a single identifier as a return value of the
// computation.
type ReturnStmt struct {
	Target string
}

// BadStmt is a statement outside the restricted grammar. It is recorded so
// callers can log the skip, and is otherwise ignored.
type BadStmt struct {
	Text string
	Line int
}

func (*AssignStmt) stmtNode() {}
func (*ReturnStmt) stmtNode() {}
func (*BadStmt) stmtNode()    {}

// Program is a parsed computation: an optional func header naming the
// parameters, followed by the statement list.
type Program struct {
	Name      string // func name, "" without a header
	Params    []string
	HasHeader bool
	Stmts     []Stmt
}
