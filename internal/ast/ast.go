// Package ast defines the abstract syntax produced by the GLR parser's
// semantic actions (internal/grammar, internal/glr) and consumed by the
// code generator (internal/bytecode).
package ast

import "github.com/basiclang/qbvm/internal/lexer"

// Locus is re-exported for convenience so callers need not import
// internal/lexer just to read a node's position.
type Locus = lexer.Locus

// Node is the common interface for every AST node.
type Node interface {
	Pos() Locus
}

// base carries the locus every node needs; embed it to satisfy Node.
type base struct{ Locus Locus }

func (b base) Pos() Locus { return b.Locus }

// SetPos anchors the node; the GLR evaluator calls this on every node a
// semantic action returns, so actions never set positions themselves.
func (b *base) SetPos(l Locus) { b.Locus = l }

// Program is the root node: a flat list of top-level statements plus any
// SUB/FUNCTION bodies declared within it.
type Program struct {
	base
	Statements []Statement
}

// ---- Statements ----

// Statement is any executable statement node.
type Statement interface {
	Node
	stmtNode()
}

type stmtBase struct{ base }

func (stmtBase) stmtNode() {}

// LetStatement is an assignment, optionally with the legacy LET keyword:
// `[LET] lvalue = expr`.
type LetStatement struct {
	stmtBase
	Target Lvalue
	Value  Expression
}

// Lvalue is anything assignable: a bare variable, an array element, or a
// record field, all sharing surface syntax with function calls.
type Lvalue struct {
	Name    string
	Index   []Expression // non-nil for array element access
	Field   string       // non-empty for record field access
	Base    *Lvalue      // non-nil when chaining field-of-array etc.
	LocusAt Locus
}

// PrintStatement renders PRINT's comma/semicolon-separated item list and
// optional USING clause.
type PrintStatement struct {
	stmtBase
	UsingFormat Expression // nil unless USING was present
	Items       []PrintItem
}

// PrintItem is one operand of PRINT together with the separator that
// followed it (",", ";", or "" for the implicit newline-producing end).
// Tab is non-nil for a TAB(n) column-positioning item, in which case
// Expr is unused.
type PrintItem struct {
	Expr Expression
	Tab  Expression
	Sep  string
}

// InputStatement reads one value into a variable. The INPUT syscall
// blocks on the console's input channel; it does not suspend the VM.
type InputStatement struct {
	stmtBase
	Prompt  string // "" when no prompt literal was given
	Target  Lvalue
}

// ReadStatement pulls pooled DATA literals into one or more variables.
type ReadStatement struct {
	stmtBase
	Targets []Lvalue
}

// DataStatement is a literal pool entry list; nil slots denote `DATA ,,`.
type DataStatement struct {
	stmtBase
	Values []*Literal // nil entry = omitted value
}

// RestoreStatement repositions the DATA pointer, optionally to a label.
type RestoreStatement struct {
	stmtBase
	Label string // "" means restore to the start
}

// DimStatement declares one or more scalar or array variables.
type DimStatement struct {
	stmtBase
	Shared bool
	Decls  []VarDecl
}

// VarDecl is one DIM entry: a name, optional dimension bounds (array),
// and optional explicit type name (AS clause or record type).
type VarDecl struct {
	Name string
	Dims []DimBound // empty = scalar
	Type string     // explicit AS type or record type name, "" if sigil-derived
}

// DimBound is one array dimension's (lower, upper) bound expressions.
// Lower is nil when only an upper bound was given (defaults via OPTION BASE).
type DimBound struct {
	Lower Expression
	Upper Expression
}

// TypeStatement declares a user-defined record type.
type TypeStatement struct {
	stmtBase
	Name   string
	Fields []FieldDecl
}

// FieldDecl is one TYPE ... END TYPE field.
type FieldDecl struct {
	Name string
	Type string
}

// IfStatement models both single-line and block IF/THEN/ELSEIF/ELSE,
// unified into one node: Then/Else hold statement lists (a single-line
// IF's Then is a one-statement list).
type IfStatement struct {
	stmtBase
	Cond     Expression
	Then     []Statement
	ElseIfs  []ElseIf
	Else     []Statement
}

// ElseIf is one ELSEIF branch of a block IF.
type ElseIf struct {
	Cond Expression
	Body []Statement
}

// ForStatement is FOR var = start TO end [STEP step] ... NEXT [var].
type ForStatement struct {
	stmtBase
	Var   string
	Start Expression
	End   Expression
	Step  Expression // nil defaults to literal 1
	Body  []Statement
}

// WhileStatement is WHILE cond ... WEND.
type WhileStatement struct {
	stmtBase
	Cond Expression
	Body []Statement
}

// DoLoopKind selects which of the four DO/LOOP shapes a DoStatement is.
type DoLoopKind int

const (
	DoLoopPlain    DoLoopKind = iota // DO ... LOOP (no test)
	DoWhilePreTest                   // DO WHILE cond ... LOOP
	DoUntilPreTest                   // DO UNTIL cond ... LOOP
	DoWhilePost                      // DO ... LOOP WHILE cond
	DoUntilPost                      // DO ... LOOP UNTIL cond
)

// DoStatement models every DO/LOOP pre-/post-test combination.
type DoStatement struct {
	stmtBase
	Kind DoLoopKind
	Cond Expression // nil for DoLoopPlain
	Body []Statement
}

// GotoStatement is an unconditional jump to a line label.
type GotoStatement struct {
	stmtBase
	Label string
}

// GosubStatement calls a label, sharing the caller's variable scope.
type GosubStatement struct {
	stmtBase
	Label string
}

// ReturnStatement returns from the nearest enclosing GOSUB.
type ReturnStatement struct {
	stmtBase
}

// LabelStatement marks a line label target for GOTO/GOSUB/RESTORE.
type LabelStatement struct {
	stmtBase
	Name string
}

// CallStatement invokes a SUB (or syscall subroutine) for effect only.
type CallStatement struct {
	stmtBase
	Name string
	Args []Expression
}

// SubDecl is a SUB name(params) ... END SUB declaration; CALLing it
// creates a fresh variable scope.
type SubDecl struct {
	stmtBase
	Name   string
	Params []Parameter
	Body   []Statement
}

// FunctionDecl is a FUNCTION name(params) ... END FUNCTION declaration;
// the function's return value is the final value assigned to a
// same-named pseudo-variable.
type FunctionDecl struct {
	stmtBase
	Name   string
	Params []Parameter
	Body   []Statement
}

// Parameter is one SUB/FUNCTION parameter; BASIC passes by reference.
type Parameter struct {
	Name string
	Type string
}

// DeclareStatement is a forward DECLARE SUB/FUNCTION signature; it
// contributes to the declarations table but emits no code.
type DeclareStatement struct {
	stmtBase
	IsFunction bool
	Name       string
	Params     []Parameter
}

// OptionBaseStatement sets the array lower-bound default (0 or 1).
type OptionBaseStatement struct {
	stmtBase
	Base int
}

// DefTypeStatement is a DEFINT/DEFLNG/DEFSNG/DEFDBL/DEFSTR declaration,
// overriding the program's default type for undeclared identifiers.
type DefTypeStatement struct {
	stmtBase
	Type   string // INTEGER/LONG/SINGLE/DOUBLE/STRING
	Ranges []LetterRange
}

// LetterRange is one A-Z or single-letter range in a DEF* statement.
type LetterRange struct {
	From, To byte
}

// EndStatement halts program execution.
type EndStatement struct {
	stmtBase
}

// OpenStatement opens a disk file on a numbered channel.
type OpenStatement struct {
	stmtBase
	Path    Expression
	Mode    string // OUTPUT, APPEND, or INPUT
	FileNum Expression
}

// CloseStatement closes one file channel, or every open channel when
// FileNum is nil (bare CLOSE).
type CloseStatement struct {
	stmtBase
	FileNum Expression // nil means close every open channel
}

// WriteFileStatement is WRITE #n, expr[, expr...]: each value is
// written to the channel as a comma-separated, quoted-string record.
type WriteFileStatement struct {
	stmtBase
	FileNum Expression
	Values  []Expression
}

// InputFileStatement is INPUT #n, lvalue[, lvalue...]: each target is
// filled from the next comma-separated field of the channel in turn.
type InputFileStatement struct {
	stmtBase
	FileNum Expression
	Targets []Lvalue
}

// ExprStatement wraps a bare syscall-subroutine call used as a
// statement (CLS, BEEP, SLEEP 1, ...).
type ExprStatement struct {
	stmtBase
	Call *CallExpr
}

// ---- Expressions ----

// Expression is any value-producing node.
type Expression interface {
	Node
	exprNode()
}

type exprBase struct{ base }

func (exprBase) exprNode() {}

// Literal is a numeric or string constant.
type Literal struct {
	exprBase
	Kind  string // "INT", "FLOAT", "STRING"
	Text  string
	Ival  int64
	Fval  float64
	Sval  string
}

// Identifier is a bare variable reference (sigil still attached to Name).
type Identifier struct {
	exprBase
	Name string
}

// IndexExpr is array/function-call syntax: name(args...), syntactically
// identical in this dialect; the code generator disambiguates by
// declaration table lookup.
type IndexExpr struct {
	exprBase
	Name string
	Args []Expression
}

// FieldExpr is record.field access.
type FieldExpr struct {
	exprBase
	Target Expression
	Field  string
}

// UnaryExpr is a prefix operator: NOT, unary -.
type UnaryExpr struct {
	exprBase
	Op      string
	Operand Expression
}

// BinaryExpr is an infix operator at BASIC precedence:
// unary -, ^ , * / MOD, + -, relational, NOT, AND, OR.
type BinaryExpr struct {
	exprBase
	Op    string
	Left  Expression
	Right Expression
}

// CallExpr is a syscall or user FUNCTION invocation used as an
// expression.
type CallExpr struct {
	exprBase
	Name string
	Args []Expression
}
