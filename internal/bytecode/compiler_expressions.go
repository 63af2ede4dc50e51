package bytecode

import (
	"strings"

	"github.com/basiclang/qbvm/internal/ast"
	"github.com/basiclang/qbvm/internal/types"
)

// compileExpr lowers an expression node, leaving its value (never a
// CellRef) on top of the operand stack.
func (c *Compiler) compileExpr(e ast.Expression) {
	switch n := e.(type) {
	case *ast.Literal:
		c.emit("pushconst", literalValue(n), n.Pos())

	case *ast.Identifier:
		upper := strings.ToUpper(n.Name)
		if entry, ok := LookupSyscall(upper); ok && entry.IsFunction {
			// A zero-arg intrinsic called without parens, e.g. bare RND,
			// TIMER, INKEY$. The grammar can't distinguish this from a
			// variable reference syntactically, so the syscall registry
			// is consulted first.
			c.compileSyscallArgs(entry, nil, n.Pos())
			c.emit("syscall", upper, n.Pos())
			return
		}
		c.emit("pushvalue", upper, n.Pos())

	case *ast.IndexExpr:
		c.compileCallOrIndex(n.Name, n.Args, n.Pos())

	case *ast.FieldExpr:
		c.compileTargetRef(n.Target)
		c.emit("member_value", n.Field, n.Pos())

	case *ast.UnaryExpr:
		c.compileExpr(n.Operand)
		switch n.Op {
		case "-":
			c.emit("neg", nil, n.Pos())
		case "NOT":
			c.emit("NOT", nil, n.Pos())
		default:
			c.errorf(n.Pos(), "unknown unary operator %q", n.Op)
		}

	case *ast.BinaryExpr:
		c.compileExpr(n.Left)
		c.compileExpr(n.Right)
		c.emit(n.Op, nil, n.Pos())

	case *ast.CallExpr:
		c.compileCallOrIndex(n.Name, n.Args, n.Pos())

	default:
		c.errorf(e.Pos(), "internal: unhandled expression %T", e)
	}
}

// literalValue converts a parsed Literal node into the runtime Value
// it denotes: an integer literal is INTEGER unless it overflows into
// LONG; the lexer/grammar have already classified the literal's Kind.
func literalValue(lit *ast.Literal) types.Value {
	switch lit.Kind {
	case "STRING":
		return types.Value{Type: types.StringType, S: lit.Sval}
	case "FLOAT":
		return types.Value{Type: types.DoubleType, F: lit.Fval}
	default: // "INT"
		t := types.IntegerType
		if lit.Ival > 32767 || lit.Ival < -32768 {
			t = types.LongType
		}
		return types.Value{Type: t, I: lit.Ival}
	}
}

// compileCallOrIndex disambiguates name(args), since array indexing
// and function/subroutine calls share one syntax: it consults the
// declaration tables built while compiling DECLARE/
// FUNCTION/SUB statements, then the syscall registry, falling back to
// array element access.
func (c *Compiler) compileCallOrIndex(name string, args []ast.Expression, loc Locus) {
	upper := strings.ToUpper(name)
	switch {
	case c.declaredFuncs[upper]:
		// The callee's epilogue (compileProc) pushes the result variable
		// before RET, so the value is already on top when control
		// returns here.
		for _, a := range args {
			c.compileRefArg(a)
		}
		c.emitBranch("CALL", "$PROC_"+upper, loc)

	default:
		if entry, ok := LookupSyscall(upper); ok {
			c.compileSyscallArgs(entry, args, loc)
			c.emit("syscall", upper, loc)
			if !entry.IsFunction {
				c.errorf(loc, "%s is a subroutine, not a function", upper)
			}
			return
		}
		// array element read: indices; pushref name; array_deref(false)
		for _, a := range args {
			c.compileExpr(a)
		}
		c.emit("pushref", upper, loc)
		c.emit("array_deref", false, loc)
	}
}

// compileSyscallArgs lowers a syscall's argument list, checking the
// call against the registry entry's declared arg-type list (nil slots
// are the ANY wildcard; mismatches are compile errors at the call's
// locus) and pushing a trailing count constant after the arguments
// when the routine is Variadic, so the actual count sits on top of the
// operand stack for the dispatcher to pop first.
func (c *Compiler) compileSyscallArgs(entry *SyscallEntry, args []ast.Expression, loc Locus) {
	if entry.Variadic {
		if len(args) < entry.MinArgs {
			c.errorf(loc, "too few arguments (want at least %d, got %d)", entry.MinArgs, len(args))
		}
	} else if len(args) != len(entry.ArgTypes) {
		c.errorf(loc, "wrong number of arguments (want %d, got %d)", len(entry.ArgTypes), len(args))
	}
	for i, a := range args {
		if i < len(entry.ArgTypes) {
			if want := entry.ArgTypes[i]; want != nil {
				if got := staticArgType(a); got != nil && got.IsNumeric() != want.IsNumeric() {
					c.errorf(loc, "argument %d type mismatch (want %s, got %s)", i+1, want.Name, got.Name)
				}
			}
			if isRefTakingPosition(entry, i) {
				c.compileRefArg(a)
				continue
			}
		}
		c.compileExpr(a)
	}
	if entry.Variadic {
		c.emit("pushconst", types.Value{Type: types.IntegerType, I: int64(len(args))}, loc)
	}
}

// staticArgType returns an argument's compile-time-known type: a
// literal's own type, or the sigil-derived type of an identifier or
// name(...) access. Returns nil when the type is only known at runtime
// (bare identifiers, field access, arithmetic results), in which case
// the argument is accepted as-is.
func staticArgType(e ast.Expression) *types.Type {
	switch n := e.(type) {
	case *ast.Literal:
		return literalValue(n).Type
	case *ast.Identifier:
		return types.SigilType(n.Name)
	case *ast.IndexExpr:
		return types.SigilType(n.Name)
	}
	return nil
}

// isRefTakingPosition reports whether a syscall expects a reference
// (not a value) at argument position i; ref-taking routines (READ,
// SWAP, INPUT) list those positions in the registry entry's RefArgs.
// Absent that, args are by value.
func isRefTakingPosition(entry *SyscallEntry, i int) bool {
	if entry.RefArgs == nil {
		return false
	}
	for _, idx := range entry.RefArgs {
		if idx == i {
			return true
		}
	}
	return false
}

// compileRefArg lowers an argument expression that must be passed by
// reference, i.e. as an lvalue producing a CellRef rather than a bare
// value.
func (c *Compiler) compileRefArg(e ast.Expression) {
	switch n := e.(type) {
	case *ast.Identifier:
		c.emit("pushref", strings.ToUpper(n.Name), n.Pos())
	case *ast.IndexExpr:
		for _, a := range n.Args {
			c.compileExpr(a)
		}
		c.emit("pushref", strings.ToUpper(n.Name), n.Pos())
		c.emit("array_deref", true, n.Pos())
	case *ast.FieldExpr:
		c.compileTargetRef(n.Target)
		c.emit("member_deref", n.Field, n.Pos())
	default:
		// Not an lvalue (a literal or computed expression): BASIC still
		// allows this, passing a throwaway value with no aliasing target.
		c.compileExpr(e)
	}
}

// compileTargetRef lowers an expression used as the base of a field
// access (rec.field, arr(i).field, rec.inner.field) into a CellRef.
func (c *Compiler) compileTargetRef(e ast.Expression) {
	switch n := e.(type) {
	case *ast.Identifier:
		c.emit("pushref", strings.ToUpper(n.Name), n.Pos())
	case *ast.IndexExpr:
		for _, a := range n.Args {
			c.compileExpr(a)
		}
		c.emit("pushref", strings.ToUpper(n.Name), n.Pos())
		c.emit("array_deref", true, n.Pos())
	case *ast.FieldExpr:
		c.compileTargetRef(n.Target)
		c.emit("member_deref", n.Field, n.Pos())
	default:
		c.errorf(e.Pos(), "invalid field access target")
	}
}

// compileLvalueRef lowers an Lvalue (assignment target) into a CellRef
// left on top of the stack.
func (c *Compiler) compileLvalueRef(lv ast.Lvalue) {
	for _, a := range lv.Index {
		c.compileExpr(a)
	}
	if lv.Base != nil {
		c.compileLvalueRef(*lv.Base)
	} else {
		c.emit("pushref", strings.ToUpper(lv.Name), lv.LocusAt)
	}
	if lv.Index != nil {
		c.emit("array_deref", true, lv.LocusAt)
	}
	if lv.Field != "" {
		c.emit("member_deref", lv.Field, lv.LocusAt)
	}
}
