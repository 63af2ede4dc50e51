package bytecode

import (
	"strings"

	"github.com/basiclang/qbvm/internal/ast"
	qerrors "github.com/basiclang/qbvm/internal/errors"
	"github.com/basiclang/qbvm/internal/types"
)

type procDecl struct {
	name       string
	params     []ast.Parameter
	body       []ast.Statement
	isFunction bool
	loc        Locus
}

// Compile is the package's public entry point: it lowers prog into a
// runnable CompiledProgram, or returns the diagnostics collected along
// the way; no program is produced when the error list is non-empty.
func Compile(prog *ast.Program, source string) (*CompiledProgram, []*qerrors.CompilerError) {
	c := NewCompiler(source)
	c.deferredProcs = nil

	c.prescan(prog.Statements)
	c.compileStatements(prog.Statements)
	c.emit("halt", nil, prog.Pos())

	for _, p := range c.deferredProcs {
		c.compileProc(p)
	}

	c.fixup()
	c.resolveDataFixups()

	if len(c.Errors) > 0 {
		return nil, c.Errors
	}
	return c.prog, nil
}

// prescan registers TYPE declarations, forward DECLAREs, and SUB/
// FUNCTION signatures before any code is emitted, so a call appearing
// textually before its declaration still resolves; BASIC programs may
// reference a SUB/FUNCTION declared later in the file.
func (c *Compiler) prescan(stmts []ast.Statement) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.TypeStatement:
			c.compileTypeDecl(n)
		case *ast.DeclareStatement:
			if n.IsFunction {
				c.declaredFuncs[strings.ToUpper(n.Name)] = true
			} else {
				c.declaredSubs[strings.ToUpper(n.Name)] = true
			}
		case *ast.SubDecl:
			c.declaredSubs[strings.ToUpper(n.Name)] = true
		case *ast.FunctionDecl:
			c.declaredFuncs[strings.ToUpper(n.Name)] = true
		}
	}
}

func (c *Compiler) compileTypeDecl(n *ast.TypeStatement) {
	fields := make([]types.Field, len(n.Fields))
	for i, fd := range n.Fields {
		t := c.resolveTypeName(fd.Type)
		if t == nil {
			c.errorf(n.Pos(), "unknown type %q for field %s", fd.Type, fd.Name)
			t = c.prog.DefaultType
		}
		fields[i] = types.Field{Name: strings.ToUpper(fd.Name), Type: t}
	}
	c.prog.Types[strings.ToUpper(n.Name)] = types.NewRecordType(strings.ToUpper(n.Name), fields)
}

// resolveTypeName looks up a scalar keyword first, then a previously
// declared record type.
func (c *Compiler) resolveTypeName(name string) *types.Type {
	if t := types.LookupScalar(name); t != nil {
		return t
	}
	return c.prog.Types[strings.ToUpper(name)]
}

func (c *Compiler) compileStatements(stmts []ast.Statement) {
	for _, s := range stmts {
		c.compileStatement(s)
	}
}

func (c *Compiler) compileStatement(s ast.Statement) {
	switch n := s.(type) {
	case *ast.LetStatement:
		c.compileExpr(n.Value)
		c.compileLvalueRef(n.Target)
		c.emit("assign", nil, n.Pos())

	case *ast.PrintStatement:
		c.compilePrint(n)

	case *ast.InputStatement:
		prompt := types.Value{Type: types.StringType, S: n.Prompt}
		c.emit("pushconst", prompt, n.Pos())
		c.compileLvalueRef(n.Target)
		c.emit("syscall", "INPUT", n.Pos())

	case *ast.ReadStatement:
		for _, t := range n.Targets {
			c.compileLvalueRef(t)
			c.emit("syscall", "READ", n.Pos())
		}

	case *ast.DataStatement:
		c.compileData(n)

	case *ast.RestoreStatement:
		c.emitDataBranch(n.Label, n.Pos())

	case *ast.DimStatement:
		c.compileDim(n)

	case *ast.TypeStatement:
		// already registered in prescan; nothing to emit.

	case *ast.IfStatement:
		c.compileIf(n)

	case *ast.ForStatement:
		c.compileFor(n)

	case *ast.WhileStatement:
		c.compileWhile(n)

	case *ast.DoStatement:
		c.compileDo(n)

	case *ast.GotoStatement:
		c.emitBranch("JMP", strings.ToUpper(n.Label), n.Pos())

	case *ast.GosubStatement:
		c.emitBranch("GOSUB", strings.ToUpper(n.Label), n.Pos())

	case *ast.ReturnStatement:
		c.emit("RET", nil, n.Pos())

	case *ast.LabelStatement:
		label := strings.ToUpper(n.Name)
		c.placeLabel(label)
		c.dataStart[label] = len(c.prog.Data)

	case *ast.CallStatement:
		c.compileCallStatement(strings.ToUpper(n.Name), n.Args, n.Pos())

	case *ast.SubDecl:
		c.deferredProcs = append(c.deferredProcs, procDecl{
			name: strings.ToUpper(n.Name), params: n.Params, body: n.Body, loc: n.Pos(),
		})

	case *ast.FunctionDecl:
		c.deferredProcs = append(c.deferredProcs, procDecl{
			name: strings.ToUpper(n.Name), params: n.Params, body: n.Body, isFunction: true, loc: n.Pos(),
		})

	case *ast.DeclareStatement:
		// registered in prescan; no code.

	case *ast.OptionBaseStatement:
		c.optionBase = n.Base

	case *ast.DefTypeStatement:
		// Simplification (see DESIGN.md): applies program-wide rather
		// than per letter-range, since the runtime resolves a single
		// DefaultType slot for sigil-less identifiers.
		if t := types.LookupScalar(n.Type); t != nil {
			c.prog.DefaultType = t
		}

	case *ast.EndStatement:
		c.emit("halt", nil, n.Pos())

	case *ast.OpenStatement:
		c.compileExpr(n.Path)
		c.emit("pushconst", types.Value{Type: types.StringType, S: n.Mode}, n.Pos())
		c.compileExpr(n.FileNum)
		c.emit("syscall", "OPEN", n.Pos())

	case *ast.CloseStatement:
		count := int64(0)
		if n.FileNum != nil {
			c.compileExpr(n.FileNum)
			count = 1
		}
		c.emit("pushconst", types.Value{Type: types.IntegerType, I: count}, n.Pos())
		c.emit("syscall", "CLOSE", n.Pos())

	case *ast.WriteFileStatement:
		c.compileExpr(n.FileNum)
		for _, v := range n.Values {
			c.compileExpr(v)
		}
		c.emit("pushconst", types.Value{Type: types.IntegerType, I: int64(1 + len(n.Values))}, n.Pos())
		c.emit("syscall", "WRITE#", n.Pos())

	case *ast.InputFileStatement:
		// Mirrors ReadStatement: one syscall per target, re-pushing the
		// file number each time rather than threading a variable-length
		// ref list through a single variadic call.
		for _, t := range n.Targets {
			c.compileExpr(n.FileNum)
			c.compileLvalueRef(t)
			c.emit("syscall", "INPUT#", n.Pos())
		}

	case *ast.ExprStatement:
		c.compileCallStatement(strings.ToUpper(n.Call.Name), n.Call.Args, n.Pos())

	default:
		c.errorf(s.Pos(), "internal: unhandled statement %T", s)
	}
}

func (c *Compiler) compileCallStatement(name string, args []ast.Expression, loc Locus) {
	switch {
	case c.declaredSubs[name] || c.declaredFuncs[name]:
		for _, a := range args {
			c.compileRefArg(a)
		}
		c.emitBranch("CALL", "$PROC_"+name, loc)
		if c.declaredFuncs[name] {
			c.emit("pop", nil, loc) // discard the function's return value
		}
	default:
		entry, ok := LookupSyscall(name)
		if !ok {
			c.errorf(loc, "unknown procedure %q", name)
			return
		}
		c.compileSyscallArgs(entry, args, loc)
		c.emit("syscall", name, loc)
		if entry.IsFunction {
			c.emit("pop", nil, loc)
		}
	}
}

func (c *Compiler) compileProc(p procDecl) {
	c.placeLabel("$PROC_" + p.name)
	for i := len(p.params) - 1; i >= 0; i-- {
		c.emit("popvar", strings.ToUpper(p.params[i].Name), p.loc)
	}
	c.compileStatements(p.body)
	if p.isFunction {
		c.emit("pushvalue", p.name, p.loc)
	}
	c.emit("RET", nil, p.loc)
}

// tabItemFlag is added to a PRINT item pair's sepcode to mark that the
// pair's value is a TAB(n) column target rather than printable
// content, the same way sepComma/sepSemicolon fold the comma tab-stop
// into the ordinary PRINT pair encoding rather than a separate syscall
// (internal/syscall/io.go's renderPrintItems).
const tabItemFlag = 10

func (c *Compiler) compilePrint(n *ast.PrintStatement) {
	loc := n.Pos()
	extra := 0
	if n.UsingFormat != nil {
		c.compileExpr(n.UsingFormat)
		extra = 1
	}
	for _, item := range n.Items {
		flag := 0
		switch {
		case item.Tab != nil:
			c.compileExpr(item.Tab)
			flag = tabItemFlag
		case item.Expr != nil:
			c.compileExpr(item.Expr)
		default:
			c.emit("pushconst", types.Value{Type: types.StringType}, loc)
		}
		c.emit("pushconst", types.Value{Type: types.IntegerType, I: int64(flag + sepCode(item.Sep))}, loc)
	}
	c.emit("pushconst", types.Value{Type: types.IntegerType, I: int64(extra + 2*len(n.Items))}, loc)
	if n.UsingFormat != nil {
		c.emit("syscall", "PRINT_USING", loc)
		return
	}
	c.emit("syscall", "PRINT", loc)
}

func sepCode(sep string) int {
	switch sep {
	case ",":
		return 1
	case ";":
		return 2
	default:
		return 0
	}
}

func (c *Compiler) compileData(n *ast.DataStatement) {
	values := make([]*types.Value, len(n.Values))
	for i, lit := range n.Values {
		if lit == nil {
			continue
		}
		v := literalValue(lit)
		values[i] = &v
	}
	c.poolData(values)
}

type dataFixup struct {
	instrIndex int
	label      string
}

func (c *Compiler) emitDataBranch(label string, loc Locus) {
	idx := c.emit("restore", nil, loc)
	c.dataPending = append(c.dataPending, dataFixup{instrIndex: idx, label: strings.ToUpper(label)})
}

func (c *Compiler) resolveDataFixups() {
	for _, f := range c.dataPending {
		addr, ok := c.dataStart[f.label]
		if f.label == "" {
			addr, ok = 0, true
		}
		if !ok {
			c.errorf(c.prog.Instructions[f.instrIndex].Locus, "undefined RESTORE label %q", f.label)
			continue
		}
		c.prog.Instructions[f.instrIndex].Arg = addr
	}
}

func (c *Compiler) compileDim(n *ast.DimStatement) {
	for _, decl := range n.Decls {
		name := strings.ToUpper(decl.Name)
		if n.Shared {
			c.prog.Shared[name] = true
		}
		if len(decl.Dims) == 0 {
			c.compileScalarDecl(name, decl, n.Pos())
			continue
		}
		for _, d := range decl.Dims {
			c.compileDimBound(d, n.Pos())
		}
		c.emit("pushconst", types.Value{Type: types.IntegerType, I: int64(len(decl.Dims))}, n.Pos())
		var elemType *types.Type
		if decl.Type != "" {
			elemType = c.resolveTypeName(decl.Type)
			if elemType == nil {
				c.errorf(n.Pos(), "unknown type %q", decl.Type)
			}
		}
		c.emit("alloc_array", arrayAlloc{Name: name, ElemType: elemType}, n.Pos())
	}
}

// compileDimBound pushes (lower, upper) for one dimension, defaulting
// the lower bound to the program's OPTION BASE value when the
// declaration omitted it.
func (c *Compiler) compileDimBound(d ast.DimBound, loc Locus) {
	if d.Lower != nil {
		c.compileExpr(d.Lower)
	} else {
		c.emit("pushconst", types.Value{Type: types.IntegerType, I: int64(c.optionBase)}, loc)
	}
	c.compileExpr(d.Upper)
}

func (c *Compiler) compileScalarDecl(name string, decl ast.VarDecl, loc Locus) {
	if decl.Type == "" {
		return // sigil-derived type; resolveVariable allocates lazily on first use
	}
	t := c.resolveTypeName(decl.Type)
	if t == nil {
		c.errorf(loc, "unknown type %q", decl.Type)
		return
	}
	c.emit("alloc_scalar", scalarAlloc{Name: name, Type: t}, loc)
}

func (c *Compiler) compileIf(n *ast.IfStatement) {
	loc := n.Pos()
	end := c.newLabel()

	c.compileExpr(n.Cond)
	nextLabel := c.newLabel()
	c.emitBranch("BZ", nextLabel, loc)
	c.compileStatements(n.Then)
	c.emitBranch("JMP", end, loc)
	c.placeLabel(nextLabel)

	for _, ei := range n.ElseIfs {
		c.compileExpr(ei.Cond)
		next := c.newLabel()
		c.emitBranch("BZ", next, loc)
		c.compileStatements(ei.Body)
		c.emitBranch("JMP", end, loc)
		c.placeLabel(next)
	}

	c.compileStatements(n.Else)
	c.placeLabel(end)
}

func (c *Compiler) compileFor(n *ast.ForStatement) {
	loc := n.Pos()
	name := strings.ToUpper(n.Var)

	c.compileExpr(n.Start)
	c.emit("popvar", name, loc)

	// Stack carries (end, step) for the life of the loop, step on top,
	// so forloop's peek(0)/peek(1) (vm_control.go) reads them without
	// disturbing the counter, which lives in the named variable.
	c.compileExpr(n.End)
	if n.Step != nil {
		c.compileExpr(n.Step)
	} else {
		c.emit("pushconst", types.Value{Type: types.IntegerType, I: 1}, loc)
	}

	top := c.newLabel()
	end := c.newLabel()
	c.placeLabel(top)
	c.emit("pushvalue", name, loc)
	c.emitBranch("forloop", end, loc)

	c.compileStatements(n.Body)

	// advance: var = var + step, without consuming the parked (end,
	// step) pair: dup leaves step on the stack for the next peek.
	c.emit("dup", nil, loc)
	c.emit("pushvalue", name, loc)
	c.emit("+", nil, loc)
	c.emit("popvar", name, loc)
	c.emitBranch("JMP", top, loc)
	c.placeLabel(end)
}

func (c *Compiler) compileWhile(n *ast.WhileStatement) {
	loc := n.Pos()
	top := c.newLabel()
	end := c.newLabel()
	c.placeLabel(top)
	c.compileExpr(n.Cond)
	c.emitBranch("BZ", end, loc)
	c.compileStatements(n.Body)
	c.emitBranch("JMP", top, loc)
	c.placeLabel(end)
}

func (c *Compiler) compileDo(n *ast.DoStatement) {
	loc := n.Pos()
	top := c.newLabel()
	end := c.newLabel()
	c.placeLabel(top)

	switch n.Kind {
	case ast.DoWhilePreTest:
		c.compileExpr(n.Cond)
		c.emitBranch("BZ", end, loc)
	case ast.DoUntilPreTest:
		c.compileExpr(n.Cond)
		c.emitBranch("BNZ", end, loc)
	}

	c.compileStatements(n.Body)

	switch n.Kind {
	case ast.DoLoopPlain, ast.DoWhilePreTest, ast.DoUntilPreTest:
		c.emitBranch("JMP", top, loc)
	case ast.DoWhilePost:
		c.compileExpr(n.Cond)
		c.emitBranch("BNZ", top, loc)
	case ast.DoUntilPost:
		c.compileExpr(n.Cond)
		c.emitBranch("BZ", top, loc)
	}

	c.placeLabel(end)
}
