package bytecode_test

import (
	"sync"
	"testing"

	"github.com/basiclang/qbvm/internal/ast"
	"github.com/basiclang/qbvm/internal/bytecode"
	"github.com/basiclang/qbvm/internal/syscall"
	"github.com/stretchr/testify/require"
)

// installOnce guards syscall.Install, which panics on a duplicate
// registration; every test in this file shares one process-wide
// syscall table, matching how a real embedder installs it exactly once.
var installOnce sync.Once

// run compiles stmts as a program's top-level statements and executes
// it to completion, returning the VM and its console's recorded output.
func run(t *testing.T, stmts []ast.Statement) (*bytecode.VM, *syscall.MemoryConsole) {
	t.Helper()
	installOnce.Do(syscall.Install)

	prog, errs := bytecode.Compile(&ast.Program{Statements: stmts}, "")
	require.Empty(t, errs, "unexpected compile errors")
	require.NotNil(t, prog)

	console := syscall.NewMemoryConsole()
	vm := bytecode.NewVM(prog, console, syscall.NewMemoryAudio())
	err := vm.Run()
	require.NoError(t, err)
	return vm, console
}

func ident(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func intLit(n int64) *ast.Literal { return &ast.Literal{Kind: "INT", Ival: n} }

func strLit(s string) *ast.Literal { return &ast.Literal{Kind: "STRING", Sval: s} }

func letStmt(name string, value ast.Expression) *ast.LetStatement {
	return &ast.LetStatement{Target: ast.Lvalue{Name: name}, Value: value}
}

func printStmt(items ...ast.Expression) *ast.PrintStatement {
	ps := &ast.PrintStatement{}
	for _, it := range items {
		ps.Items = append(ps.Items, ast.PrintItem{Expr: it})
	}
	return ps
}

func TestCompileLetAndPrint(t *testing.T) {
	stmts := []ast.Statement{
		letStmt("X", &ast.BinaryExpr{Op: "+", Left: intLit(2), Right: intLit(3)}),
		printStmt(ident("X")),
	}
	_, console := run(t, stmts)
	require.Equal(t, " 5 \n", console.Output.String())
}

func TestCompileForLoopSum(t *testing.T) {
	stmts := []ast.Statement{
		letStmt("SUM", intLit(0)),
		&ast.ForStatement{
			Var:   "I",
			Start: intLit(1),
			End:   intLit(5),
			Body: []ast.Statement{
				letStmt("SUM", &ast.BinaryExpr{Op: "+", Left: ident("SUM"), Right: ident("I")}),
			},
		},
		printStmt(ident("SUM")),
	}
	_, console := run(t, stmts)
	require.Equal(t, " 15 \n", console.Output.String())
}

func TestCompileIfElse(t *testing.T) {
	stmts := []ast.Statement{
		&ast.IfStatement{
			Cond: &ast.BinaryExpr{Op: "=", Left: intLit(1), Right: intLit(0)},
			Then: []ast.Statement{printStmt(strLit("A"))},
			Else: []ast.Statement{printStmt(strLit("B"))},
		},
	}
	_, console := run(t, stmts)
	require.Equal(t, "B\n", console.Output.String())
}

func TestCompileSubByRefMutatesCaller(t *testing.T) {
	stmts := []ast.Statement{
		&ast.SubDecl{
			Name:   "INCR",
			Params: []ast.Parameter{{Name: "N"}},
			Body: []ast.Statement{
				letStmt("N", &ast.BinaryExpr{Op: "+", Left: ident("N"), Right: intLit(1)}),
			},
		},
		letStmt("X", intLit(10)),
		&ast.CallStatement{Name: "INCR", Args: []ast.Expression{ident("X")}},
		printStmt(ident("X")),
	}
	_, console := run(t, stmts)
	require.Equal(t, " 11 \n", console.Output.String())
}

func TestCompileFunctionReturnValue(t *testing.T) {
	stmts := []ast.Statement{
		&ast.FunctionDecl{
			Name:   "DOUBLE",
			Params: []ast.Parameter{{Name: "N"}},
			Body: []ast.Statement{
				letStmt("DOUBLE", &ast.BinaryExpr{Op: "*", Left: ident("N"), Right: intLit(2)}),
			},
		},
		letStmt("Y", &ast.CallExpr{Name: "DOUBLE", Args: []ast.Expression{intLit(21)}}),
		printStmt(ident("Y")),
	}
	_, console := run(t, stmts)
	require.Equal(t, " 42 \n", console.Output.String())
}

func TestCompileDataReadRestore(t *testing.T) {
	stmts := []ast.Statement{
		&ast.DataStatement{Values: []*ast.Literal{intLit(7), intLit(8)}},
		&ast.ReadStatement{Targets: []ast.Lvalue{{Name: "A"}}},
		&ast.ReadStatement{Targets: []ast.Lvalue{{Name: "B"}}},
		printStmt(ident("A")),
		printStmt(ident("B")),
		&ast.RestoreStatement{},
		&ast.ReadStatement{Targets: []ast.Lvalue{{Name: "C"}}},
		printStmt(ident("C")),
	}
	_, console := run(t, stmts)
	require.Equal(t, " 7 \n 8 \n 7 \n", console.Output.String())
}

func TestCompileArrayElement(t *testing.T) {
	stmts := []ast.Statement{
		&ast.DimStatement{Decls: []ast.VarDecl{
			{Name: "ARR", Dims: []ast.DimBound{{Upper: intLit(5)}}, Type: "INTEGER"},
		}},
		&ast.LetStatement{
			Target: ast.Lvalue{Name: "ARR", Index: []ast.Expression{intLit(3)}},
			Value:  intLit(9),
		},
		printStmt(&ast.IndexExpr{Name: "ARR", Args: []ast.Expression{intLit(3)}}),
	}
	_, console := run(t, stmts)
	require.Equal(t, " 9 \n", console.Output.String())
}

func TestRuntimeDivisionByZero(t *testing.T) {
	installOnce.Do(syscall.Install)
	stmts := []ast.Statement{
		letStmt("Z", &ast.BinaryExpr{Op: "/", Left: intLit(1), Right: intLit(0)}),
	}
	prog, errs := bytecode.Compile(&ast.Program{Statements: stmts}, "")
	require.Empty(t, errs)

	vm := bytecode.NewVM(prog, syscall.NewMemoryConsole(), syscall.NewMemoryAudio())
	err := vm.Run()
	require.Error(t, err)
	rerr, ok := err.(*bytecode.RuntimeError)
	require.True(t, ok)
	require.Equal(t, bytecode.ErrDivisionByZero, rerr.Code)
}

func TestCompileUndefinedLabelIsCompileError(t *testing.T) {
	stmts := []ast.Statement{
		&ast.GotoStatement{Label: "NOWHERE"},
	}
	prog, errs := bytecode.Compile(&ast.Program{Statements: stmts}, "")
	require.Nil(t, prog)
	require.NotEmpty(t, errs)
}
