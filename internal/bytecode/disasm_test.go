package bytecode_test

import (
	"sync"
	"testing"

	"github.com/basiclang/qbvm/internal/ast"
	"github.com/basiclang/qbvm/internal/bytecode"
	"github.com/basiclang/qbvm/internal/syscall"
	"github.com/gkampitakis/go-snaps/snaps"
)

var disasmInstallOnce sync.Once

// TestDisassembleFixtures snapshots the disassembly of a handful of
// small hand-built programs, one per BASIC control-flow shape.
func TestDisassembleFixtures(t *testing.T) {
	disasmInstallOnce.Do(syscall.Install)

	fixtures := []struct {
		name  string
		stmts []ast.Statement
	}{
		{
			name: "LetAndPrint",
			stmts: []ast.Statement{
				letStmt("X", &ast.BinaryExpr{Op: "+", Left: intLit(2), Right: intLit(3)}),
				printStmt(ident("X")),
			},
		},
		{
			name: "ForLoop",
			stmts: []ast.Statement{
				letStmt("SUM", intLit(0)),
				&ast.ForStatement{
					Var:   "I",
					Start: intLit(1),
					End:   intLit(5),
					Body: []ast.Statement{
						letStmt("SUM", &ast.BinaryExpr{Op: "+", Left: ident("SUM"), Right: ident("I")}),
					},
				},
			},
		},
		{
			name: "IfElse",
			stmts: []ast.Statement{
				&ast.IfStatement{
					Cond: &ast.BinaryExpr{Op: "=", Left: intLit(1), Right: intLit(0)},
					Then: []ast.Statement{printStmt(strLit("A"))},
					Else: []ast.Statement{printStmt(strLit("B"))},
				},
			},
		},
	}

	for _, f := range fixtures {
		t.Run(f.name, func(t *testing.T) {
			prog, errs := bytecode.Compile(&ast.Program{Statements: f.stmts}, "")
			if len(errs) > 0 {
				t.Fatalf("unexpected compile errors: %v", errs)
			}
			snaps.MatchSnapshot(t, f.name, bytecode.Disassemble(prog))
		})
	}
}
