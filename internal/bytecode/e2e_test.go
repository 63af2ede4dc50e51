package bytecode_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/basiclang/qbvm/internal/ast"
	"github.com/basiclang/qbvm/internal/bytecode"
	"github.com/basiclang/qbvm/internal/glr"
	"github.com/basiclang/qbvm/internal/grammar"
	"github.com/basiclang/qbvm/internal/lexer"
	"github.com/basiclang/qbvm/internal/syscall"
)

// parseSource runs source text through the lexer and the GLR engine,
// failing the test on any front-end diagnostic.
func parseSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := glr.New(grammar.BasicGrammar())
	result, ok := p.Parse(lexer.New(src))
	require.True(t, ok, "parse failed: %v", p.Errors)
	prog, ok := result.(*ast.Program)
	require.True(t, ok, "parser yielded %T, want *ast.Program", result)
	return prog
}

// runSource drives the whole pipeline: source -> tokens -> parse forest
// -> AST -> bytecode -> execution, returning the VM and the captured
// console output.
func runSource(t *testing.T, src string) (*bytecode.VM, *syscall.MemoryConsole) {
	t.Helper()
	installOnce.Do(syscall.Install)

	prog, errs := bytecode.Compile(parseSource(t, src), src)
	require.Empty(t, errs, "unexpected compile errors")

	console := syscall.NewMemoryConsole()
	vm := bytecode.NewVM(prog, console, syscall.NewMemoryAudio())
	require.NoError(t, vm.Run())
	return vm, console
}

func TestSourcePrintExpression(t *testing.T) {
	_, console := runSource(t, `PRINT 1 + 2`)
	require.Equal(t, " 3 \n", console.Output.String())
}

func TestSourceForLoopSingleLine(t *testing.T) {
	vm, console := runSource(t, `FOR I = 1 TO 3: PRINT I: NEXT I`)
	require.Equal(t, " 1 \n 2 \n 3 \n", console.Output.String())
	require.Zero(t, vm.StackDepth(), "operand stack must be empty at halt")
}

func TestSourceDivisionByZeroTraps(t *testing.T) {
	installOnce.Do(syscall.Install)
	prog, errs := bytecode.Compile(parseSource(t, `X = 10 / 0`), "")
	require.Empty(t, errs)

	vm := bytecode.NewVM(prog, syscall.NewMemoryConsole(), syscall.NewMemoryAudio())
	var event *bytecode.RuntimeError
	vm.OnError = func(e *bytecode.RuntimeError) { event = e }

	err := vm.Run()
	require.Error(t, err)
	rerr, ok := err.(*bytecode.RuntimeError)
	require.True(t, ok)
	require.Equal(t, bytecode.ErrDivisionByZero, rerr.Code)
	require.NotZero(t, rerr.Locus.Line, "runtime errors carry the faulting locus")
	require.Same(t, rerr, event, "the error event must fire with the trapped error")
	require.True(t, vm.Suspended, "a trapped error suspends the VM")
}

func TestSourceDimBoundsAndAssign(t *testing.T) {
	_, console := runSource(t, `DIM A(1 TO 3): A(2) = 42: PRINT A(2)`)
	require.Equal(t, " 42 \n", console.Output.String())
}

func TestSourceDataReadPrint(t *testing.T) {
	vm, console := runSource(t, "DATA 1,2,3\nREAD X, Y, Z\nPRINT X; Y; Z")
	require.Equal(t, " 1  2  3 \n", console.Output.String())
	require.Equal(t, 3, vm.DataPtr())
}

func TestSourceGosubReturn(t *testing.T) {
	src := `GOSUB HELLO
END
HELLO:
PRINT "HI"
RETURN`
	vm, console := runSource(t, src)
	require.Equal(t, "HI\n", console.Output.String())
	require.Equal(t, 1, vm.FrameDepth(), "GOSUB/RETURN must leave only the main frame")
	require.Zero(t, vm.StackDepth())
}

func TestSourceSubFreshFrameScopesVariables(t *testing.T) {
	src := `SUB S()
X = 5
END SUB
CALL S()
PRINT X`
	_, console := runSource(t, src)
	require.Equal(t, " 0 \n", console.Output.String(), "the SUB's X must not leak into the caller")
}

func TestSourceSharedVariableVisibleInSub(t *testing.T) {
	src := `DIM SHARED X
SUB S()
X = 5
END SUB
CALL S()
PRINT X`
	_, console := runSource(t, src)
	require.Equal(t, " 5 \n", console.Output.String())
}

func TestSourceSingleLineIfParsesThenElse(t *testing.T) {
	prog := parseSource(t, `IF A THEN B = 1 ELSE B = 2`)
	require.Len(t, prog.Statements, 1)
	ifs, ok := prog.Statements[0].(*ast.IfStatement)
	require.True(t, ok, "expected an IfStatement, got %T", prog.Statements[0])
	require.Len(t, ifs.Then, 1)
	require.Len(t, ifs.Else, 1)
	_, ok = ifs.Then[0].(*ast.LetStatement)
	require.True(t, ok, "THEN arm should hold an assignment")
	_, ok = ifs.Else[0].(*ast.LetStatement)
	require.True(t, ok, "ELSE arm should hold an assignment")
}

func TestSourceBooleanConvention(t *testing.T) {
	_, console := runSource(t, `PRINT (1 = 1); (1 = 2); NOT 0; NOT -1`)
	require.Equal(t, "-1  0 -1  0 \n", console.Output.String())
}

func TestSourceWhileWend(t *testing.T) {
	src := `I = 0
WHILE I < 3
I = I + 1
WEND
PRINT I`
	_, console := runSource(t, src)
	require.Equal(t, " 3 \n", console.Output.String())
}

func TestSourceDoLoopUntilPostTest(t *testing.T) {
	src := `I = 0
DO
I = I + 1
LOOP UNTIL I >= 4
PRINT I`
	_, console := runSource(t, src)
	require.Equal(t, " 4 \n", console.Output.String())
}

func TestSourceRecordTypeFieldAccess(t *testing.T) {
	src := `TYPE POINT
X AS INTEGER
Y AS INTEGER
END TYPE
DIM P AS POINT
P.X = 3
P.Y = 4
PRINT P.X + P.Y`
	_, console := runSource(t, src)
	require.Equal(t, " 7 \n", console.Output.String())
}

func TestSourceFunctionCallInExpression(t *testing.T) {
	src := `FUNCTION TWICE(N)
TWICE = N * 2
END FUNCTION
PRINT TWICE(21)`
	_, console := runSource(t, src)
	require.Equal(t, " 42 \n", console.Output.String())
}

func TestSourceStringIntrinsics(t *testing.T) {
	_, console := runSource(t, `PRINT UCASE$(LEFT$("hello", 4))`)
	require.Equal(t, "HELL\n", console.Output.String())
}

func TestSourceRestoreLabel(t *testing.T) {
	src := `FIRST:
DATA 10
SECOND:
DATA 20
READ A
RESTORE SECOND
READ B
PRINT A; B`
	_, console := runSource(t, src)
	require.Equal(t, " 10  20 \n", console.Output.String())
}

func TestSourceGotoSkipsStatement(t *testing.T) {
	src := `GOTO DONE
PRINT "SKIPPED"
DONE:
PRINT "END"`
	_, console := runSource(t, src)
	require.Equal(t, "END\n", console.Output.String())
}

func TestSourceNestedForLoops(t *testing.T) {
	src := `FOR I = 1 TO 2
FOR J = 1 TO 2
T = T + 1
NEXT
NEXT
PRINT T`
	vm, console := runSource(t, src)
	require.Equal(t, " 4 \n", console.Output.String())
	require.Zero(t, vm.StackDepth())
}

func TestSourceForStepDown(t *testing.T) {
	src := `FOR I = 3 TO 1 STEP -1
PRINT I
NEXT I`
	_, console := runSource(t, src)
	require.Equal(t, " 3 \n 2 \n 1 \n", console.Output.String())
}

func TestSourceWrongSyscallArityIsCompileError(t *testing.T) {
	installOnce.Do(syscall.Install)
	_, errs := bytecode.Compile(parseSource(t, `PRINT LEFT$("x")`), "")
	require.NotEmpty(t, errs, "LEFT$ with one argument must fail at compile time")
}

func TestSourceSyscallArgTypeMismatchIsCompileError(t *testing.T) {
	installOnce.Do(syscall.Install)
	_, errs := bytecode.Compile(parseSource(t, `PRINT LEFT$(5, 2)`), "")
	require.NotEmpty(t, errs, "a numeric literal in LEFT$'s string slot must fail at compile time")

	_, errs = bytecode.Compile(parseSource(t, `PLAY N%`), "")
	require.NotEmpty(t, errs, "a sigil-typed numeric variable in PLAY's string slot must fail at compile time")
}

func TestSourcePrintUsing(t *testing.T) {
	_, console := runSource(t, `PRINT USING "###,###"; 1234567`)
	require.Equal(t, "234,567\n", console.Output.String(), "overflow truncates the grouped field from the left")
}
