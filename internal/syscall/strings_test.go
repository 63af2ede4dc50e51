package syscall_test

import (
	"testing"

	"github.com/basiclang/qbvm/internal/types"
	"github.com/stretchr/testify/require"
)

func strVal(s string) types.Value { return types.Value{Type: types.StringType, S: s} }

func TestStringsChrAsc(t *testing.T) {
	vm := newTestVM(t)

	require.Equal(t, "A", callSyscall(t, vm, "CHR$", intVal(65)).S)
	require.EqualValues(t, 65, callSyscall(t, vm, "ASC", strVal("A")).Int())
	require.EqualValues(t, 0, callSyscall(t, vm, "ASC", strVal("")).Int())
}

func TestStringsStrAndVal(t *testing.T) {
	vm := newTestVM(t)

	require.Equal(t, " 5", callSyscall(t, vm, "STR$", intVal(5)).S)
	require.Equal(t, "-5", callSyscall(t, vm, "STR$", intVal(-5)).S)

	require.InDelta(t, 3.5, callSyscall(t, vm, "VAL", strVal("  3.5")).Float(), 1e-9)
	require.Equal(t, 0.0, callSyscall(t, vm, "VAL", strVal("not a number")).Float())
}

func TestStringsLen(t *testing.T) {
	vm := newTestVM(t)
	require.EqualValues(t, 5, callSyscall(t, vm, "LEN", strVal("HELLO")).Int())
}

func TestStringsLeftRight(t *testing.T) {
	vm := newTestVM(t)

	require.Equal(t, "HEL", callSyscall(t, vm, "LEFT$", strVal("HELLO"), intVal(3)).S)
	require.Equal(t, "HELLO", callSyscall(t, vm, "LEFT$", strVal("HELLO"), intVal(99)).S,
		"LEFT$ with n > len(s) should clamp")

	require.Equal(t, "LLO", callSyscall(t, vm, "RIGHT$", strVal("HELLO"), intVal(3)).S)
	require.Equal(t, "", callSyscall(t, vm, "RIGHT$", strVal("HELLO"), intVal(-1)).S,
		"RIGHT$ with a negative n should clamp to empty")
}

func TestStringsMid(t *testing.T) {
	vm := newTestVM(t)

	require.Equal(t, "WORLD", callSyscall(t, vm, "MID$", strVal("HELLO WORLD"), intVal(7)).S)
	require.Equal(t, "HELLO", callSyscall(t, vm, "MID$", strVal("HELLO WORLD"), intVal(1), intVal(5)).S)
	require.Equal(t, "", callSyscall(t, vm, "MID$", strVal("HI"), intVal(50), intVal(3)).S,
		"MID$ past the end of the string should return \"\"")
}

func TestStringsCase(t *testing.T) {
	vm := newTestVM(t)

	require.Equal(t, "hello", callSyscall(t, vm, "LCASE$", strVal("Hello")).S)
	require.Equal(t, "HELLO", callSyscall(t, vm, "UCASE$", strVal("Hello")).S)
}

func TestStringsSpaceAndString(t *testing.T) {
	vm := newTestVM(t)

	require.Equal(t, "    ", callSyscall(t, vm, "SPACE$", intVal(4)).S)
	require.Equal(t, "xxx", callSyscall(t, vm, "STRING$", intVal(3), strVal("xy")).S,
		"STRING$ should repeat only the fill string's first character")
	require.Equal(t, "AAA", callSyscall(t, vm, "STRING$", intVal(3), intVal(65)).S)
}

func TestStringsInstr(t *testing.T) {
	vm := newTestVM(t)

	require.EqualValues(t, 7, callSyscall(t, vm, "INSTR", strVal("HELLO WORLD"), strVal("WORLD")).Int())
	require.EqualValues(t, 0, callSyscall(t, vm, "INSTR", strVal("HELLO"), strVal("NOPE")).Int())
	require.EqualValues(t, 5, callSyscall(t, vm, "INSTR", intVal(5), strVal("AABAAB"), strVal("AB")).Int(),
		"INSTR with a start position should search from there")
}
