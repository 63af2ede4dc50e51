package syscall_test

import (
	"testing"

	"github.com/basiclang/qbvm/internal/bytecode"
	"github.com/basiclang/qbvm/internal/syscall"
	"github.com/basiclang/qbvm/internal/types"
	"github.com/stretchr/testify/require"
)

// testCellRef is a minimal bytecode.CellRef backed by a local Value,
// standing in for a compiled variable slot in syscalls that assign
// through a reference (READ, SWAP, INPUT).
type testCellRef struct{ v types.Value }

func (r *testCellRef) Get() types.Value        { return r.v }
func (r *testCellRef) Set(v types.Value) error { r.v = v; return nil }

func TestIOPrintFormatsNumbersAndStrings(t *testing.T) {
	vm := newTestVM(t)
	console := vm.Console.(*syscall.MemoryConsole)

	callSyscall(t, vm, "PRINT", intVal(5), intVal(0), strVal("hi"), intVal(0))

	require.Equal(t, " 5 hi\n", console.Output.String())
}

func TestIOPrintSemicolonSuppressesNewline(t *testing.T) {
	vm := newTestVM(t)
	console := vm.Console.(*syscall.MemoryConsole)

	callSyscall(t, vm, "PRINT", strVal("A"), intVal(2))

	require.Equal(t, "A", console.Output.String(), "a trailing semicolon should suppress the newline")
}

func TestIOPrintUsing(t *testing.T) {
	vm := newTestVM(t)
	console := vm.Console.(*syscall.MemoryConsole)

	callSyscall(t, vm, "PRINT_USING", strVal("##.##"), doubleVal(3.14159), intVal(0))

	require.Equal(t, " 3.14\n", console.Output.String(), "the value is right-aligned in the field's digit count")
}

func TestIOPrintUsingVerbatimText(t *testing.T) {
	vm := newTestVM(t)
	console := vm.Console.(*syscall.MemoryConsole)

	callSyscall(t, vm, "PRINT_USING", strVal("Total: ###"), intVal(42), intVal(0))

	require.Equal(t, "Total:  42\n", console.Output.String())
}

func TestIOPrintUsingCommaGrouping(t *testing.T) {
	vm := newTestVM(t)
	console := vm.Console.(*syscall.MemoryConsole)

	callSyscall(t, vm, "PRINT_USING", strVal("###,###"), intVal(12345), intVal(0))

	require.Equal(t, " 12,345\n", console.Output.String(), "an embedded comma groups thousands within one field")
}

func TestIOPrintUsingOverflowTruncatesLeading(t *testing.T) {
	vm := newTestVM(t)
	console := vm.Console.(*syscall.MemoryConsole)

	callSyscall(t, vm, "PRINT_USING", strVal("##"), intVal(12345), intVal(0))

	require.Equal(t, "45\n", console.Output.String(), "overflow keeps the rightmost digits")
}

func TestIOPrintUsingSemicolonSuppressesNewline(t *testing.T) {
	vm := newTestVM(t)
	console := vm.Console.(*syscall.MemoryConsole)

	callSyscall(t, vm, "PRINT_USING", strVal("##"), intVal(7), intVal(2))

	require.Equal(t, " 7", console.Output.String())
}

func TestIOPrintUsingCommaTerminatorPadsToTabStop(t *testing.T) {
	vm := newTestVM(t)
	console := vm.Console.(*syscall.MemoryConsole)

	callSyscall(t, vm, "PRINT_USING", strVal("##"), intVal(7), intVal(1))

	require.Equal(t, " 7            ", console.Output.String(), "a trailing comma pads to the next 14-column zone")
}

func TestIOPrintUsingTypeMismatchTerminatesFormatting(t *testing.T) {
	vm := newTestVM(t)
	console := vm.Console.(*syscall.MemoryConsole)

	entry, ok := bytecode.LookupSyscall("PRINT_USING")
	require.True(t, ok)
	_, err := entry.Call(vm, []interface{}{strVal("##"), strVal("oops"), intVal(0)})

	require.Error(t, err, "a string reaching a numeric field is a type mismatch")
	require.Zero(t, console.Output.Len(), "nothing is printed when formatting terminates")
}

func TestIOInputReadsOneLine(t *testing.T) {
	vm := newTestVM(t)
	console := vm.Console.(*syscall.MemoryConsole)
	console.Feed("42")

	ref := &testCellRef{v: types.Value{Type: types.DoubleType}}
	callSyscall(t, vm, "INPUT", strVal("? "), ref)

	require.Equal(t, 42.0, ref.v.Float())
	require.Equal(t, "? ", console.Output.String(), "INPUT should print its prompt")
}

func TestIOReadPullsFromDataPool(t *testing.T) {
	prog := bytecode.NewCompiledProgram()
	seven := types.Value{Type: types.IntegerType, I: 7}
	prog.Data = []*types.Value{&seven}
	vm := bytecode.NewVM(prog, syscall.NewMemoryConsole(), syscall.NewMemoryAudio())
	mathInstallOnce.Do(syscall.Install)

	ref := &testCellRef{v: types.Value{Type: types.IntegerType}}
	callSyscall(t, vm, "READ", ref)

	require.EqualValues(t, 7, ref.v.Int())
}

func TestIOReadPastEndOfDataErrors(t *testing.T) {
	vm := newTestVM(t)
	entry, ok := bytecode.LookupSyscall("READ")
	require.True(t, ok)
	ref := &testCellRef{v: types.Value{Type: types.IntegerType}}
	_, err := entry.Call(vm, []interface{}{ref})
	require.Error(t, err, "READ past the end of an empty DATA pool should error")
}

func TestIOSwap(t *testing.T) {
	vm := newTestVM(t)
	a := &testCellRef{v: intVal(1)}
	b := &testCellRef{v: intVal(2)}

	callSyscall(t, vm, "SWAP", a, b)

	require.EqualValues(t, 2, a.v.Int())
	require.EqualValues(t, 1, b.v.Int())
}

func TestIOClsResetsOutput(t *testing.T) {
	vm := newTestVM(t)
	console := vm.Console.(*syscall.MemoryConsole)
	callSyscall(t, vm, "PRINT", strVal("leftover"), intVal(0))
	callSyscall(t, vm, "CLS")
	require.Zero(t, console.Output.Len())
}

func TestIOInkeyFromBuffer(t *testing.T) {
	vm := newTestVM(t)
	console := vm.Console.(*syscall.MemoryConsole)
	console.FeedKey('Q')

	require.Equal(t, "Q", callSyscall(t, vm, "INKEY$").S)
	require.Equal(t, "", callSyscall(t, vm, "INKEY$").S, "INKEY$ with an empty buffer should return \"\"")
}

func TestIOSleepSuspendsTheVM(t *testing.T) {
	vm := newTestVM(t)
	callSyscall(t, vm, "SLEEP", doubleVal(1.5))

	require.True(t, vm.Suspended, "SLEEP should suspend the VM")
	require.Equal(t, 1.5, vm.PendingSleep)
}

func TestIOYieldAndSystemSuspend(t *testing.T) {
	vm := newTestVM(t)
	callSyscall(t, vm, "YIELD")
	require.True(t, vm.Suspended, "YIELD should suspend the VM")

	vm.Resume()
	callSyscall(t, vm, "SYSTEM")
	require.True(t, vm.Suspended, "SYSTEM should suspend the VM")
}

func TestIOPlayBlocksUntilAudioFinishes(t *testing.T) {
	vm := newTestVM(t)
	audio := vm.Audio.(*syscall.MemoryAudio)

	callSyscall(t, vm, "PLAY", strVal("MBF"))

	require.Equal(t, "MBF", audio.LastPlay)
}

func TestIOBgmPlayAndStop(t *testing.T) {
	vm := newTestVM(t)
	audio := vm.Audio.(*syscall.MemoryAudio)

	callSyscall(t, vm, "BGMPLAY", strVal("THEME"))
	require.True(t, audio.Playing, "BGMPLAY should leave the audio device playing")

	callSyscall(t, vm, "BGMSTOP")
	require.False(t, audio.Playing, "BGMSTOP should stop playback")
}

func TestIOLocateColorScreenWidthAreNoops(t *testing.T) {
	vm := newTestVM(t)
	callSyscall(t, vm, "LOCATE", intVal(1), intVal(1))
	callSyscall(t, vm, "COLOR", intVal(15))
	callSyscall(t, vm, "SCREEN", intVal(13))
	callSyscall(t, vm, "WIDTH", intVal(80), intVal(25))
}
