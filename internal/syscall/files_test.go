package syscall_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/basiclang/qbvm/internal/bytecode"
	"github.com/basiclang/qbvm/internal/types"
)

func TestFilesWriteThenInputRoundTrip(t *testing.T) {
	vm := newTestVM(t)
	path := filepath.Join(t.TempDir(), "scores.dat")

	callSyscall(t, vm, "OPEN", strVal(path), strVal("OUTPUT"), intVal(1))
	callSyscall(t, vm, "WRITE#", intVal(1), strVal("ALICE"), intVal(100))
	callSyscall(t, vm, "CLOSE", intVal(1))

	callSyscall(t, vm, "OPEN", strVal(path), strVal("INPUT"), intVal(1))
	name := &testCellRef{v: types.Value{Type: types.StringType}}
	score := &testCellRef{v: types.Value{Type: types.IntegerType}}
	callSyscall(t, vm, "INPUT#", intVal(1), name)
	callSyscall(t, vm, "INPUT#", intVal(1), score)
	callSyscall(t, vm, "CLOSE", intVal(1))

	require.Equal(t, "ALICE", name.v.S)
	require.EqualValues(t, 100, score.v.Int())
}

func TestFilesWriteQuotesStrings(t *testing.T) {
	vm := newTestVM(t)
	path := filepath.Join(t.TempDir(), "out.dat")

	callSyscall(t, vm, "OPEN", strVal(path), strVal("OUTPUT"), intVal(2))
	callSyscall(t, vm, "WRITE#", intVal(2), strVal("A,B"), doubleVal(1.5))
	callSyscall(t, vm, "CLOSE")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "\"A,B\",1.5\n", string(data))
}

func TestFilesAppendExtendsExisting(t *testing.T) {
	vm := newTestVM(t)
	path := filepath.Join(t.TempDir(), "log.dat")

	callSyscall(t, vm, "OPEN", strVal(path), strVal("OUTPUT"), intVal(1))
	callSyscall(t, vm, "WRITE#", intVal(1), intVal(1))
	callSyscall(t, vm, "CLOSE", intVal(1))

	callSyscall(t, vm, "OPEN", strVal(path), strVal("APPEND"), intVal(1))
	callSyscall(t, vm, "WRITE#", intVal(1), intVal(2))
	callSyscall(t, vm, "CLOSE", intVal(1))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "1\n2\n", string(data))
}

func TestFilesInputPastEndErrors(t *testing.T) {
	vm := newTestVM(t)
	path := filepath.Join(t.TempDir(), "empty.dat")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	callSyscall(t, vm, "OPEN", strVal(path), strVal("INPUT"), intVal(3))
	entry, ok := bytecode.LookupSyscall("INPUT#")
	require.True(t, ok)
	ref := &testCellRef{v: types.Value{Type: types.IntegerType}}
	_, err := entry.Call(vm, []interface{}{intVal(3), ref})
	require.Error(t, err, "INPUT# past end of file should error")
}

func TestFilesReopenOpenChannelErrors(t *testing.T) {
	vm := newTestVM(t)
	dir := t.TempDir()

	callSyscall(t, vm, "OPEN", strVal(filepath.Join(dir, "a.dat")), strVal("OUTPUT"), intVal(1))
	entry, ok := bytecode.LookupSyscall("OPEN")
	require.True(t, ok)
	_, err := entry.Call(vm, []interface{}{
		strVal(filepath.Join(dir, "b.dat")), strVal("OUTPUT"), intVal(1),
	})
	require.Error(t, err, "reopening an open channel should error")
	callSyscall(t, vm, "CLOSE")
}

func TestFilesUnopenedChannelErrors(t *testing.T) {
	vm := newTestVM(t)
	entry, ok := bytecode.LookupSyscall("WRITE#")
	require.True(t, ok)
	_, err := entry.Call(vm, []interface{}{intVal(9), intVal(1)})
	require.Error(t, err, "WRITE# to a channel that was never opened should error")
}
