package syscall_test

import (
	"sync"
	"testing"

	"github.com/basiclang/qbvm/internal/bytecode"
	"github.com/basiclang/qbvm/internal/syscall"
	"github.com/basiclang/qbvm/internal/types"
	"github.com/stretchr/testify/require"
)

var mathInstallOnce sync.Once

func newTestVM(t *testing.T) *bytecode.VM {
	t.Helper()
	mathInstallOnce.Do(syscall.Install)
	return bytecode.NewVM(bytecode.NewCompiledProgram(), syscall.NewMemoryConsole(), syscall.NewMemoryAudio())
}

func callSyscall(t *testing.T, vm *bytecode.VM, name string, args ...interface{}) types.Value {
	t.Helper()
	entry, ok := bytecode.LookupSyscall(name)
	require.True(t, ok, "%s not registered", name)
	v, err := entry.Call(vm, args)
	require.NoError(t, err, "%s(%v) returned an error", name, args)
	return v
}

func intVal(i int64) types.Value      { return types.Value{Type: types.IntegerType, I: i} }
func doubleVal(f float64) types.Value { return types.Value{Type: types.DoubleType, F: f} }

func TestMathIntFix(t *testing.T) {
	vm := newTestVM(t)

	t.Run("INT floors toward negative infinity", func(t *testing.T) {
		got := callSyscall(t, vm, "INT", doubleVal(-1.5))
		require.EqualValues(t, -2, got.Int())
	})

	t.Run("FIX truncates toward zero", func(t *testing.T) {
		got := callSyscall(t, vm, "FIX", doubleVal(-1.5))
		require.EqualValues(t, -1, got.Int())
	})
}

func TestMathAbs(t *testing.T) {
	vm := newTestVM(t)

	t.Run("integer preserves type", func(t *testing.T) {
		got := callSyscall(t, vm, "ABS", intVal(-7))
		require.Equal(t, types.Integer, got.Type.Kind)
		require.EqualValues(t, 7, got.Int())
	})

	t.Run("double preserves type", func(t *testing.T) {
		got := callSyscall(t, vm, "ABS", doubleVal(-3.5))
		require.Equal(t, types.Double, got.Type.Kind)
		require.InDelta(t, 3.5, got.Float(), 1e-9)
	})
}

func TestMathSgn(t *testing.T) {
	vm := newTestVM(t)
	cases := []struct {
		in   float64
		want int64
	}{{5, 1}, {0, 0}, {-5, -1}}
	for _, c := range cases {
		got := callSyscall(t, vm, "SGN", doubleVal(c.in))
		require.EqualValues(t, c.want, got.Int(), "SGN(%v)", c.in)
	}
}

func TestMathTranscendentals(t *testing.T) {
	vm := newTestVM(t)

	require.InDelta(t, 3.0, callSyscall(t, vm, "SQR", doubleVal(9)).Float(), 1e-9)
	require.InDelta(t, 0.0, callSyscall(t, vm, "SIN", doubleVal(0)).Float(), 1e-9)
	require.InDelta(t, 1.0, callSyscall(t, vm, "COS", doubleVal(0)).Float(), 1e-9)
	require.InDelta(t, 1.0, callSyscall(t, vm, "EXP", doubleVal(0)).Float(), 1e-9)
	require.InDelta(t, 0.0, callSyscall(t, vm, "LOG", doubleVal(1)).Float(), 1e-9)
	require.InDelta(t, 0.0, callSyscall(t, vm, "ATN", doubleVal(0)).Float(), 1e-9)
}

func TestMathRandomize(t *testing.T) {
	vm := newTestVM(t)

	callSyscall(t, vm, "RANDOMIZE", intVal(42))
	a := callSyscall(t, vm, "RND")
	require.GreaterOrEqual(t, a.Float(), 0.0)
	require.Less(t, a.Float(), 1.0)
	require.Equal(t, vm.LastRandom, a.Float(), "RND() should record vm.LastRandom")

	callSyscall(t, vm, "RANDOMIZE", intVal(42))
	b := callSyscall(t, vm, "RND")
	require.Equal(t, a.Float(), b.Float(), "RANDOMIZE with the same seed should reproduce the same RND() sequence")
}

func TestMathTimerAdvances(t *testing.T) {
	vm := newTestVM(t)
	first := callSyscall(t, vm, "TIMER")
	require.GreaterOrEqual(t, first.Float(), 0.0)
	second := callSyscall(t, vm, "TIMER")
	require.GreaterOrEqual(t, second.Float(), first.Float())
}
