package syscall_test

import "testing"

// Sprite transforms have no renderer behind them, so these only
// assert the routines accept their arguments and complete without
// blocking.
func TestSpriteRoutinesAcceptArgsAndComplete(t *testing.T) {
	vm := newTestVM(t)

	callSyscall(t, vm, "SPSET", intVal(0), strVal("ship.png"), intVal(4))
	callSyscall(t, vm, "SPOFS", intVal(0), doubleVal(10), doubleVal(20))
	callSyscall(t, vm, "SPSCALE", intVal(0), doubleVal(2), doubleVal(2))
	callSyscall(t, vm, "SPROT", intVal(0), doubleVal(90))
	callSyscall(t, vm, "SPHOME", intVal(0), doubleVal(0.5), doubleVal(0.5))
	callSyscall(t, vm, "SPHIDE", intVal(0))
	callSyscall(t, vm, "SPSHOW", intVal(0))
	callSyscall(t, vm, "SPANIM", intVal(0), intVal(0), intVal(3), intVal(1))
	callSyscall(t, vm, "SPCLR", intVal(0))
}

func TestSpriteSetDefaultsToOneFrame(t *testing.T) {
	vm := newTestVM(t)
	callSyscall(t, vm, "SPSET", intVal(1), strVal("rock.png"))
}
