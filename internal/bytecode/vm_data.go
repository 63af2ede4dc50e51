package bytecode

import "github.com/basiclang/qbvm/internal/types"

func init() {
	register(&spec{Name: "restore", DataLabel: true, HasArg: true, Exec: func(vm *VM, arg interface{}) error {
		vm.dataPtr = arg.(int)
		return nil
	}})
}

// NextData is the READ syscall's pull from the DATA pool: it returns
// data[dataPtr] and advances the pointer. A nil entry (an omitted
// `DATA ,,` slot) tells the caller to leave the variable at its
// type's default; an exhausted pool is an IO_ERROR.
func (vm *VM) NextData() (*types.Value, error) {
	if vm.dataPtr >= len(vm.Program.Data) {
		return nil, newRuntimeError(ErrIOError, Locus{}, "READ past end of DATA")
	}
	v := vm.Program.Data[vm.dataPtr]
	vm.dataPtr++
	return v, nil
}

// DataPtr returns the current DATA pointer (for tests/disassembly).
func (vm *VM) DataPtr() int { return vm.dataPtr }
