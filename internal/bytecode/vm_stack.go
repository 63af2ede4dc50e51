package bytecode

import "github.com/basiclang/qbvm/internal/types"

// push places an operand (Value or CellRef) on the stack, trapping
// STACK_OVERFLOW if the bounded depth is exceeded.
func (vm *VM) push(v interface{}) error {
	if len(vm.stack) >= maxOperandDepth {
		return newRuntimeError(ErrStackOverflow, Locus{}, "operand stack overflow")
	}
	vm.stack = append(vm.stack, v)
	return nil
}

// pop removes and returns the top operand, trapping STACK_UNDERFLOW on
// an empty stack.
func (vm *VM) pop() (interface{}, error) {
	if len(vm.stack) == 0 {
		return nil, newRuntimeError(ErrStackUnderflow, Locus{}, "operand stack underflow")
	}
	n := len(vm.stack) - 1
	v := vm.stack[n]
	vm.stack = vm.stack[:n]
	return v, nil
}

// popValue pops an operand and dereferences it to a types.Value if it
// is a CellRef (pushvalue-style dereference on read).
func (vm *VM) popValue() (types.Value, error) {
	v, err := vm.pop()
	if err != nil {
		return types.Value{}, err
	}
	return asValue(v), nil
}

// popRef pops an operand expecting it to already be a CellRef (for
// instructions that require an assignable target, e.g. assign,
// array_deref, member_deref).
func (vm *VM) popRef() (CellRef, error) {
	v, err := vm.pop()
	if err != nil {
		return nil, err
	}
	ref, ok := v.(CellRef)
	if !ok {
		return nil, newRuntimeError(ErrIOError, Locus{}, "expected a variable reference on the stack")
	}
	return ref, nil
}

// asValue dereferences a stack operand to its Value, passing plain
// Values through unchanged.
func asValue(v interface{}) types.Value {
	if ref, ok := v.(CellRef); ok {
		return ref.Get()
	}
	return v.(types.Value)
}

// StackDepth returns the operand stack depth (for tests asserting the
// empty-at-halt discipline).
func (vm *VM) StackDepth() int { return len(vm.stack) }

// FrameDepth returns the call stack depth; 1 means only the main frame.
func (vm *VM) FrameDepth() int { return len(vm.frames) }

// pop2 pops RHS then LHS and dereferences both to values, returning
// (lhs, rhs).
func (vm *VM) pop2() (types.Value, types.Value, error) {
	rhs, err := vm.popValue()
	if err != nil {
		return types.Value{}, types.Value{}, err
	}
	lhs, err := vm.popValue()
	if err != nil {
		return types.Value{}, types.Value{}, err
	}
	return lhs, rhs, nil
}
