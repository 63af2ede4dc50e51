package bytecode

import "github.com/basiclang/qbvm/internal/types"

// peek returns the value n slots from the top (0 = the current top)
// without popping it.
func (vm *VM) peek(n int) (types.Value, error) {
	idx := len(vm.stack) - 1 - n
	if idx < 0 {
		return types.Value{}, newRuntimeError(ErrStackUnderflow, Locus{}, "operand stack underflow")
	}
	return asValue(vm.stack[idx]), nil
}

func init() {
	register(&spec{Name: "pushconst", HasArg: true, Exec: func(vm *VM, arg interface{}) error {
		return vm.push(arg.(types.Value))
	}})

	register(&spec{Name: "JMP", AddrLabel: true, HasArg: true, Exec: func(vm *VM, arg interface{}) error {
		vm.pc = arg.(int)
		return nil
	}})

	register(&spec{Name: "BZ", AddrLabel: true, HasArg: true, Exec: func(vm *VM, arg interface{}) error {
		v, err := vm.popValue()
		if err != nil {
			return err
		}
		if !v.Bool() {
			vm.pc = arg.(int)
		}
		return nil
	}})

	register(&spec{Name: "BNZ", AddrLabel: true, HasArg: true, Exec: func(vm *VM, arg interface{}) error {
		v, err := vm.popValue()
		if err != nil {
			return err
		}
		if v.Bool() {
			vm.pc = arg.(int)
		}
		return nil
	}})

	register(&spec{Name: "CALL", AddrLabel: true, HasArg: true, Exec: func(vm *VM, arg interface{}) error {
		vm.frames = append(vm.frames, &Frame{ReturnPC: vm.pc, Variables: map[string]types.Variable{}})
		vm.pc = arg.(int)
		return nil
	}})

	register(&spec{Name: "GOSUB", AddrLabel: true, HasArg: true, Exec: func(vm *VM, arg interface{}) error {
		vm.frames = append(vm.frames, &Frame{ReturnPC: vm.pc, Variables: vm.curFrame().Variables})
		vm.pc = arg.(int)
		return nil
	}})

	register(&spec{Name: "RET", Exec: func(vm *VM, _ interface{}) error {
		if len(vm.frames) <= 1 {
			return newRuntimeError(ErrStackUnderflow, Locus{}, "RETURN/RET with no active call")
		}
		top := vm.frames[len(vm.frames)-1]
		vm.frames = vm.frames[:len(vm.frames)-1]
		vm.pc = top.ReturnPC
		return nil
	}})

	register(&spec{Name: "forloop", AddrLabel: true, HasArg: true, Exec: func(vm *VM, arg interface{}) error {
		endAddr := arg.(int)
		counter, err := vm.popValue()
		if err != nil {
			return err
		}
		step, err := vm.peek(0)
		if err != nil {
			return err
		}
		end, err := vm.peek(1)
		if err != nil {
			return err
		}
		done := (step.Float() > 0 && counter.Float() > end.Float()) ||
			(step.Float() <= 0 && counter.Float() < end.Float())
		if done {
			if _, err := vm.pop(); err != nil { // step
				return err
			}
			if _, err := vm.pop(); err != nil { // end
				return err
			}
			vm.pc = endAddr
		}
		return nil
	}})

	register(&spec{Name: "halt", Exec: func(vm *VM, _ interface{}) error {
		vm.pc = len(vm.Program.Instructions)
		return nil
	}})

	register(&spec{Name: "pop", Exec: func(vm *VM, _ interface{}) error {
		_, err := vm.pop()
		return err
	}})

	register(&spec{Name: "dup", Exec: func(vm *VM, _ interface{}) error {
		v, err := vm.peek(0)
		if err != nil {
			return err
		}
		return vm.push(v)
	}})
}
