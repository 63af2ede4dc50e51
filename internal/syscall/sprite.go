package syscall

import (
	"github.com/basiclang/qbvm/internal/bytecode"
	"github.com/basiclang/qbvm/internal/types"
)

// installSprite wires the sprite/animation subroutines this dialect
// adds beyond classic QBasic: SPSET loads an image into a numbered
// sprite slot, the rest mutate or query that slot's transform.
func installSprite() {
	sub := func(name string, argTypes []*types.Type, call func(vm *bytecode.VM, args []interface{}) error) {
		bytecode.RegisterSyscall(name, &bytecode.SyscallEntry{
			MinArgs: len(argTypes), ArgTypes: argTypes,
			Call: func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
				return types.Value{}, call(vm, args)
			},
		})
	}

	bytecode.RegisterSyscall("SPSET", &bytecode.SyscallEntry{
		Variadic: true, MinArgs: 2, ArgTypes: []*types.Type{nil, types.StringType, nil},
		Call: func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
			n := int(intArg(args, 0))
			image := strArg(args, 1)
			frames := 1
			if len(args) >= 3 {
				frames = int(intArg(args, 2))
			}
			<-vm.Console.CreateSprite(n, image, frames)
			return types.Value{}, nil
		},
	})

	sub("SPOFS", []*types.Type{nil, nil, nil}, func(vm *bytecode.VM, args []interface{}) error {
		vm.Console.OffsetSprite(int(intArg(args, 0)), numArg(args, 1), numArg(args, 2))
		return nil
	})
	sub("SPSCALE", []*types.Type{nil, nil, nil}, func(vm *bytecode.VM, args []interface{}) error {
		vm.Console.ScaleSprite(int(intArg(args, 0)), numArg(args, 1), numArg(args, 2))
		return nil
	})
	sub("SPROT", []*types.Type{nil, nil}, func(vm *bytecode.VM, args []interface{}) error {
		vm.Console.RotateSprite(int(intArg(args, 0)), numArg(args, 1))
		return nil
	})
	sub("SPHOME", []*types.Type{nil, nil, nil}, func(vm *bytecode.VM, args []interface{}) error {
		vm.Console.HomeSprite(int(intArg(args, 0)), numArg(args, 1), numArg(args, 2))
		return nil
	})
	sub("SPHIDE", []*types.Type{nil}, func(vm *bytecode.VM, args []interface{}) error {
		vm.Console.DisplaySprite(int(intArg(args, 0)), false)
		return nil
	})
	sub("SPSHOW", []*types.Type{nil}, func(vm *bytecode.VM, args []interface{}) error {
		vm.Console.DisplaySprite(int(intArg(args, 0)), true)
		return nil
	})
	bytecode.RegisterSyscall("SPANIM", &bytecode.SyscallEntry{
		Variadic: true, MinArgs: 3, ArgTypes: []*types.Type{nil, nil, nil, nil},
		Call: func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
			loop := false
			if len(args) >= 4 {
				loop = arg(args, 3).Bool()
			}
			vm.Console.AnimateSprite(int(intArg(args, 0)), int(intArg(args, 1)), int(intArg(args, 2)), loop)
			return types.Value{}, nil
		},
	})
	sub("SPCLR", []*types.Type{nil}, func(vm *bytecode.VM, args []interface{}) error {
		vm.Console.ClearSprite(int(intArg(args, 0)))
		return nil
	})
}
