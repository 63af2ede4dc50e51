package syscall

import (
	"math"
	"time"

	"github.com/basiclang/qbvm/internal/bytecode"
	"github.com/basiclang/qbvm/internal/types"
)

func installMath() {
	fn := func(name string, minArgs int, argTypes []*types.Type, call func(vm *bytecode.VM, args []interface{}) (types.Value, error)) {
		bytecode.RegisterSyscall(name, &bytecode.SyscallEntry{
			IsFunction: true, MinArgs: minArgs, ArgTypes: argTypes, Call: call,
		})
	}

	bytecode.RegisterSyscall("RND", &bytecode.SyscallEntry{
		IsFunction: true, Variadic: true, MinArgs: 0, ArgTypes: []*types.Type{nil},
		Call: func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
			vm.LastRandom = seededRand.Float64()
			return doubleResult(vm.LastRandom), nil
		},
	})

	// RANDOMIZE reseeds from its argument so RANDOMIZE-then-RND is
	// reproducible; with no argument the generator is left untouched.
	bytecode.RegisterSyscall("RANDOMIZE", &bytecode.SyscallEntry{
		Variadic: true, MinArgs: 0, ArgTypes: []*types.Type{nil},
		Call: func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
			if len(args) > 0 {
				seededRand.Seed(intArg(args, 0))
			}
			return types.Value{}, nil
		},
	})

	fn("INT", 1, []*types.Type{nil}, func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
		return longResult(int64(math.Floor(numArg(args, 0)))), nil
	})
	fn("FIX", 1, []*types.Type{nil}, func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
		return longResult(int64(numArg(args, 0))), nil
	})
	fn("ABS", 1, []*types.Type{nil}, func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
		v := arg(args, 0)
		if v.Type.Kind == types.Integer || v.Type.Kind == types.Long {
			n := v.Int()
			if n < 0 {
				n = -n
			}
			return types.Value{Type: v.Type, I: n}, nil
		}
		return types.Value{Type: v.Type, F: math.Abs(v.Float())}, nil
	})
	fn("SGN", 1, []*types.Type{nil}, func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
		f := numArg(args, 0)
		switch {
		case f > 0:
			return intResult(1), nil
		case f < 0:
			return intResult(-1), nil
		default:
			return intResult(0), nil
		}
	})
	fn("SQR", 1, []*types.Type{nil}, func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
		return doubleResult(math.Sqrt(numArg(args, 0))), nil
	})
	fn("SIN", 1, []*types.Type{nil}, func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
		return doubleResult(math.Sin(numArg(args, 0))), nil
	})
	fn("COS", 1, []*types.Type{nil}, func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
		return doubleResult(math.Cos(numArg(args, 0))), nil
	})
	fn("TAN", 1, []*types.Type{nil}, func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
		return doubleResult(math.Tan(numArg(args, 0))), nil
	})
	fn("ATN", 1, []*types.Type{nil}, func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
		return doubleResult(math.Atan(numArg(args, 0))), nil
	})
	fn("EXP", 1, []*types.Type{nil}, func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
		return doubleResult(math.Exp(numArg(args, 0))), nil
	})
	fn("LOG", 1, []*types.Type{nil}, func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
		return doubleResult(math.Log(numArg(args, 0))), nil
	})

	fn("TIMER", 0, nil, func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
		return doubleResult(time.Since(startTime).Seconds()), nil
	})

	// PEEK has no memory-mapped address space behind it in this engine;
	// it always returns 0.
	fn("PEEK", 1, []*types.Type{nil}, func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
		return intResult(0), nil
	})
}
