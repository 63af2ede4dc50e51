package bytecode

import (
	"math"

	"github.com/basiclang/qbvm/internal/types"
)

// widestNumeric returns the wider of two numeric Types, so a mixed
// INTEGER/DOUBLE operation produces a DOUBLE result.
func widestNumeric(a, b *types.Type) *types.Type {
	rank := map[types.Kind]int{types.Integer: 0, types.Long: 1, types.Single: 2, types.Double: 3}
	if rank[a.Kind] >= rank[b.Kind] {
		return a
	}
	return b
}

func numericBinOp(name string, f func(a, b float64) float64) {
	register(&spec{Name: name, Exec: func(vm *VM, _ interface{}) error {
		lhs, rhs, err := vm.pop2()
		if err != nil {
			return err
		}
		t := widestNumeric(lhs.Type, rhs.Type)
		result := f(lhs.Float(), rhs.Float())
		if t.Kind == types.Integer || t.Kind == types.Long {
			return vm.push(types.Value{Type: t, I: int64(result)})
		}
		return vm.push(types.Value{Type: t, F: result})
	}})
}

func relOp(name string, f func(a, b float64) bool) {
	register(&spec{Name: name, Exec: func(vm *VM, _ interface{}) error {
		lhs, rhs, err := vm.pop2()
		if err != nil {
			return err
		}
		var result bool
		if lhs.Type.Kind == types.String || rhs.Type.Kind == types.String {
			result = stringRel(name, lhs.S, rhs.S)
		} else {
			result = f(lhs.Float(), rhs.Float())
		}
		return vm.push(types.BoolValue(result))
	}})
}

func stringRel(name, a, b string) bool {
	switch name {
	case "=":
		return a == b
	case "<>":
		return a != b
	case "<":
		return a < b
	case ">":
		return a > b
	case "<=":
		return a <= b
	case ">=":
		return a >= b
	default:
		return false
	}
}

func init() {
	numericBinOp("+", func(a, b float64) float64 { return a + b })
	numericBinOp("-", func(a, b float64) float64 { return a - b })
	numericBinOp("*", func(a, b float64) float64 { return a * b })

	register(&spec{Name: "/", Exec: func(vm *VM, _ interface{}) error {
		lhs, rhs, err := vm.pop2()
		if err != nil {
			return err
		}
		if rhs.Float() == 0 {
			return newRuntimeError(ErrDivisionByZero, Locus{}, "division by zero")
		}
		t := widestNumeric(lhs.Type, rhs.Type)
		if t.Kind != types.Double && t.Kind != types.Single {
			t = types.SingleType
		}
		return vm.push(types.Value{Type: t, F: lhs.Float() / rhs.Float()})
	}})

	register(&spec{Name: "MOD", Exec: func(vm *VM, _ interface{}) error {
		lhs, rhs, err := vm.pop2()
		if err != nil {
			return err
		}
		if rhs.Int() == 0 {
			return newRuntimeError(ErrDivisionByZero, Locus{}, "division by zero")
		}
		t := widestNumeric(lhs.Type, rhs.Type)
		return vm.push(types.Value{Type: t, I: lhs.Int() % rhs.Int()})
	}})

	register(&spec{Name: "^", Exec: func(vm *VM, _ interface{}) error {
		lhs, rhs, err := vm.pop2()
		if err != nil {
			return err
		}
		return vm.push(types.Value{Type: types.DoubleType, F: math.Pow(lhs.Float(), rhs.Float())})
	}})

	register(&spec{Name: "neg", Exec: func(vm *VM, _ interface{}) error {
		v, err := vm.popValue()
		if err != nil {
			return err
		}
		if v.Type.Kind == types.Integer || v.Type.Kind == types.Long {
			return vm.push(types.Value{Type: v.Type, I: -v.I})
		}
		return vm.push(types.Value{Type: v.Type, F: -v.Float()})
	}})

	relOp("=", func(a, b float64) bool { return a == b })
	relOp("<>", func(a, b float64) bool { return a != b })
	relOp("<", func(a, b float64) bool { return a < b })
	relOp(">", func(a, b float64) bool { return a > b })
	relOp("<=", func(a, b float64) bool { return a <= b })
	relOp(">=", func(a, b float64) bool { return a >= b })

	register(&spec{Name: "AND", Exec: func(vm *VM, _ interface{}) error {
		lhs, rhs, err := vm.pop2()
		if err != nil {
			return err
		}
		return vm.push(types.Value{Type: types.IntegerType, I: lhs.Int() & rhs.Int()})
	}})
	register(&spec{Name: "OR", Exec: func(vm *VM, _ interface{}) error {
		lhs, rhs, err := vm.pop2()
		if err != nil {
			return err
		}
		return vm.push(types.Value{Type: types.IntegerType, I: lhs.Int() | rhs.Int()})
	}})
	register(&spec{Name: "NOT", Exec: func(vm *VM, _ interface{}) error {
		v, err := vm.popValue()
		if err != nil {
			return err
		}
		return vm.push(types.Value{Type: types.IntegerType, I: ^v.Int()})
	}})
}
