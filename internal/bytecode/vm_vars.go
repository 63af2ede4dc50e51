package bytecode

import (
	"strings"

	"github.com/basiclang/qbvm/internal/types"
)

// scalarCellRef is a CellRef over a ScalarVariable; pushref pushes
// this boxed cell, not the value.
type scalarCellRef struct{ sv *types.ScalarVariable }

func (r scalarCellRef) Get() types.Value         { return r.sv.Value }
func (r scalarCellRef) Set(v types.Value) error  { return r.sv.Assign(v) }

// arrayCellRef is a CellRef over one element of an ArrayVariable.
type arrayCellRef struct {
	av  *types.ArrayVariable
	idx []int64
}

func (r arrayCellRef) Get() types.Value {
	v, err := r.av.At(r.idx)
	if err != nil {
		return r.av.ElemType.CreateInstance()
	}
	return v
}
func (r arrayCellRef) Set(v types.Value) error { return r.av.Set(r.idx, v) }

// recordFieldCellRef is a CellRef over one field of a record held by
// another CellRef; since record Values are copied by value, writing a
// field reads the parent, mutates a copy, and writes the whole record
// back.
type recordFieldCellRef struct {
	parent CellRef
	field  string
}

func (r recordFieldCellRef) Get() types.Value {
	rec := r.parent.Get()
	return rec.Rec[strings.ToUpper(r.field)]
}
func (r recordFieldCellRef) Set(v types.Value) error {
	rec := r.parent.Get()
	field, ok := rec.Type.Field(r.field)
	if !ok {
		return newRuntimeError(ErrIOError, Locus{}, "unknown field %q", r.field)
	}
	copied, err := types.Copy(field.Type, v)
	if err != nil {
		return err
	}
	newRec := make(map[string]types.Value, len(rec.Rec))
	for k, fv := range rec.Rec {
		newRec[k] = fv
	}
	newRec[strings.ToUpper(r.field)] = copied
	rec.Rec = newRec
	return r.parent.Set(rec)
}

// resolveVariable is the name-resolution rule: the shared-name set is
// consulted first (binding to the main frame),
// otherwise the current frame; an unbound name is created fresh as a
// ScalarVariable of its sigil-derived type, falling back to the
// program's default type.
func (vm *VM) resolveVariable(name string) types.Variable {
	frame := vm.curFrame()
	if vm.Program.Shared[name] {
		frame = vm.mainFrame()
	}
	if v, ok := frame.Variables[name]; ok {
		return v
	}
	t := types.SigilType(name)
	if t == nil {
		t = vm.Program.DefaultType
	}
	sv := types.NewScalarVariable(t)
	frame.Variables[name] = sv
	return sv
}

// bindVariable installs v under name in the correct frame (shared
// names always bind to main), used by popvar to rebind a name to a
// fresh array/record allocation.
func (vm *VM) bindVariable(name string, v types.Variable) {
	frame := vm.curFrame()
	if vm.Program.Shared[name] {
		frame = vm.mainFrame()
	}
	frame.Variables[name] = v
}

func variableToRef(v types.Variable) CellRef {
	switch vv := v.(type) {
	case *types.ScalarVariable:
		return scalarCellRef{sv: vv}
	case *types.ArrayVariable:
		return arrayVarRef{av: vv}
	default:
		return nil
	}
}

func init() {
	register(&spec{Name: "pushref", HasArg: true, Exec: func(vm *VM, arg interface{}) error {
		name := arg.(string)
		v := vm.resolveVariable(name)
		ref := variableToRef(v)
		if ref == nil {
			return newRuntimeError(ErrIOError, Locus{}, "%q does not name a scalar variable", name)
		}
		return vm.push(ref)
	}})

	register(&spec{Name: "pushvalue", HasArg: true, Exec: func(vm *VM, arg interface{}) error {
		name := arg.(string)
		v := vm.resolveVariable(name)
		ref := variableToRef(v)
		if ref == nil {
			return newRuntimeError(ErrIOError, Locus{}, "%q does not name a scalar variable", name)
		}
		return vm.push(ref.Get())
	}})

	register(&spec{Name: "popvar", HasArg: true, Exec: func(vm *VM, arg interface{}) error {
		name := arg.(string)
		top, err := vm.pop()
		if err != nil {
			return err
		}
		if ref, ok := top.(CellRef); ok {
			switch rv := ref.(type) {
			case scalarCellRef:
				vm.bindVariable(name, rv.sv)
				return nil
			case arrayVarRef:
				vm.bindVariable(name, rv.av)
				return nil
			}
		}
		// a bare value rebinds the name to a fresh cell holding it.
		t := types.SigilType(name)
		if t == nil {
			t = vm.Program.DefaultType
		}
		val := asValue(top)
		copied, err := types.Copy(t, val)
		if err != nil {
			return err
		}
		vm.bindVariable(name, &types.ScalarVariable{Type: t, Value: copied})
		return nil
	}})

	register(&spec{Name: "popval", HasArg: true, Exec: func(vm *VM, arg interface{}) error {
		name := arg.(string)
		val, err := vm.popValue()
		if err != nil {
			return err
		}
		v := vm.resolveVariable(name)
		sv, ok := v.(*types.ScalarVariable)
		if !ok {
			return newRuntimeError(ErrIOError, Locus{}, "%q does not name a scalar variable", name)
		}
		return sv.Assign(val)
	}})

	register(&spec{Name: "alloc_scalar", HasArg: true, Exec: func(vm *VM, arg interface{}) error {
		decl := arg.(scalarAlloc)
		vm.bindVariable(decl.Name, types.NewScalarVariable(decl.Type))
		return nil
	}})

	register(&spec{Name: "alloc_array", HasArg: true, Exec: func(vm *VM, arg interface{}) error {
		// arg: an arrayAlloc{Name, ElemType}; dims come off the stack as
		// (lower, upper) pairs packed by the code generator, count
		// pushed last (the variadic calling convention).
		decl := arg.(arrayAlloc)
		name := decl.Name
		countVal, err := vm.popValue()
		if err != nil {
			return err
		}
		n := int(countVal.Int())
		dims := make([]types.Dim, n)
		for i := n - 1; i >= 0; i-- {
			upperVal, err := vm.popValue()
			if err != nil {
				return err
			}
			lowerVal, err := vm.popValue()
			if err != nil {
				return err
			}
			lower := lowerVal.Int()
			dims[i] = types.BoundDim(&lower, upperVal.Int(), lower)
		}
		elemType := decl.ElemType
		if elemType == nil {
			elemType = types.SigilType(name)
		}
		if elemType == nil {
			elemType = vm.Program.DefaultType
		}
		av := types.NewArrayVariable(elemType, dims)
		vm.bindVariable(name, av)
		return nil
	}})

	register(&spec{Name: "array_deref", HasArg: true, Exec: func(vm *VM, arg interface{}) error {
		wantRef := arg.(bool)
		ref, err := vm.popRef()
		if err != nil {
			return err
		}
		avRef, ok := ref.(arrayVarRef)
		if !ok {
			return newRuntimeError(ErrIOError, Locus{}, "not an array variable")
		}
		av := avRef.av
		idx := make([]int64, len(av.Dims))
		for i := len(idx) - 1; i >= 0; i-- {
			v, err := vm.popValue()
			if err != nil {
				return err
			}
			idx[i] = v.Int()
		}
		cell := arrayCellRef{av: av, idx: idx}
		if wantRef {
			return vm.push(cell)
		}
		return vm.push(cell.Get())
	}})

	register(&spec{Name: "member_deref", HasArg: true, Exec: func(vm *VM, arg interface{}) error {
		return memberAccess(vm, arg.(string), true)
	}})
	register(&spec{Name: "member_value", HasArg: true, Exec: func(vm *VM, arg interface{}) error {
		return memberAccess(vm, arg.(string), false)
	}})

	register(&spec{Name: "assign", Exec: func(vm *VM, _ interface{}) error {
		ref, err := vm.popRef()
		if err != nil {
			return err
		}
		val, err := vm.popValue()
		if err != nil {
			return err
		}
		return ref.Set(val)
	}})
}

func memberAccess(vm *VM, field string, wantRef bool) error {
	ref, err := vm.popRef()
	if err != nil {
		return err
	}
	cell := recordFieldCellRef{parent: ref, field: field}
	if wantRef {
		return vm.push(cell)
	}
	return vm.push(cell.Get())
}

// scalarAlloc is the alloc_scalar instruction's argument: a DIM'd
// scalar whose AS-clause type differs from what sigil derivation would
// produce, resolved to a concrete *types.Type at compile time.
type scalarAlloc struct {
	Name string
	Type *types.Type
}

// arrayAlloc is the alloc_array instruction's argument. ElemType is
// nil when the declaration had no AS clause, telling the instruction
// to derive the element type from the array name's sigil instead.
type arrayAlloc struct {
	Name     string
	ElemType *types.Type
}

// arrayVarRef is the CellRef pushed by pushref for an array-typed
// variable, letting array_deref distinguish "ref to the whole array"
// from "ref to a scalar cell" without a type switch on Variable.
type arrayVarRef struct{ av *types.ArrayVariable }

func (r arrayVarRef) Get() types.Value        { return types.Value{} } // not addressable as a scalar
func (r arrayVarRef) Set(v types.Value) error { return nil }
