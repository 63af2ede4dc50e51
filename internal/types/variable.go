package types

import "fmt"

// Variable is anything a StackFrame can bind a name to: a single
// scalar/record cell, or a dimensioned array of them.
type Variable interface {
	variableNode()
}

// ScalarVariable holds exactly one typed cell. Assignment
// goes through Assign, which copies via the type's Copy semantics.
type ScalarVariable struct {
	Type  *Type
	Value Value
}

func (*ScalarVariable) variableNode() {}

// NewScalarVariable creates a variable of t, initialized to t's zero value.
func NewScalarVariable(t *Type) *ScalarVariable {
	return &ScalarVariable{Type: t, Value: t.CreateInstance()}
}

// Assign copies v into the variable through its type's Copy (widening
// numerics, rejecting string↔numeric).
func (sv *ScalarVariable) Assign(v Value) error {
	copied, err := Copy(sv.Type, v)
	if err != nil {
		return err
	}
	sv.Value = copied
	return nil
}

// Dim is one array dimension's inclusive (lower, upper) bound.
type Dim struct {
	Lower, Upper int64
}

// Len returns the dimension's element count.
func (d Dim) Len() int64 { return d.Upper - d.Lower + 1 }

// ArrayVariable is a dense, row-major backing store for a statically
// dimensioned array. A 1-D `DIM X(10)` has bounds
// (0,10) unless OPTION BASE 1 is active, in which case BoundDim's
// defaultLower argument supplies 1.
type ArrayVariable struct {
	ElemType *Type
	Dims     []Dim
	Backing  []Value
}

func (*ArrayVariable) variableNode() {}

// NewArrayVariable allocates the backing store (length = product of
// each dimension's element count) initialized to elemType's default.
func NewArrayVariable(elemType *Type, dims []Dim) *ArrayVariable {
	total := int64(1)
	for _, d := range dims {
		total *= d.Len()
	}
	backing := make([]Value, total)
	for i := range backing {
		backing[i] = elemType.CreateInstance()
	}
	return &ArrayVariable{ElemType: elemType, Dims: dims, Backing: backing}
}

// BoundDim builds a Dim from a DIM declaration's (lower, upper)
// expressions. Lower may be absent, in which case defaultLower (0 or
// 1 per OPTION BASE) is used.
func BoundDim(lower *int64, upper int64, defaultLower int64) Dim {
	if lower == nil {
		return Dim{Lower: defaultLower, Upper: upper}
	}
	return Dim{Lower: *lower, Upper: upper}
}

// Offset computes the row-major backing-store offset for an index
// vector, offsetting each index by its dimension's lower bound.
// Returns an
// error if idx's length doesn't match Dims or an index falls outside
// its bound.
func (a *ArrayVariable) Offset(idx []int64) (int, error) {
	if len(idx) != len(a.Dims) {
		return 0, fmt.Errorf("array dimension mismatch: expected %d indices, got %d", len(a.Dims), len(idx))
	}
	offset := int64(0)
	for i, d := range a.Dims {
		n := idx[i] - d.Lower
		if n < 0 || n >= d.Len() {
			return 0, fmt.Errorf("array index %d out of bounds [%d,%d]", idx[i], d.Lower, d.Upper)
		}
		offset = offset*d.Len() + n
	}
	return int(offset), nil
}

// At returns the element at idx, or an error per Offset.
func (a *ArrayVariable) At(idx []int64) (Value, error) {
	off, err := a.Offset(idx)
	if err != nil {
		return Value{}, err
	}
	return a.Backing[off], nil
}

// Set assigns v (through the element type's Copy) to the cell at idx.
func (a *ArrayVariable) Set(idx []int64, v Value) error {
	off, err := a.Offset(idx)
	if err != nil {
		return err
	}
	copied, err := Copy(a.ElemType, v)
	if err != nil {
		return err
	}
	a.Backing[off] = copied
	return nil
}
