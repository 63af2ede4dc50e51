package types

import "testing"

func TestSigilType(t *testing.T) {
	tests := []struct {
		ident string
		want  Kind
		isNil bool
	}{
		{"X%", Integer, false},
		{"X&", Long, false},
		{"X!", Single, false},
		{"X#", Double, false},
		{"X$", String, false},
		{"X", 0, true},
	}
	for _, tt := range tests {
		got := SigilType(tt.ident)
		if tt.isNil {
			if got != nil {
				t.Errorf("SigilType(%q) = %v, want nil", tt.ident, got)
			}
			continue
		}
		if got == nil || got.Kind != tt.want {
			t.Errorf("SigilType(%q) = %v, want kind %v", tt.ident, got, tt.want)
		}
	}
}

func TestCreateInstanceZeroValues(t *testing.T) {
	if v := IntegerType.CreateInstance(); v.I != 0 {
		t.Errorf("INTEGER zero value = %d, want 0", v.I)
	}
	if v := StringType.CreateInstance(); v.S != "" {
		t.Errorf("STRING zero value = %q, want empty", v.S)
	}
	rec := NewRecordType("POINT", []Field{{Name: "X", Type: IntegerType}, {Name: "Y", Type: IntegerType}})
	v := rec.CreateInstance()
	if v.Rec["X"].I != 0 || v.Rec["Y"].I != 0 {
		t.Errorf("record zero value = %+v, want all-zero fields", v.Rec)
	}
}

func TestCopyWidensNumerics(t *testing.T) {
	v := Value{Type: IntegerType, I: 7}
	got, err := Copy(DoubleType, v)
	if err != nil {
		t.Fatalf("Copy INTEGER->DOUBLE: %v", err)
	}
	if got.F != 7 {
		t.Errorf("widened value = %v, want 7", got.F)
	}
}

func TestCopyRejectsStringNumericMismatch(t *testing.T) {
	_, err := Copy(IntegerType, Value{Type: StringType, S: "5"})
	if err == nil {
		t.Fatalf("expected type mismatch error assigning STRING to INTEGER")
	}
	_, err = Copy(StringType, Value{Type: IntegerType, I: 5})
	if err == nil {
		t.Fatalf("expected type mismatch error assigning INTEGER to STRING")
	}
}

func TestBooleanConvention(t *testing.T) {
	if v := BoolValue(true); v.I != -1 {
		t.Errorf("BoolValue(true).I = %d, want -1", v.I)
	}
	if v := BoolValue(false); v.I != 0 {
		t.Errorf("BoolValue(false).I = %d, want 0", v.I)
	}
	if !(Value{Type: IntegerType, I: -1}).Bool() {
		t.Errorf("-1 should be truthy")
	}
	if (Value{Type: IntegerType, I: 0}).Bool() {
		t.Errorf("0 should be falsy")
	}
}

func TestArrayOffsetRespectsLowerBound(t *testing.T) {
	a := NewArrayVariable(IntegerType, []Dim{{Lower: 1, Upper: 10}})
	off, err := a.Offset([]int64{1})
	if err != nil || off != 0 {
		t.Fatalf("Offset(1) = %d, %v, want 0, nil", off, err)
	}
	off, err = a.Offset([]int64{10})
	if err != nil || off != 9 {
		t.Fatalf("Offset(10) = %d, %v, want 9, nil", off, err)
	}
	if _, err := a.Offset([]int64{0}); err == nil {
		t.Fatalf("expected out-of-bounds error for index 0 with lower bound 1")
	}
}

func TestArrayOffsetOptionBaseDefault(t *testing.T) {
	// DIM X(1 TO 10): an explicit lower bound wins over the default, so
	// bounds are (1,10).
	lower := int64(1)
	d := BoundDim(&lower, 10, 0)
	if d.Lower != 1 || d.Upper != 10 {
		t.Errorf("BoundDim with explicit lower = %+v, want {1 10}", d)
	}
	// DIM X(10) with no OPTION BASE: bounds are (0,10).
	d2 := BoundDim(nil, 10, 0)
	if d2.Lower != 0 || d2.Upper != 10 {
		t.Errorf("BoundDim default lower = %+v, want {0 10}", d2)
	}
}

func TestArrayRowMajorOffset2D(t *testing.T) {
	a := NewArrayVariable(IntegerType, []Dim{{Lower: 0, Upper: 1}, {Lower: 0, Upper: 2}})
	// 2x3 array: offset(i,j) = i*3 + j
	cases := map[[2]int64]int{
		{0, 0}: 0, {0, 2}: 2, {1, 0}: 3, {1, 2}: 5,
	}
	for idx, want := range cases {
		got, err := a.Offset([]int64{idx[0], idx[1]})
		if err != nil || got != want {
			t.Errorf("Offset(%v) = %d, %v, want %d", idx, got, err, want)
		}
	}
}

func TestScalarVariableAssign(t *testing.T) {
	sv := NewScalarVariable(SingleType)
	if err := sv.Assign(Value{Type: IntegerType, I: 3}); err != nil {
		t.Fatalf("Assign INTEGER->SINGLE: %v", err)
	}
	if sv.Value.F != 3 {
		t.Errorf("sv.Value.F = %v, want 3", sv.Value.F)
	}
}
