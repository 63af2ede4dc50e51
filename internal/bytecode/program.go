package bytecode

import "github.com/basiclang/qbvm/internal/types"

// CompiledProgram is the immutable artifact the code generator
// produces and the VM executes. Stable across VM resets.
type CompiledProgram struct {
	Instructions []Instruction
	Types        map[string]*types.Type // record type name -> Type, case-insensitive key
	Shared       map[string]bool        // names bound process-wide to the main frame
	Data         []*types.Value         // pooled DATA literals; nil entry = `DATA ,,` hole
	DefaultType  *types.Type            // scalar type for sigil-less identifiers
	TestMode     bool
}

// NewCompiledProgram builds an empty program with SINGLE as the
// default type, ready for the code
// generator to append to.
func NewCompiledProgram() *CompiledProgram {
	return &CompiledProgram{
		Types:       map[string]*types.Type{},
		Shared:      map[string]bool{},
		DefaultType: types.SingleType,
	}
}
