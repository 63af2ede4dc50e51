// Package bytecode implements the BASIC dialect's code generator and
// stack-based virtual machine: it lowers an AST into a linear
// instruction array and executes that array via a dispatch table.
package bytecode

import "github.com/basiclang/qbvm/internal/lexer"

// Locus is re-exported so callers need not import internal/lexer
// directly just to build an Instruction.
type Locus = lexer.Locus

// Instruction is one bytecode record: a name, an
// optional argument (address, data index, constant, or variable/type/
// syscall name), and the source locus that produced it, used to
// decorate runtime errors.
type Instruction struct {
	Op    string
	Arg   interface{} // nil, int (address/data index), string (name), types.Value (constant), bool, or an alloc descriptor
	Locus Locus
}

// exec is an instruction's execute function: given the
// VM and the instruction's argument, it mutates VM state and returns
// an error for any trapped condition (division by zero, stack
// under/overflow, unknown syscall).
type exec func(vm *VM, arg interface{}) error

// spec is one dispatch-table entry: name, whether Arg
// is an address label or a DATA-pool label (used by the code
// generator's fixup pass and the disassembler), whether an argument is
// required at all, and the execute function.
type spec struct {
	Name       string
	AddrLabel  bool
	DataLabel  bool
	HasArg     bool
	Exec       exec
}

// opTable is the dispatch table consulted by VM.Step. It is built once
// at package init from the per-concern instruction groups declared in
// vm_ops.go, vm_control.go, vm_vars.go, and vm_data.go.
var opTable = map[string]*spec{}

// register adds one instruction to opTable; called from each group's
// init function. Panics on a duplicate name, which would indicate a
// programming error in this package, not a user-facing condition.
func register(s *spec) {
	if _, dup := opTable[s.Name]; dup {
		panic("bytecode: duplicate instruction " + s.Name)
	}
	opTable[s.Name] = s
}

// Lookup returns the address-label, data-label and has-argument flags
// of op's dispatch-table entry, with ok false (and every flag false)
// if op names no known instruction; the code generator should never
// produce such a name, but the disassembler and a defensively-written
// VM both need to check.
func Lookup(op string) (isAddr, isData, hasArg bool, ok bool) {
	s, found := opTable[op]
	if !found {
		return false, false, false, false
	}
	return s.AddrLabel, s.DataLabel, s.HasArg, true
}
