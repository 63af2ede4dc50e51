package bytecode

import "github.com/basiclang/qbvm/internal/types"

// SyscallEntry is one registry row: functions must push
// a result, subroutines may not. ArgTypes is the declared argument-type
// list the code generator checks calls against at compile time, with
// nil entries as the ANY wildcard; Variadic routines expect the actual
// argument count pushed (via pushconst) immediately before the syscall
// instruction. Call
// receives raw stack operands (each either a types.Value or a CellRef)
// so that reference-taking routines (READ, SWAP, INPUT) can assign
// back through a CellRef instead of only reading a value; use ValueOf
// to dereference an argument that is known to be read-only.
type SyscallEntry struct {
	IsFunction bool
	ArgTypes   []*types.Type // nil element = ANY
	MinArgs    int
	Variadic   bool
	RefArgs    []int // argument positions the code generator must pass as a CellRef (READ, SWAP, INPUT)
	Call       func(vm *VM, args []interface{}) (types.Value, error)
}

// ValueOf dereferences a raw syscall argument to its Value, passing a
// plain Value through unchanged.
func ValueOf(arg interface{}) types.Value { return asValue(arg) }

// syscalls is the combined functions+subroutines registry, unified
// since dispatch only needs one name->entry lookup; IsFunction
// distinguishes the two for type-checking and disassembly purposes.
var syscalls = map[string]*SyscallEntry{}

// RegisterSyscall installs name into the dispatch registry. Called by
// internal/syscall's setup, never by generated bytecode itself.
func RegisterSyscall(name string, e *SyscallEntry) {
	syscalls[name] = e
}

// LookupSyscall exposes the registry to the code generator's compile-
// time arg-type check.
func LookupSyscall(name string) (*SyscallEntry, bool) {
	e, ok := syscalls[name]
	return e, ok
}

func init() {
	register(&spec{Name: "syscall", HasArg: true, Exec: func(vm *VM, arg interface{}) error {
		name := arg.(string)
		entry, ok := syscalls[name]
		if !ok {
			return newRuntimeError(ErrUnknownSyscall, Locus{}, "unknown syscall %q", name)
		}

		nargs := len(entry.ArgTypes)
		if entry.Variadic {
			countVal, err := vm.popValue()
			if err != nil {
				return err
			}
			nargs = int(countVal.Int())
		}
		if nargs < entry.MinArgs {
			return newRuntimeError(ErrIOError, Locus{}, "%s: too few arguments", name)
		}

		args := make([]interface{}, nargs)
		for i := nargs - 1; i >= 0; i-- {
			v, err := vm.pop()
			if err != nil {
				return err
			}
			args[i] = v
		}

		result, err := entry.Call(vm, args)
		if err != nil {
			return err
		}
		if entry.IsFunction {
			return vm.push(result)
		}
		return nil
	}})
}
