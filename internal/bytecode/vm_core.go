package bytecode

import (
	"bufio"
	"os"

	"github.com/basiclang/qbvm/internal/types"
)

// Default VM configuration; both bounds are implementation-defined.
const (
	defaultOperandCapacity = 256
	maxOperandDepth        = 4096
	defaultQuantum         = 2048 // instructions executed per async scheduler tick
)

// CellRef is a reference pushed by `pushref`/`popvar` and consumed by
// `assign`/`array_deref`/`member_deref`: a boxed cell, so BYREF
// aliasing works without exposing raw pointers across package
// boundaries.
type CellRef interface {
	Get() types.Value
	Set(v types.Value) error
}

// Frame is one call-stack entry: created on CALL/GOSUB, destroyed
// on RET. For GOSUB, Variables is the same map as the caller's (shared
// by reference, no new scope); for CALL it is fresh.
type Frame struct {
	ReturnPC  int
	Variables map[string]types.Variable
}

// Console is the external terminal/graphics collaborator; the VM holds
// it and Audio only to pass through to syscalls, and never touches
// them outside a syscall body.
type Console interface {
	Print(s string)
	Cls()
	Locate(row, col int)
	Color(fg int, bg, border *int)
	Screen(mode int)
	Width(w, h int)
	Input() <-chan string
	GetKeyFromBuffer() int
	CreateSprite(n int, image string, frames int) <-chan struct{}
	OffsetSprite(n int, x, y float64)
	ScaleSprite(n int, sx, sy float64)
	RotateSprite(n int, angle float64)
	HomeSprite(n int, hx, hy float64)
	DisplaySprite(n int, show bool)
	AnimateSprite(n int, from, to int, loop bool)
	ClearSprite(n int)
}

// Audio is the sound device collaborator.
type Audio interface {
	PlayMusic(music string, repeat bool) <-chan struct{}
	StopMusic()
}

// OpenFile is one OPEN'd file channel: R is set only for a channel
// opened AS INPUT, since WRITE# never reads and INPUT# never writes.
type OpenFile struct {
	F *os.File
	R *bufio.Reader
}

// OpenChannel binds f to channel n. Reopening a channel that is still
// open is an IO_ERROR, matching BASIC's "file already open".
func (vm *VM) OpenChannel(n int, f *OpenFile) error {
	if _, ok := vm.files[n]; ok {
		return newRuntimeError(ErrIOError, Locus{}, "file #%d already open", n)
	}
	vm.files[n] = f
	return nil
}

// Channel returns the OpenFile bound to n.
func (vm *VM) Channel(n int) (*OpenFile, error) {
	f, ok := vm.files[n]
	if !ok {
		return nil, newRuntimeError(ErrIOError, Locus{}, "file #%d not open", n)
	}
	return f, nil
}

// CloseChannel closes and unbinds channel n; closing a channel that is
// not open is a no-op, as in BASIC.
func (vm *VM) CloseChannel(n int) error {
	f, ok := vm.files[n]
	if !ok {
		return nil
	}
	delete(vm.files, n)
	return f.F.Close()
}

// CloseAllChannels implements the bare CLOSE statement and runs on
// Reset so an interrupted program never leaks descriptors.
func (vm *VM) CloseAllChannels() {
	for n, f := range vm.files {
		f.F.Close()
		delete(vm.files, n)
	}
}

// VM executes a CompiledProgram via the opTable dispatch loop. It owns
// the operand stack and call stack exclusively; Console and Audio are
// shared by reference and mutated only inside syscalls.
type VM struct {
	Program *CompiledProgram
	Console Console
	Audio   Audio

	stack   []interface{} // types.Value or CellRef
	frames  []*Frame
	pc      int
	dataPtr int
	files   map[int]*OpenFile

	Suspended    bool
	Async        bool
	LastRandom   float64
	PendingSleep float64 // seconds requested by the last SLEEP syscall; the host loop owns the actual wait

	ErrEvent *RuntimeError // set by the dispatch loop when a runtime error traps

	// OnError, when non-nil, is invoked with every runtime error the
	// dispatch loop traps, the host-facing error event. The VM is
	// already suspended when it fires; the host decides whether to Reset.
	OnError func(*RuntimeError)
}

// NewVM builds a VM over program, with a fresh main frame at index 0;
// the main frame exists for the VM's whole lifetime.
func NewVM(program *CompiledProgram, console Console, audio Audio) *VM {
	vm := &VM{
		Program: program,
		Console: console,
		Audio:   audio,
		stack:   make([]interface{}, 0, defaultOperandCapacity),
		files:   map[int]*OpenFile{},
	}
	vm.frames = []*Frame{{Variables: map[string]types.Variable{}}}
	return vm
}

// Reset halts any running program: it clears the scheduler state,
// drains the stacks, closes open file channels, and reinitializes the
// main frame.
func (vm *VM) Reset(program *CompiledProgram) {
	vm.Program = program
	vm.CloseAllChannels()
	vm.stack = vm.stack[:0]
	vm.frames = []*Frame{{Variables: map[string]types.Variable{}}}
	vm.pc = 0
	vm.dataPtr = 0
	vm.Suspended = false
	vm.Async = false
	vm.ErrEvent = nil
}

func (vm *VM) mainFrame() *Frame { return vm.frames[0] }
func (vm *VM) curFrame() *Frame  { return vm.frames[len(vm.frames)-1] }

// Run executes instructions until pc reaches the end, raising on
// uncaught runtime error (the synchronous mode). It does not yield:
// callers must not invoke suspending syscalls from this mode.
func (vm *VM) Run() error {
	for vm.pc < len(vm.Program.Instructions) {
		if err := vm.Step(); err != nil {
			return err
		}
		if vm.Suspended {
			break
		}
	}
	return nil
}

// RunQuantum executes at most n instructions and returns, one tick of
// a host-driven asynchronous scheduler; it stops immediately if
// Suspended becomes true mid-quantum.
func (vm *VM) RunQuantum(n int) error {
	if n <= 0 {
		n = defaultQuantum
	}
	for i := 0; i < n && vm.pc < len(vm.Program.Instructions); i++ {
		if err := vm.Step(); err != nil {
			return err
		}
		if vm.Suspended {
			break
		}
	}
	return nil
}

// Step executes exactly one instruction. Any error raised by the
// instruction is caught here, decorated with the instruction's locus,
// recorded as the pending ErrEvent, delivered to OnError, and suspends
// the VM.
func (vm *VM) Step() error {
	instr := vm.Program.Instructions[vm.pc]
	s, ok := opTable[instr.Op]
	if !ok {
		err := newRuntimeError(ErrUnknownSyscall, instr.Locus, "unknown instruction %q", instr.Op)
		vm.ErrEvent = err
		vm.Suspended = true
		if vm.OnError != nil {
			vm.OnError(err)
		}
		return err
	}
	vm.pc++
	if err := s.Exec(vm, instr.Arg); err != nil {
		if rerr, ok := err.(*RuntimeError); ok {
			if rerr.Locus == (Locus{}) {
				rerr.Locus = instr.Locus
			}
			vm.ErrEvent = rerr
		} else {
			vm.ErrEvent = newRuntimeError(ErrIOError, instr.Locus, "%s", err.Error())
		}
		vm.Suspended = true
		if vm.OnError != nil {
			vm.OnError(vm.ErrEvent)
		}
		return vm.ErrEvent
	}
	return nil
}

// Suspend is called by a syscall that awaits an external event: it sets
// Suspended so RunQuantum/Run stop immediately after the current
// instruction.
func (vm *VM) Suspend() { vm.Suspended = true }

// Resume clears Suspended so a subsequent Run/RunQuantum continues;
// completion callbacks call it to restart the host's ticker. In
// synchronous mode resume is meaningless since synchronous callers
// must never suspend in the first place.
func (vm *VM) Resume() { vm.Suspended = false }
