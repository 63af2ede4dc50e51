package bytecode

import (
	"fmt"

	qerrors "github.com/basiclang/qbvm/internal/errors"
	"github.com/basiclang/qbvm/internal/types"
)

// Compiler lowers an AST into a CompiledProgram: resolves declarations, derives sigil types, allocates labels, emits
// instructions, fixes up forward branches, and pools DATA literals.
type Compiler struct {
	prog   *CompiledProgram
	source string

	labelAddr map[string]int // resolved label -> instruction index
	pending   []addrFixup

	dataStart   map[string]int // RESTORE label -> data index
	dataPending []dataFixup
	labelSeq    int

	declaredSubs  map[string]bool
	declaredFuncs map[string]bool
	deferredProcs []procDecl

	optionBase int

	Errors []*qerrors.CompilerError
}

type addrFixup struct {
	instrIndex int
	label      string
}

// NewCompiler builds a Compiler that will lower into a fresh
// CompiledProgram. source is the original text, kept only so compile
// errors can render a caret line.
func NewCompiler(source string) *Compiler {
	return &Compiler{
		prog:          NewCompiledProgram(),
		source:        source,
		labelAddr:     map[string]int{},
		dataStart:     map[string]int{},
		declaredSubs:  map[string]bool{},
		declaredFuncs: map[string]bool{},
	}
}

func (c *Compiler) errorf(loc Locus, format string, args ...interface{}) {
	c.Errors = append(c.Errors, qerrors.New(loc, c.source, format, args...))
}

// emit appends an instruction and returns its index.
func (c *Compiler) emit(op string, arg interface{}, loc Locus) int {
	c.prog.Instructions = append(c.prog.Instructions, Instruction{Op: op, Arg: arg, Locus: loc})
	return len(c.prog.Instructions) - 1
}

// newLabel allocates a fresh synthetic label name for control-flow
// constructs the grammar doesn't name itself (loop tops, if/else ends).
func (c *Compiler) newLabel() string {
	c.labelSeq++
	return fmt.Sprintf("$L%d", c.labelSeq)
}

// placeLabel records the current instruction index as label's target.
func (c *Compiler) placeLabel(label string) {
	c.labelAddr[label] = len(c.prog.Instructions)
}

// emitBranch emits op (JMP/BZ/BNZ/CALL/GOSUB) with a symbolic target,
// recording a fixup so the linking pass can substitute the integer pc
// once the label's address is known.
func (c *Compiler) emitBranch(op, label string, loc Locus) {
	idx := c.emit(op, nil, loc)
	c.pending = append(c.pending, addrFixup{instrIndex: idx, label: label})
}

// fixup resolves every pending branch target; an unresolved label
// (e.g. GOTO to a line that doesn't exist) is a compile error.
func (c *Compiler) fixup() {
	for _, f := range c.pending {
		addr, ok := c.labelAddr[f.label]
		if !ok {
			c.errorf(c.prog.Instructions[f.instrIndex].Locus, "undefined label %q", f.label)
			continue
		}
		c.prog.Instructions[f.instrIndex].Arg = addr
	}
}

// poolData appends literal values (nil entries preserved for `DATA
// ,,`) to the program's data array, and returns the pool's start
// index so a labeled RESTORE can resolve.
func (c *Compiler) poolData(values []*types.Value) int {
	start := len(c.prog.Data)
	c.prog.Data = append(c.prog.Data, values...)
	return start
}
