package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble renders a CompiledProgram's instructions one per line as
// `<index>: <op> <arg>  ; <locus>`, resolving address/data labels to a
// readable `@<n>`/`#<n>` suffix so a reviewer can follow jumps without
// cross-referencing by hand.
func Disassemble(p *CompiledProgram) string {
	var b strings.Builder
	for i, instr := range p.Instructions {
		isAddr, isData, _, _ := Lookup(instr.Op)
		fmt.Fprintf(&b, "%4d: %-12s", i, instr.Op)
		switch {
		case isAddr:
			fmt.Fprintf(&b, "@%v", instr.Arg)
		case isData:
			fmt.Fprintf(&b, "#%v", instr.Arg)
		case instr.Arg != nil:
			fmt.Fprintf(&b, "%v", instr.Arg)
		}
		fmt.Fprintf(&b, "  ; %s\n", instr.Locus)
	}
	return b.String()
}
