// Command qbasic is the reference driver for the QBasic-dialect engine:
// a thin cobra CLI over internal/lexer, internal/grammar, internal/glr,
// internal/bytecode, and internal/syscall (grounded on cmd/dwscript).
package main

import (
	"fmt"
	"os"

	"github.com/basiclang/qbvm/cmd/qbasic/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
