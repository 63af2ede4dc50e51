package cmd

import (
	"fmt"

	"github.com/basiclang/qbvm/internal/bytecode"
	qerrors "github.com/basiclang/qbvm/internal/errors"
	"github.com/spf13/cobra"
)

var compileDisassemble bool

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a BASIC file to bytecode",
	Long: `Compile a BASIC program to bytecode and print a summary.

Pass --disassemble to print the full disassembly instead of just a
summary.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().BoolVar(&compileDisassemble, "disassemble", false, "print the disassembled bytecode")
}

func runCompile(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(args)
	if err != nil {
		return err
	}

	prog, compileErr := compileSource(input, filename)
	if compileErr != nil {
		return compileErr
	}

	if compileDisassemble {
		fmt.Print(bytecode.Disassemble(prog))
		return nil
	}

	fmt.Printf("Compiled %s: %d instruction(s), %d data value(s)\n",
		filename, len(prog.Instructions), len(prog.Data))
	return nil
}

// compileSource runs the full front end (parse + codegen) and renders
// any compiler errors the way internal/errors.FormatErrors does.
func compileSource(input, filename string) (*bytecode.CompiledProgram, error) {
	program, err := parseProgram(input)
	if err != nil {
		return nil, fmt.Errorf("parsing %s failed: %w", filename, err)
	}

	prog, errs := bytecode.Compile(program, input)
	if len(errs) > 0 {
		return nil, fmt.Errorf("%s", qerrors.FormatErrors(errs))
	}
	return prog, nil
}
