package cmd

import (
	"fmt"
	"sync"
	"time"

	"github.com/basiclang/qbvm/internal/bytecode"
	"github.com/basiclang/qbvm/internal/syscall"
	"github.com/spf13/cobra"
)

var (
	runQuantum  int
	runTestMode bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Compile and run a BASIC file",
	Long: `Compile a BASIC program and execute it to completion, printing its
console output to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runQuantum, "quantum", 0, "instructions per scheduler tick (0: run without a per-tick limit)")
	runCmd.Flags().BoolVar(&runTestMode, "test-mode", false, "mark the program as a test run (devices may skip timing-dependent behavior)")
}

var installSyscalls sync.Once

func runScript(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(args)
	if err != nil {
		return err
	}

	prog, err := compileSource(input, filename)
	if err != nil {
		return err
	}

	installSyscalls.Do(syscall.Install)

	prog.TestMode = runTestMode
	vm := bytecode.NewVM(prog, newStdioConsole(), stdioAudio{})
	if err := drive(vm); err != nil {
		return err
	}
	return nil
}

// drive runs vm to completion, handling the cooperative-suspension
// syscalls (SLEEP/YIELD/SYSTEM) the way a scheduler host would: a
// suspended VM with no error event just means "wait, then continue";
// this single-program driver has nothing else to schedule in the
// meantime, so it sleeps for PendingSleep and resumes immediately
// otherwise.
func drive(vm *bytecode.VM) error {
	for {
		n := runQuantum
		if n <= 0 {
			if err := vm.Run(); err != nil {
				return &runtimeFailure{err}
			}
		} else if err := vm.RunQuantum(n); err != nil {
			return &runtimeFailure{err}
		}

		if vm.ErrEvent != nil {
			return &runtimeFailure{vm.ErrEvent}
		}
		if !vm.Suspended {
			return nil
		}

		if vm.PendingSleep > 0 {
			time.Sleep(time.Duration(vm.PendingSleep * float64(time.Second)))
			vm.PendingSleep = 0
		}
		vm.Resume()
	}
}

type runtimeFailure struct{ err error }

func (f *runtimeFailure) Error() string { return fmt.Sprintf("runtime error: %s", f.err) }
func (f *runtimeFailure) Unwrap() error { return f.err }
