package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "qbasic",
	Short: "QBasic-dialect lexer, parser, compiler, and VM",
	Long: `qbasic is a from-scratch implementation of a QBasic-compatible BASIC
dialect: a GLR-parsed front end, a bytecode compiler, and a cooperative
virtual machine.

It is a reference driver over the engine packages, not the engine
itself; every subcommand just wires lexer/grammar/glr/bytecode/syscall
together the way an embedder would.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}

func readSource(args []string) (string, string, error) {
	if len(args) != 1 {
		return "", "", fmt.Errorf("expected exactly one file argument")
	}
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return "", "", fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return string(content), filename, nil
}
