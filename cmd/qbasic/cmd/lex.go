package cmd

import (
	"fmt"

	"github.com/basiclang/qbvm/internal/lexer"
	"github.com/spf13/cobra"
)

var (
	lexShowPos bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a BASIC file and print the resulting tokens",
	Long: `Tokenize (lex) a BASIC program and print the resulting tokens.

Useful for debugging the lexer and seeing how source text is split into
the terminal symbols the grammar consumes.`,
	Args: cobra.ExactArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show each token's line:column")
}

func lexScript(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(args)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Printf("Tokenizing: %s\n", filename)
	}

	l := lexer.New(input)
	count := 0
	for {
		tok := l.Next()
		count++
		if lexShowPos {
			fmt.Printf("%-10s %-20q @%s\n", tok.ID, tok.Text, tok.Locus)
		} else {
			fmt.Printf("%-10s %q\n", tok.ID, tok.Text)
		}
		if tok.IsEOF() {
			break
		}
		if tok.ID == lexer.Bad {
			return fmt.Errorf("bad character at %s", tok.Locus)
		}
	}

	if verbose {
		fmt.Printf("Total tokens: %d\n", count)
	}
	return nil
}
