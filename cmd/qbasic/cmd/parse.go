package cmd

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/basiclang/qbvm/internal/ast"
	"github.com/basiclang/qbvm/internal/glr"
	"github.com/basiclang/qbvm/internal/grammar"
	"github.com/basiclang/qbvm/internal/lexer"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a BASIC file and display its AST",
	Long: `Parse a BASIC program through the GLR engine and print its parsed
abstract syntax tree.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(args)
	if err != nil {
		return err
	}

	program, perr := parseProgram(input)
	if perr != nil {
		return fmt.Errorf("parsing %s failed: %w", filename, perr)
	}

	fmt.Printf("Program (%d statements)\n", len(program.Statements))
	dumpNode(reflect.ValueOf(program), 1)
	return nil
}

// parseProgram runs the full lex+GLR-parse pipeline, shared by the
// parse and compile subcommands.
func parseProgram(input string) (*ast.Program, error) {
	g := grammar.BasicGrammar()
	p := glr.New(g)
	result, ok := p.Parse(lexer.New(input))
	if !ok {
		if len(p.Errors) > 0 {
			e := p.Errors[0]
			return nil, fmt.Errorf("%s at %s", e.Message, e.Locus)
		}
		return nil, fmt.Errorf("parse failed")
	}
	program, ok := result.(*ast.Program)
	if !ok {
		return nil, fmt.Errorf("parser did not yield a *ast.Program (got %T)", result)
	}
	return program, nil
}

// dumpNode recursively prints a parsed value's structure, walking only
// exported fields; it is deliberately type-agnostic (the AST has dozens
// of node kinds) rather than a type switch enumerating every one.
func dumpNode(v reflect.Value, indent int) {
	prefix := strings.Repeat("  ", indent)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			dumpNode(v.Index(i), indent)
		}
	case reflect.Struct:
		t := v.Type()
		fmt.Printf("%s%s\n", prefix, t.Name())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || f.Name == "Locus" {
				continue
			}
			fv := v.Field(i)
			if isNodeish(fv) {
				fmt.Printf("%s  %s:\n", prefix, f.Name)
				dumpNode(fv, indent+2)
			} else {
				fmt.Printf("%s  %s: %v\n", prefix, f.Name, fv.Interface())
			}
		}
	default:
		fmt.Printf("%s%v\n", prefix, v.Interface())
	}
}

// isNodeish reports whether a field is worth recursing into rather than
// printing with %v: anything implementing ast.Node, or a slice of such.
func isNodeish(v reflect.Value) bool {
	nodeType := reflect.TypeOf((*ast.Node)(nil)).Elem()
	t := v.Type()
	if t.Implements(nodeType) {
		return true
	}
	if t.Kind() == reflect.Slice && t.Elem().Implements(nodeType) {
		return true
	}
	return false
}
