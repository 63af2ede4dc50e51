package syscall

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/basiclang/qbvm/internal/bytecode"
	"github.com/basiclang/qbvm/internal/types"
)

const (
	sepNewline   = 0
	sepComma     = 1
	sepSemicolon = 2

	// tabItemFlag mirrors internal/bytecode/compiler_statements.go's
	// constant of the same name: added to a pair's sepcode to mark that
	// pair's value as a TAB(n) column target instead of printable
	// content.
	tabItemFlag = 10
)

// formatItem renders one PRINT operand the way QBasic's default
// numeric formatting does: a leading space standing in for the sign
// column on non-negative numbers, and the value's natural string form
// otherwise.
func formatItem(v types.Value) string {
	switch v.Type.Kind {
	case types.String:
		return v.S
	case types.Integer, types.Long:
		s := strconv.FormatInt(v.Int(), 10)
		if !strings.HasPrefix(s, "-") {
			s = " " + s
		}
		return s + " "
	default:
		s := strconv.FormatFloat(v.Float(), 'g', -1, 64)
		if !strings.HasPrefix(s, "-") {
			s = " " + s
		}
		return s + " "
	}
}

// padToTabStop extends s with spaces to the next 14-column print zone,
// the comma separator's behavior.
func padToTabStop(s string) string {
	if col := len(s) % 14; col != 0 {
		s += strings.Repeat(" ", 14-col)
	}
	return s
}

// applyTerminator finishes one PRINT statement's rendered text per its
// final separator: ',' pads to the next print zone, ';' suppresses the
// newline, anything else appends one.
func applyTerminator(s string, sep int64) string {
	switch sep {
	case sepComma:
		return padToTabStop(s)
	case sepSemicolon:
		return s
	default:
		return s + "\n"
	}
}

// renderPrintItems walks the flat (value, sepcode) pairs a PRINT
// instruction receives and renders each item, honoring comma (tab to
// the next print zone), semicolon (no separator), and the final
// separator's terminator behavior.
func renderPrintItems(con bytecode.Console, pairs []interface{}) {
	out := ""
	last := int64(sepNewline)
	for i := 0; i+1 < len(pairs); i += 2 {
		v := bytecode.ValueOf(pairs[i])
		sep := bytecode.ValueOf(pairs[i+1]).Int()

		if sep >= tabItemFlag {
			sep -= tabItemFlag
			if col := int(v.Int()); col > len(out) {
				out += strings.Repeat(" ", col-len(out))
			}
		} else {
			out += formatItem(v)
		}

		if i+2 < len(pairs) {
			if sep == sepComma {
				out = padToTabStop(out)
			}
		} else {
			last = sep
		}
	}
	con.Print(applyTerminator(out, last))
}

func installIO() {
	bytecode.RegisterSyscall("PRINT", &bytecode.SyscallEntry{
		Variadic: true, MinArgs: 0, ArgTypes: []*types.Type{nil},
		Call: func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
			renderPrintItems(vm.Console, args)
			return types.Value{}, nil
		},
	})

	bytecode.RegisterSyscall("PRINT_USING", &bytecode.SyscallEntry{
		Variadic: true, MinArgs: 1, ArgTypes: []*types.Type{types.StringType},
		Call: func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
			if len(args) == 0 {
				return types.Value{}, nil
			}
			format := strArg(args, 0)
			pairs := args[1:]
			body, err := formatUsing(format, pairs)
			if err != nil {
				return types.Value{}, err
			}
			last := int64(sepNewline)
			if len(pairs) >= 2 {
				last = bytecode.ValueOf(pairs[len(pairs)-1]).Int()
				if last >= tabItemFlag {
					last -= tabItemFlag
				}
			}
			vm.Console.Print(applyTerminator(body, last))
			return types.Value{}, nil
		},
	})

	bytecode.RegisterSyscall("INPUT", &bytecode.SyscallEntry{
		MinArgs: 2, ArgTypes: []*types.Type{types.StringType, nil}, RefArgs: []int{1},
		Call: func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
			prompt := strArg(args, 0)
			if prompt != "" {
				vm.Console.Print(prompt)
			}
			ref, ok := args[1].(bytecode.CellRef)
			if !ok {
				return types.Value{}, fmt.Errorf("INPUT target is not a variable")
			}
			line, open := <-vm.Console.Input()
			if !open {
				return types.Value{}, nil
			}
			return types.Value{}, assignTyped(ref, line)
		},
	})

	bytecode.RegisterSyscall("READ", &bytecode.SyscallEntry{
		MinArgs: 1, ArgTypes: []*types.Type{nil}, RefArgs: []int{0},
		Call: func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
			ref, ok := args[0].(bytecode.CellRef)
			if !ok {
				return types.Value{}, fmt.Errorf("READ target is not a variable")
			}
			v, err := vm.NextData()
			if err != nil {
				return types.Value{}, err
			}
			if v == nil {
				return types.Value{}, nil // `DATA ,,` hole: leave the variable at its default
			}
			return types.Value{}, ref.Set(*v)
		},
	})

	bytecode.RegisterSyscall("SWAP", &bytecode.SyscallEntry{
		MinArgs: 2, ArgTypes: []*types.Type{nil, nil}, RefArgs: []int{0, 1},
		Call: func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
			a, aok := args[0].(bytecode.CellRef)
			b, bok := args[1].(bytecode.CellRef)
			if !aok || !bok {
				return types.Value{}, fmt.Errorf("SWAP arguments must be variables")
			}
			av, bv := a.Get(), b.Get()
			if err := a.Set(bv); err != nil {
				return types.Value{}, err
			}
			return types.Value{}, b.Set(av)
		},
	})

	sub := func(name string, minArgs int, argTypes []*types.Type, call func(vm *bytecode.VM, args []interface{}) error) {
		bytecode.RegisterSyscall(name, &bytecode.SyscallEntry{
			MinArgs: minArgs, ArgTypes: argTypes,
			Call: func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
				return types.Value{}, call(vm, args)
			},
		})
	}

	sub("CLS", 0, nil, func(vm *bytecode.VM, args []interface{}) error {
		vm.Console.Cls()
		return nil
	})
	sub("LOCATE", 2, []*types.Type{nil, nil}, func(vm *bytecode.VM, args []interface{}) error {
		vm.Console.Locate(int(intArg(args, 0)), int(intArg(args, 1)))
		return nil
	})
	bytecode.RegisterSyscall("COLOR", &bytecode.SyscallEntry{
		Variadic: true, MinArgs: 1, ArgTypes: []*types.Type{nil, nil, nil},
		Call: func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
			fg := int(intArg(args, 0))
			var bg, border *int
			if len(args) >= 2 {
				v := int(intArg(args, 1))
				bg = &v
			}
			if len(args) >= 3 {
				v := int(intArg(args, 2))
				border = &v
			}
			vm.Console.Color(fg, bg, border)
			return types.Value{}, nil
		},
	})
	sub("SCREEN", 1, []*types.Type{nil}, func(vm *bytecode.VM, args []interface{}) error {
		vm.Console.Screen(int(intArg(args, 0)))
		return nil
	})
	sub("WIDTH", 2, []*types.Type{nil, nil}, func(vm *bytecode.VM, args []interface{}) error {
		vm.Console.Width(int(intArg(args, 0)), int(intArg(args, 1)))
		return nil
	})
	bytecode.RegisterSyscall("INKEY$", &bytecode.SyscallEntry{
		IsFunction: true,
		Call: func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
			key := vm.Console.GetKeyFromBuffer()
			if key <= 0 {
				return stringResult(""), nil
			}
			return stringResult(string(rune(key))), nil
		},
	})
	sub("BEEP", 0, nil, func(vm *bytecode.VM, args []interface{}) error { return nil })
	// SLEEP with no argument leaves PendingSleep = 0, the same state
	// YIELD leaves; cmd/qbasic's drive loop then resumes at once and
	// does not wait for a keypress.
	bytecode.RegisterSyscall("SLEEP", &bytecode.SyscallEntry{
		Variadic: true, MinArgs: 0, ArgTypes: []*types.Type{nil},
		Call: func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
			vm.PendingSleep = 0
			if len(args) > 0 {
				vm.PendingSleep = numArg(args, 0)
			}
			vm.Suspend()
			return types.Value{}, nil
		},
	})
	sub("YIELD", 0, nil, func(vm *bytecode.VM, args []interface{}) error {
		vm.Suspend()
		return nil
	})
	sub("SYSTEM", 0, nil, func(vm *bytecode.VM, args []interface{}) error {
		vm.Suspend()
		return nil
	})
	sub("PLAY", 1, []*types.Type{types.StringType}, func(vm *bytecode.VM, args []interface{}) error {
		<-vm.Audio.PlayMusic(strArg(args, 0), false)
		return nil
	})
	sub("BGMPLAY", 1, []*types.Type{types.StringType}, func(vm *bytecode.VM, args []interface{}) error {
		vm.Audio.PlayMusic(strArg(args, 0), true)
		return nil
	})
	sub("BGMSTOP", 0, nil, func(vm *bytecode.VM, args []interface{}) error {
		vm.Audio.StopMusic()
		return nil
	})
}

// assignTyped parses a raw INPUT line against the target's current
// type (numeric targets parse the text, string targets take it
// verbatim) and assigns it.
func assignTyped(ref bytecode.CellRef, line string) error {
	cur := ref.Get()
	line = strings.TrimSpace(line)
	if cur.Type.Kind == types.String {
		return ref.Set(types.Value{Type: cur.Type, S: line})
	}
	f, err := strconv.ParseFloat(line, 64)
	if err != nil {
		f = 0
	}
	return ref.Set(types.Value{Type: cur.Type, F: f, I: int64(f)})
}

// formatUsing applies a PRINT USING format string against the supplied
// (value, sepcode) pairs: a run of '#' with embedded ',' and an
// optional '.' decimal part delimits one numeric field, '&'
// substitutes the next item as text, and any other character is
// emitted verbatim. A non-numeric item reaching a numeric field is a
// type mismatch that terminates formatting.
func formatUsing(format string, pairs []interface{}) (string, error) {
	var out strings.Builder
	items := make([]types.Value, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		items = append(items, bytecode.ValueOf(pairs[i]))
	}
	idx := 0
	runes := []rune(format)
	for i := 0; i < len(runes); {
		switch runes[i] {
		case '#':
			j := i
			for j < len(runes) && (runes[j] == '#' || runes[j] == ',') {
				j++
			}
			if j < len(runes) && runes[j] == '.' {
				j++
				for j < len(runes) && runes[j] == '#' {
					j++
				}
			}
			if idx < len(items) {
				v := items[idx]
				if !v.Type.IsNumeric() {
					return "", fmt.Errorf("PRINT USING: type mismatch for field %q", string(runes[i:j]))
				}
				out.WriteString(formatNumericField(string(runes[i:j]), v.Float()))
				idx++
			}
			i = j
		case '&':
			if idx < len(items) {
				v := items[idx]
				if v.Type.Kind == types.String {
					out.WriteString(v.S)
				} else {
					out.WriteString(strings.TrimSpace(formatItem(v)))
				}
				idx++
			}
			i++
		default:
			out.WriteRune(runes[i])
			i++
		}
	}
	return out.String(), nil
}

// formatNumericField renders v into one numeric field: the value is
// stringified (rounded to the field's decimal count), comma-grouped
// when the field embeds ',', and right-aligned within the integer
// part's width; overflow truncates leading characters.
func formatNumericField(field string, v float64) string {
	intField, fracField, hasDot := strings.Cut(field, ".")
	decimals := 0
	if hasDot {
		decimals = strings.Count(fracField, "#")
	}

	s := strconv.FormatFloat(v, 'f', decimals, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")
	if strings.ContainsRune(intField, ',') {
		intPart = groupThousands(intPart)
	}

	if width := len(intField); len(intPart) < width {
		intPart = strings.Repeat(" ", width-len(intPart)) + intPart
	} else if len(intPart) > width {
		intPart = intPart[len(intPart)-width:]
	}

	if decimals > 0 {
		return intPart + "." + fracPart
	}
	return intPart
}

// groupThousands inserts ',' every three digits from the right,
// leaving a leading sign alone.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return sign + s
}
