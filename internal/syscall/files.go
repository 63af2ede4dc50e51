package syscall

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/basiclang/qbvm/internal/bytecode"
	"github.com/basiclang/qbvm/internal/types"
)

// writeRecord renders one WRITE# value: strings quoted, numbers in
// their plain form with no sign column (unlike PRINT's formatItem).
func writeRecord(v types.Value) string {
	if v.Type.Kind == types.String {
		return `"` + v.S + `"`
	}
	return strings.TrimSpace(formatItem(v))
}

// readField pulls the next comma- or newline-delimited field from r,
// honoring double-quoted strings the way WRITE# produces them.
func readField(r *bufio.Reader) (string, error) {
	var b strings.Builder
	for {
		c, err := r.ReadByte()
		if err == io.EOF && b.Len() > 0 {
			return b.String(), nil
		}
		if err != nil {
			return "", err
		}
		switch c {
		case ' ', '\t', '\r':
			if b.Len() > 0 {
				b.WriteByte(c)
			}
		case ',', '\n':
			return strings.TrimRight(b.String(), " \t\r"), nil
		case '"':
			for {
				c, err = r.ReadByte()
				if err != nil || c == '"' {
					break
				}
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}
}

func installFiles() {
	bytecode.RegisterSyscall("OPEN", &bytecode.SyscallEntry{
		MinArgs: 3, ArgTypes: []*types.Type{types.StringType, types.StringType, nil},
		Call: func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
			path := strArg(args, 0)
			mode := strArg(args, 1)
			num := int(intArg(args, 2))

			var of bytecode.OpenFile
			var err error
			switch mode {
			case "OUTPUT":
				of.F, err = os.Create(path)
			case "APPEND":
				of.F, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			case "INPUT":
				of.F, err = os.Open(path)
				if err == nil {
					of.R = bufio.NewReader(of.F)
				}
			default:
				return types.Value{}, fmt.Errorf("OPEN: unknown mode %q", mode)
			}
			if err != nil {
				return types.Value{}, err
			}
			return types.Value{}, vm.OpenChannel(num, &of)
		},
	})

	bytecode.RegisterSyscall("CLOSE", &bytecode.SyscallEntry{
		Variadic: true, MinArgs: 0, ArgTypes: []*types.Type{nil},
		Call: func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
			if len(args) == 0 {
				vm.CloseAllChannels()
				return types.Value{}, nil
			}
			return types.Value{}, vm.CloseChannel(int(intArg(args, 0)))
		},
	})

	bytecode.RegisterSyscall("WRITE#", &bytecode.SyscallEntry{
		Variadic: true, MinArgs: 1, ArgTypes: []*types.Type{nil},
		Call: func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
			f, err := vm.Channel(int(intArg(args, 0)))
			if err != nil {
				return types.Value{}, err
			}
			if f.R != nil {
				return types.Value{}, fmt.Errorf("WRITE# to a file opened for INPUT")
			}
			fields := make([]string, 0, len(args)-1)
			for i := 1; i < len(args); i++ {
				fields = append(fields, writeRecord(arg(args, i)))
			}
			_, err = f.F.WriteString(strings.Join(fields, ",") + "\n")
			return types.Value{}, err
		},
	})

	bytecode.RegisterSyscall("INPUT#", &bytecode.SyscallEntry{
		MinArgs: 2, ArgTypes: []*types.Type{nil, nil}, RefArgs: []int{1},
		Call: func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
			f, err := vm.Channel(int(intArg(args, 0)))
			if err != nil {
				return types.Value{}, err
			}
			if f.R == nil {
				return types.Value{}, fmt.Errorf("INPUT# from a file not opened for INPUT")
			}
			ref, ok := args[1].(bytecode.CellRef)
			if !ok {
				return types.Value{}, fmt.Errorf("INPUT# target is not a variable")
			}
			field, err := readField(f.R)
			if err != nil {
				return types.Value{}, fmt.Errorf("INPUT# past end of file #%d", int(intArg(args, 0)))
			}
			return types.Value{}, assignTyped(ref, field)
		},
	})
}
