package syscall

import (
	"strconv"
	"strings"

	"github.com/basiclang/qbvm/internal/bytecode"
	"github.com/basiclang/qbvm/internal/types"
)

func installStrings() {
	strFn := func(name string, minArgs int, argTypes []*types.Type, call func(args []interface{}) (types.Value, error)) {
		bytecode.RegisterSyscall(name, &bytecode.SyscallEntry{
			IsFunction: true, MinArgs: minArgs, ArgTypes: argTypes,
			Call: func(vm *bytecode.VM, args []interface{}) (types.Value, error) { return call(args) },
		})
	}

	strFn("CHR$", 1, []*types.Type{nil}, func(args []interface{}) (types.Value, error) {
		return stringResult(string(rune(intArg(args, 0)))), nil
	})
	strFn("ASC", 1, []*types.Type{types.StringType}, func(args []interface{}) (types.Value, error) {
		s := strArg(args, 0)
		if s == "" {
			return intResult(0), nil
		}
		return intResult(int64(s[0])), nil
	})
	strFn("STR$", 1, []*types.Type{nil}, func(args []interface{}) (types.Value, error) {
		v := arg(args, 0)
		var s string
		if v.Type.Kind == types.Integer || v.Type.Kind == types.Long {
			s = strconv.FormatInt(v.Int(), 10)
		} else {
			s = strconv.FormatFloat(v.Float(), 'g', -1, 64)
		}
		if !strings.HasPrefix(s, "-") {
			s = " " + s // QBasic reserves the sign column for non-negatives
		}
		return stringResult(s), nil
	})
	strFn("VAL", 1, []*types.Type{types.StringType}, func(args []interface{}) (types.Value, error) {
		s := strings.TrimSpace(strArg(args, 0))
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return doubleResult(f), nil
		}
		return doubleResult(0), nil
	})
	strFn("LEN", 1, []*types.Type{nil}, func(args []interface{}) (types.Value, error) {
		return intResult(int64(len(strArg(args, 0)))), nil
	})
	strFn("LEFT$", 2, []*types.Type{types.StringType, nil}, func(args []interface{}) (types.Value, error) {
		s, n := strArg(args, 0), int(intArg(args, 1))
		if n < 0 {
			n = 0
		}
		if n > len(s) {
			n = len(s)
		}
		return stringResult(s[:n]), nil
	})
	strFn("RIGHT$", 2, []*types.Type{types.StringType, nil}, func(args []interface{}) (types.Value, error) {
		s, n := strArg(args, 0), int(intArg(args, 1))
		if n < 0 {
			n = 0
		}
		if n > len(s) {
			n = len(s)
		}
		return stringResult(s[len(s)-n:]), nil
	})
	bytecode.RegisterSyscall("MID$", &bytecode.SyscallEntry{
		IsFunction: true, Variadic: true, MinArgs: 2,
		ArgTypes: []*types.Type{types.StringType, nil, nil},
		Call: func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
			s := strArg(args, 0)
			start := int(intArg(args, 1)) - 1 // BASIC's MID$ is 1-based
			if start < 0 {
				start = 0
			}
			if start > len(s) {
				start = len(s)
			}
			n := len(s) - start
			if len(args) >= 3 {
				if m := int(intArg(args, 2)); m < n {
					n = m
				}
			}
			if n < 0 {
				n = 0
			}
			return stringResult(s[start : start+n]), nil
		},
	})
	strFn("LCASE$", 1, []*types.Type{types.StringType}, func(args []interface{}) (types.Value, error) {
		return stringResult(strings.ToLower(strArg(args, 0))), nil
	})
	strFn("UCASE$", 1, []*types.Type{types.StringType}, func(args []interface{}) (types.Value, error) {
		return stringResult(strings.ToUpper(strArg(args, 0))), nil
	})
	strFn("SPACE$", 1, []*types.Type{nil}, func(args []interface{}) (types.Value, error) {
		n := int(intArg(args, 0))
		if n < 0 {
			n = 0
		}
		return stringResult(strings.Repeat(" ", n)), nil
	})
	bytecode.RegisterSyscall("STRING$", &bytecode.SyscallEntry{
		IsFunction: true, MinArgs: 2, ArgTypes: []*types.Type{nil, nil},
		Call: func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
			n := int(intArg(args, 0))
			if n < 0 {
				n = 0
			}
			fillVal := arg(args, 1)
			var ch byte
			if fillVal.Type.Kind == types.String && fillVal.S != "" {
				ch = fillVal.S[0]
			} else {
				ch = byte(fillVal.Int())
			}
			return stringResult(strings.Repeat(string(ch), n)), nil
		},
	})
	bytecode.RegisterSyscall("INSTR", &bytecode.SyscallEntry{
		IsFunction: true, Variadic: true, MinArgs: 2,
		ArgTypes: []*types.Type{nil, types.StringType, types.StringType},
		Call: func(vm *bytecode.VM, args []interface{}) (types.Value, error) {
			start := 0
			hayIdx, needleIdx := 0, 1
			if len(args) >= 3 {
				start = int(intArg(args, 0)) - 1
				hayIdx, needleIdx = 1, 2
			}
			if start < 0 {
				start = 0
			}
			hay, needle := strArg(args, hayIdx), strArg(args, needleIdx)
			if start > len(hay) {
				return intResult(0), nil
			}
			idx := strings.Index(hay[start:], needle)
			if idx < 0 {
				return intResult(0), nil
			}
			return intResult(int64(start + idx + 1)), nil
		},
	})
}
