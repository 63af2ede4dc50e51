// Package syscall implements the BASIC dialect's built-in functions
// and subroutines: console I/O, string and
// math intrinsics, DATA/INPUT, and sprite/audio device calls. Each
// routine is installed into the bytecode package's syscall registry by
// Install, which callers (cmd/qbasic, tests) run once before compiling
// or executing a program.
package syscall

import (
	"math/rand"
	"time"

	"github.com/basiclang/qbvm/internal/bytecode"
	"github.com/basiclang/qbvm/internal/types"
)

// Install registers every syscall routine into the bytecode package's
// process-wide registry. Re-registration overwrites, so calling Install
// twice is harmless but wasted work; callers typically guard it with a
// sync.Once.
func Install() {
	installMath()
	installStrings()
	installIO()
	installFiles()
	installSprite()
}

func arg(args []interface{}, i int) types.Value {
	if i >= len(args) {
		return types.Value{}
	}
	return bytecode.ValueOf(args[i])
}

func strArg(args []interface{}, i int) string  { return arg(args, i).S }
func numArg(args []interface{}, i int) float64 { return arg(args, i).Float() }
func intArg(args []interface{}, i int) int64   { return arg(args, i).Int() }

func intResult(i int64) types.Value    { return types.Value{Type: types.IntegerType, I: i} }
func longResult(i int64) types.Value   { return types.Value{Type: types.LongType, I: i} }
func doubleResult(f float64) types.Value { return types.Value{Type: types.DoubleType, F: f} }
func stringResult(s string) types.Value  { return types.Value{Type: types.StringType, S: s} }

// seededRand backs RND/RANDOMIZE: RANDOMIZE reseeds it, RND advances
// it.
var seededRand = rand.New(rand.NewSource(1))

var startTime = time.Now()
