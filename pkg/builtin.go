package pile

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// declarePrintf declares the variadic C printf used by dump's
// debug-print lowering. The emitter declares it lazily, the first
// time a program actually calls dump.
func declarePrintf(mod *ir.Module) *ir.Func {
	f := mod.NewFunc("printf", types.I32, ir.NewParam("format", types.NewPointer(types.I8)))
	f.Sig.Variadic = true

	return f
}
