package cinder

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// Builtins are declared in every module and can be called like any function
// defined in the source. printf is reserved so it cannot be redefined.
func defineBuiltins(b *LLVMIRBuilder) {
	printf := b.mod.NewFunc("printf", types.I32, ir.NewParam("format", types.I8Ptr))
	printf.Sig.Variadic = true
	b.funcs["printf"] = printf

	defineBuiltinFunc(b, "print", builtinPrint(printf))
	defineBuiltinFunc(b, "printFloat", builtinPrintFloat(printf))
}

type funcDefinition = func(mod *ir.Module) *ir.Func

func defineBuiltinFunc(b *LLVMIRBuilder, name string, definition funcDefinition) {
	f := definition(b.mod)
	f.SetName(name)
	b.funcs[name] = f
}

// formatString stores a NUL terminated printf format as a private global and
// returns a pointer to its first byte.
func formatString(mod *ir.Module, name, format string) constant.Constant {
	zero := constant.NewInt(types.I32, 0)

	data := constant.NewCharArrayFromString(format + "\x00")
	glob := mod.NewGlobalDef(name, data)
	glob.Immutable = true

	return constant.NewGetElementPtr(data.Typ, glob, zero, zero)
}

func builtinPrint(printf *ir.Func) funcDefinition {
	return func(mod *ir.Module) *ir.Func {
		f := mod.NewFunc("", types.Void, ir.NewParam("v", types.I32))
		b := f.NewBlock("")

		fmtAddr := formatString(mod, "._print_fmt", "%d\n")
		b.NewCall(printf, fmtAddr, f.Params[0])

		b.NewRet(nil)

		return f
	}
}

func builtinPrintFloat(printf *ir.Func) funcDefinition {
	return func(mod *ir.Module) *ir.Func {
		f := mod.NewFunc("", types.Void, ir.NewParam("v", types.Float))
		b := f.NewBlock("")

		fmtAddr := formatString(mod, "._print_float_fmt", "%f\n")

		// Variadic arguments are promoted to double
		wide := b.NewFPExt(f.Params[0], types.Double)
		b.NewCall(printf, fmtAddr, wide)

		b.NewRet(nil)

		return f
	}
}
