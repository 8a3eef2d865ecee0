package peitho

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

func defineBuiltins(b *LLVMIRBuilder) {
	b.printf = b.mod.NewFunc("printf", types.I32, ir.NewParam("format", types.I8Ptr))
	b.printf.Sig.Variadic = true

	defineBuiltinFunc(b, kindInt, builtinPrint("print_int", "%d\n", types.I32))
	defineBuiltinFunc(b, kindFloat, builtinPrint("print_float", "%g\n", types.Double))
	defineBuiltinFunc(b, kindString, builtinPrint("print_string", "%s\n", types.I8Ptr))
	defineBuiltinFunc(b, kindBool, builtinPrintBool)
}

type funcDefinition = func(b *LLVMIRBuilder) *ir.Func

func defineBuiltinFunc(b *LLVMIRBuilder, kind loweredKind, definition funcDefinition) {
	b.prints[kind] = definition(b)
}

func builtinPrint(name, format string, param types.Type) funcDefinition {
	return func(b *LLVMIRBuilder) *ir.Func {
		f := b.mod.NewFunc(name, types.Void, ir.NewParam("v", param))
		entry := f.NewBlock("")

		entry.NewCall(b.printf, b.globalString(format), f.Params[0])
		entry.NewRet(nil)

		return f
	}
}

func builtinPrintBool(b *LLVMIRBuilder) *ir.Func {
	f := b.mod.NewFunc("print_bool", types.Void, ir.NewParam("v", types.I1))
	entry := f.NewBlock("")

	text := entry.NewSelect(f.Params[0], b.globalString("true"), b.globalString("false"))
	entry.NewCall(b.printf, b.globalString("%s\n"), text)
	entry.NewRet(nil)

	return f
}
