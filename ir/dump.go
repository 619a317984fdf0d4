package ir

import (
	"fmt"
	"strings"
)

// Dump renders f as readable pseudo-LLVM-IR text, attached to EIRVerify
// diagnostics so a failure is debuggable without a real LLVM toolchain.
func Dump(f *Function) string {
	var b strings.Builder

	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("%s %%%s", p.Type.Name, p.Name)
	}
	fmt.Fprintf(&b, "define %s @%s(%s) {\n", f.ReturnType.Name, f.Name, strings.Join(params, ", "))

	for _, blk := range f.Blocks {
		fmt.Fprintf(&b, "%s:\n", blk.Name)
		for _, instr := range blk.Instrs {
			dumpInstr(&b, instr)
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func dumpInstr(b *strings.Builder, instr Instr) {
	loc := ""
	if instr.Loc.Line != 0 {
		loc = fmt.Sprintf(" ; line %d", instr.Loc.Line)
	}

	switch instr.Op {
	case OpBr:
		fmt.Fprintf(b, "  br label %%%s%s\n", instr.Targets[0].Name, loc)
	case OpCondBr:
		fmt.Fprintf(b, "  br i1 %s, label %%%s, label %%%s%s\n",
			instr.Operands[0], instr.Targets[0].Name, instr.Targets[1].Name, loc)
	case OpRet:
		parts := make([]string, len(instr.Operands))
		for i, v := range instr.Operands {
			parts[i] = fmt.Sprintf("%s %s", v.Type.Name, v)
		}
		fmt.Fprintf(b, "  ret %s%s\n", strings.Join(parts, ", "), loc)
	case OpRetVoid:
		fmt.Fprintf(b, "  ret void%s\n", loc)
	case OpCall:
		args := make([]string, len(instr.Operands))
		for i, v := range instr.Operands {
			args[i] = fmt.Sprintf("%s %s", v.Type.Name, v)
		}
		fmt.Fprintf(b, "  %s = call %s @%s(%s)%s\n", instr.Result, instr.Result.Type.Name, instr.Callee, strings.Join(args, ", "), loc)
	case OpStore:
		fmt.Fprintf(b, "  store %s %s, %s %s%s\n", instr.Operands[0].Type.Name, instr.Operands[0], instr.Operands[1].Type.Name, instr.Operands[1], loc)
	case OpAlloca:
		fmt.Fprintf(b, "  %s = alloca%s\n", instr.Result, loc)
	default:
		args := make([]string, len(instr.Operands))
		for i, v := range instr.Operands {
			args[i] = v.String()
		}
		fmt.Fprintf(b, "  %s = %s %s%s\n", instr.Result, instr.Op, strings.Join(args, ", "), loc)
	}
}
