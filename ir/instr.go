package ir

// Op enumerates the instruction opcodes the node compiler ever emits.
type Op int

const (
	OpAlloca Op = iota
	OpLoad
	OpStore
	OpAdd
	OpSub
	OpMul
	OpSDiv
	OpFAdd
	OpFSub
	OpFMul
	OpFDiv
	OpICmpEQ
	OpICmpNE
	OpICmpLT
	OpICmpGT
	OpFCmpLT
	OpFCmpGT
	OpCall
	OpBr
	OpCondBr
	OpRet
	OpRetVoid
)

var opNames = map[Op]string{
	OpAlloca: "alloca", OpLoad: "load", OpStore: "store",
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpSDiv: "sdiv",
	OpFAdd: "fadd", OpFSub: "fsub", OpFMul: "fmul", OpFDiv: "fdiv",
	OpICmpEQ: "icmp eq", OpICmpNE: "icmp ne", OpICmpLT: "icmp slt", OpICmpGT: "icmp sgt",
	OpFCmpLT: "fcmp olt", OpFCmpGT: "fcmp ogt",
	OpCall: "call", OpBr: "br", OpCondBr: "br", OpRet: "ret", OpRetVoid: "ret void",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return "unknown"
}

// DebugLoc is the source location attached to an instruction, used purely
// so a stepping debugger lands on distinct lines (spec §4.J).
type DebugLoc struct {
	Line   int
	Column int
}

// Instr is one IR instruction. Terminators (Br, CondBr, Ret, RetVoid) carry
// their target blocks in Targets instead of Operands.
type Instr struct {
	Op       Op
	Result   Value
	Operands []Value
	Targets  []*Block
	Callee   string
	Loc      DebugLoc
}

// IsTerminator reports whether this instruction ends a basic block.
func (i Instr) IsTerminator() bool {
	switch i.Op {
	case OpBr, OpCondBr, OpRet, OpRetVoid:
		return true
	default:
		return false
	}
}
