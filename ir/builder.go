package ir

// Builder emits instructions into one Block of one Function, mirroring the
// role of LLVM's own IRBuilder in spec §4.J: the node compiler positions a
// Builder at a node's entry block and hands it to the node type's codegen
// callback.
type Builder struct {
	fn  *Function
	blk *Block
	loc DebugLoc
}

// NewBuilder returns a Builder positioned at the end of blk.
func NewBuilder(fn *Function, blk *Block) *Builder {
	return &Builder{fn: fn, blk: blk}
}

// SetLocation sets the debug location subsequently emitted instructions
// carry, per spec §4.J ("each node's entry block receives a debug
// location").
func (b *Builder) SetLocation(loc DebugLoc) { b.loc = loc }

// Block returns the block this builder is currently positioned at.
func (b *Builder) Block() *Block { return b.blk }

func (b *Builder) emit(instr Instr) Value {
	instr.Loc = b.loc
	b.blk.Instrs = append(b.blk.Instrs, instr)
	return instr.Result
}

// Alloca reserves a stack slot of type t and returns a pointer-typed value
// referencing it.
func (b *Builder) Alloca(t Type, name string) Value {
	res := b.fn.nextValue(Type{Name: t.Name + "*", Kind: KindPointer})
	res.name = name
	return b.emit(Instr{Op: OpAlloca, Result: res})
}

// Load reads the value stored at ptr.
func (b *Builder) Load(ptr Value, t Type) Value {
	res := b.fn.nextValue(t)
	return b.emit(Instr{Op: OpLoad, Result: res, Operands: []Value{ptr}})
}

// Store writes val to the stack slot ptr.
func (b *Builder) Store(val, ptr Value) {
	b.emit(Instr{Op: OpStore, Operands: []Value{val, ptr}})
}

func (b *Builder) binOp(op Op, lhs, rhs Value, resultType Type) Value {
	res := b.fn.nextValue(resultType)
	return b.emit(Instr{Op: op, Result: res, Operands: []Value{lhs, rhs}})
}

func (b *Builder) Add(lhs, rhs Value) Value  { return b.binOp(OpAdd, lhs, rhs, I32) }
func (b *Builder) Sub(lhs, rhs Value) Value  { return b.binOp(OpSub, lhs, rhs, I32) }
func (b *Builder) Mul(lhs, rhs Value) Value  { return b.binOp(OpMul, lhs, rhs, I32) }
func (b *Builder) SDiv(lhs, rhs Value) Value { return b.binOp(OpSDiv, lhs, rhs, I32) }

func (b *Builder) FAdd(lhs, rhs Value) Value { return b.binOp(OpFAdd, lhs, rhs, Float) }
func (b *Builder) FSub(lhs, rhs Value) Value { return b.binOp(OpFSub, lhs, rhs, Float) }
func (b *Builder) FMul(lhs, rhs Value) Value { return b.binOp(OpFMul, lhs, rhs, Float) }
func (b *Builder) FDiv(lhs, rhs Value) Value { return b.binOp(OpFDiv, lhs, rhs, Float) }

func (b *Builder) ICmp(op Op, lhs, rhs Value) Value { return b.binOp(op, lhs, rhs, I1) }
func (b *Builder) FCmp(op Op, lhs, rhs Value) Value { return b.binOp(op, lhs, rhs, I1) }

// Call invokes callee with args, returning a value of type ret (Void for a
// call with no result).
func (b *Builder) Call(callee string, args []Value, ret Type) Value {
	res := b.fn.nextValue(ret)
	return b.emit(Instr{Op: OpCall, Result: res, Operands: args, Callee: callee})
}

// Br emits an unconditional branch to target — the form a single-exit node
// type emits (spec §4.J).
func (b *Builder) Br(target *Block) {
	b.emit(Instr{Op: OpBr, Targets: []*Block{target}})
}

// CondBr emits a conditional branch: to ifTrue when cond is nonzero, to
// ifFalse otherwise — the form the "if" node type emits.
func (b *Builder) CondBr(cond Value, ifTrue, ifFalse *Block) {
	b.emit(Instr{Op: OpCondBr, Operands: []Value{cond}, Targets: []*Block{ifTrue, ifFalse}})
}

// Ret emits a return of vals — the form an exit node emits.
func (b *Builder) Ret(vals ...Value) {
	if len(vals) == 0 {
		b.emit(Instr{Op: OpRetVoid})
		return
	}
	b.emit(Instr{Op: OpRet, Operands: vals})
}
