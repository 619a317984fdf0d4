package ir

import "fmt"

// Param is a named, typed function parameter.
type Param struct {
	Name string
	Type Type
}

// Subprogram is the debug-info handle for a function, created once by the
// function compiler (spec §4.K step 6).
type Subprogram struct {
	Name string
	File string
}

// Function is an IR function: a mangled name, a signature, and an ordered
// set of basic blocks built up by the node/function compiler.
type Function struct {
	Name       string
	Params     []Param
	ReturnType Type

	Blocks []*Block

	Subprogram *Subprogram

	nextValueID int
	blockIndex  map[string]*Block
}

// NewFunction allocates an empty function with the given mangled name and
// signature.
func NewFunction(name string, params []Param, ret Type) *Function {
	return &Function{
		Name:       name,
		Params:     params,
		ReturnType: ret,
		blockIndex: make(map[string]*Block),
	}
}

// Param returns the value for the function's positional parameter i. Actual
// codegen contracts receive pre-materialized ir.Value slices instead of
// calling this directly, but it's useful for prologue wiring.
func (f *Function) Param(i int) Value {
	return Value{id: -i - 1, Type: f.Params[i].Type, name: f.Params[i].Name}
}

// NewBlock creates and appends a new, empty basic block named name. Block
// names must be unique within a function; NewBlock disambiguates by
// suffixing a counter if name is already taken, matching how LLVM's own
// IRBuilder behaves.
func (f *Function) NewBlock(name string) *Block {
	unique := name
	for n := 1; ; n++ {
		if _, exists := f.blockIndex[unique]; !exists {
			break
		}
		unique = fmt.Sprintf("%s.%d", name, n)
	}
	b := &Block{Name: unique, fn: f}
	f.blockIndex[unique] = b
	f.Blocks = append(f.Blocks, b)
	return b
}

// BlockByName looks up a block created earlier via NewBlock.
func (f *Function) BlockByName(name string) (*Block, bool) {
	b, ok := f.blockIndex[name]
	return b, ok
}

func (f *Function) nextValue(t Type) Value {
	id := f.nextValueID
	f.nextValueID++
	return Value{id: id, Type: t}
}
