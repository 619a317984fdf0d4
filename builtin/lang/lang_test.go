package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chigraph/chigraph/ir"
	"github.com/chigraph/chigraph/model"
)

type fakeCodegenContext struct {
	builder  *ir.Builder
	nodeData any
}

func (f fakeCodegenContext) Builder() any   { return f.builder }
func (f fakeCodegenContext) NodeData() any { return f.nodeData }

func TestResolveType(t *testing.T) {
	m := New()

	i32, rec := m.ResolveType("i32")
	require.Nil(t, rec)
	assert.Equal(t, "lang", i32.OwningModule)
	assert.Equal(t, ir.I32, i32.IRType)

	_, rec = m.ResolveType("nope")
	require.NotNil(t, rec)
	assert.False(t, rec.Success)
}

func TestEntryNodeTypeRequiresSignature(t *testing.T) {
	m := New()
	_, rec := m.CreateNodeType("entry", "not-a-signature")
	require.NotNil(t, rec)
	assert.False(t, rec.Success)
}

func TestEntryCodegenCopiesParams(t *testing.T) {
	m := New()
	nt, rec := m.CreateNodeType("entry", []model.NamedDataType{{Name: "x", Type: m.I32()}})
	require.Nil(t, rec)

	fn := ir.NewFunction("f", []ir.Param{{Name: "x", Type: ir.I32}}, ir.Void)
	blk := fn.NewBlock("entry")
	target := fn.NewBlock("body")
	b := ir.NewBuilder(fn, blk)

	outputs := make([]any, 1)
	cg := fakeCodegenContext{builder: b, nodeData: &EntryData{Params: []ir.Value{fn.Param(0)}}}
	err := nt.Codegen(cg, nil, outputs, []any{target})
	require.NoError(t, err)
	assert.Equal(t, fn.Param(0), outputs[0])
	assert.NotNil(t, blk.Terminator())
}

func TestConstIntCodegen(t *testing.T) {
	m := New()
	nt, rec := m.CreateNodeType("const-int", nil)
	require.Nil(t, rec)
	assert.True(t, nt.Pure)

	fn := ir.NewFunction("f", nil, ir.Void)
	blk := fn.NewBlock("entry")
	b := ir.NewBuilder(fn, blk)

	outputs := make([]any, 1)
	cg := fakeCodegenContext{builder: b, nodeData: float64(42)}
	err := nt.Codegen(cg, nil, outputs, nil)
	require.NoError(t, err)
	assert.Equal(t, ir.ConstInt(ir.I32, 42), outputs[0])
}

func TestIfCodegenEmitsCondBr(t *testing.T) {
	m := New()
	nt, rec := m.CreateNodeType("if", nil)
	require.Nil(t, rec)

	fn := ir.NewFunction("f", nil, ir.Void)
	blk := fn.NewBlock("entry")
	trueBlk := fn.NewBlock("true")
	falseBlk := fn.NewBlock("false")
	b := ir.NewBuilder(fn, blk)

	cg := fakeCodegenContext{builder: b, nodeData: nil}
	err := nt.Codegen(cg, []any{ir.ConstBool(true)}, nil, []any{trueBlk, falseBlk})
	require.NoError(t, err)
	term := blk.Terminator()
	require.NotNil(t, term)
	assert.Equal(t, ir.OpCondBr, term.Op)
}

func TestBinaryOpTypeAdd(t *testing.T) {
	m := New()
	nt, rec := m.CreateNodeType("i32-add", nil)
	require.Nil(t, rec)
	assert.True(t, nt.Pure)
	assert.Len(t, nt.DataInputs, 2)

	fn := ir.NewFunction("f", nil, ir.Void)
	blk := fn.NewBlock("entry")
	b := ir.NewBuilder(fn, blk)

	outputs := make([]any, 1)
	cg := fakeCodegenContext{builder: b}
	err := nt.Codegen(cg, []any{ir.ConstInt(ir.I32, 1), ir.ConstInt(ir.I32, 2)}, outputs, nil)
	require.NoError(t, err)
	assert.Equal(t, ir.I32, outputs[0].(ir.Value).Type)
}

func TestSetGetRoundTrip(t *testing.T) {
	m := New()
	named := model.NamedDataType{Name: "counter", Type: m.I32()}

	setNT, rec := m.CreateNodeType("set", named)
	require.Nil(t, rec)
	getNT, rec := m.CreateNodeType("get", named)
	require.Nil(t, rec)

	fn := ir.NewFunction("f", nil, ir.Void)
	prologue := fn.NewBlock("prologue")
	b := ir.NewBuilder(fn, prologue)
	slot := b.Alloca(ir.I32, "counter")

	setBlk := fn.NewBlock("set")
	setB := ir.NewBuilder(fn, setBlk)
	setTarget := fn.NewBlock("after-set")
	err := setNT.Codegen(
		fakeCodegenContext{builder: setB, nodeData: &LocalVarData{Name: "counter", Type: m.I32(), Slot: slot}},
		[]any{ir.ConstInt(ir.I32, 7)}, nil, []any{setTarget},
	)
	require.NoError(t, err)

	getBlk := fn.NewBlock("get")
	getB := ir.NewBuilder(fn, getBlk)
	getTarget := fn.NewBlock("after-get")
	outputs := make([]any, 1)
	err = getNT.Codegen(
		fakeCodegenContext{builder: getB, nodeData: &LocalVarData{Name: "counter", Type: m.I32(), Slot: slot}},
		nil, outputs, []any{getTarget},
	)
	require.NoError(t, err)
	assert.Equal(t, ir.I32, outputs[0].(ir.Value).Type)
}
