package c

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chigraph/chigraph/ir"
	"github.com/chigraph/chigraph/model"
)

type fakeCodegenContext struct {
	builder *ir.Builder
}

func (f fakeCodegenContext) Builder() any   { return f.builder }
func (f fakeCodegenContext) NodeData() any { return nil }

func newModuleWithFakeCompiler(bitcode []byte, err error) *Module {
	m := New()
	m.compileC = func(ctx context.Context, source string, clangArgs []string) ([]byte, error) {
		return bitcode, err
	}
	return m
}

func TestCreateNodeTypeCompilesAndRegisters(t *testing.T) {
	m := newModuleWithFakeCompiler([]byte("fake-bitcode"), nil)

	req := &FuncRequest{
		Source:       "int add(int a, int b) { return a + b; }",
		FunctionName: "add",
		DataInputs:   []model.NamedDataType{{Name: "a"}, {Name: "b"}},
		DataOutputs:  []model.NamedDataType{{Name: "result"}},
	}

	nt, rec := m.CreateNodeType("func", req)
	require.Nil(t, rec)
	assert.Equal(t, "func", nt.Name)
	assert.False(t, nt.Pure)
	assert.Equal(t, []string{"in"}, nt.ExecInputLabels)
	assert.Equal(t, []string{"out"}, nt.ExecOutputLabels)
	assert.Len(t, nt.DataInputs, 2)
	assert.Len(t, nt.DataOutputs, 1)
	assert.Len(t, m.compiled, 1)
}

func TestCreateNodeTypeWrongName(t *testing.T) {
	m := newModuleWithFakeCompiler(nil, nil)
	_, rec := m.CreateNodeType("nope", &FuncRequest{})
	require.NotNil(t, rec)
	assert.False(t, rec.Success)
}

func TestCreateNodeTypeWrongPayload(t *testing.T) {
	m := newModuleWithFakeCompiler(nil, nil)
	_, rec := m.CreateNodeType("func", "not-a-request")
	require.NotNil(t, rec)
	assert.False(t, rec.Success)
}

func TestCreateNodeTypeCompileFailure(t *testing.T) {
	m := newModuleWithFakeCompiler(nil, errors.New("clang exploded"))
	_, rec := m.CreateNodeType("func", &FuncRequest{FunctionName: "f"})
	require.NotNil(t, rec)
	assert.False(t, rec.Success)
}

func TestCallCodegenEmitsCallAndBranch(t *testing.T) {
	m := newModuleWithFakeCompiler([]byte("bc"), nil)
	req := &FuncRequest{
		Source:       "int add(int a, int b) { return a + b; }",
		FunctionName: "add",
		DataInputs:   []model.NamedDataType{{Name: "a"}, {Name: "b"}},
		DataOutputs:  []model.NamedDataType{{Name: "result"}},
	}
	nt, rec := m.CreateNodeType("func", req)
	require.Nil(t, rec)

	fn := ir.NewFunction("f", nil, ir.Void)
	blk := fn.NewBlock("entry")
	target := fn.NewBlock("next")
	b := ir.NewBuilder(fn, blk)

	outputs := make([]any, 1)
	err := nt.Codegen(fakeCodegenContext{builder: b}, []any{ir.ConstInt(ir.I32, 1), ir.ConstInt(ir.I32, 2)}, outputs, []any{target})
	require.NoError(t, err)
	assert.Equal(t, ir.I32, outputs[0].(ir.Value).Type)

	term := blk.Terminator()
	require.NotNil(t, term)
	assert.Equal(t, ir.OpBr, term.Op)
}

func TestEmitIntoLLVMModuleAttachesLinkUnits(t *testing.T) {
	m := newModuleWithFakeCompiler([]byte("fake-bitcode"), nil)
	_, rec := m.CreateNodeType("func", &FuncRequest{FunctionName: "add"})
	require.Nil(t, rec)

	mod := ir.NewModule("test")
	rec = m.EmitIntoLLVMModule(mod)
	require.True(t, rec.Success)
	assert.Equal(t, []byte("fake-bitcode"), mod.CLinkUnits["c_madd"])
}
