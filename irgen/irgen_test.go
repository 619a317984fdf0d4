package irgen

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chigraph/chigraph/builtin/lang"
	"github.com/chigraph/chigraph/ir"
	"github.com/chigraph/chigraph/mangle"
	"github.com/chigraph/chigraph/model"
)

// buildIdentity builds scenario 1 from spec §8: entry(i32->i32) -> exit,
// a direct data edge from entry's output to exit's input.
func buildIdentity(t *testing.T, m *lang.Module) *model.GraphFunction {
	t.Helper()
	fn := model.NewGraphFunction("id")
	fn.DataInputs = []model.NamedDataType{{Name: "x", Type: m.I32()}}
	fn.DataOutputs = []model.NamedDataType{{Name: "x", Type: m.I32()}}

	entryNT, rec := m.CreateNodeType("entry", fn.DataInputs)
	require.Nil(t, rec)
	exitNT, rec := m.CreateNodeType("exit", fn.DataOutputs)
	require.Nil(t, rec)

	entry := model.NewNodeInstance(entryNT)
	exit := model.NewNodeInstance(exitNT)
	fn.AddNode(entry)
	fn.AddNode(exit)
	fn.EntryNode = entry.ID
	fn.ExitNodes = []uuid.UUID{exit.ID}

	fn.ConnectExec(entry.ID, 0, exit.ID, 0)
	fn.ConnectData(entry.ID, 0, exit.ID, 0)

	return fn
}

func TestCompileFunctionIdentity(t *testing.T) {
	m := lang.New()
	fn := buildIdentity(t, m)

	result := CompileFunction("github.com/example/mod", fn)
	require.True(t, result.Record.Success, result.Record.String())
	require.NotNil(t, result.Function)

	assert.Equal(t, mangle.Mangle("github.com/example/mod", "id"), result.Function.Name)
	assert.Equal(t, ir.I32, result.Function.ReturnType)

	errs := ir.Verify(result.Function)
	assert.Empty(t, errs)
}

// buildBranch builds scenario 2: pick(i1->i32) with entry -> if; if.true ->
// exit returning const-int 1; if.false -> exit returning const-int 2.
func buildBranch(t *testing.T, m *lang.Module) *model.GraphFunction {
	t.Helper()
	fn := model.NewGraphFunction("pick")
	fn.DataInputs = []model.NamedDataType{{Name: "cond", Type: m.I1()}}
	fn.DataOutputs = []model.NamedDataType{{Name: "result", Type: m.I32()}}

	entryNT, rec := m.CreateNodeType("entry", fn.DataInputs)
	require.Nil(t, rec)
	exitNT, rec := m.CreateNodeType("exit", fn.DataOutputs)
	require.Nil(t, rec)
	ifNT, rec := m.CreateNodeType("if", nil)
	require.Nil(t, rec)
	oneNT, rec := m.CreateNodeType("const-int", nil)
	require.Nil(t, rec)
	twoNT, rec := m.CreateNodeType("const-int", nil)
	require.Nil(t, rec)

	entry := model.NewNodeInstance(entryNT)
	ifNode := model.NewNodeInstance(ifNT)
	exitTrue := model.NewNodeInstance(exitNT)
	exitFalse := model.NewNodeInstance(exitNT)
	litOne := model.NewNodeInstance(oneNT)
	litOne.Data = float64(1)
	litTwo := model.NewNodeInstance(twoNT)
	litTwo.Data = float64(2)

	for _, n := range []*model.NodeInstance{entry, ifNode, exitTrue, exitFalse, litOne, litTwo} {
		fn.AddNode(n)
	}
	fn.EntryNode = entry.ID
	fn.ExitNodes = []uuid.UUID{exitTrue.ID, exitFalse.ID}

	fn.ConnectExec(entry.ID, 0, ifNode.ID, 0)
	fn.ConnectData(entry.ID, 0, ifNode.ID, 0)
	fn.ConnectExec(ifNode.ID, 0, exitTrue.ID, 0)
	fn.ConnectExec(ifNode.ID, 1, exitFalse.ID, 0)
	fn.ConnectData(litOne.ID, 0, exitTrue.ID, 0)
	fn.ConnectData(litTwo.ID, 0, exitFalse.ID, 0)

	return fn
}

func TestCompileFunctionBranchOnBool(t *testing.T) {
	m := lang.New()
	fn := buildBranch(t, m)

	result := CompileFunction("github.com/example/mod", fn)
	require.True(t, result.Record.Success, result.Record.String())

	errs := ir.Verify(result.Function)
	assert.Empty(t, errs)

	var condBrs int
	for _, blk := range result.Function.Blocks {
		if term := blk.Terminator(); term != nil && term.Op == ir.OpCondBr {
			condBrs++
		}
	}
	assert.Equal(t, 1, condBrs)
}

// buildPureFanIn builds scenario 3: double_sum(i32 a -> i32) where
// sum = a + a, and two exit nodes both read sum, each gated behind its own
// branch so the compiler must materialize the add twice.
func buildPureFanIn(t *testing.T, m *lang.Module) *model.GraphFunction {
	t.Helper()
	fn := model.NewGraphFunction("double_sum")
	fn.DataInputs = []model.NamedDataType{{Name: "a", Type: m.I32()}}
	fn.DataOutputs = []model.NamedDataType{{Name: "sum", Type: m.I32()}}

	entryNT, rec := m.CreateNodeType("entry", fn.DataInputs)
	require.Nil(t, rec)
	exitNT, rec := m.CreateNodeType("exit", fn.DataOutputs)
	require.Nil(t, rec)
	ifNT, rec := m.CreateNodeType("if", nil)
	require.Nil(t, rec)
	addNT, rec := m.CreateNodeType("i32-add", nil)
	require.Nil(t, rec)
	boolNT, rec := m.CreateNodeType("const-bool", nil)
	require.Nil(t, rec)

	entry := model.NewNodeInstance(entryNT)
	ifNode := model.NewNodeInstance(ifNT)
	cond := model.NewNodeInstance(boolNT)
	cond.Data = true
	add := model.NewNodeInstance(addNT)
	exitTrue := model.NewNodeInstance(exitNT)
	exitFalse := model.NewNodeInstance(exitNT)

	for _, n := range []*model.NodeInstance{entry, ifNode, cond, add, exitTrue, exitFalse} {
		fn.AddNode(n)
	}
	fn.EntryNode = entry.ID
	fn.ExitNodes = []uuid.UUID{exitTrue.ID, exitFalse.ID}

	fn.ConnectExec(entry.ID, 0, ifNode.ID, 0)
	fn.ConnectData(cond.ID, 0, ifNode.ID, 0)
	fn.ConnectExec(ifNode.ID, 0, exitTrue.ID, 0)
	fn.ConnectExec(ifNode.ID, 1, exitFalse.ID, 0)

	fn.ConnectData(entry.ID, 0, add.ID, 0)
	fn.ConnectData(entry.ID, 0, add.ID, 1)
	fn.ConnectData(add.ID, 0, exitTrue.ID, 0)
	fn.ConnectData(add.ID, 0, exitFalse.ID, 0)

	return fn
}

func TestCompileFunctionPureFanInDuplicatesPerConsumer(t *testing.T) {
	m := lang.New()
	fn := buildPureFanIn(t, m)

	result := CompileFunction("github.com/example/mod", fn)
	require.True(t, result.Record.Success, result.Record.String())

	var addCount int
	for _, blk := range result.Function.Blocks {
		for _, instr := range blk.Instrs {
			if instr.Op == ir.OpAdd {
				addCount++
			}
		}
	}
	assert.Equal(t, 2, addCount, "pure add node must be materialized once per consumer block")
}

func TestCompileFunctionLocalVariableRoundTrip(t *testing.T) {
	m := lang.New()
	fn := model.NewGraphFunction("counter")
	fn.DataInputs = []model.NamedDataType{{Name: "start", Type: m.I32()}}
	fn.DataOutputs = []model.NamedDataType{{Name: "start", Type: m.I32()}}
	fn.LocalVariables = []model.NamedDataType{{Name: "v", Type: m.I32()}}

	entryNT, rec := m.CreateNodeType("entry", fn.DataInputs)
	require.Nil(t, rec)
	exitNT, rec := m.CreateNodeType("exit", fn.DataOutputs)
	require.Nil(t, rec)
	setNT, rec := m.CreateNodeType("set", model.NamedDataType{Name: "v", Type: m.I32()})
	require.Nil(t, rec)
	getNT, rec := m.CreateNodeType("get", model.NamedDataType{Name: "v", Type: m.I32()})
	require.Nil(t, rec)

	entry := model.NewNodeInstance(entryNT)
	setNode := model.NewNodeInstance(setNT)
	getNode := model.NewNodeInstance(getNT)
	exit := model.NewNodeInstance(exitNT)

	for _, n := range []*model.NodeInstance{entry, setNode, getNode, exit} {
		fn.AddNode(n)
	}
	fn.EntryNode = entry.ID
	fn.ExitNodes = []uuid.UUID{exit.ID}

	fn.ConnectExec(entry.ID, 0, setNode.ID, 0)
	fn.ConnectData(entry.ID, 0, setNode.ID, 0)
	fn.ConnectExec(setNode.ID, 0, getNode.ID, 0)
	fn.ConnectExec(getNode.ID, 0, exit.ID, 0)
	fn.ConnectData(getNode.ID, 0, exit.ID, 0)

	result := CompileFunction("github.com/example/mod", fn)
	require.True(t, result.Record.Success, result.Record.String())

	var hasStore, hasLoad bool
	for _, blk := range result.Function.Blocks {
		for _, instr := range blk.Instrs {
			if instr.Op == ir.OpStore {
				hasStore = true
			}
			if instr.Op == ir.OpLoad {
				hasLoad = true
			}
		}
	}
	assert.True(t, hasStore)
	assert.True(t, hasLoad)
}
