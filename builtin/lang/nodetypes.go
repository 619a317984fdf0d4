package lang

import (
	"fmt"

	"github.com/chigraph/chigraph/diag"
	"github.com/chigraph/chigraph/ir"
	"github.com/chigraph/chigraph/model"
)

// EntryData is the per-compile NodeData the function compiler substitutes
// in for an "entry" node instance's own JSON payload: the already-built IR
// values for the function's parameters, one per data output in order.
type EntryData struct {
	Params []ir.Value
}

// LocalVarData is the per-compile NodeData the function compiler
// substitutes in for a "set" or "get" node instance: the variable's name
// (carried over from the node's own JSON payload) plus the resolved stack
// slot for this function compilation.
type LocalVarData struct {
	Name string
	Type model.DataType
	Slot ir.Value
}

var fixedNodeTypeNames = []string{
	"entry", "exit",
	"const-int", "const-float", "const-bool", "strliteral",
	"if",
	"i32-add", "i32-sub", "i32-mul", "i32-div",
	"i32-eq", "i32-lt", "i32-gt",
	"float-add", "float-sub", "float-mul", "float-div",
	"float-lt", "float-gt",
	"set", "get",
}

// EnumerateNodeTypeNames lists every node type name lang registers. set and
// get are parametrized per instance but the unqualified name is fixed.
func (m *Module) EnumerateNodeTypeNames() []string {
	return append([]string(nil), fixedNodeTypeNames...)
}

// CreateNodeType builds the NodeType for name. For most node types jsonData
// is ignored; for "entry"/"exit" it must be a []model.NamedDataType (the
// function's data inputs or outputs, respectively); for "set"/"get" it is a
// NamedDataType naming the referenced local variable. The "const-*" and
// "strliteral" types ignore jsonData too: their literal value is read at
// codegen time from the node instance's own NodeData.
func (m *Module) CreateNodeType(name string, jsonData any) (*model.NodeType, *diag.Record) {
	switch name {
	case "entry":
		return entryType(jsonData)
	case "exit":
		return exitType(jsonData)
	case "const-int":
		return literalType("const-int", m.I32()), nil
	case "const-float":
		return literalType("const-float", m.Float()), nil
	case "const-bool":
		return literalType("const-bool", m.I1()), nil
	case "strliteral":
		return literalType("strliteral", m.I8Ptr()), nil
	case "if":
		return ifType(m.I1()), nil
	case "set":
		return setType(jsonData)
	case "get":
		return getType(jsonData)
	default:
		if nt, ok := binaryOpType(name, m); ok {
			return nt, nil
		}
		return nil, m.notFound(name)
	}
}

func entryType(jsonData any) (*model.NodeType, *diag.Record) {
	outputs, ok := jsonData.([]model.NamedDataType)
	if !ok {
		rec := diag.New()
		rec.AddErrorf("EParseErr", "lang: entry node requires []model.NamedDataType, got %T", jsonData)
		return nil, rec
	}
	return &model.NodeType{
		OwningModule:     FullName,
		Name:             "entry",
		Description:      "function entry point",
		ExecOutputLabels: []string{"out"},
		DataOutputs:      outputs,
		Codegen:          entryCodegen,
	}, nil
}

func entryCodegen(cg model.CodegenContext, inputs []any, outputs []any, execOuts []any) error {
	data, ok := cg.NodeData().(*EntryData)
	if !ok {
		return fmt.Errorf("lang: entry codegen requires *EntryData, got %T", cg.NodeData())
	}
	for i := range outputs {
		outputs[i] = data.Params[i]
	}
	b := cg.Builder().(*ir.Builder)
	b.Br(execOuts[0].(*ir.Block))
	return nil
}

func exitType(jsonData any) (*model.NodeType, *diag.Record) {
	inputs, ok := jsonData.([]model.NamedDataType)
	if !ok {
		rec := diag.New()
		rec.AddErrorf("EParseErr", "lang: exit node requires []model.NamedDataType, got %T", jsonData)
		return nil, rec
	}
	return &model.NodeType{
		OwningModule:    FullName,
		Name:            "exit",
		Description:     "function exit point",
		ExecInputLabels: []string{"in"},
		DataInputs:      inputs,
		Codegen:         exitCodegen,
	}, nil
}

func exitCodegen(cg model.CodegenContext, inputs []any, outputs []any, execOuts []any) error {
	b := cg.Builder().(*ir.Builder)
	vals := make([]ir.Value, len(inputs))
	for i, v := range inputs {
		vals[i] = v.(ir.Value)
	}
	b.Ret(vals...)
	return nil
}

// literalType builds the pure, no-input/one-output node type shared by
// const-int, const-float, const-bool, and strliteral: the literal value
// lives in the node instance's own JSON payload (its NodeData), the same
// for every instance of the type.
func literalType(name string, out model.DataType) *model.NodeType {
	return &model.NodeType{
		OwningModule: FullName,
		Name:         name,
		Description:  "literal value",
		Pure:         true,
		DataOutputs:  []model.NamedDataType{{Name: "value", Type: out}},
		Codegen: func(cg model.CodegenContext, inputs []any, outputs []any, execOuts []any) error {
			outputs[0] = literalValue(name, out, cg.NodeData())
			return nil
		},
	}
}

func literalValue(name string, out model.DataType, data any) ir.Value {
	switch name {
	case "const-int":
		n, _ := data.(float64)
		return ir.ConstInt(ir.I32, int64(n))
	case "const-float":
		f, _ := data.(float64)
		return ir.ConstFloat(f)
	case "const-bool":
		b, _ := data.(bool)
		return ir.ConstBool(b)
	default: // strliteral
		s, _ := data.(string)
		return ir.Value{Type: ir.I8Ptr, Const: s}
	}
}

func ifType(cond model.DataType) *model.NodeType {
	return &model.NodeType{
		OwningModule:     FullName,
		Name:             "if",
		Description:      "conditional branch",
		ExecInputLabels:  []string{"in"},
		ExecOutputLabels: []string{"true", "false"},
		DataInputs:       []model.NamedDataType{{Name: "cond", Type: cond}},
		Codegen: func(cg model.CodegenContext, inputs []any, outputs []any, execOuts []any) error {
			b := cg.Builder().(*ir.Builder)
			b.CondBr(inputs[0].(ir.Value), execOuts[0].(*ir.Block), execOuts[1].(*ir.Block))
			return nil
		},
	}
}

func setType(jsonData any) (*model.NodeType, *diag.Record) {
	named, ok := jsonData.(model.NamedDataType)
	if !ok {
		rec := diag.New()
		rec.AddErrorf("EParseErr", "lang: set node requires model.NamedDataType, got %T", jsonData)
		return nil, rec
	}
	return &model.NodeType{
		OwningModule:     FullName,
		Name:             "set",
		Description:      fmt.Sprintf("set local variable %q", named.Name),
		ExecInputLabels:  []string{"in"},
		ExecOutputLabels: []string{"out"},
		DataInputs:       []model.NamedDataType{named},
		Codegen: func(cg model.CodegenContext, inputs []any, outputs []any, execOuts []any) error {
			data, ok := cg.NodeData().(*LocalVarData)
			if !ok {
				return fmt.Errorf("lang: set codegen requires *LocalVarData, got %T", cg.NodeData())
			}
			b := cg.Builder().(*ir.Builder)
			b.Store(inputs[0].(ir.Value), data.Slot)
			b.Br(execOuts[0].(*ir.Block))
			return nil
		},
	}, nil
}

func getType(jsonData any) (*model.NodeType, *diag.Record) {
	named, ok := jsonData.(model.NamedDataType)
	if !ok {
		rec := diag.New()
		rec.AddErrorf("EParseErr", "lang: get node requires model.NamedDataType, got %T", jsonData)
		return nil, rec
	}
	return &model.NodeType{
		OwningModule:     FullName,
		Name:             "get",
		Description:      fmt.Sprintf("get local variable %q", named.Name),
		ExecInputLabels:  []string{"in"},
		ExecOutputLabels: []string{"out"},
		DataOutputs:      []model.NamedDataType{named},
		Codegen: func(cg model.CodegenContext, inputs []any, outputs []any, execOuts []any) error {
			data, ok := cg.NodeData().(*LocalVarData)
			if !ok {
				return fmt.Errorf("lang: get codegen requires *LocalVarData, got %T", cg.NodeData())
			}
			b := cg.Builder().(*ir.Builder)
			outputs[0] = b.Load(data.Slot, data.Type.IRType.(ir.Type))
			b.Br(execOuts[0].(*ir.Block))
			return nil
		},
	}, nil
}

type binOp struct {
	operandType model.DataType
	resultType  model.DataType
	emit        func(b *ir.Builder, lhs, rhs ir.Value) ir.Value
}

// binaryOpType dispatches the thirteen fixed binary arithmetic/comparison
// node type names to their operand/result types and ir.Builder method.
func binaryOpType(name string, m *Module) (*model.NodeType, bool) {
	ops := map[string]binOp{
		"i32-add": {m.I32(), m.I32(), (*ir.Builder).Add},
		"i32-sub": {m.I32(), m.I32(), (*ir.Builder).Sub},
		"i32-mul": {m.I32(), m.I32(), (*ir.Builder).Mul},
		"i32-div": {m.I32(), m.I32(), (*ir.Builder).SDiv},
		"i32-eq":  {m.I32(), m.I1(), func(b *ir.Builder, l, r ir.Value) ir.Value { return b.ICmp(ir.OpICmpEQ, l, r) }},
		"i32-lt":  {m.I32(), m.I1(), func(b *ir.Builder, l, r ir.Value) ir.Value { return b.ICmp(ir.OpICmpLT, l, r) }},
		"i32-gt":  {m.I32(), m.I1(), func(b *ir.Builder, l, r ir.Value) ir.Value { return b.ICmp(ir.OpICmpGT, l, r) }},

		"float-add": {m.Float(), m.Float(), (*ir.Builder).FAdd},
		"float-sub": {m.Float(), m.Float(), (*ir.Builder).FSub},
		"float-mul": {m.Float(), m.Float(), (*ir.Builder).FMul},
		"float-div": {m.Float(), m.Float(), (*ir.Builder).FDiv},
		"float-lt":  {m.Float(), m.I1(), func(b *ir.Builder, l, r ir.Value) ir.Value { return b.FCmp(ir.OpFCmpLT, l, r) }},
		"float-gt":  {m.Float(), m.I1(), func(b *ir.Builder, l, r ir.Value) ir.Value { return b.FCmp(ir.OpFCmpGT, l, r) }},
	}

	op, ok := ops[name]
	if !ok {
		return nil, false
	}

	return &model.NodeType{
		OwningModule: FullName,
		Name:         name,
		Description:  "binary operator",
		Pure:         true,
		DataInputs:   []model.NamedDataType{{Name: "lhs", Type: op.operandType}, {Name: "rhs", Type: op.operandType}},
		DataOutputs:  []model.NamedDataType{{Name: "result", Type: op.resultType}},
		Codegen: func(cg model.CodegenContext, inputs []any, outputs []any, execOuts []any) error {
			b := cg.Builder().(*ir.Builder)
			outputs[0] = op.emit(b, inputs[0].(ir.Value), inputs[1].(ir.Value))
			return nil
		},
	}, true
}

var _ model.Module = (*Module)(nil)
