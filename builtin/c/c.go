package c

import (
	"context"
	"fmt"

	"github.com/chigraph/chigraph/diag"
	"github.com/chigraph/chigraph/internal/subprocess"
	"github.com/chigraph/chigraph/ir"
	"github.com/chigraph/chigraph/model"
)

// FullName is the built-in "c" module's full name.
const FullName = "c"

// FuncRequest is the JSON payload a "func" node type is created from: the
// C source blob, the function name inside it to expose, any extra clang
// arguments, and the declared signature (see doc.go on why the signature
// is declared rather than derived from the compiled bitcode).
type FuncRequest struct {
	Source       string
	FunctionName string
	ClangArgs    []string
	DataInputs   []model.NamedDataType
	DataOutputs  []model.NamedDataType
}

// compiledFunc is what CreateNodeType stashes so EmitIntoLLVMModule can
// later attach the compiled bitcode to the outgoing ir.Module.
type compiledFunc struct {
	mangledName string
	bitcode     []byte
}

// compileCFunc is the seam over subprocess.CompileC, letting tests inject a
// fake compiler instead of shelling out to the real chi-ctollvm binary.
type compileCFunc func(ctx context.Context, source string, clangArgs []string) ([]byte, error)

// Module is the built-in "c" module.
type Module struct {
	compiled []compiledFunc
	compileC compileCFunc
}

// New returns a fresh "c" module that shells out to the real chi-ctollvm
// helper via package internal/subprocess.
func New() *Module {
	return &Module{compileC: subprocess.CompileC}
}

func (m *Module) FullName() string               { return FullName }
func (m *Module) Dependencies() []string          { return nil }
func (m *Module) EnumerateNodeTypeNames() []string { return []string{"func"} }
func (m *Module) EnumerateTypeNames() []string     { return nil }
func (m *Module) DebugType(name string) any        { return nil }

func (m *Module) ResolveType(name string) (model.DataType, *diag.Record) {
	rec := diag.New()
	rec.AddErrorf("ENotFound", "c: module registers no types, looked up %q", name)
	return model.DataType{}, rec
}

// CreateNodeType compiles the C source in jsonData (a *FuncRequest) via
// chi-ctollvm and returns a node type exposing it: one exec in, one exec
// out, never pure, with data ports taken from the request's declared
// signature.
func (m *Module) CreateNodeType(name string, jsonData any) (*model.NodeType, *diag.Record) {
	if name != "func" {
		rec := diag.New()
		rec.AddErrorf("ENotFound", "c: no such node type %q", name)
		return nil, rec
	}

	req, ok := jsonData.(*FuncRequest)
	if !ok {
		rec := diag.New()
		rec.AddErrorf("EParseErr", "c: func node requires *FuncRequest, got %T", jsonData)
		return nil, rec
	}

	mangled := FullName + "_m" + req.FunctionName
	bitcode, err := m.compileC(context.Background(), req.Source, req.ClangArgs)
	if err != nil {
		rec := diag.New()
		rec.AddErrorf("ECompileErr", "c: compiling %q: %v", req.FunctionName, err)
		return nil, rec
	}
	m.compiled = append(m.compiled, compiledFunc{mangledName: mangled, bitcode: bitcode})

	retType := ir.Void
	if len(req.DataOutputs) > 0 {
		retType = ir.I32
	}

	return &model.NodeType{
		OwningModule:     FullName,
		Name:             "func",
		Description:      fmt.Sprintf("C function %q", req.FunctionName),
		ExecInputLabels:  []string{"in"},
		ExecOutputLabels: []string{"out"},
		DataInputs:       req.DataInputs,
		DataOutputs:      req.DataOutputs,
		Codegen:          callCodegen(mangled, retType),
	}, nil
}

func callCodegen(mangledName string, retType ir.Type) model.CodegenFunc {
	return func(cg model.CodegenContext, inputs []any, outputs []any, execOuts []any) error {
		b := cg.Builder().(*ir.Builder)
		args := make([]ir.Value, len(inputs))
		for i, v := range inputs {
			args[i] = v.(ir.Value)
		}
		result := b.Call(mangledName, args, retType)
		if len(outputs) > 0 {
			outputs[0] = result
		}
		b.Br(execOuts[0].(*ir.Block))
		return nil
	}
}

// EmitIntoLLVMModule attaches every chi-ctollvm-compiled bitcode blob to
// out as a C link unit, linked by the native linker at the final stage.
func (m *Module) EmitIntoLLVMModule(out any) *diag.Record {
	mod, ok := out.(*ir.Module)
	if !ok {
		rec := diag.New()
		rec.AddErrorf("EInternal", "c: EmitIntoLLVMModule requires *ir.Module, got %T", out)
		return rec
	}
	for _, cf := range m.compiled {
		mod.AddCLinkUnit(cf.mangledName, cf.bitcode)
	}
	return diag.New()
}

var _ model.Module = (*Module)(nil)
