package graphmod

import (
	"fmt"

	"github.com/chigraph/chigraph/diag"
	"github.com/chigraph/chigraph/model"
)

// Module is a JSON-backed chigraph module: a full name, a dependency list,
// a set of GraphStructs it defines as data types, and a set of
// GraphFunctions it defines as compilable units (spec §3/§6).
//
// Unlike builtin/lang and builtin/c, a Module never registers node types of
// its own — "JSON-driven node construction" (spec §9) is a built-in-module
// concern. CreateNodeType on a Module therefore always fails with
// ENotFound, matching the teacher's StateGraph, which likewise has no
// notion of a node "type registry" separate from the nodes themselves.
type Module struct {
	fullName     string
	dependencies []string

	structs   map[string]*model.GraphStruct
	functions map[string]*model.GraphFunction
}

// New returns an empty Module named fullName.
func New(fullName string, dependencies []string) *Module {
	return &Module{
		fullName:     fullName,
		dependencies: dependencies,
		structs:      make(map[string]*model.GraphStruct),
		functions:    make(map[string]*model.GraphFunction),
	}
}

// AddStruct registers s under its own name, overwriting any struct
// previously registered with that name.
func (m *Module) AddStruct(s *model.GraphStruct) {
	s.OwningModule = m.fullName
	m.structs[s.Name] = s
}

// AddFunction registers fn under its own name, overwriting any function
// previously registered with that name.
func (m *Module) AddFunction(fn *model.GraphFunction) {
	m.functions[fn.Name] = fn
}

// Struct looks up a registered struct by unqualified name.
func (m *Module) Struct(name string) (*model.GraphStruct, bool) {
	s, ok := m.structs[name]
	return s, ok
}

// Function looks up a registered function by name.
func (m *Module) Function(name string) (*model.GraphFunction, bool) {
	fn, ok := m.functions[name]
	return fn, ok
}

// Functions returns every registered function, in no particular order.
func (m *Module) Functions() []*model.GraphFunction {
	out := make([]*model.GraphFunction, 0, len(m.functions))
	for _, fn := range m.functions {
		out = append(out, fn)
	}
	return out
}

// FullName implements model.Module.
func (m *Module) FullName() string { return m.fullName }

// Dependencies implements model.Module.
func (m *Module) Dependencies() []string { return m.dependencies }

// EnumerateNodeTypeNames implements model.Module. A GraphModule defines no
// node types of its own.
func (m *Module) EnumerateNodeTypeNames() []string { return nil }

// EnumerateTypeNames implements model.Module, listing the module's structs.
func (m *Module) EnumerateTypeNames() []string {
	names := make([]string, 0, len(m.structs))
	for name := range m.structs {
		names = append(names, name)
	}
	return names
}

// CreateNodeType implements model.Module. Always fails: see the Module doc
// comment.
func (m *Module) CreateNodeType(name string, _ any) (*model.NodeType, *diag.Record) {
	rec := diag.New()
	rec.AddErrorf("ENotFound", "%s: graph modules register no node types, looked up %q", m.fullName, name)
	return nil, rec
}

// ResolveType implements model.Module, resolving a struct name to its
// DataType.
func (m *Module) ResolveType(name string) (model.DataType, *diag.Record) {
	if s, ok := m.structs[name]; ok {
		return model.DataType{OwningModule: m.fullName, UnqualifiedName: s.Name}, nil
	}
	rec := diag.New()
	rec.AddErrorf("ENotFound", "%s: no such struct %q", m.fullName, name)
	return model.DataType{}, rec
}

// DebugType implements model.Module. GraphModule structs carry no
// debug-info handle, so this always returns nil.
func (m *Module) DebugType(name string) any { return nil }

// EmitIntoLLVMModule implements model.Module. A GraphModule contributes no
// runtime glue or precompiled object code of its own; its functions are
// emitted individually by the function compiler (package irgen) as each is
// compiled, not in a single bulk step here.
func (m *Module) EmitIntoLLVMModule(out any) *diag.Record {
	return diag.New()
}

var _ model.Module = (*Module)(nil)

// String renders a short human summary, useful in test failure messages
// and log lines.
func (m *Module) String() string {
	return fmt.Sprintf("graphmod.Module{%s, %d structs, %d functions}", m.fullName, len(m.structs), len(m.functions))
}
