package lang

import (
	"github.com/chigraph/chigraph/diag"
	"github.com/chigraph/chigraph/ir"
	"github.com/chigraph/chigraph/model"
)

// FullName is lang's full module name; its short name doubles as its full
// name since it has no slash-separated path.
const FullName = "lang"

// Module is the built-in "lang" module: primitive DataTypes plus the
// control-flow and literal node types described in spec §4.F.
type Module struct {
	types map[string]model.DataType
}

// New returns a freshly registered lang module.
func New() *Module {
	m := &Module{types: make(map[string]model.DataType)}
	for _, t := range []struct {
		name string
		irT  ir.Type
	}{
		{"i32", ir.I32},
		{"i1", ir.I1},
		{"float", ir.Float},
		{"i8*", ir.I8Ptr},
	} {
		m.types[t.name] = model.DataType{
			OwningModule:    FullName,
			UnqualifiedName: t.name,
			IRType:          t.irT,
		}
	}
	return m
}

func (m *Module) FullName() string        { return FullName }
func (m *Module) Dependencies() []string  { return nil }
func (m *Module) DebugType(name string) any { return nil }

func (m *Module) EnumerateTypeNames() []string {
	names := make([]string, 0, len(m.types))
	for n := range m.types {
		names = append(names, n)
	}
	return names
}

func (m *Module) ResolveType(name string) (model.DataType, *diag.Record) {
	t, ok := m.types[name]
	if !ok {
		rec := diag.New()
		rec.AddErrorf("ENotFound", "lang: no such type %q", name)
		return model.DataType{}, rec
	}
	return t, nil
}

// I32, I1, Float, I8Ptr are convenience accessors for the four primitives,
// used by lang's own node type constructors.
func (m *Module) I32() model.DataType   { return m.types["i32"] }
func (m *Module) I1() model.DataType    { return m.types["i1"] }
func (m *Module) Float() model.DataType { return m.types["float"] }
func (m *Module) I8Ptr() model.DataType { return m.types["i8*"] }

// EmitIntoLLVMModule contributes nothing: lang's primitives have no
// runtime representation beyond the ir.Type mapping already carried on
// each DataType.
func (m *Module) EmitIntoLLVMModule(out any) *diag.Record { return diag.New() }

func (m *Module) notFound(name string) *diag.Record {
	rec := diag.New()
	rec.AddErrorf("ENotFound", "lang: no such node type %q", name)
	return rec
}
