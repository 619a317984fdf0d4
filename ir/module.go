package ir

// Global is a module-level constant or C-sourced function stub contributed
// by a built-in module's EmitIntoLLVMModule (spec §3/§4.F).
type Global struct {
	Name string
	Type Type
}

// Module is the final emitted artifact: every compiled function plus
// whatever globals the context's built-in and dependency modules
// contributed, ready for the (out-of-scope, §1) native linker.
type Module struct {
	Name      string
	Functions []*Function
	Globals   []Global

	// CLinkUnits holds the raw bitcode produced by the "c" built-in
	// module's chi-ctollvm invocations, keyed by mangled function name.
	// This package doesn't interpret it, only carries it through to
	// whatever links the final artifact (the native linker, out of scope
	// per spec §1).
	CLinkUnits map[string][]byte
}

// NewModule creates an empty IR module.
func NewModule(name string) *Module {
	return &Module{Name: name, CLinkUnits: make(map[string][]byte)}
}

// AddFunction appends a compiled function to the module.
func (m *Module) AddFunction(f *Function) {
	m.Functions = append(m.Functions, f)
}

// AddCLinkUnit records a chi-ctollvm-compiled bitcode blob under name.
func (m *Module) AddCLinkUnit(name string, bitcode []byte) {
	if m.CLinkUnits == nil {
		m.CLinkUnits = make(map[string][]byte)
	}
	m.CLinkUnits[name] = bitcode
}

// Link merges other's functions, globals, and C link units into m,
// mirroring the spec §4.D linking step ("always via the LLVM linker") at
// the boundary of our own IR representation: function name collisions are
// the caller's problem (the mangler guarantees distinct names across
// modules) so Link simply concatenates.
func (m *Module) Link(other *Module) {
	m.Functions = append(m.Functions, other.Functions...)
	m.Globals = append(m.Globals, other.Globals...)
	for name, bc := range other.CLinkUnits {
		m.AddCLinkUnit(name, bc)
	}
}

// FunctionByName looks up a previously added function by its mangled name.
func (m *Module) FunctionByName(name string) (*Function, bool) {
	for _, f := range m.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}
