package model

import "github.com/chigraph/chigraph/diag"

// Module is the capability set every chigraph module variant satisfies
// (built-in lang, built-in c, or a JSON-backed GraphModule), expressed as a
// fixed interface rather than open-ended inheritance, per spec §9's design
// note on polymorphic modules.
type Module interface {
	// FullName is this module's slash-delimited identifier.
	FullName() string

	// Dependencies lists the full names of modules this one declares a
	// dependency on.
	Dependencies() []string

	// EnumerateNodeTypeNames lists the unqualified node type names this
	// module registers.
	EnumerateNodeTypeNames() []string

	// EnumerateTypeNames lists the unqualified data type names this module
	// registers.
	EnumerateTypeNames() []string

	// CreateNodeType instantiates (or looks up, for the built-ins) the node
	// type named name, using jsonData as the per-instance construction
	// payload where the type is JSON-driven (spec §9: "JSON-driven node
	// construction").
	CreateNodeType(name string, jsonData any) (*NodeType, *diag.Record)

	// ResolveType looks up a data type registered in this module by its
	// unqualified name.
	ResolveType(name string) (DataType, *diag.Record)

	// DebugType returns the debug-info handle for a registered type, or nil
	// if none has been generated.
	DebugType(name string) any

	// EmitIntoLLVMModule emits this module's own contribution (built-in
	// runtime glue or C-module object code) into the outgoing module
	// representation out. A graph module's functions are not emitted here;
	// chictx.CompileModule compiles and adds them separately.
	EmitIntoLLVMModule(out any) *diag.Record
}
