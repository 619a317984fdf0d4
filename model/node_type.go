package model

// CodegenFunc is the code-generation contract for a node type (spec §4.J).
// It is invoked once per executed-node visit (or, for pure nodes, once per
// consumer materialization) with already-resolved input values and output
// slots to fill, emitting whatever IR it needs into the builder it is
// handed by the node compiler.
//
// inputs has one entry per data input, in NodeType.DataInputs order, each
// already materialized by the caller. outputs has one entry per data
// output; the callback stores its results there. execOuts has one target
// per NodeType.ExecOutputLabels entry; for a single-exit node the callback emits
// an unconditional branch to execOuts[0], for a branching node (e.g. "if")
// it chooses among them, and for an exit node it emits a return instead of
// branching at all.
type CodegenFunc func(cg CodegenContext, inputs []any, outputs []any, execOuts []any) error

// CodegenContext is the minimal surface a CodegenFunc needs from the
// function compiler: the IR builder positioned at the node's block, plus
// whatever JSON payload the node instance carries (literal values, C source,
// variable names, and so on).
type CodegenContext interface {
	Builder() any
	NodeData() any
}

// NodeType is the immutable schema of a kind of node, registered once into
// its owning module (spec §3). Node instances reference it by qualified
// name; node types themselves never mutate after registration.
type NodeType struct {
	OwningModule string
	Name         string
	Description  string

	ExecInputLabels  []string
	ExecOutputLabels []string

	DataInputs  []NamedDataType
	DataOutputs []NamedDataType

	// Pure marks a node with no execution ports, evaluated lazily per
	// consumer rather than once per visit.
	Pure bool
	// Converter marks a pure node with exactly one data input and one data
	// output — a node type flag used by editors, not by the compiler, but
	// carried here because it is part of the node type's identity.
	Converter bool

	Codegen CodegenFunc
}

// Qualified returns "<OwningModule>:<Name>", the form node instances use to
// reference their type.
func (nt *NodeType) Qualified() string {
	return nt.OwningModule + ":" + nt.Name
}

// ValidatePureFlags reports whether Converter is only set on a type that is
// also Pure with exactly one data port each way, and whether Pure nodes
// correctly carry no execution ports — the structural half of the "pure"
// flag's definition in spec §3.
func (nt *NodeType) ValidatePureFlags() bool {
	if nt.Converter && !(nt.Pure && len(nt.DataInputs) == 1 && len(nt.DataOutputs) == 1) {
		return false
	}
	if nt.Pure && (len(nt.ExecInputLabels) != 0 || len(nt.ExecOutputLabels) != 0) {
		return false
	}
	return true
}
