package model

import "github.com/google/uuid"

// ConnArrow is a (node, port index) pair identifying the other end of a
// connection, grounded on the teacher's NodeInstance inputExecConnections
// shape (originally a std::pair<NodeInstance*, unsigned int>), generalized
// here to reference nodes by UUID through the owning GraphFunction's arena
// rather than by raw pointer — so removing a node never leaves a dangling
// reference, it just leaves an index that the arena no longer resolves.
type ConnArrow struct {
	Node      uuid.UUID
	PortIndex int
}

// NodeInstance is the occurrence of a NodeType inside a graph function
// (spec §3). Position is editor-only state, ignored by the compiler.
type NodeInstance struct {
	ID       uuid.UUID
	Type     *NodeType
	X, Y     float64

	// Data is the JSON payload carried by this instance (literal values,
	// variable names, C source) forwarded verbatim to the node type's
	// codegen contract.
	Data any

	// DataInputConns holds at most one producer per data input; a nil entry
	// means unconnected.
	DataInputConns []*ConnArrow

	// ExecInputConns holds any number of producers per exec input (fan-in).
	ExecInputConns [][]ConnArrow

	// ExecOutputConns holds at most one consumer per exec output.
	ExecOutputConns []*ConnArrow

	// DataOutputConsumers holds unbounded fanout per data output.
	DataOutputConsumers [][]ConnArrow
}

// NewNodeInstance allocates a NodeInstance wired to nt with correctly sized
// port slices and a fresh UUID.
func NewNodeInstance(nt *NodeType) *NodeInstance {
	return &NodeInstance{
		ID:                  uuid.New(),
		Type:                nt,
		DataInputConns:      make([]*ConnArrow, len(nt.DataInputs)),
		ExecInputConns:      make([][]ConnArrow, len(nt.ExecInputLabels)),
		ExecOutputConns:     make([]*ConnArrow, len(nt.ExecOutputLabels)),
		DataOutputConsumers: make([][]ConnArrow, len(nt.DataOutputs)),
	}
}

// severReferencesTo removes every connection pointing at target from ni, so
// that deleting a node first severs every edge touching it (spec §3
// lifecycles: "no dangling references").
func (ni *NodeInstance) severReferencesTo(target uuid.UUID) {
	for i, c := range ni.DataInputConns {
		if c != nil && c.Node == target {
			ni.DataInputConns[i] = nil
		}
	}
	for i, arrows := range ni.ExecInputConns {
		kept := arrows[:0]
		for _, a := range arrows {
			if a.Node != target {
				kept = append(kept, a)
			}
		}
		ni.ExecInputConns[i] = kept
	}
	for i, c := range ni.ExecOutputConns {
		if c != nil && c.Node == target {
			ni.ExecOutputConns[i] = nil
		}
	}
	for i, arrows := range ni.DataOutputConsumers {
		kept := arrows[:0]
		for _, a := range arrows {
			if a.Node != target {
				kept = append(kept, a)
			}
		}
		ni.DataOutputConsumers[i] = kept
	}
}
