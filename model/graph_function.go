package model

import "github.com/google/uuid"

// GraphFunction is a directed graph of NodeInstances wired by execution and
// data edges (spec §3). Local variables are named DataTypes scoped to the
// function that become stack slots at codegen time.
type GraphFunction struct {
	Name string

	EntryNode uuid.UUID
	ExitNodes []uuid.UUID

	DataInputs       []NamedDataType
	DataOutputs      []NamedDataType
	ExecutionInputs  []string
	ExecutionOutputs []string

	LocalVariables []NamedDataType

	Nodes map[uuid.UUID]*NodeInstance
}

// NewGraphFunction returns an empty function arena.
func NewGraphFunction(name string) *GraphFunction {
	return &GraphFunction{
		Name:  name,
		Nodes: make(map[uuid.UUID]*NodeInstance),
	}
}

// AddNode registers a node instance into the function's arena.
func (f *GraphFunction) AddNode(ni *NodeInstance) {
	f.Nodes[ni.ID] = ni
}

// RemoveNode deletes a node and severs every edge touching it, in both
// directions, so no other node is left holding a dangling reference (spec
// §3 lifecycles).
func (f *GraphFunction) RemoveNode(id uuid.UUID) {
	delete(f.Nodes, id)
	for _, other := range f.Nodes {
		other.severReferencesTo(id)
	}
	for i, exit := range f.ExitNodes {
		if exit == id {
			f.ExitNodes = append(f.ExitNodes[:i], f.ExitNodes[i+1:]...)
			break
		}
	}
	if f.EntryNode == id {
		f.EntryNode = uuid.Nil
	}
}

// ConnectData wires a data edge from->out to to->in. It overwrites any
// existing producer on the consuming input, matching "at most one producer"
// from spec §3, and records the consumer on the producer's unbounded fanout
// list.
func (f *GraphFunction) ConnectData(from uuid.UUID, outIdx int, to uuid.UUID, inIdx int) {
	producer, consumer := f.Nodes[from], f.Nodes[to]
	if producer == nil || consumer == nil {
		return
	}
	consumer.DataInputConns[inIdx] = &ConnArrow{Node: from, PortIndex: outIdx}
	producer.DataOutputConsumers[outIdx] = append(producer.DataOutputConsumers[outIdx], ConnArrow{Node: to, PortIndex: inIdx})
}

// ConnectExec wires an execution edge from->out to to->in, overwriting any
// prior consumer of that exec output per spec §3 ("at most one").
func (f *GraphFunction) ConnectExec(from uuid.UUID, outIdx int, to uuid.UUID, inIdx int) {
	producer, consumer := f.Nodes[from], f.Nodes[to]
	if producer == nil || consumer == nil {
		return
	}
	producer.ExecOutputConns[outIdx] = &ConnArrow{Node: to, PortIndex: inIdx}
	consumer.ExecInputConns[inIdx] = append(consumer.ExecInputConns[inIdx], ConnArrow{Node: from, PortIndex: outIdx})
}

// GraphStruct is a named ordered sequence of NamedDataType defining an
// aggregate value type registered into its owning module (spec §3).
type GraphStruct struct {
	OwningModule string
	Name         string
	Fields       []NamedDataType
}

// Qualified returns "<OwningModule>:<Name>".
func (s *GraphStruct) Qualified() string {
	return s.OwningModule + ":" + s.Name
}
