package irgen

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/chigraph/chigraph/builtin/lang"
	"github.com/chigraph/chigraph/ir"
	"github.com/chigraph/chigraph/model"
)

// stableLineRange bounds the synthetic debug line numbers assigned to node
// blocks; it only needs to be large enough that distinct nodes are very
// unlikely to collide within one function, since collisions only cost a
// debugger a slightly confusing step, never correctness (spec §4.J: "purely
// so stepping lands on distinct locations").
const stableLineRange = 1 << 20

// stableLine hashes a node's UUID to a small, stable line number so two
// compilations of the same function always assign the same debug line to
// the same node, per spec §4.J.
func stableLine(id uuid.UUID) int {
	return int(xxhash.Sum64(id[:])%stableLineRange) + 1
}

// codegenContext is the model.CodegenContext implementation the node and
// pure compilers hand to a node type's Codegen callback.
type codegenContext struct {
	builder  *ir.Builder
	nodeData any
}

func (c *codegenContext) Builder() any   { return c.builder }
func (c *codegenContext) NodeData() any { return c.nodeData }

// nodeDataFor returns the NodeData a node instance's codegen callback
// should see: its own static JSON payload for most node types, or a
// freshly built lang.EntryData/lang.LocalVarData for the three lang node
// types (entry, set, get) whose codegen needs per-compile information the static payload
// can't carry (spec §4.F/§4.K boundary, documented in builtin/lang/doc.go).
func nodeDataFor(fn *model.GraphFunction, ni *model.NodeInstance, entryParams []ir.Value, localSlots map[string]ir.Value) any {
	if ni.Type == nil || ni.Type.OwningModule != lang.FullName {
		return ni.Data
	}
	switch ni.Type.Name {
	case "entry":
		return &lang.EntryData{Params: entryParams}
	case "set":
		name := ni.Type.DataInputs[0].Name
		return &lang.LocalVarData{Name: name, Type: localVarType(fn, name), Slot: localSlots[name]}
	case "get":
		name := ni.Type.DataOutputs[0].Name
		return &lang.LocalVarData{Name: name, Type: localVarType(fn, name), Slot: localSlots[name]}
	default:
		return ni.Data
	}
}

func localVarType(fn *model.GraphFunction, name string) model.DataType {
	for _, lv := range fn.LocalVariables {
		if lv.Name == name {
			return lv.Type
		}
	}
	return model.DataType{}
}

// resolveDataInput returns the already-materialized IR value feeding data
// input conn, recursively materializing conn's producer through pc if it
// is a pure node, or reading it out of execValues (populated once per
// executed node as the function compiler visits it) otherwise.
func resolveDataInput(fn *model.GraphFunction, irFn *ir.Function, block *ir.Block, pc *pureCompiler, execValues map[uuid.UUID][]ir.Value, entryParams []ir.Value, localSlots map[string]ir.Value, conn *model.ConnArrow) (ir.Value, error) {
	if conn == nil {
		return ir.Value{}, fmt.Errorf("irgen: unconnected data input")
	}
	producer, ok := fn.Nodes[conn.Node]
	if !ok {
		return ir.Value{}, fmt.Errorf("irgen: data input references missing node %s", conn.Node)
	}
	if producer.Type != nil && producer.Type.Pure {
		vals, err := pc.materialize(fn, irFn, block, execValues, entryParams, localSlots, conn.Node)
		if err != nil {
			return ir.Value{}, err
		}
		if conn.PortIndex >= len(vals) {
			return ir.Value{}, fmt.Errorf("irgen: pure node %s has no output %d", conn.Node, conn.PortIndex)
		}
		return vals[conn.PortIndex], nil
	}
	vals, ok := execValues[conn.Node]
	if !ok {
		return ir.Value{}, fmt.Errorf("irgen: node %s consumed before its producer %s executed", conn.Node, conn.Node)
	}
	if conn.PortIndex >= len(vals) {
		return ir.Value{}, fmt.Errorf("irgen: node %s has no output %d", conn.Node, conn.PortIndex)
	}
	return vals[conn.PortIndex], nil
}

// compileExecutedNode emits id's IR into its pre-created block, resolving
// its data inputs, dispatching to its codegen callback, and recording its
// outputs into execValues for downstream consumers.
func compileExecutedNode(fn *model.GraphFunction, irFn *ir.Function, blocks map[uuid.UUID]*ir.Block, pc *pureCompiler, execValues map[uuid.UUID][]ir.Value, entryParams []ir.Value, localSlots map[string]ir.Value, id uuid.UUID) error {
	ni := fn.Nodes[id]
	block := blocks[id]

	builder := ir.NewBuilder(irFn, block)
	builder.SetLocation(ir.DebugLoc{Line: stableLine(id)})

	inputs := make([]any, len(ni.DataInputConns))
	for i, conn := range ni.DataInputConns {
		if conn == nil {
			continue
		}
		v, err := resolveDataInput(fn, irFn, block, pc, execValues, entryParams, localSlots, conn)
		if err != nil {
			return fmt.Errorf("node %s input %d: %w", id, i, err)
		}
		inputs[i] = v
	}

	outputs := make([]any, len(ni.Type.DataOutputs))
	execOuts := make([]any, len(ni.Type.ExecOutputLabels))
	for i, conn := range ni.ExecOutputConns {
		if conn == nil {
			continue
		}
		target, ok := blocks[conn.Node]
		if !ok {
			return fmt.Errorf("node %s exec output %d targets non-executed node %s", id, i, conn.Node)
		}
		execOuts[i] = target
	}

	cg := &codegenContext{builder: builder, nodeData: nodeDataFor(fn, ni, entryParams, localSlots)}
	if err := ni.Type.Codegen(cg, inputs, outputs, execOuts); err != nil {
		return fmt.Errorf("node %s (%s): %w", id, ni.Type.Qualified(), err)
	}

	vals := make([]ir.Value, len(outputs))
	for i, o := range outputs {
		if o == nil {
			continue
		}
		vals[i] = o.(ir.Value)
	}
	execValues[id] = vals
	return nil
}
