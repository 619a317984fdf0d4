package irgen

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/chigraph/chigraph/ir"
	"github.com/chigraph/chigraph/model"
)

// pureCompiler is component L: a per-consumer-block memoized, recursive
// materializer of pure node values, bound to one function compilation.
// materialize is idempotent within one consumer block and forbidden to
// cross blocks — emitting the same pure node into a different block
// re-runs the recursion from scratch, matching spec §4.L exactly, since a
// pure node's computation never varies by the incoming exec edge and this
// package models one basic block per node rather than one per incoming
// edge (see DESIGN.md for that simplification).
type pureCompiler struct {
	cache map[*ir.Block]map[uuid.UUID][]ir.Value
}

func newPureCompiler() *pureCompiler {
	return &pureCompiler{cache: make(map[*ir.Block]map[uuid.UUID][]ir.Value)}
}

// materialize returns nodeID's output values as seen from block, computing
// and caching them on first request and returning the cached values on any
// subsequent request for the same (block, nodeID) pair.
func (pc *pureCompiler) materialize(fn *model.GraphFunction, irFn *ir.Function, block *ir.Block, execValues map[uuid.UUID][]ir.Value, entryParams []ir.Value, localSlots map[string]ir.Value, nodeID uuid.UUID) ([]ir.Value, error) {
	byNode, ok := pc.cache[block]
	if !ok {
		byNode = make(map[uuid.UUID][]ir.Value)
		pc.cache[block] = byNode
	}
	if vals, ok := byNode[nodeID]; ok {
		return vals, nil
	}

	ni, ok := fn.Nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("irgen: pure node %s not found", nodeID)
	}

	inputs := make([]any, len(ni.DataInputConns))
	for i, conn := range ni.DataInputConns {
		if conn == nil {
			continue
		}
		v, err := resolveDataInput(fn, irFn, block, pc, execValues, entryParams, localSlots, conn)
		if err != nil {
			return nil, fmt.Errorf("pure node %s input %d: %w", nodeID, i, err)
		}
		inputs[i] = v
	}

	outputs := make([]any, len(ni.Type.DataOutputs))
	builder := ir.NewBuilder(irFn, block)
	builder.SetLocation(ir.DebugLoc{Line: stableLine(nodeID)})
	cg := &codegenContext{builder: builder, nodeData: nodeDataFor(fn, ni, entryParams, localSlots)}
	if err := ni.Type.Codegen(cg, inputs, outputs, nil); err != nil {
		return nil, fmt.Errorf("pure node %s (%s): %w", nodeID, ni.Type.Qualified(), err)
	}

	vals := make([]ir.Value, len(outputs))
	for i, o := range outputs {
		if o == nil {
			continue
		}
		vals[i] = o.(ir.Value)
	}
	byNode[nodeID] = vals
	return vals, nil
}
