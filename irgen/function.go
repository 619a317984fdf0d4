package irgen

import (
	"sort"

	"github.com/google/uuid"

	"github.com/chigraph/chigraph/diag"
	"github.com/chigraph/chigraph/ir"
	"github.com/chigraph/chigraph/mangle"
	"github.com/chigraph/chigraph/model"
)

// Result is the outcome of compiling one model.GraphFunction: the emitted
// IR function plus its diagnostic record. Function is nil iff the record
// failed.
type Result struct {
	Function *ir.Function
	Record   *diag.Record
}

// CompileFunction lowers fn (already validated by package validate) to an
// ir.Function, per spec §4.K's six-step algorithm. moduleFullName names
// the owning module, used for the mangled symbol name.
func CompileFunction(moduleFullName string, fn *model.GraphFunction) *Result {
	rec := diag.New()

	mangled := mangle.Mangle(moduleFullName, fn.Name)

	paramOffset := 0
	var params []ir.Param
	if len(fn.ExecutionInputs) > 1 {
		params = append(params, ir.Param{Name: "execIn", Type: ir.I32})
		paramOffset = 1
	}
	for _, in := range fn.DataInputs {
		t, ok := toIRType(in.Type)
		if !ok {
			rec.AddErrorf("EIRVerify", "function %s: data input %q has unresolved IR type %s", fn.Name, in.Name, in.Type)
			return &Result{Record: rec}
		}
		params = append(params, ir.Param{Name: in.Name, Type: t})
	}

	retType := ir.Void
	if len(fn.DataOutputs) == 1 {
		t, ok := toIRType(fn.DataOutputs[0].Type)
		if !ok {
			rec.AddErrorf("EIRVerify", "function %s: data output %q has unresolved IR type %s", fn.Name, fn.DataOutputs[0].Name, fn.DataOutputs[0].Type)
			return &Result{Record: rec}
		}
		retType = t
	}
	// Functions returning more than one value are a documented
	// simplification (see DESIGN.md): this IR has no aggregate return
	// convention, so the return type is Void unless there is exactly one
	// data output. The exit node's codegen still returns every value wired
	// into it; with several outputs those values are not reflected in the
	// function's return type.

	irFn := ir.NewFunction(mangled, params, retType)
	irFn.Subprogram = &ir.Subprogram{Name: fn.Name, File: moduleFullName + ".chimod"}

	entryParams := make([]ir.Value, len(fn.DataInputs))
	for i := range fn.DataInputs {
		entryParams[i] = irFn.Param(paramOffset + i)
	}

	prologue := irFn.NewBlock("prologue")
	prologueBuilder := ir.NewBuilder(irFn, prologue)

	localSlots := make(map[string]ir.Value, len(fn.LocalVariables))
	for _, lv := range fn.LocalVariables {
		t, ok := toIRType(lv.Type)
		if !ok {
			rec.AddErrorf("EIRVerify", "function %s: local variable %q has unresolved IR type %s", fn.Name, lv.Name, lv.Type)
			return &Result{Record: rec}
		}
		localSlots[lv.Name] = prologueBuilder.Alloca(t, lv.Name)
	}

	blocks := make(map[uuid.UUID]*ir.Block, len(fn.Nodes))
	for id, ni := range fn.Nodes {
		if ni.Type == nil || ni.Type.Pure {
			continue
		}
		blocks[id] = irFn.NewBlock(id.String())
	}

	entryBlock, ok := blocks[fn.EntryNode]
	if !ok {
		rec.AddErrorf("EIRVerify", "function %s: entry node %s has no pre-created block", fn.Name, fn.EntryNode)
		return &Result{Record: rec}
	}
	prologueBuilder.Br(entryBlock)

	order := topologicalOrder(fn)

	pc := newPureCompiler()
	execValues := make(map[uuid.UUID][]ir.Value, len(order))
	for _, id := range order {
		if err := compileExecutedNode(fn, irFn, blocks, pc, execValues, entryParams, localSlots, id); err != nil {
			rec.AddErrorf("EIRVerify", "function %s: %v", fn.Name, err)
			return &Result{Record: rec}
		}
	}

	if errs := ir.Verify(irFn); len(errs) > 0 {
		for _, e := range errs {
			rec.Add("EIRVerify", e.Error(), nil)
		}
		rec.Add("IDump", "function dump at verification failure", ir.Dump(irFn))
		return &Result{Record: rec}
	}

	return &Result{Function: irFn, Record: rec}
}

// toIRType extracts the package ir.Type backing dt, which is populated
// once dt's owning module has registered it through a live Context.
func toIRType(dt model.DataType) (ir.Type, bool) {
	t, ok := dt.IRType.(ir.Type)
	return t, ok
}

// topologicalOrder walks fn's executed nodes along exec edges starting at
// the entry node, visiting each node once. Cycles are broken arbitrarily —
// a node already on the visited set is simply not revisited, per spec
// §4.K step 5 ("correctness is preserved because blocks are pre-created").
// Visitation order among sibling branches is stabilized by sorting node
// IDs, so two compilations of the same function always emit nodes in the
// same order.
func topologicalOrder(fn *model.GraphFunction) []uuid.UUID {
	var order []uuid.UUID
	visited := make(map[uuid.UUID]bool)

	var walk func(id uuid.UUID)
	walk = func(id uuid.UUID) {
		if visited[id] {
			return
		}
		visited[id] = true
		order = append(order, id)

		ni, ok := fn.Nodes[id]
		if !ok {
			return
		}
		next := make([]uuid.UUID, 0, len(ni.ExecOutputConns))
		for _, conn := range ni.ExecOutputConns {
			if conn != nil {
				next = append(next, conn.Node)
			}
		}
		sort.Slice(next, func(i, j int) bool { return next[i].String() < next[j].String() })
		for _, n := range next {
			walk(n)
		}
	}

	if fn.EntryNode != uuid.Nil {
		walk(fn.EntryNode)
	}
	return order
}
