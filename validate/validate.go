package validate

import (
	"github.com/google/uuid"

	"github.com/chigraph/chigraph/diag"
	"github.com/chigraph/chigraph/model"
)

// Function runs both checks from spec §4.I against fn and returns their
// composed diagnostic record. It never mutates fn.
func Function(fn *model.GraphFunction) *diag.Record {
	rec := diag.New()
	checkConnections(fn, rec)
	checkUseBeforeDef(fn, rec)
	return rec
}

// checkConnections is the two-way connection check: every data and exec
// edge must be mirrored on both endpoints, and data edges must agree on
// type.
func checkConnections(fn *model.GraphFunction, rec *diag.Record) {
	for id, n := range fn.Nodes {
		for inIdx, conn := range n.DataInputConns {
			if conn == nil {
				continue
			}
			producer, ok := fn.Nodes[conn.Node]
			if !ok {
				rec.AddErrorf("EConnErr", "node %s data input %d references missing producer %s", id, inIdx, conn.Node)
				continue
			}
			if conn.PortIndex < 0 || conn.PortIndex >= len(producer.DataOutputConsumers) {
				rec.AddErrorf("EConnErr", "node %s data input %d references out-of-range producer output %d", id, inIdx, conn.PortIndex)
				continue
			}
			if !hasArrow(producer.DataOutputConsumers[conn.PortIndex], id, inIdx) {
				rec.AddErrorf("EConnErr", "node %s data input %d is not mirrored by producer %s output %d", id, inIdx, conn.Node, conn.PortIndex)
			}

			want := n.Type.DataInputs[inIdx].Type
			got := producer.Type.DataOutputs[conn.PortIndex].Type
			if !want.Equal(got) {
				rec.AddErrorf("EConnErr", "node %s data input %d type mismatch: wants %s, producer %s supplies %s", id, inIdx, want, conn.Node, got)
			}
		}

		for outIdx, conn := range n.ExecOutputConns {
			if conn == nil {
				continue
			}
			consumer, ok := fn.Nodes[conn.Node]
			if !ok {
				rec.AddErrorf("EConnErr", "node %s exec output %d references missing consumer %s", id, outIdx, conn.Node)
				continue
			}
			if conn.PortIndex < 0 || conn.PortIndex >= len(consumer.ExecInputConns) {
				rec.AddErrorf("EConnErr", "node %s exec output %d references out-of-range consumer input %d", id, outIdx, conn.PortIndex)
				continue
			}
			if !hasArrow(consumer.ExecInputConns[conn.PortIndex], id, outIdx) {
				rec.AddErrorf("EConnErr", "node %s exec output %d is not mirrored by consumer %s input %d", id, outIdx, conn.Node, conn.PortIndex)
			}
		}
	}
}

func hasArrow(arrows []model.ConnArrow, node uuid.UUID, port int) bool {
	for _, a := range arrows {
		if a.Node == node && a.PortIndex == port {
			return true
		}
	}
	return false
}

// checkUseBeforeDef performs the depth-first walk from the entry node along
// exec edges, requiring every data input of a visited node to be either
// unconnected, pure, or already visited earlier on the walk.
func checkUseBeforeDef(fn *model.GraphFunction, rec *diag.Record) {
	if fn.EntryNode == uuid.Nil {
		rec.AddErrorf("EUseBeforeDef", "function %s has no entry node to walk from", fn.Name)
		return
	}

	visited := make(map[uuid.UUID]bool)
	var walk func(id uuid.UUID)
	walk = func(id uuid.UUID) {
		if visited[id] {
			return
		}
		visited[id] = true

		n := fn.Nodes[id]
		if n == nil {
			return
		}

		for inIdx, conn := range n.DataInputConns {
			if conn == nil {
				continue
			}
			producer := fn.Nodes[conn.Node]
			if producer == nil || producer.Type == nil {
				continue
			}
			if producer.Type.Pure {
				continue
			}
			if !visited[conn.Node] {
				rec.AddErrorf("EUseBeforeDef", "node %s data input %d consumes node %s before it executes", id, inIdx, conn.Node)
			}
		}

		for _, out := range n.ExecOutputConns {
			if out != nil {
				walk(out.Node)
			}
		}
	}

	walk(fn.EntryNode)
}
