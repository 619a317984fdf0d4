package graphmod

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/chigraph/chigraph/model"
)

// RenderMermaid draws fn's node/edge graph as a Mermaid flowchart, adapted
// from the teacher's graph/visualization.go Exporter.DrawMermaid:
// execution edges render as solid arrows, data edges as dashed ones, and
// the entry and exit nodes render as circles (entry filled green, exit
// pink). Node labels are "<shortType> <id[:8]>" since, unlike the
// teacher's named StateGraph nodes, a NodeInstance has no human name of its
// own.
func RenderMermaid(fn *model.GraphFunction) string {
	var sb strings.Builder
	sb.WriteString("flowchart TD\n")

	for _, id := range sortedNodeIDs(fn) {
		ni := fn.Nodes[id]
		label := mermaidLabel(ni)
		if id == fn.EntryNode {
			fmt.Fprintf(&sb, "    %s((%q))\n", mermaidID(id), label)
			fmt.Fprintf(&sb, "    style %s fill:#90EE90\n", mermaidID(id))
			continue
		}
		if isExitNode(fn, id) {
			fmt.Fprintf(&sb, "    %s((%q))\n", mermaidID(id), label)
			fmt.Fprintf(&sb, "    style %s fill:#FFB6C1\n", mermaidID(id))
			continue
		}
		fmt.Fprintf(&sb, "    %s[%q]\n", mermaidID(id), label)
	}

	for _, id := range sortedNodeIDs(fn) {
		ni := fn.Nodes[id]
		for _, conn := range ni.ExecOutputConns {
			if conn == nil {
				continue
			}
			fmt.Fprintf(&sb, "    %s --> %s\n", mermaidID(id), mermaidID(conn.Node))
		}
		for _, consumers := range ni.DataOutputConsumers {
			for _, conn := range consumers {
				fmt.Fprintf(&sb, "    %s -.-> %s\n", mermaidID(id), mermaidID(conn.Node))
			}
		}
	}

	return sb.String()
}

// RenderPlantUML draws fn as a PlantUML activity-style digraph, the same
// information as RenderMermaid in PlantUML's dot-like syntax.
func RenderPlantUML(fn *model.GraphFunction) string {
	var sb strings.Builder
	sb.WriteString("@startuml\n")
	sb.WriteString("digraph {\n")

	for _, id := range sortedNodeIDs(fn) {
		ni := fn.Nodes[id]
		shape := "box"
		switch {
		case id == fn.EntryNode:
			shape = "doublecircle"
		case isExitNode(fn, id):
			shape = "doublecircle"
		}
		fmt.Fprintf(&sb, "  %q [shape=%s, label=%q];\n", mermaidID(id), shape, mermaidLabel(ni))
	}

	for _, id := range sortedNodeIDs(fn) {
		ni := fn.Nodes[id]
		for _, conn := range ni.ExecOutputConns {
			if conn == nil {
				continue
			}
			fmt.Fprintf(&sb, "  %q -> %q;\n", mermaidID(id), mermaidID(conn.Node))
		}
		for _, consumers := range ni.DataOutputConsumers {
			for _, conn := range consumers {
				fmt.Fprintf(&sb, "  %q -> %q [style=dashed];\n", mermaidID(id), mermaidID(conn.Node))
			}
		}
	}

	sb.WriteString("}\n")
	sb.WriteString("@enduml\n")
	return sb.String()
}

func isExitNode(fn *model.GraphFunction, id uuid.UUID) bool {
	for _, exit := range fn.ExitNodes {
		if exit == id {
			return true
		}
	}
	return false
}

func mermaidID(id uuid.UUID) string {
	return "n" + strings.ReplaceAll(id.String(), "-", "")
}

func mermaidLabel(ni *model.NodeInstance) string {
	if ni.Type == nil {
		return "?"
	}
	return fmt.Sprintf("%s %s", ni.Type.Name, ni.ID.String()[:8])
}

func sortedNodeIDs(fn *model.GraphFunction) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(fn.Nodes))
	for id := range fn.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
