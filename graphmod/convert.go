package graphmod

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"

	"github.com/chigraph/chigraph/builtin/lang"
	"github.com/chigraph/chigraph/diag"
	"github.com/chigraph/chigraph/jsonmod"
	"github.com/chigraph/chigraph/model"
)

// TypeResolver resolves a "<moduleFullName>:<name>" qualified type
// reference to a model.DataType. A *chictx.Context satisfies this via a
// method value, without graphmod needing to import it (chictx itself
// depends on graphmod to load a module's document in the first place).
type TypeResolver func(qualified string) (model.DataType, *diag.Record)

// NodeTypeResolver resolves one NodeDoc's qualified type (nd.Type) to a
// model.NodeType. It is handed the owning FunctionDoc as well as the node
// itself because two node types ("entry" and "exit") are parametrized by
// the function's own signature rather than by the node instance's JSON
// payload: a *chictx.Context implementation special-cases those two names,
// looking up fd.DataInputs/fd.DataOutputs instead of nd.Data, before
// delegating to the owning module's CreateNodeType.
type NodeTypeResolver func(fd *jsonmod.FunctionDoc, nd *jsonmod.NodeDoc) (*model.NodeType, *diag.Record)

// FromDocument converts a decoded jsonmod.Document into a Module named
// fullName, resolving every type and node type reference it contains
// through resolveType and resolveNodeType. fullName is supplied by the
// caller rather than read off the document, since spec §6 derives a
// module's full name from its own source path
// (<workspace>/src/<fullName>.chimod), not from a field inside the file.
// Resolution failures accumulate into the returned Record rather than
// aborting at the first one, so a caller sees every broken reference in a
// malformed document at once.
func FromDocument(fullName string, doc *jsonmod.Document, resolveType TypeResolver, resolveNodeType NodeTypeResolver) (*Module, *diag.Record) {
	rec := diag.New()
	m := New(fullName, append([]string(nil), doc.Dependencies...))

	for typeName, fields := range doc.Types {
		sFields := make([]model.NamedDataType, len(fields))
		for i, f := range fields {
			dt, r := resolveType(f.Type)
			rec.Merge(r)
			sFields[i] = model.NamedDataType{Name: f.Name, Type: dt}
		}
		m.AddStruct(&model.GraphStruct{Name: typeName, Fields: sFields})
	}

	for funcName, fd := range doc.Graphs {
		if fd == nil {
			continue
		}
		fn, r := functionFromDoc(funcName, fd, resolveType, resolveNodeType)
		rec.Merge(r)
		if fn != nil {
			m.AddFunction(fn)
		}
	}

	return m, rec
}

func namedTypesFromDocs(docs []jsonmod.NamedTypeDoc, resolveType TypeResolver, rec *diag.Record) []model.NamedDataType {
	out := make([]model.NamedDataType, len(docs))
	for i, d := range docs {
		dt, r := resolveType(d.Type)
		rec.Merge(r)
		out[i] = model.NamedDataType{Name: d.Name, Type: dt}
	}
	return out
}

// namedTypesFromMap converts a FunctionDoc.LocalVariables map into ordered
// NamedDataTypes, sorting by name since a Go map has no stable order of
// its own and local variable order should not depend on map iteration.
func namedTypesFromMap(m map[string]string, resolveType TypeResolver, rec *diag.Record) []model.NamedDataType {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]model.NamedDataType, 0, len(names))
	for _, name := range names {
		dt, r := resolveType(m[name])
		rec.Merge(r)
		out = append(out, model.NamedDataType{Name: name, Type: dt})
	}
	return out
}

// entryNodeType and exitNodeType are the qualified node type names that
// identify a function's entry/exit nodes structurally (spec §3 invariant
// 4), since the wire format (spec §6) carries no explicit entryNode/
// exitNodes reference.
const (
	entryNodeType = lang.FullName + ":entry"
	exitNodeType  = lang.FullName + ":exit"
)

func functionFromDoc(name string, fd *jsonmod.FunctionDoc, resolveType TypeResolver, resolveNodeType NodeTypeResolver) (*model.GraphFunction, *diag.Record) {
	rec := diag.New()
	fn := model.NewGraphFunction(name)
	fn.DataInputs = namedTypesFromDocs(fd.DataInputs, resolveType, rec)
	fn.DataOutputs = namedTypesFromDocs(fd.DataOutputs, resolveType, rec)
	fn.ExecutionInputs = append([]string(nil), fd.ExecutionInputs...)
	fn.ExecutionOutputs = append([]string(nil), fd.ExecutionOutputs...)
	fn.LocalVariables = namedTypesFromMap(fd.LocalVariables, resolveType, rec)

	for idStr, nd := range fd.Nodes {
		id, err := uuid.Parse(idStr)
		if err != nil {
			rec.AddErrorf("EParseErr", "function %s: invalid node id %q: %v", name, idStr, err)
			continue
		}

		nd := nd
		ni, r := nodeFromDoc(fd, &nd, resolveNodeType)
		rec.Merge(r)
		if ni == nil {
			continue
		}
		ni.ID = id
		fn.AddNode(ni)

		switch nd.Type {
		case entryNodeType:
			fn.EntryNode = id
		case exitNodeType:
			fn.ExitNodes = append(fn.ExitNodes, id)
		}
	}

	for _, c := range fd.Connections {
		fromID, err := uuid.Parse(c.Input.Node)
		if err != nil {
			rec.AddErrorf("EParseErr", "function %s: connection: invalid source node id %q: %v", name, c.Input.Node, err)
			continue
		}
		toID, err := uuid.Parse(c.Output.Node)
		if err != nil {
			rec.AddErrorf("EParseErr", "function %s: connection: invalid target node id %q: %v", name, c.Output.Node, err)
			continue
		}

		switch c.Type {
		case jsonmod.ConnData:
			fn.ConnectData(fromID, c.Input.Index, toID, c.Output.Index)
		case jsonmod.ConnExec:
			fn.ConnectExec(fromID, c.Input.Index, toID, c.Output.Index)
		default:
			rec.AddErrorf("EParseErr", "function %s: connection: unknown type %q", name, c.Type)
		}
	}

	return fn, rec
}

func nodeFromDoc(fd *jsonmod.FunctionDoc, nd *jsonmod.NodeDoc, resolveNodeType NodeTypeResolver) (*model.NodeInstance, *diag.Record) {
	rec := diag.New()

	nt, r := resolveNodeType(fd, nd)
	rec.Merge(r)
	if nt == nil {
		return nil, rec
	}

	ni := model.NewNodeInstance(nt)
	ni.X, ni.Y = nd.Location[0], nd.Location[1]

	if len(nd.Data) > 0 {
		var data any
		if err := json.Unmarshal(nd.Data, &data); err != nil {
			rec.AddErrorf("EParseErr", "node: invalid data payload: %v", err)
		} else {
			ni.Data = data
		}
	}

	return ni, rec
}

// ToDocument converts a Module back into its jsonmod.Document wire form,
// the inverse of FromDocument. It never fails: every in-memory value is
// already well-formed enough to serialize.
func ToDocument(m *Module) *jsonmod.Document {
	doc := &jsonmod.Document{
		Dependencies: append([]string(nil), m.dependencies...),
	}

	if len(m.structs) > 0 {
		doc.Types = make(map[string][]jsonmod.NamedTypeDoc, len(m.structs))
		for name, s := range m.structs {
			doc.Types[name] = namedTypesToDocs(s.Fields)
		}
	}

	if len(m.functions) > 0 {
		doc.Graphs = make(map[string]*jsonmod.FunctionDoc, len(m.functions))
		for name, fn := range m.functions {
			doc.Graphs[name] = functionToDoc(fn)
		}
	}

	return doc
}

func namedTypesToDocs(fields []model.NamedDataType) []jsonmod.NamedTypeDoc {
	out := make([]jsonmod.NamedTypeDoc, len(fields))
	for i, f := range fields {
		out[i] = jsonmod.NamedTypeDoc{Name: f.Name, Type: f.Type.Qualified()}
	}
	return out
}

func functionToDoc(fn *model.GraphFunction) *jsonmod.FunctionDoc {
	fd := &jsonmod.FunctionDoc{
		Type:             "function",
		Name:             fn.Name,
		DataInputs:       namedTypesToDocs(fn.DataInputs),
		DataOutputs:      namedTypesToDocs(fn.DataOutputs),
		ExecutionInputs:  append([]string(nil), fn.ExecutionInputs...),
		ExecutionOutputs: append([]string(nil), fn.ExecutionOutputs...),
		Nodes:            make(map[string]jsonmod.NodeDoc, len(fn.Nodes)),
	}

	if len(fn.LocalVariables) > 0 {
		fd.LocalVariables = make(map[string]string, len(fn.LocalVariables))
		for _, lv := range fn.LocalVariables {
			fd.LocalVariables[lv.Name] = lv.Type.Qualified()
		}
	}

	for id, ni := range fn.Nodes {
		fd.Nodes[id.String()] = nodeToDoc(ni)
	}

	fd.Connections = connectionsToDoc(fn)
	jsonmod.SortConnections(fd.Connections)

	return fd
}

func nodeToDoc(ni *model.NodeInstance) jsonmod.NodeDoc {
	nd := jsonmod.NodeDoc{
		Location: [2]float64{ni.X, ni.Y},
	}
	if ni.Type != nil {
		nd.Type = ni.Type.Qualified()
	}
	if ni.Data != nil {
		if raw, err := json.Marshal(ni.Data); err == nil {
			nd.Data = raw
		}
	}
	return nd
}

// connectionsToDoc derives a function's top-level connections array from
// each node's producer-side records: ExecOutputConns (at most one
// consumer) and DataOutputConsumers (unbounded fanout). The consuming
// side's own DataInputConns/ExecInputConns are not walked separately —
// ConnectData/ConnectExec always populate both directions together, so the
// producer side alone already reflects every edge exactly once.
func connectionsToDoc(fn *model.GraphFunction) []jsonmod.ConnectionDoc {
	var conns []jsonmod.ConnectionDoc
	for id, ni := range fn.Nodes {
		for outIdx, c := range ni.ExecOutputConns {
			if c == nil {
				continue
			}
			conns = append(conns, jsonmod.ConnectionDoc{
				Type:   jsonmod.ConnExec,
				Input:  jsonmod.ConnEndpoint{Node: id.String(), Index: outIdx},
				Output: jsonmod.ConnEndpoint{Node: c.Node.String(), Index: c.PortIndex},
			})
		}
		for outIdx, arrows := range ni.DataOutputConsumers {
			for _, a := range arrows {
				conns = append(conns, jsonmod.ConnectionDoc{
					Type:   jsonmod.ConnData,
					Input:  jsonmod.ConnEndpoint{Node: id.String(), Index: outIdx},
					Output: jsonmod.ConnEndpoint{Node: a.Node.String(), Index: a.PortIndex},
				})
			}
		}
	}
	return conns
}
