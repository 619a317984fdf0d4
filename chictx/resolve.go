package chictx

import (
	"context"
	"encoding/json"

	cbuiltin "github.com/chigraph/chigraph/builtin/c"
	"github.com/chigraph/chigraph/builtin/lang"
	"github.com/chigraph/chigraph/diag"
	"github.com/chigraph/chigraph/jsonmod"
	"github.com/chigraph/chigraph/model"
)

// namedTypeDoc is a plain (name, qualifiedType) pair used inside a node
// instance's own private Data payload — unlike jsonmod.NamedTypeDoc, which
// spec §6 wire-encodes as a single-key object, a node type's JSON payload
// is opaque to the document format (spec §6: "forwarded to the node
// type's JSON handler") and free to use its own shape. It doubles as the
// "lang:set"/"lang:get" local-variable payload, which is the same
// (name, qualifiedType) pair.
type namedTypeDoc struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// funcRequestDoc is the wire payload a "c:func" node carries in its own
// NodeDoc.Data, mirroring builtin/c.FuncRequest but with qualified-name
// type references instead of resolved model.DataType values.
type funcRequestDoc struct {
	Source       string         `json:"source"`
	FunctionName string         `json:"functionName"`
	ClangArgs    []string       `json:"clangArgs"`
	DataInputs   []namedTypeDoc `json:"dataInputs"`
	DataOutputs  []namedTypeDoc `json:"dataOutputs"`
}

// resolveNodeType is the graphmod.NodeTypeResolver method value a Context
// hands to graphmod.FromDocument. "entry" and "exit" are parametrized by
// the owning function's own signature rather than by the node instance's
// JSON payload (see graphmod/convert.go's NodeTypeResolver doc); "set" and
// "get" carry a (name, qualified type) pair that must be resolved against
// this Context before lang.Module.CreateNodeType will accept it; "c:func"
// similarly needs its declared signature resolved. Everything else's
// jsonData is ignored by its owning module's CreateNodeType, so it is
// passed through as nil.
func (ctx *Context) resolveNodeType(fd *jsonmod.FunctionDoc, nd *jsonmod.NodeDoc) (*model.NodeType, *diag.Record) {
	rec := diag.New()

	dt, err := model.ParseQualifiedType(nd.Type)
	if err != nil {
		rec.AddErrorf("EParseErr", "chictx: node type %q: invalid type %q: %v", nd.Type, nd.Type, err)
		return nil, rec
	}
	moduleName, nodeName := dt.OwningModule, dt.UnqualifiedName

	switch {
	case moduleName == lang.FullName && nodeName == "entry":
		inputs := namedTypesFrom(fd.DataInputs, ctx.TypeByQualifiedName, rec)
		return ctx.NodeType(context.Background(), moduleName, nodeName, inputs)

	case moduleName == lang.FullName && nodeName == "exit":
		outputs := namedTypesFrom(fd.DataOutputs, ctx.TypeByQualifiedName, rec)
		return ctx.NodeType(context.Background(), moduleName, nodeName, outputs)

	case moduleName == lang.FullName && (nodeName == "set" || nodeName == "get"):
		var doc namedTypeDoc
		if len(nd.Data) > 0 {
			if err := json.Unmarshal(nd.Data, &doc); err != nil {
				rec.AddErrorf("EParseErr", "chictx: %s node: invalid local variable payload: %v", nodeName, err)
				return nil, rec
			}
		}
		t, typeRec := ctx.TypeByQualifiedName(doc.Type)
		rec.Merge(typeRec)
		return ctx.NodeType(context.Background(), moduleName, nodeName, model.NamedDataType{Name: doc.Name, Type: t})

	case moduleName == cbuiltin.FullName && nodeName == "func":
		var doc funcRequestDoc
		if len(nd.Data) > 0 {
			if err := json.Unmarshal(nd.Data, &doc); err != nil {
				rec.AddErrorf("EParseErr", "chictx: c:func node: invalid payload: %v", err)
				return nil, rec
			}
		}
		req := &cbuiltin.FuncRequest{
			Source:       doc.Source,
			FunctionName: doc.FunctionName,
			ClangArgs:    doc.ClangArgs,
			DataInputs:   namedTypesFromLocal(doc.DataInputs, ctx.TypeByQualifiedName, rec),
			DataOutputs:  namedTypesFromLocal(doc.DataOutputs, ctx.TypeByQualifiedName, rec),
		}
		return ctx.NodeType(context.Background(), moduleName, nodeName, req)

	default:
		return ctx.NodeType(context.Background(), moduleName, nodeName, nil)
	}
}

func namedTypesFrom(docs []jsonmod.NamedTypeDoc, resolve func(string) (model.DataType, *diag.Record), rec *diag.Record) []model.NamedDataType {
	out := make([]model.NamedDataType, len(docs))
	for i, d := range docs {
		t, r := resolve(d.Type)
		rec.Merge(r)
		out[i] = model.NamedDataType{Name: d.Name, Type: t}
	}
	return out
}

// namedTypesFromLocal is namedTypesFrom for the node-private namedTypeDoc
// shape used by a "c:func" payload's own dataInputs/dataOutputs, which
// is independent of the document-level jsonmod.NamedTypeDoc wire shape.
func namedTypesFromLocal(docs []namedTypeDoc, resolve func(string) (model.DataType, *diag.Record), rec *diag.Record) []model.NamedDataType {
	out := make([]model.NamedDataType, len(docs))
	for i, d := range docs {
		t, r := resolve(d.Type)
		rec.Merge(r)
		out[i] = model.NamedDataType{Name: d.Name, Type: t}
	}
	return out
}
