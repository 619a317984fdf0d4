package jsonmod

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/chigraph/chigraph/diag"
)

// documentSchema describes the minimal required shape of a .chimod
// document (spec §6): an object whose "dependencies" key, if present, is a
// string array, and whose "types"/"graphs" keys, if present, are objects.
// It intentionally does not constrain a graph function's or node's
// internal shape beyond that — those are structural invariants the
// function validator (package validate) checks once the document is
// resolved against a live Context, not something a static schema can
// usefully express. The second pass below catches the one thing worth
// rejecting before a Context ever sees the document: a graph entry missing
// its own name or nodes.
var documentSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"dependencies": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		"types":        {Type: "object"},
		"graphs":       {Type: "object"},
	},
}

var resolvedDocumentSchema *jsonschema.Resolved

func init() {
	resolved, err := documentSchema.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("jsonmod: invalid built-in document schema: %v", err))
	}
	resolvedDocumentSchema = resolved
}

// Validate checks that raw is a syntactically well-formed JSON object
// matching documentSchema, then decodes it and checks that every entry
// under "graphs" carries a name and at least one node, before the
// permissive Decode step a caller runs next — giving them a structural
// EParseErr diagnostic instead of an opaque encoding/json error, or a nil
// map silently swallowed downstream, when a .chimod file is malformed.
func Validate(raw []byte) *diag.Record {
	rec := diag.New()

	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		rec.AddErrorf("EParseErr", "jsonmod: invalid JSON: %v", err)
		return rec
	}

	if err := resolvedDocumentSchema.Validate(instance); err != nil {
		rec.AddErrorf("EParseErr", "jsonmod: document does not match schema: %v", err)
		return rec
	}

	doc, err := Decode(raw)
	if err != nil {
		rec.AddErrorf("EParseErr", "jsonmod: %v", err)
		return rec
	}

	for name, fd := range doc.Graphs {
		if fd == nil {
			rec.AddErrorf("EParseErr", "jsonmod: graph %q: null function object", name)
			continue
		}
		if fd.Name == "" {
			rec.AddErrorf("EParseErr", "jsonmod: graph %q: missing name", name)
		}
		if len(fd.Nodes) == 0 {
			rec.AddErrorf("EParseErr", "jsonmod: graph %q: missing nodes", name)
		}
	}
	return rec
}
