package jsonmod

import (
	"encoding/json"
	"fmt"
	"sort"
)

// NamedTypeDoc is the wire form of a model.NamedDataType: a single-key JSON
// object {name: qualifiedType} rather than a resolved model.DataType, since
// resolution requires a Context. Spec §6 uses this shape for a function's
// data_inputs/data_outputs entries and for a struct's field list.
type NamedTypeDoc struct {
	Name string
	Type string
}

// MarshalJSON renders n as the single-key object {Name: Type}.
func (n NamedTypeDoc) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{n.Name: n.Type})
}

// UnmarshalJSON parses a single-key object into n.
func (n *NamedTypeDoc) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if len(m) != 1 {
		return fmt.Errorf("jsonmod: named type entry must have exactly one key, got %d", len(m))
	}
	for k, v := range m {
		n.Name, n.Type = k, v
	}
	return nil
}

// Connection kinds (spec §6).
const (
	ConnExec = "exec"
	ConnData = "data"
)

// ConnEndpoint is one side of a ConnectionDoc, wire-encoded as the
// two-element array spec §6 shows: [nodeUUID, portIndex].
type ConnEndpoint struct {
	Node  string
	Index int
}

// MarshalJSON renders e as [Node, Index].
func (e ConnEndpoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Node, e.Index})
}

// UnmarshalJSON parses a [Node, Index] array into e.
func (e *ConnEndpoint) UnmarshalJSON(data []byte) error {
	var arr [2]json.RawMessage
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	if err := json.Unmarshal(arr[0], &e.Node); err != nil {
		return err
	}
	return json.Unmarshal(arr[1], &e.Index)
}

// ConnectionDoc is one entry of a FunctionDoc's connections array (spec
// §6). Input names the producer side (fromUUID, outputIdx); Output names
// the consumer side (toUUID, inputIdx) — the field names mirror the wire
// shape, not Go's usual producer/consumer vocabulary.
type ConnectionDoc struct {
	Type   string       `json:"type"`
	Input  ConnEndpoint `json:"input"`
	Output ConnEndpoint `json:"output"`
}

// SortConnections orders conns in the stable order spec §6 mandates: exec
// edges before data edges, then by (fromUUID, outputIdx) — i.e. by the
// Input endpoint, since Input carries the producer side.
func SortConnections(conns []ConnectionDoc) {
	sort.SliceStable(conns, func(i, j int) bool {
		a, b := conns[i], conns[j]
		if (a.Type == ConnExec) != (b.Type == ConnExec) {
			return a.Type == ConnExec
		}
		if a.Input.Node != b.Input.Node {
			return a.Input.Node < b.Input.Node
		}
		return a.Input.Index < b.Input.Index
	})
}

// NodeDoc is the wire form of a model.NodeInstance. It carries no "id"
// field of its own — a NodeDoc is always reached through a FunctionDoc's
// Nodes map, keyed by that UUID (spec §6). Unknown keys (editor metadata a
// newer GUI version added) round-trip through Extra and are forwarded to
// the node type's JSON handler.
type NodeDoc struct {
	Type     string          `json:"type"`
	Location [2]float64      `json:"location"`
	Data     json.RawMessage `json:"data,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var nodeDocKnownKeys = []string{"type", "location", "data"}

// MarshalJSON merges NodeDoc's known fields with its preserved Extra keys.
func (n NodeDoc) MarshalJSON() ([]byte, error) {
	type alias NodeDoc
	known, err := json.Marshal(alias(n))
	if err != nil {
		return nil, err
	}
	return mergeExtra(known, n.Extra)
}

// UnmarshalJSON decodes n's known fields and stashes everything else in Extra.
func (n *NodeDoc) UnmarshalJSON(data []byte) error {
	type alias NodeDoc
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*n = NodeDoc(a)

	extra, err := splitExtra(data, nodeDocKnownKeys)
	if err != nil {
		return err
	}
	n.Extra = extra
	return nil
}

// FunctionDoc is the wire form of a model.GraphFunction — spec §6's
// graphFunctionObject. It carries no explicit entry/exit node reference:
// those are identified structurally, by which node's Type is "lang:entry"
// or "lang:exit" (spec §3 invariant 4 — exactly one entry, at least one
// exit).
type FunctionDoc struct {
	Type             string             `json:"type"`
	Name             string             `json:"name"`
	DataInputs       []NamedTypeDoc     `json:"data_inputs,omitempty"`
	DataOutputs      []NamedTypeDoc     `json:"data_outputs,omitempty"`
	ExecutionInputs  []string           `json:"exec_inputs,omitempty"`
	ExecutionOutputs []string           `json:"exec_outputs,omitempty"`
	LocalVariables   map[string]string  `json:"local_variables,omitempty"`
	Nodes            map[string]NodeDoc `json:"nodes"`
	Connections      []ConnectionDoc    `json:"connections,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var functionDocKnownKeys = []string{
	"type", "name", "data_inputs", "data_outputs", "exec_inputs", "exec_outputs",
	"local_variables", "nodes", "connections",
}

// MarshalJSON merges FunctionDoc's known fields (defaulting Type to
// "function" per spec §6) with its preserved Extra keys.
func (fd FunctionDoc) MarshalJSON() ([]byte, error) {
	type alias FunctionDoc
	cp := alias(fd)
	if cp.Type == "" {
		cp.Type = "function"
	}
	known, err := json.Marshal(cp)
	if err != nil {
		return nil, err
	}
	return mergeExtra(known, fd.Extra)
}

// UnmarshalJSON decodes fd's known fields and stashes everything else in Extra.
func (fd *FunctionDoc) UnmarshalJSON(data []byte) error {
	type alias FunctionDoc
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*fd = FunctionDoc(a)

	extra, err := splitExtra(data, functionDocKnownKeys)
	if err != nil {
		return err
	}
	fd.Extra = extra
	return nil
}

// Document is the wire form of an entire .chimod file (spec §6): declared
// dependencies, named struct types keyed by type name, and named graph
// functions keyed by function name. The module's own full name is never
// part of the document — it is the <fullName> component of the file's own
// path, <workspace>/src/<fullName>.chimod, supplied by the caller that
// located the file. Unknown top-level keys round-trip through Extra.
type Document struct {
	Dependencies []string                  `json:"dependencies,omitempty"`
	Types        map[string][]NamedTypeDoc `json:"types,omitempty"`
	Graphs       map[string]*FunctionDoc   `json:"graphs,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var documentKnownKeys = []string{"dependencies", "types", "graphs"}

// MarshalJSON merges Document's known fields with its preserved Extra keys.
func (d Document) MarshalJSON() ([]byte, error) {
	type alias Document
	known, err := json.Marshal(alias(d))
	if err != nil {
		return nil, err
	}
	return mergeExtra(known, d.Extra)
}

// UnmarshalJSON decodes d's known fields and stashes everything else in Extra.
func (d *Document) UnmarshalJSON(data []byte) error {
	type alias Document
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*d = Document(a)

	extra, err := splitExtra(data, documentKnownKeys)
	if err != nil {
		return err
	}
	d.Extra = extra
	return nil
}

// Decode parses raw into a Document.
func Decode(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Encode renders doc as canonical, indented JSON.
func Encode(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// splitExtra decodes data as a generic object and returns every key not in
// known, so a caller's typed struct can carry them forward untouched.
func splitExtra(data []byte, known []string) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	knownSet := make(map[string]bool, len(known))
	for _, k := range known {
		knownSet[k] = true
	}
	extra := make(map[string]json.RawMessage)
	for k, v := range raw {
		if !knownSet[k] {
			extra[k] = v
		}
	}
	if len(extra) == 0 {
		return nil, nil
	}
	return extra, nil
}

// mergeExtra decodes known (a marshaled struct) back into an object map
// and adds extra's keys on top, then re-marshals the merged object.
func mergeExtra(known []byte, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return known, nil
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for k, v := range extra {
		merged[k] = v
	}
	return json.Marshal(merged)
}
