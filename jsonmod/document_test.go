package jsonmod

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
	"dependencies": ["lang"],
	"types": {
		"Point": [{"x": "lang:i32"}, {"y": "lang:i32"}]
	},
	"graphs": {
		"identity": {
			"type": "function",
			"name": "identity",
			"data_inputs": [{"x": "lang:i32"}],
			"data_outputs": [{"x": "lang:i32"}],
			"nodes": {
				"00000000-0000-0000-0000-000000000001": {"type": "lang:entry", "location": [0, 0]},
				"00000000-0000-0000-0000-000000000002": {"type": "lang:exit", "location": [100, 0]}
			},
			"connections": [
				{"type": "exec", "input": ["00000000-0000-0000-0000-000000000001", 0], "output": ["00000000-0000-0000-0000-000000000002", 0]},
				{"type": "data", "input": ["00000000-0000-0000-0000-000000000001", 0], "output": ["00000000-0000-0000-0000-000000000002", 0]}
			]
		}
	},
	"editorTheme": "dark"
}`

func TestDecodePreservesKnownFields(t *testing.T) {
	doc, err := Decode([]byte(sampleDocument))
	require.NoError(t, err)
	assert.Equal(t, []string{"lang"}, doc.Dependencies)
	require.Contains(t, doc.Types, "Point")
	require.Len(t, doc.Types["Point"], 2)

	require.Contains(t, doc.Graphs, "identity")
	fd := doc.Graphs["identity"]
	assert.Equal(t, "identity", fd.Name)
	require.Len(t, fd.Nodes, 2)
	require.Len(t, fd.Connections, 2)
}

func TestDecodePreservesUnknownTopLevelKeys(t *testing.T) {
	doc, err := Decode([]byte(sampleDocument))
	require.NoError(t, err)
	require.Contains(t, doc.Extra, "editorTheme")

	var theme string
	require.NoError(t, json.Unmarshal(doc.Extra["editorTheme"], &theme))
	assert.Equal(t, "dark", theme)
}

func TestEncodeRoundTripsUnknownKeys(t *testing.T) {
	doc, err := Decode([]byte(sampleDocument))
	require.NoError(t, err)

	out, err := Encode(doc)
	require.NoError(t, err)

	doc2, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, doc.Dependencies, doc2.Dependencies)
	require.Contains(t, doc2.Extra, "editorTheme")
}

func TestNodeDocPreservesUnknownKeys(t *testing.T) {
	raw := `{"type": "lang:entry", "location": [1, 2], "collapsed": true}`
	var node NodeDoc
	require.NoError(t, json.Unmarshal([]byte(raw), &node))
	assert.Equal(t, "lang:entry", node.Type)
	require.Contains(t, node.Extra, "collapsed")

	out, err := json.Marshal(node)
	require.NoError(t, err)

	var node2 NodeDoc
	require.NoError(t, json.Unmarshal(out, &node2))
	assert.Contains(t, node2.Extra, "collapsed")
}

func TestNamedTypeDocRoundTripsSingleKeyShape(t *testing.T) {
	raw := `{"x": "lang:i32"}`
	var nt NamedTypeDoc
	require.NoError(t, json.Unmarshal([]byte(raw), &nt))
	assert.Equal(t, "x", nt.Name)
	assert.Equal(t, "lang:i32", nt.Type)

	out, err := json.Marshal(nt)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestSortConnectionsOrdersExecBeforeDataThenByInput(t *testing.T) {
	conns := []ConnectionDoc{
		{Type: ConnData, Input: ConnEndpoint{Node: "b", Index: 0}},
		{Type: ConnExec, Input: ConnEndpoint{Node: "b", Index: 0}},
		{Type: ConnExec, Input: ConnEndpoint{Node: "a", Index: 1}},
		{Type: ConnExec, Input: ConnEndpoint{Node: "a", Index: 0}},
		{Type: ConnData, Input: ConnEndpoint{Node: "a", Index: 0}},
	}
	SortConnections(conns)

	require.Len(t, conns, 5)
	assert.Equal(t, ConnExec, conns[0].Type)
	assert.Equal(t, ConnExec, conns[1].Type)
	assert.Equal(t, ConnExec, conns[2].Type)
	assert.Equal(t, ConnData, conns[3].Type)
	assert.Equal(t, ConnData, conns[4].Type)

	assert.Equal(t, "a", conns[0].Input.Node)
	assert.Equal(t, 0, conns[0].Input.Index)
	assert.Equal(t, "a", conns[1].Input.Node)
	assert.Equal(t, 1, conns[1].Input.Index)
	assert.Equal(t, "b", conns[2].Input.Node)

	assert.Equal(t, "a", conns[3].Input.Node)
	assert.Equal(t, "b", conns[4].Input.Node)
}

func TestValidateAcceptsWellFormedDocument(t *testing.T) {
	rec := Validate([]byte(sampleDocument))
	assert.True(t, rec.Success, rec.String())
}

func TestValidateRejectsInvalidJSON(t *testing.T) {
	rec := Validate([]byte(`{not json`))
	assert.False(t, rec.Success)
	assert.Equal(t, "EParseErr", rec.Entries[0].Code)
}

func TestValidateRejectsFunctionMissingNodes(t *testing.T) {
	rec := Validate([]byte(`{"graphs": {"f": {"name": "f"}}}`))
	assert.False(t, rec.Success)
}

func TestValidateRejectsFunctionMissingName(t *testing.T) {
	rec := Validate([]byte(`{"graphs": {"f": {"nodes": {"x": {"type": "lang:entry"}}}}}`))
	assert.False(t, rec.Success)
}
