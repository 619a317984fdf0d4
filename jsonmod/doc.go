// Package jsonmod implements the canonical JSON wire format for a chigraph
// module document (spec §6, the ".chimod" format) and the structural
// validation that runs before the permissive decode step.
//
// Document and NodeDoc both preserve unknown keys through a side-channel
// map[string]json.RawMessage, grounded on the teacher's own
// CheckpointData/TypeRegistry round-trip pattern (store/type_registry.go's
// "_type"/"_data" envelope): a forward-compatible editor extension field
// added by a newer GUI version survives an encode/decode cycle through this
// package even though this package doesn't know what it means.
package jsonmod
