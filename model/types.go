package model

import "fmt"

// DataType is a pair (owningModule, unqualifiedName) plus an opaque handle
// to a backing IR type and an optional debug-info handle. Equality is by
// qualified name (spec §3).
type DataType struct {
	OwningModule   string
	UnqualifiedName string

	// IRType and DebugType are opaque handles into the code-generation
	// backend (package ir). They are populated once the owning module has
	// registered the type; a DataType decoded straight off JSON has them
	// unset until resolved through a Context.
	IRType    any
	DebugType any
}

// Qualified returns the "<moduleFullName>:<unqualifiedName>" form.
func (t DataType) Qualified() string {
	return t.OwningModule + ":" + t.UnqualifiedName
}

// Valid reports whether both fields of the qualified name are set.
func (t DataType) Valid() bool {
	return t.OwningModule != "" && t.UnqualifiedName != ""
}

// Equal reports equality by qualified name, per spec §3.
func (t DataType) Equal(o DataType) bool {
	return t.Valid() && o.Valid() && t.Qualified() == o.Qualified()
}

func (t DataType) String() string { return t.Qualified() }

// ParseQualifiedType splits "<moduleFullName>:<unqualifiedName>" into a
// DataType. The module full name may itself contain '/' and '.' but not ':'.
func ParseQualifiedType(qualified string) (DataType, error) {
	for i := len(qualified) - 1; i >= 0; i-- {
		if qualified[i] == ':' {
			return DataType{OwningModule: qualified[:i], UnqualifiedName: qualified[i+1:]}, nil
		}
	}
	return DataType{}, fmt.Errorf("model: %q is not a qualified type name", qualified)
}

// NamedDataType is a (name, DataType) pair used for node input/output ports
// and struct fields.
type NamedDataType struct {
	Name string
	Type DataType
}
