package ir

// Type is an IR-level value type. It is deliberately tiny: chigraph's lang
// module only ever needs i32, i1, float, i8* and user-defined aggregates.
type Type struct {
	Name string
	// Kind distinguishes primitives from aggregates for the verifier and
	// textual dump; aggregates additionally carry Fields.
	Kind   TypeKind
	Fields []Type
}

// TypeKind enumerates the handful of type shapes chigraph's backend needs.
type TypeKind int

const (
	KindInt TypeKind = iota
	KindFloat
	KindPointer
	KindStruct
	KindVoid
)

var (
	I32   = Type{Name: "i32", Kind: KindInt}
	I1    = Type{Name: "i1", Kind: KindInt}
	Float = Type{Name: "float", Kind: KindFloat}
	I8Ptr = Type{Name: "i8*", Kind: KindPointer}
	Void  = Type{Name: "void", Kind: KindVoid}
)

// Struct builds an aggregate Type out of named field types.
func Struct(name string, fields []Type) Type {
	return Type{Name: name, Kind: KindStruct, Fields: fields}
}
