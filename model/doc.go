// Package model implements the chigraph data model of spec §3: data types,
// node types and instances, graph functions and structs, and the Module
// capability interface.
//
// It is a plain arena of mutable structs, the same shape as the teacher's
// StateGraph node/edge containers (a map of name/id to value plus slices of
// edges) generalized from a single untyped state-flow node to chigraph's
// two-port-kind (execution + data) node. Invariants on well-formedness are
// enforced by package validate, not here — a NodeInstance can be built in an
// inconsistent intermediate state while a graph is under construction.
package model
