// Package lang is the chigraph built-in "lang" module (spec §4.F): the
// primitive data types every other module builds on, plus the control-flow
// and literal node types a graph function needs before it can call into
// anything user-defined. Grounded on the teacher's built-in node registry
// pattern (graph/state_graph.go's fixed START/END sentinel nodes),
// generalized from two fixed sentinels to a small fixed catalog of
// primitive node types plus two that are parametrized per call site
// (entry/exit, whose ports mirror the owning function's signature, and
// set/get, whose single data port mirrors the referenced local variable).
//
// Three of lang's node types need information the immutable NodeType.Codegen
// contract alone can't carry, since the contract is fixed at registration
// but entry/set/get need per-function-compile data (the function's
// parameter values, a local variable's stack slot). The function compiler
// (package irgen) supplies that by constructing an *EntryData or
// *LocalVarData and using it as the node instance's NodeData for the
// duration of that one codegen call, in place of the node instance's own
// JSON payload.
package lang
