// Package irgen implements the node, function, and pure compilers of spec
// §4.J/§4.K/§4.L: lowering a validated model.GraphFunction to the package
// ir's pseudo-LLVM representation.
//
// The three compilers are grounded on the teacher's graph/state_graph.go
// execution loop (determineNextNodes/executeNodesParallel), generalized
// from "evaluate a state-flow node and hand its result to the next one"
// to "emit IR for a node and wire its exec outputs to pre-created basic
// blocks". Debug-info line assignment and the consumer-scoped pure-value
// cache have no teacher analogue; they follow spec §4.J/§4.L directly.
package irgen
