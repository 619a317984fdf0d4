// Package validate implements the Function Validator of spec §4.I: a
// two-way connection consistency check composed with a depth-first
// use-before-execute walk, grounded on the teacher's own traversal of a
// StateGraph (graph/state_graph.go's determineNextNodes/executeNodesParallel),
// generalized here from "what node runs next" to "was this node's data
// already produced on some path reaching it". Validation is a pure function
// of a model.GraphFunction; it neither mutates the function nor calls out
// to any compiler component.
package validate
