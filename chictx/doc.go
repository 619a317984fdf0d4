// Package chictx implements spec §4.D's Context: the process-scoped but
// instance-owned registry of loaded modules that everything else in this
// module is built around.
//
// Context is grounded on the teacher's graph.StateGraph
// (graph/state_graph.go) in the same sense graphmod.Module is: both are a
// named container keyed by a map, with a Compile-shaped operation that
// walks the container and produces a single artifact. Here the container
// holds model.Module values instead of graph.Node values, and the walk
// produces an *ir.Module instead of executing a StateGraph run.
//
// LoadModule's recursive dependency walk is grounded on the teacher's own
// concurrency idiom, graph/state_graph.go's executeNodesParallel: fan a
// goroutine per sibling dependency via golang.org/x/sync/errgroup, then
// join with Wait() before returning, so the Context's map is never mutated
// concurrently from LoadModule's own caller's perspective (spec §5: a
// Context is logically single-threaded to its owner).
package chictx
