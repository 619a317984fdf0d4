// Package graphmod implements the JSON-backed user module variant of
// model.Module (spec §3/§6): a module whose functions, structs, and
// dependency list all come from a decoded jsonmod.Document rather than
// being built into the compiler.
//
// Module is grounded on the teacher's graph/state_graph.go StateGraph: the
// same "named containers plus an entry point" shape, generalized from a
// single flat node map addressed by name to chigraph's richer arena of
// GraphFunction values, each owning its own NodeInstance map, keyed by the
// function's name rather than the module's.
package graphmod
