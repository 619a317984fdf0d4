// Package c is the chigraph built-in "c" module (spec §4.F): a single node
// type, "func", that shells out to the chi-ctollvm helper (package
// internal/subprocess) to compile a C source blob into bitcode and exposes
// the compiled function as a node.
//
// Deriving a node type's data ports from the *actual* signature of the
// resulting bitcode function would require parsing LLVM IR, which is the
// out-of-scope "LLVM library" collaborator per spec §1. Real chigraph reads
// that signature back out of the compiled module via the LLVM C API; here
// the .chimod document instead carries the declared signature alongside
// the C source (the GUI/CLI front end, itself out of scope, is responsible
// for keeping the two in sync — see DESIGN.md for this Open Question
// resolution). EmitIntoLLVMModule attaches the compiled bitcode to the
// emitted ir.Module as a C link unit (ir.Module.AddCLinkUnit), and each func
// node calls the function through ir.Builder.Call.
package c
