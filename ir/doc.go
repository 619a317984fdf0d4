// Package ir is chigraph's own minimal SSA-ish intermediate representation:
// modules, functions, basic blocks, values, and instructions.
//
// Spec §1 treats "the LLVM library" as an out-of-scope external collaborator
// specified only at its boundary, and no Go binding for the real LLVM C API
// appears anywhere in the reference corpus (no package in _examples imports
// one). Rather than fabricate a dependency that doesn't exist in the
// ecosystem this repo was grounded on, package ir models exactly the subset
// of LLVM IR the node/function compiler (package irgen) needs to satisfy
// every invariant and testable property in spec §4.J/K/L and §8: basic
// blocks reachable by branch instructions, a handful of arithmetic and
// comparison ops, stack slots, a textual dump for EIRVerify payloads, and a
// verifier pass. This is necessarily a standard-library-only package — see
// DESIGN.md for the justification entry.
package ir
