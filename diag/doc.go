// Package diag provides the accumulating diagnostic record used throughout
// the compiler pipeline in place of returning a single error.
//
// Every fallible operation in chigraph — parsing, validating, compiling,
// caching — returns a *Record instead of an error. Records compose by
// concatenation so a failure deep in one function's validation doesn't stop
// diagnostics from the rest of a module's functions from being collected and
// reported together.
package diag
