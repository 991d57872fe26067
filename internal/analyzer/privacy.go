package analyzer

import "strings"

// IsPrivate reports whether a single path segment names a private identifier.
// Dunder names (__all__, __future__) are reserved by the language and are not
// treated as private.
func IsPrivate(segment string) bool {
	if !strings.HasPrefix(segment, "_") {
		return false
	}
	if strings.HasPrefix(segment, "__") && strings.HasSuffix(segment, "__") {
		return false
	}
	return true
}
