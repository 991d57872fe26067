package parser

import (
	"path/filepath"
	"regexp"
)

// Directory or file name that starts with "test"/"pytest" or ends with
// "test". Matching is purely path-based; file contents are never consulted.
var testPathPattern = regexp.MustCompile(`/(py)?test|test[/.]`)

// IsTestFile reports whether path points into a test directory or test file.
func IsTestFile(path string) bool {
	return testPathPattern.MatchString("/" + filepath.ToSlash(path))
}
