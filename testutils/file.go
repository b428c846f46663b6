// Package testutils contains helpers shared by tests.
package testutils

import (
	"path/filepath"
	"runtime"
)

// ResolveFile returns the absolute path of a file given relative to the module root, so tests
// in any package can share fixtures.
func ResolveFile(fn string) string {
	//nolint:dogsled
	_, thisFilePath, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(thisFilePath), "..", fn)
}
