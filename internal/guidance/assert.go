//go:build !guidancedebug

package guidance

// assertf is compiled out of release builds.
func assertf(bool, string, ...any) {}
