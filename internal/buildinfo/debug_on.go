//go:build debug

package buildinfo

// Debug reports a build with the debug tag (developer commands, boot trace).
const Debug = true
