//go:build !debug

package shell

func registerDebugCommands(*registry) error { return nil }
