//go:build debug

package shell

import "hls/kernel"

func registerDebugCommands(r *registry) error {
	return r.register(command{
		Name: "crash_kernel",
		Doc:  "DEV | cause a kernel panic",
		Run:  cmdCrashKernel,
	})
}

func cmdCrashKernel(s *Shell, _ []string) (int, error) {
	s.println("CRASHING...\n\n")
	return 0, kernel.Faultf("Invoked by THE CRASHER >:)")
}
