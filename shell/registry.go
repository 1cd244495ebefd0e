package shell

import (
	"fmt"
	"strings"
)

type cmdFunc func(s *Shell, args []string) (int, error)

type command struct {
	Name string
	Args string
	Doc  string
	Run  cmdFunc
}

// registry keeps commands in registration order. Names are expected to be
// unique; a later command with the same name is shadowed by the first.
type registry struct {
	cmds   []command
	lookup map[string]int
}

func newRegistry() *registry {
	return &registry{lookup: make(map[string]int)}
}

func (r *registry) register(cmd command) error {
	if strings.TrimSpace(cmd.Name) == "" {
		return fmt.Errorf("shell registry: empty command name")
	}
	if cmd.Run == nil {
		return fmt.Errorf("shell registry: %q has no handler", cmd.Name)
	}

	r.cmds = append(r.cmds, cmd)
	if _, ok := r.lookup[cmd.Name]; !ok {
		r.lookup[cmd.Name] = len(r.cmds) - 1
	}
	return nil
}

// resolve is an exact, case-sensitive match.
func (r *registry) resolve(name string) (command, bool) {
	i, ok := r.lookup[name]
	if !ok {
		return command{}, false
	}
	return r.cmds[i], true
}

func (r *registry) list() []command {
	out := make([]command, len(r.cmds))
	copy(out, r.cmds)
	return out
}
