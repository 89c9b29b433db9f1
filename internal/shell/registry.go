package shell

import (
	"fmt"
	"sort"
	"strings"
)

// Command is a registered shell command.
type Command struct {
	Name    string
	Usage   string
	Summary string
	Run     func(rt *Runtime, args string) (string, error)
}

// Registry maps command names to handlers.
type Registry struct {
	commands map[string]Command
	aliases  map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		aliases:  make(map[string]string),
	}
}

// Register adds a command. Later registrations win.
func (r *Registry) Register(cmd Command) {
	r.commands[cmd.Name] = cmd
}

// Alias registers an alternate name for a command.
func (r *Registry) Alias(alias, name string) {
	r.aliases[alias] = name
}

// Lookup finds a command by name or alias.
func (r *Registry) Lookup(name string) (Command, bool) {
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Help renders the command overview, or detailed usage for one command.
func (r *Registry) Help(name string) string {
	if name != "" {
		cmd, ok := r.Lookup(name)
		if !ok {
			return fmt.Sprintf("Unknown command %q. Type 'help' for a list.", name)
		}
		return fmt.Sprintf("%s\n  %s", cmd.Usage, cmd.Summary)
	}

	names := make([]string, 0, len(r.commands))
	for n := range r.commands {
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, n := range names {
		cmd := r.commands[n]
		fmt.Fprintf(&b, "  %-28s %s\n", cmd.Usage, cmd.Summary)
	}
	b.WriteString("\nType 'help <command>' for details. Ctrl+D or 'quit' to exit.")
	return b.String()
}
