package climb

import "fmt"

// Built-in pseudo-options. Commands may not take these aliases.
const (
	helpAlias         = "help"
	helpShortAlias    = "h"
	versionAlias      = "version"
	versionShortAlias = "v"
)

var reservedCommandAliases = map[string]bool{
	helpAlias:         true,
	helpShortAlias:    true,
	versionAlias:      true,
	versionShortAlias: true,
}

// Registry holds validated commands indexed by primary and short alias.
//
// A registry is written during configuration and read-only afterwards.
// NewEngine seals it; registering into a sealed registry fails.
type Registry struct {
	commands     []*Command          // registration order, for help
	index        map[string]*Command // primary and short aliases
	defaultCmd   *Command
	defaultState DefaultCommandState
	sealed       bool
}

// NewRegistry creates an empty registry whose default command is the built-in
// no-op command carrying the help and version options.
func NewRegistry() *Registry {
	return &Registry{
		index:        make(map[string]*Command),
		defaultCmd:   newBuiltinDefault(),
		defaultState: DefaultUnset,
	}
}

func newBuiltinDefault() *Command {
	cmd := &Command{
		name:        helpAlias,
		description: "default help command",
		flags: []FlagSpec{
			{Name: helpAlias, Short: helpShortAlias, Description: "Print help"},
			{Name: versionAlias, Short: versionShortAlias, Description: "Print version"},
		},
		builtin:     true,
		flagIndex:   make(map[string]int, 4),
		optionIndex: map[string]int{},
	}
	for i, f := range cmd.flags {
		cmd.flagIndex[f.Name] = i
		cmd.flagIndex[f.Short] = i
	}
	return cmd
}

// Register validates spec and adds it to the registry. On error nothing is registered.
func (r *Registry) Register(spec CommandSpec) error {
	if r.sealed {
		return &RegistrationError{Type: ErrorTypeSealed, Command: spec.Name,
			Message: "registry is sealed; commands must be registered before first use"}
	}
	if err := r.checkCommandAliases(spec); err != nil {
		return err
	}
	cmd, err := compile(spec)
	if err != nil {
		return err
	}

	r.commands = append(r.commands, cmd)
	r.index[cmd.name] = cmd
	if cmd.short != "" {
		r.index[cmd.short] = cmd
	}
	return nil
}

// SetDefault configures an explicit default command. The default command is
// active when no command selector is given and is not selectable by alias.
// Once set, the first non-option token is data for it.
func (r *Registry) SetDefault(spec CommandSpec) error {
	if r.sealed {
		return &RegistrationError{Type: ErrorTypeSealed, Command: spec.Name,
			Message: "registry is sealed; the default command must be set before first use"}
	}
	if err := checkAliasShape(spec); err != nil {
		return err
	}
	cmd, err := compile(spec)
	if err != nil {
		return err
	}
	r.defaultCmd = cmd
	r.defaultState = DefaultSet
	return nil
}

// Resolve finds a command by primary or short alias.
func (r *Registry) Resolve(alias string) (*Command, bool) {
	cmd, ok := r.index[alias]
	return cmd, ok
}

// Default returns the active default command.
func (r *Registry) Default() *Command { return r.defaultCmd }

// DefaultState reports whether an explicit default command was configured.
func (r *Registry) DefaultState() DefaultCommandState { return r.defaultState }

// Commands returns the registered commands in registration order.
func (r *Registry) Commands() []*Command { return append([]*Command(nil), r.commands...) }

// Seal makes the registry read-only.
func (r *Registry) Seal() { r.sealed = true }

// Sealed reports whether the registry is read-only.
func (r *Registry) Sealed() bool { return r.sealed }

// Validation

func checkAliasShape(spec CommandSpec) error {
	if !isCommandAlias(spec.Name) {
		return &RegistrationError{Type: ErrorTypeMalformedAlias, Command: spec.Name, Alias: spec.Name,
			Message: fmt.Sprintf("alias %q must be alphabetic and longer than one character", spec.Name)}
	}
	if spec.Short != "" && !isShortAlias(spec.Short) {
		return &RegistrationError{Type: ErrorTypeMalformedAlias, Command: spec.Name, Alias: spec.Short,
			Message: fmt.Sprintf("short alias %q must be exactly one letter", spec.Short)}
	}
	return nil
}

func (r *Registry) checkCommandAliases(spec CommandSpec) error {
	if err := checkAliasShape(spec); err != nil {
		return err
	}
	for _, alias := range []string{spec.Name, spec.Short} {
		if alias == "" {
			continue
		}
		if reservedCommandAliases[alias] {
			return &RegistrationError{Type: ErrorTypeReservedAlias, Command: spec.Name, Alias: alias,
				Message: fmt.Sprintf("alias %q is reserved for the built-in help/version options", alias)}
		}
		if other, taken := r.index[alias]; taken {
			return &RegistrationError{Type: ErrorTypeDuplicateAlias, Command: spec.Name, Alias: alias,
				Message: fmt.Sprintf("alias %q already used by command %q", alias, other.name)}
		}
	}
	return nil
}

// compile validates the option table of spec and builds the indexed Command.
// The built-in help flag is appended after validation.
func compile(spec CommandSpec) (*Command, error) {
	fail := func(typ ErrorType, alias, format string, args ...any) error {
		return &RegistrationError{Type: typ, Command: spec.Name, Alias: alias, Message: fmt.Sprintf(format, args...)}
	}

	for i, p := range spec.Positionals {
		if p == "" {
			return nil, fail(ErrorTypeInvalidSpec, "", "positional argument %d has no name", i)
		}
	}

	seen := make(map[string]string, 2*(len(spec.Flags)+len(spec.Options))+2)
	claim := func(owner, long, short string) error {
		if !isOptionAlias(long) {
			return fail(ErrorTypeMalformedAlias, long, "option alias %q must be alphabetic and longer than one character", long)
		}
		if short != "" && !isShortAlias(short) {
			return fail(ErrorTypeMalformedAlias, short, "short alias %q of option %q must be exactly one letter", short, long)
		}
		if long == helpAlias {
			return fail(ErrorTypeReservedAlias, long, "option alias %q is reserved for the built-in help flag", long)
		}
		for _, alias := range []string{long, short} {
			if alias == "" {
				continue
			}
			if prev, dup := seen[alias]; dup {
				return fail(ErrorTypeDuplicateAlias, alias, "alias %q of %s collides with %s", alias, owner, prev)
			}
			seen[alias] = owner
		}
		return nil
	}

	for _, f := range spec.Flags {
		if err := claim("flag --"+f.Name, f.Name, f.Short); err != nil {
			return nil, err
		}
	}
	for _, o := range spec.Options {
		if err := claim("option --"+o.Name, o.Name, o.Short); err != nil {
			return nil, err
		}
		if o.ValueName == "" {
			return nil, fail(ErrorTypeInvalidSpec, o.Name, "option %q needs a value name", o.Name)
		}
	}

	cmd := &Command{
		name:        spec.Name,
		short:       spec.Short,
		description: spec.Description,
		positionals: append([]string(nil), spec.Positionals...),
		flags:       make([]FlagSpec, 0, len(spec.Flags)+1),
		options:     append([]ValueOptionSpec(nil), spec.Options...),
		handler:     spec.Handler,
		flagIndex:   make(map[string]int, 2*len(spec.Flags)+2),
		optionIndex: make(map[string]int, 2*len(spec.Options)),
	}
	cmd.flags = append(cmd.flags, spec.Flags...)

	help := FlagSpec{Name: helpAlias, Description: "Print help"}
	if _, taken := seen[helpShortAlias]; !taken {
		help.Short = helpShortAlias
	}
	cmd.flags = append(cmd.flags, help)

	for i, f := range cmd.flags {
		cmd.flagIndex[f.Name] = i
		if f.Short != "" {
			cmd.flagIndex[f.Short] = i
		}
	}
	for i, o := range cmd.options {
		cmd.optionIndex[o.Name] = i
		if o.Short != "" {
			cmd.optionIndex[o.Short] = i
		}
	}
	return cmd, nil
}
