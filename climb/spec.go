package climb

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FlagSpec describes a boolean option: present or absent, no value.
type FlagSpec struct {
	Name        string
	Short       string
	Description string
}

// ValueOptionSpec describes an option that consumes exactly one following token.
// ValueName labels the expected value in help output.
type ValueOptionSpec struct {
	Name        string
	Short       string
	Description string
	ValueName   string
}

// CommandSpec is the configuration for one command. The number of Positionals
// is the command's arity.
type CommandSpec struct {
	Name        string
	Short       string
	Description string
	Positionals []string
	Flags       []FlagSpec
	Options     []ValueOptionSpec
	Handler     Handler
}

// Command is a validated, registered command. It is immutable once registered.
type Command struct {
	name        string
	short       string
	description string
	positionals []string
	flags       []FlagSpec
	options     []ValueOptionSpec
	handler     Handler
	builtin     bool

	// alias (long or short) -> index into flags / options
	flagIndex   map[string]int
	optionIndex map[string]int
}

// Name returns the primary alias (implements middleware.Command)
func (c *Command) Name() string { return c.name }

// Short returns the short alias, or "" if none
func (c *Command) Short() string { return c.short }

// Description returns the command description (implements middleware.Command)
func (c *Command) Description() string { return c.description }

// Arity returns the number of positional values the command requires
func (c *Command) Arity() int { return len(c.positionals) }

// Positionals returns a copy of the declared positional names
func (c *Command) Positionals() []string { return append([]string(nil), c.positionals...) }

// Flags returns a copy of the flag specs, including the built-in help flag
func (c *Command) Flags() []FlagSpec { return append([]FlagSpec(nil), c.flags...) }

// Options returns a copy of the value-option specs
func (c *Command) Options() []ValueOptionSpec { return append([]ValueOptionSpec(nil), c.options...) }

// Builtin reports whether this is the implicit default command
func (c *Command) Builtin() bool { return c.builtin }

// lookupFlag returns the flag index for alias, or -1.
func (c *Command) lookupFlag(alias string) int {
	if i, ok := c.flagIndex[alias]; ok {
		return i
	}
	return -1
}

// lookupOption returns the value-option index for alias, or -1.
func (c *Command) lookupOption(alias string) int {
	if i, ok := c.optionIndex[alias]; ok {
		return i
	}
	return -1
}

// usageArgs renders "name <a> <b>" for arity hints.
func (c *Command) usageArgs() string {
	var b strings.Builder
	b.WriteString(c.name)
	for _, p := range c.positionals {
		b.WriteString(" <")
		b.WriteString(p)
		b.WriteString(">")
	}
	return b.String()
}

// Alias rules

// isCommandAlias: alphabetic and longer than one character.
func isCommandAlias(s string) bool {
	if utf8.RuneCountInString(s) < 2 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// isOptionAlias: like isCommandAlias, but single interior hyphens are allowed (dry-run).
func isOptionAlias(s string) bool {
	if utf8.RuneCountInString(s) < 2 {
		return false
	}
	if strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") || strings.Contains(s, "--") {
		return false
	}
	for _, r := range s {
		if r != '-' && !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// isShortAlias: exactly one letter.
func isShortAlias(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	return size == len(s) && size > 0 && unicode.IsLetter(r)
}
