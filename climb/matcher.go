package climb

import (
	"fmt"

	"github.com/dzonerzy/go-climb/internal/fuzzy"
)

// MatchState is the matcher's position in the token stream
type MatchState int

const (
	// StateStart accepts a flag, a value-option alias, or positional data.
	StateStart MatchState = iota
	// StateAwaitingValue means the next token is the pending option's value.
	StateAwaitingValue
)

func (s MatchState) String() string {
	if s == StateAwaitingValue {
		return "awaiting_value"
	}
	return "start"
}

// suggestDistance bounds the edit distance of matcher-level suggestions.
const suggestDistance = 2

// MatchResult is the outcome of a successful match. It is built fresh for
// every invocation.
type MatchResult struct {
	Command     *Command
	Positionals []string

	flags   []bool    // indexed like Command.flags
	options []*string // indexed like Command.options; nil = not supplied
}

// Flag reports whether the flag with the given alias (long or short) was supplied.
func (m *MatchResult) Flag(alias string) bool {
	i := m.Command.lookupFlag(alias)
	return i >= 0 && m.flags[i]
}

// FlagsTriggered returns the primary names of the supplied flags in declaration order.
func (m *MatchResult) FlagsTriggered() []string {
	out := make([]string, 0, len(m.flags))
	for i, set := range m.flags {
		if set {
			out = append(out, m.Command.flags[i].Name)
		}
	}
	return out
}

// Option returns the raw value of a value option and whether it was supplied.
func (m *MatchResult) Option(alias string) (string, bool) {
	i := m.Command.lookupOption(alias)
	if i < 0 || m.options[i] == nil {
		return "", false
	}
	return *m.options[i], true
}

// Options returns the supplied values keyed by primary name.
func (m *MatchResult) Options() map[string]string {
	out := make(map[string]string, len(m.options))
	for i, v := range m.options {
		if v != nil {
			out[m.Command.options[i].Name] = *v
		}
	}
	return out
}

// HelpRequested reports whether the built-in help flag was supplied.
func (m *MatchResult) HelpRequested() bool { return m.Flag(helpAlias) }

// VersionRequested reports whether --version was supplied to the built-in default command.
func (m *MatchResult) VersionRequested() bool {
	return m.Command.builtin && m.Flag(versionAlias)
}

// Matcher runs the two-state machine over classified tokens. It only reads the
// registry and keeps no state between calls.
type Matcher struct {
	registry *Registry
}

// NewMatcher creates a matcher over r
func NewMatcher(r *Registry) *Matcher {
	return &Matcher{registry: r}
}

// matchRun holds the mutable state of one Match call
type matchRun struct {
	state   MatchState
	pending int // option index while awaiting a value
	alias   string
	result  *MatchResult
}

func (run *matchRun) activate(cmd *Command) {
	run.result.Command = cmd
	run.result.Positionals = make([]string, 0, len(cmd.positionals))
	run.result.flags = make([]bool, len(cmd.flags))
	run.result.options = make([]*string, len(cmd.options))
}

// Match consumes tokens in order. The first violation aborts the match with a
// *ParseError; there is no recovery.
func (m *Matcher) Match(tokens []Token) (*MatchResult, error) {
	run := &matchRun{result: &MatchResult{}}
	run.activate(m.registry.Default())

	for _, tok := range tokens {
		if run.state == StateAwaitingValue {
			// the pending option takes the next raw token, whatever it looks like
			v := tok.Text
			run.result.options[run.pending] = &v
			run.state = StateStart
			continue
		}

		switch tok.Kind {
		case TokenCommand:
			cmd, ok := m.registry.Resolve(tok.Text)
			if !ok {
				return nil, m.unknownCommand(tok)
			}
			run.activate(cmd)

		case TokenOption:
			alias := stripDashes(tok.Text)
			cmd := run.result.Command
			if i := cmd.lookupFlag(alias); i >= 0 {
				run.result.flags[i] = true
				continue
			}
			if i := cmd.lookupOption(alias); i >= 0 {
				run.state = StateAwaitingValue
				run.pending = i
				run.alias = alias
				continue
			}
			return nil, unknownOption(tok, alias, cmd)

		case TokenValue:
			cmd := run.result.Command
			if len(run.result.Positionals) >= cmd.Arity() {
				return nil, tooMany(tok, cmd, len(run.result.Positionals)+1)
			}
			run.result.Positionals = append(run.result.Positionals, tok.Text)
		}
	}

	cmd := run.result.Command
	if run.state == StateAwaitingValue {
		opt := cmd.options[run.pending]
		return nil, &ParseError{
			Type:    ErrorTypeMissingOptionValue,
			Message: fmt.Sprintf("option '--%s' expects a value <%s>", opt.Name, opt.ValueName),
			Alias:   run.alias,
			Command: cmd.name,
			Current: cmd,
		}
	}

	// help is honoured even when positional values are missing
	if run.result.HelpRequested() || run.result.VersionRequested() {
		return run.result, nil
	}

	if got := len(run.result.Positionals); got != cmd.Arity() {
		return nil, &ParseError{
			Type:     ErrorTypeArityMismatch,
			Message:  fmt.Sprintf("command '%s' expects %d argument(s), got %d", cmd.name, cmd.Arity(), got),
			Command:  cmd.name,
			Expected: cmd.Arity(),
			Actual:   got,
			Current:  cmd,
		}
	}
	return run.result, nil
}

func (m *Matcher) unknownCommand(tok Token) *ParseError {
	names := make([]string, 0, len(m.registry.commands))
	for _, c := range m.registry.commands {
		names = append(names, c.name)
	}
	return &ParseError{
		Type:       ErrorTypeUnknownCommand,
		Message:    fmt.Sprintf("unknown command '%s'", tok.Text),
		Token:      tok.Text,
		Alias:      tok.Text,
		Suggestion: fuzzy.Closest(tok.Text, names, suggestDistance),
	}
}

func unknownOption(tok Token, alias string, cmd *Command) *ParseError {
	names := make([]string, 0, len(cmd.flags)+len(cmd.options))
	for _, f := range cmd.flags {
		names = append(names, f.Name)
	}
	for _, o := range cmd.options {
		names = append(names, o.Name)
	}
	msg := fmt.Sprintf("unknown option '%s'", tok.Text)
	if !cmd.builtin {
		msg += fmt.Sprintf(" for command '%s'", cmd.name)
	}
	return &ParseError{
		Type:       ErrorTypeUnknownOption,
		Message:    msg,
		Token:      tok.Text,
		Alias:      alias,
		Command:    cmd.name,
		Suggestion: fuzzy.Closest(alias, names, suggestDistance),
		Current:    cmd,
	}
}

func tooMany(tok Token, cmd *Command, actual int) *ParseError {
	msg := fmt.Sprintf("unexpected argument '%s': command '%s' takes %d argument(s)", tok.Text, cmd.name, cmd.Arity())
	if cmd.builtin {
		msg = fmt.Sprintf("unexpected argument '%s'", tok.Text)
	}
	return &ParseError{
		Type:     ErrorTypeTooManyArguments,
		Message:  msg,
		Token:    tok.Text,
		Command:  cmd.name,
		Expected: cmd.Arity(),
		Actual:   actual,
		Current:  cmd,
	}
}
