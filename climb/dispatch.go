package climb

import (
	"fmt"

	"github.com/dzonerzy/go-climb/middleware"
)

// Handler is the capability bound to a command. It receives the matched
// values and returns optional output (empty means none) or a domain error.
type Handler interface {
	Handle(ctx *Context) (string, error)
}

// HandlerFunc adapts an ordinary function to Handler
type HandlerFunc func(ctx *Context) (string, error)

// Handle calls f(ctx)
func (f HandlerFunc) Handle(ctx *Context) (string, error) { return f(ctx) }

// Context is the read-only view of one match handed to handlers and middleware.
type Context struct {
	result   *MatchResult
	metadata map[string]any
}

var _ middleware.Context = (*Context)(nil)

// NewContext wraps a match result. Mostly useful for testing handlers.
func NewContext(result *MatchResult) *Context {
	return &Context{result: result}
}

// Args returns the positional values in declaration order
func (c *Context) Args() []string { return c.result.Positionals }

// Arg returns the i-th positional value, or "" when out of range
func (c *Context) Arg(i int) string {
	if i < 0 || i >= len(c.result.Positionals) {
		return ""
	}
	return c.result.Positionals[i]
}

// Flag reports whether a flag was supplied (long or short alias)
func (c *Context) Flag(alias string) bool { return c.result.Flag(alias) }

// Option returns a value option's raw value and presence
func (c *Context) Option(alias string) (string, bool) { return c.result.Option(alias) }

// MustOption returns a value option or "" when absent
func (c *Context) MustOption(alias string) string {
	v, _ := c.result.Option(alias)
	return v
}

// Result returns the underlying match
func (c *Context) Result() *MatchResult { return c.result }

// Command returns the dispatched command (implements middleware.Context)
func (c *Context) Command() middleware.Command { return c.result.Command }

// ActiveCommand returns the dispatched command with its full spec
func (c *Context) ActiveCommand() *Command { return c.result.Command }

// Set stores metadata for later middleware or the handler
func (c *Context) Set(key string, value any) {
	if c.metadata == nil {
		c.metadata = make(map[string]any)
	}
	c.metadata[key] = value
}

// Get returns metadata stored via Set, or nil
func (c *Context) Get(key string) any { return c.metadata[key] }

// Dispatch invokes the handler bound to result.Command through chain. Handler
// output and errors are returned unchanged. A command with no handler, and the
// built-in default, produce a *HelpRequest instead.
func Dispatch(result *MatchResult, chain middleware.MiddlewareChain) (string, error) {
	if result == nil || result.Command == nil {
		return "", &ParseError{Type: ErrorTypeInternal, Message: "dispatch without a matched command"}
	}

	cmd := result.Command
	switch {
	case result.VersionRequested():
		return "", &HelpRequest{Command: cmd, Version: true}
	case result.HelpRequested(), cmd.builtin, cmd.handler == nil:
		return "", &HelpRequest{Command: cmd}
	}

	action := func(ctx middleware.Context) (string, error) {
		c, ok := ctx.(*Context)
		if !ok {
			return "", fmt.Errorf("climb: middleware replaced the context with %T", ctx)
		}
		return cmd.handler.Handle(c)
	}
	return chain.Apply(action)(NewContext(result))
}
