package climb

import (
	"github.com/mattn/go-shellwords"

	"github.com/dzonerzy/go-climb/internal/pool"
	"github.com/dzonerzy/go-climb/middleware"
)

// Engine is the embeddable entry point: classify, match, dispatch.
// It can be reused for many invocations (a REPL host, for example); the
// registry it wraps is sealed on construction.
type Engine struct {
	registry *Registry
	matcher  *Matcher
	chain    middleware.MiddlewareChain
}

var tokenPool = pool.NewPoolWithReset(
	func() *[]Token {
		buf := make([]Token, 0, 16)
		return &buf
	},
	func(buf *[]Token) {
		clear(*buf)
		*buf = (*buf)[:0]
	},
)

// NewEngine seals r and wraps every dispatch in mw.
func NewEngine(r *Registry, mw ...middleware.Middleware) *Engine {
	r.Seal()
	return &Engine{
		registry: r,
		matcher:  NewMatcher(r),
		chain:    middleware.Chain(mw...),
	}
}

// Registry returns the sealed registry
func (e *Engine) Registry() *Registry { return e.registry }

// Parse classifies and matches args (program name excluded).
func (e *Engine) Parse(args []string) (*MatchResult, error) {
	buf := tokenPool.Get()
	defer tokenPool.Put(buf)

	*buf = AppendTokens(*buf, args, e.registry.DefaultState())
	return e.matcher.Match(*buf)
}

// ParseAndDispatch runs one invocation. It returns the handler output, a
// *ParseError, a *HelpRequest, or the handler's own error verbatim.
func (e *Engine) ParseAndDispatch(args []string) (string, error) {
	result, err := e.Parse(args)
	if err != nil {
		return "", err
	}
	return Dispatch(result, e.chain)
}

// SplitLine splits one input line into arguments using shell quoting rules,
// for hosts that read commands interactively.
func SplitLine(line string) ([]string, error) {
	return shellwords.Parse(line)
}
