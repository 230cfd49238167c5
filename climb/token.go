package climb

// TokenKind tells the matcher how a raw argument was classified
type TokenKind int

const (
	// TokenCommand is a raw string that may name a command.
	TokenCommand TokenKind = iota
	// TokenOption is a raw string beginning with a dash.
	TokenOption
	// TokenValue is a raw string carrying data.
	TokenValue
)

// String returns a short name for the kind
func (k TokenKind) String() string {
	switch k {
	case TokenCommand:
		return "command"
	case TokenOption:
		return "option"
	case TokenValue:
		return "value"
	default:
		return "unknown"
	}
}

// Token is one classified raw argument
type Token struct {
	Kind TokenKind
	Text string
}

// DefaultCommandState records whether an explicit default command was configured.
// It only changes how the token at index 0 is classified.
type DefaultCommandState int

const (
	// DefaultUnset means the first non-dash token selects a command.
	DefaultUnset DefaultCommandState = iota
	// DefaultSet means the first non-dash token is data for the default command.
	DefaultSet
)

// Classify converts raw arguments into tokens. It never fails: malformed-looking
// strings are classified, not rejected.
func Classify(args []string, state DefaultCommandState) []Token {
	return AppendTokens(make([]Token, 0, len(args)), args, state)
}

// AppendTokens classifies args and appends the tokens to dst.
func AppendTokens(dst []Token, args []string, state DefaultCommandState) []Token {
	for i, arg := range args {
		switch {
		case len(arg) > 0 && arg[0] == '-':
			dst = append(dst, Token{Kind: TokenOption, Text: arg})
		case i == 0 && state == DefaultUnset:
			dst = append(dst, Token{Kind: TokenCommand, Text: arg})
		default:
			dst = append(dst, Token{Kind: TokenValue, Text: arg})
		}
	}
	return dst
}

// stripDashes removes at most two leading dashes from an option token.
func stripDashes(s string) string {
	for i := 0; i < 2; i++ {
		if len(s) == 0 || s[0] != '-' {
			break
		}
		s = s[1:]
	}
	return s
}
