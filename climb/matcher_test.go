//nolint:testpackage // using package name 'climb' to access unexported fields for testing
package climb

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func match(t *testing.T, r *Registry, args ...string) (*MatchResult, error) {
	t.Helper()
	return NewMatcher(r).Match(Classify(args, r.DefaultState()))
}

func TestMatch_Success(t *testing.T) {
	r := calcRegistry(t)

	tests := []struct {
		name        string
		args        []string
		command     string
		positionals []string
		flags       []string
		options     map[string]string
	}{
		{
			name:        "positionals only",
			args:        []string{"add", "9", "10"},
			command:     "add",
			positionals: []string{"9", "10"},
			flags:       []string{},
			options:     map[string]string{},
		},
		{
			name:        "short command alias",
			args:        []string{"a", "1", "2"},
			command:     "add",
			positionals: []string{"1", "2"},
			flags:       []string{},
			options:     map[string]string{},
		},
		{
			name:        "flag before positionals",
			args:        []string{"div", "--round", "10", "3"},
			command:     "div",
			positionals: []string{"10", "3"},
			flags:       []string{"round"},
			options:     map[string]string{},
		},
		{
			name:        "short flag after positionals",
			args:        []string{"div", "10", "3", "-r"},
			command:     "div",
			positionals: []string{"10", "3"},
			flags:       []string{"round"},
			options:     map[string]string{},
		},
		{
			name:        "value option",
			args:        []string{"echo", "--name", "ada", "--loud"},
			command:     "echo",
			positionals: []string{},
			flags:       []string{"loud"},
			options:     map[string]string{"name": "ada"},
		},
		{
			name:        "value option via short alias",
			args:        []string{"echo", "-n", "ada"},
			command:     "echo",
			positionals: []string{},
			flags:       []string{},
			options:     map[string]string{"name": "ada"},
		},
		{
			name:        "last value wins",
			args:        []string{"echo", "-n", "ada", "--name", "grace"},
			command:     "echo",
			positionals: []string{},
			flags:       []string{},
			options:     map[string]string{"name": "grace"},
		},
		{
			name:        "option value that looks like an option",
			args:        []string{"echo", "--name", "-x"},
			command:     "echo",
			positionals: []string{},
			flags:       []string{},
			options:     map[string]string{"name": "-x"},
		},
		{
			name:        "option value that names a command",
			args:        []string{"echo", "--name", "add"},
			command:     "echo",
			positionals: []string{},
			flags:       []string{},
			options:     map[string]string{"name": "add"},
		},
		{
			name:        "option value that is a flag alias",
			args:        []string{"echo", "--name", "--loud"},
			command:     "echo",
			positionals: []string{},
			flags:       []string{},
			options:     map[string]string{"name": "--loud"},
		},
		{
			name:        "empty option value",
			args:        []string{"echo", "--name", ""},
			command:     "echo",
			positionals: []string{},
			flags:       []string{},
			options:     map[string]string{"name": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := match(t, r, tt.args...)
			if err != nil {
				t.Fatalf("Match(%v): %v", tt.args, err)
			}
			if res.Command.Name() != tt.command {
				t.Errorf("Expected command %s, got %s", tt.command, res.Command.Name())
			}
			if diff := cmp.Diff(tt.positionals, res.Positionals); diff != "" {
				t.Errorf("Positionals mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.flags, res.FlagsTriggered()); diff != "" {
				t.Errorf("Flags mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.options, res.Options()); diff != "" {
				t.Errorf("Options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMatch_Errors(t *testing.T) {
	r := calcRegistry(t)

	tests := []struct {
		name     string
		args     []string
		typ      ErrorType
		alias    string
		expected int
		actual   int
	}{
		{"unknown command", []string{"sub", "1", "2"}, ErrorTypeUnknownCommand, "sub", 0, 0},
		{"unknown long option", []string{"div", "--bogus", "10", "3"}, ErrorTypeUnknownOption, "bogus", 0, 0},
		{"unknown short option", []string{"add", "-z"}, ErrorTypeUnknownOption, "z", 0, 0},
		{"flag of another command", []string{"add", "--round", "1", "2"}, ErrorTypeUnknownOption, "round", 0, 0},
		{"bare dash", []string{"add", "-", "1", "2"}, ErrorTypeUnknownOption, "", 0, 0},
		{"missing value at end", []string{"echo", "--name"}, ErrorTypeMissingOptionValue, "name", 0, 0},
		{"missing value for short alias", []string{"echo", "-n"}, ErrorTypeMissingOptionValue, "n", 0, 0},
		{"too many", []string{"add", "1", "2", "3"}, ErrorTypeTooManyArguments, "", 2, 3},
		{"too few", []string{"add", "1"}, ErrorTypeArityMismatch, "", 2, 1},
		{"none", []string{"div", "--round"}, ErrorTypeArityMismatch, "", 2, 0},
		{"value for zero arity", []string{"echo", "x"}, ErrorTypeTooManyArguments, "", 0, 1},
		{"value after leading flag on default", []string{"--version", "extra"}, ErrorTypeTooManyArguments, "", 0, 1},
		{"unknown option on default", []string{"--verbose"}, ErrorTypeUnknownOption, "verbose", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := match(t, r, tt.args...)
			if res != nil {
				t.Errorf("Expected no result on failure, got %+v", res)
			}
			pe := asParseError(t, err)
			if pe.Type != tt.typ {
				t.Fatalf("Expected %s, got %s (%v)", tt.typ, pe.Type, err)
			}
			if pe.Alias != tt.alias {
				t.Errorf("Expected alias %q, got %q", tt.alias, pe.Alias)
			}
			if pe.Expected != tt.expected || pe.Actual != tt.actual {
				t.Errorf("Expected counts %d/%d, got %d/%d", tt.expected, tt.actual, pe.Expected, pe.Actual)
			}
		})
	}
}

// For every arity n, exactly n values succeed and n-1 / n+1 fail with an arity error.
func TestMatch_ArityInvariant(t *testing.T) {
	r := NewRegistry()
	for n := 0; n < 5; n++ {
		positionals := make([]string, n)
		for i := range positionals {
			positionals[i] = fmt.Sprintf("p%d", i)
		}
		mustRegister(t, r, CommandSpec{
			Name:        "cmd" + string(rune('a'+n)),
			Positionals: positionals,
			Flags:       []FlagSpec{{Name: "quiet", Short: "q"}},
		})
	}

	values := func(k int) []string {
		v := make([]string, k)
		for i := range v {
			v[i] = fmt.Sprint(i)
		}
		return v
	}

	for n := 0; n < 5; n++ {
		name := "cmd" + string(rune('a'+n))

		args := append([]string{name, "-q"}, values(n)...)
		res, err := match(t, r, args...)
		if err != nil {
			t.Errorf("%s with %d values: %v", name, n, err)
		} else if len(res.Positionals) != n {
			t.Errorf("%s: expected %d positionals, got %d", name, n, len(res.Positionals))
		}

		for _, k := range []int{n - 1, n + 1} {
			if k < 0 {
				continue
			}
			_, err := match(t, r, append([]string{name}, values(k)...)...)
			pe := asParseError(t, err)
			if pe.Type != ErrorTypeArityMismatch && pe.Type != ErrorTypeTooManyArguments {
				t.Errorf("%s with %d values: expected arity error, got %s", name, k, pe.Type)
			}
		}
	}
}

func TestMatch_FlagIdempotence(t *testing.T) {
	r := calcRegistry(t)

	once, err := match(t, r, "div", "--round", "10", "3")
	if err != nil {
		t.Fatal(err)
	}
	twice, err := match(t, r, "div", "--round", "10", "-r", "3", "--round")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(once.FlagsTriggered(), twice.FlagsTriggered()); diff != "" {
		t.Errorf("Repeated flag changed the result (-once +twice):\n%s", diff)
	}
}

func TestMatch_DefaultCommandFirstToken(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		r := calcRegistry(t)
		res, err := match(t, r, "add", "3", "4")
		if err != nil {
			t.Fatal(err)
		}
		if res.Command.Name() != "add" {
			t.Errorf("Expected add, got %s", res.Command.Name())
		}
		if diff := cmp.Diff([]string{"3", "4"}, res.Positionals); diff != "" {
			t.Errorf("Positionals mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("set", func(t *testing.T) {
		r := calcRegistry(t)
		if err := r.SetDefault(CommandSpec{Name: "sum", Positionals: []string{"a", "b"}}); err != nil {
			t.Fatal(err)
		}

		res, err := match(t, r, "3", "4")
		if err != nil {
			t.Fatal(err)
		}
		if res.Command.Name() != "sum" {
			t.Errorf("Expected default command, got %s", res.Command.Name())
		}
		if diff := cmp.Diff([]string{"3", "4"}, res.Positionals); diff != "" {
			t.Errorf("Positionals mismatch (-want +got):\n%s", diff)
		}

		// a command name is data once a default is configured
		_, err = match(t, r, "add", "3", "4")
		if pe := asParseError(t, err); pe.Type != ErrorTypeTooManyArguments {
			t.Errorf("Expected too many arguments, got %s", pe.Type)
		}
	})
}

func TestMatch_BuiltinDefault(t *testing.T) {
	r := calcRegistry(t)

	tests := []struct {
		args    []string
		help    bool
		version bool
	}{
		{nil, false, false},
		{[]string{"--help"}, true, false},
		{[]string{"-h"}, true, false},
		{[]string{"--version"}, false, true},
		{[]string{"-v"}, false, true},
	}

	for _, tt := range tests {
		res, err := match(t, r, tt.args...)
		if err != nil {
			t.Fatalf("Match(%v): %v", tt.args, err)
		}
		if !res.Command.Builtin() {
			t.Errorf("Match(%v): expected the built-in default", tt.args)
		}
		if res.HelpRequested() != tt.help || res.VersionRequested() != tt.version {
			t.Errorf("Match(%v): help=%v version=%v", tt.args, res.HelpRequested(), res.VersionRequested())
		}
	}
}

func TestMatch_HelpSkipsArityCheck(t *testing.T) {
	r := calcRegistry(t)

	res, err := match(t, r, "add", "--help")
	if err != nil {
		t.Fatalf("Expected help to succeed without positionals, got %v", err)
	}
	if !res.HelpRequested() || res.Command.Name() != "add" {
		t.Errorf("Expected help for add, got %+v", res)
	}
	// version is only a built-in default option
	_, err = match(t, r, "add", "--version")
	if pe := asParseError(t, err); pe.Type != ErrorTypeUnknownOption {
		t.Errorf("Expected unknown option, got %s", pe.Type)
	}
}

func TestMatch_Suggestions(t *testing.T) {
	r := calcRegistry(t)

	_, err := match(t, r, "ad", "1", "2")
	if pe := asParseError(t, err); pe.Suggestion != "add" {
		t.Errorf("Expected suggestion 'add', got %q", pe.Suggestion)
	}

	_, err = match(t, r, "div", "--rond", "1", "2")
	if pe := asParseError(t, err); pe.Suggestion != "round" {
		t.Errorf("Expected suggestion 'round', got %q", pe.Suggestion)
	}
}

func TestMatchResult_Accessors(t *testing.T) {
	r := calcRegistry(t)
	res, err := match(t, r, "echo", "-n", "ada")
	if err != nil {
		t.Fatal(err)
	}

	for _, alias := range []string{"name", "n"} {
		if v, ok := res.Option(alias); !ok || v != "ada" {
			t.Errorf("Option(%q) = %q, %v", alias, v, ok)
		}
	}
	if _, ok := res.Option("missing"); ok {
		t.Error("Unknown option must be absent")
	}
	if res.Flag("loud") || res.Flag("missing") {
		t.Error("Unset and unknown flags must be false")
	}
}
