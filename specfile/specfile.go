// Package specfile loads command manifests (YAML, TOML or JSON) and turns
// them into climb command specs. Handlers are bound by name from Go code.
package specfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dzonerzy/go-climb/climb"
)

// Manifest describes an application and its commands.
type Manifest struct {
	Name        string         `yaml:"name" toml:"name" json:"name"`
	Description string         `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
	Version     string         `yaml:"version,omitempty" toml:"version,omitempty" json:"version,omitempty"`
	Default     *CommandEntry  `yaml:"default,omitempty" toml:"default,omitempty" json:"default,omitempty"`
	Commands    []CommandEntry `yaml:"commands" toml:"commands" json:"commands"`
}

// CommandEntry is one command. Handler names the Go handler to bind; it
// defaults to the command name.
type CommandEntry struct {
	Name        string        `yaml:"name" toml:"name" json:"name"`
	Short       string        `yaml:"short,omitempty" toml:"short,omitempty" json:"short,omitempty"`
	Description string        `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
	Args        []string      `yaml:"args,omitempty" toml:"args,omitempty" json:"args,omitempty"`
	Flags       []FlagEntry   `yaml:"flags,omitempty" toml:"flags,omitempty" json:"flags,omitempty"`
	Options     []OptionEntry `yaml:"options,omitempty" toml:"options,omitempty" json:"options,omitempty"`
	Handler     string        `yaml:"handler,omitempty" toml:"handler,omitempty" json:"handler,omitempty"`
}

type FlagEntry struct {
	Name        string `yaml:"name" toml:"name" json:"name"`
	Short       string `yaml:"short,omitempty" toml:"short,omitempty" json:"short,omitempty"`
	Description string `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
}

// OptionEntry is a value option; Value is the label shown in help.
type OptionEntry struct {
	Name        string `yaml:"name" toml:"name" json:"name"`
	Short       string `yaml:"short,omitempty" toml:"short,omitempty" json:"short,omitempty"`
	Description string `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
	Value       string `yaml:"value" toml:"value" json:"value"`
}

// Format is a manifest encoding
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatJSON:
		return "json"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ErrUnknownFormat is returned for file extensions other than .yaml, .yml, .toml and .json.
var ErrUnknownFormat = errors.New("specfile: unknown manifest format")

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// LoadFile reads and decodes the manifest at path.
func LoadFile(path string) (*Manifest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return m, nil
}

// Decode reads a manifest. Unknown keys are errors in every format.
func Decode(r io.Reader, format Format) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&m)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	return &m, nil
}

// Encode writes m in the given format.
func Encode(w io.Writer, m *Manifest, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(m)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// SaveFile writes m to path in the format implied by its extension.
func SaveFile(path string, m *Manifest) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, m, format); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// UnboundHandlerError reports a handler name with no Go implementation.
type UnboundHandlerError struct {
	Command string
	Handler string
}

func (e *UnboundHandlerError) Error() string {
	return fmt.Sprintf("command %s: no handler bound to %q", e.Command, e.Handler)
}

// Spec converts the entry. An explicit handler name must be present in
// handlers; the implicit one (the command name) may be missing, leaving a
// command that shows its help.
func (c CommandEntry) Spec(handlers map[string]climb.Handler) (climb.CommandSpec, error) {
	spec := climb.CommandSpec{
		Name:        c.Name,
		Short:       c.Short,
		Description: c.Description,
		Positionals: c.Args,
	}
	for _, f := range c.Flags {
		spec.Flags = append(spec.Flags, climb.FlagSpec(f))
	}
	for _, o := range c.Options {
		spec.Options = append(spec.Options, climb.ValueOptionSpec{
			Name: o.Name, Short: o.Short, Description: o.Description, ValueName: o.Value,
		})
	}

	key := c.Handler
	if key == "" {
		key = c.Name
	}
	h, ok := handlers[key]
	if !ok && c.Handler != "" {
		return spec, &UnboundHandlerError{Command: c.Name, Handler: c.Handler}
	}
	spec.Handler = h
	return spec, nil
}

// Apply registers the manifest on app: version, default command and commands.
// It stops at the first error.
func (m *Manifest) Apply(app *climb.App, handlers map[string]climb.Handler) error {
	if m.Version != "" {
		app.Version(m.Version)
	}
	return m.register(app.Register, app.SetDefault, handlers)
}

// Registry builds a fresh registry from the manifest.
func (m *Manifest) Registry(handlers map[string]climb.Handler) (*climb.Registry, error) {
	r := climb.NewRegistry()
	if err := m.register(r.Register, r.SetDefault, handlers); err != nil {
		return nil, err
	}
	return r, nil
}

// NewApp creates an App named after the manifest and applies it.
func (m *Manifest) NewApp(handlers map[string]climb.Handler) (*climb.App, error) {
	app := climb.New(m.Name, m.Description)
	if err := m.Apply(app, handlers); err != nil {
		return nil, err
	}
	return app, nil
}

func (m *Manifest) register(
	register, setDefault func(climb.CommandSpec) error,
	handlers map[string]climb.Handler,
) error {
	if m.Default != nil {
		spec, err := m.Default.Spec(handlers)
		if err != nil {
			return err
		}
		if err := setDefault(spec); err != nil {
			return err
		}
	}
	for _, c := range m.Commands {
		spec, err := c.Spec(handlers)
		if err != nil {
			return err
		}
		if err := register(spec); err != nil {
			return err
		}
	}
	return nil
}
