package climb

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/dzonerzy/go-climb/middleware"
)

// Metadata used when an App is created with empty values
const (
	DefaultName        = "unnamed_app"
	DefaultDescription = "default_description"
	DefaultVersion     = "0.1.0"
)

// App wires the engine to a process: it reads os.Args, renders help and
// diagnostics, and maps errors to exit codes. The engine itself does none of that.
type App struct {
	info       AppInfo
	registry   *Registry
	middleware []middleware.Middleware
	engine     *Engine // built on first run; seals the registry

	renderer     HelpRenderer
	errorHandler *ErrorHandler
	exitCodes    *ExitCodeManager

	out    io.Writer
	errOut io.Writer

	// registration errors from the chaining helpers, reported by Run
	configErrs []error
}

// New creates an application. Empty values fall back to DefaultName and
// DefaultDescription; the version starts as DefaultVersion.
func New(name, description string) *App {
	if name == "" {
		name = DefaultName
	}
	if description == "" {
		description = DefaultDescription
	}
	return &App{
		info:         AppInfo{Name: name, Description: description, Version: DefaultVersion},
		registry:     NewRegistry(),
		renderer:     TextRenderer{},
		errorHandler: NewErrorHandler(),
		out:          os.Stdout,
		errOut:       os.Stderr,
	}
}

// Version sets the application version
func (a *App) Version(version string) *App {
	a.info.Version = version
	return a
}

// Info returns the application metadata
func (a *App) Info() AppInfo { return a.info }

// Register adds a command. It fails once the app has run.
func (a *App) Register(spec CommandSpec) error {
	return a.registry.Register(spec)
}

// SetDefault configures the command that runs when no command is named.
func (a *App) SetDefault(spec CommandSpec) error {
	return a.registry.SetDefault(spec)
}

// Command registers spec and returns the app for chaining. Errors are
// reported by Run.
func (a *App) Command(spec CommandSpec) *App {
	if err := a.registry.Register(spec); err != nil {
		a.configErrs = append(a.configErrs, err)
	}
	return a
}

// Default is the chaining form of SetDefault. Errors are reported by Run.
func (a *App) Default(spec CommandSpec) *App {
	if err := a.registry.SetDefault(spec); err != nil {
		a.configErrs = append(a.configErrs, err)
	}
	return a
}

// Use adds middleware around every handler dispatch
func (a *App) Use(mw ...middleware.Middleware) *App {
	a.middleware = append(a.middleware, mw...)
	return a
}

// Output redirects normal output and diagnostics. nil keeps the current writer.
func (a *App) Output(out, errOut io.Writer) *App {
	if out != nil {
		a.out = out
	}
	if errOut != nil {
		a.errOut = errOut
	}
	return a
}

// Renderer replaces the help renderer
func (a *App) Renderer(r HelpRenderer) *App {
	if r != nil {
		a.renderer = r
	}
	return a
}

// ErrorHandler returns the diagnostic settings for parse errors
func (a *App) ErrorHandler() *ErrorHandler { return a.errorHandler }

// ExitCodes returns the exit-code manager for this app.
func (a *App) ExitCodes() *ExitCodeManager {
	if a.exitCodes == nil {
		a.exitCodes = newExitCodeManager()
	}
	return a.exitCodes
}

// Engine returns the engine, building it on first use. After this call the
// command set is frozen.
func (a *App) Engine() *Engine {
	if a.engine == nil {
		a.engine = NewEngine(a.registry, a.middleware...)
	}
	return a.engine
}

// Run runs the application with os.Args[1:]
func (a *App) Run() error {
	return a.RunWithArgs(os.Args[1:])
}

// RunWithArgs runs one invocation. args excludes the program name.
//
// Handler output is printed on the output writer. Help and version requests
// print their text and return ErrHelpShown or ErrVersionShown. Parse errors
// are printed with suggestions and returned as *CLIError.
func (a *App) RunWithArgs(args []string) error {
	if err := errors.Join(a.configErrs...); err != nil {
		a.displayFailure(err)
		return err
	}

	out, err := a.Engine().ParseAndDispatch(args)
	if err == nil {
		if out != "" {
			fmt.Fprintln(a.out, out)
		}
		return nil
	}

	var help *HelpRequest
	if errors.As(err, &help) {
		return a.handleHelp(help)
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return a.handleParseError(parseErr)
	}

	// handler errors pass through; only ExitError without a message stays silent
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Err != nil {
		a.displayFailure(err)
	}
	return err
}

// RunAndGetExitCode runs the app and returns the mapped exit code.
func (a *App) RunAndGetExitCode() int {
	return a.ExitCodes().Code(a.Run())
}

// RunAndExit runs the app and terminates the process with the mapped exit code.
func (a *App) RunAndExit() {
	os.Exit(a.RunAndGetExitCode())
}

func (a *App) handleHelp(help *HelpRequest) error {
	if help.Version {
		fmt.Fprintln(a.out, a.info.VersionLine())
		return ErrVersionShown
	}
	fmt.Fprint(a.out, a.helpFor(help.Command))
	return ErrHelpShown
}

// handleParseError prints the diagnostic, beneath contextual help when enabled.
func (a *App) handleParseError(pe *ParseError) error {
	cliErr := a.errorHandler.ProcessError(pe, a.registry)
	if a.errorHandler.showHelpOnError {
		ctx := pe.Current
		if pe.Type == ErrorTypeUnknownCommand {
			ctx = nil
		}
		fmt.Fprint(a.errOut, a.helpFor(ctx))
		fmt.Fprintln(a.errOut)
	}
	a.errorHandler.DisplayError(a.errOut, cliErr)
	return cliErr
}

// helpFor renders command help, or app help for nil and the default command.
func (a *App) helpFor(cmd *Command) string {
	def := a.registry.Default()
	if cmd == nil || cmd.builtin || cmd == def {
		return a.renderer.RenderApp(a.info, a.registry.Commands(), def)
	}
	return a.renderer.RenderCommand(a.info, cmd)
}

func (a *App) displayFailure(err error) {
	_, _ = color.New(color.FgRed).Fprintf(a.errOut, "Error: %v\n", err)
}
