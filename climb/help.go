package climb

import (
	"strings"

	"github.com/fatih/color"
)

// AppInfo is the application metadata shown in help output
type AppInfo struct {
	Name        string
	Description string
	Version     string
}

// HelpRenderer produces help text. The engine never calls it; the App does
// when help is requested or after a parse error.
type HelpRenderer interface {
	// RenderApp renders application help. def is the active default command.
	RenderApp(app AppInfo, commands []*Command, def *Command) string
	// RenderCommand renders help for a single command.
	RenderCommand(app AppInfo, cmd *Command) string
}

// TextRenderer is the default plain-text renderer. Section headings are bold
// unless color output is disabled (NO_COLOR, non-terminal output).
type TextRenderer struct{}

var _ HelpRenderer = TextRenderer{}

var heading = color.New(color.Bold)

func (TextRenderer) RenderApp(app AppInfo, commands []*Command, def *Command) string {
	var b strings.Builder
	if app.Description != "" {
		b.WriteString(app.Description)
		b.WriteString("\n\n")
	}

	section(&b, "USAGE")
	b.WriteString("  ")
	b.WriteString(app.Name)
	b.WriteString(" [OPTIONS]")
	switch {
	case def != nil && !def.builtin:
		writeArgs(&b, def.positionals)
	case len(commands) > 0:
		b.WriteString(" [COMMAND]")
	}
	b.WriteString("\n")

	if def != nil && !def.builtin && len(def.positionals) > 0 {
		b.WriteString("\n")
		renderArgs(&b, def)
	}

	if def != nil {
		b.WriteString("\n")
		renderOptions(&b, def)
	}

	if len(commands) > 0 {
		b.WriteString("\n")
		section(&b, "COMMANDS")
		labels := make([]string, len(commands))
		width := 0
		for i, cmd := range commands {
			labels[i] = cmd.name
			if cmd.short != "" {
				labels[i] += ", " + cmd.short
			}
			width = max(width, len(labels[i]))
		}
		for i, cmd := range commands {
			writeRow(&b, labels[i], width, cmd.description)
		}

		b.WriteString("\nRun `")
		b.WriteString(app.Name)
		b.WriteString(" [COMMAND] --help` to see help information for a specific command\n")
	}
	return b.String()
}

func (TextRenderer) RenderCommand(app AppInfo, cmd *Command) string {
	var b strings.Builder
	if cmd.description != "" {
		b.WriteString(cmd.description)
		b.WriteString("\n\n")
	}

	section(&b, "USAGE")
	b.WriteString("  ")
	b.WriteString(app.Name)
	b.WriteString(" ")
	b.WriteString(cmd.name)
	if len(cmd.flags)+len(cmd.options) > 0 {
		b.WriteString(" [OPTIONS]")
	}
	writeArgs(&b, cmd.positionals)
	b.WriteString("\n")

	if len(cmd.positionals) > 0 {
		b.WriteString("\n")
		renderArgs(&b, cmd)
	}
	b.WriteString("\n")
	renderOptions(&b, cmd)
	return b.String()
}

// VersionLine renders "name version"
func (a AppInfo) VersionLine() string {
	return a.Name + " " + a.Version
}

func section(b *strings.Builder, title string) {
	b.WriteString(heading.Sprint(title + ":"))
	b.WriteString("\n")
}

func writeArgs(b *strings.Builder, positionals []string) {
	for _, p := range positionals {
		b.WriteString(" <")
		b.WriteString(p)
		b.WriteString(">")
	}
}

func renderArgs(b *strings.Builder, cmd *Command) {
	section(b, "ARGS")
	for _, p := range cmd.positionals {
		b.WriteString("  <")
		b.WriteString(p)
		b.WriteString(">\n")
	}
}

// renderOptions prints "-s, --long <VALUE>   description" rows, value
// options after flags and the help flag last.
func renderOptions(b *strings.Builder, cmd *Command) {
	type row struct{ label, desc string }
	rows := make([]row, 0, len(cmd.flags)+len(cmd.options))
	label := func(long, short, value string) string {
		s := "    --" + long
		if short != "" {
			s = "-" + short + ", --" + long
		}
		if value != "" {
			s += " <" + value + ">"
		}
		return s
	}

	var help *FlagSpec
	for i := range cmd.flags {
		f := &cmd.flags[i]
		if f.Name == helpAlias && !cmd.builtin {
			help = f
			continue
		}
		rows = append(rows, row{label(f.Name, f.Short, ""), f.Description})
	}
	for _, o := range cmd.options {
		rows = append(rows, row{label(o.Name, o.Short, o.ValueName), o.Description})
	}
	if help != nil {
		rows = append(rows, row{label(help.Name, help.Short, ""), help.Description})
	}

	width := 0
	for _, r := range rows {
		width = max(width, len(r.label))
	}

	section(b, "OPTIONS")
	for _, r := range rows {
		writeRow(b, r.label, width, r.desc)
	}
}

func writeRow(b *strings.Builder, label string, width int, desc string) {
	b.WriteString("  ")
	b.WriteString(label)
	if desc != "" {
		b.WriteString(strings.Repeat(" ", width-len(label)+4))
		b.WriteString(desc)
	}
	b.WriteString("\n")
}
