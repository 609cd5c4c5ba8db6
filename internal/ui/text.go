package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter renders one kind of CLI text. With colors it uses color, without
// it wraps the text in prefix and suffix.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint formats the arguments like fmt.Sprint.
func (f Formatter) Sprint(a ...interface{}) string {
	return f.render(fmt.Sprint(a...))
}

// Sprintf formats the arguments like fmt.Sprintf.
func (f Formatter) Sprintf(format string, a ...interface{}) string {
	return f.render(fmt.Sprintf(format, a...))
}

func (f Formatter) render(text string) string {
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// EnsureNewline appends a newline to s unless it already ends with one.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

// noColor reports whether output must be plain, either because NO_COLOR
// is set (https://no-color.org/) or because fatih/color decided so.
func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

var (
	// Code formats commands the user can run, `quoted` without color.
	Code = Formatter{color.New(color.FgYellow), "`", "`"}

	// Path formats file and directory names.
	Path = Formatter{color.New(color.FgYellow), "", ""}

	// Flag formats flags such as --overwrite.
	Flag = Formatter{color.New(color.FgYellow), "", ""}

	// Success formats the ✓ of a completed run.
	Success = Formatter{color.New(color.FgGreen), "", ""}

	// Error formats the ✗ of a failed run.
	Error = Formatter{color.New(color.FgRed), "", ""}

	// Warning formats ⚠ and [dry-run] markers.
	Warning = Formatter{color.New(color.FgYellow), "", ""}

	// Info formats hints and → arrows.
	Info = Formatter{color.New(color.FgCyan), "", ""}

	// Highlight formats values such as the suffix, 'quoted' without color.
	Highlight = Formatter{color.New(color.FgCyan), "'", "'"}

	// Muted formats secondary text, (parenthesised) without color.
	Muted = Formatter{color.New(color.FgHiBlack), "(", ")"}
)
