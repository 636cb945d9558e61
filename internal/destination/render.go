package destination

import (
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const defaultRenderWidth = 100

// TerminalRenderer returns a glamour renderer for log output written to f, or
// nil when f is not a terminal.
func TerminalRenderer(f *os.File) func(string) (string, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}

	width := defaultRenderWidth
	if w, _, err := term.GetSize(fd); err == nil && w > 0 && w < width {
		width = w
	}

	profile := termenv.NewOutput(f).Profile
	style := "dracula"
	if profile == termenv.Ascii {
		style = "notty"
	}

	return func(markdown string) (string, error) {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
			glamour.WithColorProfile(profile),
		)
		if err != nil {
			return "", err
		}
		return r.Render(markdown)
	}
}
