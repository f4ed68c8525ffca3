package styles

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Symbols holds the icon set based on nerdfont configuration
type Symbols struct {
	OK      string
	Failed  string
	NotRun  string
	Skipped string
}

// Default symbols
var defaultSymbols = Symbols{
	OK:      "✓",
	Failed:  "✗",
	NotRun:  "·",
	Skipped: "-",
}

// Nerd font symbols
var nerdfontSymbols = Symbols{
	OK:      "\uf00c", // nf-fa-check
	Failed:  "\uf00d", // nf-fa-times
	NotRun:  "\uf444", // nf-oct-dot_fill
	Skipped: "\uf068", // nf-fa-minus
}

// useNerdfont tracks whether nerd font symbols are enabled
var useNerdfont bool

// currentSymbols holds the active symbol set
var currentSymbols = defaultSymbols

// SetNerdfont enables or disables nerd font symbols
func SetNerdfont(enabled bool) {
	useNerdfont = enabled
	if enabled {
		currentSymbols = nerdfontSymbols
	} else {
		currentSymbols = defaultSymbols
	}
}

// NerdfontEnabled returns whether nerd font symbols are enabled
func NerdfontEnabled() bool {
	return useNerdfont
}

// CurrentSymbols returns the current symbol set
func CurrentSymbols() Symbols {
	return currentSymbols
}

// FormatResults renders one colored symbol per pipeline step: the outcome
// of each step that ran, then NotRun for the steps a failure cut off.
func FormatResults(results []bool, steps int) string {
	parts := make([]string, 0, max(steps, len(results)))
	for _, ok := range results {
		if ok {
			parts = append(parts, SuccessStyle.Render(currentSymbols.OK))
		} else {
			parts = append(parts, ErrorStyle.Render(currentSymbols.Failed))
		}
	}
	for range steps - len(results) {
		parts = append(parts, MutedStyle.Render(currentSymbols.NotRun))
	}
	return strings.Join(parts, " ")
}

// FormatCheck renders the outcome of an availability check. A check that
// was not performed renders as Skipped.
func FormatCheck(performed, ok bool) string {
	switch {
	case !performed:
		return MutedStyle.Render(currentSymbols.Skipped)
	case ok:
		return SuccessStyle.Render(currentSymbols.OK)
	default:
		return ErrorStyle.Render(currentSymbols.Failed)
	}
}

// FormatPRRef returns a colored #<number> string with an OSC 8 hyperlink.
// Returns empty string if number == 0.
func FormatPRRef(number int, url string) string {
	if number == 0 {
		return ""
	}

	text := fmt.Sprintf("#%d", number)
	if url != "" {
		styled := SuccessStyle.Underline(true).Render(text)
		return ansi.SetHyperlink(url) + styled + ansi.ResetHyperlink()
	}
	return SuccessStyle.Render(text)
}

// Header renders a bold section title.
func Header(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(s)
}
