package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/shapemodel/cli/internal/identity"
)

// Color palette. Never use inline lipgloss.Color literals outside this block.
var (
	// ColorCyan is used for identifiable nouns: shape names, namespaces.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen marks added entries.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow marks modified entries and member names.
	ColorYellow = lipgloss.Color("220")

	// ColorRed marks removed entries.
	ColorRed = lipgloss.Color("196")

	// ColorBoldRed is used for failures (matches ERROR level).
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark (✔).
	ColorGreenCheck = lipgloss.Color("10")

	// ColorBlue is used for table headers.
	ColorBlue = lipgloss.Color("12")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (shape names, namespaces).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleMember styles the member part of a shape ID.
	StyleMember = lipgloss.NewStyle().Foreground(ColorYellow)

	// StyleDim styles structural chrome (namespace prefixes, separators).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Styles groups the styles used by renderers that can run with or without
// colour.
type Styles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
}

// GetStyles returns coloured styles when stdout is a terminal and NO_COLOR
// is unset, and NoColorStyles otherwise.
func GetStyles() *Styles {
	if !ColorEnabled() {
		return NoColorStyles()
	}
	return &Styles{
		Success: lipgloss.NewStyle().Foreground(ColorGreen),
		Error:   lipgloss.NewStyle().Foreground(ColorRed),
		Warning: lipgloss.NewStyle().Foreground(ColorYellow),
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(ColorDimGray),
	}
}

// NoColorStyles returns styles that render text unchanged.
func NoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{Success: plain, Error: plain, Warning: plain, Bold: plain, Muted: plain}
}

// ColorEnabled reports whether stdout is a terminal that should get colour.
func ColorEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Change status constants.
const (
	StatusAdded     = "added"
	StatusRemoved   = "removed"
	StatusModified  = "modified"
	StatusUnchanged = "unchanged"
	StatusFailed    = "failed"
)

// StatusStyle returns the lipgloss style for a change status.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusAdded:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusModified:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusUnchanged:
		return lipgloss.NewStyle().Faint(true)
	case StatusRemoved:
		return lipgloss.NewStyle().Foreground(ColorRed)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// FormatShapeID renders a shape ID with a dim namespace, a cyan name and a
// yellow member name.
func FormatShapeID(id identity.ShapeID) string {
	if id.IsZero() {
		return ""
	}
	var sb strings.Builder
	if ns := id.Namespace(); ns != "" {
		sb.WriteString(StyleDim.Render(string(ns) + "#"))
	}
	sb.WriteString(StyleNoun.Render(string(id.Name())))
	if id.IsMember() {
		sb.WriteString(StyleDim.Render("$"))
		sb.WriteString(StyleMember.Render(string(id.Member())))
	}
	return sb.String()
}

// minNameColumnWidth is the minimum width of the name column before the
// status suffix, so status words align.
const minNameColumnWidth = 48

// FormatChangeLine renders an entry name with a right-aligned, colour-coded
// status suffix.
//
// Format: s:<name>  <status>
func FormatChangeLine(name, status string) string {
	padding := minNameColumnWidth - len(name)
	if padding < 2 {
		padding = 2
	}
	return fmt.Sprintf("%s%s%s%s",
		StyleDim.Render("s:"),
		StyleNoun.Render(name),
		strings.Repeat(" ", padding),
		StatusStyle(status).Render(status),
	)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
