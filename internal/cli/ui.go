package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleError for failure messages.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// ui writes styled status lines for humans. Commands build one over
// cmd.OutOrStdout() so the output follows cobra's stream.
type ui struct{ w io.Writer }

func newUI(w io.Writer) ui { return ui{w: w} }

func (u ui) line(s string) { fmt.Fprintln(u.w, s) }

func (u ui) success(format string, args ...any) {
	u.line(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func (u ui) failure(format string, args ...any) {
	u.line(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func (u ui) warning(format string, args ...any) {
	u.line(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (u ui) info(format string, args ...any) {
	u.line(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// detail prints an indented, dimmed line.
func (u ui) detail(format string, args ...any) {
	u.line("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints an output path.
func (u ui) file(path string) {
	u.line("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func (u ui) keyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	u.line(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// stats prints address and edge counts on one line.
func (u ui) stats(nodeCount, edgeCount int) {
	parts := []string{
		fmt.Sprintf("%d addresses", nodeCount),
		fmt.Sprintf("%d edges", edgeCount),
	}
	u.line("  " + StyleDim.Render(strings.Join(parts, " · ")))
}

// nextStep suggests a follow-up command.
func (u ui) nextStep(description, cmd string) {
	u.line(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func (u ui) newline() { u.line("") }
