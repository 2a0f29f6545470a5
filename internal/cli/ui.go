package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// stdout receives command output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// =============================================================================
// Styles
// =============================================================================

// Terminal colours follow the navigator palette: cyan grid, red directories.
var (
	colorGrid  = lipgloss.Color("37")  // cyan
	colorDir   = lipgloss.Color("160") // red
	colorOK    = lipgloss.Color("35")  // green
	colorWarn  = lipgloss.Color("220") // amber
	colorLink  = lipgloss.Color("75")  // light blue
	colorValue = lipgloss.Color("255")
	colorLabel = lipgloss.Color("245")
	colorMuted = lipgloss.Color("240")
)

var (
	// StyleLink renders URLs and object URIs.
	StyleLink = lipgloss.NewStyle().Foreground(colorLink).Underline(true)

	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorMuted)

	// StyleValue renders data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorValue)

	// StyleWarning renders status lines that need attention.
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)

	styleSuccess = lipgloss.NewStyle().Foreground(colorOK)
	styleError   = lipgloss.NewStyle().Foreground(colorDir)
	styleInfo    = lipgloss.NewStyle().Foreground(colorLabel)
	styleKey     = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorLink)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorGrid)
	styleCached      = lipgloss.NewStyle().Foreground(colorOK)
	styleFresh       = lipgloss.NewStyle().Foreground(colorLabel)
)

// =============================================================================
// Status lines
// =============================================================================

func printLine(icon string, style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(stdout, style.Render(icon)+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { printLine("✓", styleSuccess, format, args...) }
func printError(format string, args ...any)   { printLine("✗", styleError, format, args...) }
func printInfo(format string, args ...any)    { printLine("›", styleInfo, format, args...) }

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written artifact path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

// printKeyValue prints a labelled value such as "center  (412, 288)".
func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints counts such as "9 entries · 7 visible" followed by
// whether the result came from the cache.
func printStats(cached bool, counts ...string) {
	parts := make([]string, 0, len(counts)+1)
	for _, c := range counts {
		parts = append(parts, StyleDim.Render(c))
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, styleFresh.Render("fresh"))
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}
