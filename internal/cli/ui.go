package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/overlay/pkg/placement"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success, visible
	colorYellow = lipgloss.Color("220") // Amber - warnings, compressed
	colorRed    = lipgloss.Color("167") // Soft red - errors, clipped
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

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for clipped candidates.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)
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

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
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
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// stdout receives status output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(stdout, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints placement statistics on a single line.
func printStats(tooltips, visible, compressed int, cached bool) {
	parts := []string{fmt.Sprintf("%d tooltips", tooltips)}
	if hidden := tooltips - visible; hidden > 0 {
		parts = append(parts, fmt.Sprintf("%d clipped", hidden))
	}
	if compressed > 0 {
		parts = append(parts, fmt.Sprintf("%d compressed", compressed))
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Fprintln(stdout, line+StyleDim.Render(" · ")+statusStyle.Render(status))
}

// =============================================================================
// Placement Display
// =============================================================================

// printResult prints the outcome of one placement.
func printResult(id string, res placement.Result, style string) {
	switch {
	case res.Skipped:
		printWarning("%s: skipped, element detached", id)
		return
	case !res.Visible:
		printError("%s: nothing fits, left on %s", id, res.Side)
	default:
		printSuccess("%s: %s", id, res.Side)
	}
	printKeyValue("rect", formatRect(res.Rect.Left, res.Rect.Top, res.Rect.Right, res.Rect.Bottom))
	printKeyValue("style", style)
	printKeyValue("attempts", fmt.Sprint(res.Attempts))
	if res.WidthCompressed {
		printKeyValue("compressed", "yes")
	}
}

// traceTable renders the candidates of a search as a table.
func traceTable(trace []placement.Candidate) string {
	rows := make([][]string, len(trace))
	for i, c := range trace {
		state := "clipped"
		if c.Visible {
			state = "visible"
		}
		compressed := ""
		if c.Compressed {
			compressed = "yes"
		}
		rows[i] = []string{
			fmt.Sprint(i + 1),
			c.Side.String(),
			formatRect(c.Rect.Left, c.Rect.Top, c.Rect.Right, c.Rect.Bottom),
			compressed,
			state,
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Side", "Rect", "Wrap", "Result").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col != 4 || row >= len(trace) {
				return lipgloss.NewStyle().Padding(0, 1)
			}
			if trace[row].Visible {
				return StyleSuccess.Padding(0, 1)
			}
			return StyleError.Padding(0, 1)
		}).
		Render()
}

// formatRect prints edges as "left,top right,bottom".
func formatRect(left, top, right, bottom float64) string {
	return num(left) + "," + num(top) + " " + num(right) + "," + num(bottom)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
