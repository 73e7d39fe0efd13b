package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Times and durations
	colorTime = color.New(color.FgCyan)

	// The longest slot of the day
	colorLongest = color.New(color.FgYellow, color.Bold)

	// Confirmations: green
	colorOK = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatTime(s string) string {
	return colorTime.Sprint(s)
}

func formatLongest(s string) string {
	return colorLongest.Sprint(s)
}

func formatOK(s string) string {
	return colorOK.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
