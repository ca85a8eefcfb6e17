package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI color and style constants for CLI output
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorWhite  = "\033[97m"
	ColorRed    = "\033[31m"
)

func Bold(s string) string {
	return ColorBold + s + ColorReset
}

func Success(s string) string {
	return ColorGreen + s + ColorReset
}

func Info(s string) string {
	return ColorDim + ColorYellow + s + ColorReset
}

func Warning(s string) string {
	return ColorBold + ColorYellow + s + ColorReset
}

func Error(s string) string {
	return ColorRed + s + ColorReset
}

func Accent(s string) string {
	return ColorCyan + s + ColorReset
}

func Dim(s string) string {
	return ColorDim + s + ColorReset
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Style applies style to s when w is a terminal
func Style(w io.Writer, style func(string) string, s string) string {
	if style != nil && IsTerminal(w) {
		return style(s)
	}
	return s
}

// Fprintln writes a line, styled with style only when w is a terminal
func Fprintln(w io.Writer, style func(string) string, s string) {
	fmt.Fprintln(w, Style(w, style, s))
}
