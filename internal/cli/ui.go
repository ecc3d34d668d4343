// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Styles
// =============================================================================

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleIndex   = lipgloss.NewStyle().Foreground(colorDim).Width(5).Align(lipgloss.Right)
	styleOpName  = lipgloss.NewStyle().Foreground(colorCyan)
	styleState   = lipgloss.NewStyle().Foreground(colorGray)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorAmber)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
)

// =============================================================================
// Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleWarning.Render(iconWarning)+" "+styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, styleTitle.Render(title))
}

// printOps lists ops one per line. Drawing ops are highlighted; state ops
// are dimmed.
func printOps(w io.Writer, ops []string) {
	for i, op := range ops {
		name, _, _ := strings.Cut(op, "(")
		style := styleState
		if strings.HasPrefix(name, "draw") {
			style = styleOpName
		}
		fmt.Fprintln(w, styleIndex.Render(fmt.Sprint(i))+"  "+style.Render(op))
	}
}

// stat is one row of a statistics table.
type stat struct {
	name  string
	value any
}

func printStats(w io.Writer, title string, rows []stat) {
	printTitle(w, title)
	for _, r := range rows {
		v := r.value
		if f, ok := v.(float64); ok {
			v = fmt.Sprintf("%.2f", f)
		}
		fmt.Fprintln(w, "  "+styleKey.Render(r.name)+styleNumber.Render(fmt.Sprint(v)))
	}
}
