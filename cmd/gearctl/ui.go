package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

// UI writes human-readable or JSON output for the CLI.
type UI struct {
	out      io.Writer
	errOut   io.Writer
	noColor  bool
	jsonMode bool
}

// NewUI creates a new UI instance.
func NewUI(out, errOut io.Writer, jsonMode, noColor bool) *UI {
	return &UI{
		out:      out,
		errOut:   errOut,
		noColor:  noColor,
		jsonMode: jsonMode,
	}
}

func (ui *UI) line(w io.Writer, c color.Attribute, symbol, format string, args ...any) {
	if ui.jsonMode {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if ui.noColor {
		fmt.Fprintf(w, "%s %s\n", symbol, msg)
		return
	}
	color.New(c).Fprintf(w, "%s %s\n", symbol, msg)
}

// Success prints a success message.
func (ui *UI) Success(format string, args ...any) {
	ui.line(ui.out, color.FgGreen, "✓", format, args...)
}

// Error prints an error message to the error stream.
func (ui *UI) Error(format string, args ...any) {
	ui.line(ui.errOut, color.FgRed, "✗", format, args...)
}

// Warning prints a warning message.
func (ui *UI) Warning(format string, args ...any) {
	ui.line(ui.out, color.FgYellow, "⚠", format, args...)
}

// Info prints an info message.
func (ui *UI) Info(format string, args ...any) {
	ui.line(ui.out, color.FgCyan, "ℹ", format, args...)
}

// Step prints a step message.
func (ui *UI) Step(format string, args ...any) {
	ui.line(ui.out, color.FgBlue, "→", format, args...)
}

// JSON writes v as indented JSON. It is a no-op outside JSON mode.
func (ui *UI) JSON(v any) error {
	if !ui.jsonMode {
		return nil
	}
	enc := json.NewEncoder(ui.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// KeyValue prints a key-value pair.
func (ui *UI) KeyValue(key string, value any) {
	if ui.jsonMode {
		return
	}
	if ui.noColor {
		fmt.Fprintf(ui.out, "  %s: %v\n", key, value)
		return
	}
	color.New(color.FgYellow).Fprintf(ui.out, "  %s: ", key)
	fmt.Fprintf(ui.out, "%v\n", value)
}

// Table prints a boxed table. Column widths count runes.
func (ui *UI) Table(headers []string, rows [][]string) {
	if ui.jsonMode || len(headers) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len([]rune(h))
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], len([]rune(cell)))
			}
		}
	}

	box := ui.box()
	ui.border(box, box.top, widths)
	ui.row(box, headers, widths)
	ui.border(box, box.mid, widths)
	for _, row := range rows {
		ui.row(box, row, widths)
	}
	ui.border(box, box.bottom, widths)
}

type boxChars struct {
	top, mid, bottom [3]string // left, junction, right
	horizontal       string
	vertical         string
	paint            func(w io.Writer, s string)
}

func (ui *UI) box() boxChars {
	if ui.noColor {
		return boxChars{
			top:        [3]string{"+", "+", "+"},
			mid:        [3]string{"+", "+", "+"},
			bottom:     [3]string{"+", "+", "+"},
			horizontal: "-",
			vertical:   "|",
			paint:      func(w io.Writer, s string) { fmt.Fprint(w, s) },
		}
	}
	frame := color.New(color.FgCyan, color.Bold)
	return boxChars{
		top:        [3]string{"┌", "┬", "┐"},
		mid:        [3]string{"├", "┼", "┤"},
		bottom:     [3]string{"└", "┴", "┘"},
		horizontal: "─",
		vertical:   "│",
		paint:      func(w io.Writer, s string) { frame.Fprint(w, s) },
	}
}

func (ui *UI) border(box boxChars, chars [3]string, widths []int) {
	box.paint(ui.out, chars[0])
	for i, width := range widths {
		fmt.Fprint(ui.out, strings.Repeat(box.horizontal, width+2))
		if i < len(widths)-1 {
			box.paint(ui.out, chars[1])
		}
	}
	box.paint(ui.out, chars[2]+"\n")
}

func (ui *UI) row(box boxChars, cells []string, widths []int) {
	box.paint(ui.out, box.vertical)
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := width - len([]rune(cell))
		fmt.Fprintf(ui.out, " %s%s ", cell, strings.Repeat(" ", pad))
		box.paint(ui.out, box.vertical)
	}
	fmt.Fprintln(ui.out)
}

// FormatDuration formats a duration in a human-readable way.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
}
