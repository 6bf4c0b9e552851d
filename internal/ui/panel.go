package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a Unicode progress bar with a found/total count.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// PanelString frames content in the current theme's border.
func PanelString(content string) string {
	t := Current()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(content)
}

// Panel prints lines inside a framed box.
func Panel(lines []string) {
	fmt.Println(PanelString(strings.Join(lines, "\n")))
}

func OK(msg string)     { fmt.Println(Current().Success.Render("✔ " + msg)) }
func Fail(msg string)   { fmt.Fprintln(os.Stderr, Current().Error.Render("✖ "+msg)) }
func Notice(msg string) { fmt.Fprintln(os.Stderr, Current().Pending.Render("! "+msg)) }
func Hint(msg string)   { fmt.Fprintln(os.Stderr, Current().Muted.Render(msg)) }

// Miles formats a distance the way result lists show it.
func Miles(d float64) string { return fmt.Sprintf("%.1f miles away", d) }

// Truncate shortens s to max runes with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 3 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
