package ui

import (
	"fmt"
	"io"
	"strings"
)

// ProgressBar renders a Unicode progress bar with a done/total counter.
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
	return fmt.Sprintf("[%s] %d/%d", bar, done, total)
}

// Panel frames lines with the current theme's border.
func Panel(lines []string) string {
	return current.Border.Render(strings.Join(lines, "\n"))
}

// Header is the "Todos ✔ n • n Total n" line shared by ls and the TUI.
func Header(completed, pending int) string {
	t := current
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), completed,
		t.Pending.Render(t.SymPending), pending,
		t.Accent.Render("Total"), completed+pending,
	)
}

// Checkbox renders the status toggle glyph.
func Checkbox(checked bool) string {
	if checked {
		return current.Success.Render(current.BoxChecked)
	}
	return current.Muted.Render(current.BoxUnchecked)
}

// Label renders a todo body, struck through when completed.
func Label(body string, completed bool) string {
	if completed {
		return current.Done.Render(body)
	}
	return body
}

func OK(w io.Writer, msg string) {
	fmt.Fprintln(w, current.Success.Render(current.SymDone+" "+msg))
}

func Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, current.Error.Render("✖ "+msg))
}
