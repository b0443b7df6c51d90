package cli

import (
	"fmt"
	"unicode/utf8"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

// listPanel renders the ls output: header, progress, rows.
func listPanel(all []model.Todo, tab model.Tab, group bool) string {
	t := ui.Current()
	completed, pending := model.Stats(all)

	var lines []string
	lines = append(lines, ui.Header(completed, pending))
	lines = append(lines, t.Muted.Render(ui.ProgressBar(completed, completed+pending, 28)))
	lines = append(lines, "")

	view := model.Filter(all, tab)
	if group {
		lines = append(lines, groupLines(view)...)
	} else {
		lines = append(lines, flatLines(view)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render(fmt.Sprintf("Tab: %s · add with `tada add \"Buy milk\"`", tab.Label())))
	return ui.Panel(lines)
}

func flatLines(todos []model.Todo) []string {
	if len(todos) == 0 {
		return []string{ui.Current().Muted.Render(model.EmptyPlaceholder)}
	}
	out := make([]string, 0, len(todos))
	for _, it := range todos {
		body := truncate(it.Body, maxBodyWidth)
		out = append(out, fmt.Sprintf("%s %s %s",
			ui.Current().Muted.Render(fmt.Sprintf("#%-3d", it.ID)),
			ui.Checkbox(it.Completed()),
			ui.Label(body, it.Completed())))
	}
	return out
}

const maxBodyWidth = 80

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func groupLines(todos []model.Todo) []string {
	t := ui.Current()
	var lines []string
	for i, st := range model.Statuses {
		if i > 0 {
			lines = append(lines, "")
		}
		section := model.Filter(todos, model.Tab(st))
		lines = append(lines, t.Accent.Render(model.Tab(st).Label()))
		if len(section) == 0 {
			lines = append(lines, t.Muted.Render("(none)"))
		} else {
			lines = append(lines, flatLines(section)...)
		}
	}
	return lines
}
