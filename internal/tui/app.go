// Package tui is the interactive todo list: a tab bar selecting one of three
// filtered lists, a create form and a status line. All data comes from a
// Backend; after every successful mutation the full list is fetched again.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Backend is the remote procedure surface the UI needs.
// *api.Client satisfies it.
type Backend interface {
	GetAll(ctx context.Context, statuses ...model.Status) ([]model.Todo, error)
	Create(ctx context.Context, body string) (model.Todo, error)
	UpdateStatus(ctx context.Context, id int64, status model.Status) (model.Todo, error)
	Delete(ctx context.Context, id int64) error
}

const (
	defaultWidth  = 80
	defaultHeight = 24
	// rows used by everything except the list: title, tabs, header,
	// progress, blank lines, help and the panel border.
	chromeHeight = 11
	formHeight   = 4
)

type todosLoadedMsg struct {
	todos []model.Todo
	err   error
}

type mutationDoneMsg struct {
	op  string // "update", "delete" or "create"
	id  int64
	err error
}

// App is the composition root. Its only UI state is the active tab; the
// todo list is the last result of todo.getAll.
type App struct {
	ctx     context.Context
	backend Backend
	logger  *log.Logger
	keys    keyMap
	help    help.Model

	active model.Tab
	lists  []List // one per model.Tabs, all kept current

	todos []model.Todo
	err   error

	adding  bool
	form    textinput.Model
	formErr string

	width, height int
}

type Option func(*App)

func WithLogger(l *log.Logger) Option { return func(a *App) { a.logger = l } }

func New(ctx context.Context, backend Backend, opts ...Option) App {
	a := App{
		ctx:     ctx,
		backend: backend,
		logger:  logging.Discard(),
		keys:    defaultKeyMap(),
		help:    help.New(),
		active:  model.DefaultTab,
		width:   defaultWidth,
		height:  defaultHeight,
	}
	for _, o := range opts {
		o(&a)
	}
	for _, tab := range model.Tabs {
		a.lists = append(a.lists, NewList(tab, a.listWidth(), a.listHeight()))
	}

	a.form = textinput.New()
	a.form.Prompt = "> "
	a.form.Placeholder = "What needs to be done?"
	a.form.CharLimit = 200
	return a
}

// Init issues the first todo.getAll.
func (a App) Init() tea.Cmd { return a.fetchTodos() }

// ActiveTab is the selected tab.
func (a App) ActiveTab() model.Tab { return a.active }

// Todos is the cached query result.
func (a App) Todos() []model.Todo { return a.todos }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.help.Width = msg.Width
		a.resizeLists()
		return a, nil

	case todosLoadedMsg:
		if msg.err != nil {
			a.logger.Warn("fetch todos", "err", msg.err)
			a.err = fmt.Errorf("load todos: %w", msg.err)
			return a, nil
		}
		a.err = nil
		a.todos = msg.todos
		for i := range a.lists {
			a.lists[i].SetTodos(a.todos)
		}
		return a, nil

	case mutationDoneMsg:
		if msg.err != nil {
			a.logger.Warn("mutation failed", "op", msg.op, "id", msg.id, "err", msg.err)
			a.err = fmt.Errorf("%s: %w", msg.op, msg.err)
			return a, nil
		}
		a.logger.Debug("mutation done", "op", msg.op, "id", msg.id)
		if msg.op == "create" {
			a.closeForm()
		}
		return a, a.fetchTodos()

	case tea.KeyMsg:
		if a.adding {
			return a.updateForm(msg)
		}
		return a.updateBrowsing(msg)
	}

	if a.adding {
		var cmd tea.Cmd
		a.form, cmd = a.form.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		a.resizeLists()
		return a, nil
	case key.Matches(msg, a.keys.NextTab):
		a.active = a.active.Next()
		return a, nil
	case key.Matches(msg, a.keys.PrevTab):
		a.active = a.active.Prev()
		return a, nil
	case key.Matches(msg, a.keys.TabAll):
		a.active = model.TabAll
		return a, nil
	case key.Matches(msg, a.keys.TabPending):
		a.active = model.TabPending
		return a, nil
	case key.Matches(msg, a.keys.TabCompleted):
		a.active = model.TabCompleted
		return a, nil
	case key.Matches(msg, a.keys.Refresh):
		return a, a.fetchTodos()
	case key.Matches(msg, a.keys.Toggle):
		if t, ok := a.activeList().Selected(); ok {
			return a, a.toggleStatus(t.ID)
		}
		return a, nil
	case key.Matches(msg, a.keys.Delete):
		if t, ok := a.activeList().Selected(); ok {
			return a, a.deleteTodo(t.ID)
		}
		return a, nil
	case key.Matches(msg, a.keys.Add):
		a.adding = true
		a.formErr = ""
		a.form.SetValue("")
		a.form.Focus()
		a.resizeLists()
		return a, textinput.Blink
	}

	i := a.activeIndex()
	var cmd tea.Cmd
	a.lists[i], cmd = a.lists[i].Update(msg)
	return a, cmd
}

func (a App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.closeForm()
		return a, nil
	case key.Matches(msg, a.keys.Submit):
		body, err := model.NormalizeBody(a.form.Value())
		if err != nil {
			a.formErr = "Body cannot be empty"
			return a, nil
		}
		a.formErr = ""
		return a, a.createTodo(body)
	}
	var cmd tea.Cmd
	a.form, cmd = a.form.Update(msg)
	return a, cmd
}

func (a *App) closeForm() {
	a.adding = false
	a.formErr = ""
	a.form.SetValue("")
	a.form.Blur()
	a.resizeLists()
}

// fetchTodos asks for both statuses; filtering happens per list.
func (a App) fetchTodos() tea.Cmd {
	ctx, backend := a.ctx, a.backend
	return func() tea.Msg {
		todos, err := backend.GetAll(ctx, model.StatusCompleted, model.StatusPending)
		return todosLoadedMsg{todos: todos, err: err}
	}
}

// toggleStatus flips the status the cached list reports for id.
func (a App) toggleStatus(id int64) tea.Cmd {
	todo, ok := model.Find(a.todos, id)
	if !ok {
		return nil
	}
	ctx, backend := a.ctx, a.backend
	next := todo.Status.Toggled()
	return func() tea.Msg {
		_, err := backend.UpdateStatus(ctx, id, next)
		return mutationDoneMsg{op: "update", id: id, err: err}
	}
}

func (a App) deleteTodo(id int64) tea.Cmd {
	if _, ok := model.Find(a.todos, id); !ok {
		return nil
	}
	ctx, backend := a.ctx, a.backend
	return func() tea.Msg {
		return mutationDoneMsg{op: "delete", id: id, err: backend.Delete(ctx, id)}
	}
}

func (a App) createTodo(body string) tea.Cmd {
	ctx, backend := a.ctx, a.backend
	return func() tea.Msg {
		t, err := backend.Create(ctx, body)
		return mutationDoneMsg{op: "create", id: t.ID, err: err}
	}
}

func (a App) activeIndex() int {
	for i, l := range a.lists {
		if l.Tab() == a.active {
			return i
		}
	}
	return 0
}

func (a App) activeList() List { return a.lists[a.activeIndex()] }

func (a App) listWidth() int { return max(a.width-4, 10) }

func (a App) listHeight() int {
	h := a.height - chromeHeight
	if a.adding {
		h -= formHeight
	}
	if a.help.ShowAll {
		h -= 3
	}
	return max(h, 1)
}

func (a *App) resizeLists() {
	for i := range a.lists {
		a.lists[i].SetSize(a.listWidth(), a.listHeight())
	}
}

func (a App) View() string {
	t := ui.Current()
	var b strings.Builder

	b.WriteString(t.Title.Render("Todo App"))
	b.WriteString("\n\n")
	b.WriteString(a.tabBar())
	b.WriteString("\n\n")

	completed, pending := model.Stats(a.todos)
	b.WriteString(ui.Header(completed, pending))
	b.WriteString("\n")
	b.WriteString(t.Muted.Render(ui.ProgressBar(completed, completed+pending, 28)))
	b.WriteString("\n\n")

	b.WriteString(a.activeList().View())

	if a.adding {
		title := "Add new todo"
		if a.formErr != "" {
			title += " " + t.Error.Render(a.formErr)
		}
		b.WriteString("\n")
		b.WriteString(t.Border.Render(title + "\n" + a.form.View()))
	}
	if a.err != nil {
		b.WriteString("\n")
		b.WriteString(t.Error.Render("✖ " + a.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(a.help.View(a.keys))

	return t.Border.Render(b.String())
}

func (a App) tabBar() string {
	t := ui.Current()
	triggers := make([]string, 0, len(model.Tabs))
	for _, tab := range model.Tabs {
		style := t.TabInactive
		if tab == a.active {
			style = t.TabActive
		}
		triggers = append(triggers, style.Render(tab.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, triggers...)
}
