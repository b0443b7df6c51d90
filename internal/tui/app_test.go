package tui

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
)

// fakeBackend is an in-memory server that records the calls it receives.
type fakeBackend struct {
	mu      sync.Mutex
	todos   []model.Todo
	nextID  int64
	calls   []string
	fetches int
	failOn  string // procedure name that should fail
}

func newFakeBackend(todos ...model.Todo) *fakeBackend {
	f := &fakeBackend{todos: todos, nextID: 1}
	for _, t := range todos {
		if t.ID >= f.nextID {
			f.nextID = t.ID + 1
		}
	}
	return f
}

func (f *fakeBackend) GetAll(ctx context.Context, statuses ...model.Status) ([]model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.failOn == "getAll" {
		return nil, errors.New("connection refused")
	}
	return append([]model.Todo(nil), f.todos...), nil
}

func (f *fakeBackend) Create(ctx context.Context, body string) (model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create "+body)
	if f.failOn == "create" {
		return model.Todo{}, errors.New("boom")
	}
	t := model.Todo{ID: f.nextID, Body: body, Status: model.StatusPending}
	f.nextID++
	f.todos = append(f.todos, t)
	return t, nil
}

func (f *fakeBackend) UpdateStatus(ctx context.Context, id int64, status model.Status) (model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "update "+strconv.FormatInt(id, 10)+" "+string(status))
	if f.failOn == "update" {
		return model.Todo{}, errors.New("boom")
	}
	for i := range f.todos {
		if f.todos[i].ID == id {
			f.todos[i].Status = status
			return f.todos[i], nil
		}
	}
	return model.Todo{}, model.ErrNotFound
}

func (f *fakeBackend) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete "+strconv.FormatInt(id, 10))
	if f.failOn == "delete" {
		return errors.New("boom")
	}
	for i := range f.todos {
		if f.todos[i].ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return model.ErrNotFound
}

func scenarioTodos() []model.Todo {
	return []model.Todo{
		{ID: 1, Body: "buy milk", Status: model.StatusPending},
		{ID: 2, Body: "pay rent", Status: model.StatusCompleted},
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// settle runs cmd and feeds its result back while it is one of the app's own
// messages, i.e. until the mutation and the refetch that follows it are done.
func settle(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		switch msg.(type) {
		case todosLoadedMsg, mutationDoneMsg:
		default:
			return a
		}
		var m tea.Model
		m, cmd = a.Update(msg)
		a = m.(App)
	}
	return a
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		m, cmd := a.Update(keyMsg(k))
		a = m.(App)
		if a.adding && k != "enter" {
			// keystrokes in the form only produce cursor blinks
			continue
		}
		a = settle(t, a, cmd)
	}
	return a
}

func start(t *testing.T, backend Backend) App {
	t.Helper()
	a := New(context.Background(), backend)
	return settle(t, a, a.Init())
}

func activeRows(a App) []row { return a.activeList().rows() }

func ids(rows []row) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func TestScenario_TabsFilterRows(t *testing.T) {
	a := start(t, newFakeBackend(scenarioTodos()...))
	require.Equal(t, model.TabAll, a.ActiveTab())

	rows := activeRows(a)
	require.Len(t, rows, 2)
	assert.Equal(t, row{ID: 1, Label: "buy milk", Checked: false, Struck: false}, rows[0])
	assert.Equal(t, row{ID: 2, Label: "pay rent", Checked: true, Struck: true}, rows[1])

	a = press(t, a, "2")
	assert.Equal(t, model.TabPending, a.ActiveTab())
	assert.Equal(t, []int64{1}, ids(activeRows(a)))

	a = press(t, a, "3")
	assert.Equal(t, model.TabCompleted, a.ActiveTab())
	assert.Equal(t, []int64{2}, ids(activeRows(a)))

	view := a.View()
	assert.Contains(t, view, "pay rent")
	assert.NotContains(t, view, "buy milk")
}

func TestEveryListIsFilterOfQueryResult(t *testing.T) {
	todos := []model.Todo{
		{ID: 1, Body: "a", Status: model.StatusCompleted},
		{ID: 2, Body: "b", Status: model.StatusPending},
		{ID: 3, Body: "c", Status: model.StatusCompleted},
		{ID: 4, Body: "d", Status: model.StatusPending},
	}
	a := start(t, newFakeBackend(todos...))

	require.Len(t, a.lists, len(model.Tabs))
	for _, l := range a.lists {
		var want []row
		for _, todo := range model.Filter(todos, l.Tab()) {
			want = append(want, rowFor(todo))
		}
		assert.Equal(t, want, l.rows(), "tab %s", l.Tab())
	}
}

func TestScenario_ToggleRefetches(t *testing.T) {
	backend := newFakeBackend(scenarioTodos()...)
	a := start(t, backend)
	fetchesBefore := backend.fetches

	a = press(t, a, " ")

	assert.Equal(t, []string{"update 1 completed"}, backend.calls)
	assert.Equal(t, fetchesBefore+1, backend.fetches, "success triggers one refetch")
	rows := activeRows(a)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Checked)
	assert.True(t, rows[0].Struck)

	// and back again
	a = press(t, a, "x")
	assert.Equal(t, "update 1 pending", backend.calls[1])
	assert.False(t, activeRows(a)[0].Checked)
}

func TestToggleUsesSelectedRowOfActiveTab(t *testing.T) {
	backend := newFakeBackend(scenarioTodos()...)
	a := start(t, backend)

	a = press(t, a, "3", " ")
	assert.Equal(t, []string{"update 2 pending"}, backend.calls)
	assert.Equal(t, model.TabCompleted, a.ActiveTab())
	assert.Empty(t, activeRows(a))
	assert.Contains(t, a.View(), model.EmptyPlaceholder)

	a = press(t, a, "1", "down", " ")
	assert.Equal(t, "update 2 completed", backend.calls[1])
}

func TestDeleteRemovesFromEveryTab(t *testing.T) {
	backend := newFakeBackend(scenarioTodos()...)
	a := start(t, backend)

	a = press(t, a, "down", "d")
	assert.Equal(t, []string{"delete 2"}, backend.calls)
	for _, l := range a.lists {
		for _, r := range l.rows() {
			assert.NotEqual(t, int64(2), r.ID, "tab %s", l.Tab())
		}
	}
	assert.Equal(t, []int64{1}, ids(activeRows(a)))
}

func TestEmptyPlaceholder(t *testing.T) {
	a := start(t, newFakeBackend())
	for _, tab := range []string{"1", "2", "3"} {
		a = press(t, a, tab)
		assert.Empty(t, activeRows(a))
		assert.Contains(t, a.View(), model.EmptyPlaceholder)
	}

	// derived view empty while the full list is not
	a = start(t, newFakeBackend(model.Todo{ID: 7, Body: "walk dog", Status: model.StatusPending}))
	a = press(t, a, "3")
	assert.Contains(t, a.View(), model.EmptyPlaceholder)
	assert.NotContains(t, a.View(), "walk dog")

	a = press(t, a, "2")
	assert.NotContains(t, a.View(), model.EmptyPlaceholder)
	assert.Contains(t, a.View(), "walk dog")
}

func TestToggleAndDeleteOnEmptyListDoNothing(t *testing.T) {
	backend := newFakeBackend()
	a := start(t, backend)
	a = press(t, a, " ", "d")
	assert.Empty(t, backend.calls)
	assert.Nil(t, a.err)
}

func TestTabCycling(t *testing.T) {
	a := start(t, newFakeBackend())
	a = press(t, a, "tab")
	assert.Equal(t, model.TabPending, a.ActiveTab())
	a = press(t, a, "tab", "tab")
	assert.Equal(t, model.TabAll, a.ActiveTab())
	a = press(t, a, "shift+tab")
	assert.Equal(t, model.TabCompleted, a.ActiveTab())
}

func TestCreateForm(t *testing.T) {
	backend := newFakeBackend(scenarioTodos()...)
	a := start(t, backend)

	a = press(t, a, "a")
	require.True(t, a.adding)
	assert.Contains(t, a.View(), "Add new todo")

	// empty body is rejected locally
	a = press(t, a, "enter")
	assert.Empty(t, backend.calls)
	assert.Contains(t, a.View(), "Body cannot be empty")

	a = press(t, a, "c", "a", "l", "l", " ", "m", "o", "m", "enter")
	assert.Equal(t, []string{"create call mom"}, backend.calls)
	assert.False(t, a.adding)
	assert.Equal(t, "", a.form.Value())
	assert.Equal(t, []int64{1, 2, 3}, ids(activeRows(a)))

	a = press(t, a, "a", "x", "esc")
	assert.False(t, a.adding)
	assert.Len(t, backend.calls, 1)
}

func TestMutationErrorIsShownAndSkipsRefetch(t *testing.T) {
	backend := newFakeBackend(scenarioTodos()...)
	a := start(t, backend)
	backend.failOn = "update"
	fetchesBefore := backend.fetches

	a = press(t, a, " ")
	assert.Equal(t, fetchesBefore, backend.fetches)
	require.Error(t, a.err)
	assert.Contains(t, a.View(), "update: boom")
	assert.False(t, activeRows(a)[0].Checked)

	// the next successful fetch clears the error
	backend.failOn = ""
	a = press(t, a, "r")
	assert.NoError(t, a.err)
}

func TestFetchErrorKeepsPreviousData(t *testing.T) {
	backend := newFakeBackend(scenarioTodos()...)
	a := start(t, backend)
	backend.failOn = "getAll"

	a = press(t, a, "r")
	assert.Len(t, a.Todos(), 2)
	assert.Contains(t, a.View(), "connection refused")
}

func TestLastFetchWins(t *testing.T) {
	a := New(context.Background(), newFakeBackend())
	older := []model.Todo{{ID: 1, Body: "old", Status: model.StatusPending}}
	newer := []model.Todo{{ID: 1, Body: "old", Status: model.StatusCompleted}}

	m, _ := a.Update(todosLoadedMsg{todos: newer})
	m, _ = m.Update(todosLoadedMsg{todos: older})
	a = m.(App)
	assert.Equal(t, older, a.Todos())
	assert.False(t, activeRows(a)[0].Checked)
}

func TestQuitAndResize(t *testing.T) {
	a := start(t, newFakeBackend(scenarioTodos()...))
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	a = m.(App)
	assert.Equal(t, 120, a.width)

	_, cmd := a.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
