package tui

import (
	"context"
	"strconv"
	"time"

	"daylist-cli/internal/model"
	"daylist-cli/internal/session"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const requestTimeout = 15 * time.Second

// Loader fetches a date's tasks from the server.
type Loader interface {
	ListTasks(ctx context.Context, date string) ([]model.Task, error)
}

type Options struct {
	State   *session.State
	Persist *session.Persistor
	Loader  Loader
	HideLow bool
}

type submitDoneMsg struct {
	outcome model.ReorderOutcome
	err     error
}

type reloadMsg struct {
	tasks []model.Task
	since uint64
	err   error
}

type appModel struct {
	state   *session.State
	persist *session.Persistor
	loader  Loader

	keys   keyMap
	help   help.Model
	styles viewStyles

	filter    textinput.Model
	filtering bool
	hideLow   bool

	cursor int

	// While a task is held, moving is the working order of the visible rows
	// and grabStart is where the held task started.
	grabbed   string
	moving    []model.Task
	grabStart int

	preview bool

	status    string
	statusErr bool
	inflight  int

	width  int
	height int
}

func newAppModel(opts Options) appModel {
	in := textinput.New()
	in.Prompt = "/"
	in.Placeholder = "filter titles"
	in.CharLimit = 120

	return appModel{
		state:   opts.State,
		persist: opts.Persist,
		loader:  opts.Loader,
		keys:    defaultKeyMap(),
		help:    help.New(),
		styles:  newStyles(),
		filter:  in,
		hideLow: opts.HideLow,
		width:   80,
		height:  24,
	}
}

func (m appModel) Init() tea.Cmd { return nil }

// visible is what the user currently sees, in display order.
func (m appModel) visible() []model.Task {
	if m.grabbed != "" {
		return m.moving
	}
	return visibleSubset(m.state.Snapshot(), m.filter.Value(), m.hideLow)
}

func (m appModel) selected() (model.Task, bool) {
	return selectedIn(m.visible(), m.cursor)
}

func (m *appModel) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *appModel) follow(id string) {
	for i, t := range m.visible() {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

func (m *appModel) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case submitDoneMsg:
		m.inflight--
		if msg.err != nil {
			m.setStatus("Save failed: "+msg.err.Error()+" (r to reload)", true)
			return m, nil
		}
		text := msg.outcome.Message
		if text == "" {
			text = "Saved"
		}
		m.setStatus(text, !msg.outcome.Success)
		return m, nil

	case reloadMsg:
		if msg.err != nil {
			m.setStatus("Reload failed: "+msg.err.Error(), true)
			return m, nil
		}
		if m.grabbed != "" || !m.state.Reload(msg.tasks, msg.since) {
			m.setStatus("Reload skipped: local order changed meanwhile", false)
			return m, nil
		}
		m.clampCursor()
		m.setStatus("Reloaded", false)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		switch {
		case m.filtering:
			return m.updateFilter(msg)
		case m.grabbed != "":
			return m.updateGrab(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m appModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.clampCursor()
		return m, nil
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.cursor = 0
	return m, cmd
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.visible()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Grab):
		if len(rows) == 0 {
			return m, nil
		}
		m.grabbed = rows[m.cursor].ID
		m.moving = rows
		m.grabStart = m.cursor
		m.preview = false
	case key.Matches(msg, m.keys.MoveUp):
		return m.quickMove(rows, -1)
	case key.Matches(msg, m.keys.MoveDown):
		return m.quickMove(rows, 1)
	case key.Matches(msg, m.keys.Preview):
		m.preview = !m.preview
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.preview = false
		return m, m.filter.Focus()
	case key.Matches(msg, m.keys.HideLow):
		sel, _ := selectedIn(rows, m.cursor)
		m.hideLow = !m.hideLow
		m.follow(sel.ID)
	case key.Matches(msg, m.keys.Reload):
		since, ok := m.state.Settled()
		if !ok {
			m.setStatus("Reload skipped: save in progress", false)
			return m, nil
		}
		return m, m.reloadCmd(since)
	case msg.Type == tea.KeyEsc:
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.clampCursor()
		}
	}
	return m, nil
}

func selectedIn(rows []model.Task, i int) (model.Task, bool) {
	if i < 0 || i >= len(rows) {
		return model.Task{}, false
	}
	return rows[i], true
}

func (m appModel) updateGrab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		id := m.grabbed
		m.grabbed, m.moving = "", nil
		m.follow(id)
		m.setStatus("Move cancelled", false)
	case key.Matches(msg, m.keys.Up):
		m.shift(-1)
	case key.Matches(msg, m.keys.Down):
		m.shift(1)
	case key.Matches(msg, m.keys.Drop):
		return m.drop()
	}
	return m, nil
}

// shift moves the held row one step within the working order.
func (m *appModel) shift(delta int) {
	to := m.cursor + delta
	if to < 0 || to >= len(m.moving) {
		return
	}
	moved := make([]model.Task, len(m.moving))
	copy(moved, m.moving)
	moved[m.cursor], moved[to] = moved[to], moved[m.cursor]
	m.moving = moved
	m.cursor = to
}

// drop ends a gesture. An unchanged position sends nothing; otherwise the
// new visible order is merged into the state now and saved in the background.
func (m appModel) drop() (tea.Model, tea.Cmd) {
	id, order, moved := m.grabbed, m.moving, m.cursor != m.grabStart
	m.grabbed, m.moving = "", nil
	if !moved {
		m.follow(id)
		return m, nil
	}
	cmd := m.commit(order)
	m.follow(id)
	return m, cmd
}

func (m appModel) quickMove(rows []model.Task, delta int) (tea.Model, tea.Cmd) {
	to := m.cursor + delta
	if len(rows) == 0 || to < 0 || to >= len(rows) {
		return m, nil
	}
	id := rows[m.cursor].ID
	order := make([]model.Task, len(rows))
	copy(order, rows)
	order[m.cursor], order[to] = order[to], order[m.cursor]
	cmd := m.commit(order)
	m.follow(id)
	return m, cmd
}

func (m *appModel) commit(visible []model.Task) tea.Cmd {
	pending := m.persist.Stage(visible)
	m.inflight++
	m.setStatus("Saving order of "+strconv.Itoa(len(visible))+" tasks…", false)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		out, err := pending.Send(ctx)
		return submitDoneMsg{outcome: out, err: err}
	}
}

// reloadCmd fetches the date from the server. since must be a settled
// generation so the response cannot predate a local merge.
func (m appModel) reloadCmd(since uint64) tea.Cmd {
	if m.loader == nil {
		return nil
	}
	date := m.state.Date()
	loader := m.loader
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		tasks, err := loader.ListTasks(ctx, date)
		return reloadMsg{tasks: tasks, since: since, err: err}
	}
}
