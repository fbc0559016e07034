package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/daybook/internal/days"
	"github.com/five82/daybook/internal/debounce"
	"github.com/five82/daybook/internal/editor"
	"github.com/five82/daybook/internal/notes"
	"github.com/five82/daybook/internal/prefs"
)

// focus is the pane receiving keystrokes.
type focus int

const (
	focusSidebar focus = iota
	focusEditor
)

// Options configures the UI.
type Options struct {
	Context     context.Context
	Loader      notes.Loader
	Cache       *notes.Cache
	Syncer      *notes.Synchronizer
	Editor      *editor.Editor
	Logger      *slog.Logger
	WindowDays  int
	LoadTimeout time.Duration
	Tick        time.Duration
	Now         func() time.Time
	Prefs       prefs.Prefs
	PrefsPath   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Collaborators
	ctx    context.Context
	loader notes.Loader
	cache  *notes.Cache
	syncer *notes.Synchronizer
	editor *editor.Editor
	logger *slog.Logger

	// Configuration
	windowDays  int
	loadTimeout time.Duration
	tick        time.Duration
	now         func() time.Time
	prefs       prefs.Prefs
	prefsPath   string

	// UI state
	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool
	focus  focus

	// Day window
	window    []days.Day
	cursor    int
	hydrating bool

	// Widgets
	textarea textarea.Model
	spinner  spinner.Model

	showHelp bool
	quitting bool
	notice   string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultUIInterval
	}

	loadTimeout := opts.LoadTimeout
	if loadTimeout <= 0 {
		loadTimeout = DefaultLoadTimeout
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	theme := GetTheme(opts.Prefs.Theme)

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Prompt = ""
	ta.Placeholder = "Write about your day..."
	ta.FocusedStyle = textarea.Style{
		Base:        lipgloss.NewStyle(),
		CursorLine:  lipgloss.NewStyle(),
		EndOfBuffer: theme.Styles().FaintText,
		Placeholder: theme.Styles().MutedText,
		Prompt:      lipgloss.NewStyle(),
		Text:        theme.Styles().Text,
	}
	ta.BlurredStyle = ta.FocusedStyle
	ta.Blur()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))

	return Model{
		ctx:         ctx,
		loader:      opts.Loader,
		cache:       opts.Cache,
		syncer:      opts.Syncer,
		editor:      opts.Editor,
		logger:      logger,
		windowDays:  opts.WindowDays,
		loadTimeout: loadTimeout,
		tick:        tick,
		now:         now,
		prefs:       opts.Prefs,
		prefsPath:   prefsPath,
		theme:       theme,
		keys:        DefaultKeyMap(),
		window:      days.Window(now(), opts.WindowDays),
		hydrating:   true,
		textarea:    ta,
		spinner:     sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.tick),
		hydrateCmd(m.ctx, m.cache, m.loader, days.IDs(m.window), m.loadTimeout),
		m.spinner.Tick,
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tickMsg:
		return m.handleTick(m.now())

	case hydratedMsg:
		return m.handleHydrated(msg)

	case debounceMsg:
		return m, m.apply(m.editor.Fire(msg.token))

	case retryMsg:
		return m, m.apply(m.editor.RetryBackground(msg.day, msg.seq))

	case writeResultMsg:
		cmd := m.apply(m.editor.Resolve(notes.Result(msg)))
		if m.quitting && !m.editor.Pending() {
			return m, tea.Quit
		}
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blink and other widget messages.
	if m.focus == focusEditor {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := maxInt(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 3)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderSidebar(bodyHeight),
		m.renderEditor(bodyHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m.requestQuit()

	case key.Matches(msg, m.keys.Save):
		return m, m.apply(m.editor.Flush())

	case key.Matches(msg, m.keys.Tab):
		if m.focus == focusEditor {
			m.blurEditor()
			return m, nil
		}
		if !m.editor.State().Selected {
			return m, nil
		}
		return m, m.focusEditor()
	}

	if m.focus == focusEditor {
		return m.handleEditorKey(msg)
	}
	return m.handleSidebarKey(msg)
}

// handleEditorKey forwards text input to the textarea and the edit session.
func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) {
		m.blurEditor()
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	fx := m.editor.UpdateContent(m.textarea.Value())
	if !fx.Empty() {
		m.notice = ""
	}
	return m, tea.Batch(cmd, m.apply(fx))
}

// handleSidebarKey processes navigation in the day list.
func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.requestQuit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleStats):
		m.prefs.HideStats = !m.prefs.HideStats
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		if m.hydrating {
			return m, nil
		}
		return m, m.startHydrate()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.window)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(m.window) - 1

	case key.Matches(msg, m.keys.Open):
		return m.openDay(m.cursor, true)
	}

	return m, nil
}

// openDay makes the day at idx the active session.
func (m Model) openDay(idx int, focus bool) (tea.Model, tea.Cmd) {
	if idx < 0 || idx >= len(m.window) {
		return m, nil
	}
	d := m.window[idx]
	fx, err := m.editor.SelectDay(d.ID)
	if errors.Is(err, editor.ErrNotHydrated) {
		m.notice = fmt.Sprintf("%s has not been loaded yet", d.Label)
		m.logger.Debug("day selection refused", slog.String("day", d.ID.String()))
		return m, nil
	}

	m.cursor = idx
	m.notice = ""
	m.textarea.SetValue(m.editor.State().Content)

	cmds := []tea.Cmd{m.apply(fx)}
	if focus {
		cmds = append(cmds, m.focusEditor())
	}
	return m, tea.Batch(cmds...)
}

// requestQuit writes any unsaved edits and quits once storage has them.
// A second request quits immediately.
func (m Model) requestQuit() (tea.Model, tea.Cmd) {
	if m.quitting {
		m.logger.Warn("quitting with unsaved notes",
			slog.Any("unsynced", m.editor.State().Unsynced))
		return m, tea.Quit
	}
	m.quitting = true
	fx := m.editor.Flush()
	if !m.editor.Pending() {
		return m, tea.Quit
	}
	m.notice = "Saving before exit (ctrl+c again to quit now)"
	return m, m.apply(fx)
}

// handleTick re-evaluates the day window and retries failed hydrations.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.tick)}

	window := days.Window(now, m.windowDays)
	switch {
	case !days.SameIDs(window, m.window):
		highlighted := m.window[m.cursor].ID
		m.window = window
		m.cursor = maxInt(days.Index(window, highlighted), 0)
		m.logger.Info("day window advanced", slog.String("today", window[0].ID.String()))
		cmds = append(cmds, m.startHydrate())
	case m.hydrationDue(now):
		cmds = append(cmds, m.startHydrate())
	}

	return m, tea.Batch(cmds...)
}

// hydrationDue reports whether a failed hydration should be retried.
func (m Model) hydrationDue(now time.Time) bool {
	if m.hydrating {
		return false
	}
	st := m.cache.Status()
	if st.LastError == nil {
		return false
	}
	wait := debounce.Backoff(st.ConsecutiveFailures-1, hydrationRetryBase)
	return now.Sub(st.LastAttempt) >= wait
}

func (m Model) handleHydrated(msg hydratedMsg) (tea.Model, tea.Cmd) {
	m.hydrating = false
	if msg.err != nil {
		m.logger.Warn("note hydration failed",
			slog.Int("days", len(msg.ids)),
			slog.String("error", msg.err.Error()))
		return m, nil
	}
	m.logger.Debug("notes hydrated", slog.Int("days", len(msg.ids)), slog.Int("cached", m.cache.Len()))

	if !m.editor.State().Selected {
		return m.openDay(m.cursor, true)
	}
	return m, nil
}

func (m *Model) startHydrate() tea.Cmd {
	m.hydrating = true
	return hydrateCmd(m.ctx, m.cache, m.loader, days.IDs(m.window), m.loadTimeout)
}

func (m *Model) focusEditor() tea.Cmd {
	m.focus = focusEditor
	return m.textarea.Focus()
}

func (m *Model) blurEditor() {
	m.focus = focusSidebar
	m.textarea.Blur()
}

func (m *Model) resize() {
	w, h := m.editorInnerSize(m.height - 2)
	m.textarea.SetWidth(w)
	m.textarea.SetHeight(h)
}

func (m *Model) savePrefs() {
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs failed", slog.String("error", err.Error()))
	}
}

// apply turns editor effects into commands.
func (m Model) apply(fx editor.Effects) tea.Cmd {
	if fx.Empty() {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(fx.Writes)+len(fx.Retries)+1)
	for _, w := range fx.Writes {
		cmds = append(cmds, flushCmd(m.ctx, m.syncer, w))
	}
	if fx.Alarm != nil {
		cmds = append(cmds, alarmCmd(*fx.Alarm))
	}
	for _, r := range fx.Retries {
		cmds = append(cmds, retryCmd(r))
	}
	return tea.Batch(cmds...)
}

// Messages

type tickMsg time.Time

type hydratedMsg struct {
	ids []days.ID
	err error
}

type debounceMsg struct {
	token debounce.Token
}

type retryMsg struct {
	day days.ID
	seq uint64
}

type writeResultMsg notes.Result

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func hydrateCmd(ctx context.Context, cache *notes.Cache, loader notes.Loader, ids []days.ID, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return hydratedMsg{ids: ids, err: cache.Hydrate(ctx, loader, ids)}
	}
}

func flushCmd(ctx context.Context, syncer *notes.Synchronizer, w notes.Write) tea.Cmd {
	return func() tea.Msg {
		return writeResultMsg(syncer.Flush(ctx, w))
	}
}

func alarmCmd(a editor.Alarm) tea.Cmd {
	return tea.Tick(a.After, func(time.Time) tea.Msg {
		return debounceMsg{token: a.Token}
	})
}

func retryCmd(r editor.Retry) tea.Cmd {
	return tea.Tick(r.After, func(time.Time) tea.Msg {
		return retryMsg{day: r.Day, seq: r.Seq}
	})
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
