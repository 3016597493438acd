package tui

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/pdxmph/family-contacts/internal/dialer"
	"github.com/pdxmph/family-contacts/internal/seed"
	"github.com/pdxmph/family-contacts/internal/storage"
)

// SeedLoader fetches the static list; seed.Load in production
type SeedLoader func(ctx context.Context, source string) ([]seed.Entry, error)

// seedLoadedMsg carries the one-time fetch result
type seedLoadedMsg struct {
	entries []seed.Entry
	err     error
}

// LegacyOptions wires the seed-list model
type LegacyOptions struct {
	Source  string
	Loader  SeedLoader
	Prefs   storage.Store
	Dialer  dialer.Dialer
	Logger  *zap.Logger
	Timeout time.Duration

	DetectDark func() bool
}

// LegacyModel shows a fetched {name, phone} list where calling is the only
// way to mark a number called
type LegacyModel struct {
	source  string
	loader  SeedLoader
	timeout time.Duration
	tracker *seed.Tracker
	dialer  dialer.Dialer
	logger  *zap.Logger

	entries  []seed.Entry
	loading  bool
	loadErr  error
	selected int
	width    int
	height   int

	styles  styles
	message string
	isError bool
}

// NewLegacy creates the seed-list model. Nothing is fetched until Init.
func NewLegacy(opts LegacyOptions) LegacyModel {
	loader := opts.Loader
	if loader == nil {
		loader = func(ctx context.Context, source string) ([]seed.Entry, error) {
			return seed.Load(ctx, source, nil)
		}
	}
	d := opts.Dialer
	if d == nil {
		d = dialer.NewNoop()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	kv := opts.Prefs
	if kv == nil {
		kv = storage.NewMemory()
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return LegacyModel{
		source:  opts.Source,
		loader:  loader,
		timeout: timeout,
		tracker: seed.NewTracker(kv),
		dialer:  d,
		logger:  logger,
		loading: true,
		styles:  newStyles(loadTheme(kv, opts.DetectDark)),
	}
}

// Init fetches the list once
func (m LegacyModel) Init() tea.Cmd {
	loader, source, timeout := m.loader, m.source, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		entries, err := loader(ctx, source)
		return seedLoadedMsg{entries: entries, err: err}
	}
}

// Update handles messages
func (m LegacyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case seedLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.logger.Error("loading seed list", zap.String("source", m.source), zap.Error(msg.err))
			m.loadErr = msg.err
			return m, nil
		}
		m.entries = msg.entries
		return m, nil

	case dialedMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("Could not call %s: %v", msg.name, msg.err)
			m.isError = true
		}
		return m, nil

	case tea.KeyMsg:
		m.message = ""
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "j", "down":
			if m.selected < len(m.entries)-1 {
				m.selected++
			}
		case "k", "up":
			if m.selected > 0 {
				m.selected--
			}
		case "c", "enter":
			return m.call()
		}
	}

	return m, nil
}

func (m LegacyModel) call() (tea.Model, tea.Cmd) {
	if m.selected >= len(m.entries) {
		return m, nil
	}
	e := m.entries[m.selected]
	if strings.TrimSpace(e.Phone) == "" {
		m.message = "No phone number is set for this contact."
		m.isError = true
		return m, nil
	}
	if err := m.tracker.MarkCalled(e.Phone); err != nil {
		m.logger.Warn("saving called state", zap.Error(err))
		m.message = err.Error()
		m.isError = true
	}
	return m, dialCmd(m.dialer, e.Name, e.Phone)
}

// IsCalled reports whether the entry at index i shows as called
func (m LegacyModel) IsCalled(i int) bool {
	return i < len(m.entries) && m.tracker.IsCalled(m.entries[i].Phone)
}

// Entries returns the loaded seed list
func (m LegacyModel) Entries() []seed.Entry {
	return m.entries
}

// Err returns the fetch failure, if any
func (m LegacyModel) Err() error {
	return m.loadErr
}

// View renders the UI
func (m LegacyModel) View() string {
	if m.loading {
		return "Loading..."
	}

	var lines []string
	lines = append(lines, m.styles.header.Render("Family Contacts"), "")

	if m.loadErr != nil {
		lines = append(lines, m.styles.errMessage.Render("Unable to load contacts. Please try again later."))
		lines = append(lines, m.styles.muted.Render(m.loadErr.Error()))
		lines = append(lines, "", m.styles.muted.Render(" q: quit"))
		return strings.Join(lines, "\n")
	}

	for i, e := range m.entries {
		badge := m.styles.notCalled.Render("✗ Not Called")
		if m.tracker.IsCalled(e.Phone) {
			badge = m.styles.called.Render("✓ Called")
		}
		row := fmt.Sprintf("%s %s  %s  %s",
			m.styles.avatar.Render(initialOf(e.Name)),
			m.styles.name.Render(e.Name),
			e.Phone,
			badge)

		style := m.styles.card
		if i == m.selected {
			style = m.styles.selectedCard
		}
		lines = append(lines, style.Render(row))
	}

	if m.message != "" {
		msgStyle := m.styles.message
		if m.isError {
			msgStyle = m.styles.errMessage
		}
		lines = append(lines, " "+msgStyle.Render(m.message))
	}
	lines = append(lines, m.styles.muted.Render(" j/k: navigate • c/Enter: call • q: quit"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func initialOf(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return "?"
	}
	return strings.ToUpper(string(r))
}
