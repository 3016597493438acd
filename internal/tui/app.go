package tui

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/pdxmph/family-contacts/internal/contact"
	"github.com/pdxmph/family-contacts/internal/dialer"
	"github.com/pdxmph/family-contacts/internal/storage"
	"github.com/pdxmph/family-contacts/internal/view"
)

// Add form field indices
const (
	AddFieldName = iota
	AddFieldRelation
	AddFieldPhone
	AddFieldAltPhone
	AddFieldCount // Total number of fields
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmReset
)

// Options wires the model to its collaborators
type Options struct {
	Store  *contact.Store
	Prefs  storage.Store // theme preference, may be nil
	Dialer dialer.Dialer
	Locale view.Locale
	Params view.Params

	// ExportDir is where backups are written and the default import location
	ExportDir string
	Logger    *zap.Logger

	// DetectDark reports the terminal background when no theme is stored.
	// Defaults to lipgloss.HasDarkBackground.
	DetectDark func() bool
}

// Model represents the main application state
type Model struct {
	store     *contact.Store
	prefs     storage.Store
	dialer    dialer.Dialer
	presenter *view.Presenter
	locale    view.Locale
	exportDir string
	logger    *zap.Logger

	contacts []contact.Contact
	page     view.Page
	params   view.Params
	selected int
	width    int
	height   int

	// Search mode
	searchMode bool
	search     textinput.Model

	// Add mode
	addMode   bool
	addField  int
	addInputs []textinput.Model

	// Delete and reset confirmation
	confirm   confirmKind
	confirmID string

	// Import path prompt
	importMode  bool
	importInput textinput.Model

	theme  Theme
	styles styles

	message  string
	errorMsg bool
}

// New creates a new application model
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	d := opts.Dialer
	if d == nil {
		d = dialer.NewNoop()
	}
	params := opts.Params
	if params.Filter == "" {
		params.Filter = view.FilterAll
	}
	if params.Sort == "" {
		params.Sort = view.SortNameAsc
	}
	locale := opts.Locale
	if locale.Title == "" {
		locale = view.English
	}

	search := textinput.New()
	search.Placeholder = "Search name, relation or phone..."
	search.Width = 40
	search.CharLimit = 80
	search.Prompt = "/ "
	search.SetValue(params.Search)

	addInputs := make([]textinput.Model, AddFieldCount)
	for i := range addInputs {
		addInputs[i] = textinput.New()
		addInputs[i].Width = 36
		addInputs[i].CharLimit = 100

		switch i {
		case AddFieldName:
			addInputs[i].Placeholder = "Name"
		case AddFieldRelation:
			addInputs[i].Placeholder = "Relation (e.g. Father)"
		case AddFieldPhone:
			addInputs[i].Placeholder = "Phone"
		case AddFieldAltPhone:
			addInputs[i].Placeholder = "Alternate phone (optional)"
		}
	}

	importInput := textinput.New()
	importInput.Width = 50
	importInput.CharLimit = 500
	importInput.Prompt = "> "

	theme := loadTheme(opts.Prefs, opts.DetectDark)

	m := Model{
		store:       opts.Store,
		prefs:       opts.Prefs,
		dialer:      d,
		presenter:   view.NewPresenter(locale),
		locale:      locale,
		exportDir:   opts.ExportDir,
		logger:      logger,
		params:      params,
		search:      search,
		addInputs:   addInputs,
		importInput: importInput,
		theme:       theme,
		styles:      newStyles(theme),
	}
	m.refresh()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dialedMsg:
		if msg.err != nil {
			m.logger.Warn("dial failed", zap.String("number", msg.number), zap.Error(msg.err))
			m.setError(fmt.Sprintf("Could not call %s: %v", msg.name, msg.err))
			return m, nil
		}
		m.setMessage(fmt.Sprintf("Calling %s (%s)", msg.name, dialer.URI(msg.number)))
		return m, nil

	case importReadMsg:
		return m.finishImport(msg), nil

	case tea.KeyMsg:
		if m.confirm != confirmNone {
			return m.updateConfirm(msg), nil
		}
		if m.addMode {
			return m.updateAdd(msg)
		}
		if m.importMode {
			return m.updateImport(msg)
		}
		if m.searchMode {
			return m.updateSearch(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "j", "down":
		if m.selected < len(m.page.Cards)-1 {
			m.selected++
		}

	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}

	case "g", "home":
		m.selected = 0

	case "G", "end":
		m.selected = m.ensureValidSelection(len(m.page.Cards) - 1)

	case "/":
		m.searchMode = true
		cmd := m.search.Focus()
		return m, cmd

	case "esc":
		if m.params.Search != "" {
			m.search.SetValue("")
			m.params.Search = ""
			m.refresh()
		}

	case "f":
		m.params.Filter = m.params.Filter.Next()
		m.refresh()

	case "o":
		m.params.Sort = m.params.Sort.Next()
		m.refresh()

	case "c", "enter":
		return m.call()

	case " ", "x":
		if card, ok := m.current(); ok {
			if err := m.store.ToggleStatus(card.ID); err != nil {
				m.setError(err.Error())
			}
			m.refresh()
		}

	case "d":
		if card, ok := m.current(); ok {
			m.confirm = confirmDelete
			m.confirmID = card.ID
		}

	case "R":
		m.confirm = confirmReset

	case "a":
		m.addMode = true
		m.addField = AddFieldName
		for i := range m.addInputs {
			m.addInputs[i].Reset()
			m.addInputs[i].Blur()
		}
		cmd := m.addInputs[AddFieldName].Focus()
		return m, cmd

	case "e":
		m.export()

	case "i":
		m.importMode = true
		m.importInput.SetValue(filepath.Join(m.exportDir, contact.ExportFileName))
		m.importInput.CursorEnd()
		cmd := m.importInput.Focus()
		return m, cmd

	case "t":
		m.toggleTheme()
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchMode = false
		m.search.Blur()
		m.search.SetValue("")
		m.params.Search = ""
		m.refresh()
		return m, nil

	case "enter":
		m.searchMode = false
		m.search.Blur()
		return m, nil

	case "up", "down":
		if msg.String() == "down" && m.selected < len(m.page.Cards)-1 {
			m.selected++
		}
		if msg.String() == "up" && m.selected > 0 {
			m.selected--
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.params.Search {
		m.params.Search = m.search.Value()
		m.selected = 0
		m.refresh()
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) Model {
	kind, id := m.confirm, m.confirmID
	m.confirm = confirmNone
	m.confirmID = ""

	switch msg.String() {
	case "y", "Y":
	default:
		// Any other key cancels
		return m
	}

	var err error
	switch kind {
	case confirmDelete:
		err = m.store.Delete(id)
	case confirmReset:
		err = m.store.ResetAll()
	}
	if err != nil {
		m.setError(err.Error())
	}
	m.refresh()
	return m
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.addMode = false
		m.message = ""
		for i := range m.addInputs {
			m.addInputs[i].Blur()
		}
		return m, nil

	case "enter":
		return m.submitAdd()

	case "tab", "down":
		m.addInputs[m.addField].Blur()
		m.addField = (m.addField + 1) % AddFieldCount
		cmd := m.addInputs[m.addField].Focus()
		return m, cmd

	case "shift+tab", "up":
		m.addInputs[m.addField].Blur()
		m.addField = (m.addField + AddFieldCount - 1) % AddFieldCount
		cmd := m.addInputs[m.addField].Focus()
		return m, cmd
	}

	var cmd tea.Cmd
	m.addInputs[m.addField], cmd = m.addInputs[m.addField].Update(msg)
	return m, cmd
}

func (m Model) submitAdd() (tea.Model, tea.Cmd) {
	draft := contact.Draft{
		Name:     m.addInputs[AddFieldName].Value(),
		Relation: m.addInputs[AddFieldRelation].Value(),
		Phones: []string{
			m.addInputs[AddFieldPhone].Value(),
			m.addInputs[AddFieldAltPhone].Value(),
		},
	}

	added, err := m.store.Add(draft)
	if errors.Is(err, contact.ErrInvalidContact) {
		m.setError(m.locale.AddRequired)
		return m, nil
	}
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}

	m.addMode = false
	m.message = ""
	for i := range m.addInputs {
		m.addInputs[i].Blur()
		m.addInputs[i].Reset()
	}
	m.refresh()
	m.selectID(added.ID)
	return m, nil
}

func (m Model) updateImport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.importMode = false
		m.importInput.Blur()
		return m, nil

	case "enter":
		path := strings.TrimSpace(m.importInput.Value())
		m.importMode = false
		m.importInput.Blur()
		if path == "" {
			return m, nil
		}
		return m, readFileCmd(path)
	}

	var cmd tea.Cmd
	m.importInput, cmd = m.importInput.Update(msg)
	return m, cmd
}

func (m Model) finishImport(msg importReadMsg) Model {
	if msg.err != nil {
		m.logger.Warn("reading import file", zap.String("path", msg.path), zap.Error(msg.err))
		m.setError(m.locale.ImportFailed)
		return m
	}
	if err := m.store.Import(bytes.NewReader(msg.data)); err != nil {
		m.logger.Warn("import rejected", zap.String("path", msg.path), zap.Error(err))
		m.setError(m.locale.ImportFailed)
		return m
	}
	m.selected = 0
	m.refresh()
	m.setMessage(m.locale.ImportDone)
	return m
}

// call marks the selected contact called and opens its primary number
func (m Model) call() (tea.Model, tea.Cmd) {
	card, ok := m.current()
	if !ok {
		return m, nil
	}
	called, err := m.store.Call(card.ID)
	if errors.Is(err, contact.ErrNoPrimaryPhone) {
		m.setError(m.locale.NoPhone)
		return m, nil
	}
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}
	m.refresh()
	m.selectID(called.ID)
	return m, dialCmd(m.dialer, called.Name, called.PrimaryPhone())
}

func (m *Model) export() {
	path := filepath.Join(m.exportDir, contact.ExportFileName)
	if err := m.store.ExportFile(path); err != nil {
		m.logger.Warn("export failed", zap.String("path", path), zap.Error(err))
		m.setError(fmt.Sprintf("Export failed: %v", err))
		return
	}
	m.setMessage(fmt.Sprintf("%s %s", m.locale.ExportDone, path))
}

func (m *Model) toggleTheme() {
	m.theme = m.theme.Toggle()
	m.styles = newStyles(m.theme)

	label := m.locale.DarkMode
	if m.theme == ThemeLight {
		label = m.locale.LightMode
	}
	m.setMessage(label)

	if m.prefs == nil {
		return
	}
	if err := m.prefs.Set(ThemeKey, string(m.theme)); err != nil {
		m.logger.Warn("saving theme preference", zap.Error(err))
	}
}

// refresh re-reads the store and rebuilds the visible page
func (m *Model) refresh() {
	m.contacts = m.store.Contacts()
	m.page = m.presenter.Page(m.contacts, m.params)
	m.selected = m.ensureValidSelection(m.selected)
}

func (m Model) ensureValidSelection(i int) int {
	if len(m.page.Cards) == 0 {
		return 0
	}
	if i >= len(m.page.Cards) {
		return len(m.page.Cards) - 1
	}
	if i < 0 {
		return 0
	}
	return i
}

func (m *Model) selectID(id string) {
	for i, card := range m.page.Cards {
		if card.ID == id {
			m.selected = i
			return
		}
	}
}

func (m Model) current() (view.Card, bool) {
	if len(m.page.Cards) == 0 || m.selected >= len(m.page.Cards) {
		return view.Card{}, false
	}
	return m.page.Cards[m.selected], true
}

func (m *Model) setMessage(s string) {
	m.message = s
	m.errorMsg = false
}

func (m *Model) setError(s string) {
	m.message = s
	m.errorMsg = true
}

// Theme returns the active colour scheme
func (m Model) Theme() Theme {
	return m.theme
}

// Params returns the current search, filter and sort
func (m Model) Params() view.Params {
	return m.params
}

// Cards returns the cards currently on screen, in order
func (m Model) Cards() []view.Card {
	return m.page.Cards
}

// Message returns the status line text and whether it is an error
func (m Model) Message() (string, bool) {
	return m.message, m.errorMsg
}

// centered places box in the middle of the screen
func (m Model) centered(box string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(box)
}
