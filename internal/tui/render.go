package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdxmph/family-contacts/internal/view"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Overlays replace the list while active
	switch {
	case m.confirm != confirmNone:
		return m.renderConfirm()
	case m.addMode:
		return m.renderAddForm()
	case m.importMode:
		return m.renderImportPrompt()
	}

	header := m.renderHeader()
	footer := lipgloss.JoinVertical(lipgloss.Left, m.renderMessage(), m.renderHelp())

	height := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	list := m.renderCards(height)

	return lipgloss.JoinVertical(lipgloss.Left, header, list, footer)
}

func (m Model) renderHeader() string {
	counts := m.page.Counts
	title := m.styles.header.Render(m.locale.Title)
	tally := m.styles.muted.Render(fmt.Sprintf("%s %d • %s %d • %s %d",
		m.locale.Total, counts.Total,
		m.locale.Called, counts.Called,
		m.locale.NotCalled, counts.NotCalled))
	params := m.styles.muted.Render(fmt.Sprintf("filter: %s • sort: %s", m.params.Filter, m.params.Sort))

	lines := []string{title + "  " + tally, params}

	if m.searchMode {
		lines = append(lines, m.search.View())
	} else if m.params.Search != "" {
		lines = append(lines, m.styles.muted.Render("/ "+m.params.Search))
	}
	return strings.Join(lines, "\n")
}

// renderCards draws as many cards as fit, keeping the selection visible
func (m Model) renderCards(height int) string {
	if len(m.page.Cards) == 0 {
		return lipgloss.NewStyle().Height(max(height, 1)).Render("\n  " + m.styles.muted.Render(m.locale.Empty))
	}

	width := min(m.width-2, 72)
	rendered := make([]string, len(m.page.Cards))
	for i, card := range m.page.Cards {
		rendered[i] = m.renderCard(card, i == m.selected, width)
	}

	start, end := visibleRange(rendered, m.selected, height)
	out := lipgloss.JoinVertical(lipgloss.Left, rendered[start:end]...)
	if height > 0 {
		out = lipgloss.NewStyle().Height(height).MaxHeight(height).Render(out)
	}
	return out
}

// visibleRange picks the window of cards around selected that fits height
func visibleRange(rendered []string, selected, height int) (int, int) {
	if selected >= len(rendered) {
		selected = len(rendered) - 1
	}
	start, end := selected, selected+1
	used := lipgloss.Height(rendered[selected])

	for start > 0 {
		h := lipgloss.Height(rendered[start-1])
		if used+h > height {
			break
		}
		used += h
		start--
	}
	for end < len(rendered) {
		h := lipgloss.Height(rendered[end])
		if used+h > height {
			break
		}
		used += h
		end++
	}
	return start, end
}

func (m Model) renderCard(card view.Card, selected bool, width int) string {
	badge := m.styles.notCalled.Render("✗ " + card.StatusText)
	if card.Icon == view.IconCheck {
		badge = m.styles.called.Render("✓ " + card.StatusText)
	}

	title := fmt.Sprintf("%s %s", m.styles.avatar.Render(card.Initial), m.styles.name.Render(card.Name))
	gap := width - 4 - lipgloss.Width(title) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}

	lines := []string{title + strings.Repeat(" ", gap) + badge}

	sub := card.Relation
	if sub != "" {
		sub += " • "
	}
	sub += card.LastCalled
	lines = append(lines, m.styles.muted.Render(sub))

	for _, p := range card.Phones {
		lines = append(lines, fmt.Sprintf("%s %s", m.styles.phoneLabel.Render(p.Label), p.Number))
	}
	if len(card.Phones) == 0 {
		lines = append(lines, m.styles.muted.Render(m.locale.NoPhone))
	}

	style := m.styles.card
	if selected {
		style = m.styles.selectedCard
	}
	return style.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderMessage() string {
	if m.message == "" {
		return ""
	}
	if m.errorMsg {
		return " " + m.styles.errMessage.Render(m.message)
	}
	return " " + m.styles.message.Render(m.message)
}

func (m Model) renderHelp() string {
	if m.confirm != confirmNone {
		return " y: confirm • any other key: cancel"
	}

	if m.addMode {
		return " Tab/↓: next • Shift+Tab/↑: prev • Enter: save • Esc: cancel"
	}

	if m.importMode {
		return " Enter: import • Esc: cancel"
	}

	if m.searchMode {
		return " Type to search • ↑/↓: navigate • Enter: confirm • Esc: clear"
	}

	help := " j/k: navigate • c/Enter: call • space: toggle • /: search • f: filter • o: sort"
	help += " • a: add • d: delete • R: reset • e: export • i: import • t: theme"

	if m.params.Search != "" {
		help += " • Esc: clear search"
	}

	help += " • q: quit"

	return m.styles.muted.Render(help)
}

func (m Model) renderConfirm() string {
	prompt := m.locale.ConfirmReset
	if m.confirm == confirmDelete {
		prompt = m.locale.ConfirmDelete
		if c, ok := m.store.Get(m.confirmID); ok {
			prompt = fmt.Sprintf("%s\n\n%s", c.Name, prompt)
		}
	}
	prompt += "\n\n(y/n)"

	width := 60
	content := lipgloss.NewStyle().
		Width(width - 4).
		Align(lipgloss.Center).
		Render(prompt)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(width).
		Padding(1, 0).
		Render(content)

	return m.centered(box)
}

func (m Model) renderAddForm() string {
	var lines []string
	lines = append(lines, "Add Contact")
	lines = append(lines, strings.Repeat("─", 40))
	lines = append(lines, "")

	fieldLabels := []string{
		"Name:       ",
		"Relation:   ",
		"Phone:      ",
		"Alt phone:  ",
	}

	for i, label := range fieldLabels {
		if i == m.addField {
			lines = append(lines, label+m.addInputs[i].View())
		} else {
			value := m.addInputs[i].Value()
			if value == "" {
				value = m.styles.muted.Render(m.addInputs[i].Placeholder)
			}
			lines = append(lines, label+value)
		}
		lines = append(lines, "")
	}

	if m.message != "" && m.errorMsg {
		lines = append(lines, m.styles.errMessage.Render(m.message))
		lines = append(lines, "")
	}
	lines = append(lines, m.renderHelp())

	box := m.styles.overlay.Width(60).Render(strings.Join(lines, "\n"))
	return m.centered(box)
}

func (m Model) renderImportPrompt() string {
	lines := []string{
		"Import contacts from:",
		"",
		m.importInput.View(),
		"",
		m.styles.muted.Render("The current list is replaced only if the whole file is valid."),
		"",
		m.renderHelp(),
	}

	box := m.styles.overlay.Width(64).Render(strings.Join(lines, "\n"))
	return m.centered(box)
}
