package tui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdxmph/family-contacts/internal/dialer"
)

// dialedMsg reports the result of handing a number to the dialer
type dialedMsg struct {
	name   string
	number string
	err    error
}

// importReadMsg carries the bytes of a backup file chosen for import
type importReadMsg struct {
	path string
	data []byte
	err  error
}

func dialCmd(d dialer.Dialer, name, number string) tea.Cmd {
	return func() tea.Msg {
		return dialedMsg{name: name, number: number, err: d.Dial(number)}
	}
}

func readFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		return importReadMsg{path: path, data: data, err: err}
	}
}
