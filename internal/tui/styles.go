package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pdxmph/family-contacts/internal/storage"
)

// ThemeKey is the storage key for the light/dark preference
const ThemeKey = "theme_preference"

// Theme is the colour scheme
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the other theme
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// loadTheme prefers the stored choice and otherwise follows the terminal
func loadTheme(kv storage.Store, detectDark func() bool) Theme {
	if kv != nil {
		if v, ok, err := kv.Get(ThemeKey); err == nil && ok {
			switch Theme(v) {
			case ThemeLight, ThemeDark:
				return Theme(v)
			}
		}
	}
	if detectDark == nil {
		detectDark = lipgloss.HasDarkBackground
	}
	if detectDark() {
		return ThemeDark
	}
	return ThemeLight
}

type palette struct {
	text      lipgloss.Color
	muted     lipgloss.Color
	border    lipgloss.Color
	accent    lipgloss.Color
	selection lipgloss.Color
	green     lipgloss.Color
	red       lipgloss.Color
	overlay   lipgloss.Color
}

var palettes = map[Theme]palette{
	ThemeDark: {
		text:      lipgloss.Color("230"),
		muted:     lipgloss.Color("241"),
		border:    lipgloss.Color("240"),
		accent:    lipgloss.Color("62"),
		selection: lipgloss.Color("63"),
		green:     lipgloss.Color("42"),
		red:       lipgloss.Color("196"),
		overlay:   lipgloss.Color("235"),
	},
	ThemeLight: {
		text:      lipgloss.Color("235"),
		muted:     lipgloss.Color("244"),
		border:    lipgloss.Color("250"),
		accent:    lipgloss.Color("25"),
		selection: lipgloss.Color("33"),
		green:     lipgloss.Color("28"),
		red:       lipgloss.Color("160"),
		overlay:   lipgloss.Color("255"),
	},
}

// Styles
type styles struct {
	header       lipgloss.Style
	muted        lipgloss.Style
	card         lipgloss.Style
	selectedCard lipgloss.Style
	avatar       lipgloss.Style
	name         lipgloss.Style
	called       lipgloss.Style
	notCalled    lipgloss.Style
	phoneLabel   lipgloss.Style
	message      lipgloss.Style
	errMessage   lipgloss.Style
	overlay      lipgloss.Style
	focused      lipgloss.Style
}

func newStyles(t Theme) styles {
	p, ok := palettes[t]
	if !ok {
		p = palettes[ThemeDark]
	}

	card := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Padding(0, 1)

	return styles{
		header: lipgloss.NewStyle().Bold(true).Foreground(p.text),
		muted:  lipgloss.NewStyle().Foreground(p.muted),
		card:   card,
		selectedCard: card.Copy().
			BorderForeground(p.selection),
		avatar: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(p.accent).
			Padding(0, 1),
		name:       lipgloss.NewStyle().Bold(true).Foreground(p.text),
		called:     lipgloss.NewStyle().Foreground(p.green),
		notCalled:  lipgloss.NewStyle().Foreground(p.red),
		phoneLabel: lipgloss.NewStyle().Foreground(p.muted),
		message:    lipgloss.NewStyle().Foreground(p.green),
		errMessage: lipgloss.NewStyle().Foreground(p.red),
		overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.border).
			Background(p.overlay).
			Padding(1),
		focused: lipgloss.NewStyle().
			Background(p.selection).
			Foreground(lipgloss.Color("230")),
	}
}
