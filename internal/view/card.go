package view

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/pdxmph/family-contacts/internal/contact"
)

// Icon is the status mark drawn on a card's badge
type Icon int

const (
	IconCross Icon = iota
	IconCheck
)

// PhoneLine is one number on a card
type PhoneLine struct {
	Label  string
	Number string
}

// Card is the presentation model for one contact. Renderers draw it; they
// never look at the contact directly.
type Card struct {
	ID         string
	Initial    string
	Name       string
	Relation   string
	LastCalled string
	Status     contact.Status
	StatusText string
	Icon       Icon
	Phones     []PhoneLine
	Primary    string
	CanCall    bool
	CallCount  int
}

// Page is everything needed to draw the list once
type Page struct {
	Cards  []Card
	Counts Counts
	Params Params
}

// Presenter turns contacts into cards for one locale and time zone
type Presenter struct {
	Locale   Locale
	Location *time.Location
}

// NewPresenter uses the local time zone
func NewPresenter(locale Locale) *Presenter {
	return &Presenter{Locale: locale, Location: time.Local}
}

// Page projects list with p and builds a card per surviving contact. Counts
// cover the whole list.
func (pr *Presenter) Page(list []contact.Contact, p Params) Page {
	projected := Project(list, p, pr.Locale.Tag)

	cards := make([]Card, 0, len(projected))
	for _, c := range projected {
		cards = append(cards, pr.Card(c))
	}
	return Page{Cards: cards, Counts: Tally(list), Params: p}
}

// Card builds the presentation model for c
func (pr *Presenter) Card(c contact.Contact) Card {
	card := Card{
		ID:         c.ID,
		Initial:    initial(c.Name),
		Name:       c.Name,
		Relation:   c.Relation,
		LastCalled: pr.LastCalledText(c.LastCalled),
		Status:     c.Status,
		StatusText: pr.Locale.NotCalled,
		Icon:       IconCross,
		Primary:    c.PrimaryPhone(),
		CanCall:    c.PrimaryPhone() != "",
		CallCount:  c.CallCount,
	}
	if c.IsCalled() {
		card.StatusText = pr.Locale.Called
		card.Icon = IconCheck
	}

	for i, tel := range c.Phones {
		label := pr.Locale.Alternate
		if i == 0 {
			label = pr.Locale.Primary
		}
		card.Phones = append(card.Phones, PhoneLine{Label: label, Number: tel})
	}
	return card
}

// LastCalledText renders "DD-MM-YYYY, HH:MM" after the locale's prefix, or the
// never-called message.
func (pr *Presenter) LastCalledText(t *time.Time) string {
	if t == nil {
		return pr.Locale.NeverCalled
	}
	loc := pr.Location
	if loc == nil {
		loc = time.Local
	}
	return fmt.Sprintf("%s %s", pr.Locale.LastCalledPrefix, t.In(loc).Format("02-01-2006, 15:04"))
}

func initial(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || unicode.IsSpace(r) {
		return "?"
	}
	return strings.ToUpper(string(r))
}

