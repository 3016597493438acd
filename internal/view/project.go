// Package view derives what the user sees from the contact list: a filtered,
// searched and sorted projection, a card per contact, and the totals.
package view

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pdxmph/family-contacts/internal/contact"
)

// Project filters by status, then searches, then sorts. The input is not
// modified. The sort is stable, so equal keys keep store order.
func Project(list []contact.Contact, p Params, tag language.Tag) []contact.Contact {
	out := make([]contact.Contact, 0, len(list))

	needle := strings.ToLower(strings.TrimSpace(p.Search))
	for _, c := range list {
		if p.Filter != "" && p.Filter != FilterAll && string(c.Status) != string(p.Filter) {
			continue
		}
		if needle != "" && !strings.Contains(haystack(c), needle) {
			continue
		}
		out = append(out, c)
	}

	// Collators keep internal buffers, so one per call
	col := collate.New(tag)
	var less func(a, b contact.Contact) bool
	switch p.Sort {
	case SortNameAsc:
		less = func(a, b contact.Contact) bool { return col.CompareString(a.Name, b.Name) < 0 }
	case SortNameDesc:
		less = func(a, b contact.Contact) bool { return col.CompareString(b.Name, a.Name) < 0 }
	case SortRelationAsc:
		less = func(a, b contact.Contact) bool { return col.CompareString(a.Relation, b.Relation) < 0 }
	case SortRecent:
		less = func(a, b contact.Contact) bool { return lastCalled(a).After(lastCalled(b)) }
	default:
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func haystack(c contact.Contact) string {
	parts := append([]string{c.Name, c.Relation}, c.Phones...)
	return strings.ToLower(strings.Join(parts, " "))
}

// lastCalled treats a missing timestamp as the epoch, so never-called
// contacts sink to the bottom of the recent ordering.
func lastCalled(c contact.Contact) time.Time {
	if c.LastCalled == nil {
		return time.Unix(0, 0)
	}
	return *c.LastCalled
}

// Counts are the totals shown under the list
type Counts struct {
	Total     int
	Called    int
	NotCalled int
}

// Tally counts the whole list, not a projection of it
func Tally(list []contact.Contact) Counts {
	var n Counts
	for _, c := range list {
		n.Total++
		if c.IsCalled() {
			n.Called++
		}
	}
	n.NotCalled = n.Total - n.Called
	return n
}
