package seed

import (
	"encoding/json"
	"fmt"

	"github.com/pdxmph/family-contacts/internal/storage"
)

// CalledKey holds a JSON object mapping phone number to true
const CalledKey = "calledContacts"

// Tracker remembers which seed numbers have been called. Keyed by phone, so
// two entries sharing a number share their state.
type Tracker struct {
	kv     storage.Store
	called map[string]bool
}

// NewTracker reads the current state. A missing, unreadable or malformed
// value starts from nothing called.
func NewTracker(kv storage.Store) *Tracker {
	t := &Tracker{kv: kv, called: map[string]bool{}}

	raw, ok, err := kv.Get(CalledKey)
	if err != nil || !ok {
		return t
	}
	var called map[string]bool
	if json.Unmarshal([]byte(raw), &called) == nil && called != nil {
		t.called = called
	}
	return t
}

// IsCalled reports whether phone has been called
func (t *Tracker) IsCalled(phone string) bool {
	return t.called[phone]
}

// MarkCalled records phone as called and persists the whole map. There is
// no way back to not called in this mode.
func (t *Tracker) MarkCalled(phone string) error {
	next := make(map[string]bool, len(t.called)+1)
	for k, v := range t.called {
		next[k] = v
	}
	next[phone] = true

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encoding called state: %w", err)
	}
	if err := t.kv.Set(CalledKey, string(data)); err != nil {
		return fmt.Errorf("saving called state: %w", err)
	}
	t.called = next
	return nil
}
