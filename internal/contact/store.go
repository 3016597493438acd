// Package contact owns the contact list: loading it from local storage,
// mutating it, and writing the full list back after every change.
package contact

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdxmph/family-contacts/internal/storage"
)

// StorageKey is the key the serialized list lives under
const StorageKey = "family_contacts_v1"

// Store is the single owner of the in-memory contact list. The view layer
// reads copies and changes the list only through Store methods.
type Store struct {
	mu       sync.Mutex
	kv       storage.Store
	contacts []Contact

	now      func() time.Time
	newID    func() string
	defaults func(newID func() string) []Contact
	logger   *zap.Logger
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the UUID generator used for new contacts
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithDefaults replaces the sample list used when nothing is stored
func WithDefaults(defaults func(newID func() string) []Contact) Option {
	return func(s *Store) { s.defaults = defaults }
}

// WithLogger sets the logger used for load fallbacks and write failures
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore creates a store over kv. The list starts empty until Load is called.
func NewStore(kv storage.Store, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
		defaults: DefaultContacts,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted list and makes it current. A missing key, a value
// that is not a JSON array of contacts, or an unreadable store all fall back
// to the default sample list; the failure is logged, never returned.
func (s *Store) Load() []Contact {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.contacts = s.read()
	return cloneAll(s.contacts)
}

func (s *Store) read() []Contact {
	raw, ok, err := s.kv.Get(StorageKey)
	if err != nil {
		s.logger.Warn("reading contacts failed, using defaults", zap.Error(err))
		return s.defaults(s.newID)
	}
	if !ok || raw == "" {
		s.logger.Debug("no stored contacts, using defaults")
		return s.defaults(s.newID)
	}

	var list []Contact
	if err := json.Unmarshal([]byte(raw), &list); err != nil || list == nil {
		s.logger.Warn("stored contacts are malformed, using defaults", zap.Error(err))
		return s.defaults(s.newID)
	}

	for i := range list {
		if list[i].Phones == nil {
			list[i].Phones = []string{}
		}
		list[i].Status = list[i].Status.Normalize()
	}
	return list
}

// Save writes list to storage in full and makes it current. Ids must be
// present and unique; phones, status and callCount are coerced as on import.
// On a rejected list or a write failure the current list is left as it was.
func (s *Store) Save(list []Contact) error {
	next := cloneAll(list)
	if err := normalize(next, ErrInvalidContact); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(next)
}

// normalize checks ids and coerces the other fields of every record in place.
// Errors wrap sentinel.
func normalize(list []Contact, sentinel error) error {
	seen := make(map[string]bool, len(list))
	for i := range list {
		c := &list[i]
		if c.ID == "" {
			return fmt.Errorf("%w: item %d has no id", sentinel, i)
		}
		if seen[c.ID] {
			return fmt.Errorf("%w: item %d repeats id %q", sentinel, i, c.ID)
		}
		seen[c.ID] = true

		if c.Phones == nil {
			c.Phones = []string{}
		}
		c.Status = c.Status.Normalize()
		if c.CallCount < 0 {
			c.CallCount = 0
		}
	}
	return nil
}

func (s *Store) commit(next []Contact) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encoding contacts: %w", err)
	}
	if err := s.kv.Set(StorageKey, string(data)); err != nil {
		s.logger.Error("saving contacts failed", zap.Error(err))
		return fmt.Errorf("saving contacts: %w", err)
	}
	s.contacts = next
	return nil
}

// mutate applies fn to a copy of the list and persists the result. fn returns
// false when nothing changed, in which case nothing is written.
func (s *Store) mutate(fn func(list []Contact) ([]Contact, bool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := fn(cloneAll(s.contacts))
	if !changed {
		return nil
	}
	return s.commit(next)
}

func indexOf(list []Contact, id string) int {
	for i, c := range list {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) timestamp() *time.Time {
	t := s.now().UTC().Truncate(time.Millisecond)
	return &t
}

// Contacts returns a copy of the current list in store order
func (s *Store) Contacts() []Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.contacts)
}

// Get returns a copy of the contact with id
func (s *Store) Get(id string) (Contact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.contacts, id)
	if i < 0 {
		return Contact{}, false
	}
	return s.contacts[i].Clone(), true
}

// MarkCalled records a call: status becomes called, lastCalled is refreshed
// and callCount goes up by one. Unknown ids are ignored.
func (s *Store) MarkCalled(id string) error {
	return s.mutate(func(list []Contact) ([]Contact, bool) {
		i := indexOf(list, id)
		if i < 0 {
			return list, false
		}
		list[i].Status = StatusCalled
		list[i].LastCalled = s.timestamp()
		list[i].CallCount++
		return list, true
	})
}

// Call is MarkCalled for the call action: a contact with no primary phone is
// left untouched and ErrNoPrimaryPhone is returned. The returned contact
// reflects the recorded call. Unknown ids return a zero Contact and nil.
func (s *Store) Call(id string) (Contact, error) {
	c, ok := s.Get(id)
	if !ok {
		return Contact{}, nil
	}
	if c.PrimaryPhone() == "" {
		return c, fmt.Errorf("%w: %s", ErrNoPrimaryPhone, c.Name)
	}
	if err := s.MarkCalled(id); err != nil {
		return c, err
	}
	c, _ = s.Get(id)
	return c, nil
}

// ToggleStatus flips the status. lastCalled is only filled in when entering
// called with no previous value; it is never cleared. Unknown ids are ignored.
func (s *Store) ToggleStatus(id string) error {
	return s.mutate(func(list []Contact) ([]Contact, bool) {
		i := indexOf(list, id)
		if i < 0 {
			return list, false
		}
		if list[i].Status == StatusCalled {
			list[i].Status = StatusNotCalled
		} else {
			list[i].Status = StatusCalled
			if list[i].LastCalled == nil {
				list[i].LastCalled = s.timestamp()
			}
		}
		return list, true
	})
}

// Add validates d and prepends a new not-called contact with a fresh id.
// Name, relation and a primary phone are required; blank extra phones are dropped.
func (s *Store) Add(d Draft) (Contact, error) {
	name := strings.TrimSpace(d.Name)
	relation := strings.TrimSpace(d.Relation)

	if name == "" || relation == "" || len(d.Phones) == 0 || strings.TrimSpace(d.Phones[0]) == "" {
		return Contact{}, fmt.Errorf("%w: name, relation and phone are required", ErrInvalidContact)
	}

	phones := make([]string, 0, len(d.Phones))
	for _, p := range d.Phones {
		if p = strings.TrimSpace(p); p != "" {
			phones = append(phones, p)
		}
	}

	c := Contact{
		ID:       s.newID(),
		Name:     name,
		Relation: relation,
		Phones:   phones,
		Status:   StatusNotCalled,
	}

	err := s.mutate(func(list []Contact) ([]Contact, bool) {
		return append([]Contact{c.Clone()}, list...), true
	})
	if err != nil {
		return Contact{}, err
	}
	return c, nil
}

// Delete removes the contact with id. Unknown ids are ignored.
func (s *Store) Delete(id string) error {
	return s.mutate(func(list []Contact) ([]Contact, bool) {
		i := indexOf(list, id)
		if i < 0 {
			return list, false
		}
		return append(list[:i], list[i+1:]...), true
	})
}

// ResetAll marks every contact not called. lastCalled and callCount are kept.
func (s *Store) ResetAll() error {
	return s.mutate(func(list []Contact) ([]Contact, bool) {
		for i := range list {
			list[i].Status = StatusNotCalled
		}
		return list, true
	})
}

// ReplaceAll swaps the whole list for incoming. Every record needs an id and a
// name, and ids must be unique; phones are coerced to a slice and status to
// called/not_called. Any invalid record rejects the whole list and the current
// one stays in place.
func (s *Store) ReplaceAll(incoming []Contact) error {
	next := cloneAll(incoming)
	for i, c := range next {
		if c.ID == "" || c.Name == "" {
			return fmt.Errorf("%w: item %d needs an id and a name", ErrInvalidImport, i)
		}
	}
	if err := normalize(next, ErrInvalidImport); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(next)
}

// Import decodes an import document from r and replaces the list with it
func (s *Store) Import(r io.Reader) error {
	list, err := DecodeImport(r)
	if err != nil {
		return err
	}
	if err := s.ReplaceAll(list); err != nil {
		return err
	}
	s.logger.Info("imported contacts", zap.Int("count", len(list)))
	return nil
}

// Export writes the current list to w in the backup format
func (s *Store) Export(w io.Writer) error {
	return EncodeExport(w, s.Contacts())
}

// ExportFile writes the backup to path. A file that could not be written in
// full is removed.
func (s *Store) ExportFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating backup: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := s.Export(f); err != nil {
		f.Close()
		return fmt.Errorf("writing backup: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing backup: %w", err)
	}

	s.logger.Info("exported contacts", zap.String("path", path))
	return nil
}
