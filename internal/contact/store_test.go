package contact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdxmph/family-contacts/internal/storage"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// flakyStore fails writes on demand
type flakyStore struct {
	*storage.Memory
	failWrites bool
}

func (f *flakyStore) Set(key, value string) error {
	if f.failWrites {
		return errors.New("disk full")
	}
	return f.Memory.Set(key, value)
}

func newTestStore(t *testing.T, kv storage.Store) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)}
	s := NewStore(kv, WithClock(clock.Now), WithIDGenerator(sequentialIDs()))
	return s, clock
}

func persisted(t *testing.T, kv storage.Store) []Contact {
	t.Helper()
	raw, ok, err := kv.Get(StorageKey)
	require.NoError(t, err)
	require.True(t, ok, "list should have been persisted")
	var list []Contact
	require.NoError(t, json.Unmarshal([]byte(raw), &list))
	return list
}

func seed(t *testing.T, kv storage.Store, list []Contact) {
	t.Helper()
	data, err := json.Marshal(list)
	require.NoError(t, err)
	require.NoError(t, kv.Set(StorageKey, string(data)))
}

func TestLoad_FallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name string
		kv   func() storage.Store
	}{
		{"missing key", func() storage.Store { return storage.NewMemory() }},
		{"malformed json", func() storage.Store {
			m := storage.NewMemory()
			m.Set(StorageKey, "{oops")
			return m
		}},
		{"not an array", func() storage.Store {
			m := storage.NewMemory()
			m.Set(StorageKey, `{"id":"a"}`)
			return m
		}},
		{"null", func() storage.Store {
			m := storage.NewMemory()
			m.Set(StorageKey, `null`)
			return m
		}},
		{"storage unavailable", storage.NewUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t, tt.kv())
			list := s.Load()
			require.Len(t, list, 5)
			assert.Equal(t, "Abba", list[0].Name)
			for _, c := range list {
				assert.NotEmpty(t, c.ID)
				assert.Equal(t, StatusNotCalled, c.Status)
				assert.Nil(t, c.LastCalled)
				assert.Zero(t, c.CallCount)
			}
		})
	}
}

func TestLoad_ReadsStoredList(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(StorageKey, `[{"id":"a","name":"Bob","relation":"Brother","phones":null,"status":"weird","lastCalled":null,"callCount":2}]`))

	s, _ := newTestStore(t, kv)
	list := s.Load()

	require.Len(t, list, 1)
	assert.Equal(t, "Bob", list[0].Name)
	assert.Equal(t, []string{}, list[0].Phones)
	assert.Equal(t, StatusNotCalled, list[0].Status)
	assert.Equal(t, 2, list[0].CallCount)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	kv := storage.NewMemory()
	s, clock := newTestStore(t, kv)
	s.Load()

	last := clock.Now().Add(-48 * time.Hour)
	list := []Contact{
		{ID: "a", Name: "Bob", Relation: "Brother", Phones: []string{"+1 555 0100", "+1 555 0101"}, Status: StatusCalled, LastCalled: &last, CallCount: 3},
		{ID: "b", Name: "Ann", Relation: "Aunt", Phones: []string{}, Status: StatusNotCalled},
	}
	require.NoError(t, s.Save(list))

	reloaded, _ := newTestStore(t, kv)
	assert.Equal(t, list, reloaded.Load())
	assert.Equal(t, list, s.Contacts())
}

func TestSave_RejectsDuplicateIDs(t *testing.T) {
	kv := storage.NewMemory()
	seed(t, kv, []Contact{{ID: "a", Name: "Bob", Relation: "Brother", Phones: []string{}, Status: StatusNotCalled}})
	s, _ := newTestStore(t, kv)
	before := s.Load()

	lists := map[string][]Contact{
		"duplicate id": {{ID: "a", Name: "X"}, {ID: "a", Name: "Y"}},
		"missing id":   {{ID: "a", Name: "X"}, {Name: "Y"}},
	}
	for name, list := range lists {
		t.Run(name, func(t *testing.T) {
			err := s.Save(list)
			assert.ErrorIs(t, err, ErrInvalidContact)
			assert.Equal(t, before, s.Contacts())
			assert.Equal(t, before, persisted(t, kv))
		})
	}
}

func TestSave_NormalizesFields(t *testing.T) {
	kv := storage.NewMemory()
	s, _ := newTestStore(t, kv)
	s.Load()

	require.NoError(t, s.Save([]Contact{
		{ID: "a", Name: "X"},
		{ID: "b", Name: "Y", Status: "maybe", CallCount: -4},
		{ID: "c", Name: "Z", Phones: []string{"555"}, Status: StatusCalled, CallCount: 2},
	}))

	want := []Contact{
		{ID: "a", Name: "X", Phones: []string{}, Status: StatusNotCalled},
		{ID: "b", Name: "Y", Phones: []string{}, Status: StatusNotCalled},
		{ID: "c", Name: "Z", Phones: []string{"555"}, Status: StatusCalled, CallCount: 2},
	}
	assert.Equal(t, want, s.Contacts())
	assert.Equal(t, want, persisted(t, kv))

	var called, notCalled int
	for _, c := range s.Contacts() {
		switch c.Status {
		case StatusCalled:
			called++
		case StatusNotCalled:
			notCalled++
		}
	}
	assert.Equal(t, 1, called)
	assert.Equal(t, 2, notCalled)
}

func TestExportFile(t *testing.T) {
	kv := storage.NewMemory()
	s, _ := newTestStore(t, kv)
	list := s.Load()

	path := filepath.Join(t.TempDir(), ExportFileName)
	require.NoError(t, s.ExportFile(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	back, err := DecodeImport(f)
	require.NoError(t, err)
	assert.Equal(t, len(list), len(back))
	assert.Equal(t, list[0].ID, back[0].ID)

	missing := filepath.Join(t.TempDir(), "nope", ExportFileName)
	assert.Error(t, s.ExportFile(missing))
	_, err = os.Stat(missing)
	assert.True(t, os.IsNotExist(err), "no partial backup is left behind")
}

func TestMarkCalled(t *testing.T) {
	kv := storage.NewMemory()
	seed(t, kv, []Contact{{ID: "a", Name: "Bob", Relation: "Brother", Phones: []string{"555"}, Status: StatusNotCalled}})
	s, clock := newTestStore(t, kv)
	s.Load()

	require.NoError(t, s.MarkCalled("a"))
	first, _ := s.Get("a")
	assert.Equal(t, StatusCalled, first.Status)
	assert.Equal(t, 1, first.CallCount)
	require.NotNil(t, first.LastCalled)
	assert.True(t, first.LastCalled.Equal(clock.Now()))

	clock.Advance(time.Hour)
	require.NoError(t, s.MarkCalled("a"))
	second, _ := s.Get("a")
	assert.Equal(t, StatusCalled, second.Status, "status is idempotent")
	assert.Equal(t, 2, second.CallCount, "count is not")
	assert.True(t, second.LastCalled.Equal(clock.Now()), "lastCalled is refreshed")

	assert.Equal(t, s.Contacts(), persisted(t, kv))
}

func TestCall(t *testing.T) {
	kv := storage.NewMemory()
	seed(t, kv, []Contact{
		{ID: "a", Name: "Bob", Relation: "Brother", Phones: []string{"555"}, Status: StatusNotCalled},
		{ID: "b", Name: "Ann", Relation: "Aunt", Phones: []string{}, Status: StatusNotCalled},
	})
	s, _ := newTestStore(t, kv)
	s.Load()

	bob, err := s.Call("a")
	require.NoError(t, err)
	assert.Equal(t, StatusCalled, bob.Status)
	assert.Equal(t, 1, bob.CallCount)

	ann, err := s.Call("b")
	assert.ErrorIs(t, err, ErrNoPrimaryPhone)
	assert.Equal(t, StatusNotCalled, ann.Status)
	stored, _ := s.Get("b")
	assert.Zero(t, stored.CallCount)
	assert.Nil(t, stored.LastCalled)

	missing, err := s.Call("nope")
	assert.NoError(t, err)
	assert.Empty(t, missing.ID)
}

func TestToggleStatus(t *testing.T) {
	kv := storage.NewMemory()
	earlier := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	seed(t, kv, []Contact{
		{ID: "fresh", Name: "Ann", Relation: "Aunt", Phones: []string{}, Status: StatusNotCalled},
		{ID: "old", Name: "Bob", Relation: "Brother", Phones: []string{}, Status: StatusNotCalled, LastCalled: &earlier, CallCount: 4},
	})
	s, clock := newTestStore(t, kv)
	s.Load()

	require.NoError(t, s.ToggleStatus("fresh"))
	c, _ := s.Get("fresh")
	assert.Equal(t, StatusCalled, c.Status)
	require.NotNil(t, c.LastCalled, "entering called with no lastCalled sets it")
	assert.True(t, c.LastCalled.Equal(clock.Now()))
	assert.Zero(t, c.CallCount, "toggle never counts a call")

	require.NoError(t, s.ToggleStatus("fresh"))
	c, _ = s.Get("fresh")
	assert.Equal(t, StatusNotCalled, c.Status)
	assert.NotNil(t, c.LastCalled, "toggling never clears lastCalled")

	clock.Advance(time.Hour)
	require.NoError(t, s.ToggleStatus("old"))
	c, _ = s.Get("old")
	assert.Equal(t, StatusCalled, c.Status)
	assert.True(t, c.LastCalled.Equal(earlier), "an existing lastCalled is kept")
	assert.Equal(t, 4, c.CallCount)

	assert.Equal(t, s.Contacts(), persisted(t, kv))
}

func TestLookupMissIsNoop(t *testing.T) {
	kv := storage.NewMemory()
	seed(t, kv, []Contact{{ID: "a", Name: "Bob", Relation: "Brother", Phones: []string{}, Status: StatusNotCalled}})
	s, _ := newTestStore(t, kv)
	before := s.Load()

	assert.NoError(t, s.MarkCalled("nope"))
	assert.NoError(t, s.ToggleStatus("nope"))
	assert.NoError(t, s.Delete("nope"))
	assert.Equal(t, before, s.Contacts())
}

func TestAdd(t *testing.T) {
	kv := storage.NewMemory()
	seed(t, kv, []Contact{{ID: "a", Name: "Bob", Relation: "Brother", Phones: []string{}, Status: StatusNotCalled}})
	s, _ := newTestStore(t, kv)
	s.Load()

	c, err := s.Add(Draft{Name: "  Cara ", Relation: "Cousin", Phones: []string{" 555-0102 ", ""}})
	require.NoError(t, err)
	assert.Equal(t, "id-1", c.ID)
	assert.Equal(t, "Cara", c.Name)
	assert.Equal(t, []string{"555-0102"}, c.Phones)
	assert.Equal(t, StatusNotCalled, c.Status)
	assert.Nil(t, c.LastCalled)
	assert.Zero(t, c.CallCount)

	list := s.Contacts()
	require.Len(t, list, 2)
	assert.Equal(t, "id-1", list[0].ID, "new contacts are prepended")
	assert.Equal(t, list, persisted(t, kv))

	c, err = s.Add(Draft{Name: "Dan", Relation: "Dad", Phones: []string{"1", "2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, c.Phones)
}

func TestAdd_Validation(t *testing.T) {
	s, _ := newTestStore(t, storage.NewMemory())
	s.Load()
	before := s.Contacts()

	drafts := []Draft{
		{Name: "", Relation: "Aunt", Phones: []string{"1"}},
		{Name: "Ann", Relation: "  ", Phones: []string{"1"}},
		{Name: "Ann", Relation: "Aunt"},
		{Name: "Ann", Relation: "Aunt", Phones: []string{" ", "2"}},
	}
	for _, d := range drafts {
		_, err := s.Add(d)
		assert.ErrorIs(t, err, ErrInvalidContact)
	}
	assert.Equal(t, before, s.Contacts())
}

func TestDelete(t *testing.T) {
	kv := storage.NewMemory()
	seed(t, kv, []Contact{
		{ID: "a", Name: "Bob", Relation: "Brother", Phones: []string{}, Status: StatusNotCalled},
		{ID: "b", Name: "Ann", Relation: "Aunt", Phones: []string{}, Status: StatusCalled},
	})
	s, _ := newTestStore(t, kv)
	s.Load()

	require.NoError(t, s.Delete("a"))
	list := s.Contacts()
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, list, persisted(t, kv))
}

func TestResetAll(t *testing.T) {
	kv := storage.NewMemory()
	when := time.Date(2024, 2, 2, 2, 2, 2, 0, time.UTC)
	seed(t, kv, []Contact{
		{ID: "a", Name: "Bob", Relation: "Brother", Phones: []string{"1"}, Status: StatusCalled, LastCalled: &when, CallCount: 7},
		{ID: "b", Name: "Ann", Relation: "Aunt", Phones: []string{}, Status: StatusNotCalled},
	})
	s, _ := newTestStore(t, kv)
	before := s.Load()

	require.NoError(t, s.ResetAll())
	after := s.Contacts()

	for i := range after {
		assert.Equal(t, StatusNotCalled, after[i].Status)
		expected := before[i]
		expected.Status = StatusNotCalled
		assert.Equal(t, expected, after[i], "only status changes")
	}
	assert.Equal(t, after, persisted(t, kv))
}

func TestReplaceAll(t *testing.T) {
	kv := storage.NewMemory()
	s, _ := newTestStore(t, kv)
	s.Load()

	err := s.ReplaceAll([]Contact{
		{ID: "1", Name: "X"},
		{ID: "2", Name: "Y", Phones: []string{"9"}, Status: "called", CallCount: -3},
	})
	require.NoError(t, err)

	list := s.Contacts()
	require.Len(t, list, 2)
	assert.Equal(t, []string{}, list[0].Phones)
	assert.Equal(t, StatusNotCalled, list[0].Status)
	assert.Equal(t, StatusCalled, list[1].Status)
	assert.Zero(t, list[1].CallCount)
	assert.Equal(t, list, persisted(t, kv))
}

func TestReplaceAll_RejectsWholeList(t *testing.T) {
	tests := []struct {
		name     string
		incoming []Contact
	}{
		{"missing id", []Contact{{ID: "1", Name: "X"}, {Name: "Y"}}},
		{"missing name", []Contact{{ID: "1"}}},
		{"duplicate id", []Contact{{ID: "1", Name: "X"}, {ID: "1", Name: "Y"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemory()
			seed(t, kv, []Contact{{ID: "a", Name: "Bob", Relation: "Brother", Phones: []string{}, Status: StatusNotCalled}})
			s, _ := newTestStore(t, kv)
			before := s.Load()

			err := s.ReplaceAll(tt.incoming)
			assert.ErrorIs(t, err, ErrInvalidImport)
			assert.Equal(t, before, s.Contacts())
			assert.Equal(t, before, persisted(t, kv))
		})
	}
}

func TestWriteFailureKeepsCommittedList(t *testing.T) {
	kv := &flakyStore{Memory: storage.NewMemory()}
	seed(t, kv, []Contact{{ID: "a", Name: "Bob", Relation: "Brother", Phones: []string{"1"}, Status: StatusNotCalled}})
	s, _ := newTestStore(t, kv)
	before := s.Load()

	kv.failWrites = true
	assert.Error(t, s.MarkCalled("a"))
	assert.Error(t, s.ResetAll())
	assert.Error(t, s.ReplaceAll([]Contact{{ID: "z", Name: "Z"}}))
	_, err := s.Add(Draft{Name: "N", Relation: "R", Phones: []string{"1"}})
	assert.Error(t, err)

	assert.Equal(t, before, s.Contacts())
}

func TestImport(t *testing.T) {
	kv := storage.NewMemory()
	seed(t, kv, []Contact{{ID: "a", Name: "Bob", Relation: "Brother", Phones: []string{}, Status: StatusNotCalled}})
	s, _ := newTestStore(t, kv)
	before := s.Load()

	require.NoError(t, s.Import(strings.NewReader(`[{"id":"1","name":"X"}]`)))
	list := s.Contacts()
	require.Len(t, list, 1)
	assert.Equal(t, "1", list[0].ID)
	assert.Equal(t, []string{}, list[0].Phones)
	assert.Equal(t, StatusNotCalled, list[0].Status)

	require.NoError(t, s.ReplaceAll(before))
	err := s.Import(strings.NewReader(`[{"name":"X"}]`))
	assert.ErrorIs(t, err, ErrInvalidImport)
	assert.Equal(t, before, s.Contacts())
}

// The call action, a delete of another id and a reset, in that order.
func TestScenario_CallDeleteReset(t *testing.T) {
	kv := storage.NewMemory()
	seed(t, kv, []Contact{{ID: "a", Name: "Bob", Phones: []string{"555"}, Status: StatusNotCalled, CallCount: 0}})
	s, clock := newTestStore(t, kv)
	s.Load()

	require.NoError(t, s.MarkCalled("a"))
	bob, _ := s.Get("a")
	assert.Equal(t, StatusCalled, bob.Status)
	assert.Equal(t, 1, bob.CallCount)
	require.NotNil(t, bob.LastCalled)
	assert.True(t, bob.LastCalled.Equal(clock.Now()))
	calledAt := *bob.LastCalled

	require.NoError(t, s.Delete("other-id"))
	assert.Len(t, s.Contacts(), 1)

	clock.Advance(time.Hour)
	require.NoError(t, s.ResetAll())
	bob, _ = s.Get("a")
	assert.Equal(t, StatusNotCalled, bob.Status)
	assert.Equal(t, 1, bob.CallCount)
	assert.True(t, bob.LastCalled.Equal(calledAt))
}

func TestContacts_ReturnsCopies(t *testing.T) {
	kv := storage.NewMemory()
	seed(t, kv, []Contact{{ID: "a", Name: "Bob", Phones: []string{"555"}, Status: StatusNotCalled}})
	s, _ := newTestStore(t, kv)
	s.Load()

	list := s.Contacts()
	list[0].Name = "Mallory"
	list[0].Phones[0] = "000"

	c, _ := s.Get("a")
	assert.Equal(t, "Bob", c.Name)
	assert.Equal(t, "555", c.Phones[0])
}
