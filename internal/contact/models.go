package contact

import (
	"errors"
	"time"
)

// Status is the call state of a contact
type Status string

const (
	StatusCalled    Status = "called"
	StatusNotCalled Status = "not_called"
)

// Normalize maps anything other than "called" to StatusNotCalled
func (s Status) Normalize() Status {
	if s == StatusCalled {
		return StatusCalled
	}
	return StatusNotCalled
}

var (
	// ErrInvalidContact is returned when a new contact lacks a required field
	ErrInvalidContact = errors.New("invalid contact")

	// ErrInvalidImport is returned when an import document is rejected
	ErrInvalidImport = errors.New("invalid import")

	// ErrNoPrimaryPhone is returned when a call is attempted without a number
	ErrNoPrimaryPhone = errors.New("no phone number set for this contact")
)

// Contact represents a person in the list
type Contact struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Relation   string     `json:"relation"`
	Phones     []string   `json:"phones"`
	Status     Status     `json:"status"`
	LastCalled *time.Time `json:"lastCalled"`
	CallCount  int        `json:"callCount"`
}

// Draft holds the fields a user supplies when adding a contact
type Draft struct {
	Name     string
	Relation string
	Phones   []string
}

// PrimaryPhone returns the number used by the call action, or "" if none
func (c Contact) PrimaryPhone() string {
	if len(c.Phones) == 0 {
		return ""
	}
	return c.Phones[0]
}

// IsCalled reports whether the contact is in the called state
func (c Contact) IsCalled() bool {
	return c.Status == StatusCalled
}

// Clone returns a deep copy so callers cannot alias the store's slices
func (c Contact) Clone() Contact {
	out := c
	out.Phones = append([]string{}, c.Phones...)
	if c.LastCalled != nil {
		t := *c.LastCalled
		out.LastCalled = &t
	}
	return out
}

func cloneAll(list []Contact) []Contact {
	out := make([]Contact, len(list))
	for i, c := range list {
		out[i] = c.Clone()
	}
	return out
}
