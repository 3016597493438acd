// Package dialer hands a contact's primary number to whatever the device uses
// to place calls, the way a tel: link does in a browser.
package dialer

import (
	"errors"
	"strings"
)

// ErrNoDialer is returned when no dialer is available on this device
var ErrNoDialer = errors.New("no dialer configured")

// Dialer defines the interface that all dialer backends must implement
type Dialer interface {
	// Name returns the backend identifier (e.g., "xdg-open")
	Name() string

	// IsEnabled checks if the backend is available on this device
	IsEnabled() bool

	// Dial opens the tel: URI for number
	Dial(number string) error
}

// URI builds the tel: link for number. Spaces are dropped; everything else,
// including a leading +, is kept.
func URI(number string) string {
	return "tel:" + strings.Join(strings.Fields(number), "")
}
