package dialer

// Noop is a dialer that does nothing, used when no opener is installed
type Noop struct{}

// NewNoop creates a new no-op dialer
func NewNoop() Dialer {
	return &Noop{}
}

// Name returns the backend identifier
func (n *Noop) Name() string {
	return "noop"
}

// IsEnabled always returns false for the noop dialer
func (n *Noop) IsEnabled() bool {
	return false
}

// Dial returns ErrNoDialer
func (n *Noop) Dial(string) error {
	return ErrNoDialer
}
