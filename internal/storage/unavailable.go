package storage

// Unavailable is a backend that fails every operation. It stands in for a
// store the user has disabled or that could not be opened, so callers exercise
// their fallback paths instead of crashing.
type Unavailable struct{}

// NewUnavailable creates a backend that always reports ErrUnavailable
func NewUnavailable() Store {
	return Unavailable{}
}

// Get always fails
func (Unavailable) Get(string) (string, bool, error) {
	return "", false, ErrUnavailable
}

// Set always fails
func (Unavailable) Set(string, string) error {
	return ErrUnavailable
}

// Close does nothing
func (Unavailable) Close() error {
	return nil
}

func init() {
	Register("none", func(string) (Store, error) { return NewUnavailable(), nil })
}
