package dialer

// Preference is the order openers are tried in when none is configured
var Preference = []string{"xdg-open", "open", "termux-open-url"}

// Select returns the dialer for commandLine, or the first installed opener in
// Preference when commandLine is empty. It never returns nil.
func Select(commandLine string) Dialer {
	if commandLine != "" {
		return NewExec(commandLine)
	}

	for _, opener := range Preference {
		if d := NewExec(opener); d.IsEnabled() {
			return d
		}
	}

	// If no opener is installed, use noop
	return NewNoop()
}
