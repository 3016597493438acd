package dialer

import (
	"fmt"
	"os/exec"
	"strings"
)

// Exec opens tel: URIs by running an external command with the URI as its
// last argument.
type Exec struct {
	name    string
	command string
	args    []string
	enabled bool
}

// NewExec creates a dialer for the command line in commandLine, for example
// "xdg-open" or "termux-open-url". The command must be on PATH to be enabled.
func NewExec(commandLine string) Dialer {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return NewNoop()
	}
	return &Exec{
		name:    fields[0],
		command: fields[0],
		args:    fields[1:],
		enabled: isAvailable(fields[0]),
	}
}

// Name returns the backend identifier
func (e *Exec) Name() string {
	return e.name
}

// IsEnabled returns whether the command was found
func (e *Exec) IsEnabled() bool {
	return e.enabled
}

// Dial runs the command with the tel: URI for number
func (e *Exec) Dial(number string) error {
	if !e.enabled {
		return fmt.Errorf("%s not available: %w", e.command, ErrNoDialer)
	}
	if strings.TrimSpace(number) == "" {
		return fmt.Errorf("dialing: empty number")
	}

	args := append(append([]string{}, e.args...), URI(number))
	cmd := exec.Command(e.command, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("dialing with '%s %s': %w (output: %s)", e.command, strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}

	return nil
}

// isAvailable checks if command is installed
func isAvailable(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}
