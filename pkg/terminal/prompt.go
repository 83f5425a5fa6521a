// Package terminal is the interactive-input port for the install
// phases. Stager and Cleaner depend on the Prompter interface, so tests
// substitute deterministic fakes.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/rigtools/rigup/pkg/errors"
)

// Prompter reads from the operator. Interactive reports whether a
// confirmable session exists at all; the other methods must only be
// called when it returns true.
type Prompter interface {
	Interactive() bool
	ReadSecret(prompt string) (string, error)
	Confirm(prompt string) (bool, error)
}

// TTY is the real Prompter backed by the process's stdin
type TTY struct {
	in  *os.File
	out io.Writer
}

// NewTTY returns a Prompter reading os.Stdin and writing prompts to
// stderr, keeping stdout clean for command output.
func NewTTY() *TTY {
	return &TTY{in: os.Stdin, out: os.Stderr}
}

// Interactive reports whether stdin is a terminal
func (t *TTY) Interactive() bool {
	fd := t.in.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ReadSecret prompts for a credential without echoing it
func (t *TTY) ReadSecret(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	defer fmt.Fprintln(t.out)

	data, err := term.ReadPassword(int(t.in.Fd()))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrNoCredentialSource, "failed to read secret from terminal")
	}
	return strings.TrimSpace(string(data)), nil
}

// Confirm asks a yes/no question, defaulting to no
func (t *TTY) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(t.out, "%s [y/N]: ", prompt)

	line, err := bufio.NewReader(t.in).ReadString('\n')
	if err != nil && line == "" {
		return false, errors.Wrap(err, errors.ErrNoConfirmation, "failed to read confirmation")
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
