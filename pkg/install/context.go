// Package install implements the staged, recoverable install sequence
// for the rig CLI: snapshot, stage, entry, verify, plus the abort,
// clean, and status commands. Phases share a Context constructed once
// at process entry; there is no ambient state.
package install

import (
	"net/http"

	"github.com/rigtools/rigup/pkg/paths"
	"github.com/rigtools/rigup/pkg/terminal"
)

// Doer is the HTTP port for the optional connectivity probe. Verify
// takes it as an interface so tests substitute deterministic fakes;
// a nil Doer skips the probe entirely.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Context carries everything a phase needs. It is built by the CLI
// layer and passed explicitly; phases never consult globals.
type Context struct {
	Paths   *paths.Paths
	Version string

	// NoInput forces non-interactive behavior even on a terminal
	NoInput bool

	// ShellOverride selects the startup file by shell name instead
	// of $SHELL.
	ShellOverride string

	Prompter terminal.Prompter
	HTTP     Doer
}

// Interactive reports whether prompting is possible for this run
func (c *Context) Interactive() bool {
	return !c.NoInput && c.Prompter != nil && c.Prompter.Interactive()
}
