// Package secret validates and renders the rig API credential. The
// functions here are pure; acquisition order and prompting live in the
// stage phase.
package secret

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rigtools/rigup/pkg/errors"
)

// VarName is the environment variable the secret file exports
const VarName = "RIG_API_KEY"

// Length bounds for a credential
const (
	MinLength = 8
	MaxLength = 256
)

// forbidden are shell-metacharacter bytes that must never appear in a
// credential, since the secret file is sourced by the user's shell.
const forbidden = "`$;\"'\\|&<>()"

// exportLine matches the export statement in a secret file
var exportLine = regexp.MustCompile(`(?m)^export ` + VarName + `="([^"]*)"$`)

// Validate checks a credential against the format constraints. The
// returned error carries a "kind" detail naming which constraint
// failed: empty, too-short, too-long, or forbidden-characters.
func Validate(value string) error {
	switch {
	case value == "":
		return errors.New(errors.ErrSecretFormat, "secret is empty").
			WithDetail("kind", "empty")
	case len(value) < MinLength:
		return errors.Newf(errors.ErrSecretFormat, "secret is shorter than %d characters", MinLength).
			WithDetail("kind", "too-short")
	case len(value) > MaxLength:
		return errors.Newf(errors.ErrSecretFormat, "secret is longer than %d characters", MaxLength).
			WithDetail("kind", "too-long")
	}

	for _, r := range value {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(forbidden, r) || r == ' ' {
			return errors.New(errors.ErrSecretFormat, "secret contains forbidden characters").
				WithDetail("kind", "forbidden-characters")
		}
	}

	return nil
}

// Render produces the script-sourceable secret file payload. The value
// must already be validated; Render quotes it but does not escape.
func Render(value, version string, now time.Time) string {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("# rig API credential. Managed by rigup; do not edit.\n")
	fmt.Fprintf(&b, "# generated: %s\n", now.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "# rigup version: %s\n", version)
	fmt.Fprintf(&b, "export %s=%q\n", VarName, value)
	return b.String()
}

// ParseFile extracts the credential from an existing secret file's
// content. Returns false if no recognizable export line is present.
func ParseFile(content string) (string, bool) {
	m := exportLine.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}
