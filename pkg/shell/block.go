// Package shell manages the rigup integration block in the user's
// shell startup file: a marker-delimited, append-only region holding
// the secret-sourcing line and the rig convenience aliases.
package shell

import (
	"fmt"
	"strings"
)

// Marker delimits the start of the managed block. Its presence is the
// idempotence check: a file containing it never receives a second
// block.
const Marker = "# >>> rigup managed block >>>"

// Build renders the integration block. The secret file is sourced only
// if it exists, so a removed credential never breaks shell startup.
func Build(secretFile string) string {
	var b strings.Builder
	b.WriteString(Marker + "\n")
	fmt.Fprintf(&b, "[ -f \"%s\" ] && . \"%s\"\n", secretFile, secretFile)
	b.WriteString("alias rig-fast='rig --model fast'\n")
	b.WriteString("alias rig-deep='rig --model deep'\n")
	b.WriteString("alias rig-review='rig --workflow review'\n")
	b.WriteString("alias rig-commit='rig --workflow commit'\n")
	return b.String()
}

// HasBlock reports whether content already carries the managed block
func HasBlock(content string) bool {
	return strings.Contains(content, Marker)
}

// scanState drives the block-removal scan. Keeping the two states
// explicit keeps the deletion boundary auditable: removal stops at the
// first line that is not blank, a comment, an alias definition, or the
// secret-sourcing line.
type scanState int

const (
	beforeMarker scanState = iota
	insideBlock
)

// RemoveBlock deletes the managed block from content and returns the
// result plus whether anything was removed. Lines after the block's
// boundary are preserved verbatim, including content a user inserted
// between aliases: the first non-block line ends the scan, and
// everything from there on is kept.
func RemoveBlock(content string) (string, bool) {
	hadTrailingNewline := strings.HasSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	if hadTrailingNewline {
		lines = lines[:len(lines)-1]
	}

	out := make([]string, 0, len(lines))
	state := beforeMarker
	removed := false

	for _, line := range lines {
		switch state {
		case beforeMarker:
			if strings.TrimSpace(line) == Marker {
				state = insideBlock
				removed = true
				continue
			}
			out = append(out, line)
		case insideBlock:
			if isBlockLine(line) {
				continue
			}
			state = beforeMarker
			out = append(out, line)
		}
	}

	result := strings.Join(out, "\n")
	if hadTrailingNewline && len(out) > 0 {
		result += "\n"
	}
	return result, removed
}

// isBlockLine classifies a line as belonging to the managed block
func isBlockLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return true
	case strings.HasPrefix(trimmed, "#"):
		return true
	case strings.HasPrefix(trimmed, "alias "):
		return true
	case strings.HasPrefix(trimmed, "[ -f "):
		return true
	}
	return false
}
