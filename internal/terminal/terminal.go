// Package terminal handles interactive prompts and terminal detection.
package terminal

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal returns true if f is a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
