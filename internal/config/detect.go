package config

import (
	"os"

	"golang.org/x/term"
)

// StdoutIsTerminal reports whether stdout is attached to a terminal,
// used by `termtile config explain` to decide whether to colorize its
// output.
func StdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
