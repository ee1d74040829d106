package ui

import (
	"os"

	"github.com/muesli/termenv"
)

// ColorsEnabled reports whether stdout supports colored output. Honors
// NO_COLOR and dumb terminals, so piped output stays clean.
func ColorsEnabled() bool {
	return termenv.NewOutput(os.Stdout).Profile != termenv.Ascii
}
