package ui

import (
	"os"
	"strconv"

	"golang.org/x/term"
)

const (
	defaultWidth = 80
	maxWrapWidth = 100
)

// GetTerminalWidth asks the TTY first, then $COLUMNS, then falls back to 80.
func GetTerminalWidth() int {
	for _, fd := range []int{int(os.Stdout.Fd()), int(os.Stdin.Fd()), int(os.Stderr.Fd())} {
		if width, _, err := term.GetSize(fd); err == nil && width > 0 {
			return width
		}
	}
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if width, err := strconv.Atoi(cols); err == nil && width > 0 {
			return width
		}
	}
	return defaultWidth
}

// WrapWidth is the width prose should be wrapped to: the terminal width
// minus a margin, never wider than maxWrapWidth.
func WrapWidth() int {
	w := GetTerminalWidth() - 4
	if w > maxWrapWidth {
		w = maxWrapWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// IsInteractive reports whether both stdin and stdout are terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
