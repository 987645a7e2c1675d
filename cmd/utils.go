package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/activebook/fitbot/internal/ui"
	"github.com/charmbracelet/huh"
)

// readStdin returns piped input, or "" when stdin is a terminal.
// The os.Stdin.Stat() check can be unreliable under debuggers, which may make
// stdin appear piped; run those with an integrated terminal.
func readStdin() string {
	if !hasStdinData() {
		return ""
	}
	reader := bufio.NewReader(os.Stdin)
	var buffer bytes.Buffer
	if _, err := io.Copy(&buffer, reader); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading from stdin: %v\n", err)
		return ""
	}
	return buffer.String()
}

func hasStdinData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// confirm asks a yes/no question. Non-interactive sessions get def.
func confirm(title, description string, def bool) (bool, error) {
	if !ui.IsInteractive() {
		return def, nil
	}
	answer := def
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&answer).
		Run()
	return answer, err
}

func validateInt(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("must be a valid number")
	}
	return nil
}

// optionalFloat parses a flag value that may be empty.
func optionalFloat(name, s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("--%s must be a number: %w", name, err)
	}
	return &v, nil
}

// formatClock renders d as m:ss.
func formatClock(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
