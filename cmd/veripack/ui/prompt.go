package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Confirm asks a yes/no question on stderr and reads the answer from stdin.
// bypassHint describes how to skip the prompt non-interactively (e.g. "use
// --yes to skip"); non-interactive terminals fail with that hint.
func Confirm(question, bypassHint string) (bool, error) {
	if !IsInteractive() {
		return false, fmt.Errorf("confirmation required in non-interactive mode (%s)", bypassHint)
	}

	fmt.Fprintf(os.Stderr, "%s %s [y/N] ", AccentStyle.Render("?"), question)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
