package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"veripack/verify"
)

// lineOutput prints one line per step transition for non-interactive
// terminals. Repeated snapshots with no change for a step print nothing.
type lineOutput struct {
	mu       sync.Mutex
	status   map[verify.StepID]verify.Status
	messages map[verify.StepID]string
}

func newLineOutput() *lineOutput {
	return &lineOutput{
		status:   make(map[verify.StepID]verify.Status),
		messages: make(map[verify.StepID]string),
	}
}

func (l *lineOutput) OnSnapshot(snap verify.Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, step := range snap.Steps {
		if step.Status == verify.StatusPending && l.status[step.ID] == verify.StatusPending {
			continue
		}

		msg := strings.TrimSpace(step.Message)
		prevStatus, seen := l.status[step.ID]
		if seen && prevStatus == step.Status && l.messages[step.ID] == msg {
			continue
		}

		l.status[step.ID] = step.Status
		l.messages[step.ID] = msg
		fmt.Fprintln(os.Stderr, formatStepLine(step, msg))
	}
}

func (l *lineOutput) Close() {}

func formatStepLine(step verify.Step, msg string) string {
	prefix := "[..]"
	switch step.Status {
	case verify.StatusWorking:
		prefix = "[->]"
	case verify.StatusPass:
		prefix = "[ok]"
	case verify.StatusFail:
		prefix = "[x]"
	case verify.StatusWarn:
		prefix = "[!]"
	case verify.StatusSkipped:
		prefix = "[--]"
	}

	title := strings.TrimSpace(step.Title)
	if title == "" {
		title = string(step.ID)
	}
	if msg != "" {
		return fmt.Sprintf("  %s %s (%s)", prefix, title, msg)
	}
	return fmt.Sprintf("  %s %s", prefix, title)
}
