package ui

import "veripack/verify"

// StepOutput renders pipeline snapshots.
type StepOutput interface {
	OnSnapshot(verify.Snapshot)
	Close()
}

// NewStepOutput picks the renderer for the current terminal: an animated
// in-place checklist when interactive, line-per-transition output otherwise.
func NewStepOutput() StepOutput {
	if IsInteractive() {
		return NewChecklist()
	}
	return newLineOutput()
}
