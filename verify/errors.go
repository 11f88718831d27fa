package verify

import "fmt"

// ParseError reports pack output with no recognizable archive digest.
type ParseError struct {
	Pattern string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no digest matching %s in pack output", e.Pattern)
}

// MismatchError reports a digest comparison that came out unequal.
type MismatchError struct {
	Registry string
	Remote   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("shasum mismatch: registry %s, rebuilt %s", e.Registry, e.Remote)
}
