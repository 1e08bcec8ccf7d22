package gridengine

import "strings"

// ValidationError is an input problem whose message is meant for the end user,
// as opposed to an unexpected runtime failure.
type ValidationError struct {
	Field   string
	Message string
	Details []string
	err     error
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	if e.Field != "" {
		sb.WriteString(e.Field)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	for _, d := range e.Details {
		sb.WriteString("; ")
		sb.WriteString(d)
	}
	return sb.String()
}

func (e *ValidationError) Unwrap() error { return e.err }
