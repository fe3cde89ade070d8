package session

import "fmt"

// Cause identifies which naming rule a value broke.
type Cause string

const (
	CauseTraversal Cause = "traversal"
	CauseAbsolute  Cause = "absolute"
	CauseSeparator Cause = "separator"
	CauseDelimiter Cause = "delimiter"
)

// InvalidNameError is returned when a workspace, agent or command name cannot
// be used in a session name or as a workspace directory.
type InvalidNameError struct {
	Label string
	Value string
	Cause Cause
}

func (e *InvalidNameError) Error() string {
	switch e.Cause {
	case CauseAbsolute:
		return fmt.Sprintf("%s must not be an absolute path.", e.Label)
	case CauseSeparator:
		return fmt.Sprintf("%s must not contain path separators.", e.Label)
	case CauseTraversal:
		return fmt.Sprintf("%s must not be a traversal segment.", e.Label)
	case CauseDelimiter:
		return fmt.Sprintf("%s must not contain %q (reserved as session delimiter).", e.Label, Delimiter)
	default:
		return fmt.Sprintf("%s %q is invalid.", e.Label, e.Value)
	}
}
