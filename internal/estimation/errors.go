// Package estimation converts matched features into hour estimates.
package estimation

import "fmt"

// ValidationError represents a contract violation in the request. It aborts
// only the offending request and always names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}
