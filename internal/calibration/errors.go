package calibration

import "fmt"

// LoadError represents an error opening or reading a calibration source.
type LoadError struct {
	Source  string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("calibration load error in %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("calibration load error in %s: %s", e.Source, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
