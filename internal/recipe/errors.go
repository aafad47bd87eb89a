package recipe

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ValidationError reports a rule violation in recipe content. Object is the
// raw value (or the part of it) that failed, so callers can log it or hand
// it back to whatever produced it.
type ValidationError struct {
	Message string
	Object  interface{}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Details renders the attached object as JSON for diagnostics.
func (e *ValidationError) Details() string {
	if e.Object == nil {
		return ""
	}
	b, err := json.Marshal(e.Object)
	if err != nil {
		return fmt.Sprintf("%v", e.Object)
	}
	return string(b)
}

func newValidationError(object interface{}, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Message: fmt.Sprintf(format, args...),
		Object:  object,
	}
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
