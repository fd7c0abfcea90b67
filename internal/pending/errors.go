package pending

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPhone is returned when the phone field has no canonical E.164 form.
	ErrInvalidPhone = errors.New("pending: phone cannot be normalized")

	// ErrStorage wraps any failure reading or writing the pending-contacts collection.
	ErrStorage = errors.New("pending: storage failure")
)

// FieldError describes one rejected field, named as the caller sent it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found in a submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return fmt.Sprintf("pending: invalid submission: %s", strings.Join(parts, "; "))
}
