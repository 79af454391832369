package card

import "fmt"

// MissingFieldError reports a required key absent from a card record.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// TypeMismatchError reports a key present with the wrong JSON type.
type TypeMismatchError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %q: expected %s, got %s", e.Field, e.Expected, e.Actual)
}

// UnrecognizedValueError reports an enumerated field whose raw spelling is not
// in the accepted set.
type UnrecognizedValueError struct {
	Field string
	Value string
}

func (e *UnrecognizedValueError) Error() string {
	return fmt.Sprintf("field %q: unrecognized value %q", e.Field, e.Value)
}
