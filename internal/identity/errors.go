package identity

import (
	"errors"
	"fmt"
)

// ReferenceError reports a cross-reference to an identifier that was never
// registered in the referenced category. It is fatal at the point of
// resolution: nothing is emitted for the referencing entity.
type ReferenceError struct {
	// Category is the entity kind the reference points into.
	Category Category

	// Key is the unresolved semantic key.
	Key string
}

// Error implements the error interface.
func (e *ReferenceError) Error() string {
	return fmt.Sprintf("dangling reference: no %s registered with id %q", e.Category, e.Key)
}

// IsDanglingReference returns true if err is (or wraps) a ReferenceError.
func IsDanglingReference(err error) bool {
	var re *ReferenceError
	return errors.As(err, &re)
}
