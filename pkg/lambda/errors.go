package lambda

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrArityMismatch is matched by every *ArityError.
	ErrArityMismatch = errors.New("arity mismatch")
	// ErrInvalidAtom is returned when an atom cannot be constructed.
	ErrInvalidAtom = errors.New("invalid atom")
	// ErrDuplicateAtom is returned when a registry already holds a name.
	ErrDuplicateAtom = errors.New("atom already registered")
)

// ArityError reports an atom invoked with the wrong number of arguments.
type ArityError struct {
	Atom string
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: %v: want %d arguments, got %d", e.Atom, ErrArityMismatch, e.Want, e.Got)
}

func (e *ArityError) Is(target error) bool {
	return target == ErrArityMismatch
}

func errorf(sentinel error, format string, args ...interface{}) error {
	return errors.Wrapf(sentinel, format, args...)
}
