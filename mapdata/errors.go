package mapdata

import "github.com/pkg/errors"

// ErrorKind classifies a failed operation.
type ErrorKind int

const (
	// KindValidation covers bad arguments: out-of-range indexes, duplicate
	// names, invalid inheritance targets, nil or uninitialized objects
	KindValidation ErrorKind = iota
	// KindStructure covers edits that would break the map's integrity, such
	// as deleting the last base context
	KindStructure
	// KindIO covers file load/save failures
	KindIO
)

// Error is returned by every fallible MapData operation. It carries the
// failure classification along with the detail text, so callers can branch on
// the kind without parsing messages.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Cause supports github.com/pkg/errors cause chains.
func (e *Error) Cause() error { return e.Err }

func validationf(format string, a ...interface{}) error {
	return &Error{Kind: KindValidation, Err: errors.Errorf(format, a...)}
}

func structuref(format string, a ...interface{}) error {
	return &Error{Kind: KindStructure, Err: errors.Errorf(format, a...)}
}

func iof(format string, a ...interface{}) error {
	return &Error{Kind: KindIO, Err: errors.Errorf(format, a...)}
}

func iowrapf(err error, format string, a ...interface{}) error {
	return &Error{Kind: KindIO, Err: errors.Wrapf(err, format, a...)}
}

func errorKind(err error, kind ErrorKind) bool {
	if e, ok := err.(*Error); ok {
		return e.Kind == kind
	}
	return false
}

func IsValidation(err error) bool { return errorKind(err, KindValidation) }

func IsStructure(err error) bool { return errorKind(err, KindStructure) }

func IsIO(err error) bool { return errorKind(err, KindIO) }
