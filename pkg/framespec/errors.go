package framespec

import "errors"

var (
	// ErrNoNumberFound is returned when the frame-number pattern does not
	// match a file name (typically because it contains no digits)
	ErrNoNumberFound = errors.New("no frame number found")

	// ErrInconsistentAffixes is returned when members of a files list do
	// not share the same prefix and postfix
	ErrInconsistentAffixes = errors.New("inconsistent prefix or postfix")

	// ErrDuplicateFrame is returned when two files list members carry the
	// same frame number
	ErrDuplicateFrame = errors.New("duplicate frame number")

	// ErrMalformedRange is returned for a framespec segment that cannot be
	// parsed or that denotes an empty range
	ErrMalformedRange = errors.New("malformed framespec range")

	// ErrNoFramespecFound is returned when a condensed file string does not
	// contain a framespec span
	ErrNoFramespecFound = errors.New("no framespec found")
)
