package snapshot

import (
	"errors"
	"fmt"
)

// ErrMalformedSnapshot is returned when snapshot bytes cannot be turned into a
// valid state. A load that fails with it must leave the prior state in place.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// UnknownFormatError is returned for an unsupported snapshot encoding name.
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown snapshot format %q (expected json or cbor)", e.Format)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedSnapshot, fmt.Sprintf(format, args...))
}
