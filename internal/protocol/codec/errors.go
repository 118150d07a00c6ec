package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFrame marks a malformed frame: inconsistent internal
	// lengths, truncated variable fields, or a channel bit that
	// contradicts the catalog. SV2 framing is self-delimiting, so a
	// corrupt frame is fatal for the connection; the codec never scans
	// for a new boundary.
	ErrInvalidFrame = errors.New("codec: invalid sv2 frame")

	// ErrEncoderBusy reports an Encode call before the previous output
	// was flushed. Caller misuse, not a network condition.
	ErrEncoderBusy = errors.New("codec: encoder busy, flush pending output first")
)

// MissingBytesError is the sole retryable decode outcome: the buffer does
// not yet hold a complete frame. Needed is the exact byte count still
// required. Repeated calls on the same buffer content return the same value
// and mutate nothing.
type MissingBytesError struct {
	Needed int
}

func (e MissingBytesError) Error() string {
	return fmt.Sprintf("codec: missing %d bytes", e.Needed)
}

// IsMissingBytes reports whether err only asks for more input.
func IsMissingBytes(err error) bool {
	var mb MissingBytesError
	return errors.As(err, &mb)
}
