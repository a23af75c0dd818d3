package blf

import (
	"errors"
	"fmt"
)

// Sentinel errors for the codec. File-level callers receive them
// wrapped with positional context via fmt.Errorf("...: %w", err).
var (
	// ErrInvalidMagic is returned when a signature does not match.
	// Fatal at the file preamble, recoverable at object level.
	ErrInvalidMagic = errors.New("blf: invalid magic signature")

	// ErrInconsistentSize is returned when a header declares sizes that
	// cannot fit (header size exceeds object size, or the object size
	// implies a negative payload).
	ErrInconsistentSize = errors.New("blf: inconsistent size fields")

	// ErrTruncatedData is returned when fewer bytes remain than a
	// record's fixed part requires.
	ErrTruncatedData = errors.New("blf: truncated data")

	// ErrDecompression is returned when a log container's compressed
	// payload cannot be inflated. The container contributes no records.
	ErrDecompression = errors.New("blf: container decompression failed")

	// ErrUnsupportedVersion is returned for a header version tag other
	// than 1 or 2.
	ErrUnsupportedVersion = errors.New("blf: unsupported header version")
)

// ObjectError reports a recoverable decode failure for a single object.
// The reader skips the object and resumes at the next inferred header
// position; ObjectError values are counted, never surfaced as fatal.
type ObjectError struct {
	Offset int64      // byte offset of the object header within its stream
	Type   ObjectType // declared object type, if the header was readable
	Err    error
}

func (e *ObjectError) Error() string {
	return fmt.Sprintf("object at offset %d (type %s): %v", e.Offset, e.Type, e.Err)
}

func (e *ObjectError) Unwrap() error { return e.Err }
