// Package blf implements the Vector BLF binary log container format:
// the object header codec (both header-version layouts), the per-family
// object codecs, the zlib log-container codec and the file-level
// reader/writer. The package is pure: it consumes byte slices and
// io.Readers handed in by the caller, never logs, and reports failures
// through the typed errors in errors.go.
//
// Decoding is best-effort. Only an unreadable file preamble aborts a
// parse; every other malformed object or container is skipped, counted,
// and decoding resumes at the next inferred object position.
package blf

import (
	"bytes"
	"time"
)

// Record is a single decoded log object. The concrete types form a
// closed set over the known object families; tags outside the known
// set decode to Unknown. Every record carries its full object header.
type Record interface {
	// Header returns the object header the record was decoded with.
	Header() *ObjectHeader

	// appendPayload encodes the family-specific payload. Length fields
	// inside the payload are re-derived from the actual data, never
	// taken from stored values.
	appendPayload(buf *bytes.Buffer)
}

// AbsoluteTime derives a record's absolute timestamp from the file's
// measurement start time. Absolute times are never stored; they are
// always start + relative timestamp in the header's tick unit.
func AbsoluteTime(start time.Time, r Record) time.Time {
	return start.Add(time.Duration(r.Header().TimestampNanos()))
}

// Unknown preserves objects whose type tag is outside the known set.
// The raw payload is kept verbatim so the object survives a round trip.
type Unknown struct {
	ObjectHeader
	Tag  uint32
	Data []byte
}

func (r *Unknown) Header() *ObjectHeader { return &r.ObjectHeader }

func (r *Unknown) appendPayload(buf *bytes.Buffer) {
	buf.Write(r.Data)
}
