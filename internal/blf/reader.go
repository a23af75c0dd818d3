package blf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"
)

// ParseResult is the eager parse output: the file preamble plus the
// flattened, file-ordered record sequence with every container
// expanded. Skipped counts objects and containers that were dropped
// during best-effort recovery.
type ParseResult struct {
	Statistics FileStatistics
	Records    []Record
	Skipped    int
}

// Reader is the lazy, pull-based decoder over a fully resident BLF
// byte buffer. It walks top-level objects, expands log containers
// transparently, and yields one record per Next call. The sequence is
// finite, forward-only and not restartable; a caller that stops
// pulling forces no further decoding.
//
// Only the preamble can fail construction. Every later malformed
// object or container is skipped and counted, never surfaced as an
// error from Next.
type Reader struct {
	stats FileStatistics
	data  []byte
	pos   int

	// current container's decompressed stream; discarded once drained
	inner    []byte
	innerPos int

	skipped int
}

// NewReader parses the file preamble and positions the reader at the
// first top-level object. An unreadable preamble (bad magic, too few
// bytes) is the only fatal condition.
func NewReader(data []byte) (*Reader, error) {
	stats, err := decodeFileStatistics(data)
	if err != nil {
		return nil, fmt.Errorf("reading file statistics: %w", err)
	}
	return &Reader{
		stats: stats,
		data:  data,
		pos:   int(stats.StatisticsSize),
	}, nil
}

// NewReaderFrom reads the whole input upfront and wraps it in a
// Reader. All decode work afterwards is CPU-bound over the resident
// buffer; no I/O happens inside the codec.
func NewReaderFrom(src io.Reader) (*Reader, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return NewReader(data)
}

// Statistics returns the decoded file preamble.
func (r *Reader) Statistics() FileStatistics { return r.stats }

// Skipped returns the number of objects and containers dropped so far
// during best-effort recovery.
func (r *Reader) Skipped() int { return r.skipped }

// StartTime returns the measurement start time from the preamble.
func (r *Reader) StartTime() time.Time { return r.stats.StartTime() }

// Next returns the next record in file order, expanding containers as
// they are encountered. It returns io.EOF when the stream is cleanly
// exhausted.
func (r *Reader) Next() (Record, error) {
	for {
		if r.inner != nil {
			rec, ok := r.nextInner()
			if ok {
				return rec, nil
			}
			continue
		}
		if r.pos >= len(r.data) {
			return nil, io.EOF
		}
		if done := r.resync(); done {
			return nil, io.EOF
		}

		h, consumed, err := decodeHeader(r.data[r.pos:])
		if err != nil {
			// Header rejected despite the magic matching; skip the
			// signature and rescan.
			r.skipped++
			r.pos += 4
			continue
		}
		total := consumed + int(h.ObjectSize) - int(h.HeaderSize)
		if r.pos+total > len(r.data) {
			// Truncated final object.
			r.skipped++
			return nil, io.EOF
		}
		payload := r.data[r.pos+consumed : r.pos+total]
		r.pos += total

		if h.Type == ObjectTypeLogContainer {
			inner, err := decodeContainerPayload(payload)
			if err != nil {
				// Corrupt container: zero records, walk continues.
				r.skipped++
				continue
			}
			r.inner = inner
			r.innerPos = 0
			continue
		}

		rec, err := dispatchDecode(h, payload)
		if err != nil {
			r.skipped++
			continue
		}
		return rec, nil
	}
}

// nextInner advances within the current container's decompressed
// stream. The second return value is false when the caller should loop
// (container drained or truncated).
func (r *Reader) nextInner() (Record, bool) {
	if r.innerPos >= len(r.inner) {
		r.inner = nil
		r.innerPos = 0
		return nil, false
	}
	rec, advance, err := decodeObject(r.inner[r.innerPos:])
	if err != nil {
		var oe *ObjectError
		if errors.As(err, &oe) && advance > 0 {
			// Family decoder failed; the outer object-size still tells
			// us where the next header starts.
			r.skipped++
			r.innerPos += advance
			return nil, false
		}
		// Invalid inner header truncates the rest of this container
		// only; records already produced stay.
		r.skipped++
		r.inner = nil
		r.innerPos = 0
		return nil, false
	}
	r.innerPos += advance
	return rec, true
}

// resync scans forward to the next object signature, counting a skip
// if non-padding bytes had to be discarded. Returns true when no
// further object exists.
func (r *Reader) resync() bool {
	rest := r.data[r.pos:]
	if bytes.HasPrefix(rest, []byte(objectMagic)) {
		return false
	}
	idx := bytes.Index(rest, []byte(objectMagic))
	if idx < 0 {
		if !allZero(rest) {
			r.skipped++
		}
		r.pos = len(r.data)
		return true
	}
	if !allZero(rest[:idx]) {
		r.skipped++
	}
	r.pos += idx
	return false
}

// Parse decodes a complete BLF buffer eagerly. It is implemented by
// driving the lazy Reader to completion, not as a second walk.
func Parse(data []byte) (*ParseResult, error) {
	r, err := NewReader(data)
	if err != nil {
		return nil, err
	}
	return drain(r)
}

// ParseReader is Parse over an io.Reader; the input is read fully
// before decoding starts.
func ParseReader(src io.Reader) (*ParseResult, error) {
	r, err := NewReaderFrom(src)
	if err != nil {
		return nil, err
	}
	return drain(r)
}

func drain(r *Reader) (*ParseResult, error) {
	result := &ParseResult{Statistics: r.Statistics()}
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		result.Records = append(result.Records, rec)
	}
	result.Skipped = r.Skipped()
	return result, nil
}
