package blf

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Object header wire constants. All multi-byte fields are little-endian.
const (
	objectMagic = "LOBJ"

	commonHeaderSize = 16 // signature + headerSize + version + objectSize + type
	headerSizeV1     = 32 // common + 16-byte version-1 extension
	headerSizeV2     = 40 // common + 24-byte version-2 extension
)

// Timestamp flag bits. Exactly one of the two is set in well-formed
// headers; the unit must be consulted before interpreting Timestamp.
const (
	FlagTimeTenMics uint32 = 1 << 0 // timestamp in 10-microsecond ticks
	FlagTimeOneNans uint32 = 1 << 1 // timestamp in nanosecond ticks
)

// ObjectHeaderCommon is the fixed 16-byte prefix shared by every object
// regardless of header version.
type ObjectHeaderCommon struct {
	HeaderSize uint16
	Version    uint16
	ObjectSize uint32
	Type       ObjectType
}

// HeaderExtension is the version-dependent tail of the object header.
// Which fields are present on the wire is selected solely by the
// Version tag in the common prefix: version 1 carries Flags,
// ClientIndex, ObjectVersion and Timestamp; version 2 replaces
// ClientIndex with TimestampStatus plus a reserved byte and appends
// OriginalTimestamp.
type HeaderExtension struct {
	Flags             uint32
	ClientIndex       uint16 // version 1 only
	TimestampStatus   uint8  // version 2 only
	ObjectVersion     uint16
	Timestamp         uint64
	OriginalTimestamp uint64 // version 2 only
}

// ObjectHeader is a decoded object header: the common prefix plus the
// extension selected by its version tag.
type ObjectHeader struct {
	ObjectHeaderCommon
	HeaderExtension
}

// TimestampNanos converts the stored timestamp to nanoseconds since
// measurement start, honoring the tick-unit flag bits.
func (h *ObjectHeader) TimestampNanos() uint64 {
	if h.Flags&FlagTimeTenMics != 0 {
		return h.Timestamp * 10_000
	}
	return h.Timestamp
}

// encodedHeaderSize returns the on-wire header size implied by the
// version tag.
func (h *ObjectHeader) encodedHeaderSize() uint16 {
	if h.Version == 2 {
		return headerSizeV2
	}
	return headerSizeV1
}

// prepare recomputes the size fields before writing. Stored sizes are
// never trusted; payloadLen is the exact number of payload bytes the
// encoder is about to emit.
func (h *ObjectHeader) prepare(payloadLen int) {
	if h.Version != 2 {
		h.Version = 1
	}
	if h.Flags&(FlagTimeTenMics|FlagTimeOneNans) == 0 {
		h.Flags |= FlagTimeOneNans
	}
	h.HeaderSize = h.encodedHeaderSize()
	h.ObjectSize = uint32(h.HeaderSize) + uint32(payloadLen)
}

// decodeHeader reads an object header from the start of b. It returns
// the header and the number of header bytes actually consumed, which
// can exceed the declared HeaderSize for quirky producers (see
// resolveHeaderSize).
func decodeHeader(b []byte) (ObjectHeader, int, error) {
	var h ObjectHeader
	if len(b) < commonHeaderSize {
		return h, 0, ErrTruncatedData
	}
	if string(b[0:4]) != objectMagic {
		return h, 0, ErrInvalidMagic
	}
	h.HeaderSize = binary.LittleEndian.Uint16(b[4:6])
	h.Version = binary.LittleEndian.Uint16(b[6:8])
	h.ObjectSize = binary.LittleEndian.Uint32(b[8:12])
	h.Type = ObjectType(binary.LittleEndian.Uint32(b[12:16]))

	if h.Version != 1 && h.Version != 2 {
		return h, 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	if h.HeaderSize < commonHeaderSize || uint32(h.HeaderSize) > h.ObjectSize {
		return h, 0, ErrInconsistentSize
	}

	effective := resolveHeaderSize(b, h.ObjectHeaderCommon)
	if len(b) < effective {
		return h, 0, ErrTruncatedData
	}

	switch h.Version {
	case 1:
		if effective >= headerSizeV1 {
			h.Flags = binary.LittleEndian.Uint32(b[16:20])
			h.ClientIndex = binary.LittleEndian.Uint16(b[20:22])
			h.ObjectVersion = binary.LittleEndian.Uint16(b[22:24])
			h.Timestamp = binary.LittleEndian.Uint64(b[24:32])
		}
	case 2:
		if effective < headerSizeV2 {
			return h, 0, ErrTruncatedData
		}
		h.Flags = binary.LittleEndian.Uint32(b[16:20])
		h.TimestampStatus = b[20]
		h.ObjectVersion = binary.LittleEndian.Uint16(b[22:24])
		h.Timestamp = binary.LittleEndian.Uint64(b[24:32])
		h.OriginalTimestamp = binary.LittleEndian.Uint64(b[32:40])
	}
	return h, effective, nil
}

// resolveHeaderSize is the single compatibility shim for producers that
// declare a bare 16-byte header while a full version-1 extension
// follows on the wire. Under the standard layout the next object begins
// at ObjectSize; under the quirk the extension consumed 16 extra bytes
// and the stream resumes at ObjectSize+16. The declared size is trusted
// first; the full layout is assumed only when the stream does not
// plausibly resume at the standard position but does at the shifted
// one. Refine or disable the heuristic here; the decode path does not
// special-case it.
func resolveHeaderSize(b []byte, c ObjectHeaderCommon) int {
	declared := int(c.HeaderSize)
	if declared != commonHeaderSize || c.Version != 1 {
		return declared
	}
	if resumesAt(b, int(c.ObjectSize)) {
		return commonHeaderSize
	}
	if len(b) >= headerSizeV1 && resumesAt(b, int(c.ObjectSize)+commonHeaderSize) {
		return headerSizeV1
	}
	return commonHeaderSize
}

// resumesAt reports whether the byte stream plausibly resumes with a
// new object, zero padding, or a clean end at off.
func resumesAt(b []byte, off int) bool {
	if off > len(b) {
		return false
	}
	rest := b[off:]
	if len(rest) >= 4 {
		return string(rest[:4]) == objectMagic
	}
	return allZero(rest)
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// encodeHeader appends the wire form of h to buf. prepare must have run
// so the size fields reflect the payload actually being written.
func encodeHeader(buf *bytes.Buffer, h *ObjectHeader) {
	var scratch [headerSizeV2]byte
	copy(scratch[0:4], objectMagic)
	binary.LittleEndian.PutUint16(scratch[4:6], h.HeaderSize)
	binary.LittleEndian.PutUint16(scratch[6:8], h.Version)
	binary.LittleEndian.PutUint32(scratch[8:12], h.ObjectSize)
	binary.LittleEndian.PutUint32(scratch[12:16], uint32(h.Type))
	binary.LittleEndian.PutUint32(scratch[16:20], h.Flags)
	if h.Version == 2 {
		scratch[20] = h.TimestampStatus
		scratch[21] = 0
		binary.LittleEndian.PutUint16(scratch[22:24], h.ObjectVersion)
		binary.LittleEndian.PutUint64(scratch[24:32], h.Timestamp)
		binary.LittleEndian.PutUint64(scratch[32:40], h.OriginalTimestamp)
		buf.Write(scratch[:headerSizeV2])
		return
	}
	binary.LittleEndian.PutUint16(scratch[20:22], h.ClientIndex)
	binary.LittleEndian.PutUint16(scratch[22:24], h.ObjectVersion)
	binary.LittleEndian.PutUint64(scratch[24:32], h.Timestamp)
	buf.Write(scratch[:headerSizeV1])
}
