package blf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Log container compression methods.
const (
	CompressionNone uint16 = 0
	CompressionZlib uint16 = 2
)

// containerFixedSize is the container-specific header inside the
// object payload: compressionMethod(2) reserved(6) uncompressedSize(4)
// reserved(4). The compressed blob follows.
const containerFixedSize = 16

// decodeContainerPayload inflates a log container's payload into the
// inner object stream. The payload length is objectSize − headerSize;
// the embedded uncompressed-size hint pre-sizes the output buffer. The
// returned buffer is transient: the reader discards it after the inner
// records are extracted.
func decodeContainerPayload(payload []byte) ([]byte, error) {
	if len(payload) < containerFixedSize {
		return nil, ErrTruncatedData
	}
	method := binary.LittleEndian.Uint16(payload[0:2])
	hint := binary.LittleEndian.Uint32(payload[8:12])
	blob := payload[containerFixedSize:]

	switch method {
	case CompressionNone:
		return append([]byte(nil), blob...), nil
	case CompressionZlib:
		zr, err := zlib.NewReader(bytes.NewReader(blob))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
		}
		defer zr.Close()
		out := bytes.NewBuffer(make([]byte, 0, hint))
		if _, err := io.Copy(out, zr); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
		}
		return out.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: unknown compression method %d", ErrDecompression, method)
	}
}

// encodeContainer appends a complete log container object wrapping the
// already-encoded inner object stream. Size fields are computed from
// the actual bytes produced, never caller-supplied.
func encodeContainer(buf *bytes.Buffer, inner []byte, method uint16, level int) error {
	var blob []byte
	switch method {
	case CompressionNone:
		blob = inner
	case CompressionZlib:
		var compressed bytes.Buffer
		zw, err := zlib.NewWriterLevel(&compressed, level)
		if err != nil {
			return fmt.Errorf("creating zlib writer: %w", err)
		}
		if _, err := zw.Write(inner); err != nil {
			return fmt.Errorf("compressing container: %w", err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("compressing container: %w", err)
		}
		blob = compressed.Bytes()
	default:
		return fmt.Errorf("unknown compression method %d", method)
	}

	h := ObjectHeader{}
	h.Type = ObjectTypeLogContainer
	h.prepare(containerFixedSize + len(blob))

	encodeHeader(buf, &h)
	var fixed [containerFixedSize]byte
	binary.LittleEndian.PutUint16(fixed[0:2], method)
	binary.LittleEndian.PutUint32(fixed[8:12], uint32(len(inner)))
	buf.Write(fixed[:])
	buf.Write(blob)
	return nil
}
