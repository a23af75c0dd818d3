package blf

import (
	"bytes"

	"github.com/klauspost/compress/zlib"
)

// WriterOptions controls how Marshal lays out the object stream.
type WriterOptions struct {
	// Direct emits records as top-level objects without container
	// wrapping. Mostly useful for small test fixtures.
	Direct bool

	// Compress selects zlib container payloads; when false containers
	// are written with the stored (uncompressed) method.
	Compress bool

	// CompressionLevel is the zlib level; 0 means zlib.DefaultCompression.
	CompressionLevel int

	// RecordsPerContainer bounds how many records share one container;
	// 0 means 128.
	RecordsPerContainer int
}

// DefaultWriterOptions matches what the capture tooling produces:
// zlib-compressed containers of 128 records.
func DefaultWriterOptions() WriterOptions {
	return WriterOptions{Compress: true, RecordsPerContainer: 128}
}

// EncodeRecord serializes one record as a standalone object. The
// record's header size fields are recomputed from the payload actually
// produced; stored values are never trusted.
func EncodeRecord(r Record) []byte {
	var payload bytes.Buffer
	r.appendPayload(&payload)
	h := r.Header()
	h.prepare(payload.Len())

	var out bytes.Buffer
	encodeHeader(&out, h)
	out.Write(payload.Bytes())
	return out.Bytes()
}

// Marshal serializes a preamble plus record sequence into a complete
// BLF byte stream the Reader re-parses identically. Every size field —
// per-object, per-container and file-level — is re-derived; the caller
// only controls content, never layout accounting.
func Marshal(stats FileStatistics, records []Record, opts WriterOptions) ([]byte, error) {
	if opts.RecordsPerContainer <= 0 {
		opts.RecordsPerContainer = 128
	}
	if opts.CompressionLevel == 0 {
		opts.CompressionLevel = zlib.DefaultCompression
	}
	method := CompressionNone
	if opts.Compress {
		method = CompressionZlib
	}

	var objects bytes.Buffer
	var uncompressedTotal int

	if opts.Direct {
		for _, rec := range records {
			b := EncodeRecord(rec)
			objects.Write(b)
			uncompressedTotal += len(b)
		}
	} else {
		for start := 0; start < len(records); start += opts.RecordsPerContainer {
			end := start + opts.RecordsPerContainer
			if end > len(records) {
				end = len(records)
			}
			var inner bytes.Buffer
			for _, rec := range records[start:end] {
				inner.Write(EncodeRecord(rec))
			}
			uncompressedTotal += inner.Len()
			if err := encodeContainer(&objects, inner.Bytes(), method, opts.CompressionLevel); err != nil {
				return nil, err
			}
		}
	}

	if stats.StatisticsSize != StatisticsSizeBase && stats.StatisticsSize != StatisticsSizeFull {
		stats.StatisticsSize = StatisticsSizeFull
	}
	stats.ObjectCount = uint32(len(records))
	stats.FileSize = uint64(int(stats.StatisticsSize) + objects.Len())
	stats.UncompressedFileSize = uint64(int(stats.StatisticsSize) + uncompressedTotal)

	var out bytes.Buffer
	out.Grow(int(stats.StatisticsSize) + objects.Len())
	encodeFileStatistics(&out, &stats)
	out.Write(objects.Bytes())
	return out.Bytes(), nil
}
