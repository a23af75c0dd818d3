// Package parser turns bus log files into record views. Concrete
// parsers register with the Registry and are selected by content
// sniffing; the heavyweight BLF path streams records straight into a
// DuckDB-backed RecordStore so files larger than RAM stay parseable.
package parser

import (
	"time"

	"github.com/buslog-visualizer/backend/internal/models"
)

// ProgressCallback is called periodically during parsing to report progress.
type ProgressCallback func(recordsProcessed int, bytesProcessed int64, totalBytes int64)

// Parser defines the interface for log file parsers.
type Parser interface {
	// Name returns the unique name of the parser.
	Name() string
	// CanParse returns true if this parser can handle the given file.
	CanParse(filePath string) (bool, error)
	// Parse parses the entire file and returns the result.
	Parse(filePath string) (*models.ParsedRecords, []*models.ParseError, error)
	// ParseWithProgress parses with progress callbacks for large files.
	ParseWithProgress(filePath string, onProgress ProgressCallback) (*models.ParsedRecords, []*models.ParseError, error)
}

// StoreParser is implemented by parsers that can stream records into a
// RecordStore instead of building the full result in memory.
type StoreParser interface {
	Parser
	ParseToStore(filePath string, store *RecordStore, onProgress ProgressCallback) ([]*models.ParseError, error)
}

const hexDigits = "0123456789ABCDEF"

// hexBytes renders frame payload bytes as space-separated uppercase
// hex, the form the viewer displays verbatim.
func hexBytes(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	out := make([]byte, 0, len(data)*3-1)
	for i, b := range data {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, hexDigits[b>>4], hexDigits[b&0x0F])
	}
	return string(out)
}

// viewTimestamp derives the absolute wall-clock time for a record from
// the measurement start; files without a start time fall back to the
// Unix epoch so relative ordering still holds.
func viewTimestamp(start time.Time, nanos uint64) time.Time {
	if start.IsZero() {
		start = time.Unix(0, 0).UTC()
	}
	return start.Add(time.Duration(nanos))
}
