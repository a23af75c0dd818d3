package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/buslog-visualizer/backend/internal/blf"
	"github.com/buslog-visualizer/backend/internal/models"
)

// progressInterval is how many records pass between progress callbacks.
const progressInterval = 50_000

// BLFParser decodes Vector BLF capture files by driving the lazy
// blf.Reader. Record structs are projected to views one at a time, so
// the only full-file allocation is the input buffer itself.
type BLFParser struct{}

// NewBLFParser creates a BLF parser.
func NewBLFParser() *BLFParser { return &BLFParser{} }

func (p *BLFParser) Name() string { return "blf" }

// CanParse sniffs the file signature; BLF files open with "LOGG".
func (p *BLFParser) CanParse(filePath string) (bool, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer f.Close()

	magic := make([]byte, 4)
	if _, err := io.ReadFull(f, magic); err != nil {
		return false, nil
	}
	return bytes.Equal(magic, []byte("LOGG")), nil
}

func (p *BLFParser) Parse(filePath string) (*models.ParsedRecords, []*models.ParseError, error) {
	return p.ParseWithProgress(filePath, nil)
}

func (p *BLFParser) ParseWithProgress(filePath string, onProgress ProgressCallback) (*models.ParsedRecords, []*models.ParseError, error) {
	r, totalBytes, err := p.open(filePath)
	if err != nil {
		return nil, nil, err
	}

	result := models.NewParsedRecords()
	start := r.StartTime()
	index := 0
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("decoding %s: %w", filePath, err)
		}
		result.Add(recordView(index, start, rec))
		index++
		if onProgress != nil && index%progressInterval == 0 {
			onProgress(index, totalBytes, totalBytes)
		}
	}
	result.Skipped = r.Skipped()

	var parseErrors []*models.ParseError
	if result.Skipped > 0 {
		parseErrors = append(parseErrors, &models.ParseError{
			Reason: fmt.Sprintf("%d malformed objects skipped", result.Skipped),
		})
	}
	return result, parseErrors, nil
}

// ParseToStore streams decoded records into a DuckDB-backed store.
func (p *BLFParser) ParseToStore(filePath string, store *RecordStore, onProgress ProgressCallback) ([]*models.ParseError, error) {
	r, totalBytes, err := p.open(filePath)
	if err != nil {
		return nil, err
	}

	start := r.StartTime()
	index := 0
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", filePath, err)
		}
		store.Add(recordView(index, start, rec))
		index++
		if onProgress != nil && index%progressInterval == 0 {
			onProgress(index, totalBytes, totalBytes)
		}
	}
	if err := store.Finalize(); err != nil {
		return nil, fmt.Errorf("finalizing record store: %w", err)
	}
	store.SetSkipped(r.Skipped())

	var parseErrors []*models.ParseError
	if n := r.Skipped(); n > 0 {
		parseErrors = append(parseErrors, &models.ParseError{
			Reason: fmt.Sprintf("%d malformed objects skipped", n),
		})
	}
	return parseErrors, nil
}

func (p *BLFParser) open(filePath string) (*blf.Reader, int64, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", filePath, err)
	}
	r, err := blf.NewReader(data)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", filePath, err)
	}
	return r, int64(len(data)), nil
}
