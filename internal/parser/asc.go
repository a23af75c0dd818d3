package parser

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/buslog-visualizer/backend/internal/models"
)

// ASCParser handles Vector ASC plaintext CAN logs.
// Frame lines look like:
//
//	0.001234 1  18Fx  Rx d 8 01 02 03 04 05 06 07 08
//
// with a header block carrying the measurement date and number base.
type ASCParser struct {
	frameRegex *regexp.Regexp
	errorRegex *regexp.Regexp
}

func NewASCParser() *ASCParser {
	return &ASCParser{
		frameRegex: regexp.MustCompile(`^\s*(\d+\.\d+)\s+(\d+)\s+([0-9A-Fa-f]+)(x?)\s+(Rx|Tx)\s+([dr])\s+(\d+)((?:\s+[0-9A-Fa-f]{1,2})*)\s*$`),
		errorRegex: regexp.MustCompile(`^\s*(\d+\.\d+)\s+(\d+)\s+ErrorFrame`),
	}
}

func (p *ASCParser) Name() string {
	return "asc"
}

// CanParse samples the first lines; a mix of ASC header keywords and
// frame lines is enough to claim the file.
func (p *ASCParser) CanParse(filePath string) (bool, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	checked := 0
	matched := 0
	for scanner.Scan() && checked < 10 {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		checked++
		if p.isHeaderLine(line) || p.frameRegex.MatchString(line) || p.errorRegex.MatchString(line) {
			matched++
		}
	}

	return checked > 0 && float64(matched)/float64(checked) >= 0.6, nil
}

func (p *ASCParser) isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	switch {
	case strings.HasPrefix(lower, "date "),
		strings.HasPrefix(lower, "base "),
		strings.HasPrefix(lower, "internal events logged"),
		strings.HasPrefix(lower, "no internal events logged"),
		strings.HasPrefix(lower, "begin triggerblock"),
		strings.HasPrefix(lower, "end triggerblock"),
		strings.HasPrefix(lower, "//"):
		return true
	}
	return false
}

func (p *ASCParser) Parse(filePath string) (*models.ParsedRecords, []*models.ParseError, error) {
	return p.ParseWithProgress(filePath, nil)
}

func (p *ASCParser) ParseWithProgress(filePath string, onProgress ProgressCallback) (*models.ParsedRecords, []*models.ParseError, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, nil, err
	}
	totalBytes := info.Size()

	result := models.NewParsedRecords()
	var parseErrors []*models.ParseError

	start := time.Unix(0, 0).UTC()
	base := 16
	index := 0
	lineNum := 0
	var bytesRead int64

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<20)
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		bytesRead += int64(len(line)) + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		lower := strings.ToLower(trimmed)
		switch {
		case strings.HasPrefix(lower, "date "):
			if t, ok := parseASCDate(trimmed[5:]); ok {
				start = t
			}
			continue
		case strings.HasPrefix(lower, "base "):
			if strings.Contains(lower, "dec") {
				base = 10
			}
			continue
		case p.isHeaderLine(trimmed):
			continue
		}

		if m := p.frameRegex.FindStringSubmatch(line); m != nil {
			rv, err := p.frameView(m, base, index, start)
			if err != nil {
				parseErrors = append(parseErrors, &models.ParseError{
					Line:   lineNum,
					Reason: err.Error(),
				})
				result.Skipped++
				continue
			}
			result.Add(rv)
			index++
		} else if m := p.errorRegex.FindStringSubmatch(line); m != nil {
			rv, err := p.errorView(m, index, start)
			if err != nil {
				parseErrors = append(parseErrors, &models.ParseError{
					Line:   lineNum,
					Reason: err.Error(),
				})
				result.Skipped++
				continue
			}
			result.Add(rv)
			index++
		} else {
			// Event lines like "Start of measurement" are noise here.
			continue
		}

		if onProgress != nil && index%progressInterval == 0 {
			onProgress(index, bytesRead, totalBytes)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", filePath, err)
	}

	return result, parseErrors, nil
}

func (p *ASCParser) frameView(m []string, base, index int, start time.Time) (models.RecordView, error) {
	seconds, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return models.RecordView{}, fmt.Errorf("invalid timestamp %q", m[1])
	}
	channel, err := strconv.ParseUint(m[2], 10, 16)
	if err != nil {
		return models.RecordView{}, fmt.Errorf("invalid channel %q", m[2])
	}
	id, err := strconv.ParseUint(m[3], base, 32)
	if err != nil {
		return models.RecordView{}, fmt.Errorf("invalid frame id %q", m[3])
	}
	if m[4] == "x" {
		id |= 0x80000000
	}
	dlc, err := strconv.ParseUint(m[7], 10, 8)
	if err != nil {
		return models.RecordView{}, fmt.Errorf("invalid dlc %q", m[7])
	}

	nanos := uint64(seconds * 1e9)
	rv := models.RecordView{
		Index:       index,
		Timestamp:   viewTimestamp(start, nanos),
		TimestampNs: nanos,
		Bus:         models.BusCAN,
		Channel:     uint16(channel),
		Type:        "CANMessage",
		FrameID:     uint32(id),
		DLC:         uint8(dlc),
	}
	if m[6] == "d" {
		rv.Data = strings.ToUpper(strings.Join(strings.Fields(m[8]), " "))
	}
	return rv, nil
}

func (p *ASCParser) errorView(m []string, index int, start time.Time) (models.RecordView, error) {
	seconds, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return models.RecordView{}, fmt.Errorf("invalid timestamp %q", m[1])
	}
	channel, err := strconv.ParseUint(m[2], 10, 16)
	if err != nil {
		return models.RecordView{}, fmt.Errorf("invalid channel %q", m[2])
	}

	nanos := uint64(seconds * 1e9)
	return models.RecordView{
		Index:       index,
		Timestamp:   viewTimestamp(start, nanos),
		TimestampNs: nanos,
		Bus:         models.BusCAN,
		Channel:     uint16(channel),
		Type:        "CANErrorFrame",
	}, nil
}

// ascDateLayouts covers the date line variants CANoe and CANalyzer
// emit, with and without the am/pm marker.
var ascDateLayouts = []string{
	"Mon Jan 2 3:04:05.000 pm 2006",
	"Mon Jan 2 03:04:05.000 pm 2006",
	"Mon Jan 2 15:04:05.000 2006",
	"Mon Jan 2 15:04:05 2006",
}

func parseASCDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	// Go's "pm" layout token expects lowercase; normalize AM/PM.
	normalized := strings.ReplaceAll(strings.ReplaceAll(s, " AM ", " am "), " PM ", " pm ")
	for _, layout := range ascDateLayouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
