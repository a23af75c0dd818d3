package blf

import (
	"bytes"
	"encoding/binary"
	"time"
)

// File preamble wire constants.
const (
	fileMagic = "LOGG"

	// Two preamble sizes exist in the wild. The larger layout inserts a
	// 12-byte reserved block between the object count and the
	// application identification fields; everything else is identical.
	StatisticsSizeBase = 132
	StatisticsSizeFull = 144

	statisticsReservedTail = 60
)

// SystemTime holds the calendar fields of a measurement timestamp as
// stored on the wire (eight 16-bit values).
type SystemTime struct {
	Year         uint16
	Month        uint16
	DayOfWeek    uint16
	Day          uint16
	Hour         uint16
	Minute       uint16
	Second       uint16
	Milliseconds uint16
}

// Time converts the calendar fields to a time.Time in UTC. A zero
// SystemTime converts to the zero time.
func (st SystemTime) Time() time.Time {
	if st.Year == 0 {
		return time.Time{}
	}
	return time.Date(int(st.Year), time.Month(st.Month), int(st.Day),
		int(st.Hour), int(st.Minute), int(st.Second),
		int(st.Milliseconds)*int(time.Millisecond), time.UTC)
}

func systemTimeFrom(t time.Time) SystemTime {
	if t.IsZero() {
		return SystemTime{}
	}
	t = t.UTC()
	return SystemTime{
		Year:         uint16(t.Year()),
		Month:        uint16(t.Month()),
		DayOfWeek:    uint16(t.Weekday()),
		Day:          uint16(t.Day()),
		Hour:         uint16(t.Hour()),
		Minute:       uint16(t.Minute()),
		Second:       uint16(t.Second()),
		Milliseconds: uint16(t.Nanosecond() / int(time.Millisecond)),
	}
}

// FileStatistics is the file-level preamble: size metadata, the
// producing application's identity and the measurement start time.
type FileStatistics struct {
	StatisticsSize       uint32 // 132 or 144
	FileSize             uint64
	UncompressedFileSize uint64
	ObjectCount          uint32
	ApplicationID        uint8
	CompressionLevel     uint8
	ApplicationMajor     uint8
	ApplicationMinor     uint8
	ApplicationBuild     uint32
	APINumber            uint32
	MeasurementStart     SystemTime
	LastObjectTime       SystemTime
}

// StartTime returns the measurement start as a time.Time.
func (fs *FileStatistics) StartTime() time.Time { return fs.MeasurementStart.Time() }

// decodeFileStatistics parses the preamble from the start of b. The
// layout variant is chosen from the declared statisticsSize, falling
// back to the available byte count when the declared value is not one
// of the two known sizes.
func decodeFileStatistics(b []byte) (FileStatistics, error) {
	var fs FileStatistics
	if len(b) < StatisticsSizeBase {
		return fs, ErrTruncatedData
	}
	if string(b[0:4]) != fileMagic {
		return fs, ErrInvalidMagic
	}
	fs.StatisticsSize = binary.LittleEndian.Uint32(b[4:8])
	size := int(fs.StatisticsSize)
	if size != StatisticsSizeBase && size != StatisticsSizeFull {
		if len(b) >= StatisticsSizeFull {
			size = StatisticsSizeFull
		} else {
			size = StatisticsSizeBase
		}
		fs.StatisticsSize = uint32(size)
	}
	if len(b) < size {
		return fs, ErrTruncatedData
	}

	fs.FileSize = binary.LittleEndian.Uint64(b[8:16])
	fs.UncompressedFileSize = binary.LittleEndian.Uint64(b[16:24])
	fs.ObjectCount = binary.LittleEndian.Uint32(b[24:28])

	off := 28
	if size == StatisticsSizeFull {
		off += 12 // reserved block, skipped, never data
	}
	fs.ApplicationID = b[off]
	fs.CompressionLevel = b[off+1]
	fs.ApplicationMajor = b[off+2]
	fs.ApplicationMinor = b[off+3]
	fs.ApplicationBuild = binary.LittleEndian.Uint32(b[off+4 : off+8])
	fs.APINumber = binary.LittleEndian.Uint32(b[off+8 : off+12])

	off += 12 + statisticsReservedTail
	fs.MeasurementStart = decodeSystemTime(b[off : off+16])
	fs.LastObjectTime = decodeSystemTime(b[off+16 : off+32])
	return fs, nil
}

// encodeFileStatistics appends the wire form of fs to buf. Size fields
// other than StatisticsSize are the caller's responsibility (the writer
// recomputes them after the object stream is known).
func encodeFileStatistics(buf *bytes.Buffer, fs *FileStatistics) {
	size := int(fs.StatisticsSize)
	if size != StatisticsSizeBase && size != StatisticsSizeFull {
		size = StatisticsSizeFull
		fs.StatisticsSize = StatisticsSizeFull
	}
	scratch := make([]byte, size)
	copy(scratch[0:4], fileMagic)
	binary.LittleEndian.PutUint32(scratch[4:8], fs.StatisticsSize)
	binary.LittleEndian.PutUint64(scratch[8:16], fs.FileSize)
	binary.LittleEndian.PutUint64(scratch[16:24], fs.UncompressedFileSize)
	binary.LittleEndian.PutUint32(scratch[24:28], fs.ObjectCount)

	off := 28
	if size == StatisticsSizeFull {
		off += 12
	}
	scratch[off] = fs.ApplicationID
	scratch[off+1] = fs.CompressionLevel
	scratch[off+2] = fs.ApplicationMajor
	scratch[off+3] = fs.ApplicationMinor
	binary.LittleEndian.PutUint32(scratch[off+4:off+8], fs.ApplicationBuild)
	binary.LittleEndian.PutUint32(scratch[off+8:off+12], fs.APINumber)

	off += 12 + statisticsReservedTail
	encodeSystemTime(scratch[off:off+16], fs.MeasurementStart)
	encodeSystemTime(scratch[off+16:off+32], fs.LastObjectTime)
	buf.Write(scratch)
}

func decodeSystemTime(b []byte) SystemTime {
	return SystemTime{
		Year:         binary.LittleEndian.Uint16(b[0:2]),
		Month:        binary.LittleEndian.Uint16(b[2:4]),
		DayOfWeek:    binary.LittleEndian.Uint16(b[4:6]),
		Day:          binary.LittleEndian.Uint16(b[6:8]),
		Hour:         binary.LittleEndian.Uint16(b[8:10]),
		Minute:       binary.LittleEndian.Uint16(b[10:12]),
		Second:       binary.LittleEndian.Uint16(b[12:14]),
		Milliseconds: binary.LittleEndian.Uint16(b[14:16]),
	}
}

func encodeSystemTime(b []byte, st SystemTime) {
	binary.LittleEndian.PutUint16(b[0:2], st.Year)
	binary.LittleEndian.PutUint16(b[2:4], st.Month)
	binary.LittleEndian.PutUint16(b[4:6], st.DayOfWeek)
	binary.LittleEndian.PutUint16(b[6:8], st.Day)
	binary.LittleEndian.PutUint16(b[8:10], st.Hour)
	binary.LittleEndian.PutUint16(b[10:12], st.Minute)
	binary.LittleEndian.PutUint16(b[12:14], st.Second)
	binary.LittleEndian.PutUint16(b[14:16], st.Milliseconds)
}
