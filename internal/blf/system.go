package blf

import (
	"bytes"
	"encoding/binary"
)

// AppTrigger (object type 5). Metadata only.
type AppTrigger struct {
	ObjectHeader
	PreTriggerTime  uint64
	PostTriggerTime uint64
	Channel         uint16
	Flags           uint16
	AppSpecific     uint32
}

func (r *AppTrigger) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeAppTrigger(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 24 {
		return nil, ErrTruncatedData
	}
	return &AppTrigger{
		ObjectHeader:    h,
		PreTriggerTime:  binary.LittleEndian.Uint64(payload[0:8]),
		PostTriggerTime: binary.LittleEndian.Uint64(payload[8:16]),
		Channel:         binary.LittleEndian.Uint16(payload[16:18]),
		Flags:           binary.LittleEndian.Uint16(payload[18:20]),
		AppSpecific:     binary.LittleEndian.Uint32(payload[20:24]),
	}, nil
}

func (r *AppTrigger) appendPayload(buf *bytes.Buffer) {
	var b [24]byte
	binary.LittleEndian.PutUint64(b[0:8], r.PreTriggerTime)
	binary.LittleEndian.PutUint64(b[8:16], r.PostTriggerTime)
	binary.LittleEndian.PutUint16(b[16:18], r.Channel)
	binary.LittleEndian.PutUint16(b[18:20], r.Flags)
	binary.LittleEndian.PutUint32(b[20:24], r.AppSpecific)
	buf.Write(b[:])
}

// AppText (object type 65): free-form text from the producing tool.
type AppText struct {
	ObjectHeader
	Source uint32
	Text   string
}

const appTextFixedSize = 16

func (r *AppText) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeAppText(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < appTextFixedSize {
		return nil, ErrTruncatedData
	}
	r := &AppText{ObjectHeader: h}
	r.Source = binary.LittleEndian.Uint32(payload[0:4])
	n := int(binary.LittleEndian.Uint32(payload[8:12]))
	if rest := len(payload) - appTextFixedSize; n > rest {
		n = rest
	}
	r.Text = string(trimNUL(payload[appTextFixedSize : appTextFixedSize+n]))
	return r, nil
}

func (r *AppText) appendPayload(buf *bytes.Buffer) {
	var b [appTextFixedSize]byte
	binary.LittleEndian.PutUint32(b[0:4], r.Source)
	binary.LittleEndian.PutUint32(b[8:12], uint32(len(r.Text)))
	buf.Write(b[:])
	buf.WriteString(r.Text)
}

// EventComment (object type 92): a user comment attached to an event.
type EventComment struct {
	ObjectHeader
	CommentedEventType uint32
	Text               string
}

const eventCommentFixedSize = 16

func (r *EventComment) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeEventComment(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < eventCommentFixedSize {
		return nil, ErrTruncatedData
	}
	r := &EventComment{ObjectHeader: h}
	r.CommentedEventType = binary.LittleEndian.Uint32(payload[0:4])
	n := int(binary.LittleEndian.Uint32(payload[4:8]))
	if rest := len(payload) - eventCommentFixedSize; n > rest {
		n = rest
	}
	r.Text = string(trimNUL(payload[eventCommentFixedSize : eventCommentFixedSize+n]))
	return r, nil
}

func (r *EventComment) appendPayload(buf *bytes.Buffer) {
	var b [eventCommentFixedSize]byte
	binary.LittleEndian.PutUint32(b[0:4], r.CommentedEventType)
	binary.LittleEndian.PutUint32(b[4:8], uint32(len(r.Text)))
	buf.Write(b[:])
	buf.WriteString(r.Text)
}

// GlobalMarker (object type 96): a named marker set in the measurement.
type GlobalMarker struct {
	ObjectHeader
	CommentedEventType uint32
	ForegroundColor    uint32
	BackgroundColor    uint32
	IsRelocatable      uint8
	GroupName          string
	MarkerName         string
	Description        string
}

const globalMarkerFixedSize = 28

func (r *GlobalMarker) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeGlobalMarker(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < globalMarkerFixedSize {
		return nil, ErrTruncatedData
	}
	r := &GlobalMarker{ObjectHeader: h}
	r.CommentedEventType = binary.LittleEndian.Uint32(payload[0:4])
	r.ForegroundColor = binary.LittleEndian.Uint32(payload[4:8])
	r.BackgroundColor = binary.LittleEndian.Uint32(payload[8:12])
	r.IsRelocatable = payload[12]
	groupLen := int(binary.LittleEndian.Uint32(payload[16:20]))
	markerLen := int(binary.LittleEndian.Uint32(payload[20:24]))
	descLen := int(binary.LittleEndian.Uint32(payload[24:28]))

	rest := payload[globalMarkerFixedSize:]
	take := func(n int) string {
		if n > len(rest) {
			n = len(rest)
		}
		s := string(trimNUL(rest[:n]))
		rest = rest[n:]
		return s
	}
	r.GroupName = take(groupLen)
	r.MarkerName = take(markerLen)
	r.Description = take(descLen)
	return r, nil
}

func (r *GlobalMarker) appendPayload(buf *bytes.Buffer) {
	var b [globalMarkerFixedSize]byte
	binary.LittleEndian.PutUint32(b[0:4], r.CommentedEventType)
	binary.LittleEndian.PutUint32(b[4:8], r.ForegroundColor)
	binary.LittleEndian.PutUint32(b[8:12], r.BackgroundColor)
	b[12] = r.IsRelocatable
	binary.LittleEndian.PutUint32(b[16:20], uint32(len(r.GroupName)))
	binary.LittleEndian.PutUint32(b[20:24], uint32(len(r.MarkerName)))
	binary.LittleEndian.PutUint32(b[24:28], uint32(len(r.Description)))
	buf.Write(b[:])
	buf.WriteString(r.GroupName)
	buf.WriteString(r.MarkerName)
	buf.WriteString(r.Description)
}

// RealTimeClock (object type 51) anchors the relative timebase.
type RealTimeClock struct {
	ObjectHeader
	Time          uint64
	LoggingOffset uint64
}

func (r *RealTimeClock) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeRealTimeClock(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 16 {
		return nil, ErrTruncatedData
	}
	return &RealTimeClock{
		ObjectHeader:  h,
		Time:          binary.LittleEndian.Uint64(payload[0:8]),
		LoggingOffset: binary.LittleEndian.Uint64(payload[8:16]),
	}, nil
}

func (r *RealTimeClock) appendPayload(buf *bytes.Buffer) {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], r.Time)
	binary.LittleEndian.PutUint64(b[8:16], r.LoggingOffset)
	buf.Write(b[:])
}

// DriverOverrun (object type 91): the logging driver dropped events.
type DriverOverrun struct {
	ObjectHeader
	BusType uint32
	Channel uint16
}

func (r *DriverOverrun) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeDriverOverrun(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 8 {
		return nil, ErrTruncatedData
	}
	return &DriverOverrun{
		ObjectHeader: h,
		BusType:      binary.LittleEndian.Uint32(payload[0:4]),
		Channel:      binary.LittleEndian.Uint16(payload[4:6]),
	}, nil
}

func (r *DriverOverrun) appendPayload(buf *bytes.Buffer) {
	var b [8]byte
	binary.LittleEndian.PutUint32(b[0:4], r.BusType)
	binary.LittleEndian.PutUint16(b[4:6], r.Channel)
	buf.Write(b[:])
}

// DataLostBegin (object type 125).
type DataLostBegin struct {
	ObjectHeader
	QueueIdentifier uint32
}

func (r *DataLostBegin) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeDataLostBegin(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 4 {
		return nil, ErrTruncatedData
	}
	return &DataLostBegin{
		ObjectHeader:    h,
		QueueIdentifier: binary.LittleEndian.Uint32(payload[0:4]),
	}, nil
}

func (r *DataLostBegin) appendPayload(buf *bytes.Buffer) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[0:4], r.QueueIdentifier)
	buf.Write(b[:])
}

// DataLostEnd (object type 126).
type DataLostEnd struct {
	ObjectHeader
	QueueIdentifier     uint32
	FirstObjectLostTime uint64
	NumberOfLostEvents  uint32
}

func (r *DataLostEnd) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeDataLostEnd(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 16 {
		return nil, ErrTruncatedData
	}
	return &DataLostEnd{
		ObjectHeader:        h,
		QueueIdentifier:     binary.LittleEndian.Uint32(payload[0:4]),
		FirstObjectLostTime: binary.LittleEndian.Uint64(payload[4:12]),
		NumberOfLostEvents:  binary.LittleEndian.Uint32(payload[12:16]),
	}, nil
}

func (r *DataLostEnd) appendPayload(buf *bytes.Buffer) {
	var b [16]byte
	binary.LittleEndian.PutUint32(b[0:4], r.QueueIdentifier)
	binary.LittleEndian.PutUint64(b[4:12], r.FirstObjectLostTime)
	binary.LittleEndian.PutUint32(b[12:16], r.NumberOfLostEvents)
	buf.Write(b[:])
}

// EnvironmentVariable covers the four environment value events
// (object types 6-9); the type tag distinguishes the value kind.
type EnvironmentVariable struct {
	ObjectHeader
	Name string
	Data []byte
}

const environmentVariableFixedSize = 16

func (r *EnvironmentVariable) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeEnvironmentVariable(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < environmentVariableFixedSize {
		return nil, ErrTruncatedData
	}
	r := &EnvironmentVariable{ObjectHeader: h}
	nameLen := int(binary.LittleEndian.Uint32(payload[0:4]))
	dataLen := int(binary.LittleEndian.Uint32(payload[4:8]))
	rest := payload[environmentVariableFixedSize:]
	if nameLen > len(rest) {
		nameLen = len(rest)
	}
	r.Name = string(trimNUL(rest[:nameLen]))
	rest = rest[nameLen:]
	if dataLen > len(rest) {
		dataLen = len(rest)
	}
	r.Data = append([]byte(nil), rest[:dataLen]...)
	return r, nil
}

func (r *EnvironmentVariable) appendPayload(buf *bytes.Buffer) {
	var b [environmentVariableFixedSize]byte
	binary.LittleEndian.PutUint32(b[0:4], uint32(len(r.Name)))
	binary.LittleEndian.PutUint32(b[4:8], uint32(len(r.Data)))
	buf.Write(b[:])
	buf.WriteString(r.Name)
	buf.Write(r.Data)
}

// SystemVariable (object type 72).
type SystemVariable struct {
	ObjectHeader
	VarType        uint32
	Representation uint32
	Name           string
	Data           []byte
}

const systemVariableFixedSize = 24

func (r *SystemVariable) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeSystemVariable(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < systemVariableFixedSize {
		return nil, ErrTruncatedData
	}
	r := &SystemVariable{ObjectHeader: h}
	r.VarType = binary.LittleEndian.Uint32(payload[0:4])
	r.Representation = binary.LittleEndian.Uint32(payload[4:8])
	nameLen := int(binary.LittleEndian.Uint32(payload[16:20]))
	dataLen := int(binary.LittleEndian.Uint32(payload[20:24]))
	rest := payload[systemVariableFixedSize:]
	if nameLen > len(rest) {
		nameLen = len(rest)
	}
	r.Name = string(trimNUL(rest[:nameLen]))
	rest = rest[nameLen:]
	if dataLen > len(rest) {
		dataLen = len(rest)
	}
	r.Data = append([]byte(nil), rest[:dataLen]...)
	return r, nil
}

func (r *SystemVariable) appendPayload(buf *bytes.Buffer) {
	var b [systemVariableFixedSize]byte
	binary.LittleEndian.PutUint32(b[0:4], r.VarType)
	binary.LittleEndian.PutUint32(b[4:8], r.Representation)
	binary.LittleEndian.PutUint32(b[16:20], uint32(len(r.Name)))
	binary.LittleEndian.PutUint32(b[20:24], uint32(len(r.Data)))
	buf.Write(b[:])
	buf.WriteString(r.Name)
	buf.Write(r.Data)
}

func trimNUL(b []byte) []byte {
	for len(b) > 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	return b
}
