package blf

import (
	"bytes"
	"encoding/binary"
	"math"
)

// LINMessage is a classic LIN frame (object type 11).
type LINMessage struct {
	ObjectHeader
	Channel    uint16
	ID         uint8
	DLC        uint8
	Data       [8]byte
	FSMID      uint8
	FSMState   uint8
	HeaderTime uint8
	FullTime   uint8
	CRC        uint16
	Dir        uint8
}

func (r *LINMessage) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeLINMessage(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 20 {
		return nil, ErrTruncatedData
	}
	r := &LINMessage{ObjectHeader: h}
	r.Channel = binary.LittleEndian.Uint16(payload[0:2])
	r.ID = payload[2]
	r.DLC = payload[3]
	copy(r.Data[:], payload[4:12])
	r.FSMID = payload[12]
	r.FSMState = payload[13]
	r.HeaderTime = payload[14]
	r.FullTime = payload[15]
	r.CRC = binary.LittleEndian.Uint16(payload[16:18])
	r.Dir = payload[18]
	return r, nil
}

func (r *LINMessage) appendPayload(buf *bytes.Buffer) {
	var b [20]byte
	binary.LittleEndian.PutUint16(b[0:2], r.Channel)
	b[2] = r.ID
	b[3] = r.DLC
	copy(b[4:12], r.Data[:])
	b[12] = r.FSMID
	b[13] = r.FSMState
	b[14] = r.HeaderTime
	b[15] = r.FullTime
	binary.LittleEndian.PutUint16(b[16:18], r.CRC)
	b[18] = r.Dir
	buf.Write(b[:])
}

// LINMessage2 is the revised LIN frame event (object type 57).
type LINMessage2 struct {
	ObjectHeader
	Channel       uint16
	ID            uint8
	DLC           uint8
	Data          [8]byte
	CRC           uint16
	Dir           uint8
	Simulated     uint8
	IsETF         uint8
	ETFAssocIndex uint8
	ETFAssocETFID uint8
	FSMID         uint8
	FSMState      uint8
}

func (r *LINMessage2) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeLINMessage2(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 24 {
		return nil, ErrTruncatedData
	}
	r := &LINMessage2{ObjectHeader: h}
	r.Channel = binary.LittleEndian.Uint16(payload[0:2])
	r.ID = payload[2]
	r.DLC = payload[3]
	copy(r.Data[:], payload[4:12])
	r.CRC = binary.LittleEndian.Uint16(payload[12:14])
	r.Dir = payload[14]
	r.Simulated = payload[15]
	r.IsETF = payload[16]
	r.ETFAssocIndex = payload[17]
	r.ETFAssocETFID = payload[18]
	r.FSMID = payload[19]
	r.FSMState = payload[20]
	return r, nil
}

func (r *LINMessage2) appendPayload(buf *bytes.Buffer) {
	var b [24]byte
	binary.LittleEndian.PutUint16(b[0:2], r.Channel)
	b[2] = r.ID
	b[3] = r.DLC
	copy(b[4:12], r.Data[:])
	binary.LittleEndian.PutUint16(b[12:14], r.CRC)
	b[14] = r.Dir
	b[15] = r.Simulated
	b[16] = r.IsETF
	b[17] = r.ETFAssocIndex
	b[18] = r.ETFAssocETFID
	b[19] = r.FSMID
	b[20] = r.FSMState
	buf.Write(b[:])
}

// LINCRCError (object type 12) mirrors the frame layout of LINMessage.
type LINCRCError struct {
	ObjectHeader
	Channel    uint16
	ID         uint8
	DLC        uint8
	Data       [8]byte
	FSMID      uint8
	FSMState   uint8
	HeaderTime uint8
	FullTime   uint8
	CRC        uint16
	Dir        uint8
}

func (r *LINCRCError) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeLINCRCError(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 20 {
		return nil, ErrTruncatedData
	}
	r := &LINCRCError{ObjectHeader: h}
	r.Channel = binary.LittleEndian.Uint16(payload[0:2])
	r.ID = payload[2]
	r.DLC = payload[3]
	copy(r.Data[:], payload[4:12])
	r.FSMID = payload[12]
	r.FSMState = payload[13]
	r.HeaderTime = payload[14]
	r.FullTime = payload[15]
	r.CRC = binary.LittleEndian.Uint16(payload[16:18])
	r.Dir = payload[18]
	return r, nil
}

func (r *LINCRCError) appendPayload(buf *bytes.Buffer) {
	var b [20]byte
	binary.LittleEndian.PutUint16(b[0:2], r.Channel)
	b[2] = r.ID
	b[3] = r.DLC
	copy(b[4:12], r.Data[:])
	b[12] = r.FSMID
	b[13] = r.FSMState
	b[14] = r.HeaderTime
	b[15] = r.FullTime
	binary.LittleEndian.PutUint16(b[16:18], r.CRC)
	b[18] = r.Dir
	buf.Write(b[:])
}

// LINReceiveError (object type 14).
type LINReceiveError struct {
	ObjectHeader
	Channel       uint16
	ID            uint8
	DLC           uint8
	FSMID         uint8
	FSMState      uint8
	HeaderTime    uint8
	FullTime      uint8
	StateReason   uint8
	OffendingByte uint8
	ShortError    uint8
	TimeoutDuringDLCDetection uint8
}

func (r *LINReceiveError) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeLINReceiveError(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 12 {
		return nil, ErrTruncatedData
	}
	r := &LINReceiveError{ObjectHeader: h}
	r.Channel = binary.LittleEndian.Uint16(payload[0:2])
	r.ID = payload[2]
	r.DLC = payload[3]
	r.FSMID = payload[4]
	r.FSMState = payload[5]
	r.HeaderTime = payload[6]
	r.FullTime = payload[7]
	r.StateReason = payload[8]
	r.OffendingByte = payload[9]
	r.ShortError = payload[10]
	r.TimeoutDuringDLCDetection = payload[11]
	return r, nil
}

func (r *LINReceiveError) appendPayload(buf *bytes.Buffer) {
	var b [12]byte
	binary.LittleEndian.PutUint16(b[0:2], r.Channel)
	b[2] = r.ID
	b[3] = r.DLC
	b[4] = r.FSMID
	b[5] = r.FSMState
	b[6] = r.HeaderTime
	b[7] = r.FullTime
	b[8] = r.StateReason
	b[9] = r.OffendingByte
	b[10] = r.ShortError
	b[11] = r.TimeoutDuringDLCDetection
	buf.Write(b[:])
}

// LINSendError (object type 15).
type LINSendError struct {
	ObjectHeader
	Channel    uint16
	ID         uint8
	DLC        uint8
	FSMID      uint8
	FSMState   uint8
	HeaderTime uint8
	FullTime   uint8
}

func (r *LINSendError) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeLINSendError(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 8 {
		return nil, ErrTruncatedData
	}
	r := &LINSendError{ObjectHeader: h}
	r.Channel = binary.LittleEndian.Uint16(payload[0:2])
	r.ID = payload[2]
	r.DLC = payload[3]
	r.FSMID = payload[4]
	r.FSMState = payload[5]
	r.HeaderTime = payload[6]
	r.FullTime = payload[7]
	return r, nil
}

func (r *LINSendError) appendPayload(buf *bytes.Buffer) {
	var b [8]byte
	binary.LittleEndian.PutUint16(b[0:2], r.Channel)
	b[2] = r.ID
	b[3] = r.DLC
	b[4] = r.FSMID
	b[5] = r.FSMState
	b[6] = r.HeaderTime
	b[7] = r.FullTime
	buf.Write(b[:])
}

// LINSleepMode (object type 20).
type LINSleepMode struct {
	ObjectHeader
	Channel uint16
	Reason  uint8
	Flags   uint8
}

func (r *LINSleepMode) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeLINSleepMode(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 4 {
		return nil, ErrTruncatedData
	}
	return &LINSleepMode{
		ObjectHeader: h,
		Channel:      binary.LittleEndian.Uint16(payload[0:2]),
		Reason:       payload[2],
		Flags:        payload[3],
	}, nil
}

func (r *LINSleepMode) appendPayload(buf *bytes.Buffer) {
	var b [4]byte
	binary.LittleEndian.PutUint16(b[0:2], r.Channel)
	b[2] = r.Reason
	b[3] = r.Flags
	buf.Write(b[:])
}

// LINWakeup (object type 21).
type LINWakeup struct {
	ObjectHeader
	Channel  uint16
	Signal   uint8
	External uint8
}

func (r *LINWakeup) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeLINWakeup(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 4 {
		return nil, ErrTruncatedData
	}
	return &LINWakeup{
		ObjectHeader: h,
		Channel:      binary.LittleEndian.Uint16(payload[0:2]),
		Signal:       payload[2],
		External:     payload[3],
	}, nil
}

func (r *LINWakeup) appendPayload(buf *bytes.Buffer) {
	var b [4]byte
	binary.LittleEndian.PutUint16(b[0:2], r.Channel)
	b[2] = r.Signal
	b[3] = r.External
	buf.Write(b[:])
}

// LINStatistic (object type 54). Metadata only.
type LINStatistic struct {
	ObjectHeader
	Channel          uint16
	BusLoad          float64
	BurstsTotal      uint32
	BurstsOverrun    uint32
	FramesSent       uint32
	FramesReceived   uint32
	FramesUnanswered uint32
}

func (r *LINStatistic) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeLINStatistic(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 32 {
		return nil, ErrTruncatedData
	}
	r := &LINStatistic{ObjectHeader: h}
	r.Channel = binary.LittleEndian.Uint16(payload[0:2])
	r.BusLoad = math.Float64frombits(binary.LittleEndian.Uint64(payload[4:12]))
	r.BurstsTotal = binary.LittleEndian.Uint32(payload[12:16])
	r.BurstsOverrun = binary.LittleEndian.Uint32(payload[16:20])
	r.FramesSent = binary.LittleEndian.Uint32(payload[20:24])
	r.FramesReceived = binary.LittleEndian.Uint32(payload[24:28])
	r.FramesUnanswered = binary.LittleEndian.Uint32(payload[28:32])
	return r, nil
}

func (r *LINStatistic) appendPayload(buf *bytes.Buffer) {
	var b [32]byte
	binary.LittleEndian.PutUint16(b[0:2], r.Channel)
	binary.LittleEndian.PutUint64(b[4:12], math.Float64bits(r.BusLoad))
	binary.LittleEndian.PutUint32(b[12:16], r.BurstsTotal)
	binary.LittleEndian.PutUint32(b[16:20], r.BurstsOverrun)
	binary.LittleEndian.PutUint32(b[20:24], r.FramesSent)
	binary.LittleEndian.PutUint32(b[24:28], r.FramesReceived)
	binary.LittleEndian.PutUint32(b[28:32], r.FramesUnanswered)
	buf.Write(b[:])
}
