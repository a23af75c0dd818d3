package blf

import (
	"bytes"
	"encoding/binary"
)

// CANMessage is a classic CAN 2.0 frame (object type 1). The payload is
// a constant 8 bytes; DLC values above 8 still transport 8 data bytes.
type CANMessage struct {
	ObjectHeader
	Channel uint16
	Flags   uint8
	DLC     uint8
	ID      uint32
	Data    [8]byte
}

func (r *CANMessage) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeCANMessage(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 16 {
		return nil, ErrTruncatedData
	}
	r := &CANMessage{ObjectHeader: h}
	r.Channel = binary.LittleEndian.Uint16(payload[0:2])
	r.Flags = payload[2]
	r.DLC = payload[3]
	r.ID = binary.LittleEndian.Uint32(payload[4:8])
	copy(r.Data[:], payload[8:16])
	return r, nil
}

func (r *CANMessage) appendPayload(buf *bytes.Buffer) {
	var b [16]byte
	binary.LittleEndian.PutUint16(b[0:2], r.Channel)
	b[2] = r.Flags
	b[3] = r.DLC
	binary.LittleEndian.PutUint32(b[4:8], r.ID)
	copy(b[8:16], r.Data[:])
	buf.Write(b[:])
}

// CANMessage2 (object type 86) extends the classic frame with measured
// frame length and bit count.
type CANMessage2 struct {
	ObjectHeader
	Channel     uint16
	Flags       uint8
	DLC         uint8
	ID          uint32
	Data        [8]byte
	FrameLength uint32
	BitCount    uint8
}

func (r *CANMessage2) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeCANMessage2(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 24 {
		return nil, ErrTruncatedData
	}
	r := &CANMessage2{ObjectHeader: h}
	r.Channel = binary.LittleEndian.Uint16(payload[0:2])
	r.Flags = payload[2]
	r.DLC = payload[3]
	r.ID = binary.LittleEndian.Uint32(payload[4:8])
	copy(r.Data[:], payload[8:16])
	r.FrameLength = binary.LittleEndian.Uint32(payload[16:20])
	r.BitCount = payload[20]
	return r, nil
}

func (r *CANMessage2) appendPayload(buf *bytes.Buffer) {
	var b [24]byte
	binary.LittleEndian.PutUint16(b[0:2], r.Channel)
	b[2] = r.Flags
	b[3] = r.DLC
	binary.LittleEndian.PutUint32(b[4:8], r.ID)
	copy(b[8:16], r.Data[:])
	binary.LittleEndian.PutUint32(b[16:20], r.FrameLength)
	b[20] = r.BitCount
	buf.Write(b[:])
}

// CANErrorFrame (object type 2).
type CANErrorFrame struct {
	ObjectHeader
	Channel uint16
	Length  uint16
}

func (r *CANErrorFrame) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeCANErrorFrame(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 4 {
		return nil, ErrTruncatedData
	}
	return &CANErrorFrame{
		ObjectHeader: h,
		Channel:      binary.LittleEndian.Uint16(payload[0:2]),
		Length:       binary.LittleEndian.Uint16(payload[2:4]),
	}, nil
}

func (r *CANErrorFrame) appendPayload(buf *bytes.Buffer) {
	var b [4]byte
	binary.LittleEndian.PutUint16(b[0:2], r.Channel)
	binary.LittleEndian.PutUint16(b[2:4], r.Length)
	buf.Write(b[:])
}

// CANErrorFrameExt (object type 73) carries the error position and the
// frame bytes captured around the error.
type CANErrorFrameExt struct {
	ObjectHeader
	Channel       uint16
	Length        uint16
	Flags         uint32
	ECC           uint8
	Position      uint8
	DLC           uint8
	FrameLengthNs uint32
	ID            uint32
	FlagsExt      uint16
	Data          [8]byte
}

func (r *CANErrorFrameExt) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeCANErrorFrameExt(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 32 {
		return nil, ErrTruncatedData
	}
	r := &CANErrorFrameExt{ObjectHeader: h}
	r.Channel = binary.LittleEndian.Uint16(payload[0:2])
	r.Length = binary.LittleEndian.Uint16(payload[2:4])
	r.Flags = binary.LittleEndian.Uint32(payload[4:8])
	r.ECC = payload[8]
	r.Position = payload[9]
	r.DLC = payload[10]
	r.FrameLengthNs = binary.LittleEndian.Uint32(payload[12:16])
	r.ID = binary.LittleEndian.Uint32(payload[16:20])
	r.FlagsExt = binary.LittleEndian.Uint16(payload[20:22])
	copy(r.Data[:], payload[24:32])
	return r, nil
}

func (r *CANErrorFrameExt) appendPayload(buf *bytes.Buffer) {
	var b [32]byte
	binary.LittleEndian.PutUint16(b[0:2], r.Channel)
	binary.LittleEndian.PutUint16(b[2:4], r.Length)
	binary.LittleEndian.PutUint32(b[4:8], r.Flags)
	b[8] = r.ECC
	b[9] = r.Position
	b[10] = r.DLC
	binary.LittleEndian.PutUint32(b[12:16], r.FrameLengthNs)
	binary.LittleEndian.PutUint32(b[16:20], r.ID)
	binary.LittleEndian.PutUint16(b[20:22], r.FlagsExt)
	copy(b[24:32], r.Data[:])
	buf.Write(b[:])
}

// CANOverloadFrame (object type 3).
type CANOverloadFrame struct {
	ObjectHeader
	Channel uint16
}

func (r *CANOverloadFrame) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeCANOverloadFrame(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 4 {
		return nil, ErrTruncatedData
	}
	return &CANOverloadFrame{
		ObjectHeader: h,
		Channel:      binary.LittleEndian.Uint16(payload[0:2]),
	}, nil
}

func (r *CANOverloadFrame) appendPayload(buf *bytes.Buffer) {
	var b [4]byte
	binary.LittleEndian.PutUint16(b[0:2], r.Channel)
	buf.Write(b[:])
}

// CANDriverStatistic (object type 4) is the periodic bus statistics
// event. Metadata only, no bus payload.
type CANDriverStatistic struct {
	ObjectHeader
	Channel            uint16
	BusLoad            uint16
	StandardDataFrames uint32
	ExtendedDataFrames uint32
	StandardRemoteFrames uint32
	ExtendedRemoteFrames uint32
	ErrorFrames        uint32
	OverloadFrames     uint32
}

func (r *CANDriverStatistic) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeCANDriverStatistic(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 32 {
		return nil, ErrTruncatedData
	}
	r := &CANDriverStatistic{ObjectHeader: h}
	r.Channel = binary.LittleEndian.Uint16(payload[0:2])
	r.BusLoad = binary.LittleEndian.Uint16(payload[2:4])
	r.StandardDataFrames = binary.LittleEndian.Uint32(payload[4:8])
	r.ExtendedDataFrames = binary.LittleEndian.Uint32(payload[8:12])
	r.StandardRemoteFrames = binary.LittleEndian.Uint32(payload[12:16])
	r.ExtendedRemoteFrames = binary.LittleEndian.Uint32(payload[16:20])
	r.ErrorFrames = binary.LittleEndian.Uint32(payload[20:24])
	r.OverloadFrames = binary.LittleEndian.Uint32(payload[24:28])
	return r, nil
}

func (r *CANDriverStatistic) appendPayload(buf *bytes.Buffer) {
	var b [32]byte
	binary.LittleEndian.PutUint16(b[0:2], r.Channel)
	binary.LittleEndian.PutUint16(b[2:4], r.BusLoad)
	binary.LittleEndian.PutUint32(b[4:8], r.StandardDataFrames)
	binary.LittleEndian.PutUint32(b[8:12], r.ExtendedDataFrames)
	binary.LittleEndian.PutUint32(b[12:16], r.StandardRemoteFrames)
	binary.LittleEndian.PutUint32(b[16:20], r.ExtendedRemoteFrames)
	binary.LittleEndian.PutUint32(b[20:24], r.ErrorFrames)
	binary.LittleEndian.PutUint32(b[24:28], r.OverloadFrames)
	buf.Write(b[:])
}

// CANDriverError (object type 31).
type CANDriverError struct {
	ObjectHeader
	Channel   uint16
	TxErrors  uint8
	RxErrors  uint8
	ErrorCode uint32
}

func (r *CANDriverError) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeCANDriverError(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 8 {
		return nil, ErrTruncatedData
	}
	return &CANDriverError{
		ObjectHeader: h,
		Channel:      binary.LittleEndian.Uint16(payload[0:2]),
		TxErrors:     payload[2],
		RxErrors:     payload[3],
		ErrorCode:    binary.LittleEndian.Uint32(payload[4:8]),
	}, nil
}

func (r *CANDriverError) appendPayload(buf *bytes.Buffer) {
	var b [8]byte
	binary.LittleEndian.PutUint16(b[0:2], r.Channel)
	b[2] = r.TxErrors
	b[3] = r.RxErrors
	binary.LittleEndian.PutUint32(b[4:8], r.ErrorCode)
	buf.Write(b[:])
}
