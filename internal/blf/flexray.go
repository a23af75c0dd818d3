package blf

import (
	"bytes"
	"encoding/binary"
)

// FlexRayRcvMessage is a received FlexRay frame (object type 50). The
// frame payload length is not stored explicitly: it is computed as
// object-size − header-size − fixed-part-size and may legitimately be
// zero (null frames, header-only captures).
type FlexRayRcvMessage struct {
	ObjectHeader
	Channel      uint16
	Version      uint16
	ChannelMask  uint16
	Dir          uint16
	ClientIndex  uint32
	ClusterNo    uint32
	FrameID      uint16
	HeaderCRC1   uint16
	HeaderCRC2   uint16
	ByteCount    uint16
	DataCount    uint16
	Cycle        uint16
	Tag          uint32
	Data         uint32
	FrameFlags   uint32
	AppParameter uint32
	Payload      []byte
}

const flexRayRcvMessageFixedSize = 44

func (r *FlexRayRcvMessage) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeFlexRayRcvMessage(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < flexRayRcvMessageFixedSize {
		return nil, ErrTruncatedData
	}
	r := &FlexRayRcvMessage{ObjectHeader: h}
	r.Channel = binary.LittleEndian.Uint16(payload[0:2])
	r.Version = binary.LittleEndian.Uint16(payload[2:4])
	r.ChannelMask = binary.LittleEndian.Uint16(payload[4:6])
	r.Dir = binary.LittleEndian.Uint16(payload[6:8])
	r.ClientIndex = binary.LittleEndian.Uint32(payload[8:12])
	r.ClusterNo = binary.LittleEndian.Uint32(payload[12:16])
	r.FrameID = binary.LittleEndian.Uint16(payload[16:18])
	r.HeaderCRC1 = binary.LittleEndian.Uint16(payload[18:20])
	r.HeaderCRC2 = binary.LittleEndian.Uint16(payload[20:22])
	r.ByteCount = binary.LittleEndian.Uint16(payload[22:24])
	r.DataCount = binary.LittleEndian.Uint16(payload[24:26])
	r.Cycle = binary.LittleEndian.Uint16(payload[26:28])
	r.Tag = binary.LittleEndian.Uint32(payload[28:32])
	r.Data = binary.LittleEndian.Uint32(payload[32:36])
	r.FrameFlags = binary.LittleEndian.Uint32(payload[36:40])
	r.AppParameter = binary.LittleEndian.Uint32(payload[40:44])
	if rest := payload[flexRayRcvMessageFixedSize:]; len(rest) > 0 {
		r.Payload = append([]byte(nil), rest...)
	}
	return r, nil
}

func (r *FlexRayRcvMessage) appendPayload(buf *bytes.Buffer) {
	buf.Write(r.encodeFixed())
	buf.Write(r.Payload)
}

func (r *FlexRayRcvMessage) encodeFixed() []byte {
	b := make([]byte, flexRayRcvMessageFixedSize)
	binary.LittleEndian.PutUint16(b[0:2], r.Channel)
	binary.LittleEndian.PutUint16(b[2:4], r.Version)
	binary.LittleEndian.PutUint16(b[4:6], r.ChannelMask)
	binary.LittleEndian.PutUint16(b[6:8], r.Dir)
	binary.LittleEndian.PutUint32(b[8:12], r.ClientIndex)
	binary.LittleEndian.PutUint32(b[12:16], r.ClusterNo)
	binary.LittleEndian.PutUint16(b[16:18], r.FrameID)
	binary.LittleEndian.PutUint16(b[18:20], r.HeaderCRC1)
	binary.LittleEndian.PutUint16(b[20:22], r.HeaderCRC2)
	binary.LittleEndian.PutUint16(b[22:24], r.ByteCount)
	binary.LittleEndian.PutUint16(b[24:26], r.DataCount)
	binary.LittleEndian.PutUint16(b[26:28], r.Cycle)
	binary.LittleEndian.PutUint32(b[28:32], r.Tag)
	binary.LittleEndian.PutUint32(b[32:36], r.Data)
	binary.LittleEndian.PutUint32(b[36:40], r.FrameFlags)
	binary.LittleEndian.PutUint32(b[40:44], r.AppParameter)
	return b
}

// FlexRayRcvMessageEx (object type 66) is the extended variant: the
// same fixed part followed by a 16-byte reserved block, then the frame
// payload (possibly empty).
type FlexRayRcvMessageEx struct {
	FlexRayRcvMessage
}

const flexRayRcvMessageExFixedSize = flexRayRcvMessageFixedSize + 16

func decodeFlexRayRcvMessageEx(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < flexRayRcvMessageExFixedSize {
		return nil, ErrTruncatedData
	}
	inner, err := decodeFlexRayRcvMessage(h, payload[:flexRayRcvMessageFixedSize])
	if err != nil {
		return nil, err
	}
	r := &FlexRayRcvMessageEx{FlexRayRcvMessage: *inner.(*FlexRayRcvMessage)}
	if rest := payload[flexRayRcvMessageExFixedSize:]; len(rest) > 0 {
		r.Payload = append([]byte(nil), rest...)
	}
	return r, nil
}

func (r *FlexRayRcvMessageEx) appendPayload(buf *bytes.Buffer) {
	buf.Write(r.encodeFixed())
	buf.Write(make([]byte, 16))
	buf.Write(r.Payload)
}

// FlexRayStartCycle (object type 49).
type FlexRayStartCycle struct {
	ObjectHeader
	Channel     uint16
	Version     uint16
	ChannelMask uint16
	Dir         uint8
	Cycle       uint8
	ClientIndex uint32
	ClusterNo   uint32
	NMSize      uint16
	DataBytes   [12]byte
}

func (r *FlexRayStartCycle) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeFlexRayStartCycle(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 32 {
		return nil, ErrTruncatedData
	}
	r := &FlexRayStartCycle{ObjectHeader: h}
	r.Channel = binary.LittleEndian.Uint16(payload[0:2])
	r.Version = binary.LittleEndian.Uint16(payload[2:4])
	r.ChannelMask = binary.LittleEndian.Uint16(payload[4:6])
	r.Dir = payload[6]
	r.Cycle = payload[7]
	r.ClientIndex = binary.LittleEndian.Uint32(payload[8:12])
	r.ClusterNo = binary.LittleEndian.Uint32(payload[12:16])
	r.NMSize = binary.LittleEndian.Uint16(payload[16:18])
	copy(r.DataBytes[:], payload[18:30])
	return r, nil
}

func (r *FlexRayStartCycle) appendPayload(buf *bytes.Buffer) {
	var b [32]byte
	binary.LittleEndian.PutUint16(b[0:2], r.Channel)
	binary.LittleEndian.PutUint16(b[2:4], r.Version)
	binary.LittleEndian.PutUint16(b[4:6], r.ChannelMask)
	b[6] = r.Dir
	b[7] = r.Cycle
	binary.LittleEndian.PutUint32(b[8:12], r.ClientIndex)
	binary.LittleEndian.PutUint32(b[12:16], r.ClusterNo)
	binary.LittleEndian.PutUint16(b[16:18], r.NMSize)
	copy(b[18:30], r.DataBytes[:])
	buf.Write(b[:])
}

// FlexRayError (object type 47).
type FlexRayError struct {
	ObjectHeader
	Channel     uint16
	Version     uint16
	ChannelMask uint16
	Cycle       uint8
	ClientIndex uint32
	ClusterNo   uint32
	Tag         uint32
	Data        uint32
}

func (r *FlexRayError) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeFlexRayError(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 28 {
		return nil, ErrTruncatedData
	}
	r := &FlexRayError{ObjectHeader: h}
	r.Channel = binary.LittleEndian.Uint16(payload[0:2])
	r.Version = binary.LittleEndian.Uint16(payload[2:4])
	r.ChannelMask = binary.LittleEndian.Uint16(payload[4:6])
	r.Cycle = payload[6]
	r.ClientIndex = binary.LittleEndian.Uint32(payload[8:12])
	r.ClusterNo = binary.LittleEndian.Uint32(payload[12:16])
	r.Tag = binary.LittleEndian.Uint32(payload[16:20])
	r.Data = binary.LittleEndian.Uint32(payload[20:24])
	return r, nil
}

func (r *FlexRayError) appendPayload(buf *bytes.Buffer) {
	var b [28]byte
	binary.LittleEndian.PutUint16(b[0:2], r.Channel)
	binary.LittleEndian.PutUint16(b[2:4], r.Version)
	binary.LittleEndian.PutUint16(b[4:6], r.ChannelMask)
	b[6] = r.Cycle
	binary.LittleEndian.PutUint32(b[8:12], r.ClientIndex)
	binary.LittleEndian.PutUint32(b[12:16], r.ClusterNo)
	binary.LittleEndian.PutUint32(b[16:20], r.Tag)
	binary.LittleEndian.PutUint32(b[20:24], r.Data)
	buf.Write(b[:])
}

// FlexRayStatusEvent (object type 48).
type FlexRayStatusEvent struct {
	ObjectHeader
	Channel     uint16
	Version     uint16
	ChannelMask uint16
	Cycle       uint8
	ClientIndex uint32
	ClusterNo   uint32
	WUS         uint32
	CCSyncState uint32
	Tag         uint32
}

func (r *FlexRayStatusEvent) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeFlexRayStatusEvent(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 32 {
		return nil, ErrTruncatedData
	}
	r := &FlexRayStatusEvent{ObjectHeader: h}
	r.Channel = binary.LittleEndian.Uint16(payload[0:2])
	r.Version = binary.LittleEndian.Uint16(payload[2:4])
	r.ChannelMask = binary.LittleEndian.Uint16(payload[4:6])
	r.Cycle = payload[6]
	r.ClientIndex = binary.LittleEndian.Uint32(payload[8:12])
	r.ClusterNo = binary.LittleEndian.Uint32(payload[12:16])
	r.WUS = binary.LittleEndian.Uint32(payload[16:20])
	r.CCSyncState = binary.LittleEndian.Uint32(payload[20:24])
	r.Tag = binary.LittleEndian.Uint32(payload[24:28])
	return r, nil
}

func (r *FlexRayStatusEvent) appendPayload(buf *bytes.Buffer) {
	var b [32]byte
	binary.LittleEndian.PutUint16(b[0:2], r.Channel)
	binary.LittleEndian.PutUint16(b[2:4], r.Version)
	binary.LittleEndian.PutUint16(b[4:6], r.ChannelMask)
	b[6] = r.Cycle
	binary.LittleEndian.PutUint32(b[8:12], r.ClientIndex)
	binary.LittleEndian.PutUint32(b[12:16], r.ClusterNo)
	binary.LittleEndian.PutUint32(b[16:20], r.WUS)
	binary.LittleEndian.PutUint32(b[20:24], r.CCSyncState)
	binary.LittleEndian.PutUint32(b[24:28], r.Tag)
	buf.Write(b[:])
}
