package blf

import (
	"bytes"
	"encoding/binary"
)

// EthernetFrame (object type 71). The frame payload follows a 24-byte
// fixed part and is bounded by the PayloadLength field.
type EthernetFrame struct {
	ObjectHeader
	SourceAddress      [6]byte
	Channel            uint16
	DestinationAddress [6]byte
	Dir                uint16
	EtherType          uint16
	TPID               uint16
	TCI                uint16
	Payload            []byte
}

const ethernetFrameFixedSize = 24

func (r *EthernetFrame) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeEthernetFrame(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < ethernetFrameFixedSize {
		return nil, ErrTruncatedData
	}
	r := &EthernetFrame{ObjectHeader: h}
	copy(r.SourceAddress[:], payload[0:6])
	r.Channel = binary.LittleEndian.Uint16(payload[6:8])
	copy(r.DestinationAddress[:], payload[8:14])
	r.Dir = binary.LittleEndian.Uint16(payload[14:16])
	r.EtherType = binary.LittleEndian.Uint16(payload[16:18])
	r.TPID = binary.LittleEndian.Uint16(payload[18:20])
	r.TCI = binary.LittleEndian.Uint16(payload[20:22])
	n := int(binary.LittleEndian.Uint16(payload[22:24]))
	if rest := len(payload) - ethernetFrameFixedSize; n > rest {
		n = rest
	}
	r.Payload = append([]byte(nil), payload[ethernetFrameFixedSize:ethernetFrameFixedSize+n]...)
	return r, nil
}

func (r *EthernetFrame) appendPayload(buf *bytes.Buffer) {
	var b [ethernetFrameFixedSize]byte
	copy(b[0:6], r.SourceAddress[:])
	binary.LittleEndian.PutUint16(b[6:8], r.Channel)
	copy(b[8:14], r.DestinationAddress[:])
	binary.LittleEndian.PutUint16(b[14:16], r.Dir)
	binary.LittleEndian.PutUint16(b[16:18], r.EtherType)
	binary.LittleEndian.PutUint16(b[18:20], r.TPID)
	binary.LittleEndian.PutUint16(b[20:22], r.TCI)
	binary.LittleEndian.PutUint16(b[22:24], uint16(len(r.Payload)))
	buf.Write(b[:])
	buf.Write(r.Payload)
}

// EthernetRxError (object type 102).
type EthernetRxError struct {
	ObjectHeader
	Channel         uint16
	Dir             uint16
	HardwareChannel uint16
	FCS             uint32
	ErrorCode       uint32
	FrameData       []byte
}

const ethernetRxErrorFixedSize = 20

func (r *EthernetRxError) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeEthernetRxError(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < ethernetRxErrorFixedSize {
		return nil, ErrTruncatedData
	}
	r := &EthernetRxError{ObjectHeader: h}
	r.Channel = binary.LittleEndian.Uint16(payload[2:4])
	r.Dir = binary.LittleEndian.Uint16(payload[4:6])
	r.HardwareChannel = binary.LittleEndian.Uint16(payload[6:8])
	r.FCS = binary.LittleEndian.Uint32(payload[8:12])
	n := int(binary.LittleEndian.Uint16(payload[12:14]))
	r.ErrorCode = binary.LittleEndian.Uint32(payload[16:20])
	if rest := len(payload) - ethernetRxErrorFixedSize; n > rest {
		n = rest
	}
	r.FrameData = append([]byte(nil), payload[ethernetRxErrorFixedSize:ethernetRxErrorFixedSize+n]...)
	return r, nil
}

func (r *EthernetRxError) appendPayload(buf *bytes.Buffer) {
	b := make([]byte, ethernetRxErrorFixedSize)
	binary.LittleEndian.PutUint16(b[0:2], uint16(ethernetRxErrorFixedSize+len(r.FrameData)))
	binary.LittleEndian.PutUint16(b[2:4], r.Channel)
	binary.LittleEndian.PutUint16(b[4:6], r.Dir)
	binary.LittleEndian.PutUint16(b[6:8], r.HardwareChannel)
	binary.LittleEndian.PutUint32(b[8:12], r.FCS)
	binary.LittleEndian.PutUint16(b[12:14], uint16(len(r.FrameData)))
	binary.LittleEndian.PutUint32(b[16:20], r.ErrorCode)
	buf.Write(b)
	buf.Write(r.FrameData)
}

// EthernetStatus (object type 103). Link state change, metadata only.
type EthernetStatus struct {
	ObjectHeader
	Channel         uint16
	Flags           uint16
	LinkStatus      uint8
	EthernetPhy     uint8
	Duplex          uint8
	MDI             uint8
	Connector       uint8
	ClockMode       uint8
	Pairs           uint8
	HardwareChannel uint8
	Bitrate         uint32
}

func (r *EthernetStatus) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeEthernetStatus(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 16 {
		return nil, ErrTruncatedData
	}
	r := &EthernetStatus{ObjectHeader: h}
	r.Channel = binary.LittleEndian.Uint16(payload[0:2])
	r.Flags = binary.LittleEndian.Uint16(payload[2:4])
	r.LinkStatus = payload[4]
	r.EthernetPhy = payload[5]
	r.Duplex = payload[6]
	r.MDI = payload[7]
	r.Connector = payload[8]
	r.ClockMode = payload[9]
	r.Pairs = payload[10]
	r.HardwareChannel = payload[11]
	r.Bitrate = binary.LittleEndian.Uint32(payload[12:16])
	return r, nil
}

func (r *EthernetStatus) appendPayload(buf *bytes.Buffer) {
	var b [16]byte
	binary.LittleEndian.PutUint16(b[0:2], r.Channel)
	binary.LittleEndian.PutUint16(b[2:4], r.Flags)
	b[4] = r.LinkStatus
	b[5] = r.EthernetPhy
	b[6] = r.Duplex
	b[7] = r.MDI
	b[8] = r.Connector
	b[9] = r.ClockMode
	b[10] = r.Pairs
	b[11] = r.HardwareChannel
	binary.LittleEndian.PutUint32(b[12:16], r.Bitrate)
	buf.Write(b[:])
}

// EthernetStatistic (object type 114). Metadata only.
type EthernetStatistic struct {
	ObjectHeader
	Channel         uint16
	RcvOK           uint64
	XmitOK          uint64
	RcvError        uint64
	XmitError       uint64
	RcvBytes        uint64
	XmitBytes       uint64
	RcvNoBuffer     uint64
	SQI             int16
	HardwareChannel uint16
}

func (r *EthernetStatistic) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeEthernetStatistic(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 68 {
		return nil, ErrTruncatedData
	}
	r := &EthernetStatistic{ObjectHeader: h}
	r.Channel = binary.LittleEndian.Uint16(payload[0:2])
	r.RcvOK = binary.LittleEndian.Uint64(payload[8:16])
	r.XmitOK = binary.LittleEndian.Uint64(payload[16:24])
	r.RcvError = binary.LittleEndian.Uint64(payload[24:32])
	r.XmitError = binary.LittleEndian.Uint64(payload[32:40])
	r.RcvBytes = binary.LittleEndian.Uint64(payload[40:48])
	r.XmitBytes = binary.LittleEndian.Uint64(payload[48:56])
	r.RcvNoBuffer = binary.LittleEndian.Uint64(payload[56:64])
	r.SQI = int16(binary.LittleEndian.Uint16(payload[64:66]))
	r.HardwareChannel = binary.LittleEndian.Uint16(payload[66:68])
	return r, nil
}

func (r *EthernetStatistic) appendPayload(buf *bytes.Buffer) {
	b := make([]byte, 68)
	binary.LittleEndian.PutUint16(b[0:2], r.Channel)
	binary.LittleEndian.PutUint64(b[8:16], r.RcvOK)
	binary.LittleEndian.PutUint64(b[16:24], r.XmitOK)
	binary.LittleEndian.PutUint64(b[24:32], r.RcvError)
	binary.LittleEndian.PutUint64(b[32:40], r.XmitError)
	binary.LittleEndian.PutUint64(b[40:48], r.RcvBytes)
	binary.LittleEndian.PutUint64(b[48:56], r.XmitBytes)
	binary.LittleEndian.PutUint64(b[56:64], r.RcvNoBuffer)
	binary.LittleEndian.PutUint16(b[64:66], uint16(r.SQI))
	binary.LittleEndian.PutUint16(b[66:68], r.HardwareChannel)
	buf.Write(b)
}
