package blf

import (
	"bytes"
	"encoding/binary"
)

// canFDDLCLength is the CAN FD DLC to byte-count table: 0-8 map 1:1,
// 9-15 map to 12, 16, 20, 24, 32, 48, 64.
var canFDDLCLength = [16]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 12, 16, 20, 24, 32, 48, 64}

// DLCToLength maps a CAN FD data-length code to the implied byte count.
func DLCToLength(dlc uint8) int {
	return canFDDLCLength[dlc&0x0F]
}

// LengthToDLC maps a byte count to the smallest DLC that can carry it.
func LengthToDLC(n int) uint8 {
	for dlc, l := range canFDDLCLength {
		if l >= n {
			return uint8(dlc)
		}
	}
	return 15
}

// CANFDMessage is a CAN FD frame (object type 100). The wire payload
// carries a fixed 64-byte data buffer; Data holds only the valid bytes.
type CANFDMessage struct {
	ObjectHeader
	Channel         uint16
	Flags           uint8
	DLC             uint8
	ID              uint32
	FrameLength     uint32
	ArbBitCount     uint8
	CANFDFlags      uint8
	ValidDataBytes  uint8
	Data            []byte
}

func (r *CANFDMessage) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeCANFDMessage(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < 20+64 {
		return nil, ErrTruncatedData
	}
	r := &CANFDMessage{ObjectHeader: h}
	r.Channel = binary.LittleEndian.Uint16(payload[0:2])
	r.Flags = payload[2]
	r.DLC = payload[3]
	r.ID = binary.LittleEndian.Uint32(payload[4:8])
	r.FrameLength = binary.LittleEndian.Uint32(payload[8:12])
	r.ArbBitCount = payload[12]
	r.CANFDFlags = payload[13]
	r.ValidDataBytes = payload[14]
	valid := int(r.ValidDataBytes)
	if valid > 64 {
		valid = 64
		r.ValidDataBytes = 64
	}
	r.Data = append([]byte(nil), payload[20:20+valid]...)
	return r, nil
}

func (r *CANFDMessage) appendPayload(buf *bytes.Buffer) {
	var b [20 + 64]byte
	binary.LittleEndian.PutUint16(b[0:2], r.Channel)
	b[2] = r.Flags
	b[3] = r.DLC
	binary.LittleEndian.PutUint32(b[4:8], r.ID)
	binary.LittleEndian.PutUint32(b[8:12], r.FrameLength)
	b[12] = r.ArbBitCount
	b[13] = r.CANFDFlags
	n := len(r.Data)
	if n > 64 {
		n = 64
	}
	b[14] = uint8(n)
	copy(b[20:], r.Data[:n])
	buf.Write(b[:])
}

// CANFDMessage64 is the 64-byte-capable CAN FD frame (object type 101).
// Unlike CANFDMessage the data buffer is variable on the wire: exactly
// ValidDataBytes bytes follow the fixed part, and the valid-byte count
// may be smaller than the DLC-implied length. Trailing bytes beyond the
// count are padding, never data.
type CANFDMessage64 struct {
	ObjectHeader
	Channel            uint8
	DLC                uint8
	ValidDataBytes     uint8
	TxCount            uint8
	ID                 uint32
	FrameLength        uint32
	Flags              uint32
	BTRCfgArb          uint32
	BTRCfgData         uint32
	TimeOffsetBRSNs    uint32
	TimeOffsetCRCDelNs uint32
	BitCount           uint16
	Dir                uint8
	CRC                uint32
	Data               []byte
}

const canFDMessage64FixedSize = 40

func (r *CANFDMessage64) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeCANFDMessage64(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < canFDMessage64FixedSize {
		return nil, ErrTruncatedData
	}
	r := &CANFDMessage64{ObjectHeader: h}
	r.Channel = payload[0]
	r.DLC = payload[1]
	r.ValidDataBytes = payload[2]
	r.TxCount = payload[3]
	r.ID = binary.LittleEndian.Uint32(payload[4:8])
	r.FrameLength = binary.LittleEndian.Uint32(payload[8:12])
	r.Flags = binary.LittleEndian.Uint32(payload[12:16])
	r.BTRCfgArb = binary.LittleEndian.Uint32(payload[16:20])
	r.BTRCfgData = binary.LittleEndian.Uint32(payload[20:24])
	r.TimeOffsetBRSNs = binary.LittleEndian.Uint32(payload[24:28])
	r.TimeOffsetCRCDelNs = binary.LittleEndian.Uint32(payload[28:32])
	r.BitCount = binary.LittleEndian.Uint16(payload[32:34])
	r.Dir = payload[34]
	r.CRC = binary.LittleEndian.Uint32(payload[36:40])
	// The valid-byte count bounds the data, not the DLC-implied length.
	valid := int(r.ValidDataBytes)
	if implied := DLCToLength(r.DLC); valid > implied {
		valid = implied
	}
	if rest := len(payload) - canFDMessage64FixedSize; valid > rest {
		valid = rest
	}
	if valid < 0 {
		valid = 0
	}
	r.ValidDataBytes = uint8(valid)
	r.Data = append([]byte(nil), payload[canFDMessage64FixedSize:canFDMessage64FixedSize+valid]...)
	return r, nil
}

func (r *CANFDMessage64) appendPayload(buf *bytes.Buffer) {
	var b [canFDMessage64FixedSize]byte
	n := len(r.Data)
	if n > 64 {
		n = 64
	}
	b[0] = r.Channel
	b[1] = r.DLC
	b[2] = uint8(n)
	b[3] = r.TxCount
	binary.LittleEndian.PutUint32(b[4:8], r.ID)
	binary.LittleEndian.PutUint32(b[8:12], r.FrameLength)
	binary.LittleEndian.PutUint32(b[12:16], r.Flags)
	binary.LittleEndian.PutUint32(b[16:20], r.BTRCfgArb)
	binary.LittleEndian.PutUint32(b[20:24], r.BTRCfgData)
	binary.LittleEndian.PutUint32(b[24:28], r.TimeOffsetBRSNs)
	binary.LittleEndian.PutUint32(b[28:32], r.TimeOffsetCRCDelNs)
	binary.LittleEndian.PutUint16(b[32:34], r.BitCount)
	b[34] = r.Dir
	binary.LittleEndian.PutUint32(b[36:40], r.CRC)
	buf.Write(b[:])
	buf.Write(r.Data[:n])
}

// CANFDErrorFrame64 (object type 104).
type CANFDErrorFrame64 struct {
	ObjectHeader
	Channel        uint8
	DLC            uint8
	ValidDataBytes uint8
	ECC            uint8
	Flags          uint16
	ErrorCodeExt   uint16
	ExtFlags       uint16
	ID             uint32
	FrameLength    uint32
	CRC            uint32
	ErrorPosition  uint16
	Data           []byte
}

const canFDError64FixedSize = 28

func (r *CANFDErrorFrame64) Header() *ObjectHeader { return &r.ObjectHeader }

func decodeCANFDErrorFrame64(h ObjectHeader, payload []byte) (Record, error) {
	if len(payload) < canFDError64FixedSize {
		return nil, ErrTruncatedData
	}
	r := &CANFDErrorFrame64{ObjectHeader: h}
	r.Channel = payload[0]
	r.DLC = payload[1]
	r.ValidDataBytes = payload[2]
	r.ECC = payload[3]
	r.Flags = binary.LittleEndian.Uint16(payload[4:6])
	r.ErrorCodeExt = binary.LittleEndian.Uint16(payload[6:8])
	r.ExtFlags = binary.LittleEndian.Uint16(payload[8:10])
	r.ID = binary.LittleEndian.Uint32(payload[12:16])
	r.FrameLength = binary.LittleEndian.Uint32(payload[16:20])
	r.CRC = binary.LittleEndian.Uint32(payload[20:24])
	r.ErrorPosition = binary.LittleEndian.Uint16(payload[24:26])
	valid := int(r.ValidDataBytes)
	if rest := len(payload) - canFDError64FixedSize; valid > rest {
		valid = rest
	}
	r.ValidDataBytes = uint8(valid)
	r.Data = append([]byte(nil), payload[canFDError64FixedSize:canFDError64FixedSize+valid]...)
	return r, nil
}

func (r *CANFDErrorFrame64) appendPayload(buf *bytes.Buffer) {
	var b [canFDError64FixedSize]byte
	n := len(r.Data)
	if n > 64 {
		n = 64
	}
	b[0] = r.Channel
	b[1] = r.DLC
	b[2] = uint8(n)
	b[3] = r.ECC
	binary.LittleEndian.PutUint16(b[4:6], r.Flags)
	binary.LittleEndian.PutUint16(b[6:8], r.ErrorCodeExt)
	binary.LittleEndian.PutUint16(b[8:10], r.ExtFlags)
	binary.LittleEndian.PutUint32(b[12:16], r.ID)
	binary.LittleEndian.PutUint32(b[16:20], r.FrameLength)
	binary.LittleEndian.PutUint32(b[20:24], r.CRC)
	binary.LittleEndian.PutUint16(b[24:26], r.ErrorPosition)
	buf.Write(b[:])
	buf.Write(r.Data[:n])
}
