package blf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestHeaderRoundTripV1(t *testing.T) {
	h := ObjectHeader{}
	h.Type = ObjectTypeCANMessage
	h.Flags = FlagTimeOneNans
	h.ClientIndex = 7
	h.ObjectVersion = 1
	h.Timestamp = 123456789
	h.prepare(16)

	if h.HeaderSize != 32 {
		t.Fatalf("expected v1 header size 32, got %d", h.HeaderSize)
	}
	if h.ObjectSize != 48 {
		t.Fatalf("expected object size 48, got %d", h.ObjectSize)
	}

	var buf bytes.Buffer
	encodeHeader(&buf, &h)
	buf.Write(make([]byte, 16)) // payload

	got, consumed, err := decodeHeader(buf.Bytes())
	if err != nil {
		t.Fatalf("decodeHeader failed: %v", err)
	}
	if consumed != 32 {
		t.Errorf("expected 32 bytes consumed, got %d", consumed)
	}
	if got != h {
		t.Errorf("header mismatch: got %+v, want %+v", got, h)
	}
}

func TestHeaderRoundTripV2(t *testing.T) {
	h := ObjectHeader{}
	h.Version = 2
	h.Type = ObjectTypeCANFDMessage64
	h.Flags = FlagTimeOneNans
	h.TimestampStatus = 2
	h.Timestamp = 42
	h.OriginalTimestamp = 43
	h.prepare(0)

	if h.HeaderSize != 40 {
		t.Fatalf("expected v2 header size 40, got %d", h.HeaderSize)
	}

	var buf bytes.Buffer
	encodeHeader(&buf, &h)
	if buf.Len() != 40 {
		t.Fatalf("expected 40 encoded bytes, got %d", buf.Len())
	}

	got, consumed, err := decodeHeader(buf.Bytes())
	if err != nil {
		t.Fatalf("decodeHeader failed: %v", err)
	}
	if consumed != 40 {
		t.Errorf("expected 40 bytes consumed, got %d", consumed)
	}
	if got != h {
		t.Errorf("header mismatch: got %+v, want %+v", got, h)
	}
}

func TestHeaderRejectsBadMagic(t *testing.T) {
	b := make([]byte, 32)
	copy(b, "XOBJ")
	if _, _, err := decodeHeader(b); !errors.Is(err, ErrInvalidMagic) {
		t.Errorf("expected ErrInvalidMagic, got %v", err)
	}
}

func TestHeaderRejectsInconsistentSize(t *testing.T) {
	b := make([]byte, 32)
	copy(b, objectMagic)
	binary.LittleEndian.PutUint16(b[4:6], 32) // header size
	binary.LittleEndian.PutUint16(b[6:8], 1)
	binary.LittleEndian.PutUint32(b[8:12], 20) // object size < header size
	if _, _, err := decodeHeader(b); !errors.Is(err, ErrInconsistentSize) {
		t.Errorf("expected ErrInconsistentSize, got %v", err)
	}
}

func TestHeaderRejectsUnknownVersion(t *testing.T) {
	b := make([]byte, 32)
	copy(b, objectMagic)
	binary.LittleEndian.PutUint16(b[4:6], 32)
	binary.LittleEndian.PutUint16(b[6:8], 3)
	binary.LittleEndian.PutUint32(b[8:12], 32)
	if _, _, err := decodeHeader(b); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}
}

// Some tools declare a 16-byte header while writing a full version-1
// extension. The stream then resumes 16 bytes later than the declared
// object size says.
func TestHeaderSizeCompatQuirk(t *testing.T) {
	b := make([]byte, 0, 64)
	var common [16]byte
	copy(common[0:4], objectMagic)
	binary.LittleEndian.PutUint16(common[4:6], 16) // claims bare header
	binary.LittleEndian.PutUint16(common[6:8], 1)
	binary.LittleEndian.PutUint32(common[8:12], 32) // 16 header + 16 payload
	binary.LittleEndian.PutUint32(common[12:16], uint32(ObjectTypeCANMessage))
	b = append(b, common[:]...)

	// Full v1 extension follows anyway.
	var ext [16]byte
	binary.LittleEndian.PutUint32(ext[0:4], FlagTimeOneNans)
	binary.LittleEndian.PutUint64(ext[8:16], 555)
	b = append(b, ext[:]...)

	// 16-byte CAN payload, then the next object's magic.
	payload := make([]byte, 16)
	payload[3] = 8 // dlc
	binary.LittleEndian.PutUint32(payload[4:8], 0x123)
	b = append(b, payload...)
	b = append(b, objectMagic...)

	rec, advance, err := decodeObject(b)
	if err != nil {
		t.Fatalf("decodeObject failed: %v", err)
	}
	if advance != 48 {
		t.Errorf("expected advance 48 (quirk adds 16), got %d", advance)
	}
	msg, ok := rec.(*CANMessage)
	if !ok {
		t.Fatalf("expected *CANMessage, got %T", rec)
	}
	if msg.Timestamp != 555 {
		t.Errorf("expected extension timestamp 555, got %d", msg.Timestamp)
	}
	if msg.ID != 0x123 {
		t.Errorf("expected id 0x123, got %#x", msg.ID)
	}
}

// When the declared layout already lines up with the next object the
// shim must not fire.
func TestHeaderSizeCompatQuirkNotTriggered(t *testing.T) {
	h := ObjectHeader{}
	h.Type = ObjectTypeCANMessage
	h.Timestamp = 1
	h.prepare(16)

	var buf bytes.Buffer
	encodeHeader(&buf, &h)
	buf.Write(make([]byte, 16))
	buf.WriteString(objectMagic)

	_, advance, err := decodeObject(buf.Bytes())
	if err != nil {
		t.Fatalf("decodeObject failed: %v", err)
	}
	if advance != 48 {
		t.Errorf("expected advance 48, got %d", advance)
	}
}

func TestTimestampUnits(t *testing.T) {
	h := ObjectHeader{}
	h.Flags = FlagTimeTenMics
	h.Timestamp = 100 // 100 ticks of 10us = 1ms
	if got := h.TimestampNanos(); got != 1_000_000 {
		t.Errorf("expected 1000000 ns, got %d", got)
	}
	h.Flags = FlagTimeOneNans
	if got := h.TimestampNanos(); got != 100 {
		t.Errorf("expected 100 ns, got %d", got)
	}
}
