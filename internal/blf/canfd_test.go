package blf

import (
	"bytes"
	"testing"
)

func TestDLCToLength(t *testing.T) {
	cases := map[uint8]int{
		0: 0, 1: 1, 8: 8, 9: 12, 10: 16, 11: 20, 12: 24, 13: 32, 14: 48, 15: 64,
	}
	for dlc, want := range cases {
		if got := DLCToLength(dlc); got != want {
			t.Errorf("DLCToLength(%d) = %d, want %d", dlc, got, want)
		}
	}
	if got := LengthToDLC(12); got != 9 {
		t.Errorf("LengthToDLC(12) = %d, want 9", got)
	}
	if got := LengthToDLC(13); got != 10 {
		t.Errorf("LengthToDLC(13) = %d, want 10", got)
	}
}

// The explicit valid-byte count bounds the visible payload; trailing
// bytes beyond it are padding, not data.
func TestCANFDMessage64ValidBytesBoundsData(t *testing.T) {
	r := &CANFDMessage64{
		Channel:        1,
		DLC:            9, // implied length 12
		ID:             0x1ABC,
		ValidDataBytes: 12,
		Data:           []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
	}
	r.Timestamp = 77

	encoded := EncodeRecord(r)
	// Append padding past the declared object size the way aligned
	// writers do; the decoder must ignore it.
	padded := append(encoded, 0xEE, 0xEE, 0xEE, 0xEE)

	rec, advance, err := decodeObject(padded)
	if err != nil {
		t.Fatalf("decodeObject failed: %v", err)
	}
	if advance != len(encoded) {
		t.Errorf("expected advance %d, got %d", len(encoded), advance)
	}
	got, ok := rec.(*CANFDMessage64)
	if !ok {
		t.Fatalf("expected *CANFDMessage64, got %T", rec)
	}
	if len(got.Data) != 12 {
		t.Fatalf("expected 12 data bytes, got %d", len(got.Data))
	}
	if !bytes.Equal(got.Data, r.Data) {
		t.Errorf("data mismatch: got %v, want %v", got.Data, r.Data)
	}
}

// A valid-byte count larger than the DLC-implied length is clamped.
func TestCANFDMessage64ValidBytesClampedToDLC(t *testing.T) {
	r := &CANFDMessage64{
		DLC:  8, // implied length 8
		Data: make([]byte, 20),
	}
	encoded := EncodeRecord(r)

	rec, _, err := decodeObject(encoded)
	if err != nil {
		t.Fatalf("decodeObject failed: %v", err)
	}
	if got := rec.(*CANFDMessage64); len(got.Data) != 8 {
		t.Errorf("expected data clamped to 8 bytes, got %d", len(got.Data))
	}
}

func TestCANFDMessageValidBytes(t *testing.T) {
	r := &CANFDMessage{
		Channel: 2,
		DLC:     10,
		ID:      0x7FF,
		Data:    []byte{0xDE, 0xAD, 0xBE, 0xEF},
	}
	encoded := EncodeRecord(r)

	rec, _, err := decodeObject(encoded)
	if err != nil {
		t.Fatalf("decodeObject failed: %v", err)
	}
	got := rec.(*CANFDMessage)
	if got.ValidDataBytes != 4 {
		t.Errorf("expected valid byte count 4, got %d", got.ValidDataBytes)
	}
	if !bytes.Equal(got.Data, r.Data) {
		t.Errorf("data mismatch: got %v, want %v", got.Data, r.Data)
	}
}

func TestCANFDMessageTooShort(t *testing.T) {
	h := ObjectHeader{}
	h.Type = ObjectTypeCANFDMessage
	if _, err := decodeCANFDMessage(h, make([]byte, 10)); err == nil {
		t.Error("expected error for short CAN FD payload")
	}
}
