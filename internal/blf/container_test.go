package blf

import (
	"bytes"
	"testing"
)

// makeFile prepends a minimal 144-byte preamble to an already-encoded
// object stream.
func makeFile(objects []byte) []byte {
	var buf bytes.Buffer
	fs := FileStatistics{StatisticsSize: StatisticsSizeFull}
	encodeFileStatistics(&buf, &fs)
	buf.Write(objects)
	return buf.Bytes()
}

func testCANMessage(ts uint64, id uint32) *CANMessage {
	r := &CANMessage{Channel: 1, DLC: 8, ID: id}
	r.Flags = 0
	r.Header().Flags = FlagTimeOneNans
	r.Header().Timestamp = ts
	r.Header().Type = ObjectTypeCANMessage
	return r
}

func TestContainerExpandsInOrder(t *testing.T) {
	a := testCANMessage(100, 0x0A)
	b := testCANMessage(300, 0x0B)
	u := &Unknown{Tag: 9999, Data: []byte{1, 2, 3}}
	u.Header().Type = ObjectType(9999)
	u.Header().Timestamp = 200
	u.Header().Flags = FlagTimeOneNans

	var inner bytes.Buffer
	inner.Write(EncodeRecord(a))
	inner.Write(EncodeRecord(u))
	inner.Write(EncodeRecord(b))

	var objects bytes.Buffer
	if err := encodeContainer(&objects, inner.Bytes(), CompressionZlib, 6); err != nil {
		t.Fatalf("encodeContainer failed: %v", err)
	}

	result, err := Parse(makeFile(objects.Bytes()))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if result.Skipped != 0 {
		t.Errorf("expected no skips, got %d", result.Skipped)
	}
	if len(result.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(result.Records))
	}
	if got, ok := result.Records[0].(*CANMessage); !ok || got.ID != 0x0A {
		t.Errorf("record 0: expected CAN id 0x0A, got %T %+v", result.Records[0], result.Records[0])
	}
	if got, ok := result.Records[1].(*Unknown); !ok || got.Tag != 9999 {
		t.Errorf("record 1: expected unknown tag 9999, got %T", result.Records[1])
	}
	if got, ok := result.Records[2].(*CANMessage); !ok || got.ID != 0x0B {
		t.Errorf("record 2: expected CAN id 0x0B, got %T", result.Records[2])
	}
}

func TestUncompressedContainer(t *testing.T) {
	inner := EncodeRecord(testCANMessage(1, 0x42))

	var objects bytes.Buffer
	if err := encodeContainer(&objects, inner, CompressionNone, 0); err != nil {
		t.Fatalf("encodeContainer failed: %v", err)
	}

	result, err := Parse(makeFile(objects.Bytes()))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}
}

// A container whose blob does not inflate contributes zero records but
// never stops the walk: objects after it still decode.
func TestCorruptContainerSkippedWalkContinues(t *testing.T) {
	var objects bytes.Buffer

	h := ObjectHeader{}
	h.Type = ObjectTypeLogContainer
	garbage := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x01, 0x02, 0x03}
	h.prepare(containerFixedSize + len(garbage))
	encodeHeader(&objects, &h)
	var fixed [containerFixedSize]byte
	fixed[0] = byte(CompressionZlib)
	objects.Write(fixed[:])
	objects.Write(garbage)

	if err := encodeContainer(&objects, EncodeRecord(testCANMessage(5, 0x77)), CompressionZlib, 6); err != nil {
		t.Fatalf("encodeContainer failed: %v", err)
	}

	result, err := Parse(makeFile(objects.Bytes()))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if result.Skipped != 1 {
		t.Errorf("expected 1 skip for the corrupt container, got %d", result.Skipped)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record from the intact container, got %d", len(result.Records))
	}
	if got := result.Records[0].(*CANMessage); got.ID != 0x77 {
		t.Errorf("expected id 0x77, got %#x", got.ID)
	}
}

// An invalid header inside a container truncates that container only;
// records decoded before the corruption stay, and the next top-level
// container is unaffected.
func TestCorruptInnerStreamTruncatesContainerOnly(t *testing.T) {
	var inner bytes.Buffer
	inner.Write(EncodeRecord(testCANMessage(1, 0x01)))
	inner.WriteString("XXXX")
	inner.Write(make([]byte, 28))

	var objects bytes.Buffer
	if err := encodeContainer(&objects, inner.Bytes(), CompressionZlib, 6); err != nil {
		t.Fatalf("encodeContainer failed: %v", err)
	}
	if err := encodeContainer(&objects, EncodeRecord(testCANMessage(2, 0x02)), CompressionZlib, 6); err != nil {
		t.Fatalf("encodeContainer failed: %v", err)
	}

	result, err := Parse(makeFile(objects.Bytes()))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}
	if result.Skipped != 1 {
		t.Errorf("expected 1 skip, got %d", result.Skipped)
	}
	if got := result.Records[1].(*CANMessage); got.ID != 0x02 {
		t.Errorf("expected second container's record, got id %#x", got.ID)
	}
}

// A record failing its family decoder inside a container is skipped
// using the outer object size; the records around it survive.
func TestUndersizedInnerObjectSkipped(t *testing.T) {
	var inner bytes.Buffer
	inner.Write(EncodeRecord(testCANMessage(1, 0x01)))

	// CAN message object with a deliberately short payload.
	bad := ObjectHeader{}
	bad.Type = ObjectTypeCANMessage
	bad.prepare(4)
	encodeHeader(&inner, &bad)
	inner.Write(make([]byte, 4))

	inner.Write(EncodeRecord(testCANMessage(3, 0x03)))

	var objects bytes.Buffer
	if err := encodeContainer(&objects, inner.Bytes(), CompressionZlib, 6); err != nil {
		t.Fatalf("encodeContainer failed: %v", err)
	}

	result, err := Parse(makeFile(objects.Bytes()))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if result.Skipped != 1 {
		t.Errorf("expected 1 skip, got %d", result.Skipped)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}
	if got := result.Records[1].(*CANMessage); got.ID != 0x03 {
		t.Errorf("expected the record after the bad object, got id %#x", got.ID)
	}
}
