package parser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/buslog-visualizer/backend/internal/models"
)

const ascSample = `date Fri Mar 15 09:30:00.000 am 2024
base hex  timestamps absolute
internal events logged
// generated by test
Begin Triggerblock Fri Mar 15 09:30:00.000 am 2024
   0.001000 1  100             Rx   d 8 DE AD BE EF 00 11 22 33
   0.002500 2  1F334455x       Tx   d 4 AA BB CC DD
   0.003000 1  ErrorFrame
   0.004000 1  200             Rx   r 0
End TriggerBlock
`

func writeASCFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.asc")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestASCParserCanParse(t *testing.T) {
	p := NewASCParser()

	ok, err := p.CanParse(writeASCFixture(t, ascSample))
	if err != nil {
		t.Fatalf("CanParse: %v", err)
	}
	if !ok {
		t.Error("expected ASC sample to be accepted")
	}

	ok, err = p.CanParse(writeASCFixture(t, "id,value\n1,2\n3,4\n"))
	if err != nil {
		t.Fatalf("CanParse: %v", err)
	}
	if ok {
		t.Error("expected CSV content to be rejected")
	}
}

func TestASCParserParse(t *testing.T) {
	p := NewASCParser()

	result, parseErrors, err := p.Parse(writeASCFixture(t, ascSample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(parseErrors) != 0 {
		t.Fatalf("unexpected parse errors: %v", parseErrors)
	}
	if len(result.Records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(result.Records))
	}

	first := result.Records[0]
	if first.Bus != models.BusCAN || first.Channel != 1 {
		t.Errorf("first record bus/channel = %q/%d", first.Bus, first.Channel)
	}
	if first.FrameID != 0x100 {
		t.Errorf("frame id = %#x, want 0x100", first.FrameID)
	}
	if first.Data != "DE AD BE EF 00 11 22 33" {
		t.Errorf("data = %q", first.Data)
	}
	wantTs := time.Date(2024, 3, 15, 9, 30, 0, int(time.Millisecond), time.UTC)
	if !first.Timestamp.Equal(wantTs) {
		t.Errorf("timestamp = %v, want %v", first.Timestamp, wantTs)
	}

	ext := result.Records[1]
	if ext.FrameID != 0x1F334455|0x80000000 {
		t.Errorf("extended frame id = %#x", ext.FrameID)
	}
	if ext.Channel != 2 {
		t.Errorf("channel = %d, want 2", ext.Channel)
	}

	errFrame := result.Records[2]
	if errFrame.Type != "CANErrorFrame" {
		t.Errorf("type = %q, want CANErrorFrame", errFrame.Type)
	}

	remote := result.Records[3]
	if remote.Data != "" {
		t.Errorf("remote frame should carry no data, got %q", remote.Data)
	}
}

func TestASCParserDecimalBase(t *testing.T) {
	sample := `date Fri Mar 15 09:30:00.000 am 2024
base dec  timestamps absolute
   0.001000 1  256             Rx   d 2 01 02
`
	p := NewASCParser()
	result, _, err := p.Parse(writeASCFixture(t, sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}
	if result.Records[0].FrameID != 256 {
		t.Errorf("frame id = %d, want 256", result.Records[0].FrameID)
	}
}
