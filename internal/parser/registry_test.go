package parser

import (
	"testing"

	"github.com/buslog-visualizer/backend/internal/blf"
)

func TestRegistryFindParser(t *testing.T) {
	r := NewRegistry()

	blfPath := writeBLFFixture(t, []blf.Record{canRecord(0, 0x100)})
	p, err := r.FindParser(blfPath)
	if err != nil {
		t.Fatalf("FindParser: %v", err)
	}
	if p.Name() != "blf" {
		t.Errorf("parser = %q, want blf", p.Name())
	}

	ascPath := writeASCFixture(t, ascSample)
	p, err = r.FindParser(ascPath)
	if err != nil {
		t.Fatalf("FindParser: %v", err)
	}
	if p.Name() != "asc" {
		t.Errorf("parser = %q, want asc", p.Name())
	}

	unknownPath := writeASCFixture(t, "completely unrelated content\nwith more lines\n")
	if _, err := r.FindParser(unknownPath); err == nil {
		t.Error("expected no parser for unrelated content")
	}
}

func TestRegistryGetParserByName(t *testing.T) {
	r := NewRegistry()

	p, err := r.GetParserByName("BLF")
	if err != nil {
		t.Fatalf("GetParserByName: %v", err)
	}
	if p.Name() != "blf" {
		t.Errorf("parser = %q, want blf", p.Name())
	}

	if _, err := r.GetParserByName("pcap"); err == nil {
		t.Error("expected error for unknown parser name")
	}
}
