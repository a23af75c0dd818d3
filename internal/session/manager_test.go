package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/buslog-visualizer/backend/internal/models"
)

const ascContent = `date Fri Mar 15 09:30:00.000 am 2024
base hex  timestamps absolute
   0.001000 1  100             Rx   d 8 01 02 03 04 05 06 07 08
   0.002000 1  200             Rx   d 2 AA BB
   0.003000 2  300             Rx   d 1 CC
`

func writeTestLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.asc")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func waitForSession(t *testing.T, m *Manager, id string) *models.ParseSession {
	t.Helper()
	for i := 0; i < 50; i++ {
		s, ok := m.GetSession(id)
		if !ok {
			t.Fatalf("session not found")
		}
		if s.Status == models.SessionStatusComplete {
			return s
		}
		if s.Status == models.SessionStatusError {
			t.Fatalf("session error: %v", s.Errors)
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatal("session did not complete in time")
	return nil
}

func TestSessionManager(t *testing.T) {
	path := writeTestLog(t, ascContent)
	m := NewManagerWithTempDir(t.TempDir())

	sess, err := m.StartSession("file-1", path)
	if err != nil {
		t.Fatalf("Failed to start session: %v", err)
	}

	s := waitForSession(t, m, sess.ID)
	if s.RecordCount != 3 {
		t.Errorf("Expected 3 records, got %d", s.RecordCount)
	}
	if s.ParserName != "asc" {
		t.Errorf("Expected parser asc, got %q", s.ParserName)
	}
	if s.Progress != 100 {
		t.Errorf("Expected progress 100, got %v", s.Progress)
	}

	records, total, ok := m.GetRecords(context.Background(), sess.ID, 1, 10)
	if !ok {
		t.Fatalf("Failed to get records")
	}
	if total != 3 {
		t.Errorf("Expected 3 records, got %d", total)
	}
	if records[0].FrameID != 0x100 {
		t.Errorf("First frame id = %#x", records[0].FrameID)
	}
}

func TestSessionManagerChannelRules(t *testing.T) {
	path := writeTestLog(t, ascContent)
	m := NewManagerWithTempDir(t.TempDir())
	m.SetChannelRules(&models.ChannelRules{
		Channels: []models.ChannelMapping{
			{Bus: "can", Channel: 1, Name: "Powertrain"},
		},
	})

	sess, err := m.StartSession("file-1", path)
	if err != nil {
		t.Fatalf("Failed to start session: %v", err)
	}
	waitForSession(t, m, sess.ID)

	records, _, ok := m.GetRecords(context.Background(), sess.ID, 1, 10)
	if !ok {
		t.Fatal("Failed to get records")
	}
	if records[0].ChannelName != "Powertrain" {
		t.Errorf("channel name = %q, want Powertrain", records[0].ChannelName)
	}
	if records[2].ChannelName != "" {
		t.Errorf("unmapped channel got name %q", records[2].ChannelName)
	}
}

func TestSessionManagerChannels(t *testing.T) {
	path := writeTestLog(t, ascContent)
	m := NewManagerWithTempDir(t.TempDir())

	sess, _ := m.StartSession("file-1", path)
	waitForSession(t, m, sess.ID)

	channels, ok := m.GetChannels(context.Background(), sess.ID)
	if !ok {
		t.Fatal("Failed to get channels")
	}
	if len(channels) != 2 {
		t.Fatalf("Expected 2 channels, got %d", len(channels))
	}
	if channels[0].RecordCount != 2 {
		t.Errorf("channel 1 count = %d, want 2", channels[0].RecordCount)
	}

	buses, ok := m.GetBuses(context.Background(), sess.ID)
	if !ok {
		t.Fatal("Failed to get buses")
	}
	if buses["can"] != 3 {
		t.Errorf("can count = %d, want 3", buses["can"])
	}
}

func TestSessionManagerTimeSlice(t *testing.T) {
	path := writeTestLog(t, ascContent)
	m := NewManagerWithTempDir(t.TempDir())

	sess, _ := m.StartSession("file-1", path)
	waitForSession(t, m, sess.ID)

	records, ok := m.GetTimeSlice(context.Background(), sess.ID, 1_500_000, 2_500_000)
	if !ok {
		t.Fatal("Failed to get time slice")
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record in slice, got %d", len(records))
	}
	if records[0].FrameID != 0x200 {
		t.Errorf("sliced frame id = %#x", records[0].FrameID)
	}
}

func TestMultiSessionMerge(t *testing.T) {
	pathA := writeTestLog(t, ascContent)
	pathB := writeTestLog(t, `date Fri Mar 15 09:30:00.000 am 2024
base hex  timestamps absolute
   0.001500 3  400             Rx   d 1 EE
`)
	m := NewManagerWithTempDir(t.TempDir())

	sess, err := m.StartMultiSession([]string{"file-a", "file-b"}, []string{pathA, pathB})
	if err != nil {
		t.Fatalf("Failed to start multi session: %v", err)
	}
	if len(sess.FileIDs) != 2 {
		t.Errorf("FileIDs = %v", sess.FileIDs)
	}

	s := waitForSession(t, m, sess.ID)
	if s.RecordCount != 4 {
		t.Errorf("Expected 4 merged records, got %d", s.RecordCount)
	}

	records, _, ok := m.GetRecords(context.Background(), sess.ID, 1, 10)
	if !ok {
		t.Fatal("Failed to get merged records")
	}
	// file-b's record lands between the first and second of file-a
	if records[1].SourceID != "file-b" {
		t.Errorf("records[1].SourceID = %q, want file-b", records[1].SourceID)
	}
	for i := 1; i < len(records); i++ {
		if records[i].Timestamp.Before(records[i-1].Timestamp) {
			t.Fatalf("merged records out of order at %d", i)
		}
	}
}

func TestSessionCleanup(t *testing.T) {
	path := writeTestLog(t, ascContent)
	m := NewManagerWithTempDir(t.TempDir())

	sess, _ := m.StartSession("file-1", path)
	waitForSession(t, m, sess.ID)

	// Fresh sessions survive cleanup via the keep-alive window.
	m.CleanupOldSessions(time.Nanosecond)
	if _, ok := m.GetSession(sess.ID); !ok {
		t.Fatal("recently accessed session was cleaned up")
	}

	// Age the session past the keep-alive window, then it goes.
	m.mu.Lock()
	m.sessions[sess.ID].LastAccessed = time.Now().Add(-time.Hour)
	m.mu.Unlock()

	m.CleanupOldSessions(time.Minute)
	if _, ok := m.GetSession(sess.ID); ok {
		t.Error("aged session should have been cleaned up")
	}
}

func TestTouchSession(t *testing.T) {
	path := writeTestLog(t, ascContent)
	m := NewManagerWithTempDir(t.TempDir())

	sess, _ := m.StartSession("file-1", path)
	waitForSession(t, m, sess.ID)

	if !m.TouchSession(sess.ID) {
		t.Error("TouchSession failed for live session")
	}
	if m.TouchSession("missing") {
		t.Error("TouchSession succeeded for missing session")
	}
}
