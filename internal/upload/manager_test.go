package upload

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/buslog-visualizer/backend/internal/models"
)

// fakeStore implements Store over a flat directory.
type fakeStore struct {
	mu     sync.Mutex
	dir    string
	files  map[string]*models.FileInfo
	chunks map[string][][]byte
}

func newFakeStore(dir string) *fakeStore {
	return &fakeStore{
		dir:    dir,
		files:  make(map[string]*models.FileInfo),
		chunks: make(map[string][][]byte),
	}
}

func (s *fakeStore) addChunks(uploadID string, chunks ...[]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks[uploadID] = chunks
}

func (s *fakeStore) CompleteChunkedUpload(uploadID string, name string, totalChunks int) (*models.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chunks, ok := s.chunks[uploadID]
	if !ok || len(chunks) != totalChunks {
		return nil, fmt.Errorf("missing chunks for %s", uploadID)
	}

	id := "file-" + uploadID
	var data []byte
	for _, c := range chunks {
		data = append(data, c...)
	}
	if err := os.WriteFile(filepath.Join(s.dir, id), data, 0644); err != nil {
		return nil, err
	}

	info := &models.FileInfo{ID: id, Name: name, Size: int64(len(data)), Status: "uploaded"}
	s.files[id] = info
	return info, nil
}

func (s *fakeStore) GetFilePath(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[id]; !ok {
		return "", fmt.Errorf("file not found: %s", id)
	}
	return filepath.Join(s.dir, id), nil
}

func (s *fakeStore) RegisterFile(path string, name string, source string) (*models.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	id := "reg-" + name
	if err := os.WriteFile(filepath.Join(s.dir, id), data, 0644); err != nil {
		return nil, err
	}
	info := &models.FileInfo{ID: id, Name: name, Size: int64(len(data)), Status: "uploaded", Source: source}
	s.files[id] = info
	return info, nil
}

func waitForJob(t *testing.T, m *Manager, id string) *Job {
	t.Helper()
	for i := 0; i < 50; i++ {
		job, ok := m.GetJob(id)
		if !ok {
			t.Fatal("job not found")
		}
		if job.Status == StatusComplete {
			return job
		}
		if job.Status == StatusError {
			t.Fatalf("job failed: %s", job.Error)
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("job did not complete in time")
	return nil
}

func TestProcessJobPlain(t *testing.T) {
	dir := t.TempDir()
	store := newFakeStore(dir)
	store.addChunks("u1", []byte("hello "), []byte("world"))

	m := NewManager(dir, store)
	job := m.StartJob("u1", "capture.blf", 2, 11, 11, "")

	done := waitForJob(t, m, job.ID)
	if done.FileInfo == nil || done.FileInfo.Size != 11 {
		t.Errorf("file info = %+v", done.FileInfo)
	}
	if done.Progress != 100 {
		t.Errorf("progress = %v", done.Progress)
	}
}

func TestProcessJobGzip(t *testing.T) {
	dir := t.TempDir()
	store := newFakeStore(dir)

	original := bytes.Repeat([]byte("capture data "), 100)
	var compressed bytes.Buffer
	zw := gzip.NewWriter(&compressed)
	zw.Write(original)
	zw.Close()

	store.addChunks("u2", compressed.Bytes())

	m := NewManager(dir, store)
	job := m.StartJob("u2", "capture.blf.gz", 1, int64(len(original)), int64(compressed.Len()), "gzip")

	done := waitForJob(t, m, job.ID)
	if done.FileInfo.Size != int64(len(original)) {
		t.Errorf("size = %d, want %d", done.FileInfo.Size, len(original))
	}

	path, err := store.GetFilePath(done.FileInfo.ID)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, original) {
		t.Error("decompressed content does not match original")
	}
}

func TestProcessJobBadGzipKeepsFile(t *testing.T) {
	dir := t.TempDir()
	store := newFakeStore(dir)
	store.addChunks("u3", []byte("not gzip at all"))

	m := NewManager(dir, store)
	job := m.StartJob("u3", "capture.gz", 1, 100, 15, "gzip")

	done := waitForJob(t, m, job.ID)
	// Decompression fails, the raw upload survives.
	if done.Status != StatusComplete {
		t.Errorf("status = %v", done.Status)
	}
	if done.FileInfo.Size != 15 {
		t.Errorf("size = %d, want original 15", done.FileInfo.Size)
	}
}

func TestCleanupOldJobs(t *testing.T) {
	dir := t.TempDir()
	store := newFakeStore(dir)
	store.addChunks("u4", []byte("x"))

	m := NewManager(dir, store)
	job := m.StartJob("u4", "a.blf", 1, 1, 1, "")
	waitForJob(t, m, job.ID)

	m.CleanupOldJobs(time.Hour)
	if _, ok := m.GetJob(job.ID); !ok {
		t.Fatal("fresh job should survive cleanup")
	}

	m.CleanupOldJobs(0)
	if _, ok := m.GetJob(job.ID); ok {
		t.Error("completed job should be cleaned up")
	}
}

func TestWatcherIngestsExisting(t *testing.T) {
	storeDir := t.TempDir()
	dropDir := t.TempDir()
	store := newFakeStore(storeDir)

	if err := os.WriteFile(filepath.Join(dropDir, "drop.blf"), []byte("LOGG data"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dropDir, "notes.txt"), []byte("ignore"), 0644); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var ingested []string
	w := NewWatcher(dropDir, store, []string{".blf", ".asc", ".gz"})
	w.OnIngest = func(fileID string) {
		mu.Lock()
		ingested = append(ingested, fileID)
		mu.Unlock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	deadline := time.After(3 * time.Second)
	for {
		mu.Lock()
		n := len(ingested)
		mu.Unlock()
		if n == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("existing file was not ingested")
		case <-time.After(50 * time.Millisecond):
		}
	}
	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dropDir, "drop.blf")); !os.IsNotExist(err) {
		t.Error("ingested file should be removed from drop directory")
	}
	if _, err := os.Stat(filepath.Join(dropDir, "notes.txt")); err != nil {
		t.Error("non-capture file should be left alone")
	}
}
