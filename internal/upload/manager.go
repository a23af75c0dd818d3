// Package upload handles async post-processing of uploaded capture
// files: chunk assembly and gzip decompression, plus a drop-directory
// watcher for hands-off ingest.
package upload

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"

	"github.com/buslog-visualizer/backend/internal/models"
)

// Status represents the upload processing status.
type Status string

const (
	StatusProcessing    Status = "processing"
	StatusAssembling    Status = "assembling"
	StatusDecompressing Status = "decompressing"
	StatusComplete      Status = "complete"
	StatusError         Status = "error"
)

// Job represents an async upload processing job.
type Job struct {
	ID             string           `json:"id"`
	UploadID       string           `json:"uploadId"`
	FileName       string           `json:"fileName"`
	TotalChunks    int              `json:"totalChunks"`
	OriginalSize   int64            `json:"originalSize"`
	CompressedSize int64            `json:"compressedSize"`
	Encoding       string           `json:"encoding"`
	Status         Status           `json:"status"`
	Progress       float64          `json:"progress"`
	Stage          string           `json:"stage"`
	StageProgress  float64          `json:"stageProgress"`
	FileInfo       *models.FileInfo `json:"fileInfo,omitempty"`
	Error          string           `json:"error,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	CompletedAt    *time.Time       `json:"completedAt,omitempty"`
}

// Manager handles async upload processing.
type Manager struct {
	jobs      map[string]*Job
	mu        sync.RWMutex
	uploadDir string
	store     Store
}

// Store defines the interface needed from the storage layer.
type Store interface {
	CompleteChunkedUpload(uploadID string, name string, totalChunks int) (*models.FileInfo, error)
	GetFilePath(id string) (string, error)
	RegisterFile(path string, name string, source string) (*models.FileInfo, error)
}

// NewManager creates a new upload processing manager.
func NewManager(uploadDir string, store Store) *Manager {
	return &Manager{
		jobs:      make(map[string]*Job),
		uploadDir: uploadDir,
		store:     store,
	}
}

// StartJob begins async processing of an upload.
func (m *Manager) StartJob(uploadID, fileName string, totalChunks int, originalSize, compressedSize int64, encoding string) *Job {
	job := &Job{
		ID:             uuid.New().String(),
		UploadID:       uploadID,
		FileName:       fileName,
		TotalChunks:    totalChunks,
		OriginalSize:   originalSize,
		CompressedSize: compressedSize,
		Encoding:       encoding,
		Status:         StatusProcessing,
		Progress:       0,
		Stage:          "preparing",
		StageProgress:  0,
		CreatedAt:      time.Now(),
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	go m.processJob(job)

	return job
}

// GetJob retrieves a job by ID.
func (m *Manager) GetJob(id string) (*Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	return job, ok
}

// processJob handles the actual async processing.
func (m *Manager) processJob(job *Job) {
	log.Info().Str("job", job.ID).Str("file", job.FileName).Msg("processing upload")

	// Stage 1: Assemble chunks
	m.updateJobStatus(job, StatusAssembling, "assembling chunks", 0)

	info, err := m.store.CompleteChunkedUpload(job.UploadID, job.FileName, job.TotalChunks)
	if err != nil {
		m.markJobError(job, fmt.Sprintf("failed to assemble chunks: %v", err))
		return
	}

	m.updateJobStatus(job, StatusAssembling, "assembling chunks", 100)

	// Stage 2: Decompress if needed
	if job.Encoding == "gzip" || job.Encoding == "binary-gzip" {
		m.updateJobStatus(job, StatusDecompressing, "decompressing file", 0)

		if err := m.decompressFileWithProgress(job, info.ID); err != nil {
			// Keep the file as uploaded; it may still be parseable.
			log.Warn().Err(err).Str("job", job.ID).Str("file", info.ID).Msg("decompression failed")
		} else {
			info.Size = job.OriginalSize
		}

		m.updateJobStatus(job, StatusDecompressing, "decompressing file", 100)
	}

	job.FileInfo = info
	m.markJobComplete(job)
	log.Info().Str("job", job.ID).Str("file", info.ID).Int64("size", info.Size).Msg("upload processed")
}

// decompressFileWithProgress decompresses a gzip file with progress tracking.
func (m *Manager) decompressFileWithProgress(job *Job, fileID string) error {
	path, err := m.store.GetFilePath(fileID)
	if err != nil {
		return err
	}

	compressedFile, err := os.Open(path)
	if err != nil {
		return err
	}
	defer compressedFile.Close()

	// Check gzip magic
	magic := make([]byte, 2)
	if _, err := compressedFile.Read(magic); err != nil {
		return err
	}
	if magic[0] != 0x1f || magic[1] != 0x8b {
		return fmt.Errorf("not a gzip file")
	}

	compressedFile.Seek(0, 0)

	reader, err := gzip.NewReader(compressedFile)
	if err != nil {
		return err
	}
	defer reader.Close()

	tempPath := path + ".decompressing"
	outFile, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	buf := make([]byte, 1024*1024)
	var written int64
	lastProgressUpdate := time.Now()

	for {
		n, readErr := reader.Read(buf)
		if n > 0 {
			_, writeErr := outFile.Write(buf[:n])
			if writeErr != nil {
				outFile.Close()
				os.Remove(tempPath)
				return fmt.Errorf("write error: %w", writeErr)
			}
			written += int64(n)

			if time.Since(lastProgressUpdate) > 100*time.Millisecond {
				progress := float64(written) / float64(job.OriginalSize) * 100
				if progress > 99 {
					progress = 99
				}
				m.updateJobStatus(job, StatusDecompressing, "decompressing file", progress)
				lastProgressUpdate = time.Now()
			}
		}
		if readErr != nil {
			if readErr != io.EOF {
				outFile.Close()
				os.Remove(tempPath)
				return fmt.Errorf("read error: %w", readErr)
			}
			break
		}
	}

	outFile.Close()

	if written != job.OriginalSize {
		os.Remove(tempPath)
		return fmt.Errorf("decompressed size mismatch: got %d bytes, expected %d bytes", written, job.OriginalSize)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return err
	}

	return nil
}

// updateJobStatus updates job progress (thread-safe).
func (m *Manager) updateJobStatus(job *Job, status Status, stage string, stageProgress float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job.Status = status
	job.Stage = stage
	job.StageProgress = stageProgress

	// Assembling: 0-40%, Decompressing: 40-90%, Finalizing: 90-100%
	switch status {
	case StatusAssembling:
		job.Progress = stageProgress * 0.4
	case StatusDecompressing:
		job.Progress = 40 + stageProgress*0.5
	case StatusComplete:
		job.Progress = 100
	}
}

// markJobComplete marks job as complete (thread-safe).
func (m *Manager) markJobComplete(job *Job) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job.Status = StatusComplete
	job.Progress = 100
	now := time.Now()
	job.CompletedAt = &now
}

// markJobError marks job as failed (thread-safe).
func (m *Manager) markJobError(job *Job, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job.Status = StatusError
	job.Error = errMsg
	now := time.Now()
	job.CompletedAt = &now
	log.Error().Str("job", job.ID).Str("error", errMsg).Msg("upload job failed")
}

// CleanupOldJobs removes jobs older than the specified duration.
func (m *Manager) CleanupOldJobs(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	for id, job := range m.jobs {
		if job.Status == StatusComplete || job.Status == StatusError {
			if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
				delete(m.jobs, id)
			}
		}
	}
}
