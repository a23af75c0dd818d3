// handlers_upload.go - Capture file upload and management handlers
package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/buslog-visualizer/backend/internal/storage"
	"github.com/buslog-visualizer/backend/internal/upload"
)

// FileHandlerImpl implements the FileHandler interface
type FileHandlerImpl struct {
	store         storage.Store
	sessionMgr    SessionManager
	uploadManager *upload.Manager
	allowedExts   map[string]struct{}
	allowDeletion bool
}

// NewFileHandler creates a new file handler instance. allowedTypes is a
// comma separated extension list (".blf,.asc,.gz"); empty allows everything.
func NewFileHandler(store storage.Store, sessionMgr SessionManager, uploadMgr *upload.Manager, allowedTypes string, allowDeletion bool) FileHandler {
	h := &FileHandlerImpl{
		store:         store,
		sessionMgr:    sessionMgr,
		uploadManager: uploadMgr,
		allowDeletion: allowDeletion,
	}
	if allowedTypes != "" {
		h.allowedExts = make(map[string]struct{})
		for _, ext := range strings.Split(allowedTypes, ",") {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext != "" {
				h.allowedExts[ext] = struct{}{}
			}
		}
	}
	return h
}

func (h *FileHandlerImpl) checkFileType(name string) error {
	if h.allowedExts == nil {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := h.allowedExts[ext]; !ok {
		return NewBadRequestError(fmt.Sprintf("file type %q not allowed", ext), nil)
	}
	return nil
}

// HandleUploadFile accepts a file as base64 JSON and saves it to storage
func (h *FileHandlerImpl) HandleUploadFile(c echo.Context) error {
	var req uploadFileRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	if err := req.validate(); err != nil {
		return err
	}
	if err := h.checkFileType(req.Name); err != nil {
		return err
	}

	decoded, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return NewBadRequestError("invalid base64 data", err)
	}

	info, err := h.store.Save(req.Name, bytes.NewReader(decoded))
	if err != nil {
		return NewInternalError("failed to save file", err)
	}

	return c.JSON(http.StatusCreated, info)
}

// HandleUploadChunk accepts a single chunk of a chunked upload
func (h *FileHandlerImpl) HandleUploadChunk(c echo.Context) error {
	var req uploadChunkRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	if err := req.validate(); err != nil {
		return err
	}

	decoded, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return NewBadRequestError("invalid base64 data", err)
	}

	if err := h.store.SaveChunk(req.UploadID, req.ChunkIndex, bytes.NewReader(decoded)); err != nil {
		return NewInternalError("failed to save chunk", err)
	}

	return c.NoContent(http.StatusAccepted)
}

// HandleCompleteUpload completes a chunked upload and starts async processing.
// Returns immediately with a job ID for polling or SSE tracking.
func (h *FileHandlerImpl) HandleCompleteUpload(c echo.Context) error {
	var req completeUploadRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	if err := req.validate(); err != nil {
		return err
	}
	if err := h.checkFileType(req.Name); err != nil {
		return err
	}

	job := h.uploadManager.StartJob(
		req.UploadID,
		req.Name,
		req.TotalChunks,
		req.OriginalSize,
		req.CompressedSize,
		req.Encoding,
	)

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"jobId":  job.ID,
		"status": job.Status,
	})
}

// HandleUploadBinary accepts raw binary file upload (multipart/form-data)
func (h *FileHandlerImpl) HandleUploadBinary(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file provided", err)
	}
	if err := h.checkFileType(file.Filename); err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	info, err := h.store.Save(file.Filename, src)
	if err != nil {
		return NewInternalError("failed to save file", err)
	}

	return c.JSON(http.StatusCreated, info)
}

// HandleUploadJobStatus returns the current state of an upload job
func (h *FileHandlerImpl) HandleUploadJobStatus(c echo.Context) error {
	jobID := c.Param("jobId")
	if jobID == "" {
		return NewValidationError("jobId")
	}

	job, ok := h.uploadManager.GetJob(jobID)
	if !ok {
		return NewNotFoundError("upload job", jobID)
	}

	return c.JSON(http.StatusOK, job)
}

// HandleUploadJobStream streams upload processing progress via Server-Sent Events
func (h *FileHandlerImpl) HandleUploadJobStream(c echo.Context) error {
	jobID := c.Param("jobId")
	if jobID == "" {
		return NewValidationError("jobId")
	}

	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	job, ok := h.uploadManager.GetJob(jobID)
	if !ok {
		sendSSEError(c, "job not found")
		return nil
	}
	sendSSEData(c, job)
	if job.Status == upload.StatusComplete || job.Status == upload.StatusError {
		return nil
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	timeout := time.NewTimer(10 * time.Minute)
	defer timeout.Stop()

	for {
		select {
		case <-c.Request().Context().Done():
			return nil

		case <-ticker.C:
			job, ok = h.uploadManager.GetJob(jobID)
			if !ok {
				sendSSEError(c, "job not found")
				return nil
			}
			sendSSEData(c, job)
			if job.Status == upload.StatusComplete || job.Status == upload.StatusError {
				return nil
			}

		case <-timeout.C:
			sendSSEError(c, "stream timeout")
			return nil
		}
	}
}

// HandleGetRecentFiles returns a list of recently uploaded capture files
func (h *FileHandlerImpl) HandleGetRecentFiles(c echo.Context) error {
	files, err := h.store.List(50)
	if err != nil {
		return NewInternalError("failed to list files", err)
	}

	if len(files) > 20 {
		files = files[:20]
	}

	return c.JSON(http.StatusOK, files)
}

// HandleGetFile returns metadata for a specific file
func (h *FileHandlerImpl) HandleGetFile(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	info, err := h.store.Get(id)
	if err != nil {
		return NewNotFoundError("file", id)
	}

	return c.JSON(http.StatusOK, info)
}

// HandleDeleteFile deletes a file and any sessions parsed from it
func (h *FileHandlerImpl) HandleDeleteFile(c echo.Context) error {
	if !h.allowDeletion {
		return NewBadRequestError("file deletion is disabled", nil)
	}

	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	if err := h.store.Delete(id); err != nil {
		return NewNotFoundError("file", id)
	}

	if h.sessionMgr != nil {
		h.sessionMgr.DeleteSessionsForFile(id)
	}

	return c.NoContent(http.StatusNoContent)
}

// HandleRenameFile updates the name of a file
func (h *FileHandlerImpl) HandleRenameFile(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	var req renameFileRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	if req.Name == "" {
		return NewValidationError("name")
	}
	if err := h.checkFileType(req.Name); err != nil {
		return err
	}

	info, err := h.store.Rename(id, req.Name)
	if err != nil {
		return NewNotFoundError("file", id)
	}

	return c.JSON(http.StatusOK, info)
}

// Request/Response types

type uploadFileRequest struct {
	Name string `json:"name"`
	Data string `json:"data"` // Base64-encoded content
}

func (r *uploadFileRequest) validate() error {
	if r.Name == "" {
		return NewValidationError("name")
	}
	if r.Data == "" {
		return NewValidationError("data")
	}
	return nil
}

type uploadChunkRequest struct {
	UploadID    string `json:"uploadId"`
	ChunkIndex  int    `json:"chunkIndex"`
	Data        string `json:"data"` // Base64-encoded chunk
	TotalChunks int    `json:"totalChunks"`
}

func (r *uploadChunkRequest) validate() error {
	if r.UploadID == "" {
		return NewValidationError("uploadId")
	}
	if r.Data == "" {
		return NewValidationError("data")
	}
	if r.ChunkIndex < 0 {
		return NewBadRequestError("chunkIndex must be non-negative", nil)
	}
	return nil
}

type completeUploadRequest struct {
	UploadID       string `json:"uploadId"`
	Name           string `json:"name"`
	TotalChunks    int    `json:"totalChunks"`
	OriginalSize   int64  `json:"originalSize"`
	CompressedSize int64  `json:"compressedSize"`
	Encoding       string `json:"encoding"`
}

func (r *completeUploadRequest) validate() error {
	if r.UploadID == "" {
		return NewValidationError("uploadId")
	}
	if r.Name == "" {
		return NewValidationError("name")
	}
	if r.TotalChunks <= 0 {
		return NewBadRequestError("totalChunks must be positive", nil)
	}
	return nil
}

type renameFileRequest struct {
	Name string `json:"name"`
}

// SSE helpers shared by the upload and parse handlers.

func sendSSEData(c echo.Context, data interface{}) {
	jsonData, _ := json.Marshal(data)
	fmt.Fprintf(c.Response(), "data: %s\n\n", jsonData)
	c.Response().Flush()
}

func sendSSEError(c echo.Context, message string) {
	sendSSEData(c, map[string]string{"error": message})
}
