// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/buslog-visualizer/backend/internal/models"
	"github.com/buslog-visualizer/backend/internal/parser"
)

// FileHandler handles capture file upload and management operations
type FileHandler interface {
	HandleUploadFile(c echo.Context) error
	HandleUploadChunk(c echo.Context) error
	HandleCompleteUpload(c echo.Context) error
	HandleUploadBinary(c echo.Context) error
	HandleUploadJobStatus(c echo.Context) error
	HandleUploadJobStream(c echo.Context) error
	HandleGetRecentFiles(c echo.Context) error
	HandleGetFile(c echo.Context) error
	HandleDeleteFile(c echo.Context) error
	HandleRenameFile(c echo.Context) error
}

// ParseHandler handles parsing session operations
type ParseHandler interface {
	HandleStartParse(c echo.Context) error
	HandleParseStatus(c echo.Context) error
	HandleParseProgressStream(c echo.Context) error
	HandleGetRecords(c echo.Context) error
	HandleGetRecordsMsgpack(c echo.Context) error
	HandleGetTimeSlice(c echo.Context) error
	HandleGetChannels(c echo.Context) error
	HandleGetBuses(c echo.Context) error
	HandleSessionKeepAlive(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// SessionManager defines the interface for session management
// This allows mocking in tests
type SessionManager interface {
	StartSession(fileID, filePath string) (*models.ParseSession, error)
	StartMultiSession(fileIDs []string, filePaths []string) (*models.ParseSession, error)
	GetSession(id string) (*models.ParseSession, bool)
	TouchSession(id string) bool
	DeleteSessionsForFile(fileID string)
	GetRecords(ctx context.Context, id string, page, pageSize int) ([]models.RecordView, int, bool)
	QueryRecords(ctx context.Context, id string, params parser.QueryParams, page, pageSize int) ([]models.RecordView, int, bool)
	GetTimeSlice(ctx context.Context, id string, startNs, endNs uint64) ([]models.RecordView, bool)
	GetChannels(ctx context.Context, id string) ([]models.ChannelInfo, bool)
	GetBuses(ctx context.Context, id string) (map[string]int, bool)
}
