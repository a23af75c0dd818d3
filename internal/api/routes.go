// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/buslog-visualizer/backend/internal/session"
	"github.com/buslog-visualizer/backend/internal/storage"
	"github.com/buslog-visualizer/backend/internal/upload"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store             storage.Store
	SessionMgr        *session.Manager
	UploadMgr         *upload.Manager
	AllowedFileTypes  string
	AllowFileDeletion bool
	Version           string
}

// Handlers holds all handler instances
type Handlers struct {
	Health HealthHandler
	Files  FileHandler
	Parse  ParseHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Version),
		Files:  NewFileHandler(deps.Store, deps.SessionMgr, deps.UploadMgr, deps.AllowedFileTypes, deps.AllowFileDeletion),
		Parse:  NewParseHandler(deps.Store, deps.SessionMgr),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	// Health check
	e.GET("/health", handlers.Health.HandleHealth)

	// Capture file routes
	fileGroup := e.Group("/api/files")
	fileGroup.POST("/upload", handlers.Files.HandleUploadFile)
	fileGroup.POST("/upload/chunk", handlers.Files.HandleUploadChunk)
	fileGroup.POST("/upload/complete", handlers.Files.HandleCompleteUpload)
	fileGroup.POST("/upload/binary", handlers.Files.HandleUploadBinary)
	fileGroup.GET("/upload/jobs/:jobId", handlers.Files.HandleUploadJobStatus)
	fileGroup.GET("/upload/jobs/:jobId/stream", handlers.Files.HandleUploadJobStream)
	fileGroup.GET("/recent", handlers.Files.HandleGetRecentFiles)
	fileGroup.GET("/:id", handlers.Files.HandleGetFile)
	fileGroup.DELETE("/:id", handlers.Files.HandleDeleteFile)
	fileGroup.PUT("/:id", handlers.Files.HandleRenameFile)

	// Parse session routes
	parseGroup := e.Group("/api/parse")
	parseGroup.POST("", handlers.Parse.HandleStartParse)
	parseGroup.GET("/:sessionId/status", handlers.Parse.HandleParseStatus)
	parseGroup.POST("/:sessionId/keepalive", handlers.Parse.HandleSessionKeepAlive)
	parseGroup.GET("/:sessionId/progress", handlers.Parse.HandleParseProgressStream)
	parseGroup.GET("/:sessionId/records", handlers.Parse.HandleGetRecords)
	parseGroup.GET("/:sessionId/records/msgpack", handlers.Parse.HandleGetRecordsMsgpack)
	parseGroup.GET("/:sessionId/timeslice", handlers.Parse.HandleGetTimeSlice)
	parseGroup.GET("/:sessionId/channels", handlers.Parse.HandleGetChannels)
	parseGroup.GET("/:sessionId/buses", handlers.Parse.HandleGetBuses)
}

// SetupMiddleware configures the API error handler
func SetupMiddleware(e *echo.Echo) {
	e.HTTPErrorHandler = ErrorHandler
}
