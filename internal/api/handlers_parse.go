// handlers_parse.go - Parse session operation handlers
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/buslog-visualizer/backend/internal/models"
	"github.com/buslog-visualizer/backend/internal/parser"
	"github.com/buslog-visualizer/backend/internal/storage"
)

// ParseHandlerImpl implements the ParseHandler interface
type ParseHandlerImpl struct {
	store      storage.Store
	sessionMgr SessionManager
}

// NewParseHandler creates a new parse handler instance
func NewParseHandler(store storage.Store, sessionMgr SessionManager) ParseHandler {
	return &ParseHandlerImpl{
		store:      store,
		sessionMgr: sessionMgr,
	}
}

// HandleStartParse starts a new parsing session for one or more files
func (h *ParseHandlerImpl) HandleStartParse(c echo.Context) error {
	var req startParseRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	fileIDs := req.normalizeFileIDs()
	if len(fileIDs) == 0 {
		return NewValidationError("fileId or fileIds")
	}

	filePaths, validFileIDs, err := h.resolveFilePaths(fileIDs)
	if err != nil {
		return err
	}

	var sess *models.ParseSession
	if len(validFileIDs) == 1 {
		sess, err = h.sessionMgr.StartSession(validFileIDs[0], filePaths[0])
	} else {
		sess, err = h.sessionMgr.StartMultiSession(validFileIDs, filePaths)
	}
	if err != nil {
		return NewInternalError("failed to start session", err)
	}

	return c.JSON(http.StatusAccepted, sess)
}

// HandleParseStatus returns the current status of a parsing session
func (h *ParseHandlerImpl) HandleParseStatus(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	sess, ok := h.sessionMgr.GetSession(id)
	if !ok {
		return NewNotFoundError("session", id)
	}

	// Touch session to prevent cleanup while being viewed
	h.sessionMgr.TouchSession(id)

	return c.JSON(http.StatusOK, sess)
}

// HandleSessionKeepAlive extends session lifetime for active viewing
func (h *ParseHandlerImpl) HandleSessionKeepAlive(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	if ok := h.sessionMgr.TouchSession(id); !ok {
		return NewNotFoundError("session", id)
	}

	return c.NoContent(http.StatusNoContent)
}

// HandleParseProgressStream streams parsing progress via SSE
func (h *ParseHandlerImpl) HandleParseProgressStream(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	sess, ok := h.sessionMgr.GetSession(id)
	if !ok {
		sendSSEError(c, "session not found")
		return nil
	}

	sendSSEData(c, sess)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	timeout := time.NewTimer(5 * time.Minute)
	defer timeout.Stop()

	for {
		select {
		case <-c.Request().Context().Done():
			return nil

		case <-ticker.C:
			sess, ok := h.sessionMgr.GetSession(id)
			if !ok {
				sendSSEError(c, "session not found")
				return nil
			}

			sendSSEData(c, sess)

			if sess.Status == models.SessionStatusComplete ||
				sess.Status == models.SessionStatusError {
				return nil
			}

		case <-timeout.C:
			sendSSEError(c, "stream timeout")
			return nil
		}
	}
}

// HandleGetRecords returns filtered, paginated records for a session
func (h *ParseHandlerImpl) HandleGetRecords(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	page, pageSize := paginationParams(c)
	params := buildQueryParams(c)

	ctx := c.Request().Context()
	records, total, ok := h.sessionMgr.QueryRecords(ctx, id, params, page, pageSize)
	if !ok {
		return NewNotFoundError("session", id)
	}

	return c.JSON(http.StatusOK, recordsResponse{
		Records:  records,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	})
}

// HandleGetRecordsMsgpack returns records in MessagePack format.
// Large record pages compress much better than JSON for frontend grids.
func (h *ParseHandlerImpl) HandleGetRecordsMsgpack(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	page, pageSize := paginationParams(c)
	params := buildQueryParams(c)

	ctx := c.Request().Context()
	records, total, ok := h.sessionMgr.QueryRecords(ctx, id, params, page, pageSize)
	if !ok {
		return NewNotFoundError("session", id)
	}

	data, err := msgpack.Marshal(recordsResponse{
		Records:  records,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	})
	if err != nil {
		return NewInternalError("failed to encode records", err)
	}

	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleGetTimeSlice returns all records in a nanosecond time window
func (h *ParseHandlerImpl) HandleGetTimeSlice(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	startNs, err := strconv.ParseUint(c.QueryParam("start"), 10, 64)
	if err != nil {
		return NewBadRequestError("invalid start time", err)
	}
	endNs, err := strconv.ParseUint(c.QueryParam("end"), 10, 64)
	if err != nil {
		return NewBadRequestError("invalid end time", err)
	}
	if endNs < startNs {
		return NewBadRequestError("end must not precede start", nil)
	}

	ctx := c.Request().Context()
	records, ok := h.sessionMgr.GetTimeSlice(ctx, id, startNs, endNs)
	if !ok {
		return NewNotFoundError("session", id)
	}

	return c.JSON(http.StatusOK, records)
}

// HandleGetChannels returns the channels present in a session with record counts
func (h *ParseHandlerImpl) HandleGetChannels(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	ctx := c.Request().Context()
	channels, ok := h.sessionMgr.GetChannels(ctx, id)
	if !ok {
		return NewNotFoundError("session", id)
	}

	return c.JSON(http.StatusOK, channels)
}

// HandleGetBuses returns record counts per bus system for a session
func (h *ParseHandlerImpl) HandleGetBuses(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	ctx := c.Request().Context()
	buses, ok := h.sessionMgr.GetBuses(ctx, id)
	if !ok {
		return NewNotFoundError("session", id)
	}

	return c.JSON(http.StatusOK, buses)
}

// Request/Response types

type startParseRequest struct {
	FileID  string   `json:"fileId"`
	FileIDs []string `json:"fileIds"`
}

func (r *startParseRequest) normalizeFileIDs() []string {
	if len(r.FileIDs) > 0 {
		return r.FileIDs
	}
	if r.FileID != "" {
		return []string{r.FileID}
	}
	return nil
}

type recordsResponse struct {
	Records  []models.RecordView `json:"records" msgpack:"records"`
	Page     int                 `json:"page" msgpack:"page"`
	PageSize int                 `json:"pageSize" msgpack:"pageSize"`
	Total    int                 `json:"total" msgpack:"total"`
}

// Helper methods

func (h *ParseHandlerImpl) resolveFilePaths(fileIDs []string) ([]string, []string, error) {
	var filePaths []string
	var validFileIDs []string

	for _, fid := range fileIDs {
		info, err := h.store.Get(fid)
		if err != nil {
			return nil, nil, NewNotFoundError("file", fid)
		}

		path, err := h.store.GetFilePath(fid)
		if err != nil {
			return nil, nil, NewInternalError("failed to get file path", err)
		}

		validFileIDs = append(validFileIDs, info.ID)
		filePaths = append(filePaths, path)
	}

	return filePaths, validFileIDs, nil
}

func paginationParams(c echo.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.QueryParam("pageSize"))
	if pageSize < 1 || pageSize > 1000 {
		pageSize = 100
	}
	return page, pageSize
}

// buildQueryParams maps query string filters onto the record store's
// query parameters. Unset numeric filters become -1 (match anything).
func buildQueryParams(c echo.Context) parser.QueryParams {
	params := parser.QueryParams{
		Bus:           c.QueryParam("bus"),
		Channel:       -1,
		Type:          c.QueryParam("type"),
		FrameID:       -1,
		Search:        c.QueryParam("search"),
		StartNs:       -1,
		EndNs:         -1,
		SortColumn:    c.QueryParam("sortColumn"),
		SortDirection: c.QueryParam("sortDirection"),
	}

	if v := c.QueryParam("channel"); v != "" {
		if ch, err := strconv.Atoi(v); err == nil {
			params.Channel = ch
		}
	}
	if v := c.QueryParam("frameId"); v != "" {
		// Accept both decimal and 0x-prefixed hex IDs
		if fid, err := strconv.ParseInt(v, 0, 64); err == nil {
			params.FrameID = fid
		}
	}
	if v := c.QueryParam("startNs"); v != "" {
		if ns, err := strconv.ParseInt(v, 10, 64); err == nil {
			params.StartNs = ns
		}
	}
	if v := c.QueryParam("endNs"); v != "" {
		if ns, err := strconv.ParseInt(v, 10, 64); err == nil {
			params.EndNs = ns
		}
	}

	return params
}
