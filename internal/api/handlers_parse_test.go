// handlers_parse_test.go - Tests for parse handlers
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/buslog-visualizer/backend/internal/models"
	"github.com/buslog-visualizer/backend/internal/parser"
	"github.com/buslog-visualizer/backend/internal/testutil"
)

// MockSessionManager is a mock implementation for testing
type MockSessionManager struct {
	sessions   map[string]*models.ParseSession
	records    []models.RecordView
	lastParams parser.QueryParams
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*models.ParseSession),
	}
}

func (m *MockSessionManager) StartSession(fileID, filePath string) (*models.ParseSession, error) {
	session := &models.ParseSession{
		ID:     "test-session-123",
		FileID: fileID,
		Status: models.SessionStatusPending,
	}
	m.sessions[session.ID] = session
	return session, nil
}

func (m *MockSessionManager) StartMultiSession(fileIDs []string, filePaths []string) (*models.ParseSession, error) {
	session := &models.ParseSession{
		ID:      "test-session-123",
		FileIDs: fileIDs,
		Status:  models.SessionStatusPending,
	}
	m.sessions[session.ID] = session
	return session, nil
}

func (m *MockSessionManager) GetSession(id string) (*models.ParseSession, bool) {
	sess, ok := m.sessions[id]
	return sess, ok
}

func (m *MockSessionManager) TouchSession(id string) bool {
	_, ok := m.sessions[id]
	return ok
}

func (m *MockSessionManager) DeleteSessionsForFile(fileID string) {}

func (m *MockSessionManager) GetRecords(ctx context.Context, id string, page, pageSize int) ([]models.RecordView, int, bool) {
	if _, ok := m.sessions[id]; !ok {
		return nil, 0, false
	}
	return m.records, len(m.records), true
}

func (m *MockSessionManager) QueryRecords(ctx context.Context, id string, params parser.QueryParams, page, pageSize int) ([]models.RecordView, int, bool) {
	if _, ok := m.sessions[id]; !ok {
		return nil, 0, false
	}
	m.lastParams = params
	return m.records, len(m.records), true
}

func (m *MockSessionManager) GetTimeSlice(ctx context.Context, id string, startNs, endNs uint64) ([]models.RecordView, bool) {
	if _, ok := m.sessions[id]; !ok {
		return nil, false
	}
	var out []models.RecordView
	for _, r := range m.records {
		if r.TimestampNs >= startNs && r.TimestampNs <= endNs {
			out = append(out, r)
		}
	}
	return out, true
}

func (m *MockSessionManager) GetChannels(ctx context.Context, id string) ([]models.ChannelInfo, bool) {
	if _, ok := m.sessions[id]; !ok {
		return nil, false
	}
	return []models.ChannelInfo{{Bus: "can", Channel: 1, Name: "Powertrain", RecordCount: len(m.records)}}, true
}

func (m *MockSessionManager) GetBuses(ctx context.Context, id string) (map[string]int, bool) {
	if _, ok := m.sessions[id]; !ok {
		return nil, false
	}
	return map[string]int{"can": len(m.records)}, true
}

var _ SessionManager = (*MockSessionManager)(nil)

func testRecords(n int) []models.RecordView {
	records := make([]models.RecordView, n)
	base := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	for i := range records {
		records[i] = models.RecordView{
			Index:       i,
			Timestamp:   base.Add(time.Duration(i) * time.Millisecond),
			TimestampNs: uint64(i) * 1_000_000,
			Bus:         "can",
			Channel:     1,
			Type:        "can_message",
			FrameID:     0x100 + uint32(i),
			DLC:         8,
			Data:        "01 02 03 04 05 06 07 08",
		}
	}
	return records
}

func newParseContext(t *testing.T, method, target string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, target, reqBody)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandleStartParse(t *testing.T) {
	tests := []struct {
		name       string
		request    startParseRequest
		setupFiles map[string][]byte
		wantStatus int
		wantErr    bool
	}{
		{
			name:       "single file parse",
			request:    startParseRequest{FileID: "file-1"},
			setupFiles: map[string][]byte{"file-1": []byte("log content")},
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "multi file parse",
			request:    startParseRequest{FileIDs: []string{"file-1", "file-2"}},
			setupFiles: map[string][]byte{"file-1": []byte("log1"), "file-2": []byte("log2")},
			wantStatus: http.StatusAccepted,
		},
		{
			name:    "no file ids",
			request: startParseRequest{},
			wantErr: true,
		},
		{
			name:    "unknown file",
			request: startParseRequest{FileID: "missing"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMockStorage()
			for id, data := range tt.setupFiles {
				store.AddFile(id, id+".asc", data)
			}
			h := NewParseHandler(store, NewMockSessionManager())

			c, rec := newParseContext(t, http.MethodPost, "/api/parse", tt.request)
			err := h.HandleStartParse(c)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("HandleStartParse: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var sess models.ParseSession
			if err := json.Unmarshal(rec.Body.Bytes(), &sess); err != nil {
				t.Fatalf("invalid response body: %v", err)
			}
			if sess.ID == "" {
				t.Error("response session has no ID")
			}
		})
	}
}

func TestHandleParseStatus(t *testing.T) {
	mgr := NewMockSessionManager()
	sess, _ := mgr.StartSession("file-1", "/tmp/file-1")
	h := NewParseHandler(testutil.NewMockStorage(), mgr)

	c, rec := newParseContext(t, http.MethodGet, "/api/parse/x/status", nil)
	c.SetParamNames("sessionId")
	c.SetParamValues(sess.ID)

	if err := h.HandleParseStatus(c); err != nil {
		t.Fatalf("HandleParseStatus: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}

	c, _ = newParseContext(t, http.MethodGet, "/api/parse/x/status", nil)
	c.SetParamNames("sessionId")
	c.SetParamValues("missing")
	if err := h.HandleParseStatus(c); err == nil {
		t.Error("expected not found error for missing session")
	}
}

func TestHandleGetRecordsFilters(t *testing.T) {
	mgr := NewMockSessionManager()
	mgr.records = testRecords(3)
	sess, _ := mgr.StartSession("file-1", "/tmp/file-1")
	h := NewParseHandler(testutil.NewMockStorage(), mgr)

	target := "/api/parse/x/records?bus=can&channel=2&frameId=0x100&search=abc&startNs=5&endNs=10"
	c, rec := newParseContext(t, http.MethodGet, target, nil)
	c.SetParamNames("sessionId")
	c.SetParamValues(sess.ID)

	if err := h.HandleGetRecords(c); err != nil {
		t.Fatalf("HandleGetRecords: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	p := mgr.lastParams
	if p.Bus != "can" || p.Channel != 2 || p.FrameID != 0x100 || p.Search != "abc" {
		t.Errorf("query params not mapped: %+v", p)
	}
	if p.StartNs != 5 || p.EndNs != 10 {
		t.Errorf("time bounds not mapped: %+v", p)
	}

	var resp struct {
		Records []models.RecordView `json:"records"`
		Total   int                 `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 3 || len(resp.Records) != 3 {
		t.Errorf("total = %d, records = %d", resp.Total, len(resp.Records))
	}
}

func TestHandleGetRecordsDefaults(t *testing.T) {
	mgr := NewMockSessionManager()
	sess, _ := mgr.StartSession("file-1", "/tmp/file-1")
	h := NewParseHandler(testutil.NewMockStorage(), mgr)

	c, _ := newParseContext(t, http.MethodGet, "/api/parse/x/records", nil)
	c.SetParamNames("sessionId")
	c.SetParamValues(sess.ID)

	if err := h.HandleGetRecords(c); err != nil {
		t.Fatalf("HandleGetRecords: %v", err)
	}

	p := mgr.lastParams
	if p.Channel != -1 || p.FrameID != -1 || p.StartNs != -1 || p.EndNs != -1 {
		t.Errorf("unset filters should be -1: %+v", p)
	}
}

func TestHandleGetRecordsMsgpack(t *testing.T) {
	mgr := NewMockSessionManager()
	mgr.records = testRecords(2)
	sess, _ := mgr.StartSession("file-1", "/tmp/file-1")
	h := NewParseHandler(testutil.NewMockStorage(), mgr)

	c, rec := newParseContext(t, http.MethodGet, "/api/parse/x/records/msgpack", nil)
	c.SetParamNames("sessionId")
	c.SetParamValues(sess.ID)

	if err := h.HandleGetRecordsMsgpack(c); err != nil {
		t.Fatalf("HandleGetRecordsMsgpack: %v", err)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "application/msgpack" {
		t.Errorf("content type = %q", ct)
	}

	var resp recordsResponse
	if err := msgpack.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("msgpack decode: %v", err)
	}
	if resp.Total != 2 || len(resp.Records) != 2 {
		t.Errorf("total = %d, records = %d", resp.Total, len(resp.Records))
	}
	if resp.Records[1].FrameID != 0x101 {
		t.Errorf("frame id = %#x", resp.Records[1].FrameID)
	}
}

func TestHandleGetTimeSlice(t *testing.T) {
	mgr := NewMockSessionManager()
	mgr.records = testRecords(5)
	sess, _ := mgr.StartSession("file-1", "/tmp/file-1")
	h := NewParseHandler(testutil.NewMockStorage(), mgr)

	target := fmt.Sprintf("/api/parse/x/timeslice?start=%d&end=%d", 1_000_000, 3_000_000)
	c, rec := newParseContext(t, http.MethodGet, target, nil)
	c.SetParamNames("sessionId")
	c.SetParamValues(sess.ID)

	if err := h.HandleGetTimeSlice(c); err != nil {
		t.Fatalf("HandleGetTimeSlice: %v", err)
	}

	var records []models.RecordView
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Errorf("records in slice = %d, want 3", len(records))
	}

	// end before start is rejected
	c, _ = newParseContext(t, http.MethodGet, "/api/parse/x/timeslice?start=10&end=5", nil)
	c.SetParamNames("sessionId")
	c.SetParamValues(sess.ID)
	if err := h.HandleGetTimeSlice(c); err == nil {
		t.Error("expected error for inverted range")
	}
}

func TestHandleGetChannelsAndBuses(t *testing.T) {
	mgr := NewMockSessionManager()
	mgr.records = testRecords(4)
	sess, _ := mgr.StartSession("file-1", "/tmp/file-1")
	h := NewParseHandler(testutil.NewMockStorage(), mgr)

	c, rec := newParseContext(t, http.MethodGet, "/api/parse/x/channels", nil)
	c.SetParamNames("sessionId")
	c.SetParamValues(sess.ID)
	if err := h.HandleGetChannels(c); err != nil {
		t.Fatalf("HandleGetChannels: %v", err)
	}
	var channels []models.ChannelInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &channels); err != nil {
		t.Fatal(err)
	}
	if len(channels) != 1 || channels[0].Name != "Powertrain" {
		t.Errorf("channels = %+v", channels)
	}

	c, rec = newParseContext(t, http.MethodGet, "/api/parse/x/buses", nil)
	c.SetParamNames("sessionId")
	c.SetParamValues(sess.ID)
	if err := h.HandleGetBuses(c); err != nil {
		t.Fatalf("HandleGetBuses: %v", err)
	}
	var buses map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &buses); err != nil {
		t.Fatal(err)
	}
	if buses["can"] != 4 {
		t.Errorf("buses = %v", buses)
	}
}

func TestHandleSessionKeepAlive(t *testing.T) {
	mgr := NewMockSessionManager()
	sess, _ := mgr.StartSession("file-1", "/tmp/file-1")
	h := NewParseHandler(testutil.NewMockStorage(), mgr)

	c, rec := newParseContext(t, http.MethodPost, "/api/parse/x/keepalive", nil)
	c.SetParamNames("sessionId")
	c.SetParamValues(sess.ID)
	if err := h.HandleSessionKeepAlive(c); err != nil {
		t.Fatalf("HandleSessionKeepAlive: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d", rec.Code)
	}

	c, _ = newParseContext(t, http.MethodPost, "/api/parse/x/keepalive", nil)
	c.SetParamNames("sessionId")
	c.SetParamValues("missing")
	if err := h.HandleSessionKeepAlive(c); err == nil {
		t.Error("expected error for missing session")
	}
}
