// Package session tracks active parse sessions and their record
// stores. Parsing runs in background goroutines; the API layer polls
// session status and queries records once a session completes.
package session

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/buslog-visualizer/backend/internal/models"
	"github.com/buslog-visualizer/backend/internal/parser"
)

// MaxSessions limits concurrent sessions to prevent memory exhaustion
const MaxSessions = 10

// SessionMaxAge is how long to keep completed sessions before cleanup
const SessionMaxAge = 30 * time.Minute

// SessionKeepAliveWindow is how long to keep sessions that are actively being used
const SessionKeepAliveWindow = 5 * time.Minute

// Manager handles active log parsing sessions.
type Manager struct {
	sessions map[string]*SessionState
	mu       sync.RWMutex
	registry *parser.Registry
	tempDir  string
	rules    *models.ChannelRules
}

// SessionState holds the session metadata and the backing storage.
// Small files and merged sessions keep records in memory; BLF captures
// stream into a DuckDB-backed store.
type SessionState struct {
	Session      *models.ParseSession
	Result       *models.ParsedRecords
	Store        *parser.RecordStore
	LastAccessed time.Time
}

// NewManager creates a new session manager.
// Uses environment variable DUCKDB_TEMP_DIR for temp directory, defaults to ./data/temp
func NewManager() *Manager {
	tempDir := os.Getenv("DUCKDB_TEMP_DIR")
	if tempDir == "" {
		tempDir = "./data/temp"
	}
	os.MkdirAll(tempDir, 0755)
	return NewManagerWithTempDir(tempDir)
}

// NewManagerWithTempDir creates a session manager with a specific temp directory.
func NewManagerWithTempDir(tempDir string) *Manager {
	return &Manager{
		sessions: make(map[string]*SessionState),
		registry: parser.GetGlobalRegistry(),
		tempDir:  tempDir,
	}
}

// SetChannelRules installs display-name mappings applied to records as
// sessions complete.
func (m *Manager) SetChannelRules(rules *models.ChannelRules) {
	m.mu.Lock()
	m.rules = rules
	m.mu.Unlock()
}

// StartSession begins the parsing process for a file.
func (m *Manager) StartSession(fileID, filePath string) (*models.ParseSession, error) {
	m.cleanupOldSessionsIfNeeded()

	sessionID := uuid.New().String()

	session := models.NewParseSession(sessionID, fileID)
	session.Status = models.SessionStatusParsing

	state := &SessionState{
		Session:      session,
		LastAccessed: time.Now(),
	}

	m.mu.Lock()
	m.sessions[sessionID] = state
	m.mu.Unlock()

	go m.runParse(sessionID, filePath)

	return session, nil
}

func (m *Manager) runParse(sessionID, filePath string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("session", sessionID).Interface("panic", r).Msg("parse panicked")
			m.updateSessionError(sessionID, fmt.Sprintf("parse panicked: %v", r))
		}
	}()

	start := time.Now()
	log.Info().Str("session", sessionID).Str("file", filePath).Msg("starting parse")

	p, err := m.registry.FindParser(filePath)
	if err != nil {
		m.updateSessionError(sessionID, fmt.Sprintf("failed to find parser: %v", err))
		return
	}

	m.mu.Lock()
	if state, ok := m.sessions[sessionID]; ok {
		state.Session.Progress = 10
		state.Session.Status = models.SessionStatusParsing
	}
	m.mu.Unlock()

	progressCb := func(records int, bytesRead, totalBytes int64) {
		var progress float64
		if totalBytes > 0 {
			progress = 10.0 + float64(bytesRead)*80.0/float64(totalBytes)
		} else {
			progress = 10.0
		}
		// Clamp below 90; the last stretch is finalization.
		if progress > 89.9 {
			progress = 89.9
		}

		m.mu.Lock()
		if state, ok := m.sessions[sessionID]; ok {
			state.Session.Progress = progress
			state.Session.RecordCount = records
		}
		m.mu.Unlock()
	}

	// BLF captures stream to DuckDB; text formats parse in memory.
	if sp, ok := p.(parser.StoreParser); ok {
		m.runParseToStore(sessionID, filePath, sp, progressCb, start)
		return
	}

	result, parseErrors, err := p.ParseWithProgress(filePath, progressCb)
	if err != nil {
		m.updateSessionError(sessionID, fmt.Sprintf("parse failed: %v", err))
		return
	}

	m.applyChannelNames(result)

	elapsed := time.Since(start).Milliseconds()
	log.Info().
		Str("session", sessionID).
		Int("records", len(result.Records)).
		Int64("elapsed_ms", elapsed).
		Msg("parse complete")

	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[sessionID]
	if !ok {
		return
	}

	state.Result = result
	state.Session.Status = models.SessionStatusComplete
	state.Session.Progress = 100
	state.Session.RecordCount = len(result.Records)
	state.Session.SkippedCount = result.Skipped
	state.Session.ChannelCount = len(result.Channels)
	state.Session.ProcessingTimeMs = elapsed
	state.Session.ParserName = p.Name()

	if result.TimeRange != nil {
		state.Session.StartTime = result.TimeRange.Start.UnixMilli()
		state.Session.EndTime = result.TimeRange.End.UnixMilli()
	}

	state.Session.Errors = collectErrors(parseErrors)
}

// runParseToStore handles DuckDB-backed parsing for memory efficiency.
func (m *Manager) runParseToStore(sessionID, filePath string, p parser.StoreParser, progressCb parser.ProgressCallback, start time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("session", sessionID).Interface("panic", r).Msg("store parse panicked")
			m.updateSessionError(sessionID, fmt.Sprintf("parse panicked: %v", r))
		}
	}()

	store, err := parser.NewRecordStore(m.tempDir, sessionID)
	if err != nil {
		m.updateSessionError(sessionID, fmt.Sprintf("failed to create storage: %v", err))
		return
	}

	parseErrors, err := p.ParseToStore(filePath, store, progressCb)
	if err != nil {
		store.Close()
		m.updateSessionError(sessionID, fmt.Sprintf("parse failed: %v", err))
		return
	}
	if err := store.LastError(); err != nil {
		store.Close()
		m.updateSessionError(sessionID, fmt.Sprintf("storage write failed: %v", err))
		return
	}

	elapsed := time.Since(start).Milliseconds()
	log.Info().
		Str("session", sessionID).
		Int("records", store.Len()).
		Int("skipped", store.Skipped()).
		Int64("elapsed_ms", elapsed).
		Msg("parse complete")

	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[sessionID]
	if !ok {
		store.Close()
		return
	}

	state.Store = store
	state.Session.Status = models.SessionStatusComplete
	state.Session.Progress = 100
	state.Session.RecordCount = store.Len()
	state.Session.SkippedCount = store.Skipped()
	state.Session.ProcessingTimeMs = elapsed
	state.Session.ParserName = p.Name()

	if tr := store.GetTimeRange(); tr != nil {
		state.Session.StartTime = tr.Start.UnixMilli()
		state.Session.EndTime = tr.End.UnixMilli()
	}

	state.Session.Errors = collectErrors(parseErrors)
}

func (m *Manager) applyChannelNames(result *models.ParsedRecords) {
	m.mu.RLock()
	rules := m.rules
	m.mu.RUnlock()
	if rules == nil {
		return
	}

	for i := range result.Records {
		rv := &result.Records[i]
		if name := rules.NameFor(string(rv.Bus), rv.Channel); name != "" {
			rv.ChannelName = name
			result.Channels[name] = struct{}{}
		}
	}
}

func collectErrors(parseErrors []*models.ParseError) []models.ParseError {
	errs := make([]models.ParseError, 0, len(parseErrors))
	for _, e := range parseErrors {
		if e != nil {
			errs = append(errs, *e)
		}
	}
	return errs
}

func (m *Manager) updateSessionError(sessionID, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[sessionID]
	if !ok {
		return
	}

	state.Session.Status = models.SessionStatusError
	state.Session.Errors = append(state.Session.Errors, models.ParseError{
		Reason: reason,
	})
}

// cleanupOldSessionsIfNeeded removes oldest completed sessions if at capacity
func (m *Manager) cleanupOldSessionsIfNeeded() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) < MaxSessions {
		return
	}

	var toDelete []string
	for id, state := range m.sessions {
		if state.Session.Status == models.SessionStatusComplete ||
			state.Session.Status == models.SessionStatusError {
			toDelete = append(toDelete, id)
		}
	}

	toFree := len(m.sessions) - MaxSessions + 1
	deleted := 0
	for _, id := range toDelete {
		if deleted >= toFree {
			break
		}
		if state, ok := m.sessions[id]; ok {
			if state.Store != nil {
				state.Store.Close()
			}
			delete(m.sessions, id)
			deleted++
			log.Info().Str("session", id).Msg("evicted session at capacity")
		}
	}
}

// CleanupOldSessions removes sessions older than maxAge,
// but keeps sessions that have been accessed within SessionKeepAliveWindow.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	keepAliveCutoff := time.Now().Add(-SessionKeepAliveWindow)

	for id, state := range m.sessions {
		if state.Session.Status != models.SessionStatusComplete &&
			state.Session.Status != models.SessionStatusError {
			continue
		}

		if state.LastAccessed.After(keepAliveCutoff) {
			continue
		}

		sessionTime := state.LastAccessed
		if sessionTime.IsZero() {
			sessionTime = time.Now().Add(-maxAge - time.Hour)
		}

		if sessionTime.Before(cutoff) {
			if state.Store != nil {
				state.Store.Close()
			}
			delete(m.sessions, id)
			log.Info().
				Str("session", id).
				Dur("idle", time.Since(state.LastAccessed)).
				Msg("cleaned up aged session")
		}
	}
}

// DeleteSessionsForFile removes all sessions backed by the given file,
// including merged sessions that include it.
func (m *Manager) DeleteSessionsForFile(fileID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, state := range m.sessions {
		if !sessionUsesFile(state.Session, fileID) {
			continue
		}
		if state.Store != nil {
			state.Store.Close()
		}
		delete(m.sessions, id)
		log.Info().Str("session", id).Str("file", fileID).Msg("removed session for deleted file")
	}
}

func sessionUsesFile(s *models.ParseSession, fileID string) bool {
	if s.FileID == fileID {
		return true
	}
	for _, id := range s.FileIDs {
		if id == fileID {
			return true
		}
	}
	return false
}

// GetSession returns a session by ID.
func (m *Manager) GetSession(id string) (*models.ParseSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return state.Session, true
}

// TouchSession updates the LastAccessed timestamp for a session.
// This should be called whenever a session is actively being used
// to prevent it from being cleaned up.
func (m *Manager) TouchSession(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return false
	}
	state.LastAccessed = time.Now()
	return true
}

// QueryRecords returns filtered, sorted and paginated records for a session.
func (m *Manager) QueryRecords(ctx context.Context, id string, params parser.QueryParams, page, pageSize int) ([]models.RecordView, int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, 0, false
	}

	if state.Store != nil {
		records, total, err := state.Store.QueryRecords(ctx, params, page, pageSize)
		if err != nil {
			log.Warn().Err(err).Str("session", id).Msg("record query failed")
			return nil, 0, false
		}
		return records, total, true
	}

	// In-memory sessions serve unfiltered pages; they exist for small
	// text logs and merged timelines where filtering happens client side.
	records, total, ok := m.getRecordsLocked(state, page, pageSize)
	return records, total, ok
}

// GetRecords returns paginated records for a session.
func (m *Manager) GetRecords(ctx context.Context, id string, page, pageSize int) ([]models.RecordView, int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, 0, false
	}

	if state.Store != nil {
		total := state.Store.Len()
		start := (page - 1) * pageSize
		if start < 0 {
			start = 0
		}
		if start >= total {
			return []models.RecordView{}, total, true
		}

		end := start + pageSize
		if end > total {
			end = total
		}

		records, err := state.Store.GetRecords(ctx, start, end)
		if err != nil {
			return nil, 0, false
		}
		return records, total, true
	}

	return m.getRecordsLocked(state, page, pageSize)
}

func (m *Manager) getRecordsLocked(state *SessionState, page, pageSize int) ([]models.RecordView, int, bool) {
	if state.Result == nil {
		return nil, 0, false
	}

	total := len(state.Result.Records)
	start := (page - 1) * pageSize
	if start < 0 {
		start = 0
	}
	if start >= total {
		return []models.RecordView{}, total, true
	}

	end := start + pageSize
	if end > total {
		end = total
	}

	return state.Result.Records[start:end], total, true
}

// GetTimeSlice returns records within a timestamp window for a session.
func (m *Manager) GetTimeSlice(ctx context.Context, id string, startNs, endNs uint64) ([]models.RecordView, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}

	if state.Store != nil {
		records, err := state.Store.GetTimeSlice(ctx, startNs, endNs)
		if err != nil {
			return nil, false
		}
		return records, true
	}

	if state.Result == nil {
		return nil, false
	}

	var records []models.RecordView
	for _, rv := range state.Result.Records {
		if rv.TimestampNs >= startNs && rv.TimestampNs <= endNs {
			records = append(records, rv)
		}
	}
	return records, true
}

// GetChannels returns the bus/channel pairs present in a session.
func (m *Manager) GetChannels(ctx context.Context, id string) ([]models.ChannelInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}

	if state.Store != nil {
		channels, err := state.Store.GetChannels(ctx)
		if err != nil {
			return nil, false
		}
		return channels, true
	}

	if state.Result == nil {
		return nil, false
	}

	// Aggregate from the in-memory record slice.
	type key struct {
		bus     models.Bus
		channel uint16
	}
	counts := make(map[key]*models.ChannelInfo)
	order := make([]key, 0)
	for _, rv := range state.Result.Records {
		k := key{rv.Bus, rv.Channel}
		ci, seen := counts[k]
		if !seen {
			ci = &models.ChannelInfo{Bus: string(rv.Bus), Channel: rv.Channel}
			counts[k] = ci
			order = append(order, k)
		}
		ci.RecordCount++
		if rv.ChannelName != "" {
			ci.Name = rv.ChannelName
		}
	}

	channels := make([]models.ChannelInfo, 0, len(order))
	for _, k := range order {
		channels = append(channels, *counts[k])
	}
	return channels, true
}

// GetBuses returns per-bus record counts for a session.
func (m *Manager) GetBuses(ctx context.Context, id string) (map[string]int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}

	if state.Store != nil {
		counts, err := state.Store.GetBusCounts(ctx)
		if err != nil {
			return nil, false
		}
		return counts, true
	}

	if state.Result == nil {
		return nil, false
	}

	counts := make(map[string]int)
	for _, rv := range state.Result.Records {
		counts[string(rv.Bus)]++
	}
	return counts, true
}

// StartMultiSession begins the parsing process for multiple files and
// merges them into one timeline.
func (m *Manager) StartMultiSession(fileIDs []string, filePaths []string) (*models.ParseSession, error) {
	if len(fileIDs) == 0 || len(fileIDs) != len(filePaths) {
		return nil, fmt.Errorf("mismatched fileIDs and filePaths")
	}

	if len(fileIDs) == 1 {
		return m.StartSession(fileIDs[0], filePaths[0])
	}

	sessionID := uuid.New().String()

	session := models.NewParseSession(sessionID, fileIDs[0])
	session.FileIDs = fileIDs
	session.Status = models.SessionStatusParsing

	state := &SessionState{
		Session:      session,
		LastAccessed: time.Now(),
	}

	m.mu.Lock()
	m.sessions[sessionID] = state
	m.mu.Unlock()

	go m.runMultiParse(sessionID, fileIDs, filePaths)

	return session, nil
}

func (m *Manager) runMultiParse(sessionID string, fileIDs, filePaths []string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("session", sessionID).Interface("panic", r).Msg("merge parse panicked")
			m.updateSessionError(sessionID, fmt.Sprintf("parse panicked: %v", r))
		}
	}()

	start := time.Now()

	results := make([]*models.ParsedRecords, 0, len(filePaths))
	var allErrors []models.ParseError
	var parserName string

	for i, filePath := range filePaths {
		p, err := m.registry.FindParser(filePath)
		if err != nil {
			m.updateSessionError(sessionID, fmt.Sprintf("failed to find parser for file %d: %v", i, err))
			return
		}

		if parserName == "" {
			parserName = p.Name()
		}

		result, parseErrors, err := p.Parse(filePath)
		if err != nil {
			m.updateSessionError(sessionID, fmt.Sprintf("parse failed for file %d: %v", i, err))
			return
		}

		results = append(results, result)
		allErrors = append(allErrors, collectErrors(parseErrors)...)

		progress := (float64(i+1) / float64(len(filePaths))) * 80.0
		m.mu.Lock()
		if state, ok := m.sessions[sessionID]; ok {
			state.Session.Progress = progress
		}
		m.mu.Unlock()
	}

	merged := parser.MergeRecords(results, fileIDs)
	m.applyChannelNames(merged)

	elapsed := time.Since(start).Milliseconds()
	log.Info().
		Str("session", sessionID).
		Int("files", len(filePaths)).
		Int("records", len(merged.Records)).
		Int64("elapsed_ms", elapsed).
		Msg("merge parse complete")

	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[sessionID]
	if !ok {
		return
	}

	state.Result = merged
	state.Session.Status = models.SessionStatusComplete
	state.Session.Progress = 100
	state.Session.RecordCount = len(merged.Records)
	state.Session.SkippedCount = merged.Skipped
	state.Session.ChannelCount = len(merged.Channels)
	state.Session.ProcessingTimeMs = elapsed
	state.Session.ParserName = parserName
	state.Session.Errors = allErrors

	if merged.TimeRange != nil {
		state.Session.StartTime = merged.TimeRange.Start.UnixMilli()
		state.Session.EndTime = merged.TimeRange.End.UnixMilli()
	}
}
