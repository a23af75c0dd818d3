package parser

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/marcboeker/go-duckdb"
	"github.com/rs/zerolog/log"

	"github.com/buslog-visualizer/backend/internal/models"
)

// RecordStore stores record views in a temporary DuckDB file so files
// larger than available RAM stay parseable. Inserts go through the
// native Appender API in batches; indexes are created once at
// Finalize time because building them during inserts slows the
// parsing phase badly.
type RecordStore struct {
	db          *sql.DB
	dbPath      string
	recordCount int
	skipped     int
	batchSize   int
	batch       []models.RecordView
	channels    map[string]struct{}
	buses       map[models.Bus]struct{}
	minNs       uint64
	maxNs       uint64
	startTime   time.Time
	lastError   error

	// Count cache keyed by WHERE clause so repeated pagination of the
	// same filter skips the COUNT query.
	countCache   map[string]int
	countCacheMu sync.RWMutex

	// Limits concurrent queries; rapid scrolling otherwise spikes memory.
	querySem chan struct{}
}

const storeBatchSize = 50000

// NewRecordStore creates a DuckDB-backed store in the given temp directory.
func NewRecordStore(tempDir string, sessionID string) (*RecordStore, error) {
	dbPath := filepath.Join(tempDir, fmt.Sprintf("session_%s.duckdb", sessionID))
	return NewRecordStoreAtPath(dbPath)
}

// NewRecordStoreAtPath creates a DuckDB-backed store at a specific path.
func NewRecordStoreAtPath(dbPath string) (*RecordStore, error) {
	log.Debug().Str("path", dbPath).Msg("creating record store")

	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA memory_limit='1GB'",
			"PRAGMA threads=4",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)

	_, err = db.Exec(`
		CREATE TABLE records (
			id           INTEGER PRIMARY KEY,
			ts_ns        UBIGINT NOT NULL,
			ts_ms        BIGINT NOT NULL,
			bus          VARCHAR NOT NULL,
			channel      USMALLINT NOT NULL,
			channel_name VARCHAR,
			type         VARCHAR NOT NULL,
			frame_id     UINTEGER,
			dlc          UTINYINT,
			data         VARCHAR,
			text         VARCHAR,
			source_id    VARCHAR
		)
	`)
	if err != nil {
		db.Close()
		os.Remove(dbPath)
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &RecordStore{
		db:         db,
		dbPath:     dbPath,
		batchSize:  storeBatchSize,
		batch:      make([]models.RecordView, 0, storeBatchSize),
		channels:   make(map[string]struct{}, 32),
		buses:      make(map[models.Bus]struct{}, 8),
		countCache: make(map[string]int),
		querySem:   make(chan struct{}, 3),
	}, nil
}

// Add appends a record to the store. Records are batched for
// efficient insertion.
func (rs *RecordStore) Add(rv models.RecordView) {
	rs.batch = append(rs.batch, rv)

	if rv.ChannelName != "" {
		rs.channels[rv.ChannelName] = struct{}{}
	}
	rs.buses[rv.Bus] = struct{}{}

	if rs.recordCount == 0 {
		rs.minNs = rv.TimestampNs
		rs.maxNs = rv.TimestampNs
		rs.startTime = rv.Timestamp.Add(-time.Duration(rv.TimestampNs))
	}
	if rv.TimestampNs < rs.minNs {
		rs.minNs = rv.TimestampNs
	}
	if rv.TimestampNs > rs.maxNs {
		rs.maxNs = rv.TimestampNs
	}

	rs.recordCount++

	if len(rs.batch) >= rs.batchSize {
		if err := rs.flushBatch(); err != nil {
			rs.lastError = err
			log.Error().Err(err).Msg("record store flush failed")
		}
	}
}

// LastError returns the last error that occurred during a batch flush.
func (rs *RecordStore) LastError() error {
	return rs.lastError
}

// SetSkipped records how many malformed objects the decoder skipped.
func (rs *RecordStore) SetSkipped(n int) { rs.skipped = n }

// Skipped returns the malformed object count.
func (rs *RecordStore) Skipped() int { return rs.skipped }

// flushBatch writes the current batch using the native Appender API.
func (rs *RecordStore) flushBatch() error {
	if len(rs.batch) == 0 {
		return nil
	}

	start := time.Now()

	conn, err := rs.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	err = conn.Raw(func(driverConn interface{}) error {
		dConn, ok := driverConn.(*duckdb.Conn)
		if !ok {
			return fmt.Errorf("failed to cast to duckdb.Conn")
		}

		appender, err := duckdb.NewAppenderFromConn(dConn, "", "records")
		if err != nil {
			return fmt.Errorf("failed to create appender: %w", err)
		}
		defer appender.Close()

		baseID := rs.recordCount - len(rs.batch)
		for i, rv := range rs.batch {
			err := appender.AppendRow(
				int32(baseID+i),
				rv.TimestampNs,
				rv.Timestamp.UnixMilli(),
				string(rv.Bus),
				rv.Channel,
				rv.ChannelName,
				rv.Type,
				rv.FrameID,
				rv.DLC,
				rv.Data,
				rv.Text,
				rv.SourceID,
			)
			if err != nil {
				return fmt.Errorf("failed to append row %d: %w", i, err)
			}
		}

		return appender.Flush()
	})
	if err != nil {
		return fmt.Errorf("appender error: %w", err)
	}

	log.Debug().
		Int("records", len(rs.batch)).
		Dur("elapsed", time.Since(start)).
		Msg("record store batch flushed")

	rs.batch = rs.batch[:0]
	return nil
}

// Finalize flushes any remaining records and creates indexes.
func (rs *RecordStore) Finalize() error {
	if err := rs.flushBatch(); err != nil {
		return err
	}

	start := time.Now()

	if _, err := rs.db.Exec("PRAGMA memory_limit='1536MB'"); err != nil {
		log.Warn().Err(err).Msg("failed to raise memory limit for indexing")
	}

	if _, err := rs.db.Exec("CREATE INDEX idx_ts ON records(ts_ns)"); err != nil {
		return fmt.Errorf("idx_ts creation failed: %w", err)
	}

	// Filter indexes only pay off on large stores.
	if rs.recordCount > 100000 {
		for _, stmt := range []string{
			"CREATE INDEX idx_bus ON records(bus)",
			"CREATE INDEX idx_channel ON records(bus, channel)",
			"CREATE INDEX idx_frame ON records(frame_id)",
		} {
			if _, err := rs.db.Exec(stmt); err != nil {
				log.Warn().Err(err).Str("stmt", stmt).Msg("index creation failed")
			}
		}
	}

	log.Debug().
		Int("records", rs.recordCount).
		Dur("elapsed", time.Since(start)).
		Msg("record store finalized")
	return nil
}

// Len returns the total number of stored records.
func (rs *RecordStore) Len() int {
	return rs.recordCount
}

// QueryParams defines filters and sorting for record queries.
type QueryParams struct {
	Bus           string
	Channel       int // -1 means any
	Type          string
	FrameID       int64 // -1 means any
	Search        string
	StartNs       int64 // -1 means unbounded
	EndNs         int64 // -1 means unbounded
	SortColumn    string
	SortDirection string // "asc" or "desc"
}

// QueryRecords returns filtered, sorted and paginated records plus the
// total count matching the filter.
func (rs *RecordStore) QueryRecords(ctx context.Context, params QueryParams, page, pageSize int) ([]models.RecordView, int, error) {
	select {
	case rs.querySem <- struct{}{}:
		defer func() { <-rs.querySem }()
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	}

	where, args := rs.buildWhereClause(params)

	cacheKey := where + fmt.Sprint(args)
	if where == "" {
		cacheKey = "__total__"
	}

	rs.countCacheMu.RLock()
	total, found := rs.countCache[cacheKey]
	rs.countCacheMu.RUnlock()

	if !found {
		countQuery := "SELECT COUNT(*) FROM records"
		if where != "" {
			countQuery += " WHERE " + where
		}
		if err := rs.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("count query failed: %w", err)
		}
		rs.countCacheMu.Lock()
		rs.countCache[cacheKey] = total
		rs.countCacheMu.Unlock()
	}

	if total == 0 {
		return []models.RecordView{}, 0, nil
	}

	offset := (page - 1) * pageSize
	records, err := rs.queryPage(ctx, params, pageSize, offset, where, args)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

const recordColumns = "ts_ns, ts_ms, bus, channel, channel_name, type, frame_id, dlc, data, text, source_id, id"

// queryPage fetches one page. Shallow pages use plain OFFSET; deep
// pages switch to keyset pagination because OFFSET cost grows with
// scroll depth.
func (rs *RecordStore) queryPage(ctx context.Context, params QueryParams, pageSize, offset int, where string, args []interface{}) ([]models.RecordView, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	sortCol := "id"
	switch params.SortColumn {
	case "timestamp":
		sortCol = "ts_ns"
	case "bus":
		sortCol = "bus"
	case "channel":
		sortCol = "channel"
	case "frameId":
		sortCol = "frame_id"
	}

	dir := "ASC"
	if params.SortDirection == "desc" {
		dir = "DESC"
	}

	const offsetThreshold = 1000

	if offset < offsetThreshold || sortCol == "bus" {
		return rs.queryOffset(ctx, where, args, sortCol, dir, pageSize, offset)
	}

	// Find the cursor value at the offset position, then page from it
	// with a range predicate. (sort_col, id) keeps the order stable.
	cursorQuery := fmt.Sprintf("SELECT %s FROM records", sortCol)
	if where != "" {
		cursorQuery += " WHERE " + where
	}
	cursorQuery += fmt.Sprintf(" ORDER BY %s %s LIMIT 1 OFFSET %d", sortCol, dir, offset)

	var cursorValue interface{}
	err := rs.db.QueryRowContext(ctx, cursorQuery, args...).Scan(&cursorValue)
	if err == sql.ErrNoRows {
		return []models.RecordView{}, nil
	}
	if err != nil {
		return rs.queryOffset(ctx, where, args, sortCol, dir, pageSize, offset)
	}

	cmp := ">="
	if dir == "DESC" {
		cmp = "<="
	}

	query := fmt.Sprintf("SELECT %s FROM records WHERE ", recordColumns)
	queryArgs := args
	if where != "" {
		query += where + " AND "
	}
	query += fmt.Sprintf("%s %s ? ORDER BY %s %s, id %s LIMIT %d", sortCol, cmp, sortCol, dir, dir, pageSize)
	queryArgs = append(queryArgs, cursorValue)

	rows, err := rs.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return rs.queryOffset(ctx, where, args, sortCol, dir, pageSize, offset)
	}
	defer rows.Close()

	return scanRecords(rows, pageSize)
}

func (rs *RecordStore) queryOffset(ctx context.Context, where string, args []interface{}, sortCol, dir string, pageSize, offset int) ([]models.RecordView, error) {
	query := fmt.Sprintf("SELECT %s FROM records", recordColumns)
	if where != "" {
		query += " WHERE " + where
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id %s LIMIT %d OFFSET %d", sortCol, dir, dir, pageSize, offset)

	rows, err := rs.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows, pageSize)
}

func (rs *RecordStore) buildWhereClause(params QueryParams) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if params.Bus != "" {
		clauses = append(clauses, "bus = ?")
		args = append(args, params.Bus)
	}
	if params.Channel >= 0 {
		clauses = append(clauses, "channel = ?")
		args = append(args, params.Channel)
	}
	if params.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, params.Type)
	}
	if params.FrameID >= 0 {
		clauses = append(clauses, "frame_id = ?")
		args = append(args, params.FrameID)
	}
	if params.StartNs >= 0 {
		clauses = append(clauses, "ts_ns >= ?")
		args = append(args, params.StartNs)
	}
	if params.EndNs >= 0 {
		clauses = append(clauses, "ts_ns <= ?")
		args = append(args, params.EndNs)
	}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		clauses = append(clauses, "(type ILIKE ? OR data ILIKE ? OR text ILIKE ? OR channel_name ILIKE ?)")
		args = append(args, pattern, pattern, pattern, pattern)
	}

	return strings.Join(clauses, " AND "), args
}

// GetRecords returns records by index range, for straight pagination
// without filters.
func (rs *RecordStore) GetRecords(ctx context.Context, start, end int) ([]models.RecordView, error) {
	select {
	case rs.querySem <- struct{}{}:
		defer func() { <-rs.querySem }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	count := end - start
	if count <= 0 {
		return []models.RecordView{}, nil
	}

	rows, err := rs.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s FROM records WHERE id >= ? AND id < ? ORDER BY id
	`, recordColumns), start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows, count)
}

// GetTimeSlice returns records with ts_ns inside [startNs, endNs],
// capped to avoid unbounded result sets.
func (rs *RecordStore) GetTimeSlice(ctx context.Context, startNs, endNs uint64) ([]models.RecordView, error) {
	select {
	case rs.querySem <- struct{}{}:
		defer func() { <-rs.querySem }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	rows, err := rs.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s FROM records WHERE ts_ns >= ? AND ts_ns <= ? ORDER BY ts_ns LIMIT 500000
	`, recordColumns), startNs, endNs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows, 1000)
}

// GetBusCounts returns the record count per bus.
func (rs *RecordStore) GetBusCounts(ctx context.Context) (map[string]int, error) {
	rows, err := rs.db.QueryContext(ctx, "SELECT bus, COUNT(*) FROM records GROUP BY bus")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var bus string
		var n int
		if err := rows.Scan(&bus, &n); err != nil {
			return nil, err
		}
		counts[bus] = n
	}
	return counts, rows.Err()
}

// GetChannels returns the distinct bus/channel pairs seen in the store.
func (rs *RecordStore) GetChannels(ctx context.Context) ([]models.ChannelInfo, error) {
	rows, err := rs.db.QueryContext(ctx, `
		SELECT bus, channel, MAX(channel_name), COUNT(*)
		FROM records GROUP BY bus, channel ORDER BY bus, channel
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []models.ChannelInfo
	for rows.Next() {
		var ci models.ChannelInfo
		var name sql.NullString
		if err := rows.Scan(&ci.Bus, &ci.Channel, &name, &ci.RecordCount); err != nil {
			return nil, err
		}
		ci.Name = name.String
		channels = append(channels, ci)
	}
	return channels, rows.Err()
}

// ClearCountCache clears the count cache. Call when data changes.
func (rs *RecordStore) ClearCountCache() {
	rs.countCacheMu.Lock()
	rs.countCache = make(map[string]int)
	rs.countCacheMu.Unlock()
}

// GetTimeRange returns the wall-clock time range of stored records.
func (rs *RecordStore) GetTimeRange() *models.TimeRange {
	if rs.recordCount == 0 {
		return nil
	}
	return &models.TimeRange{
		Start: rs.startTime.Add(time.Duration(rs.minNs)),
		End:   rs.startTime.Add(time.Duration(rs.maxNs)),
	}
}

// Close closes the database and removes the backing file.
func (rs *RecordStore) Close() error {
	if rs.db != nil {
		rs.db.Close()
	}
	if rs.dbPath != "" {
		os.Remove(rs.dbPath)
	}
	return nil
}

func scanRecords(rows *sql.Rows, capacity int) ([]models.RecordView, error) {
	records := make([]models.RecordView, 0, capacity)
	for rows.Next() {
		var rv models.RecordView
		var tsMs int64
		var channelName, data, text, sourceID sql.NullString
		var frameID sql.NullInt64
		var dlc sql.NullInt16
		err := rows.Scan(
			&rv.TimestampNs, &tsMs, &rv.Bus, &rv.Channel, &channelName,
			&rv.Type, &frameID, &dlc, &data, &text, &sourceID, &rv.Index,
		)
		if err != nil {
			return nil, err
		}
		rv.Timestamp = time.UnixMilli(tsMs).UTC()
		rv.ChannelName = channelName.String
		rv.FrameID = uint32(frameID.Int64)
		rv.DLC = uint8(dlc.Int16)
		rv.Data = data.String
		rv.Text = text.String
		rv.SourceID = sourceID.String
		records = append(records, rv)
	}
	return records, rows.Err()
}
