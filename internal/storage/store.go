// Package storage persists activity records.
//
// Layout:
// ~/.local/share/cadence/
// └── cadence.db    # SQLite database (WAL)
//
// Timestamps and durations are stored as integer milliseconds so range
// queries stay index-friendly and independent of the driver's time format.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"

	"github.com/Atharva-Kanherkar/cadence/internal/activity"
)

const dbFile = "cadence.db"

// Store handles persistence of activity records.
type Store struct {
	db     *sql.DB
	dbPath string
	logger *zap.Logger
}

// New opens (or creates) the database under baseDir.
func New(baseDir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	dbPath := filepath.Join(baseDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
		logger: logger.Named("storage"),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	store.logger.Debug("store opened", zap.String("path", dbPath))
	return store, nil
}

// initSchema creates the database tables.
func (s *Store) initSchema() error {
	if err := s.createBaseSchema(); err != nil {
		return err
	}
	return s.migrateSchema()
}

func (s *Store) createBaseSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS activity_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp_ms INTEGER NOT NULL,
		app_name TEXT NOT NULL,
		window_title TEXT,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		focus_score REAL,
		cpu_usage REAL,
		keystrokes INTEGER,
		mouse_clicks INTEGER,
		is_idle INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_activity_timestamp ON activity_records(timestamp_ms);
	CREATE INDEX IF NOT EXISTS idx_activity_app ON activity_records(app_name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// migrateSchema handles schema migrations for existing databases.
func (s *Store) migrateSchema() error {
	migrations := []string{
		// v2: browser URL capture
		`ALTER TABLE activity_records ADD COLUMN url TEXT`,
	}

	for _, migration := range migrations {
		// fails when the column already exists, which is fine
		_, _ = s.db.Exec(migration)
	}

	return nil
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// SaveRecord persists one record and returns its id.
func (s *Store) SaveRecord(ctx context.Context, r activity.Record) (int64, error) {
	res, err := s.db.ExecContext(ctx, insertRecord, recordArgs(r)...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert record: %w", err)
	}
	return res.LastInsertId()
}

// SaveRecords persists records in a single transaction.
func (s *Store) SaveRecords(ctx context.Context, records []activity.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertRecord)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, recordArgs(r)...); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	s.logger.Debug("records saved", zap.Int("count", len(records)))
	return nil
}

const insertRecord = `
	INSERT INTO activity_records
	(timestamp_ms, app_name, window_title, duration_ms, focus_score, cpu_usage,
	 keystrokes, mouse_clicks, is_idle, url)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func recordArgs(r activity.Record) []any {
	return []any{
		toMillis(r.Timestamp), r.AppName, r.WindowTitle, r.Duration.Milliseconds(),
		r.FocusScore, r.CPUUsage, r.Keystrokes, r.MouseClicks, r.IsIdle, r.URL,
	}
}

const selectRecords = `
	SELECT id, timestamp_ms, app_name, window_title, duration_ms, focus_score,
	       cpu_usage, keystrokes, mouse_clicks, is_idle, url
	FROM activity_records
`

// Records returns records starting in [start, end), oldest first.
func (s *Store) Records(ctx context.Context, start, end time.Time) ([]activity.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectRecords+`
		WHERE timestamp_ms >= ? AND timestamp_ms < ?
		ORDER BY timestamp_ms ASC, id ASC
	`, toMillis(start), toMillis(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// RecordsSince returns records starting at or after since, oldest first.
func (s *Store) RecordsSince(ctx context.Context, since time.Time) ([]activity.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectRecords+`
		WHERE timestamp_ms >= ?
		ORDER BY timestamp_ms ASC, id ASC
	`, toMillis(since))
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// RecentRecords returns the latest limit records, oldest first.
func (s *Store) RecentRecords(ctx context.Context, limit int) ([]activity.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectRecords+`
		ORDER BY timestamp_ms DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// nullRecord holds the nullable columns of one row.
type nullRecord struct {
	title       sql.NullString
	focus       sql.NullFloat64
	cpu         sql.NullFloat64
	keystrokes  sql.NullInt64
	mouseClicks sql.NullInt64
	url         sql.NullString
}

// fill copies the columns into r; NULL becomes the zero value.
func (n nullRecord) fill(r *activity.Record) {
	r.WindowTitle = n.title.String
	r.FocusScore = n.focus.Float64
	r.CPUUsage = n.cpu.Float64
	r.Keystrokes = int(n.keystrokes.Int64)
	r.MouseClicks = int(n.mouseClicks.Int64)
	r.URL = n.url.String
}

func scanRecords(rows *sql.Rows) ([]activity.Record, error) {
	var records []activity.Record
	for rows.Next() {
		var r activity.Record
		var n nullRecord
		var ts, durMs int64

		err := rows.Scan(&r.ID, &ts, &r.AppName, &n.title, &durMs, &n.focus,
			&n.cpu, &n.keystrokes, &n.mouseClicks, &r.IsIdle, &n.url)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		r.Timestamp = fromMillis(ts)
		r.Duration = time.Duration(durMs) * time.Millisecond
		n.fill(&r)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	return records, nil
}

// Stats holds storage statistics.
type Stats struct {
	TotalRecords int64            `json:"total_records"`
	ByApp        map[string]int64 `json:"by_app"`
	TrackedTime  time.Duration    `json:"tracked_time"`
	FirstRecord  time.Time        `json:"first_record"`
	LastRecord   time.Time        `json:"last_record"`
	DatabaseSize int64            `json:"database_size"`
}

// Stats returns statistics about stored records.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByApp: make(map[string]int64)}

	var first, last sql.NullInt64
	var tracked int64
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), MIN(timestamp_ms), MAX(timestamp_ms), COALESCE(SUM(duration_ms), 0)
		FROM activity_records
	`)
	if err := row.Scan(&stats.TotalRecords, &first, &last, &tracked); err != nil {
		return stats, fmt.Errorf("failed to read record stats: %w", err)
	}
	stats.TrackedTime = time.Duration(tracked) * time.Millisecond
	if first.Valid {
		stats.FirstRecord = fromMillis(first.Int64)
	}
	if last.Valid {
		stats.LastRecord = fromMillis(last.Int64)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT app_name, COUNT(*) FROM activity_records GROUP BY app_name")
	if err != nil {
		return stats, fmt.Errorf("failed to count records by app: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var app string
		var count int64
		if err := rows.Scan(&app, &count); err != nil {
			return stats, fmt.Errorf("failed to scan app count: %w", err)
		}
		stats.ByApp[app] = count
	}

	if info, err := os.Stat(s.dbPath); err == nil {
		stats.DatabaseSize = info.Size()
	}

	return stats, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
