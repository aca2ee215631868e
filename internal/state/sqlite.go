package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fiware-datamodels/dmv/pkg/report"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite state store instance.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// NewSQLiteStoreWithDB wraps an open database. The schema is expected to
// be migrated already.
func NewSQLiteStoreWithDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Open opens the SQLite database at path, creating its directory, and
// migrates it. Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := ":memory:?_pragma=foreign_keys(1)"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create history directory: %w", err)
			}
		}
		dsn = path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps :memory: databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path

	if err := s.Migrate(context.Background()); err != nil {
		_ = db.Close()
		s.db = nil
		return err
	}
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// CreateScan records the start of a scan of root.
func (s *SQLiteStore) CreateScan(ctx context.Context, root string) (*Scan, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	scan := &Scan{
		ID:        generateID(),
		Root:      root,
		Status:    ScanStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scans (id, root, status, started_at) VALUES (?, ?, ?, ?)`,
		scan.ID, scan.Root, string(scan.Status), formatTime(scan.StartedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scan: %w", err)
	}

	return scan, nil
}

// CompleteScan stores the final status, the counts and every message of rep.
func (s *SQLiteStore) CompleteScan(ctx context.Context, id string, status ScanStatus, rep *report.Report, scanErr error) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var counts [5]int
	if rep != nil {
		for i, entry := range rep.Entries() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO scan_messages (scan_id, seq, kind, model, message) VALUES (?, ?, ?, ?, ?)`,
				id, i, string(entry.Kind), entry.Model, entry.Message,
			); err != nil {
				return fmt.Errorf("failed to store scan message: %w", err)
			}
		}
		for i, kind := range report.Kinds() {
			counts[i] = rep.Count(kind)
		}
	}

	var errMsg sql.NullString
	if scanErr != nil {
		errMsg = sql.NullString{String: scanErr.Error(), Valid: true}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE scans SET status = ?, completed_at = ?, error = ?,
			valid_schemas = ?, valid_examples = ?, supported_examples = ?, warnings = ?, errors = ?
		WHERE id = ?`,
		string(status), formatTime(time.Now()), errMsg,
		counts[0], counts[1], counts[2], counts[3], counts[4],
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete scan: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("complete scan %s: %w", id, ErrScanNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit scan: %w", err)
	}
	return nil
}

const scanColumns = `id, root, status, started_at, completed_at, error,
	valid_schemas, valid_examples, supported_examples, warnings, errors`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScan(row rowScanner) (*Scan, error) {
	scan := &Scan{}
	var status, startedAt string
	var completedAt, errMsg sql.NullString

	if err := row.Scan(&scan.ID, &scan.Root, &status, &startedAt, &completedAt, &errMsg,
		&scan.ValidSchemas, &scan.ValidExamples, &scan.SupportedExamples, &scan.Warnings, &scan.Errors); err != nil {
		return nil, err
	}

	scan.Status = ScanStatus(status)
	scan.Error = errMsg.String

	t, err := parseTime(startedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid started_at %q: %w", startedAt, err)
	}
	scan.StartedAt = t

	if completedAt.Valid {
		t, err := parseTime(completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("invalid completed_at %q: %w", completedAt.String, err)
		}
		scan.CompletedAt = &t
	}
	return scan, nil
}

// GetScan retrieves a scan by ID.
func (s *SQLiteStore) GetScan(ctx context.Context, id string) (*Scan, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	scan, err := scanScan(s.db.QueryRowContext(ctx, `SELECT `+scanColumns+` FROM scans WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get scan %s: %w", id, ErrScanNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}
	return scan, nil
}

// ListScans returns the most recent scans first.
func (s *SQLiteStore) ListScans(ctx context.Context, limit int) ([]*Scan, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+scanColumns+` FROM scans ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var scans []*Scan
	for rows.Next() {
		scan, err := scanScan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read scan: %w", err)
		}
		scans = append(scans, scan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	return scans, nil
}

// GetMessages returns the messages of a scan in recording order.
func (s *SQLiteStore) GetMessages(ctx context.Context, id string) ([]Message, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, kind, model, message FROM scan_messages WHERE scan_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var msgs []Message
	for rows.Next() {
		var m Message
		var kind string
		if err := rows.Scan(&m.Seq, &kind, &m.Model, &m.Message); err != nil {
			return nil, fmt.Errorf("failed to read scan message: %w", err)
		}
		m.Kind = report.Kind(kind)
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get scan messages: %w", err)
	}
	return msgs, nil
}
