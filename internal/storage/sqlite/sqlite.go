package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"screenbreak/internal/core/schedule"
	"screenbreak/internal/logging"
)

const statsFileName = "screenbreak.db"

// Store keeps break statistics and the persisted clock state.
type Store struct {
	db     *sql.DB
	dbPath string
}

// New creates a store backed by the database file at dbPath. Call Init
// before use.
func New(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

// Path returns the database file inside appDir.
func Path(appDir string) string {
	return filepath.Join(appDir, statsFileName)
}

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS breaks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	at INTEGER NOT NULL,
	day TEXT NOT NULL,
	kind TEXT NOT NULL,
	outcome TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_breaks_day ON breaks (day);
CREATE TABLE IF NOT EXISTS clock_state (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	saved_at INTEGER NOT NULL,
	last_eye_rest INTEGER NOT NULL,
	last_micro_pause INTEGER NOT NULL,
	last_any_break INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS acknowledged (
	key TEXT PRIMARY KEY,
	day TEXT NOT NULL
);
`

// Init opens the database and creates the schema.
func (s *Store) Init(ctx context.Context) error {
	dir := filepath.Dir(s.dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create db directory %s: %w", dir, err)
	}

	logging.Debugf("opening database at %s", s.dbPath)
	db, err := sql.Open("sqlite3", s.dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return fmt.Errorf("open sqlite database: %w", err)
	}
	s.db = db

	s.db.SetMaxOpenConns(1)
	s.db.SetMaxIdleConns(1)
	s.db.SetConnMaxLifetime(5 * time.Minute)

	if err := s.db.PingContext(ctx); err != nil {
		s.db.Close()
		return fmt.Errorf("ping database: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, createTablesSQL); err != nil {
		s.db.Close()
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordBreak stores one resolved break.
func (s *Store) RecordBreak(ctx context.Context, kind schedule.BreakKind, outcome schedule.Outcome, at time.Time) error {
	query := `INSERT INTO breaks (at, day, kind, outcome) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, at.UnixNano(), schedule.DateOf(at).String(), string(kind), string(outcome)); err != nil {
		return fmt.Errorf("insert break: %w", err)
	}
	return nil
}

// SaveClock replaces the persisted clock state.
func (s *Store) SaveClock(ctx context.Context, snapshot schedule.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clock tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO clock_state (id, saved_at, last_eye_rest, last_micro_pause, last_any_break)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			saved_at = excluded.saved_at,
			last_eye_rest = excluded.last_eye_rest,
			last_micro_pause = excluded.last_micro_pause,
			last_any_break = excluded.last_any_break`,
		snapshot.SavedAt.UnixNano(),
		snapshot.LastEyeRest.UnixNano(),
		snapshot.LastMicroPause.UnixNano(),
		snapshot.LastAnyBreak.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save clock state: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM acknowledged`); err != nil {
		return fmt.Errorf("clear acknowledgements: %w", err)
	}
	for key, date := range snapshot.Acknowledged {
		if _, err := tx.ExecContext(ctx, `INSERT INTO acknowledged (key, day) VALUES (?, ?)`, key, date.String()); err != nil {
			return fmt.Errorf("save acknowledgement %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clock tx: %w", err)
	}
	return nil
}

// LoadClock returns the persisted clock state. It reports false when none
// has been saved.
func (s *Store) LoadClock(ctx context.Context) (schedule.Snapshot, bool, error) {
	var savedAt, eye, micro, anyBreak int64
	err := s.db.QueryRowContext(ctx,
		`SELECT saved_at, last_eye_rest, last_micro_pause, last_any_break FROM clock_state WHERE id = 1`,
	).Scan(&savedAt, &eye, &micro, &anyBreak)
	if errors.Is(err, sql.ErrNoRows) {
		return schedule.Snapshot{}, false, nil
	}
	if err != nil {
		return schedule.Snapshot{}, false, fmt.Errorf("load clock state: %w", err)
	}

	snapshot := schedule.Snapshot{
		SavedAt:        time.Unix(0, savedAt),
		LastEyeRest:    time.Unix(0, eye),
		LastMicroPause: time.Unix(0, micro),
		LastAnyBreak:   time.Unix(0, anyBreak),
		Acknowledged:   make(map[string]schedule.Date),
	}

	rows, err := s.db.QueryContext(ctx, `SELECT key, day FROM acknowledged`)
	if err != nil {
		return schedule.Snapshot{}, false, fmt.Errorf("query acknowledgements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, day string
		if err := rows.Scan(&key, &day); err != nil {
			return schedule.Snapshot{}, false, fmt.Errorf("scan acknowledgement: %w", err)
		}
		date, err := schedule.ParseDate(day)
		if err != nil {
			logging.Warnf("skipping acknowledgement %s: %v", key, err)
			continue
		}
		snapshot.Acknowledged[key] = date
	}
	if err := rows.Err(); err != nil {
		return schedule.Snapshot{}, false, fmt.Errorf("iterate acknowledgements: %w", err)
	}
	return snapshot, true, nil
}
