package takes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"stitch/internal/config"
)

const takeColumns = `id, source_id, source_path, status, duration_seconds,
    COALESCE(transcript, ''), COALESCE(error_message, ''), created_at, updated_at`

// Store manages take persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the take registry database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.WorkDir, "takes.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Register inserts a pending take for a source video. If the source is
// already registered the existing row is returned untouched, so repeated
// scans of the video directory are idempotent.
func (s *Store) Register(ctx context.Context, sourceID, sourcePath string) (*Take, error) {
	if sourceID == "" {
		return nil, errors.New("source id is required")
	}

	existing, err := s.GetBySourceID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO takes (source_id, source_path, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?)`,
		sourceID,
		sourcePath,
		StatusPending,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert take: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a take by identifier. Missing rows return nil without error.
func (s *Store) GetByID(ctx context.Context, id int64) (*Take, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+takeColumns+` FROM takes WHERE id = ?`, id)
	take, err := scanTake(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get take: %w", err)
	}
	return take, nil
}

// GetBySourceID fetches a take by its source file name.
func (s *Store) GetBySourceID(ctx context.Context, sourceID string) (*Take, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+takeColumns+` FROM takes WHERE source_id = ?`, sourceID)
	take, err := scanTake(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get take by source id: %w", err)
	}
	return take, nil
}

// Update persists changes to an existing take.
func (s *Store) Update(ctx context.Context, take *Take) error {
	if take == nil {
		return errors.New("take is nil")
	}
	take.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE takes
         SET source_path = ?, status = ?, duration_seconds = ?,
             transcript = ?, error_message = ?, updated_at = ?
         WHERE id = ?`,
		take.SourcePath,
		take.Status,
		take.DurationSeconds,
		nullableString(take.Transcript),
		nullableString(take.ErrorMessage),
		take.UpdatedAt.Format(time.RFC3339Nano),
		take.ID,
	)
	if err != nil {
		return fmt.Errorf("update take: %w", err)
	}
	return nil
}

// MarkTranscribed records a completed transcription.
func (s *Store) MarkTranscribed(ctx context.Context, id int64, transcript string, durationSeconds float64) error {
	take, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if take == nil {
		return fmt.Errorf("take %d not found", id)
	}
	take.Status = StatusTranscribed
	take.Transcript = transcript
	take.DurationSeconds = durationSeconds
	take.ErrorMessage = ""
	return s.Update(ctx, take)
}

// MarkFailed records a failed transcription with its reason.
func (s *Store) MarkFailed(ctx context.Context, id int64, reason string) error {
	take, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if take == nil {
		return fmt.Errorf("take %d not found", id)
	}
	take.Status = StatusFailed
	take.ErrorMessage = reason
	return s.Update(ctx, take)
}

// List returns every registered take ordered by source id.
func (s *Store) List(ctx context.Context) ([]*Take, error) {
	return s.query(ctx, `SELECT `+takeColumns+` FROM takes ORDER BY source_id`)
}

// ListByStatus returns takes matching a status ordered by source id.
func (s *Store) ListByStatus(ctx context.Context, status Status) ([]*Take, error) {
	return s.query(ctx, `SELECT `+takeColumns+` FROM takes WHERE status = ? ORDER BY source_id`, status)
}

// ResetStuckTranscribing returns takes abandoned mid-transcription to pending.
// Called on startup so a crashed run leaves no take wedged.
func (s *Store) ResetStuckTranscribing(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE takes SET status = ?, updated_at = ? WHERE status = ?`,
		StatusPending,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusTranscribing,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck takes: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

// Clear removes every take from the registry.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM takes`); err != nil {
		return fmt.Errorf("clear takes: %w", err)
	}
	return nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]*Take, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query takes: %w", err)
	}
	defer rows.Close()

	var result []*Take
	for rows.Next() {
		take, err := scanTake(rows)
		if err != nil {
			return nil, fmt.Errorf("scan take: %w", err)
		}
		result = append(result, take)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate takes: %w", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTake(row rowScanner) (*Take, error) {
	var take Take
	var status string
	var createdAt, updatedAt string
	if err := row.Scan(
		&take.ID,
		&take.SourceID,
		&take.SourcePath,
		&status,
		&take.DurationSeconds,
		&take.Transcript,
		&take.ErrorMessage,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	parsed, ok := ParseStatus(status)
	if !ok {
		return nil, fmt.Errorf("unknown take status %q", status)
	}
	take.Status = parsed

	var err error
	if take.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if take.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &take, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
