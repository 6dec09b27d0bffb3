package persistence

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// worker goroutines share one connection; sqlite serializes writers anyway
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &SQLiteStore{db: db}
	if err := store.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) init(ctx context.Context) error {
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 5000;",
		"PRAGMA foreign_keys = ON;",
	} {
		if _, err := s.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		version := migrationVersion(entry.Name())
		if version <= 0 {
			continue
		}
		var exists int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version).Scan(&exists); err != nil {
			return fmt.Errorf("check migration %s: %w", entry.Name(), err)
		}
		if exists > 0 {
			continue
		}
		content, err := migrationFiles.ReadFile(path.Join("migrations", entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return fmt.Errorf("record migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// migrationVersion extracts the leading integer from a migration filename (e.g. "001_init.sql" → 1).
func migrationVersion(name string) int {
	for i, c := range name {
		if c < '0' || c > '9' {
			if i == 0 {
				return 0
			}
			n, _ := strconv.Atoi(name[:i])
			return n
		}
	}
	n, _ := strconv.Atoi(name)
	return n
}

// HashBatch returns the cache key digest of a batch's submitted text
func HashBatch(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func (s *SQLiteStore) StartRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return fmt.Errorf("run id is empty")
	}
	startedAt := run.StartedAt.UTC()
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}
	status := run.Status
	if status == "" {
		status = RunRunning
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, input_dir, output_dir, source_lang, target_lang, backend, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.InputDir,
		run.OutputDir,
		run.SourceLang,
		run.TargetLang,
		run.Backend,
		string(status),
		startedAt,
	)
	return err
}

func (s *SQLiteStore) FinishRun(ctx context.Context, run Run) error {
	finishedAt := run.FinishedAt.UTC()
	if finishedAt.IsZero() {
		finishedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET status = ?, files_total = ?, files_failed = ?, error = ?, finished_at = ?
		 WHERE id = ?`,
		string(run.Status),
		run.FilesTotal,
		run.FilesFailed,
		run.Error,
		finishedAt,
		run.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", run.ID)
	}
	return nil
}

func (s *SQLiteStore) SaveRunFile(ctx context.Context, file RunFile) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO run_files (
			run_id, position, input_path, output_path, units, batches, cached_batches, status, error, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, position) DO UPDATE SET
			input_path=excluded.input_path,
			output_path=excluded.output_path,
			units=excluded.units,
			batches=excluded.batches,
			cached_batches=excluded.cached_batches,
			status=excluded.status,
			error=excluded.error,
			duration_ms=excluded.duration_ms`,
		file.RunID,
		file.Position,
		file.InputPath,
		file.OutputPath,
		file.Units,
		file.Batches,
		file.CachedBatches,
		file.Status,
		file.Error,
		file.Duration.Milliseconds(),
	)
	return err
}

// ListRuns returns the most recent runs first
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, input_dir, output_dir, source_lang, target_lang, backend, status,
			files_total, files_failed, error, started_at, finished_at
		 FROM runs
		 ORDER BY started_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := make([]Run, 0)
	for rows.Next() {
		var item Run
		var status string
		var finishedAt sql.NullTime
		if err := rows.Scan(
			&item.ID,
			&item.InputDir,
			&item.OutputDir,
			&item.SourceLang,
			&item.TargetLang,
			&item.Backend,
			&status,
			&item.FilesTotal,
			&item.FilesFailed,
			&item.Error,
			&item.StartedAt,
			&finishedAt,
		); err != nil {
			return nil, err
		}
		item.Status = RunStatus(status)
		if finishedAt.Valid {
			item.FinishedAt = finishedAt.Time
		}
		ret = append(ret, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *SQLiteStore) LoadRunFiles(ctx context.Context, runID string) ([]RunFile, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id, position, input_path, output_path, units, batches, cached_batches, status, error, duration_ms
		 FROM run_files
		 WHERE run_id = ?
		 ORDER BY position ASC`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := make([]RunFile, 0)
	for rows.Next() {
		var item RunFile
		var durationMS int64
		if err := rows.Scan(
			&item.RunID,
			&item.Position,
			&item.InputPath,
			&item.OutputPath,
			&item.Units,
			&item.Batches,
			&item.CachedBatches,
			&item.Status,
			&item.Error,
			&durationMS,
		); err != nil {
			return nil, err
		}
		item.Duration = time.Duration(durationMS) * time.Millisecond
		ret = append(ret, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *SQLiteStore) GetBatch(ctx context.Context, key BatchKey) (string, bool, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT translated FROM batch_cache
		 WHERE content_hash = ? AND source_lang = ? AND target_lang = ? AND backend = ?`,
		key.ContentHash,
		key.SourceLang,
		key.TargetLang,
		key.Backend,
	)
	var translated string
	if err := row.Scan(&translated); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return translated, true, nil
}

func (s *SQLiteStore) PutBatch(ctx context.Context, key BatchKey, translated string) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO batch_cache (content_hash, source_lang, target_lang, backend, translated, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(content_hash, source_lang, target_lang, backend) DO UPDATE SET
			translated=excluded.translated,
			updated_at=excluded.updated_at`,
		key.ContentHash,
		key.SourceLang,
		key.TargetLang,
		key.Backend,
		translated,
		time.Now().UTC(),
	)
	return err
}

// DeleteBatchesBefore drops cache entries not refreshed since cutoff
func (s *SQLiteStore) DeleteBatchesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM batch_cache WHERE updated_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
