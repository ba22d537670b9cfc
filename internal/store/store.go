// Package store archives the results of equivalence, audit, and
// decomposition runs in a local SQLite database so they can be replayed
// from the history command.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"chainkit/internal/manifest"
	"chainkit/internal/order"
)

// Run kinds recorded in the archive.
const (
	KindEquate    = "equate"
	KindAudit     = "audit"
	KindDecompose = "decompose"
)

// Run is one archived result. Detail holds the kind-specific payload as
// JSON, exactly as the result struct serialized at save time.
type Run struct {
	ID        string
	Kind      string
	Manifest  string
	Detail    json.RawMessage
	CreatedAt time.Time
}

// Store is the SQLite-backed run archive. Safe for concurrent use.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	path   string
	logger *zap.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	manifest   TEXT NOT NULL,
	detail     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`

// Open opens or creates the archive at path. The containing directory is
// created if missing.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	// A single connection sidesteps SQLITE_BUSY under concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			logger.Debug("store pragma failed", zap.String("pragma", pragma), zap.Error(err))
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: initialize schema: %w", err)
	}

	logger.Debug("run archive opened", zap.String("path", path))
	return &Store{db: db, path: path, logger: logger}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) save(kind, manifestPath string, detail any) (string, error) {
	payload, err := json.Marshal(detail)
	if err != nil {
		return "", fmt.Errorf("store: encode %s result: %w", kind, err)
	}
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(
		"INSERT INTO runs (id, kind, manifest, detail, created_at) VALUES (?, ?, ?, ?, ?)",
		id, kind, manifestPath, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("store: save %s run: %w", kind, err)
	}
	s.logger.Debug("run archived", zap.String("id", id), zap.String("kind", kind))
	return id, nil
}

// SaveEquivalence archives an equate run and returns its id.
func (s *Store) SaveEquivalence(result *manifest.EquateResult) (string, error) {
	return s.save(KindEquate, result.Manifest, result)
}

// SaveAudit archives the violations an audit run produced, empty or not.
func (s *Store) SaveAudit(manifestPath string, violations []order.Violation) (string, error) {
	detail := struct {
		Violations []order.Violation `json:"violations"`
	}{Violations: violations}
	return s.save(KindAudit, manifestPath, detail)
}

// SaveDecomposition archives a decompose run and returns its id.
func (s *Store) SaveDecomposition(result *manifest.DecomposeResult) (string, error) {
	return s.save(KindDecompose, result.Manifest, result)
}

// ListRuns returns the most recent runs, newest first. A nonpositive limit
// defaults to 50.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT id, kind, manifest, detail, created_at FROM runs ORDER BY created_at DESC, id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var detail string
		if err := rows.Scan(&r.ID, &r.Kind, &r.Manifest, &detail, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		r.Detail = json.RawMessage(detail)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun fetches one archived run by id.
func (s *Store) GetRun(id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var r Run
	var detail string
	err := s.db.QueryRow(
		"SELECT id, kind, manifest, detail, created_at FROM runs WHERE id = ?",
		id,
	).Scan(&r.ID, &r.Kind, &r.Manifest, &detail, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("store: no run %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get run: %w", err)
	}
	r.Detail = json.RawMessage(detail)
	return &r, nil
}
