package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"condense/internal/shared/observability"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// Entry is one cached summarization result, keyed by input identity and
// budget so a repeat scan of an unchanged file skips the summarizer.
type Entry struct {
	Path        string
	ContentHash string
	BudgetLimit int
	BudgetUnit  string
	Language    string
	Summary     string
	RunID       string
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("cache path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("cache path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite cache %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the cached summary for an input identity, if present.
func (s *Store) Get(path, contentHash string, budgetLimit int, budgetUnit string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out string
	err := s.db.QueryRow(`
SELECT summary FROM summaries
WHERE path = ? AND content_hash = ? AND budget_limit = ? AND budget_unit = ?
`, path, contentHash, budgetLimit, budgetUnit).Scan(&out)
	if err == sql.ErrNoRows {
		observability.CacheMissesTotal.Inc()
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query summary cache: %w", err)
	}
	observability.CacheHitsTotal.Inc()
	return out, true, nil
}

// Put stores one summarization result, replacing a stale row for the same
// identity.
func (s *Store) Put(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
INSERT INTO summaries (path, content_hash, budget_limit, budget_unit, language, summary, run_id)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(path, content_hash, budget_limit, budget_unit) DO UPDATE SET
  language=excluded.language,
  summary=excluded.summary,
  run_id=excluded.run_id
`
	return s.withRetry("put summary", func() error {
		_, err := s.db.Exec(query,
			e.Path, e.ContentHash, e.BudgetLimit, e.BudgetUnit, e.Language, e.Summary, e.RunID)
		return err
	})
}

// PurgePath removes every cached row for a file, used when the watcher
// reports a deletion.
func (s *Store) PurgePath(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withRetry("purge path", func() error {
		_, err := s.db.Exec(`DELETE FROM summaries WHERE path = ?`, path)
		return err
	})
}

// Count returns the number of cached summaries.
func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM summaries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count summaries: %w", err)
	}
	return n, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		lower := strings.ToLower(err.Error())
		if !strings.Contains(lower, "busy") && !strings.Contains(lower, "locked") {
			break
		}
		time.Sleep(time.Duration(attempt*50) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, err)
}
