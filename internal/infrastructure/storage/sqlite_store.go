package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pagesummarizer/internal/domain/entity"
	"pagesummarizer/internal/domain/repository"

	_ "modernc.org/sqlite"
)

type sqliteStore struct {
	db *sql.DB
}

// SQLiteSummaryRepository is a saved-summary store that must be closed.
type SQLiteSummaryRepository interface {
	repository.SavedSummaryRepository
	Close() error
}

// NewSQLiteSummaryRepository opens the database at dbPath and creates the
// schema if needed.
func NewSQLiteSummaryRepository(dbPath string) (SQLiteSummaryRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}

	store := &sqliteStore{db: db}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *sqliteStore) initSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS saved_summaries (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			summary TEXT NOT NULL,
			saved_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_saved_summaries_saved_at ON saved_summaries(saved_at)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute schema query: %w", err)
		}
	}

	return nil
}

// Save inserts the summary or replaces the one with the same ID.
func (s *sqliteStore) Save(ctx context.Context, summary *entity.SavedSummary) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO saved_summaries (id, url, title, summary, saved_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			url = excluded.url,
			title = excluded.title,
			summary = excluded.summary,
			saved_at = excluded.saved_at`,
		summary.ID,
		summary.URL,
		summary.Title,
		summary.Summary,
		summary.Timestamp.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save summary: %w", err)
	}

	return nil
}

func (s *sqliteStore) List(ctx context.Context) ([]*entity.SavedSummary, error) {
	rows, err := s.db.QueryContext(
		ctx,
		"SELECT id, url, title, summary, saved_at FROM saved_summaries ORDER BY saved_at DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}
	defer rows.Close()

	var list []*entity.SavedSummary
	for rows.Next() {
		var (
			summary entity.SavedSummary
			savedAt int64
		)
		if err := rows.Scan(&summary.ID, &summary.URL, &summary.Title, &summary.Summary, &savedAt); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		summary.Timestamp = time.UnixMilli(savedAt)
		list = append(list, &summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summaries: %w", err)
	}

	return list, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
