package repository

import (
	"context"

	"pagesummarizer/internal/domain/entity"
)

type SavedSummaryRepository interface {
	Save(ctx context.Context, summary *entity.SavedSummary) error
	// List returns saved summaries, newest first.
	List(ctx context.Context) ([]*entity.SavedSummary, error)
}
