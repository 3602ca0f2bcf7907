package repository

import (
	"context"

	"pagesummarizer/internal/domain/entity"
)

// SummarizerRepository turns extracted text into a summary and a title.
type SummarizerRepository interface {
	// Summarize fails with an *apperror.Error; a failed title call is not a failure.
	Summarize(ctx context.Context, content string, isYouTube bool) (*entity.SummaryResult, error)
}
