package repository

import (
	"context"

	"pagesummarizer/internal/domain/entity"
)

// SettingsRepository reads the current summarization settings. Implementations
// must not cache: every Load reflects the store at call time.
type SettingsRepository interface {
	Load(ctx context.Context) (entity.SummarizationSettings, error)
}
