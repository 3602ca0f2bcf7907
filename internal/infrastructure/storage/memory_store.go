package storage

import (
	"context"
	"sort"
	"sync"

	"pagesummarizer/internal/domain/entity"
	"pagesummarizer/internal/domain/repository"
)

type memoryStore struct {
	mu        sync.RWMutex
	summaries map[string]*entity.SavedSummary
}

// NewMemorySummaryRepository returns a store that lives as long as the process.
func NewMemorySummaryRepository() repository.SavedSummaryRepository {
	return &memoryStore{
		summaries: make(map[string]*entity.SavedSummary),
	}
}

func (s *memoryStore) Save(ctx context.Context, summary *entity.SavedSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := *summary
	s.summaries[summary.ID] = &saved
	return nil
}

func (s *memoryStore) List(ctx context.Context) ([]*entity.SavedSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*entity.SavedSummary, 0, len(s.summaries))
	for _, summary := range s.summaries {
		saved := *summary
		list = append(list, &saved)
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].Timestamp.Equal(list[j].Timestamp) {
			return list[i].ID > list[j].ID
		}
		return list[i].Timestamp.After(list[j].Timestamp)
	})
	return list, nil
}
