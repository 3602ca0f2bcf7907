package entity

import "time"

// UntitledTitle is used when title generation fails after a good summary.
const UntitledTitle = "Untitled"

type SummaryResult struct {
	Summary string
	Title   string
}

// SummarizeResponse is the payload handed back to whoever asked for a summary.
// Exactly one of Summary or Error is set.
type SummarizeResponse struct {
	Summary string `json:"summary,omitempty"`
	Title   string `json:"title,omitempty"`
	Error   string `json:"error,omitempty"`
}

func NewErrorResponse(message string) SummarizeResponse {
	return SummarizeResponse{Error: message}
}

func (r SummarizeResponse) Failed() bool {
	return r.Error != ""
}

// SavedSummary is a summary the user chose to keep.
type SavedSummary struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSavedSummary(id, url, title, summary string, timestamp time.Time) *SavedSummary {
	return &SavedSummary{
		ID:        id,
		URL:       url,
		Title:     title,
		Summary:   summary,
		Timestamp: timestamp,
	}
}
