package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"pagesummarizer/internal/domain/apperror"
	"pagesummarizer/internal/domain/entity"
	"pagesummarizer/internal/domain/repository"
)

const (
	msgNoActiveTab          = "No active tab found"
	msgURLMismatch          = "URL mismatch. Please close and reopen the extension."
	msgTranscriptOpenFailed = "Could not retrieve YouTube transcript automatically. Please try again."

	apiKeyGuidance = " To configure your API key, set apiKey in the settings file or SUMMARIZER_API_KEY in the environment."
)

// ContentExtractor reads an ordinary web page out of a tab.
type ContentExtractor interface {
	ExtractTab(ctx context.Context, tab repository.Tab) (entity.PageContent, error)
}

// TranscriptExtractor reads a video transcript out of a tab. It reports
// failures in the result rather than as an error.
type TranscriptExtractor interface {
	Extract(ctx context.Context, tab repository.Tab) entity.TranscriptResult
}

// Extraction is what the active tab yielded: page content for web pages, a
// transcript result (possibly failed) for videos.
type Extraction struct {
	ContentType entity.ContentType       `json:"contentType"`
	Page        *entity.PageContent      `json:"page,omitempty"`
	Transcript  *entity.TranscriptResult `json:"transcript,omitempty"`
}

// SummarizeService runs the summarize pipeline against the active tab.
type SummarizeService struct {
	tabs        repository.TabRepository
	content     ContentExtractor
	transcripts TranscriptExtractor
	summarizer  repository.SummarizerRepository
	saved       repository.SavedSummaryRepository

	now   func() time.Time
	newID func() string
}

// NewSummarizeService wires the service to its tabs, extractors, summarizer
// and saved-summary store.
func NewSummarizeService(
	tabs repository.TabRepository,
	content ContentExtractor,
	transcripts TranscriptExtractor,
	summarizer repository.SummarizerRepository,
	saved repository.SavedSummaryRepository,
) *SummarizeService {
	return &SummarizeService{
		tabs:        tabs,
		content:     content,
		transcripts: transcripts,
		summarizer:  summarizer,
		saved:       saved,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// SummarizePage summarizes the page at pageURL, which must be the one shown
// in the active tab. Every failure is reported in the response.
func (s *SummarizeService) SummarizePage(ctx context.Context, pageURL string) (resp entity.SummarizeResponse) {
	log := logrus.WithField("url", pageURL)

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Summarization panicked")
			resp = entity.NewErrorResponse(fmt.Sprintf("Unexpected error: %v", r))
		}
	}()

	contentType := entity.ClassifyURL(pageURL)
	log = log.WithField("contentType", contentType)

	tab, err := s.activeTab(ctx)
	if err != nil {
		log.WithError(err).Warn("No tab to summarize")
		return entity.NewErrorResponse(apperror.UserMessage(err))
	}
	if tab.URL() != pageURL {
		log.WithField("tabUrl", tab.URL()).Warn("Requested URL does not match the active tab")
		return entity.NewErrorResponse(msgURLMismatch)
	}

	text, err := s.extractText(ctx, tab, contentType)
	if err != nil {
		log.WithError(err).Warn("Extraction failed")
		return entity.NewErrorResponse(apperror.UserMessage(err))
	}

	result, err := s.summarizer.Summarize(ctx, text, contentType.IsYouTube())
	if err != nil {
		log.WithError(err).WithField("kind", apperror.KindOf(err)).Error("Summarization failed")

		message := apperror.UserMessage(err)
		if apperror.IsCredentialError(err) {
			message += apiKeyGuidance
		}
		return entity.NewErrorResponse(message)
	}

	log.WithField("title", result.Title).Info("Page summarized")

	return entity.SummarizeResponse{
		Summary: FormatSummary(result.Title, result.Summary),
		Title:   result.Title,
	}
}

// Extract runs the extractor matching the active tab's URL without
// summarizing.
func (s *SummarizeService) Extract(ctx context.Context) (*Extraction, error) {
	tab, err := s.activeTab(ctx)
	if err != nil {
		return nil, err
	}

	contentType := entity.ClassifyURL(tab.URL())
	if contentType.IsYouTube() {
		result := s.transcripts.Extract(ctx, tab)
		return &Extraction{ContentType: contentType, Transcript: &result}, nil
	}

	page, err := s.content.ExtractTab(ctx, tab)
	if err != nil {
		return nil, err
	}
	return &Extraction{ContentType: contentType, Page: &page}, nil
}

// Navigate points the active tab at pageURL.
func (s *SummarizeService) Navigate(ctx context.Context, pageURL string) (string, error) {
	tab, err := s.tabs.Navigate(ctx, pageURL)
	if err != nil {
		return "", apperror.Extraction(fmt.Sprintf("Could not load %s", pageURL), err)
	}
	return tab.URL(), nil
}

// Save stores a successful summary for later reading.
func (s *SummarizeService) Save(ctx context.Context, pageURL string, resp entity.SummarizeResponse) (*entity.SavedSummary, error) {
	if resp.Failed() || resp.Summary == "" {
		return nil, errors.New("only successful summaries can be saved")
	}

	saved := entity.NewSavedSummary(s.newID(), pageURL, resp.Title, resp.Summary, s.now().UTC())
	if err := s.saved.Save(ctx, saved); err != nil {
		return nil, errors.Wrap(err, "failed to save summary")
	}

	logrus.WithFields(logrus.Fields{
		"id":  saved.ID,
		"url": pageURL,
	}).Info("Summary saved")
	return saved, nil
}

// Saved lists saved summaries, newest first.
func (s *SummarizeService) Saved(ctx context.Context) ([]*entity.SavedSummary, error) {
	list, err := s.saved.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list saved summaries")
	}
	return list, nil
}

func (s *SummarizeService) activeTab(ctx context.Context) (repository.Tab, error) {
	tab, err := s.tabs.ActiveTab(ctx)
	if err != nil {
		return nil, apperror.Extraction(msgNoActiveTab, err)
	}
	if tab == nil {
		return nil, apperror.Extraction(msgNoActiveTab, nil)
	}
	return tab, nil
}

func (s *SummarizeService) extractText(ctx context.Context, tab repository.Tab, contentType entity.ContentType) (string, error) {
	if contentType.IsYouTube() {
		result := s.transcripts.Extract(ctx, tab)
		if result.OK() {
			return result.Transcript, nil
		}
		if result.Status == entity.TranscriptOpenFailed {
			return "", apperror.Extraction(msgTranscriptOpenFailed, nil)
		}
		return "", apperror.Extraction(result.Error, nil)
	}

	page, err := s.content.ExtractTab(ctx, tab)
	if err != nil {
		return "", err
	}
	return page.Content, nil
}
