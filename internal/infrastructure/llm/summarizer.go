package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"pagesummarizer/internal/domain/apperror"
	"pagesummarizer/internal/domain/entity"
	"pagesummarizer/internal/domain/repository"
)

// Config holds transport settings; API settings come from the settings
// repository on every call.
type Config struct {
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Summarizer produces a summary and then a title with two sequential calls.
type Summarizer struct {
	settings     repository.SettingsRepository
	newCompleter completerFactory
}

// NewSummarizer returns a summarizer that reads settings from the
// repository on every call.
func NewSummarizer(settings repository.SettingsRepository, cfg Config) *Summarizer {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Summarizer{
		settings:     settings,
		newCompleter: newCompleterFactory(client),
	}
}

var _ repository.SummarizerRepository = (*Summarizer)(nil)

// Summarize asks for a summary, then for a title. A failed title call falls
// back to "Untitled".
func (s *Summarizer) Summarize(ctx context.Context, content string, isYouTube bool) (*entity.SummaryResult, error) {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, apperror.Config(fmt.Sprintf("Failed to load settings: %v", err), nil)
	}
	if !settings.HasAPIKey() {
		return nil, apperror.MissingAPIKey()
	}

	c, err := s.newCompleter(ctx, settings)
	if err != nil {
		return nil, err
	}

	log := logrus.WithFields(logrus.Fields{
		"provider": settings.Provider,
		"model":    settings.ModelName,
	})

	summary, err := c.Complete(ctx, chatRequest{
		Model:       settings.ModelName,
		System:      summarySystemPrompt,
		User:        summaryPrompt(content, isYouTube),
		Temperature: settings.Temperature,
		MaxTokens:   settings.MaxTokens,
	})
	if err != nil {
		log.WithError(err).Error("Summary request failed")
		return nil, err
	}
	summary = strings.TrimSpace(summary)

	title, err := c.Complete(ctx, chatRequest{
		Model:       settings.ModelName,
		System:      titleSystemPrompt,
		User:        titlePrompt(summary),
		Temperature: settings.Temperature,
		MaxTokens:   titleMaxTokens,
	})
	if err != nil {
		log.WithError(err).Warn("Title generation failed, using placeholder")
		title = entity.UntitledTitle
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = entity.UntitledTitle
	}

	log.WithField("summaryChars", len(summary)).Info("Summarized content")

	return &entity.SummaryResult{
		Summary: summary,
		Title:   title,
	}, nil
}
