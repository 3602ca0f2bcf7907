package youtube

import (
	"context"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"pagesummarizer/internal/domain/entity"
	"pagesummarizer/internal/domain/repository"
)

const (
	DefaultPollInterval = 200 * time.Millisecond
	DefaultMaxAttempts  = 15

	minTranscriptChars = 100
)

const (
	msgNotVideoPage  = "Not a YouTube video page"
	msgNoVideoID     = "Could not identify YouTube video ID"
	msgOpenFailed    = "Automatic transcript retrieval failed."
	msgUnavailable   = "Transcript not available or too short."
	msgSnapshotError = "Error retrieving transcript: "
)

// pollState tracks opening the transcript panel:
// idle -> triggered -> polling(n) -> succeeded | timedOut.
type pollState int

const (
	stateIdle pollState = iota
	stateTriggered
	statePolling
	stateSucceeded
	stateTimedOut
	stateNoControl
	stateTriggerFailed
)

func (s pollState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateTriggered:
		return "triggered"
	case statePolling:
		return "polling"
	case stateSucceeded:
		return "succeeded"
	case stateTimedOut:
		return "timed_out"
	case stateNoControl:
		return "no_control"
	case stateTriggerFailed:
		return "trigger_failed"
	default:
		return "unknown"
	}
}

// Config bounds the wait for the transcript panel. Zero fields select the
// defaults.
type Config struct {
	PollInterval time.Duration
	MaxAttempts  int
}

// Extractor reads caption transcripts out of a YouTube page's DOM.
type Extractor struct {
	pollInterval time.Duration
	maxAttempts  int
}

// NewExtractor returns an extractor that polls up to MaxAttempts times,
// PollInterval apart, after opening the transcript panel.
func NewExtractor(cfg Config) *Extractor {
	pollInterval := cfg.PollInterval
	if pollInterval == 0 {
		pollInterval = DefaultPollInterval
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = DefaultMaxAttempts
	}

	return &Extractor{
		pollInterval: pollInterval,
		maxAttempts:  maxAttempts,
	}
}

// Extract never returns a Go error: every failure is reported in the result.
func (e *Extractor) Extract(ctx context.Context, tab repository.Tab) entity.TranscriptResult {
	pageURL, err := url.Parse(tab.URL())
	if err != nil || !IsVideoPage(pageURL) {
		return entity.NewTranscriptFailure("", "", entity.TranscriptNotVideoPage, msgNotVideoPage)
	}

	doc, err := tab.Snapshot(ctx)
	if err != nil {
		return entity.NewTranscriptFailure("", "", entity.TranscriptSnapshotFailed, msgSnapshotError+err.Error())
	}

	videoID := VideoID(pageURL, doc)
	if videoID == "" {
		return entity.NewTranscriptFailure("", "", entity.TranscriptNoVideoID, msgNoVideoID)
	}
	title := VideoTitle(doc)

	transcript := readSegments(doc)
	if transcript == "" {
		var state pollState
		transcript, state = e.openTranscript(ctx, tab, doc)

		logrus.WithFields(logrus.Fields{
			"videoId": videoID,
			"state":   state.String(),
		}).Debug("Transcript panel lookup finished")

		if state == stateTimedOut || state == stateTriggerFailed {
			return entity.NewTranscriptFailure(videoID, title, entity.TranscriptOpenFailed, msgOpenFailed)
		}
	}

	if utf8.RuneCountInString(transcript) < minTranscriptChars {
		return entity.NewTranscriptFailure(videoID, title, entity.TranscriptUnavailable, msgUnavailable)
	}

	return entity.NewTranscript(videoID, title, transcript)
}

// openTranscript clicks the transcript control and polls until segments show
// up or the attempt budget runs out.
func (e *Extractor) openTranscript(ctx context.Context, tab repository.Tab, doc *goquery.Document) (string, pollState) {
	state := stateIdle
	attempt := 0

	for {
		switch state {
		case stateIdle:
			selector := findTranscriptControl(doc)
			if selector == "" {
				return "", stateNoControl
			}
			if err := e.click(ctx, tab, selector); err != nil {
				logrus.WithError(err).WithField("selector", selector).Warn("Failed to open transcript panel")
				return "", stateTriggerFailed
			}
			state = stateTriggered

		case stateTriggered, statePolling:
			if state == statePolling {
				if err := wait(ctx, e.pollInterval); err != nil {
					return "", stateTimedOut
				}
			}

			current, err := tab.Snapshot(ctx)
			if err != nil {
				logrus.WithError(err).Warn("Failed to read page while waiting for transcript")
				return "", stateTriggerFailed
			}
			if text := readSegments(current); text != "" {
				return text, stateSucceeded
			}
			if attempt >= e.maxAttempts {
				return "", stateTimedOut
			}
			attempt++
			state = statePolling

		default:
			return "", state
		}
	}
}

// click bounds the trigger by the polling budget so a control that never
// becomes clickable ends as a failed open instead of blocking.
func (e *Extractor) click(ctx context.Context, tab repository.Tab, selector string) error {
	timeout := e.pollInterval * time.Duration(e.maxAttempts)
	if timeout <= 0 {
		timeout = DefaultPollInterval * DefaultMaxAttempts
	}

	clickCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return tab.Click(clickCtx, selector)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
