package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"pagesummarizer/internal/domain/apperror"
	"pagesummarizer/internal/domain/entity"
)

const (
	actionSummarize = "summarize"
	maxBodyBytes    = 1 << 20
)

type summarizeRequest struct {
	Action string `json:"action"`
	URL    string `json:"url"`
}

type navigateRequest struct {
	URL string `json:"url"`
}

type saveRequest struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// handleSummarize answers with 200 and the summarize payload, which carries
// pipeline failures in its error field.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Action != actionSummarize {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Unknown action: %q", req.Action))
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	respondJSON(w, http.StatusOK, s.service.SummarizePage(r.Context(), req.URL))
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := decodeJSON(r, &req); err != nil || req.URL == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	finalURL, err := s.service.Navigate(r.Context(), req.URL)
	if err != nil {
		s.logError(r, err, "Navigation failed")
		respondError(w, http.StatusBadGateway, apperror.UserMessage(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": finalURL})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	extraction, err := s.service.Extract(r.Context())
	if err != nil {
		s.logError(r, err, "Extraction failed")
		status := http.StatusInternalServerError
		if apperror.Is(err, apperror.KindExtraction) {
			status = http.StatusConflict
		}
		respondError(w, status, apperror.UserMessage(err))
		return
	}

	respondJSON(w, http.StatusOK, extraction)
}

func (s *Server) handleSaveSummary(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	saved, err := s.service.Save(r.Context(), req.URL, entity.SummarizeResponse{
		Summary: req.Summary,
		Title:   req.Title,
	})
	if err != nil {
		s.logError(r, err, "Saving summary failed")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListSummaries(w http.ResponseWriter, r *http.Request) {
	list, err := s.service.Saved(r.Context())
	if err != nil {
		s.logError(r, err, "Listing summaries failed")
		respondError(w, http.StatusInternalServerError, "Could not list saved summaries")
		return
	}
	if list == nil {
		list = []*entity.SavedSummary{}
	}

	respondJSON(w, http.StatusOK, list)
}

func (s *Server) logError(r *http.Request, err error, msg string) {
	s.logger.WithFields(logrus.Fields{
		"request_id": RequestIDFrom(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
	}).WithError(err).Error(msg)
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("Failed to write response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, entity.NewErrorResponse(message))
}
