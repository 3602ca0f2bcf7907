package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"pagesummarizer/internal/domain/apperror"
	"pagesummarizer/internal/domain/entity"
)

type stubSettings struct {
	mu       sync.Mutex
	settings entity.SummarizationSettings
	err      error
	loads    int
}

func (s *stubSettings) Load(ctx context.Context) (entity.SummarizationSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	return s.settings, s.err
}

func (s *stubSettings) set(settings entity.SummarizationSettings) {
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
}

func settingsFor(endpoint string) entity.SummarizationSettings {
	settings := entity.DefaultSummarizationSettings()
	settings.EndpointURL = endpoint
	settings.APIKey = "sk-test"
	return settings
}

// chatServer answers each request with the next handler in order.
type chatServer struct {
	t        *testing.T
	mu       sync.Mutex
	requests []chatCompletionRequest
	headers  []http.Header
	handlers []http.HandlerFunc
}

func newChatServer(t *testing.T, handlers ...http.HandlerFunc) (*chatServer, *httptest.Server) {
	cs := &chatServer{t: t, handlers: handlers}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}

		cs.mu.Lock()
		n := len(cs.requests)
		cs.requests = append(cs.requests, req)
		cs.headers = append(cs.headers, r.Header.Clone())
		cs.mu.Unlock()

		if n >= len(cs.handlers) {
			t.Errorf("unexpected request #%d", n+1)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		cs.handlers[n](w, r)
	}))
	t.Cleanup(server.Close)
	return cs, server
}

func reply(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}
}

func status(code int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	}
}

func newTestSummarizer(settings *stubSettings) *Summarizer {
	return NewSummarizer(settings, Config{Timeout: 5 * time.Second})
}

func TestSummarizer_Success(t *testing.T) {
	cs, server := newChatServer(t, reply("  The summary.\nSecond line.  "), reply(" A Short Title \n"))
	settings := &stubSettings{settings: settingsFor(server.URL)}

	result, err := newTestSummarizer(settings).Summarize(context.Background(), "PAGE BODY", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Summary != "The summary.\nSecond line." {
		t.Errorf("unexpected summary: %q", result.Summary)
	}
	if result.Title != "A Short Title" {
		t.Errorf("unexpected title: %q", result.Title)
	}

	if len(cs.requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(cs.requests))
	}

	summaryReq := cs.requests[0]
	if summaryReq.Model != entity.DefaultModelName {
		t.Errorf("unexpected model: %s", summaryReq.Model)
	}
	if summaryReq.Temperature != 0.3 || summaryReq.MaxTokens != 500 {
		t.Errorf("unexpected sampling settings: %+v", summaryReq)
	}
	if len(summaryReq.Messages) != 2 || summaryReq.Messages[0].Role != "system" || summaryReq.Messages[1].Role != "user" {
		t.Fatalf("unexpected messages: %+v", summaryReq.Messages)
	}
	if !strings.HasSuffix(summaryReq.Messages[1].Content, "PAGE BODY") {
		t.Errorf("expected content at the end of the prompt, got %q", summaryReq.Messages[1].Content)
	}
	if !strings.Contains(summaryReq.Messages[1].Content, "Highlight key takeaways") {
		t.Errorf("expected web page template, got %q", summaryReq.Messages[1].Content)
	}

	titleReq := cs.requests[1]
	if titleReq.MaxTokens != 20 {
		t.Errorf("expected title max tokens 20, got %d", titleReq.MaxTokens)
	}
	if !strings.HasSuffix(titleReq.Messages[1].Content, "The summary.\nSecond line.") {
		t.Errorf("expected title prompt to embed the summary, got %q", titleReq.Messages[1].Content)
	}

	for i, h := range cs.headers {
		if got := h.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("request %d: unexpected authorization header %q", i, got)
		}
		if got := h.Get("Content-Type"); got != "application/json" {
			t.Errorf("request %d: unexpected content type %q", i, got)
		}
	}
}

func TestSummarizer_YouTubePrompt(t *testing.T) {
	cs, server := newChatServer(t, reply("summary"), reply("title"))
	settings := &stubSettings{settings: settingsFor(server.URL)}

	if _, err := newTestSummarizer(settings).Summarize(context.Background(), "TRANSCRIPT", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prompt := cs.requests[0].Messages[1].Content
	if !strings.Contains(prompt, "Transcript: TRANSCRIPT") {
		t.Errorf("expected YouTube template, got %q", prompt)
	}
}

func TestSummarizer_SummaryErrors(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		kind       apperror.Kind
		wantInText string
	}{
		{"unauthorized", status(http.StatusUnauthorized, `{"error":{"message":"bad key"}}`), apperror.KindAuth, "Invalid API key"},
		{"rate limited", status(http.StatusTooManyRequests, `{}`), apperror.KindRateLimit, "rate limit"},
		{"server message", status(http.StatusBadRequest, `{"error":{"message":"model not found"}}`), apperror.KindAPI, "API error (400): model not found"},
		{"status text fallback", status(http.StatusInternalServerError, `<html>oops</html>`), apperror.KindAPI, "API error (500): Internal Server Error"},
		{"missing choices", status(http.StatusOK, `{"choices":[]}`), apperror.KindFormat, "Invalid response format"},
		{"missing content", status(http.StatusOK, `{"choices":[{"message":{"role":"assistant"}}]}`), apperror.KindFormat, "Invalid response format"},
		{"not json", status(http.StatusOK, `not json`), apperror.KindFormat, "Invalid response format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, server := newChatServer(t, tt.handler)
			settings := &stubSettings{settings: settingsFor(server.URL)}

			result, err := newTestSummarizer(settings).Summarize(context.Background(), "content", false)
			if err == nil {
				t.Fatalf("expected error, got result %+v", result)
			}
			if apperror.KindOf(err) != tt.kind {
				t.Errorf("expected kind %s, got %s (%v)", tt.kind, apperror.KindOf(err), err)
			}
			if !strings.Contains(err.Error(), tt.wantInText) {
				t.Errorf("expected %q in error, got %q", tt.wantInText, err.Error())
			}
			if len(cs.requests) != 1 {
				t.Errorf("expected no title request after a failed summary, got %d requests", len(cs.requests))
			}
		})
	}
}

func TestSummarizer_TitleFailureFallsBackToUntitled(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", status(http.StatusInternalServerError, `{"error":{"message":"boom"}}`)},
		{"rate limited", status(http.StatusTooManyRequests, `{}`)},
		{"malformed", status(http.StatusOK, `{"choices":[]}`)},
		{"blank title", reply("   ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, server := newChatServer(t, reply("A summary."), tt.handler)
			settings := &stubSettings{settings: settingsFor(server.URL)}

			result, err := newTestSummarizer(settings).Summarize(context.Background(), "content", false)
			if err != nil {
				t.Fatalf("expected title failure to be non-fatal, got %v", err)
			}
			if result.Title != "Untitled" {
				t.Errorf("expected Untitled, got %q", result.Title)
			}
			if result.Summary != "A summary." {
				t.Errorf("unexpected summary: %q", result.Summary)
			}
		})
	}
}

func TestSummarizer_MissingAPIKey(t *testing.T) {
	cs, server := newChatServer(t)

	for _, key := range []string{"", "   "} {
		settings := settingsFor(server.URL)
		settings.APIKey = key

		_, err := newTestSummarizer(&stubSettings{settings: settings}).Summarize(context.Background(), "content", false)
		if !apperror.Is(err, apperror.KindConfig) || !errors.Is(err, apperror.ErrMissingAPIKey) {
			t.Errorf("expected missing key error for key %q, got %v", key, err)
		}
		if !strings.Contains(err.Error(), "API key is missing") {
			t.Errorf("unexpected message: %v", err)
		}
	}

	if len(cs.requests) != 0 {
		t.Errorf("expected no network calls, got %d", len(cs.requests))
	}
}

func TestSummarizer_SettingsLoadFailure(t *testing.T) {
	settings := &stubSettings{err: errors.New("store unavailable")}

	_, err := newTestSummarizer(settings).Summarize(context.Background(), "content", false)
	if !apperror.Is(err, apperror.KindConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Failed to load settings: store unavailable") {
		t.Errorf("unexpected message: %v", err)
	}
	if apperror.IsCredentialError(err) {
		t.Errorf("settings load failure must not read as a credential error: %v", err)
	}
}

func TestSummarizer_ReadsSettingsEveryCall(t *testing.T) {
	cs, server := newChatServer(t, reply("s1"), reply("t1"), reply("s2"), reply("t2"))
	settings := &stubSettings{settings: settingsFor(server.URL)}
	summarizer := newTestSummarizer(settings)

	if _, err := summarizer.Summarize(context.Background(), "content", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated := settingsFor(server.URL)
	updated.ModelName = "other-model"
	updated.APIKey = "sk-rotated"
	settings.set(updated)

	if _, err := summarizer.Summarize(context.Background(), "content", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if settings.loads != 2 {
		t.Errorf("expected settings to be loaded twice, got %d", settings.loads)
	}
	if cs.requests[2].Model != "other-model" {
		t.Errorf("expected updated model, got %s", cs.requests[2].Model)
	}
	if got := cs.headers[2].Get("Authorization"); got != "Bearer sk-rotated" {
		t.Errorf("expected rotated key, got %q", got)
	}
}

func TestSummarizer_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()

	settings := &stubSettings{settings: settingsFor(endpoint)}

	_, err := newTestSummarizer(settings).Summarize(context.Background(), "content", false)
	if !apperror.Is(err, apperror.KindNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if !strings.HasPrefix(apperror.UserMessage(err), "Network error: Could not connect to API endpoint.") {
		t.Errorf("unexpected message: %q", apperror.UserMessage(err))
	}
}

func TestSummarizer_UnknownProvider(t *testing.T) {
	settings := settingsFor("http://127.0.0.1:0")
	settings.Provider = "mystery"

	_, err := newTestSummarizer(&stubSettings{settings: settings}).Summarize(context.Background(), "content", false)
	if !apperror.Is(err, apperror.KindConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
	if !strings.Contains(err.Error(), "mystery") {
		t.Errorf("expected provider name in error, got %v", err)
	}
}
