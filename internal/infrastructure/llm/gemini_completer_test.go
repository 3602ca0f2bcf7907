package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"google.golang.org/genai"

	"pagesummarizer/internal/domain/apperror"
	"pagesummarizer/internal/domain/entity"
)

func TestBuildGeminiConfig(t *testing.T) {
	cfg := buildGeminiConfig(chatRequest{
		System:      "system prompt",
		Temperature: 0.3,
		MaxTokens:   20,
	})

	if cfg.MaxOutputTokens != 20 {
		t.Errorf("expected max output tokens 20, got %d", cfg.MaxOutputTokens)
	}
	if cfg.Temperature == nil || *cfg.Temperature != float32(0.3) {
		t.Errorf("expected temperature 0.3, got %v", cfg.Temperature)
	}
	if cfg.SystemInstruction == nil || len(cfg.SystemInstruction.Parts) != 1 || cfg.SystemInstruction.Parts[0].Text != "system prompt" {
		t.Errorf("unexpected system instruction: %+v", cfg.SystemInstruction)
	}
}

func TestMapGeminiError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    apperror.Kind
		message string
	}{
		{"unauthorized", genai.APIError{Code: http.StatusUnauthorized, Message: "API key not valid"}, apperror.KindAuth, "Invalid API key. Please check your API key in the settings."},
		{"quota", genai.APIError{Code: http.StatusTooManyRequests}, apperror.KindRateLimit, "API rate limit exceeded. Please try again later or check your subscription tier."},
		{"server message", genai.APIError{Code: http.StatusBadRequest, Message: "model not found"}, apperror.KindAPI, "API error (400): model not found"},
		{"status text", genai.APIError{Code: http.StatusServiceUnavailable}, apperror.KindAPI, "API error (503): Service Unavailable"},
		{"transport", errors.New("connection reset"), apperror.KindNetwork, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapGeminiError(tt.err)
			if apperror.KindOf(err) != tt.kind {
				t.Fatalf("expected %s, got %s", tt.kind, apperror.KindOf(err))
			}
			if tt.message != "" && apperror.UserMessage(err) != tt.message {
				t.Errorf("expected %q, got %q", tt.message, apperror.UserMessage(err))
			}
		})
	}
}

func TestCompleterFactory(t *testing.T) {
	factory := newCompleterFactory(http.DefaultClient)
	ctx := context.Background()

	settings := entity.DefaultSummarizationSettings()
	settings.APIKey = "key"

	c, err := factory(ctx, settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.(*openAICompleter); !ok {
		t.Errorf("expected openAICompleter for default provider, got %T", c)
	}

	settings.Provider = entity.ProviderGemini
	c, err = factory(ctx, settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.(*geminiCompleter); !ok {
		t.Errorf("expected geminiCompleter, got %T", c)
	}

	settings.Provider = "unknown-provider"
	if _, err := factory(ctx, settings); !apperror.Is(err, apperror.KindConfig) {
		t.Errorf("expected config error for unknown provider, got %v", err)
	}
}
