package llm

import (
	"context"
	"fmt"
	"net/http"

	"pagesummarizer/internal/domain/apperror"
	"pagesummarizer/internal/domain/entity"
)

// chatRequest is one system/user exchange sent to a provider.
type chatRequest struct {
	Model       string
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// completer sends a single chat request. Errors are *apperror.Error.
type completer interface {
	Complete(ctx context.Context, req chatRequest) (string, error)
}

type completerFactory func(ctx context.Context, settings entity.SummarizationSettings) (completer, error)

// newCompleterFactory selects the provider named in the settings on every call.
func newCompleterFactory(httpClient *http.Client) completerFactory {
	return func(ctx context.Context, settings entity.SummarizationSettings) (completer, error) {
		switch settings.Provider {
		case entity.ProviderOpenAI, "":
			return newOpenAICompleter(httpClient, settings), nil
		case entity.ProviderGemini:
			return newGeminiCompleter(ctx, httpClient, settings)
		case entity.ProviderBedrock:
			return newBedrockCompleter(ctx, httpClient, settings)
		default:
			return nil, apperror.Config(fmt.Sprintf("Unknown summarization provider: %s", settings.Provider), nil)
		}
	}
}
