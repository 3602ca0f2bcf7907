package llm

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/genai"

	"pagesummarizer/internal/domain/apperror"
	"pagesummarizer/internal/domain/entity"
)

// geminiCompleter uses the Gemini API through the genai SDK. The endpoint
// URL setting does not apply.
type geminiCompleter struct {
	client *genai.Client
}

func newGeminiCompleter(ctx context.Context, httpClient *http.Client, settings entity.SummarizationSettings) (*geminiCompleter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     settings.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, apperror.Config("Failed to create Gemini client", err)
	}
	return &geminiCompleter{client: client}, nil
}

func (c *geminiCompleter) Complete(ctx context.Context, req chatRequest) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.User), buildGeminiConfig(req))
	if err != nil {
		return "", mapGeminiError(err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", apperror.Format(msgInvalidFormat, nil)
	}
	return resp.Text(), nil
}

func buildGeminiConfig(req chatRequest) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Temperature:       genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens:   int32(req.MaxTokens),
	}
}

func mapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apperror.FromStatus(apiErr.Code, apiErr.Message)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apperror.FromStatus(apiErrPtr.Code, apiErrPtr.Message)
	}
	return apperror.Network(err)
}
