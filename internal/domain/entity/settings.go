package entity

import "strings"

const (
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
	ProviderBedrock = "bedrock"
)

const (
	DefaultEndpointURL = "https://api.openai.com/v1/chat/completions"
	DefaultModelName   = "gpt-4.1-nano"
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 500
)

// SummarizationSettings is a read-only snapshot of the user's API settings.
type SummarizationSettings struct {
	Provider    string  `json:"provider" yaml:"provider"`
	EndpointURL string  `json:"endpointUrl" yaml:"endpointUrl"`
	ModelName   string  `json:"modelName" yaml:"modelName"`
	APIKey      string  `json:"apiKey" yaml:"apiKey"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
	MaxTokens   int     `json:"maxTokens" yaml:"maxTokens"`
	Region      string  `json:"region,omitempty" yaml:"region,omitempty"`
}

func DefaultSummarizationSettings() SummarizationSettings {
	return SummarizationSettings{
		Provider:    ProviderOpenAI,
		EndpointURL: DefaultEndpointURL,
		ModelName:   DefaultModelName,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
}

func (s SummarizationSettings) HasAPIKey() bool {
	return strings.TrimSpace(s.APIKey) != ""
}
