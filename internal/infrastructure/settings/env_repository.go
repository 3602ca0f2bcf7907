package settings

import (
	"context"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"pagesummarizer/internal/domain/entity"
	"pagesummarizer/internal/domain/repository"
)

// EnvPrefix namespaces the summarization settings, e.g. SUMMARIZER_API_KEY.
const EnvPrefix = "SUMMARIZER"

type envSettings struct {
	Provider    string  `envconfig:"PROVIDER" default:"openai"`
	EndpointURL string  `envconfig:"ENDPOINT_URL" default:"https://api.openai.com/v1/chat/completions"`
	ModelName   string  `envconfig:"MODEL_NAME" default:"gpt-4.1-nano"`
	APIKey      string  `envconfig:"API_KEY"`
	Temperature float64 `envconfig:"TEMPERATURE" default:"0.3"`
	MaxTokens   int     `envconfig:"MAX_TOKENS" default:"500"`
	Region      string  `envconfig:"REGION"`
}

// EnvRepository reads settings from the process environment on every Load.
type EnvRepository struct {
	prefix string
}

// NewEnvRepository reads SUMMARIZER_* variables.
func NewEnvRepository() *EnvRepository {
	return &EnvRepository{prefix: EnvPrefix}
}

var _ repository.SettingsRepository = (*EnvRepository)(nil)

func (r *EnvRepository) Load(ctx context.Context) (entity.SummarizationSettings, error) {
	var s envSettings
	if err := envconfig.Process(r.prefix, &s); err != nil {
		return entity.SummarizationSettings{}, errors.Wrap(err, "invalid summarization settings in environment")
	}

	return entity.SummarizationSettings{
		Provider:    s.Provider,
		EndpointURL: s.EndpointURL,
		ModelName:   s.ModelName,
		APIKey:      s.APIKey,
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
		Region:      s.Region,
	}, nil
}
